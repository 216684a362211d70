package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"findtern_backend/internal/handlers"
	"findtern_backend/internal/metrics"
	"findtern_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAppHandlers() *handlers.AppHandlers {
	base := handlers.NewBaseHandler(validator.New())
	return &handlers.AppHandlers{
		AuthHandler:       handlers.NewAuthHandler(base, nil),
		EmployerHandler:   handlers.NewEmployerHandler(base, nil, nil),
		InternHandler:     handlers.NewInternHandler(base, nil),
		OnboardingHandler: handlers.NewOnboardingHandler(base, nil, nil),
		InterviewHandler:  handlers.NewInterviewHandler(base, nil),
		ProposalHandler:   handlers.NewProposalHandler(base, nil),
		ShortlistHandler:  handlers.NewShortlistHandler(base, nil),
		AnalyticsHandler:  handlers.NewAnalyticsHandler(base, nil),
		CalendarHandler:   handlers.NewCalendarHandler(base, nil),
	}
}

func TestRegisterRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	healthErr := error(nil)
	r := gin.New()
	// регистрация паникует при конфликте маршрутов
	require.NotPanics(t, func() {
		RegisterRoutes(r, newAppHandlers(), Options{
			Metrics: metrics.New(),
			Health:  func(context.Context) error { return healthErr },
		})
	})

	paths := map[string]bool{}
	for _, route := range r.Routes() {
		paths[route.Method+" "+route.Path] = true
	}
	for _, want := range []string{
		"POST /api/auth/signup",
		"POST /api/auth/employer/signup",
		"POST /api/admin/login",
		"GET /api/admin/analytics",
		"PUT /api/employer/:id",
		"DELETE /api/employer/:id/projects/:projectId",
		"GET /api/employer/:id/interviews/slot-window",
		"PUT /api/employer/:id/interviews/:interviewId/reschedule",
		"PUT /api/interviews/:id/select-slot",
		"GET /api/interns/:id/interviews",
		"GET /api/interns/:id/proposals",
		"PUT /api/proposals/:id",
		"PUT /api/onboarding/:userId/media/:key",
		"POST /api/onboarding/:userId/media/commit",
		"DELETE /api/employer/:id/compare/:internId",
		"PUT /api/employer/:id/cart",
		"GET /api/calendar/google/callback",
		"POST /api/users/:id/change-password",
		"GET /metrics",
		"GET /swagger/*any",
	} {
		assert.True(t, paths[want], want)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	healthErr = errors.New("db down")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
