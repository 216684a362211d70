package handlers

import (
	"net/http"

	"findtern_backend/internal/auth"
	"findtern_backend/internal/middleware"
	"findtern_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	*BaseHandler
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(base *BaseHandler, analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:      base,
		analyticsService: analyticsService,
	}
}

func (h *AnalyticsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequirePermission(auth.PermAnalyticsRead))
	{
		admin.GET("/analytics", h.GetPlatformAnalytics)
	}
}

// GetPlatformAnalytics godoc
// @Summary Сводка по платформе
// @Description Счетчики стажеров, работодателей, проектов, статусы офферов и интервью, регистрации за 7 и 30 дней
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.AnalyticsResponse
// @Failure 403 {object} apperrors.ErrorResponse "Только для админа"
// @Router /admin/analytics [get]
func (h *AnalyticsHandler) GetPlatformAnalytics(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	analytics, err := h.analyticsService.GetPlatformAnalytics(h.GetDB(c), actor)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, analytics)
}
