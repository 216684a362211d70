package handlers

import (
	"net/http"

	"findtern_backend/internal/middleware"
	"findtern_backend/internal/models"
	"findtern_backend/internal/services"
	"findtern_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type CalendarHandler struct {
	*BaseHandler
	calendarService services.CalendarService
}

func NewCalendarHandler(base *BaseHandler, calendarService services.CalendarService) *CalendarHandler {
	return &CalendarHandler{
		BaseHandler:     base,
		calendarService: calendarService,
	}
}

func (h *CalendarHandler) RegisterRoutes(rg *gin.RouterGroup) {
	employer := rg.Group("/employer/:id/calendar")
	employer.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleEmployer, models.UserRoleAdmin))
	{
		employer.GET("/connect", h.Connect)
	}

	// редирект от Google приходит без нашего JWT
	rg.GET("/calendar/google/callback", h.Callback)
}

// Connect godoc
// @Summary Подключение Google Calendar
// @Tags calendar
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID работодателя"
// @Success 200 {object} dto.CalendarConnectResponse
// @Router /employer/{id}/calendar/connect [get]
func (h *CalendarHandler) Connect(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	response, err := h.calendarService.ConnectStatus(h.GetDB(c), actor, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Callback godoc
// @Summary OAuth callback Google
// @Tags calendar
// @Produce json
// @Param code query string true "Код авторизации"
// @Param state query string true "Подписанный state из connectUrl"
// @Success 200 {object} dto.CalendarCallbackResponse
// @Failure 400 {object} apperrors.ErrorResponse "Неверный state"
// @Router /calendar/google/callback [get]
func (h *CalendarHandler) Callback(c *gin.Context) {
	var query dto.CalendarCallbackQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	response, err := h.calendarService.HandleCallback(c.Request.Context(), h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
