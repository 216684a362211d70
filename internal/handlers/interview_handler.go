package handlers

import (
	"net/http"

	"findtern_backend/internal/auth"
	"findtern_backend/internal/middleware"
	"findtern_backend/internal/models"
	"findtern_backend/internal/services"
	"findtern_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type InterviewHandler struct {
	*BaseHandler
	interviewService services.InterviewService
}

func NewInterviewHandler(base *BaseHandler, interviewService services.InterviewService) *InterviewHandler {
	return &InterviewHandler{
		BaseHandler:      base,
		interviewService: interviewService,
	}
}

func (h *InterviewHandler) RegisterRoutes(rg *gin.RouterGroup) {
	employer := rg.Group("/employer/:id/interviews")
	employer.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleEmployer, models.UserRoleAdmin))
	{
		employer.POST("", h.CreateInterview)
		employer.GET("", h.ListEmployerInterviews)
		employer.GET("/slot-window", h.SlotWindow)
		employer.PUT("/:interviewId/reschedule", h.RescheduleInterview)
		employer.POST("/:interviewId/cancel", h.CancelInterview)
	}

	intern := rg.Group("/interns/:id/interviews")
	intern.Use(middleware.AuthMiddleware())
	{
		intern.GET("", h.ListInternInterviews)
	}

	interviews := rg.Group("/interviews")
	interviews.Use(middleware.AuthMiddleware())
	{
		interviews.GET("/:id", h.GetInterview)
		interviews.PUT("/:id/select-slot", middleware.RequirePermission(auth.PermInterviewsSelect), h.SelectSlot)
	}
}

// CreateInterview godoc
// @Summary Предложить стажеру три слота интервью
// @Description meeting сообщает, готов ли календарь; встреча создается после выбора слота
// @Tags interviews
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID работодателя"
// @Param request body dto.CreateInterviewRequest true "Слоты в формате YYYY-MM-DDTHH:mm"
// @Success 201 {object} dto.InterviewWithMeeting
// @Failure 400 {object} apperrors.ErrorResponse "Слоты вне окна или совпадают"
// @Router /employer/{id}/interviews [post]
func (h *InterviewHandler) CreateInterview(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.CreateInterviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.interviewService.CreateInterview(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ListEmployerInterviews godoc
// @Summary Интервью работодателя
// @Tags interviews
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID работодателя"
// @Param status query string false "pending | scheduled | completed | expired | cancelled"
// @Param internId query string false "ID стажера"
// @Success 200 {array} dto.InterviewResponse
// @Router /employer/{id}/interviews [get]
func (h *InterviewHandler) ListEmployerInterviews(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var query dto.InterviewListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	interviews, err := h.interviewService.ListEmployerInterviews(h.GetDB(c), actor, c.Param("id"), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, interviews)
}

// SlotWindow godoc
// @Summary Окно выбора слотов
// @Description Границы окна, слоты по умолчанию и 48 вариантов времени на дату
// @Tags interviews
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID работодателя"
// @Param date query string false "YYYY-MM-DD, по умолчанию сегодня"
// @Param timezone query string false "IANA часовой пояс"
// @Param selected query string false "Уже выбранные слоты через запятую"
// @Param editing query int false "Номер редактируемого слота (1..3)"
// @Success 200 {object} dto.SlotWindowResponse
// @Router /employer/{id}/interviews/slot-window [get]
func (h *InterviewHandler) SlotWindow(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var query dto.SlotWindowQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	window, err := h.interviewService.SlotWindow(actor, c.Param("id"), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, window)
}

// RescheduleInterview godoc
// @Summary Перенести интервью
// @Description Новые три слота; выбор и ссылка на встречу сбрасываются
// @Tags interviews
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID работодателя"
// @Param interviewId path string true "ID интервью"
// @Param request body dto.RescheduleInterviewRequest true "Новые слоты"
// @Success 200 {object} dto.InterviewResponse
// @Failure 409 {object} apperrors.ErrorResponse "Статус не позволяет перенос"
// @Router /employer/{id}/interviews/{interviewId}/reschedule [put]
func (h *InterviewHandler) RescheduleInterview(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.RescheduleInterviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	interview, err := h.interviewService.RescheduleInterview(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), c.Param("interviewId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, interview)
}

// CancelInterview godoc
// @Summary Отменить интервью
// @Tags interviews
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID работодателя"
// @Param interviewId path string true "ID интервью"
// @Success 200 {object} dto.InterviewResponse
// @Failure 409 {object} apperrors.ErrorResponse "Статус не позволяет отмену"
// @Router /employer/{id}/interviews/{interviewId}/cancel [post]
func (h *InterviewHandler) CancelInterview(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	interview, err := h.interviewService.CancelInterview(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), c.Param("interviewId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, interview)
}

// ListInternInterviews godoc
// @Summary Интервью стажера
// @Tags interviews
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID стажера"
// @Param status query string false "Статус"
// @Success 200 {array} dto.InterviewResponse
// @Router /interns/{id}/interviews [get]
func (h *InterviewHandler) ListInternInterviews(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var query dto.InterviewListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	interviews, err := h.interviewService.ListInternInterviews(h.GetDB(c), actor, c.Param("id"), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, interviews)
}

// GetInterview godoc
// @Summary Интервью
// @Tags interviews
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID интервью"
// @Success 200 {object} dto.InterviewResponse
// @Failure 404 {object} apperrors.ErrorResponse "Не найдено"
// @Router /interviews/{id} [get]
func (h *InterviewHandler) GetInterview(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	interview, err := h.interviewService.GetInterview(h.GetDB(c), actor, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, interview)
}

// SelectSlot godoc
// @Summary Стажер выбирает слот
// @Description Интервью становится scheduled; ошибки календаря попадают в meeting.warning
// @Tags interviews
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID интервью"
// @Param request body dto.SelectSlotRequest true "Номер слота 1..3"
// @Success 200 {object} dto.InterviewWithMeeting
// @Failure 409 {object} apperrors.ErrorResponse "Интервью уже не pending"
// @Router /interviews/{id}/select-slot [put]
func (h *InterviewHandler) SelectSlot(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.SelectSlotRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.interviewService.SelectSlot(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
