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

type ProposalHandler struct {
	*BaseHandler
	proposalService services.ProposalService
}

func NewProposalHandler(base *BaseHandler, proposalService services.ProposalService) *ProposalHandler {
	return &ProposalHandler{
		BaseHandler:     base,
		proposalService: proposalService,
	}
}

func (h *ProposalHandler) RegisterRoutes(rg *gin.RouterGroup) {
	proposals := rg.Group("/proposals")
	proposals.Use(middleware.AuthMiddleware())
	{
		proposals.POST("", middleware.RequirePermission(auth.PermProposalsSend), h.CreateProposal)
		proposals.GET("/:id", h.GetProposal)
		proposals.PUT("/:id", h.UpdateProposal)
	}

	employer := rg.Group("/employer/:id/proposals")
	employer.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleEmployer, models.UserRoleAdmin))
	{
		employer.GET("", h.ListEmployerProposals)
	}

	intern := rg.Group("/interns/:id/proposals")
	intern.Use(middleware.AuthMiddleware())
	{
		intern.GET("", h.ListInternProposals)
	}
}

// CreateProposal godoc
// @Summary Создать оффер
// @Tags proposals
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateProposalRequest true "Оффер; status draft или sent"
// @Success 201 {object} dto.ProposalResponse
// @Failure 400 {object} apperrors.ErrorResponse "Ошибка валидации"
// @Router /proposals [post]
func (h *ProposalHandler) CreateProposal(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.CreateProposalRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	proposal, err := h.proposalService.CreateProposal(c.Request.Context(), h.GetDB(c), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, proposal)
}

// GetProposal godoc
// @Summary Оффер
// @Tags proposals
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID оффера"
// @Success 200 {object} dto.ProposalResponse
// @Failure 404 {object} apperrors.ErrorResponse "Не найден"
// @Router /proposals/{id} [get]
func (h *ProposalHandler) GetProposal(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	proposal, err := h.proposalService.GetProposal(h.GetDB(c), actor, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, proposal)
}

// UpdateProposal godoc
// @Summary Изменить оффер или его статус
// @Description Поля оффера меняются только в draft; статус - по таблице переходов
// @Tags proposals
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID оффера"
// @Param request body dto.UpdateProposalRequest true "Изменения"
// @Success 200 {object} dto.ProposalResponse
// @Failure 409 {object} apperrors.ErrorResponse "Недопустимый переход"
// @Router /proposals/{id} [put]
func (h *ProposalHandler) UpdateProposal(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateProposalRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	proposal, err := h.proposalService.UpdateProposal(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, proposal)
}

// ListEmployerProposals godoc
// @Summary Офферы работодателя
// @Tags proposals
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID работодателя"
// @Param status query string false "Статус"
// @Param page query int false "Страница"
// @Param pageSize query int false "Размер страницы"
// @Success 200 {object} dto.ProposalListResponse
// @Router /employer/{id}/proposals [get]
func (h *ProposalHandler) ListEmployerProposals(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var query dto.ProposalListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}
	page, pageSize := ParsePagination(c)

	response, err := h.proposalService.ListEmployerProposals(h.GetDB(c), actor, c.Param("id"), &query, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListInternProposals godoc
// @Summary Офферы стажера
// @Tags proposals
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID стажера"
// @Param status query string false "Статус"
// @Param page query int false "Страница"
// @Param pageSize query int false "Размер страницы"
// @Success 200 {object} dto.ProposalListResponse
// @Router /interns/{id}/proposals [get]
func (h *ProposalHandler) ListInternProposals(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var query dto.ProposalListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}
	page, pageSize := ParsePagination(c)

	response, err := h.proposalService.ListInternProposals(h.GetDB(c), actor, c.Param("id"), &query, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
