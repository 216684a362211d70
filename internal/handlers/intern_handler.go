package handlers

import (
	"net/http"

	"findtern_backend/internal/auth"
	"findtern_backend/internal/middleware"
	"findtern_backend/internal/services"
	"findtern_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type InternHandler struct {
	*BaseHandler
	internService services.InternService
}

func NewInternHandler(base *BaseHandler, internService services.InternService) *InternHandler {
	return &InternHandler{
		BaseHandler:   base,
		internService: internService,
	}
}

func (h *InternHandler) RegisterRoutes(rg *gin.RouterGroup) {
	interns := rg.Group("/interns")
	interns.Use(middleware.AuthMiddleware(), middleware.RequirePermission(auth.PermInternsBrowse))
	{
		interns.GET("", h.ListInterns)
		interns.GET("/:id", h.GetIntern)
	}
}

// ListInterns godoc
// @Summary Каталог стажеров
// @Description skills - через запятую, достаточно одного совпадения
// @Tags interns
// @Security BearerAuth
// @Produce json
// @Param skills query string false "Навыки"
// @Param city query string false "Город"
// @Param state query string false "Штат"
// @Param search query string false "Имя"
// @Param onboarded query bool false "Только с завершенным онбордингом"
// @Param page query int false "Страница"
// @Param pageSize query int false "Размер страницы"
// @Success 200 {object} dto.InternListResponse
// @Router /interns [get]
func (h *InternHandler) ListInterns(c *gin.Context) {
	var query dto.InternListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}
	query.Page, query.PageSize = ParsePagination(c)

	response, err := h.internService.ListInterns(h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetIntern godoc
// @Summary Карточка стажера
// @Tags interns
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID стажера"
// @Success 200 {object} dto.InternCard
// @Failure 404 {object} apperrors.ErrorResponse "Не найден"
// @Router /interns/{id} [get]
func (h *InternHandler) GetIntern(c *gin.Context) {
	card, err := h.internService.GetIntern(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, card)
}
