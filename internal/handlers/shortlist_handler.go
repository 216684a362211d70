package handlers

import (
	"net/http"

	"findtern_backend/internal/middleware"
	"findtern_backend/internal/models"
	"findtern_backend/internal/repositories"
	"findtern_backend/internal/services"
	"findtern_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// ShortlistHandler - корзина и список сравнения работодателя
type ShortlistHandler struct {
	*BaseHandler
	shortlistService services.ShortlistService
}

func NewShortlistHandler(base *BaseHandler, shortlistService services.ShortlistService) *ShortlistHandler {
	return &ShortlistHandler{
		BaseHandler:      base,
		shortlistService: shortlistService,
	}
}

func (h *ShortlistHandler) RegisterRoutes(rg *gin.RouterGroup) {
	employer := rg.Group("/employer/:id")
	employer.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleEmployer, models.UserRoleAdmin))

	for _, kind := range []repositories.ShortlistKind{repositories.ShortlistCart, repositories.ShortlistCompare} {
		list := employer.Group("/" + string(kind))
		{
			list.GET("", h.GetShortlist(kind))
			list.POST("", h.AddToShortlist(kind))
			list.PUT("", h.ReplaceShortlist(kind))
			list.DELETE("", h.ClearShortlist(kind))
			list.DELETE("/:internId", h.RemoveFromShortlist(kind))
		}
	}
}

// GetShortlist godoc
// @Summary Корзина или список сравнения
// @Tags shortlists
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID работодателя"
// @Param kind path string true "cart | compare"
// @Success 200 {object} dto.ShortlistResponse
// @Router /employer/{id}/{kind} [get]
func (h *ShortlistHandler) GetShortlist(kind repositories.ShortlistKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := h.GetActor(c)
		if !ok {
			return
		}

		response, err := h.shortlistService.GetShortlist(c.Request.Context(), actor, c.Param("id"), kind)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, response)
	}
}

// AddToShortlist godoc
// @Summary Добавить стажера
// @Tags shortlists
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID работодателя"
// @Param kind path string true "cart | compare"
// @Param request body dto.ShortlistAddRequest true "ID стажера"
// @Success 200 {object} dto.ShortlistResponse
// @Failure 409 {object} apperrors.ErrorResponse "Список сравнения заполнен"
// @Router /employer/{id}/{kind} [post]
func (h *ShortlistHandler) AddToShortlist(kind repositories.ShortlistKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := h.GetActor(c)
		if !ok {
			return
		}

		var req dto.ShortlistAddRequest
		if !h.BindAndValidate_JSON(c, &req) {
			return
		}

		response, err := h.shortlistService.AddToShortlist(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), kind, req.InternID)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, response)
	}
}

// ReplaceShortlist godoc
// @Summary Заменить список целиком
// @Tags shortlists
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID работодателя"
// @Param kind path string true "cart | compare"
// @Param request body dto.ShortlistReplaceRequest true "Новый список"
// @Success 200 {object} dto.ShortlistResponse
// @Router /employer/{id}/{kind} [put]
func (h *ShortlistHandler) ReplaceShortlist(kind repositories.ShortlistKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := h.GetActor(c)
		if !ok {
			return
		}

		var req dto.ShortlistReplaceRequest
		if !h.BindAndValidate_JSON(c, &req) {
			return
		}

		response, err := h.shortlistService.ReplaceShortlist(c.Request.Context(), h.GetDB(c), actor, c.Param("id"), kind, req.InternIDs)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, response)
	}
}

// RemoveFromShortlist godoc
// @Summary Убрать стажера
// @Tags shortlists
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID работодателя"
// @Param kind path string true "cart | compare"
// @Param internId path string true "ID стажера"
// @Success 200 {object} dto.ShortlistResponse
// @Router /employer/{id}/{kind}/{internId} [delete]
func (h *ShortlistHandler) RemoveFromShortlist(kind repositories.ShortlistKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := h.GetActor(c)
		if !ok {
			return
		}

		response, err := h.shortlistService.RemoveFromShortlist(c.Request.Context(), actor, c.Param("id"), kind, c.Param("internId"))
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, response)
	}
}

// ClearShortlist godoc
// @Summary Очистить список
// @Tags shortlists
// @Security BearerAuth
// @Param id path string true "ID работодателя"
// @Param kind path string true "cart | compare"
// @Success 204
// @Router /employer/{id}/{kind} [delete]
func (h *ShortlistHandler) ClearShortlist(kind repositories.ShortlistKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := h.GetActor(c)
		if !ok {
			return
		}

		if err := h.shortlistService.ClearShortlist(c.Request.Context(), actor, c.Param("id"), kind); err != nil {
			h.HandleServiceError(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}
