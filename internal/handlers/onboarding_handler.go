package handlers

import (
	"net/http"
	"strconv"
	"time"

	"findtern_backend/internal/middleware"
	"findtern_backend/internal/models"
	"findtern_backend/internal/services"
	"findtern_backend/internal/services/dto"
	"findtern_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// OnboardingHandler - анкета стажера и файлы онбординга
type OnboardingHandler struct {
	*BaseHandler
	onboardingService services.OnboardingService
	mediaService      services.MediaService
}

func NewOnboardingHandler(base *BaseHandler, onboardingService services.OnboardingService, mediaService services.MediaService) *OnboardingHandler {
	return &OnboardingHandler{
		BaseHandler:       base,
		onboardingService: onboardingService,
		mediaService:      mediaService,
	}
}

func (h *OnboardingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	onboarding := rg.Group("/onboarding/:userId")
	onboarding.Use(middleware.AuthMiddleware(), middleware.RequireSelfOrAdmin("userId"))
	{
		onboarding.GET("", h.GetOnboarding)
		onboarding.PUT("", h.SaveOnboarding)

		media := onboarding.Group("/media")
		{
			media.GET("", h.ListMedia)
			media.POST("/commit", h.CommitMedia)
			media.GET("/:key", h.GetMedia)
			media.PUT("/:key", h.UploadMedia)
			media.DELETE("/:key", h.DeleteMedia)
		}
	}
}

// GetOnboarding godoc
// @Summary Анкета онбординга
// @Tags onboarding
// @Security BearerAuth
// @Produce json
// @Param userId path string true "ID стажера"
// @Success 200 {object} dto.OnboardingResponse
// @Failure 404 {object} apperrors.ErrorResponse "Анкета еще не заполнена"
// @Router /onboarding/{userId} [get]
func (h *OnboardingHandler) GetOnboarding(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	response, err := h.onboardingService.GetOnboarding(h.GetDB(c), actor, c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// SaveOnboarding godoc
// @Summary Сохранить анкету (upsert)
// @Tags onboarding
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param userId path string true "ID стажера"
// @Param request body dto.OnboardingRequest true "Анкета"
// @Success 200 {object} dto.OnboardingResponse
// @Failure 400 {object} apperrors.ErrorResponse "Ошибка валидации"
// @Router /onboarding/{userId} [put]
func (h *OnboardingHandler) SaveOnboarding(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.OnboardingRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.onboardingService.SaveOnboarding(h.GetDB(c), actor, c.Param("userId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// UploadMedia godoc
// @Summary Загрузить файл онбординга
// @Description Файл сохраняется как staged; повторная загрузка заменяет предыдущий
// @Tags media
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param userId path string true "ID стажера"
// @Param key path string true "profilePhoto | introVideo | aadhaarImage | panImage"
// @Param file formData file true "Файл"
// @Param lastModified formData string false "Время изменения файла (мс с эпохи или RFC3339)"
// @Success 200 {object} dto.MediaResponse
// @Failure 400 {object} apperrors.ErrorResponse "Недопустимый файл"
// @Router /onboarding/{userId}/media/{key} [put]
func (h *OnboardingHandler) UploadMedia(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		h.HandleServiceError(c, apperrors.ValidationError(map[string]string{"file": "This field is required"}))
		return
	}

	lastModified, err := parseLastModified(c.PostForm("lastModified"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	response, err := h.mediaService.UploadMedia(c.Request.Context(), h.GetDB(c), actor, c.Param("userId"), models.MediaKey(c.Param("key")), file, lastModified)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListMedia godoc
// @Summary Файлы онбординга
// @Tags media
// @Security BearerAuth
// @Produce json
// @Param userId path string true "ID стажера"
// @Success 200 {object} dto.MediaListResponse
// @Router /onboarding/{userId}/media [get]
func (h *OnboardingHandler) ListMedia(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	response, err := h.mediaService.ListMedia(c.Request.Context(), h.GetDB(c), actor, c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetMedia godoc
// @Summary Файл онбординга по ключу
// @Tags media
// @Security BearerAuth
// @Produce json
// @Param userId path string true "ID стажера"
// @Param key path string true "Ключ файла"
// @Success 200 {object} dto.MediaResponse
// @Failure 404 {object} apperrors.ErrorResponse "Не найден"
// @Router /onboarding/{userId}/media/{key} [get]
func (h *OnboardingHandler) GetMedia(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	response, err := h.mediaService.GetMedia(c.Request.Context(), h.GetDB(c), actor, c.Param("userId"), models.MediaKey(c.Param("key")))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// DeleteMedia godoc
// @Summary Удалить файл онбординга
// @Tags media
// @Security BearerAuth
// @Param userId path string true "ID стажера"
// @Param key path string true "Ключ файла"
// @Success 204
// @Router /onboarding/{userId}/media/{key} [delete]
func (h *OnboardingHandler) DeleteMedia(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	if err := h.mediaService.DeleteMedia(c.Request.Context(), h.GetDB(c), actor, c.Param("userId"), models.MediaKey(c.Param("key"))); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CommitMedia godoc
// @Summary Зафиксировать загруженные файлы
// @Tags media
// @Security BearerAuth
// @Produce json
// @Param userId path string true "ID стажера"
// @Success 200 {object} dto.CommitMediaResponse
// @Router /onboarding/{userId}/media/commit [post]
func (h *OnboardingHandler) CommitMedia(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	response, err := h.mediaService.CommitMedia(h.GetDB(c), actor, c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// parseLastModified - File.lastModified из браузера (мс) или RFC3339
func parseLastModified(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		t := time.UnixMilli(ms).UTC()
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, apperrors.ValidationError(map[string]string{"lastModified": "Must be epoch milliseconds or RFC3339"})
	}
	return &t, nil
}
