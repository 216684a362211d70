package handlers

import (
	"net/http"

	"findtern_backend/internal/middleware"
	"findtern_backend/internal/services"
	"findtern_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

// RegisterRoutes - /auth, /admin/login и смена пароля
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/signup", h.SignupIntern)
		auth.POST("/employer/signup", h.SignupEmployer)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.RefreshToken)
		auth.POST("/logout", h.Logout)
	}

	rg.POST("/admin/login", h.AdminLogin)

	users := rg.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.POST("/:id/change-password", h.ChangePassword)
	}
}

// SignupIntern godoc
// @Summary Регистрация стажера
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.InternSignupRequest true "Данные стажера"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} apperrors.ErrorResponse "Ошибка валидации"
// @Failure 409 {object} apperrors.ErrorResponse "Email уже занят"
// @Router /auth/signup [post]
func (h *AuthHandler) SignupIntern(c *gin.Context) {
	var req dto.InternSignupRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.authService.SignupIntern(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// SignupEmployer godoc
// @Summary Регистрация работодателя
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.EmployerSignupRequest true "Данные компании"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} apperrors.ErrorResponse "Ошибка валидации"
// @Failure 409 {object} apperrors.ErrorResponse "Email уже занят"
// @Router /auth/employer/signup [post]
func (h *AuthHandler) SignupEmployer(c *gin.Context) {
	var req dto.EmployerSignupRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.authService.SignupEmployer(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Login godoc
// @Summary Вход (стажер, работодатель, админ)
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Email и пароль"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} apperrors.ErrorResponse "Неверные учетные данные"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.authService.Login(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// AdminLogin godoc
// @Summary Вход в админку
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Email и пароль"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} apperrors.ErrorResponse "Неверные учетные данные"
// @Router /admin/login [post]
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.authService.AdminLogin(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// RefreshToken godoc
// @Summary Обновить пару токенов
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} apperrors.ErrorResponse "Токен недействителен"
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.authService.RefreshToken(h.GetDB(c), req.RefreshToken)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Logout godoc
// @Summary Выход (отзыв refresh token)
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.Logout(h.GetDB(c), req.RefreshToken); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully logged out",
	})
}

// ChangePassword godoc
// @Summary Смена пароля
// @Description id - свой id пользователя или работодателя
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID владельца"
// @Param request body dto.ChangePasswordRequest true "Текущий и новый пароль"
// @Success 200 {object} map[string]string
// @Failure 401 {object} apperrors.ErrorResponse "Текущий пароль неверен"
// @Failure 403 {object} apperrors.ErrorResponse "Чужой аккаунт"
// @Router /users/{id}/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ChangePassword(h.GetDB(c), actor, c.Param("id"), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password changed",
	})
}
