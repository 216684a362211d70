package handlers

import (
	"net/http"

	"findtern_backend/internal/middleware"
	"findtern_backend/internal/models"
	"findtern_backend/internal/services"
	"findtern_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type EmployerHandler struct {
	*BaseHandler
	employerService services.EmployerService
	projectService  services.ProjectService
}

func NewEmployerHandler(base *BaseHandler, employerService services.EmployerService, projectService services.ProjectService) *EmployerHandler {
	return &EmployerHandler{
		BaseHandler:     base,
		employerService: employerService,
		projectService:  projectService,
	}
}

// RegisterRoutes - профиль работодателя и его проекты
func (h *EmployerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	employer := rg.Group("/employer/:id")
	employer.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleEmployer, models.UserRoleAdmin))
	{
		employer.GET("", h.GetEmployer)
		employer.PUT("", h.UpdateEmployer)

		projects := employer.Group("/projects")
		{
			projects.GET("", h.ListProjects)
			projects.POST("", h.CreateProject)
			projects.GET("/:projectId", h.GetProject)
			projects.PUT("/:projectId", h.UpdateProject)
			projects.DELETE("/:projectId", h.DeleteProject)
		}
	}
}

// GetEmployer godoc
// @Summary Профиль работодателя
// @Tags employers
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID работодателя"
// @Success 200 {object} dto.EmployerResponse
// @Failure 403 {object} apperrors.ErrorResponse "Нет доступа"
// @Failure 404 {object} apperrors.ErrorResponse "Не найден"
// @Router /employer/{id} [get]
func (h *EmployerHandler) GetEmployer(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	response, err := h.employerService.GetEmployer(h.GetDB(c), actor, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// UpdateEmployer godoc
// @Summary Обновить профиль, реквизиты и флаги
// @Description Частичное обновление: отсутствующие поля не меняются
// @Tags employers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID работодателя"
// @Param request body dto.UpdateEmployerRequest true "Изменяемые поля"
// @Success 200 {object} dto.EmployerResponse
// @Failure 400 {object} apperrors.ErrorResponse "Ошибка валидации"
// @Router /employer/{id} [put]
func (h *EmployerHandler) UpdateEmployer(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateEmployerRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.employerService.UpdateEmployer(h.GetDB(c), actor, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListProjects godoc
// @Summary Проекты работодателя
// @Tags projects
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID работодателя"
// @Param includeArchived query bool false "Включая архивные"
// @Success 200 {array} dto.ProjectResponse
// @Router /employer/{id}/projects [get]
func (h *EmployerHandler) ListProjects(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	projects, err := h.projectService.ListProjects(h.GetDB(c), actor, c.Param("id"), ParseQueryBool(c, "includeArchived"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, projects)
}

// CreateProject godoc
// @Summary Создать проект
// @Tags projects
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID работодателя"
// @Param request body dto.CreateProjectRequest true "Проект"
// @Success 201 {object} dto.ProjectResponse
// @Failure 400 {object} apperrors.ErrorResponse "Ошибка валидации"
// @Router /employer/{id}/projects [post]
func (h *EmployerHandler) CreateProject(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	project, err := h.projectService.CreateProject(h.GetDB(c), actor, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

// GetProject godoc
// @Summary Проект
// @Tags projects
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID работодателя"
// @Param projectId path string true "ID проекта"
// @Success 200 {object} dto.ProjectResponse
// @Failure 404 {object} apperrors.ErrorResponse "Не найден"
// @Router /employer/{id}/projects/{projectId} [get]
func (h *EmployerHandler) GetProject(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(h.GetDB(c), actor, c.Param("id"), c.Param("projectId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// UpdateProject godoc
// @Summary Обновить проект
// @Tags projects
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID работодателя"
// @Param projectId path string true "ID проекта"
// @Param request body dto.UpdateProjectRequest true "Изменяемые поля"
// @Success 200 {object} dto.ProjectResponse
// @Router /employer/{id}/projects/{projectId} [put]
func (h *EmployerHandler) UpdateProject(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	project, err := h.projectService.UpdateProject(h.GetDB(c), actor, c.Param("id"), c.Param("projectId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// DeleteProject godoc
// @Summary Удалить проект
// @Description Если на проект ссылаются офферы, он архивируется
// @Tags projects
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID работодателя"
// @Param projectId path string true "ID проекта"
// @Success 200 {object} dto.DeleteProjectResponse
// @Router /employer/{id}/projects/{projectId} [delete]
func (h *EmployerHandler) DeleteProject(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	result, err := h.projectService.DeleteProject(h.GetDB(c), actor, c.Param("id"), c.Param("projectId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
