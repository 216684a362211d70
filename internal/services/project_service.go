package services

import (
	"strings"

	"findtern_backend/internal/models"
	"findtern_backend/internal/repositories"
	"findtern_backend/internal/services/dto"
	"findtern_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ProjectService interface {
	ListProjects(db *gorm.DB, actor dto.Actor, employerID string, includeArchived bool) ([]*dto.ProjectResponse, error)
	CreateProject(db *gorm.DB, actor dto.Actor, employerID string, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	GetProject(db *gorm.DB, actor dto.Actor, employerID, projectID string) (*dto.ProjectResponse, error)
	UpdateProject(db *gorm.DB, actor dto.Actor, employerID, projectID string, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	DeleteProject(db *gorm.DB, actor dto.Actor, employerID, projectID string) (*dto.DeleteProjectResponse, error)
}

type projectService struct {
	projectRepo     repositories.ProjectRepository
	employerRepo    repositories.EmployerRepository
	proposalRepo    repositories.ProposalRepository
	defaultTimezone string
}

func NewProjectService(
	projectRepo repositories.ProjectRepository,
	employerRepo repositories.EmployerRepository,
	proposalRepo repositories.ProposalRepository,
	defaultTimezone string,
) ProjectService {
	return &projectService{
		projectRepo:     projectRepo,
		employerRepo:    employerRepo,
		proposalRepo:    proposalRepo,
		defaultTimezone: defaultTimezone,
	}
}

func (s *projectService) ListProjects(db *gorm.DB, actor dto.Actor, employerID string, includeArchived bool) ([]*dto.ProjectResponse, error) {
	if !actor.Owns(employerID) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	projects, err := s.projectRepo.FindByEmployer(db, employerID, includeArchived)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		responses = append(responses, dto.NewProjectResponse(&projects[i]))
	}
	return responses, nil
}

func (s *projectService) CreateProject(db *gorm.DB, actor dto.Actor, employerID string, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	if !actor.Owns(employerID) {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if _, err := s.employerRepo.FindByID(db, employerID); err != nil {
		return nil, handleRepoError(err)
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = s.defaultTimezone
	}

	project := &models.Project{
		EmployerID:         employerID,
		ProjectName:        strings.TrimSpace(req.ProjectName),
		SkillRequirements:  models.StringList(trimAll(req.SkillRequirements)),
		ScopeOfWork:        models.ScopeOfWork(req.ScopeOfWork),
		LocationType:       models.LocationType(req.LocationType),
		PreferredLocations: models.StringList(trimAll(req.PreferredLocations)),
		City:               req.City,
		State:              req.State,
		Pincode:            req.Pincode,
		Timezone:           timezone,
		Status:             models.ProjectStatusActive,
	}

	if err := s.projectRepo.Create(db, project); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewProjectResponse(project), nil
}

func (s *projectService) GetProject(db *gorm.DB, actor dto.Actor, employerID, projectID string) (*dto.ProjectResponse, error) {
	project, err := s.findOwnedProject(db, actor, employerID, projectID)
	if err != nil {
		return nil, err
	}
	return dto.NewProjectResponse(project), nil
}

func (s *projectService) UpdateProject(db *gorm.DB, actor dto.Actor, employerID, projectID string, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	project, err := s.findOwnedProject(db, actor, employerID, projectID)
	if err != nil {
		return nil, err
	}

	setString(&project.ProjectName, req.ProjectName)
	if req.SkillRequirements != nil {
		project.SkillRequirements = models.StringList(trimAll(req.SkillRequirements))
	}
	if req.ScopeOfWork != nil {
		project.ScopeOfWork = models.ScopeOfWork(*req.ScopeOfWork)
	}
	if req.LocationType != nil {
		project.LocationType = models.LocationType(*req.LocationType)
	}
	if req.PreferredLocations != nil {
		project.PreferredLocations = models.StringList(trimAll(req.PreferredLocations))
	}
	setString(&project.City, req.City)
	setString(&project.State, req.State)
	setString(&project.Pincode, req.Pincode)
	setString(&project.Timezone, req.Timezone)
	if req.Status != nil {
		project.Status = models.ProjectStatus(*req.Status)
	}

	if err := s.projectRepo.Update(db, project); err != nil {
		return nil, handleRepoError(err)
	}
	return dto.NewProjectResponse(project), nil
}

// DeleteProject - если на проект ссылаются офферы, проект только архивируется
func (s *projectService) DeleteProject(db *gorm.DB, actor dto.Actor, employerID, projectID string) (*dto.DeleteProjectResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	project, err := s.findOwnedProject(tx, actor, employerID, projectID)
	if err != nil {
		return nil, err
	}

	refs, err := s.proposalRepo.CountByProject(tx, project.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.DeleteProjectResponse{}
	if refs > 0 {
		err = s.projectRepo.Archive(tx, project.ID)
		resp.Archived = true
	} else {
		err = s.projectRepo.Delete(tx, project.ID)
		resp.Deleted = true
	}
	if err != nil {
		return nil, handleRepoError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return resp, nil
}

// findOwnedProject - чужой проект выглядит как несуществующий
func (s *projectService) findOwnedProject(db *gorm.DB, actor dto.Actor, employerID, projectID string) (*models.Project, error) {
	if !actor.Owns(employerID) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	project, err := s.projectRepo.FindByID(db, projectID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if project.EmployerID != employerID {
		return nil, apperrors.ErrNotFound(repositories.ErrProjectNotFound)
	}
	return project, nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
