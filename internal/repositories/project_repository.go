package repositories

import (
	"errors"

	"findtern_backend/internal/models"

	"gorm.io/gorm"
)

var ErrProjectNotFound = errors.New("project not found")

type ProjectRepository interface {
	Create(db *gorm.DB, project *models.Project) error
	FindByID(db *gorm.DB, id string) (*models.Project, error)
	FindByEmployer(db *gorm.DB, employerID string, includeArchived bool) ([]models.Project, error)
	Update(db *gorm.DB, project *models.Project) error
	Archive(db *gorm.DB, id string) error
	Delete(db *gorm.DB, id string) error
}

type projectRepository struct{}

func NewProjectRepository() ProjectRepository {
	return &projectRepository{}
}

func (r *projectRepository) Create(db *gorm.DB, project *models.Project) error {
	return db.Create(project).Error
}

func (r *projectRepository) FindByID(db *gorm.DB, id string) (*models.Project, error) {
	var project models.Project
	if err := db.First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) FindByEmployer(db *gorm.DB, employerID string, includeArchived bool) ([]models.Project, error) {
	query := db.Where("employer_id = ?", employerID)
	if !includeArchived {
		query = query.Where("status = ?", models.ProjectStatusActive)
	}

	var projects []models.Project
	err := query.Order("created_at DESC").Find(&projects).Error
	return projects, err
}

func (r *projectRepository) Update(db *gorm.DB, project *models.Project) error {
	return db.Save(project).Error
}

func (r *projectRepository) Archive(db *gorm.DB, id string) error {
	result := db.Model(&models.Project{}).Where("id = ?", id).Update("status", models.ProjectStatusArchived)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *projectRepository) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.Project{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}
