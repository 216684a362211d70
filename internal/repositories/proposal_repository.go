package repositories

import (
	"errors"

	"findtern_backend/internal/models"

	"gorm.io/gorm"
)

var ErrProposalNotFound = errors.New("proposal not found")

// ProposalFilter - фильтр и пагинация списков предложений
type ProposalFilter struct {
	Status   models.ProposalStatus
	Page     int
	PageSize int
}

type ProposalRepository interface {
	Create(db *gorm.DB, proposal *models.Proposal) error
	FindByID(db *gorm.DB, id string) (*models.Proposal, error)
	FindByEmployer(db *gorm.DB, employerID string, filter ProposalFilter) ([]models.Proposal, int64, error)
	FindByIntern(db *gorm.DB, internID string, filter ProposalFilter) ([]models.Proposal, int64, error)
	FindByInterview(db *gorm.DB, interviewID string) ([]models.Proposal, error)
	CountByProject(db *gorm.DB, projectID string) (int64, error)
	Update(db *gorm.DB, proposal *models.Proposal) error
}

type proposalRepository struct{}

func NewProposalRepository() ProposalRepository {
	return &proposalRepository{}
}

func (r *proposalRepository) Create(db *gorm.DB, proposal *models.Proposal) error {
	return db.Omit("Project").Create(proposal).Error
}

func (r *proposalRepository) FindByID(db *gorm.DB, id string) (*models.Proposal, error) {
	var proposal models.Proposal
	if err := db.Preload("Project").First(&proposal, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}
	return &proposal, nil
}

func (r *proposalRepository) FindByEmployer(db *gorm.DB, employerID string, filter ProposalFilter) ([]models.Proposal, int64, error) {
	return r.list(db.Where("employer_id = ?", employerID), filter)
}

func (r *proposalRepository) FindByIntern(db *gorm.DB, internID string, filter ProposalFilter) ([]models.Proposal, int64, error) {
	return r.list(db.Where("intern_id = ?", internID), filter)
}

func (r *proposalRepository) list(query *gorm.DB, filter ProposalFilter) ([]models.Proposal, int64, error) {
	query = query.Model(&models.Proposal{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var proposals []models.Proposal
	err := query.Preload("Project").
		Order("created_at DESC").
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize).
		Find(&proposals).Error
	if err != nil {
		return nil, 0, err
	}
	return proposals, total, nil
}

func (r *proposalRepository) FindByInterview(db *gorm.DB, interviewID string) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := db.Where("interview_id = ?", interviewID).Find(&proposals).Error
	return proposals, err
}

func (r *proposalRepository) CountByProject(db *gorm.DB, projectID string) (int64, error) {
	var count int64
	err := db.Model(&models.Proposal{}).Where("project_id = ?", projectID).Count(&count).Error
	return count, err
}

func (r *proposalRepository) Update(db *gorm.DB, proposal *models.Proposal) error {
	return db.Omit("Project").Save(proposal).Error
}
