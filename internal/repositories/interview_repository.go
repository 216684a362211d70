package repositories

import (
	"errors"
	"time"

	"findtern_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInterviewNotFound = errors.New("interview not found")

// InterviewFilter - фильтры списка интервью
type InterviewFilter struct {
	Status   models.InterviewStatus
	InternID string
}

type InterviewRepository interface {
	Create(db *gorm.DB, interview *models.Interview) error
	FindByID(db *gorm.DB, id string) (*models.Interview, error)
	// LockByID - SELECT ... FOR UPDATE внутри транзакции, без связей
	LockByID(db *gorm.DB, id string) (*models.Interview, error)
	FindByEmployer(db *gorm.DB, employerID string, filter InterviewFilter) ([]models.Interview, error)
	FindByIntern(db *gorm.DB, internID string, status models.InterviewStatus) ([]models.Interview, error)
	Update(db *gorm.DB, interview *models.Interview) error

	// Для воркера жизненного цикла
	ExpirePending(db *gorm.DB, now time.Time) (int64, error)
	CompleteScheduled(db *gorm.DB, cutoff time.Time) (int64, error)
}

type interviewRepository struct{}

func NewInterviewRepository() InterviewRepository {
	return &interviewRepository{}
}

func (r *interviewRepository) Create(db *gorm.DB, interview *models.Interview) error {
	return db.Create(interview).Error
}

func (r *interviewRepository) FindByID(db *gorm.DB, id string) (*models.Interview, error) {
	var interview models.Interview
	err := db.Preload("Employer").Preload("Intern").Preload("Project").
		First(&interview, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInterviewNotFound
		}
		return nil, err
	}
	return &interview, nil
}

func (r *interviewRepository) LockByID(db *gorm.DB, id string) (*models.Interview, error) {
	var interview models.Interview
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&interview, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInterviewNotFound
		}
		return nil, err
	}
	return &interview, nil
}

func (r *interviewRepository) FindByEmployer(db *gorm.DB, employerID string, filter InterviewFilter) ([]models.Interview, error) {
	query := db.Preload("Intern").Preload("Project").Where("employer_id = ?", employerID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.InternID != "" {
		query = query.Where("intern_id = ?", filter.InternID)
	}

	var interviews []models.Interview
	err := query.Order("created_at DESC").Find(&interviews).Error
	return interviews, err
}

func (r *interviewRepository) FindByIntern(db *gorm.DB, internID string, status models.InterviewStatus) ([]models.Interview, error) {
	query := db.Preload("Employer").Preload("Project").Where("intern_id = ?", internID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var interviews []models.Interview
	err := query.Order("created_at DESC").Find(&interviews).Error
	return interviews, err
}

func (r *interviewRepository) Update(db *gorm.DB, interview *models.Interview) error {
	// Связи не сохраняем, только саму строку
	return db.Omit("Employer", "Intern", "Project").Save(interview).Error
}

// ExpirePending - все три слота в прошлом, а стажер так и не выбрал
func (r *interviewRepository) ExpirePending(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Model(&models.Interview{}).
		Where("status = ?", models.InterviewStatusPending).
		Where("slot1 < ? AND slot2 < ? AND slot3 < ?", now, now, now).
		Update("status", models.InterviewStatusExpired)
	return result.RowsAffected, result.Error
}

// CompleteScheduled - выбранный слот начался раньше cutoff
func (r *interviewRepository) CompleteScheduled(db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.Model(&models.Interview{}).
		Where("status = ?", models.InterviewStatusScheduled).
		Where("((selected_slot = 1 AND slot1 < ?) OR (selected_slot = 2 AND slot2 < ?) OR (selected_slot = 3 AND slot3 < ?))",
			cutoff, cutoff, cutoff).
		Update("status", models.InterviewStatusCompleted)
	return result.RowsAffected, result.Error
}
