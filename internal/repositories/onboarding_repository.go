package repositories

import (
	"errors"
	"time"

	"findtern_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrOnboardingNotFound = errors.New("onboarding not found")
	ErrDocumentNotFound   = errors.New("document not found")
)

type OnboardingRepository interface {
	FindByUserID(db *gorm.DB, userID string) (*models.InternOnboarding, error)
	// Upsert - одна анкета на пользователя
	Upsert(db *gorm.DB, onboarding *models.InternOnboarding) error
}

type onboardingRepository struct{}

func NewOnboardingRepository() OnboardingRepository {
	return &onboardingRepository{}
}

func (r *onboardingRepository) FindByUserID(db *gorm.DB, userID string) (*models.InternOnboarding, error) {
	var onboarding models.InternOnboarding
	if err := db.First(&onboarding, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOnboardingNotFound
		}
		return nil, err
	}
	return &onboarding, nil
}

func (r *onboardingRepository) Upsert(db *gorm.DB, onboarding *models.InternOnboarding) error {
	existing, err := r.FindByUserID(db, onboarding.UserID)
	if errors.Is(err, ErrOnboardingNotFound) {
		return db.Create(onboarding).Error
	}
	if err != nil {
		return err
	}

	onboarding.ID = existing.ID
	onboarding.CreatedAt = existing.CreatedAt
	return db.Save(onboarding).Error
}

// DocumentRepository - метаданные файлов онбординга
type DocumentRepository interface {
	FindByKey(db *gorm.DB, userID string, key models.MediaKey) (*models.InternDocument, error)
	ListByUser(db *gorm.DB, userID string) ([]models.InternDocument, error)
	Save(db *gorm.DB, doc *models.InternDocument) error
	Delete(db *gorm.DB, id string) error
	CommitAll(db *gorm.DB, userID string, at time.Time) (int64, error)
	FindStaleStaged(db *gorm.DB, before time.Time, limit int) ([]models.InternDocument, error)
}

type documentRepository struct{}

func NewDocumentRepository() DocumentRepository {
	return &documentRepository{}
}

func (r *documentRepository) FindByKey(db *gorm.DB, userID string, key models.MediaKey) (*models.InternDocument, error) {
	var doc models.InternDocument
	if err := db.First(&doc, "user_id = ? AND key = ?", userID, key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) ListByUser(db *gorm.DB, userID string) ([]models.InternDocument, error) {
	var docs []models.InternDocument
	err := db.Where("user_id = ?", userID).Order("key").Find(&docs).Error
	return docs, err
}

func (r *documentRepository) Save(db *gorm.DB, doc *models.InternDocument) error {
	return db.Save(doc).Error
}

func (r *documentRepository) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.InternDocument{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (r *documentRepository) CommitAll(db *gorm.DB, userID string, at time.Time) (int64, error) {
	result := db.Model(&models.InternDocument{}).
		Where("user_id = ? AND staged = ?", userID, true).
		Updates(map[string]interface{}{"staged": false, "committed_at": at})
	return result.RowsAffected, result.Error
}

// FindStaleStaged - черновики, загруженные раньше before
func (r *documentRepository) FindStaleStaged(db *gorm.DB, before time.Time, limit int) ([]models.InternDocument, error) {
	var docs []models.InternDocument
	err := db.Where("staged = ? AND updated_at < ?", true, before).
		Order("updated_at").
		Limit(limit).
		Find(&docs).Error
	return docs, err
}
