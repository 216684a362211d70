package repositories

import (
	"errors"

	"findtern_backend/internal/models"

	"gorm.io/gorm"
)

var ErrCalendarTokenNotFound = errors.New("calendar token not found")

type CalendarTokenRepository interface {
	FindByEmployer(db *gorm.DB, employerID string) (*models.CalendarToken, error)
	Upsert(db *gorm.DB, token *models.CalendarToken) error
}

type calendarTokenRepository struct{}

func NewCalendarTokenRepository() CalendarTokenRepository {
	return &calendarTokenRepository{}
}

func (r *calendarTokenRepository) FindByEmployer(db *gorm.DB, employerID string) (*models.CalendarToken, error) {
	var token models.CalendarToken
	if err := db.First(&token, "employer_id = ?", employerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCalendarTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

// Upsert - refresh token Google отдает только при первом согласии, старый не затираем пустым
func (r *calendarTokenRepository) Upsert(db *gorm.DB, token *models.CalendarToken) error {
	existing, err := r.FindByEmployer(db, token.EmployerID)
	if errors.Is(err, ErrCalendarTokenNotFound) {
		return db.Create(token).Error
	}
	if err != nil {
		return err
	}

	token.ID = existing.ID
	token.CreatedAt = existing.CreatedAt
	if token.RefreshToken == "" {
		token.RefreshToken = existing.RefreshToken
	}
	return db.Save(token).Error
}
