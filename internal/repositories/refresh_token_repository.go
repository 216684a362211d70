package repositories

import (
	"errors"
	"time"

	"findtern_backend/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrRefreshTokenNotFound возвращается, когда refresh-токен не найден в БД
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
)

// RefreshTokenRepository определяет интерфейс для операций с refresh-токенами.
// Все методы работают с sha256-хешем токена, сам токен в БД не хранится.
type RefreshTokenRepository interface {
	// Create создает новую запись о refresh-токене
	Create(db *gorm.DB, token *models.RefreshToken) error

	// FindByHash находит refresh-токен по хешу
	FindByHash(db *gorm.DB, tokenHash string) (*models.RefreshToken, error)

	// DeleteByHash удаляет refresh-токен по хешу
	DeleteByHash(db *gorm.DB, tokenHash string) error

	// DeleteBySubject удаляет все refresh-токены пользователя или работодателя
	DeleteBySubject(db *gorm.DB, subjectID string) error

	// CleanExpired удаляет все истекшие токены
	CleanExpired(db *gorm.DB, now time.Time) (int64, error)
}

type refreshTokenRepository struct{}

// NewRefreshTokenRepository создает новый экземпляр RefreshTokenRepository
func NewRefreshTokenRepository() RefreshTokenRepository {
	return &refreshTokenRepository{}
}

func (r *refreshTokenRepository) Create(db *gorm.DB, token *models.RefreshToken) error {
	return db.Create(token).Error
}

func (r *refreshTokenRepository) FindByHash(db *gorm.DB, tokenHash string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := db.Where("token_hash = ?", tokenHash).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

func (r *refreshTokenRepository) DeleteByHash(db *gorm.DB, tokenHash string) error {
	result := db.Where("token_hash = ?", tokenHash).Delete(&models.RefreshToken{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Возвращаем ошибку, чтобы сервис мог ее обработать
		return ErrRefreshTokenNotFound
	}
	return nil
}

func (r *refreshTokenRepository) DeleteBySubject(db *gorm.DB, subjectID string) error {
	return db.Where("subject_id = ?", subjectID).Delete(&models.RefreshToken{}).Error
}

func (r *refreshTokenRepository) CleanExpired(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Where("expires_at < ?", now).Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}
