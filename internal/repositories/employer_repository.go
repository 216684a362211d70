package repositories

import (
	"errors"

	"findtern_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrEmployerNotFound      = errors.New("employer not found")
	ErrEmployerAlreadyExists = errors.New("employer already exists")
)

type EmployerRepository interface {
	Create(db *gorm.DB, employer *models.Employer) error
	FindByID(db *gorm.DB, id string) (*models.Employer, error)
	FindByEmail(db *gorm.DB, email string) (*models.Employer, error)
	Update(db *gorm.DB, employer *models.Employer) error
	UpdatePassword(db *gorm.DB, employerID, passwordHash string) error
}

type employerRepository struct{}

func NewEmployerRepository() EmployerRepository {
	return &employerRepository{}
}

func (r *employerRepository) Create(db *gorm.DB, employer *models.Employer) error {
	employer.CompanyEmail = normalizeEmail(employer.CompanyEmail)

	var count int64
	if err := db.Model(&models.Employer{}).Where("company_email = ?", employer.CompanyEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmployerAlreadyExists
	}

	return db.Create(employer).Error
}

func (r *employerRepository) FindByID(db *gorm.DB, id string) (*models.Employer, error) {
	var employer models.Employer
	if err := db.First(&employer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployerNotFound
		}
		return nil, err
	}
	return &employer, nil
}

func (r *employerRepository) FindByEmail(db *gorm.DB, email string) (*models.Employer, error) {
	var employer models.Employer
	if err := db.First(&employer, "company_email = ?", normalizeEmail(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployerNotFound
		}
		return nil, err
	}
	return &employer, nil
}

func (r *employerRepository) Update(db *gorm.DB, employer *models.Employer) error {
	return db.Save(employer).Error
}

func (r *employerRepository) UpdatePassword(db *gorm.DB, employerID, passwordHash string) error {
	result := db.Model(&models.Employer{}).Where("id = ?", employerID).Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEmployerNotFound
	}
	return nil
}
