package services

import (
	"strings"

	"findtern_backend/internal/models"
	"findtern_backend/internal/repositories"
	"findtern_backend/internal/services/dto"
	"findtern_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type EmployerService interface {
	GetEmployer(db *gorm.DB, actor dto.Actor, employerID string) (*dto.EmployerResponse, error)
	UpdateEmployer(db *gorm.DB, actor dto.Actor, employerID string, req *dto.UpdateEmployerRequest) (*dto.EmployerResponse, error)
}

type employerService struct {
	employerRepo repositories.EmployerRepository
}

func NewEmployerService(employerRepo repositories.EmployerRepository) EmployerService {
	return &employerService{employerRepo: employerRepo}
}

func (s *employerService) GetEmployer(db *gorm.DB, actor dto.Actor, employerID string) (*dto.EmployerResponse, error) {
	if !actor.Owns(employerID) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	employer, err := s.employerRepo.FindByID(db, employerID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	return dto.NewEmployerResponse(employer), nil
}

// UpdateEmployer - частичное обновление профиля и биллинга.
// onboardingCompleted пересчитывается по реквизитам и руками не выставляется.
func (s *employerService) UpdateEmployer(db *gorm.DB, actor dto.Actor, employerID string, req *dto.UpdateEmployerRequest) (*dto.EmployerResponse, error) {
	if !actor.Owns(employerID) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	employer, err := s.employerRepo.FindByID(db, employerID)
	if err != nil {
		return nil, handleRepoError(err)
	}

	applyEmployerUpdate(employer, req)

	if err := s.employerRepo.Update(db, employer); err != nil {
		return nil, handleRepoError(err)
	}
	return dto.NewEmployerResponse(employer), nil
}

func applyEmployerUpdate(e *models.Employer, req *dto.UpdateEmployerRequest) {
	setString(&e.Name, req.Name)
	setString(&e.CompanyName, req.CompanyName)
	setString(&e.CountryCode, req.CountryCode)
	setString(&e.PhoneNumber, req.PhoneNumber)
	setString(&e.WebsiteURL, req.WebsiteURL)
	setString(&e.CompanySize, req.CompanySize)
	setString(&e.City, req.City)
	setString(&e.State, req.State)
	setString(&e.PrimaryContactName, req.PrimaryContactName)
	setString(&e.PrimaryContactRole, req.PrimaryContactRole)

	setString(&e.BankName, req.BankName)
	setString(&e.AccountNumber, req.AccountNumber)
	setString(&e.AccountHolderName, req.AccountHolderName)
	if req.IFSC != nil {
		e.IFSC = strings.ToUpper(strings.TrimSpace(*req.IFSC))
	}
	if req.GSTNumber != nil {
		e.GSTNumber = strings.ToUpper(strings.TrimSpace(*req.GSTNumber))
	}

	if req.SetupCompleted != nil {
		e.SetupCompleted = *req.SetupCompleted
	}
	e.OnboardingCompleted = e.HasBilling()
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
