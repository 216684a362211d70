package services

import (
	"encoding/json"
	"strings"

	"findtern_backend/internal/models"
	"findtern_backend/internal/repositories"
	"findtern_backend/internal/services/dto"
	"findtern_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OnboardingService interface {
	GetOnboarding(db *gorm.DB, actor dto.Actor, userID string) (*dto.OnboardingResponse, error)
	SaveOnboarding(db *gorm.DB, actor dto.Actor, userID string, req *dto.OnboardingRequest) (*dto.OnboardingResponse, error)
}

type onboardingService struct {
	onboardingRepo repositories.OnboardingRepository
	userRepo       repositories.UserRepository
}

func NewOnboardingService(onboardingRepo repositories.OnboardingRepository, userRepo repositories.UserRepository) OnboardingService {
	return &onboardingService{
		onboardingRepo: onboardingRepo,
		userRepo:       userRepo,
	}
}

func (s *onboardingService) GetOnboarding(db *gorm.DB, actor dto.Actor, userID string) (*dto.OnboardingResponse, error) {
	if !actor.Owns(userID) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	onboarding, err := s.onboardingRepo.FindByUserID(db, userID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	return dto.NewOnboardingResponse(onboarding), nil
}

// SaveOnboarding - upsert анкеты стажера
func (s *onboardingService) SaveOnboarding(db *gorm.DB, actor dto.Actor, userID string, req *dto.OnboardingRequest) (*dto.OnboardingResponse, error) {
	if !actor.Owns(userID) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if user.Role != models.UserRoleIntern {
		return nil, apperrors.ErrInvalidOperation("onboarding", "Onboarding is available for interns only")
	}

	onboarding := &models.InternOnboarding{
		UserID:              userID,
		Bio:                 strings.TrimSpace(req.Bio),
		City:                strings.TrimSpace(req.City),
		State:               strings.TrimSpace(req.State),
		Pincode:             req.Pincode,
		PreferredLocations:  models.StringList(trimAll(req.PreferredLocations)),
		Skills:              models.StringList(trimAll(req.Skills)),
		Languages:           jsonColumn(req.Languages),
		Experience:          jsonColumn(req.Experience),
		LinkedinURL:         req.LinkedinURL,
		GithubURL:           req.GithubURL,
		PortfolioURL:        req.PortfolioURL,
		AadhaarNumber:       req.AadhaarNumber,
		PanNumber:           strings.ToUpper(req.PanNumber),
		ExtraData:           jsonColumn(req.ExtraData),
		OnboardingCompleted: req.OnboardingCompleted,
	}

	if err := s.onboardingRepo.Upsert(db, onboarding); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewOnboardingResponse(onboarding), nil
}

// jsonColumn - null и пустое тело храним как NULL
func jsonColumn(raw json.RawMessage) datatypes.JSON {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	return datatypes.JSON(trimmed)
}
