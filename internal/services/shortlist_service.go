package services

import (
	"context"
	"errors"

	"findtern_backend/internal/models"
	"findtern_backend/internal/repositories"
	"findtern_backend/internal/services/dto"
	"findtern_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// CompareLimit - максимум стажеров в списке сравнения
const CompareLimit = 4

type ShortlistService interface {
	GetShortlist(ctx context.Context, actor dto.Actor, employerID string, kind repositories.ShortlistKind) (*dto.ShortlistResponse, error)
	AddToShortlist(ctx context.Context, db *gorm.DB, actor dto.Actor, employerID string, kind repositories.ShortlistKind, internID string) (*dto.ShortlistResponse, error)
	RemoveFromShortlist(ctx context.Context, actor dto.Actor, employerID string, kind repositories.ShortlistKind, internID string) (*dto.ShortlistResponse, error)
	ReplaceShortlist(ctx context.Context, db *gorm.DB, actor dto.Actor, employerID string, kind repositories.ShortlistKind, internIDs []string) (*dto.ShortlistResponse, error)
	ClearShortlist(ctx context.Context, actor dto.Actor, employerID string, kind repositories.ShortlistKind) error
}

type shortlistService struct {
	shortlistRepo repositories.ShortlistRepository
	userRepo      repositories.UserRepository
}

func NewShortlistService(shortlistRepo repositories.ShortlistRepository, userRepo repositories.UserRepository) ShortlistService {
	return &shortlistService{
		shortlistRepo: shortlistRepo,
		userRepo:      userRepo,
	}
}

func (s *shortlistService) GetShortlist(ctx context.Context, actor dto.Actor, employerID string, kind repositories.ShortlistKind) (*dto.ShortlistResponse, error) {
	if err := checkShortlistAccess(actor, employerID, kind); err != nil {
		return nil, err
	}
	return s.members(ctx, employerID, kind)
}

func (s *shortlistService) AddToShortlist(ctx context.Context, db *gorm.DB, actor dto.Actor, employerID string, kind repositories.ShortlistKind, internID string) (*dto.ShortlistResponse, error) {
	if err := checkShortlistAccess(actor, employerID, kind); err != nil {
		return nil, err
	}
	if err := s.ensureIntern(db, internID); err != nil {
		return nil, err
	}

	if err := s.shortlistRepo.Add(ctx, employerID, kind, internID, shortlistLimit(kind)); err != nil {
		return nil, shortlistError(err)
	}
	return s.members(ctx, employerID, kind)
}

func (s *shortlistService) RemoveFromShortlist(ctx context.Context, actor dto.Actor, employerID string, kind repositories.ShortlistKind, internID string) (*dto.ShortlistResponse, error) {
	if err := checkShortlistAccess(actor, employerID, kind); err != nil {
		return nil, err
	}
	if err := s.shortlistRepo.Remove(ctx, employerID, kind, internID); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.members(ctx, employerID, kind)
}

// ReplaceShortlist - синхронизация всего списка с клиента
func (s *shortlistService) ReplaceShortlist(ctx context.Context, db *gorm.DB, actor dto.Actor, employerID string, kind repositories.ShortlistKind, internIDs []string) (*dto.ShortlistResponse, error) {
	if err := checkShortlistAccess(actor, employerID, kind); err != nil {
		return nil, err
	}

	ids := repositories.UniqueIDs(internIDs)
	if limit := shortlistLimit(kind); limit > 0 && len(ids) > limit {
		return nil, apperrors.ErrCompareLimit
	}
	for _, id := range ids {
		if err := s.ensureIntern(db, id); err != nil {
			return nil, err
		}
	}

	if err := s.shortlistRepo.Replace(ctx, employerID, kind, ids, shortlistLimit(kind)); err != nil {
		return nil, shortlistError(err)
	}
	return s.members(ctx, employerID, kind)
}

func (s *shortlistService) ClearShortlist(ctx context.Context, actor dto.Actor, employerID string, kind repositories.ShortlistKind) error {
	if err := checkShortlistAccess(actor, employerID, kind); err != nil {
		return err
	}
	if err := s.shortlistRepo.Clear(ctx, employerID, kind); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *shortlistService) members(ctx context.Context, employerID string, kind repositories.ShortlistKind) (*dto.ShortlistResponse, error) {
	ids, err := s.shortlistRepo.Members(ctx, employerID, kind)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if ids == nil {
		ids = []string{}
	}
	return &dto.ShortlistResponse{
		Kind:      string(kind),
		InternIDs: ids,
		Limit:     shortlistLimit(kind),
	}, nil
}

func (s *shortlistService) ensureIntern(db *gorm.DB, internID string) error {
	user, err := s.userRepo.FindByID(db, internID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return fieldError("internId", "Intern not found")
		}
		return apperrors.InternalError(err)
	}
	if user.Role != models.UserRoleIntern {
		return fieldError("internId", "Intern not found")
	}
	return nil
}

func checkShortlistAccess(actor dto.Actor, employerID string, kind repositories.ShortlistKind) error {
	if !actor.Owns(employerID) {
		return apperrors.ErrInsufficientPermissions
	}
	if !kind.Valid() {
		return fieldError("kind", "Must be cart or compare")
	}
	return nil
}

func shortlistLimit(kind repositories.ShortlistKind) int {
	if kind == repositories.ShortlistCompare {
		return CompareLimit
	}
	return 0
}

func shortlistError(err error) error {
	if errors.Is(err, repositories.ErrShortlistFull) {
		return apperrors.ErrCompareLimit
	}
	return apperrors.InternalError(err)
}
