package services

import (
	"strings"

	"findtern_backend/internal/models"
	"findtern_backend/internal/repositories"
	"findtern_backend/internal/services/dto"
	"findtern_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// InternService - каталог стажеров для работодателей
type InternService interface {
	ListInterns(db *gorm.DB, query *dto.InternListQuery) (*dto.InternListResponse, error)
	GetIntern(db *gorm.DB, internID string) (*dto.InternCard, error)
}

type internService struct {
	userRepo repositories.UserRepository
}

func NewInternService(userRepo repositories.UserRepository) InternService {
	return &internService{userRepo: userRepo}
}

func (s *internService) ListInterns(db *gorm.DB, query *dto.InternListQuery) (*dto.InternListResponse, error) {
	filter := repositories.InternFilter{
		Skills:    splitCSV(query.Skills),
		City:      strings.TrimSpace(query.City),
		State:     strings.TrimSpace(query.State),
		Search:    strings.TrimSpace(query.Search),
		Onboarded: query.Onboarded,
		Page:      query.Page,
		PageSize:  query.PageSize,
	}

	users, total, err := s.userRepo.FindInterns(db, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	cards := make([]dto.InternCard, 0, len(users))
	for i := range users {
		cards = append(cards, dto.NewInternCard(&users[i]))
	}

	return &dto.InternListResponse{
		Interns:    cards,
		Pagination: dto.NewPagination(total, query.Page, query.PageSize),
	}, nil
}

func (s *internService) GetIntern(db *gorm.DB, internID string) (*dto.InternCard, error) {
	user, err := s.userRepo.FindByID(db, internID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if user.Role != models.UserRoleIntern {
		return nil, apperrors.ErrNotFound(repositories.ErrUserNotFound)
	}

	card := dto.NewInternCard(user)
	return &card, nil
}

// splitCSV - "go, sql,,react" -> [go sql react]
func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return trimAll(strings.Split(s, ","))
}
