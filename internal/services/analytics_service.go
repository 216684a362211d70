package services

import (
	"time"

	"findtern_backend/internal/models"
	"findtern_backend/internal/repositories"
	"findtern_backend/internal/services/dto"
	"findtern_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AnalyticsService interface {
	GetPlatformAnalytics(db *gorm.DB, actor dto.Actor) (*dto.AnalyticsResponse, error)
}

type analyticsService struct {
	analyticsRepo repositories.AnalyticsRepository
	now           func() time.Time
}

func NewAnalyticsService(analyticsRepo repositories.AnalyticsRepository) AnalyticsService {
	return &analyticsService{
		analyticsRepo: analyticsRepo,
		now:           time.Now,
	}
}

func (s *analyticsService) GetPlatformAnalytics(db *gorm.DB, actor dto.Actor) (*dto.AnalyticsResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	now := s.now().UTC()
	resp := &dto.AnalyticsResponse{GeneratedAt: now}

	var err error
	if resp.Interns, err = s.analyticsRepo.CountUsersByRole(db, string(models.UserRoleIntern)); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if resp.Employers, err = s.analyticsRepo.CountEmployers(db); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if resp.Projects, err = s.analyticsRepo.CountProjects(db); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if resp.ProposalsByStatus, err = s.analyticsRepo.ProposalsByStatus(db); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if resp.InterviewsByStatus, err = s.analyticsRepo.InterviewsByStatus(db); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if resp.Signups.Last7Days, err = s.analyticsRepo.SignupsSince(db, now.AddDate(0, 0, -7)); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if resp.Signups.Last30Days, err = s.analyticsRepo.SignupsSince(db, now.AddDate(0, 0, -30)); err != nil {
		return nil, apperrors.InternalError(err)
	}

	fillStatuses(resp.ProposalsByStatus, models.ProposalStatusValues())
	fillStatuses(resp.InterviewsByStatus, models.InterviewStatusValues())
	return resp, nil
}

// fillStatuses - нулевые счетчики для статусов без записей
func fillStatuses(counts map[string]int64, statuses []string) {
	if counts == nil {
		return
	}
	for _, st := range statuses {
		if _, ok := counts[st]; !ok {
			counts[st] = 0
		}
	}
}
