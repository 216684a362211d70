package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"findtern_backend/internal/auth"
	"findtern_backend/internal/calendar"
	"findtern_backend/internal/logger"
	"findtern_backend/internal/metrics"
	"findtern_backend/internal/models"
	"findtern_backend/internal/repositories"
	"findtern_backend/internal/services/dto"
	"findtern_backend/pkg/apperrors"

	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

const (
	warnCalendarDisabled     = "Calendar integration is disabled; share the meeting link manually"
	warnCalendarNotConnected = "Google Calendar is not connected; connect it to create meetings automatically"
)

type CalendarService interface {
	ConnectStatus(db *gorm.DB, actor dto.Actor, employerID string) (*dto.CalendarConnectResponse, error)
	HandleCallback(ctx context.Context, db *gorm.DB, query *dto.CalendarCallbackQuery) (*dto.CalendarCallbackResponse, error)
}

type calendarService struct {
	scheduler    calendar.MeetingScheduler
	tokenRepo    repositories.CalendarTokenRepository
	employerRepo repositories.EmployerRepository
}

func NewCalendarService(
	scheduler calendar.MeetingScheduler,
	tokenRepo repositories.CalendarTokenRepository,
	employerRepo repositories.EmployerRepository,
) CalendarService {
	return &calendarService{
		scheduler:    scheduler,
		tokenRepo:    tokenRepo,
		employerRepo: employerRepo,
	}
}

func (s *calendarService) ConnectStatus(db *gorm.DB, actor dto.Actor, employerID string) (*dto.CalendarConnectResponse, error) {
	if !actor.Owns(employerID) {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if !s.scheduler.Enabled() {
		return &dto.CalendarConnectResponse{Enabled: false}, nil
	}

	resp := &dto.CalendarConnectResponse{
		Enabled:    true,
		ConnectURL: connectURL(s.scheduler, employerID),
	}
	_, err := s.tokenRepo.FindByEmployer(db, employerID)
	switch {
	case err == nil:
		resp.Connected = true
	case !errors.Is(err, repositories.ErrCalendarTokenNotFound):
		return nil, apperrors.InternalError(err)
	}
	return resp, nil
}

// HandleCallback - state подписан при выдаче ссылки, обмен кода только после проверки подписи
func (s *calendarService) HandleCallback(ctx context.Context, db *gorm.DB, query *dto.CalendarCallbackQuery) (*dto.CalendarCallbackResponse, error) {
	if !s.scheduler.Enabled() {
		return nil, apperrors.ErrInvalidOperation("calendar", "Calendar integration is disabled")
	}

	employerID, err := auth.ParseOAuthState(query.State)
	if err != nil {
		logger.CtxWarn(ctx, "Rejected calendar callback", "error", err)
		return nil, apperrors.NewBadRequestError(auth.ErrInvalidState.Error())
	}
	if _, err := s.employerRepo.FindByID(db, employerID); err != nil {
		if errors.Is(err, repositories.ErrEmployerNotFound) {
			return nil, apperrors.NewBadRequestError(auth.ErrInvalidState.Error())
		}
		return nil, apperrors.InternalError(err)
	}

	token, err := s.scheduler.Exchange(ctx, query.Code)
	if err != nil {
		return nil, apperrors.ErrExternalService(err, "calendar", "Failed to exchange authorization code")
	}

	if err := s.tokenRepo.Upsert(db, tokenModel(employerID, token)); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Calendar connected", "employer_id", employerID)
	return &dto.CalendarCallbackResponse{EmployerID: employerID, Connected: true}, nil
}

// connectURL - ссылка на согласие Google с подписанным state
func connectURL(scheduler calendar.MeetingScheduler, employerID string) string {
	state, err := auth.GenerateOAuthState(employerID)
	if err != nil {
		logger.WithError(err).Error("Failed to sign calendar state", "employer_id", employerID)
		return ""
	}
	return scheduler.ConnectURL(state)
}

// meetingPlanner создает встречу для выбранного слота. Ошибки не возвращает:
// все проблемы превращаются в warning внутри MeetingOutcome.
type meetingPlanner struct {
	scheduler calendar.MeetingScheduler
	tokenRepo repositories.CalendarTokenRepository
	metrics   *metrics.Metrics
	duration  time.Duration
}

// Readiness - ответ на создание интервью: встреча появится после выбора слота
func (p *meetingPlanner) Readiness(db *gorm.DB, employerID string) *calendar.MeetingOutcome {
	if !p.scheduler.Enabled() {
		return &calendar.MeetingOutcome{Created: false, Warning: warnCalendarDisabled}
	}
	if _, err := p.tokenRepo.FindByEmployer(db, employerID); err != nil {
		return &calendar.MeetingOutcome{
			Created:    false,
			Warning:    warnCalendarNotConnected,
			ConnectURL: connectURL(p.scheduler, employerID),
		}
	}
	return &calendar.MeetingOutcome{Created: false}
}

// Create - встреча на выбранный слот; при успехе заполняет ссылку и id события в interview
func (p *meetingPlanner) Create(ctx context.Context, db *gorm.DB, interview *models.Interview) *calendar.MeetingOutcome {
	outcome := p.create(ctx, db, interview)
	p.metrics.ObserveMeeting(outcome.Created)
	return outcome
}

func (p *meetingPlanner) create(ctx context.Context, db *gorm.DB, interview *models.Interview) *calendar.MeetingOutcome {
	if !p.scheduler.Enabled() {
		return &calendar.MeetingOutcome{Created: false, Warning: warnCalendarDisabled}
	}

	start := interview.SelectedTime()
	if start == nil {
		return &calendar.MeetingOutcome{Created: false, Warning: "No slot selected"}
	}

	stored, err := p.tokenRepo.FindByEmployer(db, interview.EmployerID)
	if err != nil {
		return &calendar.MeetingOutcome{
			Created:    false,
			Warning:    warnCalendarNotConnected,
			ConnectURL: connectURL(p.scheduler, interview.EmployerID),
		}
	}

	meeting := calendar.Meeting{
		Summary:  meetingSummary(interview),
		Start:    *start,
		Duration: p.duration,
		Timezone: interview.Timezone,
	}
	if interview.Intern != nil {
		meeting.Attendees = append(meeting.Attendees, interview.Intern.Email)
	}

	result, err := p.scheduler.CreateMeeting(ctx, oauthToken(stored), meeting)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to create meeting", err, "interview_id", interview.ID)
		return &calendar.MeetingOutcome{Created: false, Warning: fmt.Sprintf("Meeting was not created: %v", err)}
	}

	if result.Token != nil {
		if err := p.tokenRepo.Upsert(db, tokenModel(interview.EmployerID, result.Token)); err != nil {
			logger.CtxWithError(ctx, "Failed to store refreshed calendar token", err, "employer_id", interview.EmployerID)
		}
	}

	link, eventID := result.MeetLink, result.EventID
	interview.MeetingLink = &link
	interview.CalendarEventID = &eventID
	return &calendar.MeetingOutcome{Created: true, MeetingLink: link}
}

func meetingSummary(i *models.Interview) string {
	summary := "Findtern interview"
	if i.Project != nil && i.Project.ProjectName != "" {
		summary += ": " + i.Project.ProjectName
	}
	if i.Intern != nil {
		summary += " with " + i.Intern.FullName()
	}
	return summary
}

func tokenModel(employerID string, t *oauth2.Token) *models.CalendarToken {
	return &models.CalendarToken{
		EmployerID:   employerID,
		Provider:     "google",
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.Expiry,
	}
}

func oauthToken(t *models.CalendarToken) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.Expiry,
	}
}
