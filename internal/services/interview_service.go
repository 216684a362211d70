package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"findtern_backend/internal/calendar"
	"findtern_backend/internal/email"
	"findtern_backend/internal/events"
	"findtern_backend/internal/logger"
	"findtern_backend/internal/metrics"
	"findtern_backend/internal/models"
	"findtern_backend/internal/repositories"
	"findtern_backend/internal/scheduling"
	"findtern_backend/internal/services/dto"
	"findtern_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const emailTimeLayout = "Mon, 02 Jan 2006 15:04"

type InterviewService interface {
	CreateInterview(ctx context.Context, db *gorm.DB, actor dto.Actor, employerID string, req *dto.CreateInterviewRequest) (*dto.InterviewWithMeeting, error)
	ListEmployerInterviews(db *gorm.DB, actor dto.Actor, employerID string, query *dto.InterviewListQuery) ([]*dto.InterviewResponse, error)
	ListInternInterviews(db *gorm.DB, actor dto.Actor, internID string, query *dto.InterviewListQuery) ([]*dto.InterviewResponse, error)
	SlotWindow(actor dto.Actor, employerID string, query *dto.SlotWindowQuery) (*dto.SlotWindowResponse, error)
	RescheduleInterview(ctx context.Context, db *gorm.DB, actor dto.Actor, employerID, interviewID string, req *dto.RescheduleInterviewRequest) (*dto.InterviewResponse, error)
	CancelInterview(ctx context.Context, db *gorm.DB, actor dto.Actor, employerID, interviewID string) (*dto.InterviewResponse, error)
	SelectSlot(ctx context.Context, db *gorm.DB, actor dto.Actor, interviewID string, req *dto.SelectSlotRequest) (*dto.InterviewWithMeeting, error)
	GetInterview(db *gorm.DB, actor dto.Actor, interviewID string) (*dto.InterviewResponse, error)

	// RunLifecycle - expired для просроченных pending, completed для прошедших scheduled
	RunLifecycle(db *gorm.DB, now time.Time) (expired int64, completed int64, err error)
}

// InterviewConfig - часовой пояс по умолчанию и длительность встречи
type InterviewConfig struct {
	DefaultTimezone string
	MeetingDuration time.Duration
}

type interviewService struct {
	interviewRepo repositories.InterviewRepository
	proposalRepo  repositories.ProposalRepository
	projectRepo   repositories.ProjectRepository
	userRepo      repositories.UserRepository
	employerRepo  repositories.EmployerRepository
	planner       *meetingPlanner
	effects       sideEffects
	config        InterviewConfig
	now           func() time.Time
	inTx          txRunner
}

func NewInterviewService(
	interviewRepo repositories.InterviewRepository,
	proposalRepo repositories.ProposalRepository,
	projectRepo repositories.ProjectRepository,
	userRepo repositories.UserRepository,
	employerRepo repositories.EmployerRepository,
	tokenRepo repositories.CalendarTokenRepository,
	scheduler calendar.MeetingScheduler,
	emailProvider email.Provider,
	publisher events.Publisher,
	m *metrics.Metrics,
	config InterviewConfig,
) InterviewService {
	if config.DefaultTimezone == "" {
		config.DefaultTimezone = "Asia/Kolkata"
	}
	if config.MeetingDuration <= 0 {
		config.MeetingDuration = calendar.DefaultDuration
	}
	return &interviewService{
		interviewRepo: interviewRepo,
		proposalRepo:  proposalRepo,
		projectRepo:   projectRepo,
		userRepo:      userRepo,
		employerRepo:  employerRepo,
		planner: &meetingPlanner{
			scheduler: scheduler,
			tokenRepo: tokenRepo,
			metrics:   m,
			duration:  config.MeetingDuration,
		},
		effects: sideEffects{mailer: emailProvider, publisher: publisher, metrics: m},
		config:  config,
		now:     time.Now,
		inTx:    runInTx,
	}
}

// CreateInterview - работодатель предлагает три слота. Встреча создается позже, при выборе слота.
func (s *interviewService) CreateInterview(ctx context.Context, db *gorm.DB, actor dto.Actor, employerID string, req *dto.CreateInterviewRequest) (*dto.InterviewWithMeeting, error) {
	if !actor.Owns(employerID) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	employer, err := s.employerRepo.FindByID(db, employerID)
	if err != nil {
		return nil, handleRepoError(err)
	}

	intern, err := s.userRepo.FindByID(db, req.InternID)
	if err != nil || intern.Role != models.UserRoleIntern {
		if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.InternalError(err)
		}
		return nil, fieldError("internId", "Intern not found")
	}

	timezone := req.Timezone
	var projectID *string
	if req.ProjectID != nil && *req.ProjectID != "" {
		project, err := s.projectRepo.FindByID(db, *req.ProjectID)
		if err != nil || project.EmployerID != employerID {
			if err != nil && !errors.Is(err, repositories.ErrProjectNotFound) {
				return nil, apperrors.InternalError(err)
			}
			return nil, fieldError("projectId", "Project not found")
		}
		if timezone == "" {
			timezone = project.Timezone
		}
		projectID = &project.ID
	}

	loc, slots, err := s.parseSlots(req.Slots(), timezone)
	if err != nil {
		return nil, err
	}

	interview := &models.Interview{
		EmployerID: employerID,
		InternID:   intern.ID,
		ProjectID:  projectID,
		Timezone:   loc.String(),
		Status:     models.InterviewStatusPending,
	}
	interview.SetSlots(slots)

	if err := s.interviewRepo.Create(db, interview); err != nil {
		return nil, apperrors.InternalError(err)
	}
	interview.Employer = employer
	interview.Intern = intern

	if s.effects.metrics != nil {
		s.effects.metrics.InterviewsCreated.Inc()
	}
	s.effects.publish(ctx, events.InterviewCreated, interviewPayload(interview))
	s.notifyProposed(ctx, interview, loc)

	return &dto.InterviewWithMeeting{
		Interview: dto.NewInterviewResponse(interview),
		Meeting:   s.planner.Readiness(db, employerID),
	}, nil
}

func (s *interviewService) ListEmployerInterviews(db *gorm.DB, actor dto.Actor, employerID string, query *dto.InterviewListQuery) ([]*dto.InterviewResponse, error) {
	if !actor.Owns(employerID) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	filter := repositories.InterviewFilter{
		Status:   models.InterviewStatus(query.Status),
		InternID: query.InternID,
	}
	interviews, err := s.interviewRepo.FindByEmployer(db, employerID, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildInterviewList(interviews), nil
}

func (s *interviewService) ListInternInterviews(db *gorm.DB, actor dto.Actor, internID string, query *dto.InterviewListQuery) ([]*dto.InterviewResponse, error) {
	if !actor.Owns(internID) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	interviews, err := s.interviewRepo.FindByIntern(db, internID, models.InterviewStatus(query.Status))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildInterviewList(interviews), nil
}

// SlotWindow - окно, слоты по умолчанию и 48 вариантов времени на дату
func (s *interviewService) SlotWindow(actor dto.Actor, employerID string, query *dto.SlotWindowQuery) (*dto.SlotWindowResponse, error) {
	if !actor.Owns(employerID) {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return BuildSlotWindow(s.now(), query, s.config.DefaultTimezone)
}

// BuildSlotWindow - чистая функция, now передается снаружи
func BuildSlotWindow(now time.Time, query *dto.SlotWindowQuery, defaultTimezone string) (*dto.SlotWindowResponse, error) {
	loc, err := scheduling.LoadLocation(query.Timezone, defaultTimezone)
	if err != nil {
		return nil, fieldError("timezone", err.Error())
	}

	now = now.In(loc)
	window := scheduling.NewWindow(now)

	date := now
	if query.Date != "" {
		date, err = time.ParseInLocation(scheduling.DateLayout, query.Date, loc)
		if err != nil {
			return nil, fieldError("date", "Must be a date in YYYY-MM-DD format")
		}
	}

	var selected []time.Time
	for _, v := range splitCSV(query.Selected) {
		t, err := scheduling.ParseSlot(v, loc)
		if err != nil {
			return nil, fieldError("selected", err.Error())
		}
		selected = append(selected, t)
	}

	resp := &dto.SlotWindowResponse{
		Timezone: loc.String(),
		Now:      scheduling.FormatLocal(now),
		Floor:    scheduling.FormatLocal(window.Floor),
		Ceiling:  scheduling.FormatLocal(window.Ceiling),
		Date:     date.Format(scheduling.DateLayout),
		Options:  scheduling.TimeOptions(date, window, selected, query.Editing-1),
	}
	for _, d := range window.Dates() {
		resp.Dates = append(resp.Dates, d.Format(scheduling.DateLayout))
	}
	for _, t := range scheduling.BuildDefaultSlots(now) {
		resp.DefaultSlots = append(resp.DefaultSlots, scheduling.FormatLocal(t))
	}
	return resp, nil
}

// RescheduleInterview - новые три слота; выбор и встреча сбрасываются, статус снова pending
func (s *interviewService) RescheduleInterview(ctx context.Context, db *gorm.DB, actor dto.Actor, employerID, interviewID string, req *dto.RescheduleInterviewRequest) (*dto.InterviewResponse, error) {
	interview, err := s.findEmployerInterview(db, actor, employerID, interviewID)
	if err != nil {
		return nil, err
	}
	if !interview.Status.Open() {
		return nil, apperrors.ErrInvalidInterviewStatus
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = interview.Timezone
	}
	loc, slots, err := s.parseSlots(req.Slots(), timezone)
	if err != nil {
		return nil, err
	}

	ApplyReschedule(interview, slots, loc.String())

	if err := s.interviewRepo.Update(db, interview); err != nil {
		return nil, handleRepoError(err)
	}

	s.effects.publish(ctx, events.InterviewRescheduled, interviewPayload(interview))
	s.notifyProposed(ctx, interview, loc)
	return dto.NewInterviewResponse(interview), nil
}

func (s *interviewService) CancelInterview(ctx context.Context, db *gorm.DB, actor dto.Actor, employerID, interviewID string) (*dto.InterviewResponse, error) {
	interview, err := s.findEmployerInterview(db, actor, employerID, interviewID)
	if err != nil {
		return nil, err
	}
	if !interview.Status.Open() {
		return nil, apperrors.ErrInvalidInterviewStatus
	}

	interview.Status = models.InterviewStatusCancelled
	if err := s.interviewRepo.Update(db, interview); err != nil {
		return nil, handleRepoError(err)
	}

	s.effects.publish(ctx, events.InterviewCancelled, interviewPayload(interview))
	return dto.NewInterviewResponse(interview), nil
}

// SelectSlot - стажер выбирает слот. Выбор и перевод связанных interview_first офферов
// идут одной транзакцией, встреча создается после коммита и выбор не откатывает.
func (s *interviewService) SelectSlot(ctx context.Context, db *gorm.DB, actor dto.Actor, interviewID string, req *dto.SelectSlotRequest) (*dto.InterviewWithMeeting, error) {
	if actor.Role != models.UserRoleIntern {
		return nil, apperrors.ErrInsufficientPermissions
	}

	var (
		interview *models.Interview
		moved     []*models.Proposal
	)
	err := s.inTx(db, func(tx *gorm.DB) error {
		var err error
		interview, err = s.interviewRepo.LockByID(tx, interviewID)
		if err != nil {
			return handleRepoError(err)
		}
		if interview.InternID != actor.ID {
			return apperrors.ErrInsufficientPermissions
		}
		if err := ApplySlotSelection(interview, req.Slot, s.now()); err != nil {
			return err
		}
		if err := s.interviewRepo.Update(tx, interview); err != nil {
			return handleRepoError(err)
		}

		proposals, err := s.proposalRepo.FindByInterview(tx, interview.ID)
		if err != nil {
			return apperrors.InternalError(err)
		}
		moved = ProposalsAwaitingInterview(proposals)
		for _, p := range moved {
			p.Status = models.ProposalStatusInterviewScheduled
			if err := s.proposalRepo.Update(tx, p); err != nil {
				return handleRepoError(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// связи нужны для встречи и писем
	if full, err := s.interviewRepo.FindByID(db, interview.ID); err == nil {
		interview = full
	}

	outcome := s.planner.Create(ctx, db, interview)
	if outcome.Created {
		if err := s.interviewRepo.Update(db, interview); err != nil {
			logger.CtxWithError(ctx, "Failed to store meeting link", err, "interview_id", interview.ID)
			outcome.Warning = "Meeting was created but the link was not saved"
		}
	}

	if s.effects.metrics != nil {
		s.effects.metrics.SlotsSelected.Inc()
		for range moved {
			s.effects.metrics.ProposalTransitions.WithLabelValues(string(models.ProposalStatusInterviewScheduled)).Inc()
		}
	}
	s.effects.publish(ctx, events.InterviewScheduled, interviewPayload(interview))
	s.notifyScheduled(ctx, interview)

	return &dto.InterviewWithMeeting{
		Interview: dto.NewInterviewResponse(interview),
		Meeting:   outcome,
	}, nil
}

func (s *interviewService) GetInterview(db *gorm.DB, actor dto.Actor, interviewID string) (*dto.InterviewResponse, error) {
	interview, err := s.interviewRepo.FindByID(db, interviewID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if !actor.IsAdmin() && actor.ID != interview.EmployerID && actor.ID != interview.InternID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return dto.NewInterviewResponse(interview), nil
}

func (s *interviewService) RunLifecycle(db *gorm.DB, now time.Time) (int64, int64, error) {
	expired, err := s.interviewRepo.ExpirePending(db, now)
	if err != nil {
		return 0, 0, err
	}
	completed, err := s.interviewRepo.CompleteScheduled(db, now.Add(-s.config.MeetingDuration))
	if err != nil {
		return expired, 0, err
	}
	return expired, completed, nil
}

// ---------------- state rules ----------------

// ApplySlotSelection - выбор слота 1..3 из pending; прошедший слот не выбирается
func ApplySlotSelection(i *models.Interview, slot int, now time.Time) error {
	if slot < 1 || slot > scheduling.SlotCount {
		return fieldError("slot", "Must be 1, 2 or 3")
	}
	if i.Status != models.InterviewStatusPending {
		return apperrors.ErrInvalidInterviewStatus
	}
	if i.Slots()[slot-1].Before(now) {
		return fieldError("slot", "Selected slot is already in the past")
	}
	n := slot
	i.SelectedSlot = &n
	i.Status = models.InterviewStatusScheduled
	return nil
}

// ApplyReschedule - новые слоты, сброс выбора и встречи
func ApplyReschedule(i *models.Interview, slots [scheduling.SlotCount]time.Time, timezone string) {
	i.SetSlots(slots)
	i.Timezone = timezone
	i.SelectedSlot = nil
	i.MeetingLink = nil
	i.CalendarEventID = nil
	i.Status = models.InterviewStatusPending
}

// ProposalsAwaitingInterview - interview_first офферы в draft, которые двигаются в interview_scheduled
func ProposalsAwaitingInterview(proposals []models.Proposal) []*models.Proposal {
	var out []*models.Proposal
	for i := range proposals {
		p := &proposals[i]
		if p.FlowType == models.FlowTypeInterviewFirst && p.Status == models.ProposalStatusDraft {
			out = append(out, p)
		}
	}
	return out
}

// ---------------- helpers ----------------

// parseSlots - серверная проверка слотов: ошибки по полям slot1..slot3
func (s *interviewService) parseSlots(values []string, timezone string) (*time.Location, [scheduling.SlotCount]time.Time, error) {
	var slots [scheduling.SlotCount]time.Time

	loc, err := scheduling.LoadLocation(timezone, s.config.DefaultTimezone)
	if err != nil {
		return nil, slots, fieldError("timezone", err.Error())
	}

	window := scheduling.NewWindow(s.now().In(loc))
	slots, err = scheduling.ParseSlots(values, loc, window)
	if err != nil {
		var slotErrs scheduling.SlotErrors
		if errors.As(err, &slotErrs) {
			return nil, slots, apperrors.ValidationError(slotErrs.Fields())
		}
		return nil, slots, fieldError("slots", err.Error())
	}
	return loc, slots, nil
}

func (s *interviewService) findEmployerInterview(db *gorm.DB, actor dto.Actor, employerID, interviewID string) (*models.Interview, error) {
	if !actor.Owns(employerID) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	interview, err := s.interviewRepo.FindByID(db, interviewID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if interview.EmployerID != employerID {
		return nil, apperrors.ErrNotFound(repositories.ErrInterviewNotFound)
	}
	return interview, nil
}

func (s *interviewService) notifyProposed(ctx context.Context, interview *models.Interview, loc *time.Location) {
	if interview.Intern == nil {
		return
	}

	var slots []string
	for _, t := range interview.Slots() {
		slots = append(slots, t.In(loc).Format(emailTimeLayout))
	}
	s.effects.mail(ctx, interview.Intern.Email, "Pick a time for your interview", email.TemplateInterviewProposed, email.TemplateData{
		"InternName":  interview.Intern.FirstName,
		"CompanyName": companyName(interview),
		"Slots":       slots,
		"Timezone":    loc.String(),
	})
}

func (s *interviewService) notifyScheduled(ctx context.Context, interview *models.Interview) {
	when := interview.SelectedTime()
	if when == nil {
		return
	}
	loc, err := time.LoadLocation(interview.Timezone)
	if err != nil {
		loc = time.UTC
	}

	data := email.TemplateData{
		"CompanyName": companyName(interview),
		"When":        when.In(loc).Format(emailTimeLayout),
		"Timezone":    loc.String(),
		"MeetingLink": "",
	}
	if interview.MeetingLink != nil {
		data["MeetingLink"] = *interview.MeetingLink
	}
	if interview.Intern != nil {
		data["InternName"] = interview.Intern.FullName()
		s.effects.mail(ctx, interview.Intern.Email, "Your interview is scheduled", email.TemplateInterviewScheduled, data)
	}
	if interview.Employer != nil {
		s.effects.mail(ctx, interview.Employer.CompanyEmail, "Interview scheduled", email.TemplateInterviewScheduled, data)
	}
}

func companyName(i *models.Interview) string {
	if i.Employer == nil {
		return ""
	}
	if strings.TrimSpace(i.Employer.CompanyName) != "" {
		return i.Employer.CompanyName
	}
	return i.Employer.Name
}

func interviewPayload(i *models.Interview) map[string]interface{} {
	payload := map[string]interface{}{
		"interviewId": i.ID,
		"employerId":  i.EmployerID,
		"internId":    i.InternID,
		"status":      string(i.Status),
		"timezone":    i.Timezone,
	}
	if i.ProjectID != nil {
		payload["projectId"] = *i.ProjectID
	}
	if i.SelectedSlot != nil {
		payload["selectedSlot"] = *i.SelectedSlot
	}
	return payload
}

func buildInterviewList(interviews []models.Interview) []*dto.InterviewResponse {
	out := make([]*dto.InterviewResponse, 0, len(interviews))
	for i := range interviews {
		out = append(out, dto.NewInterviewResponse(&interviews[i]))
	}
	return out
}
