package services

import (
	"context"
	"encoding/json"

	"findtern_backend/internal/email"
	"findtern_backend/internal/events"
	"findtern_backend/internal/metrics"
	"findtern_backend/internal/models"
	"findtern_backend/internal/repositories"
	"findtern_backend/internal/services/dto"
	"findtern_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProposalService interface {
	CreateProposal(ctx context.Context, db *gorm.DB, actor dto.Actor, req *dto.CreateProposalRequest) (*dto.ProposalResponse, error)
	GetProposal(db *gorm.DB, actor dto.Actor, proposalID string) (*dto.ProposalResponse, error)
	UpdateProposal(ctx context.Context, db *gorm.DB, actor dto.Actor, proposalID string, req *dto.UpdateProposalRequest) (*dto.ProposalResponse, error)
	ListEmployerProposals(db *gorm.DB, actor dto.Actor, employerID string, query *dto.ProposalListQuery, page, pageSize int) (*dto.ProposalListResponse, error)
	ListInternProposals(db *gorm.DB, actor dto.Actor, internID string, query *dto.ProposalListQuery, page, pageSize int) (*dto.ProposalListResponse, error)
}

type proposalService struct {
	proposalRepo  repositories.ProposalRepository
	projectRepo   repositories.ProjectRepository
	interviewRepo repositories.InterviewRepository
	userRepo      repositories.UserRepository
	employerRepo  repositories.EmployerRepository
	effects       sideEffects
}

func NewProposalService(
	proposalRepo repositories.ProposalRepository,
	projectRepo repositories.ProjectRepository,
	interviewRepo repositories.InterviewRepository,
	userRepo repositories.UserRepository,
	employerRepo repositories.EmployerRepository,
	emailProvider email.Provider,
	publisher events.Publisher,
	m *metrics.Metrics,
) ProposalService {
	return &proposalService{
		proposalRepo:  proposalRepo,
		projectRepo:   projectRepo,
		interviewRepo: interviewRepo,
		userRepo:      userRepo,
		employerRepo:  employerRepo,
		effects:       sideEffects{mailer: emailProvider, publisher: publisher, metrics: m},
	}
}

func (s *proposalService) CreateProposal(ctx context.Context, db *gorm.DB, actor dto.Actor, req *dto.CreateProposalRequest) (*dto.ProposalResponse, error) {
	if actor.Role != models.UserRoleEmployer && !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if !actor.Owns(req.EmployerID) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	status := models.ProposalStatus(req.Status)
	if status == "" {
		status = models.ProposalStatusDraft
	}

	project, err := s.projectRepo.FindByID(db, req.ProjectID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProjectNotFound) {
			return nil, fieldError("projectId", "Project not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if project.EmployerID != req.EmployerID {
		return nil, fieldError("projectId", "Project does not belong to this employer")
	}
	if project.Status == models.ProjectStatusArchived {
		return nil, apperrors.ErrInvalidOperation("proposal", "Cannot create a proposal for an archived project")
	}

	intern, err := s.findIntern(db, req.InternID)
	if err != nil {
		return nil, err
	}

	if req.InterviewID != nil {
		if err := s.checkInterviewLink(db, *req.InterviewID, req.EmployerID, req.InternID); err != nil {
			return nil, err
		}
	}

	proposal := &models.Proposal{
		EmployerID:  req.EmployerID,
		InternID:    req.InternID,
		ProjectID:   req.ProjectID,
		InterviewID: req.InterviewID,
		FlowType:    models.ProposalFlowType(req.FlowType),
		Status:      status,
		Skills:      models.StringList(trimAll(req.Skills)),
	}
	if len(proposal.Skills) == 0 {
		proposal.Skills = project.SkillRequirements
	}
	if err := proposal.SetOfferDetails(req.OfferDetails); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := setRatings(proposal, req.AIInterviewRatings); err != nil {
		return nil, err
	}

	if err := s.proposalRepo.Create(db, proposal); err != nil {
		return nil, apperrors.InternalError(err)
	}
	proposal.Project = project

	if status == models.ProposalStatusSent {
		s.afterTransition(ctx, db, proposal, intern)
	}
	return dto.NewProposalResponse(proposal), nil
}

func (s *proposalService) GetProposal(db *gorm.DB, actor dto.Actor, proposalID string) (*dto.ProposalResponse, error) {
	proposal, err := s.proposalRepo.FindByID(db, proposalID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if !canSeeProposal(actor, proposal) {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return dto.NewProposalResponse(proposal), nil
}

// UpdateProposal - правка оффера (только draft, только работодатель) и/или смена статуса
func (s *proposalService) UpdateProposal(ctx context.Context, db *gorm.DB, actor dto.Actor, proposalID string, req *dto.UpdateProposalRequest) (*dto.ProposalResponse, error) {
	proposal, err := s.proposalRepo.FindByID(db, proposalID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if !canSeeProposal(actor, proposal) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if req.HasContentChanges() {
		if actor.Role == models.UserRoleIntern {
			return nil, apperrors.ErrInsufficientPermissions
		}
		if proposal.Status != models.ProposalStatusDraft {
			return nil, apperrors.ErrProposalNotEditable
		}
		if err := s.applyContent(db, proposal, req); err != nil {
			return nil, err
		}
	}

	transitioned := false
	if req.Status != nil {
		to := models.ProposalStatus(*req.Status)
		if to != proposal.Status {
			if !CanTransitionProposal(actor.Role, proposal.FlowType, proposal.Status, to) {
				return nil, apperrors.ErrInvalidProposalTransition.WithDetails(map[string]string{
					"from": string(proposal.Status),
					"to":   string(to),
				})
			}
			proposal.Status = to
			transitioned = true
		}
	}

	if err := s.proposalRepo.Update(db, proposal); err != nil {
		return nil, handleRepoError(err)
	}

	if transitioned {
		s.afterTransition(ctx, db, proposal, nil)
	}
	return dto.NewProposalResponse(proposal), nil
}

func (s *proposalService) ListEmployerProposals(db *gorm.DB, actor dto.Actor, employerID string, query *dto.ProposalListQuery, page, pageSize int) (*dto.ProposalListResponse, error) {
	if !actor.Owns(employerID) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	filter := repositories.ProposalFilter{Status: models.ProposalStatus(query.Status), Page: page, PageSize: pageSize}
	proposals, total, err := s.proposalRepo.FindByEmployer(db, employerID, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildProposalList(proposals, total, page, pageSize), nil
}

func (s *proposalService) ListInternProposals(db *gorm.DB, actor dto.Actor, internID string, query *dto.ProposalListQuery, page, pageSize int) (*dto.ProposalListResponse, error) {
	if !actor.Owns(internID) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	filter := repositories.ProposalFilter{Status: models.ProposalStatus(query.Status), Page: page, PageSize: pageSize}
	proposals, total, err := s.proposalRepo.FindByIntern(db, internID, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildProposalList(proposals, total, page, pageSize), nil
}

// ---------------- helpers ----------------

func (s *proposalService) applyContent(db *gorm.DB, proposal *models.Proposal, req *dto.UpdateProposalRequest) error {
	if req.OfferDetails != nil {
		if err := proposal.SetOfferDetails(*req.OfferDetails); err != nil {
			return apperrors.InternalError(err)
		}
	}
	if req.AIInterviewRatings != nil {
		if err := setRatings(proposal, req.AIInterviewRatings); err != nil {
			return err
		}
	}
	if req.Skills != nil {
		proposal.Skills = models.StringList(trimAll(req.Skills))
	}
	if req.InterviewID != nil {
		// пустая строка отвязывает интервью
		if *req.InterviewID == "" {
			proposal.InterviewID = nil
		} else {
			if err := s.checkInterviewLink(db, *req.InterviewID, proposal.EmployerID, proposal.InternID); err != nil {
				return err
			}
			id := *req.InterviewID
			proposal.InterviewID = &id
		}
	}
	return nil
}

func (s *proposalService) findIntern(db *gorm.DB, internID string) (*models.User, error) {
	intern, err := s.userRepo.FindByID(db, internID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, fieldError("internId", "Intern not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if intern.Role != models.UserRoleIntern {
		return nil, fieldError("internId", "Intern not found")
	}
	return intern, nil
}

// checkInterviewLink - интервью должно связывать тех же работодателя и стажера
func (s *proposalService) checkInterviewLink(db *gorm.DB, interviewID, employerID, internID string) error {
	interview, err := s.interviewRepo.FindByID(db, interviewID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrInterviewNotFound) {
			return fieldError("interviewId", "Interview not found")
		}
		return apperrors.InternalError(err)
	}
	if interview.EmployerID != employerID || interview.InternID != internID {
		return fieldError("interviewId", "Interview belongs to a different employer or intern")
	}
	return nil
}

// afterTransition - письма, события и метрики после смены статуса
func (s *proposalService) afterTransition(ctx context.Context, db *gorm.DB, proposal *models.Proposal, intern *models.User) {
	if s.effects.metrics != nil {
		s.effects.metrics.ProposalTransitions.WithLabelValues(string(proposal.Status)).Inc()
	}

	payload := map[string]interface{}{
		"proposalId": proposal.ID,
		"employerId": proposal.EmployerID,
		"internId":   proposal.InternID,
		"projectId":  proposal.ProjectID,
		"flowType":   string(proposal.FlowType),
		"status":     string(proposal.Status),
	}

	switch proposal.Status {
	case models.ProposalStatusSent:
		s.effects.publish(ctx, events.ProposalSent, payload)
		s.notifyIntern(ctx, db, proposal, intern)
	case models.ProposalStatusAccepted:
		s.effects.publish(ctx, events.ProposalAccepted, payload)
		s.notifyEmployer(ctx, db, proposal)
	case models.ProposalStatusRejected:
		s.effects.publish(ctx, events.ProposalRejected, payload)
		s.notifyEmployer(ctx, db, proposal)
	}
}

func (s *proposalService) notifyIntern(ctx context.Context, db *gorm.DB, proposal *models.Proposal, intern *models.User) {
	if intern == nil {
		found, err := s.userRepo.FindByID(db, proposal.InternID)
		if err != nil {
			return
		}
		intern = found
	}

	data := email.TemplateData{
		"InternName":  intern.FirstName,
		"ProjectName": projectName(proposal),
	}
	if employer, err := s.employerRepo.FindByID(db, proposal.EmployerID); err == nil {
		data["CompanyName"] = employer.CompanyName
	}
	if offer, err := proposal.GetOfferDetails(); err == nil {
		data["Role"] = offer.Role
		data["StartDate"] = offer.StartDate
		data["MonthlyAmount"] = offer.MonthlyAmount
		data["Currency"] = offer.Currency
	}
	s.effects.mail(ctx, intern.Email, "You have a new internship offer", email.TemplateProposalSent, data)
}

func (s *proposalService) notifyEmployer(ctx context.Context, db *gorm.DB, proposal *models.Proposal) {
	employer, err := s.employerRepo.FindByID(db, proposal.EmployerID)
	if err != nil {
		return
	}

	internName := ""
	if intern, err := s.userRepo.FindByID(db, proposal.InternID); err == nil {
		internName = intern.FullName()
	}
	s.effects.mail(ctx, employer.CompanyEmail, "Your offer has a response", email.TemplateProposalResponded, email.TemplateData{
		"InternName":  internName,
		"ProjectName": projectName(proposal),
		"Status":      string(proposal.Status),
	})
}

func canSeeProposal(actor dto.Actor, p *models.Proposal) bool {
	return actor.IsAdmin() || actor.ID == p.EmployerID || actor.ID == p.InternID
}

func setRatings(p *models.Proposal, ratings map[string]interface{}) error {
	if ratings == nil {
		return nil
	}
	b, err := json.Marshal(ratings)
	if err != nil {
		return fieldError("aiInterviewRatings", "Must be a JSON object")
	}
	p.AIInterviewRatings = datatypes.JSON(b)
	return nil
}

func projectName(p *models.Proposal) string {
	if p.Project != nil {
		return p.Project.ProjectName
	}
	return ""
}

func buildProposalList(proposals []models.Proposal, total int64, page, pageSize int) *dto.ProposalListResponse {
	items := make([]*dto.ProposalResponse, 0, len(proposals))
	for i := range proposals {
		items = append(items, dto.NewProposalResponse(&proposals[i]))
	}
	return &dto.ProposalListResponse{
		Proposals:  items,
		Pagination: dto.NewPagination(total, page, pageSize),
	}
}
