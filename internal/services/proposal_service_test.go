package services

import (
	"context"
	"testing"

	"findtern_backend/internal/email"
	"findtern_backend/internal/events"
	"findtern_backend/internal/metrics"
	"findtern_backend/internal/models"
	"findtern_backend/internal/services/dto"
	"findtern_backend/pkg/apperrors"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionProposal(t *testing.T) {
	const (
		employer = models.UserRoleEmployer
		intern   = models.UserRoleIntern
		admin    = models.UserRoleAdmin
		direct   = models.FlowTypeDirect
		first    = models.FlowTypeInterviewFirst
	)

	tests := []struct {
		name string
		role models.UserRole
		flow models.ProposalFlowType
		from models.ProposalStatus
		to   models.ProposalStatus
		want bool
	}{
		{"employer sends draft", employer, direct, models.ProposalStatusDraft, models.ProposalStatusSent, true},
		{"employer schedules interview", employer, first, models.ProposalStatusDraft, models.ProposalStatusInterviewScheduled, true},
		{"direct flow has no interview step", employer, direct, models.ProposalStatusDraft, models.ProposalStatusInterviewScheduled, false},
		{"employer sends after interview", employer, first, models.ProposalStatusInterviewScheduled, models.ProposalStatusSent, true},
		{"employer cannot accept", employer, direct, models.ProposalStatusSent, models.ProposalStatusAccepted, false},
		{"intern accepts", intern, direct, models.ProposalStatusSent, models.ProposalStatusAccepted, true},
		{"intern rejects", intern, first, models.ProposalStatusSent, models.ProposalStatusRejected, true},
		{"intern cannot send", intern, direct, models.ProposalStatusDraft, models.ProposalStatusSent, false},
		{"intern cannot accept draft", intern, direct, models.ProposalStatusDraft, models.ProposalStatusAccepted, false},
		{"accepted is final", intern, direct, models.ProposalStatusAccepted, models.ProposalStatusRejected, false},
		{"back to draft", employer, direct, models.ProposalStatusSent, models.ProposalStatusDraft, false},
		{"admin sends", admin, direct, models.ProposalStatusDraft, models.ProposalStatusSent, true},
		{"admin accepts", admin, direct, models.ProposalStatusSent, models.ProposalStatusAccepted, true},
		{"admin cannot skip", admin, direct, models.ProposalStatusDraft, models.ProposalStatusAccepted, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransitionProposal(tt.role, tt.flow, tt.from, tt.to))
		})
	}
}

type proposalFixture struct {
	svc        ProposalService
	proposals  *fakeProposalRepo
	interviews *fakeInterviewRepo
	mailer     *email.NoopProvider
	publisher  *events.NoopPublisher
	metrics    *metrics.Metrics
}

func newProposalFixture() *proposalFixture {
	f := &proposalFixture{
		proposals: newFakeProposalRepo(),
		interviews: newFakeInterviewRepo(
			&models.Interview{BaseModel: models.BaseModel{ID: "iv-1"}, EmployerID: "emp-1", InternID: "intern-1", Status: models.InterviewStatusPending},
			&models.Interview{BaseModel: models.BaseModel{ID: "iv-2"}, EmployerID: "emp-1", InternID: "intern-9", Status: models.InterviewStatusPending},
		),
		mailer:    email.NewNoopProvider(),
		publisher: events.NewNoopPublisher(),
		metrics:   metrics.New(),
	}
	users := newFakeUserRepo(
		&models.User{BaseModel: models.BaseModel{ID: "intern-1"}, FirstName: "Asha", Email: "asha@example.com", Role: models.UserRoleIntern},
		&models.User{BaseModel: models.BaseModel{ID: "admin-1"}, FirstName: "Root", Email: "root@example.com", Role: models.UserRoleAdmin},
	)
	employers := newFakeEmployerRepo(
		&models.Employer{BaseModel: models.BaseModel{ID: "emp-1"}, Name: "Ravi", CompanyName: "Acme", CompanyEmail: "hr@acme.example"},
	)
	projects := newFakeProjectRepo(
		&models.Project{BaseModel: models.BaseModel{ID: "proj-1"}, EmployerID: "emp-1", ProjectName: "Search", SkillRequirements: models.StringList{"go"}, Status: models.ProjectStatusActive},
		&models.Project{BaseModel: models.BaseModel{ID: "proj-old"}, EmployerID: "emp-1", ProjectName: "Legacy", Status: models.ProjectStatusArchived},
		&models.Project{BaseModel: models.BaseModel{ID: "proj-2"}, EmployerID: "emp-2", ProjectName: "Other", Status: models.ProjectStatusActive},
	)
	f.svc = NewProposalService(f.proposals, projects, f.interviews, users, employers, f.mailer, f.publisher, f.metrics)
	return f
}

func draftRequest() *dto.CreateProposalRequest {
	return &dto.CreateProposalRequest{
		EmployerID: "emp-1",
		InternID:   "intern-1",
		ProjectID:  "proj-1",
		FlowType:   string(models.FlowTypeDirect),
		OfferDetails: models.OfferDetails{
			Role:          "Backend intern",
			MonthlyAmount: 25000,
			Currency:      "INR",
		},
	}
}

func TestCreateProposal_Draft(t *testing.T) {
	f := newProposalFixture()

	resp, err := f.svc.CreateProposal(context.Background(), nil, employerActor, draftRequest())
	require.NoError(t, err)

	assert.Equal(t, models.ProposalStatusDraft, resp.Status)
	assert.Equal(t, []string{"go"}, resp.Skills)
	assert.Equal(t, "Backend intern", resp.OfferDetails.Role)
	assert.Equal(t, "Search", resp.ProjectName)

	// черновик никого не уведомляет
	assert.Zero(t, f.mailer.Count())
	assert.Empty(t, f.publisher.Types())
}

func TestCreateProposal_Sent(t *testing.T) {
	f := newProposalFixture()
	req := draftRequest()
	req.Status = string(models.ProposalStatusSent)
	req.AIInterviewRatings = map[string]interface{}{"communication": 4.5}

	resp, err := f.svc.CreateProposal(context.Background(), nil, employerActor, req)
	require.NoError(t, err)

	assert.Equal(t, models.ProposalStatusSent, resp.Status)
	assert.Equal(t, 4.5, resp.AIInterviewRatings["communication"])
	assert.Equal(t, []string{events.ProposalSent}, f.publisher.Types())
	require.Equal(t, 1, f.mailer.Count())
	assert.Equal(t, []string{"asha@example.com"}, f.mailer.Sent[0].To)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.ProposalTransitions.WithLabelValues("sent")))
}

func TestCreateProposal_Rejects(t *testing.T) {
	f := newProposalFixture()
	ctx := context.Background()

	t.Run("intern cannot create", func(t *testing.T) {
		_, err := f.svc.CreateProposal(ctx, nil, internActor, draftRequest())
		assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
	})

	t.Run("other employer", func(t *testing.T) {
		req := draftRequest()
		req.EmployerID = "emp-2"
		_, err := f.svc.CreateProposal(ctx, nil, employerActor, req)
		assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
	})

	t.Run("foreign project", func(t *testing.T) {
		req := draftRequest()
		req.ProjectID = "proj-2"
		_, err := f.svc.CreateProposal(ctx, nil, employerActor, req)
		requireCode(t, err, apperrors.CodeValidationFailed)
	})

	t.Run("archived project", func(t *testing.T) {
		req := draftRequest()
		req.ProjectID = "proj-old"
		_, err := f.svc.CreateProposal(ctx, nil, employerActor, req)
		requireCode(t, err, apperrors.CodeInvalidOperation)
	})

	t.Run("admin is not an intern", func(t *testing.T) {
		req := draftRequest()
		req.InternID = "admin-1"
		_, err := f.svc.CreateProposal(ctx, nil, employerActor, req)
		requireCode(t, err, apperrors.CodeValidationFailed)
	})

	t.Run("interview of another intern", func(t *testing.T) {
		req := draftRequest()
		id := "iv-2"
		req.InterviewID = &id
		_, err := f.svc.CreateProposal(ctx, nil, employerActor, req)
		appErr := requireCode(t, err, apperrors.CodeValidationFailed)
		assert.Contains(t, appErr.Details, "interviewId")
	})

	assert.Empty(t, f.proposals.proposals)
}

func strPtr(s string) *string { return &s }

func TestUpdateProposal_Lifecycle(t *testing.T) {
	f := newProposalFixture()
	ctx := context.Background()

	created, err := f.svc.CreateProposal(ctx, nil, employerActor, draftRequest())
	require.NoError(t, err)

	// правка черновика
	offer := models.OfferDetails{Role: "Platform intern", MonthlyAmount: 30000, Currency: "INR"}
	updated, err := f.svc.UpdateProposal(ctx, nil, employerActor, created.ID, &dto.UpdateProposalRequest{OfferDetails: &offer})
	require.NoError(t, err)
	assert.Equal(t, "Platform intern", updated.OfferDetails.Role)

	// стажер не может отправить за работодателя
	_, err = f.svc.UpdateProposal(ctx, nil, internActor, created.ID, &dto.UpdateProposalRequest{Status: strPtr("sent")})
	requireCode(t, err, apperrors.CodeInvalidStatus)

	updated, err = f.svc.UpdateProposal(ctx, nil, employerActor, created.ID, &dto.UpdateProposalRequest{Status: strPtr("sent")})
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusSent, updated.Status)

	// после отправки содержимое заморожено
	_, err = f.svc.UpdateProposal(ctx, nil, employerActor, created.ID, &dto.UpdateProposalRequest{Skills: []string{"rust"}})
	assert.ErrorIs(t, err, apperrors.ErrProposalNotEditable)

	_, err = f.svc.UpdateProposal(ctx, nil, internActor, created.ID, &dto.UpdateProposalRequest{Skills: []string{"rust"}})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	updated, err = f.svc.UpdateProposal(ctx, nil, internActor, created.ID, &dto.UpdateProposalRequest{Status: strPtr("accepted")})
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusAccepted, updated.Status)

	_, err = f.svc.UpdateProposal(ctx, nil, internActor, created.ID, &dto.UpdateProposalRequest{Status: strPtr("rejected")})
	appErr := requireCode(t, err, apperrors.CodeInvalidStatus)
	assert.Equal(t, map[string]string{"from": "accepted", "to": "rejected"}, appErr.Details)

	assert.Equal(t, []string{events.ProposalSent, events.ProposalAccepted}, f.publisher.Types())
	// письмо стажеру при отправке, работодателю при ответе
	assert.Equal(t, 2, f.mailer.Count())
}

func TestUpdateProposal_SameStatusIsNoop(t *testing.T) {
	f := newProposalFixture()
	ctx := context.Background()

	created, err := f.svc.CreateProposal(ctx, nil, employerActor, draftRequest())
	require.NoError(t, err)

	_, err = f.svc.UpdateProposal(ctx, nil, employerActor, created.ID, &dto.UpdateProposalRequest{Status: strPtr("draft")})
	require.NoError(t, err)
	assert.Empty(t, f.publisher.Types())
}

func TestProposalAccess(t *testing.T) {
	f := newProposalFixture()
	ctx := context.Background()

	created, err := f.svc.CreateProposal(ctx, nil, employerActor, draftRequest())
	require.NoError(t, err)

	_, err = f.svc.GetProposal(nil, internActor, created.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetProposal(nil, dto.Actor{ID: "emp-2", Role: models.UserRoleEmployer}, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
	_, err = f.svc.GetProposal(nil, employerActor, "missing")
	requireCode(t, err, apperrors.CodeNotFound)

	list, err := f.svc.ListEmployerProposals(nil, employerActor, "emp-1", &dto.ProposalListQuery{}, 1, 20)
	require.NoError(t, err)
	assert.Len(t, list.Proposals, 1)
	assert.Equal(t, int64(1), list.Total)

	list, err = f.svc.ListInternProposals(nil, internActor, "intern-1", &dto.ProposalListQuery{Status: "sent"}, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, list.Proposals)

	_, err = f.svc.ListEmployerProposals(nil, internActor, "emp-1", &dto.ProposalListQuery{}, 1, 20)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
}
