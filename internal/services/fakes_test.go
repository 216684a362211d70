package services

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"sync"
	"testing"
	"time"

	"findtern_backend/internal/auth"
	"findtern_backend/internal/calendar"
	"findtern_backend/internal/models"
	"findtern_backend/internal/repositories"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// Фейковые репозитории в памяти. db всегда nil: сервисы без транзакций его только пробрасывают.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*models.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(db *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = fmt.Sprintf("u-%d", len(r.users)+1)
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(db *gorm.DB, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) UpdatePassword(db *gorm.DB, userID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) FindInterns(db *gorm.DB, filter repositories.InternFilter) ([]models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if u.Role == models.UserRoleIntern {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

type fakeEmployerRepo struct {
	mu        sync.Mutex
	employers map[string]*models.Employer
}

func newFakeEmployerRepo(employers ...*models.Employer) *fakeEmployerRepo {
	r := &fakeEmployerRepo{employers: map[string]*models.Employer{}}
	for _, e := range employers {
		r.employers[e.ID] = e
	}
	return r
}

func (r *fakeEmployerRepo) Create(db *gorm.DB, employer *models.Employer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.employers[employer.ID] = employer
	return nil
}

func (r *fakeEmployerRepo) FindByID(db *gorm.DB, id string) (*models.Employer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.employers[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, repositories.ErrEmployerNotFound
}

func (r *fakeEmployerRepo) FindByEmail(db *gorm.DB, email string) (*models.Employer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.employers {
		if e.CompanyEmail == email {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repositories.ErrEmployerNotFound
}

func (r *fakeEmployerRepo) Update(db *gorm.DB, employer *models.Employer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.employers[employer.ID]; !ok {
		return repositories.ErrEmployerNotFound
	}
	cp := *employer
	r.employers[employer.ID] = &cp
	return nil
}

func (r *fakeEmployerRepo) UpdatePassword(db *gorm.DB, employerID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employers[employerID]
	if !ok {
		return repositories.ErrEmployerNotFound
	}
	e.PasswordHash = passwordHash
	return nil
}

type fakeProjectRepo struct {
	mu       sync.Mutex
	projects map[string]*models.Project
}

func newFakeProjectRepo(projects ...*models.Project) *fakeProjectRepo {
	r := &fakeProjectRepo{projects: map[string]*models.Project{}}
	for _, p := range projects {
		r.projects[p.ID] = p
	}
	return r
}

func (r *fakeProjectRepo) Create(db *gorm.DB, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if project.ID == "" {
		project.ID = fmt.Sprintf("p-%d", len(r.projects)+1)
	}
	cp := *project
	r.projects[project.ID] = &cp
	return nil
}

func (r *fakeProjectRepo) FindByID(db *gorm.DB, id string) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.projects[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, repositories.ErrProjectNotFound
}

func (r *fakeProjectRepo) FindByEmployer(db *gorm.DB, employerID string, includeArchived bool) ([]models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Project
	for _, p := range r.projects {
		if p.EmployerID != employerID {
			continue
		}
		if !includeArchived && p.Status == models.ProjectStatusArchived {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeProjectRepo) Update(db *gorm.DB, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *project
	r.projects[project.ID] = &cp
	return nil
}

func (r *fakeProjectRepo) Archive(db *gorm.DB, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return repositories.ErrProjectNotFound
	}
	p.Status = models.ProjectStatusArchived
	return nil
}

func (r *fakeProjectRepo) Delete(db *gorm.DB, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[id]; !ok {
		return repositories.ErrProjectNotFound
	}
	delete(r.projects, id)
	return nil
}

type fakeInterviewRepo struct {
	mu         sync.Mutex
	interviews map[string]*models.Interview
	seq        int
}

func newFakeInterviewRepo(interviews ...*models.Interview) *fakeInterviewRepo {
	r := &fakeInterviewRepo{interviews: map[string]*models.Interview{}}
	for _, i := range interviews {
		r.interviews[i.ID] = i
	}
	return r
}

func (r *fakeInterviewRepo) Create(db *gorm.DB, interview *models.Interview) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if interview.ID == "" {
		interview.ID = fmt.Sprintf("i-%d", r.seq)
	}
	cp := *interview
	r.interviews[interview.ID] = &cp
	return nil
}

func (r *fakeInterviewRepo) FindByID(db *gorm.DB, id string) (*models.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.interviews[id]; ok {
		cp := *i
		return &cp, nil
	}
	return nil, repositories.ErrInterviewNotFound
}

func (r *fakeInterviewRepo) LockByID(db *gorm.DB, id string) (*models.Interview, error) {
	return r.FindByID(db, id)
}

func (r *fakeInterviewRepo) FindByEmployer(db *gorm.DB, employerID string, filter repositories.InterviewFilter) ([]models.Interview, error) {
	return r.list(func(i *models.Interview) bool {
		return i.EmployerID == employerID &&
			(filter.Status == "" || i.Status == filter.Status) &&
			(filter.InternID == "" || i.InternID == filter.InternID)
	}), nil
}

func (r *fakeInterviewRepo) FindByIntern(db *gorm.DB, internID string, status models.InterviewStatus) ([]models.Interview, error) {
	return r.list(func(i *models.Interview) bool {
		return i.InternID == internID && (status == "" || i.Status == status)
	}), nil
}

func (r *fakeInterviewRepo) Update(db *gorm.DB, interview *models.Interview) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.interviews[interview.ID]; !ok {
		return repositories.ErrInterviewNotFound
	}
	cp := *interview
	r.interviews[interview.ID] = &cp
	return nil
}

func (r *fakeInterviewRepo) ExpirePending(db *gorm.DB, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, i := range r.interviews {
		if i.Status == models.InterviewStatusPending && i.Slot3.Before(now) {
			i.Status = models.InterviewStatusExpired
			n++
		}
	}
	return n, nil
}

func (r *fakeInterviewRepo) CompleteScheduled(db *gorm.DB, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, i := range r.interviews {
		if t := i.SelectedTime(); i.Status == models.InterviewStatusScheduled && t != nil && t.Before(cutoff) {
			i.Status = models.InterviewStatusCompleted
			n++
		}
	}
	return n, nil
}

func (r *fakeInterviewRepo) list(match func(*models.Interview) bool) []models.Interview {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Interview
	for _, i := range r.interviews {
		if match(i) {
			out = append(out, *i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

type fakeProposalRepo struct {
	mu        sync.Mutex
	proposals map[string]*models.Proposal
	seq       int
}

func newFakeProposalRepo(proposals ...*models.Proposal) *fakeProposalRepo {
	r := &fakeProposalRepo{proposals: map[string]*models.Proposal{}}
	for _, p := range proposals {
		r.proposals[p.ID] = p
	}
	return r
}

func (r *fakeProposalRepo) Create(db *gorm.DB, proposal *models.Proposal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if proposal.ID == "" {
		proposal.ID = fmt.Sprintf("pr-%d", r.seq)
	}
	cp := *proposal
	r.proposals[proposal.ID] = &cp
	return nil
}

func (r *fakeProposalRepo) FindByID(db *gorm.DB, id string) (*models.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.proposals[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, repositories.ErrProposalNotFound
}

func (r *fakeProposalRepo) FindByEmployer(db *gorm.DB, employerID string, filter repositories.ProposalFilter) ([]models.Proposal, int64, error) {
	out := r.list(func(p *models.Proposal) bool {
		return p.EmployerID == employerID && (filter.Status == "" || p.Status == filter.Status)
	})
	return out, int64(len(out)), nil
}

func (r *fakeProposalRepo) FindByIntern(db *gorm.DB, internID string, filter repositories.ProposalFilter) ([]models.Proposal, int64, error) {
	out := r.list(func(p *models.Proposal) bool {
		return p.InternID == internID && (filter.Status == "" || p.Status == filter.Status)
	})
	return out, int64(len(out)), nil
}

func (r *fakeProposalRepo) FindByInterview(db *gorm.DB, interviewID string) ([]models.Proposal, error) {
	return r.list(func(p *models.Proposal) bool {
		return p.InterviewID != nil && *p.InterviewID == interviewID
	}), nil
}

func (r *fakeProposalRepo) CountByProject(db *gorm.DB, projectID string) (int64, error) {
	return int64(len(r.list(func(p *models.Proposal) bool { return p.ProjectID == projectID }))), nil
}

func (r *fakeProposalRepo) Update(db *gorm.DB, proposal *models.Proposal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.proposals[proposal.ID]; !ok {
		return repositories.ErrProposalNotFound
	}
	cp := *proposal
	r.proposals[proposal.ID] = &cp
	return nil
}

func (r *fakeProposalRepo) list(match func(*models.Proposal) bool) []models.Proposal {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Proposal
	for _, p := range r.proposals {
		if match(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*models.CalendarToken
}

func newFakeTokenRepo(tokens ...*models.CalendarToken) *fakeTokenRepo {
	r := &fakeTokenRepo{tokens: map[string]*models.CalendarToken{}}
	for _, t := range tokens {
		r.tokens[t.EmployerID] = t
	}
	return r
}

func (r *fakeTokenRepo) FindByEmployer(db *gorm.DB, employerID string) (*models.CalendarToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[employerID]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, repositories.ErrCalendarTokenNotFound
}

func (r *fakeTokenRepo) Upsert(db *gorm.DB, token *models.CalendarToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *token
	r.tokens[token.EmployerID] = &cp
	return nil
}

type fakeDocumentRepo struct {
	mu   sync.Mutex
	docs map[string]*models.InternDocument
	seq  int
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: map[string]*models.InternDocument{}}
}

func (r *fakeDocumentRepo) FindByKey(db *gorm.DB, userID string, key models.MediaKey) (*models.InternDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.docs {
		if d.UserID == userID && d.Key == key {
			cp := *d
			return &cp, nil
		}
	}
	return nil, repositories.ErrDocumentNotFound
}

func (r *fakeDocumentRepo) ListByUser(db *gorm.DB, userID string) ([]models.InternDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.InternDocument
	for _, d := range r.docs {
		if d.UserID == userID {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r *fakeDocumentRepo) Save(db *gorm.DB, doc *models.InternDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc.ID == "" {
		r.seq++
		doc.ID = fmt.Sprintf("d-%d", r.seq)
	}
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeDocumentRepo) Delete(db *gorm.DB, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return repositories.ErrDocumentNotFound
	}
	delete(r.docs, id)
	return nil
}

func (r *fakeDocumentRepo) CommitAll(db *gorm.DB, userID string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, d := range r.docs {
		if d.UserID == userID && d.Staged {
			d.Staged = false
			t := at
			d.CommittedAt = &t
			n++
		}
	}
	return n, nil
}

func (r *fakeDocumentRepo) FindStaleStaged(db *gorm.DB, before time.Time, limit int) ([]models.InternDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.InternDocument
	for _, d := range r.docs {
		if d.Staged && d.UpdatedAt.Before(before) {
			out = append(out, *d)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// fakeScheduler - календарь без сети
type fakeScheduler struct {
	enabled  bool
	err      error
	meetings []calendar.Meeting
	refresh  *oauth2.Token
}

func (s *fakeScheduler) Enabled() bool { return s.enabled }

func (s *fakeScheduler) ConnectURL(state string) string {
	return "https://accounts.example.com/auth?state=" + url.QueryEscape(state)
}

// connectState достает state из ссылки и проверяет подпись
func connectState(t *testing.T, raw string) string {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	employerID, err := auth.ParseOAuthState(u.Query().Get("state"))
	require.NoError(t, err)
	return employerID
}

func (s *fakeScheduler) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &oauth2.Token{AccessToken: "access-" + code, RefreshToken: "refresh-" + code, TokenType: "Bearer"}, nil
}

func (s *fakeScheduler) CreateMeeting(ctx context.Context, token *oauth2.Token, m calendar.Meeting) (*calendar.MeetingResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.meetings = append(s.meetings, m)
	return &calendar.MeetingResult{
		EventID:  fmt.Sprintf("evt-%d", len(s.meetings)),
		MeetLink: "https://meet.google.com/abc-defg-hij",
		Token:    s.refresh,
	}, nil
}
