package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"findtern_backend/internal/auth"
	"findtern_backend/internal/middleware"
	"findtern_backend/internal/models"
	"findtern_backend/internal/repositories"
	"findtern_backend/internal/services"
	"findtern_backend/internal/services/dto"
	"findtern_backend/internal/validator"
	"findtern_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
	auth.Setup("handlers-test-secret", time.Hour)
}

// Фейки встраивают интерфейс: невызываемые методы остаются nil

type fakeAuthService struct {
	services.AuthService
	signupReq *dto.InternSignupRequest
}

func (f *fakeAuthService) SignupIntern(_ *gorm.DB, req *dto.InternSignupRequest) (*dto.AuthResponse, error) {
	f.signupReq = req
	return &dto.AuthResponse{AccessToken: "access", RefreshToken: "refresh", User: &dto.UserResponse{ID: "u1", Email: req.Email}}, nil
}

func (f *fakeAuthService) ChangePassword(_ *gorm.DB, actor dto.Actor, subjectID string, _ *dto.ChangePasswordRequest) error {
	if !actor.Owns(subjectID) {
		return apperrors.ErrInsufficientPermissions
	}
	return nil
}

type fakeInterviewService struct {
	services.InterviewService
	employerID string
	actor      dto.Actor
	selectErr  error
}

func (f *fakeInterviewService) CreateInterview(_ context.Context, _ *gorm.DB, actor dto.Actor, employerID string, req *dto.CreateInterviewRequest) (*dto.InterviewWithMeeting, error) {
	f.actor, f.employerID = actor, employerID
	return &dto.InterviewWithMeeting{Interview: &dto.InterviewResponse{ID: "i1", EmployerID: employerID, InternID: req.InternID, Status: models.InterviewStatusPending}}, nil
}

func (f *fakeInterviewService) SelectSlot(_ context.Context, _ *gorm.DB, actor dto.Actor, interviewID string, req *dto.SelectSlotRequest) (*dto.InterviewWithMeeting, error) {
	f.actor = actor
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	slot := req.Slot
	return &dto.InterviewWithMeeting{Interview: &dto.InterviewResponse{ID: interviewID, SelectedSlot: &slot, Status: models.InterviewStatusScheduled}}, nil
}

type fakeShortlistService struct {
	services.ShortlistService
	kinds []repositories.ShortlistKind
	err   error
}

func (f *fakeShortlistService) AddToShortlist(_ context.Context, _ *gorm.DB, _ dto.Actor, _ string, kind repositories.ShortlistKind, internID string) (*dto.ShortlistResponse, error) {
	f.kinds = append(f.kinds, kind)
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ShortlistResponse{Kind: string(kind), InternIDs: []string{internID}}, nil
}

func (f *fakeShortlistService) ClearShortlist(_ context.Context, _ dto.Actor, _ string, kind repositories.ShortlistKind) error {
	f.kinds = append(f.kinds, kind)
	return f.err
}

type fakeProposalService struct {
	services.ProposalService
	page, pageSize int
	query          *dto.ProposalListQuery
}

func (f *fakeProposalService) ListEmployerProposals(_ *gorm.DB, _ dto.Actor, _ string, query *dto.ProposalListQuery, page, pageSize int) (*dto.ProposalListResponse, error) {
	f.query, f.page, f.pageSize = query, page, pageSize
	return &dto.ProposalListResponse{Proposals: []*dto.ProposalResponse{}, Pagination: dto.NewPagination(0, page, pageSize)}, nil
}

type fakeMediaService struct {
	services.MediaService
	key          models.MediaKey
	lastModified *time.Time
}

func (f *fakeMediaService) UploadMedia(_ context.Context, _ *gorm.DB, _ dto.Actor, _ string, key models.MediaKey, file *multipart.FileHeader, lastModified *time.Time) (*dto.MediaResponse, error) {
	f.key, f.lastModified = key, lastModified
	return &dto.MediaResponse{Key: key, Name: file.Filename, Size: file.Size, Staged: true}, nil
}

type fakeEmployerService struct {
	services.EmployerService
	err error
}

func (f *fakeEmployerService) GetEmployer(_ *gorm.DB, _ dto.Actor, employerID string) (*dto.EmployerResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.EmployerResponse{ID: employerID}, nil
}

type testEnv struct {
	router     *gin.Engine
	auth       *fakeAuthService
	interviews *fakeInterviewService
	shortlists *fakeShortlistService
	proposals  *fakeProposalService
	media      *fakeMediaService
	employers  *fakeEmployerService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		auth:       &fakeAuthService{},
		interviews: &fakeInterviewService{},
		shortlists: &fakeShortlistService{},
		proposals:  &fakeProposalService{},
		media:      &fakeMediaService{},
		employers:  &fakeEmployerService{},
	}

	base := NewBaseHandler(validator.New())
	r := gin.New()
	r.Use(middleware.DBMiddleware(nil))
	api := r.Group("/api")

	NewAuthHandler(base, env.auth).RegisterRoutes(api)
	NewEmployerHandler(base, env.employers, nil).RegisterRoutes(api)
	NewInterviewHandler(base, env.interviews).RegisterRoutes(api)
	NewShortlistHandler(base, env.shortlists).RegisterRoutes(api)
	NewProposalHandler(base, env.proposals).RegisterRoutes(api)
	NewOnboardingHandler(base, nil, env.media).RegisterRoutes(api)

	env.router = r
	return env
}

func (env *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func bearer(t *testing.T, id string, role models.UserRole) string {
	t.Helper()
	tok, err := auth.GenerateToken(id, string(role))
	require.NoError(t, err)
	return tok
}

type errorBody struct {
	Error struct {
		Code    apperrors.ErrorCode `json:"code"`
		Details map[string]string   `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSignupIntern(t *testing.T) {
	env := newTestEnv()

	t.Run("field errors", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{
			"firstName":   "Asha",
			"lastName":    "Rao",
			"email":       "not-an-email",
			"phoneNumber": "9876543210",
			"password":    "short",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeError(t, rec)
		assert.Equal(t, apperrors.CodeValidationFailed, body.Error.Code)
		assert.Contains(t, body.Error.Details, "email")
		assert.Contains(t, body.Error.Details, "password")
		assert.Nil(t, env.auth.signupReq)
	})

	t.Run("created", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{
			"firstName":   "Asha",
			"lastName":    "Rao",
			"email":       "asha@example.com",
			"countryCode": "+91",
			"phoneNumber": "9876543210",
			"password":    "secret123",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, env.auth.signupReq)
		assert.Equal(t, "asha@example.com", env.auth.signupReq.Email)
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv()
	body := gin.H{"currentPassword": "secret123", "newPassword": "secret456"}

	rec := env.do(t, http.MethodPost, "/api/users/u1/change-password", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/users/u1/change-password", bearer(t, "u2", models.UserRoleIntern), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/users/u1/change-password", bearer(t, "u1", models.UserRoleIntern), body)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/users/u1/change-password", bearer(t, "u1", models.UserRoleIntern),
		gin.H{"currentPassword": "secret123", "newPassword": "secret123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateInterviewRoutes(t *testing.T) {
	env := newTestEnv()
	body := gin.H{"internId": "intern-1", "slot1": "2026-10-20T10:00", "slot2": "2026-10-20T11:00", "slot3": "2026-10-20T12:00"}

	rec := env.do(t, http.MethodPost, "/api/employer/emp-1/interviews", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/employer/emp-1/interviews", bearer(t, "intern-1", models.UserRoleIntern), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/employer/emp-1/interviews", bearer(t, "emp-1", models.UserRoleEmployer), body)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "emp-1", env.interviews.employerID)
	assert.Equal(t, dto.Actor{ID: "emp-1", Role: models.UserRoleEmployer}, env.interviews.actor)

	var resp dto.InterviewWithMeeting
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "intern-1", resp.Interview.InternID)
	assert.Equal(t, models.InterviewStatusPending, resp.Interview.Status)
}

func TestSelectSlotRoute(t *testing.T) {
	env := newTestEnv()
	intern := bearer(t, "intern-1", models.UserRoleIntern)

	rec := env.do(t, http.MethodPut, "/api/interviews/i1/select-slot", bearer(t, "emp-1", models.UserRoleEmployer), gin.H{"slot": 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/interviews/i1/select-slot", intern, gin.H{"slot": 4})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error.Details, "slot")

	rec = env.do(t, http.MethodPut, "/api/interviews/i1/select-slot", intern, gin.H{"slot": 2})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.InterviewWithMeeting
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Interview.SelectedSlot)
	assert.Equal(t, 2, *resp.Interview.SelectedSlot)

	env.interviews.selectErr = apperrors.ErrInvalidInterviewStatus
	rec = env.do(t, http.MethodPut, "/api/interviews/i1/select-slot", intern, gin.H{"slot": 2})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, apperrors.CodeInvalidStatus, decodeError(t, rec).Error.Code)
}

func TestShortlistRoutes(t *testing.T) {
	env := newTestEnv()
	employer := bearer(t, "emp-1", models.UserRoleEmployer)

	rec := env.do(t, http.MethodPost, "/api/employer/emp-1/cart", employer, gin.H{"internId": "intern-1"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/employer/emp-1/compare", employer, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []repositories.ShortlistKind{repositories.ShortlistCart, repositories.ShortlistCompare}, env.shortlists.kinds)

	rec = env.do(t, http.MethodPost, "/api/employer/emp-1/compare", employer, gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env.shortlists.err = apperrors.ErrCompareLimit
	rec = env.do(t, http.MethodPost, "/api/employer/emp-1/compare", employer, gin.H{"internId": "intern-5"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, apperrors.CodeLimitExceeded, decodeError(t, rec).Error.Code)
}

func TestProposalListPagination(t *testing.T) {
	env := newTestEnv()
	employer := bearer(t, "emp-1", models.UserRoleEmployer)

	rec := env.do(t, http.MethodGet, "/api/employer/emp-1/proposals?status=sent&page=2&pageSize=5", employer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, env.proposals.page)
	assert.Equal(t, 5, env.proposals.pageSize)
	assert.Equal(t, "sent", env.proposals.query.Status)

	rec = env.do(t, http.MethodGet, "/api/employer/emp-1/proposals?status=unknown", employer, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleServiceError(t *testing.T) {
	env := newTestEnv()
	employer := bearer(t, "emp-1", models.UserRoleEmployer)

	env.employers.err = errors.New("connection reset")
	rec := env.do(t, http.MethodGet, "/api/employer/emp-1", employer, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apperrors.CodeInternalError, decodeError(t, rec).Error.Code)

	env.employers.err = apperrors.ErrNotFound(errors.New("employer"))
	rec = env.do(t, http.MethodGet, "/api/employer/emp-1", employer, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadMedia(t *testing.T) {
	env := newTestEnv()
	intern := bearer(t, "intern-1", models.UserRoleIntern)

	upload := func(token, userID string, withFile bool) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		if withFile {
			part, err := w.CreateFormFile("file", "photo.png")
			require.NoError(t, err)
			_, err = part.Write([]byte("png-bytes"))
			require.NoError(t, err)
		}
		require.NoError(t, w.WriteField("lastModified", "1760000000000"))
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPut, "/api/onboarding/"+userID+"/media/profilePhoto", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		return rec
	}

	rec := upload(intern, "intern-2", true)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = upload(intern, "intern-1", false)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error.Details, "file")

	rec = upload(intern, "intern-1", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.MediaProfilePhoto, env.media.key)
	require.NotNil(t, env.media.lastModified)
	assert.Equal(t, time.UnixMilli(1760000000000).UTC(), *env.media.lastModified)
}

func TestParseLastModified(t *testing.T) {
	got, err := parseLastModified("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = parseLastModified("2026-10-19T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC), *got)

	_, err = parseLastModified("yesterday")
	assert.Error(t, err)
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		page, size int
	}{
		{"defaults", "", 1, 20},
		{"camel case", "?page=3&pageSize=10", 3, 10},
		{"snake case", "?page_size=15", 1, 15},
		{"clamped", "?page=-1&pageSize=1000", 1, 100},
		{"garbage", "?page=x&pageSize=y", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			page, size := ParsePagination(c)
			assert.Equal(t, tt.page, page)
			assert.Equal(t, tt.size, size)
		})
	}
}
