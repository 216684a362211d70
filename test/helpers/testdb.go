package helpers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"findtern_backend/internal/app"
	"findtern_backend/internal/services/dto"

	"github.com/stretchr/testify/require"
)

const DefaultPassword = "password123"

// tables - в порядке, который не мешает CASCADE
var tables = []string{
	"calendar_tokens",
	"intern_documents",
	"intern_onboardings",
	"proposals",
	"interviews",
	"projects",
	"refresh_tokens",
	"employers",
	"users",
}

// ClearTables очищает все таблицы приложения и корзины в redis
func (ts *TestServer) ClearTables(t *testing.T) {
	t.Helper()

	for _, table := range tables {
		if err := ts.Infra.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			t.Fatalf("Не удалось очистить %s: %v", table, err)
		}
	}
	ts.redis.FlushAll()
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@test.com", prefix, time.Now().UnixNano())
}

// SignupIntern регистрирует стажера через API
func SignupIntern(t *testing.T, ts *TestServer) *dto.AuthResponse {
	t.Helper()

	res, body := ts.SendRequest(t, http.MethodPost, "/api/auth/signup", "", dto.InternSignupRequest{
		FirstName:   "Test",
		LastName:    "Intern",
		Email:       uniqueEmail("intern"),
		CountryCode: "+91",
		PhoneNumber: "9876543210",
		Password:    DefaultPassword,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var resp dto.AuthResponse
	DecodeJSON(t, body, &resp)
	require.NotNil(t, resp.User)
	return &resp
}

// SignupEmployer регистрирует работодателя через API
func SignupEmployer(t *testing.T, ts *TestServer) *dto.AuthResponse {
	t.Helper()

	res, body := ts.SendRequest(t, http.MethodPost, "/api/auth/employer/signup", "", dto.EmployerSignupRequest{
		Name:         "Test Employer",
		CompanyName:  "Test Company Pvt Ltd",
		CompanyEmail: uniqueEmail("employer"),
		CountryCode:  "+91",
		PhoneNumber:  "9876543211",
		Password:     DefaultPassword,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var resp dto.AuthResponse
	DecodeJSON(t, body, &resp)
	require.NotNil(t, resp.Employer)
	return &resp
}

// LoginAdmin заводит администратора так же, как это делает seed-admin, и логинит его
func LoginAdmin(t *testing.T, ts *TestServer) *dto.AuthResponse {
	t.Helper()

	cfg := TestConfig("", "")
	cfg.FirstAdminEmail = uniqueEmail("admin")
	cfg.FirstAdminPassword = DefaultPassword
	require.NoError(t, app.SeedFirstAdmin(ts.Infra.DB, cfg))

	res, body := ts.SendRequest(t, http.MethodPost, "/api/admin/login", "", dto.LoginRequest{
		Email:    cfg.FirstAdminEmail,
		Password: DefaultPassword,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var resp dto.AuthResponse
	DecodeJSON(t, body, &resp)
	return &resp
}

// CreateProject создает активный проект работодателя
func CreateProject(t *testing.T, ts *TestServer, employer *dto.AuthResponse) *dto.ProjectResponse {
	t.Helper()

	path := fmt.Sprintf("/api/employer/%s/projects", employer.Employer.ID)
	res, body := ts.SendRequest(t, http.MethodPost, path, employer.AccessToken, dto.CreateProjectRequest{
		ProjectName:       "Backend internship",
		SkillRequirements: []string{"Go", "PostgreSQL"},
		ScopeOfWork:       "full_time",
		LocationType:      "remote",
		Timezone:          "UTC",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var project dto.ProjectResponse
	DecodeJSON(t, body, &project)
	return &project
}
