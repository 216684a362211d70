package integration_test

import (
	"fmt"
	"net/http"
	"testing"

	"findtern_backend/internal/services/dto"
	"findtern_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthFlow_SignupLoginRefreshLogout(t *testing.T) {
	ts := GetTestServer(t)

	signup := helpers.SignupIntern(t, ts)
	assert.NotEmpty(t, signup.AccessToken)
	assert.NotEmpty(t, signup.RefreshToken)
	assert.Equal(t, "intern", string(signup.User.Role))

	// логин
	res, body := ts.SendRequest(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Email:    signup.User.Email,
		Password: helpers.DefaultPassword,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var login dto.AuthResponse
	helpers.DecodeJSON(t, body, &login)
	assert.Equal(t, signup.User.ID, login.User.ID)

	// refresh ротирует токен: старый больше не принимается
	res, body = ts.SendRequest(t, http.MethodPost, "/api/auth/refresh", "", dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var refreshed dto.AuthResponse
	helpers.DecodeJSON(t, body, &refreshed)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/auth/refresh", "", dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, body)

	// logout отзывает токен
	res, body = ts.SendRequest(t, http.MethodPost, "/api/auth/logout", "", dto.RefreshTokenRequest{RefreshToken: refreshed.RefreshToken})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/auth/refresh", "", dto.RefreshTokenRequest{RefreshToken: refreshed.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestAuth_DuplicateEmailAndBadPassword(t *testing.T) {
	ts := GetTestServer(t)
	signup := helpers.SignupIntern(t, ts)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/auth/signup", "", dto.InternSignupRequest{
		FirstName:   "Other",
		LastName:    "Intern",
		Email:       signup.User.Email,
		CountryCode: "+91",
		PhoneNumber: "9876543210",
		Password:    helpers.DefaultPassword,
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Email:    signup.User.Email,
		Password: "wrong-password1",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, body)
}

func TestAuth_AdminLoginRejectsIntern(t *testing.T) {
	ts := GetTestServer(t)
	signup := helpers.SignupIntern(t, ts)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/admin/login", "", dto.LoginRequest{
		Email:    signup.User.Email,
		Password: helpers.DefaultPassword,
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, body)

	admin := helpers.LoginAdmin(t, ts)
	res, body = ts.SendRequest(t, http.MethodGet, "/api/admin/analytics", admin.AccessToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode, body)
}

func TestChangePassword(t *testing.T) {
	ts := GetTestServer(t)
	employer := helpers.SignupEmployer(t, ts)
	path := fmt.Sprintf("/api/users/%s/change-password", employer.Employer.ID)

	res, body := ts.SendRequest(t, http.MethodPost, path, employer.AccessToken, dto.ChangePasswordRequest{
		CurrentPassword: "not-the-password1",
		NewPassword:     "newpassword456",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, path, employer.AccessToken, dto.ChangePasswordRequest{
		CurrentPassword: helpers.DefaultPassword,
		NewPassword:     "newpassword456",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Email:    employer.Employer.CompanyEmail,
		Password: helpers.DefaultPassword,
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Email:    employer.Employer.CompanyEmail,
		Password: "newpassword456",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode, body)

	// чужой аккаунт
	intern := helpers.SignupIntern(t, ts)
	res, body = ts.SendRequest(t, http.MethodPost, path, intern.AccessToken, dto.ChangePasswordRequest{
		CurrentPassword: helpers.DefaultPassword,
		NewPassword:     "newpassword789",
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode, body)
}
