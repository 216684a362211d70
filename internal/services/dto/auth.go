package dto

import (
	"time"

	"findtern_backend/internal/models"
)

// InternSignupRequest - регистрация стажера
type InternSignupRequest struct {
	FirstName   string `json:"firstName" validate:"required,max=100"`
	LastName    string `json:"lastName" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email"`
	CountryCode string `json:"countryCode" validate:"omitempty,max=5"`
	PhoneNumber string `json:"phoneNumber" validate:"required,phone"`
	Password    string `json:"password" validate:"required,password"`
}

// EmployerSignupRequest - регистрация работодателя
type EmployerSignupRequest struct {
	Name         string `json:"name" validate:"required,max=150"`
	CompanyName  string `json:"companyName" validate:"required,max=200"`
	CompanyEmail string `json:"companyEmail" validate:"required,email"`
	CountryCode  string `json:"countryCode" validate:"omitempty,max=5"`
	PhoneNumber  string `json:"phoneNumber" validate:"required,phone"`
	Password     string `json:"password" validate:"required,password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,password,nefield=CurrentPassword"`
}

// AuthResponse - ответ с токенами; заполнен либо user, либо employer
type AuthResponse struct {
	AccessToken  string            `json:"accessToken"`
	RefreshToken string            `json:"refreshToken"`
	ExpiresIn    int64             `json:"expiresIn"`
	User         *UserResponse     `json:"user,omitempty"`
	Employer     *EmployerResponse `json:"employer,omitempty"`
}

type UserResponse struct {
	ID          string          `json:"id"`
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	Email       string          `json:"email"`
	CountryCode string          `json:"countryCode,omitempty"`
	PhoneNumber string          `json:"phoneNumber,omitempty"`
	Role        models.UserRole `json:"role"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func NewUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		CountryCode: u.CountryCode,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
	}
}
