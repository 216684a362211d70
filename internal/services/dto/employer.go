package dto

import (
	"time"

	"findtern_backend/internal/models"
)

type EmployerResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	CompanyName        string `json:"companyName"`
	CompanyEmail       string `json:"companyEmail"`
	CountryCode        string `json:"countryCode,omitempty"`
	PhoneNumber        string `json:"phoneNumber,omitempty"`
	WebsiteURL         string `json:"websiteUrl,omitempty"`
	CompanySize        string `json:"companySize,omitempty"`
	City               string `json:"city,omitempty"`
	State              string `json:"state,omitempty"`
	PrimaryContactName string `json:"primaryContactName,omitempty"`
	PrimaryContactRole string `json:"primaryContactRole,omitempty"`

	BankName          string `json:"bankName,omitempty"`
	AccountNumber     string `json:"accountNumber,omitempty"`
	AccountHolderName string `json:"accountHolderName,omitempty"`
	IFSC              string `json:"ifsc,omitempty"`
	GSTNumber         string `json:"gstNumber,omitempty"`

	OnboardingCompleted bool      `json:"onboardingCompleted"`
	SetupCompleted      bool      `json:"setupCompleted"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

func NewEmployerResponse(e *models.Employer) *EmployerResponse {
	return &EmployerResponse{
		ID:                  e.ID,
		Name:                e.Name,
		CompanyName:         e.CompanyName,
		CompanyEmail:        e.CompanyEmail,
		CountryCode:         e.CountryCode,
		PhoneNumber:         e.PhoneNumber,
		WebsiteURL:          e.WebsiteURL,
		CompanySize:         e.CompanySize,
		City:                e.City,
		State:               e.State,
		PrimaryContactName:  e.PrimaryContactName,
		PrimaryContactRole:  e.PrimaryContactRole,
		BankName:            e.BankName,
		AccountNumber:       e.AccountNumber,
		AccountHolderName:   e.AccountHolderName,
		IFSC:                e.IFSC,
		GSTNumber:           e.GSTNumber,
		OnboardingCompleted: e.OnboardingCompleted,
		SetupCompleted:      e.SetupCompleted,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
}

// UpdateEmployerRequest - частичное обновление: nil поля не трогаем
type UpdateEmployerRequest struct {
	Name               *string `json:"name" validate:"omitempty,min=1,max=150"`
	CompanyName        *string `json:"companyName" validate:"omitempty,min=1,max=200"`
	CountryCode        *string `json:"countryCode" validate:"omitempty,max=5"`
	PhoneNumber        *string `json:"phoneNumber" validate:"omitempty,phone"`
	WebsiteURL         *string `json:"websiteUrl" validate:"omitempty,url"`
	CompanySize        *string `json:"companySize" validate:"omitempty,max=50"`
	City               *string `json:"city" validate:"omitempty,max=100"`
	State              *string `json:"state" validate:"omitempty,max=100"`
	PrimaryContactName *string `json:"primaryContactName" validate:"omitempty,max=150"`
	PrimaryContactRole *string `json:"primaryContactRole" validate:"omitempty,max=100"`

	BankName          *string `json:"bankName" validate:"omitempty,max=150"`
	AccountNumber     *string `json:"accountNumber" validate:"omitempty,numeric,min=9,max=18"`
	AccountHolderName *string `json:"accountHolderName" validate:"omitempty,max=150"`
	IFSC              *string `json:"ifsc" validate:"omitempty,ifsc"`
	GSTNumber         *string `json:"gstNumber" validate:"omitempty,gstin"`

	SetupCompleted *bool `json:"setupCompleted"`
}
