package dto

import (
	"encoding/json"
	"time"

	"findtern_backend/internal/models"
)

// OnboardingRequest - анкета целиком (PUT заменяет запись)
type OnboardingRequest struct {
	Bio                string          `json:"bio" validate:"omitempty,max=2000"`
	City               string          `json:"city" validate:"omitempty,max=100"`
	State              string          `json:"state" validate:"omitempty,max=100"`
	Pincode            string          `json:"pincode" validate:"omitempty,numeric,len=6"`
	PreferredLocations []string        `json:"preferredLocations" validate:"omitempty,dive,required"`
	Skills             []string        `json:"skills" validate:"omitempty,dive,required"`
	Languages          json.RawMessage `json:"languages" swaggertype:"object"`
	Experience         json.RawMessage `json:"experience" swaggertype:"object"`
	LinkedinURL        string          `json:"linkedinUrl" validate:"omitempty,url"`
	GithubURL          string          `json:"githubUrl" validate:"omitempty,url"`
	PortfolioURL       string          `json:"portfolioUrl" validate:"omitempty,url"`
	AadhaarNumber      string          `json:"aadhaarNumber" validate:"omitempty,numeric,len=12"`
	PanNumber          string          `json:"panNumber" validate:"omitempty,alphanum,len=10"`
	ExtraData          json.RawMessage `json:"extraData" swaggertype:"object"`

	OnboardingCompleted bool `json:"onboardingCompleted"`
}

// OnboardingResponse - видит только владелец и админ, поэтому с номерами документов
type OnboardingResponse struct {
	ID                  string          `json:"id"`
	UserID              string          `json:"userId"`
	Bio                 string          `json:"bio"`
	City                string          `json:"city"`
	State               string          `json:"state"`
	Pincode             string          `json:"pincode"`
	PreferredLocations  []string        `json:"preferredLocations"`
	Skills              []string        `json:"skills"`
	Languages           json.RawMessage `json:"languages,omitempty" swaggertype:"object"`
	Experience          json.RawMessage `json:"experience,omitempty" swaggertype:"object"`
	LinkedinURL         string          `json:"linkedinUrl"`
	GithubURL           string          `json:"githubUrl"`
	PortfolioURL        string          `json:"portfolioUrl"`
	AadhaarNumber       string          `json:"aadhaarNumber"`
	PanNumber           string          `json:"panNumber"`
	ExtraData           json.RawMessage `json:"extraData,omitempty" swaggertype:"object"`
	OnboardingCompleted bool            `json:"onboardingCompleted"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

func NewOnboardingResponse(o *models.InternOnboarding) *OnboardingResponse {
	return &OnboardingResponse{
		ID:                  o.ID,
		UserID:              o.UserID,
		Bio:                 o.Bio,
		City:                o.City,
		State:               o.State,
		Pincode:             o.Pincode,
		PreferredLocations:  nonNil(o.PreferredLocations),
		Skills:              nonNil(o.Skills),
		Languages:           rawJSON(o.Languages),
		Experience:          rawJSON(o.Experience),
		LinkedinURL:         o.LinkedinURL,
		GithubURL:           o.GithubURL,
		PortfolioURL:        o.PortfolioURL,
		AadhaarNumber:       o.AadhaarNumber,
		PanNumber:           o.PanNumber,
		ExtraData:           rawJSON(o.ExtraData),
		OnboardingCompleted: o.OnboardingCompleted,
		UpdatedAt:           o.UpdatedAt,
	}
}
