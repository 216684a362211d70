package dto

import (
	"encoding/json"

	"findtern_backend/internal/models"
)

// InternListQuery - фильтры GET /interns
type InternListQuery struct {
	Skills    string `form:"skills"`
	City      string `form:"city" validate:"omitempty,max=100"`
	State     string `form:"state" validate:"omitempty,max=100"`
	Search    string `form:"search" validate:"omitempty,max=100"`
	Onboarded *bool  `form:"onboarded"`
	Page      int    `form:"-"`
	PageSize  int    `form:"-"`
}

// InternCard - публичная карточка. Без контактов, пароля и номеров документов.
type InternCard struct {
	ID                  string          `json:"id"`
	FirstName           string          `json:"firstName"`
	LastName            string          `json:"lastName"`
	Bio                 string          `json:"bio,omitempty"`
	City                string          `json:"city,omitempty"`
	State               string          `json:"state,omitempty"`
	Skills              []string        `json:"skills"`
	PreferredLocations  []string        `json:"preferredLocations"`
	Languages           json.RawMessage `json:"languages,omitempty" swaggertype:"object"`
	Experience          json.RawMessage `json:"experience,omitempty" swaggertype:"object"`
	LinkedinURL         string          `json:"linkedinUrl,omitempty"`
	GithubURL           string          `json:"githubUrl,omitempty"`
	PortfolioURL        string          `json:"portfolioUrl,omitempty"`
	OnboardingCompleted bool            `json:"onboardingCompleted"`
}

func NewInternCard(u *models.User) InternCard {
	card := InternCard{
		ID:                 u.ID,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Skills:             []string{},
		PreferredLocations: []string{},
	}
	if o := u.Onboarding; o != nil {
		card.Bio = o.Bio
		card.City = o.City
		card.State = o.State
		card.Skills = nonNil(o.Skills)
		card.PreferredLocations = nonNil(o.PreferredLocations)
		card.Languages = rawJSON(o.Languages)
		card.Experience = rawJSON(o.Experience)
		card.LinkedinURL = o.LinkedinURL
		card.GithubURL = o.GithubURL
		card.PortfolioURL = o.PortfolioURL
		card.OnboardingCompleted = o.OnboardingCompleted
	}
	return card
}

type InternListResponse struct {
	Interns []InternCard `json:"interns"`
	Pagination
}

func rawJSON(b []byte) json.RawMessage {
	if len(b) == 0 {
		return nil
	}
	return json.RawMessage(b)
}
