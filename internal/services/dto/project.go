package dto

import (
	"time"

	"findtern_backend/internal/models"
)

type CreateProjectRequest struct {
	ProjectName        string   `json:"projectName" validate:"required,max=200"`
	SkillRequirements  []string `json:"skillRequirements" validate:"required,min=1,dive,required"`
	ScopeOfWork        string   `json:"scopeOfWork" validate:"required,is-scope-of-work"`
	LocationType       string   `json:"locationType" validate:"required,is-location-type"`
	PreferredLocations []string `json:"preferredLocations" validate:"omitempty,dive,required"`
	City               string   `json:"city" validate:"omitempty,max=100"`
	State              string   `json:"state" validate:"omitempty,max=100"`
	Pincode            string   `json:"pincode" validate:"omitempty,numeric,len=6"`
	Timezone           string   `json:"timezone" validate:"omitempty,timezone"`
}

type UpdateProjectRequest struct {
	ProjectName        *string  `json:"projectName" validate:"omitempty,min=1,max=200"`
	SkillRequirements  []string `json:"skillRequirements" validate:"omitempty,min=1,dive,required"`
	ScopeOfWork        *string  `json:"scopeOfWork" validate:"omitempty,is-scope-of-work"`
	LocationType       *string  `json:"locationType" validate:"omitempty,is-location-type"`
	PreferredLocations []string `json:"preferredLocations" validate:"omitempty,dive,required"`
	City               *string  `json:"city" validate:"omitempty,max=100"`
	State              *string  `json:"state" validate:"omitempty,max=100"`
	Pincode            *string  `json:"pincode" validate:"omitempty,numeric,len=6"`
	Timezone           *string  `json:"timezone" validate:"omitempty,timezone"`
	Status             *string  `json:"status" validate:"omitempty,oneof=active archived"`
}

type ProjectResponse struct {
	ID                 string               `json:"id"`
	EmployerID         string               `json:"employerId"`
	ProjectName        string               `json:"projectName"`
	SkillRequirements  []string             `json:"skillRequirements"`
	ScopeOfWork        models.ScopeOfWork   `json:"scopeOfWork"`
	LocationType       models.LocationType  `json:"locationType"`
	PreferredLocations []string             `json:"preferredLocations"`
	City               string               `json:"city,omitempty"`
	State              string               `json:"state,omitempty"`
	Pincode            string               `json:"pincode,omitempty"`
	Timezone           string               `json:"timezone"`
	Status             models.ProjectStatus `json:"status"`
	CreatedAt          time.Time            `json:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt"`
}

func NewProjectResponse(p *models.Project) *ProjectResponse {
	return &ProjectResponse{
		ID:                 p.ID,
		EmployerID:         p.EmployerID,
		ProjectName:        p.ProjectName,
		SkillRequirements:  nonNil(p.SkillRequirements),
		ScopeOfWork:        p.ScopeOfWork,
		LocationType:       p.LocationType,
		PreferredLocations: nonNil(p.PreferredLocations),
		City:               p.City,
		State:              p.State,
		Pincode:            p.Pincode,
		Timezone:           p.Timezone,
		Status:             p.Status,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

// DeleteProjectResponse - проект удален или только архивирован
type DeleteProjectResponse struct {
	Deleted  bool `json:"deleted"`
	Archived bool `json:"archived"`
}

func nonNil(l []string) []string {
	if l == nil {
		return []string{}
	}
	return l
}
