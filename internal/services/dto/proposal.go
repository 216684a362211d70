package dto

import (
	"time"

	"findtern_backend/internal/models"
)

type CreateProposalRequest struct {
	EmployerID         string                 `json:"employerId" validate:"required"`
	InternID           string                 `json:"internId" validate:"required"`
	ProjectID          string                 `json:"projectId" validate:"required"`
	InterviewID        *string                `json:"interviewId" validate:"omitempty,min=1"`
	FlowType           string                 `json:"flowType" validate:"required,is-flow-type"`
	OfferDetails       models.OfferDetails    `json:"offerDetails"`
	AIInterviewRatings map[string]interface{} `json:"aiInterviewRatings"`
	Skills             []string               `json:"skills" validate:"omitempty,dive,required"`
	Status             string                 `json:"status" validate:"omitempty,oneof=draft sent"`
}

// UpdateProposalRequest - поля оффера меняются только в draft, статус - по таблице переходов
type UpdateProposalRequest struct {
	OfferDetails       *models.OfferDetails   `json:"offerDetails"`
	AIInterviewRatings map[string]interface{} `json:"aiInterviewRatings"`
	Skills             []string               `json:"skills" validate:"omitempty,dive,required"`
	InterviewID        *string                `json:"interviewId"`
	Status             *string                `json:"status" validate:"omitempty,is-proposal-status"`
}

// HasContentChanges - запрос меняет что-то кроме статуса
func (r *UpdateProposalRequest) HasContentChanges() bool {
	return r.OfferDetails != nil || r.AIInterviewRatings != nil || r.Skills != nil || r.InterviewID != nil
}

type ProposalListQuery struct {
	Status string `form:"status" validate:"omitempty,is-proposal-status"`
}

type ProposalResponse struct {
	ID                 string                  `json:"id"`
	EmployerID         string                  `json:"employerId"`
	InternID           string                  `json:"internId"`
	ProjectID          string                  `json:"projectId"`
	InterviewID        *string                 `json:"interviewId,omitempty"`
	FlowType           models.ProposalFlowType `json:"flowType"`
	Status             models.ProposalStatus   `json:"status"`
	OfferDetails       models.OfferDetails     `json:"offerDetails"`
	AIInterviewRatings map[string]interface{}  `json:"aiInterviewRatings,omitempty"`
	Skills             []string                `json:"skills"`
	ProjectName        string                  `json:"projectName,omitempty"`
	CreatedAt          time.Time               `json:"createdAt"`
	UpdatedAt          time.Time               `json:"updatedAt"`
}

func NewProposalResponse(p *models.Proposal) *ProposalResponse {
	r := &ProposalResponse{
		ID:          p.ID,
		EmployerID:  p.EmployerID,
		InternID:    p.InternID,
		ProjectID:   p.ProjectID,
		InterviewID: p.InterviewID,
		FlowType:    p.FlowType,
		Status:      p.Status,
		Skills:      nonNil(p.Skills),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	// битый JSON в старых строках не должен ломать выдачу
	if d, err := p.GetOfferDetails(); err == nil {
		r.OfferDetails = d
	}
	if ratings, err := p.GetAIRatings(); err == nil && len(ratings) > 0 {
		r.AIInterviewRatings = ratings
	}
	if p.Project != nil {
		r.ProjectName = p.Project.ProjectName
	}
	return r
}

type ProposalListResponse struct {
	Proposals []*ProposalResponse `json:"proposals"`
	Pagination
}
