package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

type Proposal struct {
	BaseModel
	EmployerID  string  `gorm:"type:varchar(36);not null;index"`
	InternID    string  `gorm:"type:varchar(36);not null;index"`
	ProjectID   string  `gorm:"type:varchar(36);not null;index"`
	InterviewID *string `gorm:"type:varchar(36);index"`

	FlowType ProposalFlowType `gorm:"type:varchar(20);not null"`
	Status   ProposalStatus   `gorm:"type:varchar(30);not null;default:'draft';index"`

	OfferDetails       datatypes.JSON
	AIInterviewRatings datatypes.JSON `gorm:"column:ai_interview_ratings"`
	Skills             StringList

	Project *Project `gorm:"foreignKey:ProjectID"`
}

// OfferDetails - содержимое offer_details
type OfferDetails struct {
	Role          string  `json:"role,omitempty"`
	Mode          string  `json:"mode,omitempty"` // remote / onsite / hybrid
	StartDate     string  `json:"startDate,omitempty"`
	EndDate       string  `json:"endDate,omitempty"`
	Duration      string  `json:"duration,omitempty"`
	MonthlyAmount float64 `json:"monthlyAmount,omitempty"`
	Currency      string  `json:"currency,omitempty"`
	Location      string  `json:"location,omitempty"`
	Timezone      string  `json:"timezone,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

func (p *Proposal) GetOfferDetails() (OfferDetails, error) {
	var d OfferDetails
	if len(p.OfferDetails) == 0 {
		return d, nil
	}
	err := json.Unmarshal(p.OfferDetails, &d)
	return d, err
}

func (p *Proposal) SetOfferDetails(d OfferDetails) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	p.OfferDetails = datatypes.JSON(b)
	return nil
}

// GetAIRatings - оценки AI-интервью приходят готовыми, структура свободная
func (p *Proposal) GetAIRatings() (map[string]interface{}, error) {
	ratings := map[string]interface{}{}
	if len(p.AIInterviewRatings) == 0 {
		return ratings, nil
	}
	err := json.Unmarshal(p.AIInterviewRatings, &ratings)
	return ratings, err
}
