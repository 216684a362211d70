package dto

import (
	"time"

	"findtern_backend/internal/calendar"
	"findtern_backend/internal/models"
	"findtern_backend/internal/scheduling"
)

// CreateInterviewRequest - три слота проверяются пакетом scheduling, а не тегами
type CreateInterviewRequest struct {
	InternID  string  `json:"internId" validate:"required"`
	ProjectID *string `json:"projectId" validate:"omitempty,min=1"`
	Slot1     string  `json:"slot1"`
	Slot2     string  `json:"slot2"`
	Slot3     string  `json:"slot3"`
	Timezone  string  `json:"timezone" validate:"omitempty,timezone"`
}

func (r *CreateInterviewRequest) Slots() []string {
	return []string{r.Slot1, r.Slot2, r.Slot3}
}

type RescheduleInterviewRequest struct {
	Slot1    string `json:"slot1"`
	Slot2    string `json:"slot2"`
	Slot3    string `json:"slot3"`
	Timezone string `json:"timezone" validate:"omitempty,timezone"`
}

func (r *RescheduleInterviewRequest) Slots() []string {
	return []string{r.Slot1, r.Slot2, r.Slot3}
}

type SelectSlotRequest struct {
	Slot int `json:"slot" validate:"required,min=1,max=3"`
}

type InterviewListQuery struct {
	Status   string `form:"status" validate:"omitempty,is-interview-status"`
	InternID string `form:"internId"`
}

// SlotWindowQuery - selected: уже выбранные слоты через запятую, editing: номер редактируемого (1..3)
type SlotWindowQuery struct {
	Date     string `form:"date" validate:"omitempty,datetime=2006-01-02"`
	Timezone string `form:"timezone" validate:"omitempty,timezone"`
	Selected string `form:"selected"`
	Editing  int    `form:"editing" validate:"omitempty,min=1,max=3"`
}

type InterviewResponse struct {
	ID           string                 `json:"id"`
	EmployerID   string                 `json:"employerId"`
	InternID     string                 `json:"internId"`
	ProjectID    *string                `json:"projectId,omitempty"`
	Slot1        time.Time              `json:"slot1"`
	Slot2        time.Time              `json:"slot2"`
	Slot3        time.Time              `json:"slot3"`
	SelectedSlot *int                   `json:"selectedSlot,omitempty"`
	SelectedTime *time.Time             `json:"selectedTime,omitempty"`
	Timezone     string                 `json:"timezone"`
	Status       models.InterviewStatus `json:"status"`
	MeetingLink  *string                `json:"meetingLink,omitempty"`

	EmployerName string `json:"employerName,omitempty"`
	CompanyName  string `json:"companyName,omitempty"`
	InternName   string `json:"internName,omitempty"`
	ProjectName  string `json:"projectName,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewInterviewResponse - слоты отдаются в часовом поясе интервью
func NewInterviewResponse(i *models.Interview) *InterviewResponse {
	loc, err := time.LoadLocation(i.Timezone)
	if err != nil {
		loc = time.UTC
	}

	r := &InterviewResponse{
		ID:           i.ID,
		EmployerID:   i.EmployerID,
		InternID:     i.InternID,
		ProjectID:    i.ProjectID,
		Slot1:        i.Slot1.In(loc),
		Slot2:        i.Slot2.In(loc),
		Slot3:        i.Slot3.In(loc),
		SelectedSlot: i.SelectedSlot,
		Timezone:     i.Timezone,
		Status:       i.Status,
		MeetingLink:  i.MeetingLink,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
	if t := i.SelectedTime(); t != nil {
		local := t.In(loc)
		r.SelectedTime = &local
	}
	if i.Employer != nil {
		r.EmployerName = i.Employer.Name
		r.CompanyName = i.Employer.CompanyName
	}
	if i.Intern != nil {
		r.InternName = i.Intern.FullName()
	}
	if i.Project != nil {
		r.ProjectName = i.Project.ProjectName
	}
	return r
}

// InterviewWithMeeting - ответ на создание интервью и выбор слота
type InterviewWithMeeting struct {
	Interview *InterviewResponse       `json:"interview"`
	Meeting   *calendar.MeetingOutcome `json:"meeting"`
}

// SlotWindowResponse - серверная версия диалога выбора слотов
type SlotWindowResponse struct {
	Timezone     string                  `json:"timezone"`
	Now          string                  `json:"now"`
	Floor        string                  `json:"floor"`
	Ceiling      string                  `json:"ceiling"`
	Dates        []string                `json:"dates"`
	DefaultSlots []string                `json:"defaultSlots"`
	Date         string                  `json:"date"`
	Options      []scheduling.TimeOption `json:"options"`
}
