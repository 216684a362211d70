package dto

type CalendarConnectResponse struct {
	Enabled    bool   `json:"enabled"`
	Connected  bool   `json:"connected"`
	ConnectURL string `json:"connectUrl,omitempty"`
}

type CalendarCallbackQuery struct {
	Code  string `form:"code" validate:"required"`
	State string `form:"state" validate:"required"`
}

type CalendarCallbackResponse struct {
	EmployerID string `json:"employerId"`
	Connected  bool   `json:"connected"`
}
