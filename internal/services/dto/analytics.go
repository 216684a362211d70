package dto

import "time"

type SignupStats struct {
	Last7Days  int64 `json:"last7Days"`
	Last30Days int64 `json:"last30Days"`
}

// AnalyticsResponse - сводка для админки
type AnalyticsResponse struct {
	Interns            int64            `json:"interns"`
	Employers          int64            `json:"employers"`
	Projects           int64            `json:"projects"`
	ProposalsByStatus  map[string]int64 `json:"proposalsByStatus"`
	InterviewsByStatus map[string]int64 `json:"interviewsByStatus"`
	Signups            SignupStats      `json:"signups"`
	GeneratedAt        time.Time        `json:"generatedAt"`
}
