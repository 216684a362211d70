package services

import (
	"findtern_backend/internal/email"
	"findtern_backend/internal/events"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService       AuthService
	EmployerService   EmployerService
	ProjectService    ProjectService
	InternService     InternService
	OnboardingService OnboardingService
	MediaService      MediaService
	InterviewService  InterviewService
	ProposalService   ProposalService
	ShortlistService  ShortlistService
	AnalyticsService  AnalyticsService
	CalendarService   CalendarService

	EmailService email.Provider
	Publisher    events.Publisher
}
