package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler       *AuthHandler
	EmployerHandler   *EmployerHandler
	InternHandler     *InternHandler
	OnboardingHandler *OnboardingHandler
	InterviewHandler  *InterviewHandler
	ProposalHandler   *ProposalHandler
	ShortlistHandler  *ShortlistHandler
	AnalyticsHandler  *AnalyticsHandler
	CalendarHandler   *CalendarHandler
}
