package services

import "findtern_backend/internal/models"

type proposalTransition struct {
	from models.ProposalStatus
	to   models.ProposalStatus
}

// employer двигает оффер до отправки, стажер отвечает на отправленный
var proposalTransitions = map[models.UserRole]map[proposalTransition]bool{
	models.UserRoleEmployer: {
		{models.ProposalStatusDraft, models.ProposalStatusSent}:               true,
		{models.ProposalStatusDraft, models.ProposalStatusInterviewScheduled}: true,
		{models.ProposalStatusInterviewScheduled, models.ProposalStatusSent}:  true,
	},
	models.UserRoleIntern: {
		{models.ProposalStatusSent, models.ProposalStatusAccepted}: true,
		{models.ProposalStatusSent, models.ProposalStatusRejected}: true,
	},
}

// CanTransitionProposal - разрешен ли переход для роли.
// Админ может выполнить любой переход из таблицы.
// draft -> interview_scheduled только для interview_first.
func CanTransitionProposal(role models.UserRole, flow models.ProposalFlowType, from, to models.ProposalStatus) bool {
	if to == models.ProposalStatusInterviewScheduled && flow != models.FlowTypeInterviewFirst {
		return false
	}

	t := proposalTransition{from: from, to: to}
	if role == models.UserRoleAdmin {
		return proposalTransitions[models.UserRoleEmployer][t] || proposalTransitions[models.UserRoleIntern][t]
	}
	return proposalTransitions[role][t]
}
