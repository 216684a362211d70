package models

type UserRole string
type ScopeOfWork string
type LocationType string
type ProjectStatus string
type InterviewStatus string
type ProposalFlowType string
type ProposalStatus string
type MediaKey string

const (
	UserRoleIntern   UserRole = "intern"
	UserRoleEmployer UserRole = "employer"
	UserRoleAdmin    UserRole = "admin"

	ScopeFullTime ScopeOfWork = "full_time"
	ScopePartTime ScopeOfWork = "part_time"
	ScopeBoth     ScopeOfWork = "both"

	LocationRemote LocationType = "remote"
	LocationOnsite LocationType = "onsite"
	LocationHybrid LocationType = "hybrid"

	ProjectStatusActive   ProjectStatus = "active"
	ProjectStatusArchived ProjectStatus = "archived"

	InterviewStatusPending   InterviewStatus = "pending"
	InterviewStatusScheduled InterviewStatus = "scheduled"
	InterviewStatusCompleted InterviewStatus = "completed"
	InterviewStatusCancelled InterviewStatus = "cancelled"
	InterviewStatusExpired   InterviewStatus = "expired"

	FlowTypeDirect         ProposalFlowType = "direct"
	FlowTypeInterviewFirst ProposalFlowType = "interview_first"

	ProposalStatusDraft              ProposalStatus = "draft"
	ProposalStatusSent               ProposalStatus = "sent"
	ProposalStatusAccepted           ProposalStatus = "accepted"
	ProposalStatusRejected           ProposalStatus = "rejected"
	ProposalStatusInterviewScheduled ProposalStatus = "interview_scheduled"

	MediaProfilePhoto MediaKey = "profilePhoto"
	MediaIntroVideo   MediaKey = "introVideo"
	MediaAadhaarImage MediaKey = "aadhaarImage"
	MediaPanImage     MediaKey = "panImage"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleIntern, UserRoleEmployer, UserRoleAdmin:
		return true
	}
	return false
}

func (s ScopeOfWork) Valid() bool {
	switch s {
	case ScopeFullTime, ScopePartTime, ScopeBoth:
		return true
	}
	return false
}

func (l LocationType) Valid() bool {
	switch l {
	case LocationRemote, LocationOnsite, LocationHybrid:
		return true
	}
	return false
}

func (s InterviewStatus) Valid() bool {
	switch s {
	case InterviewStatusPending, InterviewStatusScheduled, InterviewStatusCompleted,
		InterviewStatusCancelled, InterviewStatusExpired:
		return true
	}
	return false
}

// Open - интервью еще можно перенести или отменить
func (s InterviewStatus) Open() bool {
	return s == InterviewStatusPending || s == InterviewStatusScheduled
}

func (f ProposalFlowType) Valid() bool {
	return f == FlowTypeDirect || f == FlowTypeInterviewFirst
}

func (s ProposalStatus) Valid() bool {
	switch s {
	case ProposalStatusDraft, ProposalStatusSent, ProposalStatusAccepted,
		ProposalStatusRejected, ProposalStatusInterviewScheduled:
		return true
	}
	return false
}

func (k MediaKey) Valid() bool {
	switch k {
	case MediaProfilePhoto, MediaIntroVideo, MediaAadhaarImage, MediaPanImage:
		return true
	}
	return false
}

// IsVideo - только introVideo принимает видео, остальные ключи - изображения
func (k MediaKey) IsVideo() bool {
	return k == MediaIntroVideo
}

// AllMediaKeys - порядок совпадает с шагами онбординга
var AllMediaKeys = []MediaKey{MediaProfilePhoto, MediaIntroVideo, MediaAadhaarImage, MediaPanImage}

func ProposalStatusValues() []string {
	return []string{
		string(ProposalStatusDraft), string(ProposalStatusSent), string(ProposalStatusInterviewScheduled),
		string(ProposalStatusAccepted), string(ProposalStatusRejected),
	}
}

func InterviewStatusValues() []string {
	return []string{
		string(InterviewStatusPending), string(InterviewStatusScheduled), string(InterviewStatusCompleted),
		string(InterviewStatusCancelled), string(InterviewStatusExpired),
	}
}
