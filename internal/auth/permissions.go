package auth

// Роли Findtern
const (
	RoleIntern   = "intern"
	RoleEmployer = "employer"
	RoleAdmin    = "admin"
)

// Разрешения, которые проверяет RequirePermission
const (
	PermInternsBrowse    = "interns:browse"
	PermProposalsSend    = "proposals:send"
	PermInterviewsSelect = "interviews:select"
	PermAnalyticsRead    = "analytics:read"
)

// Permissions - разрешения по ролям
var Permissions = map[string][]string{
	RoleAdmin: {
		PermInternsBrowse,
		PermProposalsSend,
		PermAnalyticsRead,
	},
	RoleEmployer: {
		PermInternsBrowse,
		PermProposalsSend,
	},
	RoleIntern: {
		PermInterviewsSelect,
	},
}

// HasPermission проверяет есть ли у роли указанное разрешение
func HasPermission(role, permission string) bool {
	permissions, exists := Permissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}
