package auth

// Роли совпадают с models.UserRole
const (
	RoleAdmin   = "admin"
	RoleCreator = "creator"
)

// Разрешения
const (
	PermApplicationsReview = "applications:review"
	PermChannelsReview     = "channels:review"
	PermBansManage         = "bans:manage"
	PermPayoutsManage      = "payouts:manage"
	PermUsersLookup        = "users:lookup"
	PermSupportInbox       = "messages:support"
	PermAnnouncements      = "notifications:announce"
)

// Permissions - RBAC таблица
var Permissions = map[string][]string{
	RoleAdmin: {
		PermApplicationsReview,
		PermChannelsReview,
		PermBansManage,
		PermPayoutsManage,
		PermUsersLookup,
		PermSupportInbox,
		PermAnnouncements,
	},
	RoleCreator: {},
}

// HasPermission проверяет есть ли у роли указанное разрешение
func HasPermission(role, permission string) bool {
	for _, p := range Permissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// IsAdmin проверяет является ли пользователь администратором
func IsAdmin(claims *Claims) bool {
	return claims != nil && claims.Role == RoleAdmin
}
