package models

import "time"

// User - аккаунт вместе с метаданными профиля (роль, аватар, флаг онбординга)
type User struct {
	BaseModel
	Email              string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash       string     `gorm:"not null" json:"-"`
	Role               UserRole   `gorm:"type:varchar(20);not null;default:'creator';index" json:"role"`
	FullName           string     `json:"full_name"`
	Username           string     `gorm:"index" json:"username"`
	AvatarURL          string     `json:"avatar_url"`
	OnboardingComplete bool       `gorm:"not null;default:false" json:"onboarding_complete"`
	LastLoginAt        *time.Time `json:"last_login_at,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
