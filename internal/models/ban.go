package models

// Ban - наличие строки означает, что пользователь заблокирован
type Ban struct {
	BaseModel
	UserID   string `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	BannedBy string `gorm:"type:uuid;not null" json:"banned_by"`
	Reason   string `gorm:"not null" json:"reason"`
}
