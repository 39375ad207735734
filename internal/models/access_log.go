package models

// AccessLog - аудит просмотра персональных данных администратором
type AccessLog struct {
	BaseModel
	AdminID      string `gorm:"type:uuid;not null;index" json:"admin_id"`
	TargetUserID string `gorm:"type:uuid;not null;index" json:"target_user_id"`
	Reason       string `gorm:"not null" json:"reason"`
	IP           string `json:"ip"`
}
