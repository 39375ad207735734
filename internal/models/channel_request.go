package models

import "time"

// ChannelRequest - запрос на подключение дополнительного канала после одобрения
type ChannelRequest struct {
	BaseModel
	UserID      string               `gorm:"type:uuid;not null;index" json:"user_id"`
	ChannelURL  string               `gorm:"not null" json:"channel_url"`
	ChannelName string               `json:"channel_name"`
	Status      ChannelRequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Reason      *string              `json:"reason,omitempty"`
	ViewedBy    *string              `gorm:"type:uuid" json:"viewed_by,omitempty"`
	ViewedAt    *time.Time           `json:"viewed_at,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
