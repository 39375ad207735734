package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel
	UserID  string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Type    string         `gorm:"not null" json:"type"`
	Title   string         `gorm:"not null" json:"title"`
	Content string         `json:"content"`
	Data    datatypes.JSON `gorm:"type:jsonb" json:"data,omitempty"`
	Read    bool           `gorm:"not null;default:false;index" json:"read"`
	ReadAt  *time.Time     `json:"read_at,omitempty"`
}
