package models

import (
	"time"

	"github.com/lib/pq"
)

// Application - заявка на участие в программе (одна на пользователя)
type Application struct {
	BaseModel
	UserID          string            `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Interests       pq.StringArray    `gorm:"type:text[];not null" json:"interests"`
	OtherInterest   *string           `json:"other_interest,omitempty"`
	Website         *string           `json:"website,omitempty"`
	YoutubeChannel  *string           `json:"youtube_channel,omitempty"`
	YoutubeLinks    pq.StringArray    `gorm:"type:text[]" json:"youtube_links"`
	Name            string            `json:"name"`
	Email           string            `json:"email"`
	Status          ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	RejectionReason *string           `json:"rejection_reason,omitempty"`
	ReviewedBy      *string           `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time        `json:"reviewed_at,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// ApplicationStatusChange - история смены статусов (пишется в той же транзакции)
type ApplicationStatusChange struct {
	BaseModel
	ApplicationID string            `gorm:"type:uuid;not null;index" json:"application_id"`
	AdminID       string            `gorm:"type:uuid;not null" json:"admin_id"`
	FromStatus    ApplicationStatus `gorm:"type:varchar(20)" json:"from_status"`
	ToStatus      ApplicationStatus `gorm:"type:varchar(20);not null" json:"to_status"`
	Reason        string            `json:"reason"`
}
