package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message - сообщение между пользователем и поддержкой. После отправки не меняется (кроме read_at).
type Message struct {
	ID         string     `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID   string     `gorm:"type:uuid;not null;index:idx_messages_pair,priority:1" json:"sender_id"`
	ReceiverID string     `gorm:"type:uuid;not null;index:idx_messages_pair,priority:2;index" json:"receiver_id"`
	Content    string     `gorm:"type:text;not null;default:''" json:"content"`
	ImageURL   *string    `json:"image_url"`
	CreatedAt  time.Time  `gorm:"default:now();index" json:"created_at"`
	ReadAt     *time.Time `json:"read_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Involves - участвует ли пользователь в переписке
func (m *Message) Involves(userID string) bool {
	return m.SenderID == userID || m.ReceiverID == userID
}
