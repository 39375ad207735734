package dto

import (
	"io"
	"time"

	"creatorhub_backend/internal/models"
)

// ConversationSummary - строка списка переписок в админке
type ConversationSummary struct {
	UserID        string    `json:"user_id"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	AvatarURL     string    `json:"avatar_url,omitempty"`
	LastMessage   string    `json:"last_message"`
	HasImage      bool      `json:"has_image"`
	LastMessageAt time.Time `json:"last_message_at"`
}

type ConversationListRequest struct {
	Search string `form:"search" validate:"max=255"`
}

// SendMessageRequest - multipart форма; для не-админов receiver_id игнорируется
type SendMessageRequest struct {
	ReceiverID string `form:"receiver_id" json:"receiver_id" validate:"omitempty,uuid"`
	Content    string `form:"content" json:"content" validate:"max=5000"`
}

// ImageUpload - вложение, уже извлеченное из multipart
type ImageUpload struct {
	Reader      io.Reader
	Filename    string
	Size        int64
	ContentType string
}

type ThreadResponse struct {
	PeerID   string           `json:"peer_id"`
	Messages []models.Message `json:"messages"`
}

type UnreadMessagesResponse struct {
	HasUnread bool  `json:"has_unread"`
	Count     int64 `json:"count"`
}

type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}
