package dto

import "creatorhub_backend/internal/models"

type NotificationListRequest struct {
	UnreadOnly bool   `form:"unread_only"`
	Type       string `form:"type" validate:"max=50"`
	Page       int    `form:"page" validate:"omitempty,min=1"`
	PageSize   int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type NotificationListResponse struct {
	Notifications []models.Notification `json:"notifications"`
	Total         int64                 `json:"total"`
	Unread        int64                 `json:"unread"`
	Page          int                   `json:"page"`
	PageSize      int                   `json:"page_size"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

type AnnouncementRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required,max=5000"`
}

type AnnouncementResponse struct {
	Recipients int `json:"recipients"`
}
