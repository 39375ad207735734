package dto

import "creatorhub_backend/internal/models"

type CreateChannelRequest struct {
	ChannelURL  string `json:"channel_url" validate:"required,youtube-url,max=500"`
	ChannelName string `json:"channel_name" validate:"max=255"`
}

type ListChannelRequestsRequest struct {
	Status   string `form:"status" validate:"omitempty,is-channel-status"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type ReviewChannelRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
	Reason string `json:"reason" validate:"max=1000"`
}

type ChannelRequestListResponse struct {
	Requests []models.ChannelRequest `json:"requests"`
	Total    int64                   `json:"total"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"page_size"`
}
