package dto

import "creatorhub_backend/internal/models"

// UserLookupRequest - доступ к данным пользователя только с указанием причины
type UserLookupRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

type UserLookupResponse struct {
	User        *UserResponse         `json:"user"`
	Application *models.Application   `json:"application,omitempty"`
	Contract    *models.Contract      `json:"contract,omitempty"`
	Ban         *models.Ban           `json:"ban,omitempty"`
	Balance     PayoutSummaryResponse `json:"balance"`
}

type AccessLogListRequest struct {
	AdminID      string `form:"admin_id" validate:"omitempty,uuid"`
	TargetUserID string `form:"target_user_id" validate:"omitempty,uuid"`
	Page         int    `form:"page" validate:"omitempty,min=1"`
	PageSize     int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type AccessLogListResponse struct {
	Logs     []models.AccessLog `json:"logs"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

type BanListResponse struct {
	Bans     []models.Ban `json:"bans"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}
