package dto

import "creatorhub_backend/internal/models"

type ListApplicationsRequest struct {
	Status   string `form:"status" validate:"omitempty,is-application-status"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type UpdateApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,is-application-status"`
	Reason string `json:"reason" validate:"max=1000"`
	// Refresh - фильтр, по которому перезагружается список (по умолчанию прежний статус)
	Refresh string `json:"refresh" validate:"omitempty,is-application-status"`
}

type ApplicationListResponse struct {
	Applications []models.Application `json:"applications"`
	Status       string               `json:"status"`
	Total        int64                `json:"total"`
	Page         int                  `json:"page"`
	PageSize     int                  `json:"page_size"`
}

type UpdateApplicationStatusResponse struct {
	Application *models.Application      `json:"application"`
	List        *ApplicationListResponse `json:"list"`
}

// MyApplicationResponse - статус заявки для дашборда
type MyApplicationResponse struct {
	ID              string                   `json:"id"`
	Status          models.ApplicationStatus `json:"status"`
	RejectionReason *string                  `json:"rejection_reason,omitempty"`
	Interests       []string                 `json:"interests"`
	YoutubeLinks    []string                 `json:"youtube_links"`
}
