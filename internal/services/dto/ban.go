package dto

import "time"

type BanUserRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

type BanStatusResponse struct {
	Banned   bool       `json:"banned"`
	Reason   string     `json:"reason,omitempty"`
	BannedAt *time.Time `json:"banned_at,omitempty"`
}
