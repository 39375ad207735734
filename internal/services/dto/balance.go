package dto

import (
	"time"

	"creatorhub_backend/internal/models"
)

// ContractRequest - форма договора. Обязательность проверяет сервис, чтобы вернуть все ошибки сразу.
type ContractRequest struct {
	LegalName       string `json:"legal_name" validate:"max=255"`
	Address         string `json:"address" validate:"max=500"`
	City            string `json:"city" validate:"max=255"`
	State           string `json:"state" validate:"max=255"`
	Zip             string `json:"zip" validate:"max=20"`
	Country         string `json:"country" validate:"max=255"`
	SignatureMethod string `json:"signature_method" validate:"required,is-signature-method"`
	SignatureText   string `json:"signature_text" validate:"max=255"`
	// SignatureImage - data URL "data:image/png;base64,..."
	SignatureImage string `json:"signature_image"`
}

type CreatePayoutRequest struct {
	UserID     string    `json:"user_id" validate:"required,uuid"`
	Amount     float64   `json:"amount" validate:"required,gt=0"`
	Currency   string    `json:"currency" validate:"omitempty,len=3"`
	PayoutDate time.Time `json:"payout_date" validate:"required"`
	Method     string    `json:"method" validate:"max=100"`
	Reference  string    `json:"reference" validate:"max=255"`
}

type PayoutSummaryResponse struct {
	PendingTotal   float64 `json:"pending_total"`
	CompletedTotal float64 `json:"completed_total"`
	PendingCount   int64   `json:"pending_count"`
	CompletedCount int64   `json:"completed_count"`
}

type BalanceResponse struct {
	Summary PayoutSummaryResponse `json:"summary"`
	Payouts []models.Payout       `json:"payouts"`
}
