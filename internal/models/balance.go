package models

import "time"

// Contract - договор пользователя (upsert по user_id)
type Contract struct {
	BaseModel
	UserID          string          `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	LegalName       string          `gorm:"not null" json:"legal_name"`
	Address         string          `gorm:"not null" json:"address"`
	City            string          `gorm:"not null" json:"city"`
	State           string          `json:"state"`
	Zip             string          `json:"zip"`
	Country         string          `gorm:"not null" json:"country"`
	SignatureMethod SignatureMethod `gorm:"type:varchar(10);not null" json:"signature_method"`
	SignatureText   *string         `json:"signature_text,omitempty"`
	SignatureURL    *string         `json:"signature_url,omitempty"`
	SignedAt        time.Time       `json:"signed_at"`
}

type Payout struct {
	BaseModel
	UserID     string       `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount     float64      `gorm:"type:numeric(12,2);not null" json:"amount"`
	Currency   string       `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	Status     PayoutStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PayoutDate time.Time    `gorm:"not null;index" json:"payout_date"`
	Method     string       `json:"method"`
	Reference  string       `json:"reference,omitempty"`
}
