package repositories

import (
	"errors"

	"creatorhub_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrContractNotFound = errors.New("contract not found")
	ErrPayoutNotFound   = errors.New("payout not found")
	ErrPayoutNotPending = errors.New("payout is not pending")
)

// PayoutSummary - агрегаты выплат пользователя
type PayoutSummary struct {
	PendingTotal   float64 `json:"pending_total"`
	CompletedTotal float64 `json:"completed_total"`
	PendingCount   int64   `json:"pending_count"`
	CompletedCount int64   `json:"completed_count"`
}

type ContractRepository interface {
	FindByUserID(db *gorm.DB, userID string) (*models.Contract, error)
	// Upsert - вставка или обновление по user_id
	Upsert(db *gorm.DB, contract *models.Contract) error
}

type PayoutRepository interface {
	Create(db *gorm.DB, payout *models.Payout) error
	FindByID(db *gorm.DB, id string) (*models.Payout, error)
	// FindByUser - выплаты пользователя, новые сверху (по payout_date)
	FindByUser(db *gorm.DB, userID string) ([]models.Payout, error)
	Summary(db *gorm.DB, userID string) (*PayoutSummary, error)
	// CompletePending переводит pending -> completed одним условным UPDATE
	CompletePending(db *gorm.DB, id string) error
}

type ContractRepositoryImpl struct{}

func NewContractRepository() ContractRepository {
	return &ContractRepositoryImpl{}
}

func (r *ContractRepositoryImpl) FindByUserID(db *gorm.DB, userID string) (*models.Contract, error) {
	var contract models.Contract
	if err := db.Where("user_id = ?", userID).First(&contract).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, err
	}
	return &contract, nil
}

func (r *ContractRepositoryImpl) Upsert(db *gorm.DB, contract *models.Contract) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"legal_name", "address", "city", "state", "zip", "country",
			"signature_method", "signature_text", "signature_url", "signed_at", "updated_at",
		}),
	}).Create(contract).Error
}

type PayoutRepositoryImpl struct{}

func NewPayoutRepository() PayoutRepository {
	return &PayoutRepositoryImpl{}
}

func (r *PayoutRepositoryImpl) Create(db *gorm.DB, payout *models.Payout) error {
	return db.Create(payout).Error
}

func (r *PayoutRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Payout, error) {
	var payout models.Payout
	if err := db.First(&payout, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPayoutNotFound
		}
		return nil, err
	}
	return &payout, nil
}

func (r *PayoutRepositoryImpl) FindByUser(db *gorm.DB, userID string) ([]models.Payout, error) {
	var payouts []models.Payout
	err := db.Where("user_id = ?", userID).Order("payout_date DESC").Find(&payouts).Error
	return payouts, err
}

func (r *PayoutRepositoryImpl) Summary(db *gorm.DB, userID string) (*PayoutSummary, error) {
	var rows []struct {
		Status models.PayoutStatus
		Total  float64
		Count  int64
	}
	err := db.Model(&models.Payout{}).
		Select("status, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summary := &PayoutSummary{}
	for _, row := range rows {
		switch row.Status {
		case models.PayoutStatusPending:
			summary.PendingTotal, summary.PendingCount = row.Total, row.Count
		case models.PayoutStatusCompleted:
			summary.CompletedTotal, summary.CompletedCount = row.Total, row.Count
		}
	}
	return summary, nil
}

func (r *PayoutRepositoryImpl) CompletePending(db *gorm.DB, id string) error {
	result := db.Model(&models.Payout{}).
		Where("id = ? AND status = ?", id, models.PayoutStatusPending).
		Update("status", models.PayoutStatusCompleted)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	if _, err := r.FindByID(db, id); err != nil {
		return err
	}
	return ErrPayoutNotPending
}
