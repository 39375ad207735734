package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"creatorhub_backend/internal/imageprocessor"
	"creatorhub_backend/internal/logger"
	"creatorhub_backend/internal/models"
	"creatorhub_backend/internal/repositories"
	"creatorhub_backend/internal/services/dto"
	"creatorhub_backend/internal/storage"
	"creatorhub_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const signatureDataURLPrefix = "data:image/png;base64,"

type BalanceService interface {
	GetContract(db *gorm.DB, userID string) (*models.Contract, error)
	SaveContract(ctx context.Context, db *gorm.DB, userID string, req *dto.ContractRequest) (*models.Contract, error)
	GetBalance(db *gorm.DB, userID string) (*dto.BalanceResponse, error)
	Summary(db *gorm.DB, userID string) (dto.PayoutSummaryResponse, error)

	CreatePayout(db *gorm.DB, adminID string, req *dto.CreatePayoutRequest) (*models.Payout, error)
	CompletePayout(db *gorm.DB, adminID, payoutID string) (*models.Payout, error)
}

type BalanceServiceImpl struct {
	contractRepo  repositories.ContractRepository
	payoutRepo    repositories.PayoutRepository
	userRepo      repositories.UserRepository
	notifications NotificationService
	storage       storage.Storage
	maxUpload     int64
	now           func() time.Time
}

func NewBalanceService(
	contractRepo repositories.ContractRepository,
	payoutRepo repositories.PayoutRepository,
	userRepo repositories.UserRepository,
	notifications NotificationService,
	store storage.Storage,
	maxUpload int64,
) BalanceService {
	return &BalanceServiceImpl{
		contractRepo:  contractRepo,
		payoutRepo:    payoutRepo,
		userRepo:      userRepo,
		notifications: notifications,
		storage:       store,
		maxUpload:     maxUpload,
		now:           time.Now,
	}
}

// Contract

func (s *BalanceServiceImpl) GetContract(db *gorm.DB, userID string) (*models.Contract, error) {
	contract, err := s.contractRepo.FindByUserID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrContractNotFound) {
			return nil, apperrors.ErrContractNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return contract, nil
}

func (s *BalanceServiceImpl) SaveContract(ctx context.Context, db *gorm.DB, userID string, req *dto.ContractRequest) (*models.Contract, error) {
	if problems := validateContract(req); len(problems) > 0 {
		return nil, apperrors.ValidationError(problems)
	}

	now := s.now()
	contract := &models.Contract{
		UserID:          userID,
		LegalName:       strings.TrimSpace(req.LegalName),
		Address:         strings.TrimSpace(req.Address),
		City:            strings.TrimSpace(req.City),
		State:           strings.TrimSpace(req.State),
		Zip:             strings.TrimSpace(req.Zip),
		Country:         strings.TrimSpace(req.Country),
		SignatureMethod: models.SignatureMethod(req.SignatureMethod),
		SignedAt:        now,
	}

	switch contract.SignatureMethod {
	case models.SignatureMethodType:
		contract.SignatureText = strPtr(strings.TrimSpace(req.SignatureText))
	case models.SignatureMethodDraw:
		png, err := decodeSignature(req.SignatureImage)
		if err != nil {
			return nil, apperrors.ValidationError(map[string]string{"signature_image": "Signature must be a PNG image"})
		}
		if s.maxUpload > 0 && int64(len(png)) > s.maxUpload {
			return nil, apperrors.ErrFileTooLarge
		}

		key := fmt.Sprintf("%s/%s_%d.png", storage.FolderSignatures, userID, now.UnixMilli())
		if err := s.storage.Save(ctx, key, bytes.NewReader(png), "image/png"); err != nil {
			logger.CtxWithError(ctx, "signature upload failed", err, "key", key)
			return nil, apperrors.InternalError(err)
		}
		url, err := s.storage.GetURL(ctx, key)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		contract.SignatureURL = &url
	}

	if err := s.contractRepo.Upsert(db, contract); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "contract saved", "user_id", userID, "signature_method", contract.SignatureMethod)
	return s.GetContract(db, userID)
}

// validateContract собирает все ошибки формы договора сразу
func validateContract(req *dto.ContractRequest) map[string]string {
	problems := make(map[string]string)
	required := []struct {
		field string
		value string
	}{
		{"legal_name", req.LegalName},
		{"address", req.Address},
		{"city", req.City},
		{"state", req.State},
		{"zip", req.Zip},
		{"country", req.Country},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			problems[r.field] = "This field is required"
		}
	}

	switch models.SignatureMethod(req.SignatureMethod) {
	case models.SignatureMethodType:
		if strings.TrimSpace(req.SignatureText) == "" {
			problems["signature_text"] = "Please type your signature"
		}
	case models.SignatureMethodDraw:
		if strings.TrimSpace(req.SignatureImage) == "" {
			problems["signature_image"] = "Please draw your signature"
		}
	default:
		problems["signature_method"] = "Must be one of: type, draw"
	}
	return problems
}

// decodeSignature разбирает data URL нарисованной подписи
func decodeSignature(dataURL string) ([]byte, error) {
	dataURL = strings.TrimSpace(dataURL)
	if !strings.HasPrefix(dataURL, signatureDataURLPrefix) {
		return nil, errors.New("signature is not a png data url")
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, signatureDataURLPrefix))
	if err != nil {
		return nil, err
	}
	if _, _, err := imageprocessor.DecodePNG(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Payouts

func (s *BalanceServiceImpl) GetBalance(db *gorm.DB, userID string) (*dto.BalanceResponse, error) {
	payouts, err := s.payoutRepo.FindByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if payouts == nil {
		payouts = []models.Payout{}
	}

	summary, err := s.Summary(db, userID)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceResponse{Summary: summary, Payouts: payouts}, nil
}

func (s *BalanceServiceImpl) Summary(db *gorm.DB, userID string) (dto.PayoutSummaryResponse, error) {
	summary, err := s.payoutRepo.Summary(db, userID)
	if err != nil {
		return dto.PayoutSummaryResponse{}, apperrors.InternalError(err)
	}
	return toPayoutSummary(summary), nil
}

func (s *BalanceServiceImpl) CreatePayout(db *gorm.DB, adminID string, req *dto.CreatePayoutRequest) (*models.Payout, error) {
	if _, err := s.userRepo.FindByID(db, req.UserID); err != nil {
		return nil, mapUserError(err)
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}

	payout := &models.Payout{
		UserID:     req.UserID,
		Amount:     req.Amount,
		Currency:   currency,
		Status:     models.PayoutStatusPending,
		PayoutDate: req.PayoutDate,
		Method:     strings.TrimSpace(req.Method),
		Reference:  strings.TrimSpace(req.Reference),
	}
	if err := s.payoutRepo.Create(db, payout); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.Info("payout scheduled", "payout_id", payout.ID, "user_id", payout.UserID, "admin_id", adminID)
	s.notifyPayout(db, payout, "Payout scheduled",
		fmt.Sprintf("A payout of %.2f %s is scheduled for %s.", payout.Amount, payout.Currency, payout.PayoutDate.Format("2006-01-02")))
	return payout, nil
}

func (s *BalanceServiceImpl) CompletePayout(db *gorm.DB, adminID, payoutID string) (*models.Payout, error) {
	if err := s.payoutRepo.CompletePending(db, payoutID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrPayoutNotFound):
			return nil, apperrors.ErrPayoutNotFound
		case errors.Is(err, repositories.ErrPayoutNotPending):
			return nil, apperrors.ErrPayoutAlreadyCompleted
		}
		return nil, apperrors.InternalError(err)
	}

	payout, err := s.payoutRepo.FindByID(db, payoutID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.Info("payout completed", "payout_id", payout.ID, "admin_id", adminID)
	s.notifyPayout(db, payout, "Payout completed",
		fmt.Sprintf("Your payout of %.2f %s has been completed.", payout.Amount, payout.Currency))
	return payout, nil
}

func (s *BalanceServiceImpl) notifyPayout(db *gorm.DB, payout *models.Payout, title, content string) {
	data := map[string]interface{}{"payout_id": payout.ID, "status": payout.Status}
	if _, err := s.notifications.Notify(db, payout.UserID, models.NotificationTypePayout, title, content, data); err != nil {
		logger.Warn("failed to notify about payout", "payout_id", payout.ID, "error", err)
	}
}
