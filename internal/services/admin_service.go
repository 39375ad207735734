package services

import (
	"context"
	"errors"
	"strings"

	"creatorhub_backend/internal/logger"
	"creatorhub_backend/internal/models"
	"creatorhub_backend/internal/repositories"
	"creatorhub_backend/internal/services/dto"
	"creatorhub_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// AdminService - просмотр персональных данных с аудитом
type AdminService interface {
	LookupUser(ctx context.Context, db *gorm.DB, adminID, targetID string, req *dto.UserLookupRequest, ip string) (*dto.UserLookupResponse, error)
	ListAccessLogs(db *gorm.DB, req *dto.AccessLogListRequest) (*dto.AccessLogListResponse, error)
}

type AdminServiceImpl struct {
	userRepo      repositories.UserRepository
	appRepo       repositories.ApplicationRepository
	contractRepo  repositories.ContractRepository
	payoutRepo    repositories.PayoutRepository
	banRepo       repositories.BanRepository
	accessLogRepo repositories.AccessLogRepository
}

func NewAdminService(
	userRepo repositories.UserRepository,
	appRepo repositories.ApplicationRepository,
	contractRepo repositories.ContractRepository,
	payoutRepo repositories.PayoutRepository,
	banRepo repositories.BanRepository,
	accessLogRepo repositories.AccessLogRepository,
) AdminService {
	return &AdminServiceImpl{
		userRepo:      userRepo,
		appRepo:       appRepo,
		contractRepo:  contractRepo,
		payoutRepo:    payoutRepo,
		banRepo:       banRepo,
		accessLogRepo: accessLogRepo,
	}
}

func (s *AdminServiceImpl) LookupUser(ctx context.Context, db *gorm.DB, adminID, targetID string, req *dto.UserLookupRequest, ip string) (*dto.UserLookupResponse, error) {
	reason := strings.TrimSpace(req.Reason)
	if len(reason) < 3 {
		return nil, apperrors.ValidationError(map[string]string{"reason": "Please explain why you need access"})
	}

	user, err := s.userRepo.FindByID(db, targetID)
	if err != nil {
		return nil, mapUserError(err)
	}

	// запись в журнал до выдачи данных: без аудита данные не отдаем
	entry := &models.AccessLog{AdminID: adminID, TargetUserID: targetID, Reason: reason, IP: ip}
	if err := s.accessLogRepo.Create(db, entry); err != nil {
		return nil, apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "admin accessed user data", "admin_id", adminID, "target_user_id", targetID)

	resp := &dto.UserLookupResponse{User: toUserResponse(user)}

	if app, err := s.appRepo.FindByUserID(db, targetID); err == nil {
		resp.Application = app
	} else if !errors.Is(err, repositories.ErrApplicationNotFound) {
		return nil, apperrors.InternalError(err)
	}

	if contract, err := s.contractRepo.FindByUserID(db, targetID); err == nil {
		resp.Contract = contract
	} else if !errors.Is(err, repositories.ErrContractNotFound) {
		return nil, apperrors.InternalError(err)
	}

	if ban, err := s.banRepo.FindByUserID(db, targetID); err == nil {
		resp.Ban = ban
	} else if !errors.Is(err, repositories.ErrBanNotFound) {
		return nil, apperrors.InternalError(err)
	}

	summary, err := s.payoutRepo.Summary(db, targetID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp.Balance = toPayoutSummary(summary)

	return resp, nil
}

func (s *AdminServiceImpl) ListAccessLogs(db *gorm.DB, req *dto.AccessLogListRequest) (*dto.AccessLogListResponse, error) {
	page := pagination(req.Page, req.PageSize)
	logs, total, err := s.accessLogRepo.List(db, repositories.AccessLogCriteria{
		AdminID:      req.AdminID,
		TargetUserID: req.TargetUserID,
		Pagination:   page,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if logs == nil {
		logs = []models.AccessLog{}
	}

	return &dto.AccessLogListResponse{
		Logs:     logs,
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}, nil
}
