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
	"creatorhub_backend/ws"

	"gorm.io/gorm"
)

type BanService interface {
	Ban(ctx context.Context, db *gorm.DB, adminID, userID string, req *dto.BanUserRequest) (*models.Ban, error)
	Unban(ctx context.Context, db *gorm.DB, adminID, userID string) error
	List(db *gorm.DB, page, pageSize int) (*dto.BanListResponse, error)
	Status(db *gorm.DB, userID string) (*dto.BanStatusResponse, error)
}

type BanServiceImpl struct {
	banRepo       repositories.BanRepository
	userRepo      repositories.UserRepository
	notifications NotificationService
	publisher     ws.Publisher
}

func NewBanService(
	banRepo repositories.BanRepository,
	userRepo repositories.UserRepository,
	notifications NotificationService,
	publisher ws.Publisher,
) BanService {
	return &BanServiceImpl{
		banRepo:       banRepo,
		userRepo:      userRepo,
		notifications: notifications,
		publisher:     publisher,
	}
}

func (s *BanServiceImpl) Ban(ctx context.Context, db *gorm.DB, adminID, userID string, req *dto.BanUserRequest) (*models.Ban, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, apperrors.ValidationError(map[string]string{"reason": "Please provide a reason for the ban"})
	}
	if userID == adminID {
		return nil, apperrors.ErrInvalidOperation("ban", "You cannot ban yourself")
	}

	target, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, mapUserError(err)
	}
	if target.IsAdmin() {
		return nil, apperrors.ErrCannotBanAdmin
	}

	ban := &models.Ban{UserID: userID, BannedBy: adminID, Reason: reason}
	if err := s.banRepo.Create(db, ban); err != nil {
		if errors.Is(err, repositories.ErrAlreadyBanned) {
			return nil, apperrors.ErrAlreadyBanned
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user banned", "user_id", userID, "admin_id", adminID)

	s.publisher.Publish(ws.ChangeEvent{
		Table:   ws.TableBans,
		Type:    ws.EventInsert,
		Columns: map[string]string{"user_id": userID},
		Record:  ban,
	}, userID)

	if _, err := s.notifications.Notify(db, userID, models.NotificationTypeAccount,
		"Account suspended", "Your account has been suspended: "+reason, nil); err != nil {
		logger.CtxWarn(ctx, "failed to notify banned user", "user_id", userID, "error", err)
	}
	return ban, nil
}

func (s *BanServiceImpl) Unban(ctx context.Context, db *gorm.DB, adminID, userID string) error {
	ban, err := s.banRepo.DeleteByUserID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrBanNotFound) {
			return apperrors.ErrNotBanned
		}
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user unbanned", "user_id", userID, "admin_id", adminID)

	s.publisher.Publish(ws.ChangeEvent{
		Table:   ws.TableBans,
		Type:    ws.EventDelete,
		Columns: map[string]string{"user_id": userID},
		Record:  ban,
	}, userID)

	if _, err := s.notifications.Notify(db, userID, models.NotificationTypeAccount,
		"Account restored", "Your account access has been restored.", nil); err != nil {
		logger.CtxWarn(ctx, "failed to notify unbanned user", "user_id", userID, "error", err)
	}
	return nil
}

func (s *BanServiceImpl) List(db *gorm.DB, page, pageSize int) (*dto.BanListResponse, error) {
	p := pagination(page, pageSize)
	bans, total, err := s.banRepo.List(db, p)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if bans == nil {
		bans = []models.Ban{}
	}
	return &dto.BanListResponse{Bans: bans, Total: total, Page: p.Page, PageSize: p.PageSize}, nil
}

func (s *BanServiceImpl) Status(db *gorm.DB, userID string) (*dto.BanStatusResponse, error) {
	ban, err := s.banRepo.FindByUserID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrBanNotFound) {
			return &dto.BanStatusResponse{Banned: false}, nil
		}
		return nil, apperrors.InternalError(err)
	}
	bannedAt := ban.CreatedAt
	return &dto.BanStatusResponse{Banned: true, Reason: ban.Reason, BannedAt: &bannedAt}, nil
}

