package services

import (
	"errors"

	"creatorhub_backend/internal/repositories"
	"creatorhub_backend/internal/services/dto"
	"creatorhub_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type DashboardService interface {
	Summary(db *gorm.DB, userID string) (*dto.DashboardSummary, error)
}

type DashboardServiceImpl struct {
	userRepo         repositories.UserRepository
	appRepo          repositories.ApplicationRepository
	notificationRepo repositories.NotificationRepository
	messageRepo      repositories.MessageRepository
	banRepo          repositories.BanRepository
	payoutRepo       repositories.PayoutRepository
}

func NewDashboardService(
	userRepo repositories.UserRepository,
	appRepo repositories.ApplicationRepository,
	notificationRepo repositories.NotificationRepository,
	messageRepo repositories.MessageRepository,
	banRepo repositories.BanRepository,
	payoutRepo repositories.PayoutRepository,
) DashboardService {
	return &DashboardServiceImpl{
		userRepo:         userRepo,
		appRepo:          appRepo,
		notificationRepo: notificationRepo,
		messageRepo:      messageRepo,
		banRepo:          banRepo,
		payoutRepo:       payoutRepo,
	}
}

func (s *DashboardServiceImpl) Summary(db *gorm.DB, userID string) (*dto.DashboardSummary, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, mapUserError(err)
	}
	summary := &dto.DashboardSummary{User: toUserResponse(user)}

	app, err := s.appRepo.FindByUserID(db, userID)
	switch {
	case err == nil:
		summary.Application = toMyApplication(app)
	case !errors.Is(err, repositories.ErrApplicationNotFound):
		return nil, apperrors.InternalError(err)
	}

	if summary.UnreadNotifications, err = s.notificationRepo.CountUnread(db, userID); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if summary.UnreadMessages, err = s.messageRepo.CountUnread(db, userID); err != nil {
		return nil, apperrors.InternalError(err)
	}
	summary.HasUnreadMessages = summary.UnreadMessages > 0

	ban, err := s.banRepo.FindByUserID(db, userID)
	switch {
	case err == nil:
		summary.Banned = true
		summary.BanReason = ban.Reason
	case !errors.Is(err, repositories.ErrBanNotFound):
		return nil, apperrors.InternalError(err)
	}

	payouts, err := s.payoutRepo.Summary(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	summary.Balance = toPayoutSummary(payouts)

	return summary, nil
}
