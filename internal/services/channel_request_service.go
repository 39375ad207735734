package services

import (
	"context"
	"errors"
	"strings"

	"creatorhub_backend/internal/email"
	"creatorhub_backend/internal/logger"
	"creatorhub_backend/internal/models"
	"creatorhub_backend/internal/repositories"
	"creatorhub_backend/internal/services/dto"
	"creatorhub_backend/internal/verification"
	"creatorhub_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ChannelRequestService interface {
	Create(db *gorm.DB, userID string, req *dto.CreateChannelRequest) (*models.ChannelRequest, error)
	ListMine(db *gorm.DB, userID string) ([]models.ChannelRequest, error)

	// Admin
	ListByStatus(db *gorm.DB, req *dto.ListChannelRequestsRequest) (*dto.ChannelRequestListResponse, error)
	Review(ctx context.Context, db *gorm.DB, adminID, requestID string, req *dto.ReviewChannelRequest) (*models.ChannelRequest, error)
}

type ChannelRequestServiceImpl struct {
	channelRepo   repositories.ChannelRequestRepository
	userRepo      repositories.UserRepository
	notifications NotificationService
	mailer        email.Provider
}

func NewChannelRequestService(
	channelRepo repositories.ChannelRequestRepository,
	userRepo repositories.UserRepository,
	notifications NotificationService,
	mailer email.Provider,
) ChannelRequestService {
	return &ChannelRequestServiceImpl{
		channelRepo:   channelRepo,
		userRepo:      userRepo,
		notifications: notifications,
		mailer:        mailer,
	}
}

func (s *ChannelRequestServiceImpl) Create(db *gorm.DB, userID string, req *dto.CreateChannelRequest) (*models.ChannelRequest, error) {
	url := strings.TrimSpace(req.ChannelURL)
	if !verification.IsYouTubeURL(url) {
		return nil, apperrors.ErrInvalidChannelURL
	}

	channel := &models.ChannelRequest{
		UserID:      userID,
		ChannelURL:  url,
		ChannelName: strings.TrimSpace(req.ChannelName),
		Status:      models.ChannelRequestPending,
	}
	if err := s.channelRepo.Create(db, channel); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.Info("channel request created", "request_id", channel.ID, "user_id", userID)
	return channel, nil
}

func (s *ChannelRequestServiceImpl) ListMine(db *gorm.DB, userID string) ([]models.ChannelRequest, error) {
	reqs, err := s.channelRepo.FindByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if reqs == nil {
		reqs = []models.ChannelRequest{}
	}
	return reqs, nil
}

func (s *ChannelRequestServiceImpl) ListByStatus(db *gorm.DB, req *dto.ListChannelRequestsRequest) (*dto.ChannelRequestListResponse, error) {
	status := models.ChannelRequestStatus(req.Status)
	if status == "" {
		status = models.ChannelRequestPending
	}

	page := pagination(req.Page, req.PageSize)
	reqs, total, err := s.channelRepo.ListByStatus(db, status, page)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if reqs == nil {
		reqs = []models.ChannelRequest{}
	}

	return &dto.ChannelRequestListResponse{
		Requests: reqs,
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}, nil
}

func (s *ChannelRequestServiceImpl) Review(ctx context.Context, db *gorm.DB, adminID, requestID string, req *dto.ReviewChannelRequest) (*models.ChannelRequest, error) {
	status := models.ChannelRequestStatus(req.Status)
	if status != models.ChannelRequestApproved && status != models.ChannelRequestRejected {
		return nil, apperrors.ErrInvalidStatus("channel", "Must be one of: approved, rejected")
	}

	var reason *string
	if trimmed := strings.TrimSpace(req.Reason); trimmed != "" {
		reason = &trimmed
	}
	if status == models.ChannelRequestRejected && reason == nil {
		return nil, apperrors.ErrRejectionReasonRequired
	}

	reviewed, err := s.channelRepo.Review(db, requestID, adminID, status, reason)
	if err != nil {
		if errors.Is(err, repositories.ErrChannelRequestNotFound) {
			return nil, apperrors.ErrChannelRequestNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "channel request reviewed",
		"request_id", reviewed.ID,
		"admin_id", adminID,
		"status", reviewed.Status,
	)

	title, content := "Channel approved", "Your channel "+reviewed.ChannelURL+" has been approved."
	if status == models.ChannelRequestRejected {
		title, content = "Channel rejected", "Your channel "+reviewed.ChannelURL+" was rejected: "+*reason
	}
	data := map[string]interface{}{"channel_request_id": reviewed.ID, "status": reviewed.Status}
	if _, err := s.notifications.Notify(db, reviewed.UserID, models.NotificationTypeChannelStatus, title, content, data); err != nil {
		logger.CtxWarn(ctx, "failed to notify about channel review", "request_id", reviewed.ID, "error", err)
	}

	s.sendReviewEmail(ctx, db, reviewed, reason)
	return reviewed, nil
}

func (s *ChannelRequestServiceImpl) sendReviewEmail(ctx context.Context, db *gorm.DB, reviewed *models.ChannelRequest, reason *string) {
	if s.mailer == nil {
		return
	}
	user, err := s.userRepo.FindByID(db, reviewed.UserID)
	if err != nil || user.Email == "" {
		return
	}

	data := email.TemplateData{
		"Name":       user.FullName,
		"ChannelURL": reviewed.ChannelURL,
		"Status":     string(reviewed.Status),
	}
	if reason != nil {
		data["Reason"] = *reason
	}
	to := user.Email
	runAsync(ctx, "channel-review-email", func(ctx context.Context) error {
		return s.mailer.SendTemplate([]string{to}, "Your channel request was reviewed", email.TemplateChannelReviewed, data)
	})
}
