package services

import (
	"context"
	"errors"
	"strings"

	"creatorhub_backend/internal/email"
	"creatorhub_backend/internal/logger"
	"creatorhub_backend/internal/models"
	"creatorhub_backend/internal/notice"
	"creatorhub_backend/internal/repositories"
	"creatorhub_backend/internal/services/dto"
	"creatorhub_backend/pkg/apperrors"
	"creatorhub_backend/ws"

	"gorm.io/gorm"
)

type ApplicationService interface {
	List(db *gorm.DB, req *dto.ListApplicationsRequest) (*dto.ApplicationListResponse, error)
	Get(db *gorm.DB, applicationID string) (*models.Application, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, adminID, applicationID string, req *dto.UpdateApplicationStatusRequest) (*dto.UpdateApplicationStatusResponse, error)
	GetMine(db *gorm.DB, userID string) (*dto.MyApplicationResponse, error)
}

type ApplicationServiceImpl struct {
	appRepo   repositories.ApplicationRepository
	mailer    email.Provider
	publisher ws.Publisher
	notices   NoticeSender
}

func NewApplicationService(
	appRepo repositories.ApplicationRepository,
	mailer email.Provider,
	publisher ws.Publisher,
	notices NoticeSender,
) ApplicationService {
	return &ApplicationServiceImpl{
		appRepo:   appRepo,
		mailer:    mailer,
		publisher: publisher,
		notices:   notices,
	}
}

func (s *ApplicationServiceImpl) List(db *gorm.DB, req *dto.ListApplicationsRequest) (*dto.ApplicationListResponse, error) {
	status := models.ApplicationStatus(req.Status)
	if status == "" {
		status = models.ApplicationStatusPending
	}
	if !status.IsValid() {
		return nil, apperrors.ErrInvalidStatus("application", "Unknown application status")
	}

	page := pagination(req.Page, req.PageSize)
	apps, total, err := s.appRepo.ListByStatus(db, status, page)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if apps == nil {
		apps = []models.Application{}
	}

	return &dto.ApplicationListResponse{
		Applications: apps,
		Status:       string(status),
		Total:        total,
		Page:         page.Page,
		PageSize:     page.PageSize,
	}, nil
}

func (s *ApplicationServiceImpl) Get(db *gorm.DB, applicationID string) (*models.Application, error) {
	app, err := s.appRepo.FindByID(db, applicationID)
	if err != nil {
		return nil, mapApplicationError(err)
	}
	return app, nil
}

// UpdateStatus меняет статус заявки одной транзакцией и возвращает перезагруженный список
func (s *ApplicationServiceImpl) UpdateStatus(ctx context.Context, db *gorm.DB, adminID, applicationID string, req *dto.UpdateApplicationStatusRequest) (*dto.UpdateApplicationStatusResponse, error) {
	newStatus := models.ApplicationStatus(req.Status)
	if !newStatus.IsValid() {
		return nil, apperrors.ErrInvalidStatus("application", "Unknown application status")
	}

	reason := strings.TrimSpace(req.Reason)
	if newStatus == models.ApplicationStatusRejected && reason == "" {
		s.notifyAdmin(ctx, adminID, "rejection-reason-required", apperrors.ErrRejectionReasonRequired.Message)
		return nil, apperrors.ErrRejectionReasonRequired
	}

	current, err := s.appRepo.FindByID(db, applicationID)
	if err != nil {
		return nil, mapApplicationError(err)
	}
	previous := current.Status

	storedReason := reason
	if newStatus != models.ApplicationStatusRejected {
		storedReason = "Application " + string(newStatus)
	}

	notification := statusNotification(newStatus, storedReason)
	updated, err := s.appRepo.UpdateStatusWithAdmin(db, repositories.StatusUpdate{
		AdminID:       adminID,
		ApplicationID: applicationID,
		NewStatus:     newStatus,
		Reason:        storedReason,
		Notification:  notification,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		s.notifyAdmin(ctx, adminID, "review-error", "Failed to update application status")
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "application status updated",
		"application_id", updated.ID,
		"admin_id", adminID,
		"from", previous,
		"to", newStatus,
	)

	s.publisher.Publish(ws.ChangeEvent{
		Table:   ws.TableApplications,
		Type:    ws.EventUpdate,
		Columns: map[string]string{"id": updated.ID, "user_id": updated.UserID, "status": string(updated.Status)},
		Record:  updated,
	}, updated.UserID, adminID)
	s.publisher.Publish(ws.ChangeEvent{
		Table:   ws.TableNotifications,
		Type:    ws.EventInsert,
		Columns: map[string]string{"user_id": updated.UserID},
		Record:  notification,
	}, updated.UserID)

	s.sendDecisionEmail(ctx, updated, reason)

	refresh := models.ApplicationStatus(req.Refresh)
	if refresh == "" {
		refresh = previous
	}
	list, err := s.List(db, &dto.ListApplicationsRequest{Status: string(refresh)})
	if err != nil {
		return nil, err
	}

	return &dto.UpdateApplicationStatusResponse{Application: updated, List: list}, nil
}

func (s *ApplicationServiceImpl) GetMine(db *gorm.DB, userID string) (*dto.MyApplicationResponse, error) {
	app, err := s.appRepo.FindByUserID(db, userID)
	if err != nil {
		return nil, mapApplicationError(err)
	}
	return toMyApplication(app), nil
}

func (s *ApplicationServiceImpl) sendDecisionEmail(ctx context.Context, app *models.Application, reason string) {
	if s.mailer == nil || app.Email == "" {
		return
	}

	var subject, template string
	switch app.Status {
	case models.ApplicationStatusApproved:
		subject, template = "Your application has been approved", email.TemplateApplicationApproved
	case models.ApplicationStatusRejected:
		subject, template = "Update on your application", email.TemplateApplicationRejected
	default:
		return
	}

	to := app.Email
	data := email.TemplateData{"Name": app.Name, "Reason": reason}
	runAsync(ctx, "application-decision-email", func(ctx context.Context) error {
		return s.mailer.SendTemplate([]string{to}, subject, template, data)
	})
}

func (s *ApplicationServiceImpl) notifyAdmin(ctx context.Context, adminID, id, message string) {
	if s.notices != nil {
		s.notices.Notify(ctx, adminID, notice.Notice{ID: id, Message: message, Level: notice.LevelError})
	}
}

func statusNotification(status models.ApplicationStatus, reason string) *models.Notification {
	n := &models.Notification{Type: models.NotificationTypeApplicationStatus}
	switch status {
	case models.ApplicationStatusApproved:
		n.Title = "Application approved"
		n.Content = "Congratulations! Your application has been approved."
	case models.ApplicationStatusRejected:
		n.Title = "Application rejected"
		n.Content = "Your application was rejected: " + reason
	default:
		n.Title = "Application under review"
		n.Content = "Your application is being reviewed again."
	}
	return n
}

func toMyApplication(app *models.Application) *dto.MyApplicationResponse {
	if app == nil {
		return nil
	}
	return &dto.MyApplicationResponse{
		ID:              app.ID,
		Status:          app.Status,
		RejectionReason: app.RejectionReason,
		Interests:       append([]string{}, app.Interests...),
		YoutubeLinks:    append([]string{}, app.YoutubeLinks...),
	}
}

func mapApplicationError(err error) error {
	if errors.Is(err, repositories.ErrApplicationNotFound) {
		return apperrors.ErrApplicationNotFound
	}
	return apperrors.InternalError(err)
}
