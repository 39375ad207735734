package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"creatorhub_backend/internal/logger"
	"creatorhub_backend/internal/models"
	"creatorhub_backend/internal/repositories"
	"creatorhub_backend/internal/services/dto"
	"creatorhub_backend/pkg/apperrors"
	"creatorhub_backend/ws"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationService interface {
	List(db *gorm.DB, userID string, req *dto.NotificationListRequest) (*dto.NotificationListResponse, error)
	UnreadCount(db *gorm.DB, userID string) (int64, error)
	MarkAsRead(db *gorm.DB, userID, notificationID string) error
	MarkAllAsRead(db *gorm.DB, userID string) (int64, error)

	// Notify создает уведомление пользователю и отправляет INSERT событие
	Notify(db *gorm.DB, userID, notificationType, title, content string, data map[string]interface{}) (*models.Notification, error)
	Announce(db *gorm.DB, adminID string, req *dto.AnnouncementRequest) (*dto.AnnouncementResponse, error)
	CleanupRead(db *gorm.DB, retention time.Duration) (int64, error)
}

type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	publisher        ws.Publisher
	now              func() time.Time
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	publisher ws.Publisher,
) NotificationService {
	return &NotificationServiceImpl{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		publisher:        publisher,
		now:              time.Now,
	}
}

func (s *NotificationServiceImpl) List(db *gorm.DB, userID string, req *dto.NotificationListRequest) (*dto.NotificationListResponse, error) {
	page := pagination(req.Page, req.PageSize)
	items, total, err := s.notificationRepo.FindByUser(db, userID, repositories.NotificationCriteria{
		UnreadOnly: req.UnreadOnly,
		Type:       strings.TrimSpace(req.Type),
		Pagination: page,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if items == nil {
		items = []models.Notification{}
	}

	unread, err := s.notificationRepo.CountUnread(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.NotificationListResponse{
		Notifications: items,
		Total:         total,
		Unread:        unread,
		Page:          page.Page,
		PageSize:      page.PageSize,
	}, nil
}

func (s *NotificationServiceImpl) UnreadCount(db *gorm.DB, userID string) (int64, error) {
	count, err := s.notificationRepo.CountUnread(db, userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

func (s *NotificationServiceImpl) MarkAsRead(db *gorm.DB, userID, notificationID string) error {
	if err := s.notificationRepo.MarkAsRead(db, userID, notificationID, s.now()); err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotificationNotFound
		}
		return apperrors.InternalError(err)
	}

	s.publisher.Publish(ws.ChangeEvent{
		Table:   ws.TableNotifications,
		Type:    ws.EventUpdate,
		Columns: map[string]string{"user_id": userID, "id": notificationID},
		Record:  map[string]interface{}{"id": notificationID, "read": true},
	}, userID)
	return nil
}

func (s *NotificationServiceImpl) MarkAllAsRead(db *gorm.DB, userID string) (int64, error) {
	updated, err := s.notificationRepo.MarkAllAsRead(db, userID, s.now())
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	if updated > 0 {
		s.publisher.Publish(ws.ChangeEvent{
			Table:   ws.TableNotifications,
			Type:    ws.EventUpdate,
			Columns: map[string]string{"user_id": userID},
			Record:  map[string]interface{}{"all_read": true, "updated": updated},
		}, userID)
	}
	return updated, nil
}

func (s *NotificationServiceImpl) Notify(db *gorm.DB, userID, notificationType, title, content string, data map[string]interface{}) (*models.Notification, error) {
	n, err := buildNotification(userID, notificationType, title, content, data)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.notificationRepo.Create(db, n); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.publishInsert(n)
	return n, nil
}

// Announce рассылает объявление всем авторам
func (s *NotificationServiceImpl) Announce(db *gorm.DB, adminID string, req *dto.AnnouncementRequest) (*dto.AnnouncementResponse, error) {
	recipients, err := s.userRepo.FindIDsByRole(db, models.UserRoleCreator)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if len(recipients) == 0 {
		return &dto.AnnouncementResponse{Recipients: 0}, nil
	}

	data := map[string]interface{}{"announced_by": adminID}
	batch := make([]*models.Notification, 0, len(recipients))
	for _, userID := range recipients {
		n, err := buildNotification(userID, models.NotificationTypeAnnouncement, req.Title, req.Content, data)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		batch = append(batch, n)
	}

	if err := s.notificationRepo.CreateBulk(db, batch); err != nil {
		return nil, apperrors.InternalError(err)
	}

	for _, n := range batch {
		s.publishInsert(n)
	}

	logger.Info("announcement published", "admin_id", adminID, "recipients", len(batch))
	return &dto.AnnouncementResponse{Recipients: len(batch)}, nil
}

// CleanupRead удаляет прочитанные уведомления старше retention
func (s *NotificationServiceImpl) CleanupRead(db *gorm.DB, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, fmt.Errorf("invalid retention %s", retention)
	}
	return s.notificationRepo.DeleteReadOlderThan(db, s.now().Add(-retention))
}

func (s *NotificationServiceImpl) publishInsert(n *models.Notification) {
	s.publisher.Publish(ws.ChangeEvent{
		Table:   ws.TableNotifications,
		Type:    ws.EventInsert,
		Columns: map[string]string{"user_id": n.UserID},
		Record:  n,
	}, n.UserID)
}

func buildNotification(userID, notificationType, title, content string, data map[string]interface{}) (*models.Notification, error) {
	n := &models.Notification{
		UserID:  userID,
		Type:    notificationType,
		Title:   strings.TrimSpace(title),
		Content: strings.TrimSpace(content),
	}
	if len(data) > 0 {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal notification data: %w", err)
		}
		n.Data = datatypes.JSON(raw)
	}
	return n, nil
}
