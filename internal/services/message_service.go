package services

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"creatorhub_backend/internal/logger"
	"creatorhub_backend/internal/models"
	"creatorhub_backend/internal/repositories"
	"creatorhub_backend/internal/services/dto"
	"creatorhub_backend/internal/storage"
	"creatorhub_backend/pkg/apperrors"
	"creatorhub_backend/ws"

	"gorm.io/gorm"
)

type MessageService interface {
	ListConversations(db *gorm.DB, adminID string, req *dto.ConversationListRequest) ([]dto.ConversationSummary, error)
	GetThread(db *gorm.DB, viewerID string, viewerIsAdmin bool, peerID string) (*dto.ThreadResponse, error)
	Send(ctx context.Context, db *gorm.DB, senderID string, senderIsAdmin bool, req *dto.SendMessageRequest, image *dto.ImageUpload) (*dto.ThreadResponse, error)
	MarkThreadRead(db *gorm.DB, userID string, isAdmin bool, peerID string) (*dto.MarkReadResponse, error)
	Unread(db *gorm.DB, userID string) (*dto.UnreadMessagesResponse, error)
}

type MessageServiceImpl struct {
	messageRepo repositories.MessageRepository
	userRepo    repositories.UserRepository
	support     SupportDirectory
	storage     storage.Storage
	publisher   ws.Publisher
	limits      UploadLimits
	now         func() time.Time
}

func NewMessageService(
	messageRepo repositories.MessageRepository,
	userRepo repositories.UserRepository,
	support SupportDirectory,
	store storage.Storage,
	publisher ws.Publisher,
	limits UploadLimits,
) MessageService {
	return &MessageServiceImpl{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		support:     support,
		storage:     store,
		publisher:   publisher,
		limits:      limits,
		now:         time.Now,
	}
}

// ListConversations - пользователи (не админы), с которыми есть хотя бы одно сообщение
func (s *MessageServiceImpl) ListConversations(db *gorm.DB, adminID string, req *dto.ConversationListRequest) ([]dto.ConversationSummary, error) {
	activity, err := s.messageRepo.LatestActivityByParticipant(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	ids := make([]string, 0, len(activity))
	for _, a := range activity {
		if a.UserID != adminID {
			ids = append(ids, a.UserID)
		}
	}
	if len(ids) == 0 {
		return []dto.ConversationSummary{}, nil
	}

	users, err := s.userRepo.FindNonAdminsByIDs(db, ids)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	search := ""
	if req != nil {
		search = req.Search
	}
	return buildConversationList(activity, users, adminID, search), nil
}

func (s *MessageServiceImpl) GetThread(db *gorm.DB, viewerID string, viewerIsAdmin bool, peerID string) (*dto.ThreadResponse, error) {
	peer, err := s.resolvePeer(db, viewerID, viewerIsAdmin, peerID)
	if err != nil {
		return nil, err
	}
	return s.thread(db, viewerID, peer)
}

// Send сохраняет сообщение (с картинкой или без) и возвращает заново загруженную переписку
func (s *MessageServiceImpl) Send(ctx context.Context, db *gorm.DB, senderID string, senderIsAdmin bool, req *dto.SendMessageRequest, image *dto.ImageUpload) (*dto.ThreadResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" && image == nil {
		return nil, apperrors.ErrEmptyMessage
	}

	receiverID, err := s.resolvePeer(db, senderID, senderIsAdmin, req.ReceiverID)
	if err != nil {
		return nil, err
	}
	if senderIsAdmin {
		if _, err := s.userRepo.FindByID(db, receiverID); err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return nil, apperrors.ErrInvalidRecipient
			}
			return nil, apperrors.InternalError(err)
		}
	}

	message := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}

	if image != nil {
		url, err := s.storeImage(ctx, senderID, image)
		if err != nil {
			return nil, err
		}
		message.ImageURL = &url
	}

	if err := s.messageRepo.Create(db, message); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.publisher.Publish(ws.ChangeEvent{
		Table:   ws.TableMessages,
		Type:    ws.EventInsert,
		Columns: pairColumns(message.SenderID, message.ReceiverID),
		Record:  message,
	}, senderID, receiverID)

	return s.thread(db, senderID, receiverID)
}

func (s *MessageServiceImpl) MarkThreadRead(db *gorm.DB, userID string, isAdmin bool, peerID string) (*dto.MarkReadResponse, error) {
	peer, err := s.resolvePeer(db, userID, isAdmin, peerID)
	if err != nil {
		return nil, err
	}

	updated, err := s.messageRepo.MarkThreadRead(db, userID, peer, s.now())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if updated > 0 {
		s.publisher.Publish(ws.ChangeEvent{
			Table:   ws.TableMessages,
			Type:    ws.EventUpdate,
			Columns: pairColumns(peer, userID),
			Record:  map[string]interface{}{"sender_id": peer, "receiver_id": userID, "updated": updated},
		}, userID, peer)
	}
	return &dto.MarkReadResponse{Updated: updated}, nil
}

func (s *MessageServiceImpl) Unread(db *gorm.DB, userID string) (*dto.UnreadMessagesResponse, error) {
	count, err := s.messageRepo.CountUnread(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.UnreadMessagesResponse{HasUnread: count > 0, Count: count}, nil
}

// resolvePeer: собеседник пользователя - всегда поддержка, админ выбирает сам
func (s *MessageServiceImpl) resolvePeer(db *gorm.DB, userID string, isAdmin bool, peerID string) (string, error) {
	if !isAdmin {
		return s.support.AdminID(db)
	}
	peerID = strings.TrimSpace(peerID)
	if peerID == "" || peerID == userID {
		return "", apperrors.ErrInvalidRecipient
	}
	return peerID, nil
}

func (s *MessageServiceImpl) thread(db *gorm.DB, viewerID, peerID string) (*dto.ThreadResponse, error) {
	messages, err := s.messageRepo.FindThread(db, viewerID, peerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return &dto.ThreadResponse{PeerID: peerID, Messages: messages}, nil
}

// storeImage кладет вложение в message-images/<uid>/<random>.<ext>
func (s *MessageServiceImpl) storeImage(ctx context.Context, senderID string, image *dto.ImageUpload) (string, error) {
	if err := s.limits.check(image.Size, image.ContentType); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(image.Filename))
	if ext == "" {
		ext = storage.ExtensionForContentType(image.ContentType)
	}

	key := storage.UserObjectKey(storage.FolderMessageImages, senderID, ext)
	if err := s.storage.Save(ctx, key, image.Reader, image.ContentType); err != nil {
		logger.CtxWithError(ctx, "message image upload failed", err, "key", key)
		return "", apperrors.InternalError(err)
	}

	url, err := s.storage.GetURL(ctx, key)
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	return url, nil
}

func pairColumns(senderID, receiverID string) map[string]string {
	return map[string]string{"sender_id": senderID, "receiver_id": receiverID}
}

// buildConversationList пересекает участников переписок с профилями не-админов,
// фильтрует по имени/email и сортирует по времени последнего сообщения (новые сверху)
func buildConversationList(activity []repositories.ParticipantActivity, users []models.User, adminID, search string) []dto.ConversationSummary {
	byID := make(map[string]*models.User, len(users))
	for i := range users {
		if !users[i].IsAdmin() {
			byID[users[i].ID] = &users[i]
		}
	}

	needle := strings.ToLower(strings.TrimSpace(search))
	list := make([]dto.ConversationSummary, 0, len(activity))
	seen := make(map[string]bool, len(activity))

	for _, a := range activity {
		if a.UserID == adminID || seen[a.UserID] {
			continue
		}
		user, ok := byID[a.UserID]
		if !ok {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(user.FullName), needle) &&
			!strings.Contains(strings.ToLower(user.Email), needle) {
			continue
		}

		seen[a.UserID] = true
		list = append(list, dto.ConversationSummary{
			UserID:        user.ID,
			FullName:      user.FullName,
			Email:         user.Email,
			AvatarURL:     user.AvatarURL,
			LastMessage:   a.LastMessage,
			HasImage:      a.HasImage,
			LastMessageAt: a.LastMessageAt,
		})
	}

	sort.SliceStable(list, func(i, j int) bool {
		if list[i].LastMessageAt.Equal(list[j].LastMessageAt) {
			return list[i].UserID < list[j].UserID
		}
		return list[i].LastMessageAt.After(list[j].LastMessageAt)
	})
	return list
}
