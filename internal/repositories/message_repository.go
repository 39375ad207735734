package repositories

import (
	"time"

	"creatorhub_backend/internal/models"

	"gorm.io/gorm"
)

// ParticipantActivity - последнее сообщение, в котором участвовал пользователь
type ParticipantActivity struct {
	UserID        string
	LastMessage   string
	HasImage      bool
	LastMessageAt time.Time
}

type MessageRepository interface {
	Create(db *gorm.DB, message *models.Message) error
	// FindThread - переписка пары в обе стороны, по возрастанию created_at
	FindThread(db *gorm.DB, userA, userB string) ([]models.Message, error)
	// LatestActivityByParticipant - для каждого участника любых сообщений последнее сообщение
	LatestActivityByParticipant(db *gorm.DB) ([]ParticipantActivity, error)
	MarkThreadRead(db *gorm.DB, receiverID, senderID string, at time.Time) (int64, error)
	CountUnread(db *gorm.DB, receiverID string) (int64, error)
}

type MessageRepositoryImpl struct{}

func NewMessageRepository() MessageRepository {
	return &MessageRepositoryImpl{}
}

func (r *MessageRepositoryImpl) Create(db *gorm.DB, message *models.Message) error {
	return db.Create(message).Error
}

func (r *MessageRepositoryImpl) FindThread(db *gorm.DB, userA, userB string) ([]models.Message, error) {
	var messages []models.Message
	err := db.Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		userA, userB, userB, userA).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

func (r *MessageRepositoryImpl) LatestActivityByParticipant(db *gorm.DB) ([]ParticipantActivity, error) {
	var rows []ParticipantActivity
	err := db.Raw(`
		SELECT DISTINCT ON (t.user_id)
			t.user_id, t.content AS last_message, t.image_url IS NOT NULL AS has_image, t.created_at AS last_message_at
		FROM (
			SELECT sender_id AS user_id, content, image_url, created_at FROM messages
			UNION ALL
			SELECT receiver_id AS user_id, content, image_url, created_at FROM messages
		) t
		ORDER BY t.user_id, t.created_at DESC`).
		Scan(&rows).Error
	return rows, err
}

func (r *MessageRepositoryImpl) MarkThreadRead(db *gorm.DB, receiverID, senderID string, at time.Time) (int64, error) {
	result := db.Model(&models.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND read_at IS NULL", receiverID, senderID).
		Update("read_at", at)
	return result.RowsAffected, result.Error
}

func (r *MessageRepositoryImpl) CountUnread(db *gorm.DB, receiverID string) (int64, error) {
	var count int64
	err := db.Model(&models.Message{}).
		Where("receiver_id = ? AND read_at IS NULL", receiverID).
		Count(&count).Error
	return count, err
}
