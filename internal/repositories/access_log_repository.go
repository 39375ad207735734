package repositories

import (
	"creatorhub_backend/internal/models"

	"gorm.io/gorm"
)

type AccessLogCriteria struct {
	AdminID      string
	TargetUserID string
	Pagination
}

type AccessLogRepository interface {
	Create(db *gorm.DB, entry *models.AccessLog) error
	List(db *gorm.DB, criteria AccessLogCriteria) ([]models.AccessLog, int64, error)
}

type AccessLogRepositoryImpl struct{}

func NewAccessLogRepository() AccessLogRepository {
	return &AccessLogRepositoryImpl{}
}

func (r *AccessLogRepositoryImpl) Create(db *gorm.DB, entry *models.AccessLog) error {
	return db.Create(entry).Error
}

func (r *AccessLogRepositoryImpl) List(db *gorm.DB, criteria AccessLogCriteria) ([]models.AccessLog, int64, error) {
	var logs []models.AccessLog
	query := db.Model(&models.AccessLog{})
	if criteria.AdminID != "" {
		query = query.Where("admin_id = ?", criteria.AdminID)
	}
	if criteria.TargetUserID != "" {
		query = query.Where("target_user_id = ?", criteria.TargetUserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").
		Limit(criteria.Limit()).Offset(criteria.Offset()).
		Find(&logs).Error
	return logs, total, err
}
