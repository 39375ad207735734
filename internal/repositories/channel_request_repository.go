package repositories

import (
	"errors"
	"time"

	"creatorhub_backend/internal/models"

	"gorm.io/gorm"
)

var ErrChannelRequestNotFound = errors.New("channel request not found")

type ChannelRequestRepository interface {
	Create(db *gorm.DB, req *models.ChannelRequest) error
	FindByID(db *gorm.DB, id string) (*models.ChannelRequest, error)
	FindByUser(db *gorm.DB, userID string) ([]models.ChannelRequest, error)
	ListByStatus(db *gorm.DB, status models.ChannelRequestStatus, page Pagination) ([]models.ChannelRequest, int64, error)
	Review(db *gorm.DB, id, adminID string, status models.ChannelRequestStatus, reason *string) (*models.ChannelRequest, error)
}

type ChannelRequestRepositoryImpl struct{}

func NewChannelRequestRepository() ChannelRequestRepository {
	return &ChannelRequestRepositoryImpl{}
}

func (r *ChannelRequestRepositoryImpl) Create(db *gorm.DB, req *models.ChannelRequest) error {
	return db.Create(req).Error
}

func (r *ChannelRequestRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.ChannelRequest, error) {
	var req models.ChannelRequest
	if err := db.First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChannelRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *ChannelRequestRepositoryImpl) FindByUser(db *gorm.DB, userID string) ([]models.ChannelRequest, error) {
	var reqs []models.ChannelRequest
	err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}

func (r *ChannelRequestRepositoryImpl) ListByStatus(db *gorm.DB, status models.ChannelRequestStatus, page Pagination) ([]models.ChannelRequest, int64, error) {
	var reqs []models.ChannelRequest
	query := db.Model(&models.ChannelRequest{}).Where("status = ?", status)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Preload("User").
		Order("created_at DESC").
		Limit(page.Limit()).Offset(page.Offset()).
		Find(&reqs).Error
	return reqs, total, err
}

func (r *ChannelRequestRepositoryImpl) Review(db *gorm.DB, id, adminID string, status models.ChannelRequestStatus, reason *string) (*models.ChannelRequest, error) {
	now := time.Now()
	result := db.Model(&models.ChannelRequest{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":    status,
		"reason":    reason,
		"viewed_by": adminID,
		"viewed_at": now,
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrChannelRequestNotFound
	}
	return r.FindByID(db, id)
}
