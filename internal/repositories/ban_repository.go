package repositories

import (
	"errors"

	"creatorhub_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrBanNotFound   = errors.New("ban not found")
	ErrAlreadyBanned = errors.New("user already banned")
)

type BanRepository interface {
	Create(db *gorm.DB, ban *models.Ban) error
	DeleteByUserID(db *gorm.DB, userID string) (*models.Ban, error)
	FindByUserID(db *gorm.DB, userID string) (*models.Ban, error)
	List(db *gorm.DB, page Pagination) ([]models.Ban, int64, error)
}

type BanRepositoryImpl struct{}

func NewBanRepository() BanRepository {
	return &BanRepositoryImpl{}
}

func (r *BanRepositoryImpl) Create(db *gorm.DB, ban *models.Ban) error {
	if err := db.Create(ban).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyBanned
		}
		return err
	}
	return nil
}

// DeleteByUserID удаляет бан и возвращает удаленную строку (для DELETE-события)
func (r *BanRepositoryImpl) DeleteByUserID(db *gorm.DB, userID string) (*models.Ban, error) {
	ban, err := r.FindByUserID(db, userID)
	if err != nil {
		return nil, err
	}
	if err := db.Delete(&models.Ban{}, "id = ?", ban.ID).Error; err != nil {
		return nil, err
	}
	return ban, nil
}

func (r *BanRepositoryImpl) FindByUserID(db *gorm.DB, userID string) (*models.Ban, error) {
	var ban models.Ban
	if err := db.Where("user_id = ?", userID).First(&ban).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBanNotFound
		}
		return nil, err
	}
	return &ban, nil
}

func (r *BanRepositoryImpl) List(db *gorm.DB, page Pagination) ([]models.Ban, int64, error) {
	var bans []models.Ban
	var total int64
	if err := db.Model(&models.Ban{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Order("created_at DESC").Limit(page.Limit()).Offset(page.Offset()).Find(&bans).Error
	return bans, total, err
}
