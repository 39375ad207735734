package repositories

import (
	"errors"
	"strings"
	"time"

	"creatorhub_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	FindFirstAdmin(db *gorm.DB) (*models.User, error)
	// FindNonAdminsByIDs - профили из списка, у которых роль != admin
	FindNonAdminsByIDs(db *gorm.DB, ids []string) ([]models.User, error)
	FindIDsByRole(db *gorm.DB, role models.UserRole) ([]string, error)
	UpdateProfile(db *gorm.DB, userID string, fields map[string]interface{}) error
	SetOnboardingComplete(db *gorm.DB, userID string) error
	UpdateAvatar(db *gorm.DB, userID, avatarURL string) error
	TouchLastLogin(db *gorm.DB, userID string, at time.Time) error
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindFirstAdmin(db *gorm.DB) (*models.User, error) {
	var user models.User
	err := db.Where("role = ?", models.UserRoleAdmin).Order("created_at ASC").First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindNonAdminsByIDs(db *gorm.DB, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	var users []models.User
	err := db.Where("id IN ?", ids).
		Where("role <> ?", models.UserRoleAdmin).
		Find(&users).Error
	return users, err
}

func (r *UserRepositoryImpl) FindIDsByRole(db *gorm.DB, role models.UserRole) ([]string, error) {
	var ids []string
	err := db.Model(&models.User{}).Where("role = ?", role).Pluck("id", &ids).Error
	return ids, err
}

func (r *UserRepositoryImpl) UpdateProfile(db *gorm.DB, userID string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) SetOnboardingComplete(db *gorm.DB, userID string) error {
	return r.UpdateProfile(db, userID, map[string]interface{}{"onboarding_complete": true})
}

func (r *UserRepositoryImpl) UpdateAvatar(db *gorm.DB, userID, avatarURL string) error {
	return r.UpdateProfile(db, userID, map[string]interface{}{"avatar_url": avatarURL})
}

func (r *UserRepositoryImpl) TouchLastLogin(db *gorm.DB, userID string, at time.Time) error {
	return db.Model(&models.User{}).Where("id = ?", userID).Update("last_login_at", at).Error
}
