package services

import (
	"errors"
	"sync"

	"creatorhub_backend/internal/logger"
	"creatorhub_backend/internal/repositories"
	"creatorhub_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// SupportDirectory знает, какой администратор отвечает в чате поддержки
type SupportDirectory interface {
	AdminID(db *gorm.DB) (string, error)
}

type supportDirectory struct {
	configuredID string
	userRepo     repositories.UserRepository

	mu     sync.RWMutex
	cached string
}

// NewSupportDirectory: support.admin_id из конфига, иначе первый администратор
func NewSupportDirectory(configuredID string, userRepo repositories.UserRepository) SupportDirectory {
	return &supportDirectory{configuredID: configuredID, userRepo: userRepo}
}

func (d *supportDirectory) AdminID(db *gorm.DB) (string, error) {
	if d.configuredID != "" {
		return d.configuredID, nil
	}

	d.mu.RLock()
	cached := d.cached
	d.mu.RUnlock()
	if cached != "" {
		return cached, nil
	}

	admin, err := d.userRepo.FindFirstAdmin(db)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			logger.Error("support admin is not configured and no admin user exists")
			return "", apperrors.ErrSupportUnavailable
		}
		return "", apperrors.InternalError(err)
	}

	d.mu.Lock()
	d.cached = admin.ID
	d.mu.Unlock()
	return admin.ID, nil
}
