package repositories

import (
	"encoding/json"
	"errors"
	"time"

	"creatorhub_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrApplicationExists   = errors.New("application already exists for user")
)

// StatusUpdate - параметры атомарной смены статуса заявки
type StatusUpdate struct {
	AdminID       string
	ApplicationID string
	NewStatus     models.ApplicationStatus
	Reason        string
	// Notification создается в той же транзакции (user_id заполняется из заявки)
	Notification *models.Notification
}

type ApplicationRepository interface {
	// CreateAndCompleteOnboarding: вставка заявки + onboarding_complete + удаление черновика, одной транзакцией
	CreateAndCompleteOnboarding(db *gorm.DB, app *models.Application) error
	FindByID(db *gorm.DB, id string) (*models.Application, error)
	FindByUserID(db *gorm.DB, userID string) (*models.Application, error)
	ListByStatus(db *gorm.DB, status models.ApplicationStatus, page Pagination) ([]models.Application, int64, error)
	// ExistsApprovedWithLink - есть ли одобренная заявка другого пользователя с этой ссылкой
	ExistsApprovedWithLink(db *gorm.DB, link, excludeUserID string) (bool, error)
	UpdateStatusWithAdmin(db *gorm.DB, upd StatusUpdate) (*models.Application, error)
	CountByStatus(db *gorm.DB) (map[models.ApplicationStatus]int64, error)
}

type ApplicationRepositoryImpl struct{}

func NewApplicationRepository() ApplicationRepository {
	return &ApplicationRepositoryImpl{}
}

func (r *ApplicationRepositoryImpl) CreateAndCompleteOnboarding(db *gorm.DB, app *models.Application) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(app).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrApplicationExists
			}
			return err
		}

		result := tx.Model(&models.User{}).Where("id = ?", app.UserID).Update("onboarding_complete", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}

		return tx.Where("user_id = ?", app.UserID).Delete(&models.OnboardingDraft{}).Error
	})
}

func (r *ApplicationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Application, error) {
	var app models.Application
	if err := db.Preload("User").First(&app, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) FindByUserID(db *gorm.DB, userID string) (*models.Application, error) {
	var app models.Application
	if err := db.Where("user_id = ?", userID).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) ListByStatus(db *gorm.DB, status models.ApplicationStatus, page Pagination) ([]models.Application, int64, error) {
	var apps []models.Application
	query := db.Model(&models.Application{}).Where("status = ?", status)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("User").
		Order("created_at DESC").
		Limit(page.Limit()).Offset(page.Offset()).
		Find(&apps).Error
	return apps, total, err
}

func (r *ApplicationRepositoryImpl) ExistsApprovedWithLink(db *gorm.DB, link, excludeUserID string) (bool, error) {
	var count int64
	err := db.Model(&models.Application{}).
		Where("status = ?", models.ApplicationStatusApproved).
		Where("youtube_links @> ARRAY[?]::text[]", link).
		Where("user_id <> ?", excludeUserID).
		Count(&count).Error
	return count > 0, err
}

func (r *ApplicationRepositoryImpl) UpdateStatusWithAdmin(db *gorm.DB, upd StatusUpdate) (*models.Application, error) {
	var app models.Application

	err := db.Transaction(func(tx *gorm.DB) error {
		// Блокируем строку, чтобы параллельные ревью не перетирали друг друга
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&app, "id = ?", upd.ApplicationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApplicationNotFound
			}
			return err
		}

		fromStatus := app.Status
		now := time.Now()
		reason := upd.Reason

		app.Status = upd.NewStatus
		app.RejectionReason = nil
		if upd.NewStatus == models.ApplicationStatusRejected {
			app.RejectionReason = &reason
		}
		app.ReviewedBy = &upd.AdminID
		app.ReviewedAt = &now

		if err := tx.Model(&app).Select("status", "rejection_reason", "reviewed_by", "reviewed_at", "updated_at").
			Updates(&app).Error; err != nil {
			return err
		}

		change := &models.ApplicationStatusChange{
			ApplicationID: app.ID,
			AdminID:       upd.AdminID,
			FromStatus:    fromStatus,
			ToStatus:      upd.NewStatus,
			Reason:        reason,
		}
		if err := tx.Create(change).Error; err != nil {
			return err
		}

		if upd.Notification != nil {
			upd.Notification.UserID = app.UserID
			if upd.Notification.Data == nil {
				data, _ := json.Marshal(map[string]string{"application_id": app.ID, "status": string(upd.NewStatus)})
				upd.Notification.Data = datatypes.JSON(data)
			}
			if err := tx.Create(upd.Notification).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) CountByStatus(db *gorm.DB) (map[models.ApplicationStatus]int64, error) {
	var rows []struct {
		Status models.ApplicationStatus
		Count  int64
	}
	err := db.Model(&models.Application{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.ApplicationStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
