package repositories

import (
	"errors"

	"creatorhub_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrDraftNotFound = errors.New("onboarding draft not found")

type OnboardingRepository interface {
	FindDraft(db *gorm.DB, userID string) (*models.OnboardingDraft, error)
	// SaveDraft - upsert по user_id
	SaveDraft(db *gorm.DB, draft *models.OnboardingDraft) error
}

type OnboardingRepositoryImpl struct{}

func NewOnboardingRepository() OnboardingRepository {
	return &OnboardingRepositoryImpl{}
}

func (r *OnboardingRepositoryImpl) FindDraft(db *gorm.DB, userID string) (*models.OnboardingDraft, error) {
	var draft models.OnboardingDraft
	if err := db.Where("user_id = ?", userID).First(&draft).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}
	return &draft, nil
}

func (r *OnboardingRepositoryImpl) SaveDraft(db *gorm.DB, draft *models.OnboardingDraft) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"step", "interests", "other_interest", "website", "youtube_channels",
			"name", "email", "youtube_links", "verification_code", "verified_channels", "updated_at",
		}),
	}).Create(draft).Error
}
