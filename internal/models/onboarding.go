package models

import (
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// OnboardingDraft - серверное состояние двухшаговой формы онбординга
type OnboardingDraft struct {
	BaseModel
	UserID           string                              `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Step             int                                 `gorm:"not null;default:1" json:"step"`
	Interests        pq.StringArray                      `gorm:"type:text[]" json:"interests"`
	OtherInterest    string                              `json:"other_interest"`
	Website          string                              `json:"website"`
	YoutubeChannels  pq.StringArray                      `gorm:"type:text[]" json:"youtube_channels"`
	Name             string                              `json:"name"`
	Email            string                              `json:"email"`
	YoutubeLinks     pq.StringArray                      `gorm:"type:text[]" json:"youtube_links"`
	VerificationCode string                              `gorm:"not null" json:"verification_code"`
	VerifiedChannels datatypes.JSONType[map[string]bool] `gorm:"type:jsonb" json:"verified_channels"`
}

// IsVerified - отмечена ли ссылка как подтвержденная
func (d *OnboardingDraft) IsVerified(link string) bool {
	return d.VerifiedChannels.Data()[link]
}

// SetVerified обновляет флаг подтверждения ссылки
func (d *OnboardingDraft) SetVerified(link string, verified bool) {
	m := make(map[string]bool, len(d.VerifiedChannels.Data())+1)
	for k, v := range d.VerifiedChannels.Data() {
		m[k] = v
	}
	m[link] = verified
	d.VerifiedChannels = datatypes.NewJSONType(m)
}

// ResetVerification сбрасывает все флаги (например после смены кода)
func (d *OnboardingDraft) ResetVerification() {
	d.VerifiedChannels = datatypes.NewJSONType(map[string]bool{})
}
