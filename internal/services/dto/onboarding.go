package dto

import "creatorhub_backend/internal/models"

// OnboardingStateResponse - состояние формы онбординга
type OnboardingStateResponse struct {
	Step             int             `json:"step"`
	Interests        []string        `json:"interests"`
	OtherInterest    string          `json:"other_interest"`
	Website          string          `json:"website"`
	YoutubeChannels  []string        `json:"youtube_channels"`
	YoutubeLinks     []string        `json:"youtube_links"`
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	VerificationCode string          `json:"verification_code"`
	VerifiedChannels map[string]bool `json:"verified_channels"`
}

// SaveOnboardingRequest - частичное обновление: nil поля не трогаются
type SaveOnboardingRequest struct {
	Interests       []string `json:"interests" validate:"omitempty,dive,is-interest"`
	OtherInterest   *string  `json:"other_interest" validate:"omitempty,max=500"`
	Website         *string  `json:"website" validate:"omitempty,max=500"`
	YoutubeChannels []string `json:"youtube_channels" validate:"omitempty,dive,max=500"`
	YoutubeLinks    []string `json:"youtube_links" validate:"omitempty,dive,max=500"`
	Name            *string  `json:"name" validate:"omitempty,max=255"`
	Email           *string  `json:"email" validate:"omitempty,max=255"`
}

// SubmitInterestsRequest - шаг 1. Обязательность полей проверяет сервис (карта ошибок).
type SubmitInterestsRequest struct {
	Interests       []string `json:"interests" validate:"dive,is-interest"`
	OtherInterest   string   `json:"other_interest" validate:"max=500"`
	Website         string   `json:"website" validate:"max=500"`
	YoutubeChannels []string `json:"youtube_channels" validate:"dive,max=500"`
	YoutubeLinks    []string `json:"youtube_links" validate:"dive,max=500"`
}

type SubmitInterestsResponse struct {
	// Submitted - заявка отправлена сразу (выбран только "other")
	Submitted     bool                `json:"submitted"`
	Step          int                 `json:"step"`
	VerifiedLinks []string            `json:"verified_links"`
	Application   *models.Application `json:"application,omitempty"`
}

type VerifyChannelRequest struct {
	URL string `json:"url" validate:"required,max=500"`
}

type VerifyChannelResponse struct {
	URL      string `json:"url"`
	Verified bool   `json:"verified"`
}

// FinalSubmitRequest - шаг 2. Пустые значения берутся из аккаунта.
type FinalSubmitRequest struct {
	Name  string `json:"name" validate:"max=255"`
	Email string `json:"email" validate:"omitempty,email"`
}

type VerificationCodeResponse struct {
	VerificationCode string `json:"verification_code"`
}
