package validator

import (
	"log"

	"creatorhub_backend/internal/models"
	"creatorhub_backend/internal/verification"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует кастомные теги. Ошибка регистрации - ошибка запуска.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-application-status", validateApplicationStatus)
	mustRegister("is-channel-status", validateChannelStatus)
	mustRegister("is-interest", validateInterest)
	mustRegister("is-signature-method", validateSignatureMethod)
	mustRegister("is-payout-status", validatePayoutStatus)
	mustRegister("youtube-url", validateYouTubeURL)
}

// Пустые значения пропускаем: для них есть 'required'

func validateApplicationStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.ApplicationStatus(value).IsValid()
}

func validateChannelStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.ChannelRequestStatus(value).IsValid()
}

func validateInterest(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.Interest(value).IsValid()
}

func validateSignatureMethod(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.SignatureMethod(value).IsValid()
}

func validatePayoutStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.PayoutStatus(value).IsValid()
}

func validateYouTubeURL(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || verification.IsYouTubeURL(value)
}
