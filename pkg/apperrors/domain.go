package apperrors

import (
	"net/http"
)

// Фабрики

// ErrNotFound - обертка для "не найдено" (404)
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - невалидная операция (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus - невалидный статус (400)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// Предопределенные ошибки

// --- Auth ---

var ErrEmailAlreadyExists = New(CodeAlreadyExists, "auth", "Email already in use", http.StatusConflict)

var ErrInvalidCredentials = New(CodeInvalidCredentials, "auth", "Invalid email or password", http.StatusUnauthorized)

var ErrInvalidToken = New(CodeInvalidToken, "auth", "Invalid or expired token", http.StatusUnauthorized)

var ErrUserNotFound = New(CodeNotFound, "user", "User not found", http.StatusNotFound)

var ErrInsufficientPermissions = New(CodeForbidden, "auth", "Insufficient permissions", http.StatusForbidden)

// ErrUserBanned - аккаунт забанен
var ErrUserBanned = New(CodeUserBanned, "auth", "Your account has been banned", http.StatusForbidden)

// --- Onboarding ---

var ErrOnboardingCompleted = New(CodeConflict, "onboarding", "Onboarding is already complete", http.StatusConflict)

var ErrInvalidChannelURL = New(CodeValidationFailed, "onboarding", "Please enter a valid YouTube URL", http.StatusBadRequest)

// ErrChannelTaken - канал уже привязан к одобренной заявке другого пользователя
var ErrChannelTaken = New(CodeConflict, "onboarding", "This YouTube channel is already registered with another account", http.StatusConflict)

var ErrChannelNotVerified = New(CodeValidationFailed, "onboarding", "Channel ownership could not be verified", http.StatusUnprocessableEntity)

var ErrVerificationUnavailable = New(CodeExternalServiceError, "onboarding", "Channel verification is temporarily unavailable", http.StatusServiceUnavailable)

// --- Applications ---

var ErrApplicationNotFound = New(CodeNotFound, "application", "Application not found", http.StatusNotFound)

var ErrApplicationExists = New(CodeAlreadyExists, "application", "You have already submitted an application", http.StatusConflict)

var ErrRejectionReasonRequired = New(CodeValidationFailed, "application", "Please provide a reason for rejection", http.StatusBadRequest)

// --- Messages ---

var ErrEmptyMessage = New(CodeValidationFailed, "messages", "Message must contain text or an image", http.StatusBadRequest)

var ErrInvalidRecipient = New(CodeValidationFailed, "messages", "Invalid message recipient", http.StatusBadRequest)

var ErrSupportUnavailable = New(CodeInternalError, "messages", "Support account is not configured", http.StatusServiceUnavailable)

// --- Notifications ---

var ErrNotificationNotFound = New(CodeNotFound, "notification", "Notification not found", http.StatusNotFound)

// --- Bans ---

var ErrAlreadyBanned = New(CodeConflict, "ban", "User is already banned", http.StatusConflict)

var ErrNotBanned = New(CodeNotFound, "ban", "User is not banned", http.StatusNotFound)

var ErrCannotBanAdmin = New(CodeForbidden, "ban", "Administrators cannot be banned", http.StatusForbidden)

// --- Balance ---

var ErrContractNotFound = New(CodeNotFound, "contract", "Contract not found", http.StatusNotFound)

var ErrPayoutNotFound = New(CodeNotFound, "payout", "Payout not found", http.StatusNotFound)

var ErrPayoutAlreadyCompleted = New(CodeInvalidStatus, "payout", "Payout is already completed", http.StatusConflict)

// --- Channels ---

var ErrChannelRequestNotFound = New(CodeNotFound, "channel", "Channel request not found", http.StatusNotFound)

// --- Uploads ---

var ErrFileTooLarge = New(CodeLimitExceeded, "validation", "File size exceeds the allowed limit", http.StatusRequestEntityTooLarge)

var ErrInvalidFileType = New(CodeValidationFailed, "validation", "The provided file type is not allowed", http.StatusUnsupportedMediaType)
