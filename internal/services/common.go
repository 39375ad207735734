package services

import (
	"context"
	"errors"
	"strings"

	"creatorhub_backend/internal/logger"
	"creatorhub_backend/internal/models"
	"creatorhub_backend/internal/notice"
	"creatorhub_backend/internal/repositories"
	"creatorhub_backend/internal/services/dto"
	"creatorhub_backend/pkg/apperrors"
)

// NoticeSender - дедуплицированные тосты пользователю (notice.Notifier)
type NoticeSender interface {
	Notify(ctx context.Context, userID string, n notice.Notice) bool
}

// UploadLimits - ограничения на загружаемые картинки
type UploadLimits struct {
	MaxSize      int64
	AllowedTypes []string
}

func (l UploadLimits) check(size int64, contentType string) error {
	if l.MaxSize > 0 && size > l.MaxSize {
		return apperrors.ErrFileTooLarge
	}
	contentType = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	if !strings.HasPrefix(contentType, "image/") {
		return apperrors.ErrInvalidFileType
	}
	if len(l.AllowedTypes) == 0 {
		return nil
	}
	for _, allowed := range l.AllowedTypes {
		if strings.EqualFold(allowed, contentType) {
			return nil
		}
	}
	return apperrors.ErrInvalidFileType
}

func toUserResponse(u *models.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:                 u.ID,
		Email:              u.Email,
		Role:               string(u.Role),
		FullName:           u.FullName,
		Username:           u.Username,
		AvatarURL:          u.AvatarURL,
		OnboardingComplete: u.OnboardingComplete,
		LastLoginAt:        u.LastLoginAt,
		CreatedAt:          u.CreatedAt,
	}
}

func toPayoutSummary(s *repositories.PayoutSummary) dto.PayoutSummaryResponse {
	if s == nil {
		return dto.PayoutSummaryResponse{}
	}
	return dto.PayoutSummaryResponse{
		PendingTotal:   s.PendingTotal,
		CompletedTotal: s.CompletedTotal,
		PendingCount:   s.PendingCount,
		CompletedCount: s.CompletedCount,
	}
}

func mapUserError(err error) error {
	if errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.ErrUserNotFound
	}
	return apperrors.InternalError(err)
}

func pagination(page, pageSize int) repositories.Pagination {
	return repositories.Pagination{Page: page, PageSize: pageSize}.Normalize()
}

// nonBlank - непустые после trim значения, в исходном порядке
func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func firstOrEmpty(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

func strPtr(s string) *string {
	return &s
}

// runAsync - побочные эффекты после коммита: ошибки только логируются
func runAsync(ctx context.Context, name string, fn func(ctx context.Context) error) {
	detached := context.WithoutCancel(ctx)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.CtxError(detached, "async task panicked", "task", name, "panic", r)
			}
		}()
		if err := fn(detached); err != nil {
			logger.CtxWithError(detached, "async task failed", err, "task", name)
		}
	}()
}
