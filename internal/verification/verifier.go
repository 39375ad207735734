package verification

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotVerified - канал не подтвердил владение (код не найден)
	ErrNotVerified = errors.New("channel ownership not confirmed")
	// ErrUnavailable - внешний сервис проверки недоступен или автомат разомкнут
	ErrUnavailable = errors.New("verification service unavailable")
)

// Verifier проверяет, что пользователь владеет каналом по ссылке
type Verifier interface {
	Verify(ctx context.Context, channelURL, code string) error
}

// IsYouTubeURL - минимальная проверка ссылки, регистр не важен
func IsYouTubeURL(raw string) bool {
	return strings.Contains(strings.ToLower(raw), "youtube")
}

// StubVerifier имитирует проверку: ждёт задержку и подтверждает канал
type StubVerifier struct {
	delay time.Duration
}

func NewStubVerifier(delay time.Duration) *StubVerifier {
	return &StubVerifier{delay: delay}
}

func (v *StubVerifier) Verify(ctx context.Context, _, _ string) error {
	if v.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(v.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
