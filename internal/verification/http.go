package verification

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"creatorhub_backend/internal/logger"

	"github.com/sony/gobreaker"
)

const maxPageSize = 4 << 20

// channelHosts - хосты, страницы которых сервер готов загружать
var channelHosts = map[string]struct{}{
	"youtube.com":     {},
	"www.youtube.com": {},
	"m.youtube.com":   {},
	"youtu.be":        {},
}

// IsChannelPageURL: только https и только хосты YouTube, без порта и учетных данных
func IsChannelPageURL(u *url.URL) bool {
	if u == nil || u.Scheme != "https" || u.User != nil || u.Port() != "" {
		return false
	}
	_, ok := channelHosts[strings.ToLower(u.Hostname())]
	return ok
}

type HTTPConfig struct {
	Timeout         time.Duration
	BreakerFailures uint32
	BreakerOpen     time.Duration
}

// HTTPVerifier загружает страницу канала и ищет на ней код подтверждения.
// Запросы идут через circuit breaker.
type HTTPVerifier struct {
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker
	allowURL func(*url.URL) bool
}

func NewHTTPVerifier(cfg HTTPConfig) *HTTPVerifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 3
	}
	if cfg.BreakerOpen <= 0 {
		cfg.BreakerOpen = 30 * time.Second
	}

	failures := cfg.BreakerFailures
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "channel-verification",
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpen,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			// отсутствие кода на странице - это ответ сервиса, а не его сбой
			return err == nil || err == ErrNotVerified
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	v := &HTTPVerifier{
		breaker:  breaker,
		allowURL: IsChannelPageURL,
	}
	v.client = &http.Client{
		Timeout: cfg.Timeout,
		// редирект на чужой хост проверяется так же, как исходная ссылка
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 || !v.allowURL(req.URL) {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
	return v
}

func (v *HTTPVerifier) Verify(ctx context.Context, channelURL, code string) error {
	u, err := url.Parse(strings.TrimSpace(channelURL))
	if err != nil || !v.allowURL(u) {
		logger.CtxWarn(ctx, "channel url rejected before fetch", "url", channelURL)
		return ErrNotVerified
	}

	_, err = v.breaker.Execute(func() (interface{}, error) {
		return nil, v.fetchAndMatch(ctx, u.String(), code)
	})

	switch {
	case err == nil:
		return nil
	case err == ErrNotVerified:
		return ErrNotVerified
	case err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		logger.CtxWarn(ctx, "channel verification request failed", "url", channelURL, "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}

func (v *HTTPVerifier) fetchAndMatch(ctx context.Context, channelURL, code string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, channelURL, nil)
	if err != nil {
		return ErrNotVerified
	}
	req.Header.Set("User-Agent", "creatorhub-verifier/1.0")

	resp, err := v.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotVerified
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return err
	}
	if !bytes.Contains(body, []byte(code)) {
		return ErrNotVerified
	}
	return nil
}

// State - текущее состояние автомата (для логов и тестов)
func (v *HTTPVerifier) State() gobreaker.State {
	return v.breaker.State()
}
