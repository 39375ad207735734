package notice

import (
	"context"

	"creatorhub_backend/internal/logger"
	"creatorhub_backend/ws"
)

// Уровни уведомлений
const (
	LevelError   = "error"
	LevelSuccess = "success"
	LevelInfo    = "info"
)

type Notice struct {
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
	Level   string `json:"level"`
}

// Notifier отправляет пользователю тосты через хаб, подавляя повторы
type Notifier struct {
	deduper   Deduper
	publisher ws.Publisher
}

func NewNotifier(deduper Deduper, publisher ws.Publisher) *Notifier {
	return &Notifier{deduper: deduper, publisher: publisher}
}

// Notify возвращает false, если такое же уведомление уже показывалось в текущем окне
func (n *Notifier) Notify(ctx context.Context, userID string, nt Notice) bool {
	if nt.Level == "" {
		nt.Level = LevelError
	}

	key := userID + ":" + Key(nt.ID, nt.Message)
	if !n.deduper.Allow(ctx, key) {
		logger.CtxDebug(ctx, "notice suppressed", "key", key)
		return false
	}

	n.publisher.Publish(ws.ChangeEvent{
		Table:   ws.TableNotices,
		Type:    ws.EventNotice,
		Columns: map[string]string{"user_id": userID},
		Record:  nt,
	}, userID)
	return true
}
