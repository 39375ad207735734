package workers

import (
	"context"
	"time"

	"creatorhub_backend/internal/logger"

	"gorm.io/gorm"
)

const cleanupWorkerName = "notification_cleanup"

// ReadNotificationCleaner удаляет прочитанные уведомления старше retention
type ReadNotificationCleaner interface {
	CleanupRead(db *gorm.DB, retention time.Duration) (int64, error)
}

type CleanupWorker struct {
	db        *gorm.DB
	cleaner   ReadNotificationCleaner
	interval  time.Duration
	retention time.Duration
}

func NewCleanupWorker(db *gorm.DB, cleaner ReadNotificationCleaner, interval, retention time.Duration) *CleanupWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &CleanupWorker{
		db:        db,
		cleaner:   cleaner,
		interval:  interval,
		retention: retention,
	}
}

// Start запускает фоновую очистку; останавливается по ctx
// Start запускает цикл; возвращенный канал закрывается после остановки
func (w *CleanupWorker) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.loop(ctx)
	}()
	return done
}

func (w *CleanupWorker) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cleanup worker stopped", "worker", cleanupWorkerName)
			return
		case <-ticker.C:
			w.RunOnce()
		}
	}
}

// RunOnce - один проход очистки
func (w *CleanupWorker) RunOnce() int64 {
	if w.retention <= 0 {
		return 0
	}

	start := time.Now()
	removed, err := w.cleaner.CleanupRead(w.db, w.retention)
	if err != nil {
		logger.WorkerLog(cleanupWorkerName, "cleanup_read", err)
		return 0
	}
	if removed > 0 {
		logger.WorkerLog(cleanupWorkerName, "cleanup_read", nil,
			"removed", removed,
			logger.DurationMs(time.Since(start)),
		)
	}
	return removed
}
