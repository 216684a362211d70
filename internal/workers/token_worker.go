package workers

import (
	"context"
	"time"

	"findtern_backend/internal/logger"
	"findtern_backend/internal/metrics"
	"findtern_backend/internal/services"

	"gorm.io/gorm"
)

const tokenWorkerName = "refresh_token_cleanup"

// TokenCleanupWorker удаляет истекшие и отозванные refresh-токены
type TokenCleanupWorker struct {
	db       *gorm.DB
	service  services.AuthService
	metrics  *metrics.Metrics
	interval time.Duration
}

func NewTokenCleanupWorker(db *gorm.DB, service services.AuthService, m *metrics.Metrics, interval time.Duration) *TokenCleanupWorker {
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	return &TokenCleanupWorker{db: db, service: service, metrics: m, interval: interval}
}

func (w *TokenCleanupWorker) Start(ctx context.Context) {
	go every(ctx, tokenWorkerName, w.interval, w.metrics, w.tick)
}

func (w *TokenCleanupWorker) tick(ctx context.Context) error {
	removed, err := w.service.CleanExpiredTokens(w.db)
	logger.WorkerLog(tokenWorkerName, "clean_expired", removed, err)
	return err
}
