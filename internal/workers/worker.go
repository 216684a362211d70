package workers

import (
	"context"
	"time"

	"findtern_backend/internal/logger"
	"findtern_backend/internal/metrics"
)

// every запускает fn сразу и затем по тикеру, пока не отменен ctx
func every(ctx context.Context, name string, interval time.Duration, m *metrics.Metrics, fn func(ctx context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Worker started", "worker", name, "interval", interval.String())
	for {
		m.ObserveWorker(name, fn(ctx))

		select {
		case <-ctx.Done():
			logger.Info("Worker stopped", "worker", name)
			return
		case <-ticker.C:
		}
	}
}
