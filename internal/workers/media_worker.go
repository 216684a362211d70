package workers

import (
	"context"
	"time"

	"findtern_backend/internal/logger"
	"findtern_backend/internal/metrics"
	"findtern_backend/internal/services"

	"gorm.io/gorm"
)

const (
	mediaWorkerName = "media_eviction"
	evictBatch      = 100
)

// MediaEvictionWorker удаляет staged файлы, которые так и не закоммитили за ttl
type MediaEvictionWorker struct {
	db       *gorm.DB
	service  services.MediaService
	metrics  *metrics.Metrics
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
}

func NewMediaEvictionWorker(db *gorm.DB, service services.MediaService, m *metrics.Metrics, ttl, interval time.Duration) *MediaEvictionWorker {
	if ttl <= 0 {
		ttl = 168 * time.Hour
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &MediaEvictionWorker{db: db, service: service, metrics: m, ttl: ttl, interval: interval, now: time.Now}
}

func (w *MediaEvictionWorker) Start(ctx context.Context) {
	go every(ctx, mediaWorkerName, w.interval, w.metrics, w.tick)
}

// tick чистит пачками, пока пачка заполняется целиком
func (w *MediaEvictionWorker) tick(ctx context.Context) error {
	before := w.now().Add(-w.ttl)

	var total int64
	for {
		evicted, err := w.service.EvictStaged(ctx, w.db, before, evictBatch)
		total += evicted
		if w.metrics != nil {
			w.metrics.MediaEvicted.Add(float64(evicted))
		}
		if err != nil {
			logger.WorkerLog(mediaWorkerName, "evict_staged", total, err)
			return err
		}
		if evicted < evictBatch || ctx.Err() != nil {
			break
		}
	}

	logger.WorkerLog(mediaWorkerName, "evict_staged", total, nil)
	return nil
}
