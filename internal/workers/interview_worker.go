package workers

import (
	"context"
	"time"

	"findtern_backend/internal/logger"
	"findtern_backend/internal/metrics"
	"findtern_backend/internal/services"

	"gorm.io/gorm"
)

const interviewWorkerName = "interview_lifecycle"

// InterviewWorker переводит pending интервью с прошедшими слотами в expired,
// а scheduled после окончания встречи в completed
type InterviewWorker struct {
	db       *gorm.DB
	service  services.InterviewService
	metrics  *metrics.Metrics
	interval time.Duration
	now      func() time.Time
}

func NewInterviewWorker(db *gorm.DB, service services.InterviewService, m *metrics.Metrics, interval time.Duration) *InterviewWorker {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &InterviewWorker{db: db, service: service, metrics: m, interval: interval, now: time.Now}
}

func (w *InterviewWorker) Start(ctx context.Context) {
	go every(ctx, interviewWorkerName, w.interval, w.metrics, w.tick)
}

func (w *InterviewWorker) tick(ctx context.Context) error {
	expired, completed, err := w.service.RunLifecycle(w.db, w.now())
	logger.WorkerLog(interviewWorkerName, "expire_pending", expired, err)
	if err == nil {
		logger.WorkerLog(interviewWorkerName, "complete_scheduled", completed, nil)
	}
	return err
}
