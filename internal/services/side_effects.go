package services

import (
	"context"

	"findtern_backend/internal/email"
	"findtern_backend/internal/events"
	"findtern_backend/internal/logger"
	"findtern_backend/internal/metrics"
)

// sideEffects - письма, события и метрики. Все best-effort:
// ошибка логируется и никогда не валит основную операцию.
type sideEffects struct {
	mailer    email.Provider
	publisher events.Publisher
	metrics   *metrics.Metrics
}

func (s sideEffects) mail(ctx context.Context, to, subject, templateName string, data email.TemplateData) {
	if s.mailer == nil || to == "" {
		return
	}
	if err := s.mailer.SendTemplate([]string{to}, subject, templateName, data); err != nil {
		logger.CtxWithError(ctx, "Failed to send email", err, "template", templateName, "to", to)
	}
}

func (s sideEffects) publish(ctx context.Context, eventType string, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.New(eventType, payload)); err != nil {
		logger.CtxWithError(ctx, "Failed to publish event", err, "event", eventType)
	}
}
