package email

import (
	"sync"

	"findtern_backend/internal/logger"
)

// NoopProvider - email выключен: письма только логируются и запоминаются
type NoopProvider struct {
	mu   sync.Mutex
	Sent []Email
}

func NewNoopProvider() *NoopProvider {
	return &NoopProvider{}
}

func (p *NoopProvider) Send(email *Email) error {
	p.mu.Lock()
	p.Sent = append(p.Sent, *email)
	p.mu.Unlock()

	logger.Info("email skipped (provider disabled)", "to", email.To, "subject", email.Subject, "template", email.Template)
	return nil
}

func (p *NoopProvider) SendTemplate(to []string, subject string, templateName string, data TemplateData) error {
	return p.Send(&Email{To: to, Subject: subject, Template: templateName})
}

func (p *NoopProvider) Validate() error { return nil }

func (p *NoopProvider) Close() error { return nil }

// Count - сколько писем "отправлено"
func (p *NoopProvider) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Sent)
}
