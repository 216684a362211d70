package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Типы доменных событий (routing key в exchange)
const (
	ProposalSent         = "proposal.sent"
	ProposalAccepted     = "proposal.accepted"
	ProposalRejected     = "proposal.rejected"
	InterviewCreated     = "interview.created"
	InterviewScheduled   = "interview.scheduled"
	InterviewCancelled   = "interview.cancelled"
	InterviewRescheduled = "interview.rescheduled"
)

type Event struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurredAt"`
	Payload    map[string]interface{} `json:"payload"`
}

// New - событие с новым id и текущим временем
func New(eventType string, payload map[string]interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher публикует доменные события
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher - брокер выключен; события только запоминаются
type NoopPublisher struct {
	mu     sync.Mutex
	events []Event
}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (p *NoopPublisher) Publish(ctx context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *NoopPublisher) Close() error { return nil }

// Events - копия опубликованных событий
func (p *NoopPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

// Types - только типы, по порядку
func (p *NoopPublisher) Types() []string {
	var types []string
	for _, e := range p.Events() {
		types = append(types, e.Type)
	}
	return types
}
