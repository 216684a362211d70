package scheduling

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSlotCount        = errors.New("exactly 3 slots are required")
	ErrSlotRequired     = errors.New("slot is required")
	ErrSlotsNotDistinct = errors.New("slots must be distinct")
	ErrInvalidSlot      = errors.New("invalid date/time format")
	ErrSlotOutOfWindow  = errors.New("slot is outside the scheduling window")
	ErrInvalidTimezone  = errors.New("unknown timezone")
)

// SlotError привязывает ошибку к полю slotN (нумерация с 1)
type SlotError struct {
	Index int
	Err   error
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field(), e.Err)
}

func (e *SlotError) Unwrap() error {
	return e.Err
}

// Field - имя поля в запросе (slot1, slot2, slot3)
func (e *SlotError) Field() string {
	return fmt.Sprintf("slot%d", e.Index+1)
}

// SlotErrors - все ошибки по полям сразу, чтобы клиент подсветил каждое поле
type SlotErrors []*SlotError

func (es SlotErrors) Error() string {
	parts := make([]string, 0, len(es))
	for _, e := range es {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

func (es SlotErrors) Unwrap() []error {
	out := make([]error, 0, len(es))
	for _, e := range es {
		out = append(out, e)
	}
	return out
}

// Fields возвращает карту поле -> сообщение (формат ValidationError)
func (es SlotErrors) Fields() map[string]string {
	m := make(map[string]string, len(es))
	for _, e := range es {
		if _, exists := m[e.Field()]; !exists {
			m[e.Field()] = e.Err.Error()
		}
	}
	return m
}
