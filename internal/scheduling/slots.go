// Package scheduling содержит арифметику слотов интервью:
// окно [ceil(now, 30m), now+3 дня], привязку к 30-минутной сетке и проверку трех слотов.
// Пакет не делает I/O, "now" всегда передается снаружи.
package scheduling

import (
	"strings"
	"time"
)

const (
	SlotStepMinutes = 30
	SlotStep        = SlotStepMinutes * time.Minute
	WindowDays      = 3
	SlotCount       = 3

	DateLayout  = "2006-01-02"
	LocalLayout = "2006-01-02T15:04"
)

var parseLayouts = []string{
	"2006-01-02T15:04:05",
	LocalLayout,
	"2006-01-02 15:04",
}

// CeilToMinutes округляет t вверх до ближайшей границы шага в часовом поясе t.
// Значение на границе не меняется, секунды и наносекунды всегда обнуляются.
func CeilToMinutes(t time.Time, minutes int) time.Time {
	if minutes <= 0 {
		return t
	}
	step := time.Duration(minutes) * time.Minute

	if 60%minutes != 0 {
		// шаг не делит час - выравниваем по абсолютному времени
		floor := t.Truncate(step)
		if floor.Equal(t) {
			return floor
		}
		return floor.Add(step)
	}

	hour := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	elapsed := t.Sub(hour)
	n := elapsed / step
	if elapsed%step != 0 {
		n++
	}
	return hour.Add(n * step)
}

// Window - допустимый интервал для слотов, границы включительно
type Window struct {
	Floor   time.Time
	Ceiling time.Time
}

func NewWindow(now time.Time) Window {
	return Window{
		Floor:   CeilToMinutes(now, SlotStepMinutes),
		Ceiling: now.AddDate(0, 0, WindowDays),
	}
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Floor) && !t.After(w.Ceiling)
}

// Clamp поднимает значения ниже окна до Floor и опускает выше окна до Ceiling
func (w Window) Clamp(t time.Time) time.Time {
	if t.Before(w.Floor) {
		return w.Floor
	}
	if t.After(w.Ceiling) {
		return w.Ceiling
	}
	return t
}

// Snap приводит произвольное время к сетке 30 минут и зажимает в окно
func (w Window) Snap(t time.Time) time.Time {
	return w.Clamp(CeilToMinutes(t, SlotStepMinutes))
}

// In переводит границы окна в нужный часовой пояс
func (w Window) In(loc *time.Location) Window {
	return Window{Floor: w.Floor.In(loc), Ceiling: w.Ceiling.In(loc)}
}

// Dates - календарные дни окна (по часовому поясу Floor)
func (w Window) Dates() []time.Time {
	loc := w.Floor.Location()
	ceiling := w.Ceiling.In(loc)

	y, m, d := w.Floor.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, loc)
	cy, cm, cd := ceiling.Date()
	last := time.Date(cy, cm, cd, 0, 0, 0, 0, loc)

	var out []time.Time
	for !day.After(last) {
		out = append(out, day)
		day = day.AddDate(0, 0, 1)
	}
	return out
}

// BuildDefaultSlots - Floor, Floor+30m, Floor+60m
func BuildDefaultSlots(now time.Time) [SlotCount]time.Time {
	floor := NewWindow(now).Floor
	return [SlotCount]time.Time{
		floor,
		floor.Add(SlotStep),
		floor.Add(2 * SlotStep),
	}
}

// ValidateSlots проверяет сырые значения полей: ровно три, все заполнены,
// как множество строк - три различных значения.
func ValidateSlots(values []string) error {
	if len(values) != SlotCount {
		return ErrSlotCount
	}

	var errs SlotErrors
	for i, v := range values {
		if strings.TrimSpace(v) == "" {
			errs = append(errs, &SlotError{Index: i, Err: ErrSlotRequired})
		}
	}
	if len(errs) > 0 {
		return errs
	}

	seen := make(map[string]int, SlotCount)
	for i, v := range values {
		key := strings.TrimSpace(v)
		if _, dup := seen[key]; dup {
			errs = append(errs, &SlotError{Index: i, Err: ErrSlotsNotDistinct})
			continue
		}
		seen[key] = i
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ParseSlot разбирает RFC3339 или "datetime-local" значение.
// Значения без смещения трактуются в loc.
func ParseSlot(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range parseLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidSlot
}

// ParseSlots - полная серверная проверка трех слотов:
// ValidateSlots, разбор, попадание в окно, привязка к сетке через Snap
// и попарное различие уже привязанных значений.
func ParseSlots(values []string, loc *time.Location, w Window) ([SlotCount]time.Time, error) {
	var out [SlotCount]time.Time
	if err := ValidateSlots(values); err != nil {
		return out, err
	}

	var errs SlotErrors
	for i, v := range values {
		t, err := ParseSlot(v, loc)
		if err != nil {
			errs = append(errs, &SlotError{Index: i, Err: err})
			continue
		}
		if !w.Contains(t) {
			errs = append(errs, &SlotError{Index: i, Err: ErrSlotOutOfWindow})
			continue
		}
		out[i] = w.Snap(t)
	}
	if len(errs) > 0 {
		return out, errs
	}

	// "10:30" и "10:30:00" - разные строки, но одно время; "10:12" и "10:25" после Snap тоже совпадают
	for i := 1; i < SlotCount; i++ {
		for j := 0; j < i; j++ {
			if out[i].Equal(out[j]) {
				errs = append(errs, &SlotError{Index: i, Err: ErrSlotsNotDistinct})
				break
			}
		}
	}
	if len(errs) > 0 {
		return out, errs
	}
	return out, nil
}

// LoadLocation - IANA-пояс или fallback, если имя пустое
func LoadLocation(name, fallback string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		name = fallback
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, ErrInvalidTimezone
	}
	return loc, nil
}

// FormatLocal - формат поля datetime-local
func FormatLocal(t time.Time) string {
	return t.Format(LocalLayout)
}
