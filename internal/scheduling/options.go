package scheduling

import (
	"fmt"
	"time"
)

// OptionsPerDay - 00:00 … 23:30
const OptionsPerDay = 24 * 60 / SlotStepMinutes

type TimeOption struct {
	Label    string    `json:"label"`
	Value    string    `json:"value"`
	Time     time.Time `json:"-"`
	Disabled bool      `json:"disabled"`
}

// TimeOptions перечисляет 48 получасовых отметок для date.
// exclude - индекс редактируемого слота в selected (его значение не блокирует само себя), -1 если нет.
func TimeOptions(date time.Time, w Window, selected []time.Time, exclude int) []TimeOption {
	y, m, d := date.Date()
	loc := date.Location()

	opts := make([]TimeOption, 0, OptionsPerDay)
	for i := 0; i < OptionsPerDay; i++ {
		minutes := i * SlotStepMinutes
		h, min := minutes/60, minutes%60
		t := time.Date(y, m, d, h, min, 0, 0, loc)
		opts = append(opts, TimeOption{
			Label:    fmt.Sprintf("%02d:%02d", h, min),
			Value:    FormatLocal(t),
			Time:     t,
			Disabled: IsOptionDisabled(t, w, selected, exclude),
		})
	}
	return opts
}

// IsOptionDisabled - вне окна или совпадает с другим уже выбранным слотом
func IsOptionDisabled(t time.Time, w Window, selected []time.Time, exclude int) bool {
	if !w.Contains(t) {
		return true
	}
	for i, s := range selected {
		if i == exclude || s.IsZero() {
			continue
		}
		if s.Equal(t) {
			return true
		}
	}
	return false
}
