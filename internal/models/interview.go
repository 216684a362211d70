package models

import "time"

type Interview struct {
	BaseModel
	EmployerID string  `gorm:"type:varchar(36);not null;index"`
	InternID   string  `gorm:"type:varchar(36);not null;index"`
	ProjectID  *string `gorm:"type:varchar(36);index"`

	Slot1 time.Time `gorm:"not null"`
	Slot2 time.Time `gorm:"not null"`
	Slot3 time.Time `gorm:"not null"`
	// SelectedSlot - номер слота 1..3, а не время: выбранное время всегда совпадает с одним из слотов
	SelectedSlot *int

	Timezone        string          `gorm:"size:64;not null"`
	Status          InterviewStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	MeetingLink     *string         `gorm:"size:500"`
	CalendarEventID *string         `gorm:"size:255"`

	Employer *Employer `gorm:"foreignKey:EmployerID"`
	Intern   *User     `gorm:"foreignKey:InternID"`
	Project  *Project  `gorm:"foreignKey:ProjectID"`
}

// Slots возвращает три предложенных слота по порядку
func (i *Interview) Slots() [3]time.Time {
	return [3]time.Time{i.Slot1, i.Slot2, i.Slot3}
}

// SetSlots записывает три слота
func (i *Interview) SetSlots(slots [3]time.Time) {
	i.Slot1, i.Slot2, i.Slot3 = slots[0], slots[1], slots[2]
}

// SelectedTime - время выбранного слота, если выбор сделан
func (i *Interview) SelectedTime() *time.Time {
	if i.SelectedSlot == nil || *i.SelectedSlot < 1 || *i.SelectedSlot > 3 {
		return nil
	}
	t := i.Slots()[*i.SelectedSlot-1]
	return &t
}
