package models

import "time"

// CalendarToken - OAuth-токен календаря работодателя
type CalendarToken struct {
	BaseModel
	EmployerID   string `gorm:"type:varchar(36);not null;uniqueIndex"`
	Provider     string `gorm:"size:20;not null;default:'google'"`
	AccessToken  string `gorm:"type:text;not null"`
	RefreshToken string `gorm:"type:text"`
	TokenType    string `gorm:"size:20"`
	Expiry       time.Time
}
