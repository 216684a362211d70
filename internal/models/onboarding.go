package models

import (
	"time"

	"gorm.io/datatypes"
)

// InternOnboarding - свободная анкета стажера, одна на пользователя
type InternOnboarding struct {
	BaseModel
	UserID             string `gorm:"type:varchar(36);not null;uniqueIndex"`
	Bio                string `gorm:"type:text"`
	City               string `gorm:"size:100;index"`
	State              string `gorm:"size:100;index"`
	Pincode            string `gorm:"size:10"`
	PreferredLocations StringList
	Skills             StringList
	Languages          datatypes.JSON
	Experience         datatypes.JSON
	LinkedinURL        string `gorm:"size:255"`
	GithubURL          string `gorm:"size:255"`
	PortfolioURL       string `gorm:"size:255"`
	AadhaarNumber      string `gorm:"size:12"`
	PanNumber          string `gorm:"size:10"`
	ExtraData          datatypes.JSON

	OnboardingCompleted bool `gorm:"default:false;index"`
}

// InternDocument - метаданные загруженного файла онбординга.
// Пока Staged=true, документ считается черновиком и может быть вытеснен воркером.
type InternDocument struct {
	BaseModel
	UserID       string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_intern_document_key"`
	Key          MediaKey  `gorm:"type:varchar(20);not null;uniqueIndex:idx_intern_document_key"`
	Name         string    `gorm:"size:255;not null"`
	ContentType  string    `gorm:"size:100;not null"`
	Size         int64     `gorm:"not null"`
	LastModified time.Time `gorm:"not null"`
	StoragePath  string    `gorm:"size:500;not null"`
	Staged       bool      `gorm:"default:true;index"`
	CommittedAt  *time.Time
}
