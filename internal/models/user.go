package models

import "time"

// User - стажер или администратор
type User struct {
	BaseModel
	FirstName    string   `gorm:"size:100;not null"`
	LastName     string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:255;uniqueIndex;not null"`
	CountryCode  string   `gorm:"size:8"`
	PhoneNumber  string   `gorm:"size:32"`
	PasswordHash string   `gorm:"not null"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'intern'"`

	Onboarding *InternOnboarding `gorm:"foreignKey:UserID"`
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// RefreshToken хранит только sha256 от токена.
// SubjectID указывает на users.id или employers.id в зависимости от роли.
type RefreshToken struct {
	BaseModel
	SubjectID   string    `gorm:"type:varchar(36);not null;index"`
	SubjectRole UserRole  `gorm:"type:varchar(20);not null"`
	TokenHash   string    `gorm:"size:64;not null;uniqueIndex"`
	ExpiresAt   time.Time `gorm:"not null;index"`
}
