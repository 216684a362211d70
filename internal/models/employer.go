package models

// Employer - компания. Логинится по CompanyEmail.
type Employer struct {
	BaseModel
	Name               string `gorm:"size:150;not null"`
	CompanyName        string `gorm:"size:200;not null"`
	CompanyEmail       string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash       string `gorm:"not null"`
	CountryCode        string `gorm:"size:8"`
	PhoneNumber        string `gorm:"size:32"`
	WebsiteURL         string `gorm:"size:255"`
	CompanySize        string `gorm:"size:50"`
	City               string `gorm:"size:100"`
	State              string `gorm:"size:100"`
	PrimaryContactName string `gorm:"size:150"`
	PrimaryContactRole string `gorm:"size:100"`

	// Биллинг
	BankName          string `gorm:"size:150"`
	AccountNumber     string `gorm:"size:34"`
	AccountHolderName string `gorm:"size:150"`
	IFSC              string `gorm:"column:ifsc;size:11"`
	GSTNumber         string `gorm:"column:gst_number;size:15"`

	OnboardingCompleted bool `gorm:"default:false"`
	SetupCompleted      bool `gorm:"default:false"`
}

// HasBilling - минимальный набор реквизитов для выплат
func (e *Employer) HasBilling() bool {
	return e.BankName != "" && e.AccountNumber != "" && e.IFSC != ""
}
