package models

type Project struct {
	BaseModel
	EmployerID         string       `gorm:"type:varchar(36);not null;index"`
	ProjectName        string       `gorm:"size:200;not null"`
	SkillRequirements  StringList   `gorm:"not null"`
	ScopeOfWork        ScopeOfWork  `gorm:"type:varchar(20);not null"`
	LocationType       LocationType `gorm:"type:varchar(20);not null"`
	PreferredLocations StringList
	City               string        `gorm:"size:100"`
	State              string        `gorm:"size:100"`
	Pincode            string        `gorm:"size:10"`
	Timezone           string        `gorm:"size:64;not null"`
	Status             ProjectStatus `gorm:"type:varchar(20);not null;default:'active'"`

	Employer *Employer `gorm:"foreignKey:EmployerID"`
}
