package models

import (
	"time"

	"gorm.io/gorm"
)

type Event struct {
	gorm.Model

	ProjectID      uint      `gorm:"not null;index"`
	EventName      string    `gorm:"not null"`
	EventDate      time.Time `gorm:"not null"`
	TimeFrom       string
	TimeTo         string
	Location       string
	GoogleMapLink  string
	Photographer   string
	Cinematographer string
	DroneOperator  string
	SiteManager    string
	Assistant      string
	Details        string
	Instructions   string
	SampleImageURL string

	// Relationships
	Project     Project          `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Checklists  []EventChecklist `gorm:"foreignKey:EventID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Submissions []FileSubmission `gorm:"foreignKey:EventID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
