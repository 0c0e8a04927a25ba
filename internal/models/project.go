package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusCancelled = "cancelled"
)

type Project struct {
	gorm.Model

	OwnerID            uint      `gorm:"not null;index"`
	CoupleName         string    `gorm:"not null"`
	EventDate          time.Time `gorm:"not null"`
	EventType          string    `gorm:"not null"` // "Wedding", "Engagement", "Pre-wedding", "Reception"
	Location           string    `gorm:"not null"`
	ServiceType        string    `gorm:"not null"`
	Status             string    `gorm:"not null;default:active"`
	ProgressPercentage int       `gorm:"not null;default:0"`

	// Relationships
	Owner  User    `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Events []Event `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tasks  []Task  `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
