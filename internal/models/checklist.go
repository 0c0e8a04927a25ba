package models

import "gorm.io/gorm"

type EventChecklist struct {
	gorm.Model

	EventID      uint   `gorm:"not null;index"`
	ItemName     string `gorm:"not null"`
	Category     string `gorm:"not null"`
	AssignedRole string
	IsCompleted  bool `gorm:"not null;default:false"`
	Notes        string

	// Relationships
	Event Event `gorm:"foreignKey:EventID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
