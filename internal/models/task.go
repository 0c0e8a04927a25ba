package models

import (
	"time"

	"gorm.io/gorm"
)

type Task struct {
	gorm.Model

	ProjectID            uint   `gorm:"not null;index"`
	Title                string `gorm:"not null"`
	Category             string
	Priority             string
	DueDate              *time.Time
	AssignedTo           string
	EstimatedHours       int
	Description          string
	ExpectedDeliverables string
	Status               string `gorm:"not null;default:pending"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
