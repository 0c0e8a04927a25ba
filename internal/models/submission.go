package models

import (
	"time"

	"gorm.io/gorm"
)

type FileSubmission struct {
	gorm.Model

	EventID        uint   `gorm:"not null;index"`
	TeamMemberName string `gorm:"not null"`
	TeamMemberRole string `gorm:"not null"`
	FileName       string `gorm:"not null"`
	FileURL        string `gorm:"not null"`
	FileType       string `gorm:"not null"`
	SubmissionType string `gorm:"not null"`
	ReviewStatus   string `gorm:"not null;default:pending"`
	ReviewedAt     *time.Time
	ReviewerNotes  string

	// Relationships
	Event Event `gorm:"foreignKey:EventID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
