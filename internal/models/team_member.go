package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	MemberStatusPending = "pending"
	MemberStatusSent    = "sent"
	MemberStatusJoined  = "joined"
	MemberStatusFailed  = "failed"
	MemberStatusLeft    = "left"
)

// TeamMember is one invitation row per (owner, invitee email). The
// invitation token is the sole redemption credential and is rotated on
// every send, so stale links stop resolving.
type TeamMember struct {
	gorm.Model

	OwnerID        uint   `gorm:"not null;uniqueIndex:idx_owner_invitee_email"`
	Name           string `gorm:"not null"`
	Role           string `gorm:"not null"`
	Email          string `gorm:"not null;uniqueIndex:idx_owner_invitee_email"`
	PhoneNumber    string
	WhatsappNumber string
	Status         string `gorm:"not null;default:pending"`

	InvitationToken  string `gorm:"not null;uniqueIndex"`
	InvitationSentAt *time.Time

	Categories []string `gorm:"serializer:json"`

	// Relationships
	Owner User `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
