package models

import "gorm.io/gorm"

const (
	RolePhotographer   = "photographer"
	RoleVideographer   = "videographer"
	RoleEditor         = "editor"
	RoleStudioOwner    = "studio_owner"
	RoleProjectManager = "project_manager"
	RoleAdmin          = "admin"
)

// ManagerialRoles see every task in their scope; everyone else only sees
// tasks assigned to them by name or role.
var ManagerialRoles = map[string]bool{
	RoleStudioOwner:    true,
	RoleProjectManager: true,
	RoleAdmin:          true,
}

type User struct {
	gorm.Model

	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;default:photographer"`
	CompanyName  string
	PhoneNumber  string
	Location     string

	// Relationships
	OwnedProjects []Project      `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	TeamMembers   []TeamMember   `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Preferences   UserPreference `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
