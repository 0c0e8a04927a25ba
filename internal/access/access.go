package access

import (
	"strings"

	"github.com/weddingflow/weddingflow/internal/middleware"
	"github.com/weddingflow/weddingflow/internal/models"
	"gorm.io/gorm"
)

// EffectiveOwners computes the set of owner IDs whose resources the given
// identity may read: the identity itself plus every owner holding a sent or
// joined team membership addressed to the identity's email. Membership in
// "sent" already grants visibility; acceptance is a formality. The set is
// recomputed from the store on every request and never cached.
func EffectiveOwners(tx *gorm.DB, user middleware.AuthenticatedUser) ([]uint, error) {
	owners := []uint{user.ID}
	seen := map[uint]bool{user.ID: true}

	var memberships []models.TeamMember

	err := tx.
		Where("LOWER(email) = ? AND status IN ?",
			strings.ToLower(strings.TrimSpace(user.Email)),
			[]string{models.MemberStatusSent, models.MemberStatusJoined}).
		Find(&memberships).Error

	if err != nil {
		return nil, err
	}

	for _, m := range memberships {
		if !seen[m.OwnerID] {
			seen[m.OwnerID] = true
			owners = append(owners, m.OwnerID)
		}
	}

	return owners, nil
}

// Projects scopes a project query to the given owner set. Every gateway
// applies its scope before any caller-supplied filter.
func Projects(tx *gorm.DB, owners []uint) *gorm.DB {
	return tx.Model(&models.Project{}).Where("projects.owner_id IN ?", owners)
}

// Events scopes an event query through the parent project chain.
func Events(tx *gorm.DB, owners []uint) *gorm.DB {
	return tx.Model(&models.Event{}).
		Joins("JOIN projects ON projects.id = events.project_id AND projects.deleted_at IS NULL").
		Where("projects.owner_id IN ?", owners)
}

// Tasks scopes a task query through the parent project chain and, for
// non-managerial roles, narrows it to tasks assigned to the identity by
// display name or role. An identity with neither a usable name nor role
// gets an empty result, never the full set.
func Tasks(tx *gorm.DB, user middleware.AuthenticatedUser, owners []uint) *gorm.DB {
	query := tx.Model(&models.Task{}).
		Joins("JOIN projects ON projects.id = tasks.project_id AND projects.deleted_at IS NULL").
		Where("projects.owner_id IN ?", owners)

	if models.ManagerialRoles[user.Role] {
		return query
	}

	name := strings.TrimSpace(user.Name)
	role := strings.TrimSpace(user.Role)

	switch {
	case name != "" && role != "":
		return query.Where("LOWER(tasks.assigned_to) = ? OR LOWER(tasks.assigned_to) = ?",
			strings.ToLower(name), strings.ToLower(role))
	case name != "":
		return query.Where("LOWER(tasks.assigned_to) = ?", strings.ToLower(name))
	case role != "":
		return query.Where("LOWER(tasks.assigned_to) = ?", strings.ToLower(role))
	default:
		return query.Where("1 = 0")
	}
}

// Checklists scopes a checklist query through event and project.
func Checklists(tx *gorm.DB, owners []uint) *gorm.DB {
	return tx.Model(&models.EventChecklist{}).
		Joins("JOIN events ON events.id = event_checklists.event_id AND events.deleted_at IS NULL").
		Joins("JOIN projects ON projects.id = events.project_id AND projects.deleted_at IS NULL").
		Where("projects.owner_id IN ?", owners)
}

// Submissions scopes a file submission query through event and project.
func Submissions(tx *gorm.DB, owners []uint) *gorm.DB {
	return tx.Model(&models.FileSubmission{}).
		Joins("JOIN events ON events.id = file_submissions.event_id AND events.deleted_at IS NULL").
		Joins("JOIN projects ON projects.id = events.project_id AND projects.deleted_at IS NULL").
		Where("projects.owner_id IN ?", owners)
}

// TeamMembers scopes a membership query to rows the identity owns plus
// rows addressed to its own email, so invitees can see their invitations.
func TeamMembers(tx *gorm.DB, user middleware.AuthenticatedUser) *gorm.DB {
	return tx.Model(&models.TeamMember{}).
		Where("owner_id = ? OR LOWER(email) = ?",
			user.ID, strings.ToLower(strings.TrimSpace(user.Email)))
}
