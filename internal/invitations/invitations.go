package invitations

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/weddingflow/weddingflow/internal/models"
	"github.com/weddingflow/weddingflow/internal/services"
	"github.com/weddingflow/weddingflow/internal/types"
	"gorm.io/gorm"
)

var (
	ErrDuplicateMember = errors.New("a team member with this email already exists")
	ErrInvalidToken    = errors.New("invalid invitation token")
	ErrNotFound        = errors.New("team member not found")
	ErrConflict        = errors.New("invitation was modified concurrently")
	ErrAlreadyJoined   = errors.New("member has already joined the team")
	ErrLeft            = errors.New("member has left the team")
)

// Inviter identifies the studio owner issuing an invitation.
type Inviter struct {
	ID          uint
	Name        string
	CompanyName string
}

type IssueRequest struct {
	Name           string
	Role           string
	Email          string
	PhoneNumber    string
	WhatsappNumber string
	Categories     []string
}

// Issue creates a membership row in pending, transitions it to sent with a
// fresh token and dispatches the invitation email. Strict-create semantics:
// a second issue for the same (owner, email) fails with ErrDuplicateMember.
func Issue(tx *gorm.DB, inviter Inviter, req IssueRequest) (*models.TeamMember, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.TeamMember

	err := tx.Where("owner_id = ? AND LOWER(email) = ?", inviter.ID, email).First(&existing).Error

	if err == nil {
		return nil, "", ErrDuplicateMember
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	member := models.TeamMember{
		OwnerID:         inviter.ID,
		Name:            req.Name,
		Role:            req.Role,
		Email:           email,
		PhoneNumber:     req.PhoneNumber,
		WhatsappNumber:  req.WhatsappNumber,
		Status:          models.MemberStatusPending,
		InvitationToken: uuid.NewString(),
		Categories:      req.Categories,
	}

	if err := tx.Create(&member).Error; err != nil {
		return nil, "", err
	}

	link, err := send(tx, &member, inviter)

	if err != nil {
		return nil, "", err
	}

	return &member, link, nil
}

// Resend rotates the token on an existing invitation and re-dispatches the
// email, invalidating any previously issued link. Only the owning identity
// may resend, and joined or left rows are never pushed back to sent.
func Resend(tx *gorm.DB, inviter Inviter, memberID uint) (*models.TeamMember, string, error) {
	var member models.TeamMember

	err := tx.Where("id = ? AND owner_id = ?", memberID, inviter.ID).First(&member).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}

	switch member.Status {
	case models.MemberStatusJoined:
		return nil, "", ErrAlreadyJoined
	case models.MemberStatusLeft:
		return nil, "", ErrLeft
	}

	link, err := send(tx, &member, inviter)

	if err != nil {
		return nil, "", err
	}

	return &member, link, nil
}

// LookupByToken returns the membership a still-valid token points at. The
// token is matched by exact equality against a unique index; nothing is
// revealed when no row matches.
func LookupByToken(tx *gorm.DB, token string) (*models.TeamMember, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	var member models.TeamMember

	err := tx.Preload("Owner").Where("invitation_token = ?", token).First(&member).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return &member, nil
}

// Accept redeems a token and marks the membership joined. Redundant accepts
// with the same token are no-ops that re-confirm joined.
func Accept(tx *gorm.DB, token string) (*models.TeamMember, error) {
	member, err := LookupByToken(tx, token)

	if err != nil {
		return nil, err
	}

	if member.Status == models.MemberStatusJoined {
		return member, nil
	}

	result := tx.Model(&models.TeamMember{}).
		Where("id = ? AND invitation_token = ?", member.ID, token).
		Update("status", models.MemberStatusJoined)

	if result.Error != nil {
		return nil, result.Error
	}

	// The token was rotated between lookup and update; the presented link
	// is stale.
	if result.RowsAffected == 0 {
		return nil, ErrInvalidToken
	}

	member.Status = models.MemberStatusJoined

	return member, nil
}

// Remove marks a membership as left. The row is retained for audit; left is
// terminal for active purposes.
func Remove(tx *gorm.DB, ownerID uint, memberID uint) (*models.TeamMember, error) {
	var member models.TeamMember

	err := tx.Where("id = ? AND owner_id = ?", memberID, ownerID).First(&member).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := tx.Model(&member).Update("status", models.MemberStatusLeft).Error; err != nil {
		return nil, err
	}

	member.Status = models.MemberStatusLeft

	return &member, nil
}

// send rotates the invitation token, marks the row sent and dispatches the
// email. The rotation is guarded by a compare-and-swap on the previous
// token so a concurrent resend or accept never resurrects a stale token.
// The status change is durable before the mail leaves the building: mail
// failures are logged, recorded as failed when nothing newer has touched
// the row, and never surfaced to the caller.
func send(tx *gorm.DB, member *models.TeamMember, inviter Inviter) (string, error) {
	previous := member.InvitationToken
	token := uuid.NewString()
	now := time.Now()

	result := tx.Model(&models.TeamMember{}).
		Where("id = ? AND invitation_token = ?", member.ID, previous).
		Updates(map[string]interface{}{
			"invitation_token":   token,
			"invitation_sent_at": now,
			"status":             models.MemberStatusSent,
		})

	if result.Error != nil {
		return "", result.Error
	}

	if result.RowsAffected == 0 {
		return "", ErrConflict
	}

	member.InvitationToken = token
	member.InvitationSentAt = &now
	member.Status = models.MemberStatusSent

	link := types.FrontendURL() + "/accept-invitation/" + token
	dispatched := *member

	go func() {
		if err := services.SendInvitationEmail(dispatched, inviter.Name, inviter.CompanyName, link); err != nil {
			log.Printf("Failed to deliver invitation email to %s: %v", dispatched.Email, err)

			// Audit mark only; the token stays redeemable and a newer
			// rotation or accept wins over this write.
			tx.Model(&models.TeamMember{}).
				Where("id = ? AND invitation_token = ? AND status = ?",
					dispatched.ID, token, models.MemberStatusSent).
				Update("status", models.MemberStatusFailed)
		}
	}()

	return link, nil
}
