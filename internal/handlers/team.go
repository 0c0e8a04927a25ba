package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/weddingflow/weddingflow/db"
	"github.com/weddingflow/weddingflow/internal/access"
	"github.com/weddingflow/weddingflow/internal/invitations"
	"github.com/weddingflow/weddingflow/internal/models"
	"github.com/weddingflow/weddingflow/internal/utils"
	"gorm.io/gorm"
)

type CreateTeamMemberRequest struct {
	Name           string   `json:"name" binding:"required"`
	Role           string   `json:"role" binding:"required"`
	Email          string   `json:"email" binding:"required,email"`
	PhoneNumber    string   `json:"phone_number"`
	WhatsappNumber string   `json:"whatsapp_number"`
	Categories     []string `json:"categories"`
}

type UpdateTeamMemberRequest struct {
	Name           string   `json:"name"`
	Role           string   `json:"role"`
	PhoneNumber    string   `json:"phone_number"`
	WhatsappNumber string   `json:"whatsapp_number"`
	Categories     []string `json:"categories"`
}

type GetTeamMemberResponse struct {
	ID               uint       `json:"id"`
	OwnerID          uint       `json:"owner_id"`
	Name             string     `json:"name"`
	Role             string     `json:"role"`
	Email            string     `json:"email"`
	PhoneNumber      string     `json:"phone_number"`
	WhatsappNumber   string     `json:"whatsapp_number"`
	Status           string     `json:"status"`
	InvitationSentAt *time.Time `json:"invitation_sent_at"`
	Categories       []string   `json:"categories"`
	CreatedAt        time.Time  `json:"created_at"`
}

// The invitation token is deliberately absent from the response shape:
// it is a redemption credential, delivered only through the mailed link
// and the explicit debug_link returned to the issuing owner.
func teamMemberResponse(member models.TeamMember) GetTeamMemberResponse {
	return GetTeamMemberResponse{
		ID:               member.ID,
		OwnerID:          member.OwnerID,
		Name:             member.Name,
		Role:             member.Role,
		Email:            member.Email,
		PhoneNumber:      member.PhoneNumber,
		WhatsappNumber:   member.WhatsappNumber,
		Status:           member.Status,
		InvitationSentAt: member.InvitationSentAt,
		Categories:       member.Categories,
		CreatedAt:        member.CreatedAt,
	}
}

func CreateTeamMember(ctx *gin.Context) {
	var body CreateTeamMemberRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	inviter := invitations.Inviter{
		ID:          currentUser.ID,
		Name:        currentUser.Name,
		CompanyName: currentUser.CompanyName,
	}

	member, link, err := invitations.Issue(db.DB, inviter, invitations.IssueRequest{
		Name:           body.Name,
		Role:           body.Role,
		Email:          body.Email,
		PhoneNumber:    body.PhoneNumber,
		WhatsappNumber: body.WhatsappNumber,
		Categories:     body.Categories,
	})

	if err != nil {
		switch {
		case errors.Is(err, invitations.ErrDuplicateMember):
			ctx.JSON(http.StatusConflict, gin.H{"error": "A team member with this email already exists"})
		case errors.Is(err, invitations.ErrConflict):
			ctx.JSON(http.StatusConflict, gin.H{"error": "Invitation was modified concurrently"})
		default:
			log.Printf("Failed to issue invitation: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create team member"})
		}
		return
	}

	BroadcastRefresh(currentUser.ID)

	ctx.JSON(http.StatusCreated, gin.H{
		"member":     teamMemberResponse(*member),
		"debug_link": link,
	})
}

func ListTeamMembers(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var members []models.TeamMember

	if err := access.TeamMembers(db.DB, currentUser).Find(&members).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve team members"})
		return
	}

	response := make([]GetTeamMemberResponse, 0, len(members))

	for _, member := range members {
		response = append(response, teamMemberResponse(member))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetTeamMember(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	memberID, err := utils.GetParamID(ctx, "member_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var member models.TeamMember

	if err := access.TeamMembers(db.DB, currentUser).Where("team_members.id = ?", memberID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Team member not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve team member"})
		}
		return
	}

	ctx.JSON(http.StatusOK, teamMemberResponse(member))
}

// UpdateTeamMember edits contact details on an owned row. Status, token and
// email are not editable here; lifecycle transitions go through the
// invitation operations.
func UpdateTeamMember(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body UpdateTeamMemberRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	memberID, err := utils.GetParamID(ctx, "member_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var member models.TeamMember

	if err := db.DB.Where("id = ? AND owner_id = ?", memberID, currentUser.ID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Team member not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve team member"})
		}
		return
	}

	if body.Name != "" {
		member.Name = body.Name
	}

	if body.Role != "" {
		member.Role = body.Role
	}

	if body.PhoneNumber != "" {
		member.PhoneNumber = body.PhoneNumber
	}

	if body.WhatsappNumber != "" {
		member.WhatsappNumber = body.WhatsappNumber
	}

	if body.Categories != nil {
		member.Categories = body.Categories
	}

	if err := db.DB.Save(&member).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update team member"})
		return
	}

	ctx.JSON(http.StatusOK, teamMemberResponse(member))
}

// DeleteTeamMember marks the membership as left. The row stays behind for
// audit instead of being removed.
func DeleteTeamMember(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	memberID, err := utils.GetParamID(ctx, "member_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := invitations.Remove(db.DB, currentUser.ID, memberID)

	if err != nil {
		if errors.Is(err, invitations.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Team member not found"})
		} else {
			log.Printf("Failed to remove team member: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove team member"})
		}
		return
	}

	BroadcastRefresh(member.OwnerID)

	ctx.JSON(http.StatusOK, teamMemberResponse(*member))
}

func ResendInvitation(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	memberID, err := utils.GetParamID(ctx, "member_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inviter := invitations.Inviter{
		ID:          currentUser.ID,
		Name:        currentUser.Name,
		CompanyName: currentUser.CompanyName,
	}

	member, link, err := invitations.Resend(db.DB, inviter, memberID)

	if err != nil {
		switch {
		case errors.Is(err, invitations.ErrNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Team member not found"})
		case errors.Is(err, invitations.ErrAlreadyJoined):
			ctx.JSON(http.StatusConflict, gin.H{"error": "Member has already joined the team"})
		case errors.Is(err, invitations.ErrLeft):
			ctx.JSON(http.StatusConflict, gin.H{"error": "Member has left the team"})
		case errors.Is(err, invitations.ErrConflict):
			ctx.JSON(http.StatusConflict, gin.H{"error": "Invitation was modified concurrently"})
		default:
			log.Printf("Failed to resend invitation: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resend invitation"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":     "invitation sent",
		"member":     teamMemberResponse(*member),
		"debug_link": link,
	})
}

// LookupInvitation is unauthenticated: it returns the minimal information
// an accept-invitation landing page needs to render. An unknown token gets
// a bare 404 that reveals nothing else.
func LookupInvitation(ctx *gin.Context) {
	member, err := invitations.LookupByToken(db.DB, ctx.Param("token"))

	if err != nil {
		if errors.Is(err, invitations.ErrInvalidToken) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Invalid token"})
		} else {
			log.Printf("Failed to look up invitation: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up invitation"})
		}
		return
	}

	inviterName := member.Owner.CompanyName

	if inviterName == "" {
		inviterName = member.Owner.Name
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id":           member.ID,
		"email":        member.Email,
		"role":         member.Role,
		"inviter_name": inviterName,
		"valid":        true,
	})
}

// AcceptInvitation is unauthenticated: possession of a valid token is the
// credential. Accepting twice is a no-op that re-confirms joined.
func AcceptInvitation(ctx *gin.Context) {
	member, err := invitations.Accept(db.DB, ctx.Param("token"))

	if err != nil {
		if errors.Is(err, invitations.ErrInvalidToken) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Invalid token"})
		} else {
			log.Printf("Failed to accept invitation: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept invitation"})
		}
		return
	}

	BroadcastRefresh(member.OwnerID)

	ctx.JSON(http.StatusOK, gin.H{
		"status": "joined",
		"member": teamMemberResponse(*member),
	})
}
