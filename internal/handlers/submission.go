package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/weddingflow/weddingflow/db"
	"github.com/weddingflow/weddingflow/internal/access"
	"github.com/weddingflow/weddingflow/internal/models"
	"github.com/weddingflow/weddingflow/internal/utils"
	"gorm.io/gorm"
)

type CreateSubmissionRequest struct {
	EventID        uint   `json:"event_id" binding:"required"`
	TeamMemberName string `json:"team_member_name" binding:"required"`
	TeamMemberRole string `json:"team_member_role" binding:"required"`
	FileName       string `json:"file_name" binding:"required"`
	FileURL        string `json:"file_url" binding:"required"`
	FileType       string `json:"file_type" binding:"required"`
	SubmissionType string `json:"submission_type" binding:"required"`
}

type UpdateSubmissionRequest struct {
	ReviewStatus  string `json:"review_status"`
	ReviewerNotes string `json:"reviewer_notes"`
}

type GetSubmissionResponse struct {
	ID             uint       `json:"id"`
	EventID        uint       `json:"event_id"`
	TeamMemberName string     `json:"team_member_name"`
	TeamMemberRole string     `json:"team_member_role"`
	FileName       string     `json:"file_name"`
	FileURL        string     `json:"file_url"`
	FileType       string     `json:"file_type"`
	SubmissionType string     `json:"submission_type"`
	ReviewStatus   string     `json:"review_status"`
	UploadedAt     time.Time  `json:"uploaded_at"`
	ReviewedAt     *time.Time `json:"reviewed_at"`
	ReviewerNotes  string     `json:"reviewer_notes"`
}

func submissionResponse(submission models.FileSubmission) GetSubmissionResponse {
	return GetSubmissionResponse{
		ID:             submission.ID,
		EventID:        submission.EventID,
		TeamMemberName: submission.TeamMemberName,
		TeamMemberRole: submission.TeamMemberRole,
		FileName:       submission.FileName,
		FileURL:        submission.FileURL,
		FileType:       submission.FileType,
		SubmissionType: submission.SubmissionType,
		ReviewStatus:   submission.ReviewStatus,
		UploadedAt:     submission.CreatedAt,
		ReviewedAt:     submission.ReviewedAt,
		ReviewerNotes:  submission.ReviewerNotes,
	}
}

func CreateSubmission(ctx *gin.Context) {
	var body CreateSubmissionRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if _, ok := writableEvent(ctx, userID, body.EventID); !ok {
		return
	}

	submission := models.FileSubmission{
		EventID:        body.EventID,
		TeamMemberName: body.TeamMemberName,
		TeamMemberRole: body.TeamMemberRole,
		FileName:       body.FileName,
		FileURL:        body.FileURL,
		FileType:       body.FileType,
		SubmissionType: body.SubmissionType,
		ReviewStatus:   "pending",
	}

	if err := db.DB.Create(&submission).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create submission"})
		return
	}

	ctx.JSON(http.StatusCreated, submissionResponse(submission))
}

func ListSubmissions(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	owners, err := access.EffectiveOwners(db.DB, currentUser)

	if err != nil {
		log.Printf("Failed to resolve effective owners: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve submissions"})
		return
	}

	query := access.Submissions(db.DB, owners)

	if eventID := ctx.Query("event_id"); eventID != "" {
		query = query.Where("file_submissions.event_id = ?", eventID)
	}

	if memberName := ctx.Query("team_member_name"); memberName != "" {
		query = query.Where("LOWER(file_submissions.team_member_name) = LOWER(?)", memberName)
	}

	var submissions []models.FileSubmission

	if err := query.Find(&submissions).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve submissions"})
		return
	}

	response := make([]GetSubmissionResponse, 0, len(submissions))

	for _, submission := range submissions {
		response = append(response, submissionResponse(submission))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetSubmission(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	submissionID, err := utils.GetParamID(ctx, "submission_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	owners, err := access.EffectiveOwners(db.DB, currentUser)

	if err != nil {
		log.Printf("Failed to resolve effective owners: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve submission"})
		return
	}

	var submission models.FileSubmission

	if err := access.Submissions(db.DB, owners).Where("file_submissions.id = ?", submissionID).First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve submission"})
		}
		return
	}

	ctx.JSON(http.StatusOK, submissionResponse(submission))
}

func UpdateSubmission(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body UpdateSubmissionRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	submissionID, err := utils.GetParamID(ctx, "submission_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submission, ok := writableSubmission(ctx, userID, submissionID)

	if !ok {
		return
	}

	if body.ReviewStatus != "" {
		submission.ReviewStatus = body.ReviewStatus
		now := time.Now()
		submission.ReviewedAt = &now
	}

	if body.ReviewerNotes != "" {
		submission.ReviewerNotes = body.ReviewerNotes
	}

	if err := db.DB.Save(&submission).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update submission"})
		return
	}

	ctx.JSON(http.StatusOK, submissionResponse(submission))
}

func DeleteSubmission(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	submissionID, err := utils.GetParamID(ctx, "submission_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submission, ok := writableSubmission(ctx, userID, submissionID)

	if !ok {
		return
	}

	if err := db.DB.Delete(&submission).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete submission"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func writableSubmission(ctx *gin.Context, userID uint, submissionID uint) (models.FileSubmission, bool) {
	var submission models.FileSubmission

	err := db.DB.Model(&models.FileSubmission{}).
		Joins("JOIN events ON events.id = file_submissions.event_id AND events.deleted_at IS NULL").
		Joins("JOIN projects ON projects.id = events.project_id AND projects.deleted_at IS NULL").
		Where("file_submissions.id = ? AND projects.owner_id = ?", submissionID, userID).
		First(&submission).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve submission"})
		}
		return models.FileSubmission{}, false
	}

	return submission, true
}
