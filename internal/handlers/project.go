package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/weddingflow/weddingflow/db"
	"github.com/weddingflow/weddingflow/internal/access"
	"github.com/weddingflow/weddingflow/internal/middleware"
	"github.com/weddingflow/weddingflow/internal/models"
	"github.com/weddingflow/weddingflow/internal/utils"
	"gorm.io/gorm"
)

type CreateProjectRequest struct {
	CoupleName         string `json:"couple_name" binding:"required"`
	EventDate          string `json:"event_date" binding:"required"`
	EventType          string `json:"event_type" binding:"required"`
	Location           string `json:"location" binding:"required"`
	ServiceType        string `json:"service_type" binding:"required"`
	Status             string `json:"status"`
	ProgressPercentage int    `json:"progress_percentage"`
}

type UpdateProjectRequest struct {
	CoupleName         string `json:"couple_name"`
	EventDate          string `json:"event_date"`
	EventType          string `json:"event_type"`
	Location           string `json:"location"`
	ServiceType        string `json:"service_type"`
	Status             string `json:"status"`
	ProgressPercentage *int   `json:"progress_percentage"`
}

type GetProjectResponse struct {
	ID                 uint   `json:"id"`
	CoupleName         string `json:"couple_name"`
	EventDate          string `json:"event_date"`
	EventType          string `json:"event_type"`
	Location           string `json:"location"`
	ServiceType        string `json:"service_type"`
	Status             string `json:"status"`
	ProgressPercentage int    `json:"progress_percentage"`
	OwnerID            uint   `json:"owner_id"`
}

func projectResponse(project models.Project) GetProjectResponse {
	return GetProjectResponse{
		ID:                 project.ID,
		CoupleName:         project.CoupleName,
		EventDate:          project.EventDate.Format("2006-01-02"),
		EventType:          project.EventType,
		Location:           project.Location,
		ServiceType:        project.ServiceType,
		Status:             project.Status,
		ProgressPercentage: project.ProgressPercentage,
		OwnerID:            project.OwnerID,
	}
}

func CreateProject(ctx *gin.Context) {
	var body CreateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	eventDate, err := time.Parse("2006-01-02", body.EventDate)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event_date, expected YYYY-MM-DD"})
		return
	}

	status := body.Status

	if status == "" {
		status = models.ProjectStatusActive
	}

	project := models.Project{
		OwnerID:            currentUser.ID,
		CoupleName:         body.CoupleName,
		EventDate:          eventDate,
		EventType:          body.EventType,
		Location:           body.Location,
		ServiceType:        body.ServiceType,
		Status:             status,
		ProgressPercentage: body.ProgressPercentage,
	}

	if err := db.DB.Create(&project).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	BroadcastRefresh(currentUser.ID)

	ctx.JSON(http.StatusCreated, projectResponse(project))
}

func ListProjects(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	owners, err := access.EffectiveOwners(db.DB, currentUser)

	if err != nil {
		log.Printf("Failed to resolve effective owners: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	query := access.Projects(db.DB, owners)

	if ids := ctx.Query("ids"); ids != "" {
		query = query.Where("projects.id IN ?", strings.Split(ids, ","))
	}

	if status := ctx.Query("status"); status != "" {
		query = query.Where("projects.status = ?", status)
	}

	var projects []models.Project

	if err := query.Find(&projects).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	response := make([]GetProjectResponse, 0, len(projects))

	for _, project := range projects {
		response = append(response, projectResponse(project))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetProject(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := utils.GetParamID(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	owners, err := access.EffectiveOwners(db.DB, currentUser)

	if err != nil {
		log.Printf("Failed to resolve effective owners: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return
	}

	var project models.Project

	if err := access.Projects(db.DB, owners).Where("projects.id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return
	}

	ctx.JSON(http.StatusOK, projectResponse(project))
}

func UpdateProject(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body UpdateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	projectID, err := utils.GetParamID(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, ok := writableProject(ctx, currentUser, projectID)

	if !ok {
		return
	}

	if body.CoupleName != "" {
		project.CoupleName = body.CoupleName
	}

	if body.EventDate != "" {
		eventDate, err := time.Parse("2006-01-02", body.EventDate)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event_date, expected YYYY-MM-DD"})
			return
		}

		project.EventDate = eventDate
	}

	if body.EventType != "" {
		project.EventType = body.EventType
	}

	if body.Location != "" {
		project.Location = body.Location
	}

	if body.ServiceType != "" {
		project.ServiceType = body.ServiceType
	}

	if body.Status != "" {
		project.Status = body.Status
	}

	if body.ProgressPercentage != nil {
		project.ProgressPercentage = *body.ProgressPercentage
	}

	if err := db.DB.Save(&project).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	BroadcastRefresh(project.OwnerID)

	ctx.JSON(http.StatusOK, projectResponse(project))
}

func DeleteProject(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := utils.GetParamID(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, ok := writableProject(ctx, currentUser, projectID)

	if !ok {
		return
	}

	// Deleting a project cascades to its events, tasks and the events'
	// checklists and submissions.
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var eventIDs []uint

		if err := tx.Model(&models.Event{}).Where("project_id = ?", project.ID).Pluck("id", &eventIDs).Error; err != nil {
			return err
		}

		if len(eventIDs) > 0 {
			if err := tx.Where("event_id IN ?", eventIDs).Delete(&models.EventChecklist{}).Error; err != nil {
				return err
			}

			if err := tx.Where("event_id IN ?", eventIDs).Delete(&models.FileSubmission{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Event{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		return tx.Delete(&project).Error
	})

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	BroadcastRefresh(project.OwnerID)

	ctx.Status(http.StatusNoContent)
}

// writableProject loads a project for mutation. Team membership grants read
// access only, so a project visible to the caller but owned by someone else
// yields 403, and an invisible one yields 404 to avoid confirming existence.
func writableProject(ctx *gin.Context, currentUser middleware.AuthenticatedUser, projectID uint) (models.Project, bool) {
	owners, err := access.EffectiveOwners(db.DB, currentUser)

	if err != nil {
		log.Printf("Failed to resolve effective owners: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return models.Project{}, false
	}

	var project models.Project

	if err := access.Projects(db.DB, owners).Where("projects.id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return models.Project{}, false
	}

	if project.OwnerID != currentUser.ID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the project owner can modify it"})
		return models.Project{}, false
	}

	return project, true
}

// ownedProject loads a project the caller must own outright, for attaching
// child records. Visibility without ownership is not enough to create under
// someone else's project.
func ownedProject(ctx *gin.Context, userID uint, projectID uint) (models.Project, bool) {
	var project models.Project

	if err := db.DB.Where("id = ? AND owner_id = ?", projectID, userID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return models.Project{}, false
	}

	return project, true
}
