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
	"github.com/weddingflow/weddingflow/internal/models"
	"github.com/weddingflow/weddingflow/internal/utils"
	"gorm.io/gorm"
)

type CreateEventRequest struct {
	ProjectID       uint   `json:"project_id" binding:"required"`
	EventName       string `json:"event_name" binding:"required"`
	EventDate       string `json:"event_date" binding:"required"`
	TimeFrom        string `json:"time_from"`
	TimeTo          string `json:"time_to"`
	Location        string `json:"location"`
	GoogleMapLink   string `json:"google_map_link"`
	Photographer    string `json:"photographer"`
	Cinematographer string `json:"cinematographer"`
	DroneOperator   string `json:"drone_operator"`
	SiteManager     string `json:"site_manager"`
	Assistant       string `json:"assistant"`
	Details         string `json:"details"`
	Instructions    string `json:"instructions"`
	SampleImageURL  string `json:"sample_image_url"`
}

type UpdateEventRequest struct {
	EventName       string `json:"event_name"`
	EventDate       string `json:"event_date"`
	TimeFrom        string `json:"time_from"`
	TimeTo          string `json:"time_to"`
	Location        string `json:"location"`
	GoogleMapLink   string `json:"google_map_link"`
	Photographer    string `json:"photographer"`
	Cinematographer string `json:"cinematographer"`
	DroneOperator   string `json:"drone_operator"`
	SiteManager     string `json:"site_manager"`
	Assistant       string `json:"assistant"`
	Details         string `json:"details"`
	Instructions    string `json:"instructions"`
	SampleImageURL  string `json:"sample_image_url"`
}

type GetEventResponse struct {
	ID              uint   `json:"id"`
	ProjectID       uint   `json:"project_id"`
	EventName       string `json:"event_name"`
	EventDate       string `json:"event_date"`
	TimeFrom        string `json:"time_from"`
	TimeTo          string `json:"time_to"`
	Location        string `json:"location"`
	GoogleMapLink   string `json:"google_map_link"`
	Photographer    string `json:"photographer"`
	Cinematographer string `json:"cinematographer"`
	DroneOperator   string `json:"drone_operator"`
	SiteManager     string `json:"site_manager"`
	Assistant       string `json:"assistant"`
	Details         string `json:"details"`
	Instructions    string `json:"instructions"`
	SampleImageURL  string `json:"sample_image_url"`
}

func eventResponse(event models.Event) GetEventResponse {
	return GetEventResponse{
		ID:              event.ID,
		ProjectID:       event.ProjectID,
		EventName:       event.EventName,
		EventDate:       event.EventDate.Format("2006-01-02"),
		TimeFrom:        event.TimeFrom,
		TimeTo:          event.TimeTo,
		Location:        event.Location,
		GoogleMapLink:   event.GoogleMapLink,
		Photographer:    event.Photographer,
		Cinematographer: event.Cinematographer,
		DroneOperator:   event.DroneOperator,
		SiteManager:     event.SiteManager,
		Assistant:       event.Assistant,
		Details:         event.Details,
		Instructions:    event.Instructions,
		SampleImageURL:  event.SampleImageURL,
	}
}

func CreateEvent(ctx *gin.Context) {
	var body CreateEventRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	eventDate, err := time.Parse("2006-01-02", body.EventDate)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event_date, expected YYYY-MM-DD"})
		return
	}

	if _, ok := ownedProject(ctx, userID, body.ProjectID); !ok {
		return
	}

	event := models.Event{
		ProjectID:       body.ProjectID,
		EventName:       body.EventName,
		EventDate:       eventDate,
		TimeFrom:        body.TimeFrom,
		TimeTo:          body.TimeTo,
		Location:        body.Location,
		GoogleMapLink:   body.GoogleMapLink,
		Photographer:    body.Photographer,
		Cinematographer: body.Cinematographer,
		DroneOperator:   body.DroneOperator,
		SiteManager:     body.SiteManager,
		Assistant:       body.Assistant,
		Details:         body.Details,
		Instructions:    body.Instructions,
		SampleImageURL:  body.SampleImageURL,
	}

	if err := db.DB.Create(&event).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	ctx.JSON(http.StatusCreated, eventResponse(event))
}

func ListEvents(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	owners, err := access.EffectiveOwners(db.DB, currentUser)

	if err != nil {
		log.Printf("Failed to resolve effective owners: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve events"})
		return
	}

	query := access.Events(db.DB, owners)

	if projectID := ctx.Query("project_id"); projectID != "" {
		query = query.Where("events.project_id = ?", projectID)
	}

	startDate, err := utils.ParseDateQuery(ctx, "start_date")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if startDate != nil {
		query = query.Where("events.event_date >= ?", *startDate)
	}

	endDate, err := utils.ParseDateQuery(ctx, "end_date")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if endDate != nil {
		query = query.Where("events.event_date <= ?", *endDate)
	}

	if assignedTo := ctx.Query("assigned_to"); assignedTo != "" {
		name := strings.ToLower(assignedTo)
		query = query.Where(
			"LOWER(events.photographer) = ? OR LOWER(events.cinematographer) = ? OR LOWER(events.drone_operator) = ? OR LOWER(events.site_manager) = ? OR LOWER(events.assistant) = ?",
			name, name, name, name, name,
		)
	}

	var events []models.Event

	if err := query.Find(&events).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve events"})
		return
	}

	response := make([]GetEventResponse, 0, len(events))

	for _, event := range events {
		response = append(response, eventResponse(event))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetEvent(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	eventID, err := utils.GetParamID(ctx, "event_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	owners, err := access.EffectiveOwners(db.DB, currentUser)

	if err != nil {
		log.Printf("Failed to resolve effective owners: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve event"})
		return
	}

	var event models.Event

	if err := access.Events(db.DB, owners).Where("events.id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve event"})
		}
		return
	}

	ctx.JSON(http.StatusOK, eventResponse(event))
}

func UpdateEvent(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body UpdateEventRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	eventID, err := utils.GetParamID(ctx, "event_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, ok := writableEvent(ctx, userID, eventID)

	if !ok {
		return
	}

	if body.EventName != "" {
		event.EventName = body.EventName
	}

	if body.EventDate != "" {
		eventDate, err := time.Parse("2006-01-02", body.EventDate)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event_date, expected YYYY-MM-DD"})
			return
		}

		event.EventDate = eventDate
	}

	if body.TimeFrom != "" {
		event.TimeFrom = body.TimeFrom
	}

	if body.TimeTo != "" {
		event.TimeTo = body.TimeTo
	}

	if body.Location != "" {
		event.Location = body.Location
	}

	if body.GoogleMapLink != "" {
		event.GoogleMapLink = body.GoogleMapLink
	}

	if body.Photographer != "" {
		event.Photographer = body.Photographer
	}

	if body.Cinematographer != "" {
		event.Cinematographer = body.Cinematographer
	}

	if body.DroneOperator != "" {
		event.DroneOperator = body.DroneOperator
	}

	if body.SiteManager != "" {
		event.SiteManager = body.SiteManager
	}

	if body.Assistant != "" {
		event.Assistant = body.Assistant
	}

	if body.Details != "" {
		event.Details = body.Details
	}

	if body.Instructions != "" {
		event.Instructions = body.Instructions
	}

	if body.SampleImageURL != "" {
		event.SampleImageURL = body.SampleImageURL
	}

	if err := db.DB.Save(&event).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		return
	}

	ctx.JSON(http.StatusOK, eventResponse(event))
}

func DeleteEvent(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	eventID, err := utils.GetParamID(ctx, "event_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, ok := writableEvent(ctx, userID, eventID)

	if !ok {
		return
	}

	// Deleting an event cascades to its checklists and submissions.
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.EventChecklist{}).Error; err != nil {
			return err
		}

		if err := tx.Where("event_id = ?", event.ID).Delete(&models.FileSubmission{}).Error; err != nil {
			return err
		}

		return tx.Delete(&event).Error
	})

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

// writableEvent loads an event whose root project the caller owns outright.
// Invisible and visible-but-not-owned rows both resolve to 404 here since
// the event itself carries no owner to disclose.
func writableEvent(ctx *gin.Context, userID uint, eventID uint) (models.Event, bool) {
	var event models.Event

	err := db.DB.Model(&models.Event{}).
		Joins("JOIN projects ON projects.id = events.project_id AND projects.deleted_at IS NULL").
		Where("events.id = ? AND projects.owner_id = ?", eventID, userID).
		First(&event).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve event"})
		}
		return models.Event{}, false
	}

	return event, true
}
