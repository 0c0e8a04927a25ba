package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/weddingflow/weddingflow/db"
	"github.com/weddingflow/weddingflow/internal/access"
	"github.com/weddingflow/weddingflow/internal/models"
	"github.com/weddingflow/weddingflow/internal/utils"
	"gorm.io/gorm"
)

type CreateChecklistRequest struct {
	EventID      uint   `json:"event_id" binding:"required"`
	ItemName     string `json:"item_name" binding:"required"`
	Category     string `json:"category" binding:"required"`
	AssignedRole string `json:"assigned_role"`
	Notes        string `json:"notes"`
}

type UpdateChecklistRequest struct {
	ItemName     string `json:"item_name"`
	Category     string `json:"category"`
	AssignedRole string `json:"assigned_role"`
	IsCompleted  *bool  `json:"is_completed"`
	Notes        string `json:"notes"`
}

type GetChecklistResponse struct {
	ID           uint   `json:"id"`
	EventID      uint   `json:"event_id"`
	ItemName     string `json:"item_name"`
	Category     string `json:"category"`
	AssignedRole string `json:"assigned_role"`
	IsCompleted  bool   `json:"is_completed"`
	Notes        string `json:"notes"`
}

func checklistResponse(item models.EventChecklist) GetChecklistResponse {
	return GetChecklistResponse{
		ID:           item.ID,
		EventID:      item.EventID,
		ItemName:     item.ItemName,
		Category:     item.Category,
		AssignedRole: item.AssignedRole,
		IsCompleted:  item.IsCompleted,
		Notes:        item.Notes,
	}
}

func CreateChecklist(ctx *gin.Context) {
	var body CreateChecklistRequest

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

	item := models.EventChecklist{
		EventID:      body.EventID,
		ItemName:     body.ItemName,
		Category:     body.Category,
		AssignedRole: body.AssignedRole,
		Notes:        body.Notes,
	}

	if err := db.DB.Create(&item).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checklist item"})
		return
	}

	ctx.JSON(http.StatusCreated, checklistResponse(item))
}

func ListChecklists(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	owners, err := access.EffectiveOwners(db.DB, currentUser)

	if err != nil {
		log.Printf("Failed to resolve effective owners: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve checklist items"})
		return
	}

	query := access.Checklists(db.DB, owners)

	if eventID := ctx.Query("event_id"); eventID != "" {
		query = query.Where("event_checklists.event_id = ?", eventID)
	}

	var items []models.EventChecklist

	if err := query.Find(&items).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve checklist items"})
		return
	}

	response := make([]GetChecklistResponse, 0, len(items))

	for _, item := range items {
		response = append(response, checklistResponse(item))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetChecklist(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	itemID, err := utils.GetParamID(ctx, "checklist_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	owners, err := access.EffectiveOwners(db.DB, currentUser)

	if err != nil {
		log.Printf("Failed to resolve effective owners: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve checklist item"})
		return
	}

	var item models.EventChecklist

	if err := access.Checklists(db.DB, owners).Where("event_checklists.id = ?", itemID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Checklist item not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve checklist item"})
		}
		return
	}

	ctx.JSON(http.StatusOK, checklistResponse(item))
}

func UpdateChecklist(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body UpdateChecklistRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	itemID, err := utils.GetParamID(ctx, "checklist_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, ok := writableChecklist(ctx, userID, itemID)

	if !ok {
		return
	}

	if body.ItemName != "" {
		item.ItemName = body.ItemName
	}

	if body.Category != "" {
		item.Category = body.Category
	}

	if body.AssignedRole != "" {
		item.AssignedRole = body.AssignedRole
	}

	if body.IsCompleted != nil {
		item.IsCompleted = *body.IsCompleted
	}

	if body.Notes != "" {
		item.Notes = body.Notes
	}

	if err := db.DB.Save(&item).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update checklist item"})
		return
	}

	ctx.JSON(http.StatusOK, checklistResponse(item))
}

func DeleteChecklist(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	itemID, err := utils.GetParamID(ctx, "checklist_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, ok := writableChecklist(ctx, userID, itemID)

	if !ok {
		return
	}

	if err := db.DB.Delete(&item).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete checklist item"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func writableChecklist(ctx *gin.Context, userID uint, itemID uint) (models.EventChecklist, bool) {
	var item models.EventChecklist

	err := db.DB.Model(&models.EventChecklist{}).
		Joins("JOIN events ON events.id = event_checklists.event_id AND events.deleted_at IS NULL").
		Joins("JOIN projects ON projects.id = events.project_id AND projects.deleted_at IS NULL").
		Where("event_checklists.id = ? AND projects.owner_id = ?", itemID, userID).
		First(&item).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Checklist item not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve checklist item"})
		}
		return models.EventChecklist{}, false
	}

	return item, true
}
