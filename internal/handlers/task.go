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

type CreateTaskRequest struct {
	ProjectID            uint   `json:"project_id" binding:"required"`
	Title                string `json:"title" binding:"required"`
	Category             string `json:"category"`
	Priority             string `json:"priority"`
	DueDate              string `json:"due_date"`
	AssignedTo           string `json:"assigned_to"`
	EstimatedHours       int    `json:"estimated_hours"`
	Description          string `json:"description"`
	ExpectedDeliverables string `json:"expected_deliverables"`
	Status               string `json:"status"`
}

type UpdateTaskRequest struct {
	Title                string `json:"title"`
	Category             string `json:"category"`
	Priority             string `json:"priority"`
	DueDate              string `json:"due_date"`
	AssignedTo           string `json:"assigned_to"`
	EstimatedHours       *int   `json:"estimated_hours"`
	Description          string `json:"description"`
	ExpectedDeliverables string `json:"expected_deliverables"`
	Status               string `json:"status"`
}

type GetTaskResponse struct {
	ID                   uint   `json:"id"`
	ProjectID            uint   `json:"project_id"`
	Title                string `json:"title"`
	Category             string `json:"category"`
	Priority             string `json:"priority"`
	DueDate              string `json:"due_date"`
	AssignedTo           string `json:"assigned_to"`
	EstimatedHours       int    `json:"estimated_hours"`
	Description          string `json:"description"`
	ExpectedDeliverables string `json:"expected_deliverables"`
	Status               string `json:"status"`
}

func taskResponse(task models.Task) GetTaskResponse {
	dueDate := ""

	if task.DueDate != nil {
		dueDate = task.DueDate.Format("2006-01-02")
	}

	return GetTaskResponse{
		ID:                   task.ID,
		ProjectID:            task.ProjectID,
		Title:                task.Title,
		Category:             task.Category,
		Priority:             task.Priority,
		DueDate:              dueDate,
		AssignedTo:           task.AssignedTo,
		EstimatedHours:       task.EstimatedHours,
		Description:          task.Description,
		ExpectedDeliverables: task.ExpectedDeliverables,
		Status:               task.Status,
	}
}

func CreateTask(ctx *gin.Context) {
	var body CreateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if _, ok := ownedProject(ctx, userID, body.ProjectID); !ok {
		return
	}

	var dueDate *time.Time

	if body.DueDate != "" {
		parsed, err := time.Parse("2006-01-02", body.DueDate)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_date, expected YYYY-MM-DD"})
			return
		}

		dueDate = &parsed
	}

	status := body.Status

	if status == "" {
		status = "pending"
	}

	task := models.Task{
		ProjectID:            body.ProjectID,
		Title:                body.Title,
		Category:             body.Category,
		Priority:             body.Priority,
		DueDate:              dueDate,
		AssignedTo:           body.AssignedTo,
		EstimatedHours:       body.EstimatedHours,
		Description:          body.Description,
		ExpectedDeliverables: body.ExpectedDeliverables,
		Status:               status,
	}

	if err := db.DB.Create(&task).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	ctx.JSON(http.StatusCreated, taskResponse(task))
}

func ListTasks(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	owners, err := access.EffectiveOwners(db.DB, currentUser)

	if err != nil {
		log.Printf("Failed to resolve effective owners: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	query := access.Tasks(db.DB, currentUser, owners)

	if projectID := ctx.Query("project_id"); projectID != "" {
		query = query.Where("tasks.project_id = ?", projectID)
	}

	startDate, err := utils.ParseDateQuery(ctx, "start_date")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if startDate != nil {
		query = query.Where("tasks.due_date >= ?", *startDate)
	}

	endDate, err := utils.ParseDateQuery(ctx, "end_date")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if endDate != nil {
		query = query.Where("tasks.due_date <= ?", *endDate)
	}

	if assignedTo := ctx.Query("assigned_to"); assignedTo != "" {
		query = query.Where("LOWER(tasks.assigned_to) = LOWER(?)", assignedTo)
	}

	var tasks []models.Task

	if err := query.Find(&tasks).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	response := make([]GetTaskResponse, 0, len(tasks))

	for _, task := range tasks {
		response = append(response, taskResponse(task))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetTask(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := utils.GetParamID(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	owners, err := access.EffectiveOwners(db.DB, currentUser)

	if err != nil {
		log.Printf("Failed to resolve effective owners: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
	}

	var task models.Task

	if err := access.Tasks(db.DB, currentUser, owners).Where("tasks.id = ?", taskID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return
	}

	ctx.JSON(http.StatusOK, taskResponse(task))
}

func UpdateTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body UpdateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	taskID, err := utils.GetParamID(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, ok := writableTask(ctx, userID, taskID)

	if !ok {
		return
	}

	if body.Title != "" {
		task.Title = body.Title
	}

	if body.Category != "" {
		task.Category = body.Category
	}

	if body.Priority != "" {
		task.Priority = body.Priority
	}

	if body.DueDate != "" {
		parsed, err := time.Parse("2006-01-02", body.DueDate)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_date, expected YYYY-MM-DD"})
			return
		}

		task.DueDate = &parsed
	}

	if body.AssignedTo != "" {
		task.AssignedTo = body.AssignedTo
	}

	if body.EstimatedHours != nil {
		task.EstimatedHours = *body.EstimatedHours
	}

	if body.Description != "" {
		task.Description = body.Description
	}

	if body.ExpectedDeliverables != "" {
		task.ExpectedDeliverables = body.ExpectedDeliverables
	}

	if body.Status != "" {
		task.Status = body.Status
	}

	if err := db.DB.Save(&task).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	ctx.JSON(http.StatusOK, taskResponse(task))
}

func DeleteTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, err := utils.GetParamID(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, ok := writableTask(ctx, userID, taskID)

	if !ok {
		return
	}

	if err := db.DB.Delete(&task).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

// writableTask loads a task whose root project the caller owns outright.
func writableTask(ctx *gin.Context, userID uint, taskID uint) (models.Task, bool) {
	var task models.Task

	err := db.DB.Model(&models.Task{}).
		Joins("JOIN projects ON projects.id = tasks.project_id AND projects.deleted_at IS NULL").
		Where("tasks.id = ? AND projects.owner_id = ?", taskID, userID).
		First(&task).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return models.Task{}, false
	}

	return task, true
}
