package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/weddingflow/weddingflow/db"
	"github.com/weddingflow/weddingflow/internal/models"
	"github.com/weddingflow/weddingflow/internal/utils"
	"gorm.io/gorm"
)

type UpdatePreferenceRequest struct {
	Theme                 string `json:"theme"`
	Language              string `json:"language"`
	Timezone              string `json:"timezone"`
	EmailNotifications    *bool  `json:"email_notifications"`
	PushNotifications     *bool  `json:"push_notifications"`
	WhatsappNotifications *bool  `json:"whatsapp_notifications"`
	ProjectReminders      *bool  `json:"project_reminders"`
	TaskReminders         *bool  `json:"task_reminders"`
	EventReminders        *bool  `json:"event_reminders"`
	WeeklySummary         *bool  `json:"weekly_summary"`
}

type GetPreferenceResponse struct {
	Theme                 string `json:"theme"`
	Language              string `json:"language"`
	Timezone              string `json:"timezone"`
	EmailNotifications    bool   `json:"email_notifications"`
	PushNotifications     bool   `json:"push_notifications"`
	WhatsappNotifications bool   `json:"whatsapp_notifications"`
	ProjectReminders      bool   `json:"project_reminders"`
	TaskReminders         bool   `json:"task_reminders"`
	EventReminders        bool   `json:"event_reminders"`
	WeeklySummary         bool   `json:"weekly_summary"`
}

func preferenceResponse(pref models.UserPreference) GetPreferenceResponse {
	return GetPreferenceResponse{
		Theme:                 pref.Theme,
		Language:              pref.Language,
		Timezone:              pref.Timezone,
		EmailNotifications:    pref.EmailNotifications,
		PushNotifications:     pref.PushNotifications,
		WhatsappNotifications: pref.WhatsappNotifications,
		ProjectReminders:      pref.ProjectReminders,
		TaskReminders:         pref.TaskReminders,
		EventReminders:        pref.EventReminders,
		WeeklySummary:         pref.WeeklySummary,
	}
}

func defaultPreferences(userID uint) models.UserPreference {
	return models.UserPreference{
		UserID:             userID,
		Theme:              "system",
		Language:           "en",
		Timezone:           "UTC",
		EmailNotifications: true,
		PushNotifications:  true,
		ProjectReminders:   true,
		TaskReminders:      true,
		EventReminders:     true,
		WeeklySummary:      true,
	}
}

// loadPreferences returns the user's row, creating defaults on first access.
func loadPreferences(userID uint) (models.UserPreference, error) {
	var pref models.UserPreference

	err := db.DB.Where("user_id = ?", userID).First(&pref).Error

	if err == nil {
		return pref, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return pref, err
	}

	pref = defaultPreferences(userID)

	if err := db.DB.Create(&pref).Error; err != nil {
		return pref, err
	}

	return pref, nil
}

func GetPreferences(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	pref, err := loadPreferences(userID)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve preferences"})
		return
	}

	ctx.JSON(http.StatusOK, preferenceResponse(pref))
}

func UpdatePreferences(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body UpdatePreferenceRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	pref, err := loadPreferences(userID)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve preferences"})
		return
	}

	if body.Theme != "" {
		pref.Theme = body.Theme
	}

	if body.Language != "" {
		pref.Language = body.Language
	}

	if body.Timezone != "" {
		pref.Timezone = body.Timezone
	}

	if body.EmailNotifications != nil {
		pref.EmailNotifications = *body.EmailNotifications
	}

	if body.PushNotifications != nil {
		pref.PushNotifications = *body.PushNotifications
	}

	if body.WhatsappNotifications != nil {
		pref.WhatsappNotifications = *body.WhatsappNotifications
	}

	if body.ProjectReminders != nil {
		pref.ProjectReminders = *body.ProjectReminders
	}

	if body.TaskReminders != nil {
		pref.TaskReminders = *body.TaskReminders
	}

	if body.EventReminders != nil {
		pref.EventReminders = *body.EventReminders
	}

	if body.WeeklySummary != nil {
		pref.WeeklySummary = *body.WeeklySummary
	}

	if err := db.DB.Save(&pref).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update preferences"})
		return
	}

	ctx.JSON(http.StatusOK, preferenceResponse(pref))
}
