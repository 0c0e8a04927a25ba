package handlers

import (
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/weddingflow/weddingflow/db"
	"github.com/weddingflow/weddingflow/internal/access"
	"github.com/weddingflow/weddingflow/internal/models"
	"github.com/weddingflow/weddingflow/internal/utils"
)

type ActivityEntry struct {
	Action  string    `json:"action"`
	Details string    `json:"details"`
	Time    time.Time `json:"time"`
	Status  string    `json:"status"`
}

type DashboardStatsResponse struct {
	ActiveProjects int             `json:"active_projects"`
	TeamMembers    int             `json:"team_members"`
	RecentActivity []ActivityEntry `json:"recent_activity"`
}

func GetDashboardStats(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	owners, err := access.EffectiveOwners(db.DB, currentUser)

	if err != nil {
		log.Printf("Failed to resolve effective owners: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dashboard stats"})
		return
	}

	var activeProjects int64

	if err := access.Projects(db.DB, owners).
		Where("projects.status = ?", models.ProjectStatusActive).
		Count(&activeProjects).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dashboard stats"})
		return
	}

	var teamMembers int64

	if err := db.DB.Model(&models.TeamMember{}).
		Where("owner_id IN ? AND status != ?", owners, models.MemberStatusLeft).
		Count(&teamMembers).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dashboard stats"})
		return
	}

	var recentProjects []models.Project

	if err := access.Projects(db.DB, owners).
		Order("created_at DESC").Limit(5).
		Find(&recentProjects).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dashboard stats"})
		return
	}

	var recentMembers []models.TeamMember

	if err := db.DB.Where("owner_id IN ?", owners).
		Order("created_at DESC").Limit(5).
		Find(&recentMembers).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dashboard stats"})
		return
	}

	activities := make([]ActivityEntry, 0, len(recentProjects)+len(recentMembers))

	for _, project := range recentProjects {
		activities = append(activities, ActivityEntry{
			Action:  "New project created",
			Details: project.CoupleName + " - " + project.EventType,
			Time:    project.CreatedAt,
			Status:  "success",
		})
	}

	for _, member := range recentMembers {
		activities = append(activities, ActivityEntry{
			Action:  "Team member invited",
			Details: member.Name + " as " + member.Role,
			Time:    member.CreatedAt,
			Status:  member.Status,
		})
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].Time.After(activities[j].Time)
	})

	if len(activities) > 10 {
		activities = activities[:10]
	}

	ctx.JSON(http.StatusOK, DashboardStatsResponse{
		ActiveProjects: int(activeProjects),
		TeamMembers:    int(teamMembers),
		RecentActivity: activities,
	})
}
