package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/weddingflow/weddingflow/internal/handlers"
	"github.com/weddingflow/weddingflow/internal/middleware"
	"github.com/weddingflow/weddingflow/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.CreateUser)
			auth.POST("/login", handlers.LoginUser)
			auth.POST("/logout", handlers.LogoutUser)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
			auth.PATCH("/me", middleware.AuthMiddleware(), handlers.UpdateUser)
			auth.DELETE("/me", middleware.AuthMiddleware(), handlers.DeleteUser)
		}

		// Unauthenticated redemption surface: the token itself is the
		// credential.
		invitations := api.Group("/invitations")
		{
			invitations.GET("/:token", handlers.LookupInvitation)
			invitations.POST("/:token/accept", handlers.AcceptInvitation)
		}

		projects := api.Group("/projects", middleware.AuthMiddleware())
		{
			projects.POST("", handlers.CreateProject)
			projects.GET("", handlers.ListProjects)
			projects.GET("/:project_id", handlers.GetProject)
			projects.PATCH("/:project_id", handlers.UpdateProject)
			projects.DELETE("/:project_id", handlers.DeleteProject)
		}

		events := api.Group("/events", middleware.AuthMiddleware())
		{
			events.POST("", handlers.CreateEvent)
			events.GET("", handlers.ListEvents)
			events.GET("/:event_id", handlers.GetEvent)
			events.PATCH("/:event_id", handlers.UpdateEvent)
			events.DELETE("/:event_id", handlers.DeleteEvent)
		}

		tasks := api.Group("/tasks", middleware.AuthMiddleware())
		{
			tasks.POST("", handlers.CreateTask)
			tasks.GET("", handlers.ListTasks)
			tasks.GET("/:task_id", handlers.GetTask)
			tasks.PATCH("/:task_id", handlers.UpdateTask)
			tasks.DELETE("/:task_id", handlers.DeleteTask)
		}

		checklists := api.Group("/checklists", middleware.AuthMiddleware())
		{
			checklists.POST("", handlers.CreateChecklist)
			checklists.GET("", handlers.ListChecklists)
			checklists.GET("/:checklist_id", handlers.GetChecklist)
			checklists.PATCH("/:checklist_id", handlers.UpdateChecklist)
			checklists.DELETE("/:checklist_id", handlers.DeleteChecklist)
		}

		submissions := api.Group("/submissions", middleware.AuthMiddleware())
		{
			submissions.POST("", handlers.CreateSubmission)
			submissions.GET("", handlers.ListSubmissions)
			submissions.GET("/:submission_id", handlers.GetSubmission)
			submissions.PATCH("/:submission_id", handlers.UpdateSubmission)
			submissions.DELETE("/:submission_id", handlers.DeleteSubmission)
		}

		team := api.Group("/team", middleware.AuthMiddleware())
		{
			team.POST("", handlers.CreateTeamMember)
			team.GET("", handlers.ListTeamMembers)
			team.GET("/:member_id", handlers.GetTeamMember)
			team.PATCH("/:member_id", handlers.UpdateTeamMember)
			team.DELETE("/:member_id", handlers.DeleteTeamMember)
			team.POST("/:member_id/resend", handlers.ResendInvitation)
		}

		preferences := api.Group("/preferences", middleware.AuthMiddleware())
		{
			preferences.GET("", handlers.GetPreferences)
			preferences.PATCH("", handlers.UpdatePreferences)
		}

		api.GET("/dashboard/stats", middleware.AuthMiddleware(), handlers.GetDashboardStats)
	}

	return r
}
