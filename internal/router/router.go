package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/researchdesk/researchdesk/internal/handlers"
	"github.com/researchdesk/researchdesk/internal/middleware"
	"github.com/researchdesk/researchdesk/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
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

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.RegisterUser)
			auth.GET("/activate/:uid/:token", handlers.ActivateUser)
			auth.POST("/login", handlers.LoginUser)
			auth.POST("/logout", handlers.LogoutUser)
			auth.POST("/forgot-password", handlers.ForgotPassword)
			auth.GET("/reset-password/:uid/:token", handlers.ValidateResetPassword)
			auth.POST("/reset-password", handlers.ResetPassword)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		projects := api.Group("/projects", middleware.AuthMiddleware())
		{
			projects.GET("", handlers.ListProjects)
			projects.POST("", handlers.CreateProject)
			projects.GET("/:id", handlers.GetProject)
			projects.PUT("/:id", handlers.UpdateProject)
			projects.DELETE("/:id", handlers.DeleteProject)
		}

		topics := api.Group("/topics", middleware.AuthMiddleware())
		{
			topics.GET("", handlers.ListTopics)
			topics.POST("", handlers.CreateTopic)
			topics.GET("/:id", handlers.GetTopic)
			topics.PUT("/:id", handlers.UpdateTopic)
			topics.DELETE("/:id", handlers.DeleteTopic)
		}

		notes := api.Group("/notes", middleware.AuthMiddleware())
		{
			notes.GET("", handlers.ListNotes)
			notes.POST("", handlers.CreateNote)
			notes.GET("/:id", handlers.GetNote)
			notes.PUT("/:id", handlers.UpdateNote)
			notes.DELETE("/:id", handlers.DeleteNote)
		}

		sources := api.Group("/sources", middleware.AuthMiddleware())
		{
			sources.GET("", handlers.ListSources)
			sources.POST("", handlers.CreateSource)
			sources.GET("/:id", handlers.GetSource)
			sources.PUT("/:id", handlers.UpdateSource)
			sources.DELETE("/:id", handlers.DeleteSource)
		}

		keywords := api.Group("/keywords", middleware.AuthMiddleware())
		{
			keywords.GET("", handlers.ListKeywords)
			keywords.POST("", handlers.CreateKeyword)
			keywords.GET("/:id", handlers.GetKeyword)
			keywords.PUT("/:id", handlers.UpdateKeyword)
			keywords.DELETE("/:id", handlers.DeleteKeyword)
		}

		members := api.Group("/members", middleware.AuthMiddleware())
		{
			members.GET("", handlers.ListMembers)
			members.GET("/options", handlers.ListMemberOptions)
			members.POST("", handlers.CreateMember)
			members.GET("/:id", handlers.GetMember)
			members.PUT("/:id", handlers.UpdateMember)
			members.DELETE("/:id", handlers.DeleteMember)
		}
	}

	return r
}
