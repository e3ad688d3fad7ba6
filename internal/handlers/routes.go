package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker/internal/middleware"
)

// RegisterRoutes mounts the health check and the /api tree on r.
// Session middleware must already be installed on r.
func RegisterRoutes(r *gin.Engine, authHandler *AuthHandler, taskHandler *TaskHandler) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task Tracker API is running",
		})
	})

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		api.GET("/users", middleware.RequireAuth(), authHandler.ListUsers)
		api.GET("/dashboard", middleware.RequireAuth(), taskHandler.Dashboard)

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/all", taskHandler.ListAllTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/drafts", taskHandler.DraftTasks)
			tasks.GET("/:id", middleware.RequireTaskID(), taskHandler.GetTask)
			tasks.PUT("/:id", middleware.RequireTaskID(), taskHandler.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireTaskID(), taskHandler.DeleteTask)
		}
	}
}
