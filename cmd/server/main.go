package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/project-calendar/api/internal/auth"
	"github.com/project-calendar/api/internal/config"
	"github.com/project-calendar/api/internal/database"
	"github.com/project-calendar/api/internal/handlers"
	"github.com/project-calendar/api/internal/middleware"
	"github.com/project-calendar/api/internal/repository"
	"github.com/project-calendar/api/internal/services"
)

func main() {
	cfg := config.Load()

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	db := database.GetDB()

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	assignRepo := repository.NewAssignmentRepository(db)

	tokens := auth.NewTokenService(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)

	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	taskService := services.NewTaskService(taskRepo, assignRepo)
	assignmentService := services.NewAssignmentService(assignRepo, taskRepo, userRepo, cfg.CapacityPolicy)
	calendarService := services.NewCalendarService(taskRepo)

	authHandler := handlers.NewAuthHandler(authService, userService, tokens)
	userHandler := handlers.NewUserHandler(userService)
	taskHandler := handlers.NewTaskHandler(taskService)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService)
	calendarHandler := handlers.NewCalendarHandler(calendarService)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/me", middleware.RequireAuth(tokens), authHandler.GetCurrentUser)
		}

		users := api.Group("/users", middleware.RequireAuth(tokens))
		{
			users.GET("", userHandler.Search)
			users.GET("/:id", userHandler.GetUser)
			users.GET("/:id/schedule", userHandler.GetWorkSchedule)
			users.PUT("/:id/schedule", userHandler.ReplaceWorkSchedule)
		}

		tasks := api.Group("/tasks", middleware.RequireAuth(tokens))
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.GET("/:id/subtasks", taskHandler.GetSubtasks)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)

			tasks.POST("/:id/assignments", assignmentHandler.CreateAssignment)
			tasks.GET("/:id/assignments", assignmentHandler.ListAssignments)
			tasks.DELETE("/:id/assignments/:user_id", assignmentHandler.DeleteAssignment)
		}

		calendar := api.Group("/calendar", middleware.RequireAuth(tokens))
		{
			calendar.GET("/tasks", calendarHandler.GetTasks)
		}
	}

	log.Printf("Starting server on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
