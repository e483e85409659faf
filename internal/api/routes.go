package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"devfolio/internal/api/middleware"
	"devfolio/internal/assets"
	"devfolio/internal/auth"
	"devfolio/internal/repository"
	"devfolio/internal/scan"
)

// RegisterRoutes wires every handler into the one canonical route table.
func RegisterRoutes(
	router *gin.Engine,
	db *gorm.DB,
	blobStore assets.BlobStore,
	authService *auth.AuthService,
	redisClient redis.UniversalClient,
	scanner *scan.Scanner,
	logger *slog.Logger,
) {
	manager := assets.NewManager(blobStore, logger)

	authHandler := NewAuthHandler(repository.NewUserRepository(db), authService, redisClient, logger)
	projectHandler := NewProjectHandler(repository.NewProjectRepository(db), manager, scanner, logger)
	resumeHandler := NewResumeHandler(repository.NewResumeRepository(db), manager, scanner, logger)
	problemHandler := NewProblemHandler(repository.NewProblemRepository(db), logger)

	authMiddleware := middleware.AuthMiddleware(authService)

	api := router.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("/register", authHandler.Register)
			users.POST("/login", authHandler.Login)
			users.GET("/profiles", authHandler.GetProfiles)
			users.DELETE("/:id", authMiddleware, authHandler.DeleteUser)
		}

		projects := api.Group("/project")
		{
			projects.GET("", projectHandler.GetAllProjects)
			projects.GET("/:id", projectHandler.GetProjectByID)
			projects.POST("", authMiddleware, projectHandler.AddProject)
			projects.PUT("/:id", authMiddleware, projectHandler.UpdateProject)
			projects.DELETE("/:id", authMiddleware, projectHandler.DeleteProject)
		}

		resumes := api.Group("/resume")
		{
			resumes.GET("", resumeHandler.GetAllResumes)
			resumes.GET("/:id", resumeHandler.GetResumeByID)
			resumes.POST("", authMiddleware, resumeHandler.CreateResume)
			resumes.PUT("/:id", authMiddleware, resumeHandler.UpdateResumeByID)
			resumes.DELETE("/:id", authMiddleware, resumeHandler.DeleteResumeByID)
		}

		// Orphan cleanup: destroy an asset-store object by key.
		api.DELETE("/assets/*publicId", authMiddleware, resumeHandler.DeleteResources)

		problems := api.Group("/problem")
		{
			problems.GET("", problemHandler.GetAllProblems)
			problems.GET("/:id", problemHandler.GetProblem)
			problems.POST("", authMiddleware, problemHandler.AddProblem)
			problems.PUT("/:id", authMiddleware, problemHandler.UpdateProblem)
			problems.DELETE("/:id", authMiddleware, problemHandler.DeleteProblem)
		}
	}
}
