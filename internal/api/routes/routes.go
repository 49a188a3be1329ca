package routes

import (
	"identity-api/internal/api/handlers"
	"identity-api/internal/api/middleware"
	"identity-api/internal/config"
	"identity-api/internal/models"
	"identity-api/internal/services"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config) {
	// Initialize services
	authService := services.NewAuthService(cfg)
	auditService := services.NewAuditService()
	permissionService := services.NewPermissionService(auditService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, auditService, cfg)
	userHandler := handlers.NewUserHandler(cfg, permissionService)
	passwordHandler := handlers.NewPasswordHandler(cfg, permissionService)
	auditHandler := handlers.NewAuditHandler(auditService)

	// Middleware
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.ErrorHandler(auditService))
	r.Use(middleware.Performance(cfg, auditService))

	// Public routes
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"message": "identity-api is running",
			})
		})

		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
		}
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg, auditService))
	{
		protected.GET("/auth/me", authHandler.GetMe)

		// User management routes
		users := protected.Group("/users")
		{
			users.GET("", middleware.RequireRole(models.RoleSuperAdmin, models.RoleAdmin), userHandler.GetUsers)
			users.GET("/:id", userHandler.GetUser)
			users.POST("", middleware.RequireRole(models.RoleSuperAdmin, models.RoleAdmin), userHandler.CreateUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", middleware.RequireRole(models.RoleSuperAdmin), userHandler.DeleteUser)
			users.POST("/:id/activate", middleware.RequireRole(models.RoleSuperAdmin, models.RoleAdmin), userHandler.Activate)
			users.POST("/:id/deactivate", middleware.RequireRole(models.RoleSuperAdmin, models.RoleAdmin), userHandler.Deactivate)
			users.POST("/:id/roles", middleware.RequireRole(models.RoleSuperAdmin, models.RoleAdmin), userHandler.AssignRole)
			users.DELETE("/:id/roles/:role", middleware.RequireRole(models.RoleSuperAdmin, models.RoleAdmin), userHandler.RemoveRole)
		}

		// Role routes
		protected.GET("/roles", userHandler.GetRoles)

		// Password routes
		password := protected.Group("/password")
		{
			password.POST("/set", middleware.RequireRole(models.RoleSuperAdmin, models.RoleAdmin), passwordHandler.SetPassword)
			password.POST("/update", passwordHandler.UpdatePassword)
		}

		// Audit log routes
		protected.GET("/auditlogs", middleware.RequireRole(models.RoleSuperAdmin, models.RoleAdmin), auditHandler.GetAuditLogs)
	}
}
