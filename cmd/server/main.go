package main

import (
	"fmt"
	"os"

	"identity-api/internal/api/routes"
	"identity-api/internal/config"
	"identity-api/internal/logger"
	"identity-api/internal/models"
	"identity-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/op/go-logging"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		logger.Errorf("Failed to load config: %v", err)
		os.Exit(1)
	}

	logLevel := logging.INFO
	if cfg.Server.Mode == "debug" {
		logLevel = logging.DEBUG
	}
	logger.Init(logLevel, cfg.Security.LogFile)
	defer logger.Close()

	// Initialize database
	if err := models.InitDB(cfg); err != nil {
		logger.Errorf("Failed to initialize database: %v", err)
		os.Exit(1)
	}

	// Create bootstrap SuperAdmin if database is empty
	authService := services.NewAuthService(cfg)
	if err := authService.CreateDefaultSuperAdmin(); err != nil {
		logger.Warningf("Failed to create default user: %v", err)
	}

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	r := gin.New()
	r.Use(gin.Recovery())

	// Setup routes
	routes.SetupRoutes(r, cfg)

	// Run server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Starting identity-api server on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Errorf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
