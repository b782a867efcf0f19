package app

import (
	"fmt"
	"time"

	"eventsupply_backend/database"
	"eventsupply_backend/internal/config"
	"eventsupply_backend/internal/email"
	"eventsupply_backend/internal/handlers"
	"eventsupply_backend/internal/logger"
	"eventsupply_backend/internal/middleware"
	"eventsupply_backend/internal/repositories"
	"eventsupply_backend/internal/routes"
	"eventsupply_backend/internal/services"
	"eventsupply_backend/internal/validator"
	"eventsupply_backend/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	wsManager := ws.NewManager()
	go wsManager.Run()
	wsHandler := ws.NewHandler(wsManager)

	serviceContainer := initializeServices(cfg, gormDB, wsManager)
	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter(cfg, gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler)

	return ginRouter
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB, feed services.FeedPublisher) *services.ServiceContainer {
	var emailProvider email.Provider
	if cfg.Email.Enabled {
		provider, err := email.NewSMTPProvider(cfg)
		if err != nil {
			logger.Fatal("Failed to initialize SMTP provider", "error", err)
		}
		emailProvider = provider
		logger.Info("SMTP email provider initialized", "host", cfg.Email.SMTPHost)
	} else {
		emailProvider = email.NewNoopProvider()
		logger.Warn("Email sending disabled, using noop provider")
	}

	userRepo := repositories.NewUserRepository(gormDB)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(gormDB)
	go runTokenCleanup(refreshTokenRepo)
	profileRepo := repositories.NewProfileRepository(gormDB)
	connectionRepo := repositories.NewConnectionRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)
	rosterRepo := repositories.NewRosterRepository(gormDB)

	sessions := services.NewSessionCache(userRepo, profileRepo)

	authService := services.NewAuthService(userRepo, profileRepo, refreshTokenRepo, emailProvider, sessions)
	profileService := services.NewProfileService(profileRepo, sessions)
	connectionService := services.NewConnectionService(connectionRepo, notificationRepo, rosterRepo, emailProvider, feed)
	notificationService := services.NewNotificationService(notificationRepo)
	rosterService := services.NewRosterService(rosterRepo)

	return &services.ServiceContainer{
		AuthService:         authService,
		ProfileService:      profileService,
		ConnectionService:   connectionService,
		NotificationService: notificationService,
		RosterService:       rosterService,
		EmailService:        emailProvider,
		Sessions:            sessions,
	}
}

func initializeHandlers(sc *services.ServiceContainer) *handlers.AppHandlers {
	base := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(base, sc.AuthService),
		ProfileHandler:      handlers.NewProfileHandler(base, sc.ProfileService),
		ConnectionHandler:   handlers.NewConnectionHandler(base, sc.ConnectionService, sc.RosterService, sc.Sessions),
		NotificationHandler: handlers.NewNotificationHandler(base, sc.NotificationService),
	}
}

// runTokenCleanup periodically removes expired refresh tokens.
func runTokenCleanup(repo repositories.RefreshTokenRepository) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := repo.DeleteExpired(); err != nil {
			logger.WithError(err).Warn("expired refresh token cleanup failed")
		}
	}
}

func initializeGinRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestIDMiddleware())
	ginRouter.Use(middleware.LoggingMiddleware())
	ginRouter.Use(middleware.DBMiddleware(gormDB))

	return ginRouter
}
