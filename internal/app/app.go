package app

import (
	"context"
	"errors"
	"fmt"

	"hireflow_backend/internal/config"
	"hireflow_backend/internal/email"
	"hireflow_backend/internal/handlers"
	"hireflow_backend/internal/logger"
	"hireflow_backend/internal/middleware"
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/repositories"
	"hireflow_backend/internal/routes"
	"hireflow_backend/internal/services"
	"hireflow_backend/internal/sync"
	"hireflow_backend/internal/validator"
	"hireflow_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		// Без первого админа приложение бесполезно - не запускаем сервер
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	dispatcher := sync.NewDispatcher(cfg.Sync.QueueSize)
	ginRouter := SetupRouter(cfg, gormDB, dispatcher)

	if cfg.Sync.Enabled {
		worker := workers.NewSyncWorker(gormDB, dispatcher, sync.NewLogMirror())
		worker.Start(context.Background())
		logger.Info("Candidate sync worker started", "queue_size", cfg.Sync.QueueSize)
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB, dispatcher *sync.Dispatcher) *gin.Engine {
	serviceContainer := initializeServices(cfg, dispatcher)
	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter(gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

// AutoMigrate прогоняет gorm-миграции всех моделей
func AutoMigrate(db *gorm.DB) error {
	// uuid_generate_v4 для первичных ключей
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to create uuid-ossp extension: %w", err)
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Job{},
		&models.Candidate{},
		&models.InterviewRound{},
		&models.Feedback{},
		&models.RejectionReason{},
	)
}

func initializeServices(cfg *config.Config, dispatcher *sync.Dispatcher) *services.ServiceContainer {
	var emailProvider email.Provider
	if cfg.Email.Enabled {
		provider, err := email.NewSMTPProvider(email.Config{
			SMTPHost:  cfg.Email.SMTPHost,
			SMTPPort:  cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		})
		if err != nil {
			logger.Fatal("Failed to initialize SMTP provider", "error", err)
		}
		emailProvider = provider
	} else {
		logger.Warn("Email delivery disabled. Using MOCK provider.")
		emailProvider = &MockEmailProvider{}
	}

	userRepo := repositories.NewUserRepository()
	jobRepo := repositories.NewJobRepository()
	candidateRepo := repositories.NewCandidateRepository()
	roundRepo := repositories.NewRoundRepository()
	feedbackRepo := repositories.NewFeedbackRepository()
	rejectionRepo := repositories.NewRejectionRepository()

	return services.NewServiceContainer(
		userRepo,
		jobRepo,
		candidateRepo,
		roundRepo,
		feedbackRepo,
		rejectionRepo,
		dispatcher,
		emailProvider,
	)
}

func initializeHandlers(container *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:      handlers.NewAuthHandler(baseHandler, container.Auth, container.Users),
		UserHandler:      handlers.NewUserHandler(baseHandler, container.Users),
		JobHandler:       handlers.NewJobHandler(baseHandler, container.Jobs),
		CandidateHandler: handlers.NewCandidateHandler(baseHandler, container.Candidates),
		RoundHandler:     handlers.NewRoundHandler(baseHandler, container.Rounds),
	}
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	var adminUser models.User
	result := tx.Where("email = ?", adminEmail).First(&adminUser)

	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		tx.Rollback()
		return nil
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found with specified email. Creating first admin...", "email", adminEmail)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Email:        adminEmail,
		PasswordHash: string(hashedPassword),
		FullName:     "Administrator",
		Role:         models.UserRoleAdmin,
		IsActive:     true,
	}

	if err := tx.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user in database: %w", err)
	}

	logger.Info("✅ Successfully created first admin user", "email", adminEmail)

	return tx.Commit().Error
}
