package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"findtern_backend/database"
	"findtern_backend/internal/auth"
	"findtern_backend/internal/cache"
	"findtern_backend/internal/calendar"
	"findtern_backend/internal/config"
	"findtern_backend/internal/email"
	"findtern_backend/internal/events"
	"findtern_backend/internal/handlers"
	"findtern_backend/internal/logger"
	"findtern_backend/internal/metrics"
	"findtern_backend/internal/middleware"
	"findtern_backend/internal/models"
	"findtern_backend/internal/repositories"
	"findtern_backend/internal/routes"
	"findtern_backend/internal/services"
	"findtern_backend/internal/storage"
	"findtern_backend/internal/validator"
	"findtern_backend/internal/workers"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Infra - внешние зависимости приложения. Тесты собирают свою.
type Infra struct {
	DB        *gorm.DB
	Redis     *goredis.Client
	Storage   storage.Storage
	Mailer    email.Provider
	Publisher events.Publisher
	Scheduler calendar.MeetingScheduler
	Metrics   *metrics.Metrics
}

// Close освобождает соединения; ошибки только логируются
func (i *Infra) Close() {
	if i.Publisher != nil {
		if err := i.Publisher.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close event publisher")
		}
	}
	if i.Mailer != nil {
		if err := i.Mailer.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close mailer")
		}
	}
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close redis")
		}
	}
	if i.DB != nil {
		if sqlDB, err := i.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// InitLogger - логгер из секции log
func InitLogger(cfg *config.Config) {
	logger.InitWithOptions(logger.Options{
		Env:        cfg.Server.Env,
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	logger.Info("Logger initialized", "env", cfg.Server.Env)
}

// Run поднимает сервер и воркеры; завершается по отмене ctx (SIGINT/SIGTERM)
func Run(ctx context.Context, cfg *config.Config) error {
	auth.Setup(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute)

	infra, err := NewInfra(ctx, cfg)
	if err != nil {
		return err
	}
	defer infra.Close()

	if err := SeedFirstAdmin(infra.DB, cfg); err != nil {
		return fmt.Errorf("failed to seed first admin user: %w", err)
	}

	ginRouter, container := SetupRouter(cfg, infra)
	startWorkers(ctx, cfg, infra, container)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              address,
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server startup error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

// NewInfra подключает базу, redis, хранилище, почту, брокер и календарь
func NewInfra(ctx context.Context, cfg *config.Config) (*Infra, error) {
	infra := &Infra{Metrics: metrics.New()}

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	infra.DB = db
	logger.Info("Database connected")

	rdb, err := cache.NewRedis(ctx, cfg)
	if err != nil {
		infra.Close()
		return nil, err
	}
	infra.Redis = rdb
	logger.Info("Redis connected", "addr", cfg.Redis.Addr)

	infra.Storage, err = storage.NewStorage(ctx, storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		PresignTTL: time.Duration(cfg.Storage.PresignTTL) * time.Second,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		infra.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	infra.Mailer, err = newMailer(cfg)
	if err != nil {
		infra.Close()
		return nil, err
	}

	infra.Publisher = newPublisher(cfg)
	infra.Scheduler = newScheduler(cfg)
	return infra, nil
}

func newMailer(cfg *config.Config) (email.Provider, error) {
	if !cfg.Email.Enabled {
		logger.Warn("Email is disabled, using noop provider")
		return email.NewNoopProvider(), nil
	}

	templates, err := email.NewDefaultTemplateManager()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}
	provider := email.NewSMTPProvider(&email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
		Timeout:   10 * time.Second,
	}, templates)
	if err := provider.Validate(); err != nil {
		return nil, fmt.Errorf("invalid smtp config: %w", err)
	}
	logger.Info("SMTP email provider initialized", "host", cfg.Email.SMTPHost)
	return provider, nil
}

// newPublisher - брокер недоступен: работаем без событий
func newPublisher(cfg *config.Config) events.Publisher {
	if !cfg.RabbitMQ.Enabled {
		return events.NewNoopPublisher()
	}
	publisher, err := events.NewRabbitMQPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
	if err != nil {
		logger.WithError(err).Warn("RabbitMQ unavailable, events are disabled")
		return events.NewNoopPublisher()
	}
	logger.Info("RabbitMQ publisher initialized", "exchange", cfg.RabbitMQ.Exchange)
	return publisher
}

func newScheduler(cfg *config.Config) calendar.MeetingScheduler {
	if !cfg.Calendar.Enabled {
		logger.Warn("Calendar integration is disabled")
		return calendar.NewDisabledScheduler()
	}
	return calendar.NewGoogleScheduler(calendar.GoogleConfig{
		ClientID:     cfg.Calendar.ClientID,
		ClientSecret: cfg.Calendar.ClientSecret,
		RedirectURL:  cfg.Calendar.RedirectURL,
	})
}

// SetupRouter собирает сервисы, хэндлеры и маршруты
func SetupRouter(cfg *config.Config, infra *Infra) (*gin.Engine, *services.ServiceContainer) {
	// 1. Сервисы
	serviceContainer := initializeServices(cfg, infra)

	// 2. Хэндлеры
	appHandlers := initializeHandlers(serviceContainer)

	// 3. Gin
	ginRouter := initializeGinRouter(cfg, infra)

	// 4. Маршруты
	opts := routes.Options{
		Metrics: infra.Metrics,
		Health:  healthCheck(infra),
	}
	if local, ok := infra.Storage.(*storage.LocalStorage); ok {
		opts.UploadsDir = local.BasePath()
	}
	routes.RegisterRoutes(ginRouter, appHandlers, opts)

	return ginRouter, serviceContainer
}

func initializeServices(cfg *config.Config, infra *Infra) *services.ServiceContainer {
	// --- Репозитории ---
	userRepo := repositories.NewUserRepository()
	employerRepo := repositories.NewEmployerRepository()
	refreshTokenRepo := repositories.NewRefreshTokenRepository()
	projectRepo := repositories.NewProjectRepository()
	interviewRepo := repositories.NewInterviewRepository()
	proposalRepo := repositories.NewProposalRepository()
	onboardingRepo := repositories.NewOnboardingRepository()
	documentRepo := repositories.NewDocumentRepository()
	calendarTokenRepo := repositories.NewCalendarTokenRepository()
	analyticsRepo := repositories.NewAnalyticsRepository()
	shortlistRepo := repositories.NewShortlistRepository(infra.Redis, cfg.Redis.Prefix)

	// --- Сервисы ---
	authService := services.NewAuthService(userRepo, employerRepo, refreshTokenRepo, infra.Mailer, time.Duration(cfg.JWT.RefreshTTL)*time.Hour)
	employerService := services.NewEmployerService(employerRepo)
	projectService := services.NewProjectService(projectRepo, employerRepo, proposalRepo, cfg.Scheduling.DefaultTimezone)
	internService := services.NewInternService(userRepo)
	onboardingService := services.NewOnboardingService(onboardingRepo, userRepo)
	mediaService := services.NewMediaService(documentRepo, userRepo, infra.Storage, services.MediaConfig{
		MaxSize:           cfg.Upload.MaxSize,
		AllowedImageTypes: cfg.Upload.AllowedImageTypes,
		AllowedVideoTypes: cfg.Upload.AllowedVideoTypes,
		URLExpiry:         time.Duration(cfg.Storage.PresignTTL) * time.Second,
	})
	interviewService := services.NewInterviewService(
		interviewRepo, proposalRepo, projectRepo, userRepo, employerRepo, calendarTokenRepo,
		infra.Scheduler, infra.Mailer, infra.Publisher, infra.Metrics,
		services.InterviewConfig{
			DefaultTimezone: cfg.Scheduling.DefaultTimezone,
			MeetingDuration: time.Duration(cfg.Calendar.MeetingDuration) * time.Minute,
		},
	)
	proposalService := services.NewProposalService(proposalRepo, projectRepo, interviewRepo, userRepo, employerRepo, infra.Mailer, infra.Publisher, infra.Metrics)
	shortlistService := services.NewShortlistService(shortlistRepo, userRepo)
	analyticsService := services.NewAnalyticsService(analyticsRepo)
	calendarService := services.NewCalendarService(infra.Scheduler, calendarTokenRepo, employerRepo)

	return &services.ServiceContainer{
		AuthService:       authService,
		EmployerService:   employerService,
		ProjectService:    projectService,
		InternService:     internService,
		OnboardingService: onboardingService,
		MediaService:      mediaService,
		InterviewService:  interviewService,
		ProposalService:   proposalService,
		ShortlistService:  shortlistService,
		AnalyticsService:  analyticsService,
		CalendarService:   calendarService,
		EmailService:      infra.Mailer,
		Publisher:         infra.Publisher,
	}
}

func initializeHandlers(services *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:       handlers.NewAuthHandler(baseHandler, services.AuthService),
		EmployerHandler:   handlers.NewEmployerHandler(baseHandler, services.EmployerService, services.ProjectService),
		InternHandler:     handlers.NewInternHandler(baseHandler, services.InternService),
		OnboardingHandler: handlers.NewOnboardingHandler(baseHandler, services.OnboardingService, services.MediaService),
		InterviewHandler:  handlers.NewInterviewHandler(baseHandler, services.InterviewService),
		ProposalHandler:   handlers.NewProposalHandler(baseHandler, services.ProposalService),
		ShortlistHandler:  handlers.NewShortlistHandler(baseHandler, services.ShortlistService),
		AnalyticsHandler:  handlers.NewAnalyticsHandler(baseHandler, services.AnalyticsService),
		CalendarHandler:   handlers.NewCalendarHandler(baseHandler, services.CalendarService),
	}
}

func initializeGinRouter(cfg *config.Config, infra *Infra) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware(infra.Metrics))
	router.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))
	router.Use(middleware.DBMiddleware(infra.DB))
	// multipart целиком в память не держим
	router.MaxMultipartMemory = 8 << 20
	return router
}

func startWorkers(ctx context.Context, cfg *config.Config, infra *Infra, container *services.ServiceContainer) {
	workers.NewInterviewWorker(infra.DB, container.InterviewService, infra.Metrics,
		time.Duration(cfg.Workers.InterviewInterval)*time.Minute).Start(ctx)
	workers.NewMediaEvictionWorker(infra.DB, container.MediaService, infra.Metrics,
		time.Duration(cfg.Media.StagingTTL)*time.Hour,
		time.Duration(cfg.Media.EvictionInterval)*time.Minute).Start(ctx)
	workers.NewTokenCleanupWorker(infra.DB, container.AuthService, infra.Metrics, 0).Start(ctx)
}

func healthCheck(infra *Infra) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if infra.DB != nil {
			sqlDB, err := infra.DB.DB()
			if err != nil {
				return err
			}
			if err := sqlDB.PingContext(ctx); err != nil {
				return fmt.Errorf("database: %w", err)
			}
		}
		if infra.Redis != nil {
			if err := infra.Redis.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
		}
		return nil
	}
}

// SeedFirstAdmin создает админа из FIRST_ADMIN_EMAIL / FIRST_ADMIN_PASSWORD, если его еще нет
func SeedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := strings.ToLower(strings.TrimSpace(cfg.FirstAdminEmail))
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	userRepo := repositories.NewUserRepository()
	existing, err := userRepo.FindByEmail(db, adminEmail)
	switch {
	case err == nil:
		if existing.Role != models.UserRoleAdmin {
			return fmt.Errorf("user %s exists and is not an admin", adminEmail)
		}
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	case !errors.Is(err, repositories.ErrUserNotFound):
		return fmt.Errorf("failed to check for admin user: %w", err)
	}

	if err := auth.ValidatePassword(adminPassword); err != nil {
		return fmt.Errorf("first admin password: %w", err)
	}
	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		FirstName:    "Findtern",
		LastName:     "Admin",
		Email:        adminEmail,
		PasswordHash: hash,
		Role:         models.UserRoleAdmin,
	}
	if err := userRepo.Create(db, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("Created first admin user", "email", adminEmail)
	return nil
}
