package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"creatorhub_backend/internal/auth"
	"creatorhub_backend/internal/config"
	"creatorhub_backend/internal/email"
	"creatorhub_backend/internal/handlers"
	"creatorhub_backend/internal/imageprocessor"
	"creatorhub_backend/internal/logger"
	"creatorhub_backend/internal/middleware"
	"creatorhub_backend/internal/models"
	"creatorhub_backend/internal/notice"
	"creatorhub_backend/internal/repositories"
	"creatorhub_backend/internal/routes"
	"creatorhub_backend/internal/services"
	"creatorhub_backend/internal/storage"
	"creatorhub_backend/internal/validator"
	"creatorhub_backend/internal/verification"
	"creatorhub_backend/internal/workers"
	"creatorhub_backend/pkg/apperrors"
	"creatorhub_backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	cfg := config.GetConfig()

	var logFile io.WriteCloser
	if cfg.Log.File != "" {
		logFile = logger.NewRotatingFile(logger.FileConfig{
			Path:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
		})
		defer logFile.Close()
		logger.Init(cfg.Server.Env, logFile)
	} else {
		logger.Init(cfg.Server.Env)
	}
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	apperrors.SetDebug(!cfg.IsProduction())
	auth.Init(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute)

	gormDB, err := OpenDatabase(cfg.Database.DSN)
	if err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := Migrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ginRouter, container := SetupRouter(ctx, cfg, gormDB)

	cleanupDone := workers.NewCleanupWorker(
		gormDB,
		container.NotificationService,
		time.Duration(cfg.Workers.CleanupIntervalMinutes)*time.Minute,
		time.Duration(cfg.Workers.NotificationRetention)*24*time.Hour,
	).Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              address,
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "address", address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	for name, done := range map[string]<-chan struct{}{
		"cleanup worker": cleanupDone,
		"websocket hub":  container.Realtime.Stopped(),
	} {
		select {
		case <-done:
		case <-shutdownCtx.Done():
			logger.Warn("Background component did not stop in time", "component", name)
		}
	}
	logger.Info("Server stopped")
}

// OpenDatabase подключается к postgres; ошибки уникальности переводятся в gorm.ErrDuplicatedKey
func OpenDatabase(dsn string) (*gorm.DB, error) {
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get *sql.DB from GORM: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return gormDB, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.OnboardingDraft{},
		&models.Application{},
		&models.ApplicationStatusChange{},
		&models.Message{},
		&models.Notification{},
		&models.Ban{},
		&models.Contract{},
		&models.Payout{},
		&models.ChannelRequest{},
		&models.AccessLog{},
	)
}

// SetupRouter собирает зависимости; хаб websocket живет, пока жив ctx
func SetupRouter(ctx context.Context, cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, *services.ServiceContainer) {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	wsManager := ws.NewWebSocketManager()
	go wsManager.Run(ctx)
	wsHandler := ws.NewWebSocketHandler(wsManager, cfg.Server.AllowedOrigins)

	serviceContainer := initializeServices(ctx, cfg, storageInstance, wsManager)
	serviceContainer.Realtime = wsManager
	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter(gormDB, cfg.Server.AllowedOrigins)
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler, serviceContainer.BanService)

	return ginRouter, serviceContainer
}

func initializeServices(ctx context.Context, cfg *config.Config, storageInstance storage.Storage, publisher ws.Publisher) *services.ServiceContainer {
	emailService := newEmailProvider(cfg)
	notifier := notice.NewNotifier(newDeduper(ctx, cfg), publisher)
	verifier := newVerifier(cfg)

	limits := services.UploadLimits{
		MaxSize:      cfg.Upload.MaxSize,
		AllowedTypes: cfg.Upload.AllowedTypes,
	}

	userRepo := repositories.NewUserRepository()
	onboardingRepo := repositories.NewOnboardingRepository()
	appRepo := repositories.NewApplicationRepository()
	messageRepo := repositories.NewMessageRepository()
	notificationRepo := repositories.NewNotificationRepository()
	banRepo := repositories.NewBanRepository()
	contractRepo := repositories.NewContractRepository()
	payoutRepo := repositories.NewPayoutRepository()
	channelRepo := repositories.NewChannelRequestRepository()
	accessLogRepo := repositories.NewAccessLogRepository()

	notificationService := services.NewNotificationService(notificationRepo, userRepo, publisher)
	support := services.NewSupportDirectory(cfg.Support.AdminID, userRepo)

	return &services.ServiceContainer{
		AuthService: services.NewAuthService(userRepo),
		ProfileService: services.NewProfileService(userRepo, storageInstance,
			imageprocessor.NewProcessor(cfg.Upload.ImageQuality, cfg.Upload.AvatarSize), limits),
		OnboardingService:     services.NewOnboardingService(userRepo, onboardingRepo, appRepo, verifier, notifier, publisher),
		ApplicationService:    services.NewApplicationService(appRepo, emailService, publisher, notifier),
		MessageService:        services.NewMessageService(messageRepo, userRepo, support, storageInstance, publisher, limits),
		NotificationService:   notificationService,
		BanService:            services.NewBanService(banRepo, userRepo, notificationService, publisher),
		BalanceService:        services.NewBalanceService(contractRepo, payoutRepo, userRepo, notificationService, storageInstance, cfg.Upload.MaxSize),
		ChannelRequestService: services.NewChannelRequestService(channelRepo, userRepo, notificationService, emailService),
		AdminService:          services.NewAdminService(userRepo, appRepo, contractRepo, payoutRepo, banRepo, accessLogRepo),
		DashboardService:      services.NewDashboardService(userRepo, appRepo, notificationRepo, messageRepo, banRepo, payoutRepo),
		EmailService:          emailService,
		Storage:               storageInstance,
	}
}

func newEmailProvider(cfg *config.Config) email.Provider {
	if !cfg.Email.Enabled {
		logger.Warn("Email disabled, using mock provider")
		return &MockEmailProvider{}
	}

	provider := email.NewSMTPProvider(email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
		UseTLS:    cfg.Email.UseTLS,
	}, email.NewTemplateManager())
	if err := provider.Validate(); err != nil {
		logger.Fatal("Invalid email configuration", "error", err)
	}
	return provider
}

// newDeduper - redis, если он настроен и отвечает, иначе память процесса
func newDeduper(ctx context.Context, cfg *config.Config) notice.Deduper {
	if cfg.Notice.Backend == "redis" && cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		err := client.Ping(pingCtx).Err()
		if err == nil {
			logger.Info("Notice deduplication uses redis", "addr", cfg.Redis.Addr)
			return notice.NewRedisDeduper(client, cfg.NoticeWindow())
		}
		logger.Warn("Redis unavailable, falling back to in-memory notice deduplication", "error", err)
		_ = client.Close()
	}
	return notice.NewMemoryDeduper(cfg.NoticeWindow(), cfg.Notice.Capacity)
}

func newVerifier(cfg *config.Config) verification.Verifier {
	if cfg.Verification.Mode == "http" {
		return verification.NewHTTPVerifier(verification.HTTPConfig{
			Timeout:         time.Duration(cfg.Verification.TimeoutSeconds) * time.Second,
			BreakerFailures: cfg.Verification.BreakerFailures,
			BreakerOpen:     time.Duration(cfg.Verification.BreakerOpenSecs) * time.Second,
		})
	}
	return verification.NewStubVerifier(cfg.VerificationDelay())
}

func initializeHandlers(services *services.ServiceContainer) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, services.AuthService),
		ProfileHandler:      handlers.NewProfileHandler(baseHandler, services.ProfileService),
		OnboardingHandler:   handlers.NewOnboardingHandler(baseHandler, services.OnboardingService),
		ApplicationHandler:  handlers.NewApplicationHandler(baseHandler, services.ApplicationService),
		MessageHandler:      handlers.NewMessageHandler(baseHandler, services.MessageService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, services.NotificationService),
		BanHandler:          handlers.NewBanHandler(baseHandler, services.BanService),
		BalanceHandler:      handlers.NewBalanceHandler(baseHandler, services.BalanceService),
		ChannelHandler:      handlers.NewChannelHandler(baseHandler, services.ChannelRequestService),
		AdminHandler:        handlers.NewAdminHandler(baseHandler, services.AdminService),
		DashboardHandler:    handlers.NewDashboardHandler(baseHandler, services.DashboardService),
		FileHandler:         handlers.NewFileHandler(baseHandler, services.Storage),
	}
}

func initializeGinRouter(db *gorm.DB, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(allowedOrigins))
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

	var existing models.User
	err := db.Where("email = ?", adminEmail).First(&existing).Error
	if err == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}

	hashedPassword, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Email:              adminEmail,
		PasswordHash:       hashedPassword,
		Role:               models.UserRoleAdmin,
		FullName:           "Support",
		OnboardingComplete: true,
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user in database: %w", err)
	}

	logger.Info("Created first admin user", "email", adminEmail)
	return nil
}
