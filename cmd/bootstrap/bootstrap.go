package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinical-scan-support/config"
	deliveryHttp "clinical-scan-support/internal/delivery/http"
	"clinical-scan-support/internal/delivery/http/handler"
	"clinical-scan-support/internal/delivery/http/middleware"
	"clinical-scan-support/internal/infrastructure/cache"
	"clinical-scan-support/internal/infrastructure/database"
	"clinical-scan-support/internal/infrastructure/storage"
	"clinical-scan-support/internal/repository"
	"clinical-scan-support/internal/service"
	"clinical-scan-support/internal/usecase"
	"clinical-scan-support/pkg/jwt"
	"clinical-scan-support/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Delivery    *service.DeliveryService
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	setupLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	server, delivery, err := initializeServer(cfg, db, redisClient)
	if err != nil {
		return nil, err
	}
	app.Server = server
	app.Delivery = delivery

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer wires every layer and returns the HTTP server plus the
// delivery worker, which the caller owns for shutdown.
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*http.Server, *service.DeliveryService, error) {
	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()
	log := logrus.StandardLogger()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	scanRepo := repository.NewScanRepository(db)
	otpRepo := repository.NewOTPRepository(db)

	// Infrastructure services
	scanStorage, err := storage.NewLocalStorage(cfg.Storage.UploadDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize scan storage: %w", err)
	}

	mailer, err := service.NewSMTPMailer(cfg.SMTP)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize mailer: %w", err)
	}

	classifier := service.NewHTTPClassifier(cfg.AI, log)
	reportService := service.NewReportService(scanStorage, log)

	delivery, err := service.NewDeliveryService(cfg.Storage.ReportsDir, mailer, log, cfg.Delivery.QueueSize)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize delivery worker: %w", err)
	}

	// Usecases
	authUsecase := usecase.NewAuthUsecase(log, userRepo, jwtService, redisClient)
	otpUsecase := usecase.NewOTPUsecase(log, otpRepo, userRepo, mailer, jwtService, redisClient, cfg.OTP)
	scanUsecase := usecase.NewScanLifecycleUsecase(log, scanRepo, userRepo, scanStorage, classifier, reportService, delivery)

	// Handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, jwtService)
	otpHandler := handler.NewOTPHandler(otpUsecase, customValidator)
	patientHandler := handler.NewPatientHandler(scanUsecase)
	doctorHandler := handler.NewDoctorHandler(scanUsecase)
	pharmacistHandler := handler.NewPharmacistHandler(scanUsecase)
	adminHandler := handler.NewAdminHandler(scanUsecase)
	reportHandler := handler.NewReportHandler(scanUsecase)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Router
	router := deliveryHttp.NewRouter(
		authHandler,
		otpHandler,
		patientHandler,
		doctorHandler,
		pharmacistHandler,
		adminHandler,
		reportHandler,
		authMiddleware,
		corsMiddleware,
	)
	httpRouter := router.Setup()

	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}

	return server, delivery, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close drains the delivery worker and closes all connections
func (app *App) Close() {
	if app.Delivery != nil {
		app.Delivery.Stop()
	}

	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
