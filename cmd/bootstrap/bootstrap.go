package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-dental-clinic/config"
	deliveryHttp "go-dental-clinic/internal/delivery/http"
	"go-dental-clinic/internal/delivery/http/handler"
	"go-dental-clinic/internal/delivery/http/middleware"
	"go-dental-clinic/internal/infrastructure/cache"
	"go-dental-clinic/internal/infrastructure/database"
	"go-dental-clinic/internal/infrastructure/payment"
	"go-dental-clinic/internal/repository"
	"go-dental-clinic/internal/service"
	"go-dental-clinic/internal/usecase"
	"go-dental-clinic/pkg/jwt"
	"go-dental-clinic/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	app.Log = setupLogger(cfg.App.LogLevel)
	app.Log.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env == "development")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	app.Log.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	app.Log.Info("Redis connected successfully")

	// Initialize all layers
	app.Server = initializeServer(cfg, app.Log, db, redisClient)

	return app, nil
}

// setupLogger configures the standard logrus logger and returns it
func setupLogger(level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, log *logrus.Logger, db *gorm.DB, redisClient *redis.Client) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	clinicRepo := repository.NewClinicRepository()
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	patientRepo := repository.NewPatientRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	ledgerRepo := repository.NewLedgerRepository()
	anamnesisRepo := repository.NewAnamnesisRepository()
	odontogramRepo := repository.NewOdontogramRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	tokenStore := service.NewTokenStore(redisClient, log)
	slotHold := service.NewSlotHoldService(redisClient, log, cfg.Booking.SlotHoldTTL)
	gateway := payment.NewStripeGateway(payment.StripeConfig{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		PriceID:       cfg.Stripe.PriceID,
		SuccessURL:    cfg.Stripe.SuccessURL,
		CancelURL:     cfg.Stripe.CancelURL,
	}, log)

	// Initialize usecases
	tz := cfg.App.DefaultTimezone
	authUsecase := usecase.NewAuthUsecase(db, log, clinicRepo, userRepo, roleRepo, auditService, tokenStore, jwtService, tz)
	clinicUsecase := usecase.NewClinicUsecase(db, log, clinicRepo, auditService)
	doctorUsecase := usecase.NewDoctorUsecase(db, log, userRepo, doctorProfileRepo, auditService, tokenStore)
	patientUsecase := usecase.NewPatientUsecase(db, log, patientRepo, auditService)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, clinicRepo, doctorProfileRepo, patientRepo,
		appointmentRepo, ledgerRepo, auditService, slotHold, cfg.Booking.SlotGranularity, tz)
	clinicalRecordUsecase := usecase.NewClinicalRecordUsecase(db, log, patientRepo, anamnesisRepo, odontogramRepo, auditService)
	ledgerUsecase := usecase.NewLedgerUsecase(db, log, ledgerRepo, appointmentRepo, auditService)
	billingUsecase := usecase.NewBillingUsecase(db, log, clinicRepo, userRepo, auditService, gateway)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	handlers := deliveryHttp.Handlers{
		Auth:           handler.NewAuthHandler(authUsecase, customValidator),
		Clinic:         handler.NewClinicHandler(clinicUsecase, customValidator),
		Doctor:         handler.NewDoctorHandler(doctorUsecase, customValidator),
		Patient:        handler.NewPatientHandler(patientUsecase, customValidator),
		Appointment:    handler.NewAppointmentHandler(appointmentUsecase, customValidator),
		ClinicalRecord: handler.NewClinicalRecordHandler(clinicalRecordUsecase, customValidator),
		Ledger:         handler.NewLedgerHandler(ledgerUsecase, customValidator),
		Billing:        handler.NewBillingHandler(billingUsecase),
		AuditLog:       handler.NewAuditLogHandler(auditLogUsecase),
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokenStore, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSAllowedOrigin)
	loggingMiddleware := middleware.NewLoggingMiddleware(log)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	// Initialize router
	router := deliveryHttp.NewRouter(handlers, authMiddleware, corsMiddleware, loggingMiddleware, rateLimiter)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
