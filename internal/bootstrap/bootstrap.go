// Package bootstrap wires configuration, storage and the application layers.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/mkaraca/sideout/docs" // generated swagger docs
	appControllers "github.com/mkaraca/sideout/internal/app/controllers"
	appMigrations "github.com/mkaraca/sideout/internal/app/migrations"
	appRepos "github.com/mkaraca/sideout/internal/app/repositories"
	appRoutes "github.com/mkaraca/sideout/internal/app/routes"
	appServices "github.com/mkaraca/sideout/internal/app/services"
	"github.com/mkaraca/sideout/internal/config"
	"github.com/mkaraca/sideout/internal/db"
	appMiddleware "github.com/mkaraca/sideout/internal/middleware"
	pkgAuth "github.com/mkaraca/sideout/internal/pkg/auth"
	"github.com/mkaraca/sideout/internal/pkg/email"
	"github.com/mkaraca/sideout/internal/pkg/filestorage"
	"github.com/mkaraca/sideout/internal/pkg/helpers"
	"github.com/mkaraca/sideout/internal/pkg/logger"
	"github.com/mkaraca/sideout/internal/pkg/payments"
	"github.com/mkaraca/sideout/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services             *appServices.Services
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	FileStorage          *filestorage.LocalStorage
	AuthMiddleware       *appMiddleware.AuthMiddleware
	AuthController       *appControllers.AuthController
	UserController       *appControllers.UserController
	InstructorController *appControllers.InstructorController
	LocationController   *appControllers.LocationController
	LessonController     *appControllers.LessonController
	BookingController    *appControllers.BookingController
	ReviewController     *appControllers.ReviewController
	PaymentController    *appControllers.PaymentController
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds default data in development mode.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := migrator.ApplyDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations applied")

	if !cfg.IsProduction() {
		if err := seed.CreateDefaultData(context.Background(), database.Pool, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway")
		}
	}

	return database, nil
}

// BuildDependencies initializes repositories, services, controllers and middleware.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	var err error
	fileStorageBaseURL := strings.TrimRight(cfg.Server.BaseURL, "/") + "/uploads"
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, fileStorageBaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	emailService := email.NewSMTPService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		BaseURL:   cfg.Server.BaseURL,
	}, lgr)

	paymentProvider := payments.NewStripeProvider(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, lgr)

	deps.Services = appServices.NewServices(cfg, database, deps.Repos,
		deps.JWTService, emailService, paymentProvider, deps.FileStorage)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Repos.User)

	deps.AuthController = appControllers.NewAuthController(deps.Services.Auth, lgr)
	deps.UserController = appControllers.NewUserController(deps.Services.User, lgr)
	deps.InstructorController = appControllers.NewInstructorController(deps.Services.Instructor, deps.Services.Review, lgr)
	deps.LocationController = appControllers.NewLocationController(deps.Services.Location, lgr)
	deps.LessonController = appControllers.NewLessonController(deps.Services.Lesson, deps.Services.Booking, deps.Services.Review, lgr)
	deps.BookingController = appControllers.NewBookingController(deps.Services.Booking, lgr)
	deps.ReviewController = appControllers.NewReviewController(deps.Services.Review, lgr)
	deps.PaymentController = appControllers.NewPaymentController(deps.Services.Payment, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, database *db.PostgresDB, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(), gin.Recovery())

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.InstructorController,
		deps.LocationController,
		deps.LessonController,
		deps.BookingController,
		deps.ReviewController,
		deps.PaymentController,
		database,
		deps.AuthMiddleware,
	)

	lgr.Info().Str("mode", gin.Mode()).Msg("Router configured")
	return router
}
