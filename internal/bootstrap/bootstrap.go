package bootstrap

import (
	"context"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	appControllers "github.com/cgmis/guidance/internal/app/controllers"
	appMigrations "github.com/cgmis/guidance/internal/app/migrations"
	"github.com/cgmis/guidance/internal/app/models"
	appRepos "github.com/cgmis/guidance/internal/app/repositories"
	appRoutes "github.com/cgmis/guidance/internal/app/routes"
	appServices "github.com/cgmis/guidance/internal/app/services"
	"github.com/cgmis/guidance/internal/config"
	"github.com/cgmis/guidance/internal/db"
	appMiddleware "github.com/cgmis/guidance/internal/middleware"
	pkgAuth "github.com/cgmis/guidance/internal/pkg/auth"
	"github.com/cgmis/guidance/internal/pkg/helpers"
	"github.com/cgmis/guidance/internal/pkg/logger"
	"github.com/cgmis/guidance/internal/pkg/metrics"
	"github.com/cgmis/guidance/internal/pkg/validation"
	"github.com/cgmis/guidance/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	JWTService     *pkgAuth.JWTService
	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    *appRoutes.Controllers
	Metrics        *metrics.Recorder
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string, envFiles ...string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath, envFiles...)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := SetupLogger(cfg)
	lgr.Info().
		Str("logLevel", cfg.Logging.Level).
		Str("logFormat", cfg.Logging.Format).
		Str("mode", cfg.Server.Mode).
		Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupLogger configures the process logger from cfg
func SetupLogger(cfg *config.Config) zerolog.Logger {
	lc := logger.Config{
		Level:  logger.ParseLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Format == "text",
	}
	if cfg.Logging.File != "" {
		lc.File = &logger.FileConfig{
			Path:       cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
			Compress:   true,
		}
	}
	return logger.Configure(lc)
}

// SetupDatabase establishes the database connection.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")
	return database, nil
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, database *db.PostgresDB, lgr zerolog.Logger) error {
	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if _, err := migrator.Migrate(ctx, appMigrations.Files()); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	return nil
}

// SeedOptions translates the seed section of the configuration
func SeedOptions(cfg *config.Config) seed.Options {
	return seed.Options{
		Accounts: []seed.Account{
			{Email: cfg.Seed.AdminEmail, Password: cfg.Seed.AdminPassword, Role: models.RoleAdmin, FullName: "CGMIS Admin"},
			{Email: cfg.Seed.StaffEmail, Password: cfg.Seed.StaffPassword, Role: models.RoleStaff, FullName: "CGMIS Staff"},
		},
		SampleData: cfg.Seed.SampleData,
	}
}

// SeedDatabase creates the default accounts and, when configured, sample records.
func SeedDatabase(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
	inTx := func(ctx context.Context, fn func(context.Context, *appRepos.Repositories) error) error {
		return database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
			return fn(ctx, appRepos.NewRepositories(tx))
		})
	}
	seeder := seed.NewSeeder(appRepos.NewRepositories(database.Pool), inTx, lgr)
	return seeder.Run(ctx, SeedOptions(cfg))
}

var registerValidators = sync.OnceValue(func() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
	}
	return validation.Register(v)
})

// BuildDependencies initializes application services and controllers on top of repos.
// pinger backs the readiness check and may be nil.
func BuildDependencies(cfg *config.Config, repos *appRepos.Repositories, pinger appControllers.Pinger, lgr zerolog.Logger) (*Dependencies, error) {
	if err := registerValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	jwtService, err := pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, pkgAuth.DefaultTokenTTL),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize JWT service")
		return nil, fmt.Errorf("failed to initialize jwt service: %w", err)
	}

	deps := &Dependencies{
		Repos:      repos,
		JWTService: jwtService,
		Metrics:    metrics.NewRecorder(),
		Logger:     lgr,
	}
	deps.Services = appServices.NewServices(repos, jwtService, lgr)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(jwtService)
	deps.Controllers = &appRoutes.Controllers{
		Auth:      appControllers.NewAuthController(deps.Services.Auth, lgr),
		Users:     appControllers.NewUserController(deps.Services.Users),
		Students:  appControllers.NewStudentController(deps.Services.Students),
		Sessions:  appControllers.NewSessionController(deps.Services.Sessions),
		Analytics: appControllers.NewAnalyticsController(deps.Services.Analytics),
		Health:    appControllers.NewHealthController(pinger),
	}
	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	switch cfg.Server.Mode {
	case config.ModeProduction:
		gin.SetMode(gin.ReleaseMode)
	case config.ModeTest:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	lgr.Info().Str("ginMode", gin.Mode()).Msg("Gin mode set")

	return appRoutes.NewEngine(appRoutes.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		EnableSwagger:  !cfg.IsProduction(),
		Metrics:        deps.Metrics,
	}, deps.Controllers, deps.AuthMiddleware)
}
