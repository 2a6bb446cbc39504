// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/shaynesullivan/stockshark-be/internal/adapters/db"
	redis_a "github.com/shaynesullivan/stockshark-be/internal/adapters/redis_adapter"
	"github.com/shaynesullivan/stockshark-be/internal/core/domain"
	"github.com/shaynesullivan/stockshark-be/internal/core/ports"
	"github.com/shaynesullivan/stockshark-be/internal/core/services"
	"github.com/shaynesullivan/stockshark-be/internal/handlers"
	"github.com/shaynesullivan/stockshark-be/internal/handlers/middleware"
	"github.com/shaynesullivan/stockshark-be/internal/pkg/config"
	"github.com/shaynesullivan/stockshark-be/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting stockshark inventory backend",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	slogger.Info("loading configuration")
	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
	)

	ctx := context.Background()

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	// Run database migrations if enabled
	if cfg.App.Environment != "production" {
		if err := runMigrations(ctx, cfg, slogger); err != nil {
			slogger.Error("failed to run migrations", slog.String("error", err.Error()))
			// Don't exit in development, just warn
		}
	}

	server := setupHTTPServer(cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
		)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		if deps.asynqClient != nil {
			if err := deps.asynqClient.Close(); err != nil {
				slogger.Error("failed to close Asynq client", slog.String("error", err.Error()))
			}
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	database          ports.Database
	redisClient       *redis.Client
	redisCache        ports.CacheRepository
	asynqClient       *asynq.Client
	asynqInspector    *asynq.Inspector
	credentialService *services.CredentialService
	inventoryService  *services.InventoryService
	authHandler       *handlers.AuthHandler
	inventoryHandler  *handlers.InventoryHandler
	statsHandler      *handlers.StatsHandler
	healthHandler     *handlers.HealthHandler
}

func (d *dependencies) cleanup() {
	if d.database != nil {
		d.database.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	logger.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name),
	)

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.database = database

	logger.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:            fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		MaxRetries:      cfg.Redis.MaxRetries,
		MinRetryBackoff: cfg.Redis.MinRetryBackoff,
		MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
		DialTimeout:     cfg.Redis.DialTimeout,
		ReadTimeout:     cfg.Redis.ReadTimeout,
		WriteTimeout:    cfg.Redis.WriteTimeout,
		PoolSize:        cfg.Redis.PoolSize,
		MinIdleConns:    cfg.Redis.MinIdleConns,
		PoolTimeout:     cfg.Redis.PoolTimeout,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	deps.redisClient = redisClient
	deps.redisCache = redis_a.NewCache(redisClient, cfg.Redis.TTL, logger)

	logger.Info("initializing Asynq client")

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
	deps.asynqClient = asynq.NewClient(asynqRedisOpt)
	deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)

	// Initialize repositories
	accountRepo := db.NewAccountRepository(database, logger)
	inventoryRepo := db.NewInventoryRepository(database, logger)

	// Initialize services
	deps.credentialService = services.NewCredentialService(accountRepo, domain.CredentialPolicy{
		MinUsernameLength: cfg.Policy.MinUsernameLength,
		MaxUsernameLength: cfg.Policy.MaxUsernameLength,
		MinPasswordLength: cfg.Policy.MinPasswordLength,
		MaxPasswordLength: cfg.Policy.MaxPasswordLength,
	}, logger)

	deps.inventoryService = services.NewInventoryService(inventoryRepo, domain.ItemPolicy{
		MaxNameLength:    cfg.Policy.MaxItemNameLength,
		MinQuantity:      cfg.Policy.MinItemQuantity,
		MaxQuantity:      cfg.Policy.MaxItemQuantity,
		MaxOwnerIDLength: cfg.Policy.MaxOwnerIDLength,
	}, logger)

	// Initialize handlers
	deps.authHandler = handlers.NewAuthHandler(deps.credentialService, deps.redisCache, handlers.AuthConfig{
		JWTSecret:        cfg.Security.JWTSecret,
		JWTExpiration:    cfg.Security.JWTExpiration,
		MaxLoginAttempts: cfg.Policy.MaxLoginAttempts,
		LockoutDuration:  cfg.Policy.LockoutDuration,
		FloorLatency:     cfg.Policy.AuthFloorLatency,
	}, logger)

	deps.inventoryHandler = handlers.NewInventoryHandler(
		deps.inventoryService,
		deps.redisCache,
		deps.asynqClient,
		cfg.Policy.LowStockThreshold,
		logger,
	)

	deps.statsHandler = handlers.NewStatsHandler(deps.credentialService, deps.inventoryService, logger)

	deps.healthHandler = handlers.NewHealthHandler(
		database,
		redisClient,
		deps.asynqInspector,
		cfg,
		logger,
	)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()

	var handler http.Handler = mux

	// Apply middleware in reverse order (innermost first)
	if cfg.App.Environment != "test" {
		handler = middleware.RequestID(handler)
		handler = middleware.Logger(logger)(handler)
		handler = middleware.Recovery(logger)(handler)
	}

	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}

	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}

	registerRoutes(mux, deps, cfg)

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

func registerRoutes(mux *http.ServeMux, deps *dependencies, cfg *config.Config) {
	apiV1 := "/api/v1"

	// Health and readiness endpoints
	mux.HandleFunc("GET /health", deps.healthHandler.Health)
	mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)
	mux.HandleFunc("GET "+apiV1+"/health", deps.healthHandler.Health)

	// Auth endpoints
	mux.HandleFunc("POST "+apiV1+"/auth/register", deps.authHandler.Register)
	mux.HandleFunc("POST "+apiV1+"/auth/login", deps.authHandler.Login)
	mux.HandleFunc("GET "+apiV1+"/auth/available", deps.authHandler.UsernameAvailable)

	// Item endpoints require a session token
	authed := middleware.Authenticate(cfg.Security.JWTSecret)

	mux.Handle("GET "+apiV1+"/items", authed(http.HandlerFunc(deps.inventoryHandler.ListItems)))
	mux.Handle("POST "+apiV1+"/items", authed(http.HandlerFunc(deps.inventoryHandler.CreateItem)))
	mux.Handle("PUT "+apiV1+"/items/{id}", authed(http.HandlerFunc(deps.inventoryHandler.UpdateItem)))
	mux.Handle("DELETE "+apiV1+"/items/{id}", authed(http.HandlerFunc(deps.inventoryHandler.DeleteItem)))

	// Stats endpoint
	mux.Handle("GET "+apiV1+"/stats", authed(http.HandlerFunc(deps.statsHandler.GetStats)))
}

func runMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("running database migrations")

	migrationConfig := &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		SourcePath:  cfg.Database.MigrationPath,
		TableName:   "schema_migrations",
		SchemaName:  "public",
	}

	return db.RunMigrationsWithRetry(ctx, migrationConfig, logger, 3)
}
