package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"postboard/internal/cache"
	"postboard/internal/config"
	"postboard/internal/platform/postgres"
	"postboard/internal/service"
	"postboard/internal/service/auth"
	"postboard/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown. Everything is
// constructed once at process start and passed into the handlers; there are
// no package-level singletons.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	postStore store.PostStore
	cache     cache.Cache

	jwtService  auth.JWTService
	postService *service.PostService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts the core dependencies that must be established
// before application initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.postStore = postgres.NewPostgresPostStore(db, logger)

	app.cache, err = setupCache(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	logger.Info("list cache initialized",
		"type", cfg.Cache.Type,
		"default_ttl_seconds", cfg.Cache.DefaultTimeoutSeconds)

	listTTL := time.Duration(cfg.Cache.DefaultTimeoutSeconds) * time.Second
	app.postService, err = service.NewPostService(app.postStore, app.cache, listTTL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create post service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// setupCache constructs the cache backend selected by configuration.
// "memory" is per-process: one replica's invalidations are invisible to the
// others. "redis" is shared across replicas.
func setupCache(cfg config.CacheConfig) (cache.Cache, error) {
	defaultTTL := time.Duration(cfg.DefaultTimeoutSeconds) * time.Second

	switch cfg.Type {
	case "redis":
		return cache.NewRedisCache(cfg.RedisURL, defaultTTL)
	case "memory":
		return cache.NewMemoryCache(defaultTTL), nil
	default:
		return nil, fmt.Errorf("unknown cache type %q", cfg.Type)
	}
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.cache != nil {
		if err := app.cache.Close(); err != nil {
			app.logger.Error("error closing cache", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
