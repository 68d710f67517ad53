// Package main implements the entry point for the postboard API server,
// a versioned CRUD API over posts with a cached list endpoint and a
// JWT-gated v2 surface.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"postboard/internal/config"
	"postboard/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command (up, down, status) and exit")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// run loads configuration, wires the application together and either runs
// the requested migration command or starts the HTTP server.
func run(migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(logger.LoggerConfig{Level: cfg.Server.LogLevel})
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("configuration loaded",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"cache_type", cfg.Cache.Type,
		"database_url", maskDatabaseURL(cfg.Database.URL))

	if migrateCmd != "" {
		if err := runMigrations(cfg, migrateCmd); err != nil {
			return fmt.Errorf("migration command %q failed: %w", migrateCmd, err)
		}
		return nil
	}

	ctx := context.Background()

	db, err := setupAppDatabase(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		// The application owns db only once construction succeeds.
		if closeErr := db.Close(); closeErr != nil {
			appLogger.Error("error closing database connection", "error", closeErr)
		}
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}

// maskDatabaseURL hides the credential part of a database URL for logging.
func maskDatabaseURL(url string) string {
	scheme := strings.Index(url, "://")
	at := strings.LastIndexByte(url, '@')
	if scheme < 0 || at < 0 || at < scheme+3 {
		return url
	}
	return url[:scheme+3] + "***:***" + url[at:]
}
