package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	portsrepo "github.com/SscSPs/treasury_backoffice/internal/core/ports/repositories"
	"github.com/SscSPs/treasury_backoffice/internal/platform/config"
	"github.com/SscSPs/treasury_backoffice/internal/platform/metrics"
	"github.com/SscSPs/treasury_backoffice/internal/platform/server"
	"github.com/SscSPs/treasury_backoffice/internal/repositories/database/pgsql"
	"github.com/SscSPs/treasury_backoffice/internal/repositories/memory"
	"github.com/SscSPs/treasury_backoffice/internal/repositories/seed"
	"github.com/SscSPs/treasury_backoffice/pkg/database"
	"golang.org/x/crypto/bcrypt"
)

// @title FRCHQ Back-office API
// @version 1.0
// @description Cheque remittance slips (FRCHQ): creation, validation, bank deposit and clearing.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()
	var repos portsrepo.RepositoryProvider

	switch cfg.StorageBackend {
	case config.StorageMemory:
		logger.Warn("Using in-memory storage; data is lost on restart")
		repos = memory.NewRepositoryProvider(memory.NewStore())
		cfg.SeedDemoData = true
	default:
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer database.ClosePgxPool(dbPool, logger)

		logger.Info("Running database migrations...", slog.String("source", cfg.MigrationsPath))
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			logger.Error("Database migrations failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		repos = pgsql.NewRepositoryProvider(dbPool)
	}

	if cfg.SeedDemoData {
		if err := seed.Demo(ctx, repos, bcrypt.DefaultCost, time.Now(), logger); err != nil {
			logger.Error("Failed to seed demo data", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	r, err := server.NewRouter(cfg, logger, repos, metrics.New())
	if err != nil {
		logger.Error("Failed to build router", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageBackend))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
