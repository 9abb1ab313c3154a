// Package server assembles the gin engine of the API backend.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	portsrepo "github.com/SscSPs/treasury_backoffice/internal/core/ports/repositories"
	"github.com/SscSPs/treasury_backoffice/internal/core/services"
	"github.com/SscSPs/treasury_backoffice/internal/handlers"
	"github.com/SscSPs/treasury_backoffice/internal/middleware"
	"github.com/SscSPs/treasury_backoffice/internal/platform/config"
	"github.com/SscSPs/treasury_backoffice/internal/platform/metrics"
	"github.com/SscSPs/treasury_backoffice/internal/repositories/memory"
	"github.com/SscSPs/treasury_backoffice/internal/repositories/seed"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// NewRouter wires services over repos and returns the configured engine.
func NewRouter(cfg *config.Config, logger *slog.Logger, repos portsrepo.RepositoryProvider, m *metrics.Metrics) (*gin.Engine, error) {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, metrics, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), middleware.RequestMetrics(m), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	svc := services.NewServiceContainer(cfg, repos, services.WithTransitionRecorder(m))
	if err := handlers.RegisterRoutes(r, cfg, svc, m.Handler()); err != nil {
		return nil, err
	}
	return r, nil
}

// NewDemoRouter serves an in-memory store seeded with the demo data. It is
// what the memory storage backend and integration tests run.
func NewDemoRouter(cfg *config.Config, logger *slog.Logger) (*gin.Engine, *memory.Store, error) {
	store := memory.NewStore()
	repos := memory.NewRepositoryProvider(store)
	if err := seed.Demo(context.Background(), repos, bcrypt.MinCost, time.Now(), logger); err != nil {
		return nil, nil, err
	}
	r, err := NewRouter(cfg, logger, repos, metrics.New())
	if err != nil {
		return nil, nil, err
	}
	return r, store, nil
}
