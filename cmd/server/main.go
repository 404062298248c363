package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/rateaudit/internal/config"
	"github.com/JonMunkholm/rateaudit/internal/core"
	"github.com/JonMunkholm/rateaudit/internal/logging"
	"github.com/JonMunkholm/rateaudit/internal/rateengine"
	"github.com/JonMunkholm/rateaudit/internal/staging"
	"github.com/JonMunkholm/rateaudit/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"staging_backend", cfg.Staging.Backend,
		"rate_engine_enabled", cfg.RateEngine.Enabled,
		"max_concurrent_analyses", cfg.Upload.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("effective configuration", "config", cfg.String())

	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open staging store", "backend", cfg.Staging.Backend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	var engine core.RateEngine
	if cfg.RateEngine.Enabled {
		client, err := rateengine.NewClient(cfg.RateEngine.URL, cfg.RateEngine.Timeout)
		if err != nil {
			slog.Error("invalid rate engine configuration", "error", err)
			os.Exit(1)
		}
		engine = client
		slog.Info("rate engine configured", "endpoint", client.Endpoint(), "timeout", cfg.RateEngine.Timeout)
	} else {
		slog.Warn("rate engine disabled, every analysis uses fallback rates")
	}

	service, err := core.NewService(store, engine, core.ServiceConfig{
		MaxFileSize:     cfg.Upload.MaxFileSize,
		MaxConcurrent:   cfg.Upload.MaxConcurrent,
		MaxWait:         cfg.Upload.MaxWaitTime,
		EngineTimeout:   cfg.RateEngine.Timeout,
		AnalysisTimeout: cfg.Upload.AnalysisTimeout,
	})
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}

	server := web.NewServer(service, web.Options{
		RequestTimeout:    cfg.Server.RequestTimeout,
		RateLimitEnabled:  cfg.Rate.Enabled,
		RequestsPerMinute: cfg.Rate.RequestsPerMinute,
		UploadLimit:       cfg.Rate.UploadLimit,
		TrustedProxies:    cfg.Server.TrustedProxies,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	})

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	go service.StartStagingJanitor(jobCtx, core.JanitorConfig{
		Retention:     cfg.Staging.Retention,
		CheckInterval: cfg.Staging.JanitorInterval,
	})

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for active analyses to complete (with timeout)
		if status := service.Limiter().Status(); status.Active > 0 {
			slog.Info("waiting for analyses to complete", "active", status.Active)
			if err := service.WaitForAnalyses(shutdownCtx); err != nil {
				slog.Warn("analyses did not complete in time", "error", err)
			} else {
				slog.Info("all analyses completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openStore builds the configured staging backend. The returned func
// releases its resources.
func openStore(ctx context.Context, cfg *config.Config) (staging.Store, func(), error) {
	switch cfg.Staging.Backend {
	case config.BackendPostgres:
		pool, err := staging.NewPool(ctx, cfg.Database.URL, staging.PoolConfig{
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		})
		if err != nil {
			return nil, nil, err
		}

		store := staging.NewPostgresStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}

		// Log which database we connected to
		if u, err := url.Parse(cfg.Database.URL); err == nil {
			slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
		} else {
			slog.Info("connected to database")
		}
		return store, pool.Close, nil

	default:
		store, err := staging.NewFileStore(cfg.Staging.Dir)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("staging uploads on disk", "dir", store.Dir())
		return store, func() {}, nil
	}
}
