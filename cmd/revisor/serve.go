package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/revisor/internal/config"
	"github.com/kailas-cloud/revisor/internal/db"
	dbRedis "github.com/kailas-cloud/revisor/internal/db/redis"
	"github.com/kailas-cloud/revisor/internal/domain"
	logpkg "github.com/kailas-cloud/revisor/internal/logger"
	"github.com/kailas-cloud/revisor/internal/metrics"
	"github.com/kailas-cloud/revisor/internal/repository/completioncache"
	workspacerepo "github.com/kailas-cloud/revisor/internal/repository/workspace"
	chiTransport "github.com/kailas-cloud/revisor/internal/transport/chi"
	geminiGen "github.com/kailas-cloud/revisor/internal/transport/gemini"
	openaiGen "github.com/kailas-cloud/revisor/internal/transport/openai"
	"github.com/kailas-cloud/revisor/internal/usecase/completion"
	edituc "github.com/kailas-cloud/revisor/internal/usecase/edit"
	healthuc "github.com/kailas-cloud/revisor/internal/usecase/health"
	"github.com/kailas-cloud/revisor/internal/usecase/locate"
	reviewuc "github.com/kailas-cloud/revisor/internal/usecase/review"
	workspaceuc "github.com/kailas-cloud/revisor/internal/usecase/workspace"
	"github.com/kailas-cloud/revisor/internal/version"
)

func serve(ctx context.Context, cmd *cli.Command) error {
	env := cmd.String("env")

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting revisor API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("provider", cfg.Generation.Provider),
		zap.String("model", cfg.Generation.Model),
		zap.Int("credentials", len(cfg.Generation.Credentials)),
		zap.Strings("cache_addrs", cfg.Cache.Addrs),
	)

	// Register metrics explicitly (no init())
	metrics.Register(prometheus.DefaultRegisterer)

	// Optional completion cache
	var store db.Store
	if cfg.Cache.Enabled() {
		rs, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			return fmt.Errorf("failed to create cache store: %w", err)
		}
		defer rs.Close()

		if err := rs.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			return fmt.Errorf("cache not ready: %w", err)
		}
		logger.Info("Connected to completion cache")
		store = rs
	}

	generator := buildGenerator(cfg, store, logger)

	// Use case services
	workspaces := workspacerepo.New(cfg.Workspaces.MaxOpen)
	workspaceSvc := workspaceuc.New(workspaces)
	editSvc := edituc.New(
		completion.New(generator, logger),
		locate.New(cfg.Locator.Threshold, logger),
		cfg.Generation.Credentials,
		logger,
	)
	reviewSvc := reviewuc.New(workspaces, logger)

	// Pass nil interfaces (not typed nil pointers) for absent components.
	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	var genChecker healthuc.GenerationChecker
	if hc, ok := generator.(domain.HealthChecker); ok && cfg.Generation.HealthCheck {
		genChecker = hc
	}
	healthSvc := healthuc.New(cachePinger, genChecker)

	server := chiTransport.NewServer(workspaceSvc, editSvc, reviewSvc, healthSvc, logger)
	handler := chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error during shutdown", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", zap.Error(err))
		return err
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// buildGenerator assembles the decorator chain: provider -> cached.
func buildGenerator(cfg config.Config, store db.Store, logger *zap.Logger) domain.Generator {
	timeout := time.Duration(cfg.Generation.TimeoutSec) * time.Second

	var healthKey string
	if len(cfg.Generation.Credentials) > 0 {
		healthKey = cfg.Generation.Credentials[0]
	}

	var base domain.Generator
	model := cfg.Generation.Model
	switch cfg.Generation.Provider {
	case config.ProviderOpenAI:
		base = openaiGen.NewGenerator(&openaiGen.Config{
			BaseURL:     cfg.Generation.BaseURL,
			Model:       model,
			Temperature: cfg.Generation.Temperature,
			Provider:    config.ProviderOpenAI,
			Timeout:     timeout,
			HealthKey:   healthKey,
			Logger:      logger,
		})
	default:
		if model == "" {
			model = geminiGen.DefaultModel
		}
		base = geminiGen.NewGenerator(&geminiGen.Config{
			BaseURL:   cfg.Generation.BaseURL,
			Model:     model,
			Timeout:   timeout,
			HealthKey: healthKey,
			Logger:    logger,
		})
	}

	if store == nil {
		return base
	}
	return completioncache.New(base, store, completioncache.Config{
		Namespace: cfg.Generation.Provider + "/" + model,
		KeyPrefix: cfg.Cache.KeyPrefix,
		TTL:       time.Duration(cfg.Cache.TTLSec) * time.Second,
	}, metrics.CompletionCacheTotal, logger)
}
