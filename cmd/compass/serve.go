package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/growth-compass/internal/assessments"
	"github.com/jonathan/growth-compass/internal/catalog"
	"github.com/jonathan/growth-compass/internal/observability"
	"github.com/jonathan/growth-compass/internal/recommend"
	"github.com/jonathan/growth-compass/internal/server"
	"github.com/jonathan/growth-compass/internal/server/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the assessment, recommendation and catalog endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT and the config file)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	port := cfg.Port
	if servePort > 0 {
		port = servePort
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry, err := assessments.Load()
	if err != nil {
		return fmt.Errorf("failed to load assessments: %w", err)
	}
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	metrics, err := observability.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	deps := server.Deps{
		Registry:    registry,
		Catalog:     cat,
		Metrics:     metrics,
		Gatherer:    prometheus.DefaultGatherer,
		RateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		Logger:      logger,
		CORSOrigin:  cfg.CORSOrigin,
	}

	if cfg.HasStore() {
		st, closeStore, err := openStore(ctx, cfg.DatabaseURL, cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to open result store: %w", err)
		}
		defer closeStore()

		augmenter, closeLLM, err := newSummarizer(ctx, cfg, logger, metrics)
		if err != nil {
			return err
		}
		defer closeLLM()

		deps.Recommender = recommend.NewService(st, cat, serviceOptions(augmenter, metrics, logger)...)
		deps.Results = st
	} else {
		logger.Warn("no result store configured; recommendation and result endpoints are unavailable")
	}

	jwtConfig, err := cfg.JWT()
	if err != nil {
		logger.Warn("authentication disabled", zap.Error(err))
	} else {
		deps.JWT = server.NewJWTService(jwtConfig)
	}

	srv, err := server.New(port, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("catalog loaded",
		zap.Int("resources", cat.Size()),
		zap.Int("assessments", len(registry.IDs())),
	)

	return srv.Start(ctx)
}
