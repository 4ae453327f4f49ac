package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/growth-compass/internal/config"
	"github.com/jonathan/growth-compass/internal/db"
	"github.com/jonathan/growth-compass/internal/llm"
	"github.com/jonathan/growth-compass/internal/observability"
	"github.com/jonathan/growth-compass/internal/recommend"
	"github.com/jonathan/growth-compass/internal/summary"
	"github.com/jonathan/growth-compass/internal/types"
	"go.uber.org/zap"
)

// store is what the commands need from either backend.
type store interface {
	recommend.Store
	UpsertProfile(ctx context.Context, email, name string) (*types.Profile, error)
	SaveAssessmentResult(ctx context.Context, r types.AssessmentResult) (*types.AssessmentResult, error)
}

func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel, verbose)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// openStore opens Postgres when a database URL is set, otherwise SQLite at
// sqlitePath. It returns a nil store when neither is configured.
func openStore(ctx context.Context, databaseURL, sqlitePath string) (store, func(), error) {
	switch {
	case databaseURL != "":
		pg, err := db.Connect(ctx, databaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		return pg, pg.Close, nil
	case sqlitePath != "":
		lite, err := db.OpenSQLite(ctx, sqlitePath)
		if err != nil {
			return nil, nil, err
		}
		return lite, func() { _ = lite.Close() }, nil
	default:
		return nil, func() {}, nil
	}
}

// newSummarizer returns nil when summaries are disabled.
func newSummarizer(ctx context.Context, cfg *config.Config, logger *zap.Logger, metrics *observability.Metrics) (*summary.Augmenter, func(), error) {
	if !cfg.SummariesEnabled() {
		logger.Info("summaries disabled: no LLM API key configured")
		return nil, func() {}, nil
	}

	llmConfig, err := llm.ConfigForProvider(cfg.LLMProvider)
	if err != nil {
		return nil, nil, err
	}
	if cfg.LLMModel != "" {
		llmConfig = llmConfig.WithModel(llm.TierLite, cfg.LLMModel)
	}
	if cfg.LLMBaseURL != "" {
		llmConfig.BaseURL = cfg.LLMBaseURL
	}

	client, err := llm.NewClient(ctx, llmConfig, cfg.LLMAPIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	augmenter := summary.New(client,
		summary.WithLogger(logger),
		summary.WithMetrics(metrics),
		summary.WithTimeout(cfg.SummaryTimeout),
	)
	return augmenter, func() { _ = client.Close() }, nil
}

func serviceOptions(augmenter *summary.Augmenter, metrics *observability.Metrics, logger *zap.Logger) []recommend.Option {
	opts := []recommend.Option{
		recommend.WithMetrics(metrics),
		recommend.WithLogger(logger),
	}
	if augmenter != nil {
		opts = append(opts, recommend.WithSummarizer(augmenter))
	}
	return opts
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
