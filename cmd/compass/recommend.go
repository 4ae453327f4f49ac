package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/growth-compass/internal/catalog"
	"github.com/jonathan/growth-compass/internal/observability"
	"github.com/jonathan/growth-compass/internal/recommend"
	"github.com/jonathan/growth-compass/internal/signals"
	"github.com/jonathan/growth-compass/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Build a recommendation payload offline",
	Long: `Builds the recommendation payload for a member, either from a SQLite result
store (--email with --sqlite) or from a JSON array of assessment results (--results).`,
	RunE: runRecommend,
}

var (
	recommendEmail   string
	recommendName    string
	recommendSQLite  string
	recommendResults string
	recommendOutput  string
	recommendLimit   int
)

func init() {
	recommendCmd.Flags().StringVarP(&recommendEmail, "email", "e", "", "Member email")
	recommendCmd.Flags().StringVar(&recommendName, "name", "", "Member name (with --results)")
	recommendCmd.Flags().StringVar(&recommendSQLite, "sqlite", "", "Path to the SQLite result store")
	recommendCmd.Flags().StringVarP(&recommendResults, "results", "r", "", "Path to a JSON array of assessment results")
	recommendCmd.Flags().StringVarP(&recommendOutput, "out", "o", "", "Path to write the payload JSON (default stdout)")
	recommendCmd.Flags().IntVar(&recommendLimit, "limit", signals.DefaultLimit, "Signals kept per category")

	recommendCmd.MarkFlagsMutuallyExclusive("sqlite", "results")
	recommendCmd.MarkFlagsOneRequired("sqlite", "results")

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	// A private registry keeps repeated runs in one process from colliding.
	metrics, err := observability.NewMetrics(prometheus.NewRegistry())
	if err != nil {
		return err
	}

	augmenter, closeLLM, err := newSummarizer(ctx, cfg, logger, metrics)
	if err != nil {
		return err
	}
	defer closeLLM()
	opts := append(serviceOptions(augmenter, metrics, logger), recommend.WithSignalLimit(recommendLimit))

	var (
		payload *types.Recommendations
		results []types.AssessmentResult
	)
	if recommendResults != "" {
		if err := readJSON(recommendResults, &results); err != nil {
			return err
		}
		for i := range results {
			results[i].Insights, results[i].Responses = signals.Canonicalize(results[i].Insights, results[i].Responses)
		}
		var profile *types.Profile
		if recommendEmail != "" || recommendName != "" {
			profile = &types.Profile{Email: recommendEmail, Name: recommendName}
		}
		payload = recommend.NewService(nil, cat, opts...).Build(ctx, profile, results)
	} else {
		if recommendEmail == "" {
			return fmt.Errorf("--email is required with --sqlite")
		}
		st, closeStore, err := openStore(ctx, "", recommendSQLite)
		if err != nil {
			return fmt.Errorf("failed to open result store: %w", err)
		}
		defer closeStore()

		payload, err = recommend.NewService(st, cat, opts...).Recommend(ctx, recommendEmail)
		if err != nil {
			return err
		}
		if verbose {
			if results, err = st.ListAssessmentResults(ctx, recommendEmail); err != nil {
				return err
			}
		}
	}

	if verbose {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		printer.PrintSignals(signals.Aggregate(results, recommendLimit))
		printer.PrintRecommendations(payload)
	}

	if recommendOutput != "" {
		return writeJSON(recommendOutput, payload)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
