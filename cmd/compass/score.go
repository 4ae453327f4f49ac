package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/growth-compass/internal/assessments"
	"github.com/jonathan/growth-compass/internal/observability"
	"github.com/jonathan/growth-compass/internal/scoring"
	"github.com/jonathan/growth-compass/internal/types"
	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score an answers file against an assessment",
	Long:  "Scores a JSON answers file ({\"answers\": [...], \"priorities\": [...]}) and prints the result and the insights that would be stored.",
	RunE:  runScore,
}

var (
	scoreAssessment string
	scoreAnswers    string
	scoreOutput     string
	scoreEmail      string
	scoreName       string
	scoreSQLite     string
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreAssessment, "assessment", "a", "", "Assessment id (required)")
	scoreCmd.Flags().StringVarP(&scoreAnswers, "answers", "i", "", "Path to answers JSON file (required)")
	scoreCmd.Flags().StringVarP(&scoreOutput, "out", "o", "", "Path to write the scored result JSON")
	scoreCmd.Flags().StringVar(&scoreEmail, "email", "", "Save the result for this member (requires --sqlite)")
	scoreCmd.Flags().StringVar(&scoreName, "name", "", "Member name to record with --email")
	scoreCmd.Flags().StringVar(&scoreSQLite, "sqlite", "", "Path to the SQLite result store")

	if err := scoreCmd.MarkFlagRequired("assessment"); err != nil {
		panic(fmt.Sprintf("failed to mark assessment flag as required: %v", err))
	}
	if err := scoreCmd.MarkFlagRequired("answers"); err != nil {
		panic(fmt.Sprintf("failed to mark answers flag as required: %v", err))
	}
	scoreCmd.MarkFlagsRequiredTogether("email", "sqlite")

	rootCmd.AddCommand(scoreCmd)
}

// scoredOutput is the JSON written by --out.
type scoredOutput struct {
	Result    *scoring.Result `json:"result"`
	Insights  map[string]any  `json:"insights"`
	Responses map[string]any  `json:"responses"`
}

func runScore(cmd *cobra.Command, _ []string) error {
	registry, err := assessments.Load()
	if err != nil {
		return fmt.Errorf("failed to load assessments: %w", err)
	}
	cfg, ok := registry.Get(scoreAssessment)
	if !ok {
		return fmt.Errorf("unknown assessment %q (available: %s)", scoreAssessment, strings.Join(registry.IDs(), ", "))
	}

	var req types.SubmitAnswersRequest
	if err := readJSON(scoreAnswers, &req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid answers file: %w", err)
	}

	answers := scoring.NewAnswerSet(req.Answers...)
	for id := range answers {
		if !cfg.HasQuestion(id) {
			return fmt.Errorf("question %q is not part of assessment %s", id, cfg.ID)
		}
	}

	result, err := scoring.Score(cfg, answers)
	if err != nil {
		return err
	}
	out := scoredOutput{
		Result:    result,
		Insights:  scoring.BuildInsights(cfg, result),
		Responses: scoring.BuildResponses(answers, req.Priorities),
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintScoreResult(result)

	if scoreOutput != "" {
		if err := writeJSON(scoreOutput, out); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", scoreOutput)
	}

	if scoreEmail == "" {
		return nil
	}
	return saveScored(cmd, cfg.ID, out)
}

func saveScored(cmd *cobra.Command, assessmentID string, out scoredOutput) error {
	ctx := context.Background()
	st, closeStore, err := openStore(ctx, "", scoreSQLite)
	if err != nil {
		return fmt.Errorf("failed to open result store: %w", err)
	}
	defer closeStore()
	if st == nil {
		return fmt.Errorf("--sqlite is required with --email")
	}

	if scoreName != "" {
		if _, err := st.UpsertProfile(ctx, scoreEmail, scoreName); err != nil {
			return err
		}
	}

	saved, err := st.SaveAssessmentResult(ctx, types.AssessmentResult{
		Email:          scoreEmail,
		AssessmentType: assessmentID,
		Insights:       out.Insights,
		Responses:      out.Responses,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved result %s for %s\n", saved.ID, saved.Email)
	return nil
}
