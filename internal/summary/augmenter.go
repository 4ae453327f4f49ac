// Package summary produces the optional narrative summary of a member's
// signals. Failures never reach the caller: they are logged and counted.
package summary

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/growth-compass/internal/llm"
	"github.com/jonathan/growth-compass/internal/observability"
	"github.com/jonathan/growth-compass/internal/prompts"
	"github.com/jonathan/growth-compass/internal/signals"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single summary call.
const DefaultTimeout = 15 * time.Second

const promptFile = "recommendations.json"

// Augmenter calls an LLM once per request to summarize signals.
type Augmenter struct {
	client  llm.Client
	logger  *zap.Logger
	metrics *observability.Metrics
	timeout time.Duration
	tier    llm.ModelTier
}

// Option configures an Augmenter.
type Option func(*Augmenter)

// WithLogger sets the logger used for failures.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Augmenter) { a.logger = logger }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *observability.Metrics) Option {
	return func(a *Augmenter) { a.metrics = m }
}

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(a *Augmenter) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// New returns an Augmenter. A nil client disables summaries.
func New(client llm.Client, opts ...Option) *Augmenter {
	a := &Augmenter{
		client:  client,
		logger:  zap.NewNop(),
		timeout: DefaultTimeout,
		tier:    llm.TierLite,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Summarize returns a short narrative for the member, or nil when there are
// no challenge signals, no client is configured, or the call fails.
func (a *Augmenter) Summarize(ctx context.Context, sig signals.Set, memberName string) *string {
	if a == nil || a.client == nil || len(sig.Challenges) == 0 {
		if a != nil {
			a.metrics.RecordSummary(observability.SummarySkipped)
		}
		return nil
	}

	prompt, err := BuildPrompt(sig, memberName)
	if err != nil {
		a.fail("failed to build summary prompt", err)
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.client.GenerateContent(callCtx, prompt, a.tier)
	if err != nil {
		a.fail("summary generation failed", err)
		return nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		a.fail("summary generation failed", fmt.Errorf("empty response"))
		return nil
	}

	a.metrics.RecordSummary(observability.SummaryGenerated)
	return &text
}

func (a *Augmenter) fail(msg string, err error) {
	a.logger.Warn(msg,
		zap.Error(err),
		zap.String("model", a.client.GetModel(a.tier)),
	)
	a.metrics.RecordSummary(observability.SummaryFailed)
}

// BuildPrompt renders the summary prompt for a set of signals.
func BuildPrompt(sig signals.Set, memberName string) (string, error) {
	key := "growth-summary"
	if strings.TrimSpace(memberName) == "" {
		key = "growth-summary-anonymous"
	}

	return prompts.Render(promptFile, key, map[string]string{
		"Name":             memberName,
		"TotalAssessments": strconv.Itoa(sig.TotalResults),
		"Challenges":       joinOrNone(sig.ChallengeLabels()),
		"Skills":           joinOrNone(sig.SkillLabels()),
		"Needs":            joinOrNone(sig.NeedLabels()),
		"FocusAreas":       joinOrNone(sig.FocusAreaLabels()),
	})
}

func joinOrNone(labels []string) string {
	if len(labels) == 0 {
		return "none"
	}
	return strings.Join(labels, ", ")
}
