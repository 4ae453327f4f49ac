// Package recommend builds a member's recommendation payload from stored
// assessment results: aggregate signals, rank the catalog, attach a summary.
package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/growth-compass/internal/catalog"
	"github.com/jonathan/growth-compass/internal/observability"
	"github.com/jonathan/growth-compass/internal/ranking"
	"github.com/jonathan/growth-compass/internal/signals"
	"github.com/jonathan/growth-compass/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Store is the read side of the result store.
type Store interface {
	// GetProfileByEmail returns nil, nil when no profile exists.
	GetProfileByEmail(ctx context.Context, email string) (*types.Profile, error)
	// ListAssessmentResults returns the member's results, oldest first.
	ListAssessmentResults(ctx context.Context, email string) ([]types.AssessmentResult, error)
}

// Summarizer produces the optional narrative summary.
type Summarizer interface {
	Summarize(ctx context.Context, sig signals.Set, memberName string) *string
}

// Service computes recommendation payloads. It holds no mutable state and is
// safe for concurrent use.
type Service struct {
	store      Store
	catalog    *catalog.Catalog
	summarizer Summarizer
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
	limit      int
}

// Option configures a Service.
type Option func(*Service)

// WithSummarizer attaches a summary source.
func WithSummarizer(s Summarizer) Option {
	return func(svc *Service) { svc.summarizer = s }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *observability.Metrics) Option {
	return func(svc *Service) { svc.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(svc *Service) { svc.logger = l }
}

// withClock replaces time.Now.
func withClock(now func() time.Time) Option {
	return func(svc *Service) { svc.now = now }
}

// WithSignalLimit sets how many signals are kept per category.
func WithSignalLimit(n int) Option {
	return func(svc *Service) {
		if n > 0 {
			svc.limit = n
		}
	}
}

// NewService returns a Service over store and cat.
func NewService(store Store, cat *catalog.Catalog, opts ...Option) *Service {
	svc := &Service{
		store:   store,
		catalog: cat,
		logger:  zap.NewNop(),
		now:     time.Now,
		limit:   signals.DefaultLimit,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Recommend returns the payload for the member identified by email. A blank
// email, an unknown member or an empty history yield the empty payload; only
// store failures are returned as errors.
func (s *Service) Recommend(ctx context.Context, email string) (*types.Recommendations, error) {
	start := time.Now()

	email = strings.TrimSpace(email)
	if email == "" {
		s.metrics.RecordRecommendation(observability.StatusEmpty, time.Since(start))
		return types.EmptyRecommendations(s.now()), nil
	}

	var (
		profile *types.Profile
		results []types.AssessmentResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.store.GetProfileByEmail(gctx, email)
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		r, err := s.store.ListAssessmentResults(gctx, email)
		if err != nil {
			return fmt.Errorf("failed to list assessment results: %w", err)
		}
		results = r
		return nil
	})
	if err := g.Wait(); err != nil {
		s.metrics.RecordRecommendation(observability.StatusError, time.Since(start))
		s.logger.Error("recommendation failed", zap.Error(err))
		return nil, err
	}

	if profile == nil {
		s.logger.Debug("no profile for member")
		s.metrics.RecordRecommendation(observability.StatusEmpty, time.Since(start))
		return types.EmptyRecommendations(s.now()), nil
	}

	rec := s.Build(ctx, profile, results)
	status := observability.StatusSuccess
	if len(results) == 0 {
		status = observability.StatusEmpty
	}
	s.metrics.RecordRecommendation(status, time.Since(start))
	return rec, nil
}

// Build computes the payload for an already-loaded profile and history.
// profile may be nil when the member is anonymous.
func (s *Service) Build(ctx context.Context, profile *types.Profile, results []types.AssessmentResult) *types.Recommendations {
	rec := types.EmptyRecommendations(s.now())
	if profile != nil {
		rec.Metadata.MemberName = profile.Name
		rec.Metadata.MemberEmail = profile.Email
	}
	if len(results) == 0 {
		return rec
	}

	sig := signals.Aggregate(results, s.limit)
	ranked := ranking.RankCatalog(s.catalog, sig)

	rec.Courses = ranked.Courses
	rec.Tools = ranked.Tools
	rec.Insights.TopChallenges = sig.ChallengeLabels()
	rec.Insights.TopSkills = sig.SkillLabels()
	rec.Insights.TopNeeds = sig.NeedLabels()
	rec.Insights.TopFocusAreas = sig.FocusAreaLabels()
	rec.Metadata.TotalAssessments = len(results)
	rec.Metadata.LastUpdated = latest(results).UTC()

	if s.summarizer != nil {
		name := ""
		if profile != nil {
			name = profile.Name
		}
		rec.Insights.AISummary = s.summarizer.Summarize(ctx, sig, name)
	}

	s.logger.Debug("recommendations built",
		zap.Int("results", len(results)),
		zap.Int("courses", len(rec.Courses)),
		zap.Int("tools", len(rec.Tools)),
		zap.Bool("summary", rec.Insights.AISummary != nil),
	)
	return rec
}

// latest returns the newest CreatedAt; results must be non-empty.
func latest(results []types.AssessmentResult) time.Time {
	newest := results[0].CreatedAt
	for _, r := range results[1:] {
		if r.CreatedAt.After(newest) {
			newest = r.CreatedAt
		}
	}
	return newest
}
