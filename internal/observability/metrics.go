package observability

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "compass"

// Outcome labels used by the recommendation and summary counters.
const (
	StatusSuccess = "success"
	StatusEmpty   = "empty"
	StatusError   = "error"

	SummaryGenerated = "generated"
	SummarySkipped   = "skipped"
	SummaryFailed    = "failed"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	recommendations    *prometheus.CounterVec
	recommendationTime prometheus.Histogram
	summaries          *prometheus.CounterVec
	scored             *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg. Collectors
// already registered by an earlier call are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		recommendations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "recommendations_total",
			Help:      "Recommendation requests by outcome.",
		}, []string{"status"}),
		recommendationTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "recommendation_duration_seconds",
			Help:      "Time to build a recommendation payload.",
			Buckets:   prometheus.DefBuckets,
		}),
		summaries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "summary_requests_total",
			Help:      "Narrative summary attempts by outcome.",
		}, []string{"outcome"}),
		scored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "assessments_scored_total",
			Help:      "Assessment submissions scored, by assessment id.",
		}, []string{"assessment"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
	}

	if err := register(reg, &m.recommendations); err != nil {
		return nil, err
	}
	if err := register(reg, &m.recommendationTime); err != nil {
		return nil, err
	}
	if err := register(reg, &m.summaries); err != nil {
		return nil, err
	}
	if err := register(reg, &m.scored); err != nil {
		return nil, err
	}
	if err := register(reg, &m.httpRequests); err != nil {
		return nil, err
	}
	return m, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				*c = existing
				return nil
			}
		}
		return fmt.Errorf("failed to register metric: %w", err)
	}
	return nil
}

// RecordRecommendation counts a recommendation request and its latency.
func (m *Metrics) RecordRecommendation(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.recommendations.WithLabelValues(status).Inc()
	m.recommendationTime.Observe(d.Seconds())
}

// RecordSummary counts a summary attempt by outcome.
func (m *Metrics) RecordSummary(outcome string) {
	if m == nil {
		return
	}
	m.summaries.WithLabelValues(outcome).Inc()
}

// RecordScored counts a scored assessment submission.
func (m *Metrics) RecordScored(assessmentID string) {
	if m == nil {
		return
	}
	m.scored.WithLabelValues(assessmentID).Inc()
}

// RecordHTTPRequest counts a served HTTP request.
func (m *Metrics) RecordHTTPRequest(method, route string, code int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}
