package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CompareMetrics records comparison and budget-delegation activity.
type CompareMetrics struct {
	comparisons *prometheus.CounterVec
	aiDuration  *prometheus.HistogramVec
	aiOutcome   *prometheus.CounterVec
}

// NewCompareMetrics registers the comparison metrics on the provided registerer.
func NewCompareMetrics(reg prometheus.Registerer) *CompareMetrics {
	if reg == nil {
		return &CompareMetrics{}
	}
	comparisons := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "comparisons_total",
		Help: "Completed multi-store comparisons.",
	}, []string{"stores"})
	aiDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "budget_suggestion_duration_seconds",
		Help:    "Duration of budget-fit model calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"model"})
	aiOutcome := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "budget_suggestions_total",
		Help: "Budget-fit suggestion attempts by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(comparisons, aiDuration, aiOutcome)
	return &CompareMetrics{
		comparisons: comparisons,
		aiDuration:  aiDuration,
		aiOutcome:   aiOutcome,
	}
}

// IncComparison counts one completed comparison across the given store count.
func (c *CompareMetrics) IncComparison(stores string) {
	if c == nil || c.comparisons == nil {
		return
	}
	c.comparisons.WithLabelValues(normalizeLabel(stores)).Inc()
}

// ObserveSuggestion records the duration of one model call.
func (c *CompareMetrics) ObserveSuggestion(model string, elapsed time.Duration) {
	if c == nil || c.aiDuration == nil {
		return
	}
	c.aiDuration.WithLabelValues(normalizeLabel(model)).Observe(elapsed.Seconds())
}

// IncSuggestion counts one suggestion attempt with its outcome label.
func (c *CompareMetrics) IncSuggestion(outcome string) {
	if c == nil || c.aiOutcome == nil {
		return
	}
	c.aiOutcome.WithLabelValues(normalizeLabel(outcome)).Inc()
}
