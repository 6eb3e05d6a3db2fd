// Package metrics exposes Prometheus collectors for technician searches.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric names.
const (
	MetricSearchesTotal     = "technician_searches_total"
	MetricSearchDuration    = "technician_search_duration_seconds"
	MetricSearchCandidates  = "technician_search_candidates"
	StatusSuccess           = "success"
	StatusFailure           = "failure"
	unspecifiedCategoryName = "any"
	// OtherCategory replaces category labels outside the configured catalog.
	OtherCategory = "other"
)

// SearchMetrics records ranking requests. Safe for concurrent use.
type SearchMetrics struct {
	searches   *prometheus.CounterVec
	duration   prometheus.Histogram
	candidates prometheus.Histogram
	categories map[string]struct{}
}

// NewSearchMetrics builds the collectors without registering them. Only the
// given categories get their own label value, which keeps the series count bounded.
func NewSearchMetrics(categories []string) *SearchMetrics {
	known := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		known[c] = struct{}{}
	}
	return &SearchMetrics{
		categories: known,
		searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricSearchesTotal,
				Help: "Total number of technician searches by category and status",
			},
			[]string{"category", "status"},
		),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricSearchDuration,
			Help:    "Histogram of technician search latency in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricSearchCandidates,
			Help:    "Number of eligible candidates annotated per search",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 200},
		}),
	}
}

// Register registers all collectors with reg.
func (m *SearchMetrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Collectors returns every collector owned by m.
func (m *SearchMetrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.searches, m.duration, m.candidates}
}

// ObserveSearch records one ranking request.
func (m *SearchMetrics) ObserveSearch(category string, candidates int, elapsed time.Duration, err error) {
	category = m.categoryLabel(category)
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
	}
	m.searches.WithLabelValues(category, status).Inc()
	m.duration.Observe(elapsed.Seconds())
	if err == nil {
		m.candidates.Observe(float64(candidates))
	}
}

func (m *SearchMetrics) categoryLabel(category string) string {
	if category == "" {
		return unspecifiedCategoryName
	}
	if _, ok := m.categories[category]; ok {
		return category
	}
	return OtherCategory
}
