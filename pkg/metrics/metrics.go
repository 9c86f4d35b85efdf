// Package metrics provides Prometheus metrics for the reed service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RowsPersistedTotal tracks review rows written by table
	RowsPersistedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reed",
			Subsystem: "review",
			Name:      "rows_persisted_total",
			Help:      "Total number of review rows persisted by table",
		},
		[]string{"table"},
	)

	// LicencesPersistedTotal tracks licences persisted by outcome
	LicencesPersistedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reed",
			Subsystem: "review",
			Name:      "licences_persisted_total",
			Help:      "Total number of allocated licences persisted by outcome",
		},
		[]string{"outcome"},
	)

	// PersistDuration tracks how long persisting a licence takes
	PersistDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "reed",
			Subsystem: "review",
			Name:      "licence_persist_duration_seconds",
			Help:      "Duration of persisting a single licence's review results in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	// LicencesReviewedTotal tracks licences whose issues were determined, by status
	LicencesReviewedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reed",
			Subsystem: "review",
			Name:      "licences_reviewed_total",
			Help:      "Total number of licences reviewed by resulting status",
		},
		[]string{"status"},
	)

	// IssuesDetectedTotal tracks detected issues by name
	IssuesDetectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reed",
			Subsystem: "review",
			Name:      "issues_detected_total",
			Help:      "Total number of review issues detected by issue",
		},
		[]string{"issue"},
	)

	// CacheRequestsTotal tracks review summary cache lookups
	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reed",
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Total number of review summary cache lookups by result",
		},
		[]string{"result"},
	)

	// EventsPublishedTotal tracks published kafka events
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reed",
			Subsystem: "kafka",
			Name:      "events_published_total",
			Help:      "Total number of events published by type and status",
		},
		[]string{"type", "status"},
	)
)

// Recorder records review metrics. It exists so services can be tested without
// touching the global registry.
type Recorder interface {
	RowsPersisted(table string, count int)
	LicencePersisted(outcome string, seconds float64)
	LicenceReviewed(status string, issues []string)
}

// Prometheus records to the package level collectors
type Prometheus struct{}

func (Prometheus) RowsPersisted(table string, count int) {
	RowsPersistedTotal.WithLabelValues(table).Add(float64(count))
}

func (Prometheus) LicencePersisted(outcome string, seconds float64) {
	LicencesPersistedTotal.WithLabelValues(outcome).Inc()
	PersistDuration.Observe(seconds)
}

func (Prometheus) LicenceReviewed(status string, issues []string) {
	LicencesReviewedTotal.WithLabelValues(status).Inc()
	for _, issue := range issues {
		IssuesDetectedTotal.WithLabelValues(issue).Inc()
	}
}

// Noop discards everything
type Noop struct{}

func (Noop) RowsPersisted(string, int)        {}
func (Noop) LicencePersisted(string, float64) {}
func (Noop) LicenceReviewed(string, []string) {}
