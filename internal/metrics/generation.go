package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "revisor"

// Generation Prometheus metrics.
var (
	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_requests_total",
			Help:      "Total number of generation requests",
		},
		[]string{"provider", "model", "status"},
	)

	GenerationRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_request_duration_seconds",
			Help:      "Generation request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"provider", "model"},
	)

	GenerationFailoversTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_failovers_total",
			Help:      "Credential attempts that failed, by whether another credential remained",
		},
		[]string{"outcome"}, // "next" / "exhausted"
	)

	CompletionCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_cache_total",
			Help:      "Completion cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

// Edit pipeline Prometheus metrics.
var (
	EditsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edits_total",
			Help:      "Edit runs by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	RegionsAppliedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "regions_applied_total",
			Help:      "Regions mounted for review, by region kind",
		},
		[]string{"kind"},
	)

	LocatorMatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "locator_matches_total",
			Help:      "Locator lookups by result",
		},
		[]string{"result"}, // "match" / "no_match"
	)

	ReviewTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "review_transitions_total",
			Help:      "Review unit transitions",
		},
		[]string{"action"},
	)
)

// Register registers every revisor metric with reg. Safe to call once per registry.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		GenerationRequestsTotal,
		GenerationRequestDuration,
		GenerationFailoversTotal,
		CompletionCacheTotal,
		EditsTotal,
		RegionsAppliedTotal,
		LocatorMatchesTotal,
		ReviewTransitionsTotal,
		httpRequestDuration,
		httpRequestsTotal,
	)
}
