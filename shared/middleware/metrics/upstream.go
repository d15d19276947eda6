package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream fetch results.
const (
	ResultHit    = "hit"
	ResultMiss   = "miss"
	ResultBypass = "bypass"
	ResultError  = "error"
)

var (
	upstreamFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_fetch_total",
			Help: "Upstream post lookups by cache policy and result",
		},
		[]string{"policy", "result"},
	)

	upstreamFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "upstream_fetch_duration_seconds",
			Help:    "Duration of upstream HTTP round trips (cache hits excluded)",
			Buckets: prometheus.DefBuckets,
		},
	)

	renderSlotsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "render_slots_total",
			Help: "Suspense boundaries settled, by final state",
		},
		[]string{"state"},
	)

	staticPagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "static_pages_total",
			Help: "Static route requests by how they were served",
		},
		[]string{"mode"},
	)
)

func ObserveUpstreamFetch(policy, result string) {
	upstreamFetchTotal.WithLabelValues(policy, result).Inc()
}

func ObserveUpstreamDuration(seconds float64) {
	upstreamFetchDuration.Observe(seconds)
}

func ObserveSlot(state string) {
	renderSlotsTotal.WithLabelValues(state).Inc()
}

func ObserveStaticPage(mode string) {
	staticPagesTotal.WithLabelValues(mode).Inc()
}
