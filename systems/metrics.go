package systems

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/automoto/earshot/occlusion"
)

// Metrics counts pathfinding, occlusion and propagation activity. It is the
// observer for all three engines.
type Metrics struct {
	pathSearches     *prometheus.CounterVec
	pathCacheHits    prometheus.Counter
	pathExpanded     prometheus.Histogram
	pathDuration     prometheus.Histogram
	occlusionChecks  *prometheus.CounterVec
	occlusionSkipped *prometheus.CounterVec
	spawned          prometheus.Counter
	fades            *prometheus.CounterVec
}

// NewMetrics registers every collector with reg. A nil reg keeps the
// collectors unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		pathSearches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "earshot_path_searches_total",
			Help: "A* searches by result",
		}, []string{"result"}),
		pathCacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "earshot_path_cache_hits_total",
			Help: "Path requests answered from the per-start target cache",
		}),
		pathExpanded: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "earshot_path_nodes_expanded",
			Help:    "Nodes closed per A* search",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8), // 1 to ~16k
		}),
		pathDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "earshot_path_search_duration_seconds",
			Help:    "A* search duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 2, 12), // 10µs to ~20ms
		}),
		occlusionChecks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "earshot_occlusion_evaluations_total",
			Help: "Occlusion evaluations by outcome",
		}, []string{"result"}),
		occlusionSkipped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "earshot_occlusion_skipped_total",
			Help: "Sources skipped by the occlusion engine",
		}, []string{"reason"}),
		spawned: f.NewCounter(prometheus.CounterOpts{
			Name: "earshot_propagated_spawned_total",
			Help: "Secondary sources spawned",
		}),
		fades: f.NewCounterVec(prometheus.CounterOpts{
			Name: "earshot_propagation_fades_total",
			Help: "Ticks a secondary source spent fading, by reason",
		}, []string{"reason"}),
	}
}

func (m *Metrics) PathSearched(found bool, expanded int, took time.Duration) {
	m.pathSearches.WithLabelValues(foundLabel(found)).Inc()
	m.pathExpanded.Observe(float64(expanded))
	m.pathDuration.Observe(took.Seconds())
}

func (m *Metrics) PathCacheHit() { m.pathCacheHits.Inc() }

func (m *Metrics) OcclusionEvaluated(blocked bool) {
	result := "clear"
	if blocked {
		result = "blocked"
	}
	m.occlusionChecks.WithLabelValues(result).Inc()
}

func (m *Metrics) OcclusionSkipped(err error) {
	reason := "other"
	if errors.Is(err, occlusion.ErrQueryAsymmetry) {
		reason = "asymmetry"
	}
	m.occlusionSkipped.WithLabelValues(reason).Inc()
}

func (m *Metrics) PropagatedSpawned() { m.spawned.Inc() }

func (m *Metrics) PropagationFaded(noPath bool) {
	reason := "visible"
	if noPath {
		reason = "no_path"
	}
	m.fades.WithLabelValues(reason).Inc()
}

func foundLabel(found bool) string {
	if found {
		return "found"
	}
	return "not_found"
}
