package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation labels shared by the matching and pricing engines.
const (
	OpGetCandidates = "get_candidates"
	OpRematch       = "rematch"
	OpGetPrice      = "get_price"
)

// EngineMetrics records matching and pricing activity.
type EngineMetrics struct {
	duration   *prometheus.HistogramVec
	failures   *prometheus.CounterVec
	candidates prometheus.Histogram
	excluded   *prometheus.CounterVec
	memo       *prometheus.CounterVec
	fallback   prometheus.Counter
}

// NewEngineMetrics registers the engine metrics on the provided registerer.
// A nil registerer returns a no-op recorder.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "engine_operation_duration_seconds",
		Help:    "Duration of matching and pricing operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_operation_failures_total",
		Help: "Matching and pricing operations that returned an error.",
	}, []string{"operation"})
	candidates := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "matching_candidates_returned",
		Help:    "Number of listings returned per candidate search.",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
	})
	excluded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "matching_listings_excluded_total",
		Help: "Listings dropped during matching, by reason.",
	}, []string{"reason"})
	memo := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "matching_waste_type_memo_total",
		Help: "Waste-type memo lookups, by result.",
	}, []string{"result"})
	fallback := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "matching_driving_distance_fallback_total",
		Help: "Driving-distance checks that fell back to great-circle distance.",
	})
	reg.MustRegister(duration, failures, candidates, excluded, memo, fallback)
	return &EngineMetrics{
		duration:   duration,
		failures:   failures,
		candidates: candidates,
		excluded:   excluded,
		memo:       memo,
		fallback:   fallback,
	}
}

// ObserveDuration records how long an operation took.
func (m *EngineMetrics) ObserveDuration(operation string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

func (m *EngineMetrics) IncFailure(operation string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(operation)).Inc()
}

// ObserveCandidates records the size of a candidate result.
func (m *EngineMetrics) ObserveCandidates(n int) {
	if m == nil || m.candidates == nil {
		return
	}
	m.candidates.Observe(float64(n))
}

// IncExcluded counts a listing dropped for reason.
func (m *EngineMetrics) IncExcluded(reason string) {
	if m == nil || m.excluded == nil {
		return
	}
	m.excluded.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncMemo counts a waste-type memo lookup; result is "hit", "miss" or "shared_hit".
func (m *EngineMetrics) IncMemo(result string) {
	if m == nil || m.memo == nil {
		return
	}
	m.memo.WithLabelValues(normalizeLabel(result)).Inc()
}

func (m *EngineMetrics) IncDrivingFallback() {
	if m == nil || m.fallback == nil {
		return
	}
	m.fallback.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
