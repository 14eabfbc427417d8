package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// DrawMetrics instruments draw runs.
type DrawMetrics interface {
	OperationMetrics
	RecordDrawSize(ctx context.Context, players, pairs, matches int)
	RecordForcedRepeats(ctx context.Context, tier string, count int)
	RecordScheduleShortfalls(ctx context.Context, tier string, count int)
}

// PrometheusDrawMetrics is the Prometheus implementation of DrawMetrics.
type PrometheusDrawMetrics struct {
	*PrometheusOperationMetrics
	players       prometheus.Histogram
	matches       prometheus.Histogram
	forcedRepeats *prometheus.CounterVec
	shortfalls    *prometheus.CounterVec
}

func NewPrometheusDrawMetrics(reg prometheus.Registerer, namespace string) *PrometheusDrawMetrics {
	m := &PrometheusDrawMetrics{
		PrometheusOperationMetrics: NewPrometheusOperationMetrics(ModuleRegisterer(reg, "draw"), namespace),
		players: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "draw",
			Name:      "players",
			Help:      "Eligible players per draw.",
			Buckets:   prometheus.LinearBuckets(2, 4, 12),
		}),
		matches: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "draw",
			Name:      "matches",
			Help:      "Matches scheduled per draw.",
			Buckets:   prometheus.LinearBuckets(0, 10, 12),
		}),
		forcedRepeats: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "draw",
			Name:      "forced_repeat_pairings_total",
			Help:      "Pairs that repeated the previous event's pairing.",
		}, []string{"tier"}),
		shortfalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "draw",
			Name:      "schedule_shortfalls_total",
			Help:      "Pairs that did not reach the match quota.",
		}, []string{"tier"}),
	}
	if reg != nil {
		reg.MustRegister(m.players, m.matches, m.forcedRepeats, m.shortfalls)
	}
	return m
}

func (m *PrometheusDrawMetrics) RecordDrawSize(_ context.Context, players, _, matches int) {
	m.players.Observe(float64(players))
	m.matches.Observe(float64(matches))
}

func (m *PrometheusDrawMetrics) RecordForcedRepeats(_ context.Context, tier string, count int) {
	m.forcedRepeats.WithLabelValues(tier).Add(float64(count))
}

func (m *PrometheusDrawMetrics) RecordScheduleShortfalls(_ context.Context, tier string, count int) {
	m.shortfalls.WithLabelValues(tier).Add(float64(count))
}

// NoopDrawMetrics discards everything.
type NoopDrawMetrics struct{ NoopOperationMetrics }

func (NoopDrawMetrics) RecordDrawSize(context.Context, int, int, int)         {}
func (NoopDrawMetrics) RecordForcedRepeats(context.Context, string, int)      {}
func (NoopDrawMetrics) RecordScheduleShortfalls(context.Context, string, int) {}

var (
	_ DrawMetrics = (*PrometheusDrawMetrics)(nil)
	_ DrawMetrics = NoopDrawMetrics{}
)
