package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// ScoreMetrics instruments score submissions and recomputes.
type ScoreMetrics interface {
	OperationMetrics
	RecordRecompute(ctx context.Context, succeeded bool)
	RecordBlowouts(ctx context.Context, source string, count int)
}

// PrometheusScoreMetrics is the Prometheus implementation of ScoreMetrics.
type PrometheusScoreMetrics struct {
	*PrometheusOperationMetrics
	recomputes *prometheus.CounterVec
	blowouts   *prometheus.CounterVec
}

func NewPrometheusScoreMetrics(reg prometheus.Registerer, namespace string) *PrometheusScoreMetrics {
	m := &PrometheusScoreMetrics{
		PrometheusOperationMetrics: NewPrometheusOperationMetrics(ModuleRegisterer(reg, "score"), namespace),
		recomputes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "score",
			Name:      "recomputes_total",
			Help:      "Score recomputes of affected players, by outcome.",
		}, []string{"outcome"}),
		blowouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "score",
			Name:      "blowout_records_total",
			Help:      "Blowout records written, by source.",
		}, []string{"source"}),
	}
	if reg != nil {
		reg.MustRegister(m.recomputes, m.blowouts)
	}
	return m
}

func (m *PrometheusScoreMetrics) RecordRecompute(_ context.Context, succeeded bool) {
	outcome := "success"
	if !succeeded {
		outcome = "failure"
	}
	m.recomputes.WithLabelValues(outcome).Inc()
}

func (m *PrometheusScoreMetrics) RecordBlowouts(_ context.Context, source string, count int) {
	m.blowouts.WithLabelValues(source).Add(float64(count))
}

// NoopScoreMetrics discards everything.
type NoopScoreMetrics struct{ NoopOperationMetrics }

func (NoopScoreMetrics) RecordRecompute(context.Context, bool)        {}
func (NoopScoreMetrics) RecordBlowouts(context.Context, string, int) {}

var (
	_ ScoreMetrics = (*PrometheusScoreMetrics)(nil)
	_ ScoreMetrics = NoopScoreMetrics{}
)
