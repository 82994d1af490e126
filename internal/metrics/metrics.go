// Package metrics records per-invocation Prometheus metrics for the client.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	invocationsTotal   *prometheus.CounterVec
	invocationDuration *prometheus.HistogramVec

	// Registration guard
	metricsOnce sync.Once
)

// initMetrics registers the collectors on the default registry exactly once.
func initMetrics() {
	metricsOnce.Do(func() {
		invocationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authy_client_invocations_total",
				Help: "Total number of vault process invocations by subcommand and outcome",
			},
			[]string{"subcommand", "outcome"},
		)

		invocationDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "authy_client_invocation_duration_seconds",
				Help:    "Wall-clock duration of vault process invocations in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30},
			},
			[]string{"subcommand"},
		)
	})
}

// Recorder records invocation outcomes. A nil Recorder is a no-op, so the
// client does not branch on whether metrics are enabled.
type Recorder struct{}

// NewRecorder returns a Recorder backed by the default registry.
func NewRecorder() *Recorder {
	initMetrics()
	return &Recorder{}
}

// Observe records one finished invocation.
func (r *Recorder) Observe(subcommand, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	invocationsTotal.WithLabelValues(subcommand, outcome).Inc()
	invocationDuration.WithLabelValues(subcommand).Observe(elapsed.Seconds())
}
