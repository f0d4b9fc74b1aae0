// Package metrics exposes the Relayer's Prometheus surface. The teacher
// module carries github.com/prometheus/client_golang in its go.mod without
// ever wiring a collector; this package is where the Relayer actually
// uses it, scoped to the one in-process component with ongoing state
// worth observing, the Verifier's pending map.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "axelar_solana_relayer"

// Verifier holds the Relayer Verifier's (C7) metrics, as named in
// SPEC_FULL.md's domain-stack table: pending-map size, verify latency,
// and terminal error counts.
type Verifier struct {
	PendingMessages prometheus.Gauge
	VerifyLatency   prometheus.Histogram
	TerminalErrors  *prometheus.CounterVec
	Rejections      prometheus.Counter
}

// NewVerifier registers the Verifier's collectors against reg. Pass
// prometheus.NewRegistry() in tests to avoid colliding with the default
// global registry across package-level test runs.
func NewVerifier(reg prometheus.Registerer) *Verifier {
	factory := promauto.With(reg)
	return &Verifier{
		PendingMessages: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "verifier",
			Name:      "pending_messages",
			Help:      "Number of messages awaiting an Amplifier verification response.",
		}),
		VerifyLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "verifier",
			Name:      "verify_latency_seconds",
			Help:      "Time from enqueueing a message to receiving its Ok/Err response.",
			Buckets:   prometheus.DefBuckets,
		}),
		TerminalErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "verifier",
			Name:      "terminal_errors_total",
			Help:      "Count of Run exits by terminal error reason (cancelled, send, recv, unknown_message_id, record).",
		}, []string{"reason"}),
		Rejections: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "verifier",
			Name:      "rejections_total",
			Help:      "Count of Err responses from the Amplifier.",
		}),
	}
}

// Handler returns the HTTP handler serving the registry's metrics in the
// Prometheus exposition format, for mounting alongside the healthcheck
// server at a distinct path.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
