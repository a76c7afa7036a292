// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the gateway.
type Metrics struct {
	// Swap metrics
	SwapRequestsReceived prometheus.Counter
	SwapsSubmitted       prometheus.Counter
	SwapsConfirmed       prometheus.Counter
	SwapsRejected        *prometheus.CounterVec

	// Latency metrics
	ConfirmationLatency prometheus.Histogram
	RPCCallLatency      *prometheus.HistogramVec

	// HTTP metrics
	HTTPRequestsTotal *prometheus.CounterVec

	// Journal metrics
	JournalInsertErrors prometheus.Counter

	// Health metrics
	LastConfirmedSwap prometheus.Gauge
	StateCounter      prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "swap_gateway"
	}

	return &Metrics{
		SwapRequestsReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "swap",
			Name:      "requests_received_total",
			Help:      "Total number of swap requests accepted over HTTP",
		}),
		SwapsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "swap",
			Name:      "submitted_total",
			Help:      "Total number of swap transactions submitted to the cluster",
		}),
		SwapsConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "swap",
			Name:      "confirmed_total",
			Help:      "Total number of swap transactions confirmed",
		}),
		SwapsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "swap",
			Name:      "rejected_total",
			Help:      "Total number of rejected swaps by reason",
		}, []string{"reason"}),

		ConfirmationLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "swap",
			Name:      "confirmation_latency_seconds",
			Help:      "Time from transaction submission to confirmation",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}),
		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_latency_seconds",
			Help:      "Solana RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),

		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by path and status",
		}, []string{"path", "status"}),

		JournalInsertErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journal",
			Name:      "insert_errors_total",
			Help:      "Total number of failed receipt journal inserts",
		}),

		LastConfirmedSwap: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_confirmed_swap_timestamp",
			Help:      "Unix timestamp of the last confirmed swap",
		}),
		StateCounter: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "swap",
			Name:      "state_counter",
			Help:      "Counter value last read back from the state account",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordSwapReceived increments the swap requests received counter.
func RecordSwapReceived() {
	DefaultMetrics.SwapRequestsReceived.Inc()
}

// RecordSwapSubmitted increments the submitted counter.
func RecordSwapSubmitted() {
	DefaultMetrics.SwapsSubmitted.Inc()
}

// RecordSwapConfirmed records a confirmed swap and its submit-to-confirm latency.
func RecordSwapConfirmed(latencySeconds float64, counter uint32) {
	DefaultMetrics.SwapsConfirmed.Inc()
	DefaultMetrics.ConfirmationLatency.Observe(latencySeconds)
	DefaultMetrics.StateCounter.Set(float64(counter))
}

// RecordSwapRejected increments the rejected counter for a reason.
func RecordSwapRejected(reason string) {
	DefaultMetrics.SwapsRejected.WithLabelValues(reason).Inc()
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}

// RecordHTTPRequest records a served HTTP request.
func RecordHTTPRequest(path, status string) {
	DefaultMetrics.HTTPRequestsTotal.WithLabelValues(path, status).Inc()
}

// RecordJournalError increments the journal insert error counter.
func RecordJournalError() {
	DefaultMetrics.JournalInsertErrors.Inc()
}
