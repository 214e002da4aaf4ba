package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the portal and staff search.
type Metrics struct {
	// Flow transitions by source and target step
	Transitions *prometheus.CounterVec

	// Record store and OTP latencies by operation
	RemoteCallLatency *prometheus.HistogramVec

	// Activity log writes that failed and were swallowed
	AuditFailures prometheus.Counter

	// Staff searches by outcome: found, not_found, invalid, error
	StaffSearches *prometheus.CounterVec
}

// NewRegistry returns a registry carrying the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// New registers the portal metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_transitions_total",
			Help: "Portal flow transitions by source and target step",
		}, []string{"from", "to"}),

		RemoteCallLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_remote_call_duration_seconds",
			Help:    "Duration of record store calls made on behalf of a user action",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"operation"}),

		AuditFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "portal_audit_failures_total",
			Help: "Activity log writes that failed",
		}),

		StaffSearches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_staff_searches_total",
			Help: "Staff beneficiary searches by outcome",
		}, []string{"outcome"}),
	}
}

// IncrementTransition records a move between two flow steps.
func (m *Metrics) IncrementTransition(from, to string) {
	if m != nil {
		m.Transitions.WithLabelValues(from, to).Inc()
	}
}

// ObserveRemoteCall records the duration of one store call.
func (m *Metrics) ObserveRemoteCall(operation string, d time.Duration) {
	if m != nil {
		m.RemoteCallLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}

// IncrementAuditFailure records a swallowed activity log failure.
func (m *Metrics) IncrementAuditFailure() {
	if m != nil {
		m.AuditFailures.Inc()
	}
}

// IncrementStaffSearch records a staff search outcome.
func (m *Metrics) IncrementStaffSearch(outcome string) {
	if m != nil {
		m.StaffSearches.WithLabelValues(outcome).Inc()
	}
}
