package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for bridged requests.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeCanceled  = "canceled"
)

// Metrics holds all Prometheus metrics for the bridge.
type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  prometheus.Histogram
	RequestsInFlight prometheus.Gauge
	BodyBytes        prometheus.Counter
	BadRedirects     prometheus.Counter
}

// NewMetrics registers bridge metrics on the default registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers bridge metrics on reg. Tests pass their own
// registry to avoid duplicate registration.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridge_requests_total",
				Help: "Total number of bridged requests by terminal outcome",
			},
			[]string{"outcome"},
		),
		RequestDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bridge_request_duration_seconds",
				Help:    "Time from dispatch to terminal signal",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bridge_requests_in_flight",
				Help: "Number of requests dispatched and not yet settled",
			},
		),
		BodyBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "bridge_body_bytes_total",
				Help: "Total response body bytes drained by the browser control",
			},
		),
		BadRedirects: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "bridge_bad_redirects_total",
				Help: "Responses whose Location header could not be parsed",
			},
		),
	}
}

// RecordOutcome records a settled request. Nil receivers are ignored so
// the bridge can run without metrics wired.
func (m *Metrics) RecordOutcome(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(outcome).Inc()
	m.RequestDuration.Observe(duration.Seconds())
}

// RequestStarted marks a request as in flight.
func (m *Metrics) RequestStarted() {
	if m == nil {
		return
	}
	m.RequestsInFlight.Inc()
}

// RequestSettled marks a request as no longer in flight.
func (m *Metrics) RequestSettled() {
	if m == nil {
		return
	}
	m.RequestsInFlight.Dec()
}

// RecordBodyBytes accumulates drained body bytes.
func (m *Metrics) RecordBodyBytes(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.BodyBytes.Add(float64(n))
}

// RecordBadRedirect counts an unparseable Location header.
func (m *Metrics) RecordBadRedirect() {
	if m == nil {
		return
	}
	m.BadRedirects.Inc()
}
