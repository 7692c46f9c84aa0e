package core

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics observes outbound calls to the core service.
type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "events_core_requests_total",
			Help: "Calls to the core service by call and outcome",
		}, []string{"call", "outcome"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "events_core_request_duration_seconds",
			Help:    "Latency of calls to the core service",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"call"}),
	}
}

func (m *Metrics) observe(call, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(call, outcome).Inc()
	m.Duration.WithLabelValues(call).Observe(d.Seconds())
}
