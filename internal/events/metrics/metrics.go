package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts successful mutations of the events module.
type Metrics struct {
	AttendanceUpdates prometheus.Counter
	EventEdits        prometheus.Counter
	LimitUpdates      prometheus.Counter
}

// New registers the events module metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AttendanceUpdates: factory.NewCounter(prometheus.CounterOpts{
			Name: "events_attendance_updates_total",
			Help: "Total number of applications whose attendance was set",
		}),
		EventEdits: factory.NewCounter(prometheus.CounterOpts{
			Name: "events_event_edits_total",
			Help: "Total number of successful event edits",
		}),
		LimitUpdates: factory.NewCounter(prometheus.CounterOpts{
			Name: "events_pax_limit_updates_total",
			Help: "Total number of pax limits configured",
		}),
	}
}

func (m *Metrics) IncrementAttendanceUpdates() {
	m.AttendanceUpdates.Inc()
}

func (m *Metrics) IncrementEventEdits() {
	m.EventEdits.Inc()
}

func (m *Metrics) IncrementLimitUpdates() {
	m.LimitUpdates.Inc()
}
