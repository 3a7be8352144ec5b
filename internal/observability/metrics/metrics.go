package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters for the booking workflow and its
// notification fan-out. All methods are nil-safe so wiring metrics stays
// optional in tests.
type BookingMetrics struct {
	createdTotal      prometheus.Counter
	conflictsTotal    prometheus.Counter
	notificationTotal *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		createdTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wellnessflow",
			Subsystem: "bookings",
			Name:      "created_total",
			Help:      "Total bookings persisted",
		}),
		conflictsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wellnessflow",
			Subsystem: "bookings",
			Name:      "slot_conflicts_total",
			Help:      "Total submissions rejected because the slot was taken",
		}),
		notificationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wellnessflow",
			Subsystem: "notifications",
			Name:      "attempts_total",
			Help:      "Notification attempts by channel and outcome",
		}, []string{"channel", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.createdTotal, m.conflictsTotal, m.notificationTotal)
	return m
}

func (m *BookingMetrics) ObserveCreated() {
	if m == nil {
		return
	}
	m.createdTotal.Inc()
}

func (m *BookingMetrics) ObserveConflict() {
	if m == nil {
		return
	}
	m.conflictsTotal.Inc()
}

// ObserveNotification records one channel attempt. Status is one of
// ok, failed, skipped.
func (m *BookingMetrics) ObserveNotification(channel, status string) {
	if m == nil {
		return
	}
	m.notificationTotal.WithLabelValues(channel, status).Inc()
}
