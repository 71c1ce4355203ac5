package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking flow.
type BookingMetrics struct {
	bookingsTotal     *prometheus.CounterVec
	schedulerRequests *prometheus.CounterVec
	schedulerLatency  *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brightsmile",
			Subsystem: "booking",
			Name:      "appointments_total",
			Help:      "Appointment rows written, labelled by initial status",
		}, []string{"status"}),
		schedulerRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brightsmile",
			Subsystem: "booking",
			Name:      "scheduler_requests_total",
			Help:      "Total Cal.com API calls",
		}, []string{"operation", "status"}),
		schedulerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "brightsmile",
			Subsystem: "booking",
			Name:      "scheduler_latency_seconds",
			Help:      "Latency of Cal.com API calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.schedulerRequests, m.schedulerLatency)
	return m
}

func (m *BookingMetrics) ObserveBooking(status string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveSchedulerRequest(operation, status string, seconds float64) {
	if m == nil {
		return
	}
	m.schedulerRequests.WithLabelValues(operation, status).Inc()
	m.schedulerLatency.WithLabelValues(operation).Observe(seconds)
}
