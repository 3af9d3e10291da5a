package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulingMetrics exposes counters/histograms for availability queries and
// the booking write path. All observe methods are nil-receiver safe so
// callers can run without metrics wired.
type SchedulingMetrics struct {
	availabilityTotal *prometheus.CounterVec
	verdictTotal      *prometheus.CounterVec
	computeLatency    *prometheus.HistogramVec
	bookingsTotal     *prometheus.CounterVec
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		availabilityTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "schedcore",
			Subsystem: "availability",
			Name:      "queries_total",
			Help:      "Total availability queries",
		}, []string{"scope", "status"}),
		verdictTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "schedcore",
			Subsystem: "availability",
			Name:      "validation_verdicts_total",
			Help:      "Candidate validation verdicts by outcome",
		}, []string{"verdict"}),
		computeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "schedcore",
			Subsystem: "availability",
			Name:      "compute_latency_seconds",
			Help:      "Latency of availability computation",
			Buckets:   prometheus.DefBuckets,
		}, []string{"scope"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "schedcore",
			Subsystem: "booking",
			Name:      "requests_total",
			Help:      "Booking attempts by outcome",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.availabilityTotal, m.verdictTotal, m.computeLatency, m.bookingsTotal)
	return m
}

// ObserveAvailabilityQuery records one day- or week-scope query and its
// status (ok or error).
func (m *SchedulingMetrics) ObserveAvailabilityQuery(scope, status string) {
	if m == nil {
		return
	}
	m.availabilityTotal.WithLabelValues(scope, status).Inc()
}

// ObserveVerdict records a validation outcome: valid, or the block reason.
func (m *SchedulingMetrics) ObserveVerdict(verdict string) {
	if m == nil {
		return
	}
	m.verdictTotal.WithLabelValues(verdict).Inc()
}

// ObserveComputeLatency records how long one availability computation took.
func (m *SchedulingMetrics) ObserveComputeLatency(scope string, seconds float64) {
	if m == nil {
		return
	}
	m.computeLatency.WithLabelValues(scope).Observe(seconds)
}

// ObserveBooking records a booking attempt outcome: created, blocked,
// conflict or error.
func (m *SchedulingMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}
