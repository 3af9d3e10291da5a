package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestSchedulingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSchedulingMetrics(reg)
	m.ObserveAvailabilityQuery("day", "ok")
	m.ObserveAvailabilityQuery("week", "error")
	m.ObserveVerdict("advance-notice")
	m.ObserveComputeLatency("day", 0.02)
	m.ObserveBooking("created")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	byName := map[string]*dto.MetricFamily{}
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}
	queries, ok := byName["schedcore_availability_queries_total"]
	if !ok {
		t.Fatal("availability query counter not registered")
	}
	var total float64
	for _, metric := range queries.GetMetric() {
		total += metric.GetCounter().GetValue()
	}
	if total != 2 {
		t.Errorf("expected 2 availability queries recorded, got %v", total)
	}
	if _, ok := byName["schedcore_booking_requests_total"]; !ok {
		t.Error("booking counter not registered")
	}
}

func TestSchedulingMetricsNilSafe(t *testing.T) {
	var m *SchedulingMetrics
	m.ObserveAvailabilityQuery("day", "ok")
	m.ObserveVerdict("valid")
	m.ObserveComputeLatency("week", 0.1)
	m.ObserveBooking("conflict")
}
