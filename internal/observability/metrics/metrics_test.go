package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestIntakeMetricsRegisterAndCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewIntakeMetrics(reg)

	m.ObserveSubmission("booking", "ok")
	m.ObserveSubmission("lead", "rate_limited")
	m.ObserveSink("telegram", "error")
	m.ObserveRateLimited("lead")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	found := map[string]bool{}
	for _, fam := range families {
		found[fam.GetName()] = true
	}
	for _, name := range []string{
		"toolrent_intake_submissions_total",
		"toolrent_intake_sink_deliveries_total",
		"toolrent_intake_rate_limited_total",
	} {
		if !found[name] {
			t.Errorf("metric %s not registered", name)
		}
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *IntakeMetrics
	m.ObserveSubmission("booking", "ok")
	m.ObserveSink("telegram", "ok")
	m.ObserveRateLimited("lead")
}
