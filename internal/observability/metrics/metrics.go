package metrics

import "github.com/prometheus/client_golang/prometheus"

// IntakeMetrics exposes counters for the submission pipeline and its sinks.
type IntakeMetrics struct {
	submissionsTotal *prometheus.CounterVec
	sinkTotal        *prometheus.CounterVec
	rateLimitedTotal *prometheus.CounterVec
}

func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	m := &IntakeMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "toolrent",
			Subsystem: "intake",
			Name:      "submissions_total",
			Help:      "Total intake submissions by flow and outcome",
		}, []string{"flow", "status"}),
		sinkTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "toolrent",
			Subsystem: "intake",
			Name:      "sink_deliveries_total",
			Help:      "Total notification sink attempts",
		}, []string{"sink", "status"}),
		rateLimitedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "toolrent",
			Subsystem: "intake",
			Name:      "rate_limited_total",
			Help:      "Submissions rejected by the rate limiter",
		}, []string{"flow"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.sinkTotal, m.rateLimitedTotal)
	return m
}

func (m *IntakeMetrics) ObserveSubmission(flow, status string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(flow, status).Inc()
}

func (m *IntakeMetrics) ObserveSink(sink, status string) {
	if m == nil {
		return
	}
	m.sinkTotal.WithLabelValues(sink, status).Inc()
}

func (m *IntakeMetrics) ObserveRateLimited(flow string) {
	if m == nil {
		return
	}
	m.rateLimitedTotal.WithLabelValues(flow).Inc()
}
