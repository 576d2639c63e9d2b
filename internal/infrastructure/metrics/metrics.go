package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// SubmissionMetrics prometheus counters for the price submission gateway
type SubmissionMetrics struct {
	submissions *prometheus.CounterVec
	loads       prometheus.Counter
}

// NewSubmissionMetrics registers the collectors on reg
func NewSubmissionMetrics(reg prometheus.Registerer) *SubmissionMetrics {
	m := &SubmissionMetrics{
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "price_ledger",
				Name:      "submissions_total",
				Help:      "Price submissions by outcome.",
			},
			[]string{"outcome"},
		),
		loads: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "price_ledger",
				Name:      "history_loads_total",
				Help:      "Price history loads into a ledger.",
			},
		),
	}
	reg.MustRegister(m.submissions, m.loads)
	return m
}

// ObserveSubmission counts one submission by outcome label
func (m *SubmissionMetrics) ObserveSubmission(outcome string) {
	m.submissions.WithLabelValues(outcome).Inc()
}

// ObserveHistoryLoad counts one ledger load
func (m *SubmissionMetrics) ObserveHistoryLoad() {
	m.loads.Inc()
}
