package application

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts flow outcomes and proposal failures. A nil *Metrics is a
// valid no-op receiver so embedders can opt out.
type Metrics struct {
	outcomes         *prometheus.CounterVec
	proposalFailures prometheus.Counter
	quoteFailures    prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sendflow",
			Name:      "flow_outcomes_total",
			Help:      "Broadcast outcomes by terminal result kind.",
		}, []string{"result"}),
		proposalFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sendflow",
			Name:      "proposal_failures_total",
			Help:      "Proposal requests rejected by the synchronizer.",
		}),
		quoteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sendflow",
			Name:      "quote_failures_total",
			Help:      "Swap quote requests that failed or expired.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.outcomes, m.proposalFailures, m.quoteFailures)
	}
	return m
}

func (m *Metrics) CountOutcome(result string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(result).Inc()
}

func (m *Metrics) CountProposalFailure() {
	if m == nil {
		return
	}
	m.proposalFailures.Inc()
}

func (m *Metrics) CountQuoteFailure() {
	if m == nil {
		return
	}
	m.quoteFailures.Inc()
}
