package store

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	operations *prometheus.CounterVec
	statements *prometheus.CounterVec
}

func newMetrics() *metrics {
	return &metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rdfmap",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Store operations by kind and outcome.",
		}, []string{"op", "outcome"}),
		statements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rdfmap",
			Subsystem: "store",
			Name:      "statements_total",
			Help:      "Statements read, inserted, or deleted.",
		}, []string{"op"}),
	}
}

func (m *metrics) register(reg prometheus.Registerer) {
	if reg == nil {
		return
	}
	reg.MustRegister(m.operations, m.statements)
}

func (m *metrics) observe(op string, rows int64, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.operations.WithLabelValues(op, outcome).Inc()
	if err == nil && rows > 0 {
		m.statements.WithLabelValues(op).Add(float64(rows))
	}
}
