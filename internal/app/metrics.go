package app

import "github.com/prometheus/client_golang/prometheus"

const metricsNamespace = "biddingd"

// Metrics are the application counters exported on the metrics endpoint.
type Metrics struct {
	Txs         *prometheus.CounterVec
	Bids        *prometheus.CounterVec
	BlockHeight prometheus.Gauge
}

// NewMetrics registers the application metrics with reg. A nil reg yields
// unregistered collectors, which tests use.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Txs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "txs_total",
			Help:      "Delivered transactions by type and result.",
		}, []string{"type", "result"}),
		Bids: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "bids_total",
			Help:      "Accepted bids and bids rejected as too small.",
		}, []string{"result"}),
		BlockHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "block_height",
			Help:      "Height of the last finalized block.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Txs, m.Bids, m.BlockHeight)
	}
	return m
}

func resultLabel(code uint32) string {
	if code == 0 {
		return "ok"
	}
	return "error"
}
