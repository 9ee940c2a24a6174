// Package metrics holds the Prometheus collectors exported by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "feereceipt"

// Metrics groups every collector. Build one per registry with New.
type Metrics struct {
	RPCRequests       *prometheus.CounterVec
	RPCDuration       *prometheus.HistogramVec
	ReceiptsGenerated prometheus.Counter
	RenderDuration    prometheus.Histogram
	FeeRowsTruncated  prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RPCRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		RPCDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC handling time by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		ReceiptsGenerated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receipts_generated_total",
			Help:      "Receipt PDFs written to the store.",
		}),
		RenderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time to lay out and emit one receipt.",
			Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5},
		}),
		FeeRowsTruncated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fee_rows_truncated_total",
			Help:      "Fee items dropped from printed receipts because the table was full.",
		}),
	}
}
