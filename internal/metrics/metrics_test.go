package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	m := New(reg)

	m.RPCRequests.WithLabelValues("/feereceipt.v1.ReceiptService/GenerateReceipt", "ok").Inc()
	m.RPCDuration.WithLabelValues("/feereceipt.v1.ReceiptService/GenerateReceipt").Observe(0.01)
	m.ReceiptsGenerated.Inc()
	m.RenderDuration.Observe(0.002)
	m.FeeRowsTruncated.Add(2)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	var truncated float64
	for _, f := range families {
		names[f.GetName()] = true
		if f.GetName() == "feereceipt_fee_rows_truncated_total" {
			truncated = f.GetMetric()[0].GetCounter().GetValue()
		}
	}
	for _, want := range []string{
		"feereceipt_rpc_requests_total",
		"feereceipt_rpc_duration_seconds",
		"feereceipt_receipts_generated_total",
		"feereceipt_render_duration_seconds",
		"feereceipt_fee_rows_truncated_total",
	} {
		assert.True(t, names[want], want)
	}
	assert.Equal(t, 2.0, truncated)
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
