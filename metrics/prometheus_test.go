// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	families, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		out[mf.GetName()] = mf
	}
	return out
}

func TestPromMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newPrometheusMetrics(reg)

	m.GetOrCreateCountMeter("ops").Add(1)
	m.GetOrCreateCountMeter("ops").Add(2)

	ops := m.GetOrCreateCountVecMeter("ops_by_name", []string{"name", "outcome"})
	ops.AddWithLabel(1, map[string]string{"name": "deposit", "outcome": "ok"})
	ops.AddWithLabel(1, map[string]string{"name": "deposit", "outcome": "revert"})
	ops.AddWithLabel(1, map[string]string{"name": "deposit", "outcome": "ok"})

	live := m.GetOrCreateGaugeVecMeter("bounties", []string{"state"})
	live.AddWithLabel(3, map[string]string{"state": "open"})
	live.AddWithLabel(-1, map[string]string{"state": "open"})
	live.SetWithLabel(7, map[string]string{"state": "closed"})

	g := m.GetOrCreateGaugeMeter("height")
	g.Set(10)
	g.Add(-4)

	h := m.GetOrCreateHistogramMeter("payout", BucketUnits)
	h.Observe(2)
	h.Observe(40)

	hv := m.GetOrCreateHistogramVecMeter("duration", []string{"code"}, BucketHTTPReqs)
	hv.ObserveWithLabels(15, map[string]string{"code": "200"})

	families := gather(t, reg)
	require.Equal(t, float64(3), families["bounty_ops"].Metric[0].GetCounter().GetValue())

	var total float64
	for _, metric := range families["bounty_ops_by_name"].Metric {
		total += metric.GetCounter().GetValue()
	}
	require.Equal(t, float64(3), total)
	require.Len(t, families["bounty_bounties"].Metric, 2)
	require.Equal(t, float64(6), families["bounty_height"].Metric[0].GetGauge().GetValue())
	require.Equal(t, float64(42), families["bounty_payout"].Metric[0].GetHistogram().GetSampleSum())
	require.Equal(t, uint64(1), families["bounty_duration"].Metric[0].GetHistogram().GetSampleCount())
}

func TestPromMetrics_SameMeter(t *testing.T) {
	m := newPrometheusMetrics(prometheus.NewRegistry())
	require.Same(t, m.GetOrCreateCountMeter("a"), m.GetOrCreateCountMeter("a"))
	require.Same(t, m.GetOrCreateGaugeVecMeter("b", []string{"x"}), m.GetOrCreateGaugeVecMeter("b", []string{"x"}))
}

func TestLazyLoading(t *testing.T) {
	metrics = defaultNoopMetrics()
	t.Cleanup(func() { metrics = defaultNoopMetrics() })

	for _, a := range []any{
		Gauge("noopGauge"),
		GaugeVec("noopGauge", nil),
		Counter("noopCounter"),
		CounterVec("noopCounter", nil),
		Histogram("noopHist", nil),
		HistogramVec("noopHist", nil, nil),
	} {
		require.IsType(t, noopMeters{}, a)
	}

	lazyGauge := LazyLoadGauge("lazyGauge")
	lazyGaugeVec := LazyLoadGaugeVec("lazyGaugeVec", nil)
	lazyCounter := LazyLoad(func() CountMeter { return Counter("lazyCounter") })
	lazyCounterVec := LazyLoadCounterVec("lazyCounterVec", nil)
	lazyHistogram := LazyLoadHistogram("lazyHistogram", nil)
	lazyHistogramVec := LazyLoadHistogramVec("lazyHistogramVec", nil, nil)

	// meters resolved after initialization are prometheus backed
	metrics = newPrometheusMetrics(prometheus.NewRegistry())

	require.IsType(t, &promGaugeMeter{}, lazyGauge())
	require.IsType(t, &promGaugeVecMeter{}, lazyGaugeVec())
	require.IsType(t, &promCountMeter{}, lazyCounter())
	require.IsType(t, &promCountVecMeter{}, lazyCounterVec())
	require.IsType(t, &promHistogramMeter{}, lazyHistogram())
	require.IsType(t, &promHistogramVecMeter{}, lazyHistogramVec())
}
