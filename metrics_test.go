package hookstate

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatherByName(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}
	return byName
}

func counterValue(mf *dto.MetricFamily) float64 {
	if mf == nil || len(mf.Metric) == 0 {
		return 0
	}
	return mf.Metric[0].GetCounter().GetValue()
}

func TestMetricsCountRequestsAndSets(t *testing.T) {
	promReg := prometheus.NewRegistry()
	r := New(WithMetrics(promReg))

	b := r.Bind(Path{0})
	_, setter, err := UseState(b, "hello")
	require.NoError(t, err)
	_, _, err = UseState(b, 1)
	require.NoError(t, err)
	require.NoError(t, setter.Set("bye"))

	byName := gatherByName(t, promReg)
	assert.Equal(t, 2.0, counterValue(byName["hookstate_state_requests_total"]))
	assert.Equal(t, 1.0, counterValue(byName["hookstate_setter_applies_total"]))
}

func TestMetricsCountViolationsByKind(t *testing.T) {
	promReg := prometheus.NewRegistry()
	r := New(WithMetrics(promReg))

	b := r.Bind(Path{0})
	_, _, err := UseState(b, "text")
	require.NoError(t, err)

	b = r.Bind(Path{0})
	_, _, err = UseState(b, 42)
	require.ErrorIs(t, err, ErrTypeMismatch)

	byName := gatherByName(t, promReg)
	mf := byName["hookstate_contract_violations_total"]
	require.NotNil(t, mf)
	require.Len(t, mf.Metric, 1)

	require.Len(t, mf.Metric[0].Label, 1)
	assert.Equal(t, "kind", mf.Metric[0].Label[0].GetName())
	assert.Equal(t, "type", mf.Metric[0].Label[0].GetValue())
	assert.Equal(t, 1.0, mf.Metric[0].GetCounter().GetValue())
}

func TestMetricsTreeShapeGauges(t *testing.T) {
	promReg := prometheus.NewRegistry()
	r := New(WithMetrics(promReg))

	b := r.Bind(Path{0})
	_, _, err := UseState(b, 1)
	require.NoError(t, err)
	_, _, err = UseState(b, 2)
	require.NoError(t, err)

	byName := gatherByName(t, promReg)

	nodes := byName["hookstate_nodes"]
	require.NotNil(t, nodes)
	assert.Equal(t, 2.0, nodes.Metric[0].GetGauge().GetValue())

	slots := byName["hookstate_slots"]
	require.NotNil(t, slots)
	assert.Equal(t, 2.0, slots.Metric[0].GetGauge().GetValue())
}
