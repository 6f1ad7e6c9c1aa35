package metrics

import (
	"errors"
	"testing"

	"github.com/donutnomad/flowcase/flowchart"
	"github.com/donutnomad/flowcase/testcase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// value 读取指定名称和标签的计数值
func value(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			got := map[string]string{}
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			for k, v := range labels {
				if got[k] != v {
					continue next
				}
			}
			if h := m.GetHistogram(); h != nil {
				return float64(h.GetSampleCount())
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestObserveParse(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	res, err := flowchart.NewParser(flowchart.WithStrict(false)).Parse("flowchart TD\nA --> B")
	require.NoError(t, err)
	m.ObserveParse(res, nil)
	m.ObserveParse(nil, errors.New("boom"))

	assert.Equal(t, 1.0, value(t, reg, "flowcase_diagrams_parsed_total", map[string]string{"result": "ok"}))
	assert.Equal(t, 1.0, value(t, reg, "flowcase_diagrams_parsed_total", map[string]string{"result": "error"}))
	assert.Equal(t, 2.0, value(t, reg, "flowcase_diagnostics_total", map[string]string{"severity": "error", "code": "E002"}))
}

func TestObserveCases(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveCases(3, []testcase.TestCase{
		{ID: "FLOW-001", Priority: testcase.PriorityHigh},
		{ID: "FLOW-002", Priority: testcase.PriorityHigh},
		{ID: "FLOW-003", Priority: testcase.PriorityLow},
	})

	assert.Equal(t, 2.0, value(t, reg, "flowcase_testcases_generated_total", map[string]string{"priority": "High"}))
	assert.Equal(t, 1.0, value(t, reg, "flowcase_testcases_generated_total", map[string]string{"priority": "Low"}))
	assert.Equal(t, 1.0, value(t, reg, "flowcase_paths_per_diagram", nil))
}

func TestObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRequest("/api/v1/parse", 200)
	m.ObserveRequest("/api/v1/parse", 422)
	m.ObserveRequest("/api/v1/parse", 201)

	assert.Equal(t, 2.0, value(t, reg, "flowcase_http_requests_total", map[string]string{"route": "/api/v1/parse", "status": "2xx"}))
	assert.Equal(t, 1.0, value(t, reg, "flowcase_http_requests_total", map[string]string{"status": "4xx"}))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveParse(nil, nil)
		m.ObserveCases(1, nil)
		m.ObserveRequest("/", 200)
		(&Metrics{}).ObserveRequest("/", 500)
	})
}

func TestNew_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
	assert.NotPanics(t, func() { New(nil) })
}
