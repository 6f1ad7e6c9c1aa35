package metrics

import (
	"github.com/donutnomad/flowcase/flowchart"
	"github.com/donutnomad/flowcase/testcase"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "flowcase"

	labelResult   = "result"
	labelSeverity = "severity"
	labelCode     = "code"
	labelPriority = "priority"
	labelRoute    = "route"
	labelStatus   = "status"
)

// Metrics pipeline 与 HTTP 服务共用的指标
// 零值和 nil 都可以安全调用，此时不记录
type Metrics struct {
	diagrams    *prometheus.CounterVec
	diagnostics *prometheus.CounterVec
	testCases   *prometheus.CounterVec
	paths       prometheus.Histogram
	requests    *prometheus.CounterVec
}

// New 创建指标并注册到 reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		diagrams: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "diagrams_parsed_total",
			Help:      "The number of flowchart diagrams parsed, by result",
		}, []string{labelResult}),
		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "diagnostics_total",
			Help:      "The number of parser diagnostics reported",
		}, []string{labelSeverity, labelCode}),
		testCases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "testcases_generated_total",
			Help:      "The number of test cases generated, by priority",
		}, []string{labelPriority}),
		paths: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "paths_per_diagram",
			Help:      "The number of execution paths enumerated per diagram",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "The number of API requests served",
		}, []string{labelRoute, labelStatus}),
	}
	if reg != nil {
		reg.MustRegister(m.diagrams, m.diagnostics, m.testCases, m.paths, m.requests)
	}
	return m
}

func (m *Metrics) enabled() bool {
	return m != nil && m.diagrams != nil
}

// ObserveParse 记录一次解析结果及其诊断
func (m *Metrics) ObserveParse(res *flowchart.Result, err error) {
	if !m.enabled() {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.diagrams.WithLabelValues(result).Inc()
	if res == nil {
		return
	}
	for _, d := range res.Diagnostics {
		m.diagnostics.WithLabelValues(d.Severity.String(), string(d.Code)).Inc()
	}
}

// ObserveCases 记录路径数量和生成的用例
func (m *Metrics) ObserveCases(paths int, cases []testcase.TestCase) {
	if !m.enabled() {
		return
	}
	m.paths.Observe(float64(paths))
	for _, tc := range cases {
		m.testCases.WithLabelValues(string(tc.Priority)).Inc()
	}
}

// ObserveRequest 记录一次 API 请求
func (m *Metrics) ObserveRequest(route string, status int) {
	if !m.enabled() {
		return
	}
	m.requests.WithLabelValues(route, statusClass(status)).Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
