package testcase

import (
	"github.com/donutnomad/flowcase/flowchart"
)

// Options 用例生成选项
type Options struct {
	IDPrefix      string
	VisitBound    int
	PriorityRules PriorityRules
}

// Option 生成选项函数
type Option func(*Options)

// WithIDPrefix 设置用例 ID 前缀
func WithIDPrefix(prefix string) Option {
	return func(o *Options) {
		o.IDPrefix = prefix
	}
}

// WithVisitBound 设置节点访问上限
func WithVisitBound(bound int) Option {
	return func(o *Options) {
		o.VisitBound = bound
	}
}

// WithPriorityRules 设置优先级关键字表
func WithPriorityRules(rules PriorityRules) Option {
	return func(o *Options) {
		o.PriorityRules = rules
	}
}

// Generator 路径探索 + 用例合成
type Generator struct {
	explorer    *Explorer
	synthesizer *Synthesizer
}

// NewGenerator 创建生成器
func NewGenerator(opts ...Option) *Generator {
	o := Options{
		IDPrefix:   DefaultIDPrefix,
		VisitBound: DefaultVisitBound,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Generator{
		explorer:    NewExplorer(o.VisitBound),
		synthesizer: NewSynthesizer(o.IDPrefix, o.PriorityRules),
	}
}

// Paths 返回图中全部路径
func (g *Generator) Paths(graph *flowchart.Graph) []Path {
	return g.explorer.Explore(graph)
}

// Generate 为每条路径生成一条用例，编号按发现顺序跨所有入口连续分配
func (g *Generator) Generate(graph *flowchart.Graph) []TestCase {
	return g.FromPaths(graph, g.Paths(graph))
}

// FromPaths 用已探索好的路径生成用例
func (g *Generator) FromPaths(graph *flowchart.Graph, paths []Path) []TestCase {
	cases := make([]TestCase, 0, len(paths))
	for i, p := range paths {
		cases = append(cases, g.synthesizer.Synthesize(p, graph.Edges, i+1))
	}
	return cases
}
