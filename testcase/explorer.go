package testcase

import (
	"slices"

	"github.com/donutnomad/flowcase/flowchart"
	"github.com/samber/lo"
)

// DefaultVisitBound 单个入口的探索中同一节点最多经过的次数
// 为 2 时每个环最多走一遍
const DefaultVisitBound = 2

// Explorer 路径探索器
// 从每个入口节点做有界深度优先搜索，只在到达终止节点时记录路径
type Explorer struct {
	bound int
}

// NewExplorer 创建探索器，bound < 1 时使用 DefaultVisitBound
func NewExplorer(bound int) *Explorer {
	if bound < 1 {
		bound = DefaultVisitBound
	}
	return &Explorer{bound: bound}
}

// Bound 访问上限
func (e *Explorer) Bound() int {
	return e.bound
}

// EntryNodes 入口节点：所有 start 类型节点；没有时退化为所有入度为 0 的节点
func EntryNodes(g *flowchart.Graph) []flowchart.Node {
	starts := lo.Filter(g.Nodes, func(n flowchart.Node, _ int) bool {
		return n.Type == flowchart.NodeTypeStart
	})
	if len(starts) > 0 {
		return starts
	}
	return lo.Filter(g.Nodes, func(n flowchart.Node, _ int) bool {
		return g.InDegree(n.ID) == 0
	})
}

// IsTerminal 终止节点：end 类型或出度为 0
func IsTerminal(g *flowchart.Graph, n flowchart.Node) bool {
	return n.Type == flowchart.NodeTypeEnd || g.OutDegree(n.ID) == 0
}

// Explore 按入口节点顺序探索全部路径
func (e *Explorer) Explore(g *flowchart.Graph) []Path {
	var paths []Path
	for _, root := range EntryNodes(g) {
		paths = append(paths, e.ExploreFrom(g, root)...)
	}
	return paths
}

// ExploreFrom 探索从 root 出发的路径
// 结果中无环路径在前、有环路径在后，两组内部按长度升序（稳定排序）
func (e *Explorer) ExploreFrom(g *flowchart.Graph, root flowchart.Node) []Path {
	t := newTraversal(g, e.bound)
	t.dfs(root)

	paths := lo.UniqBy(t.paths, func(p Path) string {
		return p.Key()
	})
	circular, normal := lo.FilterReject(paths, func(p Path, _ int) bool {
		return p.IsCircular()
	})
	byLength := func(a, b Path) int {
		return len(a) - len(b)
	}
	slices.SortStableFunc(normal, byLength)
	slices.SortStableFunc(circular, byLength)
	return append(normal, circular...)
}

// traversal 单次探索的状态，不与其他调用共享
type traversal struct {
	next     map[string][]flowchart.Node
	terminal map[string]bool
	visits   map[string]int
	bound    int
	path     Path
	paths    []Path
}

func newTraversal(g *flowchart.Graph, bound int) *traversal {
	nodes := lo.KeyBy(g.Nodes, func(n flowchart.Node) string {
		return n.ID
	})

	t := &traversal{
		next:     make(map[string][]flowchart.Node, len(g.Nodes)),
		terminal: make(map[string]bool, len(g.Nodes)),
		visits:   make(map[string]int, len(g.Nodes)),
		bound:    bound,
	}
	// 出度按原始连线计算，后继只包含可解析的节点
	for _, edge := range g.Edges {
		if to, ok := nodes[edge.To]; ok {
			t.next[edge.From] = append(t.next[edge.From], to)
		}
	}
	for _, n := range g.Nodes {
		t.terminal[n.ID] = IsTerminal(g, n)
	}
	return t
}

func (t *traversal) dfs(current flowchart.Node) {
	t.path = append(t.path, current)
	t.visits[current.ID]++
	visits := t.visits[current.ID]

	switch {
	case t.terminal[current.ID]:
		if len(t.path) > 1 {
			t.paths = append(t.paths, slices.Clone(t.path))
		}
	case visits <= t.bound:
		for _, next := range t.next[current.ID] {
			if t.visits[next.ID] < t.bound {
				t.dfs(next)
			}
		}
	}

	t.path = t.path[:len(t.path)-1]
	t.visits[current.ID]--
}
