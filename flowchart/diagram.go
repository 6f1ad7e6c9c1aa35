package flowchart

import (
	"strings"

	"github.com/mattn/go-runewidth"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	diagramArrow    = "-->"
	diagramJunction = "+"
	diagramVertical = "│"
	diagramLoop     = " 🔁"
)

// DiagramRenderer 把流程图渲染为 ASCII 树状图
//
//	Start --> Check --+-- Yes --> Done
//	                  │
//	                  +-- No --> Retry 🔁
type DiagramRenderer struct {
	labels *orderedmap.OrderedMap[string, string]
	edges  *orderedmap.OrderedMap[string, []Edge]

	Junction string
	Vertical string
}

// NewDiagramRenderer 从解析结果构造渲染器
func NewDiagramRenderer(g *Graph) *DiagramRenderer {
	r := &DiagramRenderer{
		labels:   orderedmap.New[string, string](),
		edges:    orderedmap.New[string, []Edge](),
		Junction: diagramJunction,
		Vertical: diagramVertical,
	}
	for _, n := range g.Nodes {
		r.labels.Set(n.ID, displayName(n))
	}
	for _, e := range g.Edges {
		r.ensure(e.From)
		r.ensure(e.To)
		list, _ := r.edges.Get(e.From)
		r.edges.Set(e.From, append(list, e))
	}
	return r
}

func displayName(n Node) string {
	if n.Label == "" || n.Label == n.ID {
		return n.ID
	}
	return n.Label
}

func (r *DiagramRenderer) ensure(id string) {
	if _, ok := r.labels.Get(id); !ok {
		r.labels.Set(id, id)
	}
}

func (r *DiagramRenderer) content(id string) string {
	if v, ok := r.labels.Get(id); ok {
		return v
	}
	return id
}

// edgeText 连线的文本形式，带标签时为 "-- 标签 --> "
func edgeText(e Edge) string {
	if e.Label == "" {
		return diagramArrow + " "
	}
	return "-- " + e.Label + " " + diagramArrow + " "
}

// Render 生成 ASCII 图
// 从入度为 0 的节点开始渲染，每个根一棵树；没有这样的节点时使用第一个节点
func (r *DiagramRenderer) Render() string {
	if r.labels.Len() == 0 {
		return ""
	}

	inDegree := make(map[string]int)
	for pair := r.edges.Oldest(); pair != nil; pair = pair.Next() {
		for _, e := range pair.Value {
			inDegree[e.To]++
		}
	}

	var roots []string
	for pair := r.labels.Oldest(); pair != nil; pair = pair.Next() {
		if inDegree[pair.Key] == 0 {
			roots = append(roots, pair.Key)
		}
	}
	if len(roots) == 0 {
		roots = []string{r.labels.Oldest().Key}
	}

	var blocks []string
	for _, root := range roots {
		lines, _ := r.renderFlow(root, map[string]bool{})
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

func (r *DiagramRenderer) renderFlow(id string, visited map[string]bool) ([]string, int) {
	if visited[id] {
		return []string{r.content(id) + diagramLoop}, 0
	}

	edges, _ := r.edges.Get(id)
	if len(edges) == 0 {
		return []string{r.content(id)}, 0
	}

	visited[id] = true
	if len(edges) == 1 {
		return r.renderSingle(id, edges[0], visited)
	}
	return r.renderBranches(id, edges, visited)
}

func (r *DiagramRenderer) renderSingle(id string, e Edge, visited map[string]bool) ([]string, int) {
	sub, anchor := r.renderFlow(e.To, copyVisited(visited))

	prefix := r.content(id) + " " + edgeText(e)
	indent := strings.Repeat(" ", runewidth.StringWidth(prefix))

	out := make([]string, 0, len(sub))
	for i, line := range sub {
		if i == anchor {
			out = append(out, prefix+line)
		} else {
			out = append(out, indent+line)
		}
	}
	return out, anchor
}

type branch struct {
	lines    []string
	anchor   int
	padAbove int
	padBelow int
	label    string
}

type diagramLine struct {
	anchor    bool
	centerSep bool
	filler    bool
	content   string
	branch    int
}

func (r *DiagramRenderer) renderBranches(id string, edges []Edge, visited map[string]bool) ([]string, int) {
	branches := make([]branch, 0, len(edges))
	for _, e := range edges {
		lines, anchor := r.renderFlow(e.To, copyVisited(visited))
		branches = append(branches, branch{lines: lines, anchor: anchor, label: edgeText(e)})
	}

	// 上下两半在中心线附近对齐
	upper := len(branches) / 2
	lowerStart := len(branches) - upper
	extend := 0
	if upper > 0 {
		b := branches[upper-1]
		extend = len(b.lines) - 1 - b.anchor
	}
	if lowerStart < len(branches) {
		extend = max(extend, branches[lowerStart].anchor)
	}
	if len(branches)%2 == 0 && extend < 1 {
		extend = 1
	}
	if upper > 0 {
		b := &branches[upper-1]
		b.padBelow = extend - (len(b.lines) - 1 - b.anchor)
	}
	if lowerStart < len(branches) {
		branches[lowerStart].padAbove = extend - branches[lowerStart].anchor
	}

	var all []diagramLine
	for i, b := range branches {
		for k := 0; k < b.padAbove; k++ {
			all = append(all, diagramLine{filler: true})
		}
		for j, line := range b.lines {
			all = append(all, diagramLine{anchor: j == b.anchor, content: line, branch: i})
		}
		for k := 0; k < b.padBelow; k++ {
			all = append(all, diagramLine{filler: true})
		}
		if i < len(branches)-1 {
			all = append(all, diagramLine{filler: true, centerSep: i == upper-1 && len(branches)%2 == 0})
		}
	}

	center := 0
	for i, l := range all {
		if len(branches)%2 == 1 && l.anchor && l.branch == len(branches)/2 {
			center = i
			break
		}
		if len(branches)%2 == 0 && l.centerSep {
			center = i
			break
		}
	}

	first, last := -1, -1
	for i, l := range all {
		if l.anchor {
			if first == -1 {
				first = i
			}
			last = i
		}
	}

	stem := r.content(id) + " " + diagramArrow
	indent := strings.Repeat(" ", runewidth.StringWidth(stem))

	out := make([]string, 0, len(all))
	for i, l := range all {
		switch {
		case i == center && len(branches)%2 == 1:
			out = append(out, stem+r.Junction+branches[l.branch].label+l.content)
		case i == center:
			out = append(out, stem+r.Junction)
		case l.anchor:
			out = append(out, indent+r.Junction+branches[l.branch].label+l.content)
		default:
			marker := " "
			if i > first && i < last {
				marker = r.Vertical
			}
			if l.filler || l.content == "" {
				out = append(out, indent+marker)
				continue
			}
			pad := strings.Repeat(" ", runewidth.StringWidth(branches[l.branch].label))
			out = append(out, indent+marker+pad+l.content)
		}
	}
	return out, center
}

func copyVisited(visited map[string]bool) map[string]bool {
	out := make(map[string]bool, len(visited))
	for k, v := range visited {
		out[k] = v
	}
	return out
}
