package flowchart

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

// ToMermaid 把图重新输出为流程图文本，输出可被 Parse 原样解析
// 样式由类型推断得出，不写回文本
func ToMermaid(g *Graph) string {
	dir := g.Direction
	if dir == "" {
		dir = DirectionTD
	}

	lines := make([]string, 0, 1+len(g.Nodes)+len(g.Edges))
	lines = append(lines, "graph "+string(dir))
	for _, n := range g.Nodes {
		lines = append(lines, "    "+FormatNode(n))
	}
	for _, e := range g.Edges {
		lines = append(lines, "    "+FormatEdge(Endpoint{ID: e.From}, Endpoint{ID: e.To}, e.LineType, e.Label))
	}
	return strings.Join(lines, "\n") + "\n"
}

// FormatNode 输出节点声明
func FormatNode(n Node) string {
	return n.ID + FormatShape(n.Shape, n.Label)
}

// ToJSON 以缩进 JSON 输出解析结果
func ToJSON(g *Graph) ([]byte, error) {
	data, err := sonic.ConfigStd.MarshalIndent(g, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal graph: %w", err)
	}
	return data, nil
}

// ToText 输出简洁的文本摘要：节点列表、连线列表和 ASCII 流程图
func ToText(g *Graph) string {
	var sb strings.Builder
	sb.WriteString("Nodes:\n")
	for _, n := range g.Nodes {
		fmt.Fprintf(&sb, "- %s: %s\n", n.ID, n.Label)
	}

	sb.WriteString("\nEdges:\n")
	for _, e := range g.Edges {
		if e.Label != "" {
			fmt.Fprintf(&sb, "- %s -> %s (%s)\n", e.From, e.To, e.Label)
		} else {
			fmt.Fprintf(&sb, "- %s -> %s\n", e.From, e.To)
		}
	}

	if diagram := NewDiagramRenderer(g).Render(); diagram != "" {
		sb.WriteString("\nFlow:\n")
		sb.WriteString(diagram)
		sb.WriteString("\n")
	}
	return sb.String()
}
