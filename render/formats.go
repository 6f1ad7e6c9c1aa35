package render

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/donutnomad/flowcase/flowchart"
)

// JSONRenderer 输出文档的 JSON 形式
type JSONRenderer struct{}

func NewJSONRenderer() *JSONRenderer { return &JSONRenderer{} }

func (r *JSONRenderer) Name() string      { return "json" }
func (r *JSONRenderer) Extension() string { return ".json" }

func (r *JSONRenderer) Render(doc *Document) ([]byte, error) {
	data, err := sonic.ConfigStd.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return append(data, '\n'), nil
}

// TextRenderer 输出流程图摘要和用例列表
type TextRenderer struct{}

func NewTextRenderer() *TextRenderer { return &TextRenderer{} }

func (r *TextRenderer) Name() string      { return "text" }
func (r *TextRenderer) Extension() string { return ".txt" }

func (r *TextRenderer) Render(doc *Document) ([]byte, error) {
	var sb strings.Builder
	if doc.Graph != nil {
		sb.WriteString(flowchart.ToText(doc.Graph))
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "Test cases (%d):\n", len(doc.TestCases))
	for _, tc := range doc.TestCases {
		fmt.Fprintf(&sb, "- %s [%s] %s\n", tc.ID, tc.Priority, tc.Title)
		fmt.Fprintf(&sb, "    %s\n", strings.Join(tc.Path, " -> "))
	}
	return []byte(sb.String()), nil
}

// MermaidRenderer 输出规范化后的流程图文本
type MermaidRenderer struct{}

func NewMermaidRenderer() *MermaidRenderer { return &MermaidRenderer{} }

func (r *MermaidRenderer) Name() string      { return "mermaid" }
func (r *MermaidRenderer) Extension() string { return ".mmd" }

func (r *MermaidRenderer) Render(doc *Document) ([]byte, error) {
	if doc.Graph == nil {
		return nil, fmt.Errorf("mermaid: document has no graph")
	}
	return []byte(flowchart.ToMermaid(doc.Graph)), nil
}
