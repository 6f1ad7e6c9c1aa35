package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

//go:embed templates/markdown.tmpl
var markdownTemplate string

// MarkdownRenderer 输出 Markdown 测试用例文档
type MarkdownRenderer struct {
	tmpl *template.Template
}

// NewMarkdownRenderer 使用内置模板创建渲染器
func NewMarkdownRenderer() *MarkdownRenderer {
	r, err := NewMarkdownRendererFromTemplate(markdownTemplate)
	if err != nil {
		panic(err)
	}
	return r
}

// NewMarkdownRendererFromTemplate 使用自定义模板创建渲染器
// 模板可使用 Sprig 函数，数据为 *Document
func NewMarkdownRendererFromTemplate(text string) (*MarkdownRenderer, error) {
	tmpl, err := template.New("markdown").Funcs(sprig.TxtFuncMap()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse markdown template: %w", err)
	}
	return &MarkdownRenderer{tmpl: tmpl}, nil
}

func (r *MarkdownRenderer) Name() string      { return "markdown" }
func (r *MarkdownRenderer) Extension() string { return ".md" }

func (r *MarkdownRenderer) Render(doc *Document) ([]byte, error) {
	view := *doc
	view.Separator = doc.separator()

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, &view); err != nil {
		return nil, fmt.Errorf("execute markdown template: %w", err)
	}
	return buf.Bytes(), nil
}
