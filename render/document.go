package render

import (
	"path/filepath"
	"strings"

	"github.com/donutnomad/flowcase/flowchart"
	"github.com/donutnomad/flowcase/testcase"
	"github.com/google/uuid"
)

const (
	DefaultSeparator = "---"
	DefaultPackage   = "flowcases"
)

// Document 一次渲染的全部输入
type Document struct {
	SuiteID   string              `json:"suiteId"`
	Title     string              `json:"title"`
	Source    string              `json:"source,omitempty"`
	Graph     *flowchart.Graph    `json:"graph"`
	TestCases []testcase.TestCase `json:"testCases"`

	Header    string `json:"-"` // Markdown 文件头
	Separator string `json:"-"` // Markdown 用例分隔符
	Package   string `json:"-"` // Go 测试骨架的包名
}

// NewDocument 构造文档
// SuiteID 由源文本的 SHA1 派生，相同输入得到相同 ID
func NewDocument(source string, content []byte, g *flowchart.Graph, cases []testcase.TestCase) *Document {
	title := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if source == "" {
		title = "flowchart"
	}
	return &Document{
		SuiteID:   uuid.NewSHA1(uuid.NameSpaceURL, content).String(),
		Title:     title,
		Source:    source,
		Graph:     g,
		TestCases: cases,
		Separator: DefaultSeparator,
		Package:   DefaultPackage,
	}
}

func (d *Document) separator() string {
	if d.Separator == "" {
		return DefaultSeparator
	}
	return d.Separator
}

func (d *Document) pkg() string {
	if d.Package == "" {
		return DefaultPackage
	}
	return d.Package
}
