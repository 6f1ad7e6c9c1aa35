package testcase

import (
	"fmt"
	"strings"

	"github.com/donutnomad/flowcase/flowchart"
	"github.com/samber/lo"
)

// DefaultIDPrefix 默认用例 ID 前缀
const DefaultIDPrefix = "FLOW"

// Synthesizer 把路径转换为测试用例
type Synthesizer struct {
	prefix string
	rules  PriorityRules
}

// NewSynthesizer 创建用例合成器
func NewSynthesizer(prefix string, rules PriorityRules) *Synthesizer {
	if prefix == "" {
		prefix = DefaultIDPrefix
	}
	if rules == nil {
		rules = DefaultPriorityRules()
	}
	return &Synthesizer{prefix: prefix, rules: rules}
}

// CaseID 生成用例 ID，例如 FLOW-001
func (s *Synthesizer) CaseID(index int) string {
	return fmt.Sprintf("%s-%03d", s.prefix, index)
}

// Synthesize 由路径和全部连线生成一条用例，index 从 1 开始
func (s *Synthesizer) Synthesize(path Path, edges []flowchart.Edge, index int) TestCase {
	errorPath := IsErrorPath(path, edges)
	return TestCase{
		ID:              s.CaseID(index),
		Title:           Title(path),
		Priority:        s.rules.Resolve(path.Labels()),
		Description:     "Flow path: " + strings.Join(path.Labels(), descriptionSeparator),
		Preconditions:   Preconditions(path.First()),
		Steps:           Steps(path, edges),
		ExpectedResults: ExpectedResults(path, errorPath),
		ErrorPath:       errorPath,
		Path:            path.IDs(),
	}
}

// Title 用例标题
func Title(path Path) string {
	return fmt.Sprintf("%s to %s flow verification", path.First().Label, path.Last().Label)
}

func containsAny(text string, markers []string) bool {
	lower := strings.ToLower(text)
	return lo.SomeBy(markers, func(m string) bool {
		return strings.Contains(lower, m)
	})
}

// IsErrorPath 判断是否为异常路径：
// 经过的连线标签包含否定标记，或者除第一个节点外有节点标签包含错误标记
func IsErrorPath(path Path, edges []flowchart.Edge) bool {
	for i := 0; i < len(path)-1; i++ {
		if e, ok := flowchart.FindEdge(edges, path[i].ID, path[i+1].ID); ok && containsAny(e.Label, negativeEdgeMarkers) {
			return true
		}
		if containsAny(path[i+1].Label, errorMarkers) {
			return true
		}
	}
	return false
}

// Preconditions 前置条件，附加项只看第一个节点
func Preconditions(first flowchart.Node) []string {
	out := append([]string{}, basePreconditions...)
	switch {
	case containsAny(first.Label, loginMarkers):
		out = append(out, loginPreconditions...)
	case containsAny(first.Label, registrationMarkers):
		out = append(out, registrationPreconditions...)
	}
	return out
}

// Steps 测试步骤：每个节点一步，带标签的连线额外生成一步分支条件
func Steps(path Path, edges []flowchart.Edge) []string {
	steps := make([]string, 0, len(path)*2)
	for i := 0; i < len(path)-1; i++ {
		steps = append(steps, StepFor(path[i]))
		if e, ok := flowchart.FindEdge(edges, path[i].ID, path[i+1].ID); ok && e.Label != "" {
			steps = append(steps, fmt.Sprintf(branchStepTemplate, e.Label))
		}
	}
	return append(steps, StepFor(path.Last()))
}

// ExpectedResults 期望结果
func ExpectedResults(path Path, errorPath bool) []string {
	if errorPath {
		out := append([]string{}, errorPathResults...)
		if lo.SomeBy(path, func(n flowchart.Node) bool { return containsAny(n.Label, inputMarkers) }) {
			out = append(out, reentryResult)
		}
		return out
	}

	last := path.Last()
	var out []string
	switch last.Type {
	case flowchart.NodeTypeOutput:
		out = append(out,
			fmt.Sprintf(`"%s" is displayed correctly`, last.Label),
			"The displayed content matches the specification")
	case flowchart.NodeTypeDatabase:
		out = append(out,
			fmt.Sprintf(`The data operation "%s" completes successfully`, last.Label),
			"Data integrity is preserved")
	case flowchart.NodeTypeEnd:
		out = append(out, fmt.Sprintf(`The flow completes successfully and reaches the "%s" state`, last.Label))
	default:
		out = append(out, fmt.Sprintf(`The processing of "%s" completes successfully`, last.Label))
	}

	if lo.SomeBy(path, func(n flowchart.Node) bool { return n.Type == flowchart.NodeTypeOutput }) {
		out = append(out, displayUpdateResult)
	}
	return out
}
