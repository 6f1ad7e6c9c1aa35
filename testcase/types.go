package testcase

import (
	"strings"

	"github.com/donutnomad/flowcase/flowchart"
	"github.com/samber/lo"
)

// Priority 测试用例优先级
type Priority string

const (
	PriorityCritical Priority = "Critical"
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityLow      Priority = "Low"
)

// Priorities 按优先顺序排列的所有级别
var Priorities = []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}

// IsValid 是否为合法级别
func (p Priority) IsValid() bool {
	return lo.Contains(Priorities, p)
}

// TestCase 由一条流程路径生成的测试用例
type TestCase struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Priority        Priority `json:"priority"`
	Description     string   `json:"description"`
	Preconditions   []string `json:"preconditions"`
	Steps           []string `json:"steps"`
	ExpectedResults []string `json:"expectedResults"`
	ErrorPath       bool     `json:"errorPath"`
	Path            []string `json:"path"` // 经过的节点 ID
}

// Path 从入口节点到终止节点的节点序列
type Path []flowchart.Node

// IDs 节点 ID 序列
func (p Path) IDs() []string {
	return lo.Map(p, func(n flowchart.Node, _ int) string {
		return n.ID
	})
}

// Key 路径的唯一标识
func (p Path) Key() string {
	return strings.Join(p.IDs(), "\x00")
}

// Labels 节点标签序列
func (p Path) Labels() []string {
	return lo.Map(p, func(n flowchart.Node, _ int) string {
		return n.Label
	})
}

// IsCircular 是否有节点重复出现
func (p Path) IsCircular() bool {
	ids := p.IDs()
	return len(lo.Uniq(ids)) != len(ids)
}

// First 第一个节点
func (p Path) First() flowchart.Node {
	return p[0]
}

// Last 最后一个节点
func (p Path) Last() flowchart.Node {
	return p[len(p)-1]
}
