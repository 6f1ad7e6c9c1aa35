package flowchart

import (
	"strings"

	"github.com/samber/lo"
)

var (
	startMarkers      = []string{"start"}
	endMarkers        = []string{"end"}
	subroutineMarkers = []string{"sub", "call"}

	affirmativeLabels = []string{"yes", "true"}
	negativeLabels    = []string{"no", "false"}
)

const (
	affirmativeColor = "#4CAF50"
	negativeColor    = "#F44336"
)

// typeStyles 语义类型的默认填充色和边框色
var typeStyles = map[NodeType][2]string{
	NodeTypeStart:      {"#9DB4F9", "#4B6BF5"},
	NodeTypeEnd:        {"#FFA07A", "#FF6347"},
	NodeTypeDecision:   {"#FFE4B5", "#FFA500"},
	NodeTypeProcess:    {"#F0F8FF", "#87CEEB"},
	NodeTypeInput:      {"#98FB98", "#3CB371"},
	NodeTypeOutput:     {"#DDA0DD", "#9370DB"},
	NodeTypeSubroutine: {"#F0FFF0", "#98FB98"},
	NodeTypeDatabase:   {"#E6E6FA", "#9370DB"},
}

// InferNodeType 推断节点语义类型
// 优先级：start 标记 > end 标记 > 形状
func InferNodeType(shape Shape, id, label string) NodeType {
	lowerID := strings.ToLower(id)
	lowerLabel := strings.ToLower(label)
	mentions := func(markers []string) bool {
		return lo.SomeBy(markers, func(m string) bool {
			return strings.Contains(lowerID, m) || strings.Contains(lowerLabel, m)
		})
	}

	switch {
	case mentions(startMarkers):
		return NodeTypeStart
	case mentions(endMarkers):
		return NodeTypeEnd
	}

	switch shape {
	case ShapeRhombus:
		return NodeTypeDecision
	case ShapeParallelogram, ShapeTrapezoid:
		return NodeTypeInput
	case ShapeParallelogramAlt, ShapeTrapezoidAlt:
		return NodeTypeOutput
	case ShapeSubroutine:
		return NodeTypeSubroutine
	case ShapeCylindrical:
		return NodeTypeDatabase
	case ShapeHexagon:
		if mentions(subroutineMarkers) {
			return NodeTypeSubroutine
		}
		return NodeTypeProcess
	default:
		return NodeTypeProcess
	}
}

// StyleFor 计算节点样式：在默认样式上叠加语义类型的颜色，
// double-circle 形状的边框宽度翻倍
func StyleFor(nodeType NodeType, shape Shape, base NodeStyle) NodeStyle {
	style := base
	if colors, ok := typeStyles[nodeType]; ok {
		style.Fill = colors[0]
		style.Stroke = colors[1]
	}
	if shape == ShapeDoubleCircle {
		style.StrokeWidth = max(style.StrokeWidth, 1) * 2
	}
	return style
}

// EdgeStyleFor 根据连线标签计算样式：肯定标签为绿色，否定标签为红色
func EdgeStyleFor(label string, base EdgeStyle) EdgeStyle {
	style := base
	lower := strings.ToLower(label)
	switch {
	case lower == "":
	case lo.Contains(affirmativeLabels, lower):
		style.LineColor = affirmativeColor
	case lo.Contains(negativeLabels, lower):
		style.LineColor = negativeColor
	}
	return style
}

// NewNode 按形状和标签推断类型与样式，构造节点
func NewNode(id string, shape Shape, label string, base NodeStyle) Node {
	nodeType := InferNodeType(shape, id, label)
	return Node{
		ID:    id,
		Label: label,
		Shape: shape,
		Type:  nodeType,
		Style: StyleFor(nodeType, shape, base),
	}
}
