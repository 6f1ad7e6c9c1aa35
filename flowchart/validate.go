package flowchart

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

var (
	validNodeIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	hexColorRegex    = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)
	cssColorRegex    = regexp.MustCompile(`^[a-zA-Z]+$`)
)

// ValidateNodeID 校验节点 ID 只包含字母、数字、下划线和连字符
func ValidateNodeID(id string, line, column int) error {
	if !validNodeIDRegex.MatchString(id) {
		return newError(line, column, CodeInvalidSyntax,
			"Invalid node ID: %s. Node IDs must contain only letters, numbers, underscores, and hyphens.", id)
	}
	return nil
}

// ValidateShape 校验形状名称
func ValidateShape(shape string, line, column int) (Shape, error) {
	if lo.Contains(Shapes, Shape(shape)) {
		return Shape(shape), nil
	}
	return "", newError(line, column, CodeInvalidShape,
		"Invalid node shape: %s. Valid shapes are: %s", shape, joinNames(Shapes))
}

// ValidateLineType 校验连线类型名称
func ValidateLineType(lineType string, line, column int) (LineType, error) {
	if lo.Contains(LineTypes, LineType(lineType)) {
		return LineType(lineType), nil
	}
	return "", newError(line, column, CodeInvalidEdge,
		"Invalid edge line type: %s. Valid line types are: %s", lineType, joinNames(LineTypes))
}

// ValidateDirection 校验方向
func ValidateDirection(direction string, line, column int) (Direction, error) {
	d := Direction(direction)
	if !d.IsValid() {
		return "", newError(line, column, CodeInvalidDirection,
			"Invalid graph direction: %s. Valid directions are: %s", direction, joinNames(Directions))
	}
	return d, nil
}

// ValidateColor 校验颜色：十六进制色值或 CSS 颜色名
func ValidateColor(color string, line, column int) error {
	if hexColorRegex.MatchString(color) || cssColorRegex.MatchString(color) {
		return nil
	}
	return newError(line, column, CodeInvalidStyle,
		"Invalid color value: %s. Use hex color code or CSS color name.", color)
}

// ValidateReferences 检查每条连线的两端是否都已声明，每个未解析端点一条诊断
func ValidateReferences(nodes []Node, edges []Edge) Diagnostics {
	ids := lo.SliceToMap(nodes, func(n Node) (string, struct{}) {
		return n.ID, struct{}{}
	})

	var ds Diagnostics
	for _, e := range edges {
		for _, id := range []string{e.From, e.To} {
			if _, ok := ids[id]; !ok {
				ds = append(ds, newError(e.Line, 1, CodeUndefinedNode, "Edge references undefined node: %s", id))
			}
		}
	}
	return ds
}

func validateNodeStyle(s NodeStyle) error {
	for _, c := range []string{s.Fill, s.Stroke, s.FontColor} {
		if c == "" {
			continue
		}
		if err := ValidateColor(c, 0, 0); err != nil {
			return err
		}
	}
	return nil
}

func validateEdgeStyle(s EdgeStyle) error {
	for _, c := range []string{s.LineColor, s.TextColor} {
		if c == "" {
			continue
		}
		if err := ValidateColor(c, 0, 0); err != nil {
			return err
		}
	}
	return nil
}

func joinNames[T ~string](items []T) string {
	return strings.Join(lo.Map(items, func(item T, _ int) string {
		return string(item)
	}), ", ")
}
