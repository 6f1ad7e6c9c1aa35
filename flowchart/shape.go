package flowchart

import (
	"regexp"
	"strings"
)

// ShapeMatch 形状匹配结果
type ShapeMatch struct {
	Shape    Shape  `json:"shape"`
	Label    string `json:"label"`
	Original string `json:"original"`
}

type shapeRule struct {
	shape   Shape
	pattern *regexp.Regexp
}

// shapeRules 按优先级排列的形状规则，先匹配者胜出。
// 顺序不可调整：[[x]]、[(x)]、[/x/] 等同时也满足 [x] 的模式，
// (((x)))、((x))、([x]) 同时也满足 (x) 的模式，{{x}} 同理。
var shapeRules = []shapeRule{
	{ShapeSubroutine, regexp.MustCompile(`^\[\[([^\]]*)\]\]$`)},
	{ShapeCylindrical, regexp.MustCompile(`^\[\(([^)]*)\)\]$`)},
	{ShapeParallelogram, regexp.MustCompile(`^\[/([^/]*)/\]$`)},
	{ShapeParallelogramAlt, regexp.MustCompile(`^\[\\([^\\]*)\\\]$`)},
	{ShapeTrapezoid, regexp.MustCompile(`^\[/([^\\]*)\\\]$`)},
	{ShapeTrapezoidAlt, regexp.MustCompile(`^\[\\([^/]*)/\]$`)},
	{ShapeSquare, regexp.MustCompile(`^\[([^\]]*)\]$`)},
	{ShapeDoubleCircle, regexp.MustCompile(`^\(\(\(([^)]*)\)\)\)$`)},
	{ShapeCircle, regexp.MustCompile(`^\(\(([^)]*)\)\)$`)},
	{ShapeStadium, regexp.MustCompile(`^\(\[([^\]]*)\]\)$`)},
	{ShapeRound, regexp.MustCompile(`^\(([^)]*)\)$`)},
	{ShapeAsymmetric, regexp.MustCompile(`^>([^\]]*)\]$`)},
	{ShapeHexagon, regexp.MustCompile(`^\{\{([^}]*)\}\}$`)},
	{ShapeRhombus, regexp.MustCompile(`^\{([^}]*)\}$`)},
}

// shapeDelimiters 形状 -> 左右定界符
var shapeDelimiters = map[Shape][2]string{
	ShapeSquare:           {"[", "]"},
	ShapeRound:            {"(", ")"},
	ShapeStadium:          {"([", "])"},
	ShapeSubroutine:       {"[[", "]]"},
	ShapeCylindrical:      {"[(", ")]"},
	ShapeCircle:           {"((", "))"},
	ShapeAsymmetric:       {">", "]"},
	ShapeRhombus:          {"{", "}"},
	ShapeHexagon:          {"{{", "}}"},
	ShapeParallelogram:    {"[/", "/]"},
	ShapeParallelogramAlt: {`[\`, `\]`},
	ShapeTrapezoid:        {"[/", `\]`},
	ShapeTrapezoidAlt:     {`[\`, "/]"},
	ShapeDoubleCircle:     {"(((", ")))"},
}

// MatchShape 识别节点 ID 之后的形状文本并提取标签
// line/column 用于生成诊断位置
func MatchShape(text string, line, column int) (*ShapeMatch, error) {
	trimmed := strings.TrimSpace(text)
	for _, rule := range shapeRules {
		m := rule.pattern.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		return &ShapeMatch{
			Shape:    rule.shape,
			Label:    m[1],
			Original: trimmed,
		}, nil
	}
	return nil, newError(line, column, CodeInvalidSyntax, "Invalid node shape: %s", text)
}

// FormatShape 生成带定界符的形状文本，未知形状按 square 处理
func FormatShape(shape Shape, label string) string {
	d, ok := shapeDelimiters[shape]
	if !ok {
		d = shapeDelimiters[ShapeSquare]
	}
	return d[0] + label + d[1]
}
