package flowchart

import (
	"regexp"
	"strings"
)

// MaxNodeIDLength 连线校验允许的最大节点 ID 长度
const MaxNodeIDLength = 50

// Endpoint 连线端点
type Endpoint struct {
	ID   string      `json:"id"`
	Node *ShapeMatch `json:"node,omitempty"` // 端点带形状声明时非空
}

// EdgeMatch 连线匹配结果
type EdgeMatch struct {
	From     Endpoint `json:"from"`
	To       Endpoint `json:"to"`
	LineType LineType `json:"lineType"`
	Label    string   `json:"label,omitempty"`
	Original string   `json:"original"`
}

type connector struct {
	lineType LineType
	pattern  string
	example  string
}

// connectors 支持的连接符
var connectors = []connector{
	{lineType: LineSolid, pattern: "-->", example: "A --> B"},
	{lineType: LineDotted, pattern: "-.->", example: "A -.-> B"},
	{lineType: LineThick, pattern: "==>", example: "A ==> B"},
}

// endpointPattern 节点 ID 加可选的形状声明
const endpointPattern = `[A-Za-z0-9_-]+(?:\s*(?:\[[^\]]*\]|\([^)]*\)|\{[^}]*\}|\{\{[^}]*\}\}|\(\([^)]*\)\)|\[\[[^\]]*\]\]|>(?:[^\]]*)\]|\[/[^/]*/\]|\[\\[^\\]*\\\]|\[/[^\\]*\\\]|\[\\[^/]*/\]|\(\(\([^)]*\)\)\)))?`

var (
	// edgeRegex 匹配 A --> B、A -->|label| B
	edgeRegex = buildEdgeRegex()
	// nodeIDRegex 提取行首节点 ID
	nodeIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+`)
)

func buildEdgeRegex() *regexp.Regexp {
	patterns := make([]string, 0, len(connectors))
	for _, c := range connectors {
		patterns = append(patterns, regexp.QuoteMeta(c.pattern))
	}
	connectorPattern := strings.Join(patterns, "|")
	return regexp.MustCompile(`^(` + endpointPattern + `)\s*(` + connectorPattern + `)\s*(?:\|([^|]+)\|)?\s*(` + endpointPattern + `)$`)
}

// MatchEdge 匹配一行连线定义
func MatchEdge(text string, line, column int) (*EdgeMatch, error) {
	trimmed := strings.TrimSpace(text)

	m := edgeRegex.FindStringSubmatch(trimmed)
	if m == nil {
		return nil, newError(line, column, CodeInvalidSyntax,
			`Invalid edge definition: %s. Expected format: "nodeA --> nodeB" or "nodeA -->|label| nodeB"`, text)
	}

	fromPart, conn, label, toPart := m[1], m[2], m[3], m[4]

	return &EdgeMatch{
		From:     parseEndpoint(fromPart),
		To:       parseEndpoint(toPart),
		LineType: lineTypeOf(conn),
		Label:    strings.TrimSpace(label),
		Original: trimmed,
	}, nil
}

// parseEndpoint 拆分端点的 ID 与形状，形状无法识别时忽略
func parseEndpoint(part string) Endpoint {
	id := extractNodeID(part)
	ep := Endpoint{ID: id}
	if len(part) > len(id) {
		if sm, err := MatchShape(part[len(id):], 0, 0); err == nil {
			ep.Node = sm
		}
	}
	return ep
}

func extractNodeID(text string) string {
	if id := nodeIDRegex.FindString(text); id != "" {
		return id
	}
	return text
}

// lineTypeOf 根据连接符中的字符判断线型
func lineTypeOf(conn string) LineType {
	if strings.Contains(conn, "=") {
		return LineThick
	}
	if strings.Contains(conn, "-.") {
		return LineDotted
	}
	return LineSolid
}

// connectorOf 线型 -> 连接符
func connectorOf(lineType LineType) string {
	for _, c := range connectors {
		if c.lineType == lineType {
			return c.pattern
		}
	}
	return connectors[0].pattern
}

// FormatEdge 生成标准连线文本
func FormatEdge(from, to Endpoint, lineType LineType, label string) string {
	conn := connectorOf(lineType)
	fromStr := formatEndpoint(from)
	toStr := formatEndpoint(to)
	if label != "" {
		return fromStr + " " + conn + "|" + label + "| " + toStr
	}
	return fromStr + " " + conn + " " + toStr
}

func formatEndpoint(ep Endpoint) string {
	if ep.Node == nil {
		return ep.ID
	}
	return ep.ID + FormatShape(ep.Node.Shape, ep.Node.Label)
}

// ValidateEdge 独立校验连线定义
// 除语法外，还检查两端 ID 的长度，每个超长端点单独报告
func ValidateEdge(text string, line, column int) Diagnostics {
	if strings.TrimSpace(text) == "" {
		return Diagnostics{newError(line, column, CodeInvalidSyntax, "Empty edge definition")}
	}

	m, err := MatchEdge(text, line, column)
	if err != nil {
		return Diagnostics{err.(*Diagnostic)}
	}

	var ds Diagnostics
	if len(m.From.ID) > MaxNodeIDLength {
		ds = append(ds, newError(line, column, CodeInvalidSyntax,
			"Source node ID is too long (max %d characters)", MaxNodeIDLength))
	}
	if len(m.To.ID) > MaxNodeIDLength {
		offset := strings.LastIndex(text, m.To.ID)
		ds = append(ds, newError(line, column+max(offset, 0), CodeInvalidSyntax,
			"Target node ID is too long (max %d characters)", MaxNodeIDLength))
	}
	return ds
}
