package flowchart

// Direction 图的方向
type Direction string

const (
	DirectionTB Direction = "TB" // Top to Bottom
	DirectionTD Direction = "TD" // Top to Down（与 TB 相同）
	DirectionBT Direction = "BT" // Bottom to Top
	DirectionLR Direction = "LR" // Left to Right
	DirectionRL Direction = "RL" // Right to Left
)

// Directions 所有合法方向
var Directions = []Direction{DirectionTB, DirectionTD, DirectionBT, DirectionLR, DirectionRL}

// IsValid 判断是否为合法方向
func (d Direction) IsValid() bool {
	switch d {
	case DirectionTB, DirectionTD, DirectionBT, DirectionLR, DirectionRL:
		return true
	}
	return false
}

// Shape 节点形状
type Shape string

const (
	ShapeSquare           Shape = "square"            // [文本]
	ShapeRound            Shape = "round"             // (文本)
	ShapeStadium          Shape = "stadium"           // ([文本])
	ShapeSubroutine       Shape = "subroutine"        // [[文本]]
	ShapeCylindrical      Shape = "cylindrical"       // [(文本)]
	ShapeCircle           Shape = "circle"            // ((文本))
	ShapeAsymmetric       Shape = "asymmetric"        // >文本]
	ShapeRhombus          Shape = "rhombus"           // {文本}
	ShapeHexagon          Shape = "hexagon"           // {{文本}}
	ShapeParallelogram    Shape = "parallelogram"     // [/文本/]
	ShapeParallelogramAlt Shape = "parallelogram-alt" // [\文本\]
	ShapeTrapezoid        Shape = "trapezoid"         // [/文本\]
	ShapeTrapezoidAlt     Shape = "trapezoid-alt"     // [\文本/]
	ShapeDoubleCircle     Shape = "double-circle"     // (((文本)))
)

// Shapes 所有节点形状（按定义顺序）
var Shapes = []Shape{
	ShapeSquare, ShapeRound, ShapeStadium, ShapeSubroutine, ShapeCylindrical,
	ShapeCircle, ShapeAsymmetric, ShapeRhombus, ShapeHexagon, ShapeParallelogram,
	ShapeParallelogramAlt, ShapeTrapezoid, ShapeTrapezoidAlt, ShapeDoubleCircle,
}

// NodeType 节点语义类型，由 ID、标签和形状推断
type NodeType string

const (
	NodeTypeStart      NodeType = "start"
	NodeTypeEnd        NodeType = "end"
	NodeTypeProcess    NodeType = "process"
	NodeTypeDecision   NodeType = "decision"
	NodeTypeInput      NodeType = "input"
	NodeTypeOutput     NodeType = "output"
	NodeTypeSubroutine NodeType = "subroutine"
	NodeTypeDatabase   NodeType = "database"
	NodeTypeCustom     NodeType = "custom"
)

// NodeTypes 所有语义类型
var NodeTypes = []NodeType{
	NodeTypeStart, NodeTypeEnd, NodeTypeProcess, NodeTypeDecision, NodeTypeInput,
	NodeTypeOutput, NodeTypeSubroutine, NodeTypeDatabase, NodeTypeCustom,
}

// NodeStyle 节点样式
type NodeStyle struct {
	Fill        string `json:"fill,omitempty"`        // 填充色
	Stroke      string `json:"stroke,omitempty"`      // 边框色
	StrokeWidth int    `json:"strokeWidth,omitempty"` // 边框宽度，0 表示未设置
	FontColor   string `json:"fontColor,omitempty"`   // 字体颜色
}

// Node 流程图节点
type Node struct {
	ID    string    `json:"id"`
	Label string    `json:"label"`
	Shape Shape     `json:"shape"`
	Type  NodeType  `json:"nodeType"`
	Style NodeStyle `json:"style"`
}

// LineType 连线类型
type LineType string

const (
	LineSolid  LineType = "solid"  // -->
	LineDotted LineType = "dotted" // -.->
	LineThick  LineType = "thick"  // ==>
)

// LineTypes 所有连线类型
var LineTypes = []LineType{LineSolid, LineDotted, LineThick}

// EdgeStyle 连线样式
type EdgeStyle struct {
	LineColor string `json:"lineColor,omitempty"`
	TextColor string `json:"textColor,omitempty"`
	LineWidth int    `json:"lineWidth,omitempty"`
}

// Edge 有向连线
type Edge struct {
	From     string    `json:"from"`
	To       string    `json:"to"`
	Label    string    `json:"label,omitempty"`
	LineType LineType  `json:"lineType"`
	Style    EdgeStyle `json:"style"`
	Line     int       `json:"line,omitempty"` // 定义所在的源码行
}

// Meta 解析结果元信息
type Meta struct {
	Type      string           `json:"type"`
	NodeTypes map[NodeType]int `json:"nodeTypes"`
}

// Graph 解析完成的流程图
// 解析成功后视为只读，路径探索与用例生成不得修改
type Graph struct {
	Nodes     []Node    `json:"nodes"` // 保持声明顺序
	Edges     []Edge    `json:"edges"`
	Direction Direction `json:"direction"`
	Meta      Meta      `json:"meta"`
}

// Node 按 ID 查找节点
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// HasNode 检查节点是否存在
func (g *Graph) HasNode(id string) bool {
	_, ok := g.Node(id)
	return ok
}

// Outgoing 返回从指定节点出发的连线（保持定义顺序）
func (g *Graph) Outgoing(id string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.From == id {
			out = append(out, e)
		}
	}
	return out
}

// InDegree 入度
func (g *Graph) InDegree(id string) int {
	n := 0
	for _, e := range g.Edges {
		if e.To == id {
			n++
		}
	}
	return n
}

// OutDegree 出度
func (g *Graph) OutDegree(id string) int {
	n := 0
	for _, e := range g.Edges {
		if e.From == id {
			n++
		}
	}
	return n
}

// FindEdge 查找第一条 from -> to 的连线
func (g *Graph) FindEdge(from, to string) (Edge, bool) {
	return FindEdge(g.Edges, from, to)
}

// FindEdge 在连线列表中查找第一条 from -> to 的连线
func FindEdge(edges []Edge, from, to string) (Edge, bool) {
	for _, e := range edges {
		if e.From == from && e.To == to {
			return e, true
		}
	}
	return Edge{}, false
}
