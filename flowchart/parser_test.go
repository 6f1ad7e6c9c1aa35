package flowchart

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Simple(t *testing.T) {
	res, err := Parse("flowchart TD\nA[Go]-->B[End]")
	require.NoError(t, err)

	g := res.Graph
	assert.Equal(t, DirectionTD, g.Direction)
	require.Len(t, g.Nodes, 2)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, "Go", g.Nodes[0].Label)
	assert.Equal(t, NodeTypeEnd, g.Nodes[1].Type)
	assert.Equal(t, Edge{From: "A", To: "B", LineType: LineSolid, Line: 2}, g.Edges[0])
	assert.Equal(t, "flowchart", g.Meta.Type)

	// 没有 start 节点只产生警告
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, SeverityWarning, res.Diagnostics[0].Severity)
	assert.Equal(t, "Flowchart must have a start node", res.Diagnostics[0].Message)
}

func TestParse_LoginFlow(t *testing.T) {
	src := `%% login flow
flowchart LR
    Start((Start)) --> Input[/Enter credentials/]
    Input --> Check{Valid?}
    Check -->|Yes| DB[(Load profile)]
    Check -->|No| Error[Show error]
    Error --> Input
    DB --> Done(((End)))   %% terminal
`
	res, err := Parse(src)
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)

	g := res.Graph
	assert.Equal(t, DirectionLR, g.Direction)
	ids := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"Start", "Input", "Check", "DB", "Error", "Done"}, ids)

	types := map[string]NodeType{}
	for _, n := range g.Nodes {
		types[n.ID] = n.Type
	}
	assert.Equal(t, map[string]NodeType{
		"Start": NodeTypeStart,
		"Input": NodeTypeInput,
		"Check": NodeTypeDecision,
		"DB":    NodeTypeDatabase,
		"Error": NodeTypeProcess,
		"Done":  NodeTypeEnd,
	}, types)
	assert.Equal(t, 1, g.Meta.NodeTypes[NodeTypeDecision])

	yes, ok := g.FindEdge("Check", "DB")
	require.True(t, ok)
	assert.Equal(t, affirmativeColor, yes.Style.LineColor)
	no, ok := g.FindEdge("Check", "Error")
	require.True(t, ok)
	assert.Equal(t, negativeColor, no.Style.LineColor)

	done, _ := g.Node("Done")
	assert.Equal(t, 2, done.Style.StrokeWidth)
}

func TestParse_HeaderVariants(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Direction
	}{
		{name: "graph keyword", input: "graph LR\nA-->B", want: DirectionLR},
		{name: "lower case", input: "flowchart bt\nA-->B", want: DirectionBT},
		{name: "mixed case keyword", input: "FlowChart RL\nA-->B", want: DirectionRL},
		{name: "leading lines skipped", input: "title: x\n\nflowchart TB\nA-->B", want: DirectionTB},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse(tt.input, WithUndefinedNodes(true))
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Graph.Direction)
		})
	}
}

func TestParse_MissingHeader(t *testing.T) {
	_, err := Parse("A --> B")
	require.Error(t, err)

	var d *Diagnostic
	require.True(t, errors.As(err, &d))
	assert.Equal(t, CodeInvalidSyntax, d.Code)
	assert.Equal(t, "Flowchart definition not found", d.Message)
	assert.Equal(t, 1, d.Line)
	assert.Equal(t, 1, d.Column)

	res, err := Parse("A --> B", WithStrict(false))
	require.NoError(t, err)
	assert.Empty(t, res.Graph.Nodes)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, CodeInvalidSyntax, res.Diagnostics[0].Code)
}

func TestParse_InvalidDirection(t *testing.T) {
	_, err := Parse("flowchart XY\nA[Start]-->B[End]")
	var d *Diagnostic
	require.True(t, errors.As(err, &d))
	assert.Equal(t, CodeInvalidDirection, d.Code)
	assert.Equal(t, 1, d.Line)
	assert.Equal(t, 11, d.Column)

	res, err := Parse("flowchart XY\nA[Start]-->B[End]", WithStrict(false), WithDefaultDirection(DirectionLR))
	require.NoError(t, err)
	assert.Equal(t, DirectionLR, res.Graph.Direction)
	assert.Len(t, res.Graph.Nodes, 2)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, CodeInvalidDirection, res.Diagnostics[0].Code)
}

func TestParse_DanglingConnector(t *testing.T) {
	src := "flowchart TD\nA[Start] --> B[End]\nA -->"

	res, err := Parse(src)
	require.Error(t, err)
	d := err.(*Diagnostic)
	assert.Equal(t, CodeInvalidSyntax, d.Code)
	assert.Equal(t, 3, d.Line)
	// 失败前已组装的部分图
	assert.Len(t, res.Graph.Nodes, 2)

	ds := NewParser().Validate(src)
	require.True(t, ds.HasErrors())
	assert.Equal(t, 3, ds.FirstError().Line)
}

func TestParse_UndefinedNode(t *testing.T) {
	src := "flowchart TD\nB[Start]\nB --> C"

	_, err := Parse(src)
	var d *Diagnostic
	require.True(t, errors.As(err, &d))
	assert.Equal(t, CodeUndefinedNode, d.Code)
	assert.Equal(t, 3, d.Line)
	assert.Contains(t, d.Message, "C")

	ds := NewParser().Validate(src)
	errs := ds.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, CodeUndefinedNode, errs[0].Code)
	// 缺少 end 节点
	require.Len(t, ds.Warnings(), 1)
	assert.Equal(t, "Flowchart must have an end node", ds.Warnings()[0].Message)
}

func TestParse_UndefinedNodesAllowed(t *testing.T) {
	res, err := Parse("flowchart TD\nstart --> middle\nmiddle --> end", WithUndefinedNodes(true))
	require.NoError(t, err)
	require.Len(t, res.Graph.Nodes, 3)
	assert.Equal(t, ShapeSquare, res.Graph.Nodes[1].Shape)
	assert.Equal(t, "middle", res.Graph.Nodes[1].Label)
	assert.Equal(t, NodeTypeStart, res.Graph.Nodes[0].Type)
	assert.Equal(t, NodeTypeEnd, res.Graph.Nodes[2].Type)
}

func TestParse_WithoutConnectionValidation(t *testing.T) {
	res, err := Parse("flowchart TD\nA --> B", WithConnectionValidation(false))
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)
	assert.Empty(t, res.Graph.Nodes)
	assert.Len(t, res.Graph.Edges, 1)
}

func TestParse_NodeDeclarations(t *testing.T) {
	src := `flowchart TD
A
B{Choice}
A[Renamed]
`
	res, err := Parse(src, WithConnectionValidation(false))
	require.NoError(t, err)
	require.Len(t, res.Graph.Nodes, 2)

	// 覆盖声明保留原位置
	assert.Equal(t, "A", res.Graph.Nodes[0].ID)
	assert.Equal(t, "Renamed", res.Graph.Nodes[0].Label)
	assert.Equal(t, NodeTypeDecision, res.Graph.Nodes[1].Type)
}

func TestParse_BareEndpointKeepsDeclaration(t *testing.T) {
	src := "flowchart TD\nA((Start))\nB[Finish end]\nA --> B"
	res, err := Parse(src)
	require.NoError(t, err)
	a, _ := res.Graph.Node("A")
	assert.Equal(t, ShapeCircle, a.Shape)
	assert.Equal(t, "Start", a.Label)
}

func TestParse_BareNodeLine(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		shape Shape
		label string
		typ   NodeType
	}{
		{
			name:  "keeps earlier declaration",
			src:   "flowchart TD\nA[ログイン開始]\nA\nA --> B[End]",
			shape: ShapeSquare,
			label: "ログイン開始",
			typ:   NodeTypeProcess,
		},
		{
			name:  "keeps semantic type",
			src:   "flowchart TD\nA((Start))\nA\nA --> B[End]",
			shape: ShapeCircle,
			label: "Start",
			typ:   NodeTypeStart,
		},
		{
			name:  "declares new node",
			src:   "flowchart TD\nA\nA --> B[End]",
			shape: ShapeSquare,
			label: "A",
			typ:   NodeTypeProcess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse(tt.src)
			require.NoError(t, err)
			require.Len(t, res.Graph.Nodes, 2)
			a, ok := res.Graph.Node("A")
			require.True(t, ok)
			assert.Equal(t, tt.shape, a.Shape)
			assert.Equal(t, tt.label, a.Label)
			assert.Equal(t, tt.typ, a.Type)
		})
	}
}

func TestParse_InvalidNodeLines(t *testing.T) {
	tests := []struct {
		name string
		line string
		msg  string
	}{
		{name: "missing id", line: "[Orphan]", msg: "Invalid node definition: missing ID"},
		{name: "bad shape", line: "A<bad>", msg: "Invalid node shape"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("flowchart TD\n  " + tt.line)
			var d *Diagnostic
			require.True(t, errors.As(err, &d))
			assert.Equal(t, CodeInvalidSyntax, d.Code)
			assert.Equal(t, 2, d.Line)
			assert.Contains(t, d.Message, tt.msg)
		})
	}
}

func TestParse_LenientCollectsAllErrors(t *testing.T) {
	src := `flowchart TD
A[Start] --> B[Next]
[bad]
C<oops>
B --> Z
`
	res, err := Parse(src, WithStrict(false))
	require.NoError(t, err)
	errs := res.Diagnostics.Errors()
	require.Len(t, errs, 3)
	assert.Equal(t, 3, errs[0].Line)
	assert.Equal(t, 4, errs[1].Line)
	assert.Equal(t, CodeUndefinedNode, errs[2].Code)
	assert.Len(t, res.Graph.Nodes, 2)
}

func TestParser_ValidateIgnoresStrict(t *testing.T) {
	src := "flowchart TD\nA[Start] --> B[End]\n[bad]\nC<oops>"
	p := NewParser(WithStrict(true))

	_, err := p.Parse(src)
	require.Error(t, err)

	ds := p.Validate(src)
	require.Len(t, ds.Errors(), 2)
	assert.Equal(t, 3, ds.Errors()[0].Line)
	assert.Equal(t, 4, ds.Errors()[1].Line)
}

func TestParse_InvalidDefaultStyle(t *testing.T) {
	_, err := Parse("flowchart TD\nA[Start]-->B[End]", WithDefaultNodeStyle(NodeStyle{Fill: "#12"}))
	var d *Diagnostic
	require.True(t, errors.As(err, &d))
	assert.Equal(t, CodeInvalidStyle, d.Code)

	_, err = Parse("flowchart TD\nA[Start]-->B[End]", WithDefaultEdgeStyle(EdgeStyle{LineColor: "red"}))
	assert.NoError(t, err)
}

func TestParse_EdgesResolveAfterSuccess(t *testing.T) {
	src := `graph TD
s([Start]) --> a[/Read/]
a --> b{ok}
b -->|yes| c[\Print\]
b -->|no| a
c --> e((End))
`
	res, err := Parse(src)
	require.NoError(t, err)
	require.False(t, res.Diagnostics.HasErrors())
	for _, e := range res.Graph.Edges {
		assert.True(t, res.Graph.HasNode(e.From), e.From)
		assert.True(t, res.Graph.HasNode(e.To), e.To)
	}
}

func TestParser_Reentrant(t *testing.T) {
	p := NewParser()
	first, err := p.Parse("flowchart TD\nA[Start]-->B[End]")
	require.NoError(t, err)
	second, err := p.Parse("flowchart LR\nX[Start]-->Y[End]")
	require.NoError(t, err)

	assert.Equal(t, "A", first.Graph.Nodes[0].ID)
	assert.Equal(t, "X", second.Graph.Nodes[0].ID)
	assert.Len(t, second.Graph.Nodes, 2)
}
