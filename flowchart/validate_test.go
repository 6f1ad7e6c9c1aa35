package flowchart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNodeID(t *testing.T) {
	assert.NoError(t, ValidateNodeID("node_1-a", 1, 1))
	err := ValidateNodeID("node 1", 2, 3)
	require.Error(t, err)
	assert.Equal(t, CodeInvalidSyntax, err.(*Diagnostic).Code)
}

func TestValidateNames(t *testing.T) {
	shape, err := ValidateShape("hexagon", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, ShapeHexagon, shape)

	_, err = ValidateShape("cloud", 1, 1)
	require.Error(t, err)
	assert.Equal(t, CodeInvalidShape, err.(*Diagnostic).Code)
	assert.Contains(t, err.Error(), "square, round, stadium")

	lt, err := ValidateLineType("dotted", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, LineDotted, lt)

	_, err = ValidateLineType("wavy", 1, 1)
	require.Error(t, err)
	assert.Equal(t, CodeInvalidEdge, err.(*Diagnostic).Code)

	_, err = ValidateDirection("UP", 1, 1)
	require.Error(t, err)
	assert.Equal(t, CodeInvalidDirection, err.(*Diagnostic).Code)
}

func TestValidateColor(t *testing.T) {
	tests := []struct {
		color   string
		wantErr bool
	}{
		{color: "#fff"},
		{color: "#4CAF50"},
		{color: "rebeccapurple"},
		{color: "#12345", wantErr: true},
		{color: "rgb(1,2,3)", wantErr: true},
		{color: "#GGGGGG", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.color, func(t *testing.T) {
			err := ValidateColor(tt.color, 1, 1)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, CodeInvalidStyle, err.(*Diagnostic).Code)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateReferences(t *testing.T) {
	nodes := []Node{{ID: "A"}, {ID: "B"}}
	edges := []Edge{
		{From: "A", To: "B", Line: 2},
		{From: "X", To: "Y", Line: 3},
		{From: "B", To: "Z", Line: 4},
	}
	ds := ValidateReferences(nodes, edges)
	require.Len(t, ds, 3)
	assert.Equal(t, 3, ds[0].Line)
	assert.Contains(t, ds[0].Message, "X")
	assert.Contains(t, ds[1].Message, "Y")
	assert.Equal(t, 4, ds[2].Line)
}

func TestDiagnosticError(t *testing.T) {
	d := newError(3, 4, CodeUndefinedNode, "Edge references undefined node: %s", "C")
	assert.Equal(t, "ERROR E002: Edge references undefined node: C at line 3, column 4", d.Error())

	w := newWarning(0, 0, CodeInvalidSyntax, "Flowchart must have a start node")
	assert.False(t, w.IsError())
	assert.Equal(t, "warning", w.Severity.String())

	ds := Diagnostics{w, d}
	assert.True(t, ds.HasErrors())
	assert.Same(t, d, ds.FirstError())
	assert.Len(t, ds.Warnings(), 1)
}

func TestInferNodeType(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		id    string
		label string
		want  NodeType
	}{
		{name: "start by id", shape: ShapeRhombus, id: "start", label: "x", want: NodeTypeStart},
		{name: "start wins over end", shape: ShapeSquare, id: "A", label: "Start to end", want: NodeTypeStart},
		{name: "end by label", shape: ShapeSquare, id: "A", label: "END", want: NodeTypeEnd},
		{name: "decision", shape: ShapeRhombus, id: "c", label: "ok?", want: NodeTypeDecision},
		{name: "input parallelogram", shape: ShapeParallelogram, id: "i", label: "x", want: NodeTypeInput},
		{name: "input trapezoid", shape: ShapeTrapezoid, id: "i", label: "x", want: NodeTypeInput},
		{name: "output", shape: ShapeParallelogramAlt, id: "o", label: "x", want: NodeTypeOutput},
		{name: "output trapezoid", shape: ShapeTrapezoidAlt, id: "o", label: "x", want: NodeTypeOutput},
		{name: "subroutine", shape: ShapeSubroutine, id: "s", label: "x", want: NodeTypeSubroutine},
		{name: "database", shape: ShapeCylindrical, id: "d", label: "x", want: NodeTypeDatabase},
		{name: "hexagon call", shape: ShapeHexagon, id: "h", label: "Call API", want: NodeTypeSubroutine},
		{name: "hexagon plain", shape: ShapeHexagon, id: "h", label: "Prepare", want: NodeTypeProcess},
		{name: "default", shape: ShapeStadium, id: "p", label: "x", want: NodeTypeProcess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferNodeType(tt.shape, tt.id, tt.label))
		})
	}
}

func TestStyleFor(t *testing.T) {
	s := StyleFor(NodeTypeDecision, ShapeRhombus, NodeStyle{FontColor: "black"})
	assert.Equal(t, NodeStyle{Fill: "#FFE4B5", Stroke: "#FFA500", FontColor: "black"}, s)

	s = StyleFor(NodeTypeProcess, ShapeDoubleCircle, NodeStyle{StrokeWidth: 3})
	assert.Equal(t, 6, s.StrokeWidth)

	s = StyleFor(NodeTypeCustom, ShapeSquare, NodeStyle{Fill: "white"})
	assert.Equal(t, "white", s.Fill)
}

func TestEdgeStyleFor(t *testing.T) {
	assert.Equal(t, affirmativeColor, EdgeStyleFor("YES", EdgeStyle{}).LineColor)
	assert.Equal(t, negativeColor, EdgeStyleFor("false", EdgeStyle{}).LineColor)
	assert.Equal(t, "blue", EdgeStyleFor("maybe", EdgeStyle{LineColor: "blue"}).LineColor)
	assert.Equal(t, EdgeStyle{}, EdgeStyleFor("", EdgeStyle{}))
}
