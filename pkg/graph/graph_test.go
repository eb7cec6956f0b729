package graph

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/cssgraph/pkg/geom"
)

func sample(t *testing.T) *Graph {
	t.Helper()
	g := New()
	a, err := g.AddNode(Tag{ID: 0, Label: "Ada", Sublabel: "Kent"}, geom.R(0, 0, 60, 40))
	if err != nil {
		t.Fatal(err)
	}
	b, _ := g.AddNode(Tag{ID: 1, Label: "Bob"}, geom.R(100, 0, 60, 40))
	g.AddEdge(a, b)
	g.AddEdge(a, a, geom.Pt(-30, -30))
	return g
}

func TestAddNodeDuplicate(t *testing.T) {
	g := New()
	if _, err := g.AddNode(Tag{ID: 7}, geom.Rect{}); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddNode(Tag{ID: 7}, geom.Rect{}); err == nil {
		t.Error("expected duplicate id error")
	}
}

func TestPortLocation(t *testing.T) {
	n := &Node{Layout: geom.R(10, 20, 40, 20)}
	p := Port{Owner: n, Offset: geom.Pt(5, 0)}
	if got, want := p.Location(), geom.Pt(35, 30); got != want {
		t.Errorf("Location = %v, want %v", got, want)
	}
}

func TestIsSelfLoop(t *testing.T) {
	g := sample(t)
	edges := g.Edges()
	if edges[0].IsSelfLoop() {
		t.Error("edge 0 is not a self-loop")
	}
	if !edges[1].IsSelfLoop() {
		t.Error("edge 1 is a self-loop")
	}
}

func TestNeighbors(t *testing.T) {
	g := sample(t)
	got := g.Neighbors(g.Node(0))
	if len(got) != 1 || got[0] != g.Node(1) {
		t.Errorf("Neighbors = %v", got)
	}
}

func TestRoundTrip(t *testing.T) {
	g := sample(t)
	data, err := MarshalGraph(g)
	if err != nil {
		t.Fatal(err)
	}
	back, err := ReadGraph(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if back.NodeCount() != 2 || back.EdgeCount() != 2 {
		t.Fatalf("counts = %d/%d", back.NodeCount(), back.EdgeCount())
	}
	if back.Node(0).Tag != g.Node(0).Tag {
		t.Errorf("tag = %+v", back.Node(0).Tag)
	}
	if back.Node(1).Layout != g.Node(1).Layout {
		t.Errorf("layout = %+v", back.Node(1).Layout)
	}
	if b := back.Edges()[1].Bends; len(b) != 1 || b[0] != geom.Pt(-30, -30) {
		t.Errorf("bends = %v", b)
	}
}

func TestToGraphUnknownNode(t *testing.T) {
	_, err := ToGraph(Data{
		Nodes: []NodeData{{ID: 0}},
		Edges: []EdgeData{{Source: 0, Target: 9}},
	})
	if err == nil || !strings.Contains(err.Error(), "unknown node") {
		t.Errorf("err = %v", err)
	}
}

func TestGraphFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	data, err := MarshalGraph(sample(t))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := ReadGraphFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if g.Node(0).Tag.Label != "Ada" {
		t.Errorf("label = %q", g.Node(0).Tag.Label)
	}
	if _, err := ReadGraphFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLayoutCaptureApply(t *testing.T) {
	g := sample(t)
	l := CaptureLayout(g, "radial")

	g.Node(0).Layout.X = 500
	g.Edges()[1].Bends = nil
	l.Apply(g)

	if g.Node(0).Layout.X != 0 {
		t.Errorf("x = %v, want 0", g.Node(0).Layout.X)
	}
	if len(g.Edges()[1].Bends) != 1 {
		t.Error("bends not restored")
	}

	data, err := MarshalLayout(l)
	if err != nil {
		t.Fatal(err)
	}
	back, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatal(err)
	}
	if back.Positions[1] != geom.Pt(100, 0) || back.Algorithm != "radial" {
		t.Errorf("layout = %+v", back)
	}
	if _, err := UnmarshalLayout([]byte(`{}`)); err == nil {
		t.Error("expected error for layout without positions")
	}
}

func TestBounds(t *testing.T) {
	got := sample(t).Bounds()
	want := geom.R(-30, -30, 190, 70)
	if got != want {
		t.Errorf("Bounds = %+v, want %+v", got, want)
	}
}
