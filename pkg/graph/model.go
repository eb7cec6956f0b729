package graph

import (
	"fmt"

	"github.com/matzehuels/cssgraph/pkg/geom"
)

// =============================================================================
// In-Memory Graph Model
// =============================================================================

// Tag is the user data attached to a node: its numeric id and the two label
// texts shown inside the node.
type Tag struct {
	ID       int
	Label    string
	Sublabel string
}

// Node is a rectangular graph node. Layout holds the top-left corner and the
// size in canvas coordinates.
type Node struct {
	Tag    Tag
	Layout geom.Rect
}

// Center returns the center of the node layout.
func (n *Node) Center() geom.Point { return n.Layout.Center() }

// Port is an edge attachment point. Its location is the owner's layout center
// shifted by Offset.
type Port struct {
	Owner  *Node
	Offset geom.Point
}

// Location returns the absolute position of the port.
func (p Port) Location() geom.Point {
	if p.Owner == nil {
		return p.Offset
	}
	return p.Owner.Center().Add(p.Offset)
}

// Edge is a directed connection between two ports, routed through Bends.
type Edge struct {
	Source Port
	Target Port
	Bends  []geom.Point
}

// IsSelfLoop reports whether both ports belong to the same node.
func (e *Edge) IsSelfLoop() bool {
	return e.Source.Owner != nil && e.Source.Owner == e.Target.Owner
}

// Graph owns nodes and edges in insertion order.
type Graph struct {
	nodes []*Node
	edges []*Edge
	byID  map[int]*Node
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{byID: make(map[int]*Node)}
}

// AddNode creates a node. Node ids must be unique within the graph.
func (g *Graph) AddNode(tag Tag, layout geom.Rect) (*Node, error) {
	if _, dup := g.byID[tag.ID]; dup {
		return nil, fmt.Errorf("duplicate node id %d", tag.ID)
	}
	n := &Node{Tag: tag, Layout: layout}
	g.nodes = append(g.nodes, n)
	g.byID[tag.ID] = n
	return n, nil
}

// AddEdge connects the centers of src and dst.
func (g *Graph) AddEdge(src, dst *Node, bends ...geom.Point) *Edge {
	e := &Edge{
		Source: Port{Owner: src},
		Target: Port{Owner: dst},
		Bends:  append([]geom.Point(nil), bends...),
	}
	g.edges = append(g.edges, e)
	return e
}

// Node returns the node with the given id or nil.
func (g *Graph) Node(id int) *Node { return g.byID[id] }

// Nodes returns the nodes in insertion order. The slice must not be modified.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Edges returns the edges in insertion order. The slice must not be modified.
func (g *Graph) Edges() []*Edge { return g.edges }

func (g *Graph) NodeCount() int { return len(g.nodes) }
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Neighbors returns the distinct nodes adjacent to n, ignoring direction.
func (g *Graph) Neighbors(n *Node) []*Node {
	seen := map[*Node]bool{n: true}
	var out []*Node
	for _, e := range g.edges {
		var other *Node
		switch {
		case e.Source.Owner == n:
			other = e.Target.Owner
		case e.Target.Owner == n:
			other = e.Source.Owner
		}
		if other != nil && !seen[other] {
			seen[other] = true
			out = append(out, other)
		}
	}
	return out
}

// Bounds returns the union of all node layouts and edge bends.
func (g *Graph) Bounds() geom.Rect {
	r := geom.EmptyRect
	for _, n := range g.nodes {
		r = r.Union(n.Layout)
	}
	for _, e := range g.edges {
		for _, b := range e.Bends {
			r = r.AddPoint(b)
		}
	}
	return r
}
