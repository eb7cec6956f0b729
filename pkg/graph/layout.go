package graph

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/cssgraph/pkg/geom"
)

// =============================================================================
// Layout - Computed Node Positions
// =============================================================================

// Layout is the result of a layout algorithm: a top-left position per node
// id plus optional edge bends. It is independent of the graph instance so it
// can be cached and applied to any graph with the same node ids.
type Layout struct {
	Algorithm string             `json:"algorithm" bson:"algorithm"`
	Positions map[int]geom.Point `json:"positions" bson:"positions"`
	Bends     [][]geom.Point     `json:"bends,omitempty" bson:"bends,omitempty"`
}

// CaptureLayout records the current node positions and bends of g.
func CaptureLayout(g *Graph, algorithm string) Layout {
	l := Layout{
		Algorithm: algorithm,
		Positions: make(map[int]geom.Point, g.NodeCount()),
		Bends:     make([][]geom.Point, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		l.Positions[n.Tag.ID] = n.Layout.TopLeft()
	}
	for i, e := range g.Edges() {
		l.Bends[i] = append([]geom.Point(nil), e.Bends...)
	}
	return l
}

// Apply moves the nodes of g to the recorded positions. Nodes without a
// recorded position stay where they are. Bends are replaced only when the
// edge counts match.
func (l Layout) Apply(g *Graph) {
	for _, n := range g.Nodes() {
		if p, ok := l.Positions[n.Tag.ID]; ok {
			n.Layout.X, n.Layout.Y = p.X, p.Y
		}
	}
	if len(l.Bends) != g.EdgeCount() {
		return
	}
	for i, e := range g.Edges() {
		e.Bends = append(e.Bends[:0], l.Bends[i]...)
	}
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.Marshal(l)
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.Positions == nil {
		return Layout{}, fmt.Errorf("layout must contain positions")
	}
	return l, nil
}
