package graph

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/cssgraph/pkg/geom"
)

// =============================================================================
// Data - Graph Serialization Format
// =============================================================================

// Data is the canonical serialization format for graphs.
// Used for API responses, storage, caching and files.
//
// The format is designed for round-trip fidelity:
// FromGraph → JSON → ToGraph produces an identical graph.
type Data struct {
	Nodes []NodeData `json:"nodes" bson:"nodes"`
	Edges []EdgeData `json:"edges" bson:"edges"`
}

// NodeData is a serialized node with its layout rectangle.
type NodeData struct {
	ID       int     `json:"id" bson:"id"`
	Label    string  `json:"label,omitempty" bson:"label,omitempty"`
	Sublabel string  `json:"sublabel,omitempty" bson:"sublabel,omitempty"`
	X        float64 `json:"x" bson:"x"`
	Y        float64 `json:"y" bson:"y"`
	Width    float64 `json:"width" bson:"width"`
	Height   float64 `json:"height" bson:"height"`
}

// EdgeData is a serialized edge. Source and Target are node ids.
type EdgeData struct {
	Source int          `json:"source" bson:"source"`
	Target int          `json:"target" bson:"target"`
	Bends  []geom.Point `json:"bends,omitempty" bson:"bends,omitempty"`
}

// =============================================================================
// Graph ↔ Data Conversion
// =============================================================================

// FromGraph converts a graph to its serialization format.
// Nodes and edges keep their insertion order.
func FromGraph(g *Graph) Data {
	out := Data{
		Nodes: make([]NodeData, len(g.Nodes())),
		Edges: make([]EdgeData, len(g.Edges())),
	}
	for i, n := range g.Nodes() {
		out.Nodes[i] = NodeData{
			ID:       n.Tag.ID,
			Label:    n.Tag.Label,
			Sublabel: n.Tag.Sublabel,
			X:        n.Layout.X,
			Y:        n.Layout.Y,
			Width:    n.Layout.Width,
			Height:   n.Layout.Height,
		}
	}
	for i, e := range g.Edges() {
		out.Edges[i] = EdgeData{
			Source: e.Source.Owner.Tag.ID,
			Target: e.Target.Owner.Tag.ID,
			Bends:  append([]geom.Point(nil), e.Bends...),
		}
	}
	return out
}

// ToGraph builds a graph from its serialization format.
// Returns an error for duplicate node ids or edges referencing unknown nodes.
func ToGraph(d Data) (*Graph, error) {
	g := New()
	for _, nd := range d.Nodes {
		tag := Tag{ID: nd.ID, Label: nd.Label, Sublabel: nd.Sublabel}
		if _, err := g.AddNode(tag, geom.R(nd.X, nd.Y, nd.Width, nd.Height)); err != nil {
			return nil, err
		}
	}
	for _, ed := range d.Edges {
		src, dst := g.Node(ed.Source), g.Node(ed.Target)
		if src == nil || dst == nil {
			return nil, fmt.Errorf("edge %d→%d: unknown node", ed.Source, ed.Target)
		}
		g.AddEdge(src, dst, ed.Bends...)
	}
	return g, nil
}

// UnmarshalGraph deserializes JSON bytes to Data.
func UnmarshalGraph(data []byte) (Data, error) {
	var d Data
	if err := json.Unmarshal(data, &d); err != nil {
		return Data{}, err
	}
	return d, nil
}
