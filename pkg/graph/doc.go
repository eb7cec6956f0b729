// Package graph provides the in-memory graph model and its serialization
// formats.
//
// # Model
//
// A [Graph] owns [Node] and [Edge] values. Nodes carry a [Tag] (numeric id,
// label and sublabel) and a layout rectangle. Edges connect two [Port]s;
// a port sits at its owner's center shifted by an offset, and edges may be
// routed through bends. An edge whose ports share an owner is a self-loop.
//
// # Graph Serialization
//
// Graphs use a node-link JSON format that also carries the node layouts:
//
//	{
//	  "nodes": [{"id": 0, "label": "Ada", "sublabel": "Kent", "x": 0, "y": 0, "width": 60, "height": 48}],
//	  "edges": [{"source": 0, "target": 0}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("graph.json")   // File → Graph
//	data, _ := graph.MarshalGraph(g)            // Graph → []byte
//	parsed, _ := graph.UnmarshalGraph(data)     // []byte → Data
//
// The same [Data] type carries bson tags and is what pkg/store persists.
//
// # Layouts
//
// A [Layout] is a position per node id, detached from any graph instance, so
// layout results can be cached by content and applied later with
// [Layout.Apply].
//
// # Concurrency
//
// Graphs are not safe for concurrent mutation. The serialization functions
// only read the graph.
package graph
