// Package layout places the nodes of a [graph.Graph] and animates between
// placements.
//
// # Algorithms
//
//   - [Radial]: concentric rings around the best-connected node, computed by
//     the Graphviz twopi engine through go-graphviz
//   - [Circular]: all nodes on one circle, pure Go and always available
//   - "none": keep the current positions
//
// [Compute] dispatches on the algorithm name. Results are [graph.Layout]
// values keyed by node id, so they can be cached and applied to any graph
// instance with the same ids.
//
// # Morphing
//
// [Frames] interpolates between two layouts with an ease-in-out curve. The
// server applies each frame to the graph, re-renders the canvas and streams
// the resulting patches to the browser.
package layout
