// Package style provides CSS-driven SVG styles for nodes, edges, arrows and
// labels.
//
// # Edges
//
// [CSSEdgeStyle] draws an edge as a path with a CSS class. Paths are cropped
// at the node outlines and shortened by the room the target arrow needs.
// Self-loops with at most one bend become a rectilinear loop around the
// top-left node corner; other edges get rounded corners.
//
// Target arrows come in two flavors:
//
//   - a shared SVG marker defined once through [MarkerDefsSupport] and
//     referenced via marker-end
//   - an explicit [CSSArrow] element placed next to the path, used when
//     markers are off or when the browser mishandles them (see package
//     useragent)
//
// The style remembers the cropped path and the bridge obstacle hash of each
// visual, so a render pass without geometry changes writes nothing to the
// element tree.
//
// # Nodes and Labels
//
// [CSSNodeStyle] draws rounded rectangles and rewrites only the attributes
// whose value changed. [LabelStyle] centers the node label and puts the
// sublabel at the bottom edge. [NodeSize] sizes a node so both texts fit.
package style
