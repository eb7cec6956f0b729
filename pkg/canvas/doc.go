// Package canvas is a small retained-mode SVG scene that drives pluggable
// node and edge styles.
//
// # Overview
//
// A [Canvas] owns an element tree for one [graph.Graph]. Every call to
// [Canvas.Render] walks the graph and, per item, asks the configured style to
// either create a visual or update the visual it created before:
//
//	c := canvas.New(g, canvas.Options{NodeStyle: ns, EdgeStyle: es})
//	c.Render()            // creates visuals
//	g.Node(0).Layout.X += 10
//	c.Render()            // styles patch only what changed
//	c.WriteSVG(os.Stdout)
//
// Items outside the viewport are culled through the style's visibility test.
// Styles that keep per-visual state implement [Disposer] and are told when
// the canvas drops a visual.
//
// # Capabilities
//
// Styles are plain values that satisfy [NodeStyle] or [EdgeStyle]. They get
// optional collaborators from the [Context]:
//
//   - [BridgeManager]: obstacle hash and bridge insertion at edge crossings
//   - [DefsManager]: shared definitions such as markers, with automatic
//     removal once nothing references them
//
// Arrows implement [Arrow] and hand out a [VisualCreator] and a
// [BoundsProvider] bound to an anchor and direction. Edge styles compose the
// helpers [PolylinePath], [CropPath], [AddArrows] and [PathBounds].
//
// # Mutations
//
// Writes to attached elements are counted by the [Recorder] and buffered as
// [Mutation] values. The server replays them in the browser to animate
// layout changes without resending the document.
//
// # Concurrency
//
// A Canvas serializes its own render, hit-test and write calls. Element trees
// and styles must not be shared between canvases.
package canvas
