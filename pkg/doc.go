// Package pkg provides the libraries of cssgraph, a random graph demo whose
// SVG look is driven by CSS classes.
//
// # Overview
//
// The pkg directory is organized into four main areas:
//
//  1. Scene: [geom], [graph], [canvas] and [style] hold the retained SVG
//     scene and the CSS edge, node, label and arrow styles
//  2. Domain: [randomgraph], [layout] and [useragent] grow graphs, place
//     them and classify browsers
//  3. Infrastructure: [cache], [store], [config], [observability] and
//     [errors]
//  4. Orchestration: [app], [pipeline] and [server]
//
// # Architecture
//
// The typical data flow:
//
//	randomgraph.Generate
//	         ↓
//	layout.Compute (Graphviz radial, circular)
//	         ↓
//	app.Init (browser classification → styles → canvas)
//	         ↓
//	canvas.Render → SVG document, or mutations per morph frame
//
// # Quick Start
//
//	g, _ := randomgraph.Generate(randomgraph.Options{Nodes: 30, Seed: 1}, style.DefaultLabelSize)
//	l, _ := layout.Compute(ctx, g, layout.DefaultOptions())
//	l.Apply(g)
//
//	settings, _ := app.SettingsFromConfig(config.Default(), userAgent, nil)
//	scene, _ := app.Init(g, settings)
//	svg := scene.SVG()
//
// The [pipeline] package wraps these steps with caching, and [server]
// serves them to browsers with a websocket morph stream.
package pkg
