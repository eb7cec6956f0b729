// Package geom provides the small amount of plane geometry the canvas and the
// CSS styles need: points, axis-aligned rectangles and general paths.
//
// # Paths
//
// A [Path] is a sequence of move, line, quadratic, cubic and close operations,
// the same model SVG path data uses. Paths know how to:
//
//   - serialize themselves as SVG path data ([Path.SVGData])
//   - compare by value ([Path.Equal]), which the styles use for dirty checks
//   - shorten themselves at either end ([Path.CropStart], [Path.CropEnd]) or at
//     rectangle outlines ([Path.ClipToRects])
//   - round polyline corners ([Path.Smoothed])
//   - answer proximity queries ([Path.Contains])
//
// Curves are measured and hit-tested through a fixed-step flattening, which is
// precise enough for screen-space rendering and keeps every operation
// allocation-light.
//
// # Concurrency
//
// Values are not safe for concurrent mutation. Paths returned by the cropping
// and smoothing helpers are fresh copies and never alias the receiver.
package geom
