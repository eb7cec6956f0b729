// Package app assembles the styles, the canvas and the storage backends of
// a cssgraph session.
//
// [Init] is the startup routine of one rendered graph: it builds the CSS
// styles for the browser classified by [SettingsFromConfig] and installs
// them on a fresh canvas. Every HTTP page, websocket stream and CLI render
// gets its own [Scene], so the visual caches of the styles are never shared.
package app

import (
	"context"

	"github.com/matzehuels/cssgraph/pkg/assets"
	"github.com/matzehuels/cssgraph/pkg/canvas"
	"github.com/matzehuels/cssgraph/pkg/config"
	"github.com/matzehuels/cssgraph/pkg/graph"
	"github.com/matzehuels/cssgraph/pkg/layout"
	"github.com/matzehuels/cssgraph/pkg/style"
	"github.com/matzehuels/cssgraph/pkg/useragent"
)

// Classifier resolves a User-Agent string to a browser profile.
type Classifier func(ua string) useragent.Profile

// Settings are the inputs of [Init] that do not come from the graph.
type Settings struct {
	// Browser is the classified browser the scene renders for.
	Browser useragent.Profile

	Style   config.Style
	Bridges config.Bridges

	// CSS replaces the built-in stylesheet when non-empty.
	CSS string
}

// SettingsFromConfig returns the settings of cfg for the browser ua as
// classified by classify. An empty ua falls back to the configured user
// agent and a nil classify to [useragent.Classify].
func SettingsFromConfig(cfg config.Config, ua string, classify Classifier) (Settings, error) {
	css, err := cfg.CSS()
	if err != nil {
		return Settings{}, err
	}
	if ua == "" {
		ua = cfg.Style.UserAgent
	}
	if classify == nil {
		classify = useragent.Classify
	}
	return Settings{Browser: classify(ua), Style: cfg.Style, Bridges: cfg.Bridges, CSS: css}, nil
}

// Scene is a graph with the canvas and styles that render it.
type Scene struct {
	Canvas  *canvas.Canvas
	Profile useragent.Profile

	Edges  *style.CSSEdgeStyle
	Nodes  *style.CSSNodeStyle
	Labels *style.LabelStyle
}

// Init builds the styles for the browser in s and a canvas for g. Nothing
// is rendered yet.
func Init(g *graph.Graph, s Settings) (*Scene, error) {
	profile := s.Browser

	edges := style.NewCSSEdgeStyle()
	edges.CSSClass = s.Style.EdgeClass
	edges.ShowTargetArrows = s.Style.ShowTargetArrows
	edges.UseMarkerArrows = s.Style.MarkerArrows
	edges.BadMarkerSupport = profile.BadMarkerSupport

	nodes := &style.CSSNodeStyle{CSSClass: s.Style.NodeClass}

	labels := style.NewLabelStyle()
	if s.Style.LabelSize > 0 {
		labels.LabelSize = s.Style.LabelSize
	}

	bridges, err := config.Config{Bridges: s.Bridges}.BridgeManager()
	if err != nil {
		return nil, err
	}

	css := s.CSS
	if css == "" {
		css = assets.DefaultCSS()
	}

	opts := canvas.Options{
		NodeStyle:  nodes,
		EdgeStyle:  edges,
		LabelStyle: labels,
		Bridges:    bridges,
		CSS:        css,
	}

	return &Scene{
		Canvas:  canvas.New(g, opts),
		Profile: profile,
		Edges:   edges,
		Nodes:   nodes,
		Labels:  labels,
	}, nil
}

// Graph returns the rendered graph.
func (s *Scene) Graph() *graph.Graph { return s.Canvas.Graph() }

// Render brings the canvas up to date and discards the recorded
// mutations.
func (s *Scene) Render() canvas.RenderStats {
	st := s.Canvas.Render()
	s.Canvas.Mutations()
	return st
}

// SVG renders the scene and returns the document.
func (s *Scene) SVG() string {
	s.Render()
	return s.Canvas.SVG()
}

// Apply moves the graph to l and renders it.
func (s *Scene) Apply(l graph.Layout) canvas.RenderStats {
	l.Apply(s.Graph())
	return s.Render()
}

// FrameFunc receives the DOM mutations of one morph frame. Frames are
// numbered from 1.
type FrameFunc func(frame int, mutations []canvas.Mutation) error

// Morph animates the graph from its current positions to target in the
// given number of frames. After each frame the canvas is rendered and fn
// receives the recorded mutations. Morph stops at the first error of fn or
// when ctx is done. The graph ends at target on success.
func (s *Scene) Morph(ctx context.Context, target graph.Layout, frames int, fn FrameFunc) error {
	g := s.Graph()
	s.Render()
	from := graph.CaptureLayout(g, "")
	for i, l := range layout.Frames(from, target, frames) {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.Apply(g)
		s.Canvas.Render()
		if err := fn(i+1, s.Canvas.Mutations()); err != nil {
			return err
		}
	}
	return nil
}
