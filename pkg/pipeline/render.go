package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/matzehuels/cssgraph/pkg/app"
	"github.com/matzehuels/cssgraph/pkg/assets"
	"github.com/matzehuels/cssgraph/pkg/graph"
	"github.com/matzehuels/cssgraph/pkg/observability"
)

// =============================================================================
// Rendering
// =============================================================================

// Render paints g at its current positions in every requested format
// without caching. Each call builds its own scene, so styles and visual
// caches are never shared between calls.
func Render(ctx context.Context, g *graph.Graph, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	var scene *app.Scene
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		hooks := observability.Pipeline()
		hooks.OnRenderStart(ctx, format)
		start := time.Now()

		var data []byte
		var err error
		writes := 0
		switch format {
		case FormatJSON:
			data, err = graph.MarshalGraph(g)
		case FormatSVG, FormatHTML:
			if scene == nil {
				if scene, err = app.Init(g, opts.Settings); err != nil {
					break
				}
				st := scene.Render()
				writes = st.Created + st.Updated + st.Replaced + st.Removed
			}
			if format == FormatSVG {
				data = []byte(scene.Canvas.SVG())
			} else {
				data, err = RenderPage(scene, opts)
			}
		default:
			err = fmt.Errorf("unsupported format: %s", format)
		}

		hooks.OnRenderComplete(ctx, format, writes, time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderPage renders the HTML viewer page for a rendered scene.
func RenderPage(scene *app.Scene, opts Options) ([]byte, error) {
	g := scene.Graph()
	var buf bytes.Buffer
	err := assets.WritePage(&buf, assets.PageData{
		Title:      opts.Title,
		SVG:        template.HTML(scene.Canvas.SVG()),
		Nodes:      g.NodeCount(),
		Edges:      g.EdgeCount(),
		BadMarkers: scene.Profile.BadMarkerSupport,
		StreamURL:  opts.StreamURL,
		JSONURL:    opts.JSONURL,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
