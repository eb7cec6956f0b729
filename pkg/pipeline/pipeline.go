// Package pipeline provides the generate → layout → render pipeline of
// cssgraph.
//
// The CLI and the HTTP server share this package, so both entry points
// produce identical documents and use the cache the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Generate: grow a random graph and size its nodes for their labels
//  2. Layout: place the nodes (Graphviz radial, circular, or as is)
//  3. Render: paint the graph with the CSS styles as SVG, HTML or JSON
//
// Each stage can be run on its own or as part of [Runner.Execute]. Stage
// results are cached by content hash; concurrent requests for the same
// layout are computed once.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts, _ := pipeline.OptionsFromConfig(cfg, r.UserAgent(), detector.Classify)
//	opts.Formats = []string{pipeline.FormatSVG}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/cssgraph/pkg/app"
	"github.com/matzehuels/cssgraph/pkg/cache"
	"github.com/matzehuels/cssgraph/pkg/config"
	"github.com/matzehuels/cssgraph/pkg/errors"
	"github.com/matzehuels/cssgraph/pkg/graph"
	"github.com/matzehuels/cssgraph/pkg/layout"
	"github.com/matzehuels/cssgraph/pkg/randomgraph"
	"github.com/matzehuels/cssgraph/pkg/style"
	"github.com/matzehuels/cssgraph/pkg/useragent"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatHTML = "html"
	FormatJSON = "json"
)

// DefaultTTL is how long stage results stay cached.
const DefaultTTL = 24 * time.Hour

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Generate options. A zero seed is replaced by a random one.
	Generator randomgraph.Options `json:"generator"`
	LabelSize float64             `json:"label_size,omitempty"`

	// Input replaces the generated graph when set. It is laid out and
	// rendered like a generated one.
	Input *graph.Graph `json:"-"`

	// Layout options
	Layout layout.Options `json:"layout"`

	// Render options
	Formats  []string     `json:"formats,omitempty"`
	Settings app.Settings `json:"-"`

	// Page options for the HTML format.
	Title     string `json:"title,omitempty"`
	StreamURL string `json:"-"`
	JSONURL   string `json:"-"`

	// Refresh bypasses cached results.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// OptionsFromConfig returns the options of cfg for the browser ua, see
// [app.SettingsFromConfig].
func OptionsFromConfig(cfg config.Config, ua string, classify app.Classifier) (Options, error) {
	settings, err := app.SettingsFromConfig(cfg, ua, classify)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Generator: cfg.GeneratorOptions(0),
		LabelSize: cfg.Style.LabelSize,
		Layout:    cfg.LayoutOptions(),
		Settings:  settings,
	}, nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the generated graph, moved to Layout.
	Graph *graph.Graph

	// Seed is the generator seed that produced Graph.
	Seed uint64

	// GraphHash is the content hash of the graph before layout.
	GraphHash string

	// Initial holds the node positions before layout.
	Initial graph.Layout

	// Layout contains the computed positions.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	GenerateTime time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GraphHit  bool // Whether the graph came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForGenerate(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForGenerate validates and sets defaults for graph generation.
func (o *Options) ValidateForGenerate() error {
	o.Generator = o.Generator.WithDefaults()
	if o.Generator.Seed == 0 {
		o.Generator.Seed = gofakeit.Uint64()
	}
	if o.LabelSize == 0 {
		o.LabelSize = style.DefaultLabelSize
	}
	o.setLogger()
	if o.LabelSize < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "label size must be positive, got %v", o.LabelSize)
	}
	return o.Generator.Validate()
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.Layout = o.Layout.WithDefaults()
	o.setLogger()
	return errors.ValidateLayout(o.Layout.Algorithm)
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Title == "" {
		o.Title = config.AppName
	}
	o.setLogger()
	for _, f := range o.Formats {
		if err := errors.ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Profile returns the browser classification the styles render for.
func (o *Options) Profile() useragent.Profile {
	return o.Settings.Browser
}

// GraphKeyOpts returns cache key options for graph generation.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		Nodes:               o.Generator.Nodes,
		Initial:             o.Generator.Initial,
		Attach:              o.Generator.Attach,
		SelfLoopProbability: o.Generator.SelfLoopProbability,
		Seed:                o.Generator.Seed,
		LabelSize:           o.LabelSize,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Algorithm: o.Layout.Algorithm,
		RankSep:   o.Layout.RankSep,
		NodeSep:   o.Layout.NodeSep,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering. The
// browser enters the key only through its marker classification.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	if format == FormatJSON {
		return cache.ArtifactKeyOpts{Format: format}
	}
	s := o.Settings
	look := fmt.Sprintf("%+v|%s", s.Style, s.CSS)
	if format == FormatHTML {
		look += "|" + o.Title + "|" + o.StreamURL + "|" + o.JSONURL
	}
	return cache.ArtifactKeyOpts{
		Format:           format,
		MarkerArrows:     s.Style.MarkerArrows,
		BadMarkerSupport: o.Profile().BadMarkerSupport,
		Bridges:          fmt.Sprintf("%+v", s.Bridges),
		CSSHash:          cache.Hash([]byte(look)),
	}
}
