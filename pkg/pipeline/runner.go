package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/cssgraph/pkg/cache"
	"github.com/matzehuels/cssgraph/pkg/graph"
	"github.com/matzehuels/cssgraph/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner keeps no pipeline results itself. Multiple goroutines can
// safely use the same Runner with different options; concurrent requests
// for the same layout share one computation.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL applies to every cached stage result.
	TTL time.Duration

	layouts singleflight.Group
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    DefaultTTL,
	}
}

// Execute runs the complete generate → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Seed: opts.Generator.Seed}

	// Stage 1: Generate
	genStart := time.Now()
	g, genHit := opts.Input, false
	if g == nil {
		var err error
		if g, genHit, err = r.GenerateWithCacheInfo(ctx, opts); err != nil {
			return nil, fmt.Errorf("generate: %w", err)
		}
	}
	result.Graph = g
	result.Initial = graph.CaptureLayout(g, "")
	result.Stats.GenerateTime = time.Since(genStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.CacheInfo.GraphHit = genHit
	result.GraphHash = graphHash(g)

	r.Logger.Info("generated graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"seed", opts.Generator.Seed,
		"duration", result.Stats.GenerateTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	l.Apply(g)
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"algorithm", l.Algorithm,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, g, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// GenerateWithCacheInfo grows the random graph with caching and returns
// cache hit info.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, opts Options) (*graph.Graph, bool, error) {
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.GraphKey(opts.GraphKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if g, err := graph.ReadGraph(bytes.NewReader(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, "graph")
				return g, true, nil // Cache hit
			}
		}
		observability.Cache().OnCacheMiss(ctx, "graph")
	}

	g, err := Generate(ctx, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := graph.MarshalGraph(g); err == nil {
		r.store(ctx, "graph", cacheKey, data)
	}
	return g, false, nil // Cache miss
}

// Generate is a convenience wrapper that calls GenerateWithCacheInfo and discards the cache hit info.
func (r *Runner) Generate(ctx context.Context, opts Options) (*graph.Graph, error) {
	g, _, err := r.GenerateWithCacheInfo(ctx, opts)
	return g, err
}

// layoutResult is the shared value of one singleflight layout call.
type layoutResult struct {
	layout graph.Layout
	hit    bool
}

// LayoutWithCacheInfo computes a layout of g with caching and returns cache
// hit info. Concurrent calls for the same graph and options share one
// computation. The graph itself is not moved.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) (graph.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, false, err
	}
	cacheKey := r.Keyer.LayoutKey(graphHash(g), opts.LayoutKeyOpts())

	v, err, _ := r.layouts.Do(cacheKey, func() (any, error) {
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				if cached, err := graph.UnmarshalLayout(data); err == nil {
					observability.Cache().OnCacheHit(ctx, "layout")
					return layoutResult{layout: cached, hit: true}, nil
				}
				// If deserialization fails, fall through to recompute
			}
			observability.Cache().OnCacheMiss(ctx, "layout")
		}

		l, err := ComputeLayout(ctx, g, opts)
		if err != nil {
			return nil, err
		}
		if data, err := graph.MarshalLayout(l); err == nil {
			r.store(ctx, "layout", cacheKey, data)
		}
		return layoutResult{layout: l}, nil
	})
	if err != nil {
		return graph.Layout{}, false, err
	}
	res := v.(layoutResult)
	return res.layout, res.hit, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, g *graph.Graph, opts Options) (graph.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return l, err
}

// RenderWithCacheInfo renders g, which must already be at l, in all
// requested formats with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *graph.Graph, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// Compute cache key from graph and layout data
	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(append([]byte(graphHash(g)), layoutData...))

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				break
			}
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil // All artifacts from cache
		}
	}

	rendered, err := Render(ctx, g, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, "artifact", cacheKey, data)
	}
	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g *graph.Graph, l graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// store writes a stage result to the cache. Cache failures only cost a
// recomputation later, so they are logged and dropped.
func (r *Runner) store(ctx context.Context, keyType, key string, data []byte) {
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Debug("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// graphHash returns the content hash of g.
func graphHash(g *graph.Graph) string {
	data, err := graph.MarshalGraph(g)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}
