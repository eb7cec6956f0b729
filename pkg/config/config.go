// Package config loads cssgraph settings from a TOML file.
//
// Settings are resolved in three steps: built-in defaults from [Default],
// then the file given by --config (or the per-user default file when it
// exists), then command-line flags applied by the CLI. Unknown keys are
// rejected so typos do not go unnoticed.
//
// A complete file with all defaults:
//
//	[graph]
//	nodes = 50
//	initial = 2
//	attach = 1
//	self_loop_probability = 0.05
//	seed = 0
//
//	[layout]
//	algorithm = "radial"
//	rank_sep = 110.0
//	node_sep = 20.0
//	morph_duration = "1s"
//	frame_rate = 30
//
//	[style]
//	marker_arrows = true
//	show_target_arrows = true
//	node_class = "css-node-style"
//	edge_class = "css-edge-style"
//	label_size = 15.0
//	user_agent = ""
//	css_file = ""
//
//	[bridges]
//	enabled = true
//	policy = "horizontal"
//	style = "gap"
//	width = 10.0
//	height = 5.0
//
//	[server]
//	addr = ":8080"
//	read_timeout = "10s"
//	write_timeout = "30s"
//
//	[cache]
//	backend = "file"
//	dir = ""
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[store]
//	backend = "memory"
//	dir = ""
//	mongo_uri = "mongodb://localhost:27017"
//	database = "cssgraph"
//	collection = "graphs"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cssgraph/pkg/canvas"
	"github.com/matzehuels/cssgraph/pkg/errors"
	"github.com/matzehuels/cssgraph/pkg/layout"
	"github.com/matzehuels/cssgraph/pkg/randomgraph"
	"github.com/matzehuels/cssgraph/pkg/style"
)

// AppName names the per-user config and cache directories.
const AppName = "cssgraph"

// Backend names.
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendMongo  = "mongo"
)

// =============================================================================
// Sections
// =============================================================================

// Graph configures the random graph generator.
type Graph struct {
	Nodes               int     `toml:"nodes"`
	Initial             int     `toml:"initial"`
	Attach              int     `toml:"attach"`
	SelfLoopProbability float64 `toml:"self_loop_probability"`

	// Seed fixes the generator; zero picks a new seed per graph.
	Seed uint64 `toml:"seed"`
}

// Layout configures placement and the morph animation.
type Layout struct {
	Algorithm     string        `toml:"algorithm"`
	RankSep       float64       `toml:"rank_sep"`
	NodeSep       float64       `toml:"node_sep"`
	MorphDuration time.Duration `toml:"morph_duration"`
	FrameRate     int           `toml:"frame_rate"`
}

// Style configures the CSS styles.
type Style struct {
	// MarkerArrows draws arrow heads with SVG markers for browsers that
	// support them. Other browsers always get explicit arrows.
	MarkerArrows     bool    `toml:"marker_arrows"`
	ShowTargetArrows bool    `toml:"show_target_arrows"`
	NodeClass        string  `toml:"node_class"`
	EdgeClass        string  `toml:"edge_class"`
	LabelSize        float64 `toml:"label_size"`

	// UserAgent is the browser the CLI renders for. The server uses the
	// request header instead.
	UserAgent string `toml:"user_agent"`

	// CSSFile replaces the built-in stylesheet.
	CSSFile string `toml:"css_file"`
}

// Bridges configures edge crossings.
type Bridges struct {
	Enabled bool    `toml:"enabled"`
	Policy  string  `toml:"policy"`
	Style   string  `toml:"style"`
	Width   float64 `toml:"width"`
	Height  float64 `toml:"height"`
}

// Server configures the HTTP server.
type Server struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// Cache configures the layout and artifact cache.
type Cache struct {
	Backend   string        `toml:"backend"`
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr"`
	TTL       time.Duration `toml:"ttl"`
	// Namespace prefixes every cache key, so deployments can share a backend.
	Namespace string `toml:"namespace"`
}

// Store configures graph persistence for the server.
type Store struct {
	Backend    string `toml:"backend"`
	Dir        string `toml:"dir"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Config is the complete configuration.
type Config struct {
	Graph   Graph   `toml:"graph"`
	Layout  Layout  `toml:"layout"`
	Style   Style   `toml:"style"`
	Bridges Bridges `toml:"bridges"`
	Server  Server  `toml:"server"`
	Cache   Cache   `toml:"cache"`
	Store   Store   `toml:"store"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Graph: Graph{
			Nodes:               randomgraph.DefaultNodes,
			Initial:             randomgraph.DefaultInitial,
			Attach:              randomgraph.DefaultAttach,
			SelfLoopProbability: 0.05,
		},
		Layout: Layout{
			Algorithm:     layout.AlgRadial,
			RankSep:       layout.DefaultRankSep,
			NodeSep:       layout.DefaultNodeSep,
			MorphDuration: layout.DefaultMorphDuration,
			FrameRate:     layout.DefaultFrameRate,
		},
		Style: Style{
			MarkerArrows:     true,
			ShowTargetArrows: true,
			NodeClass:        style.DefaultNodeClass,
			EdgeClass:        style.DefaultEdgeClass,
			LabelSize:        style.DefaultLabelSize,
		},
		Bridges: Bridges{
			Enabled: true,
			Policy:  "horizontal",
			Style:   "gap",
			Width:   canvas.DefaultBridgeWidth,
			Height:  canvas.DefaultBridgeHeight,
		},
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Cache: Cache{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
			TTL:       24 * time.Hour,
		},
		Store: Store{
			Backend:    BackendMemory,
			MongoURI:   "mongodb://localhost:27017",
			Database:   AppName,
			Collection: "graphs",
		},
	}
}

// =============================================================================
// Loading
// =============================================================================

// Load returns the defaults overlaid with the file at path. An empty path
// uses [DefaultPath] if that file exists and the defaults otherwise.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		if _, err := os.Stat(p); err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys in %s: %s", path, strings.Join(names, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes a TOML document on top of the defaults.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %s", keys[0])
	}
	return cfg, cfg.Validate()
}

// DefaultPath returns the per-user config file location
// ($XDG_CONFIG_HOME/cssgraph/config.toml).
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, "config.toml"), nil
}

// Validate checks the values that the loaders cannot check by type.
func (c Config) Validate() error {
	if err := c.GeneratorOptions(0).Validate(); err != nil {
		return err
	}
	if err := errors.ValidateLayout(c.Layout.Algorithm); err != nil {
		return err
	}
	if c.Layout.FrameRate <= 0 || c.Layout.MorphDuration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout: frame rate must be positive and morph duration non-negative")
	}
	if c.Style.LabelSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "style: label size must be positive, got %v", c.Style.LabelSize)
	}
	if _, err := canvas.ParseCrossingPolicy(c.Bridges.Policy); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "bridges")
	}
	if _, err := canvas.ParseBridgeStyle(c.Bridges.Style); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "bridges")
	}
	switch c.Cache.Backend {
	case BackendNone, BackendFile, BackendRedis:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache: unknown backend %q", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendMongo:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "store: unknown backend %q", c.Store.Backend)
	}
	return nil
}

// =============================================================================
// Conversions
// =============================================================================

// GeneratorOptions returns the random graph options. A zero configured
// seed is replaced by fallbackSeed.
func (c Config) GeneratorOptions(fallbackSeed uint64) randomgraph.Options {
	seed := c.Graph.Seed
	if seed == 0 {
		seed = fallbackSeed
	}
	return randomgraph.Options{
		Nodes:               c.Graph.Nodes,
		Initial:             c.Graph.Initial,
		Attach:              c.Graph.Attach,
		SelfLoopProbability: c.Graph.SelfLoopProbability,
		Seed:                seed,
	}
}

// LayoutOptions returns the layout options.
func (c Config) LayoutOptions() layout.Options {
	return layout.Options{Algorithm: c.Layout.Algorithm, RankSep: c.Layout.RankSep, NodeSep: c.Layout.NodeSep}
}

// Frames returns the number of morph frames.
func (c Config) Frames() int {
	return layout.FrameCount(c.Layout.MorphDuration, c.Layout.FrameRate)
}

// BridgeManager returns a configured bridge manager, or nil when bridges
// are disabled.
func (c Config) BridgeManager() (*canvas.BridgeManager, error) {
	if !c.Bridges.Enabled {
		return nil, nil
	}
	policy, err := canvas.ParseCrossingPolicy(c.Bridges.Policy)
	if err != nil {
		return nil, err
	}
	bs, err := canvas.ParseBridgeStyle(c.Bridges.Style)
	if err != nil {
		return nil, err
	}
	m := canvas.NewBridgeManager()
	m.Policy, m.Style = policy, bs
	if c.Bridges.Width > 0 {
		m.Width = c.Bridges.Width
	}
	if c.Bridges.Height > 0 {
		m.Height = c.Bridges.Height
	}
	return m, nil
}

// CSS returns the custom stylesheet, or "" to use the built-in one.
func (c Config) CSS() (string, error) {
	if c.Style.CSSFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.Style.CSSFile)
	if err != nil {
		return "", fmt.Errorf("read css: %w", err)
	}
	return string(data), nil
}
