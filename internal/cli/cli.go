// Package cli implements the cssgraph command-line interface.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cssgraph/pkg/app"
	"github.com/matzehuels/cssgraph/pkg/buildinfo"
	"github.com/matzehuels/cssgraph/pkg/cache"
	"github.com/matzehuels/cssgraph/pkg/config"
	"github.com/matzehuels/cssgraph/pkg/observability"
	"github.com/matzehuels/cssgraph/pkg/pipeline"
	"github.com/matzehuels/cssgraph/pkg/useragent"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is the --config flag; empty uses the per-user file.
	configPath string

	// browser is the classification of the invocation's browser. One
	// invocation renders for one browser.
	browser func() useragent.Profile
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the pipeline and
// server hooks log through the same logger.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.NewLogHooks(c.Logger).Install()
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "cssgraph",
		Short:        "cssgraph draws random graphs with CSS-styled SVG",
		Long:         `cssgraph grows random graphs, lays them out and renders them as SVG whose look is driven by CSS classes. Browsers with broken SVG marker support get explicit arrow heads instead of markers.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/cssgraph/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.probeCommand())
	root.AddCommand(c.classifyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration selected by --config.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("loaded config", "path", c.configPath, "cache", cfg.Cache.Backend, "store", cfg.Store.Backend)
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg config.Cache, noCache bool) (*pipeline.Runner, error) {
	if noCache {
		cfg.Backend = config.BackendNone
	}
	backend, err := app.OpenCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if cfg.Namespace != "" {
		keyer = cache.NewScopedKeyer(nil, cfg.Namespace+":")
	}
	r := pipeline.NewRunner(backend, keyer, c.Logger)
	if cfg.TTL > 0 {
		r.TTL = cfg.TTL
	}
	return r, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// classifyBrowser is the [app.Classifier] of the CLI. The first call fixes
// the browser of the invocation.
func (c *CLI) classifyBrowser(ua string) useragent.Profile {
	if c.browser == nil {
		c.browser = useragent.Session(ua)
	}
	return c.browser()
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	formats := strings.Split(s, ",")
	for i, f := range formats {
		formats[i] = strings.TrimSpace(f)
	}
	return formats
}
