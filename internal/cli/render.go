package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cssgraph/pkg/app"
	"github.com/matzehuels/cssgraph/pkg/config"
	cgerrors "github.com/matzehuels/cssgraph/pkg/errors"
	"github.com/matzehuels/cssgraph/pkg/graph"
	"github.com/matzehuels/cssgraph/pkg/pipeline"
	"github.com/matzehuels/cssgraph/pkg/store"
)

// defaultOutput is the base path of rendered documents.
const defaultOutput = "graph"

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string // output file (single format) or base path
	formats   string // comma-separated formats
	nodes     int
	seed      uint64
	layout    string
	userAgent string // browser the documents are rendered for
	title     string
	noCache   bool
	refresh   bool
	save      bool   // keep the graph in the store for the server
	from      string // graph JSON file rendered instead of a random graph
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Generate a random graph and render it",
		Long: `Generate a random graph, lay it out and render it with the CSS styles.

Documents are rendered for one browser, given by --user-agent or the config.
Safari and Microsoft browsers get explicit arrow heads because their SVG
marker support is unreliable.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", defaultOutput, "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), html, json (comma-separated)")
	cmd.Flags().IntVarP(&opts.nodes, "nodes", "n", 0, "number of nodes (default from config)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "generator seed (default random)")
	cmd.Flags().StringVar(&opts.layout, "layout", "", "layout algorithm: radial, circular, none")
	cmd.Flags().StringVar(&opts.userAgent, "user-agent", "", "render for this browser User-Agent")
	cmd.Flags().StringVar(&opts.title, "title", "", "HTML page title")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute cached results")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save the graph to the store")
	cmd.Flags().StringVar(&opts.from, "from", "", "render the graph in this JSON file (as written by -f json)")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, ro renderOpts) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	opts, err := pipeline.OptionsFromConfig(cfg, ro.userAgent, c.classifyBrowser)
	if err != nil {
		return err
	}
	if ro.nodes != 0 {
		opts.Generator.Nodes = ro.nodes
	}
	if ro.seed != 0 {
		opts.Generator.Seed = ro.seed
	}
	if ro.layout != "" {
		opts.Layout.Algorithm = ro.layout
	}
	opts.Formats = parseFormats(ro.formats)
	opts.Title = ro.title
	opts.Refresh = ro.refresh
	opts.Logger = c.Logger
	if ro.from != "" {
		if opts.Input, err = graph.ReadGraphFile(ro.from); err != nil {
			return cgerrors.Wrap(cgerrors.ErrCodeInvalidInput, err, "read graph")
		}
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg.Cache, ro.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	nodes := opts.Generator.Nodes
	if opts.Input != nil {
		nodes = opts.Input.NodeCount()
	}
	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %d nodes...", nodes))
	spinner.Start()
	prog := newProgress(c.Logger)

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	if opts.Input != nil {
		spinner.StopWithSuccess("Rendered " + ro.from)
	} else {
		spinner.StopWithSuccess(fmt.Sprintf("Rendered graph with seed %d", res.Seed))
	}
	prog.done("pipeline finished", "seed", res.Seed)

	paths, err := writeArtifacts(res.Artifacts, opts.Formats, ro.output)
	if err != nil {
		return err
	}

	fmt.Println(statsLine(res.Stats, res.CacheInfo))
	for _, p := range paths {
		printFile(p)
	}

	if ro.save {
		id, where, err := saveResult(ctx, cfg.Store, res)
		if err != nil {
			return err
		}
		printSuccess("Saved graph %s", id)
		printDetail("Store: %s", where)
	}
	printNextStep("Animate it in a browser", "cssgraph serve")
	return nil
}

// writeArtifacts writes every format to disk and returns the paths. A single
// format is written to output as given; several formats share output as a
// base path with the format as extension.
func writeArtifacts(artifacts map[string][]byte, formats []string, output string) ([]string, error) {
	if output == "" {
		output = defaultOutput
	}
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := output
		if len(formats) > 1 || filepath.Ext(output) == "" {
			path = output + "." + format
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// saveResult stores the graph at its initial positions together with its
// layout. A memory store would not outlive the command, so the file store
// is used instead.
func saveResult(ctx context.Context, cfg config.Store, res *pipeline.Result) (id, where string, err error) {
	if cfg.Backend == config.BackendMemory {
		cfg.Backend = config.BackendFile
	}
	st, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return "", "", err
	}
	defer st.Close(ctx)

	res.Initial.Apply(res.Graph)
	rec := store.NewRecord(graph.FromGraph(res.Graph), res.Layout, res.Seed, 0)
	res.Layout.Apply(res.Graph)
	if err := st.Put(ctx, rec); err != nil {
		return "", "", fmt.Errorf("save graph: %w", err)
	}

	where = cfg.Backend
	if fs, ok := st.(*store.FileStore); ok {
		where = fs.Path()
	}
	return rec.ID, where, nil
}
