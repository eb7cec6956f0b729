package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cssgraph/pkg/app"
	"github.com/matzehuels/cssgraph/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve random graphs to browsers",
		Long: `Serve random graphs over HTTP.

Every visit to / creates a new graph and redirects to its page. The page
opens a websocket that animates the graph from its initial positions to
its layout; each frame only sends the changed SVG elements.

Pages and SVG documents are rendered for the requesting browser.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			runner, err := c.newRunner(ctx, cfg.Cache, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			st, err := app.OpenStore(ctx, cfg.Store)
			if err != nil {
				return err
			}
			defer st.Close(context.WithoutCancel(ctx))

			printSuccess("Serving on %s", StyleLink.Render("http://"+displayAddr(cfg.Server.Addr)))
			printKeyValue("cache", cfg.Cache.Backend)
			printKeyValue("store", cfg.Store.Backend)
			printKeyValue("frames per morph", fmt.Sprint(cfg.Frames()))

			err = server.New(cfg, runner, st, c.Logger).Run(ctx)
			if ctx.Err() != nil {
				printInfo("Shut down")
				return ctx.Err()
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// displayAddr turns a listen address into a host:port a browser can open.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
