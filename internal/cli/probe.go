package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cssgraph/pkg/app"
	"github.com/matzehuels/cssgraph/pkg/canvas"
	"github.com/matzehuels/cssgraph/pkg/geom"
	"github.com/matzehuels/cssgraph/pkg/graph"
	"github.com/matzehuels/cssgraph/pkg/pipeline"
)

// probeCommand creates the probe command.
func (c *CLI) probeCommand() *cobra.Command {
	var (
		nodes     int
		seed      uint64
		layout    string
		userAgent string
	)

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Hit-test a rendered graph interactively",
		Long: `Render a random graph and move a cursor over it.

The cursor position is hit-tested against the node and edge styles the
same way a pointer would be in the browser. Nodes are above edges.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts, err := pipeline.OptionsFromConfig(cfg, userAgent, c.classifyBrowser)
			if err != nil {
				return err
			}
			if nodes != 0 {
				opts.Generator.Nodes = nodes
			}
			if seed != 0 {
				opts.Generator.Seed = seed
			}
			if layout != "" {
				opts.Layout.Algorithm = layout
			}
			opts.Logger = c.Logger
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, cfg.Cache, false)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			g, err := runner.Generate(ctx, opts)
			if err != nil {
				return err
			}
			l, err := runner.Layout(ctx, g, opts)
			if err != nil {
				return err
			}
			l.Apply(g)

			scene, err := app.Init(g, opts.Settings)
			if err != nil {
				return err
			}
			scene.Render()

			final, err := tea.NewProgram(newProbeModel(scene), tea.WithContext(ctx), tea.WithAltScreen()).Run()
			if err != nil {
				return err
			}
			if m, ok := final.(probeModel); ok && m.hit != (canvas.Hit{}) {
				printInfo("Last hit: %s", describeHit(m.hit))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&nodes, "nodes", "n", 0, "number of nodes (default from config)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "generator seed (default random)")
	cmd.Flags().StringVar(&layout, "layout", "", "layout algorithm: radial, circular, none")
	cmd.Flags().StringVar(&userAgent, "user-agent", "", "classify styles for this browser")

	return cmd
}

// =============================================================================
// probeModel - Interactive hit testing
// =============================================================================

// Map size in terminal cells.
const (
	probeMapWidth  = 60
	probeMapHeight = 20
)

var (
	probeNodeStyle   = lipgloss.NewStyle().Foreground(colorGray)
	probeCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	probeHitStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	probeMapStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
)

// probeModel is the bubbletea model of the probe command.
type probeModel struct {
	scene  *app.Scene
	bounds geom.Rect
	cursor geom.Point
	step   float64
	hit    canvas.Hit
	next   int // index of the node tab jumps to
}

func newProbeModel(scene *app.Scene) probeModel {
	b := scene.Graph().Bounds()
	if b.IsEmpty() {
		b = geom.R(0, 0, 1, 1)
	}
	m := probeModel{
		scene:  scene,
		bounds: b,
		cursor: b.Center(),
		step:   max(1, max(b.Width, b.Height)/probeMapWidth),
	}
	return m.probe()
}

// probe hit-tests the cursor position.
func (m probeModel) probe() probeModel {
	m.hit = m.scene.Canvas.HitTest(m.cursor)
	return m
}

func (m probeModel) Init() tea.Cmd {
	return nil
}

func (m probeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.cursor.Y -= m.step
	case "down", "j":
		m.cursor.Y += m.step
	case "left", "h":
		m.cursor.X -= m.step
	case "right", "l":
		m.cursor.X += m.step
	case "+":
		m.step *= 2
	case "-":
		m.step = max(0.25, m.step/2)
	case "tab":
		nodes := m.scene.Graph().Nodes()
		if len(nodes) > 0 {
			m.cursor = nodes[m.next%len(nodes)].Center()
			m.next++
		}
	default:
		return m, nil
	}
	return m.probe(), nil
}

func (m probeModel) View() string {
	var b strings.Builder
	g := m.scene.Graph()

	b.WriteString(StyleTitle.Render("Probe"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d nodes · %d edges · bad markers: %s",
		g.NodeCount(), g.EdgeCount(), yesNo(m.scene.Profile.BadMarkerSupport))))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←↑↓→ move  +/- step  tab next node  q quit"))
	b.WriteString("\n\n")
	b.WriteString(probeMapStyle.Render(m.drawMap()))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("cursor %s  step %s\n", StyleValue.Render(m.cursor.String()), geom.Fmt(m.step)))
	if m.hit == (canvas.Hit{}) {
		b.WriteString(StyleDim.Render("nothing under the cursor"))
	} else {
		b.WriteString(probeHitStyle.Render(describeHit(m.hit)))
	}
	return b.String()
}

// drawMap rasterizes node centers and the cursor onto a character grid.
func (m probeModel) drawMap() string {
	grid := make([][]string, probeMapHeight)
	for i := range grid {
		grid[i] = make([]string, probeMapWidth)
		for j := range grid[i] {
			grid[i][j] = " "
		}
	}
	cell := func(p geom.Point) (int, int, bool) {
		col := int((p.X - m.bounds.X) / max(m.bounds.Width, 1) * (probeMapWidth - 1))
		row := int((p.Y - m.bounds.Y) / max(m.bounds.Height, 1) * (probeMapHeight - 1))
		return row, col, row >= 0 && row < probeMapHeight && col >= 0 && col < probeMapWidth
	}
	for _, n := range m.scene.Graph().Nodes() {
		if r, c, ok := cell(n.Center()); ok {
			mark := probeNodeStyle.Render("o")
			if m.hit.Node == n {
				mark = probeHitStyle.Render("O")
			}
			grid[r][c] = mark
		}
	}
	if r, c, ok := cell(m.cursor); ok {
		grid[r][c] = probeCursorStyle.Render("+")
	}

	lines := make([]string, probeMapHeight)
	for i, row := range grid {
		lines[i] = strings.Join(row, "")
	}
	return strings.Join(lines, "\n")
}

func describeHit(h canvas.Hit) string {
	switch {
	case h.Node != nil:
		return fmt.Sprintf("node %d %q", h.Node.Tag.ID, h.Node.Tag.Label)
	case h.Edge != nil:
		return describeEdge(h.Edge)
	}
	return "nothing"
}

func describeEdge(e *graph.Edge) string {
	if e.IsSelfLoop() {
		return fmt.Sprintf("self loop on node %d", e.Source.Owner.Tag.ID)
	}
	return fmt.Sprintf("edge %d → %d", e.Source.Owner.Tag.ID, e.Target.Owner.Tag.ID)
}
