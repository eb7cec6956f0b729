package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/cssgraph/pkg/app"
	"github.com/matzehuels/cssgraph/pkg/config"
	cgerrors "github.com/matzehuels/cssgraph/pkg/errors"
	"github.com/matzehuels/cssgraph/pkg/geom"
	"github.com/matzehuels/cssgraph/pkg/graph"
	"github.com/matzehuels/cssgraph/pkg/useragent"
)

const safari11 = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_13_1) AppleWebKit/604.3.5 (KHTML, like Gecko) Version/11.0.1 Safari/604.3.5"

// isolate points every per-user directory at a temporary one.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	for _, name := range []string{"render", "serve", "probe", "classify", "cache", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("--config flag missing")
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"html", []string{"html"}},
		{"svg, json", []string{"svg", "json"}},
	}
	for _, tt := range tests {
		got := parseFormats(tt.in)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{"svg": []byte("<svg/>"), "json": []byte("{}")}

	tests := []struct {
		name    string
		formats []string
		output  string
		want    []string
	}{
		{"single with extension", []string{"svg"}, "out/a.svg", []string{"out/a.svg"}},
		{"single base", []string{"json"}, "b", []string{"b.json"}},
		{"multiple", []string{"svg", "json"}, "sub/c", []string{"sub/c.svg", "sub/c.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths, err := writeArtifacts(artifacts, tt.formats, filepath.Join(dir, tt.output))
			if err != nil {
				t.Fatal(err)
			}
			for i, p := range paths {
				if want := filepath.Join(dir, tt.want[i]); p != want {
					t.Errorf("path %d = %q, want %q", i, p, want)
				}
				if _, err := os.Stat(p); err != nil {
					t.Error(err)
				}
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	dir := isolate(t)
	base := filepath.Join(dir, "out", "g")

	_, err := execute(t, "render", "-n", "8", "--seed", "3", "--layout", "circular",
		"--user-agent", safari11, "-f", "svg,html,json", "-o", base, "--save")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), "matrix(") {
		t.Error("safari svg uses markers")
	}
	for _, ext := range []string{".html", ".json"} {
		if _, err := os.Stat(base + ext); err != nil {
			t.Error(err)
		}
	}

	saved, _ := filepath.Glob(filepath.Join(dir, "data", "cssgraph", "graphs", "*.json"))
	if len(saved) != 1 {
		t.Errorf("saved %d records, want 1", len(saved))
	}
}

func TestRenderFromFile(t *testing.T) {
	dir := isolate(t)
	first := filepath.Join(dir, "first.json")
	if _, err := execute(t, "render", "-n", "6", "--seed", "4", "--layout", "circular", "-f", "json", "-o", first); err != nil {
		t.Fatalf("render json: %v", err)
	}
	want, err := graph.ReadGraphFile(first)
	if err != nil {
		t.Fatal(err)
	}

	second := filepath.Join(dir, "second")
	if _, err := execute(t, "render", "--from", first, "--layout", "none", "-f", "json,svg", "-o", second); err != nil {
		t.Fatalf("render --from: %v", err)
	}
	got, err := graph.ReadGraphFile(second + ".json")
	if err != nil {
		t.Fatal(err)
	}
	if got.NodeCount() != want.NodeCount() || got.EdgeCount() != want.EdgeCount() {
		t.Errorf("round trip: %d/%d nodes, %d/%d edges", got.NodeCount(), want.NodeCount(), got.EdgeCount(), want.EdgeCount())
	}
	for _, n := range want.Nodes() {
		if got.Node(n.Tag.ID).Layout != n.Layout {
			t.Errorf("node %d moved from %v to %v", n.Tag.ID, n.Layout, got.Node(n.Tag.ID).Layout)
		}
	}
	if _, err := os.Stat(second + ".svg"); err != nil {
		t.Error(err)
	}

	_, err = execute(t, "render", "--from", filepath.Join(dir, "missing.json"), "-o", filepath.Join(dir, "x"))
	if !cgerrors.Is(err, cgerrors.ErrCodeInvalidInput) {
		t.Errorf("missing file: err = %v", err)
	}
}

func TestRenderCommandInvalid(t *testing.T) {
	isolate(t)
	if _, err := execute(t, "render", "-f", "png", "-o", filepath.Join(t.TempDir(), "x")); err == nil {
		t.Error("render accepted png")
	}
	if _, err := execute(t, "render", "--layout", "spiral"); err == nil {
		t.Error("render accepted an unknown layout")
	}
}

func TestClassifyCommand(t *testing.T) {
	out, err := execute(t, "classify", safari11)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "yes") || !strings.Contains(out, "11") {
		t.Errorf("classify output:\n%s", out)
	}

	if _, err := execute(t, "classify", "--random", "3"); err != nil {
		t.Errorf("classify --random: %v", err)
	}
	if _, err := execute(t, "classify"); err == nil {
		t.Error("classify without input succeeded")
	}
}

func TestProfileTable(t *testing.T) {
	out := profileTable([]useragent.Profile{useragent.Classify(safari11)})
	for _, want := range []string{"User-Agent", "Bad markers", "yes"} {
		if !strings.Contains(out, want) {
			t.Errorf("table misses %q:\n%s", want, out)
		}
	}
}

func TestCachePathCommand(t *testing.T) {
	dir := isolate(t)
	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "cache", "cssgraph"); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "cssgraph") {
		t.Error("completion script does not mention cssgraph")
	}
}

func TestDisplayAddr(t *testing.T) {
	if got := displayAddr(":8080"); got != "localhost:8080" {
		t.Errorf("displayAddr(:8080) = %q", got)
	}
	if got := displayAddr("0.0.0.0:80"); got != "0.0.0.0:80" {
		t.Errorf("displayAddr(0.0.0.0:80) = %q", got)
	}
}

// probeScene is two nodes side by side with an edge between them.
func probeScene(t *testing.T) *app.Scene {
	t.Helper()
	g := graph.New()
	a, _ := g.AddNode(graph.Tag{ID: 0, Label: "Ada"}, geom.R(0, 0, 40, 20))
	b, _ := g.AddNode(graph.Tag{ID: 1, Label: "Bob"}, geom.R(200, 0, 40, 20))
	g.AddEdge(a, b)

	s, err := app.SettingsFromConfig(config.Default(), "", nil)
	if err != nil {
		t.Fatal(err)
	}
	scene, err := app.Init(g, s)
	if err != nil {
		t.Fatal(err)
	}
	scene.Render()
	return scene
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestProbeModel(t *testing.T) {
	m := newProbeModel(probeScene(t))

	next, _ := m.Update(key("tab"))
	m = next.(probeModel)
	if m.hit.Node == nil || m.hit.Node.Tag.ID != 0 {
		t.Fatalf("tab hit = %+v, want node 0", m.hit)
	}

	next, _ = m.Update(key("tab"))
	m = next.(probeModel)
	if m.hit.Node == nil || m.hit.Node.Tag.ID != 1 {
		t.Fatalf("second tab hit = %+v, want node 1", m.hit)
	}

	// Halfway between the nodes is the edge.
	m.cursor = geom.Pt(120, 10)
	m = m.probe()
	if m.hit.Edge == nil {
		t.Errorf("midpoint hit = %+v, want the edge", m.hit)
	}

	m.cursor = geom.Pt(120, 300)
	m = m.probe()
	if !strings.Contains(m.View(), "nothing under the cursor") {
		t.Error("view does not report a miss")
	}

	before := m.cursor
	next, _ = m.Update(key("right"))
	if got := next.(probeModel).cursor; got.X <= before.X {
		t.Errorf("right moved cursor to %v", got)
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q does not quit")
	}
}
