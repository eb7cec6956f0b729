package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matzehuels/cssgraph/pkg/cache"
	"github.com/matzehuels/cssgraph/pkg/canvas"
	"github.com/matzehuels/cssgraph/pkg/config"
	cgerrors "github.com/matzehuels/cssgraph/pkg/errors"
	"github.com/matzehuels/cssgraph/pkg/geom"
	"github.com/matzehuels/cssgraph/pkg/graph"
	"github.com/matzehuels/cssgraph/pkg/store"
	"github.com/matzehuels/cssgraph/pkg/useragent"
)

const (
	safari11 = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_13_1) AppleWebKit/604.3.5 (KHTML, like Gecko) Version/11.0.1 Safari/604.3.5"
	chrome   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

func line(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	a, err := g.AddNode(graph.Tag{ID: 0, Label: "Ada"}, geom.R(0, 0, 40, 20))
	if err != nil {
		t.Fatal(err)
	}
	b, err := g.AddNode(graph.Tag{ID: 1, Label: "Bob"}, geom.R(0, 0, 40, 20))
	if err != nil {
		t.Fatal(err)
	}
	g.AddEdge(a, b)
	return g
}

func settings(t *testing.T, ua string) Settings {
	t.Helper()
	s, err := SettingsFromConfig(config.Default(), ua, nil)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestInitClassifiesBrowser(t *testing.T) {
	tests := []struct {
		name    string
		ua      string
		bad     bool
		want    string
		wantNot string
	}{
		{"Safari11", safari11, true, "matrix(", "marker-end"},
		{"Chrome", chrome, false, "marker-end", "matrix("},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := line(t)
			g.Node(1).Layout.X = 120
			sc, err := Init(g, settings(t, tt.ua))
			if err != nil {
				t.Fatal(err)
			}
			if sc.Profile.BadMarkerSupport != tt.bad || sc.Edges.BadMarkerSupport != tt.bad {
				t.Fatalf("bad marker support = %v/%v, want %v", sc.Profile.BadMarkerSupport, sc.Edges.BadMarkerSupport, tt.bad)
			}
			doc := sc.SVG()
			if !strings.Contains(doc, tt.want) {
				t.Errorf("svg misses %q", tt.want)
			}
			if strings.Contains(doc, tt.wantNot) {
				t.Errorf("svg unexpectedly contains %q", tt.wantNot)
			}
		})
	}
}

func TestSettingsUseClassifier(t *testing.T) {
	var seen []string
	classify := func(ua string) useragent.Profile {
		seen = append(seen, ua)
		return useragent.Profile{UserAgent: ua, BadMarkerSupport: true}
	}

	cfg := config.Default()
	cfg.Style.UserAgent = chrome
	s, err := SettingsFromConfig(cfg, "", classify)
	if err != nil {
		t.Fatal(err)
	}
	if len(seen) != 1 || seen[0] != chrome {
		t.Fatalf("classified %q, want the configured user agent once", seen)
	}

	// Init renders for the classified browser without classifying again.
	sc, err := Init(line(t), s)
	if err != nil {
		t.Fatal(err)
	}
	if len(seen) != 1 {
		t.Errorf("Init classified again: %q", seen)
	}
	if !sc.Edges.BadMarkerSupport || !strings.Contains(sc.SVG(), "matrix(") {
		t.Error("scene ignores the classified browser")
	}
}

func TestInitMarkerArrowsOff(t *testing.T) {
	s := settings(t, chrome)
	s.Style.MarkerArrows = false
	g := line(t)
	g.Node(1).Layout.X = 120
	sc, err := Init(g, s)
	if err != nil {
		t.Fatal(err)
	}
	if doc := sc.SVG(); strings.Contains(doc, "marker-end") || !strings.Contains(doc, "matrix(") {
		t.Error("marker arrows off must draw explicit arrows for every browser")
	}
}

func TestInitDefaultCSS(t *testing.T) {
	sc, err := Init(line(t), settings(t, chrome))
	if err != nil {
		t.Fatal(err)
	}
	if doc := sc.SVG(); !strings.Contains(doc, ".css-node-style") {
		t.Error("default stylesheet not embedded")
	}

	s := settings(t, chrome)
	s.CSS = ".custom{}"
	sc, err = Init(line(t), s)
	if err != nil {
		t.Fatal(err)
	}
	if doc := sc.SVG(); !strings.Contains(doc, ".custom{}") || strings.Contains(doc, ".css-node-style {") {
		t.Error("custom stylesheet not used")
	}
}

func TestInitBadBridgeSettings(t *testing.T) {
	s := settings(t, chrome)
	s.Bridges.Policy = "diagonal"
	if _, err := Init(line(t), s); err == nil {
		t.Error("Init accepted an unknown crossing policy")
	}
}

func TestMorph(t *testing.T) {
	g := line(t)
	sc, err := Init(g, settings(t, chrome))
	if err != nil {
		t.Fatal(err)
	}
	target := graph.Layout{Positions: map[int]geom.Point{0: geom.Pt(0, 0), 1: geom.Pt(200, 100)}}

	var frames []int
	var writes int
	err = sc.Morph(context.Background(), target, 5, func(frame int, muts []canvas.Mutation) error {
		frames = append(frames, frame)
		writes += len(muts)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 5 || frames[0] != 1 || frames[4] != 5 {
		t.Errorf("frames = %v, want 1..5", frames)
	}
	if writes == 0 {
		t.Error("morph produced no mutations")
	}
	if got := g.Node(1).Layout.TopLeft(); got != geom.Pt(200, 100) {
		t.Errorf("final position = %v, want (200,100)", got)
	}
}

func TestMorphStops(t *testing.T) {
	target := graph.Layout{Positions: map[int]geom.Point{1: geom.Pt(50, 50)}}

	sc, _ := Init(line(t), settings(t, chrome))
	boom := errors.New("boom")
	calls := 0
	err := sc.Morph(context.Background(), target, 10, func(int, []canvas.Mutation) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) || calls != 1 {
		t.Errorf("Morph = %v after %d calls, want boom after 1", err, calls)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sc, _ = Init(line(t), settings(t, chrome))
	if err := sc.Morph(ctx, target, 10, func(int, []canvas.Mutation) error { return nil }); !errors.Is(err, context.Canceled) {
		t.Errorf("Morph with canceled context = %v", err)
	}
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()

	c, err := OpenCache(ctx, config.Cache{Backend: config.BackendNone})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("none backend = %T", c)
	}

	dir := t.TempDir()
	c, err = OpenCache(ctx, config.Cache{Backend: config.BackendFile, Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if fc, ok := c.(*cache.FileCache); !ok || fc.Dir() != dir {
		t.Errorf("file backend = %T", c)
	}

	if _, err := OpenCache(ctx, config.Cache{Backend: "etcd"}); !cgerrors.Is(err, cgerrors.ErrCodeInvalidConfig) {
		t.Errorf("unknown backend error = %v", err)
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	s, err := OpenStore(ctx, config.Store{Backend: config.BackendMemory})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*store.MemoryStore); !ok {
		t.Errorf("memory backend = %T", s)
	}

	s, err = OpenStore(ctx, config.Store{Backend: config.BackendFile, Dir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*store.FileStore); !ok {
		t.Errorf("file backend = %T", s)
	}

	if _, err := OpenStore(ctx, config.Store{Backend: "sqlite"}); !cgerrors.Is(err, cgerrors.ErrCodeInvalidConfig) {
		t.Errorf("unknown backend error = %v", err)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := CacheDir(config.Cache{})
	if err != nil || dir != "/tmp/xdg/cssgraph" {
		t.Errorf("CacheDir = %q, %v", dir, err)
	}
	if dir, _ := CacheDir(config.Cache{Dir: "/var/c"}); dir != "/var/c" {
		t.Errorf("configured CacheDir = %q", dir)
	}
}
