package canvas

import (
	"testing"

	"github.com/matzehuels/cssgraph/pkg/geom"
)

func staticObstacles(paths ...*geom.Path) []ObstacleProvider {
	out := make([]ObstacleProvider, len(paths))
	for i, p := range paths {
		out[i] = obstacleFunc(func(*Context) *geom.Path { return p })
	}
	return out
}

func TestAddBridges(t *testing.T) {
	horizontal := geom.Polyline(geom.Pt(0, 50), geom.Pt(100, 50))
	vertical := geom.Polyline(geom.Pt(50, 0), geom.Pt(50, 100))

	tests := []struct {
		name   string
		policy CrossingPolicy
		style  BridgeStyle
		path   *geom.Path
		want   string
	}{
		{"GapOnHorizontal", HorizontalOverVertical, GapBridge, horizontal,
			"M 0 50 L 45 50 M 55 50 L 100 50"},
		{"VerticalUntouched", HorizontalOverVertical, GapBridge, vertical,
			"M 50 0 L 50 100"},
		{"RectangleOnVertical", VerticalOverHorizontal, RectangleBridge, vertical,
			"M 50 0 L 50 45 L 45 45 L 45 55 L 50 55 L 50 100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bm := NewBridgeManager()
			bm.Policy, bm.Style = tt.policy, tt.style
			bm.Refresh(nil, staticObstacles(horizontal, vertical))
			if got := bm.AddBridges(nil, tt.path).SVGData(); got != tt.want {
				t.Errorf("AddBridges = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddBridgesArc(t *testing.T) {
	bm := NewBridgeManager()
	bm.Style = ArcBridge
	horizontal := geom.Polyline(geom.Pt(0, 50), geom.Pt(100, 50))
	bm.Refresh(nil, staticObstacles(horizontal, geom.Polyline(geom.Pt(50, 0), geom.Pt(50, 100))))

	segs := bm.AddBridges(nil, horizontal).Segments()
	var arc *geom.Segment
	for i := range segs {
		if segs[i].Op == geom.CubicTo {
			arc = &segs[i]
		}
	}
	if arc == nil {
		t.Fatal("no arc inserted")
	}
	if arc.Pts[0].Y >= 50 {
		t.Errorf("arc bulges downwards: %v", arc.Pts)
	}
}

func TestAddBridgesIgnoresSharedEndpoints(t *testing.T) {
	a := geom.Polyline(geom.Pt(0, 0), geom.Pt(100, 0))
	b := geom.Polyline(geom.Pt(100, 0), geom.Pt(100, 100))
	bm := NewBridgeManager()
	bm.Refresh(nil, staticObstacles(a, b))
	if got := bm.AddBridges(nil, a); got != a {
		t.Errorf("touching paths bridged: %s", got.SVGData())
	}
}

func TestObstacleHash(t *testing.T) {
	p := geom.Polyline(geom.Pt(0, 0), geom.Pt(10, 10))
	bm := NewBridgeManager()

	bm.Refresh(nil, staticObstacles(p))
	h1 := bm.ObstacleHash(nil)
	bm.Refresh(nil, staticObstacles(p.Clone()))
	if h2 := bm.ObstacleHash(nil); h1 != h2 {
		t.Error("hash changed for identical obstacles")
	}
	bm.Refresh(nil, staticObstacles(geom.Polyline(geom.Pt(0, 0), geom.Pt(10, 11))))
	if h3 := bm.ObstacleHash(nil); h3 == h1 {
		t.Error("hash unchanged after obstacle moved")
	}
	if bm.ObstacleCount() != 1 {
		t.Errorf("obstacles = %d, want 1", bm.ObstacleCount())
	}
}

func TestParsePolicyAndStyle(t *testing.T) {
	if p, err := ParseCrossingPolicy("vertical"); err != nil || p != VerticalOverHorizontal {
		t.Errorf("ParseCrossingPolicy = %v, %v", p, err)
	}
	if _, err := ParseCrossingPolicy("diagonal"); err == nil {
		t.Error("expected error")
	}
	if s, err := ParseBridgeStyle("arc"); err != nil || s != ArcBridge {
		t.Errorf("ParseBridgeStyle = %v, %v", s, err)
	}
}
