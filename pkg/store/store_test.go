package store

import (
	"context"
	"os"
	"testing"
	"time"

	cgerrors "github.com/matzehuels/cssgraph/pkg/errors"
	"github.com/matzehuels/cssgraph/pkg/geom"
	"github.com/matzehuels/cssgraph/pkg/graph"
)

func sampleRecord(ttl time.Duration) *Record {
	data := graph.Data{
		Nodes: []graph.NodeData{
			{ID: 0, Label: "Ada", Sublabel: "London", Width: 60, Height: 40},
			{ID: 1, Label: "Alan", Sublabel: "Wilmslow", Width: 60, Height: 40},
		},
		Edges: []graph.EdgeData{{Source: 1, Target: 0}},
	}
	l := graph.Layout{Algorithm: "radial", Positions: map[int]geom.Point{0: geom.Pt(0, 0), 1: geom.Pt(120, 40)}}
	return NewRecord(data, l, 7, ttl)
}

// backends returns the stores under test. Mongo joins when
// CSSGRAPH_TEST_MONGO names a server.
func backends(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	out := map[string]Store{"memory": NewMemoryStore(), "file": fs}
	if uri := os.Getenv("CSSGRAPH_TEST_MONGO"); uri != "" {
		ms, err := NewMongoStore(context.Background(), MongoConfig{URI: uri, Database: "cssgraph_test", Collection: "graphs"})
		if err != nil {
			t.Fatal(err)
		}
		out["mongo"] = ms
	}
	return out
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer st.Close(ctx)
			rec := sampleRecord(time.Hour)
			if err := st.Put(ctx, rec); err != nil {
				t.Fatal(err)
			}
			got, err := st.Get(ctx, rec.ID)
			if err != nil {
				t.Fatal(err)
			}
			if got.ID != rec.ID || got.Seed != 7 || len(got.Graph.Nodes) != 2 || got.Graph.Nodes[1].Sublabel != "Wilmslow" {
				t.Errorf("record = %+v", got)
			}
			if got.Layout.Positions[1] != geom.Pt(120, 40) {
				t.Errorf("layout position = %v", got.Layout.Positions[1])
			}

			rec.Seed = 8
			if err := st.Put(ctx, rec); err != nil {
				t.Fatal(err)
			}
			if got, _ := st.Get(ctx, rec.ID); got.Seed != 8 {
				t.Errorf("Put did not replace: seed %d", got.Seed)
			}

			if err := st.Delete(ctx, rec.ID); err != nil {
				t.Fatal(err)
			}
			if _, err := st.Get(ctx, rec.ID); err != ErrNotFound {
				t.Errorf("Get after Delete: %v", err)
			}
			if err := st.Delete(ctx, rec.ID); err != nil {
				t.Errorf("second Delete: %v", err)
			}
		})
	}
}

func TestStoreExpiry(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer st.Close(ctx)
			expired := sampleRecord(time.Hour)
			expired.ExpiresAt = time.Now().Add(-time.Minute)
			live := sampleRecord(0)
			_ = st.Put(ctx, expired)
			_ = st.Put(ctx, live)

			if _, err := st.Get(ctx, expired.ID); err != ErrNotFound {
				t.Errorf("expired record: err = %v", err)
			}
			n, err := st.Cleanup(ctx)
			if err != nil || n < 1 {
				t.Errorf("Cleanup() = %d, %v", n, err)
			}
			if _, err := st.Get(ctx, live.ID); err != nil {
				t.Errorf("live record lost: %v", err)
			}
			_ = st.Delete(ctx, live.ID)
		})
	}
}

func TestErrNotFoundCode(t *testing.T) {
	_, err := NewMemoryStore().Get(context.Background(), NewID())
	if !cgerrors.Is(err, cgerrors.ErrCodeNotFound) {
		t.Errorf("err = %v, want code %s", err, cgerrors.ErrCodeNotFound)
	}
}

func TestFileStoreRejectsBadIDs(t *testing.T) {
	fs, _ := NewFileStore(t.TempDir())
	if _, err := fs.Get(context.Background(), "../../etc/passwd"); !cgerrors.Is(err, cgerrors.ErrCodeInvalidID) {
		t.Errorf("err = %v, want %s", err, cgerrors.ErrCodeInvalidID)
	}
}

func TestNewRecord(t *testing.T) {
	rec := sampleRecord(0)
	if err := cgerrors.ValidateGraphID(rec.ID); err != nil {
		t.Errorf("id %q: %v", rec.ID, err)
	}
	if !rec.ExpiresAt.IsZero() || rec.IsExpired() {
		t.Error("zero ttl must never expire")
	}
	if sampleRecord(time.Hour).ID == rec.ID {
		t.Error("ids repeat")
	}
}
