// Package store persists generated graphs so the server can serve them under
// a stable URL.
//
// A [Record] holds the graph data, its final layout and the generator seed.
// Records may expire; expired records behave as missing.
//
// # Backends
//
//   - [MemoryStore]: process-local, for development and tests
//   - [FileStore]: one JSON file per record, for the CLI
//   - [MongoStore]: shared storage for server replicas
//
// # Usage
//
//	rec := store.NewRecord(graph.FromGraph(g), l, seed, store.DefaultTTL)
//	if err := st.Put(ctx, rec); err != nil {
//	    return err
//	}
//	rec, err := st.Get(ctx, rec.ID)
//	if errors.Is(err, store.ErrNotFound) {
//	    // unknown or expired
//	}
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/cssgraph/pkg/errors"
	"github.com/matzehuels/cssgraph/pkg/graph"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a record does not exist or has expired.
	ErrNotFound = errors.New(errors.ErrCodeNotFound, "graph not found")
)

// DefaultTTL is how long server-generated graphs are kept.
const DefaultTTL = 24 * time.Hour

// Record is a stored graph.
type Record struct {
	ID        string       `json:"id" bson:"_id"`
	Graph     graph.Data   `json:"graph" bson:"graph"`
	Layout    graph.Layout `json:"layout" bson:"layout"`
	Seed      uint64       `json:"seed" bson:"seed"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time    `json:"expires_at,omitzero" bson:"expires_at,omitempty"`
}

// NewRecord creates a record with a fresh id. A zero ttl never expires.
func NewRecord(data graph.Data, l graph.Layout, seed uint64, ttl time.Duration) *Record {
	now := time.Now().UTC()
	rec := &Record{
		ID:        NewID(),
		Graph:     data,
		Layout:    l,
		Seed:      seed,
		CreatedAt: now,
	}
	if ttl > 0 {
		rec.ExpiresAt = now.Add(ttl)
	}
	return rec
}

// IsExpired returns true if the record has an expiry in the past.
func (r *Record) IsExpired() bool {
	return !r.ExpiresAt.IsZero() && time.Now().After(r.ExpiresAt)
}

// NewID returns a random record id.
func NewID() string { return uuid.NewString() }

// Store is the interface for graph storage backends.
type Store interface {
	// Put inserts or replaces a record.
	Put(ctx context.Context, rec *Record) error

	// Get returns the record with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired records and returns how many were removed.
	Cleanup(ctx context.Context) (int, error)

	Close(ctx context.Context) error
}
