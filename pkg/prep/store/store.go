// Package store defines the dataset catalog: prepared posts and run
// manifests persisted for the downstream analysis collaborators.
package store

import (
	"context"
	crand "crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Store is the interface for persisting and querying prepared datasets
type Store interface {
	Close() error

	// Runs
	RecordRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	// Posts
	InsertPosts(ctx context.Context, posts []Post) error
	CountPosts(ctx context.Context) (int64, error)
	PostsByLabel(ctx context.Context, label string, limit int) ([]Post, error)
}

// Run is one preparation run's manifest: what was produced and how many
// rows each deduplication stage removed.
type Run struct {
	ID            string
	Kind          string // "reddit" or "twitter"
	Source        string
	OutputPath    string
	Rows          int
	RemovedByID   int
	RemovedByText int
	CreatedAt     time.Time
}

// Post is one prepared record as stored in the catalog.
type Post struct {
	RunID    string
	Key      string // primary-key value when the source had one
	Label    string
	Date     string
	Text     string
	Hashtags []string
}

var entropy = ulid.Monotonic(crand.Reader, 0)

// NewRunID returns a fresh, sortable run identifier.
func NewRunID() string {
	return ulid.MustNew(ulid.Now(), entropy).String()
}
