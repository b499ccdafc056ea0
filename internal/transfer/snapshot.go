// Package transfer exports, imports and merges practice progress snapshots.
package transfer

import (
	"context"
	"time"

	"github.com/abhisek/pathwise/internal/practice"
)

// CurrentVersion is the snapshot version written by Exporter by default.
const CurrentVersion = 1

// Snapshot is a point-in-time bundle of learning items and attempts.
type Snapshot struct {
	Version    int
	ExportedAt time.Time
	Items      []practice.LearningItem
	Attempts   []practice.Attempt
}

// SnapshotStore reads and writes serialized snapshots.
type SnapshotStore interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}
