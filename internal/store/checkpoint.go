package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/pathwise/internal/transfer"
)

// Checkpoint is the metadata of a named snapshot. CreatedAt is the
// snapshot's export time.
type Checkpoint struct {
	Name        string
	Slug        string
	CreatedAt   time.Time
	Description string
}

// CheckpointRecord pairs checkpoint metadata with its snapshot.
type CheckpointRecord struct {
	Checkpoint
	Snapshot transfer.Snapshot
}

// CheckpointRepo stores named snapshots keyed by their slugified name.
type CheckpointRepo struct {
	drv *entsql.Driver
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Slugify turns a checkpoint name into its storage key: runs of
// non-alphanumeric characters become a single dash, and the result is
// trimmed and lowercased. An empty result becomes "checkpoint".
func Slugify(name string) string {
	s := nonAlnum.ReplaceAllString(strings.TrimSpace(name), "-")
	s = strings.ToLower(strings.Trim(s, "-"))
	if s == "" {
		return "checkpoint"
	}
	return s
}

// Save stores snap under name, replacing any checkpoint with the same slug.
func (r *CheckpointRepo) Save(ctx context.Context, name string, snap transfer.Snapshot, description string) (Checkpoint, error) {
	data, err := transfer.Encode(snap)
	if err != nil {
		return Checkpoint{}, fmt.Errorf("encode checkpoint %q: %w", name, err)
	}

	cp := Checkpoint{
		Name:        name,
		Slug:        Slugify(name),
		CreatedAt:   snap.ExportedAt.UTC(),
		Description: description,
	}
	sec, nsec := splitTime(cp.CreatedAt)
	ins := builder().Insert(tableCheckpoints).
		Columns("slug", "name", "description", "created_sec", "created_nsec", "data").
		Values(cp.Slug, cp.Name, cp.Description, sec, nsec, string(data)).
		OnConflict(entsql.ConflictColumns("slug"), entsql.ResolveWithNewValues())
	if _, err := execBuilt(ctx, r.drv, ins); err != nil {
		return Checkpoint{}, fmt.Errorf("save checkpoint %q: %w", name, err)
	}
	return cp, nil
}

// Load returns the checkpoint stored under name, or ErrNotFound.
func (r *CheckpointRepo) Load(ctx context.Context, name string) (CheckpointRecord, error) {
	slug := Slugify(name)
	sel := builder().Select("slug", "name", "description", "created_sec", "created_nsec", "data").
		From(entsql.Table(tableCheckpoints)).
		Where(entsql.EQ("slug", slug))

	var (
		rec   CheckpointRecord
		found bool
	)
	err := queryBuilt(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		var (
			sec, nsec int64
			data      string
		)
		if err := rows.Scan(&rec.Slug, &rec.Name, &rec.Description, &sec, &nsec, &data); err != nil {
			return err
		}
		rec.CreatedAt = joinTime(sec, nsec)
		rec.Snapshot = transfer.Decode([]byte(data))
		found = true
		return nil
	})
	if err != nil {
		return CheckpointRecord{}, fmt.Errorf("load checkpoint %q: %w", name, err)
	}
	if !found {
		return CheckpointRecord{}, fmt.Errorf("checkpoint %q: %w", name, ErrNotFound)
	}
	return rec, nil
}

// List returns checkpoint metadata sorted by slug.
func (r *CheckpointRepo) List(ctx context.Context) ([]Checkpoint, error) {
	sel := builder().Select("slug", "name", "description", "created_sec", "created_nsec").
		From(entsql.Table(tableCheckpoints)).
		OrderBy("slug")
	return r.scanList(ctx, sel)
}

// Delete removes the checkpoint stored under name. Deleting a missing
// checkpoint is not an error.
func (r *CheckpointRepo) Delete(ctx context.Context, name string) error {
	del := builder().Delete(tableCheckpoints).Where(entsql.EQ("slug", Slugify(name)))
	if _, err := execBuilt(ctx, r.drv, del); err != nil {
		return fmt.Errorf("delete checkpoint %q: %w", name, err)
	}
	return nil
}

// Prune deletes all but the keep most recent checkpoints and returns the
// number removed.
func (r *CheckpointRepo) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		return 0, fmt.Errorf("prune checkpoints: keep must be >= 0, got %d", keep)
	}

	sel := builder().Select("slug", "name", "description", "created_sec", "created_nsec").
		From(entsql.Table(tableCheckpoints)).
		OrderBy(entsql.Desc("created_sec"), entsql.Desc("created_nsec"), entsql.Desc("slug"))
	all, err := r.scanList(ctx, sel)
	if err != nil {
		return 0, err
	}
	if len(all) <= keep {
		return 0, nil // fewer than keep checkpoints exist
	}

	stale := make([]any, 0, len(all)-keep)
	for _, cp := range all[keep:] {
		stale = append(stale, cp.Slug)
	}
	del := builder().Delete(tableCheckpoints).Where(entsql.In("slug", stale...))
	n, err := execBuilt(ctx, r.drv, del)
	if err != nil {
		return 0, fmt.Errorf("prune checkpoints: %w", err)
	}
	return int(n), nil
}

// Store returns a SnapshotStore reading and writing the named checkpoint.
func (r *CheckpointRepo) Store(name, description string) transfer.SnapshotStore {
	return &checkpointSnapshots{repo: r, name: name, description: description}
}

func (r *CheckpointRepo) scanList(ctx context.Context, sel *entsql.Selector) ([]Checkpoint, error) {
	var out []Checkpoint
	err := queryBuilt(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		var (
			cp        Checkpoint
			sec, nsec int64
		)
		if err := rows.Scan(&cp.Slug, &cp.Name, &cp.Description, &sec, &nsec); err != nil {
			return err
		}
		cp.CreatedAt = joinTime(sec, nsec)
		out = append(out, cp)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	return out, nil
}

// checkpointSnapshots adapts one named checkpoint to transfer.SnapshotStore.
type checkpointSnapshots struct {
	repo        *CheckpointRepo
	name        string
	description string
}

func (c *checkpointSnapshots) Load(ctx context.Context) (transfer.Snapshot, error) {
	rec, err := c.repo.Load(ctx, c.name)
	if err != nil {
		return transfer.Snapshot{}, err
	}
	return rec.Snapshot, nil
}

func (c *checkpointSnapshots) Save(ctx context.Context, snap transfer.Snapshot) error {
	_, err := c.repo.Save(ctx, c.name, snap, c.description)
	return err
}
