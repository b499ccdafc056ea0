package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/pathwise/internal/practice"
)

// AttemptUpserter is implemented by repositories that can replace the
// outcome of an already recorded attempt.
type AttemptUpserter interface {
	UpsertAttempt(ctx context.Context, attempt practice.Attempt) error
}

// Exporter builds a snapshot of everything in a repository.
type Exporter struct {
	Repo    practice.Repository
	Clock   func() time.Time
	Version int
}

// NewExporter creates an Exporter writing CurrentVersion snapshots.
func NewExporter(repo practice.Repository, clock func() time.Time) *Exporter {
	return &Exporter{Repo: repo, Clock: clock, Version: CurrentVersion}
}

// Run returns a fresh snapshot of the repository.
func (e *Exporter) Run(ctx context.Context) (Snapshot, error) {
	items, err := e.Repo.ListItems(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list items: %w", err)
	}
	attempts, err := e.Repo.ListAttempts(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list attempts: %w", err)
	}

	clock := e.Clock
	if clock == nil {
		clock = time.Now
	}
	version := e.Version
	if version == 0 {
		version = CurrentVersion
	}

	return Snapshot{
		Version:    version,
		ExportedAt: clock(),
		Items:      items,
		Attempts:   attempts,
	}, nil
}

// Importer merges snapshots into a repository.
type Importer struct {
	Repo practice.Repository
}

// NewImporter creates an Importer over repo.
func NewImporter(repo practice.Repository) *Importer {
	return &Importer{Repo: repo}
}

// ImportResult reports what an import changed.
type ImportResult struct {
	Snapshot        Snapshot
	ItemsSaved      int
	AttemptsAdded   int
	AttemptsUpdated int
}

// Run merges snap into the repository and returns the merged state.
//
// Merged items that differ from the stored ones are saved. Attempts whose
// key is missing locally are recorded; attempts whose key exists with a different outcome are replaced
// when the repository supports it. The returned snapshot keeps the imported
// version and export time.
func (im *Importer) Run(ctx context.Context, snap Snapshot) (ImportResult, error) {
	items, err := im.Repo.ListItems(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("list items: %w", err)
	}
	attempts, err := im.Repo.ListAttempts(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("list attempts: %w", err)
	}

	mergedItems, mergedAttempts := Merge(items, attempts, snap)
	res := ImportResult{
		Snapshot: Snapshot{
			Version:    snap.Version,
			ExportedAt: snap.ExportedAt,
			Items:      mergedItems,
			Attempts:   mergedAttempts,
		},
	}

	local := make(map[string]practice.LearningItem, len(items))
	for _, it := range items {
		local[it.ID] = it
	}
	for _, it := range mergedItems {
		if prev, ok := local[it.ID]; ok && prev.Equal(it) {
			continue
		}
		if err := im.Repo.SaveItem(ctx, it); err != nil {
			return res, fmt.Errorf("save item %s: %w", it.ID, err)
		}
		res.ItemsSaved++
	}

	existing := make(map[practice.AttemptKey]practice.Outcome, len(attempts))
	for _, a := range attempts {
		existing[a.Key()] = a.Outcome
	}
	upserter, canUpsert := im.Repo.(AttemptUpserter)
	for _, a := range mergedAttempts {
		outcome, ok := existing[a.Key()]
		switch {
		case !ok:
			if err := im.Repo.RecordAttempt(ctx, a); err != nil {
				return res, fmt.Errorf("record attempt %s: %w", a.ItemID, err)
			}
			existing[a.Key()] = a.Outcome
			res.AttemptsAdded++
		case outcome != a.Outcome && canUpsert:
			if err := upserter.UpsertAttempt(ctx, a); err != nil {
				return res, fmt.Errorf("update attempt %s: %w", a.ItemID, err)
			}
			existing[a.Key()] = a.Outcome
			res.AttemptsUpdated++
		}
	}

	return res, nil
}
