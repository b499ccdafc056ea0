package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/pathwise/internal/practice"
)

var itemColumns = []string{"id", "prompt", "status", "ord", "due_sec", "due_nsec", "review_level", "interval_minutes"}

// PracticeRepo stores learning items and attempts in SQLite.
type PracticeRepo struct {
	drv *entsql.Driver
}

var _ practice.Repository = (*PracticeRepo)(nil)

func (r *PracticeRepo) ListItems(ctx context.Context) ([]practice.LearningItem, error) {
	sel := builder().Select(itemColumns...).
		From(entsql.Table(tableItems)).
		OrderBy("ord", "id")

	var items []practice.LearningItem
	err := queryBuilt(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		var (
			it     practice.LearningItem
			status string
			dueSec sql.NullInt64
			dueNs  int64
		)
		if err := rows.Scan(&it.ID, &it.Prompt, &status, &it.Order, &dueSec, &dueNs, &it.ReviewLevel, &it.IntervalMinutes); err != nil {
			return err
		}
		s, err := practice.ParseStatus(status)
		if err != nil {
			return fmt.Errorf("item %s: %w", it.ID, err)
		}
		it.Status = s
		if dueSec.Valid {
			t := joinTime(dueSec.Int64, dueNs)
			it.DueAt = &t
		}
		items = append(items, it)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// SaveItem inserts the item or replaces the stored item with the same ID.
func (r *PracticeRepo) SaveItem(ctx context.Context, item practice.LearningItem) error {
	ins := itemInsert(item).OnConflict(
		entsql.ConflictColumns("id"),
		entsql.ResolveWithNewValues(),
	)
	if _, err := execBuilt(ctx, r.drv, ins); err != nil {
		return fmt.Errorf("save item %s: %w", item.ID, err)
	}
	return nil
}

// SeedItems inserts items whose ID is not stored yet and leaves existing
// items untouched. It returns the number of items inserted.
func (r *PracticeRepo) SeedItems(ctx context.Context, items []practice.LearningItem) (int, error) {
	var inserted int
	for _, it := range items {
		ins := itemInsert(it).OnConflict(
			entsql.ConflictColumns("id"),
			entsql.DoNothing(),
		)
		n, err := execBuilt(ctx, r.drv, ins)
		if err != nil {
			return inserted, fmt.Errorf("seed item %s: %w", it.ID, err)
		}
		inserted += int(n)
	}
	return inserted, nil
}

func itemInsert(it practice.LearningItem) *entsql.InsertBuilder {
	var (
		dueSec any
		dueNs  int64
	)
	if it.DueAt != nil {
		dueSec, dueNs = splitTime(*it.DueAt)
	}
	return builder().Insert(tableItems).
		Columns(itemColumns...).
		Values(it.ID, it.Prompt, string(it.Status), it.Order, dueSec, dueNs, it.ReviewLevel, it.IntervalMinutes)
}

// ListAttempts returns all attempts ordered by timestamp then item ID.
func (r *PracticeRepo) ListAttempts(ctx context.Context) ([]practice.Attempt, error) {
	sel := builder().Select("item_id", "ts_sec", "ts_nsec", "outcome").
		From(entsql.Table(tableAttempts)).
		OrderBy("ts_sec", "ts_nsec", "item_id")

	var attempts []practice.Attempt
	err := queryBuilt(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		var (
			a       practice.Attempt
			sec     int64
			nsec    int64
			outcome string
		)
		if err := rows.Scan(&a.ItemID, &sec, &nsec, &outcome); err != nil {
			return err
		}
		o, err := practice.ParseOutcome(outcome)
		if err != nil {
			return fmt.Errorf("attempt %s@%d: %w", a.ItemID, sec, err)
		}
		a.Timestamp = joinTime(sec, nsec)
		a.Outcome = o
		attempts = append(attempts, a)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	return attempts, nil
}

// RecordAttempt appends an attempt. Recording an attempt whose key is
// already stored is a no-op.
func (r *PracticeRepo) RecordAttempt(ctx context.Context, attempt practice.Attempt) error {
	ins := attemptInsert(attempt).OnConflict(
		entsql.ConflictColumns("item_id", "ts_sec", "ts_nsec"),
		entsql.DoNothing(),
	)
	if _, err := execBuilt(ctx, r.drv, ins); err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	return nil
}

// UpsertAttempt records the attempt, replacing the outcome of a stored
// attempt with the same key.
func (r *PracticeRepo) UpsertAttempt(ctx context.Context, attempt practice.Attempt) error {
	ins := attemptInsert(attempt).OnConflict(
		entsql.ConflictColumns("item_id", "ts_sec", "ts_nsec"),
		entsql.ResolveWithNewValues(),
	)
	if _, err := execBuilt(ctx, r.drv, ins); err != nil {
		return fmt.Errorf("upsert attempt: %w", err)
	}
	return nil
}

func attemptInsert(a practice.Attempt) *entsql.InsertBuilder {
	sec, nsec := splitTime(a.Timestamp)
	return builder().Insert(tableAttempts).
		Columns("item_id", "ts_sec", "ts_nsec", "outcome").
		Values(a.ItemID, sec, nsec, string(a.Outcome))
}
