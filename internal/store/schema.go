package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// Table and column names shared by the repositories.
const (
	tableItems          = "items"
	tableAttempts       = "attempts"
	tableLessonProgress = "lesson_progress"
	tableCheckpoints    = "checkpoints"
	tableSessionEvents  = "session_events"
)

var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS items (
		id TEXT PRIMARY KEY,
		prompt TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'new',
		ord INTEGER NOT NULL DEFAULT 0,
		due_sec INTEGER,
		due_nsec INTEGER NOT NULL DEFAULT 0,
		review_level INTEGER NOT NULL DEFAULT 0,
		interval_minutes INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS attempts (
		item_id TEXT NOT NULL,
		ts_sec INTEGER NOT NULL,
		ts_nsec INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		PRIMARY KEY (item_id, ts_sec, ts_nsec)
	)`,
	`CREATE TABLE IF NOT EXISTS lesson_progress (
		user_id TEXT PRIMARY KEY,
		lesson_id TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		completed TEXT NOT NULL DEFAULT '[]',
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS checkpoints (
		slug TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_sec INTEGER NOT NULL,
		created_nsec INTEGER NOT NULL,
		data TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS session_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL,
		ts_sec INTEGER NOT NULL,
		ts_nsec INTEGER NOT NULL,
		session_id TEXT NOT NULL,
		user_id TEXT NOT NULL DEFAULT '',
		action TEXT NOT NULL,
		items_practiced INTEGER NOT NULL DEFAULT 0,
		correct_answers INTEGER NOT NULL DEFAULT 0,
		duration_secs INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS session_events_session_id ON session_events (session_id)`,
}

// migrate creates the tables if they don't exist yet.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	for _, stmt := range schemaDDL {
		if err := drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// execBuilt runs a statement produced by an ent SQL builder.
func execBuilt(ctx context.Context, drv *entsql.Driver, b entsql.Querier) (int64, error) {
	query, args := b.Query()
	var res entsql.Result
	if err := drv.Exec(ctx, query, args, &res); err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

// queryBuilt runs a select and calls scan for every row.
func queryBuilt(ctx context.Context, drv *entsql.Driver, sel *entsql.Selector, scan func(*entsql.Rows) error) error {
	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := drv.Query(ctx, query, args, rows); err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Instants are stored as Unix seconds plus nanoseconds. UnixNano only
// covers 1678 to 2262.
func splitTime(t time.Time) (sec, nsec int64) {
	return t.Unix(), int64(t.Nanosecond())
}

func joinTime(sec, nsec int64) time.Time {
	return time.Unix(sec, nsec).UTC()
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}
