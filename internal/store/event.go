package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// Session event actions.
const (
	ActionStart = "start"
	ActionEnd   = "end"
)

// SessionEventData captures one practice session lifecycle event.
type SessionEventData struct {
	SessionID      string
	UserID         string
	Action         string
	ItemsPracticed int
	CorrectAnswers int
	DurationSecs   int
}

// SessionEvent is a stored session event.
type SessionEvent struct {
	SessionEventData
	Sequence  int64
	Timestamp time.Time
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int    // max results (0 = unlimited)
	After     int64  // sequence > After
	SessionID string // only events of this session
	UserID    string // only events of this user
}

// EventRepo is the append-only session event log.
type EventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
	now func() time.Time
}

// WithClock returns a copy of the repo that timestamps events with now.
func (r *EventRepo) WithClock(now func() time.Time) *EventRepo {
	c := *r
	c.now = now
	return &c
}

// AppendSessionEvent records a session event with the next global sequence.
func (r *EventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	now := time.Now
	if r.now != nil {
		now = r.now
	}
	sec, nsec := splitTime(now())
	ins := builder().Insert(tableSessionEvents).
		Columns("sequence", "ts_sec", "ts_nsec", "session_id", "user_id", "action", "items_practiced", "correct_answers", "duration_secs").
		Values(seqNum, sec, nsec, data.SessionID, data.UserID, data.Action,
			data.ItemsPracticed, data.CorrectAnswers, data.DurationSecs)
	if _, err := execBuilt(ctx, r.drv, ins); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

// SessionEvents returns events in sequence order.
func (r *EventRepo) SessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEvent, error) {
	sel := builder().Select("sequence", "ts_sec", "ts_nsec", "session_id", "user_id", "action",
		"items_practiced", "correct_answers", "duration_secs").
		From(entsql.Table(tableSessionEvents)).
		OrderBy("sequence")

	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.SessionID != "" {
		preds = append(preds, entsql.EQ("session_id", opts.SessionID))
	}
	if opts.UserID != "" {
		preds = append(preds, entsql.EQ("user_id", opts.UserID))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	var events []SessionEvent
	err := queryBuilt(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		var (
			e         SessionEvent
			sec, nsec int64
		)
		if err := rows.Scan(&e.Sequence, &sec, &nsec, &e.SessionID, &e.UserID, &e.Action,
			&e.ItemsPracticed, &e.CorrectAnswers, &e.DurationSecs); err != nil {
			return err
		}
		e.Timestamp = joinTime(sec, nsec)
		events = append(events, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	return events, nil
}

// sequenceCounter manages the global monotonic sequence number assigned to
// every logged event. The mutex serializes within the process; the
// RETURNING clause makes the increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
