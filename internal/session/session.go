// Package session runs practice sessions over a practice repository.
package session

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/pathwise/internal/practice"
	"github.com/abhisek/pathwise/internal/store"
)

// EventLogger receives session lifecycle events.
type EventLogger interface {
	AppendSessionEvent(ctx context.Context, data store.SessionEventData) error
}

// Summary holds the counts of a finished or running session.
type Summary struct {
	SessionID string
	Practiced int
	Correct   int
	Incorrect int
	Skipped   int
	Duration  time.Duration
}

// Accuracy returns the share of correct answers among practiced items.
func (s Summary) Accuracy() float64 {
	if s.Practiced == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Practiced)
}

// Tracker drives one practice session step by step. It is shared by the
// line-based Runner and the TUI practice screen.
type Tracker struct {
	repo    practice.Repository
	clock   func() time.Time
	events  EventLogger
	userID  string
	id      string
	started time.Time
	summary Summary
	done    bool
}

// NewTracker creates a tracker with a fresh session ID. clock defaults to
// time.Now; events may be nil.
func NewTracker(repo practice.Repository, clock func() time.Time, events EventLogger, userID string) *Tracker {
	if clock == nil {
		clock = time.Now
	}
	id := uuid.New().String()
	return &Tracker{
		repo:    repo,
		clock:   clock,
		events:  events,
		userID:  userID,
		id:      id,
		summary: Summary{SessionID: id},
	}
}

// ID returns the session ID.
func (t *Tracker) ID() string { return t.id }

// Summary returns the counts recorded so far.
func (t *Tracker) Summary() Summary { return t.summary }

// Start logs the session start event.
func (t *Tracker) Start(ctx context.Context) {
	t.started = t.clock()
	t.log(ctx, store.ActionStart)
}

// Next returns the item to practice at the current clock time. ok is false
// when nothing is due and no new items remain.
func (t *Tracker) Next(ctx context.Context) (item practice.LearningItem, now time.Time, ok bool, err error) {
	now = t.clock()
	items, err := t.repo.ListItems(ctx)
	if err != nil {
		return practice.LearningItem{}, now, false, fmt.Errorf("load items: %w", err)
	}
	item, ok = practice.SelectNextItem(items, now)
	return item, now, ok, nil
}

// Record persists the outcome and counts it in the summary.
func (t *Tracker) Record(ctx context.Context, item practice.LearningItem, outcome practice.Outcome, now time.Time) error {
	if err := t.Persist(ctx, item, outcome, now); err != nil {
		return err
	}
	t.Tally(outcome)
	return nil
}

// Persist stores the attempt for item at now and saves the rescheduled item
// when the outcome changed it. It only touches the repository, so it may run
// off the goroutine that owns the tracker.
func (t *Tracker) Persist(ctx context.Context, item practice.LearningItem, outcome practice.Outcome, now time.Time) error {
	err := t.repo.RecordAttempt(ctx, practice.Attempt{ItemID: item.ID, Timestamp: now, Outcome: outcome})
	if err != nil {
		return err
	}

	updated := practice.UpdateSchedule(item, outcome, now)
	if !updated.Equal(item) {
		if err := t.repo.SaveItem(ctx, updated); err != nil {
			return err
		}
	}
	return nil
}

// Tally counts a persisted outcome in the summary. Calls after Finish are
// ignored.
func (t *Tracker) Tally(outcome practice.Outcome) {
	if t.done {
		return
	}
	t.summary.Practiced++
	switch outcome {
	case practice.OutcomeCorrect:
		t.summary.Correct++
	case practice.OutcomeIncorrect:
		t.summary.Incorrect++
	case practice.OutcomeSkip:
		t.summary.Skipped++
	}
}

// Finish logs the session end event once and returns the final summary.
func (t *Tracker) Finish(ctx context.Context) Summary {
	if t.done {
		return t.summary
	}
	t.done = true
	if !t.started.IsZero() {
		t.summary.Duration = t.clock().Sub(t.started)
	}
	t.log(ctx, store.ActionEnd)
	return t.summary
}

// log writes an event. Logging failures never end a session.
func (t *Tracker) log(ctx context.Context, action string) {
	if t.events == nil {
		return
	}
	err := t.events.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID:      t.id,
		UserID:         t.userID,
		Action:         action,
		ItemsPracticed: t.summary.Practiced,
		CorrectAnswers: t.summary.Correct,
		DurationSecs:   int(t.summary.Duration.Seconds()),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log session %s event: %v\n", action, err)
	}
}
