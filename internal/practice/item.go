package practice

import (
	"fmt"
	"time"
)

// Status is the scheduling state of a learning item.
type Status string

const (
	StatusNew    Status = "new"
	StatusReview Status = "review"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusReview:
		return true
	}
	return false
}

// ParseStatus parses a status string. Unknown values return an error.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown item status %q", s)
	}
	return st, nil
}

// Outcome is the learner's response to a practiced item.
type Outcome string

const (
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
	OutcomeSkip      Outcome = "skip"
)

// Valid reports whether o is one of the known outcomes.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeCorrect, OutcomeIncorrect, OutcomeSkip:
		return true
	}
	return false
}

// ParseOutcome parses an outcome string. Unknown values return an error.
func ParseOutcome(s string) (Outcome, error) {
	o := Outcome(s)
	if !o.Valid() {
		return "", fmt.Errorf("unknown attempt outcome %q", s)
	}
	return o, nil
}

// LearningItem is a practice prompt with its spaced repetition state.
//
// A new item has no due time and review level 0. A review item always has
// DueAt set.
type LearningItem struct {
	ID              string     `json:"id"`
	Prompt          string     `json:"prompt"`
	Status          Status     `json:"status"`
	Order           int        `json:"order"`
	DueAt           *time.Time `json:"due_at"`
	ReviewLevel     int        `json:"review_level"`
	IntervalMinutes int        `json:"interval_minutes"`
}

// IsDue returns true if the item is in review and its due time is at or
// before now.
func (it LearningItem) IsDue(now time.Time) bool {
	return it.Status == StatusReview && it.DueAt != nil && !it.DueAt.After(now)
}

// WithSchedule returns a copy of the item with the scheduling fields
// replaced. Identity, prompt and order are carried over unchanged.
func (it LearningItem) WithSchedule(status Status, dueAt time.Time, level, intervalMinutes int) LearningItem {
	due := dueAt
	out := it
	out.Status = status
	out.DueAt = &due
	out.ReviewLevel = level
	out.IntervalMinutes = intervalMinutes
	return out
}

// Equal reports whether two items carry the same values. Due times are
// compared as instants.
func (it LearningItem) Equal(other LearningItem) bool {
	if it.ID != other.ID || it.Prompt != other.Prompt || it.Status != other.Status ||
		it.Order != other.Order || it.ReviewLevel != other.ReviewLevel ||
		it.IntervalMinutes != other.IntervalMinutes {
		return false
	}
	switch {
	case it.DueAt == nil && other.DueAt == nil:
		return true
	case it.DueAt == nil || other.DueAt == nil:
		return false
	}
	return it.DueAt.Equal(*other.DueAt)
}

// Attempt is an immutable record of one practice response.
type Attempt struct {
	ItemID    string    `json:"item_id"`
	Timestamp time.Time `json:"timestamp"`
	Outcome   Outcome   `json:"outcome"`
}

// AttemptKey identifies an attempt. Two attempts for the same item at the
// same instant are the same event.
type AttemptKey struct {
	ItemID string
	Sec    int64 // Unix seconds
	Nsec   int
}

// Key returns the attempt's identity key.
func (a Attempt) Key() AttemptKey {
	return AttemptKey{ItemID: a.ItemID, Sec: a.Timestamp.Unix(), Nsec: a.Timestamp.Nanosecond()}
}
