package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/abhisek/pathwise/internal/practice"
)

// Messages written by the Runner.
const (
	MsgStart           = "Starting practice session."
	MsgComplete        = "No due review or new items available. Session complete."
	MsgEnded           = "Session ended by user."
	MsgInvalidResponse = "Invalid response. Use: correct/c, incorrect/i, skip/s, or quit/q."
)

// IO is the learner-facing side of a session.
type IO interface {
	WriteLine(line string)
	ReadOutcome(item practice.LearningItem) (string, error)
}

// ParseResponse maps a learner response to an outcome. quit is true for
// quit/q. ok is false when the response is not recognized.
func ParseResponse(s string) (outcome practice.Outcome, quit, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quit", "q":
		return "", true, true
	case "correct", "c":
		return practice.OutcomeCorrect, false, true
	case "incorrect", "i":
		return practice.OutcomeIncorrect, false, true
	case "skip", "s":
		return practice.OutcomeSkip, false, true
	}
	return "", false, false
}

// Runner runs a practice session until the learner quits or nothing is
// left to practice.
type Runner struct {
	Repo   practice.Repository
	IO     IO
	Clock  func() time.Time
	Events EventLogger
	UserID string
}

// Run executes practice rounds and returns the session summary.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	t := NewTracker(r.Repo, r.Clock, r.Events, r.UserID)
	t.Start(ctx)

	r.IO.WriteLine(MsgStart)
	for {
		if err := ctx.Err(); err != nil {
			return t.Finish(ctx), err
		}

		item, now, ok, err := t.Next(ctx)
		if err != nil {
			return t.Finish(ctx), err
		}
		if !ok {
			r.IO.WriteLine(MsgComplete)
			return t.Finish(ctx), nil
		}

		r.IO.WriteLine(fmt.Sprintf("Activity %s: %s", item.ID, item.Prompt))
		outcome, quit, err := r.readOutcome(item)
		if err != nil {
			return t.Finish(ctx), err
		}
		if quit {
			r.IO.WriteLine(MsgEnded)
			return t.Finish(ctx), nil
		}

		if err := t.Record(ctx, item, outcome, now); err != nil {
			return t.Finish(ctx), fmt.Errorf("record %s: %w", item.ID, err)
		}
		r.IO.WriteLine(fmt.Sprintf("Recorded: %s for %s.", outcome, item.ID))
	}
}

// readOutcome prompts until the learner gives a valid response. End of
// input counts as quit.
func (r *Runner) readOutcome(item practice.LearningItem) (practice.Outcome, bool, error) {
	for {
		resp, err := r.IO.ReadOutcome(item)
		if errors.Is(err, io.EOF) {
			return "", true, nil
		}
		if err != nil {
			return "", false, fmt.Errorf("read outcome: %w", err)
		}

		outcome, quit, ok := ParseResponse(resp)
		if ok {
			return outcome, quit, nil
		}
		r.IO.WriteLine(MsgInvalidResponse)
	}
}
