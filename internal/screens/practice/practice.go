package practice

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	pr "github.com/abhisek/pathwise/internal/practice"
	"github.com/abhisek/pathwise/internal/router"
	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/screens/summary"
	"github.com/abhisek/pathwise/internal/session"
	"github.com/abhisek/pathwise/internal/ui/layout"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

// nextItemMsg carries the item selected for the current round.
type nextItemMsg struct {
	Item pr.LearningItem
	Now  time.Time
	OK   bool
	Err  error
}

// recordedMsg confirms an outcome was persisted.
type recordedMsg struct {
	ItemID  string
	Outcome pr.Outcome
	Err     error
}

// PracticeScreen runs a practice session one item at a time.
type PracticeScreen struct {
	tracker *session.Tracker

	item    pr.LearningItem
	now     time.Time
	loaded  bool
	saving  bool
	leaving bool // end the session once the pending save lands
	last    string
	invalid bool
	err     error
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.BackHandler = (*PracticeScreen)(nil)

// New creates a PracticeScreen for the tracker's session.
func New(tracker *session.Tracker) *PracticeScreen {
	return &PracticeScreen{tracker: tracker}
}

func (s *PracticeScreen) Init() tea.Cmd {
	s.tracker.Start(context.Background())
	return s.loadNext()
}

func (s *PracticeScreen) Title() string {
	return "Practice"
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "c", Description: "Correct"},
		{Key: "i", Description: "Incorrect"},
		{Key: "s", Description: "Skip"},
		{Key: "q", Description: "End session"},
	}
}

// Back ends the session and shows its summary. While an outcome is being
// saved the session ends after the save completes.
func (s *PracticeScreen) Back() tea.Cmd {
	if s.saving {
		s.leaving = true
		return nil
	}
	return s.finish(session.MsgEnded)
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case nextItemMsg:
		if msg.Err != nil {
			s.err = msg.Err
			return s, nil
		}
		if !msg.OK {
			return s, s.finish(session.MsgComplete)
		}
		s.item, s.now, s.loaded = msg.Item, msg.Now, true
		return s, nil

	case recordedMsg:
		s.saving = false
		if msg.Err != nil {
			s.err = msg.Err
			if s.leaving {
				return s, s.finish(session.MsgEnded)
			}
			return s, nil
		}
		s.tracker.Tally(msg.Outcome)
		s.last = fmt.Sprintf("Recorded: %s for %s.", msg.Outcome, msg.ItemID)
		if s.leaving {
			return s, s.finish(session.MsgEnded)
		}
		return s, s.loadNext()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.err != nil {
		return s, s.finish(session.MsgEnded)
	}
	if !s.loaded || s.saving {
		return s, nil
	}

	outcome, quit, ok := session.ParseResponse(msg.String())
	switch {
	case quit:
		return s, s.finish(session.MsgEnded)
	case !ok:
		s.invalid = true
		return s, nil
	}

	s.invalid = false
	s.saving = true
	item, now := s.item, s.now
	return s, func() tea.Msg {
		err := s.tracker.Persist(context.Background(), item, outcome, now)
		return recordedMsg{ItemID: item.ID, Outcome: outcome, Err: err}
	}
}

func (s *PracticeScreen) loadNext() tea.Cmd {
	s.loaded = false
	return func() tea.Msg {
		item, now, ok, err := s.tracker.Next(context.Background())
		return nextItemMsg{Item: item, Now: now, OK: ok, Err: err}
	}
}

// finish logs the end of the session and swaps in the summary screen.
func (s *PracticeScreen) finish(reason string) tea.Cmd {
	sum := s.tracker.Finish(context.Background())
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(sum, reason)}
	}
}

func (s *PracticeScreen) View(width, height int) string {
	var b strings.Builder

	if s.err != nil {
		b.WriteString(theme.Incorrect.Render("Error: " + s.err.Error()))
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("Press any key to end the session."))
		return b.String()
	}

	if !s.loaded {
		b.WriteString(theme.Hint.Render("Loading..."))
		return b.String()
	}

	sum := s.tracker.Summary()
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Practiced %d   Correct %d", sum.Practiced, sum.Correct)))
	b.WriteString("\n\n")

	status := theme.Pending.Render("new")
	if s.item.Status == pr.StatusReview {
		status = theme.Due.Render(fmt.Sprintf("review · level %d", s.item.ReviewLevel))
	}
	card := theme.Title.Render("Activity "+s.item.ID) + "  " + status + "\n\n" +
		theme.Body.Render(s.item.Prompt)
	b.WriteString(theme.Card.Width(min(width-4, 72)).Render(card))
	b.WriteString("\n\n")

	b.WriteString(theme.Hint.Render("How did it go? [c]orrect  [i]ncorrect  [s]kip  [q]uit"))
	b.WriteString("\n")
	if s.invalid {
		b.WriteString(theme.Incorrect.Render(session.MsgInvalidResponse))
		b.WriteString("\n")
	}
	if s.last != "" {
		b.WriteString(theme.Correct.Render(s.last))
		b.WriteString("\n")
	}
	return b.String()
}
