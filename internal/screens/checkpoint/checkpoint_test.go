package checkpoint

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pathwise/internal/practice"
	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/store"
	"github.com/abhisek/pathwise/internal/store/memstore"
	"github.com/abhisek/pathwise/internal/transfer"
)

var now = time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

func newTestScreen(t *testing.T) (*CheckpointScreen, *store.CheckpointRepo) {
	t.Helper()
	st, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	repo := memstore.NewPracticeRepo([]practice.LearningItem{
		{ID: "variables-review", Prompt: "What is a variable?", Status: practice.StatusNew, Order: 1},
	})
	exp := transfer.NewExporter(repo, func() time.Time { return now })
	cps := st.CheckpointRepo()
	return New(exp, cps), cps
}

func typeText(s screen.Screen, text string) screen.Screen {
	for _, r := range text {
		s, _ = s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return s
}

// run executes cmd and feeds data messages back to the screen.
func run(s screen.Screen, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case listedMsg, savedMsg:
		_, next := s.Update(msg)
		run(s, next)
	}
}

func TestSaveCheckpoint(t *testing.T) {
	s, cps := newTestScreen(t)
	run(s, s.refresh())
	if !strings.Contains(s.View(80, 24), "none yet") {
		t.Error("expected empty list")
	}

	typeText(s, "Week 1")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected save command")
	}
	run(s, cmd)

	view := s.View(80, 24)
	if !strings.Contains(view, `Saved checkpoint "Week 1" as week-1.`) {
		t.Errorf("missing status line:\n%s", view)
	}
	if !strings.Contains(view, "week-1") {
		t.Errorf("list not refreshed:\n%s", view)
	}
	if s.input.Value() != "" {
		t.Error("input should be cleared after save")
	}

	rec, err := cps.Load(context.Background(), "week 1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !rec.CreatedAt.Equal(now) || len(rec.Snapshot.Items) != 1 {
		t.Errorf("stored checkpoint = %+v", rec)
	}
}

func TestEmptyNameIsRejected(t *testing.T) {
	s, cps := newTestScreen(t)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("empty name must not save")
	}
	list, err := cps.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("checkpoints = %d, want 0", len(list))
	}
}
