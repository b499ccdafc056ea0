package checkpoint

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/store"
	"github.com/abhisek/pathwise/internal/transfer"
	"github.com/abhisek/pathwise/internal/ui/components"
	"github.com/abhisek/pathwise/internal/ui/layout"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

// Repo is the checkpoint storage used by the screen.
type Repo interface {
	Save(ctx context.Context, name string, snap transfer.Snapshot, description string) (store.Checkpoint, error)
	List(ctx context.Context) ([]store.Checkpoint, error)
}

// listedMsg carries the stored checkpoints.
type listedMsg struct {
	Checkpoints []store.Checkpoint
	Err         error
}

// savedMsg confirms a checkpoint was written.
type savedMsg struct {
	Checkpoint store.Checkpoint
	Err        error
}

// CheckpointScreen saves the current progress under a name.
type CheckpointScreen struct {
	exporter *transfer.Exporter
	repo     Repo

	input  components.TextInput
	list   []store.Checkpoint
	status string
	err    error
	saving bool
}

var _ screen.Screen = (*CheckpointScreen)(nil)
var _ screen.KeyHintProvider = (*CheckpointScreen)(nil)

// New creates a CheckpointScreen.
func New(exporter *transfer.Exporter, repo Repo) *CheckpointScreen {
	return &CheckpointScreen{
		exporter: exporter,
		repo:     repo,
		input:    components.NewTextInput("checkpoint name, e.g. week 1", 64),
	}
}

func (s *CheckpointScreen) Init() tea.Cmd {
	return tea.Batch(s.input.Init(), s.refresh())
}

func (s *CheckpointScreen) Title() string {
	return "Checkpoints"
}

func (s *CheckpointScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Save"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *CheckpointScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case listedMsg:
		if msg.Err != nil {
			s.err = msg.Err
			return s, nil
		}
		s.list = msg.Checkpoints
		return s, nil

	case savedMsg:
		s.saving = false
		if msg.Err != nil {
			s.err = msg.Err
			s.input.Submit(false)
			return s, nil
		}
		s.err = nil
		s.status = fmt.Sprintf("Saved checkpoint %q as %s.", msg.Checkpoint.Name, msg.Checkpoint.Slug)
		s.input.Reset()
		s.input.Submit(true)
		return s, s.refresh()

	case tea.KeyMsg:
		if msg.String() == "enter" {
			return s, s.save()
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *CheckpointScreen) save() tea.Cmd {
	name := s.input.Value()
	if name == "" || s.saving {
		s.input.Submit(false)
		return nil
	}
	s.saving = true
	return func() tea.Msg {
		ctx := context.Background()
		snap, err := s.exporter.Run(ctx)
		if err != nil {
			return savedMsg{Err: err}
		}
		cp, err := s.repo.Save(ctx, name, snap, "")
		return savedMsg{Checkpoint: cp, Err: err}
	}
}

func (s *CheckpointScreen) refresh() tea.Cmd {
	return func() tea.Msg {
		list, err := s.repo.List(context.Background())
		return listedMsg{Checkpoints: list, Err: err}
	}
}

func (s *CheckpointScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("Save a checkpoint"))
	b.WriteString("\n\n")
	b.WriteString(s.input.View())
	b.WriteString("\n\n")

	switch {
	case s.err != nil:
		b.WriteString(theme.Incorrect.Render("Error: " + s.err.Error()))
		b.WriteString("\n\n")
	case s.status != "":
		b.WriteString(theme.Correct.Render(s.status))
		b.WriteString("\n\n")
	}

	b.WriteString(theme.Subtitle.Render("Stored checkpoints"))
	b.WriteString("\n")
	if len(s.list) == 0 {
		b.WriteString(theme.Hint.Render("  none yet"))
		b.WriteString("\n")
	}
	for _, cp := range s.list {
		line := fmt.Sprintf("  %-20s %s", cp.Slug, cp.CreatedAt.Local().Format("2006-01-02 15:04"))
		if cp.Description != "" {
			line += "  " + cp.Description
		}
		b.WriteString(theme.Body.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
