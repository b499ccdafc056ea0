package progress

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pathwise/internal/learnpath"
	"github.com/abhisek/pathwise/internal/practice"
	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/ui/components"
	"github.com/abhisek/pathwise/internal/ui/layout"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

// loadedMsg carries the data shown on the screen.
type loadedMsg struct {
	Done  map[string]bool
	Items []practice.LearningItem
	Now   time.Time
	Err   error
}

// ProgressScreen lists lesson completion and the practice schedule.
type ProgressScreen struct {
	userID   string
	path     *learnpath.Path
	progress *learnpath.Service
	repo     practice.Repository
	clock    func() time.Time

	data   *loadedMsg
	scroll int
}

var _ screen.Screen = (*ProgressScreen)(nil)
var _ screen.KeyHintProvider = (*ProgressScreen)(nil)

// New creates a ProgressScreen. clock defaults to time.Now.
func New(userID string, path *learnpath.Path, progress *learnpath.Service, repo practice.Repository, clock func() time.Time) *ProgressScreen {
	if clock == nil {
		clock = time.Now
	}
	return &ProgressScreen{userID: userID, path: path, progress: progress, repo: repo, clock: clock}
}

func (s *ProgressScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		done, err := s.progress.CompletedIDs(ctx, s.userID)
		if err != nil {
			return loadedMsg{Err: err}
		}
		items, err := s.repo.ListItems(ctx)
		if err != nil {
			return loadedMsg{Err: err}
		}
		return loadedMsg{Done: done, Items: items, Now: s.clock()}
	}
}

func (s *ProgressScreen) Title() string {
	return "Progress"
}

func (s *ProgressScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ProgressScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.data = &msg
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.scroll > 0 {
				s.scroll--
			}
		case "down", "j":
			s.scroll++
		}
	}
	return s, nil
}

func (s *ProgressScreen) View(width, height int) string {
	if s.data == nil {
		return theme.Hint.Render("Loading...")
	}
	if s.data.Err != nil {
		return theme.Incorrect.Render("Error: " + s.data.Err.Error())
	}

	var lines []string
	completed := 0
	for _, l := range s.path.Lessons {
		if s.data.Done[l.ID] {
			completed++
		}
	}
	lines = append(lines,
		theme.Title.Render(s.path.Title),
		components.NewProgressBar("Lessons", completed, len(s.path.Lessons), min(width-4, 60)).View(),
		"",
	)
	for _, l := range s.path.Lessons {
		mark := theme.Pending.Render("○ pending  ")
		if s.data.Done[l.ID] {
			mark = theme.Correct.Render("● completed")
		}
		lines = append(lines, fmt.Sprintf("  %s  %s", mark, theme.Body.Render(l.ID)))
	}

	lines = append(lines, "", theme.Title.Render("Practice schedule"))
	lines = append(lines, theme.Subtitle.Render(fmt.Sprintf("  %-24s %-8s %-6s %s", "item", "status", "level", "due")))
	for _, it := range s.data.Items {
		row := fmt.Sprintf("  %-24s %-8s %-6d %s", it.ID, it.Status, it.ReviewLevel, layout.FormatDue(it.DueAt, s.data.Now))
		if it.IsDue(s.data.Now) {
			row = theme.Due.Render(row)
		} else {
			row = theme.Body.Render(row)
		}
		lines = append(lines, row)
	}

	if s.scroll > len(lines)-1 {
		s.scroll = len(lines) - 1
	}
	visible := lines[s.scroll:]
	if height > 0 && len(visible) > height {
		visible = visible[:height]
	}
	return strings.Join(visible, "\n")
}
