package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/router"
	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/session"
	"github.com/abhisek/pathwise/internal/ui/layout"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

// SummaryScreen displays the result of a practice session.
type SummaryScreen struct {
	summary session.Summary
	reason  string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen. reason is the line explaining why the
// session ended.
func New(summary session.Summary, reason string) *SummaryScreen {
	return &SummaryScreen{summary: summary, reason: reason}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	center := func(st lipgloss.Style, text string) string {
		return st.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder
	b.WriteString(center(theme.Title, "Session complete!"))
	b.WriteString("\n\n")
	if s.reason != "" {
		b.WriteString(center(theme.Subtitle, s.reason))
		b.WriteString("\n\n")
	}

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(center(theme.Subtitle, fmt.Sprintf("Duration: %d:%02d", mins, secs)))
	b.WriteString("\n\n")

	b.WriteString(center(theme.Body, fmt.Sprintf("Practiced: %d        Accuracy: %.0f%%",
		sum.Practiced, sum.Accuracy()*100)))
	b.WriteString("\n\n")

	counts := theme.Correct.Render(fmt.Sprintf("%d correct", sum.Correct)) + "   " +
		theme.Incorrect.Render(fmt.Sprintf("%d incorrect", sum.Incorrect)) + "   " +
		theme.Skipped.Render(fmt.Sprintf("%d skipped", sum.Skipped))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, counts))
	b.WriteString("\n")

	return b.String()
}
