package home

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pathwise/internal/menu"
	"github.com/abhisek/pathwise/internal/practice"
	"github.com/abhisek/pathwise/internal/router"
	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/screens/checkpoint"
	practicescreen "github.com/abhisek/pathwise/internal/screens/practice"
	"github.com/abhisek/pathwise/internal/screens/progress"
	"github.com/abhisek/pathwise/internal/session"
	"github.com/abhisek/pathwise/internal/transfer"
	"github.com/abhisek/pathwise/internal/ui/components"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

// Deps are the services reachable from the home screen.
type Deps struct {
	Menu        *menu.Menu
	Practice    practice.Repository
	Events      session.EventLogger
	Checkpoints checkpoint.Repo
	Clock       func() time.Time
}

// statusMsg carries refreshed startup lines.
type statusMsg struct {
	Lines []string
	Err   error
}

// actionMsg carries the result of a menu action.
type actionMsg struct {
	Lines []string
	Err   error
}

// HomeScreen is the main menu.
type HomeScreen struct {
	deps    Deps
	menu    components.Menu
	status  []string
	message []string
	err     error
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	h := &HomeScreen{deps: deps}

	push := func(factory func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: factory()} }
		}
	}

	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "Continue learning", Action: func() tea.Cmd { return h.handle("1") }},
		{Label: "Practice", Action: push(func() screen.Screen {
			tracker := session.NewTracker(deps.Practice, deps.Clock, deps.Events, deps.Menu.UserID)
			return practicescreen.New(tracker)
		}), Disabled: deps.Practice == nil},
		{Label: "Progress", Action: push(func() screen.Screen {
			m := deps.Menu
			return progress.New(m.UserID, m.Path, m.Progress, deps.Practice, deps.Clock)
		}), Disabled: deps.Practice == nil},
		{Label: "Checkpoints", Action: push(func() screen.Screen {
			return checkpoint.New(transfer.NewExporter(deps.Practice, deps.Clock), deps.Checkpoints)
		}), Disabled: deps.Practice == nil || deps.Checkpoints == nil},
		{Label: "Reset progress", Action: func() tea.Cmd { return h.handle("3") }},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	})
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStatus()
}

// Resume refreshes the progress summary after returning from a sub-screen.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.loadStatus()
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		h.err = msg.Err
		if msg.Err == nil {
			h.status = msg.Lines
		}
		return h, nil
	case actionMsg:
		h.err = msg.Err
		h.message = msg.Lines
		return h, h.loadStatus()
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

// handle runs a plain menu action in the background.
func (h *HomeScreen) handle(choice string) tea.Cmd {
	return func() tea.Msg {
		res, err := h.deps.Menu.Handle(context.Background(), choice)
		return actionMsg{Lines: res.Lines, Err: err}
	}
}

func (h *HomeScreen) loadStatus() tea.Cmd {
	return func() tea.Msg {
		lines, err := h.deps.Menu.StartupLines(context.Background())
		return statusMsg{Lines: lines, Err: err}
	}
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	if len(h.status) > 0 {
		head := theme.Title.Render(h.status[0])
		rest := theme.Subtitle.Render(strings.Join(h.status[1:], "\n"))
		sections = append(sections, head+"\n"+rest)
	}

	sections = append(sections, h.menu.View())

	switch {
	case h.err != nil:
		sections = append(sections, theme.Incorrect.Render("Error: "+h.err.Error()))
	case len(h.message) > 0:
		sections = append(sections, theme.Body.Render(strings.Join(h.message, "\n")))
	}

	return theme.Card.Width(min(width-4, 64)).Render(strings.Join(sections, "\n\n"))
}

func (h *HomeScreen) Title() string {
	return "Home"
}
