// Package menu implements the plain line-based main menu.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/pathwise/internal/learnpath"
	"github.com/abhisek/pathwise/internal/session"
)

// Title is the first startup line.
const Title = "=== pathwise ==="

// Result is the outcome of one menu action.
type Result struct {
	Lines []string
	Exit  bool
}

// PracticeFunc runs a practice session over io.
type PracticeFunc func(ctx context.Context, io session.IO) (session.Summary, error)

// Menu holds everything the menu actions need for one user.
type Menu struct {
	UserID   string
	Path     *learnpath.Path
	Progress *learnpath.Service
	Lessons  *learnpath.Runner
	Practice PracticeFunc

	// IO is used by the practice action. RunLoop sets it when nil.
	IO session.IO
}

// StartupLines returns the title, user and progress summary.
func (m *Menu) StartupLines(ctx context.Context) ([]string, error) {
	line, err := m.progressLine(ctx)
	if err != nil {
		return nil, err
	}
	return []string{Title, "User: " + m.UserID, line}, nil
}

// MenuLines returns the menu options.
func (m *Menu) MenuLines() []string {
	return []string{
		"",
		"[1] Start / Continue learning",
		"[2] Show progress",
		"[3] Reset progress",
		"[4] Practice",
		"[0] Exit",
	}
}

// Handle executes the action for a raw choice.
func (m *Menu) Handle(ctx context.Context, choice string) (Result, error) {
	switch strings.TrimSpace(choice) {
	case "1":
		return m.continueLearning(ctx)
	case "2":
		return m.showProgress(ctx)
	case "3":
		return m.resetProgress(ctx)
	case "4":
		return m.practice(ctx)
	case "0":
		return Result{Lines: []string{"Goodbye!"}, Exit: true}, nil
	}
	return Result{Lines: []string{"Invalid choice. Please select 0, 1, 2, 3, or 4."}}, nil
}

func (m *Menu) continueLearning(ctx context.Context) (Result, error) {
	res, err := m.Lessons.RunNext(ctx, m.UserID)
	if err != nil {
		return Result{}, err
	}
	if res.Status != learnpath.StatusCompleted || res.LessonID == "" {
		return Result{Lines: []string{"All lessons are already completed."}}, nil
	}

	line, err := m.progressLine(ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{Lines: []string{"Completed lesson: " + res.LessonID, line}}, nil
}

func (m *Menu) showProgress(ctx context.Context) (Result, error) {
	done, err := m.Progress.CompletedIDs(ctx, m.UserID)
	if err != nil {
		return Result{}, err
	}

	lines := []string{"Progress by lesson:"}
	for _, l := range m.Path.Lessons {
		status := "pending"
		if done[l.ID] {
			status = "completed"
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", l.ID, status))
	}
	return Result{Lines: lines}, nil
}

func (m *Menu) resetProgress(ctx context.Context) (Result, error) {
	if err := m.Progress.Reset(ctx, m.UserID); err != nil {
		return Result{}, err
	}
	return Result{Lines: []string{"Progress reset for user: " + m.UserID}}, nil
}

func (m *Menu) practice(ctx context.Context) (Result, error) {
	if m.Practice == nil || m.IO == nil {
		return Result{Lines: []string{"Practice is not available."}}, nil
	}
	sum, err := m.Practice(ctx, m.IO)
	if err != nil {
		return Result{}, err
	}
	return Result{Lines: []string{
		fmt.Sprintf("Practiced %d items (%d correct).", sum.Practiced, sum.Correct),
	}}, nil
}

func (m *Menu) progressLine(ctx context.Context) (string, error) {
	completed, total, err := m.Progress.Summary(ctx, m.Path, m.UserID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Progress: %d/%d lessons completed", completed, total), nil
}

// RunLoop runs the menu until the user exits or input ends.
func (m *Menu) RunLoop(ctx context.Context, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	if m.IO == nil {
		m.IO = session.NewStdIOScanner(sc, out)
	}

	lines, err := m.StartupLines(ctx)
	if err != nil {
		return err
	}
	writeLines(out, lines)

	for {
		writeLines(out, m.MenuLines())
		writeLines(out, []string{"", "Select an option:"})

		choice, err := session.ReadLine(sc)
		if errors.Is(err, io.EOF) {
			choice = "0"
		} else if err != nil {
			return fmt.Errorf("read choice: %w", err)
		}

		res, err := m.Handle(ctx, choice)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		writeLines(out, res.Lines)
		if res.Exit {
			return nil
		}
	}
}

func writeLines(w io.Writer, lines []string) {
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}
