package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/ui/layout"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show lesson progress and the practice schedule",
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		done, err := e.progress.CompletedIDs(ctx, e.userID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s  (user: %s)\n\n", e.catalog.Path.Title, e.userID)
		for _, l := range e.catalog.Path.Lessons {
			status := "pending"
			if done[l.ID] {
				status = "completed"
			}
			fmt.Fprintf(out, "- %s: %s\n", l.ID, status)
		}

		items, err := e.practice.ListItems(ctx)
		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}
		now := e.clock()

		fmt.Fprintf(out, "\n%-24s  %-8s  %5s  %8s  %s\n", "Item", "Status", "Level", "Interval", "Due")
		fmt.Fprintln(out, strings.Repeat("─", 64))
		for _, it := range items {
			id := it.ID
			if len(id) > 24 {
				id = id[:21] + "..."
			}
			fmt.Fprintf(out, "%-24s  %-8s  %5d  %7dm  %s\n",
				id, it.Status, it.ReviewLevel, it.IntervalMinutes, layout.FormatDue(it.DueAt, now))
		}
		fmt.Fprintf(out, "\n%d items\n", len(items))
		return nil
	}),
}
