package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/learnpath"
)

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Complete the next lesson of the learning path",
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		ctx := cmd.Context()
		res, err := learnpath.NewRunner(e.progress, e.path()).RunNext(ctx, e.userID)
		if err != nil {
			return fmt.Errorf("run next lesson: %w", err)
		}

		out := cmd.OutOrStdout()
		if res.Status == learnpath.StatusCompletedAll {
			fmt.Fprintln(out, "All lessons are already completed.")
			return nil
		}
		lesson, _ := e.path().Lesson(res.LessonID)
		fmt.Fprintf(out, "Completed lesson: %s (%s)\n", res.LessonID, lesson.Title)
		if lesson.Content != "" {
			fmt.Fprintf(out, "\n%s\n", lesson.Content)
		}

		done, total, err := e.progress.Summary(ctx, e.path(), e.userID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nProgress: %d/%d lessons completed\n", done, total)
		return nil
	}),
}
