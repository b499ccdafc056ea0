package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/session"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Run a line-based practice session on stdin/stdout",
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		out := cmd.OutOrStdout()
		sum, err := e.sessionRunner(session.NewStdIO(cmd.InOrStdin(), out)).Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("practice session: %w", err)
		}

		fmt.Fprintf(out, "\nPracticed %d items: %d correct, %d incorrect, %d skipped (%.0f%% accuracy)\n",
			sum.Practiced, sum.Correct, sum.Incorrect, sum.Skipped, sum.Accuracy()*100)
		return nil
	}),
}
