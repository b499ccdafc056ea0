package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the current learner's lesson progress",
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		if err := e.progress.Reset(cmd.Context(), e.userID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Progress reset for user: %s\n", e.userID)
		return nil
	}),
}
