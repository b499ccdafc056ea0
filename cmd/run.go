package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/app"
)

// runApp opens the store, builds dependencies, and launches the TUI or the
// plain menu loop.
func runApp(cmd *cobra.Command) error {
	return withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		m := e.menu()
		if plain, _ := cmd.Flags().GetBool("plain"); plain {
			return m.RunLoop(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		}

		return app.Run(app.Options{
			Menu:        m,
			Practice:    e.practice,
			Events:      e.events(),
			Checkpoints: e.store.CheckpointRepo(),
			Clock:       e.clock,
		})
	})(cmd, nil)
}
