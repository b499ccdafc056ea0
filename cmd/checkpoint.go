package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/store"
)

var checkpointCmd = &cobra.Command{
	Use:   "checkpoint",
	Short: "Save and restore named progress checkpoints",
}

var checkpointSaveCmd = &cobra.Command{
	Use:   "save NAME",
	Short: "Save the current progress as a checkpoint",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		ctx := cmd.Context()
		desc, _ := cmd.Flags().GetString("description")

		snap, err := e.exporter().Run(ctx)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		cp, err := e.store.CheckpointRepo().Save(ctx, args[0], snap, desc)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved checkpoint %q as %s\n", cp.Name, cp.Slug)
		return nil
	}),
}

var checkpointListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved checkpoints",
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		cps, err := e.store.CheckpointRepo().List(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(cps) == 0 {
			fmt.Fprintln(out, "No checkpoints saved.")
			return nil
		}

		fmt.Fprintf(out, "%-24s  %-20s  %s\n", "Slug", "Created", "Description")
		fmt.Fprintln(out, strings.Repeat("─", 72))
		for _, cp := range cps {
			fmt.Fprintf(out, "%-24s  %-20s  %s\n",
				cp.Slug, cp.CreatedAt.Local().Format("2006-01-02 15:04:05"), cp.Description)
		}
		fmt.Fprintf(out, "\n%d checkpoints\n", len(cps))
		return nil
	}),
}

var checkpointRestoreCmd = &cobra.Command{
	Use:   "restore NAME",
	Short: "Merge a checkpoint into the current progress",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		src := e.store.CheckpointRepo().Store(args[0], "")
		res, err := importFrom(cmd.Context(), e, src)
		if err != nil {
			return fmt.Errorf("restore %s: %w", store.Slugify(args[0]), err)
		}
		printImportResult(cmd, res)
		return nil
	}),
}

var checkpointDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a checkpoint",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		if err := e.store.CheckpointRepo().Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted checkpoint %s\n", args[0])
		return nil
	}),
}

var checkpointPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the most recent checkpoints",
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		keep, _ := cmd.Flags().GetInt("keep")
		n, err := e.store.CheckpointRepo().Prune(cmd.Context(), keep)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d checkpoints\n", n)
		return nil
	}),
}

func init() {
	checkpointSaveCmd.Flags().String("description", "", "Optional checkpoint description")
	checkpointPruneCmd.Flags().Int("keep", 5, "Number of most recent checkpoints to keep")

	checkpointCmd.AddCommand(checkpointSaveCmd)
	checkpointCmd.AddCommand(checkpointListCmd)
	checkpointCmd.AddCommand(checkpointRestoreCmd)
	checkpointCmd.AddCommand(checkpointDeleteCmd)
	checkpointCmd.AddCommand(checkpointPruneCmd)
}
