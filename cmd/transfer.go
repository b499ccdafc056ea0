package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/transfer"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export practice progress as a JSON snapshot",
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		ctx := cmd.Context()
		snap, err := e.exporter().Run(ctx)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}

		path, _ := cmd.Flags().GetString("out")
		if path == "" || path == "-" {
			data, err := transfer.Encode(snap)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		}

		if err := transfer.NewFileStore(path).Save(ctx, snap); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d items and %d attempts to %s\n",
			len(snap.Items), len(snap.Attempts), path)
		return nil
	}),
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Merge a JSON snapshot into local progress",
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		path, _ := cmd.Flags().GetString("in")
		if path == "" {
			return fmt.Errorf("--in is required")
		}
		src := transfer.NewFileStore(path)
		if err := src.Lint(); err != nil {
			if !errors.Is(err, transfer.ErrSchema) {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %v\n", path, err)
		}

		res, err := importFrom(cmd.Context(), e, src)
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}
		printImportResult(cmd, res)
		return nil
	}),
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Inspect snapshot files",
}

var snapshotValidateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check a snapshot file against the snapshot schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := transfer.NewFileStore(args[0]).Lint(); err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", args[0])
		return nil
	},
}

// importFrom loads a snapshot from src and merges it into the env's
// practice repository.
func importFrom(ctx context.Context, e *env, src transfer.SnapshotStore) (transfer.ImportResult, error) {
	snap, err := src.Load(ctx)
	if err != nil {
		return transfer.ImportResult{}, err
	}
	return e.importer().Run(ctx, snap)
}

func printImportResult(cmd *cobra.Command, res transfer.ImportResult) {
	fmt.Fprintf(cmd.OutOrStdout(), "Imported: %d items saved, %d attempts added, %d attempts updated\n",
		res.ItemsSaved, res.AttemptsAdded, res.AttemptsUpdated)
}

func init() {
	exportCmd.Flags().String("out", "", "Output file (default: stdout)")
	importCmd.Flags().String("in", "", "Snapshot file to import")

	snapshotCmd.AddCommand(snapshotValidateCmd)
}
