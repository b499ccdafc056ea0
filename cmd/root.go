package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/store"
)

// DefaultUser is the learner ID used when neither --user nor PATHWISE_USER
// is set.
const DefaultUser = "demo-user"

var rootCmd = &cobra.Command{
	Use:   "pathwise",
	Short: "Personal learning tracker",
	Long:  "pathwise is a terminal learning tracker with lessons, spaced repetition practice and portable progress snapshots.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loadDotEnv(".env")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides PATHWISE_DB env var)")
	pf.String("user", "", "Learner ID (overrides PATHWISE_USER env var)")
	pf.String("catalog", "", "Path to a YAML catalog file (overrides PATHWISE_CATALOG env var)")
	pf.Bool("ephemeral", false, "Use an in-memory database that is discarded on exit")

	rootCmd.Flags().Bool("plain", false, "Run the line-based menu instead of the full-screen UI")

	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(checkpointCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadDotEnv loads environment defaults from path. Variables already set
// in the environment win. A missing file is ignored.
func loadDotEnv(path string) {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
	}
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then PATHWISE_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// resolveUser returns the learner ID from --user, then PATHWISE_USER, then
// DefaultUser.
func resolveUser(cmd *cobra.Command) string {
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		return u
	}
	if u := os.Getenv("PATHWISE_USER"); u != "" {
		return u
	}
	return DefaultUser
}

// resolveCatalogPath returns the catalog file from --catalog, then
// PATHWISE_CATALOG. Empty means the built-in catalog.
func resolveCatalogPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("catalog"); p != "" {
		return p
	}
	return os.Getenv("PATHWISE_CATALOG")
}
