package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/catalog"
	"github.com/abhisek/pathwise/internal/learnpath"
	"github.com/abhisek/pathwise/internal/menu"
	"github.com/abhisek/pathwise/internal/session"
	"github.com/abhisek/pathwise/internal/store"
	"github.com/abhisek/pathwise/internal/transfer"
)

// env is the wiring shared by every command: the opened store, the catalog
// and the services built on them.
type env struct {
	store    *store.Store
	catalog  *catalog.Catalog
	userID   string
	practice *store.PracticeRepo
	progress *learnpath.Service
	clock    func() time.Time
}

// openEnv resolves configuration, opens the store and seeds catalog items
// that are not stored yet.
func openEnv(cmd *cobra.Command) (*env, error) {
	ctx := cmd.Context()

	cat, err := catalog.Load(resolveCatalogPath(cmd))
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	var st *store.Store
	if ephemeral, _ := cmd.Flags().GetBool("ephemeral"); ephemeral {
		st, err = store.OpenMemory()
	} else {
		var dbPath string
		dbPath, err = resolveDBPath(cmd)
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		st, err = store.Open(dbPath)
	}
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	repo := st.PracticeRepo()
	if _, err := repo.SeedItems(ctx, cat.SeedItems()); err != nil {
		st.Close()
		return nil, fmt.Errorf("seed items: %w", err)
	}

	return &env{
		store:    st,
		catalog:  cat,
		userID:   resolveUser(cmd),
		practice: repo,
		progress: learnpath.NewService(st.LessonProgressRepo()),
		clock:    time.Now,
	}, nil
}

func (e *env) Close() error {
	return e.store.Close()
}

func (e *env) path() *learnpath.Path {
	return &e.catalog.Path
}

// menu builds the plain menu for the current user.
func (e *env) menu() *menu.Menu {
	return &menu.Menu{
		UserID:   e.userID,
		Path:     e.path(),
		Progress: e.progress,
		Lessons:  learnpath.NewRunner(e.progress, e.path()),
		Practice: func(ctx context.Context, io session.IO) (session.Summary, error) {
			return e.sessionRunner(io).Run(ctx)
		},
	}
}

func (e *env) sessionRunner(io session.IO) *session.Runner {
	return &session.Runner{
		Repo:   e.practice,
		IO:     io,
		Clock:  e.clock,
		Events: e.events(),
		UserID: e.userID,
	}
}

// events returns the session event log stamped with the env clock.
func (e *env) events() *store.EventRepo {
	return e.store.EventRepo().WithClock(e.clock)
}

func (e *env) exporter() *transfer.Exporter {
	return transfer.NewExporter(e.practice, e.clock)
}

func (e *env) importer() *transfer.Importer {
	return transfer.NewImporter(e.practice)
}

// withEnv wraps a command body with openEnv and Close.
func withEnv(run func(cmd *cobra.Command, args []string, e *env) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		return run(cmd, args, e)
	}
}
