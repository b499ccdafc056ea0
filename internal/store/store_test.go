package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pathwise/internal/learnpath"
	"github.com/abhisek/pathwise/internal/practice"
	"github.com/abhisek/pathwise/internal/transfer"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.Driver() == nil {
		t.Fatal("expected non-nil ent driver")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is checked in TestFileDatabaseUsesWAL.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestFileDatabaseUsesWAL(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "pathwise.db"))
	require.NoError(t, err)
	defer s.Close()

	var mode string
	require.NoError(t, s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{tableItems, tableAttempts, tableLessonProgress, tableCheckpoints, tableSessionEvents} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestPracticeRepoItems(t *testing.T) {
	s := openTestStore(t)
	repo := s.PracticeRepo()
	ctx := context.Background()

	items, err := repo.ListItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	due := t0.Add(24 * time.Hour)
	require.NoError(t, repo.SaveItem(ctx, practice.LearningItem{ID: "loops", Prompt: "Loops?", Status: practice.StatusNew, Order: 2}))
	require.NoError(t, repo.SaveItem(ctx, practice.LearningItem{
		ID: "vars", Prompt: "Vars?", Status: practice.StatusReview, Order: 1,
		DueAt: &due, ReviewLevel: 1, IntervalMinutes: 1440,
	}))

	items, err = repo.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "vars", items[0].ID)
	assert.Equal(t, practice.StatusReview, items[0].Status)
	require.NotNil(t, items[0].DueAt)
	assert.True(t, items[0].DueAt.Equal(due))
	assert.Nil(t, items[1].DueAt)

	// Saving again replaces the stored row.
	updated := items[1].WithSchedule(practice.StatusReview, t0, 0, practice.RelearnIntervalMinutes)
	require.NoError(t, repo.SaveItem(ctx, updated))

	items, err = repo.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[1].Equal(updated))
}

func TestPracticeRepoTimesOutsideUnixNanoRange(t *testing.T) {
	s := openTestStore(t)
	repo := s.PracticeRepo()
	ctx := context.Background()

	far := time.Date(2300, 1, 1, 0, 0, 0, 5, time.UTC)
	old := time.Date(1600, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SaveItem(ctx, practice.LearningItem{
		ID: "far", Prompt: "Far?", Status: practice.StatusReview, Order: 1,
		DueAt: &far, ReviewLevel: 20, IntervalMinutes: practice.MaxIntervalMinutes,
	}))
	require.NoError(t, repo.RecordAttempt(ctx, practice.Attempt{ItemID: "far", Timestamp: far, Outcome: practice.OutcomeCorrect}))
	require.NoError(t, repo.RecordAttempt(ctx, practice.Attempt{ItemID: "far", Timestamp: old, Outcome: practice.OutcomeSkip}))

	items, err := repo.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].DueAt)
	assert.True(t, items[0].DueAt.Equal(far), "DueAt = %v, want %v", items[0].DueAt, far)
	assert.False(t, items[0].IsDue(t0))

	attempts, err := repo.ListAttempts(ctx)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.True(t, attempts[0].Timestamp.Equal(old))
	assert.True(t, attempts[1].Timestamp.Equal(far))
}

func TestSeedItemsKeepsExisting(t *testing.T) {
	s := openTestStore(t)
	repo := s.PracticeRepo()
	ctx := context.Background()

	due := t0
	require.NoError(t, repo.SaveItem(ctx, practice.LearningItem{
		ID: "vars", Prompt: "Vars?", Status: practice.StatusReview, Order: 1,
		DueAt: &due, ReviewLevel: 2, IntervalMinutes: 4320,
	}))

	n, err := repo.SeedItems(ctx, []practice.LearningItem{
		{ID: "vars", Prompt: "Vars?", Status: practice.StatusNew, Order: 1},
		{ID: "loops", Prompt: "Loops?", Status: practice.StatusNew, Order: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	items, err := repo.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].ReviewLevel, "seeding must not reset progress")
}

func TestPracticeRepoAttempts(t *testing.T) {
	s := openTestStore(t)
	repo := s.PracticeRepo()
	ctx := context.Background()

	late := practice.Attempt{ItemID: "a", Timestamp: t0.Add(time.Minute), Outcome: practice.OutcomeCorrect}
	early := practice.Attempt{ItemID: "b", Timestamp: t0.Add(123 * time.Nanosecond), Outcome: practice.OutcomeSkip}
	require.NoError(t, repo.RecordAttempt(ctx, late))
	require.NoError(t, repo.RecordAttempt(ctx, early))
	// Same key again is ignored.
	require.NoError(t, repo.RecordAttempt(ctx, practice.Attempt{ItemID: "a", Timestamp: late.Timestamp, Outcome: practice.OutcomeIncorrect}))

	attempts, err := repo.ListAttempts(ctx)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, early.Key(), attempts[0].Key())
	assert.Equal(t, practice.OutcomeCorrect, attempts[1].Outcome)

	require.NoError(t, repo.UpsertAttempt(ctx, practice.Attempt{ItemID: "a", Timestamp: late.Timestamp, Outcome: practice.OutcomeIncorrect}))
	attempts, err = repo.ListAttempts(ctx)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, practice.OutcomeIncorrect, attempts[1].Outcome)
}

func TestLessonProgressRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.LessonProgressRepo()
	ctx := context.Background()

	p, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, p.IsZero())

	want := learnpath.Progress{LessonID: "loops", Status: learnpath.StatusCompleted, CompletedLessons: []string{"variables", "loops"}}
	require.NoError(t, repo.Save(ctx, "alice", want))
	require.NoError(t, repo.Save(ctx, "bob", learnpath.Progress{LessonID: "variables", Status: learnpath.StatusCompleted, CompletedLessons: []string{"variables"}}))

	got, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, repo.Reset(ctx, "alice"))
	got, err = repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	bob, err := repo.Get(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"variables"}, bob.CompletedLessons)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Week 1", "week-1"},
		{"  Before quiz!! ", "before-quiz"},
		{"a__b--c", "a-b-c"},
		{"---", "checkpoint"},
		{"", "checkpoint"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func testSnapshot(exported time.Time) transfer.Snapshot {
	due := exported.Add(24 * time.Hour)
	return transfer.Snapshot{
		Version:    1,
		ExportedAt: exported,
		Items: []practice.LearningItem{
			{ID: "vars", Prompt: "Vars?", Status: practice.StatusReview, Order: 1, DueAt: &due, ReviewLevel: 1, IntervalMinutes: 1440},
		},
		Attempts: []practice.Attempt{
			{ItemID: "vars", Timestamp: exported, Outcome: practice.OutcomeCorrect},
		},
	}
}

func TestCheckpointSaveLoad(t *testing.T) {
	s := openTestStore(t)
	repo := s.CheckpointRepo()
	ctx := context.Background()

	snap := testSnapshot(t0)
	cp, err := repo.Save(ctx, "Week 1", snap, "Before quiz")
	require.NoError(t, err)
	assert.Equal(t, "week-1", cp.Slug)
	assert.True(t, cp.CreatedAt.Equal(t0))

	rec, err := repo.Load(ctx, "week 1")
	require.NoError(t, err)
	assert.Equal(t, "Week 1", rec.Name)
	assert.Equal(t, "Before quiz", rec.Description)
	require.Len(t, rec.Snapshot.Items, 1)
	assert.True(t, rec.Snapshot.Items[0].Equal(snap.Items[0]))
	require.Len(t, rec.Snapshot.Attempts, 1)
	assert.Equal(t, snap.Attempts[0].Key(), rec.Snapshot.Attempts[0].Key())
}

func TestCheckpointLoadMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.CheckpointRepo().Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckpointListAndDelete(t *testing.T) {
	s := openTestStore(t)
	repo := s.CheckpointRepo()
	ctx := context.Background()

	_, err := repo.Save(ctx, "Week 2", testSnapshot(t0.Add(24*time.Hour)), "After loops")
	require.NoError(t, err)
	_, err = repo.Save(ctx, "Week 1", testSnapshot(t0), "")
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Week 1", list[0].Name)
	assert.Equal(t, "After loops", list[1].Description)

	require.NoError(t, repo.Delete(ctx, "Week 1"))
	require.NoError(t, repo.Delete(ctx, "Week 1"), "deleting a missing checkpoint is not an error")

	list, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Week 2", list[0].Name)
}

func TestCheckpointPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.CheckpointRepo()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		_, err := repo.Save(ctx, "day "+string(rune('a'+i)), testSnapshot(t0.Add(time.Duration(i)*time.Hour)), "")
		require.NoError(t, err)
	}

	removed, err := repo.Prune(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 5)
	assert.Equal(t, "day-c", list[0].Slug, "oldest checkpoints are pruned")

	removed, err = repo.Prune(ctx, 10)
	require.NoError(t, err)
	assert.Zero(t, removed)

	_, err = repo.Prune(ctx, -1)
	assert.Error(t, err)
}

func TestCheckpointSnapshotStore(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	st := s.CheckpointRepo().Store("Nightly", "auto")
	_, err := st.Load(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.Save(ctx, testSnapshot(t0)))
	got, err := st.Load(ctx)
	require.NoError(t, err)
	assert.True(t, got.ExportedAt.Equal(t0))
}

func TestSessionEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s1", UserID: "alice", Action: ActionStart}))
	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s1", UserID: "alice", Action: ActionEnd, ItemsPracticed: 3, CorrectAnswers: 2, DurationSecs: 40}))
	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s2", UserID: "bob", Action: ActionStart}))

	all, err := repo.SessionEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		assert.Greater(t, all[i].Sequence, all[i-1].Sequence)
	}

	s1, err := repo.SessionEvents(ctx, QueryOpts{SessionID: "s1"})
	require.NoError(t, err)
	require.Len(t, s1, 2)
	assert.Equal(t, ActionEnd, s1[1].Action)
	assert.Equal(t, 3, s1[1].ItemsPracticed)
	assert.Equal(t, 2, s1[1].CorrectAnswers)

	after, err := repo.SessionEvents(ctx, QueryOpts{After: all[0].Sequence, Limit: 1})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, all[1].Sequence, after[0].Sequence)
}

func TestSessionEventsUseClock(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo().WithClock(func() time.Time { return t0 })
	ctx := context.Background()

	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s1", Action: ActionStart}))

	events, err := s.EventRepo().SessionEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Timestamp.Equal(t0), "Timestamp = %v, want %v", events[0].Timestamp, t0)
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestDefaultDBPathFromEnv(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "pathwise.db")
	t.Setenv("PATHWISE_DB", p)

	got, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.DirExists(t, filepath.Dir(p))
}

func TestDefaultDBPathXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PATHWISE_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pathwise", "pathwise.db"), got)
}
