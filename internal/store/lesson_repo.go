package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/pathwise/internal/learnpath"
)

// LessonProgressRepo stores per-user lesson progress in SQLite.
type LessonProgressRepo struct {
	drv *entsql.Driver
}

var _ learnpath.ProgressRepo = (*LessonProgressRepo)(nil)

func (r *LessonProgressRepo) Get(ctx context.Context, userID string) (learnpath.Progress, error) {
	sel := builder().Select("lesson_id", "status", "completed").
		From(entsql.Table(tableLessonProgress)).
		Where(entsql.EQ("user_id", userID))

	var p learnpath.Progress
	err := queryBuilt(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		var completed string
		if err := rows.Scan(&p.LessonID, &p.Status, &completed); err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(completed), &p.CompletedLessons); err != nil {
			return fmt.Errorf("decode completed lessons: %w", err)
		}
		return nil
	})
	if err != nil {
		return learnpath.Progress{}, fmt.Errorf("get progress for %s: %w", userID, err)
	}
	if len(p.CompletedLessons) == 0 {
		p.CompletedLessons = nil
	}
	return p, nil
}

func (r *LessonProgressRepo) Save(ctx context.Context, userID string, p learnpath.Progress) error {
	completed := p.CompletedLessons
	if completed == nil {
		completed = []string{}
	}
	data, err := json.Marshal(completed)
	if err != nil {
		return fmt.Errorf("encode completed lessons: %w", err)
	}

	ins := builder().Insert(tableLessonProgress).
		Columns("user_id", "lesson_id", "status", "completed", "updated_at").
		Values(userID, p.LessonID, p.Status, string(data), time.Now().Unix()).
		OnConflict(entsql.ConflictColumns("user_id"), entsql.ResolveWithNewValues())
	if _, err := execBuilt(ctx, r.drv, ins); err != nil {
		return fmt.Errorf("save progress for %s: %w", userID, err)
	}
	return nil
}

func (r *LessonProgressRepo) Reset(ctx context.Context, userID string) error {
	del := builder().Delete(tableLessonProgress).Where(entsql.EQ("user_id", userID))
	if _, err := execBuilt(ctx, r.drv, del); err != nil {
		return fmt.Errorf("reset progress for %s: %w", userID, err)
	}
	return nil
}
