package learnpath

import "context"

// Result describes what RunNext did.
type Result struct {
	LessonID string
	Status   string
}

// Runner completes lessons of a path in order.
type Runner struct {
	svc  *Service
	path *Path
}

// NewRunner creates a Runner for path.
func NewRunner(svc *Service, path *Path) *Runner {
	return &Runner{svc: svc, path: path}
}

// RunNext completes the first lesson the user has not completed yet and
// records it. When every lesson is done it returns StatusCompletedAll.
func (r *Runner) RunNext(ctx context.Context, userID string) (Result, error) {
	p, err := r.svc.UserProgress(ctx, userID)
	if err != nil {
		return Result{}, err
	}

	done := make(map[string]bool, len(p.CompletedLessons))
	for _, id := range p.CompletedLessons {
		done[id] = true
	}

	for _, l := range r.path.Lessons {
		if done[l.ID] {
			continue
		}
		completed := append(append([]string(nil), p.CompletedLessons...), l.ID)
		err := r.svc.Record(ctx, userID, Progress{
			LessonID:         l.ID,
			Status:           StatusCompleted,
			CompletedLessons: completed,
		})
		if err != nil {
			return Result{}, err
		}
		return Result{LessonID: l.ID, Status: StatusCompleted}, nil
	}

	return Result{Status: StatusCompletedAll}, nil
}
