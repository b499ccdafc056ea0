package learnpath

import "context"

// Lesson statuses recorded in Progress and returned by Runner.
const (
	StatusCompleted    = "completed"
	StatusCompletedAll = "completed_all"
)

// Progress is the persisted lesson progress of one user.
type Progress struct {
	LessonID         string   `json:"lesson_id,omitempty"`
	Status           string   `json:"status,omitempty"`
	CompletedLessons []string `json:"completed_lessons,omitempty"`
}

// IsZero reports whether no progress has been recorded.
func (p Progress) IsZero() bool {
	return p.LessonID == "" && p.Status == "" && len(p.CompletedLessons) == 0
}

// Clone returns a deep copy.
func (p Progress) Clone() Progress {
	out := p
	if p.CompletedLessons != nil {
		out.CompletedLessons = append([]string(nil), p.CompletedLessons...)
	}
	return out
}

// ProgressRepo persists lesson progress per user.
type ProgressRepo interface {
	// Get returns the user's progress, or zero progress if none is stored.
	Get(ctx context.Context, userID string) (Progress, error)

	// Save replaces the user's progress.
	Save(ctx context.Context, userID string, p Progress) error

	// Reset removes the user's progress, leaving other users untouched.
	Reset(ctx context.Context, userID string) error
}
