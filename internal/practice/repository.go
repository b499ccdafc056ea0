package practice

import "context"

// Repository is the persistence boundary for learning items and attempts.
type Repository interface {
	// ListItems returns all learning items.
	ListItems(ctx context.Context) ([]LearningItem, error)

	// SaveItem inserts or replaces an item by ID.
	SaveItem(ctx context.Context, item LearningItem) error

	// ListAttempts returns all recorded attempts.
	ListAttempts(ctx context.Context) ([]Attempt, error)

	// RecordAttempt appends an attempt.
	RecordAttempt(ctx context.Context, attempt Attempt) error
}
