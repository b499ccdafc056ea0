// Package memstore provides in-process repositories with no persistence.
package memstore

import (
	"context"
	"sync"

	"github.com/abhisek/pathwise/internal/learnpath"
	"github.com/abhisek/pathwise/internal/practice"
)

// PracticeRepo keeps learning items and attempts in memory.
type PracticeRepo struct {
	mu       sync.RWMutex
	order    []string // insertion order of item IDs
	items    map[string]practice.LearningItem
	attempts []practice.Attempt
}

var _ practice.Repository = (*PracticeRepo)(nil)

// NewPracticeRepo creates a repo seeded with items.
func NewPracticeRepo(seed []practice.LearningItem) *PracticeRepo {
	r := &PracticeRepo{items: make(map[string]practice.LearningItem, len(seed))}
	for _, it := range seed {
		r.put(it)
	}
	return r
}

func (r *PracticeRepo) put(it practice.LearningItem) {
	if _, ok := r.items[it.ID]; !ok {
		r.order = append(r.order, it.ID)
	}
	r.items[it.ID] = it
}

func (r *PracticeRepo) ListItems(_ context.Context) ([]practice.LearningItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]practice.LearningItem, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *PracticeRepo) SaveItem(_ context.Context, item practice.LearningItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(item)
	return nil
}

func (r *PracticeRepo) ListAttempts(_ context.Context) ([]practice.Attempt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]practice.Attempt(nil), r.attempts...), nil
}

func (r *PracticeRepo) RecordAttempt(_ context.Context, attempt practice.Attempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, attempt)
	return nil
}

// UpsertAttempt replaces the outcome of the attempt with the same key, or
// appends it when none exists.
func (r *PracticeRepo) UpsertAttempt(_ context.Context, attempt practice.Attempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, a := range r.attempts {
		if a.Key() == attempt.Key() {
			r.attempts[i] = attempt
			return nil
		}
	}
	r.attempts = append(r.attempts, attempt)
	return nil
}

// LessonProgressRepo keeps per-user lesson progress in memory.
type LessonProgressRepo struct {
	mu    sync.RWMutex
	users map[string]learnpath.Progress
}

var _ learnpath.ProgressRepo = (*LessonProgressRepo)(nil)

// NewLessonProgressRepo creates an empty repo.
func NewLessonProgressRepo() *LessonProgressRepo {
	return &LessonProgressRepo{users: make(map[string]learnpath.Progress)}
}

func (r *LessonProgressRepo) Get(_ context.Context, userID string) (learnpath.Progress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.users[userID].Clone(), nil
}

func (r *LessonProgressRepo) Save(_ context.Context, userID string, p learnpath.Progress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[userID] = p.Clone()
	return nil
}

func (r *LessonProgressRepo) Reset(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, userID)
	return nil
}
