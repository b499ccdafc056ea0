package learnpath

import (
	"context"
	"fmt"
)

// Service coordinates lesson progress use cases over a ProgressRepo.
type Service struct {
	repo ProgressRepo
}

// NewService creates a Service.
func NewService(repo ProgressRepo) *Service {
	return &Service{repo: repo}
}

// UserProgress returns the user's stored progress.
func (s *Service) UserProgress(ctx context.Context, userID string) (Progress, error) {
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		return Progress{}, fmt.Errorf("get progress for %s: %w", userID, err)
	}
	return p, nil
}

// Record stores progress for the user.
func (s *Service) Record(ctx context.Context, userID string, p Progress) error {
	if err := s.repo.Save(ctx, userID, p); err != nil {
		return fmt.Errorf("save progress for %s: %w", userID, err)
	}
	return nil
}

// Reset clears the user's progress.
func (s *Service) Reset(ctx context.Context, userID string) error {
	if err := s.repo.Reset(ctx, userID); err != nil {
		return fmt.Errorf("reset progress for %s: %w", userID, err)
	}
	return nil
}

// CompletedIDs returns the set of lessons the user has completed.
func (s *Service) CompletedIDs(ctx context.Context, userID string) (map[string]bool, error) {
	p, err := s.UserProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(p.CompletedLessons))
	for _, id := range p.CompletedLessons {
		done[id] = true
	}
	return done, nil
}

// Summary returns how many of the path's lessons the user has completed.
// Completed IDs that are not part of the path are not counted.
func (s *Service) Summary(ctx context.Context, path *Path, userID string) (completed, total int, err error) {
	done, err := s.CompletedIDs(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	for _, l := range path.Lessons {
		if done[l.ID] {
			completed++
		}
	}
	return completed, len(path.Lessons), nil
}
