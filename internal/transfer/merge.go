package transfer

import (
	"sort"
	"time"

	"github.com/abhisek/pathwise/internal/practice"
)

// Merge reconciles local progress with an imported snapshot.
//
// Items present on both sides keep the more progressed state. Attempts are
// unioned by (item, timestamp), with the imported attempt winning on a key
// collision. Merging the same snapshot again yields the same result.
func Merge(currentItems []practice.LearningItem, currentAttempts []practice.Attempt, imported Snapshot) ([]practice.LearningItem, []practice.Attempt) {
	return mergeItems(currentItems, imported.Items), mergeAttempts(currentAttempts, imported.Attempts)
}

func mergeItems(current, imported []practice.LearningItem) []practice.LearningItem {
	byID := make(map[string]practice.LearningItem, len(current)+len(imported))
	for _, it := range current {
		byID[it.ID] = it
	}
	for _, it := range imported {
		existing, ok := byID[it.ID]
		if !ok {
			byID[it.ID] = it
			continue
		}
		byID[it.ID] = pickMoreProgressed(existing, it)
	}

	out := make([]practice.LearningItem, 0, len(byID))
	for _, it := range byID {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// pickMoreProgressed returns whichever item is further along. On an exact
// score tie the smaller order wins, then the first (local) item.
func pickMoreProgressed(first, second practice.LearningItem) practice.LearningItem {
	switch c := progressOf(first).compare(progressOf(second)); {
	case c < 0:
		return second
	case c > 0:
		return first
	}
	if second.Order < first.Order {
		return second
	}
	return first
}

// progress is the lexicographic score used to rank two states of one item.
type progress struct {
	review   int
	level    int
	interval int
	hasDue   bool // an unset due time ranks below every set one
	due      time.Time
}

func progressOf(it practice.LearningItem) progress {
	p := progress{
		level:    it.ReviewLevel,
		interval: it.IntervalMinutes,
	}
	if it.Status == practice.StatusReview {
		p.review = 1
	}
	if it.DueAt != nil {
		p.hasDue = true
		p.due = *it.DueAt
	}
	return p
}

func (p progress) compare(o progress) int {
	switch {
	case p.review != o.review:
		return cmpInt(p.review, o.review)
	case p.level != o.level:
		return cmpInt(p.level, o.level)
	case p.interval != o.interval:
		return cmpInt(p.interval, o.interval)
	case p.hasDue != o.hasDue:
		if p.hasDue {
			return 1
		}
		return -1
	}
	return p.due.Compare(o.due)
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	return 1
}

func mergeAttempts(current, imported []practice.Attempt) []practice.Attempt {
	byKey := make(map[practice.AttemptKey]practice.Attempt, len(current)+len(imported))
	for _, a := range current {
		byKey[a.Key()] = a
	}
	for _, a := range imported {
		byKey[a.Key()] = a
	}

	out := make([]practice.Attempt, 0, len(byKey))
	for _, a := range byKey {
		out = append(out, a)
	}
	sortAttempts(out)
	return out
}

func sortAttempts(attempts []practice.Attempt) {
	sort.Slice(attempts, func(i, j int) bool {
		if !attempts[i].Timestamp.Equal(attempts[j].Timestamp) {
			return attempts[i].Timestamp.Before(attempts[j].Timestamp)
		}
		return attempts[i].ItemID < attempts[j].ItemID
	})
}
