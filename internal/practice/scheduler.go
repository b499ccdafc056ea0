package practice

import (
	"math"
	"sort"
	"time"
)

// SelectNextItem picks the next item to practice.
//
// Due review items come first, earliest due time first. When nothing is due,
// the new item with the smallest order is chosen. Ties are broken by
// ascending ID. The second return value is false when there is nothing to
// practice.
func SelectNextItem(items []LearningItem, now time.Time) (LearningItem, bool) {
	var due, fresh []LearningItem
	for _, it := range items {
		switch it.Status {
		case StatusReview:
			if it.IsDue(now) {
				due = append(due, it)
			}
		case StatusNew:
			fresh = append(fresh, it)
		}
	}

	if len(due) > 0 {
		sort.Slice(due, func(i, j int) bool {
			if !due[i].DueAt.Equal(*due[j].DueAt) {
				return due[i].DueAt.Before(*due[j].DueAt)
			}
			return due[i].ID < due[j].ID
		})
		return due[0], true
	}

	if len(fresh) > 0 {
		sort.Slice(fresh, func(i, j int) bool {
			if fresh[i].Order != fresh[j].Order {
				return fresh[i].Order < fresh[j].Order
			}
			return fresh[i].ID < fresh[j].ID
		})
		return fresh[0], true
	}

	return LearningItem{}, false
}

// UpdateSchedule returns the item's scheduling state after an attempt.
// A skip leaves the item untouched.
func UpdateSchedule(item LearningItem, outcome Outcome, now time.Time) LearningItem {
	switch outcome {
	case OutcomeSkip:
		return item
	case OutcomeIncorrect:
		return item.WithSchedule(StatusReview, now.Add(RelearnIntervalMinutes*time.Minute), 0, RelearnIntervalMinutes)
	case OutcomeCorrect:
		level := item.ReviewLevel
		if level < math.MaxInt {
			level++
		}
		interval := IntervalForLevel(level)
		return item.WithSchedule(StatusReview, now.Add(time.Duration(interval)*time.Minute), level, interval)
	}
	return item
}
