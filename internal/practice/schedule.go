package practice

// RelearnIntervalMinutes is the gap after an incorrect answer.
const RelearnIntervalMinutes = 10

// Base intervals in minutes for the first three review levels.
const (
	dayMinutes  = 24 * 60
	IntervalL1  = 1 * dayMinutes
	IntervalL2  = 3 * dayMinutes
	IntervalL3  = 7 * dayMinutes
	lastFlatLvl = 3
)

// MaxIntervalLevel is the highest level whose interval still grows. Higher
// levels reuse its interval of 3584 days.
const MaxIntervalLevel = 12

// MaxIntervalMinutes is the longest review gap.
const MaxIntervalMinutes = IntervalL3 << (MaxIntervalLevel - lastFlatLvl)

// IntervalForLevel returns the review gap in minutes for the given review
// level. Levels above 3 double the 7-day interval per level, up to
// MaxIntervalLevel.
func IntervalForLevel(level int) int {
	switch {
	case level <= 1:
		return IntervalL1
	case level == 2:
		return IntervalL2
	case level == lastFlatLvl:
		return IntervalL3
	case level >= MaxIntervalLevel:
		return MaxIntervalMinutes
	}
	return IntervalL3 << (level - lastFlatLvl)
}
