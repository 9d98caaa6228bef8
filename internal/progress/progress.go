// Package progress turns (time spent, estimate) pairs into percentages and
// task statuses. Everything here is pure and safe to memoize.
package progress

import "github.com/sadopc/sheetr/internal/domain"

// RoundDiv returns num/den rounded half up. Both operands must be
// non-negative and den must be positive.
func RoundDiv(num, den int64) int64 {
	return (2*num + den) / (2 * den)
}

// RawPercent is the unclamped integer percentage of the estimate consumed,
// truncated toward zero. A task without an estimate has no measurable
// progress and reports 0.
func RawPercent(timeSpent, estimated int64) int {
	if estimated <= 0 || timeSpent <= 0 {
		return 0
	}
	return int(timeSpent * 100 / estimated)
}

// Percent is the rounded percentage clamped to 100, for progress bars.
func Percent(timeSpent, estimated int64) int {
	if estimated <= 0 || timeSpent <= 0 {
		return 0
	}
	p := RoundDiv(timeSpent*100, estimated)
	if p > 100 {
		return 100
	}
	return int(p)
}

// PercentOf is Percent for a task.
func PercentOf(t domain.Task) int {
	return Percent(t.TimeSpent, t.EstimatedTime)
}
