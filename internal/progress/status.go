package progress

import "github.com/sadopc/sheetr/internal/domain"

// Classify maps an unclamped percentage and the completion flag to a status.
// Completion always wins; exactly 100 is still in progress.
func Classify(raw int, completed bool) domain.Status {
	switch {
	case completed:
		return domain.StatusComplete
	case raw <= 0:
		return domain.StatusNotStarted
	case raw > 100:
		return domain.StatusDelayed
	default:
		return domain.StatusInProgress
	}
}

// StatusOf derives a task's status from its current fields.
func StatusOf(t domain.Task) domain.Status {
	return Classify(RawPercent(t.TimeSpent, t.EstimatedTime), t.Completed)
}
