package domain

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusDelayed    Status = "delayed"
	StatusComplete   Status = "complete"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusNotStarted, StatusInProgress, StatusDelayed, StatusComplete}

// Label returns a human readable name for the status.
func (s Status) Label() string {
	switch s {
	case StatusNotStarted:
		return "Not Started"
	case StatusInProgress:
		return "In Progress"
	case StatusDelayed:
		return "Delayed"
	case StatusComplete:
		return "Complete"
	}
	return string(s)
}
