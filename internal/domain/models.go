package domain

import (
	"errors"
	"fmt"
	"time"
)

// Placeholder labels used when a reference cannot be resolved.
const (
	UnassignedName     = "Unassigned"
	UnknownProjectName = "Unknown"
)

var ErrNegativeDuration = errors.New("duration must not be negative")

type User struct {
	ID     string
	Name   string
	Role   string
	Avatar string
}

type Project struct {
	ID          string
	Name        string
	Description string
	Client      string
	StartDate   time.Time
	EndDate     time.Time
	TeamIDs     []string // ordered; duplicates are tolerated
}

// Task durations are seconds. TimeSpent may exceed EstimatedTime.
type Task struct {
	ID            string
	ProjectID     string
	Title         string
	Description   string
	AssigneeID    string // empty when unassigned
	EstimatedTime int64
	TimeSpent     int64
	Completed     bool
	DueDate       time.Time
	CreatedAt     time.Time
}

// Unassigned reports whether the task has no assignee.
func (t Task) Unassigned() bool {
	return t.AssigneeID == ""
}

// ValidateDuration rejects negative second counts at input boundaries.
func ValidateDuration(field string, secs int64) error {
	if secs < 0 {
		return fmt.Errorf("%s %d: %w", field, secs, ErrNegativeDuration)
	}
	return nil
}

// Validate checks the numeric fields of a task before it enters a store.
func (t Task) Validate() error {
	if err := ValidateDuration("estimated time", t.EstimatedTime); err != nil {
		return err
	}
	return ValidateDuration("time spent", t.TimeSpent)
}

// ReportRow is one line handed to the report export collaborator.
type ReportRow struct {
	Project      string
	EmployeeName string
	Role         string
	StartDate    time.Time
	EndDate      time.Time
	Rate         float64 // per hour
	Cost         float64
}
