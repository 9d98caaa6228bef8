package store

import (
	"time"
)

type Setting struct {
	Key   string
	Value string
}

// DailySummary represents tracked time per task per day.
type DailySummary struct {
	Date         string
	TaskID       string
	TaskTitle    string
	TotalSeconds int64
	EntryCount   int
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.ParseInLocation(dateLayout, s, time.Local)
	return t
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return time.Now().UTC().Format(time.RFC3339)
	}
	return t.UTC().Format(time.RFC3339)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
