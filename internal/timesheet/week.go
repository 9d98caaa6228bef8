package timesheet

import (
	"strings"
	"time"
)

// Days are the day labels of a tracking week, Monday first.
var Days = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// DayLabel returns the matrix label for a wall-clock day.
func DayLabel(t time.Time) string {
	return t.Weekday().String()[:3]
}

func dayOrder(label string) int {
	for i, d := range Days {
		if d == label {
			return i
		}
	}
	return len(Days)
}

// WeekStart returns local midnight of the first day of t's week. startDay
// is "monday" or "sunday"; anything else means monday.
func WeekStart(t time.Time, startDay string) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	first := time.Monday
	if strings.EqualFold(startDay, "sunday") {
		first = time.Sunday
	}
	back := (int(day.Weekday()) - int(first) + 7) % 7
	return day.AddDate(0, 0, -back)
}

// WeekKey identifies a week by its first day.
func WeekKey(t time.Time, startDay string) string {
	return WeekStart(t, startDay).Format("2006-01-02")
}

// OrderedDays lists the week's day labels starting from startDay.
func OrderedDays(startDay string) []string {
	if strings.EqualFold(startDay, "sunday") {
		return append([]string{"Sun"}, Days[:6]...)
	}
	return Days
}
