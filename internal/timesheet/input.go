package timesheet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidCell = errors.New("invalid time entry")

// ParseCell converts an hours/minutes pair typed by a user into total
// minutes. Minute values of 60 or more are clamped to 59; blanks count as
// zero.
func ParseCell(hours, minutes string) (int, error) {
	h, err := parseField("hours", hours)
	if err != nil {
		return 0, err
	}
	m, err := parseField("minutes", minutes)
	if err != nil {
		return 0, err
	}
	if m >= 60 {
		m = 59
	}
	return h*60 + m, nil
}

func parseField(name, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", name, raw, ErrInvalidCell)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s %d: %w", name, n, ErrNegativeMinutes)
	}
	return n, nil
}

// SplitMinutes is the inverse of ParseCell for display.
func SplitMinutes(total int) (hours, minutes int) {
	return total / 60, total % 60
}

// FormatMinutes renders total minutes as "Hh MMm".
func FormatMinutes(total int) string {
	sign := ""
	if total < 0 {
		sign = "-"
		total = -total
	}
	h, m := SplitMinutes(total)
	return fmt.Sprintf("%s%dh %02dm", sign, h, m)
}
