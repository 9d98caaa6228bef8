package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/sadopc/sheetr/internal/timesheet"
)

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(false).
		Headers(headers...).
		Rows(rows...).
		String()
}

// hours renders seconds as "Xh Ym", keeping the sign.
func hours(secs int64) string {
	return timesheet.FormatMinutes(int(secs / 60))
}

// stopwatch renders seconds as hh:mm:ss.
func stopwatch(secs int64) string {
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}

func percent(v int) string {
	return strconv.Itoa(v) + "%"
}
