// Package timesheet holds the weekly day×task minutes matrix.
package timesheet

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sadopc/sheetr/internal/progress"
)

var ErrNegativeMinutes = errors.New("minutes must not be negative")

// Cell addresses one (task, day) entry.
type Cell struct {
	TaskID  string
	Day     string
	Minutes int
}

// Matrix is a sparse taskID → day → minutes map. A missing day means zero
// minutes logged. Task and week totals are maintained on every write so an
// edit never rescans other tasks.
type Matrix struct {
	entries    map[string]map[string]int
	taskTotals map[string]int
	weekTotal  int
}

func NewMatrix() *Matrix {
	return &Matrix{
		entries:    make(map[string]map[string]int),
		taskTotals: make(map[string]int),
	}
}

// Set stores the minutes for a cell, replacing any previous value. Zero
// removes the cell.
func (m *Matrix) Set(taskID, day string, minutes int) error {
	if minutes < 0 {
		return fmt.Errorf("set %s/%s to %d: %w", taskID, day, minutes, ErrNegativeMinutes)
	}
	days, ok := m.entries[taskID]
	if !ok {
		if minutes == 0 {
			return nil
		}
		days = make(map[string]int)
		m.entries[taskID] = days
	}
	old := days[day]
	m.weekTotal += minutes - old
	if minutes == 0 {
		delete(days, day)
		if len(days) == 0 {
			delete(m.entries, taskID)
			delete(m.taskTotals, taskID)
			return nil
		}
	} else {
		days[day] = minutes
	}
	m.taskTotals[taskID] += minutes - old
	return nil
}

// Add credits extra minutes to a cell.
func (m *Matrix) Add(taskID, day string, minutes int) error {
	if minutes < 0 {
		return fmt.Errorf("add %d to %s/%s: %w", minutes, taskID, day, ErrNegativeMinutes)
	}
	return m.Set(taskID, day, m.Get(taskID, day)+minutes)
}

// Get returns the minutes logged for a cell, zero when absent.
func (m *Matrix) Get(taskID, day string) int {
	return m.entries[taskID][day]
}

func (m *Matrix) TotalForTask(taskID string) int {
	return m.taskTotals[taskID]
}

func (m *Matrix) TotalForWeek() int {
	return m.weekTotal
}

// DayTotal sums one day across all tasks.
func (m *Matrix) DayTotal(day string) int {
	total := 0
	for _, days := range m.entries {
		total += days[day]
	}
	return total
}

// VarianceForTask is tracked minutes minus the estimate in minutes.
// Positive means over the estimate.
func (m *Matrix) VarianceForTask(taskID string, estimatedSeconds int64) int {
	return m.TotalForTask(taskID) - int(progress.RoundDiv(max(estimatedSeconds, 0), 60))
}

// PercentageComplete compares the week total against planned minutes.
func (m *Matrix) PercentageComplete(plannedMinutes int) int {
	if plannedMinutes <= 0 {
		return 0
	}
	return int(progress.RoundDiv(int64(m.weekTotal)*100, int64(plannedMinutes)))
}

// Tasks lists task IDs with at least one cell, sorted.
func (m *Matrix) Tasks() []string {
	ids := make([]string, 0, len(m.entries))
	for id := range m.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Cells enumerates every stored cell ordered by task then week day.
func (m *Matrix) Cells() []Cell {
	var cells []Cell
	for _, id := range m.Tasks() {
		days := m.entries[id]
		labels := make([]string, 0, len(days))
		for d := range days {
			labels = append(labels, d)
		}
		sort.Slice(labels, func(i, j int) bool {
			return dayOrder(labels[i]) < dayOrder(labels[j]) ||
				(dayOrder(labels[i]) == dayOrder(labels[j]) && labels[i] < labels[j])
		})
		for _, d := range labels {
			cells = append(cells, Cell{TaskID: id, Day: d, Minutes: days[d]})
		}
	}
	return cells
}

// Load replaces the matrix content with the given cells.
func (m *Matrix) Load(cells []Cell) error {
	fresh := NewMatrix()
	for _, c := range cells {
		if err := fresh.Set(c.TaskID, c.Day, c.Minutes); err != nil {
			return err
		}
	}
	*m = *fresh
	return nil
}
