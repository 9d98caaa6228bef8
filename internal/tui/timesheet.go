package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/sheetr/internal/service"
	"github.com/sadopc/sheetr/internal/stats"
	"github.com/sadopc/sheetr/internal/timesheet"
)

type timesheetModel struct {
	ctx    context.Context
	svc    Services
	width  int
	height int

	anchor time.Time // any instant inside the shown week
	week   *service.Week
	tasks  []stats.TaskRow
	goal   int // minutes
	row    int
	col    int

	formActive bool
	form       *huh.Form
	formHours  *string
	formMins   *string
}

func newTimesheetModel(ctx context.Context, svc Services) timesheetModel {
	h, m := "", ""
	return timesheetModel{
		ctx:       ctx,
		svc:       svc,
		anchor:    svc.now(),
		formHours: &h,
		formMins:  &m,
	}
}

func (t *timesheetModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

type timesheetDataMsg struct {
	week  *service.Week
	tasks []stats.TaskRow
	goal  int
	err   error
}

func (t timesheetModel) refresh() tea.Cmd {
	ctx, svc, at := t.ctx, t.svc, t.anchor
	return func() tea.Msg {
		week, err := svc.Timesheet.Load(ctx, at)
		if err != nil {
			return timesheetDataMsg{err: err}
		}
		tasks, err := svc.Analytics.Tasks(ctx, "")
		if err != nil {
			return timesheetDataMsg{err: err}
		}
		return timesheetDataMsg{week: week, tasks: tasks, goal: svc.weeklyGoal(ctx)}
	}
}

func (t timesheetModel) update(msg tea.Msg) (timesheetModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	switch msg := msg.(type) {
	case timesheetDataMsg:
		if msg.err != nil {
			return t, errStatus("Timesheet", msg.err)
		}
		t.week = msg.week
		t.tasks = msg.tasks
		t.goal = msg.goal
		if t.row >= len(t.tasks) {
			t.row = max(0, len(t.tasks)-1)
		}
		return t, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if t.row > 0 {
				t.row--
			}
		case key.Matches(msg, keys.Down):
			if t.row < len(t.tasks)-1 {
				t.row++
			}
		case key.Matches(msg, keys.Left):
			if t.col > 0 {
				t.col--
			}
		case key.Matches(msg, keys.Right):
			if t.col < len(timesheet.Days)-1 {
				t.col++
			}
		case key.Matches(msg, keys.PrevWeek):
			t.anchor = t.anchor.AddDate(0, 0, -7)
			return t, t.refresh()
		case key.Matches(msg, keys.NextWeek):
			t.anchor = t.anchor.AddDate(0, 0, 7)
			return t, t.refresh()
		case key.Matches(msg, keys.Enter):
			if t.week != nil && len(t.tasks) > 0 {
				return t.showCellForm()
			}
		}
	}
	return t, nil
}

func (t timesheetModel) selected() (taskID, day string) {
	return t.tasks[t.row].Task.ID, t.week.Days[t.col]
}

func (t timesheetModel) showCellForm() (timesheetModel, tea.Cmd) {
	taskID, day := t.selected()
	h, m := timesheet.SplitMinutes(t.week.Matrix.Get(taskID, day))
	*t.formHours = strconv.Itoa(h)
	*t.formMins = strconv.Itoa(m)

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Hours").Value(t.formHours).Validate(validateHoursField),
			huh.NewInput().Title("Minutes").Value(t.formMins).Validate(validateMinutesField),
		).Title(fmt.Sprintf("%s · %s", t.tasks[t.row].Task.Title, day)),
	).WithShowHelp(true).WithShowErrors(true)

	t.formActive = true
	return t, t.form.Init()
}

func validateHoursField(s string) error {
	_, err := timesheet.ParseCell(s, "")
	return err
}

// validateMinutesField accepts 60 and above; ParseCell clamps them.
func validateMinutesField(s string) error {
	_, err := timesheet.ParseCell("", s)
	return err
}

func (t timesheetModel) updateForm(msg tea.Msg) (timesheetModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.formActive = false
		return t, t.saveCell()
	}

	return t, cmd
}

func (t timesheetModel) saveCell() tea.Cmd {
	taskID, day := t.selected()
	total, err := t.svc.Timesheet.SetCellInput(t.ctx, t.week, taskID, day, *t.formHours, *t.formMins)
	if err != nil {
		return errStatus("Error", err)
	}
	text := fmt.Sprintf("%s %s set to %s", t.tasks[t.row].Task.Title, day, timesheet.FormatMinutes(total))
	return func() tea.Msg { return statusMsg{text: text} }
}

func (t timesheetModel) view() string {
	w := t.width - 4

	if t.formActive && t.form != nil {
		title := titleStyle.Render("Edit Time")
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", t.form.View()))
	}

	if t.week == nil {
		return panelStyle.Width(w).Render(titleStyle.Render("Timesheet") + "\n" + mutedStyle.Render("Loading..."))
	}

	title := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Timesheet"), "  ",
		mutedStyle.Render("Week of "+t.week.Start.Format("Mon Jan 2, 2006")))

	if len(t.tasks) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("No tasks to log time against.")))
	}

	rows := []string{title, "", t.renderGrid()}
	rows = append(rows, "", t.renderSummary())
	rows = append(rows, "", mutedStyle.Render("  arrows: move  enter: edit  [/]: week"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

const cellWidth = 8

func (t timesheetModel) renderGrid() string {
	m := t.week.Matrix
	var b strings.Builder

	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %-24s", "Task")))
	for _, d := range t.week.Days {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%*s", cellWidth, d)))
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%*s%*s", cellWidth+1, "Total", cellWidth+2, "Variance")))
	b.WriteString("\n")

	for i, r := range t.tasks {
		cursor := "  "
		style := normalItemStyle
		if i == t.row {
			cursor = "> "
			style = selectedItemStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%-24s", cursor, truncate(r.Task.Title, 24))))
		for j, d := range t.week.Days {
			text := fmt.Sprintf("%*s", cellWidth, formatMinutes(m.Get(r.Task.ID, d)))
			if i == t.row && j == t.col {
				b.WriteString(cellCursorStyle.Render(text))
			} else {
				b.WriteString(text)
			}
		}
		b.WriteString(fmt.Sprintf(" %*s", cellWidth, formatMinutes(m.TotalForTask(r.Task.ID))))
		b.WriteString(" " + minuteVarianceText(m.VarianceForTask(r.Task.ID, r.Task.EstimatedTime), cellWidth+1))
		b.WriteString("\n")
	}

	b.WriteString(titleStyle.Render(fmt.Sprintf("  %-24s", "Day total")))
	for _, d := range t.week.Days {
		b.WriteString(titleStyle.Render(fmt.Sprintf("%*s", cellWidth, formatMinutes(m.DayTotal(d)))))
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf(" %*s", cellWidth, formatMinutes(m.TotalForWeek()))))
	return b.String()
}

func minuteVarianceText(minutes, width int) string {
	text := fmt.Sprintf("%*s", width, timesheet.FormatMinutes(minutes))
	if minutes > 0 {
		return errorStyle.Render(text)
	}
	return successStyle.Render(text)
}

func (t timesheetModel) renderSummary() string {
	m := t.week.Matrix
	pct := m.PercentageComplete(t.goal)
	style := warningStyle
	if pct >= 100 {
		style = successStyle
	}
	return fmt.Sprintf("  Logged %s of %s weekly goal  %s",
		highlightStyle.Render(timesheet.FormatMinutes(m.TotalForWeek())),
		timesheet.FormatMinutes(t.goal),
		style.Render(fmt.Sprintf("%d%%", pct)))
}
