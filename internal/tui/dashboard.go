package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/sheetr/internal/domain"
	"github.com/sadopc/sheetr/internal/stats"
)

type dashboardModel struct {
	ctx    context.Context
	svc    Services
	timer  timerModel
	width  int
	height int

	team    stats.TeamStats
	tasks   []stats.TaskRow
	overdue int
	err     error

	// Task picker state
	picking      bool
	pickerCursor int
}

func newDashboardModel(ctx context.Context, svc Services) dashboardModel {
	return dashboardModel{
		ctx:   ctx,
		svc:   svc,
		timer: newTimerModel(svc.Tracking),
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dashboardModel) isRunning() bool { return d.timer.running() }
func (d dashboardModel) elapsed() int64  { return d.timer.session() }

type dashboardDataMsg struct {
	team    stats.TeamStats
	tasks   []stats.TaskRow
	overdue int
	err     error
}

func (d dashboardModel) loadData() tea.Cmd {
	ctx, svc := d.ctx, d.svc
	return func() tea.Msg {
		team, err := svc.Analytics.Team(ctx)
		if err != nil {
			return dashboardDataMsg{err: err}
		}
		rows, err := svc.Analytics.Tasks(ctx, "")
		if err != nil {
			return dashboardDataMsg{err: err}
		}
		tasks := make([]domain.Task, len(rows))
		for i, r := range rows {
			tasks[i] = r.Task
		}
		overdue := len(stats.Overdue(tasks, svc.now()))
		return dashboardDataMsg{team: team, tasks: rows, overdue: overdue}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.err = msg.err
		if msg.err == nil {
			d.team = msg.team
			d.tasks = msg.tasks
			d.overdue = msg.overdue
		}
		return d, nil

	case tickMsg:
		if err := d.timer.tick(d.ctx); err != nil {
			return d, errStatus("Timer", err)
		}
		return d, nil

	case tea.KeyMsg:
		if d.picking {
			return d.updatePicker(msg)
		}

		switch {
		case key.Matches(msg, keys.Start):
			if d.timer.running() {
				return d, nil
			}
			if len(d.tasks) == 0 {
				return d, func() tea.Msg {
					return statusMsg{text: "No tasks yet. Run `sheetr seed` or add one under Projects.", isError: true}
				}
			}
			d.picking = true
			d.pickerCursor = 0
			return d, nil

		case key.Matches(msg, keys.Stop):
			return d.stopTimer()
		}
	}
	return d, nil
}

func (d dashboardModel) updatePicker(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if d.pickerCursor > 0 {
			d.pickerCursor--
		}
	case key.Matches(msg, keys.Down):
		if d.pickerCursor < len(d.tasks)-1 {
			d.pickerCursor++
		}
	case key.Matches(msg, keys.Enter):
		t := d.tasks[d.pickerCursor].Task
		d.picking = false
		return d.startTimer(t.ID, t.Title)
	case key.Matches(msg, keys.Back):
		d.picking = false
	}
	return d, nil
}

func (d dashboardModel) startTimer(taskID, title string) (dashboardModel, tea.Cmd) {
	if err := d.timer.start(d.ctx, taskID, title); err != nil {
		return d, errStatus("Error", err)
	}
	return d, func() tea.Msg { return timerStartedMsg{title: title} }
}

func (d dashboardModel) stopTimer() (dashboardModel, tea.Cmd) {
	if !d.timer.running() {
		return d, nil
	}
	title := d.timer.title
	stopped, err := d.timer.stop(d.ctx)
	if err != nil {
		return d, tea.Batch(d.loadData(), errStatus("Error", err))
	}
	return d, tea.Batch(
		d.loadData(),
		func() tea.Msg { return timerStoppedMsg{title: title, tracked: stopped.Tracked()} },
	)
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	timerPanel := d.renderTimerPanel(contentWidth)
	teamPanel := d.renderTeamPanel(contentWidth)

	var bottomPanel string
	if d.picking {
		bottomPanel = d.renderTaskPicker(contentWidth)
	} else {
		bottomPanel = d.renderUserPanel(contentWidth)
	}

	return lipgloss.JoinVertical(lipgloss.Left, timerPanel, teamPanel, bottomPanel)
}

func (d dashboardModel) renderTimerPanel(w int) string {
	if d.timer.running() {
		timeDisplay := timerRunningStyle.Width(w - 6).Render(formatSeconds(d.timer.session()))
		indicator := successStyle.Render("●  RUNNING")
		taskLine := highlightStyle.Render(d.timer.title) +
			mutedStyle.Render(fmt.Sprintf("  total %s", formatSeconds(d.timer.elapsed)))

		content := lipgloss.JoinVertical(lipgloss.Center, timeDisplay, indicator, taskLine)
		return activePanelStyle.Width(w).Render(content)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		timerStyle.Width(w-6).Render("00:00:00"),
		mutedStyle.Render("■  STOPPED"),
		mutedStyle.Render("Press s to start tracking a task"),
	)
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderTeamPanel(w int) string {
	title := titleStyle.Render("Team")
	if d.err != nil {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, errorStyle.Render(d.err.Error())))
	}
	s := d.team.Stats
	if s.TotalTasks == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, mutedStyle.Render("No tasks yet")))
	}

	line1 := fmt.Sprintf("  %s tasks  %s completed  %s",
		highlightStyle.Render(fmt.Sprint(s.TotalTasks)),
		highlightStyle.Render(fmt.Sprint(s.CompletedTasks)),
		highlightStyle.Render(fmt.Sprintf("%d%%", s.CompletionRate)))
	line2 := fmt.Sprintf("  planned %s  actual %s  efficiency %s",
		formatHours(s.PlannedTime), formatHours(s.ActualTime), efficiencyText(s.Efficiency))
	rows := []string{title, line1, line2}
	if d.overdue > 0 {
		rows = append(rows, warningStyle.Render(fmt.Sprintf("  %d overdue", d.overdue)))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func efficiencyText(e int) string {
	text := fmt.Sprintf("%d%%", e)
	if e < 100 {
		return warningStyle.Render(text)
	}
	return successStyle.Render(text)
}

func (d dashboardModel) renderUserPanel(w int) string {
	title := titleStyle.Render("By Member")
	if len(d.team.ByUser) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, mutedStyle.Render("No members")))
	}

	rows := []string{title}
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-20s %-20s %6s %6s %8s %8s",
		"Name", "Role", "Tasks", "Done", "Actual", "Eff.")))
	for _, u := range d.team.ByUser {
		rows = append(rows, fmt.Sprintf("  %-20s %-20s %6d %5d%% %8s %7d%%",
			truncate(u.User.Name, 20), truncate(u.User.Role, 20),
			u.TotalTasks, u.CompletionRate, formatHours(u.ActualTime), u.Efficiency))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderTaskPicker(w int) string {
	rows := []string{titleStyle.Render("Select Task")}
	for i, r := range d.tasks {
		cursor := "  "
		style := normalItemStyle
		if i == d.pickerCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-28s", cursor, truncate(r.Task.Title, 28)))+
			mutedStyle.Render(fmt.Sprintf(" %s · %s", r.ProjectName, r.AssigneeName)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: select  esc: cancel"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
