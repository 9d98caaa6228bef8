package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/sheetr/internal/domain"
	"github.com/sadopc/sheetr/internal/stats"
)

type projectsModel struct {
	ctx    context.Context
	svc    Services
	width  int
	height int

	projects     []stats.ProjectStats
	users        []domain.User
	tasks        []stats.TaskRow
	cursor       int
	taskCursor   int
	viewingTasks bool // true = viewing tasks of selected project

	bar progress.Model

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formTitle    *string
	formEstimate *string
	formAssignee *string
}

func newProjectsModel(ctx context.Context, svc Services) projectsModel {
	title, est, assignee := "", "", ""
	return projectsModel{
		ctx:          ctx,
		svc:          svc,
		bar:          progress.New(progress.WithGradient(string(colorPrimary), string(colorSecondary)), progress.WithWidth(20), progress.WithoutPercentage()),
		formTitle:    &title,
		formEstimate: &est,
		formAssignee: &assignee,
	}
}

func (p *projectsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type projectsDataMsg struct {
	projects []stats.ProjectStats
	users    []domain.User
	err      error
}

type tasksDataMsg struct {
	tasks []stats.TaskRow
	err   error
}

func (p projectsModel) refresh() tea.Cmd {
	ctx, svc := p.ctx, p.svc
	return func() tea.Msg {
		projects, err := svc.Analytics.Projects(ctx)
		if err != nil {
			return projectsDataMsg{err: err}
		}
		snap, err := svc.Analytics.Snapshot(ctx)
		if err != nil {
			return projectsDataMsg{err: err}
		}
		return projectsDataMsg{projects: projects, users: snap.Users}
	}
}

func (p projectsModel) refreshTasks() tea.Cmd {
	if p.cursor >= len(p.projects) {
		return nil
	}
	ctx, svc := p.ctx, p.svc
	pid := p.projects[p.cursor].Project.ID
	return func() tea.Msg {
		rows, err := svc.Analytics.Tasks(ctx, pid)
		return tasksDataMsg{tasks: rows, err: err}
	}
}

func (p projectsModel) update(msg tea.Msg) (projectsModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case projectsDataMsg:
		if msg.err != nil {
			return p, errStatus("Projects", msg.err)
		}
		p.projects = msg.projects
		p.users = msg.users
		if p.cursor >= len(p.projects) {
			p.cursor = max(0, len(p.projects)-1)
		}
		return p, nil

	case tasksDataMsg:
		if msg.err != nil {
			return p, errStatus("Tasks", msg.err)
		}
		p.tasks = msg.tasks
		if p.taskCursor >= len(p.tasks) {
			p.taskCursor = max(0, len(p.tasks)-1)
		}
		return p, nil

	case tea.KeyMsg:
		if p.viewingTasks {
			return p.updateTaskView(msg)
		}
		return p.updateProjectList(msg)
	}
	return p, nil
}

func (p projectsModel) updateProjectList(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(p.projects)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(p.projects) > 0 {
			p.viewingTasks = true
			p.taskCursor = 0
			return p, p.refreshTasks()
		}
	}
	return p, nil
}

func (p projectsModel) updateTaskView(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		p.viewingTasks = false
		return p, p.refresh()
	case key.Matches(msg, keys.Up):
		if p.taskCursor > 0 {
			p.taskCursor--
		}
	case key.Matches(msg, keys.Down):
		if p.taskCursor < len(p.tasks)-1 {
			p.taskCursor++
		}
	case key.Matches(msg, keys.New):
		return p.showNewTaskForm()
	case key.Matches(msg, keys.Complete):
		if len(p.tasks) > 0 {
			t := p.tasks[p.taskCursor].Task
			if err := p.svc.Tasks.SetCompleted(p.ctx, t.ID, !t.Completed); err != nil {
				return p, errStatus("Error", err)
			}
			return p, p.refreshTasks()
		}
	}
	return p, nil
}

func (p projectsModel) showNewTaskForm() (projectsModel, tea.Cmd) {
	*p.formTitle = ""
	*p.formEstimate = ""
	*p.formAssignee = ""

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task Title").Value(p.formTitle).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("title is required")
					}
					return nil
				}),
			huh.NewInput().Title("Estimate (hours)").Value(p.formEstimate).
				Validate(validateHours),
			huh.NewSelect[string]().Title("Assignee").
				Options(p.assigneeOptions()...).Value(p.formAssignee),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

// assigneeOptions lists the selected project's team, then Unassigned.
func (p projectsModel) assigneeOptions() []huh.Option[string] {
	var opts []huh.Option[string]
	if p.cursor < len(p.projects) {
		users := domain.UserIndex(p.users)
		seen := make(map[string]bool)
		for _, id := range p.projects[p.cursor].Project.TeamIDs {
			u, ok := users[id]
			if !ok || seen[id] {
				continue
			}
			seen[id] = true
			opts = append(opts, huh.NewOption(u.Name, id))
		}
	}
	return append(opts, huh.NewOption(domain.UnassignedName, ""))
}

func validateHours(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	h, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errors.New("not a number")
	}
	if h < 0 {
		return domain.ErrNegativeDuration
	}
	return nil
}

func (p projectsModel) updateForm(msg tea.Msg) (projectsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		return p, tea.Batch(p.createTask(), p.refreshTasks())
	}

	return p, cmd
}

func (p projectsModel) createTask() tea.Cmd {
	if p.cursor >= len(p.projects) || strings.TrimSpace(*p.formTitle) == "" {
		return nil
	}
	hours, _ := strconv.ParseFloat(strings.TrimSpace(*p.formEstimate), 64)
	t := &domain.Task{
		ProjectID:     p.projects[p.cursor].Project.ID,
		Title:         strings.TrimSpace(*p.formTitle),
		AssigneeID:    *p.formAssignee,
		EstimatedTime: int64(hours * 3600),
		CreatedAt:     p.svc.now(),
	}
	if err := p.svc.Tasks.CreateTask(p.ctx, t); err != nil {
		return errStatus("Error", err)
	}
	return func() tea.Msg { return taskCreatedMsg{title: t.Title} }
}

func (p projectsModel) view() string {
	if p.formActive && p.form != nil {
		title := titleStyle.Render("New Task")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View())
		return panelStyle.Width(p.width - 4).Render(content)
	}

	if p.viewingTasks {
		return p.renderTaskView()
	}
	return p.renderProjectList()
}

func (p projectsModel) renderProjectList() string {
	w := p.width - 4
	title := titleStyle.Render("Projects")

	if len(p.projects) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No projects yet. Run `sheetr seed` to load demo data."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-24s %-18s %5s %5s %8s %8s %9s %4s",
		"Name", "Client", "Tasks", "Done", "Planned", "Actual", "Variance", "Team"))
	rows = append(rows, header)

	for i, ps := range p.projects {
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		row := style.Render(fmt.Sprintf("%s%-24s %-18s %5d %4d%% %8s %8s",
			cursor, truncate(ps.Project.Name, 24), truncate(ps.Project.Client, 18),
			ps.TotalTasks, ps.CompletionRate, formatHours(ps.PlannedTime), formatHours(ps.ActualTime)))
		rows = append(rows, row+" "+varianceText(ps.Variance, 9)+fmt.Sprintf(" %4d", ps.TeamSize))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: tasks  ↑/↓: move"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// varianceText renders actual minus planned seconds; over budget is red.
func varianceText(secs int64, width int) string {
	text := fmt.Sprintf("%+.1fh", float64(secs)/3600)
	text = fmt.Sprintf("%*s", width, text)
	if secs > 0 {
		return errorStyle.Render(text)
	}
	return successStyle.Render(text)
}

func (p projectsModel) renderTaskView() string {
	w := p.width - 4
	proj := p.projects[p.cursor].Project
	title := titleStyle.Render(proj.Name + " · Tasks")
	sub := mutedStyle.Render(fmt.Sprintf("%s  %s – %s", proj.Client,
		proj.StartDate.Format("Jan 02"), proj.EndDate.Format("Jan 02, 2006")))

	if len(p.tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title, sub,
			"",
			mutedStyle.Render("No tasks. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	rows := []string{title, sub, ""}
	for i, r := range p.tasks {
		cursor := "  "
		style := normalItemStyle
		if i == p.taskCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		bar := p.bar.ViewAs(float64(r.Progress) / 100)
		line := style.Render(fmt.Sprintf("%s%-26s %-16s", cursor, truncate(r.Task.Title, 26), truncate(r.AssigneeName, 16))) +
			" " + bar +
			mutedStyle.Render(fmt.Sprintf(" %4d%% ", r.RawProgress)) +
			statusStyle(r.Status).Render(r.Status.Label())
		rows = append(rows, line)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new task  c: toggle done  esc: back"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
