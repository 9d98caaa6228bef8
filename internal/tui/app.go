package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/sheetr/internal/export"
)

// App is the root Bubble Tea model.
type App struct {
	ctx    context.Context
	svc    Services
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	dashboard dashboardModel
	projects  projectsModel
	timesheet timesheetModel
	reports   reportsModel
	settings  settingsModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(ctx context.Context, svc Services) App {
	h := help.New()
	h.ShowAll = false

	return App{
		ctx:        ctx,
		svc:        svc,
		activeView: viewDashboard,
		dashboard:  newDashboardModel(ctx, svc),
		projects:   newProjectsModel(ctx, svc),
		timesheet:  newTimesheetModel(ctx, svc),
		reports:    newReportsModel(ctx, svc),
		settings:   newSettingsModel(ctx, svc),
		help:       h,
	}
}

// Run shows the dashboard until the user quits or ctx is cancelled. A
// running timer is stopped and recorded on the way out.
func Run(ctx context.Context, svc Services) error {
	p := tea.NewProgram(NewApp(ctx, svc), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if app, ok := final.(App); ok {
		if _, stopErr := app.dashboard.timer.stop(context.WithoutCancel(ctx)); stopErr != nil && err == nil {
			err = stopErr
		}
	}
	return err
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.dashboard.Init(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.projects.setSize(a.width, contentHeight)
		a.timesheet.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		if v, ok := keys.viewFor(msg); ok {
			a.activeView = v
			return a, a.refreshCurrentView()
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			a.dashboard, _ = a.dashboard.stopTimer()
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		cmds = append(cmds, tickCmd())
		// Always route ticks to dashboard timer
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case timerStoppedMsg:
		a.status = fmt.Sprintf("Tracked %s on %s", formatSeconds(msg.tracked), msg.title)
		a.statusErr = false
		return a, tea.Batch(a.timesheet.refresh(), a.reports.refresh())

	case timerStartedMsg:
		a.status = "Tracking " + msg.title
		a.statusErr = false
		return a, nil

	case taskCreatedMsg:
		a.status = "Created " + msg.title
		a.statusErr = false
		return a, a.dashboard.loadData()

	case dashboardDataMsg:
		a.dashboard, _ = a.dashboard.update(msg)
		return a, nil
	case projectsDataMsg, tasksDataMsg:
		var cmd tea.Cmd
		a.projects, cmd = a.projects.update(msg)
		return a, cmd
	case timesheetDataMsg:
		var cmd tea.Cmd
		a.timesheet, cmd = a.timesheet.update(msg)
		return a, cmd
	case reportsDataMsg:
		var cmd tea.Cmd
		a.reports, cmd = a.reports.update(msg)
		return a, cmd
	case settingsDataMsg:
		a.settings, _ = a.settings.update(msg)
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewProjects:
		a.projects, cmd = a.projects.update(msg)
	case viewTimesheet:
		a.timesheet, cmd = a.timesheet.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewProjects:
		return a.projects.formActive
	case viewTimesheet:
		return a.timesheet.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.loadData()
	case viewProjects:
		return a.projects.refresh()
	case viewTimesheet:
		return a.timesheet.refresh()
	case viewReports:
		return a.reports.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header, footer := a.renderHeader(), a.renderFooter()
	body := max(1, a.height-lipgloss.Height(header)-lipgloss.Height(footer))

	content := a.activeContent()
	if a.exportPicking {
		content = a.renderExportPicker(body)
	}
	content = lipgloss.NewStyle().Width(a.width).Height(body).Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) activeContent() string {
	switch a.activeView {
	case viewProjects:
		return a.projects.view()
	case viewTimesheet:
		return a.timesheet.view()
	case viewReports:
		return a.reports.view()
	case viewSettings:
		return a.settings.view()
	}
	return a.dashboard.view()
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("sheetr")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Timer indicator in footer
	timerInfo := ""
	if a.dashboard.isRunning() {
		timerInfo = successStyle.Render(" ● " + formatSeconds(a.dashboard.elapsed()))
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker(_ int) string {
	title := titleStyle.Render("Export Format")
	formats := exportFormats
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

var exportFormats = []string{"CSV", "JSON", "Document"}

func (a App) doExport(format int) tea.Cmd {
	ctx, svc := a.ctx, a.svc
	return func() tea.Msg {
		rows, err := svc.Reports.Rows(ctx, svc.hourlyRate(ctx))
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		dir := svc.ExportDir
		if dir == "" {
			dir, _ = os.UserHomeDir()
		}
		dateStr := svc.now().Format("2006-01-02")

		var path string
		switch format {
		case 0:
			path = filepath.Join(dir, fmt.Sprintf("sheetr-report-%s.csv", dateStr))
			err = export.ToCSV(rows, path)
		case 1:
			path = filepath.Join(dir, fmt.Sprintf("sheetr-report-%s.json", dateStr))
			err = export.ToJSON(rows, path)
		default:
			path = filepath.Join(dir, fmt.Sprintf("sheetr-report-%s.txt", dateStr))
			err = export.ToDocument(rows, path, svc.pageSize(ctx))
		}
		if err != nil {
			return statusMsg{text: fmt.Sprintf("%s error: %v", exportFormats[format], err), isError: true}
		}

		return exportDoneMsg{path: path}
	}
}
