package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/sheetr/internal/config"
	"github.com/sadopc/sheetr/internal/repository"
	"github.com/sadopc/sheetr/internal/service"
	"github.com/sadopc/sheetr/internal/timesheet"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewProjects
	viewTimesheet
	viewReports
	viewSettings
)

var viewNames = []string{"Dashboard", "Projects", "Timesheet", "Reports", "Settings"}

// Services are the use cases the dashboard drives.
type Services struct {
	Config    config.Config
	Analytics *service.Analytics
	Timesheet *service.Timesheet
	Tracking  *service.Tracking
	Reports   *service.Reports
	Tasks     repository.TaskRepo
	Settings  repository.SettingsRepo
	Now       func() time.Time
	// ExportDir receives exported reports; empty means the home directory.
	ExportDir string
}

func (s Services) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s Services) hourlyRate(ctx context.Context) float64 {
	return s.Settings.SettingFloat(ctx, "hourly_rate", s.Config.HourlyRate)
}

func (s Services) pageSize(ctx context.Context) int {
	n := int(s.Settings.SettingFloat(ctx, "page_size", float64(s.Config.PageSize)))
	if n <= 0 {
		return s.Config.PageSize
	}
	return n
}

// weeklyGoal is the daily goal over a five-day week, in minutes.
func (s Services) weeklyGoal(ctx context.Context) int {
	secs := s.Settings.SettingFloat(ctx, "daily_goal", 8*3600)
	return int(secs) * 5 / 60
}

// --- Messages ---

type timerStartedMsg struct {
	title string
}

type timerStoppedMsg struct {
	title   string
	tracked int64
}

type taskCreatedMsg struct {
	title string
}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

func errStatus(prefix string, err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("%s: %v", prefix, err), isError: true}
	}
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatSeconds(secs int64) string {
	return formatDuration(time.Duration(secs) * time.Second)
}

func formatHours(secs int64) string {
	h := float64(secs) / 3600
	return fmt.Sprintf("%.1fh", h)
}

func formatMinutes(total int) string {
	if total == 0 {
		return "-"
	}
	return timesheet.FormatMinutes(total)
}
