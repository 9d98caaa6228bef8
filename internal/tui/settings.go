package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// setting is one editable preference as stored.
type setting struct {
	Key   string
	Value string
}

var settingKeys = []string{"hourly_rate", "week_start", "daily_goal", "page_size"}

type settingsModel struct {
	ctx    context.Context
	svc    Services
	width  int
	height int

	settings   []setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	hourlyRate *string
	weekStart  *string
	dailyGoal  *string
	pageSize   *string
}

func newSettingsModel(ctx context.Context, svc Services) settingsModel {
	hr, ws, dg, ps := "", "", "", ""
	return settingsModel{
		ctx:        ctx,
		svc:        svc,
		hourlyRate: &hr,
		weekStart:  &ws,
		dailyGoal:  &dg,
		pageSize:   &ps,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []setting
}

func (s settingsModel) refresh() tea.Cmd {
	ctx, svc := s.ctx, s.svc
	return func() tea.Msg {
		defaults := settingDefaults(svc)
		out := make([]setting, 0, len(settingKeys))
		for _, k := range settingKeys {
			out = append(out, setting{Key: k, Value: svc.Settings.SettingString(ctx, k, defaults[k])})
		}
		return settingsDataMsg{settings: out}
	}
}

func settingDefaults(svc Services) map[string]string {
	return map[string]string{
		"hourly_rate": strconv.FormatFloat(svc.Config.HourlyRate, 'f', -1, 64),
		"week_start":  svc.Config.WeekStart,
		"daily_goal":  "28800",
		"page_size":   strconv.Itoa(svc.Config.PageSize),
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.hourlyRate = s.getVal("hourly_rate", "85")
	*s.weekStart = s.getVal("week_start", "monday")
	*s.dailyGoal = secsToHours(s.getVal("daily_goal", "28800"))
	*s.pageSize = s.getVal("page_size", "20")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Hourly rate").Value(s.hourlyRate).Validate(nonNegativeNumber),
			huh.NewInput().Title("Report page size").Value(s.pageSize).Validate(positiveInt),
		).Title("Reports"),
		huh.NewGroup(
			huh.NewInput().Title("Daily goal (hours)").Value(s.dailyGoal).Validate(nonNegativeNumber),
			huh.NewSelect[string]().Title("Week starts on").
				Options(
					huh.NewOption("Monday", "monday"),
					huh.NewOption("Sunday", "sunday"),
				).Value(s.weekStart),
		).Title("General"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func nonNegativeNumber(v string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return errors.New("not a number")
	}
	if f < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

func positiveInt(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return errors.New("must be a whole number above zero")
	}
	return nil
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.saveSettings(); err != nil {
			return s, errStatus("Settings", err)
		}
		return s, tea.Batch(s.refresh(), func() tea.Msg {
			return statusMsg{text: "Settings saved"}
		})
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	values := map[string]string{
		"hourly_rate": strings.TrimSpace(*s.hourlyRate),
		"page_size":   strings.TrimSpace(*s.pageSize),
		"daily_goal":  hoursToSecs(strings.TrimSpace(*s.dailyGoal)),
		"week_start":  *s.weekStart,
	}
	for _, k := range settingKeys {
		if err := s.svc.Settings.SetSetting(s.ctx, k, values[k]); err != nil {
			return fmt.Errorf("saving %s: %w", k, err)
		}
	}
	return nil
}

func (s settingsModel) getVal(k, fallback string) string {
	for _, st := range s.settings {
		if st.Key == k {
			return st.Value
		}
	}
	return fallback
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings. A new week start applies on next launch.")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, st := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(st.Key)
		value := highlightStyle.Render(formatSettingValue(st.Key, st.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case "daily_goal":
		if secs, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%.1f hours", float64(secs)/3600)
		}
	case "hourly_rate":
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return fmt.Sprintf("%.2f per hour", f)
		}
	case "page_size":
		return v + " rows"
	}
	return v
}

func secsToHours(s string) string {
	if secs, err := strconv.Atoi(s); err == nil {
		return strconv.FormatFloat(float64(secs)/3600, 'f', -1, 64)
	}
	return s
}

func hoursToSecs(s string) string {
	if hours, err := strconv.ParseFloat(s, 64); err == nil {
		return strconv.Itoa(int(hours * 3600))
	}
	return s
}
