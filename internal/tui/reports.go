package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/sheetr/internal/domain"
	"github.com/sadopc/sheetr/internal/export"
	"github.com/sadopc/sheetr/internal/service"
)

type reportsModel struct {
	ctx    context.Context
	svc    Services
	width  int
	height int

	offset int // weeks back from the current one
	week   *service.Week
	rows   []domain.ReportRow
	rate   float64

	chart barchart.Model
}

func newReportsModel(ctx context.Context, svc Services) reportsModel {
	return reportsModel{
		ctx:   ctx,
		svc:   svc,
		chart: barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	week *service.Week
	rows []domain.ReportRow
	rate float64
	err  error
}

func (r reportsModel) anchor() time.Time {
	return r.svc.now().AddDate(0, 0, -7*r.offset)
}

func (r reportsModel) refresh() tea.Cmd {
	ctx, svc, at := r.ctx, r.svc, r.anchor()
	return func() tea.Msg {
		week, err := svc.Timesheet.Load(ctx, at)
		if err != nil {
			return reportsDataMsg{err: err}
		}
		rate := svc.hourlyRate(ctx)
		rows, err := svc.Reports.Rows(ctx, rate)
		if err != nil {
			return reportsDataMsg{err: err}
		}
		return reportsDataMsg{week: week, rows: rows, rate: rate}
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		if msg.err != nil {
			return r, errStatus("Reports", msg.err)
		}
		r.week = msg.week
		r.rows = msg.rows
		r.rate = msg.rate
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left), key.Matches(msg, keys.PrevWeek):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right), key.Matches(msg, keys.NextWeek):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)
	if r.week == nil {
		return
	}

	bars := make([]barchart.BarData, 0, len(r.week.Days))
	for i, d := range r.week.Days {
		label := r.week.Start.AddDate(0, 0, i).Format("Mon 02")
		hours := float64(r.week.Matrix.DayTotal(d)) / 60
		style := lipgloss.NewStyle().Foreground(colorSecondary)
		if hours == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}
		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: []barchart.BarValue{{Name: d, Value: hours, Style: style}},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	header := titleStyle.Render("Reports")
	if r.week != nil {
		end := r.week.Start.AddDate(0, 0, 6)
		header = lipgloss.JoinHorizontal(lipgloss.Bottom,
			header, "  ",
			mutedStyle.Render(fmt.Sprintf("%s – %s", r.week.Start.Format("Jan 02"), end.Format("Jan 02, 2006"))),
			"  ",
			highlightStyle.Render(formatMinutes(r.week.Matrix.TotalForWeek())),
		)
	}

	nav := mutedStyle.Render("  ←/→: navigate weeks  e: export")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", r.renderCostTable(w), "", nav,
		),
	)
}

func (r reportsModel) renderCostTable(w int) string {
	if len(r.rows) == 0 {
		return mutedStyle.Render("  No report rows")
	}

	var rows []string
	rows = append(rows, titleStyle.Render(fmt.Sprintf("Cost at %s/h", export.Money(r.rate))))
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-22s %-18s %-20s %12s", "Project", "Employee", "Role", "Cost")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 75))))
	for _, row := range r.rows {
		rows = append(rows, fmt.Sprintf("  %-22s %-18s %-20s %12s",
			truncate(row.Project, 22), truncate(row.EmployeeName, 18), truncate(row.Role, 20), export.Money(row.Cost)))
	}
	rows = append(rows, highlightStyle.Render(fmt.Sprintf("  %-62s %12s", "Total", export.Money(export.TotalCost(r.rows)))))
	return strings.Join(rows, "\n")
}
