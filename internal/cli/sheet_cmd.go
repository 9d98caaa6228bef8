package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/sheetr/internal/domain"
	"github.com/sadopc/sheetr/internal/timesheet"
)

func newSheetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Show or edit the weekly timesheet",
	}
	cmd.AddCommand(newSheetShowCmd(app), newSheetSetCmd(app))
	return cmd
}

func weekFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "date", "", "Any day of the week to use (YYYY-MM-DD, default today)")
}

func resolveDate(app *App, raw string) (time.Time, error) {
	if raw == "" {
		return app.Now(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
	}
	return t, nil
}

// normalizeDay accepts "mon", "Monday" or "MON" and returns "Mon".
func normalizeDay(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 3 {
		label := strings.ToUpper(raw[:1]) + strings.ToLower(raw[1:3])
		for _, d := range timesheet.Days {
			if d == label {
				return d, nil
			}
		}
	}
	return "", fmt.Errorf("invalid day %q: expected one of %s", raw, strings.Join(timesheet.Days, ", "))
}

func newSheetShowCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the week's minutes matrix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			at, err := resolveDate(app, date)
			if err != nil {
				return err
			}
			week, err := app.Timesheet.Load(ctx, at)
			if err != nil {
				return err
			}
			snap, err := app.Analytics.Snapshot(ctx)
			if err != nil {
				return err
			}
			tasks := make(map[string]domain.Task, len(snap.Tasks))
			for _, t := range snap.Tasks {
				tasks[t.ID] = t
			}

			m := week.Matrix
			headers := append([]string{"Task"}, week.Days...)
			headers = append(headers, "Total", "Variance")

			var rows [][]string
			for _, id := range m.Tasks() {
				title := id
				var est int64
				if t, ok := tasks[id]; ok {
					title = t.Title
					est = t.EstimatedTime
				}
				row := []string{title}
				for _, d := range week.Days {
					row = append(row, cellText(m.Get(id, d)))
				}
				row = append(row,
					timesheet.FormatMinutes(m.TotalForTask(id)),
					timesheet.FormatMinutes(m.VarianceForTask(id, est)))
				rows = append(rows, row)
			}
			footer := []string{"Total"}
			for _, d := range week.Days {
				footer = append(footer, cellText(m.DayTotal(d)))
			}
			footer = append(footer, timesheet.FormatMinutes(m.TotalForWeek()), "")
			rows = append(rows, footer)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Week of %s\n", week.Start.Format("Mon Jan 2, 2006"))
			fmt.Fprintln(w, renderTable(headers, rows))
			return nil
		},
	}
	weekFlag(cmd, &date)
	return cmd
}

func cellText(minutes int) string {
	if minutes == 0 {
		return "-"
	}
	return timesheet.FormatMinutes(minutes)
}

func newSheetSetCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "set <task-id> <day> <hours> [minutes]",
		Short: "Set the time logged for one task on one day",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			taskID := args[0]
			if _, err := app.Repos.GetTask(ctx, taskID); err != nil {
				return err
			}
			day, err := normalizeDay(args[1])
			if err != nil {
				return err
			}
			minutes := ""
			if len(args) == 4 {
				minutes = args[3]
			}
			at, err := resolveDate(app, date)
			if err != nil {
				return err
			}
			week, err := app.Timesheet.Load(ctx, at)
			if err != nil {
				return err
			}
			total, err := app.Timesheet.SetCellInput(ctx, week, taskID, day, args[2], minutes)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s (task total %s, week total %s)\n",
				taskID, day, timesheet.FormatMinutes(total),
				timesheet.FormatMinutes(week.Matrix.TotalForTask(taskID)),
				timesheet.FormatMinutes(week.Matrix.TotalForWeek()))
			return nil
		},
	}
	weekFlag(cmd, &date)
	return cmd
}
