package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/sheetr/internal/store"
)

// SessionLog is implemented by sources that keep live-timer history.
type SessionLog interface {
	GetDailySummary(ctx context.Context, from, to time.Time) ([]store.DailySummary, error)
	GetTodayTotal(ctx context.Context) (int64, error)
}

func newSessionsCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Summarize recorded live-timer sessions per day and task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return fmt.Errorf("invalid --days %d: must be positive", days)
			}
			log, ok := app.Repos.(SessionLog)
			if !ok {
				return errors.New("sessions needs the sqlite source")
			}

			now := app.Now()
			from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1-days)
			summaries, err := log.GetDailySummary(cmd.Context(), from, now.Add(time.Minute))
			if err != nil {
				return err
			}
			today, err := log.GetTodayTotal(cmd.Context())
			if err != nil {
				return fmt.Errorf("today total: %w", err)
			}

			w := cmd.OutOrStdout()
			if len(summaries) == 0 {
				fmt.Fprintln(w, "No sessions recorded.")
			} else {
				rows := make([][]string, 0, len(summaries))
				for _, ds := range summaries {
					title := ds.TaskTitle
					if title == "" {
						title = ds.TaskID
					}
					rows = append(rows, []string{ds.Date, title, strconv.Itoa(ds.EntryCount), stopwatch(ds.TotalSeconds)})
				}
				fmt.Fprintln(w, renderTable([]string{"Date", "Task", "Sessions", "Tracked"}, rows))
			}
			fmt.Fprintf(w, "Today: %s\n", stopwatch(today))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "Number of days to include, counting today")
	return cmd
}
