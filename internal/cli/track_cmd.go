package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
)

func newTrackCmd(app *App) *cobra.Command {
	var limit, interval time.Duration

	cmd := &cobra.Command{
		Use:   "track <task-id>",
		Short: "Run a live timer for a task until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return fmt.Errorf("invalid --interval %s: must be positive", interval)
			}
			taskID := args[0]
			task, err := app.Repos.GetTask(cmd.Context(), taskID)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			if limit > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, limit)
				defer cancel()
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Tracking %q (Ctrl+C to stop)\n", task.Title)
			stopped, err := app.Tracking.Run(ctx, taskID, interval, func(v int64) {
				fmt.Fprintf(w, "\r%s", stopwatch(v))
			})
			fmt.Fprintln(w)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Tracked %s, time spent now %s\n", stopwatch(stopped.Tracked()), stopwatch(stopped.Final))
			return nil
		},
	}

	cmd.Flags().DurationVar(&limit, "for", 0, "Stop automatically after this long")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "Sampling interval")
	return cmd
}
