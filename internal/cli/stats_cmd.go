package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sadopc/sheetr/internal/domain"
	"github.com/sadopc/sheetr/internal/stats"
)

func newStatsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show progress statistics",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "team",
			Short: "Team-wide totals with a per-member breakdown",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return printTeam(cmd, app)
			},
		},
		&cobra.Command{
			Use:   "users",
			Short: "Per-user statistics",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				rows, err := app.Analytics.Users(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(userHeaders, userRows(rows)))
				return nil
			},
		},
		&cobra.Command{
			Use:   "projects",
			Short: "Per-project statistics with time variance",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				rows, err := app.Analytics.Projects(cmd.Context())
				if err != nil {
					return err
				}
				out := make([][]string, 0, len(rows))
				for _, p := range rows {
					out = append(out, []string{
						p.Project.Name,
						p.Project.Client,
						strconv.Itoa(p.TeamSize),
						strconv.Itoa(p.TotalTasks),
						percent(p.CompletionRate),
						hours(p.PlannedTime),
						hours(p.ActualTime),
						hours(p.Variance),
						percent(p.Efficiency),
					})
				}
				headers := []string{"Project", "Client", "Team", "Tasks", "Done", "Planned", "Actual", "Variance", "Efficiency"}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, out))
				return nil
			},
		},
	)
	return cmd
}

var userHeaders = []string{"Member", "Role", "Tasks", "Done", "Planned", "Actual", "Efficiency"}

func userRows(rows []stats.UserStats) [][]string {
	out := make([][]string, 0, len(rows))
	for _, u := range rows {
		out = append(out, []string{
			u.User.Name,
			u.User.Role,
			strconv.Itoa(u.TotalTasks),
			percent(u.CompletionRate),
			hours(u.PlannedTime),
			hours(u.ActualTime),
			percent(u.Efficiency),
		})
	}
	return out
}

func printTeam(cmd *cobra.Command, app *App) error {
	team, err := app.Analytics.Team(cmd.Context())
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if team.TotalTasks == 0 {
		fmt.Fprintln(w, "No tasks yet. Run `sheetr seed` to load the demo data.")
		return nil
	}
	fmt.Fprintf(w, "Team: %d tasks, %d completed (%s), planned %s, actual %s, efficiency %s\n",
		team.TotalTasks, team.CompletedTasks, percent(team.CompletionRate),
		hours(team.PlannedTime), hours(team.ActualTime), percent(team.Efficiency))
	fmt.Fprintln(w, renderTable(userHeaders, userRows(team.ByUser)))
	return nil
}

func newTasksCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List tasks with progress and status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := app.Analytics.Tasks(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			out := make([][]string, 0, len(rows))
			tasks := make([]domain.Task, 0, len(rows))
			for _, r := range rows {
				tasks = append(tasks, r.Task)
				out = append(out, []string{
					r.Task.ID,
					r.ProjectName,
					r.Task.Title,
					r.AssigneeName,
					fmt.Sprintf("%s / %s", hours(r.Task.TimeSpent), hours(r.Task.EstimatedTime)),
					percent(r.Progress),
					r.Status.Label(),
				})
			}
			w := cmd.OutOrStdout()
			headers := []string{"ID", "Project", "Task", "Assignee", "Spent", "Progress", "Status"}
			fmt.Fprintln(w, renderTable(headers, out))

			b := stats.ByStatus(tasks)
			for i, s := range domain.Statuses {
				if i > 0 {
					fmt.Fprint(w, "  ")
				}
				fmt.Fprintf(w, "%s: %d", s.Label(), b[s])
			}
			fmt.Fprintln(w)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Only tasks of this project ID")
	return cmd
}
