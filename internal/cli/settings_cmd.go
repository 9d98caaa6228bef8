package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/sadopc/sheetr/internal/store"
)

// SettingsLister is implemented by sources that can enumerate stored settings.
type SettingsLister interface {
	GetAllSettings(ctx context.Context) ([]store.Setting, error)
}

var settingNames = []string{"daily_goal", "hourly_rate", "page_size", "week_start"}

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "List stored settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lister, ok := app.Repos.(SettingsLister)
			if !ok {
				return errors.New("listing settings needs the sqlite source")
			}
			all, err := lister.GetAllSettings(cmd.Context())
			if err != nil {
				return err
			}
			if len(all) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No settings stored; defaults apply.")
				return nil
			}
			rows := make([][]string, 0, len(all))
			for _, s := range all {
				rows = append(rows, []string{s.Key, s.Value})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Key", "Value"}, rows))
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a setting (daily_goal, hourly_rate, page_size, week_start)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(settingNames, args[0]) {
				return fmt.Errorf("unknown setting %q", args[0])
			}
			if err := app.Repos.SetSetting(cmd.Context(), args[0], args[1]); err != nil {
				return fmt.Errorf("saving %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
			return nil
		},
	})
	return cmd
}
