package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/sheetr/internal/fixture"
)

func newSeedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo users, projects and tasks into an empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ok := app.Repos.(Seeder)
			if !ok {
				return errors.New("seed needs the sqlite source")
			}
			seeded, err := s.Seed(cmd.Context(), fixture.Load())
			if err != nil {
				return err
			}
			if !seeded {
				fmt.Fprintln(cmd.OutOrStdout(), "Database already has data; nothing seeded.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Seeded demo data.")
			return nil
		},
	}
}
