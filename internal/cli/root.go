package cli

import (
	"context"
	"io"
	"os"

	"github.com/sadopc/sheetr/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type rootFlags struct {
	db      string
	fixture bool
	verbose bool
}

func (f *rootFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.db, "db", "", "SQLite database path (overrides SHEETR_DB)")
	fs.BoolVar(&f.fixture, "fixture", false, "Use the built-in demo data instead of the database")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "Log service use cases to stderr")
}

func (f *rootFlags) apply(cfg *config.Config) {
	if f.db != "" {
		cfg.DBPath = f.db
	}
	if f.fixture {
		cfg.Source = config.SourceFixture
	}
}

// NewRootCmd creates the top-level "sheetr" command. When app has no
// repositories yet, they are opened from app.Config after flag parsing.
func NewRootCmd(app *App) *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:           "sheetr",
		Short:         "Project progress and weekly timesheets in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Repos != nil {
				return nil
			}
			flags.apply(&app.Config)
			var logw io.Writer
			if flags.verbose {
				logw = cmd.ErrOrStderr()
			}
			opened, err := Open(app.Config, logw)
			if err != nil {
				return err
			}
			hooks := *app
			*app = *opened
			app.IsInteractive = hooks.IsInteractive
			app.RunTUI = hooks.RunTUI
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.RunTUI != nil && app.IsInteractive != nil && app.IsInteractive() {
				return app.RunTUI(cmd.Context(), app)
			}
			return printTeam(cmd, app)
		},
	}

	flags.register(root.PersistentFlags())

	root.AddCommand(
		newStatsCmd(app),
		newTasksCmd(app),
		newSheetCmd(app),
		newTrackCmd(app),
		newSessionsCmd(app),
		newSettingsCmd(app),
		newExportCmd(app),
		newLoginCmd(app),
		newSeedCmd(app),
	)

	return root
}

// Execute runs the command tree against os.Args.
func Execute(ctx context.Context, app *App) error {
	root := NewRootCmd(app)
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	return root.ExecuteContext(ctx)
}
