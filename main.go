package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/sadopc/sheetr/internal/cli"
	"github.com/sadopc/sheetr/internal/config"
	"github.com/sadopc/sheetr/internal/service"
	"github.com/sadopc/sheetr/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.App{
		Config:        config.Load(),
		IsInteractive: interactive,
		RunTUI:        runTUI,
	}
	defer app.Close()

	return cli.Execute(context.Background(), app)
}

func interactive() bool {
	in, out := os.Stdin.Fd(), os.Stdout.Fd()
	return (isatty.IsTerminal(in) || isatty.IsCygwinTerminal(in)) &&
		(isatty.IsTerminal(out) || isatty.IsCygwinTerminal(out))
}

// runTUI owns the terminal, so use-case events go to the log file.
func runTUI(ctx context.Context, app *cli.App) error {
	logPath := app.Config.LogFile
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	logged := cli.NewApp(app.Config, app.Repos, nil, service.NewLogUseCaseObserver(f))
	return tui.Run(ctx, tui.Services{
		Config:    app.Config,
		Analytics: logged.Analytics,
		Timesheet: logged.Timesheet,
		Tracking:  logged.Tracking,
		Reports:   logged.Reports,
		Tasks:     app.Repos,
		Settings:  app.Repos,
		Now:       app.Now,
	})
}
