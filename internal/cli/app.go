package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sadopc/sheetr/internal/auth"
	"github.com/sadopc/sheetr/internal/config"
	"github.com/sadopc/sheetr/internal/fixture"
	"github.com/sadopc/sheetr/internal/livetimer"
	"github.com/sadopc/sheetr/internal/repository"
	"github.com/sadopc/sheetr/internal/service"
	"github.com/sadopc/sheetr/internal/store"
)

// Seeder is implemented by persistent sources that can load the demo data.
type Seeder interface {
	Seed(ctx context.Context, d fixture.Data) (bool, error)
}

// App holds the wired services shared by every command.
type App struct {
	Config config.Config

	Repos     repository.Repos
	Analytics *service.Analytics
	Timesheet *service.Timesheet
	Tracking  *service.Tracking
	Reports   *service.Reports
	Exchanger auth.Exchanger
	Observer  service.UseCaseObserver

	// IsInteractive reports whether the bare command should open the TUI.
	IsInteractive func() bool
	// RunTUI starts the dashboard; nil disables it.
	RunTUI func(ctx context.Context, app *App) error
	// Now is the wall clock used for week selection.
	Now func() time.Time

	closers []io.Closer
}

// NewApp wires services over repos. The week start and hourly rate are
// read from repos' settings, falling back to cfg.
func NewApp(cfg config.Config, repos repository.Repos, clock livetimer.Clock, obs service.UseCaseObserver) *App {
	if obs == nil {
		obs = service.NoopUseCaseObserver{}
	}
	weekStart := repos.SettingString(context.Background(), "week_start", cfg.WeekStart)
	sheet := service.NewTimesheet(repos, weekStart, obs)
	return &App{
		Config:    cfg,
		Repos:     repos,
		Analytics: service.NewAnalytics(repos, obs),
		Timesheet: sheet,
		Tracking:  service.NewTracking(repos, repos, sheet, clock, obs),
		Reports:   service.NewReports(repos, obs),
		Exchanger: &auth.OAuthExchanger{
			TokenURL:     cfg.Auth.TokenURL,
			ClientID:     cfg.Auth.ClientID,
			ClientSecret: cfg.Auth.ClientSecret,
		},
		Observer: obs,
		Now:      time.Now,
	}
}

// Open builds an App from cfg: either the SQLite store or the in-memory
// fixture. Use-case events go to logw when it is non-nil.
func Open(cfg config.Config, logw io.Writer) (*App, error) {
	var obs service.UseCaseObserver = service.NoopUseCaseObserver{}
	if logw != nil {
		obs = service.NewLogUseCaseObserver(logw)
	}

	if cfg.Source == config.SourceFixture {
		d := fixture.Load()
		return NewApp(cfg, repository.NewMemory(d.Users, d.Projects, d.Tasks), nil, obs), nil
	}

	s, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	app := NewApp(cfg, s, nil, obs)
	app.closers = append(app.closers, s)
	return app, nil
}

// Close releases the data source.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// HourlyRate prefers the stored setting over the configured default.
func (a *App) HourlyRate(ctx context.Context) float64 {
	return a.Repos.SettingFloat(ctx, "hourly_rate", a.Config.HourlyRate)
}

// PageSize prefers the stored setting over the configured default.
func (a *App) PageSize(ctx context.Context) int {
	n := int(a.Repos.SettingFloat(ctx, "page_size", float64(a.Config.PageSize)))
	if n <= 0 {
		return a.Config.PageSize
	}
	return n
}

// TokenPath is where login stores the bearer token.
func (a *App) TokenPath() string {
	dir := filepath.Dir(a.Config.DBPath)
	if a.Config.DBPath == "" {
		if d, err := os.UserConfigDir(); err == nil {
			dir = filepath.Join(d, "sheetr")
		}
	}
	return filepath.Join(dir, "token.json")
}
