package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sadopc/sheetr/internal/auth"
	"github.com/sadopc/sheetr/internal/config"
	"github.com/sadopc/sheetr/internal/fixture"
	"github.com/sadopc/sheetr/internal/repository"
	"github.com/sadopc/sheetr/internal/store"
	"github.com/sadopc/sheetr/internal/timesheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires an App over the in-memory fixture.
func testApp(t *testing.T) *App {
	t.Helper()
	d := fixture.Load()
	cfg := config.DefaultConfig()
	cfg.DBPath = filepath.Join(t.TempDir(), "sheetr.db")
	app := NewApp(cfg, repository.NewMemory(d.Users, d.Projects, d.Tasks), nil, nil)
	app.Now = func() time.Time { return time.Date(2024, 3, 13, 10, 0, 0, 0, time.Local) }
	return app
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(new(bytes.Buffer))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

// --- root command ---

func TestRootCmd_NonInteractivePrintsTeam(t *testing.T) {
	app := testApp(t)
	app.IsInteractive = func() bool { return false }
	app.RunTUI = func(context.Context, *App) error { return errors.New("should not run") }

	out, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, out, "Team: 9 tasks, 3 completed (33%)")
	assert.Contains(t, out, "Priya Nair")
	assert.Contains(t, out, "Unassigned")
}

func TestRootCmd_InteractiveRunsTUI(t *testing.T) {
	app := testApp(t)
	app.IsInteractive = func() bool { return true }
	ran := false
	app.RunTUI = func(_ context.Context, a *App) error {
		ran = a == app
		return nil
	}

	_, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestRootCmd_OpensFixtureFromFlag(t *testing.T) {
	app := &App{Config: config.DefaultConfig()}

	out, err := executeCmd(t, app, "--fixture", "stats", "team")
	require.NoError(t, err)
	assert.Contains(t, out, "Team: 9 tasks")
	assert.Equal(t, config.SourceFixture, app.Config.Source)
	require.NoError(t, app.Close())
}

func TestRootCmd_OpensDatabaseFromFlag(t *testing.T) {
	app := &App{Config: config.DefaultConfig()}
	path := filepath.Join(t.TempDir(), "nested", "sheetr.db")

	out, err := executeCmd(t, app, "--db", path, "stats", "team")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks yet")
	require.NoError(t, app.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

// --- stats and tasks ---

func TestStatsUsersCmd(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "stats", "users")
	require.NoError(t, err)
	assert.Contains(t, out, "Sarah Chen")
	assert.Contains(t, out, "Elena Rossi")
	assert.NotContains(t, out, "Unassigned")
}

func TestStatsProjectsCmd(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "stats", "projects")
	require.NoError(t, err)
	assert.Contains(t, out, "Website Redesign")
	assert.Contains(t, out, "-6h 00m")
}

func TestTasksCmd_ProjectFilter(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "tasks", "--project", "p3")
	require.NoError(t, err)
	assert.Contains(t, out, "Load testing")
	assert.Contains(t, out, "Unassigned")
	assert.NotContains(t, out, "Homepage wireframes")
	assert.Contains(t, out, "Not Started: 1")
}

// --- sheet ---

func TestSheetSetAndShow(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "sheet", "set", "t1", "monday", "2", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "t1 Mon: 2h 30m")

	_, err = executeCmd(t, app, "sheet", "set", "t2", "wed", "1", "75")
	require.NoError(t, err)

	out, err = executeCmd(t, app, "sheet", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Week of Mon Mar 11, 2024")
	assert.Contains(t, out, "Homepage wireframes")
	assert.Contains(t, out, "1h 59m")
	assert.Contains(t, out, "4h 29m")

	out, err = executeCmd(t, app, "sheet", "show", "--date", "2024-03-18")
	require.NoError(t, err)
	assert.NotContains(t, out, "Homepage wireframes")
}

func TestSheetSet_Errors(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "sheet", "set", "t1", "someday", "1")
	assert.ErrorContains(t, err, "invalid day")

	_, err = executeCmd(t, app, "sheet", "set", "t1", "mon", "one")
	assert.ErrorIs(t, err, timesheet.ErrInvalidCell)

	_, err = executeCmd(t, app, "sheet", "set", "nope", "mon", "1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = executeCmd(t, app, "sheet", "show", "--date", "13/03/2024")
	assert.ErrorContains(t, err, "invalid date")
}

func TestNormalizeDay(t *testing.T) {
	for in, want := range map[string]string{"mon": "Mon", "MONDAY": "Mon", " Sun ": "Sun", "thu": "Thu"} {
		got, err := normalizeDay(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := normalizeDay("mo")
	assert.Error(t, err)
}

// --- track ---

func TestTrackCmd_StopsAfterLimit(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "track", "t2", "--for", "50ms", "--interval", "10ms")
	require.NoError(t, err)
	assert.Contains(t, out, `Tracking "CMS content migration"`)
	assert.Contains(t, out, "Tracked 00:00:00")
	assert.Empty(t, app.Tracking.Running())
}

func TestTrackCmd_Errors(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "track", "nope", "--for", "10ms")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = executeCmd(t, app, "track", "t2", "--interval", "0s")
	assert.ErrorContains(t, err, "invalid --interval")
}

// --- sessions ---

func TestSessionsCmd(t *testing.T) {
	s, err := store.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	_, err = s.Seed(context.Background(), fixture.Load())
	require.NoError(t, err)
	app := NewApp(config.DefaultConfig(), s, nil, nil)

	out, err := executeCmd(t, app, "sessions")
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions recorded.")
	assert.Contains(t, out, "Today: 00:00:00")

	end := time.Now()
	require.NoError(t, s.LogEntry(context.Background(), &repository.TimeEntry{
		TaskID: "t1", Start: end.Add(-90 * time.Second), End: end, Duration: 90,
	}))
	require.NoError(t, s.LogEntry(context.Background(), &repository.TimeEntry{
		TaskID: "t1", Start: end.Add(-30 * time.Second), End: end, Duration: 30,
	}))

	out, err = executeCmd(t, app, "sessions", "--days", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Homepage wireframes")
	assert.Contains(t, out, "00:02:00")
	assert.Contains(t, out, "Today: 00:02:00")
}

func TestSessionsCmd_Errors(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "sessions")
	assert.ErrorContains(t, err, "sqlite")

	_, err = executeCmd(t, testApp(t), "sessions", "--days", "0")
	assert.ErrorContains(t, err, "invalid --days")
}

// --- settings ---

func TestSettingsCmd(t *testing.T) {
	s, err := store.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	app := NewApp(config.DefaultConfig(), s, nil, nil)

	out, err := executeCmd(t, app, "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "defaults apply")

	out, err = executeCmd(t, app, "settings", "set", "hourly_rate", "120")
	require.NoError(t, err)
	assert.Contains(t, out, "hourly_rate = 120")
	assert.Equal(t, 120.0, app.HourlyRate(context.Background()))

	out, err = executeCmd(t, app, "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "hourly_rate")
	assert.Contains(t, out, "120")

	_, err = executeCmd(t, app, "settings", "set", "colour", "blue")
	assert.ErrorContains(t, err, "unknown setting")
}

func TestSettingsCmd_FixtureSource(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "settings")
	assert.ErrorContains(t, err, "sqlite")

	app := testApp(t)
	_, err = executeCmd(t, app, "settings", "set", "page_size", "5")
	require.NoError(t, err)
	assert.Equal(t, 5, app.PageSize(context.Background()))
}

// --- export ---

func TestExportCmds(t *testing.T) {
	app := testApp(t)
	dir := t.TempDir()

	out, err := executeCmd(t, app, "export", "csv", filepath.Join(dir, "r.csv"))
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 9 rows")

	_, err = executeCmd(t, app, "export", "json", "--rate", "100", filepath.Join(dir, "r.json"))
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "r.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total_cost": 4000`)

	_, err = executeCmd(t, app, "export", "doc", "--page-size", "4", filepath.Join(dir, "r.txt"))
	require.NoError(t, err)
	data, err = os.ReadFile(filepath.Join(dir, "r.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Page 3 of 3")
}

func TestExportCmd_UsesStoredRate(t *testing.T) {
	app := testApp(t)
	require.NoError(t, app.Repos.SetSetting(context.Background(), "hourly_rate", "10"))
	path := filepath.Join(t.TempDir(), "r.json")

	_, err := executeCmd(t, app, "export", "json", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total_cost": 400`)
}

// --- login ---

func TestLoginCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("password") != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Write([]byte(`{"access_token":"tok-123","token_type":"bearer"}`))
	}))
	defer srv.Close()

	app := testApp(t)
	app.Exchanger = &auth.OAuthExchanger{TokenURL: srv.URL, ClientID: "sheetr"}

	out, err := executeCmd(t, app, "login", "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in.")

	out, err = executeCmd(t, app, "login", "--id", "sarah", "--secret", "hunter2")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as sarah")

	out, err = executeCmd(t, app, "login", "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in; token stored in "+app.TokenPath())
	assert.NotContains(t, out, "tok-123")

	tok, err := auth.LoadToken(app.TokenPath())
	require.NoError(t, err)
	assert.Equal(t, "tok-123", tok)

	_, err = executeCmd(t, app, "login", "--id", "sarah", "--secret", "wrong")
	assert.ErrorIs(t, err, auth.ErrRejected)

	_, err = executeCmd(t, app, "login")
	assert.ErrorContains(t, err, "--id is required")
}

func TestLoginCmd_NoEndpoint(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "login", "--id", "a", "--secret", "b")
	assert.ErrorIs(t, err, auth.ErrNoEndpoint)
}

func TestLoginCmd_StatusCorruptToken(t *testing.T) {
	app := testApp(t)
	require.NoError(t, os.WriteFile(app.TokenPath(), []byte("not json"), 0o600))

	_, err := executeCmd(t, app, "login", "--status")
	assert.ErrorContains(t, err, "decode token")
}

// --- seed ---

func TestSeedCmd(t *testing.T) {
	s, err := store.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	app := NewApp(config.DefaultConfig(), s, nil, nil)

	out, err := executeCmd(t, app, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded demo data.")

	out, err = executeCmd(t, app, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing seeded")

	out, err = executeCmd(t, app, "stats", "team")
	require.NoError(t, err)
	assert.Contains(t, out, "Team: 9 tasks")
}

func TestSeedCmd_FixtureSource(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "seed")
	assert.ErrorContains(t, err, "sqlite")
}
