//go:build acceptance
// +build acceptance

package acceptance

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/e2esuite/config"
	"github.com/networkteam/e2esuite/fixtures"
	"github.com/networkteam/e2esuite/report"
	"github.com/networkteam/e2esuite/runner"
)

// TestPageObjectsFailOnBrokenPages runs the page object actions against broken
// variants of the test app. Each must fail its attempt and keep the failure artifacts.
func TestPageObjectsFailOnBrokenPages(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	launcherCfg := brokenPageConfig(t, "http://127.0.0.1")
	launcher := runner.NewPlaywrightLauncher(launcherCfg)
	t.Cleanup(func() { launcher.Close() })

	project := launcherCfg.Projects[0]
	browser, err := launcher.Browser(project)
	require.NoError(t, err, "failed to launch browser")
	env := runner.Env{Project: project, Browser: browser, Device: launcher.Device(project)}

	tests := []struct {
		name string
		app  TestAppOptions
		fn   func(t *runner.T, f *fixtures.Fixtures)
	}{
		{
			name: "missing heading",
			app:  TestAppOptions{OmitHeading: true},
			fn:   func(t *runner.T, f *fixtures.Fixtures) { f.MainPage.OpenMainPage() },
		},
		{
			name: "different heading text",
			app:  TestAppOptions{Heading: "Something else"},
			fn:   func(t *runner.T, f *fixtures.Fixtures) { f.MainPage.OpenMainPage() },
		},
		{
			name: "hidden image link",
			app:  TestAppOptions{HideImageLink: true},
			fn:   func(t *runner.T, f *fixtures.Fixtures) { f.MainPage.OpenMainPageWithImageLink() },
		},
		{
			name: "login redirected elsewhere",
			app:  TestAppOptions{LoginRedirect: "/signin"},
			fn:   func(t *runner.T, f *fixtures.Fixtures) { f.AuthPage.OpenAuthPage() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := NewTestAppWithOptions(t, logger, tt.app)
			cfg := brokenPageConfig(t, app.URL)

			r, err := runner.New(cfg,
				runner.WithLauncher(launcher),
				runner.WithReporter(report.Multi{}),
				runner.WithLogger(logger),
			)
			require.NoError(t, err)

			res := r.RunCase(context.Background(), env, runner.Case{
				Title: tt.name,
				Fn:    fixtures.With(tt.fn),
			})

			require.Len(t, res.Attempts, 1)
			attempt := res.Attempts[0]
			assert.Equal(t, report.StatusFailed, attempt.Status)
			assert.Equal(t, report.OutcomeUnexpected, res.Outcome)
			require.NotEmpty(t, attempt.Errors)

			byName := lo.KeyBy(attempt.Attachments, func(a report.Attachment) string { return a.Name })
			for _, name := range []string{"screenshot", "trace", "video"} {
				att, ok := byName[name]
				if assert.True(t, ok, "missing %s attachment", name) {
					assert.FileExists(t, att.Path)
				}
			}
		})
	}
}

func brokenPageConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()

	cfg, err := config.FromEnv(func(key string) string {
		switch key {
		case "BASE_URL":
			return baseURL
		case "E2E_PROJECTS":
			return "chromium"
		case "HEADLESS":
			return os.Getenv("HEADLESS")
		}
		return ""
	})
	require.NoError(t, err)

	cfg.ExpectTimeout = 500 * time.Millisecond
	cfg.Timeout = 20 * time.Second
	cfg.OutputDir = t.TempDir()
	return cfg
}
