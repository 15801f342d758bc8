//go:build acceptance
// +build acceptance

package acceptance

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/networkteam/e2esuite/config"
	"github.com/networkteam/e2esuite/runner"
)

// WithSuite loads the configuration, starts the local test app unless BASE_URL
// points to a deployed site, and runs the cases against all configured projects.
func WithSuite(t *testing.T, cases ...runner.Case) {
	t.Helper()

	cfg, err := config.Load()
	require.NoError(t, err, "failed to load configuration")

	require.NoError(t, os.MkdirAll(cfg.OutputDir, 0o755))
	logFile, err := os.Create(filepath.Join(cfg.OutputDir, "run.log"))
	require.NoError(t, err, "failed to create run log")
	t.Cleanup(func() { logFile.Close() })

	logger := cfg.Logger(os.Stderr, slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if os.Getenv("BASE_URL") == "" {
		app := NewTestApp(t, logger)
		cfg.Use.BaseURL = app.URL
	}

	r, err := runner.New(cfg, runner.WithLogger(logger))
	require.NoError(t, err, "failed to create runner")
	t.Cleanup(func() {
		if err := r.Close(); err != nil {
			t.Logf("closing browsers: %v", err)
		}
	})

	r.Run(t, cases...)
}
