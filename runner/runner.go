package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/playwright-community/playwright-go"
	"github.com/samber/lo"
	"golang.org/x/sync/semaphore"

	"github.com/networkteam/e2esuite/config"
	"github.com/networkteam/e2esuite/report"
)

// ErrForbidOnly is returned when a case is focused with Only while the configuration forbids it.
var ErrForbidOnly = errors.New("focused case found while forbidOnly is set")

// defaultTeardownGrace is how long a timed out body may keep running after its cleanups.
const defaultTeardownGrace = 5 * time.Second

// Case is one test, run once per project.
type Case struct {
	Title string
	// Tags like "@sanity" are appended to the title for grep matching.
	Tags []string
	// Only focuses the run on the cases marking it.
	Only bool
	Skip bool
	Fn   func(t *T)
}

func (c Case) FullTitle() string {
	return report.FullTitle(c.Title, c.Tags)
}

// Env is what a project provides to each of its cases.
type Env struct {
	Project config.Project
	Browser playwright.Browser
	Device  *playwright.DeviceDescriptor
}

// Runner executes cases against all configured projects.
type Runner struct {
	cfg           *config.Config
	launcher      Launcher
	reporter      report.Reporter
	logger        *slog.Logger
	workers       *semaphore.Weighted
	teardownGrace time.Duration
}

type runnerOptions struct {
	launcher      Launcher
	reporter      report.Reporter
	logger        *slog.Logger
	teardownGrace time.Duration
}

// Option configures a Runner.
type Option func(*runnerOptions)

// WithLauncher sets the browser launcher. Default is a PlaywrightLauncher.
func WithLauncher(l Launcher) Option {
	return func(o *runnerOptions) {
		o.launcher = l
	}
}

// WithReporter sets the reporter. Default are the reporters of the configuration.
func WithReporter(r report.Reporter) Option {
	return func(o *runnerOptions) {
		o.reporter = r
	}
}

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *runnerOptions) {
		o.logger = l
	}
}

// WithTeardownGrace sets how long to wait for a timed out case body after teardown.
func WithTeardownGrace(d time.Duration) Option {
	return func(o *runnerOptions) {
		o.teardownGrace = d
	}
}

func New(cfg *config.Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	o := runnerOptions{teardownGrace: defaultTeardownGrace}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.launcher == nil {
		o.launcher = NewPlaywrightLauncher(cfg)
	}
	if o.reporter == nil {
		reporters, err := report.New(cfg)
		if err != nil {
			return nil, err
		}
		o.reporter = reporters
	}

	r := &Runner{
		cfg:           cfg,
		launcher:      o.launcher,
		reporter:      o.reporter,
		logger:        o.logger,
		teardownGrace: o.teardownGrace,
	}
	if cfg.Workers > 0 {
		r.workers = semaphore.NewWeighted(int64(cfg.Workers))
	}
	return r, nil
}

// Close releases all browsers.
func (r *Runner) Close() error {
	return r.launcher.Close()
}

// Select applies the forbid-only check, the Only focus and the grep filter.
func (r *Runner) Select(cases []Case) ([]Case, error) {
	if dups := lo.FindDuplicates(lo.Map(cases, func(c Case, _ int) string { return c.Title })); len(dups) > 0 {
		return nil, fmt.Errorf("duplicate case titles: %v", dups)
	}
	for _, c := range cases {
		if c.Title == "" || c.Fn == nil {
			return nil, fmt.Errorf("case %q needs a title and a body", c.Title)
		}
	}

	focused := lo.Filter(cases, func(c Case, _ int) bool { return c.Only })
	if len(focused) > 0 {
		if r.cfg.ForbidOnly {
			return nil, fmt.Errorf("%w: %s", ErrForbidOnly, focused[0].Title)
		}
		cases = focused
	}

	if r.cfg.Grep == nil {
		return cases, nil
	}
	return lo.Filter(cases, func(c Case, _ int) bool {
		return r.cfg.Grep.MatchString(c.FullTitle())
	}), nil
}

// Run executes the selected cases as subtests of t, one group per project, and
// reports the results. Cases with an unexpected outcome fail their subtest.
func (r *Runner) Run(t *testing.T, cases ...Case) report.Summary {
	t.Helper()

	selected, err := r.Select(cases)
	if err != nil {
		t.Fatal(err)
	}

	runID := uuid.Must(uuid.NewV4())
	start := time.Now()
	r.logger.Info("Starting run", "run", runID, "cases", len(selected), "projects", len(r.cfg.Projects), "retries", r.cfg.Retries, "workers", r.cfg.Workers)
	r.reporter.OnBegin(len(selected) * len(r.cfg.Projects))

	var (
		mu      sync.Mutex
		results []report.TestResult
	)
	collect := func(res report.TestResult) {
		r.reporter.OnTestEnd(res)
		mu.Lock()
		results = append(results, res)
		mu.Unlock()
	}

	t.Run("projects", func(t *testing.T) {
		for _, project := range r.cfg.Projects {
			t.Run(project.Name, func(t *testing.T) {
				if r.cfg.FullyParallel {
					t.Parallel()
				}

				browser, launchErr := r.launcher.Browser(project)
				if launchErr != nil {
					r.logger.Error("Launching browser failed", "project", project.Name, "error", launchErr)
				}
				env := Env{Project: project, Browser: browser, Device: r.launcher.Device(project)}

				for _, c := range selected {
					t.Run(c.Title, func(t *testing.T) {
						if r.cfg.FullyParallel {
							t.Parallel()
						}

						var res report.TestResult
						if launchErr != nil {
							res = erroredResult(project, c, fmt.Errorf("launching %s: %w", project.BrowserName, launchErr))
						} else {
							res = r.runWithWorker(context.Background(), env, c)
						}
						collect(res)

						switch res.Outcome {
						case report.OutcomeUnexpected:
							final := res.Attempts[len(res.Attempts)-1]
							for _, e := range final.Errors {
								t.Errorf("[%s] %s", final.Status, e.Message)
							}
							if len(final.Errors) == 0 {
								t.Errorf("[%s] %s", final.Status, c.FullTitle())
							}
						case report.OutcomeSkipped:
							t.SkipNow()
						case report.OutcomeFlaky:
							t.Logf("flaky: passed on retry #%d", res.Retries())
						}
					})
				}
			})
		}
	})

	summary := report.NewSummary(runID, start, time.Since(start), results)
	r.logger.Info("Finished run", "run", runID, "passed", summary.Expected, "failed", summary.Unexpected, "flaky", summary.Flaky, "skipped", summary.Skipped)
	if err := r.reporter.OnEnd(summary); err != nil {
		t.Errorf("reporting: %v", err)
	}
	return summary
}

func (r *Runner) runWithWorker(ctx context.Context, env Env, c Case) report.TestResult {
	if r.workers != nil {
		if err := r.workers.Acquire(ctx, 1); err != nil {
			return erroredResult(env.Project, c, fmt.Errorf("waiting for worker: %w", err))
		}
		defer r.workers.Release(1)
	}
	return r.RunCase(ctx, env, c)
}

// RunCase runs a case with retries until an attempt passes or all retries are used.
// Every attempt starts from scratch with a fresh T.
func (r *Runner) RunCase(ctx context.Context, env Env, c Case) report.TestResult {
	project := env.Project
	if c.Skip {
		return report.NewTestResult(project.Name, c.Title, c.Tags, []report.Attempt{{Status: report.StatusSkipped, Start: time.Now()}})
	}

	var attempts []report.Attempt
	for retry := 0; retry <= r.cfg.Retries; retry++ {
		a := r.runAttempt(ctx, env, c, retry)
		attempts = append(attempts, a)
		if a.Status == report.StatusPassed || a.Status == report.StatusSkipped || ctx.Err() != nil {
			break
		}
	}

	res := report.NewTestResult(project.Name, c.Title, c.Tags, attempts)
	r.logger.Info("Finished test", "project", project.Name, "test", c.FullTitle(), "outcome", res.Outcome, "attempts", len(attempts), "duration", res.Duration())
	return res
}

func (r *Runner) runAttempt(ctx context.Context, env Env, c Case, retry int) report.Attempt {
	attemptCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	project := env.Project
	t := &T{
		title:   c.Title,
		tags:    c.Tags,
		project: project,
		cfg:     r.cfg,
		browser: env.Browser,
		device:  env.Device,
		retry:   retry,
		ctx:     attemptCtx,
		logger:  r.logger,
	}

	r.logger.Debug("Starting attempt", "project", project.Name, "test", c.FullTitle(), "retry", retry)
	start := time.Now()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if p := recover(); p != nil {
				t.recordPanic(p)
			}
		}()
		c.Fn(t)
	}()

	timedOut := false
	select {
	case <-done:
	case <-attemptCtx.Done():
		if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			timedOut = true
			t.markTimedOut(r.cfg.Timeout)
		} else {
			t.markInterrupted(attemptCtx.Err())
		}
	}

	// Teardown releases the browser context, which unblocks a body stuck in a browser call.
	t.runCleanups()

	select {
	case <-done:
	case <-time.After(r.teardownGrace):
		r.logger.Warn("Test body still running after teardown", "project", project.Name, "test", c.FullTitle(), "retry", retry)
	}
	t.runCleanups()

	a := t.finish(start, timedOut)
	r.logger.Debug("Finished attempt", "project", project.Name, "test", c.FullTitle(), "retry", retry, "status", a.Status, "duration", a.Duration)
	return a
}

func erroredResult(project config.Project, c Case, err error) report.TestResult {
	return report.NewTestResult(project.Name, c.Title, c.Tags, []report.Attempt{{
		Status: report.StatusErrored,
		Start:  time.Now(),
		Errors: []report.TestError{{Message: err.Error()}},
	}})
}
