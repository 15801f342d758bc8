package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
	slogmulti "github.com/samber/slog-multi"
)

const (
	DefaultBaseURL       = "http://localhost:3000"
	DefaultTestDir       = "./acceptance"
	DefaultOutputDir     = "test-results"
	DefaultReportDir     = "playwright-report"
	DefaultTimeout       = 60 * time.Second
	DefaultExpectTimeout = 5 * time.Second

	// ciWorkers caps parallel test cases when running on CI.
	ciWorkers = 4
	// taggedRetries is used on CI when sanity or regression tests are selected.
	taggedRetries = 2
)

var (
	ErrUnknownBrowser = errors.New("unknown browser")
	ErrUnknownDevice  = errors.New("unknown device")
)

// Config is the suite configuration consumed by the runner.
type Config struct {
	TestDir       string
	Timeout       time.Duration
	ExpectTimeout time.Duration
	FullyParallel bool
	// ForbidOnly fails the run if a case is marked as Only.
	ForbidOnly bool
	Retries    int
	// Workers limits concurrently running cases, 0 means unrestricted.
	Workers int
	// Grep selects cases by their full title (including tags), nil runs all.
	Grep      *regexp.Regexp
	Reporters []Reporter
	OutputDir string
	Use       Use
	Projects  []Project
	LogLevel  slog.Level
}

// Use holds options shared by all projects.
type Use struct {
	BaseURL    string
	Headless   bool
	Trace      TraceMode
	Screenshot Screenshot
	Video      VideoMode
}

type Screenshot struct {
	Mode     ScreenshotMode
	FullPage bool
}

// Load reads an optional .env file and builds the configuration from the environment.
// Variables already present in the environment are not overwritten by .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from the given environment lookup.
func FromEnv(getenv func(string) string) (*Config, error) {
	ci := getenv("CI")
	testTags := getenv("TEST_TAGS")

	grep, err := GrepFor(testTags)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		TestDir:       DefaultTestDir,
		Timeout:       DefaultTimeout,
		ExpectTimeout: DefaultExpectTimeout,
		FullyParallel: true,
		ForbidOnly:    isSet(ci),
		Retries:       RetriesFor(ci, testTags),
		Workers:       WorkersFor(ci),
		Grep:          grep,
		Reporters: []Reporter{
			{Name: ReporterHTML, Open: "never", OutputFolder: valueOr(getenv("E2E_REPORT_DIR"), DefaultReportDir)},
			{Name: ReporterList},
		},
		OutputDir: valueOr(getenv("E2E_OUTPUT_DIR"), DefaultOutputDir),
		Use: Use{
			BaseURL:  strings.TrimSuffix(valueOr(getenv("BASE_URL"), DefaultBaseURL), "/"),
			Headless: getenv("HEADLESS") != "false",
			Trace:    TraceOn,
			Screenshot: Screenshot{
				Mode:     ScreenshotOnlyOnFailure,
				FullPage: true,
			},
			Video: VideoRetainOnFailure,
		},
		Projects: DefaultProjects(),
	}

	if v := getenv("E2E_TRACE"); v != "" {
		if cfg.Use.Trace, err = ParseTraceMode(v); err != nil {
			return nil, err
		}
	}
	if v := getenv("E2E_SCREENSHOT"); v != "" {
		if cfg.Use.Screenshot.Mode, err = ParseScreenshotMode(v); err != nil {
			return nil, err
		}
	}
	if v := getenv("E2E_VIDEO"); v != "" {
		if cfg.Use.Video, err = ParseVideoMode(v); err != nil {
			return nil, err
		}
	}
	if v := getenv("E2E_LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("invalid E2E_LOG_LEVEL: %w", err)
		}
	}
	if v := getenv("E2E_PROJECTS"); v != "" {
		if cfg.Projects, err = selectProjects(cfg.Projects, v); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RetriesFor returns the retry count for a run. Retries only happen on CI and
// only when sanity or regression tests are selected.
func RetriesFor(ci, testTags string) int {
	if !isSet(ci) {
		return 0
	}
	if strings.Contains(testTags, "@sanity") || strings.Contains(testTags, "@regression") {
		return taggedRetries
	}
	return 0
}

// WorkersFor returns the worker limit, 0 meaning unrestricted.
func WorkersFor(ci string) int {
	if isSet(ci) {
		return ciWorkers
	}
	return 0
}

// GrepFor compiles the tag filter. An empty value selects all cases.
func GrepFor(testTags string) (*regexp.Regexp, error) {
	if testTags == "" {
		return nil, nil
	}
	re, err := regexp.Compile(testTags)
	if err != nil {
		return nil, fmt.Errorf("compiling TEST_TAGS %q: %w", testTags, err)
	}
	return re, nil
}

// Validate checks the configuration for values the runner cannot work with.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.ExpectTimeout <= 0 {
		return fmt.Errorf("expect timeout must be positive, got %s", c.ExpectTimeout)
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must not be negative, got %d", c.Retries)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if len(c.Projects) == 0 {
		return errors.New("at least one project is required")
	}
	if dups := lo.FindDuplicates(lo.Map(c.Projects, func(p Project, _ int) string { return p.Name })); len(dups) > 0 {
		return fmt.Errorf("duplicate project names: %s", strings.Join(dups, ", "))
	}
	for _, p := range c.Projects {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Logger returns a text logger writing to w at the configured level. Records are
// also passed to any extra handlers.
func (c *Config) Logger(w io.Writer, extra ...slog.Handler) *slog.Logger {
	text := slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel})
	if len(extra) == 0 {
		return slog.New(text)
	}
	return slog.New(slogmulti.Fanout(append([]slog.Handler{text}, extra...)...))
}

// Reporter returns the reporter configuration with the given name.
func (c *Config) Reporter(name string) (Reporter, bool) {
	return lo.Find(c.Reporters, func(r Reporter) bool { return r.Name == name })
}

// URL joins a path onto the base URL.
func (u Use) URL(path string) string {
	if path == "" || path == "/" {
		return u.BaseURL + "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return u.BaseURL + path
}

func isSet(v string) bool {
	return v != ""
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
