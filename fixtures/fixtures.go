// Package fixtures provides the browser context, page and page objects of a test
// attempt. Everything created here is torn down by the cleanups of the attempt.
package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/networkteam/e2esuite/artifacts"
	"github.com/networkteam/e2esuite/config"
	"github.com/networkteam/e2esuite/pages"
	"github.com/networkteam/e2esuite/report"
	"github.com/networkteam/e2esuite/runner"
)

const (
	stageContext     = "context"
	stagePage        = "page"
	stagePageObjects = "page objects"
)

// Fixtures is created fresh for every attempt.
type Fixtures struct {
	Context playwright.BrowserContext
	Page    playwright.Page
	Console *artifacts.ConsoleRecorder

	MainPage *pages.MainPage
	AuthPage *pages.AuthPage

	tracing bool
}

// With adapts a body taking fixtures to a case body.
func With(fn func(t *runner.T, f *Fixtures)) func(t *runner.T) {
	return func(t *runner.T) {
		fn(t, New(t))
	}
}

// New sets up the context, the page and the page objects, in this order. A stage
// that fails aborts the attempt as errored; stages set up before it are still torn down.
func New(t *runner.T) *Fixtures {
	f := &Fixtures{}
	f.setupContext(t)
	f.setupPage(t)
	f.setupPageObjects(t)
	return f
}

func (f *Fixtures) setupContext(t *runner.T) {
	cfg := t.Config()
	if t.Browser() == nil {
		t.Setup(stageContext, fmt.Errorf("no browser for project %s", t.Project().Name))
	}

	outputDir := t.OutputDir()
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		t.Setup(stageContext, fmt.Errorf("creating output dir: %w", err))
	}

	ctx, err := t.Browser().NewContext(contextOptions(cfg, t.Device(), outputDir, t.Retry()))
	if err != nil {
		t.Setup(stageContext, fmt.Errorf("creating browser context: %w", err))
	}
	f.Context = ctx
	t.Cleanup(func() { f.teardown(t, outputDir) })

	if artifacts.ShouldStartTrace(cfg.Use.Trace, t.Retry()) {
		err := ctx.Tracing().Start(playwright.TracingStartOptions{
			Title:       playwright.String(t.Name()),
			Screenshots: playwright.Bool(true),
			Snapshots:   playwright.Bool(true),
			Sources:     playwright.Bool(true),
		})
		if err != nil {
			t.Setup(stageContext, fmt.Errorf("starting trace: %w", err))
		}
		f.tracing = true
	}
}

func (f *Fixtures) setupPage(t *runner.T) {
	page, err := f.Context.NewPage()
	if err != nil {
		t.Setup(stagePage, fmt.Errorf("creating page: %w", err))
	}
	f.Page = page

	f.Console = artifacts.NewConsoleRecorder(artifacts.DefaultConsoleCapacity)
	f.Console.Attach(page)
}

func (f *Fixtures) setupPageObjects(t *runner.T) {
	cfg := t.Config()
	if cfg.Use.BaseURL == "" {
		t.Setup(stagePageObjects, fmt.Errorf("base URL is empty"))
	}

	base := pages.NewBase(t, f.Page, cfg.Use.BaseURL, cfg.ExpectTimeout)
	f.MainPage = pages.NewMainPage(base)
	f.AuthPage = pages.NewAuthPage(base)
}

// teardown finalizes the artifacts of the attempt and closes the context.
func (f *Fixtures) teardown(t *runner.T, outputDir string) {
	cfg := t.Config()
	failed := t.Failed()

	if f.Page != nil && artifacts.ShouldScreenshot(cfg.Use.Screenshot.Mode, failed) {
		path := filepath.Join(outputDir, "screenshot.png")
		_, err := f.Page.Screenshot(playwright.PageScreenshotOptions{
			Path:     playwright.String(path),
			FullPage: playwright.Bool(cfg.Use.Screenshot.FullPage),
		})
		if err != nil {
			t.Logf("taking screenshot: %v", err)
		} else {
			t.Attach(report.Attachment{Name: "screenshot", ContentType: "image/png", Path: path})
		}
	}

	if f.tracing {
		if artifacts.ShouldKeepTrace(cfg.Use.Trace, failed, t.Retry()) {
			path := filepath.Join(outputDir, "trace.zip")
			if err := f.Context.Tracing().Stop(path); err != nil {
				t.Logf("stopping trace: %v", err)
			} else {
				t.Attach(report.Attachment{Name: "trace", ContentType: "application/zip", Path: path})
			}
		} else if err := f.Context.Tracing().Stop(); err != nil {
			t.Logf("stopping trace: %v", err)
		}
	}

	if f.Console != nil && (failed || f.Console.HasErrors()) {
		if lines := f.Console.Lines(); len(lines) > 0 {
			t.Attach(report.Attachment{Name: "console", ContentType: "text/plain", Body: []byte(strings.Join(lines, "\n") + "\n")})
		}
	}

	var video playwright.Video
	if f.Page != nil {
		video = f.Page.Video()
	}

	if err := f.Context.Close(); err != nil {
		t.Logf("closing browser context: %v", err)
	}

	if video == nil {
		return
	}
	if artifacts.ShouldKeepVideo(cfg.Use.Video, failed, t.Retry()) {
		path, err := video.Path()
		if err != nil {
			t.Logf("video path: %v", err)
			return
		}
		t.Attach(report.Attachment{Name: "video", ContentType: "video/webm", Path: path})
		return
	}
	if err := video.Delete(); err != nil {
		t.Logf("deleting video: %v", err)
	}
}

func contextOptions(cfg *config.Config, device *playwright.DeviceDescriptor, outputDir string, retry int) playwright.BrowserNewContextOptions {
	opts := playwright.BrowserNewContextOptions{
		BaseURL: playwright.String(cfg.Use.BaseURL),
	}
	if device != nil {
		opts.UserAgent = playwright.String(device.UserAgent)
		opts.Viewport = device.Viewport
		opts.DeviceScaleFactor = playwright.Float(device.DeviceScaleFactor)
		opts.IsMobile = playwright.Bool(device.IsMobile)
		opts.HasTouch = playwright.Bool(device.HasTouch)
	}
	if artifacts.ShouldRecordVideo(cfg.Use.Video, retry) {
		opts.RecordVideo = &playwright.RecordVideo{Dir: outputDir}
	}
	return opts
}
