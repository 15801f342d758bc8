package runner

import (
	"errors"
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"
	"github.com/samber/lo"

	"github.com/networkteam/e2esuite/config"
)

// Launcher provides one browser per project. Browsers are shared by all cases of a
// project; isolation between cases comes from a fresh browser context per attempt.
type Launcher interface {
	Browser(project config.Project) (playwright.Browser, error)
	// Device returns the device descriptor of the project, nil for none.
	Device(project config.Project) *playwright.DeviceDescriptor
	Close() error
}

// PlaywrightLauncher starts the playwright driver on first use and launches browsers lazily.
type PlaywrightLauncher struct {
	headless bool

	mu       sync.Mutex
	pw       *playwright.Playwright
	browsers map[string]playwright.Browser
}

func NewPlaywrightLauncher(cfg *config.Config) *PlaywrightLauncher {
	return &PlaywrightLauncher{
		headless: cfg.Use.Headless,
		browsers: make(map[string]playwright.Browser),
	}
}

// Browser returns the browser of the project, launching it if needed.
func (l *PlaywrightLauncher) Browser(project config.Project) (playwright.Browser, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.browsers[project.Name]; ok {
		return b, nil
	}

	if l.pw == nil {
		pw, err := playwright.Run()
		if err != nil {
			return nil, fmt.Errorf("starting playwright: %w", err)
		}
		l.pw = pw
	}

	browserType, err := l.browserType(project.BrowserName)
	if err != nil {
		return nil, err
	}
	b, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(l.headless),
	})
	if err != nil {
		return nil, fmt.Errorf("launching %s: %w", project.BrowserName, err)
	}
	l.browsers[project.Name] = b
	return b, nil
}

func (l *PlaywrightLauncher) browserType(name string) (playwright.BrowserType, error) {
	switch name {
	case config.BrowserChromium:
		return l.pw.Chromium, nil
	case config.BrowserFirefox:
		return l.pw.Firefox, nil
	case config.BrowserWebKit:
		return l.pw.WebKit, nil
	}
	return nil, fmt.Errorf("%w: %q", config.ErrUnknownBrowser, name)
}

// Close closes all browsers and stops the driver.
func (l *PlaywrightLauncher) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var errs []error
	for _, name := range lo.Keys(l.browsers) {
		if err := l.browsers[name].Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", name, err))
		}
	}
	l.browsers = make(map[string]playwright.Browser)

	if l.pw != nil {
		if err := l.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stopping playwright: %w", err))
		}
		l.pw = nil
	}
	return errors.Join(errs...)
}

// Device looks up the descriptor in the driver's device registry.
func (l *PlaywrightLauncher) Device(project config.Project) *playwright.DeviceDescriptor {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pw == nil || project.Device == "" {
		return nil
	}
	return l.pw.Devices[project.Device]
}
