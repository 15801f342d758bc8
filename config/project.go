package config

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

const (
	BrowserChromium = "chromium"
	BrowserFirefox  = "firefox"
	BrowserWebKit   = "webkit"
)

// Project runs every case against one browser engine with one device profile.
type Project struct {
	Name        string
	BrowserName string
	// Device is a playwright device descriptor name, e.g. "Desktop Chrome".
	Device string
}

var knownDevices = map[string]string{
	"Desktop Chrome":  BrowserChromium,
	"Desktop Edge":    BrowserChromium,
	"Desktop Firefox": BrowserFirefox,
	"Desktop Safari":  BrowserWebKit,
	"Pixel 5":         BrowserChromium,
	"iPhone 12":       BrowserWebKit,
}

// DefaultProjects returns the chromium, firefox and webkit desktop projects.
func DefaultProjects() []Project {
	return []Project{
		{Name: "chromium", BrowserName: BrowserChromium, Device: "Desktop Chrome"},
		{Name: "firefox", BrowserName: BrowserFirefox, Device: "Desktop Firefox"},
		{Name: "webkit", BrowserName: BrowserWebKit, Device: "Desktop Safari"},
	}
}

// Validate checks that the project names a known browser and, if set, a device
// emulated by that browser.
func (p Project) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("project name must not be empty")
	}
	switch p.BrowserName {
	case BrowserChromium, BrowserFirefox, BrowserWebKit:
	default:
		return fmt.Errorf("project %s: %w: %q", p.Name, ErrUnknownBrowser, p.BrowserName)
	}
	if p.Device == "" {
		return nil
	}
	engine, ok := knownDevices[p.Device]
	if !ok {
		return fmt.Errorf("project %s: %w: %q", p.Name, ErrUnknownDevice, p.Device)
	}
	if engine != p.BrowserName {
		return fmt.Errorf("project %s: device %q requires %s, not %s", p.Name, p.Device, engine, p.BrowserName)
	}
	return nil
}

// selectProjects keeps the projects named in a comma separated list, in list order.
func selectProjects(all []Project, names string) ([]Project, error) {
	byName := lo.KeyBy(all, func(p Project) string { return p.Name })

	var selected []Project
	for _, name := range lo.Uniq(lo.Compact(lo.Map(strings.Split(names, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))) {
		p, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown project %q in E2E_PROJECTS", name)
		}
		selected = append(selected, p)
	}
	return selected, nil
}
