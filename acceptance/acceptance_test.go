//go:build acceptance
// +build acceptance

package acceptance

import (
	"log"
	"os"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/samber/lo"

	"github.com/networkteam/e2esuite/config"
)

// TestMain installs the Playwright driver and the browsers of the configured projects
// before running tests. Set PLAYWRIGHT_PREINSTALLED=1 to skip the installation.
func TestMain(m *testing.M) {
	if os.Getenv("PLAYWRIGHT_PREINSTALLED") != "1" {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("could not load configuration: %v", err)
		}
		browsers := lo.Uniq(lo.Map(cfg.Projects, func(p config.Project, _ int) string { return p.BrowserName }))
		if err := playwright.Install(&playwright.RunOptions{Browsers: browsers}); err != nil {
			log.Fatalf("could not install playwright: %v", err)
		}
	}
	os.Exit(m.Run())
}
