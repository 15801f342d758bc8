// Package pages contains the page objects used by the UI tests. Every page object
// embeds Base for navigation, assertions and named steps.
package pages

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/e2esuite/locators"
)

// TestingT is the part of a test the page objects need. *runner.T implements it.
type TestingT interface {
	require.TestingT
	Helper()
	Step(title string, fn func())
}

// Base is the shared capability of all page objects.
type Base struct {
	Page    playwright.Page
	BaseURL string

	t      TestingT
	expect playwright.PlaywrightAssertions
}

// NewBase returns a Base whose assertions retry for up to expectTimeout.
func NewBase(t TestingT, page playwright.Page, baseURL string, expectTimeout time.Duration) Base {
	return Base{
		Page:    page,
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		t:       t,
		expect:  playwright.NewPlaywrightAssertions(float64(expectTimeout.Milliseconds())),
	}
}

// Goto navigates to a path relative to the base URL. Absolute URLs are used as is.
func (b Base) Goto(path string) {
	b.t.Helper()

	target := b.URL(path)
	_, err := b.Page.Goto(target)
	require.NoError(b.t, err, "failed to navigate to %s", target)
}

// URL resolves path against the base URL.
func (b Base) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	return b.BaseURL + path
}

// ValidateURL waits until the page URL matches. A string is matched as a path at the
// end of the URL, ignoring a trailing slash, query and fragment. A *regexp.Regexp is
// used as is.
func (b Base) ValidateURL(pathOrPattern any) {
	b.t.Helper()

	var pattern *regexp.Regexp
	switch p := pathOrPattern.(type) {
	case *regexp.Regexp:
		pattern = p
	case string:
		pattern = PathPattern(p)
	default:
		require.Fail(b.t, fmt.Sprintf("unsupported URL matcher %T", pathOrPattern))
		return
	}

	err := b.expect.Page(b.Page).ToHaveURL(pattern)
	require.NoError(b.t, err, "URL does not match %s", pattern)
}

// ValidateText waits until the element contains text.
func (b Base) ValidateText(l locators.Locator, text string) {
	b.t.Helper()
	b.validateText(b.Locate(l), l.String(), text)
}

// ValidateVisibility waits until the element is visible.
func (b Base) ValidateVisibility(l locators.Locator) {
	b.t.Helper()
	b.validateVisible(b.Locate(l), l.String())
}

// Step runs fn as a named step of the test.
func (b Base) Step(title string, fn func()) {
	b.t.Helper()
	b.t.Step(title, fn)
}

// Locate resolves a locator on the page.
func (b Base) Locate(l locators.Locator) playwright.Locator {
	return locators.Resolve(b.Page, l)
}

func (b Base) validateText(target playwright.Locator, desc, text string) {
	b.t.Helper()

	err := b.expect.Locator(target).ToContainText(text)
	require.NoError(b.t, err, "%s does not contain %q", desc, text)
}

func (b Base) validateVisible(target playwright.Locator, desc string) {
	b.t.Helper()

	err := b.expect.Locator(target).ToBeVisible()
	require.NoError(b.t, err, "%s is not visible", desc)
}

// PathPattern matches URLs whose path is exactly path, optionally followed by a
// slash, a query or a fragment.
func PathPattern(path string) *regexp.Regexp {
	if path != "" && path[0] != '/' {
		path = "/" + path
	}
	path = strings.TrimSuffix(path, "/")
	return regexp.MustCompile(`^[^:/]+://[^/?#]+` + regexp.QuoteMeta(path) + `/?(?:[?#].*)?$`)
}
