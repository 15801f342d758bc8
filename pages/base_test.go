package pages_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"

	"github.com/networkteam/e2esuite/pages"
)

type fakeT struct {
	errors []string
	failed bool
	steps  []string
}

func (f *fakeT) Errorf(format string, args ...any) {
	f.errors = append(f.errors, fmt.Sprintf(format, args...))
}

func (f *fakeT) FailNow() { f.failed = true }

func (f *fakeT) Helper() {}

func (f *fakeT) Step(title string, fn func()) {
	f.steps = append(f.steps, title)
	fn()
}

// fakePage implements only navigation; other methods panic on the nil interface.
type fakePage struct {
	playwright.Page
	visited []string
	err     error
}

func (p *fakePage) Goto(url string, _ ...playwright.PageGotoOptions) (playwright.Response, error) {
	p.visited = append(p.visited, url)
	return nil, p.err
}

func TestPathPattern(t *testing.T) {
	tests := []struct {
		path  string
		url   string
		match bool
	}{
		{"/login", "http://localhost:3000/login", true},
		{"/login", "http://localhost:3000/login/", true},
		{"/login", "http://localhost:3000/login?next=%2F", true},
		{"/login", "http://localhost:3000/login#signup", true},
		{"/login/", "http://localhost:3000/login", true},
		{"/login", "http://localhost:3000/login/extra", false},
		{"/login", "http://localhost:3000/", false},
		{"/a.b", "http://localhost:3000/axb", false},
		{"/", "http://localhost:3000/", true},
		{"/", "http://localhost:3000", true},
		{"/", "http://localhost:3000/login", false},
		{"/login", "http://localhost:3000/?next=/login", false},
		{"/login", "http://localhost:3000/#/login", false},
		{"/login", "http://localhost:3000/admin/login", false},
		{"/login", "https://example.test/login?next=%2F", true},
		{"login", "http://localhost:3000/login", true},
	}
	for _, tt := range tests {
		t.Run(tt.path+" "+tt.url, func(t *testing.T) {
			assert.Equal(t, tt.match, pages.PathPattern(tt.path).MatchString(tt.url))
		})
	}
}

func TestBase_URL(t *testing.T) {
	b := pages.NewBase(&fakeT{}, nil, "http://localhost:3000/", time.Second)

	assert.Equal(t, "http://localhost:3000/", b.URL("/"))
	assert.Equal(t, "http://localhost:3000/login", b.URL("/login"))
	assert.Equal(t, "http://localhost:3000/login", b.URL("login"))
	assert.Equal(t, "https://example.com/x", b.URL("https://example.com/x"))
}

func TestBase_Goto(t *testing.T) {
	ft := &fakeT{}
	page := &fakePage{}
	b := pages.NewBase(ft, page, "http://localhost:3000", time.Second)

	b.Step("open twice", func() {
		b.Goto("/")
		b.Goto("/")
	})

	assert.Equal(t, []string{"http://localhost:3000/", "http://localhost:3000/"}, page.visited)
	assert.Equal(t, []string{"open twice"}, ft.steps)
	assert.False(t, ft.failed)
}

func TestBase_GotoFailure(t *testing.T) {
	ft := &fakeT{}
	page := &fakePage{err: errors.New("net::ERR_CONNECTION_REFUSED")}
	b := pages.NewBase(ft, page, "http://localhost:3000", time.Second)

	b.Goto("/login")

	assert.True(t, ft.failed)
	if assert.Len(t, ft.errors, 1) {
		assert.Contains(t, ft.errors[0], "failed to navigate to http://localhost:3000/login")
		assert.Contains(t, ft.errors[0], "ERR_CONNECTION_REFUSED")
	}
}

func TestBase_ValidateURLRejectsUnknownMatcher(t *testing.T) {
	ft := &fakeT{}
	b := pages.NewBase(ft, &fakePage{}, "http://localhost:3000", time.Second)

	b.ValidateURL(42)

	assert.True(t, ft.failed)
	if assert.Len(t, ft.errors, 1) {
		assert.Contains(t, ft.errors[0], "unsupported URL matcher int")
	}
}
