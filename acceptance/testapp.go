//go:build acceptance
// +build acceptance

package acceptance

import (
	"html/template"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/networkteam/e2esuite/locators"
)

// TestApp is a local stand-in for the site under test. It serves the landing page
// with its landmark heading and image link, and the login/signup page.
type TestApp struct {
	Server *httptest.Server
	URL    string
	Logger *slog.Logger
}

// TestAppOptions break the site in ways the page objects must detect.
type TestAppOptions struct {
	// Heading replaces the landmark heading text, empty keeps it.
	Heading string
	// OmitHeading renders the landing page without a heading.
	OmitHeading bool
	// HideImageLink renders the image link with display:none.
	HideImageLink bool
	// LoginRedirect redirects GET /login to this path instead of serving the forms.
	LoginRedirect string
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="he" dir="rtl">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<header><a href="/"{{if .HideImageLink}} style="display:none"{{end}}><img src="/logo.svg" alt="logo" width="120" height="40"></a></header>
<main>
{{- if .ShowHeading}}<h1>{{.Heading}}</h1>{{end}}
{{.Body}}
</main>
</body>
</html>`))

const mainBody = `
<ul>
	<li>Fact one</li>
	<li>Fact two</li>
</ul>`

const authBody = `
<section>
	<h2>Login to your account</h2>
	<form action="/login" method="post">
		<label for="login-email">Email Address</label>
		<input id="login-email" type="email" name="email">
		<label for="login-password">Password</label>
		<input id="login-password" type="password" role="textbox" name="password">
		<button type="submit">Login</button>
	</form>
</section>
<section>
	<h2>New User Signup!</h2>
	<form action="/signup" method="post">
		<label for="signup-name">Name</label>
		<input id="signup-name" type="text" name="name">
		<label for="signup-email">Email Address</label>
		<input id="signup-email" type="email" name="email">
		<button type="submit">Signup</button>
	</form>
</section>`

const logoSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="120" height="40"><rect width="120" height="40" fill="#2f6feb"/></svg>`

type pageData struct {
	Title         string
	ShowHeading   bool
	Heading       string
	HideImageLink bool
	Body          template.HTML
}

// NewTestApp starts the intact test app. It is closed when the test finishes.
func NewTestApp(t *testing.T, logger *slog.Logger) *TestApp {
	t.Helper()
	return NewTestAppWithOptions(t, logger, TestAppOptions{})
}

// NewTestAppWithOptions starts a test app that is broken as described by opts.
func NewTestAppWithOptions(t *testing.T, logger *slog.Logger, opts TestAppOptions) *TestApp {
	t.Helper()

	heading := opts.Heading
	if heading == "" {
		heading = locators.ImportantFactsTitle
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, logger, pageData{
			Title:         "Main",
			ShowHeading:   !opts.OmitHeading,
			Heading:       heading,
			HideImageLink: opts.HideImageLink,
			Body:          mainBody,
		})
	})

	mux.HandleFunc("GET /login", func(w http.ResponseWriter, r *http.Request) {
		if opts.LoginRedirect != "" {
			http.Redirect(w, r, opts.LoginRedirect, http.StatusFound)
			return
		}
		renderPage(w, logger, pageData{Title: "Login", HideImageLink: opts.HideImageLink, Body: authBody})
	})

	mux.HandleFunc("GET /signin", func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, logger, pageData{Title: "Sign in", Body: authBody})
	})

	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("Login submitted", "email", r.FormValue("email"))
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})

	mux.HandleFunc("POST /signup", func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("Signup submitted", "name", r.FormValue("name"), "email", r.FormValue("email"))
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})

	mux.HandleFunc("GET /logo.svg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write([]byte(logoSVG))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &TestApp{
		Server: server,
		URL:    server.URL,
		Logger: logger,
	}
}

func renderPage(w http.ResponseWriter, logger *slog.Logger, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		logger.Error("Rendering page failed", "title", data.Title, "error", err)
	}
}
