//go:build acceptance
// +build acceptance

package acceptance

import (
	"github.com/networkteam/e2esuite/fixtures"
	"github.com/networkteam/e2esuite/locators"
	"github.com/networkteam/e2esuite/runner"
)

var authPageCases = []runner.Case{
	{
		Title: "auth page is reachable at /login",
		Tags:  []string{"@sanity"},
		Fn: fixtures.With(func(t *runner.T, f *fixtures.Fixtures) {
			f.AuthPage.OpenAuthPage()
		}),
	},
	{
		Title: "auth page shows the login form",
		Tags:  []string{"@regression"},
		Fn: fixtures.With(func(t *runner.T, f *fixtures.Fixtures) {
			f.AuthPage.OpenAuthPage()
			f.AuthPage.ValidateLoginForm()
		}),
	},
}

var authActionCases = []runner.Case{
	{
		Title: "login form submits and returns to the main page",
		Tags:  []string{"@regression"},
		Fn: fixtures.With(func(t *runner.T, f *fixtures.Fixtures) {
			f.AuthPage.OpenAuthPage()
			f.AuthPage.Login("tester@example.test", "secret")
			f.MainPage.ValidateURL("/")
			f.MainPage.ValidateText(locators.Main().ImportantFactsTitle, locators.ImportantFactsTitle)
		}),
	},
	{
		Title: "signup form submits and returns to the main page",
		Tags:  []string{"@regression"},
		Fn: fixtures.With(func(t *runner.T, f *fixtures.Fixtures) {
			f.AuthPage.OpenAuthPage()
			f.AuthPage.Register("Tester", "tester@example.test")
			f.MainPage.ValidateURL("/")
		}),
	},
}
