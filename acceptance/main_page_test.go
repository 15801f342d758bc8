//go:build acceptance
// +build acceptance

package acceptance

import (
	"github.com/networkteam/e2esuite/fixtures"
	"github.com/networkteam/e2esuite/runner"
)

var mainPageCases = []runner.Case{
	{
		Title: "main page shows the important facts heading",
		Tags:  []string{"@sanity"},
		Fn: fixtures.With(func(t *runner.T, f *fixtures.Fixtures) {
			f.MainPage.OpenMainPage()
		}),
	},
	{
		Title: "main page shows an image link",
		Tags:  []string{"@regression"},
		Fn: fixtures.With(func(t *runner.T, f *fixtures.Fixtures) {
			f.MainPage.OpenMainPageWithImageLink()
		}),
	},
	{
		Title: "opening the main page twice keeps it valid",
		Tags:  []string{"@regression"},
		Fn: fixtures.With(func(t *runner.T, f *fixtures.Fixtures) {
			f.MainPage.OpenMainPage()
			f.MainPage.OpenMainPage()
			f.MainPage.ValidateURL("/")
		}),
	},
}
