package pages

import (
	"github.com/networkteam/e2esuite/locators"
)

// MainPage is the landing page.
type MainPage struct {
	Base
	loc locators.MainPageLocators
}

// NewMainPage returns the main page object acting on the page of base.
func NewMainPage(base Base) *MainPage {
	return &MainPage{Base: base, loc: locators.Main()}
}

// OpenMainPage navigates to the landing page and checks its landmark heading.
func (p *MainPage) OpenMainPage() {
	p.t.Helper()

	p.Step("Open main page", func() {
		p.Goto("/")
		p.ValidateText(p.loc.ImportantFactsTitle, locators.ImportantFactsTitle)
	})
}

// ValidateImageLink checks that the first image link of the page is visible.
func (p *MainPage) ValidateImageLink() {
	p.t.Helper()

	p.Step("Validate image link", func() {
		p.ValidateVisibility(p.loc.ImageLink)
	})
}

// OpenMainPageWithImageLink opens the landing page and checks its image link in one step.
func (p *MainPage) OpenMainPageWithImageLink() {
	p.t.Helper()

	p.Step("Open main page with image link", func() {
		p.OpenMainPage()
		p.ValidateImageLink()
	})
}
