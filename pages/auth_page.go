package pages

import (
	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/e2esuite/locators"
)

// AuthPagePath is where the login and signup forms live.
const AuthPagePath = "/login"

// AuthPage holds the login and signup forms. Both forms have an "Email Address"
// field, so elements are resolved within their form.
type AuthPage struct {
	Base
	loc locators.AuthPageLocators
}

// NewAuthPage returns the auth page object acting on the page of base.
func NewAuthPage(base Base) *AuthPage {
	return &AuthPage{Base: base, loc: locators.Auth()}
}

// OpenAuthPage navigates to the authentication page and checks the URL.
func (p *AuthPage) OpenAuthPage() {
	p.t.Helper()

	p.Step("Open auth page", func() {
		p.Goto(AuthPagePath)
		p.ValidateURL(AuthPagePath)
	})
}

// Login submits the login form.
func (p *AuthPage) Login(email, password string) {
	p.t.Helper()

	p.Step("Login as "+email, func() {
		form := p.Locate(p.loc.Login.Form)
		p.fill(form, p.loc.Login.EmailInput, email)
		p.fill(form, p.loc.Login.PasswordInput, password)
		p.click(form, p.loc.Login.LoginButton)
	})
}

// Register submits the signup form.
func (p *AuthPage) Register(name, email string) {
	p.t.Helper()

	p.Step("Register "+name, func() {
		form := p.Locate(p.loc.Register.Form)
		p.fill(form, p.loc.Register.NameInput, name)
		p.fill(form, p.loc.Register.EmailInput, email)
		p.click(form, p.loc.Register.SignupButton)
	})
}

// ValidateLoginForm checks that all elements of the login form are visible.
func (p *AuthPage) ValidateLoginForm() {
	p.t.Helper()

	p.Step("Validate login form", func() {
		form := p.Locate(p.loc.Login.Form)
		p.validateVisible(form, p.loc.Login.Form.String())
		for _, l := range []locators.Locator{p.loc.Login.EmailInput, p.loc.Login.PasswordInput, p.loc.Login.LoginButton} {
			p.validateVisible(locators.ResolveWithin(form, l), l.String())
		}
	})
}

func (p *AuthPage) fill(form playwright.Locator, l locators.Locator, value string) {
	p.t.Helper()

	err := locators.ResolveWithin(form, l).Fill(value)
	require.NoError(p.t, err, "failed to fill %s", l)
}

func (p *AuthPage) click(form playwright.Locator, l locators.Locator) {
	p.t.Helper()

	err := locators.ResolveWithin(form, l).Click()
	require.NoError(p.t, err, "failed to click %s", l)
}
