package locators

import (
	"fmt"
	"sort"
)

// MainPageLocators are the elements of the landing page.
type MainPageLocators struct {
	ImportantFactsTitle Locator
	ImageLink           Locator
}

// LoginLocators are the elements of the login form.
type LoginLocators struct {
	Form          Locator
	EmailInput    Locator
	PasswordInput Locator
	LoginButton   Locator
}

// RegisterLocators are the elements of the signup form.
type RegisterLocators struct {
	Form         Locator
	EmailInput   Locator
	NameInput    Locator
	SignupButton Locator
}

// AuthPageLocators are the elements of the authentication page.
type AuthPageLocators struct {
	Login    LoginLocators
	Register RegisterLocators
}

// ImportantFactsTitle is the landmark heading text of the main page.
const ImportantFactsTitle = "עובדות שחשוב שתדע"

// Main returns the main page locators.
func Main() MainPageLocators {
	return MainPageLocators{
		ImportantFactsTitle: Role("heading", ImportantFactsTitle),
		ImageLink:           CSS("a:has(img) >> nth=0"),
	}
}

// Auth returns the authentication page locators.
func Auth() AuthPageLocators {
	return AuthPageLocators{
		Login: LoginLocators{
			Form:          CSS(`form[action="/login"]`),
			EmailInput:    Role("textbox", "Email Address"),
			PasswordInput: Role("textbox", "Password"),
			LoginButton:   Role("button", "Login"),
		},
		Register: RegisterLocators{
			Form:         CSS(`form[action="/signup"]`),
			EmailInput:   Role("textbox", "Email Address"),
			NameInput:    Role("textbox", "Name"),
			SignupButton: Role("button", "Signup"),
		},
	}
}

// All returns every table as page name -> element name -> locator.
// The result is a fresh copy and may be modified by the caller.
func All() map[string]map[string]Locator {
	main := Main()
	auth := Auth()
	return map[string]map[string]Locator{
		"main": {
			"importantFactsTitle": main.ImportantFactsTitle,
			"imageLink":           main.ImageLink,
		},
		"auth.login": {
			"form":          auth.Login.Form,
			"emailInput":    auth.Login.EmailInput,
			"passwordInput": auth.Login.PasswordInput,
			"loginButton":   auth.Login.LoginButton,
		},
		"auth.register": {
			"form":         auth.Register.Form,
			"emailInput":   auth.Register.EmailInput,
			"nameInput":    auth.Register.NameInput,
			"signupButton": auth.Register.SignupButton,
		},
	}
}

// Validate checks every table entry.
func Validate() error {
	tables := All()
	pages := make([]string, 0, len(tables))
	for page := range tables {
		pages = append(pages, page)
	}
	sort.Strings(pages)

	for _, page := range pages {
		for name, l := range tables[page] {
			if err := l.Validate(); err != nil {
				return fmt.Errorf("locator %s.%s: %w", page, name, err)
			}
		}
	}
	return nil
}
