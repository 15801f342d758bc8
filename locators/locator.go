package locators

import (
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Strategy selects how a Locator is resolved on a page.
type Strategy string

const (
	ByRole   Strategy = "role"
	ByCSS    Strategy = "css"
	ByText   Strategy = "text"
	ByTestID Strategy = "testid"
)

// Locator describes how to find one UI element. It is a plain value and has no identity.
type Locator struct {
	Strategy Strategy `yaml:"strategy"`
	// Role is an ARIA role, used with ByRole.
	Role string `yaml:"role,omitempty"`
	// Name is the accessible name (ByRole), the text (ByText) or the test id (ByTestID).
	Name string `yaml:"name,omitempty"`
	// Exact disables case-insensitive substring matching of Name.
	Exact bool `yaml:"exact,omitempty"`
	// Selector is a CSS selector, used with ByCSS.
	Selector string `yaml:"selector,omitempty"`
}

// Role returns a locator for an element by ARIA role and accessible name.
func Role(role, name string) Locator {
	return Locator{Strategy: ByRole, Role: role, Name: name}
}

// CSS returns a locator for an element by CSS selector.
func CSS(selector string) Locator {
	return Locator{Strategy: ByCSS, Selector: selector}
}

// Text returns a locator for an element by its text content.
func Text(text string) Locator {
	return Locator{Strategy: ByText, Name: text}
}

// TestID returns a locator for an element by its data-testid attribute.
func TestID(id string) Locator {
	return Locator{Strategy: ByTestID, Name: id}
}

// WithExact returns a copy of l that matches Name exactly.
func (l Locator) WithExact() Locator {
	l.Exact = true
	return l
}

func (l Locator) Validate() error {
	switch l.Strategy {
	case ByRole:
		if l.Role == "" {
			return errors.New("role locator without role")
		}
	case ByCSS:
		if l.Selector == "" {
			return errors.New("css locator without selector")
		}
	case ByText, ByTestID:
		if l.Name == "" {
			return fmt.Errorf("%s locator without name", l.Strategy)
		}
	default:
		return fmt.Errorf("unknown locator strategy %q", l.Strategy)
	}
	return nil
}

func (l Locator) String() string {
	switch l.Strategy {
	case ByRole:
		if l.Name == "" {
			return fmt.Sprintf("getByRole(%q)", l.Role)
		}
		return fmt.Sprintf("getByRole(%q, name=%q)", l.Role, l.Name)
	case ByCSS:
		return fmt.Sprintf("locator(%q)", l.Selector)
	case ByText:
		return fmt.Sprintf("getByText(%q)", l.Name)
	case ByTestID:
		return fmt.Sprintf("getByTestId(%q)", l.Name)
	}
	return fmt.Sprintf("invalid(%s)", string(l.Strategy))
}

// Resolve maps the descriptor onto a live page.
func Resolve(page playwright.Page, l Locator) playwright.Locator {
	switch l.Strategy {
	case ByRole:
		opts := playwright.PageGetByRoleOptions{}
		if l.Name != "" {
			opts.Name = l.Name
		}
		if l.Exact {
			opts.Exact = playwright.Bool(true)
		}
		return page.GetByRole(playwright.AriaRole(l.Role), opts)
	case ByText:
		return page.GetByText(l.Name, playwright.PageGetByTextOptions{Exact: playwright.Bool(l.Exact)})
	case ByTestID:
		return page.GetByTestId(l.Name)
	default:
		return page.Locator(l.Selector)
	}
}

// ResolveWithin maps the descriptor onto the subtree of scope.
func ResolveWithin(scope playwright.Locator, l Locator) playwright.Locator {
	switch l.Strategy {
	case ByRole:
		opts := playwright.LocatorGetByRoleOptions{}
		if l.Name != "" {
			opts.Name = l.Name
		}
		if l.Exact {
			opts.Exact = playwright.Bool(true)
		}
		return scope.GetByRole(playwright.AriaRole(l.Role), opts)
	case ByText:
		return scope.GetByText(l.Name, playwright.LocatorGetByTextOptions{Exact: playwright.Bool(l.Exact)})
	case ByTestID:
		return scope.GetByTestId(l.Name)
	default:
		return scope.Locator(l.Selector)
	}
}
