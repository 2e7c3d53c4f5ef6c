// Package browser is the boundary between page objects and a live browser page.
package browser

import "errors"

// ErrElementNotFound is returned when a selector matches nothing or a required node is absent
var ErrElementNotFound = errors.New("element not found")

// Session is a single serialized page state in a remote browser.
// Lookups are immediate; they never wait for the page to render.
type Session interface {
	// Find returns the first element matching a CSS selector
	Find(selector string) (Element, error)
	// Has reports whether selector currently matches anything
	Has(selector string) bool
	// ClickLink clicks the first link whose text equals text
	ClickLink(text string) error
	// Navigate loads url and waits for the page to load
	Navigate(url string) error
	// SupportsJavaScript reports whether the page runs scripts, which changes how some widgets behave
	SupportsJavaScript() bool
}

// Element is a live handle on a DOM node
type Element interface {
	Value() (string, error)
	SetValue(value string) error
	Text() (string, error)

	Click() error
	// Press activates a button-like control; it fails with ErrElementNotFound on anything else
	Press() error
	Check() error
	IsChecked() (bool, error)
	// SelectOption selects an option of a select element by value or visible text
	SelectOption(option string) error

	IsVisible() (bool, error)
	HasClass(name string) (bool, error)

	// Parent returns the parent element, or ErrElementNotFound at the document root
	Parent() (Element, error)
	// Find returns the first descendant matching a CSS selector
	Find(selector string) (Element, error)
}
