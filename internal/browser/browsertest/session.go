// Package browsertest provides an in-memory browser.Session over static HTML.
//
// Selectors run against a goquery document, so page objects can be exercised with the same
// selectors they use against a real browser. Asynchronous rendering is simulated through the
// OnFind and OnAction hooks, which may mutate the document.
package browsertest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/v0xg/checkoutpage/internal/browser"
)

// Session is a scripted browser.Session
type Session struct {
	Doc        *goquery.Document
	JavaScript bool

	// OnFind runs before every page-level lookup with the number of lookups made so far for that selector
	OnFind func(selector string, calls int, doc *goquery.Document)
	// OnAction runs after every interaction with the action logged for it
	OnAction func(action string, doc *goquery.Document)

	Lookups   map[string]int
	Actions   []string
	Navigated []string
}

// New parses html into a Session
func New(html string) (*Session, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &Session{Doc: doc, JavaScript: true, Lookups: map[string]int{}}, nil
}

// MustNew is New that fails the test on error
func MustNew(t testing.TB, html string) *Session {
	t.Helper()
	s, err := New(html)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func (s *Session) lookup(selector string) *goquery.Selection {
	if s.OnFind != nil {
		s.OnFind(selector, s.Lookups[selector], s.Doc)
	}
	s.Lookups[selector]++
	return s.Doc.Find(selector).First()
}

func (s *Session) record(format string, args ...interface{}) {
	action := fmt.Sprintf(format, args...)
	s.Actions = append(s.Actions, action)
	if s.OnAction != nil {
		s.OnAction(action, s.Doc)
	}
}

func (s *Session) Find(selector string) (browser.Element, error) {
	sel := s.lookup(selector)
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", browser.ErrElementNotFound, selector)
	}
	return &Element{s: s, sel: sel, name: selector}, nil
}

func (s *Session) Has(selector string) bool {
	return s.lookup(selector).Length() > 0
}

func (s *Session) ClickLink(text string) error {
	var found *goquery.Selection
	s.Doc.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if strings.TrimSpace(a.Text()) == text {
			found = a
			return false
		}
		return true
	})
	if found == nil {
		return fmt.Errorf("%w: link %q", browser.ErrElementNotFound, text)
	}
	s.record("click link %s", text)
	return nil
}

func (s *Session) Navigate(url string) error {
	s.Navigated = append(s.Navigated, url)
	return nil
}

func (s *Session) SupportsJavaScript() bool {
	return s.JavaScript
}

// Element is a node of the scripted document
type Element struct {
	s    *Session
	sel  *goquery.Selection
	name string
}

func (e *Element) Value() (string, error) {
	if e.sel.Is("select") {
		opt := e.sel.Find("option[selected]").First()
		if opt.Length() == 0 {
			opt = e.sel.Find("option").First()
		}
		return opt.AttrOr("value", strings.TrimSpace(opt.Text())), nil
	}
	return e.sel.AttrOr("value", ""), nil
}

func (e *Element) SetValue(value string) error {
	e.sel.SetAttr("value", value)
	e.s.record("set %s=%s", e.name, value)
	return nil
}

func (e *Element) Text() (string, error) {
	return strings.TrimSpace(e.sel.Text()), nil
}

func (e *Element) Click() error {
	e.s.record("click %s", e.name)
	return nil
}

func (e *Element) Press() error {
	if !e.sel.Is(`button, input[type="submit"], input[type="button"]`) {
		return fmt.Errorf("%w: no button matching %s", browser.ErrElementNotFound, e.name)
	}
	e.s.record("press %s", e.name)
	return nil
}

func (e *Element) Check() error {
	e.sel.SetAttr("checked", "checked")
	e.s.record("check %s", e.name)
	return nil
}

func (e *Element) IsChecked() (bool, error) {
	_, ok := e.sel.Attr("checked")
	return ok, nil
}

func (e *Element) SelectOption(option string) error {
	var match *goquery.Selection
	e.sel.Find("option").EachWithBreak(func(_ int, o *goquery.Selection) bool {
		if o.AttrOr("value", "") == option || strings.TrimSpace(o.Text()) == option {
			match = o
			return false
		}
		return true
	})
	if match == nil {
		return fmt.Errorf("%w: option %s in %s", browser.ErrElementNotFound, option, e.name)
	}

	e.sel.Find("option").RemoveAttr("selected")
	match.SetAttr("selected", "selected")
	e.s.record("select %s=%s", e.name, option)
	return nil
}

// IsVisible treats the hidden attribute and the hidden class as display: none
func (e *Element) IsVisible() (bool, error) {
	return e.sel.Closest("[hidden], .hidden").Length() == 0, nil
}

func (e *Element) HasClass(name string) (bool, error) {
	return e.sel.HasClass(name), nil
}

func (e *Element) Parent() (browser.Element, error) {
	p := e.sel.Parent()
	if p.Length() == 0 {
		return nil, fmt.Errorf("%w: parent of %s", browser.ErrElementNotFound, e.name)
	}
	return &Element{s: e.s, sel: p, name: e.name + " < *"}, nil
}

func (e *Element) Find(selector string) (browser.Element, error) {
	sel := e.sel.Find(selector).First()
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%w: %s in %s", browser.ErrElementNotFound, selector, e.name)
	}
	return &Element{s: e.s, sel: sel, name: e.name + " " + selector}, nil
}
