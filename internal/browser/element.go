package browser

import (
	"fmt"
	"image"
	"regexp"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
)

// rodElement adapts a Rod element to Element
type rodElement struct {
	el       *rod.Element
	selector string // Selector the element was found by, for error messages
}

func (e *rodElement) Value() (string, error) {
	v, err := e.el.Property("value")
	if err != nil {
		return "", fmt.Errorf("read value of %s: %w", e.selector, err)
	}
	if v.Nil() {
		return "", nil
	}
	return v.String(), nil
}

// SetValue replaces the current content of an input
func (e *rodElement) SetValue(value string) error {
	if err := e.el.SelectAllText(); err != nil {
		return fmt.Errorf("clear %s: %w", e.selector, err)
	}
	if err := e.el.Input(value); err != nil {
		return fmt.Errorf("type into %s: %w", e.selector, err)
	}
	return nil
}

func (e *rodElement) Text() (string, error) {
	t, err := e.el.Text()
	if err != nil {
		return "", fmt.Errorf("read text of %s: %w", e.selector, err)
	}
	return strings.TrimSpace(t), nil
}

func (e *rodElement) Click() error {
	if err := e.el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %s: %w", e.selector, err)
	}
	return nil
}

// Press submits a button-like control from the keyboard
func (e *rodElement) Press() error {
	res, err := e.el.Eval(`() => this.matches('button, input[type="submit"], input[type="button"], input[type="image"]')`)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", e.selector, err)
	}
	if !res.Value.Bool() {
		return fmt.Errorf("%w: no button matching %s", ErrElementNotFound, e.selector)
	}

	if err := e.el.Focus(); err != nil {
		return fmt.Errorf("focus %s: %w", e.selector, err)
	}
	if err := e.el.Type(input.Enter); err != nil {
		return fmt.Errorf("press %s: %w", e.selector, err)
	}
	return nil
}

// Check ticks a checkbox, leaving it alone if already ticked
func (e *rodElement) Check() error {
	checked, err := e.IsChecked()
	if err != nil {
		return err
	}
	if checked {
		return nil
	}
	return e.Click()
}

func (e *rodElement) IsChecked() (bool, error) {
	v, err := e.el.Property("checked")
	if err != nil {
		return false, fmt.Errorf("read checked state of %s: %w", e.selector, err)
	}
	return v.Bool(), nil
}

// SelectOption matches an option by value first, then by its text
func (e *rodElement) SelectOption(option string) error {
	byValue := fmt.Sprintf(`option[value="%s"]`, escapeSelector(option))
	err := e.el.Select([]string{byValue}, true, rod.SelectorTypeCSSSector)
	if err == nil {
		return nil
	}

	// SelectorTypeText matches substrings, "Guinea" would pick "Equatorial Guinea"
	exactText := `^\s*` + regexp.QuoteMeta(option) + `\s*$`
	err = e.el.Select([]string{exactText}, true, rod.SelectorTypeRegex)
	if err != nil {
		return fmt.Errorf("select %q in %s: %w", option, e.selector, notFound(err, "option "+option))
	}
	return nil
}

func (e *rodElement) IsVisible() (bool, error) {
	v, err := e.el.Visible()
	if err != nil {
		return false, fmt.Errorf("check visibility of %s: %w", e.selector, err)
	}
	return v, nil
}

func (e *rodElement) HasClass(name string) (bool, error) {
	res, err := e.el.Eval(`(name) => this.classList.contains(name)`, name)
	if err != nil {
		return false, fmt.Errorf("read classes of %s: %w", e.selector, err)
	}
	return res.Value.Bool(), nil
}

func (e *rodElement) Parent() (Element, error) {
	p, err := e.el.Parent()
	if err != nil {
		return nil, notFound(err, "parent of "+e.selector)
	}
	return &rodElement{el: p, selector: e.selector + " < *"}, nil
}

// Find looks up a descendant without waiting for it
func (e *rodElement) Find(selector string) (Element, error) {
	has, el, err := e.el.Has(selector)
	if err != nil {
		return nil, fmt.Errorf("query %s in %s: %w", selector, e.selector, err)
	}
	if !has {
		return nil, fmt.Errorf("%w: %s in %s", ErrElementNotFound, selector, e.selector)
	}
	return &rodElement{el: el, selector: e.selector + " " + selector}, nil
}

// Box returns the element's bounding box in viewport pixels
func (e *rodElement) Box() (image.Rectangle, error) {
	shape, err := e.el.Shape()
	if err != nil {
		return image.Rectangle{}, err
	}
	if len(shape.Quads) == 0 {
		return image.Rectangle{}, fmt.Errorf("element has no shape: %s", e.selector)
	}

	box := shape.Box()
	return image.Rect(int(box.X), int(box.Y), int(box.X+box.Width), int(box.Y+box.Height)), nil
}

func escapeSelector(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
