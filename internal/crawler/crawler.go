// Package crawler extracts the form controls of a live page.
package crawler

import (
	"fmt"

	"github.com/go-rod/rod"
)

// extractControlsJS collects form controls and dropdown widgets, visible or not:
// async fields are often rendered hidden first.
const extractControlsJS = `() => {
	const controls = [];
	const seen = new Set();

	// Helper to check if a class name is a valid CSS identifier
	function isValidCSSClass(cls) {
		if (!cls || cls.length === 0) return false;
		if (/^-?[0-9]/.test(cls)) return false;
		if (/[.:#\[\]()>~+*\/\\]/.test(cls)) return false;
		return true;
	}

	function getSelector(el) {
		if (el.id && isValidCSSClass(el.id)) return '#' + el.id;
		if (el.name) return '[name="' + el.name + '"]';

		const classes = Array.from(el.classList).filter(isValidCSSClass);
		if (classes.length > 0) {
			const selector = el.tagName.toLowerCase() + '.' + classes.join('.');
			try {
				if (document.querySelectorAll(selector).length === 1) return selector;
			} catch (e) {
				// Invalid selector, fall through
			}
		}

		// Fallback to nth-child under the parent
		const parent = el.parentElement;
		if (parent && parent !== document.documentElement) {
			const index = Array.from(parent.children).indexOf(el) + 1;
			return getSelector(parent) + ' > ' + el.tagName.toLowerCase() + ':nth-child(' + index + ')';
		}
		return el.tagName.toLowerCase();
	}

	function getLabel(el) {
		if (el.labels && el.labels.length > 0) return el.labels[0].textContent.trim().slice(0, 60);
		const field = el.closest('.field');
		if (field) {
			const label = field.querySelector('label');
			if (label) return label.textContent.trim().slice(0, 60);
		}
		return (el.textContent || el.value || '').trim().slice(0, 60);
	}

	document.querySelectorAll('input:not([type="hidden"]), select, textarea, button, a[href], .ui.dropdown').forEach(el => {
		const selector = getSelector(el);
		if (seen.has(selector)) return;
		seen.add(selector);
		controls.push({
			selector: selector,
			tag: el.tagName.toLowerCase(),
			type: el.getAttribute('type') || '',
			id: el.id || '',
			name: el.getAttribute('name') || '',
			label: getLabel(el),
			placeholder: el.getAttribute('placeholder') || '',
			classes: Array.from(el.classList),
			visible: !!el.offsetParent
		});
	});

	return controls;
}`

// Snapshot extracts the form controls from the current state of page
func Snapshot(page *rod.Page) (*FormMap, error) {
	info, err := page.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to read page info: %w", err)
	}

	res, err := page.Eval(extractControlsJS)
	if err != nil {
		return nil, fmt.Errorf("failed to extract controls: %w", err)
	}

	var controls []Control
	for _, v := range res.Value.Arr() {
		c := Control{
			Selector:    v.Get("selector").String(),
			Tag:         v.Get("tag").String(),
			Type:        v.Get("type").String(),
			ID:          v.Get("id").String(),
			Name:        v.Get("name").String(),
			Label:       v.Get("label").String(),
			Placeholder: v.Get("placeholder").String(),
			Visible:     v.Get("visible").Bool(),
		}
		for _, cls := range v.Get("classes").Arr() {
			c.Classes = append(c.Classes, cls.String())
		}
		controls = append(controls, c)
	}

	return &FormMap{
		URL:      info.URL,
		Title:    info.Title,
		Controls: controls,
	}, nil
}
