// Package checkout is the page object of the shop's checkout address step.
//
// Operations are named after what a customer does on the page. Each reduces to a direct element
// interaction, a bounded poll for content rendered asynchronously (provinces, address book items,
// the login panel), or a comparison of the rendered form against an expected address.
//
// An AddressPage is not safe for concurrent use: it drives one serialized page state.
package checkout

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/v0xg/checkoutpage/internal/address"
	"github.com/v0xg/checkoutpage/internal/browser"
	"github.com/v0xg/checkoutpage/internal/wait"
)

// RouteName is the shop route serving the checkout address step
const RouteName = "sylius_shop_checkout_address"

// routePath is the path RouteName resolves to
const routePath = "/checkout/address"

// DefaultTimeout bounds every wait on the page
const DefaultTimeout = 5 * time.Second

// Options configures an AddressPage
type Options struct {
	Timeout      time.Duration // Wait budget for asynchronously rendered elements
	PollInterval time.Duration
	Observer     StepObserver // Optional, notified after each interaction
}

// StepObserver is told about every interaction the page performs
type StepObserver interface {
	Step(name string, el browser.Element)
}

// AddressPage drives the checkout address form
type AddressPage struct {
	session  browser.Session
	factory  address.Factory
	logger   logrus.FieldLogger
	timeout  time.Duration
	interval time.Duration
	observer StepObserver
}

// New creates the page object over an open session
func New(session browser.Session, factory address.Factory, logger logrus.FieldLogger, opts Options) *AddressPage {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.PollInterval == 0 {
		opts.PollInterval = wait.DefaultInterval
	}

	return &AddressPage{
		session:  session,
		factory:  factory,
		logger:   logger.WithField("page", RouteName),
		timeout:  opts.Timeout,
		interval: opts.PollInterval,
		observer: opts.Observer,
	}
}

// RouteName returns the route of the page
func (p *AddressPage) RouteName() string {
	return RouteName
}

// Open navigates to the page under baseURL
func (p *AddressPage) Open(baseURL string) error {
	url := strings.TrimRight(baseURL, "/") + routePath
	p.logger.WithField("url", url).Debug("Opening checkout address page")
	return p.session.Navigate(url)
}

// MissingElements lists the locators that match nothing on the current page
func (p *AddressPage) MissingElements() []Locator {
	var missing []Locator
	for _, name := range Locators() {
		if !p.hasElement(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// element resolves a Locator on the current page without waiting
func (p *AddressPage) element(name Locator) (browser.Element, error) {
	sel, ok := Selector(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown locator %s", browser.ErrElementNotFound, name)
	}

	el, err := p.session.Find(sel)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return el, nil
}

func (p *AddressPage) hasElement(name Locator) bool {
	sel, ok := Selector(name)
	return ok && p.session.Has(sel)
}

// waitForElement polls until name is present, reporting whether it showed up in time
func (p *AddressPage) waitForElement(name Locator) bool {
	found := wait.True(p.timeout, p.interval, func() bool {
		return p.hasElement(name)
	})
	if !found {
		p.logger.WithField("locator", name).Debugf("Element did not appear within %s", p.timeout)
	}
	return found
}

// setValue types value into the element behind name
func (p *AddressPage) setValue(name Locator, value string) error {
	el, err := p.element(name)
	if err != nil {
		return err
	}
	p.logger.WithField("locator", name).Debugf("Setting value %q", value)
	if err := el.SetValue(value); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	p.step(string(name), el)
	return nil
}

func (p *AddressPage) selectOption(name Locator, option string) error {
	el, err := p.element(name)
	if err != nil {
		return err
	}
	p.logger.WithField("locator", name).Debugf("Selecting option %q", option)
	if err := el.SelectOption(option); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	p.step(string(name), el)
	return nil
}

func (p *AddressPage) click(name Locator) error {
	el, err := p.element(name)
	if err != nil {
		return err
	}
	p.logger.WithField("locator", name).Debug("Clicking")
	if err := el.Click(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	p.step(string(name), el)
	return nil
}

func (p *AddressPage) step(name string, el browser.Element) {
	if p.observer != nil {
		p.observer.Step(name, el)
	}
}
