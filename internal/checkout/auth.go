package checkout

import (
	"errors"
	"fmt"

	"github.com/v0xg/checkoutpage/internal/browser"
	"github.com/v0xg/checkoutpage/internal/wait"
)

const (
	fieldClass             = "field"
	validationMessageClass = ".sylius-validation-error"
	validationLabel        = ".red.label"

	invalidCredentialsMessage = "Invalid credentials."
)

// CanSignIn reports whether the sign-in control shows up
func (p *AddressPage) CanSignIn() bool {
	return p.waitForElement(LoginButton)
}

// IsLoginPanelPresent reports, without waiting, whether the password field is still on the page
func (p *AddressPage) IsLoginPanelPresent() bool {
	return p.hasElement(LoginPassword)
}

// SignIn submits the login panel and waits for it to go away.
// A panel that never disappears is not reported: the next step of the scenario fails instead.
func (p *AddressPage) SignIn() error {
	p.waitForElement(LoginButton)

	err := p.press(LoginButton)
	if errors.Is(err, browser.ErrElementNotFound) {
		// Some themes render the control as a link rather than a button
		err = p.click(LoginButton)
	}
	if err != nil {
		return err
	}

	if !p.waitForLoginAction() {
		p.logger.WithField("locator", LoginPassword).Warn("Login panel still present after signing in")
	}
	return nil
}

// SpecifyPassword types the password once the login panel has rendered it
func (p *AddressPage) SpecifyPassword(password string) error {
	wait.True(p.timeout, p.interval, func() bool {
		el, err := p.element(LoginPassword)
		if err != nil {
			return false
		}
		visible, err := el.IsVisible()
		return err == nil && visible
	})

	el, err := p.element(LoginPassword)
	if err != nil {
		return err
	}
	if err := el.SetValue(password); err != nil {
		return fmt.Errorf("%s: %w", LoginPassword, err)
	}
	p.logger.WithField("locator", LoginPassword).Debug("Setting password")
	p.step(string(LoginPassword), el)
	return nil
}

// CheckInvalidCredentialsValidation waits for the login error label and checks its message
func (p *AddressPage) CheckInvalidCredentialsValidation() (bool, error) {
	wait.True(p.timeout, p.interval, func() bool {
		el, err := p.element(LoginPassword)
		if err != nil {
			return false
		}
		parent, err := el.Parent()
		if err != nil {
			return false
		}
		label, err := parent.Find(validationLabel)
		if err != nil {
			return false
		}
		visible, err := label.IsVisible()
		return err == nil && visible
	})

	return p.CheckValidationMessageFor(LoginPassword, invalidCredentialsMessage)
}

// CheckValidationMessageFor reports whether the validation message of a form field equals message
func (p *AddressPage) CheckValidationMessageFor(name Locator, message string) (bool, error) {
	field, err := p.fieldElement(name)
	if err != nil {
		return false, err
	}

	msg, err := field.Find(validationMessageClass)
	if err != nil {
		return false, fmt.Errorf("validation message for %s: %w", name, err)
	}
	text, err := msg.Text()
	if err != nil {
		return false, fmt.Errorf("validation message for %s: %w", name, err)
	}
	return text == message, nil
}

// fieldElement returns the closest ancestor of name that wraps a whole form field
func (p *AddressPage) fieldElement(name Locator) (browser.Element, error) {
	el, err := p.element(name)
	if err != nil {
		return nil, err
	}

	for {
		isField, err := el.HasClass(fieldClass)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if isField {
			return el, nil
		}

		el, err = el.Parent()
		if err != nil {
			return nil, fmt.Errorf("field wrapping %s: %w", name, err)
		}
	}
}

func (p *AddressPage) press(name Locator) error {
	el, err := p.element(name)
	if err != nil {
		return err
	}
	p.logger.WithField("locator", name).Debug("Pressing")
	if err := el.Press(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	p.step(string(name), el)
	return nil
}

// waitForLoginAction waits for the password field to go away, the only sign of a finished login
func (p *AddressPage) waitForLoginAction() bool {
	return wait.True(p.timeout, p.interval, func() bool {
		return !p.hasElement(LoginPassword)
	})
}
