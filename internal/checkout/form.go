package checkout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/v0xg/checkoutpage/internal/address"
	"github.com/v0xg/checkoutpage/internal/browser"
	"github.com/v0xg/checkoutpage/internal/wait"
)

// countryPlaceholder is the country option shown before any country is chosen
const countryPlaceholder = "Select"

// SpecifyShippingAddress fills the shipping address form
func (p *AddressPage) SpecifyShippingAddress(a *address.Address) error {
	return p.specifyAddress(address.Shipping, a)
}

// SpecifyBillingAddress fills the billing address form
func (p *AddressPage) SpecifyBillingAddress(a *address.Address) error {
	return p.specifyAddress(address.Billing, a)
}

func (p *AddressPage) specifyAddress(t address.Type, a *address.Address) error {
	country := a.CountryCode
	if country == "" {
		country = countryPlaceholder
	}

	steps := []func() error{
		func() error { return p.setValue(fieldLocator(t, "first_name"), a.FirstName) },
		func() error { return p.setValue(fieldLocator(t, "last_name"), a.LastName) },
		func() error { return p.setValue(fieldLocator(t, "street"), a.Street) },
		func() error { return p.selectOption(fieldLocator(t, "country"), country) },
		func() error { return p.setValue(fieldLocator(t, "city"), a.City) },
		func() error { return p.setValue(fieldLocator(t, "postcode"), a.Postcode) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("specify %s address: %w", t, err)
		}
	}

	// The province input is fetched once a country is chosen
	if a.ProvinceName != nil {
		if err := p.specifyProvince(t, *a.ProvinceName); err != nil {
			return fmt.Errorf("specify %s address: %w", t, err)
		}
	}

	return nil
}

// SelectShippingAddressProvince picks a province from the country dependent select
func (p *AddressPage) SelectShippingAddressProvince(province string) error {
	return p.selectProvince(address.Shipping, province)
}

// SelectBillingAddressProvince picks a province from the country dependent select
func (p *AddressPage) SelectBillingAddressProvince(province string) error {
	return p.selectProvince(address.Billing, province)
}

func (p *AddressPage) selectProvince(t address.Type, province string) error {
	name := fieldLocator(t, "country_province")
	p.waitForElement(name)
	return p.selectOption(name, province)
}

// SpecifyShippingAddressProvince types a free-text province
func (p *AddressPage) SpecifyShippingAddressProvince(province string) error {
	return p.specifyProvince(address.Shipping, province)
}

// SpecifyBillingAddressProvince types a free-text province
func (p *AddressPage) SpecifyBillingAddressProvince(province string) error {
	return p.specifyProvince(address.Billing, province)
}

func (p *AddressPage) specifyProvince(t address.Type, province string) error {
	name := fieldLocator(t, "province")
	p.waitForElement(name)
	return p.setValue(name, province)
}

// HasShippingAddressInput reports whether the free-text shipping province shows up
func (p *AddressPage) HasShippingAddressInput() bool {
	return p.waitForElement(ShippingProvince)
}

// HasBillingAddressInput reports whether the free-text billing province shows up
func (p *AddressPage) HasBillingAddressInput() bool {
	return p.waitForElement(BillingProvince)
}

// SpecifyEmail fills the guest customer email
func (p *AddressPage) SpecifyEmail(email string) error {
	return p.setValue(CustomerEmail, email)
}

// ChooseDifferentBillingAddress switches on the separate billing address form
func (p *AddressPage) ChooseDifferentBillingAddress() error {
	// With scripts running the checkbox is hidden behind a styled label
	if p.session.SupportsJavaScript() {
		return p.click(DifferentBillingAddressLabel)
	}

	toggle, err := p.element(DifferentBillingAddress)
	if err != nil {
		return err
	}
	checked, err := toggle.IsChecked()
	if err != nil {
		return fmt.Errorf("%s: %w", DifferentBillingAddress, err)
	}
	if checked {
		return errors.New("previous state of different billing address switch was true, expected to be false")
	}

	if err := toggle.Check(); err != nil {
		return fmt.Errorf("%s: %w", DifferentBillingAddress, err)
	}
	p.step(string(DifferentBillingAddress), toggle)
	return nil
}

// SelectShippingAddressFromAddressBook picks a saved address from the shipping address book
func (p *AddressPage) SelectShippingAddressFromAddressBook(a *address.Address) error {
	return p.selectFromAddressBook(address.Shipping, a)
}

// SelectBillingAddressFromAddressBook picks a saved address from the billing address book
func (p *AddressPage) SelectBillingAddressFromAddressBook(a *address.Address) error {
	return p.selectFromAddressBook(address.Billing, a)
}

func (p *AddressPage) selectFromAddressBook(t address.Type, a *address.Address) error {
	name := fieldLocator(t, "address_book")
	book, err := p.element(name)
	if err != nil {
		return err
	}
	if err := book.Click(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	p.step(string(name), book)

	itemSelector := fmt.Sprintf(`.item[data-value="%s"]`, a.ID)
	item, ok := wait.Until(p.timeout, p.interval, func() (browser.Element, bool) {
		el, err := book.Find(itemSelector)
		return el, err == nil
	})
	if !ok {
		return fmt.Errorf("%s: %w: %s", name, browser.ErrElementNotFound, itemSelector)
	}

	p.logger.WithField("locator", name).Debugf("Choosing saved address %s", a.ID)
	if err := item.Click(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	p.step(string(name)+" item", item)
	return nil
}

// GetItemSubtotal reads the subtotal shown for a cart item
func (p *AddressPage) GetItemSubtotal(itemName string) (string, error) {
	slug := strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(itemName, `"`, ""), " ", "-"))

	table, err := p.element(CheckoutSubtotal)
	if err != nil {
		return "", err
	}
	cell, err := table.Find(fmt.Sprintf("#item-%s-subtotal", slug))
	if err != nil {
		return "", fmt.Errorf("%s: %w", CheckoutSubtotal, err)
	}
	return cell.Text()
}

// GetShippingAddressCountry returns the label of the selected shipping country
func (p *AddressPage) GetShippingAddressCountry() (string, error) {
	country, err := p.element(ShippingCountry)
	if err != nil {
		return "", err
	}
	selected, err := country.Find("option:checked")
	if err != nil {
		return "", fmt.Errorf("%s: %w", ShippingCountry, err)
	}
	return selected.Text()
}

// NextStep submits the address step
func (p *AddressPage) NextStep() error {
	el, err := p.element(NextStep)
	if err != nil {
		return err
	}
	if err := el.Press(); err != nil {
		return fmt.Errorf("%s: %w", NextStep, err)
	}
	p.step(string(NextStep), el)
	return nil
}

// BackToStore leaves the checkout
func (p *AddressPage) BackToStore() error {
	return p.session.ClickLink("Back to store")
}
