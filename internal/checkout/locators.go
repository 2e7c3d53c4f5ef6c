package checkout

import (
	"fmt"
	"sort"

	"github.com/v0xg/checkoutpage/internal/address"
)

// Locator is the logical name of an element on the checkout address page
type Locator string

const (
	BillingAddressBook           Locator = "billing_address_book"
	BillingFirstName             Locator = "billing_first_name"
	BillingLastName              Locator = "billing_last_name"
	BillingStreet                Locator = "billing_street"
	BillingCity                  Locator = "billing_city"
	BillingCountry               Locator = "billing_country"
	BillingCountryProvince       Locator = "billing_country_province"
	BillingPostcode              Locator = "billing_postcode"
	BillingProvince              Locator = "billing_province"
	CheckoutSubtotal             Locator = "checkout_subtotal"
	CustomerEmail                Locator = "customer_email"
	DifferentBillingAddress      Locator = "different_billing_address"
	DifferentBillingAddressLabel Locator = "different_billing_address_label"
	LoginButton                  Locator = "login_button"
	LoginPassword                Locator = "login_password"
	NextStep                     Locator = "next_step"
	ShippingAddressBook          Locator = "shipping_address_book"
	ShippingCity                 Locator = "shipping_city"
	ShippingCountry              Locator = "shipping_country"
	ShippingCountryProvince      Locator = "shipping_country_province"
	ShippingFirstName            Locator = "shipping_first_name"
	ShippingLastName             Locator = "shipping_last_name"
	ShippingPostcode             Locator = "shipping_postcode"
	ShippingProvince             Locator = "shipping_province"
	ShippingStreet               Locator = "shipping_street"
)

// selectors maps every Locator to its CSS selector
var selectors = map[Locator]string{
	BillingAddressBook:           "#sylius-billing-address .ui.dropdown",
	BillingFirstName:             "#sylius_checkout_address_billingAddress_firstName",
	BillingLastName:              "#sylius_checkout_address_billingAddress_lastName",
	BillingStreet:                "#sylius_checkout_address_billingAddress_street",
	BillingCity:                  "#sylius_checkout_address_billingAddress_city",
	BillingCountry:               "#sylius_checkout_address_billingAddress_countryCode",
	BillingCountryProvince:       `[name="sylius_checkout_address[billingAddress][provinceCode]"]`,
	BillingPostcode:              "#sylius_checkout_address_billingAddress_postcode",
	BillingProvince:              `[name="sylius_checkout_address[billingAddress][provinceName]"]`,
	CheckoutSubtotal:             "#checkout-subtotal",
	CustomerEmail:                "#sylius_checkout_address_customer_email",
	DifferentBillingAddress:      "#sylius_checkout_address_differentBillingAddress",
	DifferentBillingAddressLabel: "#sylius_checkout_address_differentBillingAddress ~ label",
	LoginButton:                  "#sylius-api-login-submit",
	LoginPassword:                `input[type='password']`,
	NextStep:                     "#next-step",
	ShippingAddressBook:          "#sylius-shipping-address .ui.dropdown",
	ShippingCity:                 "#sylius_checkout_address_shippingAddress_city",
	ShippingCountry:              "#sylius_checkout_address_shippingAddress_countryCode",
	ShippingCountryProvince:      `[name="sylius_checkout_address[shippingAddress][provinceCode]"]`,
	ShippingFirstName:            "#sylius_checkout_address_shippingAddress_firstName",
	ShippingLastName:             "#sylius_checkout_address_shippingAddress_lastName",
	ShippingPostcode:             "#sylius_checkout_address_shippingAddress_postcode",
	ShippingProvince:             `[name="sylius_checkout_address[shippingAddress][provinceName]"]`,
	ShippingStreet:               "#sylius_checkout_address_shippingAddress_street",
}

// Locators returns every known Locator in name order
func Locators() []Locator {
	names := make([]Locator, 0, len(selectors))
	for name := range selectors {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Selector returns the CSS selector of a Locator
func Selector(name Locator) (string, bool) {
	sel, ok := selectors[name]
	return sel, ok && sel != ""
}

// ValidateLocators checks that every Locator the page operations derive from an address type resolves
func ValidateLocators() error {
	for _, t := range []address.Type{address.Billing, address.Shipping} {
		for _, field := range addressFields {
			name := fieldLocator(t, field)
			if _, ok := Selector(name); !ok {
				return fmt.Errorf("no selector for %s", name)
			}
		}
	}
	for name, sel := range selectors {
		if sel == "" {
			return fmt.Errorf("empty selector for %s", name)
		}
	}
	return nil
}

// addressFields are the per-type field suffixes, e.g. shipping_ + city
var addressFields = []string{
	"address_book", "first_name", "last_name", "street", "city",
	"country", "country_province", "postcode", "province",
}

func fieldLocator(t address.Type, field string) Locator {
	return Locator(string(t) + "_" + field)
}
