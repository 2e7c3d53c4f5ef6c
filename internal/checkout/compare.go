package checkout

import (
	"fmt"

	"github.com/v0xg/checkoutpage/internal/address"
)

// ComparePreFilledShippingAddress diffs the rendered shipping form against expected
func (p *AddressPage) ComparePreFilledShippingAddress(expected *address.Address) (address.Diff, error) {
	return p.comparePreFilledAddress(expected, string(address.Shipping))
}

// ComparePreFilledBillingAddress diffs the rendered billing form against expected
func (p *AddressPage) ComparePreFilledBillingAddress(expected *address.Address) (address.Diff, error) {
	return p.comparePreFilledAddress(expected, string(address.Billing))
}

func (p *AddressPage) comparePreFilledAddress(expected *address.Address, addressType string) (address.Diff, error) {
	got, err := p.preFilledAddress(addressType)
	if err != nil {
		return nil, err
	}
	return address.Compare(expected, got), nil
}

// preFilledAddress reads the core fields of one address form back into a record
func (p *AddressPage) preFilledAddress(addressType string) (*address.Address, error) {
	t, err := address.AssertType(addressType)
	if err != nil {
		return nil, err
	}

	a := p.factory.CreateNew()
	fields := []struct {
		field string
		dst   *string
	}{
		{"first_name", &a.FirstName},
		{"last_name", &a.LastName},
		{"street", &a.Street},
		{"country", &a.CountryCode},
		{"city", &a.City},
		{"postcode", &a.Postcode},
	}
	for _, f := range fields {
		name := fieldLocator(t, f.field)
		el, err := p.element(name)
		if err != nil {
			return nil, err
		}
		v, err := el.Value()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		*f.dst = v
	}

	return a, nil
}
