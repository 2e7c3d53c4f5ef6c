// Package address holds checkout address records and their comparison.
package address

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned for an address type other than billing or shipping
var ErrInvalidArgument = errors.New("invalid argument")

// Type selects which of the two checkout address forms an operation targets
type Type string

const (
	Billing  Type = "billing"
	Shipping Type = "shipping"
)

// AssertType validates an address type name
func AssertType(name string) (Type, error) {
	switch Type(name) {
	case Billing, Shipping:
		return Type(name), nil
	default:
		return "", fmt.Errorf("%w: there are only two available types %s, %s. %s given",
			ErrInvalidArgument, Billing, Shipping, name)
	}
}

// Address is a postal address as typed into or read back from the checkout form
type Address struct {
	ID           string // Identifier of a saved address, used by the address book widget
	FirstName    string
	LastName     string
	Street       string
	City         string
	Postcode     string
	CountryCode  string
	ProvinceName *string // nil when the country has no free-text province
	ProvinceCode *string
}

// Factory creates blank address records
type Factory interface {
	CreateNew() *Address
}

type factory struct{}

// NewFactory returns the default Factory
func NewFactory() Factory {
	return factory{}
}

func (factory) CreateNew() *Address {
	return &Address{}
}

// FieldDiff holds the two sides of a mismatched field
type FieldDiff struct {
	Got      string `json:"got"`
	Expected string `json:"expected"`
}

// Diff maps field names to mismatches. An empty Diff means the addresses match.
type Diff map[string]FieldDiff

// Compare reports the core fields of got that differ from expected.
// Province and ID are not part of the comparison.
func Compare(expected, got *Address) Diff {
	diff := Diff{}

	fields := []struct {
		name          string
		expected, got string
	}{
		{"city", expected.City, got.City},
		{"first_name", expected.FirstName, got.FirstName},
		{"last_name", expected.LastName, got.LastName},
		{"street", expected.Street, got.Street},
		{"country_code", expected.CountryCode, got.CountryCode},
		{"postcode", expected.Postcode, got.Postcode},
	}
	for _, f := range fields {
		if f.expected != f.got {
			diff[f.name] = FieldDiff{Got: f.got, Expected: f.expected}
		}
	}

	return diff
}
