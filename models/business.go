package models

import "strings"

// DefaultCurrency is used for synthesized businesses and for stored records
// that predate the currency field.
const DefaultCurrency = "USD"

// NewBusinessName is the placeholder name given to businesses created from the selector.
const NewBusinessName = "New Business"

// Business is the invoice issuer's reusable profile.
type Business struct {
	ID       string `json:"id" validate:"required"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Currency string `json:"currency" validate:"required,iso4217"`
}

// DisplayName returns the name shown in selectors.
func (b Business) DisplayName() string {
	if strings.TrimSpace(b.Name) == "" {
		return "Unnamed Business"
	}
	return b.Name
}

// Normalize fills fields that older stored records may lack.
func (b Business) Normalize() Business {
	if strings.TrimSpace(b.Currency) == "" {
		b.Currency = DefaultCurrency
	}
	return b
}
