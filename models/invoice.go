package models

import "github.com/shopspring/decimal"

// Line item defaults applied by "add line item".
const (
	DefaultLineItemQuantity = 1
	DefaultLineItemUnit     = "pcs"
)

// LineItem is one billable row on an invoice.
type LineItem struct {
	ID          string  `json:"id" validate:"required"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity" validate:"gte=0"`
	Unit        string  `json:"unit"`
	Rate        float64 `json:"rate" validate:"gte=0"`
}

// NewLineItem returns a line item with the default quantity, unit and rate.
func NewLineItem(id string) LineItem {
	return LineItem{
		ID:       id,
		Quantity: DefaultLineItemQuantity,
		Unit:     DefaultLineItemUnit,
	}
}

// Amount is quantity × rate, exact. It is never stored.
func (li LineItem) Amount() decimal.Decimal {
	return decimal.NewFromFloat(li.Quantity).Mul(decimal.NewFromFloat(li.Rate))
}

// Invoice is the aggregate held by the editor. Business* fields mirror the
// selected Business.
type Invoice struct {
	VoucherNumber string `json:"voucherNumber"`
	InvoiceDate   Date   `json:"invoiceDate"`
	DueDate       Date   `json:"dueDate"`
	Currency      string `json:"currency" validate:"required,iso4217"`

	BusinessName    string `json:"businessName"`
	BusinessAddress string `json:"businessAddress"`
	BusinessPhone   string `json:"businessPhone,omitempty"`
	BusinessEmail   string `json:"businessEmail,omitempty" validate:"omitempty,email"`

	ClientName    string `json:"clientName"`
	ClientAddress string `json:"clientAddress"`
	ClientPhone   string `json:"clientPhone,omitempty"`
	ClientEmail   string `json:"clientEmail,omitempty" validate:"omitempty,email"`

	LineItems []LineItem `json:"lineItems" validate:"min=1,dive"`
	TaxRate   float64    `json:"taxRate" validate:"gte=0,lte=100"`
	Discount  float64    `json:"discount" validate:"gte=0"`
	Shipping  float64    `json:"shipping" validate:"gte=0"`
	Notes     string     `json:"notes,omitempty"`
}

// Clone returns a copy that shares no line item storage with inv.
func (inv Invoice) Clone() Invoice {
	out := inv
	out.LineItems = append([]LineItem(nil), inv.LineItems...)
	return out
}

// ApplyBusiness copies the business mirror fields from b.
func (inv *Invoice) ApplyBusiness(b Business) {
	inv.BusinessName = b.Name
	inv.BusinessAddress = b.Address
	inv.BusinessPhone = b.Phone
	inv.BusinessEmail = b.Email
	inv.Currency = b.Currency
}

// MirrorsBusiness reports whether the business mirror fields equal b's.
func (inv Invoice) MirrorsBusiness(b Business) bool {
	return inv.BusinessName == b.Name &&
		inv.BusinessAddress == b.Address &&
		inv.BusinessPhone == b.Phone &&
		inv.BusinessEmail == b.Email &&
		inv.Currency == b.Currency
}

// InvoiceUpdate is a partial invoice. Nil fields are left untouched.
type InvoiceUpdate struct {
	VoucherNumber *string `json:"voucherNumber,omitempty"`
	InvoiceDate   *Date   `json:"invoiceDate,omitempty"`
	DueDate       *Date   `json:"dueDate,omitempty"`
	Currency      *string `json:"currency,omitempty" validate:"omitempty,iso4217"`

	BusinessName    *string `json:"businessName,omitempty"`
	BusinessAddress *string `json:"businessAddress,omitempty"`
	BusinessPhone   *string `json:"businessPhone,omitempty"`
	BusinessEmail   *string `json:"businessEmail,omitempty" validate:"omitempty,email|len=0"`

	ClientName    *string `json:"clientName,omitempty"`
	ClientAddress *string `json:"clientAddress,omitempty"`
	ClientPhone   *string `json:"clientPhone,omitempty"`
	ClientEmail   *string `json:"clientEmail,omitempty" validate:"omitempty,email|len=0"`

	TaxRate  *float64 `json:"taxRate,omitempty" validate:"omitempty,gte=0,lte=100"`
	Discount *float64 `json:"discount,omitempty" validate:"omitempty,gte=0"`
	Shipping *float64 `json:"shipping,omitempty" validate:"omitempty,gte=0"`
	Notes    *string  `json:"notes,omitempty"`
}

// TouchesBusiness reports whether u sets any business mirror field.
func (u InvoiceUpdate) TouchesBusiness() bool {
	return u.BusinessName != nil || u.BusinessAddress != nil || u.BusinessPhone != nil ||
		u.BusinessEmail != nil || u.Currency != nil
}

// Apply shallow-merges u into inv.
func (u InvoiceUpdate) Apply(inv *Invoice) {
	setString(&inv.VoucherNumber, u.VoucherNumber)
	if u.InvoiceDate != nil {
		inv.InvoiceDate = *u.InvoiceDate
	}
	if u.DueDate != nil {
		inv.DueDate = *u.DueDate
	}
	setString(&inv.Currency, u.Currency)
	setString(&inv.BusinessName, u.BusinessName)
	setString(&inv.BusinessAddress, u.BusinessAddress)
	setString(&inv.BusinessPhone, u.BusinessPhone)
	setString(&inv.BusinessEmail, u.BusinessEmail)
	setString(&inv.ClientName, u.ClientName)
	setString(&inv.ClientAddress, u.ClientAddress)
	setString(&inv.ClientPhone, u.ClientPhone)
	setString(&inv.ClientEmail, u.ClientEmail)
	setFloat(&inv.TaxRate, u.TaxRate)
	setFloat(&inv.Discount, u.Discount)
	setFloat(&inv.Shipping, u.Shipping)
	setString(&inv.Notes, u.Notes)
}

// LineItemUpdate is a partial line item. Nil fields are left untouched.
type LineItemUpdate struct {
	Description *string  `json:"description,omitempty"`
	Quantity    *float64 `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Unit        *string  `json:"unit,omitempty"`
	Rate        *float64 `json:"rate,omitempty" validate:"omitempty,gte=0"`
}

// Apply merges u into li.
func (u LineItemUpdate) Apply(li *LineItem) {
	setString(&li.Description, u.Description)
	setFloat(&li.Quantity, u.Quantity)
	setString(&li.Unit, u.Unit)
	setFloat(&li.Rate, u.Rate)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
