package handlers

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/yourusername/invoice-builder/models"
)

// Number is a form number. It accepts JSON numbers and numeric strings;
// anything malformed, non-finite or negative becomes 0.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	*n = 0
	data = bytes.TrimSpace(data)
	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil
		}
	} else {
		raw = string(data)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil
	}
	*n = Number(v)
	return nil
}

func (n *Number) float() *float64 {
	if n == nil {
		return nil
	}
	v := float64(*n)
	return &v
}

func (n *Number) percent() *float64 {
	v := n.float()
	if v != nil && *v > 100 {
		*v = 100
	}
	return v
}

// InvoicePatch is the body of PATCH /api/v1/invoice.
type InvoicePatch struct {
	VoucherNumber *string `json:"voucherNumber"`
	InvoiceDate   *string `json:"invoiceDate"`
	DueDate       *string `json:"dueDate"`
	Currency      *string `json:"currency"`

	BusinessName    *string `json:"businessName"`
	BusinessAddress *string `json:"businessAddress"`
	BusinessPhone   *string `json:"businessPhone"`
	BusinessEmail   *string `json:"businessEmail"`

	ClientName    *string `json:"clientName"`
	ClientAddress *string `json:"clientAddress"`
	ClientPhone   *string `json:"clientPhone"`
	ClientEmail   *string `json:"clientEmail"`

	TaxRate  *Number `json:"taxRate"`
	Discount *Number `json:"discount"`
	Shipping *Number `json:"shipping"`
	Notes    *string `json:"notes"`
}

// Update converts the patch into a validated models.InvoiceUpdate.
func (p InvoicePatch) Update() (models.InvoiceUpdate, error) {
	u := models.InvoiceUpdate{
		VoucherNumber:   p.VoucherNumber,
		BusinessName:    p.BusinessName,
		BusinessAddress: p.BusinessAddress,
		BusinessPhone:   p.BusinessPhone,
		BusinessEmail:   trimmed(p.BusinessEmail),
		ClientName:      p.ClientName,
		ClientAddress:   p.ClientAddress,
		ClientPhone:     p.ClientPhone,
		ClientEmail:     trimmed(p.ClientEmail),
		TaxRate:         p.TaxRate.percent(),
		Discount:        p.Discount.float(),
		Shipping:        p.Shipping.float(),
		Notes:           p.Notes,
	}
	if p.Currency != nil {
		cur := strings.ToUpper(strings.TrimSpace(*p.Currency))
		u.Currency = &cur
	}
	var err error
	if u.InvoiceDate, err = parseDate(p.InvoiceDate); err != nil {
		return u, err
	}
	if u.DueDate, err = parseDate(p.DueDate); err != nil {
		return u, err
	}
	return u, u.Validate()
}

// LineItemPatch is the body of PATCH /api/v1/line-items/:id.
type LineItemPatch struct {
	Description *string `json:"description"`
	Quantity    *Number `json:"quantity"`
	Unit        *string `json:"unit"`
	Rate        *Number `json:"rate"`
}

func (p LineItemPatch) Update() (models.LineItemUpdate, error) {
	u := models.LineItemUpdate{
		Description: p.Description,
		Quantity:    p.Quantity.float(),
		Unit:        p.Unit,
		Rate:        p.Rate.float(),
	}
	return u, u.Validate()
}

func parseDate(s *string) (*models.Date, error) {
	if s == nil {
		return nil, nil
	}
	d, err := models.ParseDate(strings.TrimSpace(*s))
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
