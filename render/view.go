// Package render turns editor state into the HTML form and preview.
package render

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yourusername/invoice-builder/invoice"
	"github.com/yourusername/invoice-builder/models"
	"github.com/yourusername/invoice-builder/utils"
)

// DescriptionPlaceholder is shown for line items without a description.
const DescriptionPlaceholder = "No description"

// PreviewView is the display-ready invoice. Money is rounded to two places.
type PreviewView struct {
	VoucherNumber string
	InvoiceDate   string
	DueDate       string
	Currency      string

	BusinessName    string
	BusinessAddress string
	BusinessPhone   string
	BusinessEmail   string

	ClientName    string
	ClientAddress string
	ClientPhone   string
	ClientEmail   string

	Items []LineView

	TaxRate     string
	Subtotal    string
	Tax         string
	Discount    string
	Shipping    string
	Total       string
	HasTax      bool
	HasDiscount bool
	HasShipping bool
	Notes       string
}

type LineView struct {
	ID          string
	Description string
	Placeholder bool
	Quantity    string
	Unit        string
	Rate        string
	Amount      string
}

// NewPreviewView derives the preview of inv.
func NewPreviewView(inv models.Invoice) PreviewView {
	return NewPreviewViewWithSymbol(inv, utils.CurrencySymbol(inv.Currency))
}

// NewPreviewViewWithSymbol derives the preview of inv, printing money with
// symbol instead of the currency's own symbol.
func NewPreviewViewWithSymbol(inv models.Invoice, symbol string) PreviewView {
	totals := invoice.ComputeTotals(inv)
	money := func(d decimal.Decimal) string {
		return utils.FormatMoneyWithSymbol(d, symbol)
	}

	v := PreviewView{
		VoucherNumber:   inv.VoucherNumber,
		InvoiceDate:     inv.InvoiceDate.String(),
		DueDate:         inv.DueDate.String(),
		Currency:        inv.Currency,
		BusinessName:    inv.BusinessName,
		BusinessAddress: inv.BusinessAddress,
		BusinessPhone:   inv.BusinessPhone,
		BusinessEmail:   inv.BusinessEmail,
		ClientName:      inv.ClientName,
		ClientAddress:   inv.ClientAddress,
		ClientPhone:     inv.ClientPhone,
		ClientEmail:     inv.ClientEmail,
		Items:           make([]LineView, 0, len(inv.LineItems)),
		TaxRate:         utils.FormatQuantity(inv.TaxRate),
		Subtotal:        money(totals.Subtotal),
		Tax:             money(totals.Tax),
		Discount:        money(totals.Discount),
		Shipping:        money(totals.Shipping),
		Total:           money(totals.Total),
		HasTax:          inv.TaxRate > 0,
		HasDiscount:     inv.Discount > 0,
		HasShipping:     inv.Shipping > 0,
		Notes:           inv.Notes,
	}
	for _, li := range inv.LineItems {
		lv := LineView{
			ID:          li.ID,
			Description: li.Description,
			Quantity:    utils.FormatQuantity(li.Quantity),
			Unit:        li.Unit,
			Rate:        money(decimal.NewFromFloat(li.Rate)),
			Amount:      money(li.Amount()),
		}
		if strings.TrimSpace(li.Description) == "" {
			lv.Description = DescriptionPlaceholder
			lv.Placeholder = true
		}
		v.Items = append(v.Items, lv)
	}
	return v
}

// PageView is the editor page: form inputs plus the preview.
type PageView struct {
	State      invoice.State
	Businesses []BusinessOption
	Currencies []utils.Currency
	Preview    PreviewView
}

type BusinessOption struct {
	ID       string
	Label    string
	Selected bool
}

// NewPageView derives the editor page of st.
func NewPageView(st invoice.State) PageView {
	opts := make([]BusinessOption, 0, len(st.Businesses))
	for _, b := range st.Businesses {
		opts = append(opts, BusinessOption{
			ID:       b.ID,
			Label:    b.DisplayName(),
			Selected: b.ID == st.SelectedBusinessID,
		})
	}
	return PageView{
		State:      st,
		Businesses: opts,
		Currencies: utils.Currencies,
		Preview:    NewPreviewView(st.Invoice),
	}
}
