package invoice

import (
	"github.com/shopspring/decimal"
	"github.com/yourusername/invoice-builder/models"
)

var hundred = decimal.NewFromInt(100)

// Totals are the amounts derived from an invoice. Values are exact; rounding
// to two places happens only when they are displayed.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeTotals derives subtotal, tax and total from inv:
//
//	subtotal = Σ quantity × rate
//	tax      = subtotal × taxRate / 100
//	total    = subtotal + tax − discount + shipping
//
// The total is not clamped; a discount larger than everything else yields a
// negative total.
func ComputeTotals(inv models.Invoice) Totals {
	subtotal := decimal.Zero
	for _, li := range inv.LineItems {
		subtotal = subtotal.Add(li.Amount())
	}
	tax := subtotal.Mul(decimal.NewFromFloat(inv.TaxRate)).Div(hundred)
	discount := decimal.NewFromFloat(inv.Discount)
	shipping := decimal.NewFromFloat(inv.Shipping)

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: discount,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Sub(discount).Add(shipping),
	}
}
