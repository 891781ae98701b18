package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/invoice-builder/invoice"
	"github.com/yourusername/invoice-builder/models"
)

func sampleInvoice() models.Invoice {
	today := models.DateOf(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	return models.Invoice{
		VoucherNumber: "INV-1001",
		InvoiceDate:   today,
		DueDate:       today.AddDays(30),
		Currency:      "USD",
		BusinessName:  "Acme",
		ClientName:    "Globex <script>",
		LineItems: []models.LineItem{
			{ID: "l1", Description: "Anvils", Quantity: 2, Unit: "pcs", Rate: 50},
			{ID: "l2", Description: "", Quantity: 1, Unit: "hrs", Rate: 100},
		},
		TaxRate:  10,
		Discount: 5,
		Shipping: 20,
	}
}

func TestNewPreviewView(t *testing.T) {
	v := NewPreviewView(sampleInvoice())

	assert.Equal(t, "$200.00", v.Subtotal)
	assert.Equal(t, "$20.00", v.Tax)
	assert.Equal(t, "$5.00", v.Discount)
	assert.Equal(t, "$20.00", v.Shipping)
	assert.Equal(t, "$235.00", v.Total)
	assert.Equal(t, "2024-05-31", v.DueDate)

	require.Len(t, v.Items, 2)
	assert.Equal(t, "$100.00", v.Items[0].Amount)
	assert.False(t, v.Items[0].Placeholder)
	assert.Equal(t, DescriptionPlaceholder, v.Items[1].Description)
	assert.True(t, v.Items[1].Placeholder)
}

func TestPreviewShowsNegativeTotal(t *testing.T) {
	inv := sampleInvoice()
	inv.Discount = 1000
	v := NewPreviewView(inv)
	assert.Equal(t, "-$760.00", v.Total)
}

func TestRenderPreview(t *testing.T) {
	r := NewRenderer()
	html, err := r.RenderPreview(NewPreviewView(sampleInvoice()))
	require.NoError(t, err)

	assert.Contains(t, html, "INV-1001")
	assert.Contains(t, html, "$235.00")
	assert.Contains(t, html, "No description")
	assert.Contains(t, html, "Globex &lt;script&gt;")
	assert.NotContains(t, html, "<html")
}

func TestRenderPage(t *testing.T) {
	r := NewRenderer()
	st := invoice.State{
		Invoice: sampleInvoice(),
		Businesses: []models.Business{
			{ID: "a", Name: "Acme", Currency: "USD"},
			{ID: "b", Name: "", Currency: "EUR"},
		},
		SelectedBusinessID: "a",
	}
	html, err := r.RenderPage(NewPageView(st))
	require.NoError(t, err)

	assert.Contains(t, html, "<!doctype html>")
	assert.Contains(t, html, "Unnamed Business")
	assert.Contains(t, html, `id="invoice-preview"`)
	assert.Contains(t, html, `value="2024-05-01"`)
	assert.Contains(t, html, "Download PDF")
	// field edits refresh the business selector and roll back rejected values
	assert.Contains(t, html, "renderBusinesses(await res.json())")
	assert.Contains(t, html, "el.value = el.dataset.saved")
}

func TestPreviewViewWithSymbol(t *testing.T) {
	inv := sampleInvoice()
	inv.Currency = "INR"

	assert.Equal(t, "₹235.00", NewPreviewView(inv).Total)

	v := NewPreviewViewWithSymbol(inv, "INR ")
	assert.Equal(t, "INR 235.00", v.Total)
	assert.Equal(t, "INR 50.00", v.Items[0].Rate)
	assert.Equal(t, "INR 100.00", v.Items[0].Amount)
	assert.Equal(t, "INR", v.Currency)
}
