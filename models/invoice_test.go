package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInvoice() Invoice {
	today := DateOf(time.Date(2024, 3, 1, 15, 4, 5, 0, time.UTC))
	return Invoice{
		VoucherNumber: "INV-1234",
		InvoiceDate:   today,
		DueDate:       today.AddDays(30),
		Currency:      "USD",
		BusinessName:  "Acme",
		LineItems:     []LineItem{NewLineItem("li-1")},
	}
}

func TestInvoiceValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(inv *Invoice)
		wantField string
	}{
		{name: "Valid", mutate: func(inv *Invoice) {}},
		{name: "Tax Rate Above 100", mutate: func(inv *Invoice) { inv.TaxRate = 100.5 }, wantField: "taxRate"},
		{name: "Tax Rate At 100", mutate: func(inv *Invoice) { inv.TaxRate = 100 }},
		{name: "Negative Discount", mutate: func(inv *Invoice) { inv.Discount = -1 }, wantField: "discount"},
		{name: "Negative Shipping", mutate: func(inv *Invoice) { inv.Shipping = -0.01 }, wantField: "shipping"},
		{name: "Negative Quantity", mutate: func(inv *Invoice) { inv.LineItems[0].Quantity = -2 }, wantField: "lineItems[0].quantity"},
		{name: "Negative Rate", mutate: func(inv *Invoice) { inv.LineItems[0].Rate = -2 }, wantField: "lineItems[0].rate"},
		{name: "No Line Items", mutate: func(inv *Invoice) { inv.LineItems = nil }, wantField: "lineItems"},
		{name: "Empty Business Email", mutate: func(inv *Invoice) { inv.BusinessEmail = "" }},
		{name: "Bad Business Email", mutate: func(inv *Invoice) { inv.BusinessEmail = "nope" }, wantField: "businessEmail"},
		{name: "Good Client Email", mutate: func(inv *Invoice) { inv.ClientEmail = "ap@globex.com" }},
		{name: "Unknown Currency", mutate: func(inv *Invoice) { inv.Currency = "XYZ1" }, wantField: "currency"},
		{name: "Due Date Before Invoice Date", mutate: func(inv *Invoice) { inv.DueDate = inv.InvoiceDate.AddDays(-5) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := validInvoice()
			tt.mutate(&inv)
			err := inv.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			fields := make([]string, 0, len(verr.Fields))
			for _, f := range verr.Fields {
				fields = append(fields, f.Field)
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestBusinessValidate(t *testing.T) {
	b := Business{ID: "b1", Name: "Acme", Currency: "EUR"}
	assert.NoError(t, b.Validate())

	b.Email = "billing@acme.test"
	assert.NoError(t, b.Validate())

	b.Email = "billing"
	assert.Error(t, b.Validate())

	assert.Error(t, Business{ID: "b2"}.Validate())
}

func TestUpdateValidateAcceptsClearedEmail(t *testing.T) {
	empty := ""
	bad := "x@"
	assert.NoError(t, InvoiceUpdate{BusinessEmail: &empty}.Validate())
	assert.Error(t, InvoiceUpdate{BusinessEmail: &bad}.Validate())

	neg := -1.0
	assert.Error(t, LineItemUpdate{Rate: &neg}.Validate())
}

func TestInvoiceUpdateApply(t *testing.T) {
	inv := validInvoice()
	name := "Globex"
	client := "Initech"
	tax := 12.5

	u := InvoiceUpdate{BusinessName: &name, ClientName: &client, TaxRate: &tax}
	assert.True(t, u.TouchesBusiness())
	u.Apply(&inv)

	assert.Equal(t, "Globex", inv.BusinessName)
	assert.Equal(t, "Initech", inv.ClientName)
	assert.Equal(t, 12.5, inv.TaxRate)
	assert.Equal(t, "USD", inv.Currency)
	assert.False(t, InvoiceUpdate{ClientName: &client}.TouchesBusiness())
}

func TestInvoiceCloneDoesNotShareLineItems(t *testing.T) {
	inv := validInvoice()
	cp := inv.Clone()
	cp.LineItems[0].Description = "changed"
	assert.Empty(t, inv.LineItems[0].Description)
}

func TestDateJSON(t *testing.T) {
	d := DateOf(time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC))
	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-12-31"`, string(raw))

	var back Date
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, d.Equal(back.Time))
	assert.Equal(t, "2025-01-30", d.AddDays(30).String())

	assert.Error(t, json.Unmarshal([]byte(`"31/12/2024"`), &back))
}

func TestBusinessNormalize(t *testing.T) {
	assert.Equal(t, DefaultCurrency, Business{ID: "legacy"}.Normalize().Currency)
	assert.Equal(t, "GBP", Business{ID: "b", Currency: "GBP"}.Normalize().Currency)
	assert.Equal(t, "Unnamed Business", Business{}.DisplayName())
}

func TestLineItemAmountAndValidate(t *testing.T) {
	tests := []struct {
		name      string
		item      LineItem
		amount    string
		wantField string
	}{
		{name: "Default", item: NewLineItem("li-1"), amount: "0"},
		{name: "Fractional Exact", item: LineItem{ID: "li-2", Quantity: 3, Rate: 0.1}, amount: "0.3"},
		{name: "Negative Rate", item: LineItem{ID: "li-3", Quantity: 1, Rate: -1}, amount: "-1", wantField: "rate"},
		{name: "Missing ID", item: LineItem{Quantity: 1, Rate: 2}, amount: "2", wantField: "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.amount, tt.item.Amount().String())

			err := tt.item.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.wantField, verr.Fields[0].Field)
		})
	}
}
