package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/invoice-builder/models"
)

func baseState() State {
	acme := models.Business{ID: "a", Name: "Acme", Currency: "USD"}
	globex := models.Business{ID: "b", Name: "Globex", Currency: "EUR"}
	inv := models.Invoice{ClientName: "Initech", LineItems: []models.LineItem{models.NewLineItem("l1")}}
	inv.ApplyBusiness(acme)
	return State{Invoice: inv, Businesses: []models.Business{acme, globex}, SelectedBusinessID: "a"}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := baseState()
	snapshot := s.Clone()

	name := "Changed"
	actions := []Action{
		{Type: ActionSelectBusiness, BusinessID: "b"},
		{Type: ActionAddBusiness, Business: models.Business{ID: "c", Name: "New Business", Currency: "USD"}},
		{Type: ActionDeleteBusiness, BusinessID: "a"},
		{Type: ActionUpdateInvoice, InvoiceUpdate: models.InvoiceUpdate{BusinessName: &name}},
		{Type: ActionAddLineItem, LineItem: models.NewLineItem("l2")},
		{Type: ActionUpdateLineItem, LineItemID: "l1", LineItemUpdate: models.LineItemUpdate{Description: &name}},
	}
	for _, a := range actions {
		_, fx := Reduce(s, a)
		assert.NoError(t, fx.Err, a.Type)
		assert.Equal(t, snapshot, s, a.Type)
	}
}

func TestReduceEffects(t *testing.T) {
	tests := []struct {
		name      string
		action    Action
		err       error
		selection bool
		update    bool
	}{
		{name: "Select", action: Action{Type: ActionSelectBusiness, BusinessID: "b"}, selection: true},
		{name: "Select Unknown", action: Action{Type: ActionSelectBusiness, BusinessID: "x"}, err: ErrBusinessNotFound},
		{name: "Delete Unselected", action: Action{Type: ActionDeleteBusiness, BusinessID: "b"}},
		{name: "Delete Selected", action: Action{Type: ActionDeleteBusiness, BusinessID: "a"}, selection: true},
		{name: "Remove Last Item", action: Action{Type: ActionRemoveLineItem, LineItemID: "l1"}, err: ErrLastLineItem},
		{name: "Remove Unknown Item", action: Action{Type: ActionRemoveLineItem, LineItemID: "zz"}, err: ErrLineItemNotFound},
		{name: "Unknown Action", action: Action{Type: "explode"}, err: ErrUnknownAction},
		{name: "Client Edit", action: Action{Type: ActionUpdateInvoice, InvoiceUpdate: models.InvoiceUpdate{ClientName: strPtr("Hooli")}}},
		{name: "Business Edit", action: Action{Type: ActionUpdateInvoice, InvoiceUpdate: models.InvoiceUpdate{BusinessAddress: strPtr("Main St")}}, update: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, fx := Reduce(baseState(), tt.action)
			if tt.err != nil {
				assert.ErrorIs(t, fx.Err, tt.err)
				assert.Equal(t, baseState(), next)
				return
			}
			assert.NoError(t, fx.Err)
			assert.Equal(t, tt.selection, fx.SaveSelection)
			assert.Equal(t, tt.update, fx.UpdateBusiness != nil)
			b, ok := next.SelectedBusiness()
			assert.True(t, ok)
			assert.True(t, next.Invoice.MirrorsBusiness(b))
		})
	}
}

func strPtr(s string) *string { return &s }
