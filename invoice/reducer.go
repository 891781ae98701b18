package invoice

import (
	"errors"

	"github.com/yourusername/invoice-builder/models"
)

var (
	ErrBusinessNotFound = errors.New("business_not_found")
	ErrLastBusiness     = errors.New("last_business")
	ErrLineItemNotFound = errors.New("line_item_not_found")
	ErrLastLineItem     = errors.New("last_line_item")
	ErrUnknownAction    = errors.New("unknown_action")
)

// State is everything the editor holds in memory.
type State struct {
	Invoice            models.Invoice    `json:"invoice"`
	Businesses         []models.Business `json:"businesses"`
	SelectedBusinessID string            `json:"selectedBusinessId"`
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.Invoice = s.Invoice.Clone()
	out.Businesses = append([]models.Business(nil), s.Businesses...)
	return out
}

// SelectedBusiness returns the business the invoice mirrors.
func (s State) SelectedBusiness() (models.Business, bool) {
	i := s.businessIndex(s.SelectedBusinessID)
	if i < 0 {
		return models.Business{}, false
	}
	return s.Businesses[i], true
}

func (s State) businessIndex(id string) int {
	for i := range s.Businesses {
		if s.Businesses[i].ID == id {
			return i
		}
	}
	return -1
}

func (s State) lineItemIndex(id string) int {
	for i := range s.Invoice.LineItems {
		if s.Invoice.LineItems[i].ID == id {
			return i
		}
	}
	return -1
}

type ActionType string

const (
	ActionSelectBusiness ActionType = "select_business"
	ActionAddBusiness    ActionType = "add_business"
	ActionDeleteBusiness ActionType = "delete_business"
	ActionUpdateInvoice  ActionType = "update_invoice"
	ActionResetInvoice   ActionType = "reset_invoice"
	ActionAddLineItem    ActionType = "add_line_item"
	ActionUpdateLineItem ActionType = "update_line_item"
	ActionRemoveLineItem ActionType = "remove_line_item"
)

// Action is one state transition. Only the fields relevant to Type are read.
// Ids, voucher numbers and dates are filled in before dispatch so Reduce
// stays deterministic.
type Action struct {
	Type           ActionType
	BusinessID     string
	Business       models.Business
	InvoiceUpdate  models.InvoiceUpdate
	Invoice        models.Invoice
	LineItemID     string
	LineItem       models.LineItem
	LineItemUpdate models.LineItemUpdate
}

// Effects are the persistence writes a transition requires.
type Effects struct {
	Err            error
	SaveSelection  bool
	AddBusiness    *models.Business
	UpdateBusiness *models.Business
	DeleteBusiness string
}

// Reduce applies a to a copy of s. The input state is never modified.
func Reduce(s State, a Action) (State, Effects) {
	next := s.Clone()
	var fx Effects

	switch a.Type {
	case ActionSelectBusiness:
		if !next.selectBusiness(a.BusinessID) {
			return s, Effects{Err: ErrBusinessNotFound}
		}
		fx.SaveSelection = true

	case ActionAddBusiness:
		b := a.Business
		next.Businesses = append(next.Businesses, b)
		next.selectBusiness(b.ID)
		fx.AddBusiness = &b
		fx.SaveSelection = true

	case ActionDeleteBusiness:
		i := next.businessIndex(a.BusinessID)
		if i < 0 {
			return s, Effects{Err: ErrBusinessNotFound}
		}
		if len(next.Businesses) == 1 {
			return s, Effects{Err: ErrLastBusiness}
		}
		next.Businesses = append(next.Businesses[:i], next.Businesses[i+1:]...)
		fx.DeleteBusiness = a.BusinessID
		if next.SelectedBusinessID == a.BusinessID {
			next.selectBusiness(next.Businesses[0].ID)
			fx.SaveSelection = true
		}

	case ActionUpdateInvoice:
		a.InvoiceUpdate.Apply(&next.Invoice)
		if !a.InvoiceUpdate.TouchesBusiness() {
			break
		}
		// Write the mirror fields back to the selected business. The selection
		// itself is left alone so the invoice is not re-synced from it.
		i := next.businessIndex(next.SelectedBusinessID)
		if i < 0 || next.Invoice.MirrorsBusiness(next.Businesses[i]) {
			break
		}
		b := next.Businesses[i]
		b.Name = next.Invoice.BusinessName
		b.Address = next.Invoice.BusinessAddress
		b.Phone = next.Invoice.BusinessPhone
		b.Email = next.Invoice.BusinessEmail
		b.Currency = next.Invoice.Currency
		next.Businesses[i] = b
		fx.UpdateBusiness = &b

	case ActionResetInvoice:
		next.Invoice = a.Invoice.Clone()
		if b, ok := next.SelectedBusiness(); ok {
			next.Invoice.ApplyBusiness(b)
		}

	case ActionAddLineItem:
		next.Invoice.LineItems = append(next.Invoice.LineItems, a.LineItem)

	case ActionUpdateLineItem:
		i := next.lineItemIndex(a.LineItemID)
		if i < 0 {
			return s, Effects{Err: ErrLineItemNotFound}
		}
		a.LineItemUpdate.Apply(&next.Invoice.LineItems[i])

	case ActionRemoveLineItem:
		i := next.lineItemIndex(a.LineItemID)
		if i < 0 {
			return s, Effects{Err: ErrLineItemNotFound}
		}
		if len(next.Invoice.LineItems) <= 1 {
			return s, Effects{Err: ErrLastLineItem}
		}
		items := next.Invoice.LineItems
		next.Invoice.LineItems = append(items[:i:i], items[i+1:]...)

	default:
		return s, Effects{Err: ErrUnknownAction}
	}

	return next, fx
}

// selectBusiness points the selection at id and overwrites the invoice's
// business fields. Client fields and line items are kept.
func (s *State) selectBusiness(id string) bool {
	i := s.businessIndex(id)
	if i < 0 {
		return false
	}
	s.SelectedBusinessID = id
	s.Invoice.ApplyBusiness(s.Businesses[i])
	return true
}
