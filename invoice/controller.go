// Package invoice owns the invoice being edited, the business list and the
// selection, and derives the invoice totals.
package invoice

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/yourusername/invoice-builder/models"
	"github.com/yourusername/invoice-builder/utils"
	"go.uber.org/zap"
)

// DueDays is the gap between invoice date and due date of a new invoice.
const DueDays = 30

// BusinessStore persists businesses and the selection. Implementations fail
// soft; see storage.Store.
type BusinessStore interface {
	LoadBusinesses(ctx context.Context) []models.Business
	SaveBusinesses(ctx context.Context, list []models.Business)
	LoadSelectedBusinessID(ctx context.Context) (string, bool)
	SaveSelectedBusinessID(ctx context.Context, id string)
	AddBusiness(ctx context.Context, b models.Business)
	UpdateBusiness(ctx context.Context, b models.Business)
	DeleteBusiness(ctx context.Context, id string)
}

// Controller mediates every mutation of the editor state. Changes run
// through Reduce and the resulting effects are written through to the store
// before the call returns.
type Controller struct {
	mu    sync.Mutex
	state State

	store      BusinessStore
	log        *zap.Logger
	newID      utils.IDGenerator
	newVoucher utils.VoucherGenerator
	now        func() time.Time
}

type Option func(*Controller)

func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) { c.log = log }
}

func WithIDGenerator(gen utils.IDGenerator) Option {
	return func(c *Controller) { c.newID = gen }
}

func WithVoucherGenerator(gen utils.VoucherGenerator) Option {
	return func(c *Controller) { c.newVoucher = gen }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// NewController returns an uninitialized controller; call Initialize before use.
func NewController(store BusinessStore, opts ...Option) *Controller {
	c := &Controller{
		store:      store,
		log:        zap.NewNop(),
		newID:      utils.NewID,
		newVoucher: utils.NewVoucherGenerator(rand.New(rand.NewSource(time.Now().UnixNano()))),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.Named("invoice")
	return c
}

// Initialize hydrates businesses and the selection from the store, creating
// and persisting a default business when none exist, and starts a new invoice.
func (c *Controller) Initialize(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	businesses := c.store.LoadBusinesses(ctx)
	if len(businesses) == 0 {
		businesses = []models.Business{{ID: c.newID(), Currency: models.DefaultCurrency}}
		c.store.SaveBusinesses(ctx, businesses)
		c.log.Info("created default business", zap.String("business_id", businesses[0].ID))
	}

	state := State{Businesses: businesses}
	selected, ok := c.store.LoadSelectedBusinessID(ctx)
	if !ok || state.businessIndex(selected) < 0 {
		selected = businesses[0].ID
		c.store.SaveSelectedBusinessID(ctx, selected)
	}
	state.SelectedBusinessID = selected
	state.Invoice = c.freshInvoice()
	b, _ := state.SelectedBusiness()
	state.Invoice.ApplyBusiness(b)

	c.state = state
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Invoice returns a copy of the current invoice.
func (c *Controller) Invoice() models.Invoice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Invoice.Clone()
}

// Totals derives the totals of the current invoice.
func (c *Controller) Totals() Totals {
	return ComputeTotals(c.Invoice())
}

// SelectBusiness selects id and re-syncs the invoice business fields from it,
// discarding unsaved business-field edits.
func (c *Controller) SelectBusiness(ctx context.Context, id string) error {
	_, fx := c.dispatch(ctx, Action{Type: ActionSelectBusiness, BusinessID: id})
	return fx.Err
}

// AddBusiness creates, persists and selects a placeholder business.
func (c *Controller) AddBusiness(ctx context.Context) models.Business {
	b := models.Business{
		ID:       c.newID(),
		Name:     models.NewBusinessName,
		Currency: models.DefaultCurrency,
	}
	c.dispatch(ctx, Action{Type: ActionAddBusiness, Business: b})
	return b
}

// DeleteBusiness removes id unless it is the only business left.
func (c *Controller) DeleteBusiness(ctx context.Context, id string) error {
	_, fx := c.dispatch(ctx, Action{Type: ActionDeleteBusiness, BusinessID: id})
	return fx.Err
}

// UpdateInvoice merges u into the invoice. Changed business fields are written
// through to the selected business.
func (c *Controller) UpdateInvoice(ctx context.Context, u models.InvoiceUpdate) models.Invoice {
	next, _ := c.dispatch(ctx, Action{Type: ActionUpdateInvoice, InvoiceUpdate: u})
	return next.Invoice
}

// NewInvoice replaces the invoice with a fresh one for the selected business.
func (c *Controller) NewInvoice(ctx context.Context) models.Invoice {
	next, _ := c.dispatch(ctx, Action{Type: ActionResetInvoice, Invoice: c.freshInvoice()})
	return next.Invoice
}

func (c *Controller) AddLineItem(ctx context.Context) models.LineItem {
	li := models.NewLineItem(c.newID())
	c.dispatch(ctx, Action{Type: ActionAddLineItem, LineItem: li})
	return li
}

// UpdateLineItem merges u into the line item id. Unknown ids are a no-op.
func (c *Controller) UpdateLineItem(ctx context.Context, id string, u models.LineItemUpdate) (models.LineItem, bool) {
	next, fx := c.dispatch(ctx, Action{Type: ActionUpdateLineItem, LineItemID: id, LineItemUpdate: u})
	if fx.Err != nil {
		return models.LineItem{}, false
	}
	return next.Invoice.LineItems[next.lineItemIndex(id)], true
}

// RemoveLineItem removes id unless it is the last line item. It reports
// whether anything was removed.
func (c *Controller) RemoveLineItem(ctx context.Context, id string) bool {
	_, fx := c.dispatch(ctx, Action{Type: ActionRemoveLineItem, LineItemID: id})
	return fx.Err == nil
}

// Dispatch applies an arbitrary action.
func (c *Controller) Dispatch(ctx context.Context, a Action) (State, error) {
	next, fx := c.dispatch(ctx, a)
	return next, fx.Err
}

func (c *Controller) dispatch(ctx context.Context, a Action) (State, Effects) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, fx := Reduce(c.state, a)
	if fx.Err != nil {
		c.log.Debug("action rejected", zap.String("action", string(a.Type)), zap.Error(fx.Err))
		return c.state.Clone(), fx
	}
	c.state = next
	c.apply(ctx, fx)
	return c.state.Clone(), fx
}

func (c *Controller) apply(ctx context.Context, fx Effects) {
	if fx.AddBusiness != nil {
		c.store.AddBusiness(ctx, *fx.AddBusiness)
	}
	if fx.UpdateBusiness != nil {
		c.store.UpdateBusiness(ctx, *fx.UpdateBusiness)
	}
	if fx.DeleteBusiness != "" {
		c.store.DeleteBusiness(ctx, fx.DeleteBusiness)
	}
	if fx.SaveSelection {
		c.store.SaveSelectedBusinessID(ctx, c.state.SelectedBusinessID)
	}
}

func (c *Controller) freshInvoice() models.Invoice {
	today := models.DateOf(c.now())
	return models.Invoice{
		VoucherNumber: c.newVoucher(),
		InvoiceDate:   today,
		DueDate:       today.AddDays(DueDays),
		Currency:      models.DefaultCurrency,
		LineItems:     []models.LineItem{models.NewLineItem(c.newID())},
	}
}
