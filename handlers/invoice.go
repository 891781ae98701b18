package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/invoice-builder/export"
	"github.com/yourusername/invoice-builder/invoice"
	"github.com/yourusername/invoice-builder/models"
	"github.com/yourusername/invoice-builder/render"
	"github.com/yourusername/invoice-builder/utils"
	"go.uber.org/zap"
)

type InvoiceHandler struct {
	controller *invoice.Controller
	renderer   *render.HTMLRenderer
	exporter   *export.Exporter
	log        *zap.Logger
}

func NewInvoiceHandler(controller *invoice.Controller, exporter *export.Exporter, log *zap.Logger) *InvoiceHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &InvoiceHandler{
		controller: controller,
		renderer:   render.NewRenderer(),
		exporter:   exporter,
		log:        log.Named("handlers"),
	}
}

// TotalsResponse carries exact amounts plus their display strings.
type TotalsResponse struct {
	invoice.Totals
	Display map[string]string `json:"display"`
}

type StateResponse struct {
	invoice.State
	Totals TotalsResponse `json:"totals"`
}

func totalsResponse(inv models.Invoice) TotalsResponse {
	t := invoice.ComputeTotals(inv)
	return TotalsResponse{
		Totals: t,
		Display: map[string]string{
			"subtotal": utils.FormatMoney(t.Subtotal, inv.Currency),
			"tax":      utils.FormatMoney(t.Tax, inv.Currency),
			"discount": utils.FormatMoney(t.Discount, inv.Currency),
			"shipping": utils.FormatMoney(t.Shipping, inv.Currency),
			"total":    utils.FormatMoney(t.Total, inv.Currency),
		},
	}
}

func (h *InvoiceHandler) stateResponse() StateResponse {
	st := h.controller.State()
	return StateResponse{State: st, Totals: totalsResponse(st.Invoice)}
}

// Page serves the editor: form plus live preview.
func (h *InvoiceHandler) Page(c *gin.Context) {
	html, err := h.renderer.RenderPage(render.NewPageView(h.controller.State()))
	if err != nil {
		h.log.Error("failed to render page", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render page"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// Preview serves the preview fragment alone.
func (h *InvoiceHandler) Preview(c *gin.Context) {
	html, err := h.renderer.RenderPreview(render.NewPreviewView(h.controller.Invoice()))
	if err != nil {
		h.log.Error("failed to render preview", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render preview"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (h *InvoiceHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.stateResponse())
}

func (h *InvoiceHandler) GetTotals(c *gin.Context) {
	c.JSON(http.StatusOK, totalsResponse(h.controller.Invoice()))
}

func (h *InvoiceHandler) ListCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, utils.Currencies)
}

func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	var req InvoicePatch
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	update, err := req.Update()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.controller.UpdateInvoice(c.Request.Context(), update)
	c.JSON(http.StatusOK, h.stateResponse())
}

func (h *InvoiceHandler) ResetInvoice(c *gin.Context) {
	h.controller.NewInvoice(c.Request.Context())
	c.JSON(http.StatusOK, h.stateResponse())
}

func (h *InvoiceHandler) AddLineItem(c *gin.Context) {
	item := h.controller.AddLineItem(c.Request.Context())
	c.JSON(http.StatusCreated, item)
}

func (h *InvoiceHandler) UpdateLineItem(c *gin.Context) {
	var req LineItemPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	update, err := req.Update()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, ok := h.controller.UpdateLineItem(c.Request.Context(), c.Param("id"), update)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Line item not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// RemoveLineItem never fails: removing the last remaining line item is
// silently refused and reported as removed=false.
func (h *InvoiceHandler) RemoveLineItem(c *gin.Context) {
	removed := h.controller.RemoveLineItem(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, gin.H{
		"removed":   removed,
		"lineItems": h.controller.Invoice().LineItems,
	})
}

func (h *InvoiceHandler) ListBusinesses(c *gin.Context) {
	st := h.controller.State()
	c.JSON(http.StatusOK, gin.H{
		"businesses":         st.Businesses,
		"selectedBusinessId": st.SelectedBusinessID,
	})
}

func (h *InvoiceHandler) AddBusiness(c *gin.Context) {
	b := h.controller.AddBusiness(c.Request.Context())
	c.JSON(http.StatusCreated, b)
}

func (h *InvoiceHandler) SelectBusiness(c *gin.Context) {
	if err := h.controller.SelectBusiness(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
		return
	}
	c.JSON(http.StatusOK, h.stateResponse())
}

func (h *InvoiceHandler) DeleteBusiness(c *gin.Context) {
	err := h.controller.DeleteBusiness(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, invoice.ErrBusinessNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Business not found"})
	case errors.Is(err, invoice.ErrLastBusiness):
		c.JSON(http.StatusConflict, gin.H{"error": "Cannot delete the only business"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, h.stateResponse())
	}
}

// DownloadPDF streams the current invoice as <voucher>.pdf.
func (h *InvoiceHandler) DownloadPDF(c *gin.Context) {
	inv := h.controller.Invoice()
	var buf bytes.Buffer
	err := h.exporter.Export(c.Request.Context(), inv, &buf)
	if errors.Is(err, export.ErrExportInProgress) {
		c.JSON(http.StatusConflict, gin.H{"error": "A PDF is already being generated", "code": "ExportInProgress"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF. Please try again."})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", export.FileName(inv)))
	c.Header("Content-Length", strconv.Itoa(buf.Len()))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
