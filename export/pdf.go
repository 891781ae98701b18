// Package export produces the downloadable PDF of an invoice preview.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sync/atomic"

	"github.com/jung-kurt/gofpdf"
	"github.com/yourusername/invoice-builder/metrics"
	"github.com/yourusername/invoice-builder/models"
	"github.com/yourusername/invoice-builder/render"
	"go.uber.org/zap"
)

var ErrExportInProgress = errors.New("export_in_progress")

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileName is the download name of inv's PDF: the voucher number plus ".pdf".
func FileName(inv models.Invoice) string {
	name := unsafeFileChars.ReplaceAllString(inv.VoucherNumber, "_")
	if name == "" || name == "_" {
		name = "invoice"
	}
	return name + ".pdf"
}

// Exporter renders invoices to PDF, one at a time.
type Exporter struct {
	busy atomic.Bool
	log  *zap.Logger
}

func NewExporter(log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{log: log.Named("export")}
}

// Busy reports whether an export is running.
func (e *Exporter) Busy() bool {
	return e.busy.Load()
}

// Export writes the PDF of inv to w. A call made while another export is
// running fails with ErrExportInProgress. The busy flag is always cleared on
// return so a failed export can be retried.
func (e *Exporter) Export(ctx context.Context, inv models.Invoice, w io.Writer) error {
	if !e.busy.CompareAndSwap(false, true) {
		metrics.Exports.WithLabelValues("busy").Inc()
		return ErrExportInProgress
	}
	defer e.busy.Store(false)

	err := e.export(ctx, inv, w)
	if err != nil {
		metrics.Exports.WithLabelValues("failed").Inc()
		e.log.Error("pdf export failed", zap.String("voucher", inv.VoucherNumber), zap.Error(err))
		return err
	}
	metrics.Exports.WithLabelValues("ok").Inc()
	return nil
}

// ExportFile writes the PDF of inv into dir and returns its path.
func (e *Exporter) ExportFile(ctx context.Context, inv models.Invoice, dir string) (string, error) {
	path := filepath.Join(dir, FileName(inv))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := e.Export(ctx, inv, f); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

func (e *Exporter) export(ctx context.Context, inv models.Invoice, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	pdf := Render(inv)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

// Render lays out the preview of inv as one tall virtual page and slices it
// across as many A4 pages as its height needs. Page i shows the layout
// shifted up by i page heights. Currency symbols the core font cannot draw
// are printed as their ISO code.
func Render(inv models.Invoice) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(inv.VoucherNumber, true)
	pdf.SetCreator("invoice-builder", true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	view := render.NewPreviewViewWithSymbol(inv, coreFontSymbol(tr, inv.Currency))
	l := layoutInvoice(pdf, tr, view)
	for _, offset := range PageOffsets(l.height, pageHeight) {
		pdf.AddPage()
		pdf.TransformBegin()
		pdf.TransformTranslateY(-offset)
		for _, o := range l.ops {
			o.draw(pdf)
		}
		pdf.TransformEnd()
	}
	return pdf
}
