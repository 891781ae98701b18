package export

import (
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/yourusername/invoice-builder/render"
	"github.com/yourusername/invoice-builder/utils"
)

// A4 portrait, millimetres.
const (
	pageWidth  = 210.0
	pageHeight = 297.0
	margin     = 15.0
	fontFamily = "Helvetica"
)

// table columns: description, qty, unit, rate, amount
var columns = [5]struct {
	x, w  float64
	align string
}{
	{margin, 80, "L"},
	{margin + 80, 20, "R"},
	{margin + 100, 20, "L"},
	{margin + 120, 30, "R"},
	{margin + 150, 30, "R"},
}

type op interface {
	draw(pdf *gofpdf.Fpdf)
}

type textOp struct {
	x, y, w, h float64
	size       float64
	style      string
	align      string
	gray       bool
	text       string
}

func (t textOp) draw(pdf *gofpdf.Fpdf) {
	pdf.SetFont(fontFamily, t.style, t.size)
	if t.gray {
		pdf.SetTextColor(107, 114, 128)
	} else {
		pdf.SetTextColor(17, 24, 39)
	}
	pdf.SetXY(t.x, t.y)
	pdf.CellFormat(t.w, t.h, t.text, "", 0, t.align, false, 0, "")
}

type ruleOp struct {
	x1, x2, y float64
	width     float64
}

func (r ruleOp) draw(pdf *gofpdf.Fpdf) {
	pdf.SetDrawColor(17, 24, 39)
	pdf.SetLineWidth(r.width)
	pdf.Line(r.x1, r.y, r.x2, r.y)
}

// layout is the whole invoice drawn on one virtual page of unbounded height.
type layout struct {
	ops    []op
	height float64
}

type layoutBuilder struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
	ops []op
}

func lineHeight(size float64) float64 {
	// points to millimetres with 1.3 leading
	return size * 0.3528 * 1.3
}

// text wraps s into width w starting at (x, y) and returns the height used.
func (b *layoutBuilder) text(x, y, w, size float64, style, align string, gray bool, s string) float64 {
	if s == "" {
		return 0
	}
	b.pdf.SetFont(fontFamily, style, size)
	lh := lineHeight(size)
	used := 0.0
	for _, para := range strings.Split(s, "\n") {
		lines := b.pdf.SplitLines([]byte(b.tr(para)), w)
		if len(lines) == 0 {
			lines = [][]byte{nil}
		}
		for _, line := range lines {
			b.ops = append(b.ops, textOp{
				x: x, y: y + used, w: w, h: lh,
				size: size, style: style, align: align, gray: gray,
				text: string(line),
			})
			used += lh
		}
	}
	return used
}

func (b *layoutBuilder) rule(y, width float64) {
	b.ops = append(b.ops, ruleOp{x1: margin, x2: pageWidth - margin, y: y, width: width})
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// coreFontSymbol is the currency symbol of code when the cp1252 core font can
// draw it, otherwise the ISO code. The translator turns runes it cannot encode
// into '.'.
func coreFontSymbol(tr func(string) string, code string) string {
	symbol := utils.CurrencySymbol(code)
	for _, r := range symbol {
		if r != '.' && tr(string(r)) == "." {
			return strings.ToUpper(strings.TrimSpace(code)) + " "
		}
	}
	return symbol
}

// layoutInvoice positions every element of the preview. pdf is used only to
// measure text; tr encodes text for the core font.
func layoutInvoice(pdf *gofpdf.Fpdf, tr func(string) string, v render.PreviewView) layout {
	b := &layoutBuilder{pdf: pdf, tr: tr}
	contentWidth := pageWidth - 2*margin
	half := contentWidth / 2

	// header: issuer on the left, invoice meta on the right
	y := margin
	left := y
	left += b.text(margin, left, half, 18, "B", "L", false, orDefault(v.BusinessName, "Your Business"))
	left += b.text(margin, left, half, 10, "", "L", true, v.BusinessAddress)
	left += b.text(margin, left, half, 10, "", "L", true, v.BusinessPhone)
	left += b.text(margin, left, half, 10, "", "L", true, v.BusinessEmail)

	right := y
	metaX := margin + half
	right += b.text(metaX, right, half, 9, "", "R", true, "INVOICE")
	right += b.text(metaX, right, half, 12, "B", "R", false, v.VoucherNumber)
	right += b.text(metaX, right, half, 10, "", "R", false, "Date: "+v.InvoiceDate)
	right += b.text(metaX, right, half, 10, "", "R", false, "Due: "+v.DueDate)

	y = max(left, right) + 4
	b.rule(y, 0.6)
	y += 6

	// bill to
	y += b.text(margin, y, contentWidth, 9, "", "L", true, "BILL TO")
	y += b.text(margin, y, contentWidth, 11, "B", "L", false, orDefault(v.ClientName, "Client Name"))
	y += b.text(margin, y, contentWidth, 10, "", "L", true, v.ClientAddress)
	y += b.text(margin, y, contentWidth, 10, "", "L", true, v.ClientPhone)
	y += b.text(margin, y, contentWidth, 10, "", "L", true, v.ClientEmail)
	y += 8

	// line items
	headers := [5]string{"DESCRIPTION", "QTY", "UNIT", "RATE", "AMOUNT"}
	rowH := 0.0
	for i, h := range headers {
		rowH = max(rowH, b.text(columns[i].x, y, columns[i].w, 9, "B", columns[i].align, true, h))
	}
	y += rowH + 1
	b.rule(y, 0.2)
	y += 2
	for _, item := range v.Items {
		cells := [5]string{item.Description, item.Quantity, item.Unit, item.Rate, item.Amount}
		rowH = 0
		for i, c := range cells {
			style := ""
			if i == 0 && item.Placeholder {
				style = "I"
			}
			rowH = max(rowH, b.text(columns[i].x, y, columns[i].w, 10, style, columns[i].align, i == 0 && item.Placeholder, c))
		}
		y += rowH + 1
		b.rule(y, 0.1)
		y += 2
	}
	y += 4

	// totals
	labelX, labelW := margin+half, half/2
	valueX, valueW := labelX+labelW, half/2
	total := func(label, value string, size float64, style string) {
		h := b.text(labelX, y, labelW, size, style, "L", style == "", label)
		h = max(h, b.text(valueX, y, valueW, size, style, "R", false, value))
		y += h + 1
	}
	total("Subtotal", v.Subtotal, 10, "")
	if v.HasTax {
		total("Tax ("+v.TaxRate+"%)", v.Tax, 10, "")
	}
	if v.HasDiscount {
		total("Discount", "-"+v.Discount, 10, "")
	}
	if v.HasShipping {
		total("Shipping", v.Shipping, 10, "")
	}
	b.ops = append(b.ops, ruleOp{x1: labelX, x2: pageWidth - margin, y: y, width: 0.4})
	y += 2
	total("Total", v.Total, 13, "B")

	if v.Notes != "" {
		y += 8
		y += b.text(margin, y, contentWidth, 9, "", "L", true, "NOTES")
		y += b.text(margin, y, contentWidth, 10, "", "L", false, v.Notes)
	}

	return layout{ops: b.ops, height: y + margin}
}

// PageOffsets returns the vertical offset of each page slice needed to cover
// contentHeight. There is always at least one page.
func PageOffsets(contentHeight, pageH float64) []float64 {
	offsets := []float64{0}
	if pageH <= 0 {
		return offsets
	}
	for left := contentHeight - pageH; left > 0; left -= pageH {
		offsets = append(offsets, offsets[len(offsets)-1]+pageH)
	}
	return offsets
}
