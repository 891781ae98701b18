package render

import (
	"bytes"
	"html/template"

	"github.com/yourusername/invoice-builder/utils"
)

const previewTemplate = `{{define "preview"}}<div class="invoice" id="invoice-preview">
  <div class="header">
    <div>
      <div class="brand">{{if .BusinessName}}{{.BusinessName}}{{else}}Your Business{{end}}</div>
      {{if .BusinessAddress}}<div class="muted pre">{{.BusinessAddress}}</div>{{end}}
      {{if .BusinessPhone}}<div class="muted">{{.BusinessPhone}}</div>{{end}}
      {{if .BusinessEmail}}<div class="muted">{{.BusinessEmail}}</div>{{end}}
    </div>
    <div class="meta">
      <div class="label">Invoice</div>
      <div><strong data-testid="text-voucher">{{.VoucherNumber}}</strong></div>
      <div>Date: {{.InvoiceDate}}</div>
      <div>Due: {{.DueDate}}</div>
    </div>
  </div>

  <div class="section">
    <div class="label">Bill To</div>
    <div><strong>{{if .ClientName}}{{.ClientName}}{{else}}Client Name{{end}}</strong></div>
    {{if .ClientAddress}}<div class="muted pre">{{.ClientAddress}}</div>{{end}}
    {{if .ClientPhone}}<div class="muted">{{.ClientPhone}}</div>{{end}}
    {{if .ClientEmail}}<div class="muted">{{.ClientEmail}}</div>{{end}}
  </div>

  <table>
    <thead>
      <tr><th>Description</th><th>Qty</th><th>Unit</th><th>Rate</th><th class="num">Amount</th></tr>
    </thead>
    <tbody>
      {{range .Items}}
      <tr>
        <td>{{if .Placeholder}}<span class="muted"><em>{{.Description}}</em></span>{{else}}{{.Description}}{{end}}</td>
        <td>{{.Quantity}}</td>
        <td>{{.Unit}}</td>
        <td>{{.Rate}}</td>
        <td class="num">{{.Amount}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>

  <div class="totals">
    <div><span>Subtotal</span><span data-testid="text-subtotal">{{.Subtotal}}</span></div>
    {{if .HasTax}}<div><span>Tax ({{.TaxRate}}%)</span><span data-testid="text-tax">{{.Tax}}</span></div>{{end}}
    {{if .HasDiscount}}<div><span>Discount</span><span data-testid="text-discount">-{{.Discount}}</span></div>{{end}}
    {{if .HasShipping}}<div><span>Shipping</span><span data-testid="text-shipping">{{.Shipping}}</span></div>{{end}}
    <div class="grand"><span>Total</span><span data-testid="text-total">{{.Total}}</span></div>
  </div>

  {{if .Notes}}<div class="section"><div class="label">Notes</div><div class="pre">{{.Notes}}</div></div>{{end}}
</div>{{end}}`

const pageTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Invoice Generator</title>
  <style>
    * { box-sizing: border-box; }
    body { margin: 0; font-family: "Helvetica Neue", Arial, sans-serif; color: #111827; background: #f9fafb; }
    header { padding: 16px 32px; border-bottom: 1px solid #e5e7eb; background: #fff; display: flex; justify-content: space-between; align-items: center; }
    main { display: grid; grid-template-columns: 1fr 1fr; gap: 32px; padding: 32px; }
    fieldset { border: 1px solid #e5e7eb; border-radius: 6px; margin-bottom: 16px; background: #fff; }
    label { display: block; font-size: 12px; color: #6b7280; margin-top: 8px; }
    input, textarea, select { width: 100%; padding: 6px; font: inherit; }
    .row { display: grid; grid-template-columns: 3fr 1fr 1fr 1fr auto; gap: 6px; align-items: end; }
    .invoice { background: #fff; padding: 32px; border: 1px solid #e5e7eb; }
    .header { display: flex; justify-content: space-between; border-bottom: 2px solid #111827; padding-bottom: 16px; margin-bottom: 24px; }
    .brand { font-size: 20px; font-weight: bold; }
    .meta { text-align: right; font-size: 14px; }
    .label { color: #6b7280; text-transform: uppercase; letter-spacing: 0.04em; font-size: 11px; }
    .muted { color: #6b7280; }
    .pre { white-space: pre-line; }
    .section { margin-bottom: 24px; }
    table { width: 100%; border-collapse: collapse; font-size: 14px; }
    th, td { padding: 8px; border-bottom: 1px solid #e5e7eb; text-align: left; }
    .num { text-align: right; }
    .totals { margin: 16px 0 24px auto; width: 50%; font-size: 14px; }
    .totals div { display: flex; justify-content: space-between; padding: 4px 0; }
    .totals .grand { font-size: 18px; font-weight: bold; border-top: 1px solid #111827; }
    @media print { header, #editor, .actions { display: none; } main { display: block; padding: 0; } .invoice { border: 0; } }
  </style>
</head>
<body>
<header>
  <strong>Invoice Generator</strong>
  <div>
    <label for="business-select">Business</label>
    <select id="business-select" onchange="selectBusiness(this.value)">
      {{range .Businesses}}<option value="{{.ID}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
    </select>
    <button type="button" onclick="addBusiness()">New Business</button>
  </div>
</header>
<main>
  <section id="editor">
    {{with .State.Invoice}}
    <fieldset>
      <legend>Invoice</legend>
      <label>Voucher Number</label><input data-field="voucherNumber" value="{{.VoucherNumber}}" />
      <label>Invoice Date</label><input type="date" data-field="invoiceDate" value="{{.InvoiceDate}}" />
      <label>Due Date</label><input type="date" data-field="dueDate" value="{{.DueDate}}" />
      <label>Currency</label>
      <select data-field="currency">
        {{$cur := .Currency}}{{range currencies}}<option value="{{.Code}}"{{if eq .Code $cur}} selected{{end}}>{{.Code}} ({{.Symbol}})</option>{{end}}
      </select>
    </fieldset>
    <fieldset>
      <legend>From</legend>
      <label>Business Name</label><input data-field="businessName" value="{{.BusinessName}}" />
      <label>Address</label><textarea data-field="businessAddress">{{.BusinessAddress}}</textarea>
      <label>Phone</label><input data-field="businessPhone" value="{{.BusinessPhone}}" />
      <label>Email</label><input type="email" data-field="businessEmail" value="{{.BusinessEmail}}" />
    </fieldset>
    <fieldset>
      <legend>Bill To</legend>
      <label>Client Name</label><input data-field="clientName" value="{{.ClientName}}" />
      <label>Address</label><textarea data-field="clientAddress">{{.ClientAddress}}</textarea>
      <label>Phone</label><input data-field="clientPhone" value="{{.ClientPhone}}" />
      <label>Email</label><input type="email" data-field="clientEmail" value="{{.ClientEmail}}" />
    </fieldset>
    <fieldset>
      <legend>Line Items</legend>
      {{$single := eq (len .LineItems) 1}}
      {{range .LineItems}}
      <div class="row" data-line="{{.ID}}">
        <div><label>Description</label><input data-line-field="description" value="{{.Description}}" /></div>
        <div><label>Qty</label><input type="number" min="0" step="any" data-line-field="quantity" value="{{formatQuantity .Quantity}}" /></div>
        <div><label>Unit</label><input data-line-field="unit" value="{{.Unit}}" /></div>
        <div><label>Rate</label><input type="number" min="0" step="0.01" data-line-field="rate" value="{{.Rate}}" /></div>
        <button type="button" onclick="removeLine('{{.ID}}')"{{if $single}} disabled{{end}}>Remove</button>
      </div>
      {{end}}
      <button type="button" onclick="addLine()">Add Line Item</button>
    </fieldset>
    <fieldset>
      <legend>Adjustments</legend>
      <label>Tax Rate (%)</label><input type="number" min="0" max="100" step="any" data-field="taxRate" value="{{.TaxRate}}" />
      <label>Discount</label><input type="number" min="0" step="0.01" data-field="discount" value="{{.Discount}}" />
      <label>Shipping</label><input type="number" min="0" step="0.01" data-field="shipping" value="{{.Shipping}}" />
      <label>Notes</label><textarea data-field="notes">{{.Notes}}</textarea>
    </fieldset>
    {{end}}
  </section>
  <section>
    <div class="actions">
      <button type="button" onclick="window.print()">Print</button>
      <button type="button" id="download" onclick="downloadPDF()">Download PDF</button>
    </div>
    <div id="preview">{{template "preview" .Preview}}</div>
  </section>
</main>
<script>
async function send(method, url, body) {
  const res = await fetch(url, {method, headers: {"Content-Type": "application/json"}, body: body === undefined ? undefined : JSON.stringify(body)});
  if (!res.ok) { throw new Error((await res.json()).error || res.statusText); }
  return res;
}
async function refreshPreview() {
  document.getElementById("preview").innerHTML = await (await fetch("/preview")).text();
}
function renderBusinesses(state) {
  const select = document.getElementById("business-select");
  select.replaceChildren(...state.businesses.map(b => {
    const opt = document.createElement("option");
    opt.value = b.id;
    opt.textContent = b.name.trim() === "" ? "Unnamed Business" : b.name;
    opt.selected = b.id === state.selectedBusinessId;
    return opt;
  }));
}
// saveField sends one field edit. A rejected edit puts back the last value
// the server accepted.
async function saveField(el, method, url, key) {
  try {
    const res = await send(method, url, {[key]: el.value});
    el.dataset.saved = el.value;
    return res;
  } catch (err) {
    el.value = el.dataset.saved;
    alert(err.message);
    return null;
  } finally {
    refreshPreview();
  }
}
document.querySelectorAll("[data-field], [data-line-field]").forEach(el => { el.dataset.saved = el.value; });
document.querySelectorAll("[data-field]").forEach(el => el.addEventListener("change", async () => {
  const res = await saveField(el, "PATCH", "/api/v1/invoice", el.dataset.field);
  if (res) { renderBusinesses(await res.json()); }
}));
document.querySelectorAll("[data-line]").forEach(row => row.querySelectorAll("[data-line-field]").forEach(el => el.addEventListener("change", () => {
  saveField(el, "PATCH", "/api/v1/line-items/" + row.dataset.line, el.dataset.lineField);
})));
async function addLine() { await send("POST", "/api/v1/line-items"); location.reload(); }
async function removeLine(id) { await send("DELETE", "/api/v1/line-items/" + id); location.reload(); }
async function selectBusiness(id) { await send("PUT", "/api/v1/businesses/" + id + "/select"); location.reload(); }
async function addBusiness() { await send("POST", "/api/v1/businesses"); location.reload(); }
async function downloadPDF() {
  const btn = document.getElementById("download");
  btn.disabled = true; btn.textContent = "Generating...";
  try {
    const res = await send("GET", "/api/v1/invoice/pdf");
    const name = (res.headers.get("Content-Disposition") || "").split("filename=")[1] || "invoice.pdf";
    const a = document.createElement("a");
    a.href = URL.createObjectURL(await res.blob());
    a.download = name.split('"').join("");
    a.click();
  } catch (err) {
    alert("Failed to generate PDF. Please try again.");
  } finally {
    btn.disabled = false; btn.textContent = "Download PDF";
  }
}
</script>
</body>
</html>`

// HTMLRenderer renders the editor page and the standalone preview.
type HTMLRenderer struct {
	tpl *template.Template
}

func NewRenderer() *HTMLRenderer {
	funcs := template.FuncMap{
		"formatQuantity": utils.FormatQuantity,
		"currencies":     func() []utils.Currency { return utils.Currencies },
	}
	tpl := template.Must(template.New("page").Funcs(funcs).Parse(pageTemplate))
	template.Must(tpl.Parse(previewTemplate))
	return &HTMLRenderer{tpl: tpl}
}

// RenderPage renders the full editor page.
func (r *HTMLRenderer) RenderPage(v PageView) (string, error) {
	var buf bytes.Buffer
	if err := r.tpl.ExecuteTemplate(&buf, "page", v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderPreview renders only the invoice preview fragment.
func (r *HTMLRenderer) RenderPreview(v PreviewView) (string, error) {
	var buf bytes.Buffer
	if err := r.tpl.ExecuteTemplate(&buf, "preview", v); err != nil {
		return "", err
	}
	return buf.String(), nil
}
