package reports

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"springworks/internal/catalog"
	"springworks/internal/models"
)

type specRow struct {
	Parameter string
	Symbol    string
	Standard  string
	Min       string
	Max       string
}

// pdiRows lists the measurable parameters present on p, in inspection
// order.
func pdiRows(p *models.Product) []specRow {
	m := p.MaterialAndDimensions
	var rows []specRow
	dim := func(name, symbol string, d *models.DimensionWithTolerance) {
		if d == nil {
			return
		}
		lo, hi := bounds(d)
		rows = append(rows, specRow{name, symbol, num(d.ValueMM), lo, hi})
	}
	dim("Wire Diameter (mm)", "d", m.WireDia)
	dim("Mean Coil Diameter (mm)", "Dm", m.MeanDia)
	dim("Outer Diameter (mm)", "Do", m.OutsideDia)
	dim("Inside Diameter (mm)", "Di", m.InsideDia)
	if m.TotalCoils != nil {
		rows = append(rows, specRow{"Total Coil (nos)", "N", num(*m.TotalCoils), "-", "-"})
	}
	dim("Free Length (mm)", "L0", m.FreeLength)
	if sr := p.LoadsRatesDeflection.SpringRate; sr != nil {
		dim("Spring Rate (N/mm)", "K", &models.DimensionWithTolerance{ValueMM: sr.ValueNPerMM, ToleranceMM: sr.ToleranceNPerMM})
	}
	return rows
}

var observationRows = []string{"Grinding %", "Burr", "Surface", "Part Net Weight"}

const blankObservations = `<td></td><td></td><td></td><td></td><td></td>`

// PDI handles GET /reports/pdi/:salesOrderId/:serial.
func (h *Handler) PDI(w http.ResponseWriter, r *http.Request, salesOrderID, serial string) {
	l, ok := h.resolve(w, r, salesOrderID, serial)
	if !ok {
		return
	}
	p := l.Product

	var b strings.Builder
	n := 0
	for _, row := range pdiRows(p) {
		n++
		fmt.Fprintf(&b, `<tr><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td>%s</tr>`,
			n, esc(row.Parameter), esc(row.Symbol), esc(row.Standard), esc(row.Min), esc(row.Max), blankObservations)
	}
	for _, name := range observationRows {
		n++
		fmt.Fprintf(&b, `<tr><td>%d</td><td>%s</td><td></td><td></td><td></td><td></td>%s</tr>`, n, esc(name), blankObservations)
	}

	writeHTML(w, fmt.Sprintf(`<!DOCTYPE html>
<html><head><meta charset="UTF-8"><title>PDI Report - %s</title>
%s
</head><body>
<div class="header">
  <div>
    <h1>Pre-Dispatch Inspection Report</h1>
    <div style="font-size:10pt;color:#555">%s</div>
    <div style="font-size:10pt">%s</div>
  </div>
  <div class="header-right">
    <div><strong>Report No:</strong> %s</div>
    <div><strong>Date:</strong> %s</div>
  </div>
</div>

<div class="info-grid">
  <dt>Customer Code:</dt><dd>%s</dd>
  <dt>Customer Part No:</dt><dd>%s</dd>
  <dt>Symag Job No:</dt><dd>%s</dd>
  <dt>Symag Item Code:</dt><dd>%s</dd>
  <dt>Material Grade:</dt><dd>%s</dd>
  <dt>MTC No:</dt><dd>%s</dd>
</div>

<h2>Specification</h2>
<table>
<thead>
<tr><th rowspan="2">Sr. No</th><th rowspan="2">Parameter</th><th rowspan="2">Symbol</th><th colspan="3">Specification</th><th colspan="5">Observed</th></tr>
<tr><th>Standard</th><th>Minimum</th><th>Maximum</th><th>1</th><th>2</th><th>3</th><th>4</th><th>5</th></tr>
</thead>
<tbody>%s</tbody>
</table>

<table class="signoff">
<tr><td class="label-cell">Prepared By</td><td></td><td class="label-cell">Checked By</td><td></td></tr>
</table>
</body></html>`,
		esc(l.Item.JobCardNumber), pageStyle,
		esc(h.Company), esc(catalog.TypeName(p.ProductType)),
		esc(l.Item.JobCardNumber), time.Now().Format("2006-01-02"),
		esc(p.General.CustomerCode), esc(p.General.CustomerPartNo),
		esc(l.Item.JobCardNumber), esc(p.General.SymagPartNo),
		esc(p.MaterialAndDimensions.MaterialType), esc(p.MaterialAndDimensions.MtlSpec),
		b.String()))
}
