package reports

import (
	"fmt"
	"net/http"
	"strings"

	"springworks/internal/catalog"
	"springworks/internal/models"
)

type detail struct {
	Label string
	Value string
}

func detailGrid(items []detail) string {
	if len(items) == 0 {
		return `<p style="color:#999">None recorded</p>`
	}
	var b strings.Builder
	b.WriteString(`<div class="info-grid">`)
	for _, d := range items {
		fmt.Fprintf(&b, `<dt>%s:</dt><dd>%s</dd>`, esc(d.Label), esc(d.Value))
	}
	b.WriteString(`</div>`)
	return b.String()
}

func dimensionDetails(m models.MaterialAndDimensions) []detail {
	var out []detail
	add := func(label string, d *models.DimensionWithTolerance) {
		if d != nil {
			out = append(out, detail{label, withTolerance(d, "mm")})
		}
	}
	add("Wire Dia", m.WireDia)
	add("Outside Dia", m.OutsideDia)
	add("Mean Dia", m.MeanDia)
	add("Inside Dia", m.InsideDia)
	add("Free Length", m.FreeLength)
	add("Free Length Inside Hook", m.FreeLengthInsideHook)
	add("Big Outside Dia", m.BigOutsideDia)
	add("Small Outside Dia", m.SmallOutsideDia)
	add("Big Inside Dia", m.BigInsideDia)
	add("Small Inside Dia", m.SmallInsideDia)
	if m.WorksInside != nil {
		out = append(out, detail{"Works Inside - Hole Dia", num(m.WorksInside.HoleDiaMM) + " mm"})
	}
	if m.WorksOver != nil {
		out = append(out, detail{"Works Over - Shaft Dia", num(m.WorksOver.ShaftDiaMM) + " mm"})
	}
	if ht := m.HeatTreat; ht != nil {
		if ht.DegreeC != nil {
			out = append(out, detail{"Heat Treat (°C)", num(*ht.DegreeC)})
		}
		if ht.TimeMin != nil {
			out = append(out, detail{"Heat Treat Time (min)", num(*ht.TimeMin)})
		}
	}
	return out
}

func coilDetails(m models.MaterialAndDimensions) []detail {
	var out []detail
	text := func(label, v string) {
		if v != "" {
			out = append(out, detail{label, v})
		}
	}
	text("Configuration", m.Configuration)
	if m.TotalCoils != nil {
		out = append(out, detail{"Total Coils", num(*m.TotalCoils)})
	}
	if m.ActiveCoils != nil {
		out = append(out, detail{"Active Coils", num(*m.ActiveCoils)})
	}
	text("Helix", m.Helix)
	text("End Type", m.EndType)
	text("Hook Type", m.HookType)
	text("Orientation", m.Orientation)
	if m.GapMM != nil {
		out = append(out, detail{"Gap", num(*m.GapMM) + " mm"})
	}
	if m.PitchMM != nil {
		out = append(out, detail{"Pitch", num(*m.PitchMM) + " mm"})
	}
	if m.Preset != nil {
		v := "No"
		if *m.Preset {
			v = "Yes"
		}
		out = append(out, detail{"Preset", v})
	}
	return out
}

func loadDetails(l models.LoadsRatesDeflection) []detail {
	var out []detail
	opt := func(label string, v *float64, unit string) {
		if v != nil {
			out = append(out, detail{label, num(*v) + unit})
		}
	}
	if sr := l.SpringRate; sr != nil {
		out = append(out, detail{"Spring Rate", fmt.Sprintf("%s ± %s N/mm", num(sr.ValueNPerMM), num(sr.ToleranceNPerMM))})
	}
	if l.SolidHeight != nil {
		out = append(out, detail{"Solid Height", withTolerance(l.SolidHeight, "mm")})
	}
	opt("Length @ Load 1", l.LengthAtLoad1MM, " mm")
	opt("Load 1", l.Load1N, " N")
	opt("Deflection @ Load 1", l.DeflectionAtLoad1MM, " mm")
	opt("Length @ Load 2", l.LengthAtLoad2MM, " mm")
	opt("Load 2", l.Load2N, " N")
	opt("Deflection @ Load 2", l.DeflectionAtLoad2MM, " mm")
	opt("Operating Temp", l.OperatingTempC, " °C")
	if l.Cycles != nil {
		out = append(out, detail{"Cycles", fmt.Sprint(*l.Cycles)})
	}
	if l.SurfaceTreatment != "" {
		out = append(out, detail{"Surface Treatment", l.SurfaceTreatment})
	}
	if l.Date != "" {
		out = append(out, detail{"Date", l.Date})
	}
	if l.PrepBy != "" {
		out = append(out, detail{"Prepared By", l.PrepBy})
	}
	return out
}

func imageGallery(images []models.ProductImage) string {
	if len(images) == 0 {
		return `<p style="color:#999">No images</p>`
	}
	var b strings.Builder
	for _, img := range images {
		fmt.Fprintf(&b, `<img src="%s" alt="%s" style="max-width:30%%;margin:4pt;border:1px solid #ccc">`,
			esc(img.URL), esc(img.Name))
	}
	return b.String()
}

// JobCard handles GET /reports/job-card/:salesOrderId/:serial.
func (h *Handler) JobCard(w http.ResponseWriter, r *http.Request, salesOrderID, serial string) {
	l, ok := h.resolve(w, r, salesOrderID, serial)
	if !ok {
		return
	}
	p := l.Product

	info := []detail{
		{"Job Card No", l.Item.JobCardNumber},
		{"Customer", l.Order.CustomerName},
		{"Created", l.Order.CreatedDate},
		{"Target Completion", l.Order.CompletionTargetDate},
		{"Product Name", l.Item.ProductName},
		{"Product Type", catalog.TypeName(l.Item.ProductType)},
		{"Quantity", fmt.Sprint(l.Item.Quantity)},
	}
	part := []detail{
		{"Symag Part No", p.General.SymagPartNo},
		{"Customer Code", p.General.CustomerCode},
		{"Customer Part No", p.General.CustomerPartNo},
		{"Customer Part Name", p.General.CustomerPartNameNo},
		{"MOQ", optNum(p.General.MOQ)},
		{"Net Weight", optNum(p.General.PartWeightNet)},
		{"Material Type", p.MaterialAndDimensions.MaterialType},
		{"Material Spec", p.MaterialAndDimensions.MtlSpec},
		{"Steel Grade", p.MaterialAndDimensions.GradeSteel},
	}
	remarks := p.LoadsRatesDeflection.Remark
	if l.Order.Remarks != "" {
		remarks = strings.TrimSpace(l.Order.Remarks + "\n" + remarks)
	}

	writeHTML(w, fmt.Sprintf(`<!DOCTYPE html>
<html><head><meta charset="UTF-8"><title>Job Card - %s</title>
%s
</head><body>
<div class="header">
  <div>
    <h1>Job Card</h1>
    <div style="font-size:10pt;color:#555">%s</div>
  </div>
  <div class="header-right">
    <div><strong>Job Card:</strong> %s</div>
    <div><strong>Sales Order:</strong> %s</div>
    <div><strong>Status:</strong> <span class="status" style="background:%s">%s</span></div>
  </div>
</div>

<h2>Job Card Information</h2>
%s
<h2>Part Information</h2>
%s
<h2>Dimensions</h2>
%s
<h2>Coil Configuration</h2>
%s
<h2>Loads, Rates &amp; Deflection</h2>
%s
<h2>Remarks</h2>
<p style="white-space:pre-wrap">%s</p>
<h2>Images</h2>
%s

<h2>Sign-off</h2>
<table class="signoff">
<tr><td class="label-cell">Prepared By</td><td></td><td class="label-cell">Date</td><td></td></tr>
<tr><td class="label-cell">Approved By</td><td></td><td class="label-cell">Date</td><td></td></tr>
</table>
</body></html>`,
		esc(l.Item.JobCardNumber), pageStyle,
		esc(h.Company),
		esc(l.Item.JobCardNumber), esc(l.Order.SalesOrderID),
		catalog.SalesOrderStatusColor(l.Order.Status), esc(l.Order.Status),
		detailGrid(info), detailGrid(part),
		detailGrid(dimensionDetails(p.MaterialAndDimensions)),
		detailGrid(coilDetails(p.MaterialAndDimensions)),
		detailGrid(loadDetails(p.LoadsRatesDeflection)),
		esc(remarks), imageGallery(p.Images)))
}
