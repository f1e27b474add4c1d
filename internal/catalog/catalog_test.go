package catalog

import (
	"errors"
	"reflect"
	"testing"

	"springworks/internal/models"
)

func fptr(f float64) *float64 { return &f }

func sampleProducts() []models.Product {
	return []models.Product{
		{ID: "PROD-2001", ProductName: "Valve Spring", ProductType: "CS", Status: "ACTIVE",
			General: models.GeneralInfo{SymagPartNo: "SY-100", CustomerPartNo: "CP-9"}},
		{ID: "PROD-2002", ProductName: "Clutch spring", ProductType: "CS", Status: "INACTIVE",
			General: models.GeneralInfo{SymagPartNo: "SY-101"}},
		{ID: "PROD-2003", ProductName: "Door hinge", ProductType: "TS", Status: "ACTIVE",
			General: models.GeneralInfo{SymagPartNo: "SY-SPRING-7"}},
		{ID: "PROD-2004", ProductName: "Bracket", ProductType: "PP", Status: "ACTIVE",
			General: models.GeneralInfo{SymagPartNo: "SY-200", CustomerPartNo: "spring-bkt"}},
		{ID: "PROD-2005", ProductName: "Old Spring", ProductType: "ES", Status: "ARCHIVED",
			General: models.GeneralInfo{SymagPartNo: "SY-300"}},
	}
}

func ids(ps []models.Product) []string {
	out := []string{}
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestFilterStatusAndSearch(t *testing.T) {
	got := Filter(sampleProducts(), Query{Search: "SPRING", Status: models.ProductActive})
	want := []string{"PROD-2001", "PROD-2003", "PROD-2004"}
	if !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("expected %v, got %v", want, ids(got))
	}
	for _, p := range got {
		if p.Status != models.ProductActive {
			t.Errorf("%s has status %s", p.ID, p.Status)
		}
	}
}

func TestFilterSearchFields(t *testing.T) {
	tests := []struct {
		search string
		want   []string
	}{
		{"valve", []string{"PROD-2001"}},
		{"cp-9", []string{"PROD-2001"}},
		{"sy-10", []string{"PROD-2001", "PROD-2002"}},
		{"  hinge ", []string{"PROD-2003"}},
		{"nothing", []string{}},
		{"", []string{"PROD-2001", "PROD-2002", "PROD-2003", "PROD-2004", "PROD-2005"}},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			got := ids(Filter(sampleProducts(), Query{Search: tt.search}))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("search %q: expected %v, got %v", tt.search, tt.want, got)
			}
		})
	}
}

func TestFilterUnicodeFolding(t *testing.T) {
	ps := []models.Product{{ID: "P1", ProductName: "ÖLFEDER DRUCK", Status: "ACTIVE"}}
	if got := Filter(ps, Query{Search: "ölfeder"}); len(got) != 1 {
		t.Errorf("expected folded match, got %d", len(got))
	}
}

func TestFilterByType(t *testing.T) {
	got := ids(Filter(sampleProducts(), Query{Type: "CS"}))
	if !reflect.DeepEqual(got, []string{"PROD-2001", "PROD-2002"}) {
		t.Errorf("unexpected %v", got)
	}
}

func TestPaginate(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i
	}
	page, meta := Paginate(items, 3, 10)
	if len(page) != 3 || page[0] != 20 {
		t.Errorf("unexpected page %v", page)
	}
	if meta.Total != 23 || meta.TotalPages != 3 || meta.Page != 3 || meta.Limit != 10 {
		t.Errorf("unexpected meta %+v", meta)
	}

	page, meta = Paginate(items, 0, 0)
	if len(page) != DefaultPageSize || meta.Page != 1 {
		t.Errorf("defaults not applied: %d items, %+v", len(page), meta)
	}

	page, _ = Paginate(items, 9, 10)
	if len(page) != 0 {
		t.Errorf("expected empty page past the end, got %v", page)
	}
}

func TestToIntIsDecimal(t *testing.T) {
	cases := map[any]int{"010": 10, " 2 ": 2, "0": 0, 7: 7, "0009": 9}
	for in, want := range cases {
		got, err := ToInt(in)
		if err != nil || got != want {
			t.Errorf("ToInt(%v) = %d, %v; want %d", in, got, err, want)
		}
	}
	for _, in := range []any{"0x10", "1e3", "", "two"} {
		if _, err := ToInt(in); err == nil {
			t.Errorf("ToInt(%q) should fail", in)
		}
	}
}

func TestArchiveOnlyChangesStatus(t *testing.T) {
	p := sampleProducts()[0]
	p.MaterialAndDimensions.WireDia = &models.DimensionWithTolerance{ValueMM: 2, ToleranceMM: 0.02}
	p.UpdatedAt = "2024-01-01 00:00:00"

	archived := Archive(p)
	if archived.Status != models.ProductArchived {
		t.Fatalf("expected ARCHIVED, got %s", archived.Status)
	}
	archived.Status = p.Status
	if !reflect.DeepEqual(archived, p) {
		t.Errorf("archive changed more than status:\n%+v\n%+v", archived, p)
	}
}

func TestStatusColors(t *testing.T) {
	cases := map[string]string{"ACTIVE": "#4CAF50", "INACTIVE": "#FF9800", "ARCHIVED": "#F44336", "?": "#999999"}
	for s, want := range cases {
		if got := StatusColor(s); got != want {
			t.Errorf("StatusColor(%s) = %s, want %s", s, got, want)
		}
	}
	so := map[string]string{"DRAFT": "#FFC107", "CONFIRMED": "#2196F3", "IN_PROGRESS": "#FF9800",
		"COMPLETED": "#4CAF50", "CANCELLED": "#f44336", "": "#999"}
	for s, want := range so {
		if got := SalesOrderStatusColor(s); got != want {
			t.Errorf("SalesOrderStatusColor(%s) = %s, want %s", s, got, want)
		}
	}
}

func TestTypeName(t *testing.T) {
	if TypeName("CCS") != "Conical Compression Spring" || TypeName("WF") != "WireForm" {
		t.Error("unexpected type names")
	}
	if TypeName("XX") != "XX" {
		t.Error("unknown code should be returned as is")
	}
}

func TestFormFieldsPerType(t *testing.T) {
	es := FormFields("ES")
	if !contains(es.Config, "hookType") || contains(es.Config, "endType") {
		t.Errorf("extension springs use hookType: %v", es.Config)
	}
	pp := FormFields("PP")
	if contains(pp.Material, "gradeSteel") || contains(pp.Config, "helix") || contains(pp.Config, "pitch_mm") {
		t.Errorf("press parts have no grade, helix or pitch: %+v", pp)
	}
	if !reflect.DeepEqual(pp.Works, []string{"heatTreat_degree_C", "heatTreat_time_min"}) {
		t.Errorf("unexpected PP works %v", pp.Works)
	}
	ccs := FormFields("CCS")
	if !contains(ccs.Material, "bigOutsideDia_value") || !contains(ccs.Material, "smallOutsideDia_tolerance") {
		t.Errorf("conical springs use big/small outside dia: %v", ccs.Material)
	}
	unknown := FormFields("??")
	if unknown.Material != nil || len(unknown.General) == 0 {
		t.Errorf("unknown types get base groups only: %+v", unknown)
	}
	labels := FormFields("CS").Labels()
	if labels["wireDia_value"] != "Wire Dia (MM)" || labels["symagPartNo"] != "Part Number" {
		t.Errorf("unexpected labels %v", labels)
	}
	if FieldLabel("nope") != "nope" {
		t.Error("unknown label should echo key")
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestRebuildFromForm(t *testing.T) {
	form := map[string]any{
		"productName":           " Valve Spring ",
		"status":                "ACTIVE",
		"symagPartNo":           "SY-100",
		"moq":                   "500",
		"materialType":          "SS302",
		"wireDia_value":         "2.5",
		"wireDia_tolerance":     "0.02",
		"outsideDia_value":      20.0,
		"meanDia_value":         "",
		"freeLength_tolerance":  "1",
		"totalCoils":            "8.5",
		"helix":                 "RHS",
		"preset":                "true",
		"worksInside_holeDia":   "22",
		"heatTreat_time_min":    "30",
		"springRate_value":      "4.2",
		"solidHeight_value":     "18",
		"solidHeight_tolerance": "0.5",
		"cycles":                "100000",
		"surfaceTreatment":      "Zinc",
	}
	p, err := Rebuild("CS", form)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	m := p.MaterialAndDimensions
	if p.ProductName != "Valve Spring" || p.ProductType != "CS" || p.General.SymagPartNo != "SY-100" {
		t.Errorf("unexpected header %+v", p)
	}
	if p.General.MOQ == nil || *p.General.MOQ != 500 {
		t.Errorf("moq not coerced: %v", p.General.MOQ)
	}
	if m.WireDia == nil || m.WireDia.ValueMM != 2.5 || m.WireDia.ToleranceMM != 0.02 {
		t.Errorf("wireDia %+v", m.WireDia)
	}
	if m.OutsideDia == nil || m.OutsideDia.ValueMM != 20 || m.OutsideDia.ToleranceMM != 0 {
		t.Errorf("outsideDia should default tolerance to 0: %+v", m.OutsideDia)
	}
	if m.MeanDia != nil {
		t.Error("meanDia with blank value must be omitted")
	}
	if m.FreeLength != nil {
		t.Error("a tolerance without a value must not create a dimension")
	}
	if m.TotalCoils == nil || *m.TotalCoils != 8.5 || m.Helix != "RHS" {
		t.Errorf("configuration not rebuilt: %+v", m)
	}
	if m.Preset == nil || !*m.Preset {
		t.Error("preset not rebuilt")
	}
	if m.WorksInside == nil || m.WorksInside.HoleDiaMM != 22 || m.WorksOver != nil {
		t.Errorf("works not rebuilt: %+v %+v", m.WorksInside, m.WorksOver)
	}
	if m.HeatTreat == nil || m.HeatTreat.DegreeC != nil || *m.HeatTreat.TimeMin != 30 {
		t.Errorf("heat treat not rebuilt: %+v", m.HeatTreat)
	}
	l := p.LoadsRatesDeflection
	if l.SpringRate == nil || l.SpringRate.ValueNPerMM != 4.2 || l.SpringRate.ToleranceNPerMM != 0 {
		t.Errorf("spring rate %+v", l.SpringRate)
	}
	if l.SolidHeight == nil || l.SolidHeight.ToleranceMM != 0.5 {
		t.Errorf("solid height %+v", l.SolidHeight)
	}
	if l.Cycles == nil || *l.Cycles != 100000 || l.SurfaceTreatment != "Zinc" {
		t.Errorf("loads %+v", l)
	}
}

func TestRebuildRejectsNonNumeric(t *testing.T) {
	_, err := Rebuild("CS", map[string]any{"wireDia_value": "thick", "cycles": "many"})
	var fe FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldError, got %v", err)
	}
	if _, ok := fe["wireDia_value"]; !ok {
		t.Errorf("expected wireDia_value error, got %v", fe)
	}
	if _, ok := fe["cycles"]; !ok {
		t.Errorf("expected cycles error, got %v", fe)
	}
}

func TestRebuildCyclesAreDecimal(t *testing.T) {
	p, err := Rebuild("CS", map[string]any{"cycles": "010"})
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if c := p.LoadsRatesDeflection.Cycles; c == nil || *c != 10 {
		t.Errorf("cycles = %v, want 10", c)
	}
	if _, err := Rebuild("CS", map[string]any{"cycles": "0x20"}); err == nil {
		t.Error("hex cycles accepted")
	}
}

func TestFlattenRebuildRoundTrip(t *testing.T) {
	orig := models.Product{
		ProductName: "Hook spring",
		ProductType: "ES",
		Status:      "ACTIVE",
		General:     models.GeneralInfo{SymagPartNo: "SY-5", PartWeightNet: fptr(1.2), CustomerCode: "C1"},
		MaterialAndDimensions: models.MaterialAndDimensions{
			MaterialType:         "MS",
			WireDia:              &models.DimensionWithTolerance{ValueMM: 1.5, ToleranceMM: 0.01},
			FreeLengthInsideHook: &models.DimensionWithTolerance{ValueMM: 40, ToleranceMM: 0.5},
			HookType:             "German",
			WorksOver:            &models.WorksOver{ShaftDiaMM: 8},
			HeatTreat:            &models.HeatTreat{DegreeC: fptr(250)},
		},
		LoadsRatesDeflection: models.LoadsRatesDeflection{
			SpringRate: &models.SpringRate{ValueNPerMM: 3, ToleranceNPerMM: 0.3},
			Load1N:     fptr(12),
			Remark:     "check hooks",
		},
	}
	flat := Flatten(orig)
	if flat["freeLengthInsideHook_value"] != 40.0 || flat["springRate_tolerance"] != 0.3 {
		t.Errorf("unexpected flattened values %v", flat)
	}
	if _, ok := flat["outsideDia_value"]; ok {
		t.Error("unset dimension should not be flattened")
	}

	back, err := Rebuild(orig.ProductType, flat)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if !reflect.DeepEqual(back, orig) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", back, orig)
	}
}
