package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"

	"springworks/internal/models"
)

// FieldSet lists the flattened form keys shown for a product type, grouped
// the way the edit form lays them out.
type FieldSet struct {
	General       []string `json:"general"`
	Common        []string `json:"common"`
	Configuration []string `json:"configuration"`
	Loads         []string `json:"loads"`
	Operating     []string `json:"operating"`
	Material      []string `json:"material,omitempty"`
	Config        []string `json:"config,omitempty"`
	Works         []string `json:"works,omitempty"`
}

var baseFields = FieldSet{
	General:       []string{"symagPartNo", "partWeightNet", "customerCode", "customerPartNo", "customerPartNameNo", "moq"},
	Common:        []string{"materialType", "mtlSpec", "wireDia_value", "wireDia_tolerance", "outsideDia_value", "outsideDia_tolerance", "freeLength_value", "freeLength_tolerance"},
	Configuration: []string{"totalCoils", "helix", "activeCoils", "endType", "pitch_mm", "preset"},
	Loads: []string{"springRate_value", "springRate_tolerance", "lengthAtLoad1_mm", "load1_N", "deflectionAtLoad1_mm",
		"lengthAtLoad2_mm", "load2_N", "deflectionAtLoad2_mm", "solidHeight_value", "solidHeight_tolerance"},
	Operating: []string{"surfaceTreatment", "operatingTemp_C", "cycles", "remark", "prepBy", "date"},
}

var (
	springConfig = []string{"totalCoils", "activeCoils", "helix", "endType", "pitch_mm", "preset"}
	allWorks     = []string{"worksInside_holeDia", "worksOver_shaftDia", "heatTreat_degree_C", "heatTreat_time_min"}
)

func dims(names ...string) []string {
	out := make([]string, 0, len(names)*2)
	for _, n := range names {
		out = append(out, n+"_value", n+"_tolerance")
	}
	return out
}

func material(grade bool, dimNames ...string) []string {
	out := []string{"materialType", "mtlSpec"}
	if grade {
		out = append(out, "gradeSteel")
	}
	return append(out, dims(dimNames...)...)
}

var typeFields = map[string]FieldSet{
	models.TypeCompression: withType(material(true, "wireDia", "outsideDia", "meanDia", "freeLength"),
		springConfig, allWorks),
	models.TypeConicalCompression: withType(material(true, "wireDia", "bigOutsideDia", "smallOutsideDia", "freeLength"),
		springConfig, allWorks),
	models.TypeExtension: withType(material(true, "wireDia", "insideDia", "freeLength", "freeLengthInsideHook"),
		[]string{"totalCoils", "activeCoils", "helix", "hookType", "pitch_mm", "preset"}, allWorks),
	models.TypeTorsion: withType(material(true, "wireDia", "meanDia", "freeLength"),
		springConfig, allWorks),
	models.TypeDoubleTorsion: withType(material(true, "wireDia", "meanDia", "freeLength"),
		springConfig, allWorks),
	models.TypeWireForm: withType(material(false, "wireDia", "outsideDia", "insideDia", "freeLength"),
		springConfig, allWorks),
	models.TypePressPart: withType(material(false, "wireDia", "outsideDia", "insideDia", "freeLength"),
		[]string{"totalCoils", "activeCoils", "endType", "preset"}, []string{"heatTreat_degree_C", "heatTreat_time_min"}),
}

func withType(mat, config, works []string) FieldSet {
	fs := baseFields
	fs.Material = mat
	fs.Config = config
	fs.Works = works
	return fs
}

// FormFields returns the form layout for productType. Unknown types get the
// base groups only.
func FormFields(productType string) FieldSet {
	if fs, ok := typeFields[productType]; ok {
		return fs
	}
	return baseFields
}

var fieldLabels = map[string]string{
	"symagPartNo":        "Part Number",
	"partWeightNet":      "Part Weight (Net)",
	"customerCode":       "Customer Code",
	"customerPartNo":     "Customer Part #",
	"customerPartNameNo": "Customer Part Name #",
	"moq":                "MOQ",

	"materialType":                   "Material Type",
	"mtlSpec":                        "MTL Spec",
	"gradeSteel":                     "Grade",
	"wireDia_value":                  "Wire Dia (MM)",
	"wireDia_tolerance":              "Wire Dia Tolerance",
	"outsideDia_value":               "Outside Dia (MM)",
	"outsideDia_tolerance":           "Outside Dia Tolerance",
	"bigOutsideDia_value":            "Big Outside Dia (MM)",
	"bigOutsideDia_tolerance":        "Big Outside Dia Tolerance",
	"smallOutsideDia_value":          "Small Outside Dia (MM)",
	"smallOutsideDia_tolerance":      "Small Outside Dia Tolerance",
	"meanDia_value":                  "Mean Dia (MM)",
	"meanDia_tolerance":              "Mean Dia Tolerance",
	"insideDia_value":                "Inside Dia (MM)",
	"insideDia_tolerance":            "Inside Dia Tolerance",
	"bigInsideDia_value":             "Big Inside Dia (MM)",
	"bigInsideDia_tolerance":         "Big Inside Dia Tolerance",
	"smallInsideDia_value":           "Small Inside Dia (MM)",
	"smallInsideDia_tolerance":       "Small Inside Dia Tolerance",
	"freeLength_value":               "Free Length (MM)",
	"freeLength_tolerance":           "Free Length Tolerance",
	"freeLengthInsideHook_value":     "Free Length Inside Hook (MM)",
	"freeLengthInsideHook_tolerance": "Free Length Inside Hook Tolerance",

	"totalCoils":  "Total Coils",
	"helix":       "Helix",
	"activeCoils": "Active Coils",
	"endType":     "End Type",
	"hookType":    "Hook Type",
	"pitch_mm":    "Pitch (MM)",
	"preset":      "Preset",

	"springRate_value":      "Spring Rate (N/MM)",
	"springRate_tolerance":  "Spring Rate Tolerance",
	"lengthAtLoad1_mm":      "Length at Load 1 (MM)",
	"load1_N":               "Load 1 (N)",
	"deflectionAtLoad1_mm":  "Deflection at Load 1 (MM)",
	"lengthAtLoad2_mm":      "Length at Load 2 (MM)",
	"load2_N":               "Load 2 (N)",
	"deflectionAtLoad2_mm":  "Deflection at Load 2 (MM)",
	"solidHeight_value":     "Solid Height (MM)",
	"solidHeight_tolerance": "Solid Height Tolerance",

	"worksInside_holeDia": "Works Inside - Hole Dia",
	"worksOver_shaftDia":  "Works Over - Shaft Dia",
	"heatTreat_degree_C":  "Heat Treat (°C)",
	"heatTreat_time_min":  "Heat Treat Time (Min)",

	"surfaceTreatment": "Surface Treatment",
	"operatingTemp_C":  "Operating Temp (°C)",
	"cycles":           "Cycles",
	"remark":           "Remark",
	"prepBy":           "Prep By",
	"date":             "Date",
}

// FieldLabel returns the display label for a form key, or the key itself.
func FieldLabel(key string) string {
	if l, ok := fieldLabels[key]; ok {
		return l
	}
	return key
}

// Labels returns the labels for every key in fs.
func (fs FieldSet) Labels() map[string]string {
	out := map[string]string{}
	for _, group := range [][]string{fs.General, fs.Common, fs.Configuration, fs.Loads, fs.Operating, fs.Material, fs.Config, fs.Works} {
		for _, k := range group {
			out[k] = FieldLabel(k)
		}
	}
	return out
}

var (
	materialDims = []string{"wireDia", "outsideDia", "meanDia", "insideDia", "freeLength", "freeLengthInsideHook",
		"bigOutsideDia", "smallOutsideDia", "bigInsideDia", "smallInsideDia"}
	generalKeys     = []string{"symagPartNo", "partWeightNet", "customerCode", "customerPartNo", "customerPartNameNo", "moq"}
	materialScalars = []string{"materialType", "mtlSpec", "gradeSteel", "configuration", "totalCoils", "helix", "activeCoils", "endType", "hookType", "orientation", "gap_mm", "pitch_mm", "preset"}
	loadScalars     = []string{"lengthAtLoad1_mm", "load1_N", "deflectionAtLoad1_mm", "lengthAtLoad2_mm", "load2_N", "deflectionAtLoad2_mm", "operatingTemp_C", "cycles", "surfaceTreatment", "remark", "date", "prepBy"}
	floatKeys       = map[string]bool{"partWeightNet": true, "moq": true, "totalCoils": true, "activeCoils": true, "gap_mm": true, "pitch_mm": true, "lengthAtLoad1_mm": true, "load1_N": true, "deflectionAtLoad1_mm": true, "lengthAtLoad2_mm": true, "load2_N": true, "deflectionAtLoad2_mm": true, "operatingTemp_C": true}
)

// Flatten turns a product into the flat key/value map the edit form binds
// to. Unset optional values are omitted.
func Flatten(p models.Product) map[string]any {
	out := map[string]any{
		"productName": p.ProductName,
		"productType": p.ProductType,
		"status":      p.Status,
	}
	put := func(k string, v any) {
		switch x := v.(type) {
		case string:
			if x == "" {
				return
			}
		case *float64:
			if x == nil {
				return
			}
			v = *x
		case *int64:
			if x == nil {
				return
			}
			v = *x
		case *bool:
			if x == nil {
				return
			}
			v = *x
		}
		out[k] = v
	}
	putDim := func(name string, d *models.DimensionWithTolerance) {
		if d == nil {
			return
		}
		out[name+"_value"] = d.ValueMM
		out[name+"_tolerance"] = d.ToleranceMM
	}

	g := p.General
	put("symagPartNo", g.SymagPartNo)
	put("partWeightNet", g.PartWeightNet)
	put("customerCode", g.CustomerCode)
	put("customerPartNo", g.CustomerPartNo)
	put("customerPartNameNo", g.CustomerPartNameNo)
	put("moq", g.MOQ)

	m := p.MaterialAndDimensions
	put("materialType", m.MaterialType)
	put("mtlSpec", m.MtlSpec)
	put("gradeSteel", m.GradeSteel)
	putDim("wireDia", m.WireDia)
	putDim("outsideDia", m.OutsideDia)
	putDim("meanDia", m.MeanDia)
	putDim("insideDia", m.InsideDia)
	putDim("freeLength", m.FreeLength)
	putDim("freeLengthInsideHook", m.FreeLengthInsideHook)
	putDim("bigOutsideDia", m.BigOutsideDia)
	putDim("smallOutsideDia", m.SmallOutsideDia)
	putDim("bigInsideDia", m.BigInsideDia)
	putDim("smallInsideDia", m.SmallInsideDia)
	put("configuration", m.Configuration)
	put("totalCoils", m.TotalCoils)
	put("helix", m.Helix)
	put("activeCoils", m.ActiveCoils)
	put("endType", m.EndType)
	put("hookType", m.HookType)
	put("orientation", m.Orientation)
	put("gap_mm", m.GapMM)
	put("pitch_mm", m.PitchMM)
	put("preset", m.Preset)
	if m.WorksInside != nil {
		out["worksInside_holeDia"] = m.WorksInside.HoleDiaMM
	}
	if m.WorksOver != nil {
		out["worksOver_shaftDia"] = m.WorksOver.ShaftDiaMM
	}
	if m.HeatTreat != nil {
		put("heatTreat_degree_C", m.HeatTreat.DegreeC)
		put("heatTreat_time_min", m.HeatTreat.TimeMin)
	}

	l := p.LoadsRatesDeflection
	if l.SpringRate != nil {
		out["springRate_value"] = l.SpringRate.ValueNPerMM
		out["springRate_tolerance"] = l.SpringRate.ToleranceNPerMM
	}
	put("lengthAtLoad1_mm", l.LengthAtLoad1MM)
	put("load1_N", l.Load1N)
	put("deflectionAtLoad1_mm", l.DeflectionAtLoad1MM)
	put("lengthAtLoad2_mm", l.LengthAtLoad2MM)
	put("load2_N", l.Load2N)
	put("deflectionAtLoad2_mm", l.DeflectionAtLoad2MM)
	putDim("solidHeight", l.SolidHeight)
	put("operatingTemp_C", l.OperatingTempC)
	put("cycles", l.Cycles)
	put("surfaceTreatment", l.SurfaceTreatment)
	put("remark", l.Remark)
	put("date", l.Date)
	put("prepBy", l.PrepBy)
	return out
}

// FieldError reports form values that could not be coerced.
type FieldError map[string]string

func (e FieldError) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, k+": "+e[k])
	}
	return strings.Join(msgs, "; ")
}

func present(form map[string]any, key string) bool {
	v, ok := form[key]
	if !ok || v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// Rebuild reconstructs the nested specification of a productType product
// from flattened form values. A dimension is kept only when its _value key
// is present; a missing tolerance is 0. Numeric strings are accepted.
func Rebuild(productType string, form map[string]any) (models.Product, error) {
	p := models.Product{
		ProductType: productType,
		ProductName: strings.TrimSpace(cast.ToString(form["productName"])),
		Status:      cast.ToString(form["status"]),
	}
	bad := FieldError{}

	num := func(key string) float64 {
		if !present(form, key) {
			return 0
		}
		f, err := cast.ToFloat64E(strings.TrimSpace(cast.ToString(form[key])))
		if err != nil {
			bad[key] = "must be a number"
		}
		return f
	}
	dim := func(name, valueKey, tolKey string) map[string]any {
		if !present(form, name+"_value") {
			return nil
		}
		return map[string]any{valueKey: num(name + "_value"), tolKey: num(name + "_tolerance")}
	}
	scalars := func(keys []string) map[string]any {
		out := map[string]any{}
		for _, k := range keys {
			if !present(form, k) {
				continue
			}
			switch {
			case floatKeys[k]:
				out[k] = num(k)
			case k == "cycles":
				n, err := strconv.ParseInt(strings.TrimSpace(cast.ToString(form[k])), 10, 64)
				if err != nil {
					bad[k] = "must be a whole number"
				}
				out[k] = n
			case k == "preset":
				b, err := cast.ToBoolE(form[k])
				if err != nil {
					bad[k] = "must be true or false"
				}
				out[k] = b
			default:
				out[k] = strings.TrimSpace(cast.ToString(form[k]))
			}
		}
		return out
	}

	general := scalars(generalKeys)

	mat := scalars(materialScalars)
	for _, d := range materialDims {
		if v := dim(d, "value_mm", "tolerance_mm"); v != nil {
			mat[d] = v
		}
	}
	if present(form, "worksInside_holeDia") {
		mat["worksInside"] = map[string]any{"holeDia_mm": num("worksInside_holeDia")}
	}
	if present(form, "worksOver_shaftDia") {
		mat["worksOver"] = map[string]any{"shaftDia_mm": num("worksOver_shaftDia")}
	}
	if present(form, "heatTreat_degree_C") || present(form, "heatTreat_time_min") {
		ht := map[string]any{}
		if present(form, "heatTreat_degree_C") {
			ht["degree_C"] = num("heatTreat_degree_C")
		}
		if present(form, "heatTreat_time_min") {
			ht["time_min"] = num("heatTreat_time_min")
		}
		mat["heatTreat"] = ht
	}

	loads := scalars(loadScalars)
	if v := dim("springRate", "value_N_per_mm", "tolerance_N_per_mm"); v != nil {
		loads["springRate"] = v
	}
	if v := dim("solidHeight", "value_mm", "tolerance_mm"); v != nil {
		loads["solidHeight"] = v
	}

	if len(bad) > 0 {
		return models.Product{}, bad
	}
	if err := decode(general, &p.General); err != nil {
		return models.Product{}, fmt.Errorf("general: %w", err)
	}
	if err := decode(mat, &p.MaterialAndDimensions); err != nil {
		return models.Product{}, fmt.Errorf("materialAndDimensions: %w", err)
	}
	if err := decode(loads, &p.LoadsRatesDeflection); err != nil {
		return models.Product{}, fmt.Errorf("loadsRatesDeflection: %w", err)
	}
	return p, nil
}

func decode(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}
