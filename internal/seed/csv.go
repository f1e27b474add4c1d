package seed

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"springworks/internal/models"
	"springworks/internal/store"
	"springworks/internal/validation"
)

// ProductRow is one line of a product import file. Numeric cells may be
// empty.
type ProductRow struct {
	ProductName      string `csv:"product_name"`
	ProductType      string `csv:"product_type"`
	Status           string `csv:"status"`
	SymagPartNo      string `csv:"symag_part_no"`
	CustomerCode     string `csv:"customer_code"`
	CustomerPartNo   string `csv:"customer_part_no"`
	MaterialType     string `csv:"material_type"`
	MtlSpec          string `csv:"mtl_spec"`
	WireDia          string `csv:"wire_dia_mm"`
	WireDiaTol       string `csv:"wire_dia_tol_mm"`
	OutsideDia       string `csv:"outside_dia_mm"`
	OutsideDiaTol    string `csv:"outside_dia_tol_mm"`
	FreeLength       string `csv:"free_length_mm"`
	FreeLengthTol    string `csv:"free_length_tol_mm"`
	TotalCoils       string `csv:"total_coils"`
	SurfaceTreatment string `csv:"surface_treatment"`
	Remark           string `csv:"remark"`
}

func optDim(v, tol string) *models.DimensionWithTolerance {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &models.DimensionWithTolerance{ValueMM: cast.ToFloat64(strings.TrimSpace(v)), ToleranceMM: cast.ToFloat64(strings.TrimSpace(tol))}
}

// Product converts the row, validating the same required fields and enums
// the product API does.
func (r ProductRow) Product() (models.Product, error) {
	p := models.Product{
		ProductName: strings.TrimSpace(r.ProductName),
		ProductType: strings.ToUpper(strings.TrimSpace(r.ProductType)),
		Status:      strings.ToUpper(strings.TrimSpace(r.Status)),
		General: models.GeneralInfo{
			SymagPartNo:    strings.TrimSpace(r.SymagPartNo),
			CustomerCode:   r.CustomerCode,
			CustomerPartNo: r.CustomerPartNo,
		},
		MaterialAndDimensions: models.MaterialAndDimensions{
			MaterialType: r.MaterialType,
			MtlSpec:      r.MtlSpec,
			WireDia:      optDim(r.WireDia, r.WireDiaTol),
			OutsideDia:   optDim(r.OutsideDia, r.OutsideDiaTol),
			FreeLength:   optDim(r.FreeLength, r.FreeLengthTol),
		},
		LoadsRatesDeflection: models.LoadsRatesDeflection{
			SurfaceTreatment: r.SurfaceTreatment,
			Remark:           r.Remark,
		},
	}
	if c := strings.TrimSpace(r.TotalCoils); c != "" {
		coils, err := cast.ToFloat64E(c)
		if err != nil {
			return p, errors.Errorf("total_coils: %q is not a number", c)
		}
		p.MaterialAndDimensions.TotalCoils = &coils
	}

	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "product_name", p.ProductName)
	validation.RequireField(ve, "product_type", p.ProductType)
	validation.RequireField(ve, "symag_part_no", p.General.SymagPartNo)
	validation.ValidateEnum(ve, "product_type", p.ProductType, validation.ValidProductTypes)
	validation.ValidateEnum(ve, "status", p.Status, validation.ValidProductStatuses)
	validation.ValidateEnum(ve, "surface_treatment", p.LoadsRatesDeflection.SurfaceTreatment, validation.ValidSurfaceTreatments)
	if ve.HasErrors() {
		return p, ve
	}
	return p, nil
}

// ImportProducts creates one product per CSV row. It stops at the first
// invalid row and returns how many products were created before it.
func ImportProducts(ctx context.Context, products *store.Products, r io.Reader) (int, error) {
	var rows []ProductRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return 0, errors.Wrap(err, "read product csv")
	}
	created := 0
	for i, row := range rows {
		p, err := row.Product()
		if err != nil {
			return created, fmt.Errorf("product csv line %d: %w", i+2, err)
		}
		if _, err := products.Create(ctx, p, seedUser); err != nil {
			return created, errors.Wrapf(err, "product csv line %d", i+2)
		}
		created++
	}
	return created, nil
}
