package products

import (
	"fmt"
	"net/http"
	"strings"

	"springworks/internal/audit"
	"springworks/internal/catalog"
	"springworks/internal/handlers/common"
	"springworks/internal/models"
	"springworks/internal/response"
	"springworks/internal/validation"
)

// productInput is either a nested product or a product type plus the
// flattened edit form.
type productInput struct {
	models.Product
	Form map[string]any `json:"form"`
}

func (in productInput) product() (models.Product, error) {
	if in.Form == nil {
		return in.Product, nil
	}
	p, err := catalog.Rebuild(in.ProductType, in.Form)
	if err != nil {
		return models.Product{}, err
	}
	if p.ProductName == "" {
		p.ProductName = strings.TrimSpace(in.ProductName)
	}
	if p.Status == "" {
		p.Status = in.Status
	}
	p.Images = in.Images
	return p, nil
}

func validateProduct(p models.Product) *validation.ValidationErrors {
	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "productName", p.ProductName)
	validation.ValidateMaxLength(ve, "productName", p.ProductName, 200)
	validation.RequireField(ve, "productType", p.ProductType)
	if p.ProductType != "" {
		validation.ValidateEnum(ve, "productType", p.ProductType, validation.ValidProductTypes)
	}
	validation.RequireField(ve, "general.symagPartNo", p.General.SymagPartNo)
	if p.Status != "" {
		validation.ValidateEnum(ve, "status", p.Status, validation.ValidProductStatuses)
	}
	if p.MaterialAndDimensions.Helix != "" {
		validation.ValidateEnum(ve, "materialAndDimensions.helix", p.MaterialAndDimensions.Helix, validation.ValidHelix)
	}
	if p.LoadsRatesDeflection.SurfaceTreatment != "" {
		validation.ValidateEnum(ve, "loadsRatesDeflection.surfaceTreatment", p.LoadsRatesDeflection.SurfaceTreatment, validation.ValidSurfaceTreatments)
	}
	validation.ValidateOptionalNonNegative(ve, "general.partWeightNet", p.General.PartWeightNet)
	validation.ValidateOptionalNonNegative(ve, "materialAndDimensions.totalCoils", p.MaterialAndDimensions.TotalCoils)
	validation.ValidateOptionalNonNegative(ve, "materialAndDimensions.activeCoils", p.MaterialAndDimensions.ActiveCoils)
	if len(p.Images) > models.MaxProductImages {
		ve.Add("images", fmt.Sprintf("at most %d images allowed", models.MaxProductImages))
	}
	for i, img := range p.Images {
		validation.ValidateImageURL(ve, fmt.Sprintf("images[%d].url", i), img.URL)
	}
	return ve
}

func decodeProduct(w http.ResponseWriter, r *http.Request) (models.Product, bool) {
	var in productInput
	if err := response.DecodeBody(r, &in); err != nil {
		response.Err(w, "invalid body", 400)
		return models.Product{}, false
	}
	p, err := in.product()
	if err != nil {
		response.Err(w, err.Error(), 400)
		return models.Product{}, false
	}
	if ve := validateProduct(p); ve.HasErrors() {
		response.ValidationErr(w, ve)
		return models.Product{}, false
	}
	return p, true
}

// ListProducts handles GET /api/v1/products.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	all, err := h.all(r.Context())
	if err != nil {
		response.StoreErr(w, err)
		return
	}
	matched := catalog.Filter(all, catalog.Query{
		Search: q.Get("search"),
		Status: q.Get("status"),
		Type:   q.Get("type"),
	})
	pageNo, _ := catalog.ToInt(q.Get("page"))
	limit, _ := catalog.ToInt(q.Get("limit"))
	page, meta := catalog.Paginate(matched, pageNo, limit)
	response.JSONMeta(w, page, meta)
}

// GetProduct handles GET /api/v1/products/:id.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.Products.Get(r.Context(), id)
	if err != nil {
		response.StoreErr(w, err)
		return
	}
	response.JSON(w, p)
}

// CreateProduct handles POST /api/v1/products.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := decodeProduct(w, r)
	if !ok {
		return
	}
	username := audit.GetUsername(h.DB, r)
	created, err := h.Products.Create(r.Context(), p, username)
	if err != nil {
		response.StoreErr(w, err)
		return
	}
	h.changed(r.Context(), "create", username, created.ID, "Created "+created.ID+" "+created.ProductName, &created)
	response.Created(w, created)
}

// UpdateProduct handles PUT /api/v1/products/:id.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request, id string) {
	p, ok := decodeProduct(w, r)
	if !ok {
		return
	}
	username := audit.GetUsername(h.DB, r)
	updated, err := h.Products.Update(r.Context(), id, p, username)
	if err != nil {
		response.StoreErr(w, err)
		return
	}
	h.changed(r.Context(), "update", username, id, "Updated "+id+" "+updated.ProductName, &updated)
	response.JSON(w, updated)
}

// ArchiveProduct handles POST /api/v1/products/:id/archive.
func (h *Handler) ArchiveProduct(w http.ResponseWriter, r *http.Request, id string) {
	archived, err := h.Products.Archive(r.Context(), id)
	if err != nil {
		response.StoreErr(w, err)
		return
	}
	h.changed(r.Context(), "archive", audit.GetUsername(h.DB, r), id, "Archived "+id, &archived)
	response.JSON(w, archived)
}

// DeleteProduct handles DELETE /api/v1/products/:id. Products are archived;
// ?purge=true removes an unreferenced product for good.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request, id string) {
	if r.URL.Query().Get("purge") != "true" {
		h.ArchiveProduct(w, r, id)
		return
	}
	if err := h.Products.Purge(r.Context(), id); err != nil {
		response.StoreErr(w, err)
		return
	}
	h.changed(r.Context(), "purge", audit.GetUsername(h.DB, r), id, "Purged "+id, nil)
	response.JSON(w, map[string]string{"status": "deleted", "id": id})
}

// FormFields handles GET /api/v1/products/form-fields?type=CS.
func (h *Handler) FormFields(w http.ResponseWriter, r *http.Request) {
	typ := r.URL.Query().Get("type")
	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "type", typ)
	validation.ValidateEnum(ve, "type", typ, validation.ValidProductTypes)
	if ve.HasErrors() {
		response.ValidationErr(w, ve)
		return
	}
	fs := catalog.FormFields(typ)
	response.JSON(w, map[string]any{
		"type":         typ,
		"typeName":     catalog.TypeName(typ),
		"fields":       fs,
		"labels":       fs.Labels(),
		"statusColors": catalog.StatusColors(),
	})
}

// GetProductForm handles GET /api/v1/products/:id/form.
func (h *Handler) GetProductForm(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.Products.Get(r.Context(), id)
	if err != nil {
		response.StoreErr(w, err)
		return
	}
	response.JSON(w, catalog.Flatten(p))
}

type productRow struct {
	ID             string `csv:"ID"`
	Name           string `csv:"Name"`
	Type           string `csv:"Type"`
	Status         string `csv:"Status"`
	SymagPartNo    string `csv:"Symag Part No"`
	CustomerCode   string `csv:"Customer Code"`
	CustomerPartNo string `csv:"Customer Part No"`
	Material       string `csv:"Material"`
	Grade          string `csv:"Grade"`
	WireDiaMM      string `csv:"Wire Dia (mm)"`
	FreeLengthMM   string `csv:"Free Length (mm)"`
	Surface        string `csv:"Surface Treatment"`
	UpdatedAt      string `csv:"Updated"`
}

func dim(d *models.DimensionWithTolerance) string {
	if d == nil {
		return ""
	}
	return fmt.Sprintf("%g ± %g", d.ValueMM, d.ToleranceMM)
}

// ExportProducts handles GET /api/v1/products/export?format=csv|xlsx. The
// list filters apply.
func (h *Handler) ExportProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	all, err := h.all(r.Context())
	if err != nil {
		response.StoreErr(w, err)
		return
	}
	matched := catalog.Filter(all, catalog.Query{Search: q.Get("search"), Status: q.Get("status"), Type: q.Get("type")})

	rows := make([]productRow, 0, len(matched))
	for _, p := range matched {
		rows = append(rows, productRow{
			ID:             p.ID,
			Name:           p.ProductName,
			Type:           catalog.TypeName(p.ProductType),
			Status:         p.Status,
			SymagPartNo:    p.General.SymagPartNo,
			CustomerCode:   p.General.CustomerCode,
			CustomerPartNo: p.General.CustomerPartNo,
			Material:       p.MaterialAndDimensions.MaterialType,
			Grade:          p.MaterialAndDimensions.GradeSteel,
			WireDiaMM:      dim(p.MaterialAndDimensions.WireDia),
			FreeLengthMM:   dim(p.MaterialAndDimensions.FreeLength),
			Surface:        p.LoadsRatesDeflection.SurfaceTreatment,
			UpdatedAt:      p.UpdatedAt,
		})
	}
	format := q.Get("format")
	if format != "xlsx" {
		format = "csv"
	}
	audit.LogAudit(h.DB, h.Hub, audit.GetUsername(h.DB, r), audit.ActionExport, "product", "",
		fmt.Sprintf("Exported %d products as %s", len(rows), format))
	common.Export(w, format, "Products", rows)
}
