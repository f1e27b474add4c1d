package sales

import (
	"fmt"
	"net/http"
	"time"

	"springworks/internal/audit"
	"springworks/internal/handlers/common"
	"springworks/internal/models"
	"springworks/internal/response"
	"springworks/internal/store"
	"springworks/internal/validation"
)

func validateItem(ve *validation.ValidationErrors, prefix string, it models.SalesOrderItem) {
	validation.RequireField(ve, prefix+"productId", it.ProductID)
	validation.ValidatePositiveInt(ve, prefix+"quantity", it.Quantity)
	validation.ValidateMaxQuantity(ve, prefix+"quantity", it.Quantity)
	validation.ValidateNonNegativeFloat(ve, prefix+"unitPrice", it.UnitPrice)
	validation.ValidateMaxPrice(ve, prefix+"unitPrice", it.UnitPrice)
}

// validateSalesOrder checks o and normalizes its dates in place. A missing
// created date is today.
func validateSalesOrder(o *models.SalesOrder) *validation.ValidationErrors {
	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "customerId", o.CustomerID)
	validation.RequireField(ve, "customerName", o.CustomerName)
	validation.ValidateMaxLength(ve, "customerName", o.CustomerName, 200)
	validation.ValidateMaxLength(ve, "remarks", o.Remarks, 2000)

	if o.CreatedDate == "" {
		o.CreatedDate = time.Now().Format(validation.DateLayout)
	}
	o.CreatedDate = validation.NormalizeDate(ve, "createdDate", o.CreatedDate)
	validation.RequireField(ve, "completionTargetDate", o.CompletionTargetDate)
	o.CompletionTargetDate = validation.NormalizeDate(ve, "completionTargetDate", o.CompletionTargetDate)
	if !ve.HasErrors() {
		validation.ValidateDateOrder(ve, "completionTargetDate", o.CreatedDate, o.CompletionTargetDate)
	}
	validation.ValidateEnum(ve, "status", o.Status, validation.ValidSalesOrderStatuses)

	if len(o.Items) == 0 {
		ve.Add("items", "at least one item is required")
	}
	for i, it := range o.Items {
		validateItem(ve, fmt.Sprintf("items[%d].", i), it)
	}
	return ve
}

func decodeSalesOrder(w http.ResponseWriter, r *http.Request) (models.SalesOrder, bool) {
	var o models.SalesOrder
	if err := response.DecodeBody(r, &o); err != nil {
		response.Err(w, "invalid body", 400)
		return o, false
	}
	if ve := validateSalesOrder(&o); ve.HasErrors() {
		response.ValidationErr(w, ve)
		return o, false
	}
	return o, true
}

// ListSalesOrders handles GET /api/v1/sales-orders.
func (h *Handler) ListSalesOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	orders, err := h.Orders.List(r.Context(), store.SalesOrderQuery{
		Search: q.Get("search"),
		Status: q.Get("status"),
		Sort:   q.Get("sort"),
		Order:  q.Get("order"),
	})
	if err != nil {
		response.StoreErr(w, err)
		return
	}
	response.JSONMeta(w, orders, models.Meta{Total: len(orders)})
}

// NextSalesOrderID handles GET /api/v1/sales-orders/next-id.
func (h *Handler) NextSalesOrderID(w http.ResponseWriter, r *http.Request) {
	id, err := h.Orders.NextID(r.Context())
	if err != nil {
		response.StoreErr(w, err)
		return
	}
	response.JSON(w, map[string]string{"salesOrderId": id})
}

// GetSalesOrder handles GET /api/v1/sales-orders/:id.
func (h *Handler) GetSalesOrder(w http.ResponseWriter, r *http.Request, id string) {
	o, err := h.Orders.Get(r.Context(), id)
	if err != nil {
		response.StoreErr(w, err)
		return
	}
	response.JSON(w, o)
}

// CreateSalesOrder handles POST /api/v1/sales-orders.
func (h *Handler) CreateSalesOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := decodeSalesOrder(w, r)
	if !ok {
		return
	}
	username := audit.GetUsername(h.DB, r)
	created, err := h.Orders.Create(r.Context(), o, username)
	if err != nil {
		response.StoreErr(w, err)
		return
	}
	audit.LogRequest(h.DB, h.Hub, r, audit.ActionCreate, "sales_order", created.SalesOrderID,
		"Created "+store.Describe(created), nil, created)
	h.broadcast("create", created.SalesOrderID, created)
	response.Created(w, created)
}

// UpdateSalesOrder handles PUT /api/v1/sales-orders/:id.
func (h *Handler) UpdateSalesOrder(w http.ResponseWriter, r *http.Request, id string) {
	o, ok := decodeSalesOrder(w, r)
	if !ok {
		return
	}
	before, err := h.Orders.Get(r.Context(), id)
	if err != nil {
		response.StoreErr(w, err)
		return
	}
	updated, err := h.Orders.Update(r.Context(), id, o)
	if err != nil {
		response.StoreErr(w, err)
		return
	}
	audit.LogRequest(h.DB, h.Hub, r, audit.ActionUpdate, "sales_order", id,
		"Updated "+store.Describe(updated), before, updated)
	h.broadcast("update", id, updated)
	response.JSON(w, updated)
}

// AddSalesOrderItem handles POST /api/v1/sales-orders/:id/items.
func (h *Handler) AddSalesOrderItem(w http.ResponseWriter, r *http.Request, id string) {
	var it models.SalesOrderItem
	if err := response.DecodeBody(r, &it); err != nil {
		response.Err(w, "invalid body", 400)
		return
	}
	ve := &validation.ValidationErrors{}
	validateItem(ve, "", it)
	if ve.HasErrors() {
		response.ValidationErr(w, ve)
		return
	}
	added, err := h.Orders.AddItem(r.Context(), id, it)
	if err != nil {
		response.StoreErr(w, err)
		return
	}
	audit.LogAudit(h.DB, h.Hub, audit.GetUsername(h.DB, r), audit.ActionUpdate, "sales_order", id,
		fmt.Sprintf("Added item %s (%s x%d)", added.JobCardNumber, added.ProductID, added.Quantity))
	if so, err := h.Orders.Get(r.Context(), id); err == nil {
		h.broadcast("update", id, so)
	}
	response.Created(w, added)
}

// SetSalesOrderStatus handles POST /api/v1/sales-orders/:id/status.
func (h *Handler) SetSalesOrderStatus(w http.ResponseWriter, r *http.Request, id string) {
	var body struct {
		Status string `json:"status"`
	}
	if err := response.DecodeBody(r, &body); err != nil {
		response.Err(w, "invalid body", 400)
		return
	}
	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "status", body.Status)
	validation.ValidateEnum(ve, "status", body.Status, validation.ValidSalesOrderStatuses)
	if ve.HasErrors() {
		response.ValidationErr(w, ve)
		return
	}
	if err := h.Orders.SetStatus(r.Context(), id, body.Status); err != nil {
		response.StoreErr(w, err)
		return
	}
	so, err := h.Orders.Get(r.Context(), id)
	if err != nil {
		response.StoreErr(w, err)
		return
	}
	audit.LogAudit(h.DB, h.Hub, audit.GetUsername(h.DB, r), audit.ActionUpdate, "sales_order", id,
		"Status of "+id+" set to "+body.Status)
	h.broadcast("update", id, so)
	response.JSON(w, so)
}

// DeleteSalesOrder handles DELETE /api/v1/sales-orders/:id.
func (h *Handler) DeleteSalesOrder(w http.ResponseWriter, r *http.Request, id string) {
	before, err := h.Orders.Get(r.Context(), id)
	if err != nil {
		response.StoreErr(w, err)
		return
	}
	if err := h.Orders.Delete(r.Context(), id); err != nil {
		response.StoreErr(w, err)
		return
	}
	audit.LogRequest(h.DB, h.Hub, r, audit.ActionDelete, "sales_order", id,
		"Deleted "+store.Describe(before), before, nil)
	h.broadcast("delete", id, nil)
	response.JSON(w, map[string]string{"status": "deleted", "id": id})
}

type salesOrderRow struct {
	ID            string  `csv:"Sales Order"`
	CustomerID    string  `csv:"Customer ID"`
	CustomerName  string  `csv:"Customer"`
	CreatedDate   string  `csv:"Created"`
	TargetDate    string  `csv:"Target Date"`
	Status        string  `csv:"Status"`
	JobCardNumber string  `csv:"Job Card"`
	ProductID     string  `csv:"Product ID"`
	ProductName   string  `csv:"Product"`
	Quantity      int     `csv:"Qty"`
	UnitPrice     float64 `csv:"Unit Price"`
	LineTotal     float64 `csv:"Line Total"`
	OrderTotal    float64 `csv:"Order Total"`
}

// ExportSalesOrders handles GET /api/v1/sales-orders/export?format=csv|xlsx,
// one row per line item.
func (h *Handler) ExportSalesOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	orders, err := h.Orders.List(r.Context(), store.SalesOrderQuery{Search: q.Get("search"), Status: q.Get("status")})
	if err != nil {
		response.StoreErr(w, err)
		return
	}
	var rows []salesOrderRow
	for _, o := range orders {
		for _, it := range o.Items {
			rows = append(rows, salesOrderRow{
				ID:            o.SalesOrderID,
				CustomerID:    o.CustomerID,
				CustomerName:  o.CustomerName,
				CreatedDate:   o.CreatedDate,
				TargetDate:    o.CompletionTargetDate,
				Status:        o.Status,
				JobCardNumber: it.JobCardNumber,
				ProductID:     it.ProductID,
				ProductName:   it.ProductName,
				Quantity:      it.Quantity,
				UnitPrice:     it.UnitPrice,
				LineTotal:     it.TotalPrice,
				OrderTotal:    o.TotalAmount,
			})
		}
	}
	if rows == nil {
		rows = []salesOrderRow{}
	}
	format := q.Get("format")
	if format != "xlsx" {
		format = "csv"
	}
	audit.LogAudit(h.DB, h.Hub, audit.GetUsername(h.DB, r), audit.ActionExport, "sales_order", "",
		fmt.Sprintf("Exported %d sales orders as %s", len(orders), format))
	common.Export(w, format, "SalesOrders", rows)
}
