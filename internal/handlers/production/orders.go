package production

import (
	"fmt"
	"net/http"

	"springworks/internal/audit"
	"springworks/internal/models"
	"springworks/internal/response"
	"springworks/internal/store"
	"springworks/internal/validation"
)

// ListOrders handles GET /api/v1/orders.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ve := &validation.ValidationErrors{}
	f := store.OrderFilter{
		Status:        q.Get("status"),
		OrderID:       q.Get("orderId"),
		SalesOrderID:  q.Get("salesOrderId"),
		JobCardID:     q.Get("jobCardId"),
		CreatedFrom:   validation.NormalizeDate(ve, "createdFrom", q.Get("createdFrom")),
		CreatedTo:     validation.NormalizeDate(ve, "createdTo", q.Get("createdTo")),
		CompletedFrom: validation.NormalizeDate(ve, "completedFrom", q.Get("completedFrom")),
		CompletedTo:   validation.NormalizeDate(ve, "completedTo", q.Get("completedTo")),
	}
	validation.ValidateEnum(ve, "status", f.Status, validation.ValidOrderStatuses)
	if ve.HasErrors() {
		response.ValidationErr(w, ve)
		return
	}
	orders, err := h.Orders.List(r.Context(), f)
	if err != nil {
		response.StoreErr(w, err)
		return
	}
	response.JSONMeta(w, orders, models.Meta{Total: len(orders)})
}

// GetOrder handles GET /api/v1/orders/:id.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request, id string) {
	o, err := h.Orders.Get(r.Context(), id)
	if err != nil {
		response.StoreErr(w, err)
		return
	}
	response.JSON(w, o)
}

type orderInput struct {
	models.Order
	ProductID string `json:"productId"`
}

// CreateOrder handles POST /api/v1/orders. The part is given either as
// itemDetails or as a productId to snapshot.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var in orderInput
	if err := response.DecodeBody(r, &in); err != nil {
		response.Err(w, "invalid body", 400)
		return
	}
	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "salesOrderId", in.SalesOrderID)
	validation.ValidatePositiveInt(ve, "quantity", in.Quantity)
	validation.ValidateMaxQuantity(ve, "quantity", in.Quantity)
	if in.ItemDetails == nil && in.ProductID == "" {
		ve.Add("productId", "productId or itemDetails is required")
	}
	if ve.HasErrors() {
		response.ValidationErr(w, ve)
		return
	}

	o, err := h.Orders.Create(r.Context(), in.Order, in.ProductID)
	if err != nil {
		response.StoreErr(w, err)
		return
	}
	audit.LogAudit(h.DB, h.Hub, audit.GetUsername(h.DB, r), audit.ActionCreate, "order", o.ID,
		fmt.Sprintf("Created %s (%s) for %s, qty %d", o.ID, o.JobCardID, o.SalesOrderID, o.Quantity))
	h.broadcast("create", o.ID, o)
	response.Created(w, o)
}

// UpdateOrderStatus handles PUT /api/v1/orders/:id/status.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request, id string) {
	var body struct {
		Status string `json:"status"`
	}
	if err := response.DecodeBody(r, &body); err != nil {
		response.Err(w, "invalid body", 400)
		return
	}
	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "status", body.Status)
	validation.ValidateEnum(ve, "status", body.Status, validation.ValidOrderStatuses)
	if ve.HasErrors() {
		response.ValidationErr(w, ve)
		return
	}
	o, err := h.Orders.UpdateStatus(r.Context(), id, body.Status)
	if err != nil {
		response.StoreErr(w, err)
		return
	}
	audit.LogAudit(h.DB, h.Hub, audit.GetUsername(h.DB, r), audit.ActionUpdate, "order", id,
		"Status of "+id+" set to "+body.Status)
	h.broadcast("update", id, o)
	response.JSON(w, o)
}

// GenerateOrders handles POST /api/v1/sales-orders/:id/generate-orders.
func (h *Handler) GenerateOrders(w http.ResponseWriter, r *http.Request, salesOrderID string) {
	orders, err := h.Orders.GenerateForSalesOrder(r.Context(), salesOrderID)
	if err != nil {
		response.StoreErr(w, err)
		return
	}
	audit.LogAudit(h.DB, h.Hub, audit.GetUsername(h.DB, r), audit.ActionCreate, "order", salesOrderID,
		fmt.Sprintf("Generated %d orders for %s", len(orders), salesOrderID))
	for _, o := range orders {
		h.broadcast("create", o.ID, o)
	}
	response.Created(w, orders)
}

// OrderSummary handles GET /api/v1/orders/summary.
func (h *Handler) OrderSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.Orders.Summary(r.Context())
	if err != nil {
		response.StoreErr(w, err)
		return
	}
	response.JSON(w, sum)
}
