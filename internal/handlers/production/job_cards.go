package production

import (
	"net/http"

	"springworks/internal/audit"
	"springworks/internal/response"
	"springworks/internal/validation"
)

// ListProductionJobCards handles GET /api/v1/production-job-cards?status=.
func (h *Handler) ListProductionJobCards(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	ve := &validation.ValidationErrors{}
	validation.ValidateEnum(ve, "status", status, validation.ValidJobCardStatuses)
	if ve.HasErrors() {
		response.ValidationErr(w, ve)
		return
	}
	cards, err := h.Orders.ProductionJobCards(r.Context(), status)
	if err != nil {
		response.StoreErr(w, err)
		return
	}
	response.JSON(w, cards)
}

// GetProductionJobCard handles GET /api/v1/production-job-cards/:id.
func (h *Handler) GetProductionJobCard(w http.ResponseWriter, r *http.Request, id string) {
	jc, err := h.Orders.ProductionJobCard(r.Context(), id)
	if err != nil {
		response.StoreErr(w, err)
		return
	}
	response.JSON(w, jc)
}

// UpdateProductionJobCardStatus handles
// PUT /api/v1/production-job-cards/:id/status.
func (h *Handler) UpdateProductionJobCardStatus(w http.ResponseWriter, r *http.Request, id string) {
	var body struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := response.DecodeBody(r, &body); err != nil {
		response.Err(w, "invalid body", 400)
		return
	}
	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "status", body.Status)
	validation.ValidateEnum(ve, "status", body.Status, validation.ValidJobCardStatuses)
	validation.ValidateMaxLength(ve, "notes", body.Notes, 2000)
	if ve.HasErrors() {
		response.ValidationErr(w, ve)
		return
	}
	jc, err := h.Orders.UpdateJobCardStatus(r.Context(), id, body.Status, body.Notes)
	if err != nil {
		response.StoreErr(w, err)
		return
	}
	audit.LogAudit(h.DB, h.Hub, audit.GetUsername(h.DB, r), audit.ActionUpdate, "production_job_card", id,
		"Status of "+id+" set to "+body.Status)
	h.broadcast("update", jc.OrderID, jc)
	response.JSON(w, jc)
}
