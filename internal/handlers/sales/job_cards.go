package sales

import (
	"net/http"
	"strings"

	"springworks/internal/jobcard"
	"springworks/internal/models"
	"springworks/internal/response"
)

// ListJobCards handles GET /api/v1/job-cards?salesOrderId=.
func (h *Handler) ListJobCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.Orders.JobCards(r.Context(), r.URL.Query().Get("salesOrderId"))
	if err != nil {
		response.StoreErr(w, err)
		return
	}
	response.JSON(w, cards)
}

// lookupResult is the body of a job card lookup.
type lookupResult struct {
	Result     string                 `json:"result"`
	Query      string                 `json:"query"`
	SalesOrder *models.SalesOrder     `json:"salesOrder,omitempty"`
	Item       *models.SalesOrderItem `json:"item,omitempty"`
}

// LookupJobCard handles GET /api/v1/job-cards/lookup?q=SO-0001/2. Found is
// 200, not_found 404 and invalid_format 400, each with the same body shape.
func (h *Handler) LookupJobCard(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	res, err := h.Locator.Locate(r.Context(), q)
	if err != nil {
		response.StoreErr(w, err)
		return
	}

	body := lookupResult{Result: res.Kind.String(), Query: q, SalesOrder: res.SalesOrder, Item: res.Item}
	switch res.Kind {
	case jobcard.Found:
	case jobcard.NotFound:
		w.WriteHeader(http.StatusNotFound)
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
	response.JSON(w, body)
}
