package sales

import (
	"database/sql"

	"springworks/internal/jobcard"
	"springworks/internal/store"
	"springworks/internal/websocket"
)

// Handler holds dependencies for sales order and job card handlers.
type Handler struct {
	DB      *sql.DB
	Hub     *websocket.Hub
	Orders  *store.SalesOrders
	Locator jobcard.Locator
}

// New builds a Handler over db.
func New(db *sql.DB, hub *websocket.Hub) *Handler {
	orders := &store.SalesOrders{DB: db}
	return &Handler{DB: db, Hub: hub, Orders: orders, Locator: jobcard.Locator{Orders: orders}}
}

func (h *Handler) broadcast(action, id string, data any) {
	if h.Hub != nil {
		h.Hub.BroadcastChange(websocket.TopicSalesOrders, action, id, data)
	}
}
