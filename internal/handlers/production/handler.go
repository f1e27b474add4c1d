package production

import (
	"database/sql"

	"springworks/internal/store"
	"springworks/internal/websocket"
)

// Handler holds dependencies for production order and production job card
// handlers.
type Handler struct {
	DB     *sql.DB
	Hub    *websocket.Hub
	Orders *store.Orders
}

// New builds a Handler over db.
func New(db *sql.DB, hub *websocket.Hub) *Handler {
	return &Handler{DB: db, Hub: hub, Orders: &store.Orders{DB: db}}
}

func (h *Handler) broadcast(action, id string, data any) {
	if h.Hub != nil {
		h.Hub.BroadcastChange(websocket.TopicOrders, action, id, data)
	}
}
