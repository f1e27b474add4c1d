package dashboard

import (
	"database/sql"
	"net/http"

	"golang.org/x/sync/errgroup"

	"springworks/internal/models"
	"springworks/internal/response"
	"springworks/internal/store"
)

// Handler serves the landing page summary.
type Handler struct {
	Products    *store.Products
	SalesOrders *store.SalesOrders
	Orders      *store.Orders
}

func New(db *sql.DB) *Handler {
	return &Handler{
		Products:    &store.Products{DB: db},
		SalesOrders: &store.SalesOrders{DB: db},
		Orders:      &store.Orders{DB: db},
	}
}

// Summary is the body of GET /api/v1/dashboard.
type Summary struct {
	Products    map[string]int      `json:"products"`
	SalesOrders map[string]int      `json:"salesOrders"`
	Orders      models.OrderSummary `json:"orders"`
}

// Dashboard handles GET /api/v1/dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	var sum Summary
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		sum.Products, err = h.Products.CountByStatus(ctx)
		return err
	})
	g.Go(func() (err error) {
		sum.SalesOrders, err = h.SalesOrders.CountByStatus(ctx)
		return err
	})
	g.Go(func() (err error) {
		sum.Orders, err = h.Orders.Summary(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		response.StoreErr(w, err)
		return
	}
	response.JSON(w, sum)
}
