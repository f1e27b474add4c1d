// Package reports renders printable HTML documents for sales order line
// items.
package reports

import (
	"database/sql"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"springworks/internal/jobcard"
	"springworks/internal/models"
	"springworks/internal/store"
)

// Handler serves /reports/.
type Handler struct {
	Orders  *store.SalesOrders
	Locator jobcard.Locator
	Company string
}

func New(db *sql.DB, company string) *Handler {
	orders := &store.SalesOrders{DB: db}
	return &Handler{Orders: orders, Locator: jobcard.Locator{Orders: orders}, Company: company}
}

// line is a located sales order item together with the product snapshot
// taken when its job card was written.
type line struct {
	Order   *models.SalesOrder
	Item    *models.SalesOrderItem
	Product *models.Product
}

// resolve locates salesOrderID/serial and writes the error response itself
// when it returns false.
func (h *Handler) resolve(w http.ResponseWriter, r *http.Request, salesOrderID, serial string) (line, bool) {
	number := salesOrderID + "/" + serial
	res, err := h.Locator.Locate(r.Context(), number)
	if err != nil {
		zap.S().Errorw("report lookup failed", "jobCard", number, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return line{}, false
	}
	switch res.Kind {
	case jobcard.InvalidFormat:
		http.Error(w, "Invalid job card number", http.StatusBadRequest)
		return line{}, false
	case jobcard.NotFound:
		http.Error(w, "Job card not found", http.StatusNotFound)
		return line{}, false
	}
	l := line{Order: res.SalesOrder, Item: res.Item}
	if jc, err := h.Orders.JobCard(r.Context(), number); err == nil {
		l.Product = jc.ProductDetails
	}
	if l.Product == nil {
		l.Product = &models.Product{ProductName: res.Item.ProductName, ProductType: res.Item.ProductType}
	}
	return l, true
}

func writeHTML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, body)
}

// esc escapes s for HTML and renders an empty value as "-".
func esc(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return html.EscapeString(s)
}

func num(v float64) string {
	return cast.ToString(v)
}

func optNum(v *float64) string {
	if v == nil {
		return "-"
	}
	return num(*v)
}

// bounds returns the lower and upper limits of d.
func bounds(d *models.DimensionWithTolerance) (string, string) {
	v := decimal.NewFromFloat(d.ValueMM)
	tol := decimal.NewFromFloat(d.ToleranceMM)
	return v.Sub(tol).String(), v.Add(tol).String()
}

func withTolerance(d *models.DimensionWithTolerance, unit string) string {
	if d == nil {
		return "-"
	}
	return fmt.Sprintf("%s ± %s %s", num(d.ValueMM), num(d.ToleranceMM), unit)
}

const pageStyle = `<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: Arial, Helvetica, sans-serif; font-size: 11pt; color: #000; padding: 0.5in; }
  h1 { font-size: 18pt; margin-bottom: 2pt; }
  h2 { font-size: 13pt; margin: 16pt 0 6pt; border-bottom: 2px solid #000; padding-bottom: 3pt; }
  table { width: 100%; border-collapse: collapse; margin-bottom: 12pt; }
  th, td { border: 1px solid #000; padding: 4pt 6pt; text-align: left; font-size: 10pt; }
  th { background: #eee; font-weight: bold; }
  .header { display: flex; justify-content: space-between; align-items: flex-start; border-bottom: 3px solid #000; padding-bottom: 8pt; margin-bottom: 12pt; }
  .header-right { text-align: right; font-size: 10pt; }
  .status { color: #fff; padding: 1pt 6pt; border-radius: 3pt; font-size: 9pt; }
  .info-grid { display: grid; grid-template-columns: 1fr 1fr; gap: 4pt 20pt; margin-bottom: 12pt; font-size: 10pt; }
  .info-grid dt { font-weight: bold; }
  .signoff td { height: 40pt; vertical-align: bottom; }
  .signoff td.label-cell { width: 120pt; font-weight: bold; }
  @media print { body { padding: 0; } @page { margin: 0.5in; } }
</style>`
