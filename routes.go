package main

import (
	"net/http"
	"path/filepath"
	"strings"

	"springworks/internal/handlers/admin"
	"springworks/internal/handlers/dashboard"
	"springworks/internal/handlers/production"
	"springworks/internal/handlers/products"
	"springworks/internal/handlers/reports"
	"springworks/internal/handlers/sales"
	"springworks/internal/response"
	"springworks/internal/server"
	"springworks/internal/websocket"
)

// handlers bundles one handler per module.
type handlers struct {
	products   *products.Handler
	sales      *sales.Handler
	production *production.Handler
	dashboard  *dashboard.Handler
	reports    *reports.Handler
	admin      *admin.Handler
	hub        *websocket.Hub
}

func newHandlers(app *server.App, limiter *server.RateLimiter) *handlers {
	return &handlers{
		products:   products.New(app.DB, app.Hub, app.Cache),
		sales:      sales.New(app.DB, app.Hub),
		production: production.New(app.DB, app.Hub),
		dashboard:  dashboard.New(app.DB),
		reports:    reports.New(app.DB, app.Config.Company.Name),
		admin:      admin.New(app.DB, app.Hub, limiter, app.Config.Server.SecureCookies),
		hub:        app.Hub,
	}
}

func methodOnly(method string, fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.Error(w, "Method not allowed", 405)
			return
		}
		fn(w, r)
	}
}

// newRouter wires every route onto a mux and wraps it in the middleware
// chain.
func newRouter(app *server.App, h *handlers, limiter *server.RateLimiter) http.Handler {
	mux := http.NewServeMux()

	static := app.Config.Server.StaticDir
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(static))))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(static, "index.html"))
	})

	mux.HandleFunc("/auth/login", methodOnly("POST", h.admin.Login))
	mux.HandleFunc("/auth/logout", methodOnly("POST", h.admin.Logout))
	mux.HandleFunc("/auth/me", methodOnly("GET", h.admin.Me))
	mux.HandleFunc("/auth/change-password", methodOnly("POST", h.admin.ChangePassword))

	mux.HandleFunc("/reports/", func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/reports/"), "/"), "/")
		if r.Method != "GET" || len(parts) != 3 {
			http.NotFound(w, r)
			return
		}
		switch parts[0] {
		case "pdi":
			h.reports.PDI(w, r, parts[1], parts[2])
		case "job-card":
			h.reports.JobCard(w, r, parts[1], parts[2])
		default:
			http.NotFound(w, r)
		}
	})

	mux.HandleFunc("/api/v1/ws", func(w http.ResponseWriter, r *http.Request) {
		websocket.HandleWebSocket(h.hub, w, r)
	})

	mux.HandleFunc("/api/v1/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api/v1/")
		path = strings.TrimSuffix(path, "/")
		parts := strings.Split(path, "/")
		n := len(parts)

		switch {
		// Dashboard
		case path == "dashboard" && r.Method == "GET":
			h.dashboard.Dashboard(w, r)

		// Products
		case path == "products" && r.Method == "GET":
			h.products.ListProducts(w, r)
		case path == "products" && r.Method == "POST":
			h.products.CreateProduct(w, r)
		case path == "products/form-fields" && r.Method == "GET":
			h.products.FormFields(w, r)
		case path == "products/export" && r.Method == "GET":
			h.products.ExportProducts(w, r)
		case parts[0] == "products" && n == 2 && r.Method == "GET":
			h.products.GetProduct(w, r, parts[1])
		case parts[0] == "products" && n == 2 && r.Method == "PUT":
			h.products.UpdateProduct(w, r, parts[1])
		case parts[0] == "products" && n == 2 && r.Method == "DELETE":
			h.products.DeleteProduct(w, r, parts[1])
		case parts[0] == "products" && n == 3 && parts[2] == "form" && r.Method == "GET":
			h.products.GetProductForm(w, r, parts[1])
		case parts[0] == "products" && n == 3 && parts[2] == "archive" && r.Method == "POST":
			h.products.ArchiveProduct(w, r, parts[1])

		// Sales orders
		case path == "sales-orders" && r.Method == "GET":
			h.sales.ListSalesOrders(w, r)
		case path == "sales-orders" && r.Method == "POST":
			h.sales.CreateSalesOrder(w, r)
		case path == "sales-orders/next-id" && r.Method == "GET":
			h.sales.NextSalesOrderID(w, r)
		case path == "sales-orders/export" && r.Method == "GET":
			h.sales.ExportSalesOrders(w, r)
		case parts[0] == "sales-orders" && n == 2 && r.Method == "GET":
			h.sales.GetSalesOrder(w, r, parts[1])
		case parts[0] == "sales-orders" && n == 2 && r.Method == "PUT":
			h.sales.UpdateSalesOrder(w, r, parts[1])
		case parts[0] == "sales-orders" && n == 2 && r.Method == "DELETE":
			h.sales.DeleteSalesOrder(w, r, parts[1])
		case parts[0] == "sales-orders" && n == 3 && parts[2] == "items" && r.Method == "POST":
			h.sales.AddSalesOrderItem(w, r, parts[1])
		case parts[0] == "sales-orders" && n == 3 && parts[2] == "status" && r.Method == "POST":
			h.sales.SetSalesOrderStatus(w, r, parts[1])
		case parts[0] == "sales-orders" && n == 3 && parts[2] == "generate-orders" && r.Method == "POST":
			h.production.GenerateOrders(w, r, parts[1])

		// Job cards
		case path == "job-cards" && r.Method == "GET":
			h.sales.ListJobCards(w, r)
		case path == "job-cards/lookup" && r.Method == "GET":
			h.sales.LookupJobCard(w, r)

		// Production orders
		case path == "orders" && r.Method == "GET":
			h.production.ListOrders(w, r)
		case path == "orders" && r.Method == "POST":
			h.production.CreateOrder(w, r)
		case path == "orders/summary" && r.Method == "GET":
			h.production.OrderSummary(w, r)
		case parts[0] == "orders" && n == 2 && r.Method == "GET":
			h.production.GetOrder(w, r, parts[1])
		case parts[0] == "orders" && n == 3 && parts[2] == "status" && r.Method == "PUT":
			h.production.UpdateOrderStatus(w, r, parts[1])
		case path == "production-job-cards" && r.Method == "GET":
			h.production.ListProductionJobCards(w, r)
		case parts[0] == "production-job-cards" && n == 2 && r.Method == "GET":
			h.production.GetProductionJobCard(w, r, parts[1])
		case parts[0] == "production-job-cards" && n == 3 && parts[2] == "status" && r.Method == "PUT":
			h.production.UpdateProductionJobCardStatus(w, r, parts[1])

		// Users & audit
		case path == "users" && r.Method == "GET":
			h.admin.ListUsers(w, r)
		case path == "users" && r.Method == "POST":
			h.admin.CreateUser(w, r)
		case parts[0] == "users" && n == 2 && r.Method == "PUT":
			h.admin.UpdateUser(w, r, parts[1])
		case parts[0] == "users" && n == 2 && r.Method == "DELETE":
			h.admin.DeleteUser(w, r, parts[1])
		case parts[0] == "users" && n == 3 && parts[2] == "toggle-active" && r.Method == "POST":
			h.admin.ToggleActive(w, r, parts[1])
		case path == "audit" && r.Method == "GET":
			h.admin.ListAudit(w, r)

		default:
			response.Err(w, "not found", 404)
		}
	})

	var handler http.Handler = mux
	handler = server.RequireRole(handler)
	handler = server.RequireAuth(app.DB, app.Config.Server.SecureCookies)(handler)
	handler = server.RateLimitMiddleware(limiter)(handler)
	handler = server.GzipMiddleware(handler)
	handler = server.SecurityHeaders(handler)
	return server.LoggingMiddleware(handler)
}
