package auth

import (
	"strings"

	"springworks/internal/models"
)

// Permission modules correspond to major feature areas.
const (
	ModuleProducts    = "products"
	ModuleSalesOrders = "sales_orders"
	ModuleJobCards    = "job_cards"
	ModuleOrders      = "orders"
	ModuleReports     = "reports"
	ModuleAdmin       = "admin"
)

// Permission actions.
const (
	PermActionView   = "view"
	PermActionCreate = "create"
	PermActionEdit   = "edit"
	PermActionDelete = "delete"
	PermActionPurge  = "purge"
)

// MapAPIPathToPermission maps an API path (without the /api/v1/ prefix)
// and method to (module, action). Unknown paths map to empty strings.
func MapAPIPathToPermission(apiPath, method string) (module, action string) {
	parts := strings.Split(strings.Trim(apiPath, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return "", ""
	}

	switch method {
	case "GET":
		action = PermActionView
	case "POST":
		action = PermActionCreate
	case "PUT", "PATCH":
		action = PermActionEdit
	case "DELETE":
		action = PermActionDelete
	}

	switch parts[0] {
	case "products":
		module = ModuleProducts
	case "sales-orders":
		module = ModuleSalesOrders
	case "job-cards":
		module = ModuleJobCards
	case "orders", "production-job-cards":
		module = ModuleOrders
	case "reports":
		module = ModuleReports
	case "users", "audit":
		module = ModuleAdmin
	default:
		return "", ""
	}
	return module, action
}

// Allowed reports whether role may perform action on module. Plain users
// may do everything except administration and purging products.
func Allowed(role, module, action string) bool {
	if role == models.RoleAdmin {
		return true
	}
	if module == ModuleAdmin {
		return false
	}
	return action != PermActionPurge
}
