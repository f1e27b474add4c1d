// Package catalog holds the product catalog rules that do not touch the
// database: per-type form layouts, flattening of the nested specification
// for editing, list filtering and display colors.
package catalog

import "springworks/internal/models"

// TypeNames maps product type codes to their display names.
var TypeNames = map[string]string{
	models.TypeCompression:        "Compression Spring",
	models.TypeConicalCompression: "Conical Compression Spring",
	models.TypeExtension:          "Extension Spring",
	models.TypeTorsion:            "Torsion Spring",
	models.TypeDoubleTorsion:      "Double Torsion Spring",
	models.TypeWireForm:           "WireForm",
	models.TypePressPart:          "Press Part",
}

// TypeName returns the display name for code, or code itself if unknown.
func TypeName(code string) string {
	if n, ok := TypeNames[code]; ok {
		return n
	}
	return code
}

// StatusColor returns the badge color for a product status.
func StatusColor(status string) string {
	switch status {
	case models.ProductActive:
		return "#4CAF50"
	case models.ProductInactive:
		return "#FF9800"
	case models.ProductArchived:
		return "#F44336"
	default:
		return "#999999"
	}
}

// SalesOrderStatusColor returns the badge color for a sales order status.
func SalesOrderStatusColor(status string) string {
	switch status {
	case models.SODraft:
		return "#FFC107"
	case models.SOConfirmed:
		return "#2196F3"
	case models.SOInProgress:
		return "#FF9800"
	case models.SOCompleted:
		return "#4CAF50"
	case models.SOCancelled:
		return "#f44336"
	default:
		return "#999"
	}
}

// StatusColors maps every product status to its badge color.
func StatusColors() map[string]string {
	out := map[string]string{}
	for _, s := range []string{models.ProductActive, models.ProductInactive, models.ProductArchived} {
		out[s] = StatusColor(s)
	}
	return out
}
