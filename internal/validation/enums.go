package validation

// Common enum values - these MUST match DB CHECK constraints in database package.
var (
	ValidProductTypes       = []string{"CS", "CCS", "ES", "TS", "DTS", "WF", "PP"}
	ValidProductStatuses    = []string{"ACTIVE", "INACTIVE", "ARCHIVED"}
	ValidHelix              = []string{"RHS", "LHS"}
	ValidSurfaceTreatments  = []string{"Zinc", "Nickle", "Powder Coating", "EP"}
	ValidSalesOrderStatuses = []string{"DRAFT", "CONFIRMED", "IN_PROGRESS", "COMPLETED", "CANCELLED"}
	ValidOrderStatuses      = []string{"PENDING", "IN_PRODUCTION", "COMPLETED", "CANCELLED"}
	ValidJobCardStatuses    = []string{"PENDING", "IN_PROGRESS", "COMPLETED", "ON_HOLD", "CANCELLED"}
	ValidRoles              = []string{"admin", "user"}
)
