package auth

import (
	"errors"
	"regexp"
	"strings"
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// SortSpec whitelists the sortable fields of a list endpoint, mapping API
// field names to SQL columns.
type SortSpec struct {
	Columns map[string]string
	Default string
	Desc    bool
}

// SalesOrderSort lists the sortable sales order fields.
var SalesOrderSort = SortSpec{
	Columns: map[string]string{
		"createdDate":  "created_date",
		"salesOrderId": "id",
		"customerName": "customer_name",
		"totalAmount":  "total_amount",
		"status":       "status",
		"targetDate":   "completion_target_date",
		"createdAt":    "created_at",
	},
	Default: "createdDate",
	Desc:    true,
}

// OrderBy returns a safe ORDER BY clause for field and direction ("asc" or
// "desc"). An empty field or direction falls back to
// Default and Desc.
func (s SortSpec) OrderBy(field, direction string) (string, error) {
	if field == "" {
		field = s.Default
	}
	col, ok := s.Columns[field]
	if !ok || !identifierPattern.MatchString(col) {
		return "", errors.New("invalid sort field")
	}
	desc := s.Desc
	switch strings.ToLower(direction) {
	case "":
	case "asc":
		desc = false
	case "desc":
		desc = true
	default:
		return "", errors.New("invalid sort order")
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	// id breaks ties so pages are stable.
	return "ORDER BY " + col + " " + dir + ", id " + dir, nil
}

var (
	hasUpper   = regexp.MustCompile(`[A-Z]`).MatchString
	hasLower   = regexp.MustCompile(`[a-z]`).MatchString
	hasNumber  = regexp.MustCompile(`[0-9]`).MatchString
	hasSpecial = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>_\-+=]`).MatchString
)

// ValidatePasswordStrength checks password complexity.
func ValidatePasswordStrength(password string) error {
	if len(password) < 12 {
		return errors.New("password must be at least 12 characters")
	}
	checks := 0
	for _, ok := range []bool{hasUpper(password), hasLower(password), hasNumber(password), hasSpecial(password)} {
		if ok {
			checks++
		}
	}
	if checks < 3 {
		return errors.New("password must contain at least 3 of: uppercase, lowercase, numbers, special characters")
	}
	return nil
}
