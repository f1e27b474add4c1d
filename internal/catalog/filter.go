package catalog

import (
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"golang.org/x/text/cases"

	"springworks/internal/models"
)

// DefaultPageSize is used when a list request gives no page size.
const DefaultPageSize = 10

// Query selects products from a list. Empty fields match everything.
type Query struct {
	Search string
	Status string
	Type   string
}

// Filter returns the products matching every predicate of q, in input
// order. Search is a case-insensitive substring match against the product
// name, the Symag part number and the customer part number.
func Filter(products []models.Product, q Query) []models.Product {
	fold := cases.Fold()
	term := fold.String(strings.TrimSpace(q.Search))

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if q.Status != "" && p.Status != q.Status {
			continue
		}
		if q.Type != "" && p.ProductType != q.Type {
			continue
		}
		if term != "" &&
			!strings.Contains(fold.String(p.ProductName), term) &&
			!strings.Contains(fold.String(p.General.SymagPartNo), term) &&
			!strings.Contains(fold.String(p.General.CustomerPartNo), term) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Paginate returns the requested 1-based page of items and its metadata.
// A page past the end is empty.
func Paginate[T any](items []T, page, size int) ([]T, models.Meta) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	total := len(items)
	meta := models.Meta{
		Total:      total,
		Page:       page,
		Limit:      size,
		TotalPages: (total + size - 1) / size,
	}
	start := (page - 1) * size
	if start >= total {
		return []T{}, meta
	}
	end := start + size
	if end > total {
		end = total
	}
	return items[start:end], meta
}

// Archive returns p with its status set to ARCHIVED and nothing else changed.
func Archive(p models.Product) models.Product {
	p.Status = models.ProductArchived
	return p
}

// ToInt reads v as a base-10 integer. Leading zeros are not an octal prefix,
// so "010" is 10.
func ToInt(v any) (int, error) {
	return strconv.Atoi(strings.TrimSpace(cast.ToString(v)))
}
