// Package jobcard derives job card numbers from sales order line items and
// resolves a typed-in job card number back to its order and item.
package jobcard

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"springworks/internal/models"
)

// Kind tags the outcome of a lookup.
type Kind int

const (
	InvalidFormat Kind = iota
	NotFound
	Found
)

func (k Kind) String() string {
	switch k {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	default:
		return "invalid_format"
	}
}

// Result is the outcome of Locate. SalesOrder and Item are set only when
// Kind is Found.
type Result struct {
	Kind       Kind
	SalesOrder *models.SalesOrder
	Item       *models.SalesOrderItem
}

// OrderFinder loads a sales order with its items by business key. It
// returns (nil, nil) when no such order exists.
type OrderFinder interface {
	FindSalesOrder(ctx context.Context, salesOrderID string) (*models.SalesOrder, error)
}

// Locator resolves job card numbers.
type Locator struct {
	Orders OrderFinder
}

// Number formats the job card number of a line item.
func Number(salesOrderID string, serial int) string {
	return fmt.Sprintf("%s/%d", salesOrderID, serial)
}

// Parse splits s into a sales order id and an item serial number. s must be
// exactly two '/'-separated segments, the first non-empty and the second
// made of ASCII digits only. s is not trimmed.
func Parse(s string) (string, int, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", 0, false
	}
	for _, c := range parts[1] {
		if c < '0' || c > '9' {
			return "", 0, false
		}
	}
	serial, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, false
	}
	return parts[0], serial, true
}

// Locate resolves s to its sales order and line item. Lookup outcomes are
// reported in the Result; only a failure to read the order is an error.
func (l Locator) Locate(ctx context.Context, s string) (Result, error) {
	soID, serial, ok := Parse(s)
	if !ok {
		return Result{Kind: InvalidFormat}, nil
	}
	so, err := l.Orders.FindSalesOrder(ctx, soID)
	if err != nil {
		return Result{}, err
	}
	if so == nil {
		return Result{Kind: NotFound}, nil
	}
	for i := range so.Items {
		if so.Items[i].ItemSerialNo == serial {
			return Result{Kind: Found, SalesOrder: so, Item: &so.Items[i]}, nil
		}
	}
	return Result{Kind: NotFound}, nil
}

// NextSerial returns the serial number the next item of items gets.
func NextSerial(items []models.SalesOrderItem) int {
	max := 0
	for _, it := range items {
		if it.ItemSerialNo > max {
			max = it.ItemSerialNo
		}
	}
	return max + 1
}

// AppendItem numbers item after the highest serial in so (or floor, when a
// removed item held a higher one) and appends it.
func AppendItem(so *models.SalesOrder, floor int, item models.SalesOrderItem) models.SalesOrderItem {
	serial := NextSerial(so.Items)
	if floor > serial {
		serial = floor
	}
	item.ItemSerialNo = serial
	item.JobCardNumber = Number(so.SalesOrderID, serial)
	so.Items = append(so.Items, item)
	return item
}

// FromItem derives the job card for one line item.
func FromItem(so *models.SalesOrder, item models.SalesOrderItem, product *models.Product) models.JobCard {
	return models.JobCard{
		JobCardNumber:        Number(so.SalesOrderID, item.ItemSerialNo),
		SalesOrderID:         so.SalesOrderID,
		ItemSerialNo:         item.ItemSerialNo,
		ProductID:            item.ProductID,
		ProductDetails:       product,
		Quantity:             item.Quantity,
		CreatedDate:          so.CreatedDate,
		CompletionTargetDate: so.CompletionTargetDate,
		CustomerName:         so.CustomerName,
		Remarks:              so.Remarks,
	}
}
