package seed

import (
	"context"
	"database/sql"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"springworks/internal/auth"
	"springworks/internal/models"
	"springworks/internal/store"
)

// ErrAlreadySeeded is returned by Run when the database holds products.
var ErrAlreadySeeded = errors.New("database already contains products")

const seedUser = "System"

// Summary counts what Run wrote.
type Summary struct {
	Products    int
	SalesOrders int
	JobCards    int
	Orders      int
	Users       int
}

// Options tunes Run.
type Options struct {
	// ProductsCSV, when set, is imported after the fixture products.
	ProductsCSV io.Reader
}

// Seeder writes the fixture data set.
type Seeder struct {
	DB          *sql.DB
	Products    *store.Products
	SalesOrders *store.SalesOrders
	Orders      *store.Orders
}

func New(db *sql.DB) *Seeder {
	return &Seeder{
		DB:          db,
		Products:    &store.Products{DB: db},
		SalesOrders: &store.SalesOrders{DB: db},
		Orders:      &store.Orders{DB: db},
	}
}

// Run inserts users, products, sales orders with their job cards and the
// production orders of every started sales order.
func (s *Seeder) Run(ctx context.Context, opts Options) (Summary, error) {
	var sum Summary
	var existing int
	if err := s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&existing); err != nil {
		return sum, errors.Wrap(err, "count products")
	}
	if existing > 0 {
		return sum, ErrAlreadySeeded
	}

	n, err := s.seedUsers(ctx)
	if err != nil {
		return sum, err
	}
	sum.Users = n

	ids := make([]string, len(Products))
	for i, p := range Products {
		created, err := s.Products.Create(ctx, p, seedUser)
		if err != nil {
			return sum, errors.Wrapf(err, "seed product %s", p.General.SymagPartNo)
		}
		ids[i] = created.ID
		sum.Products++
	}

	if opts.ProductsCSV != nil {
		imported, err := ImportProducts(ctx, s.Products, opts.ProductsCSV)
		sum.Products += imported
		if err != nil {
			return sum, err
		}
	}

	for _, fo := range salesOrders {
		so := models.SalesOrder{
			CustomerID:           fo.customerID,
			CustomerName:         fo.customerName,
			CreatedDate:          fo.created,
			CompletionTargetDate: fo.target,
			Status:               fo.status,
			Remarks:              fo.remarks,
		}
		for _, l := range fo.lines {
			so.Items = append(so.Items, models.SalesOrderItem{ProductID: ids[l.product], Quantity: l.quantity, UnitPrice: l.unitPrice})
		}
		created, err := s.SalesOrders.Create(ctx, so, seedUser)
		if err != nil {
			return sum, errors.Wrapf(err, "seed sales order for %s", fo.customerName)
		}
		sum.SalesOrders++
		sum.JobCards += len(created.Items)

		n, err := s.seedOrders(ctx, created)
		if err != nil {
			return sum, err
		}
		sum.Orders += n
	}

	zap.S().Infow("seed complete", "products", sum.Products, "salesOrders", sum.SalesOrders,
		"jobCards", sum.JobCards, "orders", sum.Orders, "users", sum.Users)
	return sum, nil
}

// seedOrders releases production orders for sales orders already in
// production or completed.
func (s *Seeder) seedOrders(ctx context.Context, so models.SalesOrder) (int, error) {
	var status string
	switch so.Status {
	case models.SOCompleted:
		status = models.OrderCompleted
	case models.SOInProgress:
		status = models.OrderInProduction
	default:
		return 0, nil
	}
	orders, err := s.Orders.GenerateForSalesOrder(ctx, so.SalesOrderID)
	if err != nil {
		return 0, err
	}
	for i, o := range orders {
		if status == models.OrderInProduction && i > 0 {
			break
		}
		if _, err := s.Orders.UpdateStatus(ctx, o.ID, status); err != nil {
			return 0, err
		}
	}
	return len(orders), nil
}

// seedUsers creates the fixture users that do not exist yet.
func (s *Seeder) seedUsers(ctx context.Context) (int, error) {
	created := 0
	for _, u := range users {
		var n int
		if err := s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE username = ?", u.username).Scan(&n); err != nil {
			return created, err
		}
		if n > 0 {
			continue
		}
		hash, err := auth.HashPassword(u.password)
		if err != nil {
			return created, err
		}
		if _, err := s.DB.ExecContext(ctx,
			"INSERT INTO users (username, password_hash, email, role, active) VALUES (?, ?, ?, ?, 1)",
			u.username, hash, u.email, u.role); err != nil {
			return created, errors.Wrapf(err, "seed user %s", u.username)
		}
		created++
	}
	return created, nil
}
