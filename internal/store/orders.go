package store

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"springworks/internal/database"
	"springworks/internal/models"
)

// Orders reads and writes production orders and their production job cards.
type Orders struct {
	DB *sql.DB
}

// OrderFilter narrows List. Date bounds are inclusive YYYY-MM-DD days.
type OrderFilter struct {
	Status        string
	OrderID       string
	SalesOrderID  string
	JobCardID     string
	CreatedFrom   string
	CreatedTo     string
	CompletedFrom string
	CompletedTo   string
}

const orderColumns = `id, sales_order_id, item_serial_no, item_details, job_card_id, quantity, created_date,
	completion_date, status, COALESCE(assigned_to,''), COALESCE(remarks,'')`

func scanOrder(row interface{ Scan(...any) error }) (models.Order, error) {
	var o models.Order
	var details, completion sql.NullString
	err := row.Scan(&o.ID, &o.SalesOrderID, &o.ItemSerialNo, &details, &o.JobCardID, &o.Quantity,
		&o.CreatedDate, &completion, &o.Status, &o.AssignedTo, &o.Remarks)
	if err != nil {
		return o, err
	}
	o.CompletionDate = nullable(completion)
	if details.Valid && details.String != "null" {
		o.ItemDetails = &models.Product{}
		if err := unmarshal(details, o.ItemDetails); err != nil {
			return o, errors.Wrapf(err, "order %s details", o.ID)
		}
	}
	return o, nil
}

// List returns the orders matching f, newest first.
func (s *Orders) List(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	var conds []string
	var args []any
	add := func(cond string, v string) {
		if v != "" {
			conds = append(conds, cond)
			args = append(args, v)
		}
	}
	add("status = ?", f.Status)
	add("id = ?", f.OrderID)
	add("sales_order_id = ?", f.SalesOrderID)
	add("job_card_id = ?", f.JobCardID)
	add("substr(created_date, 1, 10) >= ?", f.CreatedFrom)
	add("substr(created_date, 1, 10) <= ?", f.CreatedTo)
	add("substr(completion_date, 1, 10) >= ?", f.CompletedFrom)
	add("substr(completion_date, 1, 10) <= ?", f.CompletedTo)

	query := "SELECT " + orderColumns + " FROM orders"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_date DESC, rowid DESC"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	defer rows.Close()
	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan order")
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// Get returns one order or ErrNotFound.
func (s *Orders) Get(ctx context.Context, id string) (models.Order, error) {
	o, err := scanOrder(s.DB.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return o, errors.Wrapf(ErrNotFound, "order %s", id)
	}
	if err != nil {
		return o, errors.Wrapf(err, "get order %s", id)
	}
	return o, nil
}

func insertOrder(ctx context.Context, tx *sql.Tx, o *models.Order) error {
	n, err := database.NextSeq(ctx, tx, database.SeqOrder)
	if err != nil {
		return err
	}
	jc, err := database.NextSeq(ctx, tx, database.SeqProductionJobCard)
	if err != nil {
		return err
	}
	o.ID = database.FormatOrderID(n)
	o.JobCardID = database.FormatProductionJobCardID(jc)
	o.CreatedDate = database.Now()
	o.Status = models.OrderPending
	o.CompletionDate = nil

	_, err = tx.ExecContext(ctx, `INSERT INTO orders
		(id, sales_order_id, item_serial_no, item_details, job_card_id, quantity, created_date, status, assigned_to, remarks)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.SalesOrderID, o.ItemSerialNo, marshal(o.ItemDetails), o.JobCardID, o.Quantity,
		o.CreatedDate, o.Status, o.AssignedTo, o.Remarks)
	if err != nil {
		return errors.Wrapf(err, "insert order %s", o.ID)
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO production_job_cards
		(id, order_id, sales_order_id, part_details, quantity, created_date, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		o.JobCardID, o.ID, o.SalesOrderID, marshal(o.ItemDetails), o.Quantity, o.CreatedDate, models.JCPending)
	return errors.Wrapf(err, "insert production job card %s", o.JobCardID)
}

// Create stores o as a new PENDING order with its production job card. When
// ItemDetails is nil and productID is set, the product is snapshotted.
func (s *Orders) Create(ctx context.Context, o models.Order, productID string) (models.Order, error) {
	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		if o.ItemDetails == nil && productID != "" {
			p, err := getProduct(ctx, tx, productID)
			if err != nil {
				return err
			}
			o.ItemDetails = &p
		}
		return insertOrder(ctx, tx, &o)
	})
	if err != nil {
		return models.Order{}, errors.Wrap(err, "create order")
	}
	return o, nil
}

// GenerateForSalesOrder creates one order per item of a sales order in one
// transaction. A sales order that already has orders yields ErrConflict.
func (s *Orders) GenerateForSalesOrder(ctx context.Context, salesOrderID string) ([]models.Order, error) {
	var created []models.Order
	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		so, _, err := loadSalesOrder(ctx, tx, salesOrderID)
		if err != nil {
			return err
		}
		var existing int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders WHERE sales_order_id = ?", salesOrderID).Scan(&existing); err != nil {
			return err
		}
		if existing > 0 {
			return errors.Wrapf(ErrConflict, "orders already generated for %s", salesOrderID)
		}
		if len(so.Items) == 0 {
			return errors.Wrapf(ErrInvalid, "sales order %s has no items", salesOrderID)
		}
		for _, it := range so.Items {
			var details *models.Product
			p, err := getProduct(ctx, tx, it.ProductID)
			if err == nil {
				details = &p
			} else if !errors.Is(err, ErrNotFound) {
				return err
			}
			o := models.Order{
				SalesOrderID: salesOrderID,
				ItemSerialNo: it.ItemSerialNo,
				ItemDetails:  details,
				Quantity:     it.Quantity,
			}
			if err := insertOrder(ctx, tx, &o); err != nil {
				return err
			}
			created = append(created, o)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "generate orders for %s", salesOrderID)
	}
	return created, nil
}

// jobCardStatusFor maps an order status to the status its job card mirrors.
func jobCardStatusFor(orderStatus string) string {
	switch orderStatus {
	case models.OrderInProduction:
		return models.JCInProgress
	case models.OrderCompleted:
		return models.JCCompleted
	case models.OrderCancelled:
		return models.JCCancelled
	default:
		return models.JCPending
	}
}

// UpdateStatus changes the status of order id and mirrors it onto its
// production job card. COMPLETED stamps the completion date; IN_PRODUCTION
// stamps the job card start date once.
func (s *Orders) UpdateStatus(ctx context.Context, id, status string) (models.Order, error) {
	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		now := database.Now()
		var completion any
		if status == models.OrderCompleted {
			completion = now
		}
		res, err := tx.ExecContext(ctx, "UPDATE orders SET status = ?, completion_date = ? WHERE id = ?", status, completion, id)
		if err != nil {
			return errors.Wrapf(err, "update order %s", id)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errors.Wrapf(ErrNotFound, "order %s", id)
		}
		_, err = tx.ExecContext(ctx, `UPDATE production_job_cards SET status = ?,
			start_date = CASE WHEN ? = 'IN_PROGRESS' AND start_date IS NULL THEN ? ELSE start_date END,
			completion_date = ?
			WHERE order_id = ?`, jobCardStatusFor(status), jobCardStatusFor(status), now, completion, id)
		return errors.Wrapf(err, "mirror job card of %s", id)
	})
	if err != nil {
		return models.Order{}, err
	}
	return s.Get(ctx, id)
}

const productionJobCardColumns = `id, order_id, sales_order_id, part_details, quantity, created_date,
	start_date, completion_date, status, COALESCE(notes,'')`

func scanProductionJobCard(row interface{ Scan(...any) error }) (models.ProductionJobCard, error) {
	var jc models.ProductionJobCard
	var details, start, completion sql.NullString
	err := row.Scan(&jc.ID, &jc.OrderID, &jc.SalesOrderID, &details, &jc.Quantity, &jc.CreatedDate,
		&start, &completion, &jc.Status, &jc.Notes)
	if err != nil {
		return jc, err
	}
	jc.StartDate = nullable(start)
	jc.CompletionDate = nullable(completion)
	if details.Valid && details.String != "null" {
		jc.PartDetails = &models.Product{}
		if err := unmarshal(details, jc.PartDetails); err != nil {
			return jc, errors.Wrapf(err, "job card %s details", jc.ID)
		}
	}
	return jc, nil
}

// ProductionJobCards lists production job cards, optionally by status.
func (s *Orders) ProductionJobCards(ctx context.Context, status string) ([]models.ProductionJobCard, error) {
	query := "SELECT " + productionJobCardColumns + " FROM production_job_cards"
	var args []any
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_date DESC, rowid DESC"
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list production job cards")
	}
	defer rows.Close()
	cards := []models.ProductionJobCard{}
	for rows.Next() {
		jc, err := scanProductionJobCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, jc)
	}
	return cards, rows.Err()
}

// ProductionJobCard returns one production job card or ErrNotFound.
func (s *Orders) ProductionJobCard(ctx context.Context, id string) (models.ProductionJobCard, error) {
	jc, err := scanProductionJobCard(s.DB.QueryRowContext(ctx,
		"SELECT "+productionJobCardColumns+" FROM production_job_cards WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return jc, errors.Wrapf(ErrNotFound, "production job card %s", id)
	}
	if err != nil {
		return jc, errors.Wrapf(err, "get production job card %s", id)
	}
	return jc, nil
}

// UpdateJobCardStatus changes a production job card's status and, when notes
// is non-empty, its notes. IN_PROGRESS stamps the start date once and
// COMPLETED stamps the completion date.
func (s *Orders) UpdateJobCardStatus(ctx context.Context, id, status, notes string) (models.ProductionJobCard, error) {
	now := database.Now()
	var completion any
	if status == models.JCCompleted {
		completion = now
	}
	res, err := s.DB.ExecContext(ctx, `UPDATE production_job_cards SET status = ?,
		start_date = CASE WHEN ? = 'IN_PROGRESS' AND start_date IS NULL THEN ? ELSE start_date END,
		completion_date = ?,
		notes = CASE WHEN ? = '' THEN notes ELSE ? END
		WHERE id = ?`, status, status, now, completion, notes, notes, id)
	if err != nil {
		return models.ProductionJobCard{}, errors.Wrapf(err, "update production job card %s", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ProductionJobCard{}, errors.Wrapf(ErrNotFound, "production job card %s", id)
	}
	return s.ProductionJobCard(ctx, id)
}

// Summary aggregates all orders for the production dashboard. Completion
// times are in days between creation and completion.
func (s *Orders) Summary(ctx context.Context) (models.OrderSummary, error) {
	orders, err := s.List(ctx, OrderFilter{})
	if err != nil {
		return models.OrderSummary{}, err
	}
	return Summarize(orders), nil
}

// Summarize computes an OrderSummary from orders.
func Summarize(orders []models.Order) models.OrderSummary {
	sum := models.OrderSummary{TotalOrders: len(orders)}
	byStatus := map[string]int{}
	byType := map[string]int{}
	byMonth := map[string]int{}
	var durations stats.Float64Data

	for _, o := range orders {
		byStatus[o.Status]++
		switch o.Status {
		case models.OrderCompleted:
			sum.CompletedOrders++
		case models.OrderPending:
			sum.PendingOrders++
		case models.OrderInProduction:
			sum.InProductionOrders++
		case models.OrderCancelled:
			sum.CancelledOrders++
		}
		if o.ItemDetails != nil && o.ItemDetails.ProductType != "" {
			byType[o.ItemDetails.ProductType]++
		}
		created, err := dateparse.ParseIn(o.CreatedDate, time.UTC)
		if err != nil {
			continue
		}
		byMonth[created.Format("2006-01")]++
		if o.Status == models.OrderCompleted && o.CompletionDate != nil {
			if done, err := dateparse.ParseIn(*o.CompletionDate, time.UTC); err == nil && !done.Before(created) {
				durations = append(durations, done.Sub(created).Hours()/24)
			}
		}
	}

	sum.OrdersByStatus = []models.StatusCount{}
	for _, st := range []string{models.OrderPending, models.OrderInProduction, models.OrderCompleted, models.OrderCancelled} {
		sum.OrdersByStatus = append(sum.OrdersByStatus, models.StatusCount{Status: st, Count: byStatus[st]})
	}
	sum.OrdersByProductType = []models.TypeCount{}
	for t, n := range byType {
		sum.OrdersByProductType = append(sum.OrdersByProductType, models.TypeCount{ProductType: t, Count: n})
	}
	sort.Slice(sum.OrdersByProductType, func(i, j int) bool {
		return sum.OrdersByProductType[i].ProductType < sum.OrdersByProductType[j].ProductType
	})
	sum.MonthlyOrderData = []models.MonthCount{}
	for m, n := range byMonth {
		sum.MonthlyOrderData = append(sum.MonthlyOrderData, models.MonthCount{Month: m, Count: n})
	}
	sort.Slice(sum.MonthlyOrderData, func(i, j int) bool {
		return sum.MonthlyOrderData[i].Month < sum.MonthlyOrderData[j].Month
	})

	if len(durations) > 0 {
		mean, _ := stats.Mean(durations)
		median, _ := stats.Median(durations)
		sum.AverageCompletionTime, _ = stats.Round(mean, 1)
		sum.MedianCompletionTime, _ = stats.Round(median, 1)
	}
	return sum
}
