package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"springworks/internal/auth"
	"springworks/internal/database"
	"springworks/internal/jobcard"
	"springworks/internal/models"
)

// SalesOrders reads and writes sales orders together with their line items
// and derived job cards.
type SalesOrders struct {
	DB *sql.DB
}

// SalesOrderQuery filters and sorts List.
type SalesOrderQuery struct {
	Search string
	Status string
	Sort   string
	Order  string
}

// LineTotal is quantity times unit price rounded to cents.
func LineTotal(quantity int, unitPrice float64) float64 {
	return decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity))).Round(2).InexactFloat64()
}

// OrderTotal sums the line totals of items.
func OrderTotal(items []models.SalesOrderItem) float64 {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromFloat(it.TotalPrice))
	}
	return sum.Round(2).InexactFloat64()
}

const salesOrderColumns = `id, customer_id, customer_name, created_date, completion_target_date, status,
	COALESCE(remarks,''), total_amount, COALESCE(created_by,''), COALESCE(created_at,''), COALESCE(updated_at,'')`

func scanSalesOrder(row interface{ Scan(...any) error }) (models.SalesOrder, error) {
	var so models.SalesOrder
	err := row.Scan(&so.SalesOrderID, &so.CustomerID, &so.CustomerName, &so.CreatedDate,
		&so.CompletionTargetDate, &so.Status, &so.Remarks, &so.TotalAmount,
		&so.CreatedBy, &so.CreatedAt, &so.UpdatedAt)
	return so, err
}

func loadItems(ctx context.Context, q querier, salesOrderID string) ([]models.SalesOrderItem, error) {
	rows, err := q.QueryContext(ctx, `SELECT item_serial_no, product_id, product_name, product_type,
		quantity, unit_price, total_price, job_card_number
		FROM sales_order_items WHERE sales_order_id = ? ORDER BY item_serial_no`, salesOrderID)
	if err != nil {
		return nil, errors.Wrapf(err, "load items of %s", salesOrderID)
	}
	defer rows.Close()
	items := []models.SalesOrderItem{}
	for rows.Next() {
		var it models.SalesOrderItem
		if err := rows.Scan(&it.ItemSerialNo, &it.ProductID, &it.ProductName, &it.ProductType,
			&it.Quantity, &it.UnitPrice, &it.TotalPrice, &it.JobCardNumber); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// loadSalesOrder returns the order with its items and the next free serial,
// or ErrNotFound.
func loadSalesOrder(ctx context.Context, q querier, id string) (models.SalesOrder, int, error) {
	var nextSerial int
	var so models.SalesOrder
	err := q.QueryRowContext(ctx, "SELECT "+salesOrderColumns+", next_serial FROM sales_orders WHERE id = ?", id).
		Scan(&so.SalesOrderID, &so.CustomerID, &so.CustomerName, &so.CreatedDate,
			&so.CompletionTargetDate, &so.Status, &so.Remarks, &so.TotalAmount,
			&so.CreatedBy, &so.CreatedAt, &so.UpdatedAt, &nextSerial)
	if err == sql.ErrNoRows {
		return so, 0, errors.Wrapf(ErrNotFound, "sales order %s", id)
	}
	if err != nil {
		return so, 0, errors.Wrapf(err, "get sales order %s", id)
	}
	so.Items, err = loadItems(ctx, q, id)
	return so, nextSerial, err
}

// FindSalesOrder returns the order with its items, or nil when it does not
// exist.
func (s *SalesOrders) FindSalesOrder(ctx context.Context, id string) (*models.SalesOrder, error) {
	so, _, err := loadSalesOrder(ctx, s.DB, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &so, nil
}

// Get returns the order with its items or ErrNotFound.
func (s *SalesOrders) Get(ctx context.Context, id string) (models.SalesOrder, error) {
	so, _, err := loadSalesOrder(ctx, s.DB, id)
	return so, err
}

// List returns the orders matching q with their items. Search matches the
// order id or customer name, ignoring case.
func (s *SalesOrders) List(ctx context.Context, q SalesOrderQuery) ([]models.SalesOrder, error) {
	orderBy, err := auth.SalesOrderSort.OrderBy(q.Sort, q.Order)
	if err != nil {
		return nil, errors.Wrap(ErrInvalid, err.Error())
	}
	query := "SELECT " + salesOrderColumns + " FROM sales_orders"
	var args []any
	if q.Status != "" {
		query += " WHERE status = ?"
		args = append(args, q.Status)
	}
	query += " " + orderBy

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list sales orders")
	}
	orders := []models.SalesOrder{}
	for rows.Next() {
		so, err := scanSalesOrder(rows)
		if err != nil {
			rows.Close()
			return nil, errors.Wrap(err, "scan sales order")
		}
		if q.Search != "" && !containsFold(so.SalesOrderID, q.Search) && !containsFold(so.CustomerName, q.Search) {
			continue
		}
		orders = append(orders, so)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		if orders[i].Items, err = loadItems(ctx, s.DB, orders[i].SalesOrderID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// NextID previews the id the next created order receives.
func (s *SalesOrders) NextID(ctx context.Context) (string, error) {
	n, err := database.PeekSeq(ctx, s.DB, database.SeqSalesOrder)
	if err != nil {
		return "", errors.Wrap(err, "peek sales order counter")
	}
	return database.FormatSalesOrderID(n), nil
}

// priceItem fills the denormalised product fields and the line total. The
// product must exist and, unless it is the one the line already carried,
// not be archived.
func priceItem(ctx context.Context, q querier, it *models.SalesOrderItem, carried string) (models.Product, error) {
	p, err := getProduct(ctx, q, it.ProductID)
	if errors.Is(err, ErrNotFound) {
		return p, errors.Wrapf(ErrConflict, "product %s does not exist", it.ProductID)
	}
	if err != nil {
		return p, err
	}
	if p.Status == models.ProductArchived && it.ProductID != carried {
		return p, errors.Wrapf(ErrConflict, "product %s is archived", it.ProductID)
	}
	it.ProductName = p.ProductName
	it.ProductType = p.ProductType
	it.TotalPrice = LineTotal(it.Quantity, it.UnitPrice)
	return p, nil
}

func insertItem(ctx context.Context, tx *sql.Tx, so *models.SalesOrder, it models.SalesOrderItem, p models.Product) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO sales_order_items
		(sales_order_id, item_serial_no, product_id, product_name, product_type, quantity, unit_price, total_price, job_card_number)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		so.SalesOrderID, it.ItemSerialNo, it.ProductID, it.ProductName, it.ProductType,
		it.Quantity, it.UnitPrice, it.TotalPrice, it.JobCardNumber)
	if err != nil {
		return errors.Wrapf(err, "insert item %s", it.JobCardNumber)
	}
	jc := jobcard.FromItem(so, it, &p)
	_, err = tx.ExecContext(ctx, `INSERT INTO job_cards
		(job_card_number, sales_order_id, item_serial_no, product_id, product_details, quantity,
		 created_date, completion_target_date, customer_name, remarks)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		jc.JobCardNumber, jc.SalesOrderID, jc.ItemSerialNo, jc.ProductID, marshal(jc.ProductDetails),
		jc.Quantity, jc.CreatedDate, jc.CompletionTargetDate, jc.CustomerName, jc.Remarks)
	return errors.Wrapf(err, "insert job card %s", jc.JobCardNumber)
}

// Create assigns the next SO id, numbers the items 1..n and writes the
// order, its items and their job cards in one transaction.
func (s *SalesOrders) Create(ctx context.Context, so models.SalesOrder, username string) (models.SalesOrder, error) {
	if so.Status == "" {
		so.Status = models.SODraft
	}
	now := database.Now()
	so.CreatedAt, so.UpdatedAt, so.CreatedBy = now, now, username
	items := so.Items
	so.Items = nil

	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		n, err := database.NextSeq(ctx, tx, database.SeqSalesOrder)
		if err != nil {
			return err
		}
		so.SalesOrderID = database.FormatSalesOrderID(n)

		products := make([]models.Product, len(items))
		for i := range items {
			if products[i], err = priceItem(ctx, tx, &items[i], ""); err != nil {
				return err
			}
			jobcard.AppendItem(&so, 0, items[i])
		}
		so.TotalAmount = OrderTotal(so.Items)

		_, err = tx.ExecContext(ctx, `INSERT INTO sales_orders
			(id, customer_id, customer_name, created_date, completion_target_date, status, remarks, total_amount, next_serial, created_by, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			so.SalesOrderID, so.CustomerID, so.CustomerName, so.CreatedDate, so.CompletionTargetDate,
			so.Status, so.Remarks, so.TotalAmount, jobcard.NextSerial(so.Items), so.CreatedBy, so.CreatedAt, so.UpdatedAt)
		if err != nil {
			return errors.Wrap(err, "insert sales order")
		}
		for i, it := range so.Items {
			if err := insertItem(ctx, tx, &so, it, products[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.SalesOrder{}, errors.Wrap(err, "create sales order")
	}
	if so.Items == nil {
		so.Items = []models.SalesOrderItem{}
	}
	return so, nil
}

// Update replaces the header and items of order id. Items whose serial
// already exists keep it; others are numbered after the highest serial ever
// issued. Job cards are rewritten in the same transaction.
func (s *SalesOrders) Update(ctx context.Context, id string, in models.SalesOrder) (models.SalesOrder, error) {
	var so models.SalesOrder
	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		existing, nextSerial, err := loadSalesOrder(ctx, tx, id)
		if err != nil {
			return err
		}
		known := map[int]string{}
		for _, it := range existing.Items {
			known[it.ItemSerialNo] = it.ProductID
		}

		so = existing
		so.CustomerID = in.CustomerID
		so.CustomerName = in.CustomerName
		so.CreatedDate = in.CreatedDate
		so.CompletionTargetDate = in.CompletionTargetDate
		so.Remarks = in.Remarks
		if in.Status != "" {
			so.Status = in.Status
		}
		so.UpdatedAt = database.Now()
		so.Items = nil

		carried := map[int]string{}
		var kept, added []models.SalesOrderItem
		for _, it := range in.Items {
			if productID, ok := known[it.ItemSerialNo]; ok {
				delete(known, it.ItemSerialNo)
				carried[it.ItemSerialNo] = productID
				kept = append(kept, it)
			} else {
				added = append(added, it)
			}
		}
		sort.Slice(kept, func(a, b int) bool { return kept[a].ItemSerialNo < kept[b].ItemSerialNo })

		var products []models.Product
		for _, it := range kept {
			p, err := priceItem(ctx, tx, &it, carried[it.ItemSerialNo])
			if err != nil {
				return err
			}
			it.JobCardNumber = jobcard.Number(so.SalesOrderID, it.ItemSerialNo)
			so.Items = append(so.Items, it)
			products = append(products, p)
		}
		for _, it := range added {
			p, err := priceItem(ctx, tx, &it, "")
			if err != nil {
				return err
			}
			appended := jobcard.AppendItem(&so, nextSerial, it)
			nextSerial = appended.ItemSerialNo + 1
			products = append(products, p)
		}
		so.TotalAmount = OrderTotal(so.Items)

		if _, err := tx.ExecContext(ctx, "DELETE FROM job_cards WHERE sales_order_id = ?", id); err != nil {
			return errors.Wrap(err, "clear job cards")
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM sales_order_items WHERE sales_order_id = ?", id); err != nil {
			return errors.Wrap(err, "clear items")
		}
		if floor := jobcard.NextSerial(so.Items); floor > nextSerial {
			nextSerial = floor
		}
		_, err = tx.ExecContext(ctx, `UPDATE sales_orders SET customer_id = ?, customer_name = ?, created_date = ?,
			completion_target_date = ?, status = ?, remarks = ?, total_amount = ?, next_serial = ?, updated_at = ?
			WHERE id = ?`,
			so.CustomerID, so.CustomerName, so.CreatedDate, so.CompletionTargetDate, so.Status, so.Remarks,
			so.TotalAmount, nextSerial, so.UpdatedAt, id)
		if err != nil {
			return errors.Wrap(err, "update sales order")
		}
		for i, it := range so.Items {
			if err := insertItem(ctx, tx, &so, it, products[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.SalesOrder{}, errors.Wrapf(err, "update sales order %s", id)
	}
	if so.Items == nil {
		so.Items = []models.SalesOrderItem{}
	}
	return so, nil
}

// AddItem appends one line to order id with the next serial and writes its
// job card.
func (s *SalesOrders) AddItem(ctx context.Context, id string, item models.SalesOrderItem) (models.SalesOrderItem, error) {
	var added models.SalesOrderItem
	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		so, nextSerial, err := loadSalesOrder(ctx, tx, id)
		if err != nil {
			return err
		}
		p, err := priceItem(ctx, tx, &item, "")
		if err != nil {
			return err
		}
		added = jobcard.AppendItem(&so, nextSerial, item)
		if err := insertItem(ctx, tx, &so, added, p); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			"UPDATE sales_orders SET total_amount = ?, next_serial = ?, updated_at = ? WHERE id = ?",
			OrderTotal(so.Items), added.ItemSerialNo+1, database.Now(), id)
		return errors.Wrap(err, "update sales order totals")
	})
	if err != nil {
		return models.SalesOrderItem{}, errors.Wrapf(err, "add item to %s", id)
	}
	return added, nil
}

// SetStatus changes the status of order id.
func (s *SalesOrders) SetStatus(ctx context.Context, id, status string) error {
	res, err := s.DB.ExecContext(ctx, "UPDATE sales_orders SET status = ?, updated_at = ? WHERE id = ?",
		status, database.Now(), id)
	if err != nil {
		return errors.Wrapf(err, "set status of %s", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrapf(ErrNotFound, "sales order %s", id)
	}
	return nil
}

// Delete removes order id with its items and job cards.
func (s *SalesOrders) Delete(ctx context.Context, id string) error {
	return database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM job_cards WHERE sales_order_id = ?", id); err != nil {
			return errors.Wrap(err, "delete job cards")
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM sales_order_items WHERE sales_order_id = ?", id); err != nil {
			return errors.Wrap(err, "delete items")
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM sales_orders WHERE id = ?", id)
		if err != nil {
			return errors.Wrapf(err, "delete sales order %s", id)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errors.Wrapf(ErrNotFound, "sales order %s", id)
		}
		return nil
	})
}

// JobCards returns the job cards of one order, or of every order when
// salesOrderID is empty.
func (s *SalesOrders) JobCards(ctx context.Context, salesOrderID string) ([]models.JobCard, error) {
	query := `SELECT job_card_number, sales_order_id, item_serial_no, product_id, product_details, quantity,
		created_date, completion_target_date, customer_name, COALESCE(remarks,'') FROM job_cards`
	var args []any
	if salesOrderID != "" {
		query += " WHERE sales_order_id = ?"
		args = append(args, salesOrderID)
	}
	query += " ORDER BY sales_order_id, item_serial_no"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list job cards")
	}
	defer rows.Close()
	cards := []models.JobCard{}
	for rows.Next() {
		var jc models.JobCard
		var details sql.NullString
		if err := rows.Scan(&jc.JobCardNumber, &jc.SalesOrderID, &jc.ItemSerialNo, &jc.ProductID, &details,
			&jc.Quantity, &jc.CreatedDate, &jc.CompletionTargetDate, &jc.CustomerName, &jc.Remarks); err != nil {
			return nil, err
		}
		if details.Valid && details.String != "null" {
			jc.ProductDetails = &models.Product{}
			if err := unmarshal(details, jc.ProductDetails); err != nil {
				return nil, errors.Wrapf(err, "job card %s product", jc.JobCardNumber)
			}
		}
		cards = append(cards, jc)
	}
	return cards, rows.Err()
}

// JobCard returns one derived job card or ErrNotFound.
func (s *SalesOrders) JobCard(ctx context.Context, number string) (models.JobCard, error) {
	so, serial, ok := jobcard.Parse(number)
	if !ok {
		return models.JobCard{}, errors.Wrapf(ErrNotFound, "job card %s", number)
	}
	cards, err := s.JobCards(ctx, so)
	if err != nil {
		return models.JobCard{}, err
	}
	for _, jc := range cards {
		if jc.ItemSerialNo == serial {
			return jc, nil
		}
	}
	return models.JobCard{}, errors.Wrapf(ErrNotFound, "job card %s", number)
}

// CountByStatus returns the number of sales orders per status.
func (s *SalesOrders) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT status, COUNT(*) FROM sales_orders GROUP BY status")
	if err != nil {
		return nil, errors.Wrap(err, "count sales orders")
	}
	defer rows.Close()
	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// Describe renders a short audit summary of so.
func Describe(so models.SalesOrder) string {
	return fmt.Sprintf("%s for %s: %d items, total %.2f", so.SalesOrderID, so.CustomerName, len(so.Items), so.TotalAmount)
}
