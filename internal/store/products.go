package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"springworks/internal/database"
	"springworks/internal/models"
)

// Products reads and writes the part master.
type Products struct {
	DB *sql.DB
}

const productColumns = `id, product_name, product_type, status, general, material, loads, images,
	COALESCE(created_by,''), COALESCE(updated_by,''), COALESCE(created_at,''), COALESCE(updated_at,'')`

func scanProduct(row interface{ Scan(...any) error }) (models.Product, error) {
	var p models.Product
	var general, material, loads, images sql.NullString
	err := row.Scan(&p.ID, &p.ProductName, &p.ProductType, &p.Status,
		&general, &material, &loads, &images,
		&p.CreatedBy, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}
	if err := unmarshal(general, &p.General); err != nil {
		return p, errors.Wrapf(err, "product %s general", p.ID)
	}
	if err := unmarshal(material, &p.MaterialAndDimensions); err != nil {
		return p, errors.Wrapf(err, "product %s material", p.ID)
	}
	if err := unmarshal(loads, &p.LoadsRatesDeflection); err != nil {
		return p, errors.Wrapf(err, "product %s loads", p.ID)
	}
	if err := unmarshal(images, &p.Images); err != nil {
		return p, errors.Wrapf(err, "product %s images", p.ID)
	}
	if p.Images == nil {
		p.Images = []models.ProductImage{}
	}
	return p, nil
}

// List returns every product, newest first.
func (s *Products) List(ctx context.Context) ([]models.Product, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT "+productColumns+" FROM products ORDER BY created_at DESC, rowid DESC")
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan product")
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func getProduct(ctx context.Context, q querier, id string) (models.Product, error) {
	p, err := scanProduct(q.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return p, errors.Wrapf(ErrNotFound, "product %s", id)
	}
	if err != nil {
		return p, errors.Wrapf(err, "get product %s", id)
	}
	return p, nil
}

// Get returns one product or ErrNotFound.
func (s *Products) Get(ctx context.Context, id string) (models.Product, error) {
	return getProduct(ctx, s.DB, id)
}

// Create assigns the next PROD id and stores p.
func (s *Products) Create(ctx context.Context, p models.Product, username string) (models.Product, error) {
	if p.Status == "" {
		p.Status = models.ProductActive
	}
	if p.Images == nil {
		p.Images = []models.ProductImage{}
	}
	now := database.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	p.CreatedBy, p.UpdatedBy = username, username

	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		n, err := database.NextSeq(ctx, tx, database.SeqProduct)
		if err != nil {
			return err
		}
		p.ID = database.FormatProductID(n)
		_, err = tx.ExecContext(ctx, `INSERT INTO products
			(id, product_name, product_type, status, symag_part_no, customer_part_no, general, material, loads, images, created_by, updated_by, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.ProductName, p.ProductType, p.Status, p.General.SymagPartNo, p.General.CustomerPartNo,
			marshal(p.General), marshal(p.MaterialAndDimensions), marshal(p.LoadsRatesDeflection), marshal(p.Images),
			p.CreatedBy, p.UpdatedBy, p.CreatedAt, p.UpdatedAt)
		return err
	})
	if err != nil {
		return models.Product{}, errors.Wrap(err, "create product")
	}
	return p, nil
}

// Update replaces the editable fields of product id. Creation metadata is
// kept.
func (s *Products) Update(ctx context.Context, id string, p models.Product, username string) (models.Product, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	p.ID = id
	p.CreatedAt, p.CreatedBy = existing.CreatedAt, existing.CreatedBy
	p.UpdatedAt, p.UpdatedBy = database.Now(), username
	if p.Status == "" {
		p.Status = existing.Status
	}
	if p.Images == nil {
		p.Images = []models.ProductImage{}
	}

	_, err = s.DB.ExecContext(ctx, `UPDATE products SET product_name = ?, product_type = ?, status = ?,
		symag_part_no = ?, customer_part_no = ?, general = ?, material = ?, loads = ?, images = ?,
		updated_by = ?, updated_at = ? WHERE id = ?`,
		p.ProductName, p.ProductType, p.Status, p.General.SymagPartNo, p.General.CustomerPartNo,
		marshal(p.General), marshal(p.MaterialAndDimensions), marshal(p.LoadsRatesDeflection), marshal(p.Images),
		p.UpdatedBy, p.UpdatedAt, id)
	if err != nil {
		return models.Product{}, errors.Wrapf(err, "update product %s", id)
	}
	return p, nil
}

// Archive sets the status of product id to ARCHIVED and touches nothing else.
func (s *Products) Archive(ctx context.Context, id string) (models.Product, error) {
	res, err := s.DB.ExecContext(ctx, "UPDATE products SET status = ? WHERE id = ?", models.ProductArchived, id)
	if err != nil {
		return models.Product{}, errors.Wrapf(err, "archive product %s", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Product{}, errors.Wrapf(ErrNotFound, "product %s", id)
	}
	return s.Get(ctx, id)
}

// Purge physically deletes product id. A product referenced by a sales order
// or a job card yields ErrConflict.
func (s *Products) Purge(ctx context.Context, id string) error {
	var refs int
	err := s.DB.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM sales_order_items WHERE product_id = ?) +
		(SELECT COUNT(*) FROM job_cards WHERE product_id = ?)`, id, id).Scan(&refs)
	if err != nil {
		return errors.Wrapf(err, "count references to %s", id)
	}
	if refs > 0 {
		return errors.Wrapf(ErrConflict, "product %s is used by %d sales order lines", id, refs)
	}
	res, err := s.DB.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return errors.Wrapf(err, "delete product %s", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrapf(ErrNotFound, "product %s", id)
	}
	return nil
}

// CountByStatus returns the number of products per status.
func (s *Products) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT status, COUNT(*) FROM products GROUP BY status")
	if err != nil {
		return nil, errors.Wrap(err, "count products")
	}
	defer rows.Close()
	counts := map[string]int{
		models.ProductActive:   0,
		models.ProductInactive: 0,
		models.ProductArchived: 0,
	}
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
