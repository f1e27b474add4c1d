package database

import (
	"context"
	"database/sql"
	"fmt"
)

var tables = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		email TEXT DEFAULT '',
		role TEXT DEFAULT 'user' CHECK(role IN ('admin','user')),
		active INTEGER DEFAULT 1,
		failed_login_attempts INTEGER DEFAULT 0,
		locked_until DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		last_login DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		expires_at DATETIME NOT NULL,
		last_activity DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS password_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		password_hash TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER,
		username TEXT DEFAULT 'system',
		action TEXT NOT NULL,
		module TEXT NOT NULL,
		record_id TEXT NOT NULL,
		summary TEXT,
		before_value TEXT,
		after_value TEXT,
		ip_address TEXT,
		user_agent TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS counters (
		name TEXT PRIMARY KEY,
		value INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		product_name TEXT NOT NULL,
		product_type TEXT NOT NULL CHECK(product_type IN ('CS','CCS','ES','TS','DTS','WF','PP')),
		status TEXT NOT NULL DEFAULT 'ACTIVE' CHECK(status IN ('ACTIVE','INACTIVE','ARCHIVED')),
		symag_part_no TEXT DEFAULT '',
		customer_part_no TEXT DEFAULT '',
		general TEXT NOT NULL DEFAULT '{}',
		material TEXT NOT NULL DEFAULT '{}',
		loads TEXT NOT NULL DEFAULT '{}',
		images TEXT NOT NULL DEFAULT '[]',
		created_by TEXT DEFAULT '',
		updated_by TEXT DEFAULT '',
		created_at TEXT DEFAULT CURRENT_TIMESTAMP,
		updated_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS sales_orders (
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL,
		customer_name TEXT NOT NULL,
		created_date TEXT NOT NULL,
		completion_target_date TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'DRAFT' CHECK(status IN ('DRAFT','CONFIRMED','IN_PROGRESS','COMPLETED','CANCELLED')),
		remarks TEXT DEFAULT '',
		total_amount REAL NOT NULL DEFAULT 0,
		next_serial INTEGER NOT NULL DEFAULT 1,
		created_by TEXT DEFAULT '',
		created_at TEXT DEFAULT CURRENT_TIMESTAMP,
		updated_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS sales_order_items (
		sales_order_id TEXT NOT NULL,
		item_serial_no INTEGER NOT NULL CHECK(item_serial_no >= 1),
		product_id TEXT NOT NULL,
		product_name TEXT NOT NULL,
		product_type TEXT NOT NULL,
		quantity INTEGER NOT NULL CHECK(quantity > 0),
		unit_price REAL NOT NULL CHECK(unit_price >= 0),
		total_price REAL NOT NULL,
		job_card_number TEXT NOT NULL UNIQUE,
		PRIMARY KEY (sales_order_id, item_serial_no),
		FOREIGN KEY (sales_order_id) REFERENCES sales_orders(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS job_cards (
		job_card_number TEXT PRIMARY KEY,
		sales_order_id TEXT NOT NULL,
		item_serial_no INTEGER NOT NULL,
		product_id TEXT NOT NULL,
		product_details TEXT,
		quantity INTEGER NOT NULL,
		created_date TEXT NOT NULL,
		completion_target_date TEXT NOT NULL,
		customer_name TEXT NOT NULL,
		remarks TEXT DEFAULT '',
		FOREIGN KEY (sales_order_id) REFERENCES sales_orders(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		sales_order_id TEXT NOT NULL,
		item_serial_no INTEGER NOT NULL,
		item_details TEXT,
		job_card_id TEXT NOT NULL UNIQUE,
		quantity INTEGER NOT NULL CHECK(quantity > 0),
		created_date TEXT NOT NULL,
		completion_date TEXT,
		status TEXT NOT NULL DEFAULT 'PENDING' CHECK(status IN ('PENDING','IN_PRODUCTION','COMPLETED','CANCELLED')),
		assigned_to TEXT DEFAULT '',
		remarks TEXT DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS production_job_cards (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL UNIQUE,
		sales_order_id TEXT NOT NULL,
		part_details TEXT,
		quantity INTEGER NOT NULL,
		created_date TEXT NOT NULL,
		start_date TEXT,
		completion_date TEXT,
		status TEXT NOT NULL DEFAULT 'PENDING' CHECK(status IN ('PENDING','IN_PROGRESS','COMPLETED','ON_HOLD','CANCELLED')),
		notes TEXT DEFAULT '',
		FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
	)`,
}

var indexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_products_status ON products(status)",
	"CREATE INDEX IF NOT EXISTS idx_products_type ON products(product_type)",
	"CREATE INDEX IF NOT EXISTS idx_sales_orders_status ON sales_orders(status)",
	"CREATE INDEX IF NOT EXISTS idx_sales_order_items_product ON sales_order_items(product_id)",
	"CREATE INDEX IF NOT EXISTS idx_job_cards_so ON job_cards(sales_order_id)",
	"CREATE INDEX IF NOT EXISTS idx_orders_so ON orders(sales_order_id)",
	"CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)",
	"CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at)",
	"CREATE INDEX IF NOT EXISTS idx_audit_created ON audit_log(created_at)",
}

// Migrate creates every table and index. It is idempotent.
func Migrate(db *sql.DB) error {
	for _, stmt := range tables {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration error: %w\nSQL: %s", err, stmt)
		}
	}
	for _, stmt := range indexes {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("index error: %w\nSQL: %s", err, stmt)
		}
	}
	return nil
}

// Sequence names and the value each starts from. The first issued number
// is start+1.
const (
	SeqProduct           = "product"
	SeqSalesOrder        = "sales_order"
	SeqOrder             = "order"
	SeqProductionJobCard = "production_job_card"
)

var seqStart = map[string]int{
	SeqProduct:           2000,
	SeqSalesOrder:        0,
	SeqOrder:             1000,
	SeqProductionJobCard: 5000,
}

// NextSeq increments and returns the named counter inside tx.
func NextSeq(ctx context.Context, tx *sql.Tx, name string) (int, error) {
	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO counters (name, value) VALUES (?, ?)", name, seqStart[name]); err != nil {
		return 0, fmt.Errorf("init counter %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE counters SET value = value + 1 WHERE name = ?", name); err != nil {
		return 0, fmt.Errorf("bump counter %s: %w", name, err)
	}
	var n int
	if err := tx.QueryRowContext(ctx, "SELECT value FROM counters WHERE name = ?", name).Scan(&n); err != nil {
		return 0, fmt.Errorf("read counter %s: %w", name, err)
	}
	return n, nil
}

// PeekSeq returns the value NextSeq would issue next without consuming it.
func PeekSeq(ctx context.Context, db *sql.DB, name string) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, "SELECT value FROM counters WHERE name = ?", name).Scan(&n)
	if err == sql.ErrNoRows {
		return seqStart[name] + 1, nil
	}
	if err != nil {
		return 0, err
	}
	return n + 1, nil
}

// FormatProductID renders a product counter as PROD-2001.
func FormatProductID(n int) string { return fmt.Sprintf("PROD-%d", n) }

// FormatSalesOrderID renders a sales order counter as SO-0001.
func FormatSalesOrderID(n int) string { return fmt.Sprintf("SO-%04d", n) }

// FormatOrderID renders an order counter as ORD-1001.
func FormatOrderID(n int) string { return fmt.Sprintf("ORD-%d", n) }

// FormatProductionJobCardID renders a production job card counter as JC-5001.
func FormatProductionJobCardID(n int) string { return fmt.Sprintf("JC-%d", n) }
