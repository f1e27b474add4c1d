package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// TimeLayout is the timestamp format stored in every *_at column.
const TimeLayout = "2006-01-02 15:04:05"

// Now returns the current UTC time in TimeLayout.
func Now() string {
	return time.Now().UTC().Format(TimeLayout)
}

// Options tunes the connection pool.
type Options struct {
	MaxOpenConns  int
	BusyTimeoutMS int
	// JournalMode defaults to WAL. It is ignored for in-memory databases.
	JournalMode string
}

// Open opens (creating if needed) the SQLite database at path, applies the
// connection pragmas to every pooled connection and runs migrations.
// An in-memory database is limited to a single connection because each
// SQLite connection to :memory: is a separate database.
func Open(path string, opts Options) (*sql.DB, error) {
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 10
	}
	if opts.BusyTimeoutMS <= 0 {
		opts.BusyTimeoutMS = 30000
	}
	if opts.JournalMode == "" {
		opts.JournalMode = "WAL"
	}
	memory := path == ":memory:" || strings.Contains(path, "mode=memory")

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	dsn := path + sep + fmt.Sprintf("_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)", opts.BusyTimeoutMS)
	if !memory {
		dsn += "&_pragma=journal_mode(" + opts.JournalMode + ")"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if memory {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(opts.MaxOpenConns)
		db.SetMaxIdleConns(opts.MaxOpenConns / 2)
	}
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", path, err)
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// WithTx runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise. fn must use tx for every statement.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
