// Package storage provides SQLite database connectivity and data access.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQL database connection with application-specific methods.
type DB struct {
	*sql.DB
	path string
}

// NewDB creates a new database connection to the SQLite file at the given path.
// It creates the directory structure if it doesn't exist.
func NewDB(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	// - _foreign_keys=on: cascades from properties and units are enforced here
	// - _journal_mode=WAL: concurrent readers with a single writer
	// - _busy_timeout=5000: wait up to 5 seconds if database is locked
	// - _synchronous=NORMAL: safe with WAL
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	return &DB{DB: db, path: path}, nil
}

// Path returns the filesystem path to the database file.
func (db *DB) Path() string {
	return db.path
}

// Transaction executes a function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (db *DB) Transaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rolling back transaction: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// SQLStore is the relational Store backed by SQLite.
type SQLStore struct {
	db *DB

	properties   *PropertyRepo
	units        *UnitRepo
	tenants      *TenantRepo
	transactions *TransactionRepo
	reminders    *ReminderRepo
	activity     *ActivityLogRepo
}

// NewSQLStore wires the SQLite repositories over db. Migrations must already be applied.
func NewSQLStore(db *DB) *SQLStore {
	return &SQLStore{
		db:           db,
		properties:   NewPropertyRepo(db),
		units:        NewUnitRepo(db),
		tenants:      NewTenantRepo(db),
		transactions: NewTransactionRepo(db),
		reminders:    NewReminderRepo(db),
		activity:     NewActivityLogRepo(db),
	}
}

func (s *SQLStore) Properties() PropertyRepository { return s.properties }
func (s *SQLStore) Units() UnitRepository { return s.units }
func (s *SQLStore) Tenants() TenantRepository { return s.tenants }
func (s *SQLStore) Transactions() TransactionRepository { return s.transactions }
func (s *SQLStore) Reminders() ReminderRepository { return s.reminders }
func (s *SQLStore) ActivityLogs() ActivityLogRepository { return s.activity }

// Ping verifies the database connection.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLStore)(nil)
