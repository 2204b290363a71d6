package storage

import (
	"context"
	"errors"

	"github.com/shanteshgogi/Property-Manager/internal/storage/models"
)

var (
	// ErrNotFound is returned by Update and Delete when the record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidReference is returned when a write names a parent record that does not exist.
	ErrInvalidReference = errors.New("referenced record does not exist")
)

// Store is the data access layer. Both the SQLite and the bolt document
// backends implement it with identical semantics.
type Store interface {
	Properties() PropertyRepository
	Units() UnitRepository
	Tenants() TenantRepository
	Transactions() TransactionRepository
	Reminders() ReminderRepository
	ActivityLogs() ActivityLogRepository

	// Ping checks that the backing database is reachable.
	Ping(ctx context.Context) error
	// Close releases the database.
	Close() error
}

// PropertyRepository provides data access for properties.
// Deleting a property cascades to its units and their transactions.
type PropertyRepository interface {
	Create(ctx context.Context, p *models.Property) error
	GetByID(ctx context.Context, id string) (*models.Property, error)
	List(ctx context.Context, q Query) ([]models.Property, error)
	Update(ctx context.Context, p *models.Property) error
	Delete(ctx context.Context, id string) error
}

// UnitRepository provides data access for units.
// Deleting a unit cascades to its transactions and reminders and unassigns its tenants.
type UnitRepository interface {
	Create(ctx context.Context, u *models.Unit) error
	GetByID(ctx context.Context, id string) (*models.Unit, error)
	List(ctx context.Context, q Query) ([]models.Unit, error)
	Update(ctx context.Context, u *models.Unit) error
	Delete(ctx context.Context, id string) error
}

// TenantRepository provides data access for tenants.
type TenantRepository interface {
	Create(ctx context.Context, t *models.Tenant) error
	GetByID(ctx context.Context, id string) (*models.Tenant, error)
	List(ctx context.Context, q Query) ([]models.Tenant, error)
	Update(ctx context.Context, t *models.Tenant) error
	Delete(ctx context.Context, id string) error
}

// TransactionRepository provides data access for transactions.
type TransactionRepository interface {
	Create(ctx context.Context, t *models.Transaction) error
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	List(ctx context.Context, q Query) ([]models.Transaction, error)
	Update(ctx context.Context, t *models.Transaction) error
	Delete(ctx context.Context, id string) error
}

// ReminderRepository provides data access for reminders.
type ReminderRepository interface {
	// CreateIfAbsent inserts r unless a reminder for r.UnitID already exists.
	// The check and the insert are atomic.
	CreateIfAbsent(ctx context.Context, r *models.Reminder) (bool, error)
	List(ctx context.Context, q Query) ([]models.Reminder, error)
}

// ActivityLogRepository provides append-only access to the audit trail.
type ActivityLogRepository interface {
	Create(ctx context.Context, l *models.ActivityLog) error
	List(ctx context.Context, q Query) ([]models.ActivityLog, error)
}
