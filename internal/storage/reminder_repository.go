package storage

import (
	"context"
	"fmt"

	"github.com/shanteshgogi/Property-Manager/internal/storage/models"
)

var reminderColumns = NewSQLBuilder(map[string]string{
	FieldID:        "id",
	FieldUnitID:    "unit_id",
	FieldCreatedAt: "created_at",
})

// ReminderRepo provides data access for contract reminders.
type ReminderRepo struct {
	BaseRepository
}

// NewReminderRepo creates a new reminder repository.
func NewReminderRepo(db *DB) *ReminderRepo {
	return &ReminderRepo{BaseRepository: NewBaseRepository(db)}
}

// CreateIfAbsent inserts r unless the unit already has a reminder.
// The unique index on unit_id makes the check atomic.
func (r *ReminderRepo) CreateIfAbsent(ctx context.Context, rem *models.Reminder) (bool, error) {
	id := GenerateID()
	createdAt := r.Now()

	result, err := r.DB().ExecContext(ctx, `
		INSERT INTO reminders (id, unit_id, message, contract_end, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(unit_id) DO NOTHING
	`, id, rem.UnitID, rem.Message, utcPtr(rem.ContractEnd), createdAt)
	if err != nil {
		return false, wrapWriteError("inserting reminder", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	rem.ID = id
	rem.CreatedAt = createdAt
	rem.ContractEnd = utcPtr(rem.ContractEnd)
	return true, nil
}

// List retrieves reminders matching q, newest first unless q orders otherwise.
func (r *ReminderRepo) List(ctx context.Context, q Query) ([]models.Reminder, error) {
	if q.OrderBy == "" {
		q = q.OrderByDesc(FieldCreatedAt)
	}
	clause, args, err := reminderColumns.Build(q)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB().QueryContext(ctx,
		`SELECT id, unit_id, message, contract_end, created_at FROM reminders`+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("querying reminders: %w", err)
	}
	defer rows.Close()

	reminders := []models.Reminder{}
	for rows.Next() {
		var rem models.Reminder
		if err := rows.Scan(&rem.ID, &rem.UnitID, &rem.Message, &rem.ContractEnd, &rem.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning reminder: %w", err)
		}
		reminders = append(reminders, rem)
	}

	return reminders, rows.Err()
}
