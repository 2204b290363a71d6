package storage

import (
	"context"
	"fmt"

	"github.com/shanteshgogi/Property-Manager/internal/storage/models"
)

var activityColumns = NewSQLBuilder(map[string]string{
	FieldID:         "id",
	FieldEntityType: "entity_type",
	FieldEntityID:   "entity_id",
	FieldCreatedAt:  "created_at",
})

// ActivityLogRepo provides append-only access to activity logs.
type ActivityLogRepo struct {
	BaseRepository
}

// NewActivityLogRepo creates a new activity log repository.
func NewActivityLogRepo(db *DB) *ActivityLogRepo {
	return &ActivityLogRepo{BaseRepository: NewBaseRepository(db)}
}

// Create appends an activity log entry.
func (r *ActivityLogRepo) Create(ctx context.Context, l *models.ActivityLog) error {
	l.ID = GenerateID()
	l.CreatedAt = r.Now()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO activity_logs (id, entity_type, entity_id, action, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, l.ID, l.EntityType, l.EntityID, l.Action, l.Message, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting activity log: %w", err)
	}

	return nil
}

// List retrieves log entries matching q, newest first unless q orders otherwise.
func (r *ActivityLogRepo) List(ctx context.Context, q Query) ([]models.ActivityLog, error) {
	if q.OrderBy == "" {
		q = q.OrderByDesc(FieldCreatedAt)
	}
	clause, args, err := activityColumns.Build(q)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, entity_type, entity_id, action, message, created_at
		FROM activity_logs`+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("querying activity logs: %w", err)
	}
	defer rows.Close()

	logs := []models.ActivityLog{}
	for rows.Next() {
		var l models.ActivityLog
		if err := rows.Scan(&l.ID, &l.EntityType, &l.EntityID, &l.Action, &l.Message, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning activity log: %w", err)
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}
