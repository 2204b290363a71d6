// Package activity records the audit trail of user-visible changes.
package activity

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/shanteshgogi/Property-Manager/internal/storage"
	"github.com/shanteshgogi/Property-Manager/internal/storage/models"
)

// Publisher receives entries after they are stored.
type Publisher interface {
	BroadcastActivityLogged(entry models.ActivityLog)
}

// Logger appends activity log entries. A failed write never fails the
// mutation that triggered it; the error is logged and dropped.
type Logger struct {
	repo storage.ActivityLogRepository
	pub  Publisher
	log  logrus.FieldLogger
}

// NewLogger creates an activity logger. pub may be nil.
func NewLogger(repo storage.ActivityLogRepository, pub Publisher, log logrus.FieldLogger) *Logger {
	return &Logger{repo: repo, pub: pub, log: log.WithField("component", "activity")}
}

// Log records one entry.
func (l *Logger) Log(ctx context.Context, entityType, entityID, action, message string) {
	entry := &models.ActivityLog{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Message:    message,
	}

	if err := l.repo.Create(ctx, entry); err != nil {
		l.log.WithError(err).WithFields(logrus.Fields{
			"entity_type": entityType,
			"entity_id":   entityID,
			"action":      action,
		}).Error("Failed to write activity log")
		return
	}

	if l.pub != nil {
		l.pub.BroadcastActivityLogged(*entry)
	}
}
