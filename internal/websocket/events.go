package websocket

import (
	"github.com/shanteshgogi/Property-Manager/internal/storage/models"
)

// EventBroadcaster turns domain events into WebSocket messages.
type EventBroadcaster struct {
	hub *Hub
}

// NewEventBroadcaster creates a new event broadcaster.
func NewEventBroadcaster(hub *Hub) *EventBroadcaster {
	return &EventBroadcaster{hub: hub}
}

// BroadcastEntityChanged announces a create, update or delete.
func (b *EventBroadcaster) BroadcastEntityChanged(entity, action, id string) {
	b.broadcast(NewMessage(TypeEntityChanged, EntityChangedPayload{
		Entity: entity,
		Action: action,
		ID:     id,
	}))
}

// BroadcastActivityLogged forwards a new activity log entry.
func (b *EventBroadcaster) BroadcastActivityLogged(entry models.ActivityLog) {
	b.broadcast(NewMessage(TypeActivityLogged, entry))
}

// BroadcastReminderCreated forwards a new reminder and raises a warning notification for it.
func (b *EventBroadcaster) BroadcastReminderCreated(reminder models.Reminder) {
	b.broadcast(NewMessage(TypeReminderCreated, reminder))
	b.BroadcastNotification("warning", "Contract expiring", reminder.Message)
}

// BroadcastNotification sends a notification to all connected clients.
func (b *EventBroadcaster) BroadcastNotification(level, title, message string) {
	b.broadcast(NewMessage(TypeNotification, NotificationPayload{
		Level:       level,
		Title:       title,
		Message:     message,
		Dismissible: true,
	}))
}

func (b *EventBroadcaster) broadcast(msg Message) {
	data, err := msg.JSON()
	if err != nil {
		b.hub.log.WithError(err).Error("Encoding WebSocket message")
		return
	}
	b.hub.Broadcast(data)
}
