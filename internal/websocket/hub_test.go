package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanteshgogi/Property-Manager/internal/logging"
	"github.com/shanteshgogi/Property-Manager/internal/storage/models"
)

func TestHubBroadcastsToRegisteredClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(logging.Discard())
	go hub.Run(ctx)

	client := NewClient(hub)
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	NewEventBroadcaster(hub).BroadcastEntityChanged(models.EntityUnit, ActionDeleted, "u1")

	select {
	case data := <-client.Send():
		var msg struct {
			Type    MessageType          `json:"type"`
			Payload EntityChangedPayload `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, TypeEntityChanged, msg.Type)
		assert.Equal(t, EntityChangedPayload{Entity: "unit", Action: "deleted", ID: "u1"}, msg.Payload)
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}

	hub.Unregister(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestReminderCreatedAlsoNotifies(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(logging.Discard())
	go hub.Run(ctx)

	client := NewClient(hub)
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	NewEventBroadcaster(hub).BroadcastReminderCreated(models.Reminder{ID: "r1", UnitID: "u1", Message: "soon"})

	var types []MessageType
	for len(types) < 2 {
		select {
		case data := <-client.Send():
			var msg Message
			require.NoError(t, json.Unmarshal(data, &msg))
			types = append(types, msg.Type)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for messages")
		}
	}
	assert.Equal(t, []MessageType{TypeReminderCreated, TypeNotification}, types)
}

func TestHubMembershipAfterShutdownDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(logging.Discard())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	connected := NewClient(hub)
	hub.Register(connected)
	require.Equal(t, 1, hub.ClientCount())

	cancel()
	<-stopped

	done := make(chan struct{})
	go func() {
		hub.Unregister(connected)
		late := NewClient(hub)
		hub.Register(late)
		_, open := <-late.Send()
		assert.False(t, open, "late client is closed immediately")
		assert.False(t, late.Reply([]byte("x")))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("membership change blocked after shutdown")
	}
	assert.Zero(t, hub.ClientCount())

	_, open := <-connected.Send()
	assert.False(t, open)
}
