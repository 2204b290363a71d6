package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ws "github.com/shanteshgogi/Property-Manager/internal/websocket"
)

func TestHandleClientMessage(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ws.MessageType
	}{
		{name: "ping", in: `{"type":"ping"}`, want: ws.TypePong},
		{name: "unknown", in: `{"type":"subscribe"}`, want: ws.TypeError},
		{name: "garbage", in: `not json`, want: ws.TypeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := handleClientMessage([]byte(tt.in))
			require.NotNil(t, out)

			var msg ws.Message
			require.NoError(t, json.Unmarshal(out, &msg))
			assert.Equal(t, tt.want, msg.Type)
		})
	}
}
