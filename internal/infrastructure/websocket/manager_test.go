package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

func newTestServer(t *testing.T, manager *Manager, registered chan *Client) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}

		client := NewClient("user-1", conn)
		manager.Register <- client
		registered <- client

		go client.WritePump()
		client.ReadPump(manager)
	}))
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	assert.NoError(t, err)
	return conn
}

// A reconnect replaces the user's session, but the old session's snapshot
// callbacks can still fire until its subscriptions are cancelled. Delivery
// into the replaced client must be dropped, never crash.
func TestReconnectDropsDeliveryToReplacedClient(t *testing.T) {
	manager := NewManager()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	manager.Start(ctx)

	registered := make(chan *Client, 2)
	server := newTestServer(t, manager, registered)
	defer server.Close()

	first := dial(t, server)
	defer first.Close()
	replaced := <-registered

	second := dial(t, server)
	defer second.Close()
	<-registered

	assert.Eventually(t, func() bool {
		return !replaced.Enqueue([]byte(`{"type":"chat_list"}`))
	}, time.Second, 10*time.Millisecond, "frames for the replaced session are dropped once the newer connection takes over")

	manager.SendToUser("user-1", []byte(`{"type":"pong"}`))

	second.SetReadDeadline(time.Now().Add(time.Second))
	_, payload, err := second.ReadMessage()
	assert.NoError(t, err)
	assert.Equal(t, `{"type":"pong"}`, string(payload))
}

func TestUnregisterOnDisconnect(t *testing.T) {
	manager := NewManager()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	manager.Start(ctx)

	registered := make(chan *Client, 1)
	server := newTestServer(t, manager, registered)
	defer server.Close()

	conn := dial(t, server)
	client := <-registered

	assert.Eventually(t, func() bool {
		return manager.IsConnected("user-1")
	}, time.Second, 10*time.Millisecond)

	conn.Close()

	assert.Eventually(t, func() bool {
		return !manager.IsConnected("user-1")
	}, time.Second, 10*time.Millisecond)
	assert.False(t, client.Enqueue([]byte(`{}`)), "a disconnected client's queue no longer accepts frames")
}
