package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/openfairway/niner-league/internal/platform/logging"
)

func dialFeed(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial feed: %v", err)
	}
	if resp != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d connected clients, have %d", want, hub.ClientCount())
}

func TestHub_BroadcastReachesClients(t *testing.T) {
	hub := NewHub(logging.NewNop())
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeFeed))
	defer srv.Close()

	first := dialFeed(t, srv)
	second := dialFeed(t, srv)
	waitForClients(t, hub, 2)

	hub.Broadcast(FeedEventRounds)

	for _, conn := range []*websocket.Conn{first, second} {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, payload, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read feed event: %v", err)
		}

		var event feedEvent
		if err := sonic.Unmarshal(payload, &event); err != nil {
			t.Fatalf("decode feed event: %v", err)
		}
		if event.Type != FeedEventRounds {
			t.Fatalf("unexpected event type: %q", event.Type)
		}
		if event.EmittedAt.IsZero() {
			t.Fatalf("expected emitted_at to be set")
		}
	}
}

func TestHub_DisconnectedClientIsDropped(t *testing.T) {
	hub := NewHub(logging.NewNop())
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeFeed))
	defer srv.Close()

	conn := dialFeed(t, srv)
	waitForClients(t, hub, 1)

	_ = conn.Close()
	waitForClients(t, hub, 0)

	// Broadcasting into an empty hub must not panic.
	hub.Broadcast(FeedEventPlayers)
}
