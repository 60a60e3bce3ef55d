package httpapi

import (
	"context"
	"net/http"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/openfairway/niner-league/internal/platform/logging"
)

// Feed event types. Clients refetch the named collection when one arrives;
// the payload carries no data on purpose, it is only a change signal.
const (
	FeedEventPlayers = "players_changed"
	FeedEventRounds  = "rounds_changed"
	FeedEventWeeks   = "weeks_changed"
)

const (
	feedWriteWait  = 10 * time.Second
	feedPongWait   = 60 * time.Second
	feedPingPeriod = (feedPongWait * 9) / 10
	feedSendBuffer = 16
)

type feedEvent struct {
	Type      string    `json:"type"`
	EmittedAt time.Time `json:"emitted_at"`
}

var feedUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Hub fans change events out to every connected websocket client. A client
// that cannot keep up is dropped rather than allowed to stall the rest.
type Hub struct {
	mu      sync.RWMutex
	clients map[*feedClient]struct{}
	logger  *logging.Logger
	now     func() time.Time
}

func NewHub(logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}

	return &Hub{
		clients: make(map[*feedClient]struct{}),
		logger:  logger,
		now:     time.Now,
	}
}

func (h *Hub) Broadcast(eventType string) {
	payload, err := sonic.Marshal(feedEvent{Type: eventType, EmittedAt: h.now().UTC()})
	if err != nil {
		h.logger.Warn("encode feed event", "type", eventType, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			// Slow consumer; the write pump will notice the closed channel.
			go h.drop(client)
		}
	}
}

// ClientCount is used by tests and the health surface.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) ServeFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := feedUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "upgrade feed connection", "error", err)
		return
	}

	client := &feedClient{conn: conn, send: make(chan []byte, feedSendBuffer)}
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	go h.writePump(client)
	go h.readPump(client)
}

func (h *Hub) drop(client *feedClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	_ = client.conn.Close()
}

func (h *Hub) writePump(client *feedClient) {
	ticker := time.NewTicker(feedPingPeriod)
	defer func() {
		ticker.Stop()
		h.drop(client)
	}()

	for {
		select {
		case payload, ok := <-client.send:
			_ = client.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if !ok {
				_ = client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound messages; the feed is one-way. It exists to
// process pongs and to notice when the peer goes away.
func (h *Hub) readPump(client *feedClient) {
	defer h.drop(client)

	client.conn.SetReadLimit(512)
	_ = client.conn.SetReadDeadline(time.Now().Add(feedPongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(feedPongWait))
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

func (h *Handler) notifyFeed(_ context.Context, eventType string) {
	if h.feed == nil {
		return
	}
	h.feed.Broadcast(eventType)
}
