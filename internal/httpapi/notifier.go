package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/mindx-labs/coursecms/internal/catalog"
)

const broadcastTimeout = 5 * time.Second

// Notifier pushes a message to connected WebSocket clients whenever the
// catalog is published, so open browser tabs can refetch instead of polling.
type Notifier struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{conns: make(map[*websocket.Conn]struct{})}
}

// Handle upgrades the request to a WebSocket and keeps the connection
// registered until the client disconnects. Clients only listen; any message
// they send is discarded.
func (n *Notifier) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Warn("websocket accept failed", "error", err)
		return
	}

	n.mu.Lock()
	n.conns[conn] = struct{}{}
	count := len(n.conns)
	n.mu.Unlock()
	slog.Info("websocket client connected", "clients", count)

	// CloseRead discards inbound messages and signals when the peer is gone.
	ctx := conn.CloseRead(r.Context())
	<-ctx.Done()

	n.mu.Lock()
	delete(n.conns, conn)
	n.mu.Unlock()
	conn.Close(websocket.StatusNormalClosure, "")
	slog.Info("websocket client disconnected")
}

// Broadcast notifies every connected client that tree was published. A client
// that cannot be written to is dropped.
func (n *Notifier) Broadcast(tree catalog.Tree) {
	msg, err := json.Marshal(map[string]any{
		"event": "published",
		"paths": len(tree),
	})
	if err != nil {
		slog.Error("marshal publish event", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), broadcastTimeout)
	defer cancel()

	n.mu.Lock()
	defer n.mu.Unlock()
	for conn := range n.conns {
		if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
			delete(n.conns, conn)
			conn.Close(websocket.StatusGoingAway, "write failed")
		}
	}
}

// ClientCount reports the number of connected clients.
func (n *Notifier) ClientCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.conns)
}
