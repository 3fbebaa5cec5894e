package wshost

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/filament-ui/filament/pkg/backend/wshost")

// Hub accepts incoming WebSocket upgrades and hands each one a fresh
// Connection, mirroring the teacher's Manager (pkg/server/manager.go) at a
// much smaller scope: this module doesn't itself own session persistence,
// auth, or reconnection resume - a host application layers that on top by
// supplying OnConnect.
type Hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	// OnConnect is called once per accepted connection, on a dedicated
	// goroutine, with the new Connection as its backend.BackEnd. It should
	// block for the connection's lifetime (typically by calling
	// Connection.ReadLoop after mounting the application's root component).
	OnConnect func(ctx context.Context, conn *Connection)

	mu    sync.Mutex
	conns map[string]*Connection
	next  int
}

// NewHub constructs a Hub that accepts connections from any origin; a
// production deployment should narrow CheckOrigin.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		conns: map[string]*Connection{},
	}
}

// Mount registers the Hub's upgrade handler on r at path (typically "/ws").
func (h *Hub) Mount(r chi.Router, path string) {
	r.Get(path, h.serveHTTP)
}

func (h *Hub) serveHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "wshost.accept")
	defer span.End()

	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.next++
	id := connID(h.next)
	conn := newConnection(id, wsConn, h, h.logger)
	h.conns[id] = conn
	h.mu.Unlock()

	activeConnections.Inc()
	go conn.pingLoop(ctx)

	if h.OnConnect != nil {
		h.OnConnect(ctx, conn)
	} else {
		conn.ReadLoop()
	}
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	delete(h.conns, id)
	h.mu.Unlock()
	activeConnections.Dec()
}

// Count reports the number of currently connected pages.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func connID(n int) string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	if n == 0 {
		return "0"
	}
	buf := make([]byte, 0, 8)
	for n > 0 {
		buf = append(buf, alphabet[n%len(alphabet)])
		n /= len(alphabet)
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}
