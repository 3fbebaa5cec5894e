package wshost

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/filament-ui/filament/pkg/backend"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = (pongTimeout * 9) / 10
)

// Connection is a backend.BackEnd bound to exactly one live WebSocket: one
// Connection per mounted page, exactly as the teacher's Session owns one
// connection per browser tab (pkg/server/session.go).
type Connection struct {
	id     string
	conn   *websocket.Conn
	logger *slog.Logger
	hub    *Hub

	writeMu sync.Mutex
	pending []patch

	nodesMu sync.Mutex
	nodes   map[uint64]*Node
	// listening tracks which (nodeID, eventType) pairs a client should
	// forward, so the browser doesn't have to guess from a detached patch
	// stream which elements are "live".
	listening map[uint64]map[string]bool
}

func newConnection(id string, conn *websocket.Conn, hub *Hub, logger *slog.Logger) *Connection {
	return &Connection{
		id:        id,
		conn:      conn,
		hub:       hub,
		logger:    logger.With("conn", id),
		nodes:     map[uint64]*Node{},
		listening: map[uint64]map[string]bool{},
	}
}

func (c *Connection) registerListener(nodeID uint64, event string) {
	c.nodesMu.Lock()
	defer c.nodesMu.Unlock()
	if c.listening[nodeID] == nil {
		c.listening[nodeID] = map[string]bool{}
	}
	c.listening[nodeID][event] = true
}

func (c *Connection) enqueue(p patch) {
	c.writeMu.Lock()
	c.pending = append(c.pending, p)
	c.writeMu.Unlock()
}

func (c *Connection) track(n *Node) {
	c.nodesMu.Lock()
	c.nodes[n.id] = n
	c.nodesMu.Unlock()
}

// flush writes every patch enqueued since the last flush as one JSON
// frame, then clears the batch. Called once per committed phase
// (backend.BackEnd.CommitEffects), so a render's mutation/layout/passive
// phases each reach the wire as their own message.
func (c *Connection) flush() error {
	c.writeMu.Lock()
	batch := c.pending
	c.pending = nil
	c.writeMu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	data, err := json.Marshal(batch)
	if err != nil {
		return err
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		writeErrors.Inc()
		return err
	}
	framesSent.Inc()
	bytesSent.Add(float64(len(data)))
	return nil
}

// ReadLoop reads client event frames until the connection closes,
// dispatching each to the node it targets. Mirrors the teacher's
// Session.ReadLoop (pkg/server/websocket.go): one blocking read loop per
// connection, a read deadline refreshed by pong, unexpected-close errors
// logged and ordinary closes treated as a quiet exit.
func (c *Connection) ReadLoop() {
	defer c.hub.remove(c.id)
	defer c.conn.Close()

	c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.logger.Error("read error", "error", err)
			}
			return
		}

		var ev clientEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			c.logger.Warn("malformed client event", "error", err)
			continue
		}

		c.nodesMu.Lock()
		n := c.nodes[ev.NodeID]
		c.nodesMu.Unlock()
		if n == nil {
			continue
		}
		n.dispatch(&Event{typ: ev.Type, target: n})
	}
}

// pingLoop periodically pings the client so a dead connection is
// detected within pongTimeout even with no outgoing patches to piggyback
// a liveness check on.
func (c *Connection) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.writeMu.Lock()
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			err := c.conn.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// --- backend.BackEnd ---

func (c *Connection) GetCurrentPriority() backend.Priority { return backend.PriorityUserBlocking }

func (c *Connection) RequestCallback(priority backend.Priority, cb func()) <-chan struct{} {
	done := make(chan struct{})
	cb()
	close(done)
	return done
}

func (c *Connection) YieldToMain(ctx context.Context) error { return ctx.Err() }

func (c *Connection) ShouldYield() bool { return false }

func (c *Connection) StartViewTransition(cb func()) error {
	c.enqueue(patch{Op: opBeginTransition})
	cb()
	c.enqueue(patch{Op: opEndTransition})
	return nil
}

func (c *Connection) CommitEffects(effects []backend.Effect, phase backend.Phase) {
	for _, e := range effects {
		if e.Commit != nil {
			e.Commit()
		}
	}
	if err := c.flush(); err != nil {
		c.logger.Error("flush failed", "phase", phase.String(), "error", err)
	}
}

func (c *Connection) CreateElement(tag string, namespaceURI string) backend.Node {
	n := newNode(c, backend.NodeElement)
	n.tag, n.namespaceURI = tag, namespaceURI
	c.track(n)
	c.enqueue(patch{Op: opCreateElement, NodeID: n.id, Tag: tag, Namespace: namespaceURI})
	return n
}

func (c *Connection) CreateText(data string) backend.Node {
	n := newNode(c, backend.NodeText)
	n.text = data
	c.track(n)
	c.enqueue(patch{Op: opCreateText, NodeID: n.id, Value: data})
	return n
}

func (c *Connection) CreateComment(data string) backend.Node {
	n := newNode(c, backend.NodeComment)
	n.text = data
	c.track(n)
	c.enqueue(patch{Op: opCreateComment, NodeID: n.id, Value: data})
	return n
}

var _ backend.BackEnd = (*Connection)(nil)
