package ws

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/domain/surface"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/infrastructure/logging"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
)

// Message is a client request
type Message struct {
	Type string `json:"type"`
}

// Handler manages WebSocket connections
type Handler struct {
	hub      *surface.Hub
	upgrader websocket.Upgrader
	logger   *logging.Logger
}

// NewHandler creates a new WebSocket handler. Browser clients must connect
// from the server's own origin; clients without an Origin header are accepted.
func NewHandler(hub *surface.Hub, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handler{
		hub:    hub,
		logger: logger.Named("ws"),
	}
}

// HandleConnection upgrades the request and streams state until the client leaves
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	states, cancel := h.hub.Subscribe()
	defer cancel()

	done := make(chan struct{})
	defer close(done)

	requests := make(chan Message, 8)
	go h.readLoop(conn, requests, done)

	if err := h.send(conn, gin.H{
		"type":    "system",
		"message": "Connected to ide-browser state stream",
	}); err != nil {
		return
	}

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case st := <-states:
			if err := h.send(conn, gin.H{
				"type":      "state",
				"state":     st,
				"timestamp": time.Now().Unix(),
			}); err != nil {
				return
			}
		case msg, ok := <-requests:
			if !ok {
				return
			}
			if err := h.reply(conn, msg); err != nil {
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(writeTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		case <-c.Request.Context().Done():
			return
		}
	}
}

// readLoop owns reads; the connection allows one concurrent reader and one writer.
// It stops once done is closed, even when nobody drains out.
func (h *Handler) readLoop(conn *websocket.Conn, out chan<- Message, done <-chan struct{}) {
	defer close(out)

	_ = conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("WebSocket read error", zap.Error(err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongTimeout))
		select {
		case out <- msg:
		case <-done:
			return
		}
	}
}

func (h *Handler) reply(conn *websocket.Conn, msg Message) error {
	switch msg.Type {
	case "ping":
		return h.send(conn, gin.H{"type": "pong"})
	default:
		return h.sendError(conn, "unknown message type")
	}
}

func (h *Handler) send(conn *websocket.Conn, data any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(data)
}

func (h *Handler) sendError(conn *websocket.Conn, msg string) error {
	return h.send(conn, gin.H{
		"type":      "error",
		"message":   msg,
		"timestamp": time.Now().Unix(),
	})
}
