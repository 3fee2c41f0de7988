package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/inventory-api/internal/events"
	"github.com/vyrodovalexey/inventory-api/internal/model"
)

// WebSocket configuration constants.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// EventsPath is the WebSocket endpoint streaming lifecycle events.
// An optional kind query parameter (comma separated) restricts the feed.
const EventsPath = "/ws"

// WebSocketHandler streams lifecycle events to WebSocket clients.
type WebSocketHandler struct {
	upgrader websocket.Upgrader
	hub      *events.Hub
	logger   *zap.Logger

	mu      sync.Mutex
	clients map[*feedClient]struct{}
}

// NewWebSocketHandler creates a new WebSocketHandler instance.
func NewWebSocketHandler(hub *events.Hub, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		hub:     hub,
		logger:  logger,
		clients: make(map[*feedClient]struct{}),
	}
}

// RegisterRoutes registers the WebSocket routes with the router.
func (h *WebSocketHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc(EventsPath, h.HandleWebSocket).Methods(http.MethodGet)
}

// HandleWebSocket upgrades the connection and starts streaming events.
//
//nolint:contextcheck // WebSocket connections outlive the HTTP request context
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	kinds, err := parseKinds(r.URL.Query().Get("kind"))
	if err != nil {
		h.logger.Warn("invalid event feed filter", zap.Error(err))
		writeError(w, h.logger, jsonCodec{}, http.StatusBadRequest, err.Error())
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &feedClient{
		conn:   conn,
		sub:    h.hub.Subscribe(),
		kinds:  kinds,
		cancel: cancel,
		done:   make(chan struct{}),
		logger: h.logger.With(zap.String("remote_addr", conn.RemoteAddr().String())),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	c.logger.Info("websocket client connected", zap.Strings("kinds", kindList(kinds)))

	go c.writeLoop(ctx)
	go func() {
		c.readLoop()
		h.remove(c)
	}()
}

func (h *WebSocketHandler) remove(c *feedClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	if ok {
		c.logger.Info("websocket client disconnected")
	}
}

// ClientCount returns the number of connected clients.
func (h *WebSocketHandler) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.clients)
}

// CloseAllConnections sends every client a close frame and waits for its
// connection to be released, at most writeWait per client.
func (h *WebSocketHandler) CloseAllConnections() {
	h.mu.Lock()
	clients := make([]*feedClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	clear(h.clients)
	h.mu.Unlock()

	for _, c := range clients {
		c.cancel()
	}

	timeout := time.NewTimer(writeWait)
	defer timeout.Stop()

	for _, c := range clients {
		select {
		case <-c.done:
		case <-timeout.C:
			h.logger.Warn("timed out closing websocket connections")
			return
		}
	}

	h.logger.Info("all websocket connections closed", zap.Int("count", len(clients)))
}

// feedClient is one event feed connection. The write loop owns the
// connection and closes it on exit, which also ends the read loop.
type feedClient struct {
	conn   *websocket.Conn
	sub    *events.Subscription
	kinds  map[string]bool // empty means every kind
	cancel context.CancelFunc
	done   chan struct{}
	logger *zap.Logger
}

func (c *feedClient) wants(kind string) bool {
	return len(c.kinds) == 0 || c.kinds[kind]
}

// readLoop drains client frames so pongs and close frames are handled.
func (c *feedClient) readLoop() {
	defer c.cancel()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Debug("failed to set read deadline", zap.Error(err))
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}
	}
}

func (c *feedClient) writeLoop(ctx context.Context) {
	ping := time.NewTicker(pingPeriod)

	defer func() {
		ping.Stop()
		c.sub.Close()
		if err := c.conn.Close(); err != nil {
			c.logger.Debug("error closing connection", zap.Error(err))
		}
		close(c.done)
	}()

	for {
		select {
		case <-ctx.Done():
			c.close("server shutting down")
			return
		case event, ok := <-c.sub.Events():
			if !ok {
				c.close("event feed closed")
				return
			}
			if !c.wants(event.Kind) {
				continue
			}
			if err := c.write(func() error { return c.conn.WriteJSON(event) }); err != nil {
				c.logger.Debug("failed to send event", zap.Error(err))
				return
			}
		case <-ping.C:
			if err := c.write(func() error { return c.conn.WriteMessage(websocket.PingMessage, nil) }); err != nil {
				c.logger.Debug("failed to send ping", zap.Error(err))
				return
			}
		}
	}
}

// write runs send under a fresh write deadline.
func (c *feedClient) write(send func() error) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return send()
}

func (c *feedClient) close(reason string) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
	if err := c.write(func() error { return c.conn.WriteMessage(websocket.CloseMessage, msg) }); err != nil {
		c.logger.Debug("failed to send close message", zap.Error(err))
	}
}

// parseKinds parses the kind filter of the event feed. An empty value
// selects every kind.
func parseKinds(raw string) (map[string]bool, error) {
	kinds := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		kind := strings.ToLower(strings.TrimSpace(part))
		switch kind {
		case "":
		case model.KindProduct, model.KindRecord:
			kinds[kind] = true
		default:
			return nil, fmt.Errorf("unknown event kind %q", part)
		}
	}
	return kinds, nil
}

func kindList(kinds map[string]bool) []string {
	if len(kinds) == 0 {
		return []string{"*"}
	}
	out := make([]string, 0, len(kinds))
	for _, kind := range []string{model.KindProduct, model.KindRecord} {
		if kinds[kind] {
			out = append(out, kind)
		}
	}
	return out
}
