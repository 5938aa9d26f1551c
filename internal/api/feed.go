package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/odds-oracle/internal/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	// Buffer size for outbound messages
	sendBufferSize = 64
)

// MessageTypePrediction tags feed messages carrying a new prediction
const MessageTypePrediction = "prediction"

// FeedMessage is one message pushed to websocket subscribers
type FeedMessage struct {
	Type      string             `json:"type"`
	Payload   *models.Prediction `json:"payload"`
	Timestamp time.Time          `json:"timestamp"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub maintains the set of feed subscribers and broadcasts every new
// prediction to them. It implements service.Publisher.
type Hub struct {
	clients   map[*feedClient]bool
	clientsMu sync.RWMutex

	broadcast  chan *models.Prediction
	register   chan *feedClient
	unregister chan *feedClient
	done       chan struct{}

	logger *logrus.Entry
}

// NewHub creates a new Hub instance
func NewHub(logger *logrus.Logger) *Hub {
	if logger == nil {
		logger = logrus.New()
	}
	return &Hub{
		clients:    make(map[*feedClient]bool),
		broadcast:  make(chan *models.Prediction, 256),
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
		done:       make(chan struct{}),
		logger:     logger.WithField("component", "feed"),
	}
}

// Run starts the hub's main loop and blocks until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.clientsMu.Lock()
			h.clients[c] = true
			count := len(h.clients)
			h.clientsMu.Unlock()
			h.logger.WithFields(logrus.Fields{"client_id": c.id, "clients": count}).Info("Feed client connected")

		case c := <-h.unregister:
			h.removeClient(c)

		case p := <-h.broadcast:
			h.broadcastPrediction(p)
		}
	}
}

// Publish queues a prediction for broadcast. It never blocks; when the
// queue is full the prediction is dropped from the feed.
func (h *Hub) Publish(p *models.Prediction) {
	select {
	case h.broadcast <- p:
	default:
		h.logger.WithField("prediction_id", p.ID.String()).Warn("Feed buffer full, dropping prediction")
	}
}

// ClientCount returns the number of connected subscribers
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the request and subscribes the connection to the feed
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	c := &feedClient{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan FeedMessage, sendBufferSize),
		hub:  h,
	}

	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

func (h *Hub) unregisterClient(c *feedClient) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) removeClient(c *feedClient) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		h.logger.WithFields(logrus.Fields{"client_id": c.id, "clients": len(h.clients)}).Info("Feed client disconnected")
	}
}

func (h *Hub) broadcastPrediction(p *models.Prediction) {
	h.clientsMu.RLock()
	clients := make([]*feedClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	msg := FeedMessage{Type: MessageTypePrediction, Payload: p, Timestamp: time.Now().UTC()}
	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			// too slow to keep up
			h.logger.WithField("client_id", c.id).Warn("Feed client buffer full, disconnecting")
			h.removeClient(c)
		}
	}
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

// feedClient is one websocket subscriber
type feedClient struct {
	id   string
	conn *websocket.Conn
	send chan FeedMessage
	hub  *Hub
}

// readPump discards inbound messages and tracks pongs until the peer goes away
func (c *feedClient) readPump() {
	defer func() {
		c.hub.unregisterClient(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.WithError(err).WithField("client_id", c.id).Debug("Feed client closed unexpectedly")
			}
			return
		}
	}
}

// writePump pushes queued messages and pings to the peer
func (c *feedClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
