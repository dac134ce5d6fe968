package notification

import (
	"context"
	"sync"
	"time"

	"go-fitstaff/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const sendBuffer = 16

// Conn is the part of a websocket connection the hub writes to
type Conn interface {
	WriteJSON(v interface{}) error
}

type Client struct {
	ID      string
	StaffID string

	conn      Conn
	send      chan Message
	closeOnce sync.Once
}

// Hub fans messages out to connected clients. Slow clients drop messages
// rather than block the sender.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  *zap.Logger
}

func NewHub(lc fx.Lifecycle, log *zap.Logger) *Hub {
	h := &Hub{
		clients: make(map[string]*Client),
		logger:  log,
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			h.CloseAll()
			return nil
		},
	})
	return h
}

// Register adds a connection for staffID and starts its writer
func (h *Hub) Register(staffID string, conn Conn) *Client {
	c := &Client{
		ID:      uuid.NewString(),
		StaffID: staffID,
		conn:    conn,
		send:    make(chan Message, sendBuffer),
	}

	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()

	go h.writePump(c)

	h.logger.Debug("Websocket client registered", zap.String("client_id", c.ID), zap.String(logger.FieldStaffID, staffID))
	return c
}

// Unregister removes c and stops its writer. Safe to call more than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	delete(h.clients, c.ID)
	h.mu.Unlock()

	c.closeOnce.Do(func() { close(c.send) })
}

func (h *Hub) CloseAll() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.Unregister(c)
	}
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Broadcast(event string, payload any) {
	msg := Message{Event: event, Payload: payload, SentAt: time.Now()}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		h.deliver(c, msg)
	}
}

// SendTo delivers to every connection of the given staff members
func (h *Hub) SendTo(staffIDs []string, event string, payload any) {
	if len(staffIDs) == 0 {
		return
	}
	targets := make(map[string]bool, len(staffIDs))
	for _, id := range staffIDs {
		targets[id] = true
	}
	msg := Message{Event: event, Payload: payload, SentAt: time.Now()}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if targets[c.StaffID] {
			h.deliver(c, msg)
		}
	}
}

// deliver must be called with at least the read lock held, which keeps
// Unregister from closing c.send underneath it.
func (h *Hub) deliver(c *Client, msg Message) {
	select {
	case c.send <- msg:
	default:
		h.logger.Warn("Dropping websocket message for slow client",
			zap.String("client_id", c.ID),
			zap.String(logger.FieldStaffID, c.StaffID),
			zap.String("event", msg.Event),
		)
	}
}

func (h *Hub) writePump(c *Client) {
	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			h.logger.Debug("Websocket write failed", zap.String("client_id", c.ID), zap.Error(err))
			go h.Unregister(c)
			// Drain until Unregister closes the channel
			for range c.send {
			}
			return
		}
	}
}
