package services

import (
	"encoding/json"

	"sync"

	"go.uber.org/zap"

	"github.com/mfadhilr/typerace/internal/models"
)

// Hub owns the mapping between live websocket clients and room broadcast
// groups. It implements Broadcaster for the game service. Messages are
// written through each client's buffered send channel, so per-client
// ordering follows the order of Broadcast/SendTo calls.
type Hub struct {
	mu sync.RWMutex
	// rooms: room code -> connID -> client
	rooms map[string]map[string]*Client
	// clients: connID -> client
	clients map[string]*Client
	// membership: connID -> room codes, for cleanup on close
	membership map[string]map[string]struct{}

	metrics *Metrics
	logger  *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(metrics *Metrics, logger *zap.Logger) *Hub {
	return &Hub{
		rooms:      make(map[string]map[string]*Client),
		clients:    make(map[string]*Client),
		membership: make(map[string]map[string]struct{}),
		metrics:    metrics,
		logger:     logger,
	}
}

// AddClient registers a freshly accepted connection.
func (h *Hub) AddClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c.ID] = c
	h.metrics.IncrementConnections()
}

// RemoveClient drops a connection and every room membership it holds.
func (h *Hub) RemoveClient(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[connID]; !ok {
		return
	}
	delete(h.clients, connID)

	for code := range h.membership[connID] {
		if conns, ok := h.rooms[code]; ok {
			delete(conns, connID)
			if len(conns) == 0 {
				delete(h.rooms, code)
			}
		}
	}
	delete(h.membership, connID)
	h.metrics.DecrementConnections()
}

// JoinRoom adds a connection to a room's broadcast group.
func (h *Hub) JoinRoom(code, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[connID]; !ok {
		return
	}
	if h.rooms[code] == nil {
		h.rooms[code] = make(map[string]*Client)
	}
	h.rooms[code][connID] = h.clients[connID]

	if h.membership[connID] == nil {
		h.membership[connID] = make(map[string]struct{})
	}
	h.membership[connID][code] = struct{}{}
}

// LeaveRoom removes a connection from a room's broadcast group.
func (h *Hub) LeaveRoom(code, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.rooms[code]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(h.rooms, code)
		}
	}
	if codes, ok := h.membership[connID]; ok {
		delete(codes, code)
	}
}

// Broadcast sends a message to every connection in a room.
func (h *Hub) Broadcast(code string, msg *models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshaling broadcast", zap.Error(err))
		h.metrics.IncrementBroadcastErrors()
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.rooms[code]))
	for _, c := range h.rooms[code] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.Send(data)
	}
}

// SendTo sends a message to a single connection. Unknown connections are
// ignored; the client may have dropped between the event and the reply.
func (h *Hub) SendTo(connID string, msg *models.WSMessage) {
	h.mu.RLock()
	c, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshaling message", zap.Error(err))
		return
	}
	c.Send(data)
}
