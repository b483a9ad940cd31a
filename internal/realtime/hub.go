// Package realtime pushes events to connected clients over websockets.
package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"pocaswap-api/internal/core"
	"pocaswap-api/internal/models"

	"github.com/rs/zerolog"
)

const defaultBroadcastBufferSize = 256

// broadcastMessage is one payload addressed to a set of users.
type broadcastMessage struct {
	userIDs []string
	message []byte
}

// Hub tracks connections per user. Only the Run goroutine writes to a
// client's send channel or closes it.
type Hub struct {
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMessage
	stopped    chan struct{}

	logger zerolog.Logger
}

var _ core.EventPublisher = (*Hub)(nil)

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMessage, defaultBroadcastBufferSize),
		stopped:    make(chan struct{}),
		logger:     logger,
	}
}

// Run is the hub's event loop. It returns when ctx is done, after closing
// every connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)
	h.logger.Info().Msg("Websocket hub started")

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, set := range h.clients {
		for client := range set {
			close(client.send)
		}
	}
	h.clients = make(map[string]map[*Client]struct{})
	h.logger.Info().Msg("Websocket hub stopped")
}

// Register adds a client. If the hub has stopped the connection is closed.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.stopped:
		_ = client.conn.Close()
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stopped:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[client.userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[client.userID] = set
	}
	set[client] = struct{}{}

	h.logger.Debug().Str("user_id", client.userID).Int("user_connections", len(set)).Msg("Websocket client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
	close(client.send)

	h.logger.Debug().Str("user_id", client.userID).Msg("Websocket client unregistered")
}

func (h *Hub) deliver(msg broadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, userID := range msg.userIDs {
		for client := range h.clients[userID] {
			select {
			case client.send <- msg.message:
			default:
				h.logger.Warn().Str("user_id", userID).Msg("Websocket send buffer full, dropping event")
			}
		}
	}
}

// PublishToUsers queues event for every connection of the given users.
// It never blocks; events are dropped when the hub is saturated or stopped.
func (h *Hub) PublishToUsers(userIDs []string, event models.RealtimeEvent) {
	if len(userIDs) == 0 {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("event", event.Type).Msg("Failed to encode realtime event")
		return
	}

	select {
	case h.broadcast <- broadcastMessage{userIDs: userIDs, message: data}:
	case <-h.stopped:
	default:
		h.logger.Warn().Str("event", event.Type).Msg("Websocket broadcast queue full, dropping event")
	}
}

// ConnectionCount returns the number of open connections for userID.
func (h *Hub) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// OnlineUsers returns how many distinct users are connected.
func (h *Hub) OnlineUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
