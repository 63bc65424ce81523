package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// Event types pushed to connected clients.
const (
	TypeConnection      = "connection"
	TypeAnalysisStarted = "analysis:started"
	TypeAnalysisLoaded  = "analysis:loaded"
	TypeAnalysisFailed  = "analysis:failed"
	TypeExportCompleted = "export:completed"
	TypeExportFailed    = "export:failed"
	TypeError           = "error"
)

// Message is the envelope every pushed event travels in.
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// Hub maintains the set of active clients and broadcasts events to them.
// Slow clients are dropped rather than allowed to stall the broadcast loop.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu      sync.RWMutex
	logger  *slog.Logger
	quit    chan struct{}
	running bool
}

// NewHub creates a hub. Call Start before serving connections.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger.With(slog.String("component", "websocket.hub")),
		quit:       make(chan struct{}),
	}
}

// Start launches the hub loop. Calling Start twice is a no-op.
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.run()
}

// Stop shuts the hub loop down and disconnects every client.
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)
}

func (h *Hub) run() {
	for {
		select {
		case <-h.quit:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("hub stopped")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()

			h.logger.Info("client registered",
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr),
				slog.Int("total_clients", count))

			if data, err := json.Marshal(Message{
				Type:      TypeConnection,
				Data:      map[string]string{"status": "connected", "client_id": client.id},
				Timestamp: time.Now().Format(time.RFC3339),
			}); err == nil {
				select {
				case client.send <- data:
				default:
				}
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()

			h.logger.Info("client unregistered",
				slog.String("client_id", client.id),
				slog.Duration("connection_duration", time.Since(client.connectedAt)),
				slog.Int("total_clients", count))

		case message := <-h.broadcast:
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				clients = append(clients, client)
			}
			h.mu.RUnlock()

			for _, client := range clients {
				select {
				case client.send <- message:
				default:
					// Buffer full: the client is too slow, cut it loose.
					h.logger.Warn("dropping slow client",
						slog.String("client_id", client.id))
					h.unregisterClient(client)
				}
			}
		}
	}
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

// Publish marshals an event into the standard envelope and broadcasts it.
// Events published while the hub is stopped or saturated are dropped.
func (h *Hub) Publish(event string, payload interface{}) {
	data, err := json.Marshal(Message{
		Type:      event,
		Data:      payload,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		h.logger.Error("failed to marshal event",
			slog.String("event", event),
			slog.String("error", err.Error()))
		return
	}

	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("broadcast channel full, event dropped",
			slog.String("event", event))
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
