package websocket

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"attendcli/internal/config"
)

// writeWait is the time allowed to write one message to the peer.
const writeWait = 10 * time.Second

// maxMessageSize caps inbound frames; clients only ever send heartbeats.
const maxMessageSize = 512

// Client sits between one websocket connection and the hub.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	id          string
	remoteAddr  string
	connectedAt time.Time
	pingPeriod  time.Duration
	pongWait    time.Duration
	logger      *slog.Logger
}

// Upgrader builds a websocket upgrader from configuration.
func Upgrader(cfg config.WebSocketConfig) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
	}
}

// ServeWS upgrades an HTTP request and attaches the connection to the hub.
func ServeWS(hub *Hub, cfg config.WebSocketConfig, logger *slog.Logger) http.HandlerFunc {
	upgrader := Upgrader(cfg)
	if logger == nil {
		logger = slog.Default()
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("websocket upgrade failed",
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("error", err.Error()))
			return
		}

		id := uuid.NewString()
		client := &Client{
			hub:         hub,
			conn:        conn,
			send:        make(chan []byte, 256),
			id:          id,
			remoteAddr:  conn.RemoteAddr().String(),
			connectedAt: time.Now(),
			pingPeriod:  cfg.PingPeriod,
			pongWait:    cfg.PongWait,
			logger: logger.With(
				slog.String("component", "websocket.client"),
				slog.String("client_id", id)),
		}

		hub.register <- client

		go client.writePump()
		go client.readPump()
	}
}

// readPump drains inbound frames. Clients only send heartbeats, so its real
// job is detecting disconnects and keeping the read deadline fresh.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("unexpected close",
					slog.String("error", err.Error()))
			}
			return
		}
	}
}

// writePump relays hub messages to the peer and keeps the connection alive
// with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Debug("write failed",
					slog.String("error", err.Error()))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
