package ws

import (
	"github.com/gorilla/websocket"

	"eventsupply_backend/internal/logger"
)

// Client is one websocket connection for one actor. The feed is one-way:
// the server pushes change events, the client refetches over REST.
type Client struct {
	Key     string
	Conn    *websocket.Conn
	Send    chan any
	Manager *Manager
}

// readPump drains the connection so close frames and pings are processed;
// inbound payloads are ignored.
func (c *Client) readPump() {
	defer func() {
		c.Manager.unregister <- c
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			logger.Debug("ws read closed", "key", c.Key, "error", err)
			break
		}
	}
}

func (c *Client) writePump() {
	defer c.Conn.Close()

	for msg := range c.Send {
		if err := c.Conn.WriteJSON(msg); err != nil {
			logger.Debug("ws write error", "key", c.Key, "error", err)
			break
		}
	}
}
