package server

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// conn serializes writes to one websocket; replies arrive from timer goroutines
type conn struct {
	id     string
	ws     *websocket.Conn
	logger *slog.Logger
	mu     sync.Mutex
	closed bool
}

func (c *conn) send(frame ServerFrame) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("connection is closed")
	}
	if err := c.ws.WriteJSON(frame); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

func (c *conn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.ws.Close()
	c.logger.Info("closed widget connection", "conn_id", c.id)
}
