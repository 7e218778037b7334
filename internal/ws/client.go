package ws

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/pocketworld/internal/model"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 256
)

// Application close codes, outside the range reserved by RFC 6455
const (
	CloseSessionEnded = 4000
	CloseAuthFailure  = 4001
)

var errClientClosed = errors.New("client closed")

// Client wraps one websocket connection with a buffered outbound queue. All
// writes go through a single writer goroutine, so events queued from one
// goroutine reach the wire in queue order.
type Client struct {
	conn   *websocket.Conn
	send   chan model.ServerEvent
	logger *slog.Logger

	closeOnce   sync.Once
	done        chan struct{}
	closeCode   int
	closeReason string
}

func newClient(conn *websocket.Conn, logger *slog.Logger) *Client {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	return &Client{
		conn:   conn,
		send:   make(chan model.ServerEvent, sendBufferSize),
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Send queues an event for delivery. A client whose buffer is full is too
// far behind to ever catch up, so it is torn down rather than allowed to
// stall or receive a gapped event stream.
func (c *Client) Send(ev model.ServerEvent) error {
	select {
	case <-c.done:
		return errClientClosed
	default:
	}

	select {
	case c.send <- ev:
		return nil
	case <-c.done:
		return errClientClosed
	default:
		c.logger.Warn("send buffer full, dropping client")
		c.CloseWithCode(CloseSessionEnded, "slow_consumer")
		return errClientClosed
	}
}

// Close implements the session-side close with the default application code
func (c *Client) Close(reason string) {
	c.CloseWithCode(CloseSessionEnded, reason)
}

// CloseWithCode signals the writer to emit a close frame and tear the
// connection down. Safe to call more than once; the first caller's code and
// reason win.
func (c *Client) CloseWithCode(code int, reason string) {
	c.closeOnce.Do(func() {
		c.closeCode = code
		c.closeReason = reason
		close(c.done)
	})
}

// ReadMessage blocks for the next inbound frame. The read deadline is
// refreshed by the pong handler; a dead peer surfaces here as a timeout.
func (c *Client) ReadMessage() ([]byte, error) {
	_, raw, err := c.conn.ReadMessage()
	return raw, err
}

// writePump owns all writes to the connection: queued events, keepalive
// pings, and the final close frame.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case ev := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				c.CloseWithCode(CloseSessionEnded, "write_failed")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.CloseWithCode(CloseSessionEnded, "write_failed")
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(c.closeCode, c.closeReason))
			return
		}
	}
}
