package ws

import (
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/sgmi/production-backend/internal/domain"
)

const sendBufferSize = 32

// Conn is the subset of the websocket connection the hub uses. The
// concrete type in production is *websocket.Conn; tests substitute a
// fake.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

var _ Conn = (*websocket.Conn)(nil)

// Client is one live realtime connection, owned exclusively by the hub.
type Client struct {
	conn   Conn
	userID string
	role   domain.Role

	// alive is guarded by the hub mutex; the liveness sweep clears it
	// and the pong handler sets it.
	alive bool

	send chan []byte
}

func newClient(conn Conn, userID string, role domain.Role) *Client {
	return &Client{
		conn:   conn,
		userID: userID,
		role:   role,
		alive:  true,
		send:   make(chan []byte, sendBufferSize),
	}
}

// writeLoop drains the send channel onto the connection. It exits when
// the hub closes the channel or a write fails; delivery order per
// connection follows enqueue order.
func (c *Client) writeLoop(h *Hub) {
	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.drop(c)
			return
		}
	}
}

// enqueue hands a payload to the writer without blocking. A full buffer
// reports failure so the hub can shed the slow connection.
func (c *Client) enqueue(payload []byte) bool {
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}
