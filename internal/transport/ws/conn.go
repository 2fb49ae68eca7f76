package ws

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait    = 5 * time.Second
	pingEvery    = 15 * time.Second
	maxFrameSize = 1 << 20
)

// wsConn wraps a gorilla connection with serialized writes. Reads stay on
// the owning session goroutine; writes can come from any session that looked
// this handle up in the hub.
type wsConn struct {
	conn   *websocket.Conn
	sendMu chan struct{}
	closed chan struct{}
}

func newWsConn(c *websocket.Conn) *wsConn {
	return &wsConn{
		conn:   c,
		sendMu: make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

func (c *wsConn) SendJSON(v any) error {
	c.sendMu <- struct{}{}
	defer func() { <-c.sendMu }()

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

func (c *wsConn) SendRaw(data []byte) error {
	c.sendMu <- struct{}{}
	defer func() { <-c.sendMu }()

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsConn) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}
	return c.conn.Close()
}

// Read blocks for the next inbound text frame.
func (c *wsConn) Read() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	return data, err
}

// closePolicyViolation sends a 1008 close frame before dropping the
// connection; used when the join handshake is rejected.
func (c *wsConn) closePolicyViolation() {
	msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "")
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
