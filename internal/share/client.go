package share

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"SketchBoard/internal/state"
)

// Client is a guest's connection to a host hub.
type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex
	log  *slog.Logger
}

// Dial connects to the hub at addr ("host:port").
func Dial(ctx context.Context, addr string) (*Client, error) {
	url := "ws://" + addr + Path
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &Client{
		conn: conn,
		log:  slog.Default().With("component", "share", "host", addr),
	}, nil
}

// LocalAddr returns this side's address, usable as a display name.
func (c *Client) LocalAddr() string {
	return c.conn.LocalAddr().String()
}

// Send forwards a local op to the host.
func (c *Client) Send(op state.Op) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(op); err != nil {
		return fmt.Errorf("send %s: %w", op.Type, err)
	}
	return nil
}

// Listen hands every op from the host to onOp until the connection ends,
// returning the error that ended it.
func (c *Client) Listen(onOp func(state.Op)) error {
	for {
		var op state.Op
		if err := c.conn.ReadJSON(&op); err != nil {
			return fmt.Errorf("disconnected from host: %w", err)
		}
		onOp(op)
	}
}

// Close closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	return c.conn.Close()
}
