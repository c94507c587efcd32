package ipc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
)

// Handler processes a received envelope. Return nil to send no reply.
type Handler func(ctx context.Context, env Envelope) (*Envelope, error)

// Connection is one game client session. The player is known once the
// hello handshake has been handled.
type Connection struct {
	conn     net.Conn
	handlers map[string]Handler
	Player   string
}

func NewConnection(conn net.Conn, handlers map[string]Handler) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	return &Connection{
		conn:     conn,
		handlers: handlers,
	}
}

func (c *Connection) RegisterHandler(msgType string, handler Handler) {
	c.handlers[msgType] = handler
}

// ReadLoop serves requests until the client disconnects or ctx is done, and
// closes the connection on return. A failing or panicking handler costs only
// its own request.
func (c *Connection) ReadLoop(ctx context.Context) {
	defer c.conn.Close()

	stop := context.AfterFunc(ctx, func() { c.conn.Close() })
	defer stop()

	for {
		env, err := ReadEnvelope(c.conn)
		if err != nil {
			slog.Info("connection read ended", "player", c.Player, "error", err)
			return
		}

		handler, ok := c.handlers[env.Type]
		if !ok {
			slog.Warn("no handler for message type", "type", env.Type, "player", c.Player)
			continue
		}

		resp, err := dispatch(ctx, handler, env)
		if err != nil {
			slog.Error("handler error", "type", env.Type, "player", c.Player, "error", err)
			continue
		}
		if resp == nil {
			continue
		}
		if err := WriteEnvelope(c.conn, *resp); err != nil {
			slog.Error("failed to send response", "type", resp.Type, "player", c.Player, "error", err)
			return
		}
		slog.Debug("sent response", "type", resp.Type, "player", c.Player)
	}
}

func dispatch(ctx context.Context, h Handler, env Envelope) (resp *Envelope, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp, err = nil, fmt.Errorf("%s handler panicked: %v", env.Type, r)
		}
	}()
	return h(ctx, env)
}
