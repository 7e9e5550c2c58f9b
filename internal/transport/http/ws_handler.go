package http

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/linechat/linechat-server/internal/core"
	"github.com/linechat/linechat-server/internal/session"
)

// wsHandler upgrades the connection and runs a chat session over it.
// One websocket text frame carries one protocol line, so a browser
// client speaks exactly the same dialogue as a TCP one.
func wsHandler(registry *core.Registry, directory *core.Directory, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error().Err(err).Msg("ws accept error")
			return
		}

		sessLog := logger.With().
			Str("conn_id", uuid.NewString()).
			Str("transport", "ws").
			Logger()
		sessLog.Info().Msg("client connected")

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		wc := newWSChannel(ctx, conn)
		session.New(registry, directory, wc, wc, sessLog).Run()

		sessLog.Info().Msg("client disconnected")
	}
}

const wsOutboundBuffer = 64

// wsChannel adapts a websocket conn to the session layer's line reader
// and channel, mirroring the TCP transport's queue-and-writer shape.
type wsChannel struct {
	ctx    context.Context
	cancel context.CancelFunc
	conn   *websocket.Conn

	outbound chan string
	closed   chan struct{}
	once     sync.Once
}

func newWSChannel(ctx context.Context, conn *websocket.Conn) *wsChannel {
	ctx, cancel := context.WithCancel(ctx)
	c := &wsChannel{
		ctx:      ctx,
		cancel:   cancel,
		conn:     conn,
		outbound: make(chan string, wsOutboundBuffer),
		closed:   make(chan struct{}),
	}
	go c.writeLoop()
	return c
}

// writeLoop is the only goroutine that writes frames. It owns the final
// close, after flushing whatever was queued when the channel shut down,
// so a goodbye sent just before /bye terminates still goes out.
func (c *wsChannel) writeLoop() {
	defer func() {
		c.cancel()
		_ = c.conn.Close(websocket.StatusNormalClosure, "closing")
	}()
	for {
		select {
		case line := <-c.outbound:
			if err := c.write(line); err != nil {
				_ = c.Close()
				return
			}
		case <-c.closed:
			for {
				select {
				case line := <-c.outbound:
					if err := c.write(line); err != nil {
						return
					}
				default:
					return
				}
			}
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *wsChannel) write(line string) error {
	ctx, cancel := context.WithTimeout(c.ctx, 10*time.Second)
	defer cancel()
	return c.conn.Write(ctx, websocket.MessageText, []byte(line))
}

func (c *wsChannel) SendLine(line string) error {
	select {
	case <-c.closed:
		return core.ErrChannelClosed
	default:
	}
	select {
	case c.outbound <- line:
		return nil
	default:
		_ = c.Close()
		return core.ErrChannelClosed
	}
}

// ReadLine blocks for the next text frame.
func (c *wsChannel) ReadLine() (string, error) {
	for {
		typ, data, err := c.conn.Read(c.ctx)
		if err != nil {
			return "", err
		}
		if typ != websocket.MessageText {
			continue
		}
		return string(data), nil
	}
}

// Close shuts the channel down; pending outbound lines are flushed and
// the context cancellation fails any blocked read.
func (c *wsChannel) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}
