package tcp

import (
	"bufio"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/linechat/linechat-server/internal/core"
)

const (
	// outboundBuffer is how many lines may queue for one client before it
	// is considered dead.
	outboundBuffer = 64
	writeTimeout   = 10 * time.Second
)

// lineConn adapts a net.Conn to the line-oriented read and write sides
// the session layer works with. Outbound lines pass through a buffered
// queue drained by a single writer goroutine, so a stalled peer never
// blocks whoever is broadcasting to it.
type lineConn struct {
	conn net.Conn
	in   *bufio.Reader

	outbound chan string
	closed   chan struct{}
	once     sync.Once
}

func newLineConn(conn net.Conn) *lineConn {
	c := &lineConn{
		conn:     conn,
		in:       bufio.NewReader(conn),
		outbound: make(chan string, outboundBuffer),
		closed:   make(chan struct{}),
	}
	go c.writeLoop()
	return c
}

// writeLoop is the only goroutine that touches the socket's write side.
// It owns closing the socket, after flushing whatever was queued when
// the channel shut down, so a final goodbye still reaches a politely
// quitting client.
func (c *lineConn) writeLoop() {
	defer func() { _ = c.conn.Close() }()
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
		}
	}
}

func (c *lineConn) write(line string) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_, err := c.conn.Write([]byte(line + "\n"))
	return err
}

// SendLine queues one line for delivery. A client that stopped draining
// its socket fills the queue and is dropped rather than allowed to slow
// everyone else down.
func (c *lineConn) SendLine(line string) error {
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

// ReadLine blocks for the next newline-terminated line, with the line
// ending stripped.
func (c *lineConn) ReadLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Close shuts the channel down; the writer flushes pending lines and
// closes the socket, which also fails any blocked read. Idempotent.
func (c *lineConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}
