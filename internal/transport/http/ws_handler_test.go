package http

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
)

type wsClient struct {
	t    *testing.T
	ctx  context.Context
	conn *websocket.Conn
}

func dialWS(t *testing.T, ctx context.Context, url string) *wsClient {
	t.Helper()

	conn, _, err := websocket.Dial(ctx, strings.Replace(url, "http", "ws", 1)+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.CloseNow() })
	return &wsClient{t: t, ctx: ctx, conn: conn}
}

func (c *wsClient) sendLine(line string) {
	c.t.Helper()
	if err := c.conn.Write(c.ctx, websocket.MessageText, []byte(line)); err != nil {
		c.t.Fatalf("write %q: %v", line, err)
	}
}

// expectLine reads frames until the expected line arrives.
func (c *wsClient) expectLine(want string) {
	c.t.Helper()
	for {
		_, data, err := c.conn.Read(c.ctx)
		if err != nil {
			c.t.Fatalf("waiting for %q: %v", want, err)
		}
		if string(data) == want {
			return
		}
	}
}

func TestWebSocketSpeaksLineProtocol(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, _, router := newTestRouter()
	srv := httptest.NewServer(router)
	defer srv.Close()

	alice := dialWS(t, ctx, srv.URL)
	alice.expectLine("enter a nickname:")
	alice.sendLine("alice")
	alice.expectLine("list rooms : /list")

	alice.sendLine("/create")
	alice.expectLine("room 1 created.")
	alice.expectLine("alice has joined")

	bob := dialWS(t, ctx, srv.URL)
	bob.expectLine("enter a nickname:")
	bob.sendLine("bob")
	bob.sendLine("/join 1")
	bob.expectLine("bob has joined")
	alice.expectLine("bob has joined")

	alice.sendLine("hello over ws")
	bob.expectLine("alice : hello over ws")
}

func TestWebSocketByeDeliversGoodbye(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, _, router := newTestRouter()
	srv := httptest.NewServer(router)
	defer srv.Close()

	client := dialWS(t, ctx, srv.URL)
	client.expectLine("enter a nickname:")
	client.sendLine("alice")
	client.expectLine("list rooms : /list")

	// The farewell must be flushed before the connection closes.
	client.sendLine("/bye")
	client.expectLine("goodbye.")
}

func TestWebSocketAndRegistryShareNicknameSpace(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	registry, _, router := newTestRouter()
	srv := httptest.NewServer(router)
	defer srv.Close()

	if err := registry.Register("alice", nopChannel{}); err != nil {
		t.Fatalf("register: %v", err)
	}

	client := dialWS(t, ctx, srv.URL)
	client.expectLine("enter a nickname:")
	client.sendLine("alice")
	client.expectLine("that nickname is already in use, pick another one.")
	client.sendLine("alice-ws")
	client.expectLine("list rooms : /list")
}
