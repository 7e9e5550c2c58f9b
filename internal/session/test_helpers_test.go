package session

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/linechat/linechat-server/internal/core"
)

// script feeds a session's input line by line. Closing it reads as a
// client disconnect.
type script struct {
	lines chan string
}

func newScript() *script {
	return &script{lines: make(chan string, 16)}
}

func (s *script) ReadLine() (string, error) {
	line, ok := <-s.lines
	if !ok {
		return "", io.EOF
	}
	return line, nil
}

func (s *script) push(line string) { s.lines <- line }
func (s *script) disconnect()      { close(s.lines) }

// recordChannel captures everything the server sends to one client.
type recordChannel struct {
	mu    sync.Mutex
	lines []string
}

func (c *recordChannel) SendLine(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, line)
	return nil
}

func (c *recordChannel) Close() error { return nil }

func (c *recordChannel) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}

func (c *recordChannel) countOf(line string) int {
	n := 0
	for _, l := range c.Lines() {
		if l == line {
			n++
		}
	}
	return n
}

func mustLine(t *testing.T, ch *recordChannel, line string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if ch.countOf(line) > 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected line %q not received, got %v", line, ch.Lines())
}

func testLogger() zerolog.Logger { return zerolog.Nop() }

type fixture struct {
	registry  *core.Registry
	directory *core.Directory
}

func newFixture() *fixture {
	return &fixture{
		registry:  core.NewRegistry(),
		directory: core.NewDirectory(),
	}
}

// connect runs a fresh session through authentication and waits for the
// lobby menu, so callers start from a known state.
func (f *fixture) connect(t *testing.T, nick string) (*script, *recordChannel, chan struct{}) {
	t.Helper()

	in := newScript()
	out := &recordChannel{}
	sess := New(f.registry, f.directory, out, in, testLogger())

	done := make(chan struct{})
	go func() {
		sess.Run()
		close(done)
	}()

	in.push(nick)
	mustLine(t, out, lobbyMenu[0])
	return in, out, done
}

func mustDone(t *testing.T, done chan struct{}) {
	t.Helper()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("session did not terminate")
	}
}
