package core

import "sync"

// recordChannel captures every line sent to it. Flipping fail makes it
// behave like a dead client.
type recordChannel struct {
	mu    sync.Mutex
	lines []string
	fail  bool
}

func (c *recordChannel) SendLine(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return ErrChannelClosed
	}
	c.lines = append(c.lines, line)
	return nil
}

func (c *recordChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fail = true
	return nil
}

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
