package core

// Channel is the write side of one connected client. Implementations own
// an outbound queue drained by their own writer, so SendLine never blocks
// on the peer's socket.
type Channel interface {
	// SendLine queues one line of text for delivery to the client.
	// ErrChannelClosed means the client is gone.
	SendLine(line string) error
	// Close tears the channel down. Safe to call more than once.
	Close() error
}
