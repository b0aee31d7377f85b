package node

import "errors"

// Domain-specific errors for the connection manager.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNoTransport is returned when no transport client is bound;
	// every operation is a no-op reporting this failure.
	ErrNoTransport = errors.New("node: no transport bound")

	// ErrNotConnected is returned when publishing without an open
	// broker session.
	ErrNotConnected = errors.New("node: not connected")

	// ErrConnectFailed is returned when the broker rejects the
	// handshake. The manager stays Disconnected; the tick loop owns
	// the retry.
	ErrConnectFailed = errors.New("node: connect failed")
)
