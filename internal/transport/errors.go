package transport

import "errors"

// Domain-specific errors for transport operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrConnectFailed is returned when the broker handshake fails.
	ErrConnectFailed = errors.New("transport: connection failed")

	// ErrNotConnected is returned for operations on a closed session.
	ErrNotConnected = errors.New("transport: not connected")

	// ErrSubscribeFailed is returned when a subscription is rejected.
	ErrSubscribeFailed = errors.New("transport: subscribe failed")

	// ErrPublishFailed is returned when a publish fails or times out.
	ErrPublishFailed = errors.New("transport: publish failed")

	// ErrInvalidTopic is returned when an empty topic is provided.
	ErrInvalidTopic = errors.New("transport: topic cannot be empty")
)
