package params

import "errors"

// Domain-specific errors for parameter store operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrUnknownKey is returned when getting or setting an unregistered key.
	ErrUnknownKey = errors.New("params: unknown key")

	// ErrDuplicateKey is returned when registering a key that already exists.
	// Registration is a no-op in this case; the original entry is untouched.
	ErrDuplicateKey = errors.New("params: key already registered")

	// ErrMalformedFile is returned when the persisted file cannot be parsed.
	// In-memory values are left unchanged.
	ErrMalformedFile = errors.New("params: malformed parameter file")
)
