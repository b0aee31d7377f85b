package platform

// Provider exposes the hardware and network facts a node reports about
// itself. Core logic depends on this interface and never branches on the
// deployment target; each target ships one implementation.
//
// Numeric values use a zero sentinel for "unset": a provider that cannot
// measure signal strength returns 0 and the status snapshot carries it
// through unchanged.
type Provider interface {
	// ChipType is the coarse platform family (e.g. "ESP32", "linux").
	ChipType() string

	// ChipModel is the specific model or host description.
	ChipModel() string

	// ChipID is a stable hardware identifier for display.
	ChipID() string

	// FreeHeap returns free heap bytes, or 0 when unknown.
	FreeHeap() uint64

	// SignalStrength returns the link signal in dBm, or 0 when unknown.
	SignalStrength() int

	// LocalIP returns the primary local IP address as a string,
	// or "" when the node has no usable address.
	LocalIP() string
}

// Clock provides the monotonic millisecond counter that drives interval
// arithmetic. The counter is expected to wrap around; consumers must
// compare elapsed time with Elapsed, never by ordering two readings.
type Clock interface {
	// Millis returns milliseconds since an arbitrary epoch, wrapping
	// at the uint32 boundary (roughly every 49.7 days).
	Millis() uint32
}

// Elapsed returns the milliseconds elapsed from since to now.
//
// Unsigned subtraction makes the result correct across counter
// wraparound: with now=5 and since=4294967291 the elapsed time is 10.
func Elapsed(now, since uint32) uint32 {
	return now - since
}
