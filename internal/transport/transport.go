package transport

// ConnectOptions carries everything a transport needs to open a broker
// session. Credentials arrive already resolved; when Username or Password
// is empty the session is anonymous and ClientID alone identifies it.
type ConnectOptions struct {
	// Server is the broker hostname or IP.
	Server string

	// Port is the broker TCP port.
	Port int

	// ClientID identifies the session to the broker.
	ClientID string

	// Username and Password authenticate the session when both are
	// non-empty.
	Username string
	Password string

	// Will, when non-nil, is registered with the broker at connect time
	// and delivered by the broker if the session dies without a graceful
	// disconnect.
	Will *Will
}

// Will is a broker-managed last-will message.
type Will struct {
	Topic   string
	Payload []byte
}

// Message is a single inbound broker message.
type Message struct {
	Topic   string
	Payload []byte
}

// Client is the broker transport collaborator.
//
// Implementations own the socket, TLS, and keep-alive framing. They buffer
// inbound messages internally; the connection manager collects them with
// Drain from its tick, so handler code always runs on the tick goroutine.
type Client interface {
	// Connect opens a session and returns synchronously: nil means the
	// handshake completed, an error means the session is not open. There
	// is no in-flight state observable to the caller.
	Connect(opts ConnectOptions) error

	// Connected reports whether the session is currently open.
	Connected() bool

	// Subscribe asks the broker to deliver messages on the fully
	// qualified topic to this session.
	Subscribe(topic string) error

	// Publish sends payload to the fully qualified topic.
	Publish(topic string, payload []byte) error

	// Disconnect closes the session. Safe to call when not connected.
	Disconnect()

	// Drain delivers every buffered inbound message to fn, in arrival
	// order, and returns how many were delivered. It never blocks
	// waiting for new messages.
	Drain(fn func(msg Message)) int
}
