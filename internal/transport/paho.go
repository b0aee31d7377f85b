package transport

import (
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// Connection constants.
const (
	// defaultConnectTimeout is the maximum time Connect blocks for the
	// broker handshake before reporting failure.
	defaultConnectTimeout = 10 * time.Second

	// defaultOpTimeout is the maximum time to wait for subscribe and
	// publish acknowledgements.
	defaultOpTimeout = 5 * time.Second

	// defaultDisconnectQuiesce is the time allowed for pending
	// operations on disconnect, in milliseconds.
	defaultDisconnectQuiesce = 250

	// defaultKeepAlive is the MQTT keep-alive interval. The paho client
	// services keep-alive on its own goroutine; the tick loop only
	// drains inbound messages.
	defaultKeepAlive = 60 * time.Second

	// qos is the delivery level for all subscriptions and publishes.
	// The node adds no delivery guarantees of its own on top.
	qos byte = 1
)

// Logger is the optional logging interface used by Paho.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Paho implements Client on github.com/eclipse/paho.mqtt.golang.
//
// Automatic reconnection is deliberately disabled: the connection
// manager's tick loop owns retry policy, and a transport that silently
// reconnects behind its back would break the manager's state machine.
//
// Thread Safety:
//   - All methods are safe for concurrent use, but Drain is intended to
//     be called from a single goroutine (the tick loop).
type Paho struct {
	mu     sync.Mutex
	client pahomqtt.Client
	inbox  *inbox
	logger Logger
}

// NewPaho returns an unconnected Paho transport.
func NewPaho() *Paho {
	return &Paho{
		inbox:  newInbox(),
		logger: noopLogger{},
	}
}

// SetLogger sets a logger for dropped-message and teardown diagnostics.
func (p *Paho) SetLogger(logger Logger) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logger = logger
}

// Connect opens a broker session according to opts.
//
// The call blocks until the handshake completes or times out; on failure
// no session exists and the previous session, if any, is already closed.
func (p *Paho) Connect(opts ConnectOptions) error {
	clientOpts := buildClientOptions(opts)

	p.mu.Lock()
	// Tear down any previous session so a reconnect starts clean.
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(defaultDisconnectQuiesce)
	}
	client := pahomqtt.NewClient(clientOpts)
	p.client = client
	p.mu.Unlock()

	token := client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrConnectFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrConnectFailed, err)
	}

	return nil
}

// buildClientOptions translates ConnectOptions into paho options.
//
// Auto-reconnect and connect-retry stay off: failure surfaces to the
// caller and the tick loop decides when to try again.
func buildClientOptions(opts ConnectOptions) *pahomqtt.ClientOptions {
	clientOpts := pahomqtt.NewClientOptions()

	clientOpts.AddBroker(fmt.Sprintf("tcp://%s:%d", opts.Server, opts.Port))
	clientOpts.SetClientID(opts.ClientID)

	if opts.Username != "" && opts.Password != "" {
		clientOpts.SetUsername(opts.Username)
		clientOpts.SetPassword(opts.Password)
	}

	clientOpts.SetCleanSession(true)
	clientOpts.SetAutoReconnect(false)
	clientOpts.SetConnectRetry(false)
	clientOpts.SetConnectTimeout(defaultConnectTimeout)
	clientOpts.SetKeepAlive(defaultKeepAlive)

	if opts.Will != nil {
		clientOpts.SetBinaryWill(opts.Will.Topic, opts.Will.Payload, qos, true)
	}

	return clientOpts
}

// Connected reports whether the broker session is open.
func (p *Paho) Connected() bool {
	p.mu.Lock()
	client := p.client
	p.mu.Unlock()

	return client != nil && client.IsConnected()
}

// Subscribe registers interest in a fully qualified topic. Received
// messages are buffered and handed out on the next Drain.
func (p *Paho) Subscribe(topic string) error {
	if topic == "" {
		return ErrInvalidTopic
	}

	p.mu.Lock()
	client := p.client
	p.mu.Unlock()

	if client == nil || !client.IsConnected() {
		return ErrNotConnected
	}

	token := client.Subscribe(topic, qos, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		if !p.inbox.put(Message{Topic: msg.Topic(), Payload: msg.Payload()}) {
			p.logger.Warn("inbox full, dropping message",
				"topic", msg.Topic(),
				"dropped_total", p.inbox.droppedCount(),
			)
		}
	})
	if !token.WaitTimeout(defaultOpTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrSubscribeFailed, defaultOpTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}

	return nil
}

// Publish sends payload to a fully qualified topic.
func (p *Paho) Publish(topic string, payload []byte) error {
	if topic == "" {
		return ErrInvalidTopic
	}

	p.mu.Lock()
	client := p.client
	p.mu.Unlock()

	if client == nil || !client.IsConnected() {
		return ErrNotConnected
	}

	token := client.Publish(topic, qos, false, payload)
	if !token.WaitTimeout(defaultOpTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultOpTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}

// Disconnect closes the session, allowing a short quiesce for pending
// operations. Safe to call when already disconnected.
func (p *Paho) Disconnect() {
	p.mu.Lock()
	client := p.client
	p.mu.Unlock()

	if client != nil && client.IsConnected() {
		client.Disconnect(defaultDisconnectQuiesce)
	}
}

// Drain delivers buffered inbound messages to fn in arrival order.
func (p *Paho) Drain(fn func(msg Message)) int {
	return p.inbox.drain(fn)
}
