package node

import (
	"context"
	"fmt"
	"strconv"

	"github.com/nerrad567/gray-logic-node/internal/platform"
	"github.com/nerrad567/gray-logic-node/internal/transport"
)

// Parameter store keys the manager resolves at connect time. The same
// keys are declared to the provisioning portal, so a completed
// provisioning session is immediately usable on the next tick's connect.
const (
	ParamServer = "mqtt_server"
	ParamPort   = "mqtt_port"
	ParamUser   = "mqtt_user"
	ParamPass   = "mqtt_pass"
)

// defaultBrokerPort is used when mqtt_port is unset or unparsable.
const defaultBrokerPort = 1883

// Logger defines the logging interface used by this package.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// State is the broker session lifecycle state, owned exclusively by the
// Manager. No other component mutates it.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

// String returns the lowercase state name for logging.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// CredentialSource resolves provisioned parameter values. The parameter
// store implements it; tests substitute fixed maps.
type CredentialSource interface {
	Get(key string) string
}

// Config carries the manager's identity and reporting cadence.
type Config struct {
	// DeviceID is this node's identifier, used as the broker client ID
	// and as the second segment of every topic path.
	DeviceID string

	// TopicPrefix is the first segment of every topic path.
	TopicPrefix string

	// StatusInterval is the minimum time between periodic snapshots,
	// in monotonic milliseconds.
	StatusInterval uint32

	// AutoStatus enables interval-gated snapshot publishing from Tick.
	AutoStatus bool
}

// Manager owns the broker session lifecycle and inbound dispatch.
//
// It is a cooperative state machine: nothing progresses unless Tick is
// invoked repeatedly by an external loop. Connect and Disconnect return
// synchronously; there is no internal retry timer — a failed connect
// leaves the manager Disconnected and the next Tick tries again.
//
// The Manager, its Registry, and its Reporter all run on the tick
// goroutine and are unsynchronised by design.
type Manager struct {
	transport transport.Client
	creds     CredentialSource
	registry  *Registry
	reporter  *Reporter
	clock     platform.Clock
	topics    Topics
	logger    Logger

	state             State
	statusInterval    uint32
	autoStatus        bool
	lastStatusPublish uint32
}

// NewManager wires a connection manager from its collaborators.
// A nil transport is allowed; every operation then reports ErrNoTransport
// until one is attached.
func NewManager(cfg Config, t transport.Client, creds CredentialSource, registry *Registry, provider platform.Provider, clock platform.Clock) *Manager {
	topics := Topics{Prefix: cfg.TopicPrefix, DeviceID: cfg.DeviceID}
	m := &Manager{
		transport:      t,
		creds:          creds,
		registry:       registry,
		clock:          clock,
		topics:         topics,
		logger:         noopLogger{},
		state:          StateDisconnected,
		statusInterval: cfg.StatusInterval,
		autoStatus:     cfg.AutoStatus,
	}
	m.reporter = NewReporter(m, t, provider, clock, topics)
	return m
}

// SetLogger sets the logger for the manager.
func (m *Manager) SetLogger(logger Logger) {
	m.logger = logger
}

// Reporter returns the status reporter, for attaching sinks and
// publishing command responses.
func (m *Manager) Reporter() *Reporter {
	return m.reporter
}

// State returns the current session state.
func (m *Manager) State() State {
	return m.state
}

// Topics returns the topic builder for this device.
func (m *Manager) Topics() Topics {
	return m.topics
}

// Connect attempts to open the broker session.
//
// Credentials come from the parameter store: when both mqtt_user and
// mqtt_pass are non-empty the session authenticates with them, otherwise
// it is anonymous with the device ID as session identifier. The offline
// notice is registered as the broker last-will so ungraceful loss is
// announced without the node's help.
//
// On success the manager subscribes every registered topic in
// registration order — a failed subscription is logged and does not
// abort the rest or the transition — then publishes the online notice.
// On failure the state returns to Disconnected; retrying is the tick
// loop's job.
func (m *Manager) Connect() error {
	if m.transport == nil {
		return ErrNoTransport
	}

	m.state = StateConnecting

	server := m.creds.Get(ParamServer)
	port := defaultBrokerPort
	if v, err := strconv.Atoi(m.creds.Get(ParamPort)); err == nil && v > 0 {
		port = v
	}

	opts := transport.ConnectOptions{
		Server:   server,
		Port:     port,
		ClientID: m.topics.DeviceID,
		Will: &transport.Will{
			Topic:   m.topics.Offline(),
			Payload: m.reporter.OfflinePayload(),
		},
	}
	user := m.creds.Get(ParamUser)
	pass := m.creds.Get(ParamPass)
	if user != "" && pass != "" {
		opts.Username = user
		opts.Password = pass
	}

	m.logger.Info("connecting to broker",
		"server", server,
		"port", port,
		"client_id", m.topics.DeviceID,
		"authenticated", opts.Username != "",
	)

	if err := m.transport.Connect(opts); err != nil {
		m.state = StateDisconnected
		m.reporter.setConnected(false)
		m.logger.Warn("broker connect failed", "error", err)
		return fmt.Errorf("%w: %w", ErrConnectFailed, err)
	}

	m.state = StateConnected
	m.reporter.setConnected(true)
	m.logger.Info("broker connected")

	m.subscribeAll()

	if err := m.reporter.PublishOnline(); err != nil {
		m.logger.Warn("online notice failed", "error", err)
	}

	return nil
}

// subscribeAll subscribes every registered topic in registration order.
func (m *Manager) subscribeAll() {
	for _, t := range m.registry.Topics() {
		full := m.topics.Sub(t.Name)
		if err := m.transport.Subscribe(full); err != nil {
			m.logger.Warn("subscribe failed", "topic", full, "error", err)
			continue
		}
		m.logger.Debug("subscribed", "topic", full)
	}
}

// Disconnect closes the session gracefully, emitting a best-effort
// offline notice before tearing down. Safe to call in any state.
func (m *Manager) Disconnect() {
	if m.transport == nil {
		return
	}

	if m.state == StateConnected && m.transport.Connected() {
		m.reporter.PublishOffline()
	}
	m.transport.Disconnect()

	m.state = StateDisconnected
	m.reporter.setConnected(false)
	m.logger.Info("broker disconnected")
}

// Tick advances the manager by one cycle and must be invoked repeatedly
// by the owning loop.
//
// Not connected: attempt a connect (failure is logged; the next tick
// retries). Connected: detect transport loss, drain and dispatch inbound
// messages, and publish the periodic snapshot when the configured
// interval has elapsed on the monotonic counter. Elapsed time uses
// wraparound-safe unsigned arithmetic.
func (m *Manager) Tick(ctx context.Context) error {
	if m.transport == nil {
		return ErrNoTransport
	}

	if m.state != StateConnected {
		if err := m.Connect(); err != nil {
			m.logger.Debug("connect attempt failed, will retry", "error", err)
		}
		return nil
	}

	if !m.transport.Connected() {
		// Session died since the last tick. No offline notice is
		// possible on this path; the broker delivers the last-will.
		m.state = StateDisconnected
		m.reporter.setConnected(false)
		m.logger.Warn("broker session lost")
		return nil
	}

	m.transport.Drain(func(msg transport.Message) {
		m.dispatch(msg.Topic, msg.Payload)
	})

	if m.autoStatus {
		now := m.clock.Millis()
		if platform.Elapsed(now, m.lastStatusPublish) >= m.statusInterval {
			if err := m.reporter.PublishStatus(ctx); err != nil {
				m.logger.Warn("status publish failed", "error", err)
			}
			m.lastStatusPublish = now
		}
	}

	return nil
}

// Publish sends payload on a relative sub-topic through the open session.
func (m *Manager) Publish(sub string, payload []byte) error {
	if m.transport == nil {
		return ErrNoTransport
	}
	if m.state != StateConnected {
		return ErrNotConnected
	}
	full := m.topics.Sub(sub)
	if err := m.transport.Publish(full, payload); err != nil {
		return err
	}
	m.logger.Debug("published", "topic", full, "bytes", len(payload))
	return nil
}

// SetStatusInterval changes the minimum time between periodic snapshots.
func (m *Manager) SetStatusInterval(intervalMS uint32) {
	m.statusInterval = intervalMS
}

// SetAutoStatus enables or disables periodic snapshot publishing.
func (m *Manager) SetAutoStatus(enabled bool) {
	m.autoStatus = enabled
}
