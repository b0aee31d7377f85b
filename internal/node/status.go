package node

import (
	"context"
	"encoding/json"

	"github.com/nerrad567/gray-logic-node/internal/platform"
	"github.com/nerrad567/gray-logic-node/internal/transport"
)

// millisPerSecond converts the monotonic counter to whole seconds of uptime.
const millisPerSecond = 1000

// DeviceStatus is the point-in-time snapshot the node publishes about
// itself. Sensor fields use a zero sentinel for "unset" and are omitted
// from the wire form when unset.
type DeviceStatus struct {
	DeviceID       string `json:"device_id"`
	ChipType       string `json:"chip_type"`
	IsConnected    bool   `json:"is_connected"`
	Uptime         uint32 `json:"uptime"`
	SignalStrength int    `json:"signal_strength"`
	IPAddress      string `json:"ip_address"`
	Timestamp      uint32 `json:"timestamp"`

	// Optional sensor readings, populated by application code through
	// UpdateStatus. Zero means unset.
	Temperature float64 `json:"temperature,omitempty"`
	Humidity    float64 `json:"humidity,omitempty"`
	LightLevel  int     `json:"light_level,omitempty"`

	// LastUpdate is the monotonic millisecond reading of the most
	// recent refresh. Internal; not published.
	LastUpdate uint32 `json:"-"`

	// FreeHeap is collected for the telemetry sink; the published
	// snapshot keeps its fixed wire shape.
	FreeHeap uint64 `json:"-"`
}

// presenceNotice is the lighter payload for online/offline transitions.
type presenceNotice struct {
	DeviceID  string `json:"device_id"`
	Status    string `json:"status"`
	Timestamp uint32 `json:"timestamp"`
	IPAddress string `json:"ip_address,omitempty"`
}

// commandResponse reports the outcome of an executed command.
type commandResponse struct {
	Command   string `json:"command"`
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp uint32 `json:"timestamp"`
}

// Publisher is the full publish path: relative sub-topic in, qualified
// publish out, with connection-state checking. The Manager implements it.
type Publisher interface {
	Publish(sub string, payload []byte) error
}

// Recorder persists published snapshots locally (snapshot history).
type Recorder interface {
	Record(ctx context.Context, status DeviceStatus) error
}

// MetricSink exports snapshot metrics to a time-series backend.
type MetricSink interface {
	WriteStatus(status DeviceStatus)
}

// Reporter builds and publishes device-status snapshots, presence
// notices, and command responses. It is driven by the Manager's tick and
// reads live metrics from the platform provider on every refresh.
//
// Like the Manager, the Reporter runs on the tick goroutine and is not
// synchronised.
type Reporter struct {
	publisher Publisher
	direct    transport.Client
	provider  platform.Provider
	clock     platform.Clock
	topics    Topics
	status    DeviceStatus
	history   Recorder
	metrics   MetricSink
	logger    Logger
}

// NewReporter creates a Reporter for the given device.
//
// publisher is the connection-checked publish path; direct is the raw
// transport used only for the best-effort offline notice, which must be
// able to race session teardown.
func NewReporter(publisher Publisher, direct transport.Client, provider platform.Provider, clock platform.Clock, topics Topics) *Reporter {
	return &Reporter{
		publisher: publisher,
		direct:    direct,
		provider:  provider,
		clock:     clock,
		topics:    topics,
		status: DeviceStatus{
			DeviceID: topics.DeviceID,
			ChipType: provider.ChipType(),
		},
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the reporter.
func (r *Reporter) SetLogger(logger Logger) {
	r.logger = logger
}

// SetHistory attaches a local snapshot recorder. Optional.
func (r *Reporter) SetHistory(history Recorder) {
	r.history = history
}

// SetMetrics attaches a telemetry sink. Optional.
func (r *Reporter) SetMetrics(metrics MetricSink) {
	r.metrics = metrics
}

// Status returns the most recent snapshot.
func (r *Reporter) Status() DeviceStatus {
	return r.status
}

// UpdateStatus merges application-supplied sensor readings into the
// snapshot and refreshes the platform-derived fields.
func (r *Reporter) UpdateStatus(status DeviceStatus) {
	r.status.Temperature = status.Temperature
	r.status.Humidity = status.Humidity
	r.status.LightLevel = status.LightLevel
	r.refresh()
}

// setConnected records the connectivity flag. Owned by the Manager.
func (r *Reporter) setConnected(connected bool) {
	r.status.IsConnected = connected
}

// refresh recomputes the platform-derived snapshot fields.
func (r *Reporter) refresh() {
	now := r.clock.Millis()
	r.status.Uptime = now / millisPerSecond
	r.status.SignalStrength = r.provider.SignalStrength()
	r.status.IPAddress = r.provider.LocalIP()
	r.status.Timestamp = now
	r.status.LastUpdate = now
	r.status.FreeHeap = r.provider.FreeHeap()
}

// PublishStatus refreshes and publishes the full snapshot, then feeds
// the optional history and telemetry sinks. Sink failures are logged and
// do not fail the publish.
func (r *Reporter) PublishStatus(ctx context.Context) error {
	r.refresh()

	payload, err := json.Marshal(r.status)
	if err != nil {
		return err
	}
	if err := r.publisher.Publish(SubStatus, payload); err != nil {
		return err
	}

	if r.history != nil {
		if err := r.history.Record(ctx, r.status); err != nil {
			r.logger.Warn("recording snapshot failed", "error", err)
		}
	}
	if r.metrics != nil {
		r.metrics.WriteStatus(r.status)
	}

	return nil
}

// PublishOnline announces the node's presence after a successful connect.
func (r *Reporter) PublishOnline() error {
	payload, err := json.Marshal(presenceNotice{
		DeviceID:  r.status.DeviceID,
		Status:    "online",
		Timestamp: r.clock.Millis(),
		IPAddress: r.provider.LocalIP(),
	})
	if err != nil {
		return err
	}
	return r.publisher.Publish(SubOnline, payload)
}

// PublishOffline sends the offline notice as a best-effort direct
// publish, bypassing the connection-checked path so it can race session
// teardown. Only the graceful-disconnect path calls this; ungraceful
// loss is covered by the last-will registered at connect time.
func (r *Reporter) PublishOffline() {
	if err := r.direct.Publish(r.topics.Offline(), r.OfflinePayload()); err != nil {
		r.logger.Debug("offline notice not delivered", "error", err)
	}
}

// OfflinePayload returns the minimal offline notice, also registered as
// the transport last-will.
func (r *Reporter) OfflinePayload() []byte {
	payload, err := json.Marshal(presenceNotice{
		DeviceID:  r.status.DeviceID,
		Status:    "offline",
		Timestamp: r.clock.Millis(),
	})
	if err != nil {
		// presenceNotice marshalling cannot fail; keep the will usable.
		return []byte(`{"status":"offline"}`)
	}
	return payload
}

// PublishCommandResponse reports a command's outcome on the response
// topic.
func (r *Reporter) PublishCommandResponse(command string, success bool, message string) error {
	payload, err := json.Marshal(commandResponse{
		Command:   command,
		Success:   success,
		Message:   message,
		Timestamp: r.clock.Millis(),
	})
	if err != nil {
		return err
	}
	return r.publisher.Publish(SubResponse, payload)
}
