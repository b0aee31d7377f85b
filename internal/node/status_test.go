package node

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

// recordedPub captures publishes made through the Publisher interface.
type recordedPub struct {
	sub     string
	payload []byte
}

type fakePublisher struct {
	pubs []recordedPub
	err  error
}

func (p *fakePublisher) Publish(sub string, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.pubs = append(p.pubs, recordedPub{sub: sub, payload: payload})
	return nil
}

type fakeRecorder struct {
	recorded []DeviceStatus
	err      error
}

func (r *fakeRecorder) Record(_ context.Context, status DeviceStatus) error {
	if r.err != nil {
		return r.err
	}
	r.recorded = append(r.recorded, status)
	return nil
}

type fakeSink struct {
	written []DeviceStatus
}

func (s *fakeSink) WriteStatus(status DeviceStatus) {
	s.written = append(s.written, status)
}

func newTestReporter() (*Reporter, *fakePublisher, *mockTransport, *fakeClock) {
	pub := &fakePublisher{}
	mt := newMockTransport()
	clock := &fakeClock{}
	topics := Topics{Prefix: "home", DeviceID: "sensor1"}
	r := NewReporter(pub, mt, fakeProvider{}, clock, topics)
	return r, pub, mt, clock
}

func TestReporter_PublishStatusSnapshot(t *testing.T) {
	r, pub, _, clock := newTestReporter()
	clock.now = 65000
	r.setConnected(true)

	if err := r.PublishStatus(context.Background()); err != nil {
		t.Fatalf("PublishStatus() error = %v", err)
	}

	if len(pub.pubs) != 1 || pub.pubs[0].sub != SubStatus {
		t.Fatalf("pubs = %v, want one on %q", pub.pubs, SubStatus)
	}

	var got map[string]any
	if err := json.Unmarshal(pub.pubs[0].payload, &got); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if got["device_id"] != "sensor1" {
		t.Errorf("device_id = %v, want sensor1", got["device_id"])
	}
	if got["chip_type"] != "ESP32" {
		t.Errorf("chip_type = %v, want ESP32", got["chip_type"])
	}
	if got["is_connected"] != true {
		t.Errorf("is_connected = %v, want true", got["is_connected"])
	}
	if got["uptime"] != float64(65) {
		t.Errorf("uptime = %v, want 65 seconds", got["uptime"])
	}
	if got["signal_strength"] != float64(-55) {
		t.Errorf("signal_strength = %v, want -55", got["signal_strength"])
	}
	if got["ip_address"] != "192.168.1.50" {
		t.Errorf("ip_address = %v, want 192.168.1.50", got["ip_address"])
	}
	if got["timestamp"] != float64(65000) {
		t.Errorf("timestamp = %v, want 65000", got["timestamp"])
	}
}

func TestReporter_UnsetSensorFieldsOmitted(t *testing.T) {
	r, pub, _, _ := newTestReporter()

	if err := r.PublishStatus(context.Background()); err != nil {
		t.Fatalf("PublishStatus() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(pub.pubs[0].payload, &got); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	for _, field := range []string{"temperature", "humidity", "light_level"} {
		if _, present := got[field]; present {
			t.Errorf("field %q present in payload, want omitted when unset", field)
		}
	}
}

func TestReporter_UpdateStatusMergesSensorReadings(t *testing.T) {
	r, pub, _, _ := newTestReporter()

	r.UpdateStatus(DeviceStatus{Temperature: 21.5, Humidity: 48.2, LightLevel: 300})

	if err := r.PublishStatus(context.Background()); err != nil {
		t.Fatalf("PublishStatus() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(pub.pubs[0].payload, &got); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if got["temperature"] != 21.5 {
		t.Errorf("temperature = %v, want 21.5", got["temperature"])
	}
	if got["humidity"] != 48.2 {
		t.Errorf("humidity = %v, want 48.2", got["humidity"])
	}
	if got["light_level"] != float64(300) {
		t.Errorf("light_level = %v, want 300", got["light_level"])
	}
}

func TestReporter_SinksReceiveSnapshot(t *testing.T) {
	r, _, _, _ := newTestReporter()
	history := &fakeRecorder{}
	metrics := &fakeSink{}
	r.SetHistory(history)
	r.SetMetrics(metrics)

	if err := r.PublishStatus(context.Background()); err != nil {
		t.Fatalf("PublishStatus() error = %v", err)
	}

	if len(history.recorded) != 1 {
		t.Errorf("history records = %d, want 1", len(history.recorded))
	}
	if len(metrics.written) != 1 {
		t.Errorf("metric writes = %d, want 1", len(metrics.written))
	}
}

func TestReporter_RecorderFailureDoesNotFailPublish(t *testing.T) {
	r, pub, _, _ := newTestReporter()
	r.SetHistory(&fakeRecorder{err: errors.New("disk full")})

	if err := r.PublishStatus(context.Background()); err != nil {
		t.Fatalf("PublishStatus() error = %v, want nil despite sink failure", err)
	}
	if len(pub.pubs) != 1 {
		t.Errorf("pubs = %d, want the publish to have happened", len(pub.pubs))
	}
}

func TestReporter_PublishFailureSkipsSinks(t *testing.T) {
	r, pub, _, _ := newTestReporter()
	pub.err = errors.New("not connected")
	history := &fakeRecorder{}
	r.SetHistory(history)

	if err := r.PublishStatus(context.Background()); err == nil {
		t.Fatal("PublishStatus() error = nil, want publish failure")
	}
	if len(history.recorded) != 0 {
		t.Errorf("history records = %d, want 0 when publish fails", len(history.recorded))
	}
}

func TestReporter_PresenceNotices(t *testing.T) {
	r, pub, _, clock := newTestReporter()
	clock.now = 1234

	if err := r.PublishOnline(); err != nil {
		t.Fatalf("PublishOnline() error = %v", err)
	}

	if len(pub.pubs) != 1 || pub.pubs[0].sub != SubOnline {
		t.Fatalf("pubs = %v, want one on %q", pub.pubs, SubOnline)
	}
	var got map[string]any
	if err := json.Unmarshal(pub.pubs[0].payload, &got); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if got["status"] != "online" {
		t.Errorf("status = %v, want online", got["status"])
	}
	if got["device_id"] != "sensor1" {
		t.Errorf("device_id = %v, want sensor1", got["device_id"])
	}
	if got["ip_address"] != "192.168.1.50" {
		t.Errorf("ip_address = %v, want the node address", got["ip_address"])
	}
}

func TestReporter_OfflineNoticeBypassesPublisher(t *testing.T) {
	r, pub, mt, _ := newTestReporter()

	r.PublishOffline()

	if len(pub.pubs) != 0 {
		t.Errorf("publisher pubs = %d, want 0; offline goes direct", len(pub.pubs))
	}
	notices := mt.publishedTo("home/sensor1/offline")
	if len(notices) != 1 {
		t.Fatalf("direct offline notices = %d, want 1", len(notices))
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(notices[0]), &got); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if got["status"] != "offline" {
		t.Errorf("status = %v, want offline", got["status"])
	}
}

func TestReporter_OfflinePayloadMatchesWill(t *testing.T) {
	r, _, _, _ := newTestReporter()

	var got map[string]any
	if err := json.Unmarshal(r.OfflinePayload(), &got); err != nil {
		t.Fatalf("will payload is not valid JSON: %v", err)
	}
	if got["status"] != "offline" || got["device_id"] != "sensor1" {
		t.Errorf("will payload = %v, want offline notice for sensor1", got)
	}
}

func TestReporter_CommandResponse(t *testing.T) {
	r, pub, _, clock := newTestReporter()
	clock.now = 9000

	if err := r.PublishCommandResponse("restart", true, "restarting in 5s"); err != nil {
		t.Fatalf("PublishCommandResponse() error = %v", err)
	}

	if len(pub.pubs) != 1 || pub.pubs[0].sub != SubResponse {
		t.Fatalf("pubs = %v, want one on %q", pub.pubs, SubResponse)
	}
	var got commandResponse
	if err := json.Unmarshal(pub.pubs[0].payload, &got); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if got.Command != "restart" || !got.Success || got.Message != "restarting in 5s" {
		t.Errorf("response = %+v, want the reported outcome", got)
	}
	if got.Timestamp != 9000 {
		t.Errorf("timestamp = %d, want 9000", got.Timestamp)
	}
}
