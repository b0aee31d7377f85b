package transport

import (
	"errors"
	"testing"
)

func TestBuildClientOptions(t *testing.T) {
	opts := buildClientOptions(ConnectOptions{
		Server:   "broker.local",
		Port:     1883,
		ClientID: "sensor1",
		Username: "node01",
		Password: "s3cret",
		Will: &Will{
			Topic:   "home/sensor1/offline",
			Payload: []byte(`{"status":"offline"}`),
		},
	})

	if len(opts.Servers) != 1 || opts.Servers[0].String() != "tcp://broker.local:1883" {
		t.Errorf("broker = %v, want tcp://broker.local:1883", opts.Servers)
	}
	if opts.ClientID != "sensor1" {
		t.Errorf("client id = %q, want sensor1", opts.ClientID)
	}
	if opts.Username != "node01" || opts.Password != "s3cret" {
		t.Errorf("credentials = %q/%q, want node01/s3cret", opts.Username, opts.Password)
	}
	if !opts.CleanSession {
		t.Error("sessions must be clean; the registry re-subscribes on connect")
	}
	if opts.AutoReconnect || opts.ConnectRetry {
		t.Error("reconnect policy belongs to the tick loop, not the transport")
	}
	if opts.WillTopic != "home/sensor1/offline" {
		t.Errorf("will topic = %q, want the offline path", opts.WillTopic)
	}
	if !opts.WillRetained {
		t.Error("the last-will must be retained")
	}
}

func TestBuildClientOptions_Anonymous(t *testing.T) {
	opts := buildClientOptions(ConnectOptions{
		Server:   "broker.local",
		Port:     1883,
		ClientID: "sensor1",
		Username: "node01", // password missing: no auth
	})

	if opts.Username != "" || opts.Password != "" {
		t.Error("partial credentials must not be passed to the broker")
	}
	if opts.WillEnabled {
		t.Error("no will was requested")
	}
}

func TestPaho_OperationsWhileDisconnected(t *testing.T) {
	p := NewPaho()

	if err := p.Subscribe("home/sensor1/cmd"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Subscribe() error = %v, want ErrNotConnected", err)
	}
	if err := p.Publish("home/sensor1/temp", []byte("{}")); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Publish() error = %v, want ErrNotConnected", err)
	}
	if !errors.Is(p.Subscribe(""), ErrInvalidTopic) {
		t.Error("Subscribe(\"\") must report ErrInvalidTopic")
	}
	if !errors.Is(p.Publish("", nil), ErrInvalidTopic) {
		t.Error("Publish(\"\") must report ErrInvalidTopic")
	}

	// Disconnect and Drain are safe no-ops without a session.
	p.Disconnect()
	if n := p.Drain(func(Message) {}); n != 0 {
		t.Errorf("Drain() = %d, want 0", n)
	}
}

func TestPaho_ConnectedWithoutSession(t *testing.T) {
	p := NewPaho()
	if p.Connected() {
		t.Error("Connected() = true before any Connect()")
	}
}
