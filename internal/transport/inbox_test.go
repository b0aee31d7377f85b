package transport

import (
	"fmt"
	"testing"
)

func TestInbox_DrainInArrivalOrder(t *testing.T) {
	in := newInbox()

	for i := 0; i < 5; i++ {
		if !in.put(Message{Topic: fmt.Sprintf("home/sensor1/t%d", i)}) {
			t.Fatalf("put(%d) dropped unexpectedly", i)
		}
	}

	var got []string
	count := in.drain(func(msg Message) {
		got = append(got, msg.Topic)
	})

	if count != 5 {
		t.Fatalf("drain() = %d, want 5", count)
	}
	for i, topic := range got {
		want := fmt.Sprintf("home/sensor1/t%d", i)
		if topic != want {
			t.Errorf("message %d topic = %q, want %q", i, topic, want)
		}
	}
}

func TestInbox_DrainEmpty(t *testing.T) {
	in := newInbox()

	count := in.drain(func(Message) {
		t.Error("callback invoked on empty inbox")
	})
	if count != 0 {
		t.Errorf("drain() = %d, want 0", count)
	}
}

func TestInbox_DropsWhenFull(t *testing.T) {
	in := newInbox()

	for i := 0; i < inboxCapacity; i++ {
		if !in.put(Message{}) {
			t.Fatalf("put(%d) dropped before capacity", i)
		}
	}

	if in.put(Message{Topic: "overflow"}) {
		t.Error("put() accepted message beyond capacity")
	}
	if in.droppedCount() != 1 {
		t.Errorf("droppedCount() = %d, want 1", in.droppedCount())
	}

	// Draining frees capacity again.
	in.drain(func(Message) {})
	if !in.put(Message{}) {
		t.Error("put() dropped after drain freed capacity")
	}
}
