package transport

import "sync/atomic"

// inboxCapacity bounds buffered inbound messages between ticks. A full
// inbox drops new arrivals; the drop counter makes the loss observable.
const inboxCapacity = 128

// inbox buffers inbound messages from the broker's receive goroutines
// until the tick loop drains them. This keeps dispatch on the tick
// goroutine, which is the concurrency contract the connection manager
// relies on.
type inbox struct {
	ch      chan Message
	dropped atomic.Uint64
}

func newInbox() *inbox {
	return &inbox{ch: make(chan Message, inboxCapacity)}
}

// put enqueues msg without blocking. Returns false if the inbox was full
// and the message was dropped.
func (in *inbox) put(msg Message) bool {
	select {
	case in.ch <- msg:
		return true
	default:
		in.dropped.Add(1)
		return false
	}
}

// drain delivers every buffered message to fn in arrival order and
// returns the count. It never blocks waiting for new messages.
func (in *inbox) drain(fn func(msg Message)) int {
	count := 0
	for {
		select {
		case msg := <-in.ch:
			fn(msg)
			count++
		default:
			return count
		}
	}
}

// droppedCount returns how many messages were dropped since creation.
func (in *inbox) droppedCount() uint64 {
	return in.dropped.Load()
}
