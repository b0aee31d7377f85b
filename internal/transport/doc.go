// Package transport provides the broker session collaborator for Gray
// Logic Node.
//
// The connection manager depends only on the Client interface: connect,
// connected, subscribe, publish, disconnect, and a non-blocking Drain of
// buffered inbound messages. The Paho implementation adapts
// github.com/eclipse/paho.mqtt.golang to that contract.
//
// # Polling model
//
// The node is driven by a cooperative tick loop: nothing progresses
// between ticks, and message handlers must run on the tick goroutine.
// The paho library delivers messages on its own receive goroutines, so
// the adapter parks them in a bounded inbox and the manager collects
// them with Drain inside its tick. A full inbox drops new arrivals and
// counts them.
//
// # Reconnection
//
// Auto-reconnect is disabled on purpose. Connect is a synchronous
// pass/fail call; when the session is lost the manager observes it on
// the next tick and decides when to reconnect. A last-will payload can
// be registered at connect time so the broker announces ungraceful
// session loss on the node's behalf.
package transport
