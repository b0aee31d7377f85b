// Package node implements the connectivity core of Gray Logic Node: the
// broker session state machine, the ordered topic registry with payload-
// shaped dispatch, and the status reporter.
//
// # Lifecycle
//
// The Manager is a three-state machine — Disconnected, Connecting,
// Connected — advanced only by Connect, Disconnect and Tick. An external
// coordinator loop calls Tick repeatedly; between ticks nothing
// progresses. Connect resolves broker address and credentials from the
// parameter store, subscribes every registered topic on success, and
// announces presence. There is no internal backoff: a failed connect is
// simply retried on a later tick.
//
// # Dispatch
//
// Inbound messages are drained from the transport inside Tick and routed
// by exact fully-qualified path match against the registry, first match
// wins. A payload that decodes with a "command" field goes to the topic's
// command handler when one is registered; otherwise the raw text goes to
// the message handler; otherwise the message is dropped. Malformed JSON
// never reaches a handler.
//
// # Concurrency
//
// This package is single-threaded by contract: the Manager, Registry and
// Reporter belong to the tick goroutine. Handlers execute synchronously
// inside Tick and share its cycle with keep-alive and status publishing —
// a slow handler delays both. Registering or unregistering topics from
// inside a handler is unsafe and must be deferred until after dispatch
// returns. Timer comparisons use the wraparound-safe unsigned arithmetic
// from the platform package.
package node
