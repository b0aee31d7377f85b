// Package history keeps a local record of the status snapshots the node
// publishes, so the last-known readings survive a broker outage or a
// restart. It implements the reporter's Recorder hook on top of the
// shared SQLite store and owns the status_history schema.
package history
