// Package telemetry exports the node's status snapshots to InfluxDB.
//
// The export path is fire-and-forget: points are batched by the
// non-blocking write API and delivery errors surface through an
// optional callback, so the tick loop is never coupled to the
// telemetry backend's availability.
package telemetry
