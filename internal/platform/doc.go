// Package platform abstracts the deployment target for Gray Logic Node.
//
// The original generation of device firmware selected its chip, filesystem
// and radio introspection at compile time. Here the same facts flow through
// a runtime-injected Provider so the connection manager and status reporter
// never branch on platform identity, and tests can substitute fixed values.
//
// The package also owns the monotonic millisecond Clock that drives every
// interval comparison. The counter wraps at the uint32 boundary; Elapsed
// performs the wraparound-safe subtraction and is the only correct way to
// compare two readings.
package platform
