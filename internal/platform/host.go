package platform

import (
	"net"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// wirelessProcPath is where Linux exposes per-interface wireless link
// quality. Absent on wired-only hosts and non-Linux systems.
const wirelessProcPath = "/proc/net/wireless"

// Host is the Provider implementation for Linux-class deployments
// (SBCs, containers, development machines).
//
// Signal strength is read from /proc/net/wireless when present; wired
// hosts report the 0 sentinel.
type Host struct{}

// NewHost returns a Provider backed by the host operating system.
func NewHost() Host {
	return Host{}
}

// ChipType returns the operating system family.
func (Host) ChipType() string {
	return runtime.GOOS
}

// ChipModel returns the OS/architecture pair, e.g. "linux/arm64".
func (Host) ChipModel() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}

// ChipID returns the hostname, the closest stable identifier a generic
// host exposes without elevated privileges.
func (Host) ChipID() string {
	name, err := os.Hostname()
	if err != nil {
		return ""
	}
	return name
}

// FreeHeap returns heap bytes currently free in the Go runtime.
func (Host) FreeHeap() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.HeapIdle - m.HeapReleased
}

// SignalStrength returns the strongest wireless link level in dBm,
// or 0 when the host has no wireless interface.
func (Host) SignalStrength() int {
	data, err := os.ReadFile(wirelessProcPath)
	if err != nil {
		return 0
	}
	return parseWirelessLevel(string(data))
}

// parseWirelessLevel extracts the link level (dBm) from the contents of
// /proc/net/wireless. The first two lines are headers; data lines are
// "iface: status link level noise ...".
func parseWirelessLevel(contents string) int {
	lines := strings.Split(contents, "\n")
	if len(lines) <= 2 {
		return 0
	}
	for _, line := range lines[2:] {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		level := strings.TrimSuffix(fields[3], ".")
		if v, err := strconv.ParseFloat(level, 64); err == nil {
			return int(v)
		}
	}
	return 0
}

// LocalIP returns the first non-loopback IPv4 address, or "".
func (Host) LocalIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ""
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			return ip4.String()
		}
	}
	return ""
}

// MonotonicClock is the production Clock, counting milliseconds since
// process start on Go's monotonic time source.
type MonotonicClock struct {
	start time.Time
}

// NewMonotonicClock returns a Clock anchored at the current instant.
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{start: time.Now()}
}

// Millis returns milliseconds since the clock was created, wrapping at
// the uint32 boundary.
func (c *MonotonicClock) Millis() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}
