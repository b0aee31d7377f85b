package node

// Reserved sub-topics published by the node itself. Application topics
// registered through the Registry share the same namespace.
const (
	// SubStatus carries periodic device-status snapshots.
	SubStatus = "status"

	// SubOnline carries the presence notice published on connect.
	SubOnline = "online"

	// SubOffline carries the presence notice on graceful disconnect,
	// and is the last-will topic for ungraceful session loss.
	SubOffline = "offline"

	// SubResponse carries command execution results.
	SubResponse = "response"
)

// Topics builds fully qualified topic paths for one device.
// Every path has the shape <prefix>/<deviceID>/<sub>.
//
// Using the builder keeps subscription paths and dispatch comparisons
// byte-for-byte identical; dispatch matches exact strings, not patterns.
//
//	topics := node.Topics{Prefix: "home", DeviceID: "sensor1"}
//	topics.Sub("temp") // "home/sensor1/temp"
type Topics struct {
	Prefix   string
	DeviceID string
}

// Sub returns the fully qualified path for a relative sub-topic.
func (t Topics) Sub(name string) string {
	return t.Prefix + "/" + t.DeviceID + "/" + name
}

// Status returns the device-status snapshot topic.
//
// Example: home/sensor1/status
func (t Topics) Status() string {
	return t.Sub(SubStatus)
}

// Online returns the online presence topic.
//
// Example: home/sensor1/online
func (t Topics) Online() string {
	return t.Sub(SubOnline)
}

// Offline returns the offline presence topic.
//
// Example: home/sensor1/offline
func (t Topics) Offline() string {
	return t.Sub(SubOffline)
}

// Response returns the command response topic.
//
// Example: home/sensor1/response
func (t Topics) Response() string {
	return t.Sub(SubResponse)
}
