// Package params implements the user-configurable parameter store for Gray
// Logic Node.
//
// A node's broker address, credentials, and any application-declared
// settings are ConfigParams: each has a key, a display label, a default,
// and a declared maximum length. Application code registers its schema at
// startup; the provisioning portal renders the same schema for editing and
// feeds edited values back through SyncFromPortal.
//
// # Persistence
//
// Values are mirrored to a single JSON object (key → current value) at a
// fixed path, written through the injected storage.Files capability. Writes
// are write-through on Set and batched on SyncFromPortal. An absent file is
// not an error; malformed content fails the load and leaves in-memory
// values untouched. The write path is a single-pass overwrite — a truncated
// write surfaces as a malformed file on the next load, never as silently
// wrong values.
//
// # Usage
//
//	store := params.New(cfg.Params.Path, storage.NewOS())
//	store.Register("mqtt_server", "MQTT Server", "", 64)
//	store.Register("mqtt_port", "MQTT Port", "1883", 6)
//	if err := store.Load(); err != nil {
//	    log.Warn("using defaults", "error", err)
//	}
//	broker := store.Get("mqtt_server")
package params
