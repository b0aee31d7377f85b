package params

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/nerrad567/gray-logic-node/internal/infrastructure/storage"
)

// Logger defines the logging interface used by the Store.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Param is a single user-configurable parameter.
//
// Label and MaxLength exist for the provisioning portal: Label is the
// field's display text and MaxLength bounds the rendered input. MaxLength
// is also enforced on writes — values are truncated, never rejected, so a
// provisioning session can always complete.
type Param struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Default   string `json:"default"`
	MaxLength int    `json:"max_length"`
	Value     string `json:"value"`
}

// Store owns the schema of registered parameters and their current values.
//
// The schema is an insertion-ordered sequence plus a key→value mirror for
// fast lookups; both always agree. Values are persisted write-through to a
// single JSON object (key → current value) via the injected Files
// implementation.
//
// Thread Safety:
//   - All methods are safe for concurrent use. The provisioning portal
//     serves HTTP requests from its own goroutines while the tick loop
//     reads credentials, so the store carries its own lock.
type Store struct {
	mu     sync.RWMutex
	params []Param
	values map[string]string
	path   string
	files  storage.Files
	logger Logger
}

// New creates a parameter store persisting to path through files.
//
// The store starts empty; application code registers its schema at
// startup, then calls Load to adopt any previously persisted values.
func New(path string, files storage.Files) *Store {
	return &Store{
		values: make(map[string]string),
		path:   path,
		files:  files,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the store.
func (s *Store) SetLogger(logger Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logger
}

// Register adds a parameter to the schema with Value set to defaultValue.
//
// Registering an existing key is a no-op: the original entry, including
// its current value, is untouched. The duplicate is logged and reported
// via ErrDuplicateKey so callers that care can detect it; most ignore it.
func (s *Store) Register(key, label, defaultValue string, maxLength int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.values[key]; exists {
		s.logger.Debug("parameter already registered", "key", key)
		return fmt.Errorf("%w: %s", ErrDuplicateKey, key)
	}

	s.params = append(s.params, Param{
		Key:       key,
		Label:     label,
		Default:   defaultValue,
		MaxLength: maxLength,
		Value:     defaultValue,
	})
	s.values[key] = defaultValue

	s.logger.Debug("parameter registered", "key", key)
	return nil
}

// Unregister removes the parameter with the given key.
// It is a no-op if the key is not registered.
func (s *Store) Unregister(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.params {
		if s.params[i].Key == key {
			s.params = append(s.params[:i], s.params[i+1:]...)
			delete(s.values, key)
			s.logger.Debug("parameter unregistered", "key", key)
			return
		}
	}
}

// Get returns the current value for key.
//
// An unknown key returns the empty string and logs a warning; it never
// fails fatally, so callers can treat missing optional parameters as
// unset.
func (s *Store) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		s.logger.Warn("unknown parameter key", "key", key)
		return ""
	}
	return value
}

// Set updates the value for key and persists the whole schema immediately
// (write-through, no batching).
//
// Values longer than the parameter's MaxLength are truncated with a
// warning. Setting an unknown key is a no-op returning ErrUnknownKey.
// A persistence failure is returned but leaves the in-memory update in
// place; the next successful save will pick it up.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()

	idx := -1
	for i := range s.params {
		if s.params[i].Key == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.logger.Warn("unknown parameter key", "key", key)
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	value = s.clamp(key, value, s.params[idx].MaxLength)
	s.params[idx].Value = value
	s.values[key] = value
	s.mu.Unlock()

	return s.Save()
}

// clamp truncates value to maxLength bytes.
// Caller must hold the lock (for logger access).
func (s *Store) clamp(key, value string, maxLength int) string {
	if maxLength > 0 && len(value) > maxLength {
		s.logger.Warn("parameter value truncated",
			"key", key,
			"max_length", maxLength,
			"length", len(value),
		)
		return value[:maxLength]
	}
	return value
}

// Load reads the persisted file and adopts its values.
//
// For each key present in both the file and the schema, the file's value
// replaces the current value. Keys in the file but not in the schema are
// ignored; keys in the schema but not in the file keep their current
// value. An absent file is not an error — the registered defaults stand.
// Malformed content is a load failure: ErrMalformedFile is returned and
// every in-memory value is left unchanged.
func (s *Store) Load() error {
	data, err := s.files.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("no persisted parameters, using defaults", "path", s.path)
			return nil
		}
		return fmt.Errorf("reading parameter file: %w", err)
	}

	var persisted map[string]string
	if err := json.Unmarshal(data, &persisted); err != nil {
		s.logger.Warn("parameter file is malformed, keeping current values",
			"path", s.path,
			"error", err,
		)
		return fmt.Errorf("%w: %v", ErrMalformedFile, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	adopted := 0
	for i := range s.params {
		if value, ok := persisted[s.params[i].Key]; ok {
			s.params[i].Value = value
			s.values[s.params[i].Key] = value
			adopted++
		}
	}

	s.logger.Info("parameters loaded", "path", s.path, "adopted", adopted)
	return nil
}

// Save serialises the full schema (key → current value) and overwrites the
// persisted file.
//
// The write is a single-pass overwrite with no temp-and-rename step; a
// failure mid-write can leave a truncated file, which Load treats as
// malformed. Failure to write is reported, not fatal.
func (s *Store) Save() error {
	s.mu.RLock()
	snapshot := make(map[string]string, len(s.params))
	for i := range s.params {
		snapshot[s.params[i].Key] = s.params[i].Value
	}
	s.mu.RUnlock()

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encoding parameters: %w", err)
	}

	if err := s.files.WriteFile(s.path, data); err != nil {
		s.logger.Error("saving parameters failed", "path", s.path, "error", err)
		return fmt.Errorf("saving parameters: %w", err)
	}

	return nil
}

// SyncFromPortal adopts edited values from a provisioning session.
//
// For each schema parameter, a non-empty portal value that differs from
// the current value is adopted (truncated to MaxLength). If anything
// changed the store is saved once at the end — batched, not per-key.
//
// Returns:
//   - bool: true if any value was adopted
//   - error: persistence failure from the final save, if any
func (s *Store) SyncFromPortal(portalValues map[string]string) (bool, error) {
	s.mu.Lock()

	changed := false
	for i := range s.params {
		value, ok := portalValues[s.params[i].Key]
		if !ok || value == "" || value == s.params[i].Value {
			continue
		}
		value = s.clamp(s.params[i].Key, value, s.params[i].MaxLength)
		if value == s.params[i].Value {
			continue
		}
		s.params[i].Value = value
		s.values[s.params[i].Key] = value
		changed = true
	}
	s.mu.Unlock()

	if !changed {
		return false, nil
	}

	s.logger.Info("parameters updated from provisioning session")
	return true, s.Save()
}

// Reset deletes the persisted file and restores every parameter to its
// default value. Parameters remain registered: Get returns the default
// afterwards, not the empty string.
func (s *Store) Reset() error {
	if err := s.files.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("removing parameter file failed", "path", s.path, "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.params {
		s.params[i].Value = s.params[i].Default
		s.values[s.params[i].Key] = s.params[i].Default
	}

	s.logger.Info("parameters reset to defaults")
	return nil
}

// Params returns a copy of the schema in registration order.
// The provisioning portal uses this to render its form.
func (s *Store) Params() []Param {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Param, len(s.params))
	copy(out, s.params)
	return out
}

// Has reports whether key is registered.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.values[key]
	return ok
}
