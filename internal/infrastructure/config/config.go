package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root bootstrap configuration for Gray Logic Node.
//
// Only deployment-level settings live here. Broker address and credentials
// are user-provisioned parameters and live in the parameter store, which is
// synchronised through the provisioning portal rather than this file.
type Config struct {
	Node     NodeConfig     `yaml:"node"`
	Params   ParamsConfig   `yaml:"params"`
	Status   StatusConfig   `yaml:"status"`
	Tick     TickConfig     `yaml:"tick"`
	Portal   PortalConfig   `yaml:"portal"`
	Database DatabaseConfig `yaml:"database"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// NodeConfig identifies this device on the message bus.
type NodeConfig struct {
	// ID is the device identifier used as the broker client ID and in
	// every topic path. If empty, a generated identifier is used.
	ID string `yaml:"id"`

	// TopicPrefix is the first segment of every topic: <prefix>/<id>/<sub>.
	TopicPrefix string `yaml:"topic_prefix"`
}

// ParamsConfig contains parameter store settings.
type ParamsConfig struct {
	// Path is the filesystem path of the persisted parameter file.
	Path string `yaml:"path"`
}

// StatusConfig contains status snapshot reporting settings.
type StatusConfig struct {
	// IntervalMS is the minimum time between periodic status snapshots,
	// in milliseconds of the monotonic tick clock.
	IntervalMS uint32 `yaml:"interval_ms"`

	// Auto enables periodic snapshot publishing from the tick loop.
	Auto bool `yaml:"auto"`
}

// TickConfig contains coordinator loop settings.
type TickConfig struct {
	// IntervalMS is how often the coordinator loop services the manager.
	IntervalMS int `yaml:"interval_ms"`
}

// PortalConfig contains provisioning portal settings.
type PortalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// DatabaseConfig contains local snapshot history settings.
type DatabaseConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// InfluxDBConfig contains optional telemetry export settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable
// overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: GRAYNODE_SECTION_KEY
// For example: GRAYNODE_NODE_ID, GRAYNODE_INFLUXDB_TOKEN
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with sensible defaults.
//
// The defaults describe a node that publishes a status snapshot every
// 30 seconds under the "home" prefix, keeps its parameter file under
// data/, and has history and telemetry disabled.
func Default() *Config {
	return &Config{
		Node: NodeConfig{
			TopicPrefix: "home",
		},
		Params: ParamsConfig{
			Path: "data/params.json",
		},
		Status: StatusConfig{
			IntervalMS: 30000,
			Auto:       true,
		},
		Tick: TickConfig{
			IntervalMS: 100,
		},
		Portal: PortalConfig{
			Enabled: true,
			Host:    "0.0.0.0",
			Port:    8090,
		},
		Database: DatabaseConfig{
			Enabled:     false,
			Path:        "data/node.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		InfluxDB: InfluxDBConfig{
			Enabled:       false,
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies GRAYNODE_* environment variables on top of the
// loaded configuration. Only settings that change between deployments of
// the same image are overridable.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GRAYNODE_NODE_ID"); v != "" {
		cfg.Node.ID = v
	}
	if v := os.Getenv("GRAYNODE_NODE_TOPIC_PREFIX"); v != "" {
		cfg.Node.TopicPrefix = v
	}
	if v := os.Getenv("GRAYNODE_PARAMS_PATH"); v != "" {
		cfg.Params.Path = v
	}
	if v := os.Getenv("GRAYNODE_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("GRAYNODE_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
	if v := os.Getenv("GRAYNODE_PORTAL_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Portal.Port = port
		}
	}
	if v := os.Getenv("GRAYNODE_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Node.TopicPrefix == "" {
		errs = append(errs, "node.topic_prefix is required")
	}
	if strings.ContainsAny(c.Node.TopicPrefix, "/#+") {
		errs = append(errs, "node.topic_prefix must be a single topic segment")
	}
	if strings.ContainsAny(c.Node.ID, "/#+") {
		errs = append(errs, "node.id must not contain topic separators or wildcards")
	}

	if c.Params.Path == "" {
		errs = append(errs, "params.path is required")
	}

	if c.Status.IntervalMS == 0 {
		errs = append(errs, "status.interval_ms must be greater than zero")
	}

	if c.Tick.IntervalMS < 1 {
		errs = append(errs, "tick.interval_ms must be at least 1")
	}

	if c.Portal.Enabled && (c.Portal.Port < 1 || c.Portal.Port > 65535) {
		errs = append(errs, "portal.port must be between 1 and 65535")
	}

	if c.Database.Enabled && c.Database.Path == "" {
		errs = append(errs, "database.path is required when database.enabled is true")
	}

	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb.enabled is true")
		}
		if c.InfluxDB.Token == "" {
			errs = append(errs, "influxdb.token is required when influxdb.enabled is true (set GRAYNODE_INFLUXDB_TOKEN)")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// TickInterval returns the coordinator loop interval as a Duration.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Tick.IntervalMS) * time.Millisecond
}
