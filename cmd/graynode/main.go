// Gray Logic Node - Device Connectivity Agent
//
// This is the main entry point for the Gray Logic Node agent: the
// device-side companion to Gray Logic Core. It maintains the broker
// session, dispatches inbound topic messages to registered handlers,
// publishes periodic status snapshots, and serves a local provisioning
// portal for the connection parameters.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/gray-logic-node/internal/history"
	"github.com/nerrad567/gray-logic-node/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-node/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-node/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-node/internal/infrastructure/storage"
	"github.com/nerrad567/gray-logic-node/internal/node"
	"github.com/nerrad567/gray-logic-node/internal/params"
	"github.com/nerrad567/gray-logic-node/internal/platform"
	"github.com/nerrad567/gray-logic-node/internal/portal"
	"github.com/nerrad567/gray-logic-node/internal/telemetry"
	"github.com/nerrad567/gray-logic-node/internal/transport"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// Parameter field limits, matching the provisioning form.
const (
	maxServerLength = 40
	maxPortLength   = 6
	maxUserLength   = 20
	maxPassLength   = 20
)

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for
// testability. Returning an error lets main handle exit codes
// consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Gray Logic Node",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	deviceID := cfg.Node.ID
	if deviceID == "" {
		deviceID = "node-" + uuid.NewString()[:8]
		log.Warn("node id not configured, using generated id", "device_id", deviceID)
	}

	// Parameter store: connection settings survive restarts and are
	// editable through the provisioning portal.
	store := params.New(cfg.Params.Path, storage.NewOS())
	store.SetLogger(log)
	registerParams(store)
	if err := store.Load(); err != nil {
		if errors.Is(err, params.ErrMalformedFile) {
			log.Warn("parameter file unreadable, using defaults", "path", cfg.Params.Path, "error", err)
		} else {
			return fmt.Errorf("loading parameters: %w", err)
		}
	}
	log.Info("parameter store ready", "path", cfg.Params.Path)

	provider := platform.NewHost()
	clock := platform.NewMonotonicClock()

	broker := transport.NewPaho()
	broker.SetLogger(log)

	registry := node.NewRegistry()

	manager := node.NewManager(node.Config{
		DeviceID:       deviceID,
		TopicPrefix:    cfg.Node.TopicPrefix,
		StatusInterval: cfg.Status.IntervalMS,
		AutoStatus:     cfg.Status.Auto,
	}, broker, store, registry, provider, clock)
	manager.SetLogger(log)
	manager.Reporter().SetLogger(log)

	registerCommandTopic(manager, registry, log)

	// Local snapshot history (optional)
	if cfg.Database.Enabled {
		db, err := database.Open(database.Config{
			Path:        cfg.Database.Path,
			WALMode:     cfg.Database.WALMode,
			BusyTimeout: cfg.Database.BusyTimeout,
		})
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer func() {
			log.Info("closing database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()

		repo, err := history.New(ctx, db)
		if err != nil {
			return fmt.Errorf("initialising snapshot history: %w", err)
		}
		manager.Reporter().SetHistory(repo)
		log.Info("snapshot history enabled", "path", cfg.Database.Path)
	} else {
		log.Info("snapshot history disabled")
	}

	// Telemetry export (optional)
	if cfg.InfluxDB.Enabled {
		metrics, err := telemetry.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing telemetry connection")
			if closeErr := metrics.Close(); closeErr != nil {
				log.Error("error closing telemetry", "error", closeErr)
			}
		}()
		metrics.SetOnError(func(err error) {
			log.Error("telemetry write error", "error", err)
		})
		manager.Reporter().SetMetrics(metrics)
		log.Info("telemetry export enabled",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("telemetry export disabled")
	}

	// Provisioning portal (optional)
	if cfg.Portal.Enabled {
		portalServer, err := portal.New(portal.Deps{
			Config:   cfg.Portal,
			Logger:   log,
			Store:    store,
			DeviceID: deviceID,
			Version:  version,
		})
		if err != nil {
			return fmt.Errorf("creating provisioning portal: %w", err)
		}
		if err := portalServer.Start(ctx); err != nil {
			return fmt.Errorf("starting provisioning portal: %w", err)
		}
		defer func() {
			if closeErr := portalServer.Close(); closeErr != nil {
				log.Error("error closing portal", "error", closeErr)
			}
		}()
	} else {
		log.Info("provisioning portal disabled")
	}

	log.Info("initialisation complete, entering tick loop",
		"device_id", deviceID,
		"topic_prefix", cfg.Node.TopicPrefix,
		"tick_interval", cfg.TickInterval(),
	)

	// Tick loop: the manager only progresses when serviced here.
	ticker := time.NewTicker(cfg.TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown signal received, cleaning up")
			manager.Disconnect()
			log.Info("Gray Logic Node stopped")
			return nil
		case <-ticker.C:
			if err := manager.Tick(ctx); err != nil {
				log.Error("tick failed", "error", err)
			}
		}
	}
}

// registerParams declares the connection parameters the manager resolves
// at connect time. Registration order is the provisioning form order.
func registerParams(store *params.Store) {
	//nolint:errcheck // Fresh store; duplicate registration is impossible here
	store.Register(node.ParamServer, "MQTT server", "", maxServerLength)
	//nolint:errcheck // See above
	store.Register(node.ParamPort, "MQTT port", "1883", maxPortLength)
	//nolint:errcheck // See above
	store.Register(node.ParamUser, "MQTT user", "", maxUserLength)
	//nolint:errcheck // See above
	store.Register(node.ParamPass, "MQTT password", "", maxPassLength)
}

// registerCommandTopic wires the built-in cmd topic: status requests an
// immediate snapshot, ping answers with a response message.
func registerCommandTopic(manager *node.Manager, registry *node.Registry, log *logging.Logger) {
	registry.Register(node.Topic{
		Name: "cmd",
		OnCommand: func(command string, _ map[string]any) {
			reporter := manager.Reporter()
			switch command {
			case "status":
				if err := reporter.PublishStatus(context.Background()); err != nil {
					log.Warn("requested status publish failed", "error", err)
					return
				}
				//nolint:errcheck // Response delivery is best-effort
				reporter.PublishCommandResponse(command, true, "status published")
			case "ping":
				//nolint:errcheck // Response delivery is best-effort
				reporter.PublishCommandResponse(command, true, "pong")
			default:
				log.Warn("unknown command", "command", command)
				//nolint:errcheck // Response delivery is best-effort
				reporter.PublishCommandResponse(command, false, "unknown command")
			}
		},
	})
}

// getConfigPath returns the configuration file path.
// Uses GRAYNODE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("GRAYNODE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
