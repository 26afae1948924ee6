// Todo API - minimal task list service
//
// This is the main entry point for the todo API. It serves CRUD operations
// over an in-memory collection of todos, a health probe, and an optional
// live change feed over WebSocket and MQTT.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	_ "github.com/nerrad567/todo-api/migrations"

	"github.com/nerrad567/todo-api/internal/api"
	"github.com/nerrad567/todo-api/internal/events"
	"github.com/nerrad567/todo-api/internal/infrastructure/config"
	"github.com/nerrad567/todo-api/internal/infrastructure/database"
	"github.com/nerrad567/todo-api/internal/infrastructure/logging"
	"github.com/nerrad567/todo-api/internal/infrastructure/mqtt"
	"github.com/nerrad567/todo-api/internal/todo"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path, used only when it exists.
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// It returns nil on a clean shutdown after ctx is cancelled.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting todo API",
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

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	store, db, closeStore, err := openStore(ctx, cfg.Store, log)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.Store.Seed {
		if seedErr := todo.Seed(ctx, store, todo.DefaultSeedTitles...); seedErr != nil {
			return fmt.Errorf("seeding todos: %w", seedErr)
		}
		log.Info("seed todos loaded", "count", len(todo.DefaultSeedTitles))
	}

	registry := todo.NewRegistry(store)
	registry.SetLogger(log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		client, publisher, closeMQTT, mqttErr := startMQTT(cfg.MQTT, log)
		if mqttErr != nil {
			return mqttErr
		}
		mqttClient = client
		defer closeMQTT()
		registry.AddNotifier(publisher)
		g.Go(func() error { return publisher.Run(gctx) })
	} else {
		log.Info("MQTT event publishing disabled")
	}

	var hub *api.Hub
	if cfg.WebSocket.Enabled {
		hub = api.NewHub(cfg.WebSocket, log)
		g.Go(func() error {
			hub.Run(gctx)
			return nil
		})
	}

	server, err := api.New(api.Deps{
		Config:   cfg.API,
		WS:       cfg.WebSocket,
		Logger:   log,
		Registry: registry,
		Hub:      hub,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(gctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}

	if err := healthCheck(gctx, server, db, mqttClient); err != nil {
		server.Close() //nolint:errcheck // already failing
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	base := "http://" + server.Addr()
	log.Info("todo API ready",
		"todos", base+"/todos",
		"health", base+"/health",
	)
	if hub != nil {
		log.Info("live change feed ready", "url", "ws://"+server.Addr()+cfg.WebSocket.Path)
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, cleaning up")
		return server.Close()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info("todo API stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// TODOAPI_CONFIG wins; otherwise the default path is used if present,
// and "" (defaults only) if not.
func getConfigPath() string {
	if path := os.Getenv("TODOAPI_CONFIG"); path != "" {
		return path
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return defaultConfigPath
	}
	return ""
}

// openStore creates the configured todo store and a func releasing it.
// The returned DB is nil for the memory backend.
func openStore(ctx context.Context, cfg config.StoreConfig, log *logging.Logger) (todo.Store, *database.DB, func(), error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := database.Open(ctx, database.Config{
			Name:        cfg.Database.Name,
			BusyTimeout: cfg.Database.BusyTimeout,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close() //nolint:errcheck // already failing
			return nil, nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		log.Info("todo store ready", "backend", cfg.Backend, "database", db.Name())

		return todo.NewSQLiteStore(db.DB), db, func() {
			log.Info("closing database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}, nil

	default:
		log.Info("todo store ready", "backend", config.BackendMemory)
		return todo.NewMemoryStore(), nil, func() {}, nil
	}
}

// startMQTT connects to the broker and builds the event publisher.
func startMQTT(cfg config.MQTTConfig, log *logging.Logger) (*mqtt.Client, *events.MQTTPublisher, func(), error) {
	client, err := mqtt.Connect(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connecting to MQTT: %w", err)
	}
	client.SetLogger(log)
	client.SetOnConnect(func() {
		log.Info("MQTT reconnected", "status_topic", client.Topics().Status())
	})
	client.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.Broker.Host, cfg.Broker.Port),
		"client_id", cfg.Broker.ClientID,
		"events", client.Topics().AllEvents(),
	)

	publisher := events.NewMQTTPublisher(client, client.Topics().Event, client.QoS(), events.DefaultQueueSize)
	publisher.SetLogger(log)

	return client, publisher, func() {
		log.Info("disconnecting from MQTT")
		if closeErr := client.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}, nil
}

// healthCheck verifies every started component.
// db and mqttClient are nil when their backends are disabled.
func healthCheck(ctx context.Context, server *api.Server, db *database.DB, mqttClient *mqtt.Client) error {
	if err := server.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	if db != nil {
		if err := db.HealthCheck(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}
	return nil
}
