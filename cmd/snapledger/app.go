package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fr0stylo/snapledger/internal/adapters/notify"
	"github.com/fr0stylo/snapledger/internal/adapters/snapshotfs"
	"github.com/fr0stylo/snapledger/internal/adapters/sqlite"
	"github.com/fr0stylo/snapledger/internal/app/extract"
	"github.com/fr0stylo/snapledger/internal/app/normalize"
	"github.com/fr0stylo/snapledger/internal/app/ports"
	"github.com/fr0stylo/snapledger/internal/app/services"
	"github.com/fr0stylo/snapledger/internal/config"
	"github.com/fr0stylo/snapledger/internal/db"
	"github.com/fr0stylo/snapledger/internal/observability"
	"github.com/fr0stylo/snapledger/pkg/eventpublisher"
)

// application owns every long-lived collaborator of one process.
type application struct {
	cfg       config.Config
	log       *slog.Logger
	database  *db.Database
	store     ports.ContentStore
	registry  *extract.Registry
	migration *services.MigrationService

	shutdownTelemetry observability.ShutdownFunc
}

func loadConfig(opts *rootOptions, logOutput io.Writer) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(config.WithConfigFile(opts.configFile))
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	log := observability.NewLogger(observability.LogConfig{
		Format: cfg.Log.Format,
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
		Output: logOutput,
	})
	slog.SetDefault(log)
	return cfg, log, nil
}

func newApplication(ctx context.Context, cfg config.Config, log *slog.Logger) (*application, error) {
	shutdown, err := observability.SetupOpenTelemetry(ctx, log, observability.TelemetryConfig{
		Enabled:           cfg.Observability.Enabled,
		OTLPEndpoint:      cfg.Observability.OTLPEndpoint,
		OTLPTraceHeaders:  cfg.Observability.OTLPTraceHeaders,
		OTLPMetricHeaders: cfg.Observability.OTLPMetricHeaders,
		ServiceName:       cfg.Observability.ServiceName,
		ServiceVer:        cfg.Observability.ServiceVer,
		SamplingRatio:     cfg.Observability.SamplingRatio,
		MetricsConsole:    cfg.Observability.MetricsConsole,
	})
	if err != nil {
		return nil, fmt.Errorf("setup telemetry: %w", err)
	}
	app := &application{cfg: cfg, log: log, shutdownTelemetry: shutdown}

	registry, err := extract.NewRegistry(cfg.Rules()...)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("build source registry: %w", err)
	}
	app.registry = registry

	database, err := db.Open(ctx, cfg.DatabaseOptions())
	if err != nil {
		app.close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	app.database = database

	store, err := sqlite.NewSharedContentStoreFactory(database).Open()
	if err != nil {
		app.close()
		return nil, fmt.Errorf("open content store: %w", err)
	}
	app.store = store

	for _, name := range registry.Sources() {
		if _, err := store.EnsureSource(ctx, name); err != nil {
			app.close()
			return nil, fmt.Errorf("register source %q: %w", name, err)
		}
	}

	var notifier ports.CollectionNotifier = notify.Nop{}
	if cfg.Notify.Sink != "" {
		notifier = notify.NewCloudEventsNotifier(eventpublisher.Client{
			Endpoint: cfg.Notify.Sink,
			Token:    cfg.Notify.Token,
			Secret:   cfg.Notify.Secret,
		})
		log.Info("Collection notifications enabled", "sink", cfg.Notify.Sink)
	}

	app.migration = services.NewMigrationService(services.MigrationDeps{
		Gateway:     ports.JoinGateway(snapshotfs.New(cfg.Snapshots.Root), store),
		Adapter:     registry,
		Normalizer:  normalize.New(registry.Kind, cfg.Migration.NormalizeWorkers),
		Notifier:    notifier,
		Metrics:     observability.NewMigrationMetrics(),
		Logger:      log,
		Concurrency: cfg.Migration.SourceConcurrency,
		BatchSize:   cfg.Migration.BatchSize,
	})
	return app, nil
}

func (a *application) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Error("Failed to close content store", "error", err)
		}
	}
	if a.database != nil {
		if a.cfg.Database.LogTiming {
			for _, stat := range a.database.QueryStats() {
				a.log.Info("Query timing", "query", stat.Name, "count", stat.Count, "mean", stat.Mean, "max", stat.Max)
			}
		}
		if err := a.database.Close(); err != nil {
			a.log.Error("Failed to close database", "error", err)
		}
	}
	if a.shutdownTelemetry != nil {
		if err := a.shutdownTelemetry(context.Background()); err != nil {
			a.log.Error("Failed to shut down telemetry", "error", err)
		}
	}
}
