package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fr0stylo/snapledger/internal/scheduler"
	"github.com/fr0stylo/snapledger/internal/server"
	"github.com/fr0stylo/snapledger/internal/server/routes"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the migration trigger and read API",
		Long:  "Serve the HTTP trigger, health probes and read endpoints. With SNAPLEDGER_SCHEDULE set, cycles also run on that cron schedule.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, log, err := loadConfig(opts, os.Stdout)
	if err != nil {
		return err
	}
	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to start", "error", err)
		return err
	}
	defer app.close()

	srv := server.New(log, cfg.Observability.ServiceName)
	srv.RegisterRouter(routes.NewHealthRoutes(app.store))
	srv.RegisterRouter(routes.NewAPIRoutes(app.store))
	srv.RegisterRouter(routes.NewMigrationRoutes(app.migration, cfg.CycleTimeout()))

	var sched *scheduler.Scheduler
	if cfg.Migration.Schedule != "" {
		sched, err = scheduler.New(cfg.Migration.Timezone, log)
		if err != nil {
			return err
		}
		err = sched.AddJob("migration", cfg.Migration.Schedule, cfg.CycleTimeout(), func(ctx context.Context) error {
			if failed := app.migration.Run(ctx).Failed(); len(failed) > 0 {
				return fmt.Errorf("sources failed: %s", strings.Join(failed, ", "))
			}
			return nil
		})
		if err != nil {
			return err
		}
		sched.Start()
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", "port", cfg.Server.Port, "sources", len(app.registry.Sources()))
		errCh <- srv.Start(fmt.Sprintf(":%d", cfg.Server.Port))
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-ctx.Done():
		log.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Failed to shut down server", "error", err)
	}
	if sched != nil {
		select {
		case <-sched.Stop().Done():
		case <-shutdownCtx.Done():
			log.Warn("Scheduled cycle still running at shutdown")
		}
	}
	return serveErr
}
