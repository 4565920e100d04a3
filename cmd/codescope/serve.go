package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codescope/internal/core/app"
	"codescope/internal/core/config"
	"codescope/internal/data/history"
	"codescope/internal/server"
	"codescope/internal/shared/observability"
)

func serveCmd(configPath *string) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Server.Listen = listen
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			shutdown, err := observability.InitTracing(ctx, cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.SampleRatio)
			if err != nil {
				return err
			}
			defer func() { _ = shutdown(context.Background()) }()

			store, err := openHistory(cfg)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			svc := app.NewService(cfg)
			defer svc.Close()

			return server.New(cfg, svc, store).Start(ctx)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (overrides config)")

	return cmd
}

// openHistory returns a nil store when history is disabled. A corrupt
// database would fail every save, so it is recreated once.
func openHistory(cfg *config.Config) (*history.Store, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}

	store, err := history.Open(cfg.History.Path, cfg.History.BusyTimeout)
	if err == nil {
		return store, nil
	}
	if !history.IsCorruptError(err) {
		return nil, err
	}

	slog.Warn("history database corrupt, recreating", "path", cfg.History.Path, "error", err)
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if rmErr := os.Remove(cfg.History.Path + suffix); rmErr != nil && !os.IsNotExist(rmErr) {
			return nil, err
		}
	}
	return history.Open(cfg.History.Path, cfg.History.BusyTimeout)
}
