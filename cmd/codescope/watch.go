package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codescope/internal/core/app"
	"codescope/internal/shared/observability"
	"codescope/internal/shared/util"
	"codescope/internal/ui/report"
	"codescope/internal/watch"
)

func watchCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Watch a project and re-analyze on change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			shutdown, err := observability.InitTracing(ctx, cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.SampleRatio)
			if err != nil {
				return err
			}
			defer func() { _ = shutdown(context.Background()) }()

			format, err := report.ParseFormat(cfg.Output.Format)
			if err != nil {
				return err
			}

			svc := app.NewService(cfg)
			defer svc.Close()

			return watch.Run(ctx, cfg, svc, root, func(analysis *app.ProjectAnalysis) {
				printSummary(analysis)
				if cfg.Output.Path == "" {
					return
				}
				data, err := report.Render(analysis, format)
				if err != nil {
					slog.Warn("render report failed", "error", err)
					return
				}
				if err := util.WriteFileWithDirs(cfg.Output.Path, data, 0o644); err != nil {
					slog.Warn("write report failed", "path", cfg.Output.Path, "error", err)
				}
			})
		},
	}

	return cmd
}

func printSummary(analysis *app.ProjectAnalysis) {
	fmt.Printf("analyzed %d files: %d dependencies, %d cycles, %d duplicate groups, quality %d/100\n",
		analysis.Metrics.TotalFiles,
		len(analysis.Dependencies),
		len(analysis.CycleReport.Cycles),
		len(analysis.Duplicates),
		analysis.Metrics.CodeQuality,
	)
}
