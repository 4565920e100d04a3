package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"codescope/internal/core/app"
	"codescope/internal/engine/scan"
	"codescope/internal/shared/observability"
	"codescope/internal/shared/util"
	"codescope/internal/ui/report"
	"codescope/internal/ui/tui"
)

func analyzeCmd(configPath *string) *cobra.Command {
	var (
		depth        string
		includeTests bool
		format       string
		output       string
		showProgress bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Analyze a project directory and write a report",
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

			if depth == "" {
				depth = cfg.Scan.Depth
			}
			parsedDepth, err := scan.ParseDepth(depth)
			if err != nil {
				return err
			}

			if format == "" {
				format = cfg.Output.Format
			}
			parsedFormat, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			if output == "" {
				output = cfg.Output.Path
			}

			opts := app.Options{
				IncludeTests: cfg.Scan.TestsIncluded(),
				Depth:        parsedDepth,
			}
			if cmd.Flags().Changed("include-tests") {
				opts.IncludeTests = includeTests
			}

			svc := app.NewService(cfg)
			defer svc.Close()

			// The progress view owns the terminal; without one the report
			// would be interleaved with escape sequences.
			var analysis *app.ProjectAnalysis
			if showProgress && isatty.IsTerminal(os.Stdout.Fd()) {
				redirectLogsToFile()
				analysis, err = runWithProgress(ctx, svc, root, opts)
			} else {
				analysis, err = svc.StartAnalysis(ctx, root, opts)
			}
			if err != nil {
				return err
			}

			data, err := report.Render(analysis, parsedFormat)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := util.WriteFileWithDirs(output, data, 0o644); err != nil {
				return err
			}
			fmt.Printf("Report written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&depth, "depth", "", "analysis depth: shallow, medium or deep (overrides config)")
	cmd.Flags().BoolVar(&includeTests, "include-tests", false, "analyze test files as well")
	cmd.Flags().StringVarP(&format, "format", "f", "", "report format: json, yaml or markdown (overrides config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to this file instead of stdout")
	cmd.Flags().BoolVar(&showProgress, "progress", false, "render live progress while analyzing (TTY only)")

	return cmd
}

// runWithProgress drives the analysis in the background and follows its
// progress stream in the terminal until a terminal state arrives.
func runWithProgress(ctx context.Context, svc *app.Service, root string, opts app.Options) (*app.ProjectAnalysis, error) {
	opts.SessionID = uuid.New().String()

	type result struct {
		analysis *app.ProjectAnalysis
		err      error
	}
	done := make(chan result, 1)
	go func() {
		analysis, err := svc.StartAnalysis(ctx, root, opts)
		done <- result{analysis, err}
	}()

	// The session registers once scanning starts, so the first subscribe
	// attempts can miss it.
	for {
		states, unsubscribe, err := svc.SubscribeProgress(opts.SessionID)
		if err == nil {
			followErr := tui.Follow(states)
			unsubscribe()
			if followErr != nil {
				slog.Warn("progress display failed", "error", followErr)
			}
			break
		}
		select {
		case res := <-done:
			return res.analysis, res.err
		case <-time.After(5 * time.Millisecond):
		}
	}

	res := <-done
	return res.analysis, res.err
}
