package watch

import (
	"context"
	"log/slog"

	"codescope/internal/core/app"
	"codescope/internal/core/config"
	"codescope/internal/core/errors"
	"codescope/internal/engine/scan"
)

// Run performs an initial analysis of root, then re-runs the pipeline each
// time watched files change and the debounce window goes quiet. The watcher
// starts before the first run, so changes landing mid-analysis queue a
// follow-up instead of being lost. onResult receives every completed
// analysis. Returns once ctx is done.
func Run(ctx context.Context, cfg *config.Config, svc *app.Service, root string, onResult func(*app.ProjectAnalysis)) error {
	if onResult == nil {
		onResult = func(*app.ProjectAnalysis) {}
	}

	depth, err := scan.ParseDepth(cfg.Scan.Depth)
	if err != nil {
		return err
	}
	opts := app.Options{
		IncludeTests: cfg.Scan.TestsIncluded(),
		Depth:        depth,
	}

	// The watcher skips what the scanner would skip, so a batch never
	// triggers a rescan that sees no difference.
	filter, err := scan.NewFilter(scan.FilterConfig{
		ExcludeDirs:        cfg.Scan.ExcludeDirs,
		IncludeTests:       opts.IncludeTests,
		RecordUnrecognized: depth == scan.DepthDeep,
	})
	if err != nil {
		return err
	}

	changes := make(chan []string, 1)
	watcher, err := NewWatcher(filter, cfg.Watch.Debounce, func(paths []string) {
		select {
		case changes <- paths:
		default:
			// A batch is already queued and every run rescans the whole
			// tree, so these changes fold into the queued run.
		}
	})
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Watch(root); err != nil {
		return err
	}
	slog.Info("watching for changes", "root", root, "debounce", cfg.Watch.Debounce)

	analysis, err := svc.StartAnalysis(ctx, root, opts)
	if err != nil {
		return err
	}
	onResult(analysis)

	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-changes:
			slog.Info("changes detected", "files", len(paths))
			analysis, err := svc.StartAnalysis(ctx, root, opts)
			if err != nil {
				if errors.IsCode(err, errors.CodeCancelled) {
					return nil
				}
				slog.Warn("re-analysis failed", "error", err)
				continue
			}
			onResult(analysis)
		}
	}
}
