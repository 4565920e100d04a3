package app

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"codescope/internal/core/config"
	"codescope/internal/core/errors"
	"codescope/internal/engine/dupes"
	"codescope/internal/engine/extract"
	"codescope/internal/engine/graph"
	"codescope/internal/engine/metrics"
	"codescope/internal/engine/scan"
	"codescope/internal/shared/observability"
	"codescope/internal/shared/progress"
)

// Service is the analysis orchestrator. It owns the progress hub, tracks
// in-flight runs so they can be cancelled by session id, and evicts finished
// sessions after the configured retention window.
type Service struct {
	cfg *config.Config
	hub *progress.Hub

	mu     sync.Mutex
	active map[string]context.CancelFunc

	evictStop chan struct{}
	evictDone chan struct{}
}

func NewService(cfg *config.Config) *Service {
	s := &Service{
		cfg:       cfg,
		hub:       progress.NewHub(),
		active:    make(map[string]context.CancelFunc),
		evictStop: make(chan struct{}),
		evictDone: make(chan struct{}),
	}
	go s.evictLoop()
	return s
}

// Close stops the eviction loop. In-flight analyses keep running on their
// caller contexts.
func (s *Service) Close() {
	close(s.evictStop)
	<-s.evictDone
}

// StartAnalysis runs the pipeline against root and blocks until it finishes.
// The session exists before any file work starts, so a caller that supplied
// its own id can subscribe and observe the whole run. A failure is published
// to the session before the error is returned; the terminal state keeps the
// files-processed count reached so far.
func (s *Service) StartAnalysis(ctx context.Context, root string, opts Options) (*ProjectAnalysis, error) {
	ctx, span := observability.Tracer.Start(ctx, "analysis.Run")
	defer span.End()

	if strings.TrimSpace(root) == "" {
		return nil, errors.New(errors.CodeValidationError, "project path must not be empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "project path is not usable")
	}

	id := opts.SessionID
	if id == "" {
		id = uuid.New().String()
	}

	if err := s.hub.Create(id, 0); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.track(id, cancel)
	defer s.untrack(id)

	slog.Info("analysis started", "session", id, "path", abs)
	started := time.Now()

	analysis, err := s.run(runCtx, abs, id, opts)
	if err != nil {
		_ = s.hub.Fail(id, err.Error())
		slog.Warn("analysis failed", "session", id, "error", err)
		return nil, errors.AddContext(err, errors.CtxSession, id)
	}

	analysis.StartedAt = started
	analysis.CompletedAt = time.Now()
	_ = s.hub.Complete(id, len(analysis.Duplicates))

	slog.Info("analysis complete",
		"session", id,
		"files", analysis.Metrics.TotalFiles,
		"edges", len(analysis.Dependencies),
		"cycles", len(analysis.CycleReport.Cycles),
		"duration", analysis.CompletedAt.Sub(started))
	return analysis, nil
}

func (s *Service) run(ctx context.Context, root, id string, opts Options) (*ProjectAnalysis, error) {
	scanner, err := s.newScanner(opts)
	if err != nil {
		return nil, err
	}

	total, err := s.countFiles(ctx, scanner, root)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, errors.New(errors.CodeNotFound, "nothing to analyze")
	}
	_ = s.hub.Advance(id, 0, total)

	records, err := s.extractFiles(ctx, scanner, root, id, total)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeCancelled, "analysis cancelled")
	}

	g, report := s.buildGraph(ctx, records)
	groups := s.detectDuplicates(ctx, records)
	patterns, agg := s.aggregate(ctx, records, g, report, groups)

	return &ProjectAnalysis{
		ProjectPath:          root,
		SessionID:            id,
		Files:                records,
		Dependencies:         g.Edges,
		CycleReport:          report,
		Duplicates:           groups,
		Metrics:              agg,
		ArchitecturePatterns: patterns,
	}, nil
}

func (s *Service) newScanner(opts Options) (*scan.Scanner, error) {
	depth := opts.Depth
	if depth == "" {
		depth = scan.DepthMedium
	}
	return scan.New(scan.Config{
		ExcludeDirs:  s.cfg.Scan.ExcludeDirs,
		IncludeTests: opts.IncludeTests,
		Depth:        depth,
		Workers:      s.cfg.Scan.Workers,
	})
}

func (s *Service) countFiles(ctx context.Context, scanner *scan.Scanner, root string) (int, error) {
	ctx, span := observability.Tracer.Start(ctx, "scan.count")
	defer span.End()
	return scanner.Count(ctx, root)
}

func (s *Service) extractFiles(ctx context.Context, scanner *scan.Scanner, root, id string, total int) ([]extract.FileRecord, error) {
	ctx, span := observability.Tracer.Start(ctx, "scan.extract")
	defer span.End()
	defer func(started time.Time) {
		observability.ScanDuration.Observe(time.Since(started).Seconds())
	}(time.Now())

	return scanner.Run(ctx, root, func(processed int) {
		_ = s.hub.Advance(id, processed, total)
	})
}

func (s *Service) buildGraph(ctx context.Context, records []extract.FileRecord) (*graph.Graph, graph.CycleReport) {
	_, span := observability.Tracer.Start(ctx, "graph.build")
	defer span.End()
	defer observeTask("graph", time.Now())

	g := graph.Build(records)
	return g, g.DetectCycles()
}

func (s *Service) detectDuplicates(ctx context.Context, records []extract.FileRecord) []dupes.Group {
	_, span := observability.Tracer.Start(ctx, "dupes.detect")
	defer span.End()
	defer observeTask("dupes", time.Now())

	return dupes.Detect(records)
}

func (s *Service) aggregate(ctx context.Context, records []extract.FileRecord, g *graph.Graph, report graph.CycleReport, groups []dupes.Group) ([]string, metrics.Metrics) {
	_, span := observability.Tracer.Start(ctx, "metrics.aggregate")
	defer span.End()
	defer observeTask("metrics", time.Now())

	patterns := metrics.DetectPatterns(records)
	return patterns, metrics.Aggregate(records, g.Unresolved(), len(report.Cycles), len(groups), patterns)
}

func observeTask(task string, started time.Time) {
	observability.AnalysisDuration.WithLabelValues(task).Observe(time.Since(started).Seconds())
}

// SubscribeProgress exposes a session's progress stream.
func (s *Service) SubscribeProgress(id string) (<-chan progress.State, func(), error) {
	return s.hub.Subscribe(id)
}

// Progress returns the current state of a session.
func (s *Service) Progress(id string) (progress.State, error) {
	return s.hub.Snapshot(id)
}

// Cancel aborts the in-flight run for a session. Sessions that already
// finished, or were never started, report NOT_FOUND.
func (s *Service) Cancel(id string) error {
	s.mu.Lock()
	cancel, ok := s.active[id]
	s.mu.Unlock()
	if !ok {
		return errors.Newf(errors.CodeNotFound, "no active analysis for session %q", id)
	}
	cancel()
	return nil
}

func (s *Service) track(id string, cancel context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[id] = cancel
}

func (s *Service) untrack(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cancel, ok := s.active[id]; ok {
		cancel()
		delete(s.active, id)
	}
}

func (s *Service) evictLoop() {
	defer close(s.evictDone)

	retention := s.cfg.Scan.SessionRetention
	if retention <= 0 {
		retention = 10 * time.Minute
	}
	interval := retention
	if interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.hub.Evict(retention); n > 0 {
				slog.Debug("evicted finished sessions", "count", n)
			}
		case <-s.evictStop:
			return
		}
	}
}
