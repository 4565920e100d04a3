package scan

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"codescope/internal/core/errors"
	"codescope/internal/engine/extract"
	"codescope/internal/shared/observability"
)

// Depth selects how much work the extraction pass does per file.
type Depth string

const (
	// DepthShallow records size and line count only.
	DepthShallow Depth = "shallow"
	// DepthMedium runs full lexical extraction for recognized extensions.
	DepthMedium Depth = "medium"
	// DepthDeep additionally lists unrecognized files with size-only records.
	DepthDeep Depth = "deep"
)

func ParseDepth(s string) (Depth, error) {
	switch Depth(s) {
	case DepthShallow, DepthMedium, DepthDeep:
		return Depth(s), nil
	case "":
		return DepthMedium, nil
	}
	return "", errors.Newf(errors.CodeValidationError, "analysis depth %q must be one of: shallow, medium, deep", s)
}

type Config struct {
	ExcludeDirs  []string
	IncludeTests bool
	Depth        Depth
	Workers      int
	Registry     *extract.Registry
}

// Scanner walks a project tree twice: a counting pass that fixes the
// progress denominator, then an extraction pass. The second walk repeats the
// first's filtering, so the denominator stays stable instead of growing as
// files are discovered mid-scan.
type Scanner struct {
	filter    *Filter
	extractor *extract.Extractor
	depth     Depth
	workers   int
}

func New(cfg Config) (*Scanner, error) {
	registry := cfg.Registry
	if registry == nil {
		registry = extract.DefaultRegistry()
	}

	depth := cfg.Depth
	if depth == "" {
		depth = DepthMedium
	}

	filter, err := NewFilter(FilterConfig{
		ExcludeDirs:        cfg.ExcludeDirs,
		IncludeTests:       cfg.IncludeTests,
		RecordUnrecognized: depth == DepthDeep,
		Registry:           registry,
	})
	if err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	return &Scanner{
		filter:    filter,
		extractor: extract.NewExtractor(registry),
		depth:     depth,
		workers:   workers,
	}, nil
}

type target struct {
	rel string
	abs string
}

// Count is the pre-pass: it walks the filtered tree and returns how many
// files the extraction pass will process.
func (s *Scanner) Count(ctx context.Context, root string) (int, error) {
	targets, err := s.collect(ctx, root)
	if err != nil {
		return 0, err
	}
	return len(targets), nil
}

// Run is the extraction pass. Files are read, fingerprinted, and extracted
// by a bounded worker pool; the returned records keep discovery order
// regardless of worker interleaving. onFile receives the running processed
// count once per file, serialized, so observed progress never moves
// backward. Unreadable files are logged and skipped without aborting the
// scan; they still advance the processed count.
func (s *Scanner) Run(ctx context.Context, root string, onFile func(processed int)) ([]extract.FileRecord, error) {
	targets, err := s.collect(ctx, root)
	if err != nil {
		return nil, err
	}

	lexical := s.depth != DepthShallow
	results := make([]extract.FileRecord, len(targets))
	extracted := make([]bool, len(targets))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.workers)
	var mu sync.Mutex
	processed := 0

dispatch:
	for i := range targets {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			break dispatch
		}

		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			record, err := s.processFile(targets[idx], lexical)

			mu.Lock()
			if err == nil {
				results[idx] = record
				extracted[idx] = true
			}
			processed++
			if onFile != nil {
				onFile(processed)
			}
			mu.Unlock()

			if err != nil {
				slog.Warn("skipping unreadable file", "path", targets[idx].rel, "error", err)
			}
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeCancelled, "scan cancelled")
	}

	records := make([]extract.FileRecord, 0, len(targets))
	for i, ok := range extracted {
		if ok {
			records = append(records, results[i])
		}
	}
	return records, nil
}

// collect walks the tree once, applying the filter. Directory read errors
// are logged and the walk continues with siblings; only a missing root or
// cancellation aborts.
func (s *Scanner) collect(ctx context.Context, root string) ([]target, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, errors.Wrap(err, errors.CodeNotFound, "project path not found")
	}

	var targets []target
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			slog.Warn("skipping unreadable directory", "path", path, "error", walkErr)
			return nil
		}

		if d.IsDir() {
			if path != root && !s.filter.Descend(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.filter.File(d.Name()) == FileSkip {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		targets = append(targets, target{rel: filepath.ToSlash(rel), abs: path})
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeCancelled, "scan cancelled")
	}
	return targets, nil
}

func (s *Scanner) processFile(t target, lexical bool) (extract.FileRecord, error) {
	started := time.Now()

	f, err := os.Open(t.abs)
	if err != nil {
		return extract.FileRecord{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return extract.FileRecord{}, err
	}

	var buf bytes.Buffer
	fingerprint, err := Fingerprint(io.TeeReader(f, &buf))
	if err != nil {
		return extract.FileRecord{}, err
	}

	record := s.extractor.Extract(t.rel, info.Size(), buf.Bytes(), lexical)
	record.Fingerprint = fingerprint

	observability.ExtractDuration.WithLabelValues(s.extractor.Registry().LanguageOf(filepath.Ext(t.rel))).Observe(time.Since(started).Seconds())
	observability.FilesProcessedTotal.Inc()
	return record, nil
}
