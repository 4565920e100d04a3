package scan

import (
	"fmt"
	"path/filepath"

	"github.com/gobwas/glob"

	"codescope/internal/engine/extract"
)

// Directories never descended into. Walking dependency caches or build
// output would make results meaningless and scans unbounded.
func defaultDenyDirs() []string {
	return []string{
		"node_modules",
		".git",
		"dist",
		"build",
		"__pycache__",
		"vendor",
		".idea",
		".vscode",
		"target",
		".venv",
		"venv",
		"coverage",
	}
}

type FileDecision int

const (
	// FileSkip: the entry contributes nothing to the scan.
	FileSkip FileDecision = iota
	// FileAnalyze: the entry has a recognized extension and gets a record.
	FileAnalyze
	// FileRecord: unrecognized extension, listed with a size-only record.
	FileRecord
)

// Filter decides whether a filesystem entry is descended into or analyzed.
type Filter struct {
	denyDirs           []glob.Glob
	registry           *extract.Registry
	includeTests       bool
	recordUnrecognized bool
}

type FilterConfig struct {
	// ExcludeDirs are glob patterns added to the built-in deny-list.
	ExcludeDirs  []string
	IncludeTests bool
	// RecordUnrecognized lists files outside the extension allow-list with
	// size-only records instead of skipping them.
	RecordUnrecognized bool
	Registry           *extract.Registry
}

func NewFilter(cfg FilterConfig) (*Filter, error) {
	registry := cfg.Registry
	if registry == nil {
		registry = extract.DefaultRegistry()
	}

	patterns := append(defaultDenyDirs(), cfg.ExcludeDirs...)
	denyDirs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", p, err)
		}
		denyDirs = append(denyDirs, g)
	}

	return &Filter{
		denyDirs:           denyDirs,
		registry:           registry,
		includeTests:       cfg.IncludeTests,
		recordUnrecognized: cfg.RecordUnrecognized,
	}, nil
}

// Descend reports whether a directory named name should be walked into.
func (f *Filter) Descend(name string) bool {
	for _, g := range f.denyDirs {
		if g.Match(name) {
			return false
		}
	}
	return true
}

// File classifies a file entry by its base name.
func (f *Filter) File(name string) FileDecision {
	if !f.includeTests && f.registry.IsTestFile(name) {
		return FileSkip
	}
	if f.registry.Recognized(filepath.Ext(name)) {
		return FileAnalyze
	}
	if f.recordUnrecognized {
		return FileRecord
	}
	return FileSkip
}
