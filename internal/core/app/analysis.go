package app

import (
	"time"

	"codescope/internal/engine/dupes"
	"codescope/internal/engine/extract"
	"codescope/internal/engine/graph"
	"codescope/internal/engine/metrics"
	"codescope/internal/engine/scan"
)

// Options control a single analysis run.
type Options struct {
	// IncludeTests keeps test files in the scan. Default callers pass true;
	// the API maps its include_tests flag here.
	IncludeTests bool
	// Depth selects the extraction level. Empty means DepthMedium.
	Depth scan.Depth
	// SessionID overrides the generated session id. Callers that subscribe
	// to progress before starting the run supply their own.
	SessionID string
}

// ProjectAnalysis is the complete result of one run. Field names on the wire
// match the analysis API responses.
type ProjectAnalysis struct {
	ProjectPath          string               `json:"project_path" yaml:"project_path"`
	SessionID            string               `json:"session_id" yaml:"session_id"`
	Files                []extract.FileRecord `json:"files" yaml:"files"`
	Dependencies         []graph.Edge         `json:"dependencies" yaml:"dependencies"`
	CycleReport          graph.CycleReport    `json:"circular_dependencies" yaml:"circular_dependencies"`
	Duplicates           []dupes.Group        `json:"duplicates" yaml:"duplicates"`
	Metrics              metrics.Metrics      `json:"metrics" yaml:"metrics"`
	ArchitecturePatterns []string             `json:"architecture_patterns" yaml:"architecture_patterns"`
	StartedAt            time.Time            `json:"started_at" yaml:"started_at"`
	CompletedAt          time.Time            `json:"completed_at" yaml:"completed_at"`
}
