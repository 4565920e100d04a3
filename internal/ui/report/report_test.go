package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"codescope/internal/core/app"
	"codescope/internal/core/errors"
	"codescope/internal/engine/dupes"
	"codescope/internal/engine/extract"
	"codescope/internal/engine/graph"
	"codescope/internal/engine/metrics"
)

func sampleAnalysis() *app.ProjectAnalysis {
	return &app.ProjectAnalysis{
		ProjectPath: "/tmp/demo",
		SessionID:   "sess-report",
		Files: []extract.FileRecord{
			{Path: "src/a.ts", Name: "a.ts", Extension: ".ts", SizeBytes: 120, LineCount: 12, Functions: []string{"a"}},
			{Path: "src/b.ts", Name: "b.ts", Extension: ".ts", SizeBytes: 90, LineCount: 8, Functions: []string{"b"}},
		},
		Dependencies: []graph.Edge{
			{From: "src/a.ts", To: "./b", Resolved: "src/b.ts", Kind: "import"},
		},
		CycleReport: graph.CycleReport{
			HasCycles: true,
			Cycles:    []graph.Cycle{{Members: []string{"src/a.ts", "src/b.ts"}}},
		},
		Duplicates: []dupes.Group{
			{Fingerprint: "abcdef0123456789", Members: []string{"src/a.ts", "src/b.ts"}},
		},
		Metrics: metrics.Metrics{
			TotalFiles:      2,
			TotalLines:      20,
			TotalFunctions:  2,
			AvgLinesPerFile: 10,
			Languages:       []string{"TypeScript"},
			CodeQuality:     80,
			Recommendations: []string{"Keep modules small"},
		},
		ArchitecturePatterns: []string{"Component Architecture"},
		StartedAt:            time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		CompletedAt:          time.Date(2025, 6, 1, 10, 0, 5, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"json", "yaml", "markdown"} {
		format, err := ParseFormat(valid)
		if err != nil {
			t.Fatalf("ParseFormat(%q): %v", valid, err)
		}
		if string(format) != valid {
			t.Errorf("ParseFormat(%q) = %q", valid, format)
		}
	}

	format, err := ParseFormat("")
	if err != nil {
		t.Fatalf("ParseFormat(\"\"): %v", err)
	}
	if format != FormatJSON {
		t.Errorf("expected empty format to default to json, got %q", format)
	}

	if _, err := ParseFormat("xml"); !errors.IsCode(err, errors.CodeValidationError) {
		t.Errorf("expected VALIDATION_ERROR for xml, got %v", err)
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := Render(sampleAnalysis(), FormatJSON)
	if err != nil {
		t.Fatalf("render json: %v", err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("expected trailing newline")
	}

	var decoded app.ProjectAnalysis
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if decoded.SessionID != "sess-report" {
		t.Errorf("unexpected session id %q", decoded.SessionID)
	}
	if len(decoded.Files) != 2 {
		t.Errorf("expected 2 files, got %d", len(decoded.Files))
	}
}

func TestRenderYAML(t *testing.T) {
	data, err := Render(sampleAnalysis(), FormatYAML)
	if err != nil {
		t.Fatalf("render yaml: %v", err)
	}

	var decoded map[string]any
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if decoded["session_id"] != "sess-report" {
		t.Errorf("unexpected session id %v", decoded["session_id"])
	}
	if _, ok := decoded["circular_dependencies"]; !ok {
		t.Error("expected circular_dependencies key")
	}
}

func TestRenderRejectsBadInput(t *testing.T) {
	if _, err := Render(nil, FormatJSON); !errors.IsCode(err, errors.CodeValidationError) {
		t.Errorf("expected VALIDATION_ERROR for nil analysis, got %v", err)
	}
	if _, err := Render(sampleAnalysis(), Format("xml")); !errors.IsCode(err, errors.CodeValidationError) {
		t.Errorf("expected VALIDATION_ERROR for unknown format, got %v", err)
	}
}

func TestMarkdownSections(t *testing.T) {
	out := Markdown(sampleAnalysis())

	for _, want := range []string{
		"title: Project Analysis Report\n",
		"project: demo\n",
		"generated_at: 2025-06-01T10:00:05Z\n",
		"# Analysis Report",
		"| Total Files | 2 |",
		"| Languages | TypeScript |",
		"src/a.ts -> src/b.ts",
		"`abcdef012345`",
		"- Component Architecture",
		"| `src/a.ts` | 12 | 1 | 120 |",
		"- Keep modules small",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected markdown to contain %q", want)
		}
	}
}

func TestMarkdownEmptyStates(t *testing.T) {
	out := Markdown(&app.ProjectAnalysis{ProjectPath: "/tmp/empty"})

	for _, want := range []string{
		"No circular dependencies detected.",
		"No duplicate files detected.",
		"No architecture patterns detected.",
		"No files analyzed.",
		"None.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected markdown to contain %q", want)
		}
	}
}
