package metrics

import (
	"reflect"
	"testing"

	"codescope/internal/engine/extract"
)

func pathRecords(paths ...string) []extract.FileRecord {
	records := make([]extract.FileRecord, 0, len(paths))
	for _, p := range paths {
		records = append(records, extract.FileRecord{Path: p})
	}
	return records
}

func TestDetectPatterns(t *testing.T) {
	// Record order must not leak into the output order.
	got := DetectPatterns(pathRecords(
		"tests/test_app.py",
		"src/components/Button.tsx",
		"src/api/client.ts",
	))

	want := []string{"Component Architecture", "Service Layer", "Test Coverage"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected patterns: %q", got)
	}
}

func TestDetectPatternsCaseInsensitive(t *testing.T) {
	got := DetectPatterns(pathRecords("SRC/Components/App.TSX"))
	want := []string{"Component Architecture"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected patterns: %q", got)
	}
}

func TestDetectPatternsService(t *testing.T) {
	got := DetectPatterns(pathRecords("internal/services/auth.py"))
	want := []string{"Service Layer"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected patterns: %q", got)
	}
}

func TestDetectPatternsNone(t *testing.T) {
	if got := DetectPatterns(pathRecords("main.py", "util.py")); len(got) != 0 {
		t.Errorf("expected no patterns, got %q", got)
	}
}
