package metrics

import (
	"strings"

	"codescope/internal/engine/extract"
)

// DetectPatterns reports coarse architecture signals from record paths.
// Matching is case-insensitive substring search and the output order is
// fixed regardless of record order.
func DetectPatterns(records []extract.FileRecord) []string {
	hasComponent := false
	hasService := false
	hasTest := false

	for _, record := range records {
		p := strings.ToLower(record.Path)
		if strings.Contains(p, "component") {
			hasComponent = true
		}
		if strings.Contains(p, "api") || strings.Contains(p, "service") {
			hasService = true
		}
		if strings.Contains(p, "test") {
			hasTest = true
		}
	}

	patterns := []string{}
	if hasComponent {
		patterns = append(patterns, "Component Architecture")
	}
	if hasService {
		patterns = append(patterns, "Service Layer")
	}
	if hasTest {
		patterns = append(patterns, "Test Coverage")
	}
	return patterns
}
