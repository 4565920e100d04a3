package report

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"codescope/internal/core/app"
	"codescope/internal/engine/dupes"
	"codescope/internal/engine/extract"
	"codescope/internal/engine/graph"
	"codescope/internal/engine/metrics"
)

const largestFileRows = 10

// Markdown renders a human-readable digest of one analysis. The full result
// set stays in the JSON and YAML formats; this keeps the sections a reviewer
// scans first.
func Markdown(analysis *app.ProjectAnalysis) string {
	generatedAt := analysis.CompletedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: Project Analysis Report\n")
	b.WriteString("project: " + nonEmpty(filepath.Base(analysis.ProjectPath), "unknown") + "\n")
	b.WriteString("generated_at: " + generatedAt.UTC().Format(time.RFC3339) + "\n")
	b.WriteString("---\n\n")

	b.WriteString("# Analysis Report\n\n")
	writeSummary(&b, analysis)
	writeCycles(&b, analysis.CycleReport)
	writeDuplicates(&b, analysis.Duplicates)
	writePatterns(&b, analysis.ArchitecturePatterns)
	writeLargestFiles(&b, analysis.Files)
	writeAdvice(&b, analysis.Metrics)

	return b.String()
}

func writeSummary(b *strings.Builder, analysis *app.ProjectAnalysis) {
	m := analysis.Metrics

	b.WriteString("## Executive Summary\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("| --- | --- |\n")
	b.WriteString(fmt.Sprintf("| Total Files | %d |\n", m.TotalFiles))
	b.WriteString(fmt.Sprintf("| Total Lines | %d |\n", m.TotalLines))
	b.WriteString(fmt.Sprintf("| Total Functions | %d |\n", m.TotalFunctions))
	b.WriteString(fmt.Sprintf("| Avg Lines per File | %.1f |\n", m.AvgLinesPerFile))
	b.WriteString(fmt.Sprintf("| Languages | %s |\n", nonEmpty(strings.Join(m.Languages, ", "), "none")))
	b.WriteString(fmt.Sprintf("| Dependencies | %d |\n", len(analysis.Dependencies)))
	b.WriteString(fmt.Sprintf("| Circular Dependencies | %d |\n", len(analysis.CycleReport.Cycles)))
	b.WriteString(fmt.Sprintf("| Duplicate Groups | %d |\n", len(analysis.Duplicates)))
	b.WriteString(fmt.Sprintf("| Code Quality | %d/100 |\n", m.CodeQuality))
	b.WriteString(fmt.Sprintf("| Architecture Score | %d/100 |\n", m.ArchitectureScore))
	b.WriteString(fmt.Sprintf("| Maintainability Index | %d/100 |\n", m.MaintainabilityIndex))
	b.WriteString(fmt.Sprintf("| Technical Debt | %d/100 |\n\n", m.TechnicalDebt))
}

func writeCycles(b *strings.Builder, report graph.CycleReport) {
	b.WriteString("## Circular Dependencies\n")
	if !report.HasCycles {
		b.WriteString("No circular dependencies detected.\n\n")
		return
	}

	b.WriteString("| # | Cycle Path | Impact | Length |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for i, cycle := range report.Cycles {
		impact := "🟡 Medium"
		if len(cycle.Members) >= 4 {
			impact = "🔴 High"
		}
		b.WriteString(fmt.Sprintf("| %d | `%s` | %s | %d |\n", i+1, strings.Join(cycle.Members, " -> "), impact, len(cycle.Members)))
	}
	b.WriteString("\n")
}

func writeDuplicates(b *strings.Builder, groups []dupes.Group) {
	b.WriteString("## Duplicate Files\n")
	if len(groups) == 0 {
		b.WriteString("No duplicate files detected.\n\n")
		return
	}

	b.WriteString("| Fingerprint | Files |\n")
	b.WriteString("| --- | --- |\n")
	for _, group := range groups {
		b.WriteString(fmt.Sprintf("| `%s` | %s |\n", shortFingerprint(group.Fingerprint), "`"+strings.Join(group.Members, "`, `")+"`"))
	}
	b.WriteString("\n")
}

func writePatterns(b *strings.Builder, patterns []string) {
	b.WriteString("## Architecture Patterns\n")
	if len(patterns) == 0 {
		b.WriteString("No architecture patterns detected.\n\n")
		return
	}

	for _, pattern := range patterns {
		b.WriteString("- " + pattern + "\n")
	}
	b.WriteString("\n")
}

func writeLargestFiles(b *strings.Builder, files []extract.FileRecord) {
	b.WriteString("## Largest Files\n")
	if len(files) == 0 {
		b.WriteString("No files analyzed.\n\n")
		return
	}

	ranked := append([]extract.FileRecord(nil), files...)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].LineCount != ranked[j].LineCount {
			return ranked[i].LineCount > ranked[j].LineCount
		}
		return ranked[i].Path < ranked[j].Path
	})
	if len(ranked) > largestFileRows {
		ranked = ranked[:largestFileRows]
	}

	b.WriteString("| File | Lines | Functions | Size |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, file := range ranked {
		b.WriteString(fmt.Sprintf("| `%s` | %d | %d | %d |\n", file.Path, file.LineCount, len(file.Functions), file.SizeBytes))
	}
	b.WriteString("\n")
}

func writeAdvice(b *strings.Builder, m metrics.Metrics) {
	writeList(b, "Recommendations", m.Recommendations)
	writeList(b, "Risks", m.Risks)
	writeList(b, "Opportunities", m.Opportunities)
}

func writeList(b *strings.Builder, heading string, items []string) {
	b.WriteString("## " + heading + "\n")
	if len(items) == 0 {
		b.WriteString("None.\n\n")
		return
	}

	for _, item := range items {
		b.WriteString("- " + item + "\n")
	}
	b.WriteString("\n")
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}

func nonEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
