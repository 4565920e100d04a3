package metrics

import (
	"codescope/internal/engine/extract"
	"codescope/internal/shared/util"
)

// Metrics is the aggregate view of one scan: headline totals, the four
// scores, and the narrative advice lists.
type Metrics struct {
	TotalFiles           int      `json:"total_files" yaml:"total_files"`
	TotalLines           int      `json:"total_lines" yaml:"total_lines"`
	TotalFunctions       int      `json:"total_functions" yaml:"total_functions"`
	AvgLinesPerFile      float64  `json:"avg_lines_per_file" yaml:"avg_lines_per_file"`
	Languages            []string `json:"languages" yaml:"languages"`
	CodeQuality          int      `json:"code_quality" yaml:"code_quality"`
	ArchitectureScore    int      `json:"architecture_score" yaml:"architecture_score"`
	MaintainabilityIndex int      `json:"maintainability_index" yaml:"maintainability_index"`
	TechnicalDebt        int      `json:"technical_debt" yaml:"technical_debt"`
	Recommendations      []string `json:"recommendations" yaml:"recommendations"`
	Risks                []string `json:"risks" yaml:"risks"`
	Opportunities        []string `json:"opportunities" yaml:"opportunities"`
}

// Aggregate folds scan results into Metrics. unresolved, cycles and
// dupGroups come from the graph and duplicate passes, patterns from
// DetectPatterns. Average lines and documentation coverage guard the
// zero-file and zero-function cases.
func Aggregate(records []extract.FileRecord, unresolved, cycles, dupGroups int, patterns []string) Metrics {
	totalLines := 0
	totalFunctions := 0
	documented := 0
	notes := 0
	langSet := make(map[string]bool)

	for _, record := range records {
		totalLines += record.LineCount
		totalFunctions += len(record.Functions)
		documented += record.DocumentedFunctions
		notes += len(record.Notes)
		if record.Extension != "unknown" {
			langSet[record.Extension] = true
		}
	}

	languages := util.SortedStringKeys(langSet)

	avg := 0.0
	if len(records) > 0 {
		avg = float64(totalLines) / float64(len(records))
	}
	docCoverage := 0.0
	if totalFunctions > 0 {
		docCoverage = float64(documented) / float64(totalFunctions)
	}

	in := ScoreInputs{
		Files:          len(records),
		TotalFunctions: totalFunctions,
		Unresolved:     unresolved,
		DupGroups:      dupGroups,
		Notes:          notes,
		DocCoverage:    docCoverage,
		AvgLines:       avg,
		Cycles:         cycles,
		Patterns:       len(patterns),
		Languages:      len(langSet),
	}

	return Metrics{
		TotalFiles:           len(records),
		TotalLines:           totalLines,
		TotalFunctions:       totalFunctions,
		AvgLinesPerFile:      avg,
		Languages:            languages,
		CodeQuality:          CodeQuality(in),
		ArchitectureScore:    ArchitectureScore(in),
		MaintainabilityIndex: MaintainabilityIndex(in),
		TechnicalDebt:        TechnicalDebt(in),
		Recommendations:      Recommendations(in),
		Risks:                Risks(in),
		Opportunities:        Opportunities(in),
	}
}
