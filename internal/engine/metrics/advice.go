package metrics

import "fmt"

const (
	maxRecommendations = 5
	maxRisks           = 4
	maxOpportunities   = 4
)

// Advice rules evaluate in a fixed order and truncate at their cap; both the
// order and the caps are part of the output contract.

func Recommendations(in ScoreInputs) []string {
	out := []string{}
	if in.DupGroups > 0 {
		out = append(out, fmt.Sprintf("Consolidate %d duplicate file groups to reduce maintenance burden", in.DupGroups))
	}
	if in.Cycles > 0 {
		out = append(out, fmt.Sprintf("Break %d circular import chains to untangle module boundaries", in.Cycles))
	}
	if in.DocCoverage < 0.5 && in.TotalFunctions > 0 {
		out = append(out, fmt.Sprintf("Document exported functions; coverage is at %d%%", roundInt(100*in.DocCoverage)))
	}
	if in.AvgLines > 300 {
		out = append(out, fmt.Sprintf("Split oversized files; average length is %d lines", roundInt(in.AvgLines)))
	}
	if in.Unresolved > 10 {
		out = append(out, fmt.Sprintf("Audit external dependencies; %d imports do not resolve locally", in.Unresolved))
	}
	if in.Notes > 20 {
		out = append(out, fmt.Sprintf("Schedule cleanup of %d open TODO/FIXME markers", in.Notes))
	}
	return truncate(out, maxRecommendations)
}

func Risks(in ScoreInputs) []string {
	out := []string{}
	if in.Cycles > 0 {
		out = append(out, "Circular dependencies can cause initialization failures")
	}
	if debt := TechnicalDebt(in); debt >= 60 {
		out = append(out, fmt.Sprintf("Technical debt level is high (%d/100)", debt))
	}
	if in.DupGroups >= 3 {
		out = append(out, "Widespread duplication multiplies the cost of fixes")
	}
	if in.Files > 0 && in.DocCoverage == 0 && in.TotalFunctions > 0 {
		out = append(out, "No documented functions found")
	}
	if in.AvgLines > 500 {
		out = append(out, "Very large files resist safe modification")
	}
	return truncate(out, maxRisks)
}

func Opportunities(in ScoreInputs) []string {
	out := []string{}
	if in.DocCoverage >= 0.8 && in.TotalFunctions > 0 {
		out = append(out, "Documentation coverage is strong; consider publishing API docs")
	}
	if in.Cycles == 0 && in.Files > 1 {
		out = append(out, "Acyclic import structure supports incremental builds")
	}
	if in.DupGroups == 0 && in.Files > 1 {
		out = append(out, "No duplicate files detected; extraction hygiene is good")
	}
	if in.Languages > 1 {
		out = append(out, "Multi-language project; shared tooling could be unified")
	}
	return truncate(out, maxOpportunities)
}

func truncate(list []string, limit int) []string {
	if len(list) > limit {
		return list[:limit]
	}
	return list
}
