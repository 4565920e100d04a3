package metrics

import "math"

// ScoreInputs collects the aggregate facts the score functions read. The
// four scores are pure functions of this value, so thresholds can be tested
// without running a scan.
type ScoreInputs struct {
	Files          int
	TotalFunctions int
	Unresolved     int
	DupGroups      int
	Notes          int
	DocCoverage    float64
	AvgLines       float64
	Cycles         int
	Patterns       int
	Languages      int
}

// CodeQuality starts at 70, penalizes unresolved imports and duplicate
// groups, and rewards documentation coverage.
func CodeQuality(in ScoreInputs) int {
	return clamp(70 - 2*in.Unresolved - 5*in.DupGroups + roundInt(20*in.DocCoverage))
}

// ArchitectureScore starts at 75; cycles weigh heaviest, unresolved imports
// are capped at 20, and detected patterns add up to 15.
func ArchitectureScore(in ScoreInputs) int {
	bonus := 5 * in.Patterns
	if bonus > 15 {
		bonus = 15
	}
	penalty := in.Unresolved
	if penalty > 20 {
		penalty = 20
	}
	return clamp(75 - 15*in.Cycles - penalty + bonus)
}

// MaintainabilityIndex starts at 80 and shrinks with average file length,
// duplicate groups, and open markers (integer halves).
func MaintainabilityIndex(in ScoreInputs) int {
	return clamp(80 - roundInt(in.AvgLines/10) - 3*in.DupGroups - in.Notes/2)
}

// TechnicalDebt grows from a floor of 10 with markers, duplicate groups, and
// cycles. Higher is worse.
func TechnicalDebt(in ScoreInputs) int {
	return clamp(10 + 3*in.Notes + 8*in.DupGroups + 10*in.Cycles)
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
