package metrics

import "testing"

func TestCodeQuality(t *testing.T) {
	cases := []struct {
		name string
		in   ScoreInputs
		want int
	}{
		{"baseline", ScoreInputs{}, 70},
		{"penalties and reward", ScoreInputs{Unresolved: 3, DupGroups: 1, DocCoverage: 0.5}, 69},
		{"fully documented", ScoreInputs{DocCoverage: 1}, 90},
		{"floor", ScoreInputs{Unresolved: 40}, 0},
		{"coverage rounds", ScoreInputs{DocCoverage: 0.325}, 77},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CodeQuality(tc.in); got != tc.want {
				t.Errorf("CodeQuality = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestArchitectureScore(t *testing.T) {
	cases := []struct {
		name string
		in   ScoreInputs
		want int
	}{
		{"baseline", ScoreInputs{}, 75},
		{"one cycle", ScoreInputs{Cycles: 1}, 60},
		{"unresolved capped at 20", ScoreInputs{Unresolved: 50}, 55},
		{"pattern bonus", ScoreInputs{Patterns: 2}, 85},
		{"pattern bonus capped at 15", ScoreInputs{Patterns: 4}, 90},
		{"cycles and unresolved", ScoreInputs{Cycles: 3, Unresolved: 25}, 10},
		{"floor", ScoreInputs{Cycles: 6}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ArchitectureScore(tc.in); got != tc.want {
				t.Errorf("ArchitectureScore = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestMaintainabilityIndex(t *testing.T) {
	cases := []struct {
		name string
		in   ScoreInputs
		want int
	}{
		{"baseline", ScoreInputs{}, 80},
		{"long files", ScoreInputs{AvgLines: 250}, 55},
		{"notes use integer halves", ScoreInputs{Notes: 5}, 78},
		{"average rounds", ScoreInputs{AvgLines: 25}, 77},
		{"floor", ScoreInputs{AvgLines: 1200, DupGroups: 2, Notes: 10}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MaintainabilityIndex(tc.in); got != tc.want {
				t.Errorf("MaintainabilityIndex = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestTechnicalDebt(t *testing.T) {
	cases := []struct {
		name string
		in   ScoreInputs
		want int
	}{
		{"baseline", ScoreInputs{}, 10},
		{"mixed debt", ScoreInputs{Notes: 2, DupGroups: 1, Cycles: 1}, 34},
		{"ceiling", ScoreInputs{Notes: 40}, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TechnicalDebt(tc.in); got != tc.want {
				t.Errorf("TechnicalDebt = %d, want %d", got, tc.want)
			}
		})
	}
}
