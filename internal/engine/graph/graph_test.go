package graph

import (
	"fmt"
	"reflect"
	"testing"

	"codescope/internal/engine/extract"
)

func record(path string, imports ...string) extract.FileRecord {
	return extract.FileRecord{Path: path, Imports: imports}
}

func TestBuildEdges(t *testing.T) {
	g := Build([]extract.FileRecord{
		record("src/a.ts", "./b", "react", "./b"),
		record("src/b.ts"),
	})

	if len(g.Edges) != 3 {
		t.Fatalf("expected 3 edges, got %d", len(g.Edges))
	}

	first := g.Edges[0]
	if first.From != "src/a.ts" || first.To != "./b" || first.Resolved != "src/b.ts" || first.Kind != EdgeKindImport {
		t.Errorf("unexpected first edge: %+v", first)
	}
	if g.Edges[1].Resolved != "" {
		t.Errorf("expected bare specifier to stay unresolved, got %q", g.Edges[1].Resolved)
	}
	if g.Edges[2].Resolved != "src/b.ts" {
		t.Errorf("expected repeated import to keep its own edge, got %+v", g.Edges[2])
	}
	if g.Unresolved() != 1 {
		t.Errorf("expected 1 unresolved edge, got %d", g.Unresolved())
	}
}

func TestDetectCyclesTriangle(t *testing.T) {
	g := Build([]extract.FileRecord{
		record("a.py", "b"),
		record("b.py", "c"),
		record("c.py", "a"),
	})

	report := g.DetectCycles()
	if !report.HasCycles {
		t.Fatal("expected a cycle")
	}
	if len(report.Cycles) != 1 {
		t.Fatalf("expected 1 cycle, got %d", len(report.Cycles))
	}

	cycle := report.Cycles[0]
	want := []string{"a.py", "b.py", "c.py"}
	if !reflect.DeepEqual(cycle.Members, want) {
		t.Errorf("unexpected members: %v", cycle.Members)
	}

	if len(cycle.Edges) != 3 {
		t.Fatalf("expected 3 cycle edges, got %d", len(cycle.Edges))
	}
	closing := cycle.Edges[2]
	if closing.From != "c.py" || closing.Resolved != "a.py" {
		t.Errorf("unexpected closing edge: %+v", closing)
	}
}

func TestDetectCyclesAcyclicChain(t *testing.T) {
	g := Build([]extract.FileRecord{
		record("a.py", "b"),
		record("b.py", "c"),
		record("c.py"),
	})

	report := g.DetectCycles()
	if report.HasCycles {
		t.Fatalf("expected no cycles, got %v", report.Cycles)
	}
	if len(report.Cycles) != 0 {
		t.Errorf("expected empty cycle list, got %d", len(report.Cycles))
	}
}

func TestDetectCyclesSelfImport(t *testing.T) {
	g := Build([]extract.FileRecord{
		record("loop.py", "loop"),
		record("clean.py", "loop"),
	})

	report := g.DetectCycles()
	if len(report.Cycles) != 1 {
		t.Fatalf("expected 1 cycle, got %d", len(report.Cycles))
	}
	if !reflect.DeepEqual(report.Cycles[0].Members, []string{"loop.py"}) {
		t.Errorf("unexpected members: %v", report.Cycles[0].Members)
	}
}

func TestDetectCyclesTwoCyclesSharedNode(t *testing.T) {
	g := Build([]extract.FileRecord{
		record("a.py", "b", "c"),
		record("b.py", "a"),
		record("c.py", "a"),
	})

	report := g.DetectCycles()
	if len(report.Cycles) != 2 {
		t.Fatalf("expected 2 cycles, got %d: %v", len(report.Cycles), report.Cycles)
	}
}

func TestDetectCyclesDeterministic(t *testing.T) {
	records := []extract.FileRecord{
		record("x.py", "y"),
		record("y.py", "z"),
		record("z.py", "x"),
	}

	first := Build(records).DetectCycles()
	for i := 0; i < 10; i++ {
		if got := Build(records).DetectCycles(); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d diverged: %v vs %v", i, got, first)
		}
	}
}

// A chain long enough to blow a recursive implementation's stack.
func TestDetectCyclesDeepChain(t *testing.T) {
	const n = 5000
	records := make([]extract.FileRecord, 0, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("m%05d", i)
		next := fmt.Sprintf("m%05d", (i+1)%n)
		records = append(records, record(name+".py", next))
	}

	report := Build(records).DetectCycles()
	if len(report.Cycles) != 1 {
		t.Fatalf("expected 1 cycle, got %d", len(report.Cycles))
	}
	if len(report.Cycles[0].Members) != n {
		t.Errorf("expected %d members, got %d", n, len(report.Cycles[0].Members))
	}
}
