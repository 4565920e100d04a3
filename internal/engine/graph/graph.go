package graph

import (
	"codescope/internal/engine/extract"
	"codescope/internal/shared/observability"
)

const EdgeKindImport = "import"

// Edge is one import occurrence. To keeps the raw specifier as written;
// Resolved is the project-relative path it points at, or empty when the
// target is external or missing.
type Edge struct {
	From     string `json:"from" yaml:"from"`
	To       string `json:"to" yaml:"to"`
	Resolved string `json:"resolved,omitempty" yaml:"resolved,omitempty"`
	Kind     string `json:"kind" yaml:"kind"`
}

type Cycle struct {
	Members []string `json:"members" yaml:"members"`
	Edges   []Edge   `json:"edges" yaml:"edges"`
}

type CycleReport struct {
	HasCycles bool    `json:"has_cycles" yaml:"has_cycles"`
	Cycles    []Cycle `json:"cycles" yaml:"cycles"`
}

// Graph holds the import edges of one scan plus the resolved file-to-file
// adjacency that cycle detection runs on.
type Graph struct {
	Edges []Edge

	nodes     []string
	adjacency map[string][]string
	edgeFor   map[string]map[string]Edge
}

// Build creates the dependency graph for a set of scanned records. Edges
// follow record order with imports in extraction order, one edge per import
// occurrence. The adjacency keeps a single entry per resolved from-to pair,
// in first-seen order.
func Build(records []extract.FileRecord) *Graph {
	resolver := NewResolver(records)

	g := &Graph{
		Edges:     []Edge{},
		nodes:     make([]string, 0, len(records)),
		adjacency: make(map[string][]string),
		edgeFor:   make(map[string]map[string]Edge),
	}

	for _, record := range records {
		g.nodes = append(g.nodes, record.Path)
		for _, imp := range record.Imports {
			edge := Edge{
				From:     record.Path,
				To:       imp,
				Resolved: resolver.Resolve(record.Path, imp),
				Kind:     EdgeKindImport,
			}
			g.Edges = append(g.Edges, edge)

			if edge.Resolved == "" {
				continue
			}
			if g.edgeFor[edge.From] == nil {
				g.edgeFor[edge.From] = make(map[string]Edge)
			}
			if _, seen := g.edgeFor[edge.From][edge.Resolved]; !seen {
				g.edgeFor[edge.From][edge.Resolved] = edge
				g.adjacency[edge.From] = append(g.adjacency[edge.From], edge.Resolved)
			}
		}
	}

	observability.GraphNodes.Set(float64(len(g.nodes)))
	observability.GraphEdges.Set(float64(len(g.Edges)))
	return g
}

// Unresolved counts edges whose target is external or missing.
func (g *Graph) Unresolved() int {
	n := 0
	for _, edge := range g.Edges {
		if edge.Resolved == "" {
			n++
		}
	}
	return n
}
