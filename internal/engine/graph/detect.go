package graph

import "sort"

type nodeColor uint8

const (
	colorWhite nodeColor = iota
	colorGrey
	colorBlack
)

type dfsFrame struct {
	node string
	next int
}

// DetectCycles walks the resolved adjacency depth-first with an explicit
// stack, so arbitrarily deep import chains cannot overflow the goroutine
// stack. Roots run in sorted path order and neighbors in insertion order,
// which keeps the report deterministic across runs.
func (g *Graph) DetectCycles() CycleReport {
	report := CycleReport{Cycles: []Cycle{}}

	colors := make(map[string]nodeColor, len(g.nodes))
	roots := append([]string(nil), g.nodes...)
	sort.Strings(roots)

	for _, root := range roots {
		if colors[root] != colorWhite {
			continue
		}
		g.walk(root, colors, &report)
	}

	report.HasCycles = len(report.Cycles) > 0
	return report
}

// walk runs one DFS from root. An edge into a grey node closes a cycle; the
// members are the stack path from that node to the top.
func (g *Graph) walk(root string, colors map[string]nodeColor, report *CycleReport) {
	stack := []dfsFrame{{node: root}}
	colors[root] = colorGrey

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		neighbors := g.adjacency[top.node]

		if top.next >= len(neighbors) {
			colors[top.node] = colorBlack
			stack = stack[:len(stack)-1]
			continue
		}

		next := neighbors[top.next]
		top.next++

		switch colors[next] {
		case colorWhite:
			colors[next] = colorGrey
			stack = append(stack, dfsFrame{node: next})
		case colorGrey:
			report.Cycles = append(report.Cycles, g.closeCycle(stack, next))
		}
	}
}

func (g *Graph) closeCycle(stack []dfsFrame, reentry string) Cycle {
	start := 0
	for i := range stack {
		if stack[i].node == reentry {
			start = i
			break
		}
	}

	members := make([]string, 0, len(stack)-start)
	for _, frame := range stack[start:] {
		members = append(members, frame.node)
	}

	edges := make([]Edge, 0, len(members))
	for i, from := range members {
		edges = append(edges, g.edgeFor[from][members[(i+1)%len(members)]])
	}
	return Cycle{Members: members, Edges: edges}
}
