package flowz

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
)

// EdgeKind distinguishes a sequential composition edge from a parallel
// fan-out edge, the two shapes §4.12 asks the analyser to account for when
// computing complexity ("parallel composition adds a constant and sequence
// adds one").
type EdgeKind int

const (
	// EdgeSequential connects a flow to the flow composed after it.
	EdgeSequential EdgeKind = iota
	// EdgeParallel connects a fan-out flow to one of its concurrent children.
	EdgeParallel
)

// Node is one flow in an analysed composition graph.
type Node struct {
	ID       uuid.UUID
	Name     Name
	Kind     string
	Metadata Metadata
}

// Edge connects two nodes by index into Graph.Nodes.
type Edge struct {
	From int
	To   int
	Kind EdgeKind
}

// Graph is the directed graph of nodes and edges an Analyzer produces from
// a composed flow (§4.12).
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// nodeComplexity assigns a per-node complexity weight from its declared
// kind. Unrecognized kinds default to 1, the baseline for a plain one-to-one
// combinator.
var nodeComplexity = map[string]int{
	"parallel":     3,
	"parallel_map": 3,
	"race":         3,
	"merge":        3,
	"retry":        2,
	"circuit_breaker": 2,
	"window":       2,
	"group_by":     2,
	"expand":       2,
}

func complexityOf(kind string) int {
	if w, ok := nodeComplexity[kind]; ok {
		return w
	}
	return 1
}

// GraphBuilder incrementally assembles a Graph, since Go's type system
// erases the concrete In/Out of each composed Flow by the time a pipeline
// reaches the analyser — metadata (kind, composed_with, children) is the
// only structural signal available, so callers that need a fuller graph
// than a simple Pipe chain (e.g. crossing into a Parallel/Race fan-out)
// build it explicitly with AddNode/AddEdge rather than relying on a fully
// automatic walk.
type GraphBuilder struct {
	g Graph
	// index maps a flow's Name to its position in g.Nodes, for AddEdge
	// lookups by name.
	index map[Name]int
}

// NewGraphBuilder returns an empty builder.
func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{index: make(map[Name]int)}
}

// AddNode registers flow as a node, returning its index. Re-adding a flow
// with the same Name replaces the node's metadata but keeps its position
// and edges.
func (b *GraphBuilder) AddNode(flow AnyFlow) int {
	name := flow.Name()
	if i, ok := b.index[name]; ok {
		b.g.Nodes[i].Metadata = flow.Metadata()
		return i
	}
	kind, _ := flow.Metadata()["kind"].(string)
	n := Node{ID: uuid.New(), Name: name, Kind: kind, Metadata: flow.Metadata()}
	b.g.Nodes = append(b.g.Nodes, n)
	i := len(b.g.Nodes) - 1
	b.index[name] = i
	return i
}

// AddEdge connects two already-added node indices.
func (b *GraphBuilder) AddEdge(from, to int, kind EdgeKind) {
	b.g.Edges = append(b.g.Edges, Edge{From: from, To: to, Kind: kind})
}

// Build returns the assembled Graph.
func (b *GraphBuilder) Build() Graph { return b.g }

// AnalyzeChain walks a flow's "composed_with" metadata chain — the trail
// Pipe leaves behind it (flow.go) — turning a linear Pipe-built pipeline
// into a Graph without requiring the caller to rebuild it with
// GraphBuilder. It cannot see into a Parallel/Race/Merge fan-out's
// children, since those don't publish per-child Names in metadata; use
// GraphBuilder directly for graphs that need that detail.
func AnalyzeChain(root AnyFlow, resolve func(name Name) (AnyFlow, bool)) Graph {
	b := NewGraphBuilder()
	cur := root
	prev := -1
	seen := map[Name]bool{}
	for cur != nil && !seen[cur.Name()] {
		seen[cur.Name()] = true
		idx := b.AddNode(cur)
		if prev >= 0 {
			b.AddEdge(prev, idx, EdgeSequential)
		}
		prev = idx
		next, ok := cur.Metadata()["composed_with"].(Name)
		if !ok || resolve == nil {
			break
		}
		nextFlow, ok := resolve(next)
		if !ok {
			break
		}
		cur = nextFlow
	}
	return b.Build()
}

// AnalysisMetrics are the derived metrics §4.12 asks an analyser to compute.
type AnalysisMetrics struct {
	TotalComplexity int
	Depth           int
	CriticalPath    []Name
	HasCycle        bool
}

// Analyze computes total complexity, graph depth, the critical path, and
// cycle detection over g. The critical path is the root-to-leaf path with
// the most nodes, ties broken by higher cumulative complexity; Depth is its
// node count.
func Analyze(g Graph) AnalysisMetrics {
	total := 0
	for _, n := range g.Nodes {
		w := complexityOf(n.Kind)
		if n.Kind == "parallel" || n.Kind == "race" || n.Kind == "merge" || n.Kind == "parallel_map" {
			w++ // parallel composition adds a constant over its base weight
		}
		total += w
	}

	adj := make(map[int][]Edge)
	for _, e := range g.Edges {
		adj[e.From] = append(adj[e.From], e)
	}

	hasCycle := detectCycle(g, adj)

	bestLen := -1
	var bestPath []Name
	var bestWeight int
	var visit func(node int, path []int, weight int)
	visiting := make(map[int]bool)
	visit = func(node int, path []int, weight int) {
		if visiting[node] {
			return
		}
		visiting[node] = true
		defer delete(visiting, node)
		path = append(path, node)
		w := weight + complexityOf(g.Nodes[node].Kind)
		if len(adj[node]) == 0 {
			if len(path) > bestLen || (len(path) == bestLen && w > bestWeight) {
				bestLen = len(path)
				bestWeight = w
				names := make([]Name, len(path))
				for i, p := range path {
					names[i] = g.Nodes[p].Name
				}
				bestPath = names
			}
			return
		}
		for _, e := range adj[node] {
			visit(e.To, path, w)
		}
	}
	// roots: nodes with no incoming edge.
	hasIncoming := make(map[int]bool)
	for _, e := range g.Edges {
		hasIncoming[e.To] = true
	}
	for i := range g.Nodes {
		if !hasIncoming[i] {
			visit(i, nil, 0)
		}
	}

	return AnalysisMetrics{
		TotalComplexity: total,
		Depth:           bestLen,
		CriticalPath:    bestPath,
		HasCycle:        hasCycle,
	}
}

func detectCycle(g Graph, adj map[int][]Edge) bool {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make([]int, len(g.Nodes))
	var dfs func(n int) bool
	dfs = func(n int) bool {
		color[n] = gray
		for _, e := range adj[n] {
			if color[e.To] == gray {
				return true
			}
			if color[e.To] == white && dfs(e.To) {
				return true
			}
		}
		color[n] = black
		return false
	}
	for i := range g.Nodes {
		if color[i] == white && dfs(i) {
			return true
		}
	}
	return false
}

// Hint is a suggestion produced by DetectPatterns.
type Hint struct {
	Pattern string
	Nodes   []Name
	Message string
}

// DetectPatterns scans g for the hints named in §4.12: adjacent map-then-
// filter pairs (suggesting fusion), long linear pipelines (suggesting
// batching), and wide parallel fan-outs (suggesting bounded concurrency).
func DetectPatterns(g Graph) []Hint {
	var hints []Hint

	for _, e := range g.Edges {
		if e.Kind != EdgeSequential {
			continue
		}
		a, b := g.Nodes[e.From], g.Nodes[e.To]
		if a.Kind == "map" && b.Kind == "filter" {
			hints = append(hints, Hint{
				Pattern: "map-filter",
				Nodes:   []Name{a.Name, b.Name},
				Message: fmt.Sprintf("%s followed by %s can often fuse into one pass", a.Name, b.Name),
			})
		}
	}

	linear := longestLinearRun(g)
	if linear >= 10 {
		hints = append(hints, Hint{
			Pattern: "long-linear-pipeline",
			Message: fmt.Sprintf("pipeline has %d sequential stages; consider batching adjacent stages", linear),
		})
	}

	fanOut := make(map[int]int)
	for _, e := range g.Edges {
		if e.Kind == EdgeParallel {
			fanOut[e.From]++
		}
	}
	for from, width := range fanOut {
		if width >= 4 {
			hints = append(hints, Hint{
				Pattern: "deep-parallel-fanout",
				Nodes:   []Name{g.Nodes[from].Name},
				Message: fmt.Sprintf("%s fans out to %d concurrent children; consider bounding concurrency", g.Nodes[from].Name, width),
			})
		}
	}

	return hints
}

func longestLinearRun(g Graph) int {
	outDeg := make(map[int]int)
	for _, e := range g.Edges {
		if e.Kind == EdgeSequential {
			outDeg[e.From]++
		}
	}
	best := 0
	run := 0
	for i := range g.Nodes {
		if outDeg[i] <= 1 {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best
}

// Document is the structured export of a Graph plus its derived metrics and
// pattern hints (§4.12 — "Output is exportable as a structured document").
type Document struct {
	Nodes   []Node   `json:"nodes" yaml:"nodes"`
	Edges   []Edge   `json:"edges" yaml:"edges"`
	Metrics AnalysisMetrics `json:"metrics" yaml:"metrics"`
	Hints   []Hint   `json:"hints" yaml:"hints"`
}

// Export builds the Document for g.
func Export(g Graph) Document {
	return Document{
		Nodes:   g.Nodes,
		Edges:   g.Edges,
		Metrics: Analyze(g),
		Hints:   DetectPatterns(g),
	}
}

// ToJSON renders d as indented JSON.
func (d Document) ToJSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// ToYAML renders d as YAML, using the pack's higher-fidelity encoder
// (github.com/goccy/go-yaml) rather than hand-writing one.
func (d Document) ToYAML() ([]byte, error) {
	return yaml.Marshal(d)
}
