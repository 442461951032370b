package bgpsim

import "sort"

// ImportFilterFunc is the signature of a per-AS import filter. It receives
// the exporter ASN and the candidate AS-paths tied for best (each already
// prefixed with the exporter's own ASN) plus the opaque data the filter was
// registered with, and returns the subset actually imported. The returned
// paths must already exist in candidates; filters may reorder or trim but
// must never invent a path. ImportFilterFunc must not panic: if it does,
// the panic propagates out of InferPaths unchanged and the caller's state
// is considered tainted.
type ImportFilterFunc func(exporter int, candidates [][]int, data interface{}) [][]int

// ImportFilter pairs a filter function with the opaque data it closes over.
type ImportFilter struct {
	Fn   ImportFilterFunc
	Data interface{}
}

// CallbackKind names one of the inference engine's observation points.
type CallbackKind int

const (
	StartRelationshipPhase CallbackKind = iota
	NeighborAnnounce
	VisitEdge
)

// StartPhaseFunc is called once per phase, before seeding begins.
type StartPhaseFunc func(pref PathPref)

// NeighborAnnounceFunc is called for every (source, neighbor) pair
// considered while seeding a phase, including ones later discarded by the
// shortest-suffix filter — the callback observes intent, not outcome.
type NeighborAnnounceFunc func(origin, neighbor int, pref PathPref, suffix []int)

// VisitEdgeFunc is called once per edge popped off the work queue, before
// update_paths runs.
type VisitEdgeFunc func(exporter, importer int, pref PathPref)

type node struct {
	// neighbors[n] is the relationship tag of the edge from this node to n,
	// i.e. this node's role (P2C/P2P/C2P) when exporting toward n.
	neighbors    map[int]Relationship
	importFilter *ImportFilter
}

// Graph is a directed graph over integer AS numbers: every undirected
// peering is stored as two directed edges carrying reciprocal relationship
// tags. A Graph is mutable only during construction (AddPeering,
// SetImportFilter, SetCallback); it is treated as immutable during
// inference, which is what lets multiple inferences share one Graph
// concurrently.
type Graph struct {
	nodes     map[int]*node
	callbacks struct {
		startPhase       StartPhaseFunc
		neighborAnnounce NeighborAnnounceFunc
		visitEdge        VisitEdgeFunc
	}
}

// NewGraph returns an empty Graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[int]*node)}
}

func (g *Graph) ensureNode(asn int) *node {
	n, ok := g.nodes[asn]
	if !ok {
		n = &node{neighbors: make(map[int]Relationship)}
		g.nodes[asn] = n
	}
	return n
}

// AddPeering adds both ASes if absent and records the peering
// bidirectionally: a->b carries rel, b->a carries rel.Reversed(). Calling
// AddPeering twice for the same pair with conflicting relationships is
// undefined behavior; callers must not do that.
func (g *Graph) AddPeering(a, b int, rel Relationship) {
	na := g.ensureNode(a)
	nb := g.ensureNode(b)
	na.neighbors[b] = rel
	nb.neighbors[a] = rel.Reversed()
}

// SetImportFilter replaces any prior import filter on asn. Passing a nil fn
// clears the filter. An asn not yet in the Graph is added, with no peerings.
func (g *Graph) SetImportFilter(asn int, fn ImportFilterFunc, data interface{}) {
	n := g.ensureNode(asn)
	if fn == nil {
		n.importFilter = nil
		return
	}
	n.importFilter = &ImportFilter{Fn: fn, Data: data}
}

// SetCallback registers fn for the given callback kind, replacing any
// previously registered callback of that kind. fn must match the signature
// documented for kind (StartPhaseFunc, NeighborAnnounceFunc, or
// VisitEdgeFunc); passing the wrong type panics immediately rather than
// silently dropping the callback.
func (g *Graph) SetCallback(kind CallbackKind, fn interface{}) {
	switch kind {
	case StartRelationshipPhase:
		g.callbacks.startPhase = fn.(StartPhaseFunc)
	case NeighborAnnounce:
		g.callbacks.neighborAnnounce = fn.(NeighborAnnounceFunc)
	case VisitEdge:
		g.callbacks.visitEdge = fn.(VisitEdgeFunc)
	default:
		panic("bgpsim: unknown callback kind")
	}
}

// HasNode reports whether asn has been added to the Graph.
func (g *Graph) HasNode(asn int) bool {
	_, ok := g.nodes[asn]
	return ok
}

// HasEdge reports whether a->b is a peering in the Graph.
func (g *Graph) HasEdge(a, b int) bool {
	n, ok := g.nodes[a]
	if !ok {
		return false
	}
	_, ok = n.neighbors[b]
	return ok
}

// RelationshipAt returns the relationship tag of the exporter->importer
// edge, i.e. the exporter's role when exporting toward importer.
func (g *Graph) RelationshipAt(exporter, importer int) (Relationship, bool) {
	n, ok := g.nodes[exporter]
	if !ok {
		return 0, false
	}
	rel, ok := n.neighbors[importer]
	return rel, ok
}

// Neighbors returns the ASNs peered with asn, in ascending order for
// deterministic iteration in tests and CLI output. Inference itself does
// not depend on this order (see spec property 6, tie-order independence).
func (g *Graph) Neighbors(asn int) []int {
	n, ok := g.nodes[asn]
	if !ok {
		return nil
	}
	out := make([]int, 0, len(n.neighbors))
	for nb := range n.neighbors {
		out = append(out, nb)
	}
	sort.Ints(out)
	return out
}

// Nodes returns all AS numbers in the Graph, in ascending order.
func (g *Graph) Nodes() []int {
	out := make([]int, 0, len(g.nodes))
	for asn := range g.nodes {
		out = append(out, asn)
	}
	sort.Ints(out)
	return out
}

// Clone deep-copies the Graph, including per-AS import filters (the
// ImportFilter value itself is copied, not the closure it wraps) but not
// registered callbacks, which are tied to the call site that set them up.
// Cloning is how independent simulations share a starting topology without
// one's AddPeering or SetImportFilter calls leaking into the other — see
// design notes on mutable per-node dictionaries vs result object.
func (g *Graph) Clone() *Graph {
	clone := NewGraph()
	for asn, n := range g.nodes {
		cn := clone.ensureNode(asn)
		for nb, rel := range n.neighbors {
			cn.neighbors[nb] = rel
		}
		if n.importFilter != nil {
			f := *n.importFilter
			cn.importFilter = &f
		}
	}
	return clone
}
