package bgpsim

// edge is a (exporter, importer) pair pulled off the work queue.
type edge struct {
	exporter, importer int
}

// popPolicy selects which edge pop() removes within a depth's bucket. The
// choice is not observable in InferPaths's result: equally-deep edges
// produce equally-good paths (property 6, tie-order independence). Two
// policies exist so that property can be exercised directly, by running
// the same announcement through both and diffing the outcome — see
// engine_property_test.go's differential pop-policy tests.
type popPolicy int

const (
	popLIFO popPolicy = iota
	popFIFO
)

// workQueue is a triple-indexed bag of edges to process, keyed by
// (downstream preference, path depth). "Depth" is the AS-path length that
// paths arriving at the exporter currently have; the importer ends up at
// depth+1. No depth key with an empty bucket is retained.
type workQueue struct {
	buckets map[PathPref]map[int][]edge
	policy  popPolicy
}

func newWorkQueue() *workQueue {
	return newWorkQueueWithPolicy(popLIFO)
}

func newWorkQueueWithPolicy(policy popPolicy) *workQueue {
	return &workQueue{
		buckets: map[PathPref]map[int][]edge{
			CUSTOMER: make(map[int][]edge),
			PEER:     make(map[int][]edge),
			PROVIDER: make(map[int][]edge),
		},
		policy: policy,
	}
}

// pop selects the smallest depth present in bucket[pref], removes and
// returns one edge from that depth according to q.policy, and reports
// true. It reports false iff the bucket is empty.
func (q *workQueue) pop(pref PathPref) (edge, bool) {
	bucket := q.buckets[pref]
	if len(bucket) == 0 {
		return edge{}, false
	}
	depth := minDepth(bucket)
	edges := bucket[depth]

	var e edge
	switch q.policy {
	case popFIFO:
		e = edges[0]
		edges = edges[1:]
	default: // popLIFO
		e = edges[len(edges)-1]
		edges = edges[:len(edges)-1]
	}

	if len(edges) == 0 {
		delete(bucket, depth)
	} else {
		bucket[depth] = edges
	}
	return e, true
}

func minDepth(bucket map[int][]edge) int {
	first := true
	var min int
	for depth := range bucket {
		if first || depth < min {
			min = depth
			first = false
		}
	}
	return min
}

// addWork enqueues, for each neighbor n of exporter, the edge (exporter, n)
// in the bucket for PathPref(exporter->n) at depth path_len[exporter], but
// only when path_pref[exporter] == CUSTOMER or that downstream preference
// is PROVIDER. This is the Gao-Rexford export rule: routes learned from a
// customer are announced to everyone, routes learned from a peer or
// provider only to customers.
func (q *workQueue) addWork(g *Graph, state *NodeAnnouncementData, exporter int) error {
	pref := state.PathPref(exporter)
	depth := state.PathLen(exporter)
	for _, downstream := range g.Neighbors(exporter) {
		rel, _ := g.RelationshipAt(exporter, downstream)
		downstreamPref, err := pathPrefFromRelationship(rel)
		if err != nil {
			return err
		}
		if pref == CUSTOMER || downstreamPref == PROVIDER {
			q.buckets[downstreamPref][depth] = append(q.buckets[downstreamPref][depth], edge{exporter, downstream})
		}
	}
	return nil
}

// hasWork reports whether (exporter, downstream) is already queued at
// depth in bucket[pref]. It backs the enqueue invariant assertion: when
// best_paths at an already-known AS gains additional ties, every edge that
// addWork would have enqueued at first acceptance must already be present.
func (q *workQueue) hasWork(pref PathPref, depth int, e edge) bool {
	for _, queued := range q.buckets[pref][depth] {
		if queued == e {
			return true
		}
	}
	return false
}

// checkWork asserts that every edge addWork(graph, state, exporter) would
// enqueue is already present in the queue. It is a runtime consistency
// check, not a lookup used in ordinary control flow — see update_paths in
// engine.go, the "append additional ties" case.
func (q *workQueue) checkWork(g *Graph, state *NodeAnnouncementData, exporter int) error {
	pref := state.PathPref(exporter)
	depth := state.PathLen(exporter)
	for _, downstream := range g.Neighbors(exporter) {
		rel, _ := g.RelationshipAt(exporter, downstream)
		downstreamPref, err := pathPrefFromRelationship(rel)
		if err != nil {
			return err
		}
		if pref == CUSTOMER || downstreamPref == PROVIDER {
			if !q.hasWork(downstreamPref, depth, edge{exporter, downstream}) {
				return newAssertionErrorf("enqueue invariant violated for AS%d", exporter)
			}
		}
	}
	return nil
}
