package bgpsim

import "sort"

// inferConfig holds InferPaths' optional parameters.
type inferConfig struct {
	stopAtASN   *int
	stopAtCount int
	initial     *NodeAnnouncementData
	queuePolicy popPolicy
}

// InferOption configures an InferPaths call.
type InferOption func(*inferConfig)

// WithEarlyStop makes InferPaths return as soon as asn has accumulated more
// than count best paths (checked once per edge popped off the work queue,
// after each phase's seeding). It is an optimisation only: results for
// other ASes may be incomplete but are never incorrect. The off-by-one in
// "more than count" rather than "at least count" is inherited unchanged
// from the reference implementation.
func WithEarlyStop(asn, count int) InferOption {
	return func(c *inferConfig) {
		a := asn
		c.stopAtASN = &a
		c.stopAtCount = count
	}
}

// WithInitialState seeds InferPaths from a previously computed result
// instead of starting empty. Mostly useful for tests that want to program
// in existing paths before simulating an announcement.
func WithInitialState(initial *NodeAnnouncementData) InferOption {
	return func(c *inferConfig) {
		c.initial = initial
	}
}

// withPopPolicy overrides the work queue's internal pop order. Unexported:
// property 6 (tie-order independence) guarantees the choice never affects
// InferPaths's result, so it is not part of the public API — it exists
// only so the property itself can be tested differentially.
func withPopPolicy(policy popPolicy) InferOption {
	return func(c *inferConfig) {
		c.queuePolicy = policy
	}
}

// InferPaths computes, for every AS reachable from announce's sources, the
// complete set of AS-paths tied for best under the Gao-Rexford
// local-preference + shortest-AS-path decision process, restricted to
// valley-free paths.
//
// It runs three sequential phases, one per downstream preference in order
// CUSTOMER, PEER, PROVIDER, each a shortest-first breadth-first traversal
// over edges pulled from a preference-indexed work queue. Gao-Rexford
// export implies an AS's best-known preference never falls and, within a
// preference class, paths are discovered in non-decreasing length order;
// together these guarantee that the route an AS first accepts in phase P
// is already optimal, so no dominated path is ever generated.
func InferPaths(g *Graph, announce *Announcement, opts ...InferOption) (*NodeAnnouncementData, error) {
	cfg := inferConfig{stopAtCount: 2}
	for _, o := range opts {
		o(&cfg)
	}

	if err := announce.validate(g); err != nil {
		return nil, err
	}

	state := NewNodeAnnouncementData()
	if cfg.initial != nil {
		state = cfg.initial.Clone()
	}

	q := newWorkQueueWithPolicy(cfg.queuePolicy)

	for _, pref := range orderedPhases {
		if g.callbacks.startPhase != nil {
			g.callbacks.startPhase(pref)
		}
		if err := seedPhase(g, announce, state, q, pref); err != nil {
			return nil, err
		}

		for {
			e, ok := q.pop(pref)
			if !ok {
				break
			}
			if cfg.stopAtASN != nil && len(state.BestPaths(*cfg.stopAtASN)) > cfg.stopAtCount {
				return state, nil
			}

			if g.callbacks.visitEdge != nil {
				g.callbacks.visitEdge(e.exporter, e.importer, pref)
			}

			if announce.isSource(e.importer) {
				continue
			}

			rel, ok := g.RelationshipAt(e.exporter, e.importer)
			if !ok {
				return nil, newAssertionErrorf("no edge AS%d->AS%d while draining phase %v", e.exporter, e.importer, pref)
			}
			actualPref, err := pathPrefFromRelationship(rel)
			if err != nil {
				return nil, err
			}
			if actualPref != pref {
				return nil, newAssertionErrorf("edge AS%d->AS%d popped from phase %v but has preference %v", e.exporter, e.importer, pref, actualPref)
			}

			firstTime, err := updatePaths(g, state, q, e.exporter, e.importer, nil, false)
			if err != nil {
				return nil, err
			}
			if firstTime {
				if err := q.addWork(g, state, e.importer); err != nil {
					return nil, err
				}
			}
		}
	}

	return state, nil
}

// seedPhase initializes paths with preference pref at neighbors directly
// named in announce. Seeds are grouped by neighbor and, within a neighbor,
// by suffix length; only the shortest-suffix group is retained per
// neighbor; NEIGHBOR_ANNOUNCE fires for every (source, neighbor) pair
// considered regardless of whether it survives that filter.
func seedPhase(g *Graph, announce *Announcement, state *NodeAnnouncementData, q *workQueue, pref PathPref) error {
	neighbor2byLength := make(map[int]map[int][]int) // neighbor -> suffix length -> sources

	sources := sortedKeysInt(announce.Source2Neighbor2Suffix)
	for _, src := range sources {
		neigh2suffix := announce.Source2Neighbor2Suffix[src]
		for _, nb := range sortedKeys(neigh2suffix) {
			suffix := neigh2suffix[nb]
			rel, ok := g.RelationshipAt(src, nb)
			if !ok {
				return newAssertionErrorf("no edge AS%d->AS%d while seeding", src, nb)
			}
			p, err := pathPrefFromRelationship(rel)
			if err != nil {
				return err
			}
			if p != pref {
				continue
			}
			if g.callbacks.neighborAnnounce != nil {
				g.callbacks.neighborAnnounce(src, nb, pref, suffix)
			}
			if neighbor2byLength[nb] == nil {
				neighbor2byLength[nb] = make(map[int][]int)
			}
			length := len(suffix)
			neighbor2byLength[nb][length] = append(neighbor2byLength[nb][length], src)
		}
	}

	for _, nb := range sortedKeysInt(neighbor2byLength) {
		byLen := neighbor2byLength[nb]
		minLen := minIntKey(byLen)
		srcs := byLen[minLen]
		sort.Ints(srcs)
		for _, src := range srcs {
			suffix := announce.Source2Neighbor2Suffix[src][nb]
			firstTime, err := updatePaths(g, state, q, src, nb, suffix, true)
			if err != nil {
				return err
			}
			if firstTime {
				if err := q.addWork(g, state, nb); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// updatePaths checks for new paths, or additional paths tied for best, at
// importer arriving via exporter. When seeding is true, suffix is the
// literal announced suffix (possibly empty) and the single candidate path
// is [exporter]++suffix; otherwise candidates are derived from exporter's
// current best paths with the loop filter applied. In both cases importer's
// import filter then runs over the candidates. It returns true iff importer just received its first path
// (the caller must then enqueue work for importer).
func updatePaths(g *Graph, state *NodeAnnouncementData, q *workQueue, exporter, importer int, suffix []int, seeding bool) (bool, error) {
	rel, ok := g.RelationshipAt(exporter, importer)
	if !ok {
		return false, newAssertionErrorf("no edge AS%d->AS%d in update_paths", exporter, importer)
	}
	newPref, err := pathPrefFromRelationship(rel)
	if err != nil {
		return false, err
	}
	curPref := state.PathPref(importer)

	if curPref > newPref {
		return false, nil
	}

	candidates, err := computeCandidates(state, exporter, importer, suffix, seeding)
	if err != nil {
		return false, err
	}
	candidates = applyImportFilter(g, importer, exporter, candidates)
	if len(candidates) == 0 {
		return false, nil
	}
	newLen := len(candidates[0])

	if curPref == UNKNOWN {
		for _, p := range candidates {
			vf, err := ValleyFree(g, importer, p)
			if err != nil {
				return false, err
			}
			if !vf {
				return false, newAssertionErrorf("non-valley-free path installed at AS%d: %v", importer, p)
			}
		}
		state.pathPref[importer] = newPref
		state.pathLen[importer] = newLen
		state.bestPaths[importer] = candidates
		return true, nil
	}

	if curPref == newPref {
		curLen := state.PathLen(importer)
		if newLen > curLen {
			return false, nil
		}
		if newLen < curLen {
			return false, newAssertionErrorf("path got shorter at AS%d (phase %v, %d < %d)", importer, newPref, newLen, curLen)
		}
		for _, p := range candidates {
			vf, err := ValleyFree(g, importer, p)
			if err != nil {
				return false, err
			}
			if !vf {
				return false, newAssertionErrorf("non-valley-free path appended at AS%d: %v", importer, p)
			}
		}
		if err := q.checkWork(g, state, importer); err != nil {
			return false, err
		}
		state.bestPaths[importer] = append(state.bestPaths[importer], candidates...)
		return false, nil
	}

	return false, newAssertionErrorf("preference rose from %v to %v at AS%d: monotonicity violated", curPref, newPref, importer)
}

// computeCandidates builds the candidate path list for updatePaths, before
// any import filter runs.
func computeCandidates(state *NodeAnnouncementData, exporter, importer int, suffix []int, seeding bool) ([][]int, error) {
	if seeding {
		candidate := make([]int, 0, len(suffix)+1)
		candidate = append(candidate, exporter)
		candidate = append(candidate, suffix...)
		return [][]int{candidate}, nil
	}
	exported := state.BestPaths(exporter)
	candidates := make([][]int, 0, len(exported))
	for _, p := range exported {
		if containsASN(p, importer) {
			continue
		}
		np := make([]int, 0, len(p)+1)
		np = append(np, exporter)
		np = append(np, p...)
		candidates = append(candidates, np)
	}
	return candidates, nil
}

// applyImportFilter runs importer's registered import filter, if any, over
// candidates, returning its result unchanged otherwise.
func applyImportFilter(g *Graph, importer, exporter int, candidates [][]int) [][]int {
	n, ok := g.nodes[importer]
	if !ok || n.importFilter == nil {
		return candidates
	}
	return n.importFilter.Fn(exporter, candidates, n.importFilter.Data)
}

func sortedKeys(m map[int][]int) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

func sortedKeysInt(m map[int]map[int][]int) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

func minIntKey(m map[int][]int) int {
	first := true
	var min int
	for k := range m {
		if first || k < min {
			min = k
			first = false
		}
	}
	return min
}
