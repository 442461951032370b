package bgpsim

import "testing"

func allScenarios() []struct {
	name string
	g    *Graph
	ann  *Announcement
} {
	g1 := NewGraph()
	g1.AddPeering(1, 3, P2C)
	g1.AddPeering(1, 4, P2C)
	g1.AddPeering(1, 10, P2C)
	g1.AddPeering(2, 3, P2P)
	g1.AddPeering(2, 5, P2C)
	g1.AddPeering(3, 8, P2C)
	g1.AddPeering(4, 6, P2C)
	g1.AddPeering(5, 7, P2C)
	g1.AddPeering(6, 8, P2C)
	g1.AddPeering(7, 9, P2C)
	g1.AddPeering(9, 10, P2C)

	g3 := buildFanInGraph()
	g5 := buildPeerLockGraph()

	return []struct {
		name string
		g    *Graph
		ann  *Announcement
	}{
		{"implicit-withdrawal", g1, Anycast(g1, []int{10})},
		{"fan-in", g3, Anycast(g3, []int{1})},
		{"peer-lock", g5, Anycast(g5, []int{1, 7})},
	}
}

// Property: every path the engine installs is valley-free (spec property 1).
func TestProperty_EveryInstalledPathIsValleyFree(t *testing.T) {
	for _, sc := range allScenarios() {
		state, err := InferPaths(sc.g, sc.ann)
		if err != nil {
			t.Fatalf("%s: InferPaths: %v", sc.name, err)
		}
		for _, asn := range sc.g.Nodes() {
			for _, p := range state.BestPaths(asn) {
				ok, err := ValleyFree(sc.g, asn, p)
				if err != nil {
					t.Fatalf("%s: ValleyFree(%d, %v): %v", sc.name, asn, p, err)
				}
				if !ok {
					t.Errorf("%s: non-valley-free path installed at AS%d: %v", sc.name, asn, p)
				}
			}
		}
	}
}

// Property: no AS's stored path ever contains that AS itself (loop-freedom).
func TestProperty_NoLoopsInInstalledPaths(t *testing.T) {
	for _, sc := range allScenarios() {
		state, err := InferPaths(sc.g, sc.ann)
		if err != nil {
			t.Fatalf("%s: InferPaths: %v", sc.name, err)
		}
		for _, asn := range sc.g.Nodes() {
			for _, p := range state.BestPaths(asn) {
				if containsASN(p, asn) {
					t.Errorf("%s: AS%d's own path contains itself: %v", sc.name, asn, p)
				}
			}
		}
	}
}

// Property: every path tied for best at an AS has the same length (spec
// property on path_len's meaning).
func TestProperty_UniformPathLengthPerAS(t *testing.T) {
	for _, sc := range allScenarios() {
		state, err := InferPaths(sc.g, sc.ann)
		if err != nil {
			t.Fatalf("%s: InferPaths: %v", sc.name, err)
		}
		for _, asn := range sc.g.Nodes() {
			paths := state.BestPaths(asn)
			if len(paths) == 0 {
				continue
			}
			want := len(paths[0])
			for _, p := range paths {
				if len(p) != want {
					t.Errorf("%s: AS%d has mixed path lengths: %v", sc.name, asn, paths)
				}
			}
			if state.PathLen(asn) != want {
				t.Errorf("%s: path_len[%d] = %d, want %d", sc.name, asn, state.PathLen(asn), want)
			}
		}
	}
}

// Property: an announcement's own sources never import their own
// announcement (path_pref stays UNKNOWN there).
func TestProperty_SourcesNeverImportOwnAnnouncement(t *testing.T) {
	for _, sc := range allScenarios() {
		state, err := InferPaths(sc.g, sc.ann)
		if err != nil {
			t.Fatalf("%s: InferPaths: %v", sc.name, err)
		}
		for src := range sc.ann.Source2Neighbor2Suffix {
			if state.PathPref(src) != UNKNOWN {
				t.Errorf("%s: source AS%d imported its own announcement (pref %v)", sc.name, src, state.PathPref(src))
			}
		}
	}
}

// Property: re-running inference from scratch with the same pop policy is
// deterministic: the set of best paths per AS does not change across
// repeated runs on the same inputs.
func TestProperty_RepeatedInferenceIsStable(t *testing.T) {
	for _, sc := range allScenarios() {
		first, err := InferPaths(sc.g, sc.ann)
		if err != nil {
			t.Fatalf("%s: InferPaths: %v", sc.name, err)
		}
		second, err := InferPaths(sc.g, sc.ann)
		if err != nil {
			t.Fatalf("%s: InferPaths (second run): %v", sc.name, err)
		}
		for _, asn := range sc.g.Nodes() {
			assertPathsEqual(t, sc.name+": repeated run", second.BestPaths(asn), first.BestPaths(asn))
		}
	}
}

// Property: the work queue's internal pop order (property 6, tie-order
// independence) must not affect InferPaths's result. This differentially
// runs every scenario, plus the diamond topology swept by
// TestInferPaths_DiamondExhaustive, under both pop policies and requires
// identical best_paths/path_pref — unlike
// TestProperty_RepeatedInferenceIsStable, which only reruns the same
// (LIFO) policy twice and so cannot catch a tie-order dependency bug.
func TestProperty_PopPolicyDoesNotAffectResult(t *testing.T) {
	for _, sc := range allScenarios() {
		lifo, err := InferPaths(sc.g, sc.ann, withPopPolicy(popLIFO))
		if err != nil {
			t.Fatalf("%s: InferPaths (LIFO): %v", sc.name, err)
		}
		fifo, err := InferPaths(sc.g, sc.ann, withPopPolicy(popFIFO))
		if err != nil {
			t.Fatalf("%s: InferPaths (FIFO): %v", sc.name, err)
		}
		for _, asn := range sc.g.Nodes() {
			assertPathsEqual(t, sc.name+": FIFO vs LIFO", fifo.BestPaths(asn), lifo.BestPaths(asn))
			if fifo.PathPref(asn) != lifo.PathPref(asn) {
				t.Errorf("%s: AS%d path_pref differs between pop policies: FIFO=%v LIFO=%v", sc.name, asn, fifo.PathPref(asn), lifo.PathPref(asn))
			}
		}
	}

	rels := [3]Relationship{P2C, P2P, C2P}
	var combo [6]Relationship
	var walk func(i int)
	walk = func(i int) {
		if i == len(combo) {
			g := buildDiamond(combo)
			ann := Anycast(g, []int{1})
			lifo, err := InferPaths(g, ann, withPopPolicy(popLIFO))
			if err != nil {
				t.Fatalf("combo %v: InferPaths (LIFO): %v", combo, err)
			}
			fifo, err := InferPaths(g, ann, withPopPolicy(popFIFO))
			if err != nil {
				t.Fatalf("combo %v: InferPaths (FIFO): %v", combo, err)
			}
			assertPathsEqual(t, "diamond FIFO vs LIFO best_paths[5]", fifo.BestPaths(5), lifo.BestPaths(5))
			if fifo.PathPref(5) != lifo.PathPref(5) {
				t.Errorf("combo %v: path_pref[5] differs between pop policies: FIFO=%v LIFO=%v", combo, fifo.PathPref(5), lifo.PathPref(5))
			}
			return
		}
		for _, r := range rels {
			combo[i] = r
			walk(i + 1)
		}
	}
	walk(0)
}

// Property: cloning a Graph and mutating the clone (e.g. adding an import
// filter) must not change inference results on the original.
func TestProperty_GraphCloneDoesNotLeakIntoOriginal(t *testing.T) {
	g := buildFanInGraph()
	before, err := InferPaths(g, Anycast(g, []int{1}))
	if err != nil {
		t.Fatalf("InferPaths: %v", err)
	}

	clone := g.Clone()
	clone.SetImportFilter(5, func(exporter int, candidates [][]int, data interface{}) [][]int {
		return nil
	}, nil)
	if _, err := InferPaths(clone, Anycast(clone, []int{1})); err != nil {
		t.Fatalf("InferPaths on clone: %v", err)
	}

	after, err := InferPaths(g, Anycast(g, []int{1}))
	if err != nil {
		t.Fatalf("InferPaths: %v", err)
	}
	for _, asn := range g.Nodes() {
		assertPathsEqual(t, "original after clone mutation", after.BestPaths(asn), before.BestPaths(asn))
	}
}
