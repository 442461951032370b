package bgpsim

import "sort"

// NodeAnnouncementData is the per-inference result: for every AS that has
// learned at least one path, the preference class of its current best
// paths, their common length, and the set of all paths tied for best.
//
// Stored paths exclude the AS they are keyed under: the next hop comes
// first, the origin last. Invariants maintained throughout inference (see
// engine.go): path_pref only rises; every element of best_paths[a] has
// length path_len[a]; every stored path is valley-free and does not
// contain a; and every announcement source keeps path_pref == UNKNOWN
// (sources do not import their own announcement).
type NodeAnnouncementData struct {
	pathPref  map[int]PathPref
	pathLen   map[int]int
	bestPaths map[int][][]int
}

// NewNodeAnnouncementData returns an empty result, with every AS defaulting
// to PathPref UNKNOWN on lookup.
func NewNodeAnnouncementData() *NodeAnnouncementData {
	return &NodeAnnouncementData{
		pathPref:  make(map[int]PathPref),
		pathLen:   make(map[int]int),
		bestPaths: make(map[int][][]int),
	}
}

// PathPref returns the preference class of asn's current best paths,
// defaulting to UNKNOWN if asn has not learned a path yet.
func (s *NodeAnnouncementData) PathPref(asn int) PathPref {
	return s.pathPref[asn]
}

// PathLen returns the AS-path length common to all of asn's best paths.
// The result is meaningless when PathPref(asn) == UNKNOWN.
func (s *NodeAnnouncementData) PathLen(asn int) int {
	return s.pathLen[asn]
}

// BestPaths returns the AS-paths tied for best at asn. Both the returned
// slice and the inner path slices are the result's internal state, not
// copies, and must not be mutated.
func (s *NodeAnnouncementData) BestPaths(asn int) [][]int {
	return s.bestPaths[asn]
}

// Nodes returns every AS that has learned at least one path, in ascending
// order. Used by callers (e.g. the store package) that need to enumerate
// the full result rather than query AS-by-AS.
func (s *NodeAnnouncementData) Nodes() []int {
	out := make([]int, 0, len(s.pathPref))
	for asn := range s.pathPref {
		out = append(out, asn)
	}
	sort.Ints(out)
	return out
}

// SetPathPref, SetPathLen and SetBestPaths let a caller reconstruct a
// NodeAnnouncementData from serialized form (see the store package). They
// bypass the engine's own invariant checks entirely: callers are
// responsible for only ever feeding back data this package itself
// produced.
func (s *NodeAnnouncementData) SetPathPref(asn int, pref PathPref) {
	s.pathPref[asn] = pref
}

func (s *NodeAnnouncementData) SetPathLen(asn int, length int) {
	s.pathLen[asn] = length
}

func (s *NodeAnnouncementData) SetBestPaths(asn int, paths [][]int) {
	s.bestPaths[asn] = paths
}

// Clone deep-copies the result, so a caller can seed further inferences
// from a known-good starting state (see WithInitialState)
// without one inference's mutations leaking into another's.
func (s *NodeAnnouncementData) Clone() *NodeAnnouncementData {
	clone := NewNodeAnnouncementData()
	for asn, pref := range s.pathPref {
		clone.pathPref[asn] = pref
	}
	for asn, length := range s.pathLen {
		clone.pathLen[asn] = length
	}
	for asn, paths := range s.bestPaths {
		cp := make([][]int, len(paths))
		for i, p := range paths {
			cp[i] = append([]int(nil), p...)
		}
		clone.bestPaths[asn] = cp
	}
	return clone
}
