package bgpsim

// ValleyFree reports whether the path from asn through path (path excludes
// asn itself, next hop first) is valley-free: its edge-relationship
// sequence is non-increasing under P2C < P2P < C2P and contains at most
// one P2P hop. Equivalently, an uphill segment of zero-or-more C2P/sibling
// hops, at most one peer hop at the top, then a downhill segment of
// zero-or-more P2C hops.
//
// This is used by the engine as a runtime assertion on every installed
// path, and is exported for use in property tests.
func ValleyFree(g *Graph, asn int, path []int) (bool, error) {
	full := append([]int{asn}, path...)
	rels := make([]Relationship, 0, len(full)-1)
	for i := 0; i < len(full)-1; i++ {
		rel, ok := g.RelationshipAt(full[i], full[i+1])
		if !ok {
			return false, newAssertionErrorf("no edge AS%d->AS%d while checking valley-freedom", full[i], full[i+1])
		}
		rels = append(rels, rel)
	}

	peerHops := 0
	for i, rel := range rels {
		if rel == P2P {
			peerHops++
		}
		if i > 0 && rels[i-1] < rel {
			return false, nil
		}
	}
	return peerHops <= 1, nil
}

// containsASN reports whether asn appears anywhere in path.
func containsASN(path []int, asn int) bool {
	for _, a := range path {
		if a == asn {
			return true
		}
	}
	return false
}
