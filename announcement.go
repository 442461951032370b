package bgpsim

// Announcement describes who originates a prefix, to which neighbors, and
// with what optional AS-path suffix. Source2Neighbor2Suffix[s][n] is the
// sequence of AS numbers to be appended after s and before n when n first
// adopts the announcement; an empty suffix is the common case. The empty
// suffix form enables plain anycast; a non-empty one enables AS-path
// prepending (repeating s) or poisoning (naming a third AS whose own loop
// filter should drop the route).
type Announcement struct {
	Source2Neighbor2Suffix map[int]map[int][]int
}

// NewAnnouncement returns an Announcement with no sources. Callers
// typically start from Anycast instead.
func NewAnnouncement() *Announcement {
	return &Announcement{Source2Neighbor2Suffix: make(map[int]map[int][]int)}
}

// Anycast builds an anycast announcement for a set of sources: every
// neighbor of every source gets an empty suffix. Callers may subsequently
// overwrite individual entries to prepend (suffix = [s, s, ...]) or poison
// (suffix = [x, ...]) specific neighbors.
func Anycast(g *Graph, sources []int) *Announcement {
	ann := NewAnnouncement()
	for _, src := range sources {
		neigh2path := make(map[int][]int)
		for _, nb := range g.Neighbors(src) {
			neigh2path[nb] = nil
		}
		ann.Source2Neighbor2Suffix[src] = neigh2path
	}
	return ann
}

// validate checks the announcement against g, returning the first error
// encountered: an unknown source AS, a (source, neighbor) pair that isn't
// an edge, or a neighbor ASN appearing inside its own received suffix.
func (a *Announcement) validate(g *Graph) error {
	for source, neigh2suffix := range a.Source2Neighbor2Suffix {
		if !g.HasNode(source) {
			return &UnknownSourceError{Source: source}
		}
		for neighbor, suffix := range neigh2suffix {
			if !g.HasEdge(source, neighbor) {
				return &NonAdjacentNeighborError{Source: source, Neighbor: neighbor}
			}
			for _, asn := range suffix {
				if asn == neighbor {
					return &SelfPoisonedNeighborError{Source: source, Neighbor: neighbor}
				}
			}
		}
	}
	return nil
}

// isSource reports whether asn originates the announcement (sources never
// import it — see NodeAnnouncementData's source exemption invariant).
func (a *Announcement) isSource(asn int) bool {
	_, ok := a.Source2Neighbor2Suffix[asn]
	return ok
}
