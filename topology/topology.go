// Package topology runs connectivity diagnostics over a bgpsim.Graph using
// github.com/Emeline-1/basic_graph, the same undirected-graph package the
// teacher uses for overlay/forwarding-table connected-component analysis.
package topology

import (
	"strconv"

	graph "github.com/Emeline-1/basic_graph"

	"github.com/Emeline-1/bgpsim"
)

// ConnectedComponents builds an undirected view of g's peerings (an edge
// per peering, relationship tags discarded) and returns its connected
// components as AS-number slices, largest first. Ties between equally
// sized components preserve basic_graph's own enumeration order.
func ConnectedComponents(g *bgpsim.Graph) [][]int {
	gg := graph.New()
	seen := make(map[[2]int]bool)
	for _, asn := range g.Nodes() {
		for _, nb := range g.Neighbors(asn) {
			key := edgeKey(asn, nb)
			if seen[key] {
				continue
			}
			seen[key] = true
			gg.Add_edge(asnLabel(asn), asnLabel(nb))
		}
	}

	var components [][]int
	gg.Set_iterator()
	for gg.Next_connected_component() {
		cc := gg.Connected_component()
		component := make([]int, 0, len(cc))
		for _, label := range cc {
			component = append(component, labelASN(label))
		}
		components = append(components, component)
	}

	sortByDescendingSize(components)
	return components
}

// Isolated reports the ASes that have at least one AS peering recorded in
// g but nonetheless surface as their own singleton connected component —
// a corrupt-input smell carried over from the teacher's
// ases_main_stats-style sanity reporting. A genuinely isolated AS with no
// peerings at all is not flagged: it was never expected to connect to
// anything.
func Isolated(g *bgpsim.Graph) []int {
	var out []int
	for _, component := range ConnectedComponents(g) {
		if len(component) == 1 && len(g.Neighbors(component[0])) > 0 {
			out = append(out, component[0])
		}
	}
	return out
}

func edgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// basic_graph's node labels are strings; AS numbers are encoded with a
// prefix rather than passed as bare decimal so the label namespace stays
// distinct from anything else basic_graph might otherwise be asked to
// hold alongside AS numbers.
func asnLabel(asn int) string {
	return "AS" + strconv.Itoa(asn)
}

func labelASN(label string) int {
	n, _ := strconv.Atoi(label[2:])
	return n
}

func sortByDescendingSize(components [][]int) {
	for i := 1; i < len(components); i++ {
		for j := i; j > 0 && len(components[j-1]) < len(components[j]); j-- {
			components[j-1], components[j] = components[j], components[j-1]
		}
	}
}
