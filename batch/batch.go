// Package batch fans a set of independent inference jobs out over a fixed
// worker pool (github.com/Emeline-1/pool, the teacher's own worker-pool
// package) and reports any announced prefixes that overlap with each
// other, using the same radix-tree post-order walk the teacher uses for
// forwarding-table overlay detection (overlays_processing.go).
package batch

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	radix "github.com/Emeline-1/radix"
	pool "github.com/Emeline-1/pool"

	"github.com/Emeline-1/bgpsim"
	"github.com/Emeline-1/bgpsim/internal/concurrent"
)

// Job is one independent InferPaths run to execute as part of a batch.
// Prefix identifies the job and must be unique within a batch; it is also
// the prefix whose overlap with other jobs' prefixes gets reported.
type Job struct {
	Prefix       string
	Announcement *bgpsim.Announcement
	StopAtASN    *int
	StopAtCount  int
}

// Report is the outcome of a batch run.
type Report struct {
	Results  map[string]*bgpsim.NodeAnnouncementData
	Errors   map[string]error
	Overlaps map[string][]string // aggregate prefix -> its more-specific overlays, both job prefixes
}

// Run executes jobs against the shared, read-only g using workers
// goroutines. Each job gets InferPaths's own fresh NodeAnnouncementData
// and work queue (spec.md §5's concurrency model: Graph itself needs no
// locking, so concurrent InferPaths calls against it are always safe).
func Run(g *bgpsim.Graph, jobs []Job, workers int) (*Report, error) {
	if workers <= 0 {
		workers = 1
	}

	byPrefix := make(map[string]Job, len(jobs))
	keys := make([]string, 0, len(jobs))
	for _, j := range jobs {
		if _, dup := byPrefix[j.Prefix]; dup {
			return nil, fmt.Errorf("batch: duplicate job prefix %q", j.Prefix)
		}
		byPrefix[j.Prefix] = j
		keys = append(keys, j.Prefix)
	}

	results := concurrent.NewMap[string, *bgpsim.NodeAnnouncementData]()
	errs := concurrent.NewMap[string, error]()

	runOne := func(prefix string) {
		j := byPrefix[prefix]
		var opts []bgpsim.InferOption
		if j.StopAtASN != nil {
			opts = append(opts, bgpsim.WithEarlyStop(*j.StopAtASN, j.StopAtCount))
		}
		data, err := bgpsim.InferPaths(g, j.Announcement, opts...)
		if err != nil {
			errs.Set(prefix, err)
			return
		}
		results.Set(prefix, data)
	}

	pool.Launch_pool(workers, keys, runOne)

	report := &Report{
		Results:  results.Snapshot(),
		Errors:   errs.Snapshot(),
		Overlaps: findOverlaps(keys),
	}
	return report, nil
}

// findOverlaps builds a radix tree keyed by each prefix's binary CIDR
// representation and walks it post-order, recording any prefix that is a
// more-specific sub-prefix of another prefix in the same batch — mirroring
// the teacher's process_overlays, retargeted from forwarding-table entries
// to announced prefixes. Prefixes that fail to parse as CIDR are silently
// excluded from overlap detection (they still appear in Results/Errors).
func findOverlaps(prefixes []string) map[string][]string {
	tree := radix.New()
	for _, p := range prefixes {
		bin, ok := binaryCIDR(p)
		if !ok {
			continue
		}
		tree.Insert(bin, p)
	}

	overlays := make(map[string][]string)
	tree.Walk_post(func(parent *radix.LeafNode, children []*radix.LeafNode) {
		if len(children) == 0 {
			return
		}
		aggregate, _ := parent.Val.(string)
		for _, child := range children {
			overlay, _ := child.Val.(string)
			overlays[aggregate] = append(overlays[aggregate], overlay)
		}
	})
	return overlays
}

// binaryCIDR renders prefix (e.g. "10.0.0.0/8") as a bit string truncated
// to its mask length, the same encoding overlays_processing.go uses so
// that the radix tree groups prefixes by shared address bits.
func binaryCIDR(prefix string) (string, bool) {
	parts := strings.Split(prefix, "/")
	if len(parts) != 2 {
		return "", false
	}
	ip := net.ParseIP(parts[0]).To4()
	if ip == nil {
		return "", false
	}
	maskLen, err := strconv.Atoi(parts[1])
	if err != nil || maskLen < 0 || maskLen > 32 {
		return "", false
	}
	bits := fmt.Sprintf("%08b%08b%08b%08b", ip[0], ip[1], ip[2], ip[3])
	return bits[:maskLen], true
}
