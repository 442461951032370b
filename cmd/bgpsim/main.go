// Command bgpsim is the CLI front-end over the bgpsim inference engine:
// load a CAIDA topology, run a single anycast inference, run a batch of
// inferences concurrently, or report topology connectivity diagnostics.
package main

import (
	"encoding/json"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/Emeline-1/bgpsim"
	"github.com/Emeline-1/bgpsim/batch"
	"github.com/Emeline-1/bgpsim/caida"
	"github.com/Emeline-1/bgpsim/topology"
)

func usage() {
	println("\nUsage of bgpsim:\n")
	println("bgpsim has several modes:")
	println("  - load: load a CAIDA as-relationships file and print AS/edge counts.")
	println("  - infer: run one anycast announcement and print best paths per AS.")
	println("  - batch: run a batch of announcements concurrently from a jobs file.")
	println("  - topology: print connected components of the AS graph.\n")
	println("Type")
	println("  bgpsim [mode] -h")
	println("for further information on each mode.\n")
}

func main() {
	log.SetFlags(0)
	if len(os.Args) == 1 {
		usage()
		return
	}
	switch command := os.Args[1]; command {
	case "load":
		runLoad(os.Args[1:])
	case "infer":
		runInfer(os.Args[1:])
	case "batch":
		runBatch(os.Args[1:])
	case "topology":
		runTopology(os.Args[1:])
	case "-h", "--help":
		usage()
	default:
		log.Println("Unknown command:", command)
		log.Println("Type 'bgpsim -h' for help.")
	}
}

func runLoad(args []string) {
	asrel := handleArgsLoad(args)
	g, err := caida.LoadASRelationships(asrel)
	if err != nil {
		if loadErr, ok := err.(*caida.LoadError); ok {
			log.Printf("loaded with %d malformed line(s); first: line %d: %s", len(loadErr.BadLines), loadErr.BadLines[0].Number, loadErr.BadLines[0].Content)
		} else {
			log.Fatal(err)
		}
	}
	nodes := g.Nodes()
	edges := 0
	for _, asn := range nodes {
		edges += len(g.Neighbors(asn))
	}
	log.Printf("ASes: %d, directed edges: %d", len(nodes), edges)
}

func runInfer(args []string) {
	asrel, sourcesArg, stopAtASN, stopAtCount := handleArgsInfer(args)
	g, err := loadGraphTolerant(asrel)
	if err != nil {
		log.Fatal(err)
	}

	sources, err := parseASNList(sourcesArg)
	if err != nil {
		log.Fatal(err)
	}

	ann := bgpsim.Anycast(g, sources)
	var opts []bgpsim.InferOption
	if stopAtASN != 0 {
		opts = append(opts, bgpsim.WithEarlyStop(stopAtASN, stopAtCount))
	}

	state, err := bgpsim.InferPaths(g, ann, opts...)
	if err != nil {
		log.Fatal(err)
	}

	for _, asn := range g.Nodes() {
		paths := state.BestPaths(asn)
		if len(paths) == 0 {
			continue
		}
		log.Printf("AS%d pref=%v paths=%v", asn, state.PathPref(asn), paths)
	}
}

// jobSpec is the on-disk shape of one batch job in a -jobs file.
type jobSpec struct {
	Prefix      string `json:"prefix"`
	Sources     []int  `json:"sources"`
	StopAtASN   *int   `json:"stop_at_asn,omitempty"`
	StopAtCount int    `json:"stop_at_count,omitempty"`
}

func runBatch(args []string) {
	asrel, jobsFile, workers := handleArgsBatch(args)
	g, err := loadGraphTolerant(asrel)
	if err != nil {
		log.Fatal(err)
	}

	raw, err := os.ReadFile(jobsFile)
	if err != nil {
		log.Fatal(err)
	}
	var specs []jobSpec
	if err := json.Unmarshal(raw, &specs); err != nil {
		log.Fatal(err)
	}

	jobs := make([]batch.Job, 0, len(specs))
	for _, s := range specs {
		jobs = append(jobs, batch.Job{
			Prefix:       s.Prefix,
			Announcement: bgpsim.Anycast(g, s.Sources),
			StopAtASN:    s.StopAtASN,
			StopAtCount:  s.StopAtCount,
		})
	}

	report, err := batch.Run(g, jobs, workers)
	if err != nil {
		log.Fatal(err)
	}

	prefixes := make([]string, 0, len(report.Results)+len(report.Errors))
	for p := range report.Results {
		prefixes = append(prefixes, p)
	}
	for p := range report.Errors {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)

	for _, p := range prefixes {
		if err, failed := report.Errors[p]; failed {
			log.Printf("job %s: error: %v", p, err)
			continue
		}
		log.Printf("job %s: %d ASes reached", p, len(report.Results[p].Nodes()))
	}
	for aggregate, overlays := range report.Overlaps {
		log.Printf("overlap: %s covers %v", aggregate, overlays)
	}
}

func runTopology(args []string) {
	asrel := handleArgsTopology(args)
	g, err := loadGraphTolerant(asrel)
	if err != nil {
		log.Fatal(err)
	}

	for i, component := range topology.ConnectedComponents(g) {
		log.Printf("component %d (%d ASes): %v", i, len(component), component)
	}
	if isolated := topology.Isolated(g); len(isolated) > 0 {
		log.Printf("isolated ASes despite recorded peerings: %v", isolated)
	}
}

// loadGraphTolerant loads an as-relationships file, treating a *caida.LoadError
// as a warning (the graph it returns is still usable) rather than fatal.
func loadGraphTolerant(path string) (*bgpsim.Graph, error) {
	g, err := caida.LoadASRelationships(path)
	if err == nil {
		return g, nil
	}
	if loadErr, ok := err.(*caida.LoadError); ok {
		log.Printf("loaded with %d malformed line(s); first: line %d: %s", len(loadErr.BadLines), loadErr.BadLines[0].Number, loadErr.BadLines[0].Content)
		return g, nil
	}
	return nil, err
}

func parseASNList(s string) ([]int, error) {
	fields := strings.Split(s, ",")
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
