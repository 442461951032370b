package batch

import (
	"testing"

	"github.com/Emeline-1/bgpsim"
)

func buildBatchGraph() *bgpsim.Graph {
	g := bgpsim.NewGraph()
	g.AddPeering(1, 2, bgpsim.P2C)
	g.AddPeering(1, 3, bgpsim.P2C)
	g.AddPeering(2, 4, bgpsim.P2C)
	return g
}

func TestRunExecutesAllJobs(t *testing.T) {
	g := buildBatchGraph()
	jobs := []Job{
		{Prefix: "10.0.0.0/24", Announcement: bgpsim.Anycast(g, []int{1})},
		{Prefix: "10.0.1.0/24", Announcement: bgpsim.Anycast(g, []int{2})},
	}

	report, err := Run(g, jobs, 2)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Errors) != 0 {
		t.Fatalf("unexpected job errors: %v", report.Errors)
	}
	if len(report.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(report.Results))
	}
	if _, ok := report.Results["10.0.0.0/24"]; !ok {
		t.Error("missing result for 10.0.0.0/24")
	}
	if _, ok := report.Results["10.0.1.0/24"]; !ok {
		t.Error("missing result for 10.0.1.0/24")
	}
}

func TestRunRejectsDuplicatePrefixes(t *testing.T) {
	g := buildBatchGraph()
	jobs := []Job{
		{Prefix: "10.0.0.0/24", Announcement: bgpsim.Anycast(g, []int{1})},
		{Prefix: "10.0.0.0/24", Announcement: bgpsim.Anycast(g, []int{2})},
	}

	if _, err := Run(g, jobs, 2); err == nil {
		t.Fatal("expected an error for duplicate job prefixes")
	}
}

func TestRunCollectsJobErrorsWithoutAbortingTheBatch(t *testing.T) {
	g := buildBatchGraph()
	badAnn := bgpsim.NewAnnouncement()
	badAnn.Source2Neighbor2Suffix[99] = map[int][]int{1: nil}

	jobs := []Job{
		{Prefix: "10.0.0.0/24", Announcement: bgpsim.Anycast(g, []int{1})},
		{Prefix: "10.0.1.0/24", Announcement: badAnn},
	}

	report, err := Run(g, jobs, 2)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, ok := report.Results["10.0.0.0/24"]; !ok {
		t.Error("the well-formed job must still have produced a result")
	}
	if _, ok := report.Errors["10.0.1.0/24"]; !ok {
		t.Error("the malformed job must have been recorded as an error")
	}
}

func TestFindOverlapsDetectsSubPrefix(t *testing.T) {
	overlaps := findOverlaps([]string{"10.0.0.0/8", "10.1.0.0/16", "172.16.0.0/12"})
	children, ok := overlaps["10.0.0.0/8"]
	if !ok {
		t.Fatalf("expected 10.0.0.0/8 to have overlays, got %v", overlaps)
	}
	found := false
	for _, c := range children {
		if c == "10.1.0.0/16" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected 10.1.0.0/16 listed under 10.0.0.0/8, got %v", children)
	}
}
