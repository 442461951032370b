// Program arguments handling, mirroring the teacher's flag.NewFlagSet
// per-mode parsing style.
package main

import (
	"flag"
	"os"
)

func handleArgsLoad(args []string) (asrel string) {
	if len(args) <= 0 {
		println("Missing arguments")
		os.Exit(-1)
	}
	cmd := flag.NewFlagSet(args[0], flag.ExitOnError)
	cmd.StringVar(&asrel, "asrel", "", "CAIDA as-relationships file (optionally .gz/.bz2 compressed)")
	cmd.Parse(args[1:])
	return
}

func handleArgsInfer(args []string) (asrel, sources string, stopAtASN, stopAtCount int) {
	if len(args) <= 0 {
		println("Missing arguments")
		os.Exit(-1)
	}
	cmd := flag.NewFlagSet(args[0], flag.ExitOnError)
	cmd.StringVar(&asrel, "asrel", "", "CAIDA as-relationships file")
	cmd.StringVar(&sources, "sources", "", "Comma-separated announcement source AS numbers")
	cmd.IntVar(&stopAtASN, "stop-at", 0, "Stop early once this AS has accumulated more than -stop-count paths (0 disables)")
	cmd.IntVar(&stopAtCount, "stop-count", 2, "Path count threshold for -stop-at")
	cmd.Parse(args[1:])
	return
}

func handleArgsBatch(args []string) (asrel, jobsFile string, workers int) {
	if len(args) <= 0 {
		println("Missing arguments")
		os.Exit(-1)
	}
	cmd := flag.NewFlagSet(args[0], flag.ExitOnError)
	cmd.StringVar(&asrel, "asrel", "", "CAIDA as-relationships file")
	cmd.StringVar(&jobsFile, "jobs", "", "JSON file describing the batch's jobs")
	cmd.IntVar(&workers, "workers", 8, "Worker pool size")
	cmd.Parse(args[1:])
	return
}

func handleArgsTopology(args []string) (asrel string) {
	if len(args) <= 0 {
		println("Missing arguments")
		os.Exit(-1)
	}
	cmd := flag.NewFlagSet(args[0], flag.ExitOnError)
	cmd.StringVar(&asrel, "asrel", "", "CAIDA as-relationships file")
	cmd.Parse(args[1:])
	return
}
