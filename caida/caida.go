// Package caida loads CAIDA AS-relationships files into a bgpsim.Graph.
package caida

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Emeline-1/bgpsim"
)

// LoadError reports every malformed line encountered while reading an
// as-relationships file. A malformed line is skipped, not fatal: one bad
// line in a multi-million-line file must not abort the whole load.
type LoadError struct {
	BadLines []BadLine
}

// BadLine names one rejected line of an as-relationships file.
type BadLine struct {
	Number  int
	Content string
	Reason  string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("caida: %d malformed line(s), first at line %d: %s", len(e.BadLines), e.BadLines[0].Number, e.BadLines[0].Reason)
}

// openDecompressed opens path and transparently decompresses it if its name
// ends in .gz or .bz2, mirroring the teacher's CompressedReader.
func openDecompressed(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &readCloserPair{Reader: gz, closer: f}, nil
	case strings.HasSuffix(path, ".bz2"):
		return &readCloserPair{Reader: bzip2.NewReader(f), closer: f}, nil
	default:
		return f, nil
	}
}

// readCloserPair pairs a decompressing io.Reader with the underlying file
// it must close, since bzip2.Reader (and some gzip wrappings) have no
// Close method of their own.
type readCloserPair struct {
	io.Reader
	closer io.Closer
}

func (r *readCloserPair) Close() error { return r.closer.Close() }

// LoadASRelationships reads a CAIDA as-relationships file (optionally
// bzip2/gzip compressed) and builds a Graph from it. Each non-comment line
// has the form "<providerAS>|<customerAS>|-1" (provider-customer) or
// "<asA>|<asB>|0" (peer-peer); any fields after the third are ignored.
// Every other form is malformed and is collected into the returned
// *LoadError rather than aborting the load.
func LoadASRelationships(path string) (*bgpsim.Graph, error) {
	rc, err := openDecompressed(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	g := bgpsim.NewGraph()
	var bad []BadLine

	scanner := bufio.NewScanner(rc)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) < 3 {
			bad = append(bad, BadLine{Number: lineNo, Content: line, Reason: "expected 3+ pipe-separated fields"})
			continue
		}
		a, errA := strconv.Atoi(fields[0])
		b, errB := strconv.Atoi(fields[1])
		if errA != nil || errB != nil {
			bad = append(bad, BadLine{Number: lineNo, Content: line, Reason: "non-integer AS number"})
			continue
		}
		switch fields[2] {
		case "0":
			g.AddPeering(a, b, bgpsim.P2P)
		case "-1":
			g.AddPeering(a, b, bgpsim.P2C)
		default:
			bad = append(bad, BadLine{Number: lineNo, Content: line, Reason: "unrecognized relationship code " + fields[2]})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(bad) > 0 {
		return g, &LoadError{BadLines: bad}
	}
	return g, nil
}
