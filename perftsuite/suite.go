// Package perftsuite loads and runs EPD-style perft regression suites: one
// position per line, a FEN followed by semicolon-delimited expected node
// counts at successive depths ("FEN;D1 20;D2 400;D3 8902;...").
package perftsuite

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/algerbrex/corvid/engine"
)

// Case is one suite line: a FEN and the expected node count at each depth
// that line specifies (index 0 is depth 1). A zero entry means that depth
// wasn't present in the line and should be skipped.
type Case struct {
	FEN    string
	Depths []uint64
}

// Load reads a perft suite from r. Malformed lines are logged and skipped
// rather than aborting the whole suite - spec.md §7 treats suite-file
// problems as reportable, not fatal: a suite with zero usable lines simply
// produces zero runs, not a panic.
func Load(r io.Reader) []Case {
	var cases []Case
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, ";")
		c := Case{FEN: strings.TrimSpace(fields[0])}

		ok := true
		for _, field := range fields[1:] {
			field = strings.TrimSpace(field)
			depth, count, err := parseDepthField(field)
			if err != nil {
				log.Printf("perftsuite: line %d: %v, skipping", lineNo, err)
				ok = false
				break
			}
			for len(c.Depths) < depth {
				c.Depths = append(c.Depths, 0)
			}
			c.Depths[depth-1] = count
		}
		if ok && c.FEN != "" {
			cases = append(cases, c)
		}
	}

	if err := scanner.Err(); err != nil {
		log.Printf("perftsuite: read error: %v", err)
		return nil
	}
	return cases
}

// parseDepthField parses a single "D<n> <count>" field.
func parseDepthField(field string) (depth int, count uint64, err error) {
	if len(field) < 2 || field[0] != 'D' {
		return 0, 0, fmt.Errorf("malformed depth field %q", field)
	}
	sp := strings.IndexByte(field, ' ')
	if sp < 0 {
		return 0, 0, fmt.Errorf("malformed depth field %q", field)
	}
	depth, err = strconv.Atoi(field[1:sp])
	if err != nil {
		return 0, 0, fmt.Errorf("bad depth in %q: %w", field, err)
	}
	if depth < 1 {
		return 0, 0, fmt.Errorf("bad depth in %q", field)
	}
	n, err := strconv.ParseUint(strings.TrimSpace(field[sp+1:]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad node count in %q: %w", field, err)
	}
	return depth, n, nil
}

// Result is the outcome of running one Case's depths against the engine.
type Result struct {
	FEN   string
	Depth int
	Want  uint64
	Got   uint64
}

// Passed reports whether the engine's node count matched the suite's.
func (r Result) Passed() bool { return r.Want == r.Got }

// Run executes every depth of every case against a fresh Position per case
// and returns one Result per depth actually specified (zero entries are
// skipped, matching the teacher's original loader behavior).
func Run(cases []Case) []Result {
	var results []Result
	var pos engine.Position

	for _, c := range cases {
		pos.SetFEN(c.FEN)
		for i, want := range c.Depths {
			if want == 0 {
				continue
			}
			depth := i + 1
			got := engine.Perft(&pos, depth)
			results = append(results, Result{FEN: c.FEN, Depth: depth, Want: want, Got: got})
			pos.SetFEN(c.FEN)
		}
	}
	return results
}
