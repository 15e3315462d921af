// Package protocol implements the engine's line-based text protocol: a
// UCI-like command set (uci/isready/ucinewgame/position/go/stop/quit) plus
// two diagnostic extensions, "perft N" and "d" (spec.md §6).
package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/algerbrex/corvid/engine"
)

const (
	EngineName   = "Corvid 0.1"
	EngineAuthor = "The Corvid Authors"
)

// Driver owns the single Position a protocol session operates on, and
// serializes access to it: at most one search worker runs at a time, and
// every other command first joins that worker before touching the
// Position (spec.md §5's concurrency model).
type Driver struct {
	pos      engine.Position
	searcher engine.Searcher
	wg       sync.WaitGroup
	searching atomic.Bool
	out       io.Writer
}

// NewDriver constructs a Driver writing responses to out, with the
// Position set to the standard starting array.
func NewDriver(out io.Writer) *Driver {
	d := &Driver{out: out}
	d.pos.SetDefault()
	d.searcher.Pos = &d.pos
	return d
}

// Run reads one command per line from in until "quit" or EOF.
func (d *Driver) Run(in io.Reader) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if d.dispatch(line) {
			return
		}
	}
}

// dispatch handles a single command line and reports whether the session
// should terminate.
func (d *Driver) dispatch(line string) (quit bool) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "uci":
		fmt.Fprintf(d.out, "id name %s\n", EngineName)
		fmt.Fprintf(d.out, "id author %s\n", EngineAuthor)
		fmt.Fprintln(d.out, "uciok")
	case "isready":
		fmt.Fprintln(d.out, "readyok")
	case "ucinewgame":
		d.wg.Wait()
		d.pos.SetDefault()
	case "position":
		d.wg.Wait()
		d.handlePosition(line)
	case "go":
		d.handleGo(fields)
	case "stop":
		d.searcher.Stop()
	case "d":
		d.wg.Wait()
		fmt.Fprint(d.out, d.pos.String())
	case "perft":
		d.wg.Wait()
		d.handlePerft(fields)
	case "setoption":
		// No configurable options are exposed; accepted and ignored.
	case "quit":
		d.searcher.Stop()
		d.wg.Wait()
		return true
	default:
		// Unrecognized commands are ignored rather than treated as errors -
		// this keeps the dispatcher forgiving of GUI chatter it doesn't
		// need to understand (spec.md §7).
	}
	return false
}

// handlePosition parses "position startpos|fen <fen> [moves ...]".
func (d *Driver) handlePosition(line string) {
	args := strings.TrimSpace(strings.TrimPrefix(line, "position"))

	var rest string
	switch {
	case strings.HasPrefix(args, "startpos"):
		d.pos.SetFEN(engine.StartFEN)
		rest = strings.TrimSpace(strings.TrimPrefix(args, "startpos"))
	case strings.HasPrefix(args, "fen"):
		fields := strings.Fields(strings.TrimPrefix(args, "fen"))
		if len(fields) < 6 {
			return
		}
		d.pos.SetFEN(strings.Join(fields[:6], " "))
		rest = strings.TrimSpace(strings.Join(fields[6:], " "))
	default:
		return
	}

	if !strings.HasPrefix(rest, "moves") {
		return
	}
	for _, ms := range strings.Fields(strings.TrimPrefix(rest, "moves")) {
		m := d.pos.MoveFromCoordinates(ms)
		if m == engine.NoMove {
			break
		}
		d.pos.DoMove(m)
	}
}

// handleGo parses the "go" sub-tokens into SearchParams and launches the
// search worker. A subsequent command that needs the Position joins the
// worker first (see dispatch). "go" itself never blocks the dispatch loop:
// if a search is already running, the new "go" is dropped (spec.md §7)
// rather than waiting for it to finish, since waiting here would also
// block "stop" from ever reaching the running worker.
func (d *Driver) handleGo(fields []string) {
	if !d.searching.CompareAndSwap(false, true) {
		return
	}
	params := d.parseGoParams(fields)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer d.searching.Store(false)
		best := d.searcher.Search(params, func(info engine.Info) {
			d.reportInfo(info)
		})
		fmt.Fprintf(d.out, "bestmove %s\n", best)
	}()
}

func (d *Driver) parseGoParams(fields []string) engine.SearchParams {
	var p engine.SearchParams
	for i := 1; i < len(fields); i++ {
		switch fields[i] {
		case "wtime":
			i++
			p.WTime = int64Field(fields, i)
		case "btime":
			i++
			p.BTime = int64Field(fields, i)
		case "winc":
			i++
			p.WInc = int64Field(fields, i)
		case "binc":
			i++
			p.BInc = int64Field(fields, i)
		case "movestogo":
			i++
			p.MovesToGo = intField(fields, i)
		case "depth":
			i++
			p.Depth = intField(fields, i)
		case "nodes":
			i++
			p.Nodes = int64Field(fields, i)
		case "movetime":
			i++
			p.MoveTime = int64Field(fields, i)
		case "mate":
			i++
			p.Mate = intField(fields, i)
		case "infinite":
			p.Infinite = true
		case "ponder":
			p.Ponder = true
		case "searchmoves":
			for i+1 < len(fields) {
				m := d.pos.MoveFromCoordinates(fields[i+1])
				if m == engine.NoMove {
					break
				}
				p.SearchMoves = append(p.SearchMoves, m)
				i++
			}
		}
	}
	return p
}

func intField(fields []string, i int) int {
	if i >= len(fields) {
		return 0
	}
	v, err := strconv.Atoi(fields[i])
	if err != nil {
		return 0
	}
	return v
}

func int64Field(fields []string, i int) int64 {
	if i >= len(fields) {
		return 0
	}
	v, err := strconv.ParseInt(fields[i], 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func (d *Driver) reportInfo(info engine.Info) {
	score := fmt.Sprintf("cp %d", info.Score)
	if info.IsMate {
		score = fmt.Sprintf("mate %d", info.MateIn)
	}
	fmt.Fprintf(d.out, "info depth %d seldepth %d nodes %d nps %d score %s pv %s\n",
		info.Depth, info.SelDepth, info.Nodes, info.NPS, score, info.BestMove)
}

// handlePerft implements "perft N", printing a per-root-move node count
// breakdown (divide) followed by the total and elapsed time, matching the
// diagnostic shape of the teacher's original perft driver.
func (d *Driver) handlePerft(fields []string) {
	if len(fields) < 2 {
		return
	}
	depth, err := strconv.Atoi(fields[1])
	if err != nil || depth < 0 {
		return
	}

	start := time.Now()
	entries, total := engine.DividePerft(&d.pos, depth)
	for _, e := range entries {
		fmt.Fprintf(d.out, "%s: %d\n", e.Move, e.Nodes)
	}
	fmt.Fprintf(d.out, "\ntotal nodes: %d\n", total)
	fmt.Fprintf(d.out, "elapsed: %s\n", time.Since(start))
}
