package engine

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/gannet-chess/gannet/internal/board"
)

// benchFENs is the default benchmark suite: a spread of openings,
// middlegames and endgames.
var benchFENs = []string{
	board.StartFEN,
	"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
	"r1bq1rk1/ppp2ppp/2np1n2/2b1p3/2B1P3/2PP1N2/PP3PPP/RNBQ1RK1 w - - 0 7",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"8/k7/3p4/p2P1p2/P2P1P2/8/8/K7 w - - 0 1",
	"4k3/8/8/8/8/8/8/4K2R w K - 0 1",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"6k1/5ppp/8/8/8/8/5PPP/3R2K1 w - - 0 1",
}

// Bench runs the benchmark the "bench" and "perft" commands forward
// to. Arguments, all optional: hash size MB, thread count, limit
// value, position source ("default", "current" or a file of FENs) and
// limit type ("depth", "perft", "nodes" or "movetime").
func Bench(out io.Writer, pos *board.Position, args []string) {
	get := func(i int, def string) string {
		if i < len(args) && args[i] != "" {
			return args[i]
		}
		return def
	}
	hashMB, _ := strconv.Atoi(get(0, "16"))
	threads, _ := strconv.Atoi(get(1, "1"))
	limit, _ := strconv.Atoi(get(2, "13"))
	source := get(3, "default")
	limitType := get(4, "depth")

	fens, err := benchPositions(source, pos)
	if err != nil {
		fmt.Fprintf(out, "info string bench: %v\n", err)
		return
	}

	eng := New(hashMB)
	eng.SetThreads(threads)

	var totalNodes uint64
	start := time.Now()

	for i, fen := range fens {
		p, err := board.ParseFEN(fen, false)
		if err != nil {
			fmt.Fprintf(out, "info string bench: skipping bad fen %q: %v\n", fen, err)
			continue
		}
		fmt.Fprintf(out, "\nPosition: %d/%d\n", i+1, len(fens))

		if limitType == "perft" {
			nodes := p.Perft(limit)
			fmt.Fprintf(out, "Perft %d: %d\n", limit, nodes)
			totalNodes += nodes
			continue
		}

		limits := Limits{}
		switch limitType {
		case "nodes":
			limits.Nodes = uint64(limit)
		case "movetime":
			limits.MoveTime = time.Duration(limit) * time.Millisecond
		default:
			limits.Depth = limit
		}
		totalNodes += eng.benchSearch(p, limits)
	}

	elapsed := time.Since(start)
	fmt.Fprintf(out, "\n===========================\n")
	fmt.Fprintf(out, "Total time (ms) : %d\n", elapsed.Milliseconds())
	fmt.Fprintf(out, "Nodes searched  : %d\n", totalNodes)
	if elapsed > 0 {
		fmt.Fprintf(out, "Nodes/second    : %d\n", uint64(float64(totalNodes)/elapsed.Seconds()))
	}
}

// benchSearch runs a synchronous search and returns the node count.
func (e *Engine) benchSearch(pos *board.Position, limits Limits) uint64 {
	e.sig.Reset()
	e.tt.NewSearch()

	deadline := time.Time{}
	if limits.MoveTime > 0 {
		deadline = time.Now().Add(limits.MoveTime)
	}
	maxDepth := MaxPly
	if limits.Depth > 0 {
		maxDepth = limits.Depth
	}

	s := newSearcher(pos, e.tt, e.sig, &limits, nil, deadline)
	for d := 1; d <= maxDepth && !s.checkAbort(); d++ {
		s.searchRoot(d)
	}
	return s.nodes
}

func benchPositions(source string, current *board.Position) ([]string, error) {
	switch source {
	case "default":
		return benchFENs, nil
	case "current":
		return []string{current.FEN()}, nil
	}
	f, err := os.Open(source)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var fens []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			fens = append(fens, line)
		}
	}
	return fens, sc.Err()
}
