// Package uci speaks the Universal Chess Interface on a line stream:
// it parses arbiter commands, keeps the current position and option
// table, and renders the engine's replies.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gannet-chess/gannet/internal/board"
	"github.com/gannet-chess/gannet/internal/book"
	"github.com/gannet-chess/gannet/internal/engine"
	"github.com/gannet-chess/gannet/internal/storage"
)

const (
	// Name identifies the engine to the arbiter.
	Name = "Gannet"
	// Version is reported on the id line.
	Version = "1.0"
	// Author is reported on the id line.
	Author = "the Gannet developers"
)

// Searcher is what the dispatcher needs from the engine. *engine.Engine
// implements it; tests substitute a stub.
type Searcher interface {
	StartThinking(pos *board.Position, limits engine.Limits, setup *engine.SetupStack)
	Signals() *engine.Signals
	SetHandlers(onInfo func(engine.SearchInfo), onBest func(best, ponder board.Move))
	ClearPonder()
	ClearHash()
	ResizeHash(mb int)
	SetThreads(n int)
	SetBook(b *book.Book)
	SetOwnBook(on bool)
	WaitSearchFinished()
}

// UCI is the protocol state machine. One instance drives one arbiter
// connection, normally stdin/stdout.
type UCI struct {
	searcher Searcher
	store    *storage.Store
	options  *Options

	mu  sync.Mutex // serializes writes; info lines come from the search goroutine
	out io.Writer

	pos   *board.Position
	setup *engine.SetupStack
}

// New wires a dispatcher to a searcher and output stream. Option
// values persisted in store are re-applied before the first command.
func New(s Searcher, out io.Writer, store *storage.Store) *UCI {
	u := &UCI{
		searcher: s,
		store:    store,
		options:  NewOptions(),
		out:      out,
		pos:      board.NewPosition(),
		setup:    &engine.SetupStack{},
	}
	u.registerOptions()
	u.applyStored()
	s.SetHandlers(u.sendInfo, u.sendBestMove)
	return u
}

// Run reads commands from r until quit or end of stream.
func (u *UCI) Run(r io.Reader) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1<<16), 1<<20)
	for sc.Scan() {
		if !u.Execute(sc.Text()) {
			break
		}
	}
	u.searcher.Signals().Stop.Store(true)
	u.searcher.Signals().Notify()
	u.searcher.WaitSearchFinished()
}

// Execute runs one command line. It returns false once the session
// should end.
func (u *UCI) Execute(line string) bool {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return true
	}
	cmd, args := tokens[0], tokens[1:]

	switch cmd {
	case "quit":
		u.stopSearch()
		return false
	case "stop":
		u.stopSearch()
	case "ponderhit":
		if u.searcher.Signals().StopOnPonderhit.Load() {
			u.stopSearch()
		} else {
			u.searcher.ClearPonder()
		}
	case "uci":
		u.printf("id name %s %s\n", Name, Version)
		u.printf("id author %s\n", Author)
		u.printf("%suciok\n", u.options)
	case "isready":
		u.printf("readyok\n")
	case "ucinewgame":
		u.searcher.ClearHash()
	case "setoption":
		u.setOption(args)
	case "position":
		u.setPosition(args)
	case "go":
		u.startSearch(args)
	case "flip":
		u.pos.Flip()
	case "d":
		u.printf("%s", u.pos)
	case "eval":
		u.printf("%s", engine.Trace(u.pos))
	case "key":
		u.printf("position key: %016X\nmaterial key: %016X\npawn key:     %016X\n",
			u.pos.Key(), u.pos.MaterialKey(), u.pos.PawnKey())
	case "perft":
		depth := "6"
		if len(args) > 0 {
			depth = args[0]
		}
		engine.Bench(u.lockedWriter(), u.pos,
			[]string{u.options.Get("Hash"), u.options.Get("Threads"), depth, "current", "perft"})
	case "bench":
		engine.Bench(u.lockedWriter(), u.pos, args)
	default:
		u.printf("Unknown command: %s\n", line)
	}
	return true
}

func (u *UCI) stopSearch() {
	u.searcher.Signals().Stop.Store(true)
	u.searcher.Signals().Notify()
}

// setPosition handles "position [startpos | fen <fen>] [moves ...]".
// A malformed FEN leaves the previous position in place.
func (u *UCI) setPosition(args []string) {
	var fen string
	i := 0
	switch {
	case len(args) == 0:
		return
	case args[0] == "startpos":
		fen = board.StartFEN
		i = 1
	case args[0] == "fen":
		i = 1
		var fields []string
		for ; i < len(args) && args[i] != "moves"; i++ {
			fields = append(fields, args[i])
		}
		fen = strings.Join(fields, " ")
	default:
		return
	}

	pos, err := board.ParseFEN(fen, u.options.GetBool("UCI_Chess960"))
	if err != nil {
		log.Printf("info string invalid fen %q: %v", fen, err)
		return
	}
	u.pos = pos
	u.setup = &engine.SetupStack{}

	if i < len(args) && args[i] == "moves" {
		for _, tok := range args[i+1:] {
			m := ToMove(u.pos, tok)
			if m == board.MoveNone {
				break
			}
			u.pos.MakeMove(m)
			u.setup.Push(engine.SetupEntry{Move: m, Key: u.pos.Key()})
		}
	}
}

// setOption handles "setoption name <name> [value <value>]". Names and
// values may span several tokens.
func (u *UCI) setOption(args []string) {
	if len(args) == 0 || args[0] != "name" {
		return
	}
	var nameParts, valueParts []string
	i := 1
	for ; i < len(args) && args[i] != "value"; i++ {
		nameParts = append(nameParts, args[i])
	}
	for i++; i < len(args); i++ {
		valueParts = append(valueParts, args[i])
	}
	name := strings.Join(nameParts, " ")
	value := strings.Join(valueParts, " ")

	if !u.options.Set(name, value) {
		u.printf("No such option: %s\n", name)
		return
	}
	if u.options.Type(name) != "button" && u.store != nil {
		if err := u.store.SetOption(name, u.options.Get(name)); err != nil {
			log.Printf("info string could not persist option %s: %v", name, err)
		}
	}
}

// startSearch parses the go parameters and hands the position and
// setup stack to the engine. The stack is owned by the search after
// this point; the next position command starts a fresh one.
func (u *UCI) startSearch(args []string) {
	var limits engine.Limits
	dur := func(s string) time.Duration {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0
		}
		return time.Duration(n) * time.Millisecond
	}
	num := func(s string) int {
		n, _ := strconv.Atoi(s)
		return n
	}

	for i := 0; i < len(args); i++ {
		arg := func() string {
			if i+1 < len(args) {
				i++
				return args[i]
			}
			return ""
		}
		switch args[i] {
		case "wtime":
			limits.WhiteTime = dur(arg())
		case "btime":
			limits.BlackTime = dur(arg())
		case "winc":
			limits.WhiteInc = dur(arg())
		case "binc":
			limits.BlackInc = dur(arg())
		case "movestogo":
			limits.MovesToGo = num(arg())
		case "depth":
			limits.Depth = num(arg())
		case "nodes":
			limits.Nodes = uint64(num(arg()))
		case "movetime":
			limits.MoveTime = dur(arg())
		case "mate":
			limits.Mate = num(arg())
		case "infinite":
			limits.Infinite = true
		case "ponder":
			limits.Ponder = true
		case "searchmoves":
			for i+1 < len(args) {
				m := ToMove(u.pos, args[i+1])
				if m == board.MoveNone {
					break
				}
				limits.SearchMoves = append(limits.SearchMoves, m)
				i++
			}
		}
	}

	setup := u.setup
	u.setup = &engine.SetupStack{}
	u.searcher.StartThinking(u.pos.Copy(), limits, setup)
}

func (u *UCI) registerOptions() {
	u.options.AddSpin("Hash", 64, 1, 4096, func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			u.searcher.ResizeHash(n)
		}
	})
	u.options.AddButton("Clear Hash", func(string) {
		u.searcher.ClearHash()
	})
	u.options.AddSpin("Threads", 1, 1, 128, func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			u.searcher.SetThreads(n)
		}
	})
	u.options.AddCheck("Ponder", false, nil)
	u.options.AddCheck("UCI_Chess960", false, nil)
	u.options.AddCheck("OwnBook", false, func(v string) {
		u.searcher.SetOwnBook(strings.EqualFold(v, "true"))
	})
	u.options.AddString("Book File", "", func(v string) {
		if v == "" || v == "<empty>" {
			u.searcher.SetBook(nil)
			return
		}
		b, err := book.Load(v)
		if err != nil {
			log.Printf("info string could not open book %s: %v", v, err)
			return
		}
		u.searcher.SetBook(b)
	})
}

// applyStored replays option values persisted by earlier sessions.
func (u *UCI) applyStored() {
	if u.store == nil {
		return
	}
	saved, err := u.store.Options()
	if err != nil {
		log.Printf("info string could not load saved options: %v", err)
		return
	}
	for name, value := range saved {
		if u.options.Has(name) && u.options.Type(name) != "button" {
			u.options.Set(name, value)
		}
	}
}

// sendInfo renders one iteration report. It runs on the search
// goroutine.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	nps := int64(0)
	if ms := info.Time.Milliseconds(); ms > 0 {
		nps = int64(info.Nodes) * 1000 / ms
	}
	var pv strings.Builder
	chess960 := u.options.GetBool("UCI_Chess960")
	for _, m := range info.PV {
		pv.WriteByte(' ')
		pv.WriteString(FormatMove(m, chess960))
	}
	u.printf("info depth %d score %s nodes %d nps %d time %d pv%s\n",
		info.Depth,
		FormatScore(info.Score, -engine.Infinity, engine.Infinity),
		info.Nodes, nps, info.Time.Milliseconds(), pv.String())
}

// sendBestMove ends a search on the wire. It runs on the search
// goroutine.
func (u *UCI) sendBestMove(best, ponder board.Move) {
	chess960 := u.options.GetBool("UCI_Chess960")
	if ponder != board.MoveNone {
		u.printf("bestmove %s ponder %s\n", FormatMove(best, chess960), FormatMove(ponder, chess960))
		return
	}
	u.printf("bestmove %s\n", FormatMove(best, chess960))
}

func (u *UCI) printf(format string, args ...any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintf(u.out, format, args...)
}

// lockedWriter exposes the output stream to the bench routine while
// keeping its writes ordered against info lines.
func (u *UCI) lockedWriter() io.Writer {
	return writerFunc(func(p []byte) (int, error) {
		u.mu.Lock()
		defer u.mu.Unlock()
		return u.out.Write(p)
	})
}

type writerFunc func(p []byte) (int, error)

func (w writerFunc) Write(p []byte) (int, error) { return w(p) }
