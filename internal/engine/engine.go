package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gannet-chess/gannet/internal/board"
	"github.com/gannet-chess/gannet/internal/book"
)

// SearchInfo is one iterative-deepening progress report.
type SearchInfo struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	PV    []board.Move
}

// Engine owns the transposition table and runs searches handed over by
// the dispatcher. A search runs on its own goroutine; the command loop
// talks to it only through Signals.
type Engine struct {
	tt      *TranspositionTable
	sig     *Signals
	threads int

	openingBook *book.Book
	ownBook     bool

	pondering atomic.Bool

	mu         sync.Mutex
	searchDone chan struct{}

	// OnInfo and OnBestMove are set by the protocol layer before the
	// first search and render the engine's output lines.
	OnInfo     func(SearchInfo)
	OnBestMove func(best, ponder board.Move)
}

// New creates an engine with the given hash table size.
func New(hashMB int) *Engine {
	return &Engine{
		tt:      NewTranspositionTable(hashMB),
		sig:     NewSignals(),
		threads: 1,
	}
}

// Signals returns the shared stop/wake signal set.
func (e *Engine) Signals() *Signals { return e.sig }

// ResizeHash reallocates the transposition table.
func (e *Engine) ResizeHash(mb int) { e.tt.Resize(mb) }

// ClearHash wipes the transposition table.
func (e *Engine) ClearHash() { e.tt.Clear() }

// SetThreads sets how many search workers the next search uses.
func (e *Engine) SetThreads(n int) {
	if n < 1 {
		n = 1
	}
	e.threads = n
}

// SetBook installs an opening book.
func (e *Engine) SetBook(b *book.Book) { e.openingBook = b }

// SetOwnBook toggles probing the opening book before searching.
func (e *Engine) SetOwnBook(on bool) { e.ownBook = on }

// SetHandlers installs the callbacks that render search output.
func (e *Engine) SetHandlers(onInfo func(SearchInfo), onBest func(best, ponder board.Move)) {
	e.OnInfo = onInfo
	e.OnBestMove = onBest
}

// ClearPonder switches a ponder search to a normal one. Called on
// "ponderhit".
func (e *Engine) ClearPonder() {
	e.pondering.Store(false)
	e.sig.Notify()
}

// WaitSearchFinished blocks until no search is running.
func (e *Engine) WaitSearchFinished() {
	e.mu.Lock()
	done := e.searchDone
	e.mu.Unlock()
	if done != nil {
		<-done
	}
}

// StartThinking launches a search for the given position and limits
// and returns immediately. The setup stack's ownership transfers to
// the engine.
func (e *Engine) StartThinking(pos *board.Position, limits Limits, setup *SetupStack) {
	e.WaitSearchFinished()

	done := make(chan struct{})
	e.mu.Lock()
	e.searchDone = done
	e.mu.Unlock()

	e.sig.Reset()
	e.pondering.Store(limits.Ponder)

	root := pos.Copy()
	setupKeys := setup.Keys()

	go func() {
		defer close(done)
		e.think(root, limits, setupKeys)
	}()
}

func (e *Engine) think(root *board.Position, limits Limits, setupKeys []uint64) {
	if e.ownBook && e.openingBook != nil && !limits.Infinite {
		if m, ok := e.openingBook.Probe(root); ok {
			e.waitIfPondering()
			e.emitBestMove(m, board.MoveNone)
			return
		}
	}

	e.tt.NewSearch()
	start := time.Now()
	deadline := e.deadlineFor(root, &limits, start)

	maxDepth := MaxPly
	if limits.Depth > 0 {
		maxDepth = limits.Depth
	}

	helperStop := &atomic.Bool{}
	var wg sync.WaitGroup
	for i := 1; i < e.threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h := newSearcher(root, e.tt, e.sig, &limits, setupKeys, deadline)
			h.ponder = &e.pondering
			h.alsoStop = helperStop
			for d := 1; d <= maxDepth && !h.checkAbort(); d++ {
				h.searchRoot(d)
			}
		}()
	}

	s := newSearcher(root, e.tt, e.sig, &limits, setupKeys, deadline)
	s.ponder = &e.pondering

	best := board.MoveNone
	bestScore := 0
	for depth := 1; depth <= maxDepth; depth++ {
		move, score := s.searchRoot(depth)
		if s.aborted && move == board.MoveNone {
			break
		}
		best, bestScore = move, score

		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth: depth,
				Score: bestScore,
				Nodes: s.nodes,
				Time:  time.Since(start),
				PV:    pvLine(root, e.tt, depth),
			})
		}

		if s.aborted || best == board.MoveNone {
			break
		}
		// A "go mate N" search may stop once a fast enough mate shows.
		if limits.Mate > 0 && bestScore >= MateValue-2*limits.Mate {
			break
		}
		if !deadline.IsZero() && !e.pondering.Load() {
			// No point starting an iteration that cannot finish.
			if elapsed := time.Since(start); time.Until(deadline) < elapsed {
				break
			}
		}
	}

	helperStop.Store(true)
	wg.Wait()

	// An infinite or ponder search reports only after a stop request.
	for limits.Infinite && !e.sig.Stop.Load() {
		e.sig.Sleep()
	}
	e.waitIfPondering()

	ponderMove := board.MoveNone
	if pv := pvLine(root, e.tt, 2); len(pv) > 1 && pv[0] == best {
		ponderMove = pv[1]
	}
	e.emitBestMove(best, ponderMove)
}

// waitIfPondering blocks a finished ponder search until the arbiter
// sends stop or ponderhit.
func (e *Engine) waitIfPondering() {
	if e.pondering.Load() {
		// The result is ready; a ponderhit should now act like stop.
		e.sig.StopOnPonderhit.Store(true)
	}
	for e.pondering.Load() && !e.sig.Stop.Load() {
		e.sig.Sleep()
	}
}

func (e *Engine) emitBestMove(best, ponder board.Move) {
	if e.OnBestMove != nil {
		e.OnBestMove(best, ponder)
	}
}

// deadlineFor allots a time budget when the limits carry clock times.
// Adapted heuristic: a share of remaining time plus most of the
// increment, capped at 90% of the clock.
func (e *Engine) deadlineFor(pos *board.Position, limits *Limits, start time.Time) time.Time {
	if limits.MoveTime > 0 {
		return start.Add(limits.MoveTime)
	}
	if limits.Infinite || !limits.UseTimeManagement() {
		return time.Time{}
	}

	us := pos.SideToMove()
	ourTime, ourInc := limits.Time(us), limits.Inc(us)

	movesLeft := limits.MovesToGo
	if movesLeft <= 0 {
		switch n := pos.All().Count(); {
		case n > 24:
			movesLeft = 40
		case n > 12:
			movesLeft = 30
		default:
			movesLeft = 20
		}
	}

	budget := ourTime/time.Duration(movesLeft) + ourInc*9/10
	if max := ourTime * 9 / 10; budget > max {
		budget = max
	}
	if budget < 10*time.Millisecond {
		budget = 10 * time.Millisecond
	}
	return start.Add(budget)
}
