package engine

import (
	"testing"
	"time"

	"github.com/gannet-chess/gannet/internal/board"
)

func searchBestMove(t *testing.T, fen string, limits Limits) board.Move {
	t.Helper()
	pos, err := board.ParseFEN(fen, false)
	if err != nil {
		t.Fatal(err)
	}

	eng := New(8)
	done := make(chan board.Move, 1)
	eng.SetHandlers(nil, func(best, ponder board.Move) { done <- best })

	eng.StartThinking(pos, limits, nil)
	eng.WaitSearchFinished()

	select {
	case m := <-done:
		return m
	case <-time.After(30 * time.Second):
		t.Fatal("search did not report a best move")
		return board.MoveNone
	}
}

func TestSearchFindsMateInOne(t *testing.T) {
	tests := []struct {
		fen  string
		want string
	}{
		{"6k1/5ppp/8/8/8/8/8/4R2K w - - 0 1", "e1e8"},
		{"4r2k/8/8/8/8/8/5PPP/6K1 b - - 0 1", "e8e1"},
	}
	for _, tt := range tests {
		m := searchBestMove(t, tt.fen, Limits{Depth: 3})
		got := m.From().String() + m.To().String()
		if got != tt.want {
			t.Errorf("%s: best = %s, want %s", tt.fen, got, tt.want)
		}
	}
}

func TestSearchReturnsForcedMove(t *testing.T) {
	// The white king has exactly one legal move.
	m := searchBestMove(t, "7k/8/8/8/8/8/q7/7K w - - 0 1", Limits{Depth: 3})
	if got := m.From().String() + m.To().String(); got != "h1g1" {
		t.Errorf("best = %s, want h1g1", got)
	}
}

func TestSearchStopsOnSignal(t *testing.T) {
	pos := board.NewPosition()
	eng := New(8)
	done := make(chan board.Move, 1)
	eng.SetHandlers(nil, func(best, ponder board.Move) { done <- best })

	eng.StartThinking(pos, Limits{Infinite: true}, nil)
	time.Sleep(50 * time.Millisecond)
	eng.Signals().Stop.Store(true)
	eng.Signals().Notify()
	eng.WaitSearchFinished()

	select {
	case m := <-done:
		if m == board.MoveNone {
			t.Error("infinite search returned no move after stop")
		}
	default:
		t.Error("no bestmove reported after stop")
	}
}

func TestSearchRespectsNodeLimit(t *testing.T) {
	pos := board.NewPosition()
	eng := New(8)
	eng.SetHandlers(nil, func(best, ponder board.Move) {})
	var nodes uint64
	eng.OnInfo = func(info SearchInfo) { nodes = info.Nodes }

	eng.StartThinking(pos, Limits{Nodes: 5000}, nil)
	eng.WaitSearchFinished()

	// The limit is checked per node, so a small overshoot from the
	// final iteration's root moves is fine.
	if nodes > 20000 {
		t.Errorf("searched %d nodes with a 5000 node limit", nodes)
	}
}

func TestRepetitionAcrossSetupBoundary(t *testing.T) {
	// Shuffle the knights back and forth before the root. Searching
	// Nf3 again reaches a position already seen in the setup history.
	pos := board.NewPosition()
	var setup SetupStack
	for _, tok := range []string{"g1f3", "g8f6", "f3g1", "f6g8"} {
		m := resolveMove(t, pos, tok)
		pos.MakeMove(m)
		setup.Push(SetupEntry{Move: m, Key: pos.Key()})
	}

	s := newSearcher(pos, NewTranspositionTable(1), NewSignals(), &Limits{}, setup.Keys(), time.Time{})
	s.pos.MakeMove(resolveMove(t, s.pos, "g1f3"))
	s.keys = append(s.keys, s.pos.Key())
	if !s.isRepetition() {
		t.Error("repetition across the setup boundary not detected")
	}
}

func TestRepetitionWindowBoundedByHalfmoveClock(t *testing.T) {
	// The halfmove clock carries through the setup replay, so the
	// root position's own counter decides how far back the scan may
	// reach into pre-root keys.
	fresh := board.NewPosition() // clock 0
	aged, err := board.ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 4 3", false)
	if err != nil {
		t.Fatal(err)
	}

	for _, tc := range []struct {
		name string
		pos  *board.Position
		want bool
	}{
		{"clock 0 hides older keys", fresh, false},
		{"clock 4 reaches them", aged, true},
	} {
		s := newSearcher(tc.pos, NewTranspositionTable(1), NewSignals(), &Limits{}, nil, time.Time{})
		s.keys = []uint64{tc.pos.Key(), 0xDEAD, tc.pos.Key()}
		if got := s.isRepetition(); got != tc.want {
			t.Errorf("%s: isRepetition() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func resolveMove(t *testing.T, pos *board.Position, tok string) board.Move {
	t.Helper()
	from, _ := board.ParseSquare(tok[:2])
	to, _ := board.ParseSquare(tok[2:4])
	moves := pos.LegalMoves()
	for i := 0; i < moves.Len(); i++ {
		if m := moves.Get(i); m.From() == from && m.To() == to {
			return m
		}
	}
	t.Fatalf("no legal move %s", tok)
	return board.MoveNone
}
