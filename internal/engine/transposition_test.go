package engine

import (
	"testing"

	"github.com/gannet-chess/gannet/internal/board"
)

func TestTTStoreProbe(t *testing.T) {
	tt := NewTranspositionTable(1)
	key := uint64(0xDEADBEEFCAFE)
	move := board.NewMove(board.E2, board.E4)

	if _, ok := tt.Probe(key); ok {
		t.Fatal("probe hit on an empty table")
	}
	tt.Store(key, move, 42, 7, BoundExact)

	e, ok := tt.Probe(key)
	if !ok {
		t.Fatal("probe missed a stored entry")
	}
	if e.Move != move || e.Score != 42 || e.Depth != 7 || e.Bound != BoundExact {
		t.Errorf("entry = %+v", e)
	}
}

func TestTTReplacement(t *testing.T) {
	tt := NewTranspositionTable(1)
	key := uint64(0x1234)

	tt.Store(key, board.NewMove(board.E2, board.E4), 10, 8, BoundExact)
	// A shallower result from the same search must not displace it.
	tt.Store(key, board.NewMove(board.D2, board.D4), 5, 3, BoundLower)
	if e, _ := tt.Probe(key); e.Depth != 8 {
		t.Errorf("shallow store replaced a deep entry, depth = %d", e.Depth)
	}

	// After a new search the old entry is stale and loses.
	tt.NewSearch()
	tt.Store(key, board.NewMove(board.D2, board.D4), 5, 3, BoundLower)
	if e, _ := tt.Probe(key); e.Depth != 3 {
		t.Errorf("stale entry survived, depth = %d", e.Depth)
	}
}

func TestTTClear(t *testing.T) {
	tt := NewTranspositionTable(1)
	key := uint64(0xABCDEF)
	tt.Store(key, board.MoveNone, 1, 1, BoundExact)
	tt.Clear()
	if _, ok := tt.Probe(key); ok {
		t.Error("entry survived Clear")
	}
}

func TestTTResizePowerOfTwo(t *testing.T) {
	for _, mb := range []int{1, 2, 3, 7, 64} {
		tt := NewTranspositionTable(mb)
		n := uint64(len(tt.entries))
		if n == 0 || n&(n-1) != 0 {
			t.Errorf("%d MB table has %d entries, want a power of two", mb, n)
		}
	}
}

func TestTTMinimumSize(t *testing.T) {
	tt := NewTranspositionTable(0)
	if len(tt.entries) == 0 {
		t.Error("zero-size request produced an empty table")
	}
}
