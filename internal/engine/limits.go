// Package engine implements the search side of the protocol: limits,
// stop signaling, iterative-deepening alpha-beta with a shared
// transposition table, evaluation tracing and benchmarking.
package engine

import (
	"sync/atomic"
	"time"

	"github.com/gannet-chess/gannet/internal/board"
)

// Limits accumulates the optional constraints of one "go" command.
// Zero values mean "not given"; the search applies its own defaults.
type Limits struct {
	WhiteTime time.Duration
	BlackTime time.Duration
	WhiteInc  time.Duration
	BlackInc  time.Duration
	MovesToGo int
	Depth     int
	Nodes     uint64
	MoveTime  time.Duration
	Mate      int
	Infinite  bool
	Ponder    bool

	// SearchMoves restricts the root to these moves when non-empty.
	SearchMoves []board.Move
}

// Time returns the remaining time for the given color.
func (l *Limits) Time(c board.Color) time.Duration {
	if c == board.White {
		return l.WhiteTime
	}
	return l.BlackTime
}

// Inc returns the per-move increment for the given color.
func (l *Limits) Inc(c board.Color) time.Duration {
	if c == board.White {
		return l.WhiteInc
	}
	return l.BlackInc
}

// UseTimeManagement reports whether the search must budget its own
// time from the clock fields.
func (l *Limits) UseTimeManagement() bool {
	return l.WhiteTime != 0 || l.BlackTime != 0
}

// SetupEntry records one move applied while replaying a "position"
// command, with the key of the position it produced. The halfmove
// counter needs no slot here: it carries through the replayed moves,
// so the root position's own counter bounds the repetition window.
type SetupEntry struct {
	Move board.Move
	Key  uint64
}

// SetupStack holds the setup moves between the start FEN and the
// search root. The dispatcher owns it until a "go" command hands it to
// the engine, which uses the keys to spot repetitions that happened
// before the root.
type SetupStack struct {
	entries []SetupEntry
}

// Push appends one applied setup move.
func (s *SetupStack) Push(e SetupEntry) {
	s.entries = append(s.entries, e)
}

// Len returns the number of recorded setup moves.
func (s *SetupStack) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Keys returns the position keys after each setup move, oldest first.
func (s *SetupStack) Keys() []uint64 {
	if s == nil {
		return nil
	}
	keys := make([]uint64, len(s.entries))
	for i, e := range s.entries {
		keys[i] = e.Key
	}
	return keys
}

// Signals is the cross-thread channel between the command loop and the
// search worker: atomic flags plus a wake notification.
type Signals struct {
	Stop            atomic.Bool
	StopOnPonderhit atomic.Bool

	wake chan struct{}
}

// NewSignals returns a ready signal set.
func NewSignals() *Signals {
	return &Signals{wake: make(chan struct{}, 1)}
}

// Notify wakes a worker blocked in Sleep. Never blocks.
func (s *Signals) Notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Sleep blocks until the next Notify.
func (s *Signals) Sleep() {
	<-s.wake
}

// Reset clears the flags before a new search.
func (s *Signals) Reset() {
	s.Stop.Store(false)
	s.StopOnPonderhit.Store(false)
	select {
	case <-s.wake:
	default:
	}
}
