package engine

import (
	"sync"

	"github.com/gannet-chess/gannet/internal/board"
)

// Bound classifies a transposition table score.
type Bound uint8

const (
	BoundExact Bound = iota
	BoundLower       // score failed high
	BoundUpper       // score failed low
)

const ttShards = 128

// TTEntry is one transposition table slot.
type TTEntry struct {
	Key   uint64
	Move  board.Move
	Score int16
	Depth int8
	Bound Bound
	Age   uint8
}

// TranspositionTable caches search results keyed by position. Sharded
// mutexes keep it safe for the helper workers.
type TranspositionTable struct {
	mu      sync.Mutex // guards resize
	entries []TTEntry
	mask    uint64
	age     uint8
	locks   [ttShards]sync.Mutex
}

// NewTranspositionTable allocates a table of roughly sizeMB megabytes.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	tt := &TranspositionTable{}
	tt.Resize(sizeMB)
	return tt
}

// Resize reallocates the table. Existing entries are dropped.
func (tt *TranspositionTable) Resize(sizeMB int) {
	if sizeMB < 1 {
		sizeMB = 1
	}
	n := uint64(sizeMB) * 1024 * 1024 / 16
	// Round down to a power of two for mask indexing.
	for n&(n-1) != 0 {
		n &= n - 1
	}
	tt.mu.Lock()
	tt.entries = make([]TTEntry, n)
	tt.mask = n - 1
	tt.mu.Unlock()
}

// Clear wipes the table. Used by "ucinewgame".
func (tt *TranspositionTable) Clear() {
	tt.mu.Lock()
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.age = 0
	tt.mu.Unlock()
}

// NewSearch advances the replacement generation.
func (tt *TranspositionTable) NewSearch() {
	tt.age++
}

// Probe returns the entry for key if present.
func (tt *TranspositionTable) Probe(key uint64) (TTEntry, bool) {
	idx := key & tt.mask
	lock := &tt.locks[idx%ttShards]
	lock.Lock()
	e := tt.entries[idx]
	lock.Unlock()
	return e, e.Key == key
}

// Store writes an entry, preferring deeper and fresher data.
func (tt *TranspositionTable) Store(key uint64, move board.Move, score, depth int, bound Bound) {
	idx := key & tt.mask
	lock := &tt.locks[idx%ttShards]
	lock.Lock()
	e := &tt.entries[idx]
	if e.Key != key || e.Age != tt.age || int(e.Depth) <= depth {
		*e = TTEntry{
			Key:   key,
			Move:  move,
			Score: int16(score),
			Depth: int8(depth),
			Bound: bound,
			Age:   tt.age,
		}
	}
	lock.Unlock()
}

// HashFull estimates table usage in permille from a sample.
func (tt *TranspositionTable) HashFull() int {
	sample := uint64(1000)
	if uint64(len(tt.entries)) < sample {
		sample = uint64(len(tt.entries))
	}
	used := 0
	for i := uint64(0); i < sample; i++ {
		if tt.entries[i].Key != 0 && tt.entries[i].Age == tt.age {
			used++
		}
	}
	if sample == 0 {
		return 0
	}
	return used * 1000 / int(sample)
}
