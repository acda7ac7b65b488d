// Package book reads Polyglot-format opening books and probes them by
// position key.
package book

import (
	"encoding/binary"
	"io"
	"math/rand"
	"os"
	"sort"

	"github.com/gannet-chess/gannet/internal/board"
)

// Entry is one book move with its selection weight.
type Entry struct {
	From   board.Square
	To     board.Square
	Promo  board.PieceType // NoPieceType when not a promotion
	Weight uint16
}

// Book maps Polyglot position keys to candidate moves.
type Book struct {
	entries map[uint64][]Entry
}

// Load reads a Polyglot book file.
func Load(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read parses Polyglot records from r: 8-byte key, 2-byte move,
// 2-byte weight, 4-byte learn value, all big-endian.
func Read(r io.Reader) (*Book, error) {
	b := &Book{entries: make(map[uint64][]Entry)}
	var rec [16]byte
	for {
		if _, err := io.ReadFull(r, rec[:]); err != nil {
			if err == io.EOF {
				return b, nil
			}
			return nil, err
		}
		key := binary.BigEndian.Uint64(rec[0:8])
		move := binary.BigEndian.Uint16(rec[8:10])
		weight := binary.BigEndian.Uint16(rec[10:12])
		b.entries[key] = append(b.entries[key], decodeMove(move, weight))
	}
}

// decodeMove unpacks the Polyglot move bits: to file/rank in bits 0-5,
// from file/rank in bits 6-11, promotion piece in bits 12-14. Castling
// is stored as king-takes-rook, matching the board's own encoding.
func decodeMove(m, weight uint16) Entry {
	to := board.SquareAt(int(m&7), int(m>>3&7))
	from := board.SquareAt(int(m>>6&7), int(m>>9&7))
	promo := board.NoPieceType
	if p := m >> 12 & 7; p > 0 {
		promo = board.Knight + board.PieceType(p-1)
	}
	return Entry{From: from, To: to, Promo: promo, Weight: weight}
}

// Size returns the number of distinct positions in the book.
func (b *Book) Size() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}

// Probe returns a legal book move for the position, chosen by weighted
// random selection, or false if the book has nothing playable.
func (b *Book) Probe(pos *board.Position) (board.Move, bool) {
	if b == nil {
		return board.MoveNone, false
	}
	entries := b.entries[pos.PolyglotKey()]
	if len(entries) == 0 {
		return board.MoveNone, false
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Weight > sorted[j].Weight
	})

	legal := pos.LegalMoves()
	var candidates []board.Move
	var weights []uint32
	var total uint32
	for _, e := range sorted {
		if m := matchLegal(legal, e); m != board.MoveNone {
			candidates = append(candidates, m)
			weights = append(weights, uint32(e.Weight))
			total += uint32(e.Weight)
		}
	}
	if len(candidates) == 0 {
		return board.MoveNone, false
	}
	if total == 0 {
		return candidates[0], true
	}

	r := rand.Uint32() % total
	var acc uint32
	for i, m := range candidates {
		acc += weights[i]
		if r < acc {
			return m, true
		}
	}
	return candidates[0], true
}

// matchLegal finds the legal move an entry describes, which also fixes
// up the move kind bits (en passant, castling, promotion).
func matchLegal(legal *board.MoveList, e Entry) board.Move {
	for i := 0; i < legal.Len(); i++ {
		m := legal.Get(i)
		if m.From() != e.From || m.To() != e.To {
			continue
		}
		if e.Promo == board.NoPieceType {
			if m.Kind() != board.PromotionMove {
				return m
			}
		} else if m.Kind() == board.PromotionMove && m.Promo() == e.Promo {
			return m
		}
	}
	return board.MoveNone
}
