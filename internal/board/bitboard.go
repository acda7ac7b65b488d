package board

import (
	"math/bits"
	"strings"
)

// Bitboard is a 64-bit set of squares, bit i = Square(i).
type Bitboard uint64

// File and rank masks.
var (
	fileBB [8]Bitboard
	rankBB [8]Bitboard
)

func init() {
	for f := 0; f < 8; f++ {
		fileBB[f] = 0x0101010101010101 << f
	}
	for r := 0; r < 8; r++ {
		rankBB[r] = 0xFF << (8 * r)
	}
}

// FileBB returns the mask of all squares on the given file.
func FileBB(file int) Bitboard {
	return fileBB[file]
}

// RankBB returns the mask of all squares on the given rank.
func RankBB(rank int) Bitboard {
	return rankBB[rank]
}

// BB returns the single-square mask for sq.
func BB(sq Square) Bitboard {
	return 1 << sq
}

// Has reports whether sq is in the set.
func (b Bitboard) Has(sq Square) bool {
	return b&BB(sq) != 0
}

// Count returns the number of squares in the set.
func (b Bitboard) Count() int {
	return bits.OnesCount64(uint64(b))
}

// First returns the lowest square in the set, or NoSquare when empty.
func (b Bitboard) First() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// Pop removes and returns the lowest square in the set.
func (b *Bitboard) Pop() Square {
	sq := b.First()
	*b &= *b - 1
	return sq
}

// Several reports whether the set holds more than one square.
func (b Bitboard) Several() bool {
	return b&(b-1) != 0
}

// String renders the set as an 8x8 grid, rank 8 first. Debug aid.
func (b Bitboard) String() string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		for f := 0; f < 8; f++ {
			if b.Has(SquareAt(f, r)) {
				sb.WriteString("X ")
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
