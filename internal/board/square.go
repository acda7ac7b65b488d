package board

import "fmt"

// Square indexes a board square, a1 = 0 through h8 = 63
// (little-endian rank-file mapping).
type Square uint8

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

// Files, 0 = file a.
const (
	FileA = iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
)

// Ranks, 0 = rank 1.
const (
	Rank1 = iota
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
)

// SquareAt builds a Square from a file and rank, both 0-7.
func SquareAt(file, rank int) Square {
	return Square(rank<<3 | file)
}

// File returns the square's file, 0-7.
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank returns the square's rank, 0-7.
func (sq Square) Rank() int {
	return int(sq) >> 3
}

// Valid reports whether sq is an actual board square.
func (sq Square) Valid() bool {
	return sq < NoSquare
}

// FlipRank mirrors the square across the horizontal axis (a1 <-> a8).
func (sq Square) FlipRank() Square {
	return sq ^ 56
}

// String returns the coordinate form of the square, e.g. "e4".
func (sq Square) String() string {
	if !sq.Valid() {
		return "-"
	}
	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

// ParseSquare converts a two-character coordinate like "e4" to a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("bad square %q", s)
	}
	return SquareAt(int(s[0]-'a'), int(s[1]-'1')), nil
}
