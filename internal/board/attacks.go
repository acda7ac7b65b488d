package board

// Precomputed attack tables. Sliding pieces walk rays against the
// occupancy; leapers and pawn captures are table lookups.
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnCaptures  [2][64]Bitboard

	// betweenBB[a][b]: squares strictly between a and b when aligned.
	// lineBB[a][b]: the full line through a and b, or 0 when not aligned.
	betweenBB [64][64]Bitboard
	lineBB    [64][64]Bitboard
)

// Movement deltas as (file, rank) steps.
var (
	rookDirs   = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = [][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	kingDirs   = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	knightHops = [][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
)

func init() {
	for sq := A1; sq <= H8; sq++ {
		f, r := sq.File(), sq.Rank()

		for _, d := range knightHops {
			if t := offset(f, r, d[0], d[1]); t.Valid() {
				knightAttacks[sq] |= BB(t)
			}
		}
		for _, d := range kingDirs {
			if t := offset(f, r, d[0], d[1]); t.Valid() {
				kingAttacks[sq] |= BB(t)
			}
		}
		for _, df := range [2]int{-1, 1} {
			if t := offset(f, r, df, 1); t.Valid() {
				pawnCaptures[White][sq] |= BB(t)
			}
			if t := offset(f, r, df, -1); t.Valid() {
				pawnCaptures[Black][sq] |= BB(t)
			}
		}
	}
	initLines()
}

// offset returns the square df files and dr ranks away, or NoSquare
// when that falls off the board.
func offset(file, rank, df, dr int) Square {
	f, r := file+df, rank+dr
	if f < 0 || f > 7 || r < 0 || r > 7 {
		return NoSquare
	}
	return SquareAt(f, r)
}

// ray walks one direction from sq until the board edge or the first
// blocker in occ, which is included in the result.
func ray(sq Square, df, dr int, occ Bitboard) Bitboard {
	var bb Bitboard
	f, r := sq.File(), sq.Rank()
	for {
		t := offset(f, r, df, dr)
		if !t.Valid() {
			return bb
		}
		bb |= BB(t)
		if occ.Has(t) {
			return bb
		}
		f, r = t.File(), t.Rank()
	}
}

func initLines() {
	for a := A1; a <= H8; a++ {
		for _, d := range kingDirs {
			full := ray(a, d[0], d[1], 0)
			for bb := full; bb != 0; {
				b := bb.Pop()
				lineBB[a][b] = full | ray(a, -d[0], -d[1], 0) | BB(a)
				betweenBB[a][b] = ray(a, d[0], d[1], BB(b)) &^ BB(b)
			}
		}
	}
}

// RookAttacks returns the squares a rook on sq attacks given occupancy.
func RookAttacks(sq Square, occ Bitboard) Bitboard {
	var bb Bitboard
	for _, d := range rookDirs {
		bb |= ray(sq, d[0], d[1], occ)
	}
	return bb
}

// BishopAttacks returns the squares a bishop on sq attacks given occupancy.
func BishopAttacks(sq Square, occ Bitboard) Bitboard {
	var bb Bitboard
	for _, d := range bishopDirs {
		bb |= ray(sq, d[0], d[1], occ)
	}
	return bb
}

// QueenAttacks returns the squares a queen on sq attacks given occupancy.
func QueenAttacks(sq Square, occ Bitboard) Bitboard {
	return RookAttacks(sq, occ) | BishopAttacks(sq, occ)
}

// KnightAttacks returns the knight attack set from sq.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the king attack set from sq.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

// PawnCaptures returns the squares a pawn of color c on sq attacks.
func PawnCaptures(c Color, sq Square) Bitboard {
	return pawnCaptures[c][sq]
}

// AttacksBy returns the attack set of a non-pawn piece type from sq.
func AttacksBy(pt PieceType, sq Square, occ Bitboard) Bitboard {
	switch pt {
	case Knight:
		return knightAttacks[sq]
	case Bishop:
		return BishopAttacks(sq, occ)
	case Rook:
		return RookAttacks(sq, occ)
	case Queen:
		return QueenAttacks(sq, occ)
	case King:
		return kingAttacks[sq]
	}
	return 0
}

// Between returns the squares strictly between a and b, or 0 when the
// two squares share no rank, file or diagonal.
func Between(a, b Square) Bitboard {
	return betweenBB[a][b]
}

// Line returns the full line through a and b including both endpoints,
// or 0 when they are not aligned.
func Line(a, b Square) Bitboard {
	return lineBB[a][b]
}

// Aligned reports whether the three squares lie on one rank, file or
// diagonal.
func Aligned(a, b, c Square) bool {
	return lineBB[a][b].Has(c)
}
