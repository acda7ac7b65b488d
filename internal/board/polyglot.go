package board

// Keys for the Polyglot opening-book hash. Kept separate from the
// internal Zobrist keys so book lookups are independent of search
// hashing.
var (
	pgPiece    [12][64]uint64 // black pieces first, Polyglot ordering
	pgCastling [4]uint64
	pgEnPant   [8]uint64
	pgWhite    uint64
)

func init() {
	g := keyGen{s: 0x37B4A4B3F0D1C0D0}
	for k := range pgPiece {
		for sq := range pgPiece[k] {
			pgPiece[k][sq] = g.next()
		}
	}
	for i := range pgCastling {
		pgCastling[i] = g.next()
	}
	for i := range pgEnPant {
		pgEnPant[i] = g.next()
	}
	pgWhite = g.next()
}

// PolyglotKey computes the opening-book hash of the position. The en
// passant file counts only when a pawn could actually capture.
func (p *Position) PolyglotKey() uint64 {
	var key uint64

	for sq := A1; sq <= H8; sq++ {
		pc := p.squares[sq]
		if pc == NoPiece {
			continue
		}
		// Polyglot piece kinds: bp 0, bn 1 .. bk 5, wp 6 .. wk 11.
		kind := int(pc.Type())
		if pc.Color() == White {
			kind += 6
		}
		key ^= pgPiece[kind][sq]
	}

	for right := WhiteKingside; right <= BlackQueenside; right++ {
		if p.castling&(1<<right) != 0 {
			key ^= pgCastling[right]
		}
	}

	if p.ep != NoSquare {
		capturers := PawnCaptures(p.stm.Other(), p.ep) & p.Pieces(p.stm, Pawn)
		if capturers != 0 {
			key ^= pgEnPant[p.ep.File()]
		}
	}

	if p.stm == White {
		key ^= pgWhite
	}
	return key
}
