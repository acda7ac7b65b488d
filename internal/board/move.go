package board

// Move packs a chess move into 16 bits:
//
//	bits 0-5   origin square
//	bits 6-11  destination square
//	bits 12-13 promotion piece, 0 = knight .. 3 = queen
//	bits 14-15 kind: 0 normal, 1 promotion, 2 en passant, 3 castling
//
// Castling is encoded as "king takes rook": the destination is the
// rook's square, which keeps the encoding unambiguous in Chess960.
// MoveNone and MoveNull are sentinels distinct from every real move.
type Move uint16

const (
	// MoveNone is the absent-move sentinel.
	MoveNone Move = 0
	// MoveNull is the pass-the-turn move used by search.
	MoveNull Move = Move(B1) | Move(B1)<<6
)

const (
	kindNormal    = 0 << 14
	kindPromotion = 1 << 14
	kindEnPassant = 2 << 14
	kindCastling  = 3 << 14
)

// MoveKind tags what a Move value represents.
type MoveKind uint8

const (
	NormalMove MoveKind = iota
	PromotionMove
	EnPassantMove
	CastlingMove
	NullMove
	NoneMove
)

// NewMove builds a normal move.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6
}

// NewPromotion builds a promotion to the given piece type.
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move(from) | Move(to)<<6 | Move(promo-Knight)<<12 | kindPromotion
}

// NewEnPassant builds an en passant capture.
func NewEnPassant(from, to Square) Move {
	return Move(from) | Move(to)<<6 | kindEnPassant
}

// NewCastle builds a castling move from the king's square to the
// rook's square.
func NewCastle(king, rook Square) Move {
	return Move(king) | Move(rook)<<6 | kindCastling
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square. For castling this is the rook's
// square, not where the king lands.
func (m Move) To() Square {
	return Square(m >> 6 & 0x3F)
}

// Promo returns the promotion piece type; meaningful only when
// Kind() == PromotionMove.
func (m Move) Promo() PieceType {
	return Knight + PieceType(m>>12&3)
}

// Kind returns the move's kind tag.
func (m Move) Kind() MoveKind {
	switch {
	case m == MoveNone:
		return NoneMove
	case m == MoveNull:
		return NullMove
	}
	switch m & 0xC000 {
	case kindPromotion:
		return PromotionMove
	case kindEnPassant:
		return EnPassantMove
	case kindCastling:
		return CastlingMove
	}
	return NormalMove
}

// MoveList accumulates generated moves without heap allocation.
type MoveList struct {
	moves [256]Move
	n     int
}

// Add appends a move.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.n] = m
	ml.n++
}

// Len returns the number of moves held.
func (ml *MoveList) Len() int {
	return ml.n
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Contains reports whether m is in the list.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.n; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the held moves as a slice backed by the list.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.n]
}
