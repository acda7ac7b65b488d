// Package board implements the chess position: bitboard state, FEN,
// legal move generation, make/unmake and the attack queries the
// notation layer needs. Castling moves are encoded internally as
// "king takes rook" so Chess960 positions need no special casing.
package board

// Color is the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return "none"
}

// PieceType is a closed enumeration of the six piece kinds.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType
)

// pieceTypeChars maps a PieceType to its upper-case letter.
const pieceTypeChars = "PNBRQK"

// Letter returns the upper-case English letter for the piece type.
func (pt PieceType) Letter() byte {
	if pt >= NoPieceType {
		return '?'
	}
	return pieceTypeChars[pt]
}

// PromoFromLetter maps a lower-case promotion letter to a piece type,
// or NoPieceType if the letter names no promotable piece.
func PromoFromLetter(c byte) PieceType {
	switch c {
	case 'n':
		return Knight
	case 'b':
		return Bishop
	case 'r':
		return Rook
	case 'q':
		return Queen
	case 'k':
		return King
	}
	return NoPieceType
}

// Piece packs a PieceType and a Color.
type Piece uint8

const (
	WPawn Piece = iota
	WKnight
	WBishop
	WRook
	WQueen
	WKing
	BPawn
	BKnight
	BBishop
	BRook
	BQueen
	BKing
	NoPiece
)

// MakePiece builds a Piece from its type and color.
func MakePiece(c Color, pt PieceType) Piece {
	if c >= NoColor || pt >= NoPieceType {
		return NoPiece
	}
	return Piece(c)*6 + Piece(pt)
}

// Type returns the piece's type.
func (p Piece) Type() PieceType {
	if p >= NoPiece {
		return NoPieceType
	}
	return PieceType(p % 6)
}

// Color returns the piece's color.
func (p Piece) Color() Color {
	if p >= NoPiece {
		return NoColor
	}
	return Color(p / 6)
}

// Letter returns the FEN letter for the piece: upper case for white,
// lower case for black, space for no piece.
func (p Piece) Letter() byte {
	if p >= NoPiece {
		return ' '
	}
	return "PNBRQKpnbrqk"[p]
}

// PieceFromLetter converts a FEN letter to a Piece.
func PieceFromLetter(c byte) Piece {
	switch c {
	case 'P':
		return WPawn
	case 'N':
		return WKnight
	case 'B':
		return WBishop
	case 'R':
		return WRook
	case 'Q':
		return WQueen
	case 'K':
		return WKing
	case 'p':
		return BPawn
	case 'n':
		return BKnight
	case 'b':
		return BBishop
	case 'r':
		return BRook
	case 'q':
		return BQueen
	case 'k':
		return BKing
	}
	return NoPiece
}
