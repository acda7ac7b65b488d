package board

import (
	"fmt"
	"strings"
)

// Castling right indices and mask bits.
const (
	WhiteKingside = iota
	WhiteQueenside
	BlackKingside
	BlackQueenside
)

// State snapshots the irreversible parts of a position before a move
// so the move can be taken back.
type State struct {
	captured    Piece
	capturedSq  Square
	castling    uint8
	ep          Square
	rule50      int
	key         uint64
	pawnKey     uint64
	materialKey uint64
	checkers    Bitboard
}

// Position is one board state: piece placement, side to move, castling
// rights, en passant target and move counters, plus incrementally
// maintained hash keys.
type Position struct {
	byType  [6]Bitboard
	byColor [2]Bitboard
	squares [64]Piece

	stm        Color
	castling   uint8     // mask of the four castle right bits
	castleRook [4]Square // rook home square per right, NoSquare if lost at setup
	rightsMask [64]uint8 // rights cleared when a move touches the square
	ep         Square
	rule50     int
	fullmove   int
	chess960   bool

	key         uint64
	pawnKey     uint64
	materialKey uint64
	checkers    Bitboard
}

// SideToMove returns the color to play.
func (p *Position) SideToMove() Color { return p.stm }

// Pieces returns the squares holding pieces of the given color and type.
func (p *Position) Pieces(c Color, pt PieceType) Bitboard { return p.byType[pt] & p.byColor[c] }

// ByColor returns all squares occupied by the given color.
func (p *Position) ByColor(c Color) Bitboard { return p.byColor[c] }

// All returns every occupied square.
func (p *Position) All() Bitboard { return p.byColor[White] | p.byColor[Black] }

// PieceOn returns the piece on sq, or NoPiece.
func (p *Position) PieceOn(sq Square) Piece { return p.squares[sq] }

// EnPassant returns the en passant target square, or NoSquare.
func (p *Position) EnPassant() Square { return p.ep }

// Key returns the position's Zobrist key.
func (p *Position) Key() uint64 { return p.key }

// PawnKey returns the pawn-structure key.
func (p *Position) PawnKey() uint64 { return p.pawnKey }

// MaterialKey returns the material-configuration key.
func (p *Position) MaterialKey() uint64 { return p.materialKey }

// Chess960 reports whether the position was set up under Chess960 rules.
func (p *Position) Chess960() bool { return p.chess960 }

// Rule50 returns the halfmove clock.
func (p *Position) Rule50() int { return p.rule50 }

// FullMove returns the fullmove number.
func (p *Position) FullMove() int { return p.fullmove }

// KingSquare returns the king square of the given color.
func (p *Position) KingSquare(c Color) Square { return p.Pieces(c, King).First() }

// Checkers returns the enemy pieces currently giving check.
func (p *Position) Checkers() Bitboard { return p.checkers }

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool { return p.checkers != 0 }

// CanCastle reports whether the castle right with the given index is
// still available, and returns the rook's home square for it.
func (p *Position) CanCastle(right int) (Square, bool) {
	if p.castling&(1<<right) == 0 {
		return NoSquare, false
	}
	return p.castleRook[right], true
}

// Copy returns an independent copy of the position.
func (p *Position) Copy() *Position {
	q := *p
	return &q
}

// AttackersTo returns every piece of either color attacking sq under
// the given occupancy.
func (p *Position) AttackersTo(sq Square, occ Bitboard) Bitboard {
	return PawnCaptures(White, sq)&p.Pieces(Black, Pawn) |
		PawnCaptures(Black, sq)&p.Pieces(White, Pawn) |
		KnightAttacks(sq)&p.byType[Knight] |
		KingAttacks(sq)&p.byType[King] |
		RookAttacks(sq, occ)&(p.byType[Rook]|p.byType[Queen]) |
		BishopAttacks(sq, occ)&(p.byType[Bishop]|p.byType[Queen])
}

// Attacked reports whether sq is attacked by any piece of color by
// under the given occupancy.
func (p *Position) Attacked(sq Square, by Color, occ Bitboard) bool {
	return p.AttackersTo(sq, occ)&p.byColor[by] != 0
}

// Pinned returns the pieces of color c pinned against their own king.
func (p *Position) Pinned(c Color) Bitboard {
	ksq := p.KingSquare(c)
	them := c.Other()
	var pinned Bitboard

	snipers := RookAttacks(ksq, 0)&(p.Pieces(them, Rook)|p.Pieces(them, Queen)) |
		BishopAttacks(ksq, 0)&(p.Pieces(them, Bishop)|p.Pieces(them, Queen))
	for snipers != 0 {
		s := snipers.Pop()
		blockers := Between(s, ksq) & p.All()
		if !blockers.Several() {
			pinned |= blockers & p.byColor[c]
		}
	}
	return pinned
}

func (p *Position) putPiece(pc Piece, sq Square) {
	p.byType[pc.Type()] |= BB(sq)
	p.byColor[pc.Color()] |= BB(sq)
	p.squares[sq] = pc
}

func (p *Position) takePiece(sq Square) Piece {
	pc := p.squares[sq]
	p.byType[pc.Type()] &^= BB(sq)
	p.byColor[pc.Color()] &^= BB(sq)
	p.squares[sq] = NoPiece
	return pc
}

func (p *Position) updateCheckers() {
	p.checkers = p.AttackersTo(p.KingSquare(p.stm), p.All()) & p.byColor[p.stm.Other()]
}

// hashPiece folds one piece-square into the main key and, for pawns,
// the pawn key.
func (p *Position) hashPiece(pc Piece, sq Square) {
	p.key ^= zobPiece[pc.Color()][pc.Type()][sq]
	if pc.Type() == Pawn {
		p.pawnKey ^= zobPiece[pc.Color()][Pawn][sq]
	}
}

// hashMaterialDelta adjusts the material key when the count of (c, pt)
// moves between n-1 and n pieces.
func (p *Position) hashMaterialDelta(c Color, pt PieceType, n int) {
	if n >= 0 && n < len(zobMaterial[c][pt]) {
		p.materialKey ^= zobMaterial[c][pt][n]
	}
}

// castleTargets returns where the king and rook land for a castling
// move encoded as king-takes-rook.
func castleTargets(m Move) (kingTo, rookTo Square) {
	rank := m.From().Rank()
	if m.To() > m.From() { // kingside
		return SquareAt(FileG, rank), SquareAt(FileF, rank)
	}
	return SquareAt(FileC, rank), SquareAt(FileD, rank)
}

// MakeMove applies m to the position and returns the snapshot needed
// to take it back. The move must be legal.
func (p *Position) MakeMove(m Move) State {
	st := State{
		captured:    NoPiece,
		capturedSq:  NoSquare,
		castling:    p.castling,
		ep:          p.ep,
		rule50:      p.rule50,
		key:         p.key,
		pawnKey:     p.pawnKey,
		materialKey: p.materialKey,
		checkers:    p.checkers,
	}

	us, them := p.stm, p.stm.Other()
	from, to := m.From(), m.To()
	moving := p.squares[from]

	// Clear the old en passant file from the key.
	if p.ep != NoSquare {
		p.key ^= zobEnPant[p.ep.File()]
	}
	p.ep = NoSquare
	p.rule50++

	switch m.Kind() {
	case CastlingMove:
		kingTo, rookTo := castleTargets(m)
		rook := p.takePiece(to)
		king := p.takePiece(from)
		p.putPiece(king, kingTo)
		p.putPiece(rook, rookTo)
		p.hashPiece(king, from)
		p.hashPiece(king, kingTo)
		p.hashPiece(rook, to)
		p.hashPiece(rook, rookTo)

	case EnPassantMove:
		capSq := SquareAt(to.File(), from.Rank())
		st.captured = p.takePiece(capSq)
		st.capturedSq = capSq
		p.hashPiece(st.captured, capSq)
		p.hashMaterialDelta(them, Pawn, p.Pieces(them, Pawn).Count()+1)

		p.takePiece(from)
		p.putPiece(moving, to)
		p.hashPiece(moving, from)
		p.hashPiece(moving, to)
		p.rule50 = 0

	case PromotionMove:
		if p.squares[to] != NoPiece {
			st.captured = p.takePiece(to)
			st.capturedSq = to
			p.hashPiece(st.captured, to)
			p.hashMaterialDelta(them, st.captured.Type(), p.Pieces(them, st.captured.Type()).Count()+1)
		}
		p.takePiece(from)
		promoted := MakePiece(us, m.Promo())
		p.putPiece(promoted, to)
		p.hashPiece(moving, from)
		p.hashPiece(promoted, to)
		p.hashMaterialDelta(us, Pawn, p.Pieces(us, Pawn).Count()+1)
		p.hashMaterialDelta(us, m.Promo(), p.Pieces(us, m.Promo()).Count())
		p.rule50 = 0

	default:
		if p.squares[to] != NoPiece {
			st.captured = p.takePiece(to)
			st.capturedSq = to
			p.hashPiece(st.captured, to)
			p.hashMaterialDelta(them, st.captured.Type(), p.Pieces(them, st.captured.Type()).Count()+1)
			p.rule50 = 0
		}
		p.takePiece(from)
		p.putPiece(moving, to)
		p.hashPiece(moving, from)
		p.hashPiece(moving, to)

		if moving.Type() == Pawn {
			p.rule50 = 0
			// Double push opens an en passant target.
			if from.Rank()^to.Rank() == 2 && from.File() == to.File() {
				p.ep = SquareAt(from.File(), (from.Rank()+to.Rank())/2)
				p.key ^= zobEnPant[p.ep.File()]
			}
		}
	}

	// Castling rights lost by touching king or rook squares.
	newCastling := p.castling &^ (p.rightsMask[from] | p.rightsMask[to])
	if newCastling != p.castling {
		p.key ^= zobCastling[p.castling]
		p.key ^= zobCastling[newCastling]
		p.castling = newCastling
	}

	if us == Black {
		p.fullmove++
	}
	p.stm = them
	p.key ^= zobSide
	p.updateCheckers()

	return st
}

// UnmakeMove takes back m using the snapshot MakeMove returned.
func (p *Position) UnmakeMove(m Move, st State) {
	them := p.stm
	us := them.Other()
	from, to := m.From(), m.To()

	switch m.Kind() {
	case CastlingMove:
		kingTo, rookTo := castleTargets(m)
		rook := p.takePiece(rookTo)
		king := p.takePiece(kingTo)
		p.putPiece(king, from)
		p.putPiece(rook, to)

	case PromotionMove:
		p.takePiece(to)
		p.putPiece(MakePiece(us, Pawn), from)
		if st.captured != NoPiece {
			p.putPiece(st.captured, st.capturedSq)
		}

	default:
		moving := p.takePiece(to)
		p.putPiece(moving, from)
		if st.captured != NoPiece {
			p.putPiece(st.captured, st.capturedSq)
		}
	}

	if us == Black {
		p.fullmove--
	}
	p.stm = us
	p.castling = st.castling
	p.ep = st.ep
	p.rule50 = st.rule50
	p.key = st.key
	p.pawnKey = st.pawnKey
	p.materialKey = st.materialKey
	p.checkers = st.checkers
}

// MakeNullMove passes the turn. Used by search pruning; never reached
// from protocol input.
func (p *Position) MakeNullMove() State {
	st := State{
		captured: NoPiece,
		ep:       p.ep,
		rule50:   p.rule50,
		key:      p.key,
		checkers: p.checkers,
	}
	if p.ep != NoSquare {
		p.key ^= zobEnPant[p.ep.File()]
		p.ep = NoSquare
	}
	p.stm = p.stm.Other()
	p.key ^= zobSide
	p.updateCheckers()
	return st
}

// UnmakeNullMove takes back a null move.
func (p *Position) UnmakeNullMove(st State) {
	p.stm = p.stm.Other()
	p.ep = st.ep
	p.rule50 = st.rule50
	p.key = st.key
	p.checkers = st.checkers
}

// Flip mirrors the position: ranks are reversed, colors swapped, and
// the side to move changes. Implemented by transforming the FEN, which
// keeps every derived field consistent.
func (p *Position) Flip() {
	fields := strings.Fields(p.FEN())

	ranks := strings.Split(fields[0], "/")
	for i, j := 0, len(ranks)-1; i < j; i, j = i+1, j-1 {
		ranks[i], ranks[j] = ranks[j], ranks[i]
	}
	fields[0] = swapCase(strings.Join(ranks, "/"))

	if fields[1] == "w" {
		fields[1] = "b"
	} else {
		fields[1] = "w"
	}
	fields[2] = swapCase(fields[2])
	if fields[3] != "-" {
		sq, _ := ParseSquare(fields[3])
		fields[3] = sq.FlipRank().String()
	}

	flipped, err := ParseFEN(strings.Join(fields, " "), p.chess960)
	if err != nil {
		panic(fmt.Sprintf("flip produced bad FEN: %v", err))
	}
	*p = *flipped
}

func swapCase(s string) string {
	b := []byte(s)
	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z':
			b[i] = c - 'a' + 'A'
		case c >= 'A' && c <= 'Z':
			b[i] = c - 'A' + 'a'
		}
	}
	return string(b)
}

// String renders the board for the "d" command.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n +---+---+---+---+---+---+---+---+\n")
	for r := 7; r >= 0; r-- {
		for f := 0; f < 8; f++ {
			fmt.Fprintf(&sb, " | %c", p.squares[SquareAt(f, r)].Letter())
		}
		fmt.Fprintf(&sb, " | %d\n +---+---+---+---+---+---+---+---+\n", r+1)
	}
	sb.WriteString("   a   b   c   d   e   f   g   h\n\n")
	fmt.Fprintf(&sb, "Fen: %s\n", p.FEN())
	fmt.Fprintf(&sb, "Key: %016X\n", p.key)
	return sb.String()
}
