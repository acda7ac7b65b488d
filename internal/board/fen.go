package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	p, err := ParseFEN(StartFEN, false)
	if err != nil {
		panic(err)
	}
	return p
}

// ParseFEN builds a Position from a FEN string. With chess960 set,
// castling rights may use Shredder-FEN file letters (A-H, a-h) and the
// printed FEN keeps that form.
func ParseFEN(fen string, chess960 bool) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("fen %q: want at least 4 fields, have %d", fen, len(fields))
	}

	p := &Position{
		ep:       NoSquare,
		fullmove: 1,
		chess960: chess960,
	}
	for i := range p.squares {
		p.squares[i] = NoPiece
	}
	for i := range p.castleRook {
		p.castleRook[i] = NoSquare
	}

	if err := p.readPlacement(fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
		p.stm = White
	case "b":
		p.stm = Black
	default:
		return nil, fmt.Errorf("fen: bad side to move %q", fields[1])
	}

	if err := p.readCastling(fields[2]); err != nil {
		return nil, err
	}

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("fen: bad en passant field %q", fields[3])
		}
		p.ep = sq
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, fmt.Errorf("fen: bad halfmove clock %q", fields[4])
		}
		p.rule50 = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil {
			return nil, fmt.Errorf("fen: bad fullmove number %q", fields[5])
		}
		p.fullmove = n
	}

	if p.Pieces(White, King).Count() != 1 || p.Pieces(Black, King).Count() != 1 {
		return nil, fmt.Errorf("fen: each side needs exactly one king")
	}

	p.buildRightsMask()
	p.rehash()
	p.updateCheckers()
	return p, nil
}

func (p *Position) readPlacement(placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("fen: want 8 ranks, have %d", len(ranks))
	}
	for i, rankStr := range ranks {
		r := 7 - i
		f := 0
		for j := 0; j < len(rankStr); j++ {
			c := rankStr[j]
			if c >= '1' && c <= '8' {
				f += int(c - '0')
				continue
			}
			pc := PieceFromLetter(c)
			if pc == NoPiece || f > 7 {
				return fmt.Errorf("fen: bad rank %q", rankStr)
			}
			p.putPiece(pc, SquareAt(f, r))
			f++
		}
		if f != 8 {
			return fmt.Errorf("fen: rank %q covers %d files", rankStr, f)
		}
	}
	return nil
}

// readCastling accepts classical KQkq letters and Shredder-FEN file
// letters. K/k and Q/q pick the outermost rook on the king's side,
// which is also correct for X-FEN Chess960 positions.
func (p *Position) readCastling(field string) error {
	if field == "-" {
		return nil
	}
	for i := 0; i < len(field); i++ {
		c := field[i]
		color := White
		if c >= 'a' && c <= 'z' {
			color = Black
			c -= 'a' - 'A'
		}
		ksq := p.KingSquare(color)
		backRank := ksq.Rank()
		rooks := p.Pieces(color, Rook) & RankBB(backRank)

		var rookSq Square
		kingside := false
		switch {
		case c == 'K':
			kingside = true
			rookSq = NoSquare
			for bb := rooks; bb != 0; {
				s := bb.Pop()
				if s > ksq {
					rookSq = s // keep scanning: outermost
				}
			}
		case c == 'Q':
			rookSq = NoSquare
			for bb := rooks; bb != 0; {
				s := bb.Pop()
				if s < ksq {
					rookSq = s
					break // lowest file first out of the set
				}
			}
		case c >= 'A' && c <= 'H':
			rookSq = SquareAt(int(c-'A'), backRank)
			if !rooks.Has(rookSq) {
				return fmt.Errorf("fen: no rook on %s for castling right %c", rookSq, field[i])
			}
			kingside = rookSq > ksq
		default:
			return fmt.Errorf("fen: bad castling right %c", field[i])
		}
		if rookSq == NoSquare {
			return fmt.Errorf("fen: no rook found for castling right %c", field[i])
		}

		right := WhiteKingside
		switch {
		case color == White && !kingside:
			right = WhiteQueenside
		case color == Black && kingside:
			right = BlackKingside
		case color == Black && !kingside:
			right = BlackQueenside
		}
		p.castling |= 1 << right
		p.castleRook[right] = rookSq
	}
	return nil
}

// buildRightsMask records, per square, which castle rights die when a
// move touches that square.
func (p *Position) buildRightsMask() {
	for right := WhiteKingside; right <= BlackQueenside; right++ {
		if p.castling&(1<<right) == 0 {
			continue
		}
		color := White
		if right >= BlackKingside {
			color = Black
		}
		kingMask := uint8(1<<WhiteKingside | 1<<WhiteQueenside)
		if color == Black {
			kingMask = 1<<BlackKingside | 1<<BlackQueenside
		}
		p.rightsMask[p.KingSquare(color)] |= kingMask
		p.rightsMask[p.castleRook[right]] |= 1 << right
	}
}

// rehash computes all three keys from scratch.
func (p *Position) rehash() {
	p.key, p.pawnKey, p.materialKey = 0, 0, 0
	for sq := A1; sq <= H8; sq++ {
		pc := p.squares[sq]
		if pc == NoPiece {
			continue
		}
		p.key ^= zobPiece[pc.Color()][pc.Type()][sq]
		if pc.Type() == Pawn {
			p.pawnKey ^= zobPiece[pc.Color()][Pawn][sq]
		}
	}
	if p.stm == Black {
		p.key ^= zobSide
	}
	p.key ^= zobCastling[p.castling]
	if p.ep != NoSquare {
		p.key ^= zobEnPant[p.ep.File()]
	}
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			n := p.Pieces(c, pt).Count()
			for i := 1; i <= n && i < len(zobMaterial[c][pt]); i++ {
				p.materialKey ^= zobMaterial[c][pt][i]
			}
		}
	}
}

// FEN returns the position in FEN form.
func (p *Position) FEN() string {
	var sb strings.Builder

	for r := 7; r >= 0; r-- {
		empty := 0
		for f := 0; f < 8; f++ {
			pc := p.squares[SquareAt(f, r)]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(pc.Letter())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if r > 0 {
			sb.WriteByte('/')
		}
	}

	if p.stm == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	if p.castling == 0 {
		sb.WriteByte('-')
	} else {
		letters := [4]byte{'K', 'Q', 'k', 'q'}
		for right := WhiteKingside; right <= BlackQueenside; right++ {
			if p.castling&(1<<right) == 0 {
				continue
			}
			if p.chess960 {
				c := byte('A' + p.castleRook[right].File())
				if right >= BlackKingside {
					c += 'a' - 'A'
				}
				sb.WriteByte(c)
			} else {
				sb.WriteByte(letters[right])
			}
		}
	}

	fmt.Fprintf(&sb, " %s %d %d", p.ep, p.rule50, p.fullmove)
	return sb.String()
}
