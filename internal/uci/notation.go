package uci

import (
	"fmt"
	"strings"

	"github.com/gannet-chess/gannet/internal/board"
	"github.com/gannet-chess/gannet/internal/engine"
)

// FormatMove renders a move in coordinate notation. Castling is
// encoded internally as king takes rook; outside Chess960 the
// destination is rewritten to the conventional g or c file square so
// that e1h1 prints as e1g1. MoveNone renders as "(none)" and the null
// move as "0000".
func FormatMove(m board.Move, chess960 bool) string {
	if m == board.MoveNone {
		return "(none)"
	}
	if m == board.MoveNull {
		return "0000"
	}
	from, to := m.From(), m.To()
	if m.Kind() == board.CastlingMove && !chess960 {
		file := board.FileC
		if to > from {
			file = board.FileG
		}
		to = board.SquareAt(file, from.Rank())
	}
	s := from.String() + to.String()
	if m.Kind() == board.PromotionMove {
		s += string(m.Promo().Letter() + 'a' - 'A')
	}
	return s
}

// ToMove resolves a coordinate-notation token against the legal moves
// of pos. A trailing promotion letter is lowercased first, so E7E8Q
// and e7e8q resolve alike. MoveNone is returned when no legal move
// renders as the token.
func ToMove(pos *board.Position, s string) board.Move {
	if len(s) == 5 {
		s = s[:4] + strings.ToLower(s[4:])
	}
	moves := pos.LegalMoves()
	for i := 0; i < moves.Len(); i++ {
		if m := moves.Get(i); s == FormatMove(m, pos.Chess960()) {
			return m
		}
	}
	return board.MoveNone
}

// ToSAN renders a legal move in standard algebraic notation. The
// caller must pass a move that is legal in pos; anything else panics.
// MoveNone and the null move render as "(none)" and "(null)".
func ToSAN(pos *board.Position, m board.Move) string {
	if m == board.MoveNone {
		return "(none)"
	}
	if m == board.MoveNull {
		return "(null)"
	}
	if !pos.LegalMoves().Contains(m) {
		panic(fmt.Sprintf("uci: %s is not legal in %s", FormatMove(m, pos.Chess960()), pos.FEN()))
	}

	from, to := m.From(), m.To()
	pt := pos.PieceOn(from).Type()
	capture := m.Kind() == board.EnPassantMove ||
		(m.Kind() != board.CastlingMove && pos.PieceOn(to) != board.NoPiece)

	var san string
	switch {
	case m.Kind() == board.CastlingMove:
		if to > from {
			san = "O-O"
		} else {
			san = "O-O-O"
		}
	case pt == board.Pawn:
		if capture {
			san = string('a'+byte(from.File())) + "x"
		}
		san += to.String()
		if m.Kind() == board.PromotionMove {
			san += "=" + string(m.Promo().Letter())
		}
	default:
		san = string(pt.Letter())
		san += disambiguation(pos, pt, from, to)
		if capture {
			san += "x"
		}
		san += to.String()
	}

	st := pos.MakeMove(m)
	if pos.InCheck() {
		if pos.HasLegalMoves() {
			san += "+"
		} else {
			san += "#"
		}
	}
	pos.UnmakeMove(m, st)
	return san
}

// disambiguation picks the shortest origin qualifier that makes the
// move unique: nothing, then the file, then the rank, then the full
// square. Pieces pinned against their king do not compete unless the
// destination stays on the pin ray.
func disambiguation(pos *board.Position, pt board.PieceType, from, to board.Square) string {
	us := pos.SideToMove()
	others := board.AttacksBy(pt, to, pos.All()) & pos.Pieces(us, pt)
	others &^= board.BB(from)

	ksq := pos.KingSquare(us)
	pinned := pos.Pinned(us)
	for bb := others; bb != 0; {
		sq := bb.Pop()
		if pinned.Has(sq) && !board.Aligned(ksq, sq, to) {
			others &^= board.BB(sq)
		}
	}

	switch {
	case others == 0:
		return ""
	case others&board.FileBB(from.File()) == 0:
		return string('a' + byte(from.File()))
	case others&board.RankBB(from.Rank()) == 0:
		return string('1' + byte(from.Rank()))
	default:
		return from.String()
	}
}

// FormatScore renders a search score for an info line: "cp <v>" for
// ordinary scores, "mate <n>" with n in full moves once the score is
// within mate range. A score outside the (alpha, beta) window gets a
// lowerbound or upperbound suffix.
func FormatScore(v, alpha, beta int) string {
	var s string
	if abs(v) < engine.MateInMaxPly {
		s = fmt.Sprintf("cp %d", v)
	} else if v > 0 {
		s = fmt.Sprintf("mate %d", (engine.MateValue-v+1)/2)
	} else {
		s = fmt.Sprintf("mate %d", -(engine.MateValue+v)/2)
	}
	if v >= beta {
		s += " lowerbound"
	} else if v <= alpha {
		s += " upperbound"
	}
	return s
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
