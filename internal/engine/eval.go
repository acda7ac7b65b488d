package engine

import (
	"fmt"
	"strings"

	"github.com/gannet-chess/gannet/internal/board"
)

// Score constants, in centipawns from the side to move's view.
const (
	Infinity     = 32500
	MateValue    = 32000
	MaxPly       = 128
	MateInMaxPly = MateValue - MaxPly
	DrawValue    = 0
)

// Material values per piece type.
var pieceValue = [6]int{100, 320, 330, 500, 900, 0}

// Piece-square tables from white's view, a1 first.
var pst = [6][64]int{
	{ // pawn
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 10, 10, -20, -20, 10, 10, 5,
		5, -5, -10, 0, 0, -10, -5, 5,
		0, 0, 0, 20, 20, 0, 0, 0,
		5, 5, 10, 25, 25, 10, 5, 5,
		10, 10, 20, 30, 30, 20, 10, 10,
		50, 50, 50, 50, 50, 50, 50, 50,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	{ // knight
		-50, -40, -30, -30, -30, -30, -40, -50,
		-40, -20, 0, 5, 5, 0, -20, -40,
		-30, 5, 10, 15, 15, 10, 5, -30,
		-30, 0, 15, 20, 20, 15, 0, -30,
		-30, 5, 15, 20, 20, 15, 5, -30,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-50, -40, -30, -30, -30, -30, -40, -50,
	},
	{ // bishop
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 5, 0, 0, 0, 0, 5, -10,
		-10, 10, 10, 10, 10, 10, 10, -10,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	},
	{ // rook
		0, 0, 0, 5, 5, 0, 0, 0,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		5, 10, 10, 10, 10, 10, 10, 5,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	{ // queen
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 5, 0, 0, 0, 0, -10,
		-10, 5, 5, 5, 5, 5, 0, -10,
		0, 0, 5, 5, 5, 5, 0, -5,
		-5, 0, 5, 5, 5, 5, 0, -5,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	},
	{ // king
		20, 30, 10, 0, 0, 10, 30, 20,
		20, 20, 0, 0, 0, 0, 20, 20,
		-10, -20, -20, -20, -20, -20, -20, -10,
		-20, -30, -30, -40, -40, -30, -30, -20,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
	},
}

const (
	bishopPairBonus = 30
	tempoBonus      = 10
)

// sideTerms are the per-color contributions of one evaluation term.
type sideTerms struct {
	white, black int
}

func (t sideTerms) net() int { return t.white - t.black }

// evalTerms breaks the evaluation into its parts, for Trace.
type evalTerms struct {
	material   sideTerms
	placement  sideTerms
	bishopPair sideTerms
}

func evaluateTerms(pos *board.Position) evalTerms {
	var t evalTerms
	for c := board.White; c <= board.Black; c++ {
		for pt := board.Pawn; pt <= board.King; pt++ {
			for bb := pos.Pieces(c, pt); bb != 0; {
				sq := bb.Pop()
				if c == board.Black {
					sq = sq.FlipRank()
				}
				if c == board.White {
					t.material.white += pieceValue[pt]
					t.placement.white += pst[pt][sq]
				} else {
					t.material.black += pieceValue[pt]
					t.placement.black += pst[pt][sq]
				}
			}
		}
		if pos.Pieces(c, board.Bishop).Count() >= 2 {
			if c == board.White {
				t.bishopPair.white += bishopPairBonus
			} else {
				t.bishopPair.black += bishopPairBonus
			}
		}
	}
	return t
}

// Evaluate scores the position from the side to move's view.
func Evaluate(pos *board.Position) int {
	t := evaluateTerms(pos)
	score := t.material.net() + t.placement.net() + t.bishopPair.net()
	if pos.SideToMove() == board.Black {
		score = -score
	}
	return score + tempoBonus
}

// Trace renders a per-term evaluation breakdown for the "eval"
// command. Values are pawns from white's view.
func Trace(pos *board.Position) string {
	t := evaluateTerms(pos)
	var sb strings.Builder

	sb.WriteString("      Term    |    White    |    Black    |    Total\n")
	sb.WriteString("--------------+-------------+-------------+-------------\n")
	row := func(name string, s sideTerms) {
		fmt.Fprintf(&sb, "%13s | %11.2f | %11.2f | %11.2f\n",
			name, float64(s.white)/100, float64(s.black)/100, float64(s.net())/100)
	}
	row("Material", t.material)
	row("Placement", t.placement)
	row("Bishop pair", t.bishopPair)
	sb.WriteString("--------------+-------------+-------------+-------------\n")

	total := t.material.net() + t.placement.net() + t.bishopPair.net()
	fmt.Fprintf(&sb, "Total evaluation: %.2f (white side)\n", float64(total)/100)
	return sb.String()
}
