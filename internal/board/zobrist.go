package board

// Zobrist key tables, generated once from a fixed seed so keys are
// stable across runs.
var (
	zobPiece    [2][6][64]uint64
	zobCastling [16]uint64
	zobEnPant   [8]uint64
	zobSide     uint64

	// zobMaterial[c][pt][n] is folded into the material key while n
	// pieces of that kind are on the board.
	zobMaterial [2][6][11]uint64
)

// xorshift64-star generator, seeded deterministically.
type keyGen struct{ s uint64 }

func (g *keyGen) next() uint64 {
	g.s ^= g.s >> 12
	g.s ^= g.s << 25
	g.s ^= g.s >> 27
	return g.s * 0x2545F4914F6CDD1D
}

func init() {
	g := keyGen{s: 0x1070372E20C6A5D3}

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := A1; sq <= H8; sq++ {
				zobPiece[c][pt][sq] = g.next()
			}
		}
	}
	for i := range zobCastling {
		zobCastling[i] = g.next()
	}
	for i := range zobEnPant {
		zobEnPant[i] = g.next()
	}
	zobSide = g.next()

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for n := range zobMaterial[c][pt] {
				zobMaterial[c][pt][n] = g.next()
			}
		}
	}
}
