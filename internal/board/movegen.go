package board

// LegalMoves generates every legal move in the position.
func (p *Position) LegalMoves() *MoveList {
	pseudo := &MoveList{}
	p.genPawnMoves(pseudo)
	p.genPieceMoves(pseudo)
	p.genCastling(pseudo)

	us, them := p.stm, p.stm.Other()
	legal := &MoveList{}
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		st := p.MakeMove(m)
		if !p.Attacked(p.KingSquare(us), them, p.All()) {
			legal.Add(m)
		}
		p.UnmakeMove(m, st)
	}
	return legal
}

// HasLegalMoves reports whether any legal move exists; with InCheck it
// distinguishes checkmate from stalemate.
func (p *Position) HasLegalMoves() bool {
	return p.LegalMoves().Len() > 0
}

func (p *Position) genPawnMoves(ml *MoveList) {
	us, them := p.stm, p.stm.Other()
	occ := p.All()
	enemies := p.byColor[them]

	up := 8
	startRank, promoRank := Rank2, Rank7
	if us == Black {
		up = -8
		startRank, promoRank = Rank7, Rank2
	}

	addPawnMove := func(from, to Square) {
		if from.Rank() == promoRank {
			for pt := Queen; pt >= Knight; pt-- {
				ml.Add(NewPromotion(from, to, pt))
			}
		} else {
			ml.Add(NewMove(from, to))
		}
	}

	for bb := p.Pieces(us, Pawn); bb != 0; {
		from := bb.Pop()
		to := Square(int(from) + up)

		if !occ.Has(to) {
			addPawnMove(from, to)
			if from.Rank() == startRank {
				to2 := Square(int(to) + up)
				if !occ.Has(to2) {
					ml.Add(NewMove(from, to2))
				}
			}
		}
		for caps := PawnCaptures(us, from) & enemies; caps != 0; {
			addPawnMove(from, caps.Pop())
		}
		if p.ep != NoSquare && PawnCaptures(us, from).Has(p.ep) {
			ml.Add(NewEnPassant(from, p.ep))
		}
	}
}

func (p *Position) genPieceMoves(ml *MoveList) {
	us := p.stm
	occ := p.All()
	own := p.byColor[us]

	for pt := Knight; pt <= King; pt++ {
		for bb := p.Pieces(us, pt); bb != 0; {
			from := bb.Pop()
			for targets := AttacksBy(pt, from, occ) &^ own; targets != 0; {
				ml.Add(NewMove(from, targets.Pop()))
			}
		}
	}
}

// genCastling emits only fully legal castling moves: the path must be
// clear and no square the king crosses may be attacked.
func (p *Position) genCastling(ml *MoveList) {
	if p.InCheck() {
		return
	}
	us, them := p.stm, p.stm.Other()
	ksq := p.KingSquare(us)

	first, last := WhiteKingside, WhiteQueenside
	if us == Black {
		first, last = BlackKingside, BlackQueenside
	}

	for right := first; right <= last; right++ {
		rookSq, ok := p.CanCastle(right)
		if !ok {
			continue
		}
		m := NewCastle(ksq, rookSq)
		kingTo, rookTo := castleTargets(m)

		// Squares the king and rook traverse must be empty, ignoring
		// the king and rook themselves.
		path := Between(ksq, kingTo) | BB(kingTo) | Between(rookSq, rookTo) | BB(rookTo)
		if path&(p.All()&^BB(ksq)&^BB(rookSq)) != 0 {
			continue
		}

		attacked := false
		for kp := Between(ksq, kingTo) | BB(kingTo); kp != 0; {
			if p.Attacked(kp.Pop(), them, p.All()&^BB(rookSq)) {
				attacked = true
				break
			}
		}
		if !attacked {
			ml.Add(m)
		}
	}
}

// Perft counts leaf nodes of the legal move tree to the given depth.
func (p *Position) Perft(depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := p.LegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}
	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		st := p.MakeMove(m)
		nodes += p.Perft(depth - 1)
		p.UnmakeMove(m, st)
	}
	return nodes
}
