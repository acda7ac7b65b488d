package board

import "testing"

// Applying and taking back every legal move must restore the position
// bit for bit, including the incremental keys.
func TestMakeUnmakeRestores(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 2",
	}
	for _, fen := range fens {
		pos, err := ParseFEN(fen, false)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		key, pawnKey, matKey := pos.Key(), pos.PawnKey(), pos.MaterialKey()

		moves := pos.LegalMoves()
		for i := 0; i < moves.Len(); i++ {
			m := moves.Get(i)
			st := pos.MakeMove(m)
			pos.UnmakeMove(m, st)

			if got := pos.FEN(); got != fen {
				t.Fatalf("%s: unmake of %v left %q", fen, m, got)
			}
			if pos.Key() != key || pos.PawnKey() != pawnKey || pos.MaterialKey() != matKey {
				t.Fatalf("%s: unmake of %v corrupted keys", fen, m)
			}
		}
	}
}

// The incremental key after a move must equal a full rehash, checked
// via a fresh parse of the printed FEN. En passant squares with no
// legal capturer may differ between the two, so the test walks quiet
// openings only.
func TestIncrementalKeys(t *testing.T) {
	pos := NewPosition()
	for _, tok := range []string{"g1f3", "g8f6", "d2d3", "d7d6", "c1g5", "c8g4"} {
		m := findMove(t, pos, tok)
		pos.MakeMove(m)

		fresh, err := ParseFEN(pos.FEN(), false)
		if err != nil {
			t.Fatal(err)
		}
		if pos.Key() != fresh.Key() {
			t.Fatalf("after %s: incremental key %016X, rehash %016X", tok, pos.Key(), fresh.Key())
		}
		if pos.PawnKey() != fresh.PawnKey() || pos.MaterialKey() != fresh.MaterialKey() {
			t.Fatalf("after %s: pawn or material key drifted", tok)
		}
	}
}

func TestEnPassantCapture(t *testing.T) {
	pos, err := ParseFEN("rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 2", false)
	if err != nil {
		t.Fatal(err)
	}
	m := findMove(t, pos, "d4e3")
	if m.Kind() != EnPassantMove {
		t.Fatalf("d4e3 kind = %v, want en passant", m.Kind())
	}
	st := pos.MakeMove(m)
	if pos.PieceOn(E4) != NoPiece {
		t.Error("captured pawn still on e4")
	}
	if pos.PieceOn(E3) != BPawn {
		t.Error("capturing pawn not on e3")
	}
	pos.UnmakeMove(m, st)
	if pos.PieceOn(E4) != WPawn || pos.PieceOn(D4) != BPawn {
		t.Error("en passant unmake did not restore the pawns")
	}
}

func TestCastlingRightsDieWithRooks(t *testing.T) {
	pos, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", false)
	if err != nil {
		t.Fatal(err)
	}

	has := func(right int) bool {
		_, ok := pos.CanCastle(right)
		return ok
	}

	// Moving the h-rook loses the white kingside right only.
	m := findMove(t, pos, "h1g1")
	st := pos.MakeMove(m)
	if has(WhiteKingside) {
		t.Error("white kingside right survived the rook move")
	}
	if !has(WhiteQueenside) || !has(BlackKingside) || !has(BlackQueenside) {
		t.Error("unrelated rights lost")
	}
	pos.UnmakeMove(m, st)
	if !has(WhiteKingside) {
		t.Error("right not restored on unmake")
	}

	// Capturing a rook kills the defender's right too.
	capture := findMove(t, pos, "a1a8")
	pos.MakeMove(capture)
	if has(WhiteQueenside) || has(BlackQueenside) {
		t.Error("queenside rights survived the rook trade")
	}
}

func TestCastlingMovesBothPieces(t *testing.T) {
	pos, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", false)
	if err != nil {
		t.Fatal(err)
	}
	m := NewCastle(E1, H1)
	st := pos.MakeMove(m)
	if pos.PieceOn(G1) != WKing || pos.PieceOn(F1) != WRook {
		t.Errorf("after O-O: g1=%v f1=%v", pos.PieceOn(G1), pos.PieceOn(F1))
	}
	if pos.PieceOn(E1) != NoPiece || pos.PieceOn(H1) != NoPiece {
		t.Error("origin squares not vacated")
	}
	pos.UnmakeMove(m, st)
	if pos.PieceOn(E1) != WKing || pos.PieceOn(H1) != WRook {
		t.Error("unmake did not restore king and rook")
	}
}

func TestNullMove(t *testing.T) {
	pos := NewPosition()
	key := pos.Key()
	st := pos.MakeNullMove()
	if pos.SideToMove() != Black {
		t.Error("null move did not pass the turn")
	}
	if pos.Key() == key {
		t.Error("null move did not change the key")
	}
	pos.UnmakeNullMove(st)
	if pos.Key() != key || pos.SideToMove() != White {
		t.Error("null unmake did not restore the position")
	}
}

func TestFlip(t *testing.T) {
	fen := "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3"
	pos, err := ParseFEN(fen, false)
	if err != nil {
		t.Fatal(err)
	}
	pos.Flip()
	want := "rnbqkb1r/pppp1ppp/5n2/4p3/4P3/2N5/PPPP1PPP/R1BQKBNR b KQkq - 2 3"
	if got := pos.FEN(); got != want {
		t.Errorf("flipped = %q, want %q", got, want)
	}
	pos.Flip()
	if got := pos.FEN(); got != fen {
		t.Errorf("double flip = %q, want %q", got, fen)
	}
}

func TestPinned(t *testing.T) {
	pos, err := ParseFEN("k7/8/8/8/7b/2N3N1/8/4K3 w - - 0 1", false)
	if err != nil {
		t.Fatal(err)
	}
	pinned := pos.Pinned(White)
	if !pinned.Has(G3) {
		t.Error("g3 knight not reported pinned")
	}
	if pinned.Has(C3) {
		t.Error("c3 knight reported pinned")
	}
}

func findMove(t *testing.T, pos *Position, tok string) Move {
	t.Helper()
	from, err := ParseSquare(tok[:2])
	if err != nil {
		t.Fatal(err)
	}
	to, err := ParseSquare(tok[2:4])
	if err != nil {
		t.Fatal(err)
	}
	moves := pos.LegalMoves()
	for i := 0; i < moves.Len(); i++ {
		if m := moves.Get(i); m.From() == from && m.To() == to {
			return m
		}
	}
	t.Fatalf("no legal move %s in %s", tok, pos.FEN())
	return MoveNone
}
