package board

import "testing"

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"4k3/8/8/8/8/8/8/4K2R w K - 0 1",
		"r2q1rk1/pp2ppbp/2np1np1/8/3PP3/2N1BP2/PP1Q2PP/R3KB1R b KQ - 4 9",
	}
	for _, fen := range fens {
		pos, err := ParseFEN(fen, false)
		if err != nil {
			t.Errorf("ParseFEN(%q): %v", fen, err)
			continue
		}
		if got := pos.FEN(); got != fen {
			t.Errorf("round trip = %q, want %q", got, fen)
		}
	}
}

func TestFENShredderCastling(t *testing.T) {
	// Chess960 positions carry rook files as castling letters.
	fen := "bqnbrkrn/pppppppp/8/8/8/8/PPPPPPPP/BQNBRKRN w GEge - 0 1"
	pos, err := ParseFEN(fen, true)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if got := pos.FEN(); got != fen {
		t.Errorf("round trip = %q, want %q", got, fen)
	}
	if !pos.Chess960() {
		t.Error("Chess960() = false")
	}
}

func TestFENErrors(t *testing.T) {
	bad := []string{
		"",
		"not a fen",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",           // 7 ranks
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",  // bad side
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",  // overfull rank
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e9 0 1", // bad ep square
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBN1 w KQkq - 0 1",  // right without rook
	}
	for _, fen := range bad {
		if _, err := ParseFEN(fen, false); err == nil {
			t.Errorf("ParseFEN(%q) accepted", fen)
		}
	}
}

func TestNewPositionMatchesStartFEN(t *testing.T) {
	parsed, err := ParseFEN(StartFEN, false)
	if err != nil {
		t.Fatal(err)
	}
	pos := NewPosition()
	if pos.Key() != parsed.Key() {
		t.Errorf("keys differ: %016X vs %016X", pos.Key(), parsed.Key())
	}
	if pos.FEN() != StartFEN {
		t.Errorf("FEN() = %q", pos.FEN())
	}
}
