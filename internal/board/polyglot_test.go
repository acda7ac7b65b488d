package board

import "testing"

// The book hash only counts an en passant square when a pawn can
// actually capture there.
func TestPolyglotKeyEnPassant(t *testing.T) {
	withEP, err := ParseFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1", false)
	if err != nil {
		t.Fatal(err)
	}
	without, err := ParseFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1", false)
	if err != nil {
		t.Fatal(err)
	}
	if withEP.PolyglotKey() != without.PolyglotKey() {
		t.Error("dead en passant square changed the book key")
	}

	// With a black pawn on d4 the capture exists and the keys differ.
	live, err := ParseFEN("rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 2", false)
	if err != nil {
		t.Fatal(err)
	}
	dead, err := ParseFEN("rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 2", false)
	if err != nil {
		t.Fatal(err)
	}
	if live.PolyglotKey() == dead.PolyglotKey() {
		t.Error("live en passant square did not change the book key")
	}
}

func TestPolyglotKeyDistinguishes(t *testing.T) {
	a := NewPosition()
	b, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1", false)
	if err != nil {
		t.Fatal(err)
	}
	if a.PolyglotKey() == b.PolyglotKey() {
		t.Error("side to move not part of the book key")
	}

	c, err := ParseFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1", false)
	if err != nil {
		t.Fatal(err)
	}
	if a.PolyglotKey() == c.PolyglotKey() {
		t.Error("castling rights not part of the book key")
	}
}
