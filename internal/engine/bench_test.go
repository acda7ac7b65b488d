package engine

import (
	"strings"
	"testing"

	"github.com/gannet-chess/gannet/internal/board"
)

func TestBenchPerftCurrent(t *testing.T) {
	var out strings.Builder
	Bench(&out, board.NewPosition(), []string{"1", "1", "3", "current", "perft"})

	got := out.String()
	if !strings.Contains(got, "Perft 3: 8902") {
		t.Errorf("bench perft output missing node count:\n%s", got)
	}
	if !strings.Contains(got, "Nodes searched  : 8902") {
		t.Errorf("bench perft output missing total:\n%s", got)
	}
}

func TestBenchSearchCurrent(t *testing.T) {
	var out strings.Builder
	Bench(&out, board.NewPosition(), []string{"1", "1", "4", "current", "depth"})

	got := out.String()
	if !strings.Contains(got, "Position: 1/1") {
		t.Errorf("bench output missing position header:\n%s", got)
	}
	if !strings.Contains(got, "Nodes searched") || !strings.Contains(got, "Total time (ms)") {
		t.Errorf("bench output missing totals:\n%s", got)
	}
}

func TestBenchBadSource(t *testing.T) {
	var out strings.Builder
	Bench(&out, board.NewPosition(), []string{"1", "1", "4", "/no/such/file", "depth"})
	if !strings.Contains(out.String(), "info string bench") {
		t.Errorf("missing diagnostic for unreadable position file:\n%s", out.String())
	}
}
