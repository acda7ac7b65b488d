package engine

import (
	"testing"
	"time"

	"github.com/gannet-chess/gannet/internal/board"
)

func TestLimitsPerColor(t *testing.T) {
	l := Limits{
		WhiteTime: 5 * time.Minute,
		BlackTime: 3 * time.Minute,
		WhiteInc:  2 * time.Second,
		BlackInc:  time.Second,
	}
	if l.Time(board.White) != 5*time.Minute || l.Time(board.Black) != 3*time.Minute {
		t.Error("Time() mixed up the colors")
	}
	if l.Inc(board.White) != 2*time.Second || l.Inc(board.Black) != time.Second {
		t.Error("Inc() mixed up the colors")
	}
	if !l.UseTimeManagement() {
		t.Error("UseTimeManagement() = false with clocks set")
	}
	if (&Limits{Depth: 9}).UseTimeManagement() {
		t.Error("UseTimeManagement() = true without clocks")
	}
}

func TestSetupStackNilSafe(t *testing.T) {
	var s *SetupStack
	if s.Len() != 0 {
		t.Error("nil stack has nonzero length")
	}
	if s.Keys() != nil {
		t.Error("nil stack returned keys")
	}
}

func TestSetupStackKeys(t *testing.T) {
	var s SetupStack
	s.Push(SetupEntry{Move: board.NewMove(board.E2, board.E4), Key: 111})
	s.Push(SetupEntry{Move: board.NewMove(board.E7, board.E5), Key: 222})

	keys := s.Keys()
	if len(keys) != 2 || keys[0] != 111 || keys[1] != 222 {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestSignals(t *testing.T) {
	sig := NewSignals()

	done := make(chan struct{})
	go func() {
		sig.Sleep()
		close(done)
	}()
	sig.Notify()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify did not wake the sleeper")
	}

	// Extra notifies never block.
	sig.Notify()
	sig.Notify()

	sig.Stop.Store(true)
	sig.StopOnPonderhit.Store(true)
	sig.Reset()
	if sig.Stop.Load() || sig.StopOnPonderhit.Load() {
		t.Error("Reset left flags set")
	}
}
