package engine

import (
	"sort"
	"sync/atomic"
	"time"

	"github.com/gannet-chess/gannet/internal/board"
)

// searcher runs one alpha-beta search on its own copy of the root
// position. Helper workers get their own searcher over the shared
// transposition table.
type searcher struct {
	pos *board.Position
	tt  *TranspositionTable
	sig *Signals

	limits   *Limits
	deadline time.Time
	maxNodes uint64

	// ponder suspends the deadline while set; alsoStop is a secondary
	// stop flag used to halt helper workers.
	ponder   *atomic.Bool
	alsoStop *atomic.Bool

	nodes   uint64
	keys    []uint64 // position keys from game start through the current line
	aborted bool
}

func newSearcher(pos *board.Position, tt *TranspositionTable, sig *Signals, limits *Limits, setupKeys []uint64, deadline time.Time) *searcher {
	keys := make([]uint64, 0, len(setupKeys)+MaxPly)
	keys = append(keys, setupKeys...)
	// The last setup key already is the root key when a position
	// command preceded the search; appending it again would break the
	// every-other-ply scan in isRepetition.
	if n := len(keys); n == 0 || keys[n-1] != pos.Key() {
		keys = append(keys, pos.Key())
	}
	return &searcher{
		pos:      pos.Copy(),
		tt:       tt,
		sig:      sig,
		limits:   limits,
		deadline: deadline,
		maxNodes: limits.Nodes,
		keys:     keys,
	}
}

// checkAbort polls the stop conditions. Cheap enough to call on a node
// count stride.
func (s *searcher) checkAbort() bool {
	if s.aborted {
		return true
	}
	pondering := s.ponder != nil && s.ponder.Load()
	if s.sig.Stop.Load() {
		s.aborted = true
	} else if s.alsoStop != nil && s.alsoStop.Load() {
		s.aborted = true
	} else if s.maxNodes > 0 && s.nodes >= s.maxNodes {
		s.aborted = true
	} else if !s.deadline.IsZero() && !pondering && time.Now().After(s.deadline) {
		s.aborted = true
	}
	return s.aborted
}

// isRepetition reports whether the current position key occurred
// earlier in the line or pre-root history.
func (s *searcher) isRepetition() bool {
	key := s.keys[len(s.keys)-1]
	limit := len(s.keys) - 1 - s.pos.Rule50()
	if limit < 0 {
		limit = 0
	}
	for i := len(s.keys) - 3; i >= limit; i -= 2 {
		if s.keys[i] == key {
			return true
		}
	}
	return false
}

// searchRoot runs one fixed-depth iteration and returns the best move
// and its score. A MoveNone result means the search was aborted before
// the first root move finished.
func (s *searcher) searchRoot(depth int) (board.Move, int) {
	moves := s.rootMoves()
	if moves.Len() == 0 {
		if s.pos.InCheck() {
			return board.MoveNone, -MateValue
		}
		return board.MoveNone, DrawValue
	}

	s.orderMoves(moves, s.ttMove())

	best := board.MoveNone
	alpha, beta := -Infinity, Infinity

	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		st := s.pos.MakeMove(m)
		s.keys = append(s.keys, s.pos.Key())
		score := -s.negamax(depth-1, 1, -beta, -alpha)
		s.keys = s.keys[:len(s.keys)-1]
		s.pos.UnmakeMove(m, st)

		if s.aborted {
			break
		}
		if score > alpha {
			alpha = score
			best = m
		}
	}

	if best != board.MoveNone {
		s.tt.Store(s.pos.Key(), best, alpha, depth, BoundExact)
	}
	return best, alpha
}

// rootMoves returns the legal moves, restricted to the searchmoves set
// when one was given.
func (s *searcher) rootMoves() *board.MoveList {
	all := s.pos.LegalMoves()
	if len(s.limits.SearchMoves) == 0 {
		return all
	}
	restricted := &board.MoveList{}
	for i := 0; i < all.Len(); i++ {
		m := all.Get(i)
		for _, want := range s.limits.SearchMoves {
			if m == want {
				restricted.Add(m)
				break
			}
		}
	}
	return restricted
}

func (s *searcher) ttMove() board.Move {
	if e, ok := s.tt.Probe(s.pos.Key()); ok {
		return e.Move
	}
	return board.MoveNone
}

func (s *searcher) negamax(depth, ply, alpha, beta int) int {
	s.nodes++
	if s.nodes&1023 == 0 && s.checkAbort() {
		return 0
	}

	if s.isRepetition() || s.pos.Rule50() >= 100 {
		return DrawValue
	}
	if ply >= MaxPly {
		return Evaluate(s.pos)
	}

	// Mate distance pruning.
	if alpha < -MateValue+ply {
		alpha = -MateValue + ply
	}
	if beta > MateValue-ply-1 {
		beta = MateValue - ply - 1
	}
	if alpha >= beta {
		return alpha
	}

	key := s.pos.Key()
	ttMove := board.MoveNone
	if e, ok := s.tt.Probe(key); ok {
		ttMove = e.Move
		if int(e.Depth) >= depth {
			score := int(e.Score)
			switch e.Bound {
			case BoundExact:
				return score
			case BoundLower:
				if score >= beta {
					return score
				}
			case BoundUpper:
				if score <= alpha {
					return score
				}
			}
		}
	}

	if depth <= 0 {
		return s.quiescence(ply, alpha, beta)
	}

	moves := s.pos.LegalMoves()
	if moves.Len() == 0 {
		if s.pos.InCheck() {
			return -MateValue + ply
		}
		return DrawValue
	}

	s.orderMoves(moves, ttMove)

	bound := BoundUpper
	best := board.MoveNone
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		st := s.pos.MakeMove(m)
		s.keys = append(s.keys, s.pos.Key())
		score := -s.negamax(depth-1, ply+1, -beta, -alpha)
		s.keys = s.keys[:len(s.keys)-1]
		s.pos.UnmakeMove(m, st)

		if s.aborted {
			return 0
		}
		if score >= beta {
			s.tt.Store(key, m, score, depth, BoundLower)
			return score
		}
		if score > alpha {
			alpha = score
			best = m
			bound = BoundExact
		}
	}

	s.tt.Store(key, best, alpha, depth, bound)
	return alpha
}

func (s *searcher) quiescence(ply, alpha, beta int) int {
	s.nodes++
	if s.nodes&1023 == 0 && s.checkAbort() {
		return 0
	}

	stand := Evaluate(s.pos)
	if stand >= beta {
		return stand
	}
	if stand > alpha {
		alpha = stand
	}
	if ply >= MaxPly {
		return stand
	}

	moves := s.pos.LegalMoves()
	captures := &board.MoveList{}
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if s.isCapture(m) || m.Kind() == board.PromotionMove {
			captures.Add(m)
		}
	}
	s.orderMoves(captures, board.MoveNone)

	for i := 0; i < captures.Len(); i++ {
		m := captures.Get(i)
		st := s.pos.MakeMove(m)
		score := -s.quiescence(ply+1, -beta, -alpha)
		s.pos.UnmakeMove(m, st)

		if s.aborted {
			return 0
		}
		if score >= beta {
			return score
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

func (s *searcher) isCapture(m board.Move) bool {
	return m.Kind() == board.EnPassantMove ||
		(m.Kind() != board.CastlingMove && s.pos.PieceOn(m.To()) != board.NoPiece)
}

// orderMoves sorts the list: transposition move first, then captures
// by most-valuable-victim / least-valuable-attacker, quiets last.
func (s *searcher) orderMoves(ml *board.MoveList, ttMove board.Move) {
	slice := ml.Slice()
	score := func(m board.Move) int {
		if m == ttMove {
			return 1 << 20
		}
		if s.isCapture(m) {
			victim := board.Pawn
			if pc := s.pos.PieceOn(m.To()); pc != board.NoPiece {
				victim = pc.Type()
			}
			attacker := s.pos.PieceOn(m.From()).Type()
			return 1<<16 + int(victim)*8 - int(attacker)
		}
		if m.Kind() == board.PromotionMove {
			return 1<<16 + int(m.Promo())
		}
		return 0
	}
	sort.SliceStable(slice, func(i, j int) bool {
		return score(slice[i]) > score(slice[j])
	})
}

// pvLine reads the principal variation from the transposition table,
// stopping at the first cycle or missing entry.
func pvLine(pos *board.Position, tt *TranspositionTable, maxLen int) []board.Move {
	p := pos.Copy()
	var pv []board.Move
	seen := map[uint64]bool{}
	for len(pv) < maxLen {
		e, ok := tt.Probe(p.Key())
		if !ok || e.Move == board.MoveNone || seen[p.Key()] {
			break
		}
		if !p.LegalMoves().Contains(e.Move) {
			break
		}
		seen[p.Key()] = true
		pv = append(pv, e.Move)
		p.MakeMove(e.Move)
	}
	return pv
}
