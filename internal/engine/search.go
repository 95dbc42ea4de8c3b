package engine

import (
	"sync/atomic"
	"time"

	"github.com/hailam/bitchess/internal/board"
	"golang.org/x/exp/rand"
)

// Infinity bounds every score the search can return.
const Infinity = 30000

// nodeCheckInterval is how often (in nodes) the limits are polled.
const nodeCheckInterval = 1024

// Searcher runs a single-threaded negamax search over one position,
// applying and undoing moves in place.
type Searcher struct {
	pos      *board.Position
	nodes    uint64
	maxNodes uint64
	tm       *TimeManager
	rng      *rand.Rand

	stopFlag atomic.Bool
	aborted  bool
}

// NewSearcher creates a new searcher. The seed drives the random choice
// between equally good root moves.
func NewSearcher(seed uint64) *Searcher {
	return &Searcher{
		tm:  NewTimeManager(),
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Seed reseeds the random source.
func (s *Searcher) Seed(seed uint64) {
	s.rng.Seed(seed)
}

// Stop signals the search to stop.
func (s *Searcher) Stop() {
	s.stopFlag.Store(true)
}

// Reset prepares the searcher for a new search of pos.
func (s *Searcher) Reset(pos *board.Position, maxNodes uint64, moveTime time.Duration) {
	s.pos = pos
	s.nodes = 0
	s.maxNodes = maxNodes
	s.aborted = false
	s.stopFlag.Store(false)
	s.tm.Init(moveTime)
}

// Nodes returns the number of nodes searched.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Aborted reports whether the last search hit a limit or was stopped.
func (s *Searcher) Aborted() bool {
	return s.aborted
}

func (s *Searcher) checkLimits() {
	if s.stopFlag.Load() || s.tm.ShouldStop() || (s.maxNodes > 0 && s.nodes >= s.maxNodes) {
		s.aborted = true
	}
}

// negamax returns the score of the current position for the side to move.
// A checkmated side scores -CheckmateScore, a stalemate scores zero and
// at depth zero the signed material balance is returned. The position is
// restored on every return path.
func (s *Searcher) negamax(depth, alpha, beta int) int {
	s.nodes++
	if s.nodes%nodeCheckInterval == 0 {
		s.checkLimits()
	}

	moves := s.pos.GenerateLegalMoves()
	switch {
	case s.pos.Checkmate:
		return -CheckmateScore
	case s.pos.Stalemate:
		return StalemateScore
	case depth <= 0:
		return evaluateRelative(s.pos)
	}

	best := -Infinity
	for i := 0; i < moves.Len() && !s.aborted; i++ {
		s.pos.Apply(moves.Get(i))
		score := -s.negamax(depth-1, -beta, -alpha)
		s.pos.Undo()

		if score > best {
			best = score
		}
		if best > alpha {
			alpha = best
		}
		if beta <= alpha {
			break
		}
	}
	return best
}

// RootResult is the outcome of one root search.
type RootResult struct {
	Move     board.Move
	Score    int
	Searched int  // Root moves searched to completion
	Complete bool // False when a limit cut the search short
}

// FindBestMove searches every candidate to depth plies, the candidate
// itself included, and returns the best one.
//
// A candidate replaces the current best only when it scores strictly
// higher, so ties keep generation order. When fewer than two strict
// improvements occurred the choice is made at random among the
// candidates tied at the best score. Each candidate is searched with a
// full window, which keeps the tied scores exact.
//
// The fallback draws from the tie only, never from every root move, so it
// cannot return a move scoring below the best.
func (s *Searcher) FindBestMove(candidates []board.Move, depth int) RootResult {
	res := RootResult{Move: board.NoMove, Score: -Infinity}
	if depth < 1 {
		depth = 1
	}

	scores := make([]int, 0, len(candidates))
	improvements := 0
	for _, m := range candidates {
		s.pos.Apply(m)
		score := -s.negamax(depth-1, -Infinity, Infinity)
		s.pos.Undo()
		if s.aborted {
			break
		}

		scores = append(scores, score)
		if score > res.Score {
			res.Move = m
			res.Score = score
			improvements++
		}
	}
	res.Searched = len(scores)
	res.Complete = !s.aborted

	if res.Searched > 0 && improvements < 2 {
		var tied []board.Move
		for i, score := range scores {
			if score == res.Score {
				tied = append(tied, candidates[i])
			}
		}
		res.Move = tied[s.rng.Intn(len(tied))]
	}
	return res
}
