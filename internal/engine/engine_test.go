package engine

import (
	"testing"
	"time"

	"github.com/hailam/bitchess/internal/board"
)

func mustParseFEN(t *testing.T, fen string) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}
	return pos
}

func isLegal(pos *board.Position, m board.Move) bool {
	return pos.GenerateLegalMoves().Contains(m)
}

func TestSearchBasic(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine()
	eng.SetDifficulty(Easy)

	move := eng.Search(pos)
	if move.IsNone() {
		t.Fatal("Search returned NoMove for starting position")
	}
	if !isLegal(pos, move) {
		t.Errorf("Search returned illegal move %s", move)
	}
	t.Logf("Best move: %s", move.String())
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		fen  string
		want int
	}{
		{board.StartFEN, 0},
		{"4k3/8/8/8/8/8/8/Q3K3 w - - 0 1", 10},
		{"rnbqkbnr/8/8/8/8/8/8/4K3 w kq - 0 1", -32},
		{"4k3/pppppppp/8/8/8/8/8/RN2K3 b - - 0 1", 0},
	}
	for _, tc := range tests {
		if got := Evaluate(mustParseFEN(t, tc.fen)); got != tc.want {
			t.Errorf("Evaluate(%s) = %d, want %d", tc.fen, got, tc.want)
		}
	}
}

func TestNegamaxTerminalScores(t *testing.T) {
	s := NewSearcher(1)

	mated := mustParseFEN(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	s.Reset(mated, 0, 0)
	if got := s.negamax(3, -Infinity, Infinity); got != -CheckmateScore {
		t.Errorf("checkmated side scored %d, want %d", got, -CheckmateScore)
	}

	stalemate := mustParseFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	s.Reset(stalemate, 0, 0)
	if got := s.negamax(3, -Infinity, Infinity); got != StalemateScore {
		t.Errorf("stalemate scored %d, want 0", got)
	}

	// Black to move, a queen down: depth zero is the signed balance.
	down := mustParseFEN(t, "4k3/8/8/8/8/8/8/Q3K3 b - - 0 1")
	s.Reset(down, 0, 0)
	if got := s.negamax(0, -Infinity, Infinity); got != -10 {
		t.Errorf("leaf score %d, want -10", got)
	}
}

func TestFindsMateInOne(t *testing.T) {
	pos := mustParseFEN(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	eng := NewEngine()

	move := eng.SearchWithLimits(pos, SearchLimits{Depth: 2, Seed: 7})
	if move.String() != "a1a8" {
		t.Errorf("got %s, want a1a8", move)
	}
}

func TestTakesHangingQueen(t *testing.T) {
	pos := mustParseFEN(t, "4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1")
	eng := NewEngine()

	for seed := uint64(1); seed <= 5; seed++ {
		move := eng.SearchWithLimits(pos, SearchLimits{Depth: 2, Seed: seed})
		if move.String() != "d2d5" {
			t.Errorf("seed %d: got %s, want d2d5", seed, move)
		}
	}
}

// depthOneScore is the score of m for the side playing it, looking only at
// the position right after the move.
func depthOneScore(pos *board.Position, m board.Move) int {
	s := NewSearcher(1)
	s.Reset(pos, 0, 0)
	pos.Apply(m)
	score := -s.negamax(0, -Infinity, Infinity)
	pos.Undo()
	return score
}

func TestNeverPicksDominatedMove(t *testing.T) {
	fens := []string{
		board.StartFEN,
		"4k3/8/8/3q4/8/2N5/8/4K3 w - - 0 1",
		"r1bqkbnr/pppp1ppp/2n5/4p3/3PP3/8/PPP2PPP/RNBQKBNR w KQkq - 0 1",
	}
	for _, fen := range fens {
		pos := mustParseFEN(t, fen)
		moves := pos.GenerateLegalMoves()
		best := -Infinity
		for i := 0; i < moves.Len(); i++ {
			if score := depthOneScore(pos, moves.Get(i)); score > best {
				best = score
			}
		}

		eng := NewEngine()
		for seed := uint64(1); seed <= 10; seed++ {
			move := eng.SearchWithLimits(pos, SearchLimits{Depth: 1, Seed: seed})
			if got := depthOneScore(pos, move); got != best {
				t.Errorf("%s seed %d: chose %s scoring %d, best is %d", fen, seed, move, got, best)
			}
		}
	}
}

func TestTieBreakIsRandomButSeeded(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine()

	first := eng.SearchWithLimits(pos, SearchLimits{Depth: 1, Seed: 42})
	again := eng.SearchWithLimits(pos, SearchLimits{Depth: 1, Seed: 42})
	if !first.Equal(again) {
		t.Errorf("same seed chose %s then %s", first, again)
	}

	seen := map[string]bool{}
	for seed := uint64(1); seed <= 20; seed++ {
		seen[eng.SearchWithLimits(pos, SearchLimits{Depth: 1, Seed: seed}).String()] = true
	}
	if len(seen) < 2 {
		t.Errorf("20 seeds all chose the same opening move: %v", seen)
	}
}

func TestSearchRestoresPosition(t *testing.T) {
	pos := mustParseFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	fen := pos.ToFEN()

	eng := NewEngine()
	limits := []SearchLimits{
		{Depth: 2, Seed: 3},
		{Depth: 4, Nodes: 500, Seed: 3},
		{Depth: 4, MoveTime: time.Nanosecond, Seed: 3},
	}
	for _, l := range limits {
		move := eng.SearchWithLimits(pos, l)
		if pos.ToFEN() != fen || pos.Ply() != 0 {
			t.Fatalf("limits %+v: position changed to %s (ply %d)", l, pos.ToFEN(), pos.Ply())
		}
		if move.IsNone() || !isLegal(pos, move) {
			t.Errorf("limits %+v: got %s", l, move)
		}
	}
}

func TestNodeLimitAbortsSearch(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine()

	eng.SearchWithLimits(pos, SearchLimits{Depth: 4, Nodes: 2000, Seed: 1})
	if !eng.searcher.Aborted() {
		t.Error("depth 4 search finished inside 2000 nodes")
	}
	if n := eng.searcher.Nodes(); n > 2000+nodeCheckInterval {
		t.Errorf("searched %d nodes", n)
	}
}

func TestNoMoveWhenGameIsOver(t *testing.T) {
	eng := NewEngine()
	for _, fen := range []string{
		"R6k/6pp/8/8/8/8/8/K7 b - - 0 1",
		"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
	} {
		if move := eng.SearchWithLimits(mustParseFEN(t, fen), SearchLimits{}); !move.IsNone() {
			t.Errorf("%s: got %s, want NoMove", fen, move)
		}
	}
}

func TestOnInfoReportsEachDepth(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine()

	var depths []int
	eng.OnInfo = func(info SearchInfo) {
		depths = append(depths, info.Depth)
		t.Logf("depth %d score %s nodes %d move %s", info.Depth, ScoreToString(info.Score), info.Nodes, info.Move)
	}
	eng.SearchWithLimits(pos, SearchLimits{Depth: 3, Seed: 1})

	if len(depths) != 3 || depths[0] != 1 || depths[2] != 3 {
		t.Errorf("OnInfo depths = %v, want [1 2 3]", depths)
	}
}

func TestParseDifficulty(t *testing.T) {
	for _, d := range []Difficulty{Easy, Medium, Hard} {
		got, err := ParseDifficulty(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDifficulty(%q) = %v, %v", d.String(), got, err)
		}
	}
	if _, err := ParseDifficulty("grandmaster"); err == nil {
		t.Error("expected error for unknown difficulty")
	}
}

func TestPerftDelegates(t *testing.T) {
	if got := NewEngine().Perft(board.NewPosition(), 3); got != 8902 {
		t.Errorf("Perft(3) = %d, want 8902", got)
	}
}

func TestSetDepthOverridesDifficulty(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine()
	eng.SetDifficulty(Hard)
	eng.SetDepth(1)

	var deepest int
	eng.OnInfo = func(info SearchInfo) { deepest = info.Depth }
	eng.Search(pos)
	if deepest != 1 {
		t.Errorf("searched to depth %d, want 1", deepest)
	}
}

func TestLimits(t *testing.T) {
	eng := NewEngine()
	for d := Easy; d <= Hard; d++ {
		eng.SetDifficulty(d)
		if got := eng.Limits(); got != DifficultySettings[d] {
			t.Errorf("%s: Limits() = %+v, want %+v", d, got, DifficultySettings[d])
		}
	}
	eng.SetDepth(5)
	if got := eng.Limits().Depth; got != 5 {
		t.Errorf("Limits().Depth = %d with SetDepth(5)", got)
	}
}

func TestDifficultyChangeDuringSearch(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine()
	eng.SetDifficulty(Easy)

	var deepest int
	eng.OnInfo = func(info SearchInfo) { deepest = info.Depth }
	limits := eng.Limits()

	done := make(chan board.Move)
	go func() { done <- eng.SearchWithLimits(pos, limits) }()
	for d := Easy; d <= Hard; d++ {
		eng.SetDifficulty(d)
	}
	m := <-done

	t.Logf("move %s, deepest %d", m, deepest)
	if m.IsNone() {
		t.Fatal("no move from the start position")
	}
	if deepest != limits.Depth {
		t.Errorf("searched to depth %d, want the snapshot's %d", deepest, limits.Depth)
	}
}
