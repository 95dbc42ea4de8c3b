package engine

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hailam/bitchess/internal/board"
)

var log = slog.Default().With("package", "engine")

// DefaultDepth is the search depth in plies, the root move included.
const DefaultDepth = 2

// SearchInfo contains information about the current search.
type SearchInfo struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	Move  board.Move
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth    int           // Plies including the root move (0 = DefaultDepth)
	Nodes    uint64        // Maximum nodes (0 = no limit)
	MoveTime time.Duration // Time for this move (0 = no limit)
	Seed     uint64        // Seed for the tie-break choice (0 = time based)
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
}

// ParseDifficulty parses "easy", "medium" or "hard".
func ParseDifficulty(s string) (Difficulty, error) {
	for d := Easy; d <= Hard; d++ {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return Easy, fmt.Errorf("unknown difficulty %q", s)
}

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {Depth: 2, MoveTime: time.Second},
	Medium: {Depth: 3, MoveTime: 3 * time.Second},
	Hard:   {Depth: 4, MoveTime: 8 * time.Second},
}

// Engine is the chess AI engine.
type Engine struct {
	searcher   *Searcher
	difficulty Difficulty
	depth      int // Overrides the difficulty's depth when positive

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates a new chess engine.
func NewEngine() *Engine {
	return &Engine{
		searcher:   NewSearcher(uint64(time.Now().UnixNano())),
		difficulty: Easy,
	}
}

// SetDifficulty sets the engine difficulty.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.difficulty = d
}

// Difficulty returns the current difficulty.
func (e *Engine) Difficulty() Difficulty {
	return e.difficulty
}

// SetDepth fixes the search depth regardless of difficulty. Zero restores
// the difficulty's depth.
func (e *Engine) SetDepth(depth int) {
	e.depth = depth
}

// Limits returns the search limits of the current difficulty, with the
// fixed depth applied. Callers that search on another goroutine take them
// first so later difficulty changes do not race with the search.
func (e *Engine) Limits() SearchLimits {
	limits := DifficultySettings[e.difficulty]
	if e.depth > 0 {
		limits.Depth = e.depth
	}
	return limits
}

// Search finds the best move for the given position.
func (e *Engine) Search(pos *board.Position) board.Move {
	return e.SearchWithLimits(pos, e.Limits())
}

// SearchWithLimits finds the best move with specific search limits.
//
// The search deepens one ply at a time up to limits.Depth. The move of
// the deepest completed iteration is returned; if even the first
// iteration is cut short, the best of its fully searched root moves is
// used. pos is searched in place and restored before returning. NoMove
// is returned when the side to move has no legal moves.
func (e *Engine) SearchWithLimits(pos *board.Position, limits SearchLimits) board.Move {
	maxDepth := limits.Depth
	if maxDepth <= 0 {
		maxDepth = DefaultDepth
	}
	if limits.Seed != 0 {
		e.searcher.Seed(limits.Seed)
	}

	e.searcher.Reset(pos, limits.Nodes, limits.MoveTime)
	candidates := append([]board.Move(nil), pos.GenerateLegalMoves().Slice()...)
	if len(candidates) == 0 {
		return board.NoMove
	}

	bestMove := board.NoMove
	for depth := 1; depth <= maxDepth; depth++ {
		res := e.searcher.FindBestMove(candidates, depth)
		if !res.Complete {
			if bestMove.IsNone() && res.Searched > 0 {
				bestMove = res.Move
			}
			log.Debug("search cut short", "depth", depth, "searched", res.Searched, "nodes", e.searcher.Nodes())
			break
		}
		bestMove = res.Move

		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth: depth,
				Score: res.Score,
				Nodes: e.searcher.Nodes(),
				Time:  e.searcher.tm.Elapsed(),
				Move:  res.Move,
			})
		}

		// A forced mate will not change with more depth.
		if res.Score >= CheckmateScore {
			break
		}
		if depth < maxDepth && e.searcher.tm.PastHalf() {
			break
		}
	}

	// Every root move was cut off before finishing.
	if bestMove.IsNone() {
		bestMove = candidates[0]
	}

	log.Debug("search done", "move", bestMove, "nodes", e.searcher.Nodes(), "elapsed", e.searcher.tm.Elapsed())
	return bestMove
}

// Stop stops the current search.
func (e *Engine) Stop() {
	e.searcher.Stop()
}

// Perft performs a perft test (for debugging move generation).
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	return pos.Perft(depth)
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	switch {
	case score >= CheckmateScore:
		return "Mate"
	case score <= -CheckmateScore:
		return "Mated"
	case score > 0:
		return fmt.Sprintf("+%d", score)
	default:
		return fmt.Sprintf("%d", score)
	}
}
