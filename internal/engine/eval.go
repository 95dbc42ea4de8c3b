// Package engine implements the chess AI: a material evaluator and a
// negamax search with alpha-beta pruning.
package engine

import (
	"github.com/hailam/bitchess/internal/board"
)

// Terminal scores, from the point of view of the side to move.
const (
	CheckmateScore = 1000
	StalemateScore = 0
)

// Evaluate returns white's material minus black's material, in pawns.
func Evaluate(pos *board.Position) int {
	return pos.Material()
}

// evaluateRelative returns the material balance from the side to move's
// point of view.
func evaluateRelative(pos *board.Position) int {
	if pos.SideToMove == board.White {
		return Evaluate(pos)
	}
	return -Evaluate(pos)
}
