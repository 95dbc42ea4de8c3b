package game

import "errors"

var (
	// ErrIllegalMove is returned for a move that is not in the legal move list.
	ErrIllegalMove = errors.New("illegal move")

	// ErrGameOver is returned when a move is requested after checkmate or stalemate.
	ErrGameOver = errors.New("game is over")

	// ErrNoMove is returned when the engine could not produce a move.
	ErrNoMove = errors.New("engine returned no move")
)
