// Package game is the boundary between the rules engine and the
// presentation layers. It owns one position, accepts moves as square pairs
// and keeps the SAN move log in step with the position history.
package game

import (
	"fmt"
	"log/slog"

	"github.com/hailam/bitchess/internal/board"
	"github.com/hailam/bitchess/internal/engine"
)

var log = slog.Default().With("package", "game")

// Game is a single game in progress. It is not safe for concurrent use;
// callers that share a Game serialize access themselves.
type Game struct {
	position *board.Position
	sanLog   []string
}

// New creates a game from the starting position.
func New() *Game {
	return &Game{position: board.NewPosition()}
}

// NewFromFEN creates a game from a FEN setup.
func NewFromFEN(fen string) (*Game, error) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	return &Game{position: pos}, nil
}

// Reset returns the game to the starting position.
func (g *Game) Reset() {
	g.position = board.NewPosition()
	g.sanLog = nil
}

// Position returns the live position. Callers must not mutate it; use
// Copy for anything that applies moves.
func (g *Game) Position() *board.Position {
	return g.position
}

// SideToMove returns the color to move.
func (g *Game) SideToMove() board.Color {
	return g.position.SideToMove
}

// LegalMoves returns every legal move of the side to move.
func (g *Game) LegalMoves() []board.Move {
	return g.position.GenerateLegalMoves().Slice()
}

// LegalMovesFrom returns the legal moves starting on sq.
func (g *Game) LegalMovesFrom(sq board.Square) []board.Move {
	var moves []board.Move
	for _, m := range g.LegalMoves() {
		if m.From == sq {
			moves = append(moves, m)
		}
	}
	return moves
}

// PieceAt returns the piece at display coordinates, row 0 being rank 8.
func (g *Game) PieceAt(row, col int) (board.Piece, error) {
	return g.position.PieceAtRowCol(row, col)
}

// InCheck reports whether the side to move is in check.
func (g *Game) InCheck() bool {
	return g.position.InCheck()
}

// LastMove returns the most recent move, if any.
func (g *Game) LastMove() (board.Move, bool) {
	return g.position.LastMove()
}

// Status reports checkmate, stalemate or an ongoing game.
func (g *Game) Status() board.Status {
	return g.position.Status()
}

// IsOver reports whether the side to move has no legal moves.
func (g *Game) IsOver() bool {
	return g.Status() != board.Ongoing
}

// Result describes a finished game, or returns "" while play continues.
func (g *Game) Result() string {
	switch g.Status() {
	case board.Checkmate:
		return fmt.Sprintf("%s wins by checkmate", g.position.SideToMove.Other())
	case board.Stalemate:
		return "Draw by stalemate"
	default:
		return ""
	}
}

// MoveLog returns the moves played so far in SAN.
func (g *Game) MoveLog() []string {
	return append([]string(nil), g.sanLog...)
}

// Moves returns the moves played so far in coordinate notation ("e2e4").
func (g *Game) Moves() []string {
	history := g.position.History()
	moves := make([]string, len(history))
	for i, m := range history {
		moves[i] = m.String()
	}
	return moves
}

// findMove looks up the legal move from one square to another. Dropping
// the king on its own rook is accepted as castling.
func (g *Game) findMove(from, to board.Square) (board.Move, bool) {
	legal := g.position.GenerateLegalMoves()
	if m, ok := legal.Find(from, to); ok {
		return m, true
	}

	king := g.position.PieceAt(from)
	rook := g.position.PieceAt(to)
	if king.Type() != board.King || rook.Type() != board.Rook || king.Color() != rook.Color() {
		return board.NoMove, false
	}
	for i := 0; i < legal.Len(); i++ {
		m := legal.Get(i)
		if !m.IsCastle() || m.From != from {
			continue
		}
		if (to > from) == (m.To > m.From) {
			return m, true
		}
	}
	return board.NoMove, false
}

// MakeMove plays the legal move from one square to another. A pawn
// reaching the last rank becomes a queen. The position is untouched when
// an error is returned.
func (g *Game) MakeMove(from, to board.Square) (board.Move, error) {
	if g.IsOver() {
		return board.NoMove, ErrGameOver
	}
	m, ok := g.findMove(from, to)
	if !ok {
		return board.NoMove, fmt.Errorf("%w: %s%s", ErrIllegalMove, from, to)
	}
	return g.play(m), nil
}

// MakeMoveAt is MakeMove with display coordinates.
func (g *Game) MakeMoveAt(fromRow, fromCol, toRow, toCol int) (board.Move, error) {
	from, err := board.SquareAt(fromRow, fromCol)
	if err != nil {
		return board.NoMove, err
	}
	to, err := board.SquareAt(toRow, toCol)
	if err != nil {
		return board.NoMove, err
	}
	return g.MakeMove(from, to)
}

// Play plays a move taken from the legal move list, such as one returned
// by a search of a copy of the position.
func (g *Game) Play(m board.Move) (board.Move, error) {
	if g.IsOver() {
		return board.NoMove, ErrGameOver
	}
	if !g.position.GenerateLegalMoves().Contains(m) {
		return board.NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}
	return g.play(m), nil
}

func (g *Game) play(m board.Move) board.Move {
	san := m.ToSAN(g.position)
	g.position.Apply(m)
	g.sanLog = append(g.sanLog, san)

	played, _ := g.position.LastMove()
	log.Debug("move played", "move", played, "san", san, "ply", g.position.Ply())
	return played
}

// Undo takes back the last move. It returns false when nothing has been
// played.
func (g *Game) Undo() bool {
	if g.position.Ply() == 0 {
		return false
	}
	g.position.Undo()
	g.sanLog = g.sanLog[:len(g.sanLog)-1]
	return true
}

// Replay plays a sequence of coordinate moves ("e2e4") from the current
// position. It stops at the first move that is not legal.
func (g *Game) Replay(moves []string) error {
	for i, s := range moves {
		m, err := board.ParseMove(s, g.position)
		if err != nil {
			return fmt.Errorf("move %d: %w", i+1, err)
		}
		if _, err := g.Play(m); err != nil {
			return fmt.Errorf("move %d: %w", i+1, err)
		}
	}
	return nil
}

// EngineMove lets e choose a move for the side to move and plays it. The
// search runs on a copy of the position.
func (g *Game) EngineMove(e *engine.Engine) (board.Move, error) {
	if g.IsOver() {
		return board.NoMove, ErrGameOver
	}
	m := e.Search(g.position.Copy())
	if m.IsNone() {
		return board.NoMove, ErrNoMove
	}
	return g.Play(m)
}
