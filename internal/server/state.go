package server

import (
	"github.com/hailam/bitchess/internal/board"
	"github.com/hailam/bitchess/internal/game"
)

// State is the JSON view of a game sent to clients.
type State struct {
	Board      [8][8]string `json:"board"` // Row 0 is rank 8, "" for empty
	SideToMove string       `json:"side_to_move"`
	Status     string       `json:"status"`
	Result     string       `json:"result,omitempty"`
	InCheck    bool         `json:"in_check"`
	LastMove   string       `json:"last_move,omitempty"`
	MoveLog    []string     `json:"move_log"`
	Legal      []string     `json:"legal"`
}

func stateOf(g *game.Game) State {
	st := State{
		SideToMove: g.SideToMove().String(),
		Status:     g.Status().String(),
		Result:     g.Result(),
		InCheck:    g.InCheck(),
		MoveLog:    g.MoveLog(),
		Legal:      []string{},
	}
	if st.MoveLog == nil {
		st.MoveLog = []string{}
	}

	pos := g.Position()
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			sq, _ := board.SquareAt(row, col)
			st.Board[row][col] = pos.PieceAt(sq).Code()
		}
	}
	if m, ok := g.LastMove(); ok {
		st.LastMove = m.String()
	}
	for _, m := range g.LegalMoves() {
		st.Legal = append(st.Legal, m.String())
	}
	return st
}
