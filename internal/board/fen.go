package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var castlingLetters = []struct {
	letter byte
	right  CastlingRights
}{
	{'K', WhiteKingSideCastle},
	{'Q', WhiteQueenSideCastle},
	{'k', BlackKingSideCastle},
	{'q', BlackQueenSideCastle},
}

func fenError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidFEN, fmt.Sprintf(format, args...))
}

// ParseFEN sets up a position from a FEN string, with an empty history.
// The move counters may be omitted.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 || len(fields) > 6 {
		return nil, fenError("want 4 to 6 fields, got %d", len(fields))
	}

	pos := &Position{EnPassant: NoSquare, FullMoveNumber: 1}
	if err := pos.readPlacement(fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, fenError("side to move %q", fields[1])
	}

	rights, err := readCastling(fields[2])
	if err != nil {
		return nil, err
	}
	pos.CastlingRights = rights

	if fields[3] != "-" {
		if pos.EnPassant, err = ParseSquare(fields[3]); err != nil {
			return nil, fenError("en passant square %q", fields[3])
		}
	}

	counters := []*int{&pos.HalfMoveClock, &pos.FullMoveNumber}
	for i, field := range fields[4:] {
		if *counters[i], err = strconv.Atoi(field); err != nil || *counters[i] < 0 {
			return nil, fenError("move counter %q", field)
		}
	}

	pos.updateOccupied()
	pos.rootEnPassant = pos.EnPassant
	if err := pos.Validate(); err != nil {
		return nil, fenError("%v", err)
	}
	return pos, nil
}

// readPlacement fills the board from the first FEN field. Its ranks run
// top to bottom, the same order as display rows.
func (p *Position) readPlacement(placement string) error {
	rows := strings.Split(placement, "/")
	if len(rows) != 8 {
		return fenError("want 8 ranks, got %d", len(rows))
	}

	for row, text := range rows {
		col := 0
		for i := 0; i < len(text); i++ {
			c := text[i]
			if c >= '1' && c <= '8' {
				col += int(c - '0')
				continue
			}
			piece := PieceFromChar(c)
			if piece == NoPiece {
				return fenError("piece character %q", c)
			}
			sq, err := SquareAt(row, col)
			if err != nil {
				return fenError("rank %d overflows", 8-row)
			}
			p.setPiece(piece, sq)
			col++
		}
		if col != 8 {
			return fenError("rank %d has %d squares", 8-row, col)
		}
	}
	return nil
}

func readCastling(field string) (CastlingRights, error) {
	if field == "-" {
		return NoCastling, nil
	}
	var rights CastlingRights
	for i := 0; i < len(field); i++ {
		found := false
		for _, cl := range castlingLetters {
			if field[i] == cl.letter {
				rights |= cl.right
				found = true
			}
		}
		if !found {
			return NoCastling, fenError("castling character %q", field[i])
		}
	}
	return rights, nil
}

// ToFEN returns the FEN representation of the position.
func (p *Position) ToFEN() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		if row > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for col := 0; col < 8; col++ {
			piece, _ := p.PieceAtRowCol(row, col)
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}

	side := "w"
	if p.SideToMove == Black {
		side = "b"
	}
	fmt.Fprintf(&sb, " %s %s %s %d %d", side, p.CastlingRights, p.EnPassant, p.HalfMoveClock, p.FullMoveNumber)
	return sb.String()
}
