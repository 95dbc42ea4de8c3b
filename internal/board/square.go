// Package board implements the chess rules: bitboard position state,
// move application and undo, pseudo-legal and legal move generation.
package board

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the board package.
var (
	// ErrInvalidSquare is returned for coordinates outside the 8x8 board.
	ErrInvalidSquare = errors.New("invalid square")

	// ErrInvalidFEN is returned when a setup string cannot be parsed.
	ErrInvalidFEN = errors.New("invalid FEN string")
)

// Square represents a square on the chess board (0-63).
// Uses Little-Endian Rank-File Mapping: A1=0, H1=7, A8=56, H8=63.
type Square uint8

// Square constants for all 64 squares.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

// File returns the file of the square (0-7, where 0=a, 7=h).
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank returns the rank of the square (0-7, where 0=1, 7=8).
func (sq Square) Rank() int {
	return int(sq) >> 3
}

// Row returns the display row of the square. Row 0 is rank 8, the top of the board.
func (sq Square) Row() int {
	return 7 - sq.Rank()
}

// Col returns the display column of the square. Column 0 is file a.
func (sq Square) Col() int {
	return sq.File()
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
}

// NewSquare creates a square from file and rank (0-indexed).
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

// SquareAt converts display coordinates (row 0 = rank 8, col 0 = file a)
// into a Square.
func SquareAt(row, col int) (Square, error) {
	if row < 0 || row > 7 || col < 0 || col > 7 {
		return NoSquare, fmt.Errorf("%w: row %d col %d", ErrInvalidSquare, row, col)
	}
	return NewSquare(col, 7-row), nil
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}

	file := int(s[0]) - 'a'
	rank := int(s[1]) - '1'

	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}

	return NewSquare(file, rank), nil
}

// IsValid returns true if the square is a valid board square (0-63).
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// RelativeRank returns the rank from a given color's perspective.
// For White, rank 0 is the 1st rank; for Black, rank 0 is the 8th rank.
func (sq Square) RelativeRank(c Color) int {
	if c == White {
		return sq.Rank()
	}
	return 7 - sq.Rank()
}

// Direction is a single step across the board, expressed as file and rank deltas.
type Direction struct {
	File, Rank int
}

// Ray directions. The first four are orthogonal, the last four diagonal.
var (
	North     = Direction{0, 1}
	South     = Direction{0, -1}
	East      = Direction{1, 0}
	West      = Direction{-1, 0}
	NorthEast = Direction{1, 1}
	NorthWest = Direction{-1, 1}
	SouthEast = Direction{1, -1}
	SouthWest = Direction{-1, -1}
)

var (
	orthogonalDirections = [4]Direction{North, South, East, West}
	diagonalDirections   = [4]Direction{NorthEast, NorthWest, SouthEast, SouthWest}
	allDirections        = [8]Direction{North, South, East, West, NorthEast, NorthWest, SouthEast, SouthWest}
	knightJumps          = [8]Direction{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
)

// Step moves one square in direction d. ok is false when the step leaves the board.
func (sq Square) Step(d Direction) (Square, bool) {
	f, r := sq.File()+d.File, sq.Rank()+d.Rank
	if f < 0 || f > 7 || r < 0 || r > 7 {
		return NoSquare, false
	}
	return NewSquare(f, r), true
}

// IsDiagonal reports whether the direction is one of the four diagonals.
func (d Direction) IsDiagonal() bool {
	return d.File != 0 && d.Rank != 0 && abs(d.File) == abs(d.Rank)
}

// IsOrthogonal reports whether the direction runs along a rank or a file.
func (d Direction) IsOrthogonal() bool {
	return (d.File == 0) != (d.Rank == 0)
}

func (d Direction) String() string {
	return fmt.Sprintf("(%+d,%+d)", d.File, d.Rank)
}
