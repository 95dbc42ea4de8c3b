package board

import (
	"errors"
	"testing"
)

func TestSquareAtMatchesDisplayRows(t *testing.T) {
	tests := []struct {
		row, col int
		want     Square
	}{
		{0, 0, A8},
		{0, 7, H8},
		{7, 0, A1},
		{7, 7, H1},
		{6, 4, E2},
		{4, 4, E4},
	}

	for _, tc := range tests {
		sq, err := SquareAt(tc.row, tc.col)
		if err != nil {
			t.Fatalf("SquareAt(%d, %d): %v", tc.row, tc.col, err)
		}
		if sq != tc.want {
			t.Errorf("SquareAt(%d, %d) = %s, want %s", tc.row, tc.col, sq, tc.want)
		}
		if sq.Row() != tc.row || sq.Col() != tc.col {
			t.Errorf("%s: Row/Col = %d/%d, want %d/%d", sq, sq.Row(), sq.Col(), tc.row, tc.col)
		}
	}
}

func TestInvalidCoordinates(t *testing.T) {
	for _, rc := range [][2]int{{-1, 0}, {0, -1}, {8, 0}, {0, 8}, {100, 100}} {
		if _, err := SquareAt(rc[0], rc[1]); !errors.Is(err, ErrInvalidSquare) {
			t.Errorf("SquareAt(%d, %d) error = %v, want ErrInvalidSquare", rc[0], rc[1], err)
		}
		if _, err := Mask(rc[0], rc[1]); !errors.Is(err, ErrInvalidSquare) {
			t.Errorf("Mask(%d, %d) error = %v, want ErrInvalidSquare", rc[0], rc[1], err)
		}
	}

	pos := NewPosition()
	if _, err := pos.PieceAtRowCol(8, 8); !errors.Is(err, ErrInvalidSquare) {
		t.Errorf("PieceAtRowCol(8, 8) error = %v", err)
	}
	if _, err := ParseSquare("z9"); !errors.Is(err, ErrInvalidSquare) {
		t.Errorf("ParseSquare(z9) error = %v", err)
	}
}

func TestMask(t *testing.T) {
	bb, err := Mask(7, 4)
	if err != nil {
		t.Fatal(err)
	}
	if bb != SquareBB(E1) || bb.PopCount() != 1 {
		t.Errorf("Mask(7, 4) = %#x, want e1", uint64(bb))
	}
}

func TestPieceAtRowCol(t *testing.T) {
	pos := NewPosition()
	tests := []struct {
		row, col int
		want     Piece
	}{
		{0, 4, BlackKing},
		{7, 3, WhiteQueen},
		{1, 0, BlackPawn},
		{4, 4, NoPiece},
	}
	for _, tc := range tests {
		got, err := pos.PieceAtRowCol(tc.row, tc.col)
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.want {
			t.Errorf("PieceAtRowCol(%d, %d) = %q, want %q", tc.row, tc.col, got, tc.want)
		}
	}
	if WhiteKing.Code() != "wK" || BlackPawn.Code() != "bp" || NoPiece.Code() != "" {
		t.Error("unexpected piece codes")
	}
}

func TestParseFENRejectsBadInput(t *testing.T) {
	for _, fen := range []string{
		"",
		"8/8/8/8 w - -",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQ1BNR w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkz - 0 1",
	} {
		if _, err := ParseFEN(fen); !errors.Is(err, ErrInvalidFEN) {
			t.Errorf("ParseFEN(%q) error = %v, want ErrInvalidFEN", fen, err)
		}
	}
}
