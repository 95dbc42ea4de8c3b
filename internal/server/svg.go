package server

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"
	"github.com/hailam/bitchess/internal/board"
)

const (
	svgSquare = 60
	svgMargin = 20
)

var pieceGlyphs = map[board.Piece]string{
	board.WhiteKing: "♔", board.WhiteQueen: "♕", board.WhiteRook: "♖",
	board.WhiteBishop: "♗", board.WhiteKnight: "♘", board.WhitePawn: "♙",
	board.BlackKing: "♚", board.BlackQueen: "♛", board.BlackRook: "♜",
	board.BlackBishop: "♝", board.BlackKnight: "♞", board.BlackPawn: "♟",
}

// writeBoardSVG draws pos as an SVG diagram with rank 8 at the top. The
// squares of the last move and a checked king are tinted.
func writeBoardSVG(w io.Writer, pos *board.Position) {
	size := 8*svgSquare + 2*svgMargin
	canvas := svg.New(w)
	canvas.Start(size, size)
	canvas.Rect(0, 0, size, size, "fill:#312e2b")

	highlight := map[board.Square]string{}
	if m, ok := pos.LastMove(); ok {
		highlight[m.From] = "#cdd26a"
		highlight[m.To] = "#cdd26a"
	}
	if pos.InCheck() {
		highlight[pos.KingSquare(pos.SideToMove)] = "#e8625a"
	}

	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			sq, _ := board.SquareAt(row, col)
			x := svgMargin + col*svgSquare
			y := svgMargin + row*svgSquare

			fill := "#f0d9b5"
			if (row+col)%2 == 1 {
				fill = "#b58863"
			}
			if c, ok := highlight[sq]; ok {
				fill = c
			}
			canvas.Rect(x, y, svgSquare, svgSquare, "fill:"+fill)

			if glyph, ok := pieceGlyphs[pos.PieceAt(sq)]; ok {
				canvas.Text(x+svgSquare/2, y+svgSquare*3/4, glyph,
					"font-size:44px;text-anchor:middle;fill:#000")
			}
		}
	}

	labels := "font-size:12px;text-anchor:middle;fill:#bababa"
	for i := 0; i < 8; i++ {
		canvas.Text(svgMargin+i*svgSquare+svgSquare/2, size-6, string(rune('a'+i)), labels)
		canvas.Text(svgMargin/2, svgMargin+i*svgSquare+svgSquare/2+4, fmt.Sprint(8-i), labels)
	}
	canvas.End()
}
