package ui

import (
	"image/color"

	"github.com/hailam/bitchess/internal/board"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Theme defines the color scheme for the board.
type Theme struct {
	LightSquare    color.RGBA
	DarkSquare     color.RGBA
	SelectedSquare color.RGBA
	LegalMoveColor color.RGBA
	LastMoveColor  color.RGBA
	CheckColor     color.RGBA
	Background     color.RGBA
}

// DefaultTheme returns the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		LightSquare:    color.RGBA{240, 217, 181, 255}, // Tan
		DarkSquare:     color.RGBA{181, 136, 99, 255},  // Brown
		SelectedSquare: color.RGBA{247, 247, 105, 180},
		LegalMoveColor: color.RGBA{130, 151, 105, 200},
		LastMoveColor:  color.RGBA{180, 190, 100, 90},
		CheckColor:     color.RGBA{255, 100, 100, 180},
		Background:     color.RGBA{40, 44, 52, 255},
	}
}

// Renderer draws the board. Squares are laid out by display row and
// column, row 0 being rank 8, and mirrored when the board is flipped.
type Renderer struct {
	sprites    *SpriteManager
	theme      *Theme
	boardSize  int
	squareSize int
	flipped    bool
	scale      float64 // HiDPI scale factor
}

// NewRenderer creates a new renderer.
func NewRenderer(boardSize, squareSize int) *Renderer {
	return &Renderer{
		sprites:    NewSpriteManager(squareSize),
		theme:      DefaultTheme(),
		boardSize:  boardSize,
		squareSize: squareSize,
		scale:      1.0,
	}
}

// SetScale sets the HiDPI scale factor for rendering.
func (r *Renderer) SetScale(scale float64) {
	r.scale = scale
}

// SetFlipped puts black at the bottom when true.
func (r *Renderer) SetFlipped(flipped bool) {
	r.flipped = flipped
}

// s returns the scaled value for rendering.
func (r *Renderer) s(v int) float32 {
	return float32(float64(v) * r.scale)
}

// sf returns the scaled float value for rendering.
func (r *Renderer) sf(v float32) float32 {
	return v * float32(r.scale)
}

// DrawBoard draws the squares and their coordinate labels.
func (r *Renderer) DrawBoard(screen *ebiten.Image) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			c := r.theme.LightSquare
			if (row+col)%2 == 1 {
				c = r.theme.DarkSquare
			}
			vector.DrawFilledRect(screen, r.s(col*r.squareSize), r.s(row*r.squareSize),
				r.s(r.squareSize), r.s(r.squareSize), c, false)
		}
	}
	r.drawCoordinates(screen)
}

// drawCoordinates writes file letters along the bottom edge and rank
// numbers along the left edge, in the color of the opposite square.
func (r *Renderer) drawCoordinates(screen *ebiten.Image) {
	face := GetFaceWithSize(11)
	if face == nil {
		return
	}
	for i := 0; i < 8; i++ {
		file, rank := i, 7-i
		if r.flipped {
			file, rank = 7-i, i
		}

		// Bottom row: the square in column i is dark when i is even.
		labelColor := r.theme.LightSquare
		if i%2 == 1 {
			labelColor = r.theme.DarkSquare
		}
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64((i+1)*r.squareSize-10), float64(r.boardSize-15))
		op.GeoM.Scale(r.scale, r.scale)
		op.ColorScale.ScaleWithColor(labelColor)
		text.Draw(screen, string(rune('a'+file)), face, op)

		// Left column: the square in row i is dark when i is odd.
		labelColor = r.theme.DarkSquare
		if i%2 == 1 {
			labelColor = r.theme.LightSquare
		}
		op = &text.DrawOptions{}
		op.GeoM.Translate(3, float64(i*r.squareSize+2))
		op.GeoM.Scale(r.scale, r.scale)
		op.ColorScale.ScaleWithColor(labelColor)
		text.Draw(screen, string(rune('1'+rank)), face, op)
	}
}

// DrawHighlights draws the last move, the selection and the targets of
// the selected piece.
func (r *Renderer) DrawHighlights(screen *ebiten.Image, selected board.Square, targets []board.Move, lastMove board.Move, hasLast bool) {
	if hasLast {
		r.highlightSquare(screen, lastMove.From, r.theme.LastMoveColor)
		r.highlightSquare(screen, lastMove.To, r.theme.LastMoveColor)
	}
	if selected != board.NoSquare {
		r.highlightSquare(screen, selected, r.theme.SelectedSquare)
	}
	for _, m := range targets {
		r.drawLegalMoveIndicator(screen, m.To)
	}
}

// DrawCheck highlights the king's square if in check.
func (r *Renderer) DrawCheck(screen *ebiten.Image, kingSq board.Square) {
	r.highlightSquare(screen, kingSq, r.theme.CheckColor)
}

// highlightSquare draws a colored overlay on a square.
func (r *Renderer) highlightSquare(screen *ebiten.Image, sq board.Square, c color.RGBA) {
	if !sq.IsValid() {
		return
	}
	x, y := r.SquareToScreen(sq)
	vector.DrawFilledRect(screen, r.s(x), r.s(y), r.s(r.squareSize), r.s(r.squareSize), c, false)
}

// drawLegalMoveIndicator draws a circle on legal move squares.
func (r *Renderer) drawLegalMoveIndicator(screen *ebiten.Image, sq board.Square) {
	x, y := r.SquareToScreen(sq)
	cx := r.s(x) + r.s(r.squareSize)/2
	cy := r.s(y) + r.s(r.squareSize)/2
	vector.DrawFilledCircle(screen, cx, cy, r.s(r.squareSize)*0.15, r.theme.LegalMoveColor, false)
}

// DrawPieces draws every piece except the one being dragged, offset by
// any running shake.
func (r *Renderer) DrawPieces(screen *ebiten.Image, pos *board.Position, dragSquare board.Square, fb *FeedbackManager) {
	for sq := board.A1; sq <= board.H8; sq++ {
		if sq == dragSquare {
			continue
		}
		piece := pos.PieceAt(sq)
		if piece == board.NoPiece {
			continue
		}

		x, y := r.SquareToScreen(sq)
		if fb != nil {
			x += int(fb.ShakeOffset(sq))
		}
		r.sprites.DrawPieceAt(screen, piece, int(r.s(x)), int(r.s(y)), r.scale)
	}
}

// DrawDraggedPiece draws the piece being dragged centered on the cursor,
// given in logical coordinates.
func (r *Renderer) DrawDraggedPiece(screen *ebiten.Image, piece board.Piece, mouseX, mouseY int) {
	if piece == board.NoPiece {
		return
	}
	half := r.squareSize / 2
	r.sprites.DrawPieceAt(screen, piece, int(r.s(mouseX-half)), int(r.s(mouseY-half)), r.scale)
}

// SquareToScreen converts a square to the logical pixel position of its
// top-left corner.
func (r *Renderer) SquareToScreen(sq board.Square) (int, int) {
	row, col := sq.Row(), sq.Col()
	if r.flipped {
		row, col = 7-row, 7-col
	}
	return col * r.squareSize, row * r.squareSize
}

// ScreenToSquare converts logical pixel coordinates to a square, or
// NoSquare off the board.
func (r *Renderer) ScreenToSquare(x, y int) board.Square {
	if x < 0 || y < 0 {
		return board.NoSquare
	}
	row, col := y/r.squareSize, x/r.squareSize
	if r.flipped {
		row, col = 7-row, 7-col
	}
	sq, err := board.SquareAt(row, col)
	if err != nil {
		return board.NoSquare
	}
	return sq
}

// Theme returns the current theme.
func (r *Renderer) Theme() *Theme {
	return r.theme
}
