package ui

import (
	"bytes"
	"embed"
	"fmt"
	"image"

	"github.com/hailam/bitchess/internal/board"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

//go:embed assets/pieces/*.svg
var pieceAssets embed.FS

// renderScale oversamples sprites so they stay sharp on HiDPI screens.
const renderScale = 3.0

// SpriteManager rasterizes the embedded SVG pieces once and draws them.
type SpriteManager struct {
	pieces map[board.Piece]*ebiten.Image
	size   int // Logical square size
}

// NewSpriteManager creates a new sprite manager with pieces of the given size.
func NewSpriteManager(size int) *SpriteManager {
	sm := &SpriteManager{
		pieces: make(map[board.Piece]*ebiten.Image),
		size:   size,
	}
	sm.loadPieces()
	return sm
}

// piecePath names the asset of a piece, e.g. "assets/pieces/wN.svg".
func piecePath(p board.Piece) string {
	code := p.Code()
	return fmt.Sprintf("assets/pieces/%c%c.svg", code[0], code[1]&^0x20)
}

func rasterize(data []byte, size int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1.0)
	return rgba, nil
}

func (sm *SpriteManager) loadPieces() {
	renderSize := int(float64(sm.size) * renderScale)

	for c := board.White; c <= board.Black; c++ {
		for pt := board.Pawn; pt <= board.King; pt++ {
			piece := board.NewPiece(pt, c)
			path := piecePath(piece)

			data, err := pieceAssets.ReadFile(path)
			if err != nil {
				log.Warn("read piece asset", "path", path, "err", err)
				continue
			}
			rgba, err := rasterize(data, renderSize)
			if err != nil {
				log.Warn("parse piece asset", "path", path, "err", err)
				continue
			}
			sm.pieces[piece] = ebiten.NewImageFromImage(rgba)
		}
	}
}

// DrawPieceAt draws a piece with its top-left corner at device pixel (x, y).
func (sm *SpriteManager) DrawPieceAt(screen *ebiten.Image, p board.Piece, x, y int, scale float64) {
	sprite := sm.pieces[p]
	if sprite == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale/renderScale, scale/renderScale)
	op.GeoM.Translate(float64(x), float64(y))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(sprite, op)
}
