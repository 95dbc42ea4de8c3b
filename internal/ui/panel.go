package ui

import (
	"fmt"
	"image/color"

	"github.com/hailam/bitchess/internal/board"
	"github.com/hailam/bitchess/internal/engine"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Panel dimensions
const (
	PanelPadding    = 20
	SectionSpacing  = 28
	ButtonHeight    = 40
	TabHeight       = 34
	CollapsedWidth  = 20
	CollapseButtonW = 16
	CollapseButtonH = 48
	SectionLabelH   = 20
	statusBarH      = 70
	moveRowH        = 22
)

// Panel colors
var (
	panelBg         = color.RGBA{38, 40, 45, 255}
	sectionBg       = color.RGBA{48, 52, 58, 255}
	tabActiveBg     = color.RGBA{76, 132, 96, 255}
	tabInactiveBg   = color.RGBA{50, 54, 60, 255}
	tabHoverBg      = color.RGBA{65, 70, 78, 255}
	buttonPressedBg = color.RGBA{40, 44, 50, 255}
	buttonBorder    = color.RGBA{70, 75, 82, 255}
	accentColor     = color.RGBA{76, 175, 120, 255}
	accentHover     = color.RGBA{96, 195, 140, 255}
	accentPressed   = color.RGBA{56, 155, 100, 255}
	textPrimary     = color.RGBA{240, 240, 245, 255}
	textSecondary   = color.RGBA{160, 165, 175, 255}
	textMuted       = color.RGBA{120, 125, 135, 255}
	dividerColor    = color.RGBA{60, 65, 72, 255}
	moveRowAlt      = color.RGBA{44, 48, 54, 255}
	statusThinking  = color.RGBA{100, 180, 255, 255}
	statusGameOver  = color.RGBA{255, 200, 80, 255}
)

// Button represents a clickable UI element. active reports whether a tab
// shows as selected; plain buttons leave it nil.
type Button struct {
	X, Y, W, H int
	Label      string
	OnClick    func()
	active     func() bool
	hovered    bool
	pressed    bool
}

func (b *Button) contains(mx, my int) bool {
	return mx >= b.X && mx < b.X+b.W && my >= b.Y && my < b.Y+b.H
}

func (b *Button) isActive() bool {
	return b.active != nil && b.active()
}

// Panel is the side panel with game controls, the move log and status.
type Panel struct {
	game      *Game
	collapsed bool

	collapseBtn *Button
	newGameBtn  *Button
	undoBtn     *Button
	modeTabs    []*Button // vs Human, vs Computer
	colorTabs   []*Button // White, Black; only with the computer on
	diffTabs    []*Button // Easy, Medium, Hard; only with the computer on

	scrollY    int
	maxScrollY int
}

// NewPanel creates a new panel for the given game.
func NewPanel(g *Game) *Panel {
	p := &Panel{game: g}
	p.createButtons()
	return p
}

func tabs(x, y, w, h int, labels []string, onClick func(i int), active func(i int) bool) []*Button {
	out := make([]*Button, len(labels))
	tabW := w / len(labels)
	for i, label := range labels {
		out[i] = &Button{
			X: x + i*tabW, Y: y, W: tabW, H: h, Label: label,
			OnClick: func() { onClick(i) },
			active:  func() bool { return active(i) },
		}
	}
	return out
}

func (p *Panel) createButtons() {
	tabY := (ScreenHeight - CollapseButtonH) / 2
	collapseX := BoardSize
	if p.collapsed {
		collapseX = BoardSize + 2
	}
	p.collapseBtn = &Button{X: collapseX, Y: tabY, W: CollapseButtonW, H: CollapseButtonH, OnClick: p.toggleCollapse}

	x := BoardSize + PanelPadding
	w := PanelWidth - PanelPadding*2
	y := PanelPadding + 8

	p.newGameBtn = &Button{X: x, Y: y, W: w*2/3 - 4, H: ButtonHeight, Label: "New Game", OnClick: p.game.NewGameAction}
	p.undoBtn = &Button{X: x + w*2/3, Y: y, W: w - w*2/3, H: ButtonHeight, Label: "Undo", OnClick: p.game.UndoAction}
	y += ButtonHeight + SectionSpacing + SectionLabelH - 8

	p.modeTabs = tabs(x, y, w, TabHeight, []string{"vs Human", "vs Computer"},
		func(i int) { p.game.SetAIEnabled(i == 1) },
		func(i int) bool { return p.game.AIEnabled() == (i == 1) })
	y += TabHeight + SectionSpacing + SectionLabelH - 8

	p.colorTabs = tabs(x, y, w, TabHeight-2, []string{"White", "Black"},
		func(i int) { p.game.SetPlayerColor(board.Color(i)) },
		func(i int) bool { return p.game.PlayerColor() == board.Color(i) })
	y += TabHeight + SectionSpacing + SectionLabelH - 8

	p.diffTabs = tabs(x, y, w, TabHeight-2, []string{"Easy", "Medium", "Hard"},
		func(i int) { p.game.SetDifficulty(engine.Difficulty(i)) },
		func(i int) bool { return p.game.Difficulty() == engine.Difficulty(i) })
}

// buttons returns the buttons currently on screen.
func (p *Panel) buttons() []*Button {
	if p.collapsed {
		return []*Button{p.collapseBtn}
	}
	bs := []*Button{p.collapseBtn, p.newGameBtn, p.undoBtn}
	bs = append(bs, p.modeTabs...)
	if p.game.AIEnabled() {
		bs = append(bs, p.colorTabs...)
		bs = append(bs, p.diffTabs...)
	}
	return bs
}

// HandleInput processes input for the panel. Returns true if input was handled.
func (p *Panel) HandleInput(input *InputHandler) bool {
	mx, my := input.MousePosition()

	if !p.collapsed {
		if wheel := input.WheelY(); wheel != 0 && mx >= BoardSize && my >= p.historyStartY() {
			p.scrollY -= int(wheel * 30)
			p.scrollY = max(0, min(p.scrollY, p.maxScrollY))
		}
	}

	for _, b := range p.buttons() {
		b.hovered = b.contains(mx, my)
		b.pressed = b.hovered && input.IsLeftPressed()
	}
	if !input.IsLeftJustPressed() {
		return false
	}
	for _, b := range p.buttons() {
		if b.hovered {
			b.OnClick()
			return true
		}
	}
	return false
}

// AnyButtonHovered returns true if any button in the panel is hovered.
func (p *Panel) AnyButtonHovered() bool {
	for _, b := range p.buttons() {
		if b.hovered {
			return true
		}
	}
	return false
}

// Draw renders the panel.
func (p *Panel) Draw(screen *ebiten.Image, r *Renderer) {
	panelX := r.s(BoardSize)
	if p.collapsed {
		vector.DrawFilledRect(screen, panelX, 0, r.s(CollapsedWidth), r.s(ScreenHeight), panelBg, false)
		p.drawCollapseButton(screen, r, "›")
		return
	}

	vector.DrawFilledRect(screen, panelX, 0, r.s(PanelWidth), r.s(ScreenHeight), panelBg, false)
	p.drawCollapseButton(screen, r, "‹")

	p.drawButton(screen, r, p.newGameBtn, true)
	p.drawButton(screen, r, p.undoBtn, false)

	x := BoardSize + PanelPadding
	p.drawText(screen, r, "Game Mode", x, p.modeTabs[0].Y-SectionLabelH, textMuted)
	for _, b := range p.modeTabs {
		p.drawTab(screen, r, b)
	}
	if p.game.AIEnabled() {
		p.drawText(screen, r, "Play As", x, p.colorTabs[0].Y-SectionLabelH, textMuted)
		for _, b := range p.colorTabs {
			p.drawTab(screen, r, b)
		}
		p.drawText(screen, r, "Difficulty", x, p.diffTabs[0].Y-SectionLabelH, textMuted)
		for _, b := range p.diffTabs {
			p.drawTab(screen, r, b)
		}
	}

	historyY := p.historyStartY()
	p.drawText(screen, r, "Moves", x, historyY, textMuted)
	p.drawMoveLog(screen, r, historyY+SectionLabelH+4)
	p.drawStatusBar(screen, r)
}

func (p *Panel) historyStartY() int {
	last := p.modeTabs[0]
	if p.game.AIEnabled() {
		last = p.diffTabs[0]
	}
	return last.Y + last.H + SectionSpacing - 4
}

func (p *Panel) fillRect(screen *ebiten.Image, r *Renderer, b *Button, c color.RGBA) {
	vector.DrawFilledRect(screen, r.s(b.X), r.s(b.Y), r.s(b.W), r.s(b.H), c, false)
}

func (p *Panel) strokeRect(screen *ebiten.Image, r *Renderer, b *Button, c color.RGBA) {
	vector.StrokeRect(screen, r.s(b.X), r.s(b.Y), r.s(b.W), r.s(b.H), r.sf(1), c, false)
}

func (p *Panel) drawCollapseButton(screen *ebiten.Image, r *Renderer, arrow string) {
	b := p.collapseBtn
	bg, fg := panelBg, textMuted
	if b.hovered {
		bg, fg = sectionBg, textPrimary
	}
	p.fillRect(screen, r, b, bg)
	p.drawTextCentered(screen, r, arrow, b.X+b.W/2, b.Y+b.H/2, fg)
}

func (p *Panel) drawButton(screen *ebiten.Image, r *Renderer, b *Button, primary bool) {
	bg, border, fg := tabInactiveBg, buttonBorder, textSecondary
	if primary {
		bg, border, fg = accentColor, accentPressed, textPrimary
	}
	switch {
	case b.pressed && primary:
		bg = accentPressed
	case b.pressed:
		bg = buttonPressedBg
	case b.hovered && primary:
		bg, border = accentHover, color.RGBA{116, 215, 160, 255}
	case b.hovered:
		bg, border = tabHoverBg, accentColor
	}
	p.fillRect(screen, r, b, bg)
	p.strokeRect(screen, r, b, border)
	p.drawTextCentered(screen, r, b.Label, b.X+b.W/2, b.Y+b.H/2, fg)
}

func (p *Panel) drawTab(screen *ebiten.Image, r *Renderer, b *Button) {
	active := b.isActive()
	bg, border, fg := tabInactiveBg, buttonBorder, textSecondary
	switch {
	case active:
		bg, border, fg = tabActiveBg, tabActiveBg, textPrimary
	case b.pressed:
		bg = buttonPressedBg
	case b.hovered:
		bg, border = tabHoverBg, accentColor
	}
	p.fillRect(screen, r, b, bg)
	p.strokeRect(screen, r, b, border)
	p.drawTextCentered(screen, r, b.Label, b.X+b.W/2, b.Y+b.H/2, fg)
}

// drawMoveLog lists the SAN moves two to a row, scrolled by scrollY.
func (p *Panel) drawMoveLog(screen *ebiten.Image, r *Renderer, startY int) {
	moves := p.game.MoveLog()
	x := BoardSize + PanelPadding
	if len(moves) == 0 {
		p.drawText(screen, r, "No moves yet", x, startY+5, textMuted)
		return
	}

	maxY := ScreenHeight - statusBarH
	visible := maxY - startY
	rows := (len(moves) + 1) / 2
	p.maxScrollY = max(0, rows*moveRowH-visible)
	p.scrollY = min(p.scrollY, p.maxScrollY)

	first := p.scrollY / moveRowH
	y := startY - p.scrollY%moveRowH
	for row := first; row < rows && y <= maxY-moveRowH; row++ {
		if y >= startY {
			if row%2 == 1 {
				vector.DrawFilledRect(screen, r.s(x-4), r.s(y-2), r.s(PanelWidth-PanelPadding*2+8), r.s(moveRowH), moveRowAlt, false)
			}
			p.drawText(screen, r, fmt.Sprintf("%d.", row+1), x, y, textMuted)
			p.drawText(screen, r, moves[2*row], x+36, y, textPrimary)
			if 2*row+1 < len(moves) {
				p.drawText(screen, r, moves[2*row+1], x+110, y, textPrimary)
			}
		}
		y += moveRowH
	}

	if p.maxScrollY > 0 {
		content := float32(rows * moveRowH)
		barH := max(20, float32(visible)*float32(visible)/content)
		barY := float32(startY) + float32(p.scrollY)/float32(p.maxScrollY)*(float32(visible)-barH)
		vector.DrawFilledRect(screen, r.s(BoardSize+PanelWidth-8), r.sf(barY), r.s(4), r.sf(barH), textMuted, false)
	}
}

func (p *Panel) drawStatusBar(screen *ebiten.Image, r *Renderer) {
	statusY := ScreenHeight - statusBarH
	x := BoardSize + PanelPadding

	vector.DrawFilledRect(screen, r.s(x), r.s(statusY-10), r.s(PanelWidth-PanelPadding*2), r.s(1), dividerColor, false)

	name := p.game.Username()
	if len(name) > 12 {
		name = name[:12] + "..."
	}
	p.drawText(screen, r, name, x, statusY, textPrimary)
	if p.game.AIEnabled() {
		p.drawText(screen, r, "depth "+fmt.Sprint(p.game.SearchDepth()), x+150, statusY, textSecondary)
	}

	statusText, statusColor := p.game.StatusText(), textPrimary
	switch {
	case p.game.GameOver():
		statusColor = statusGameOver
	case p.game.IsAIThinking():
		statusColor = statusThinking
	}
	p.drawText(screen, r, statusText, x, statusY+22, statusColor)
}

func (p *Panel) drawText(screen *ebiten.Image, r *Renderer, s string, x, y int, c color.Color) {
	face := GetRegularFace()
	if face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.GeoM.Scale(r.scale, r.scale)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, face, op)
}

func (p *Panel) drawTextCentered(screen *ebiten.Image, r *Renderer, s string, centerX, centerY int, c color.Color) {
	w, h := MeasureText(s, GetRegularFace())
	p.drawText(screen, r, s, centerX-int(w/2), centerY-int(h/2), c)
}

// Collapsed returns whether the panel is collapsed.
func (p *Panel) Collapsed() bool {
	return p.collapsed
}

func (p *Panel) toggleCollapse() {
	p.collapsed = !p.collapsed
	p.createButtons()
	if p.collapsed {
		ebiten.SetWindowSize(BoardSize+CollapsedWidth, ScreenHeight)
	} else {
		ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
	}
}
