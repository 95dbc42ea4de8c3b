// Package ui is the desktop front end: an ebiten board with drag and drop,
// a side panel and an optional computer opponent.
package ui

import (
	"log/slog"
	"time"

	"github.com/hailam/bitchess/internal/board"
	"github.com/hailam/bitchess/internal/engine"
	"github.com/hailam/bitchess/internal/game"
	"github.com/hailam/bitchess/internal/storage"
	"github.com/hajimehoshi/ebiten/v2"
)

var log = slog.Default().With("package", "ui")

// UI Constants
const (
	ScreenWidth  = 960
	ScreenHeight = 640
	BoardSize    = 640
	SquareSize   = BoardSize / 8
	PanelWidth   = ScreenWidth - BoardSize
)

// UIScale is the global HiDPI scale factor, set by Game.Layout.
var UIScale float64 = 1.0

// Options override stored preferences for one session. Nil fields keep
// the stored value.
type Options struct {
	Depth       int // Fixed search depth; zero follows the difficulty
	AIEnabled   *bool
	PlayerColor *board.Color
	DBDir       string // Empty uses the per-user data directory
}

// aiResult is a finished search. gen tells results of abandoned searches
// apart from the current one.
type aiResult struct {
	move board.Move
	gen  int
}

// Game implements ebiten.Game interface.
type Game struct {
	game *game.Game

	// UI state
	selectedSquare board.Square
	targets        []board.Move
	dragging       bool
	dragPiece      board.Piece
	dragSquare     board.Square

	storage   *storage.Storage
	prefs     *storage.UserPreferences
	startedAt time.Time

	// Components
	renderer *Renderer
	input    *InputHandler
	panel    *Panel
	feedback *FeedbackManager

	// AI Engine
	engine     *engine.Engine
	depth      int
	aiThinking bool
	aiGen      int
	aiMove     chan aiResult

	// HiDPI scaling
	scale float64
}

// NewGame creates the window's game, resuming an unfinished game from
// storage when there is one. Storage failures only disable persistence.
func NewGame(opts Options) *Game {
	g := &Game{
		game:           game.New(),
		selectedSquare: board.NoSquare,
		dragSquare:     board.NoSquare,
		renderer:       NewRenderer(BoardSize, SquareSize),
		input:          NewInputHandler(),
		engine:         engine.NewEngine(),
		depth:          opts.Depth,
		aiMove:         make(chan aiResult, 1),
		startedAt:      time.Now(),
		scale:          1.0,
	}
	g.engine.SetDepth(opts.Depth)

	var err error
	if opts.DBDir != "" {
		g.storage, err = storage.Open(opts.DBDir)
	} else {
		g.storage, err = storage.NewStorage()
	}
	if err != nil {
		log.Warn("storage unavailable, progress will not be saved", "err", err)
		g.storage = nil
	}

	g.loadPreferences()
	if opts.AIEnabled != nil {
		g.prefs.AIEnabled = *opts.AIEnabled
	}
	if opts.PlayerColor != nil {
		g.prefs.PlayerColor = *opts.PlayerColor
	}
	g.applyPreferences()

	g.feedback = NewFeedbackManager(g.prefs.Sound)
	g.panel = NewPanel(g)
	g.resumeSavedGame()
	return g
}

// loadPreferences loads user preferences from storage.
func (g *Game) loadPreferences() {
	g.prefs = storage.DefaultPreferences()
	if g.storage == nil {
		return
	}
	prefs, err := g.storage.LoadPreferences()
	if err != nil {
		log.Warn("load preferences", "err", err)
		return
	}
	g.prefs = prefs
}

func (g *Game) applyPreferences() {
	g.engine.SetDifficulty(g.prefs.Difficulty)
	g.renderer.SetFlipped(g.prefs.AIEnabled && g.prefs.PlayerColor == board.Black)
}

// savePreferences saves current preferences to storage.
func (g *Game) savePreferences() {
	g.applyPreferences()
	if g.storage == nil {
		return
	}
	g.prefs.LastPlayed = time.Now()
	if err := g.storage.SavePreferences(g.prefs); err != nil {
		log.Warn("save preferences", "err", err)
	}
}

func (g *Game) resumeSavedGame() {
	if g.storage == nil {
		return
	}
	saved, err := g.storage.LoadGame()
	if err != nil {
		log.Warn("load saved game", "err", err)
		return
	}
	if saved == nil {
		return
	}
	if err := g.game.Replay(saved.Moves); err != nil {
		log.Warn("saved game does not replay, starting fresh", "err", err)
		g.game.Reset()
		g.clearSavedGame()
		return
	}
	log.Info("resumed game", "moves", len(saved.Moves), "saved_at", saved.SavedAt)
	g.feedback.OnMessage("Game resumed")
}

func (g *Game) saveProgress() {
	if g.storage == nil {
		return
	}
	if err := g.storage.SaveGame(g.game.Moves()); err != nil {
		log.Warn("save game", "err", err)
	}
}

func (g *Game) clearSavedGame() {
	if g.storage == nil {
		return
	}
	if err := g.storage.ClearGame(); err != nil {
		log.Warn("clear saved game", "err", err)
	}
}

// recordResult stores the finished game in the statistics. Games between
// two humans are not counted.
func (g *Game) recordResult() {
	g.clearSavedGame()
	if g.storage == nil || !g.prefs.AIEnabled {
		return
	}
	result := storage.GameResult{
		Draw:       g.game.Status() == board.Stalemate,
		Won:        g.game.Status() == board.Checkmate && g.game.SideToMove() != g.prefs.PlayerColor,
		Difficulty: g.prefs.Difficulty,
		Duration:   time.Since(g.startedAt),
	}
	if err := g.storage.RecordGame(result); err != nil {
		log.Warn("record game", "err", err)
	}
}

// Update proceeds the game state.
func (g *Game) Update() error {
	g.input.Update()
	g.feedback.Update()

	g.handleKeys()
	if !g.panel.HandleInput(g.input) {
		g.handleBoardInput()
	}

	g.checkAIMove()
	g.maybeStartAI()
	g.updateCursor()
	return nil
}

func (g *Game) handleKeys() {
	switch {
	case g.input.KeyJustPressed(ebiten.KeyN):
		g.NewGameAction()
	case g.input.KeyJustPressed(ebiten.KeyR, ebiten.KeyBackspace, ebiten.KeyU):
		g.UndoAction()
	case g.input.KeyJustPressed(ebiten.KeyM):
		g.prefs.Sound = !g.prefs.Sound
		g.feedback.audio.SetEnabled(g.prefs.Sound)
		g.savePreferences()
		if g.prefs.Sound {
			g.feedback.OnMessage("Sound on")
		} else {
			g.feedback.OnMessage("Sound off")
		}
	}
}

// updateCursor sets the cursor shape based on what's being hovered.
func (g *Game) updateCursor() {
	if g.panel.AnyButtonHovered() {
		ebiten.SetCursorShape(ebiten.CursorShapePointer)
	} else {
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}
}

// humanToMove reports whether the board accepts input now.
func (g *Game) humanToMove() bool {
	if g.game.IsOver() || g.aiThinking {
		return false
	}
	return !g.prefs.AIEnabled || g.game.SideToMove() == g.prefs.PlayerColor
}

func (g *Game) handleBoardInput() {
	if !g.humanToMove() {
		if g.dragging || g.selectedSquare != board.NoSquare {
			g.clearSelection()
		}
		return
	}

	mx, my := g.input.MousePosition()
	onBoard := mx < BoardSize && my < BoardSize

	if g.input.IsLeftJustPressed() && onBoard {
		sq := g.renderer.ScreenToSquare(mx, my)
		if sq == board.NoSquare {
			return
		}

		piece := g.game.Position().PieceAt(sq)
		if piece != board.NoPiece && piece.Color() == g.game.SideToMove() {
			g.selectSquare(sq)
			g.startDrag(sq)
			return
		}

		if g.selectedSquare != board.NoSquare {
			g.tryMove(g.selectedSquare, sq)
			return
		}
		g.clearSelection()
	}

	if g.dragging && g.input.IsLeftJustReleased() {
		g.handleDragRelease(mx, my)
	}
}

// selectSquare selects a square and collects the moves from it.
func (g *Game) selectSquare(sq board.Square) {
	g.selectedSquare = sq
	g.targets = g.game.LegalMovesFrom(sq)
}

// clearSelection clears the current selection.
func (g *Game) clearSelection() {
	g.selectedSquare = board.NoSquare
	g.targets = nil
	g.dragging = false
	g.dragPiece = board.NoPiece
	g.dragSquare = board.NoSquare
}

// startDrag begins dragging a piece.
func (g *Game) startDrag(sq board.Square) {
	g.dragging = true
	g.dragPiece = g.game.Position().PieceAt(sq)
	g.dragSquare = sq
}

// handleDragRelease drops the dragged piece. Dropping it back on its own
// square keeps the selection so the move can be finished by clicking.
func (g *Game) handleDragRelease(mx, my int) {
	from := g.dragSquare
	g.dragging = false
	g.dragPiece = board.NoPiece
	g.dragSquare = board.NoSquare

	to := g.renderer.ScreenToSquare(mx, my)
	if mx >= BoardSize || my >= BoardSize || to == board.NoSquare {
		g.clearSelection()
		return
	}
	if to == from {
		return
	}
	g.tryMove(from, to)
}

// tryMove asks the controller for from-to and reports the outcome.
func (g *Game) tryMove(from, to board.Square) {
	m, err := g.game.MakeMove(from, to)
	g.clearSelection()
	if err != nil {
		log.Debug("move rejected", "from", from, "to", to, "err", err)
		g.feedback.OnRejected(from, to, err)
		return
	}
	g.afterMove(m)
}

func (g *Game) afterMove(m board.Move) {
	g.feedback.OnMove(m, g.game)
	if g.game.IsOver() {
		log.Info("game over", "result", g.game.Result(), "moves", len(g.game.MoveLog()))
		g.recordResult()
		return
	}
	g.saveProgress()
}

// maybeStartAI starts a search when it is the computer's turn.
func (g *Game) maybeStartAI() {
	if !g.prefs.AIEnabled || g.aiThinking || g.game.IsOver() {
		return
	}
	if g.game.SideToMove() == g.prefs.PlayerColor {
		return
	}

	g.aiThinking = true
	pos := g.game.Position().Copy()
	gen := g.aiGen
	// Taken here: the panel may change the difficulty while the search runs.
	limits := g.engine.Limits()
	log.Debug("engine thinking", "side", pos.SideToMove, "difficulty", g.engine.Difficulty(), "depth", limits.Depth)

	go func() {
		g.aiMove <- aiResult{move: g.engine.SearchWithLimits(pos, limits), gen: gen}
	}()
}

// checkAIMove plays the engine's move once the search is done. Results of
// searches abandoned by an undo or a new game are dropped.
func (g *Game) checkAIMove() {
	if !g.aiThinking {
		return
	}

	select {
	case res := <-g.aiMove:
		g.aiThinking = false
		if res.gen != g.aiGen {
			log.Debug("dropped stale engine move", "move", res.move)
			return
		}
		m, err := g.game.Play(res.move)
		if err != nil {
			log.Error("engine move rejected", "move", res.move, "err", err)
			return
		}
		g.afterMove(m)
	default:
	}
}

// abandonSearch invalidates the running search, if any. The engine keeps
// aiThinking set until the goroutine reports back, so only one search
// runs at a time.
func (g *Game) abandonSearch() {
	g.aiGen++
	if g.aiThinking {
		g.engine.Stop()
	}
}

// NewGameAction resets the game to starting position.
func (g *Game) NewGameAction() {
	g.abandonSearch()
	g.game.Reset()
	g.clearSelection()
	g.clearSavedGame()
	g.startedAt = time.Now()
	g.feedback.OnMessage("New game")
}

// UndoAction takes back the last move, or the last move pair when playing
// the computer so the human is to move again.
func (g *Game) UndoAction() {
	g.abandonSearch()
	g.clearSelection()

	plies := 1
	if g.prefs.AIEnabled {
		plies = 2
		// The engine has not answered yet, or the human moves second and
		// only the engine's first move is on the board.
		if g.game.SideToMove() != g.prefs.PlayerColor {
			plies = 1
		}
	}

	undone := 0
	for range plies {
		if !g.game.Undo() {
			break
		}
		undone++
	}
	if undone == 0 {
		g.feedback.OnMessage("Nothing to undo")
		return
	}
	g.feedback.OnUndo()
	g.saveProgress()
}

// Draw renders the game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.SetScale(g.scale)
	screen.Fill(g.renderer.Theme().Background)
	g.renderer.DrawBoard(screen)

	pos := g.game.Position()
	if g.game.InCheck() {
		g.renderer.DrawCheck(screen, pos.KingSquare(pos.SideToMove))
	}

	last, hasLast := g.game.LastMove()
	g.renderer.DrawHighlights(screen, g.selectedSquare, g.targets, last, hasLast)
	g.renderer.DrawPieces(screen, pos, g.dragSquare, g.feedback)

	if g.dragging {
		mx, my := g.input.MousePosition()
		g.renderer.DrawDraggedPiece(screen, g.dragPiece, mx, my)
	}

	g.feedback.Draw(screen, g.renderer)
	g.panel.Draw(screen, g.renderer)
}

// Layout returns the game's screen size in device pixels.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	// 2.0 on Retina, 1.0 on standard displays
	g.scale = max(ebiten.Monitor().DeviceScaleFactor(), 1.0)
	UIScale = g.scale

	if g.panel != nil && g.panel.Collapsed() {
		return int(float64(BoardSize+CollapsedWidth) * g.scale), int(float64(ScreenHeight) * g.scale)
	}
	return int(float64(ScreenWidth) * g.scale), int(float64(ScreenHeight) * g.scale)
}

// SetAIEnabled switches between two humans and playing the computer.
func (g *Game) SetAIEnabled(enabled bool) {
	if g.prefs.AIEnabled == enabled {
		return
	}
	g.abandonSearch()
	g.prefs.AIEnabled = enabled
	g.clearSelection()
	g.savePreferences()
}

// AIEnabled reports whether the computer plays one side.
func (g *Game) AIEnabled() bool {
	return g.prefs.AIEnabled
}

// SetPlayerColor sets the side the human plays against the computer.
func (g *Game) SetPlayerColor(c board.Color) {
	if g.prefs.PlayerColor == c {
		return
	}
	g.abandonSearch()
	g.prefs.PlayerColor = c
	g.clearSelection()
	g.savePreferences()
}

// PlayerColor returns the side the human plays.
func (g *Game) PlayerColor() board.Color {
	return g.prefs.PlayerColor
}

// SetDifficulty sets the engine strength for the next search.
func (g *Game) SetDifficulty(d engine.Difficulty) {
	g.prefs.Difficulty = d
	g.savePreferences()
}

// Difficulty returns the engine strength.
func (g *Game) Difficulty() engine.Difficulty {
	return g.prefs.Difficulty
}

// SearchDepth returns the plies the engine searches.
func (g *Game) SearchDepth() int {
	if g.depth > 0 {
		return g.depth
	}
	return engine.DifficultySettings[g.prefs.Difficulty].Depth
}

// MoveLog returns the moves played so far in SAN.
func (g *Game) MoveLog() []string {
	return g.game.MoveLog()
}

// GameOver reports whether the game has ended.
func (g *Game) GameOver() bool {
	return g.game.IsOver()
}

// IsAIThinking reports whether a search is running.
func (g *Game) IsAIThinking() bool {
	return g.aiThinking
}

// Username returns the player's name.
func (g *Game) Username() string {
	return g.prefs.Username
}

// StatusText describes the game for the status bar.
func (g *Game) StatusText() string {
	switch {
	case g.game.IsOver():
		return g.game.Result()
	case g.aiThinking:
		return "AI thinking..."
	case g.game.InCheck():
		return g.game.SideToMove().String() + " to move, in check"
	default:
		return g.game.SideToMove().String() + " to move"
	}
}

// Close stops any search and closes storage.
func (g *Game) Close() {
	g.abandonSearch()
	if g.storage == nil {
		return
	}
	if err := g.storage.Close(); err != nil {
		log.Warn("close storage", "err", err)
	}
}
