package ui

import (
	"errors"
	"image/color"
	"math"
	"time"

	"github.com/hailam/bitchess/internal/board"
	"github.com/hailam/bitchess/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// ToastType represents the type of toast notification.
type ToastType int

const (
	ToastInfo ToastType = iota
	ToastWarning
	ToastSuccess
)

var toastColors = map[ToastType][2]color.RGBA{
	ToastInfo:    {{50, 100, 150, 220}, {255, 255, 255, 255}},
	ToastWarning: {{180, 140, 20, 220}, {40, 30, 0, 255}},
	ToastSuccess: {{50, 150, 50, 220}, {255, 255, 255, 255}},
}

type toast struct {
	message string
	kind    ToastType
	start   time.Time
	life    time.Duration
}

// alpha fades the toast in and out over its first and last 200ms.
func (t *toast) alpha(now time.Time) float64 {
	const fade = 0.2
	elapsed := now.Sub(t.start).Seconds()
	life := t.life.Seconds()
	switch {
	case elapsed < fade:
		return elapsed / fade
	case elapsed > life-fade:
		return math.Max(0, (life-elapsed)/fade)
	}
	return 1
}

type shake struct {
	sq    board.Square
	start time.Time
}

type flash struct {
	sq    board.Square
	start time.Time
	color color.RGBA
}

const (
	maxToasts     = 3
	shakeDuration = 300 * time.Millisecond
	flashDuration = 400 * time.Millisecond
)

// FeedbackManager shows toasts, shakes rejected pieces and plays sounds.
type FeedbackManager struct {
	toasts  []*toast
	shakes  []shake
	flashes []flash
	audio   *AudioManager
}

// NewFeedbackManager creates a new feedback manager.
func NewFeedbackManager(sound bool) *FeedbackManager {
	return &FeedbackManager{audio: NewAudioManager(sound)}
}

// Update drops expired effects.
func (fm *FeedbackManager) Update() {
	now := time.Now()

	toasts := fm.toasts[:0]
	for _, t := range fm.toasts {
		if now.Sub(t.start) < t.life {
			toasts = append(toasts, t)
		}
	}
	fm.toasts = toasts

	shakes := fm.shakes[:0]
	for _, s := range fm.shakes {
		if now.Sub(s.start) < shakeDuration {
			shakes = append(shakes, s)
		}
	}
	fm.shakes = shakes

	flashes := fm.flashes[:0]
	for _, f := range fm.flashes {
		if now.Sub(f.start) < flashDuration {
			flashes = append(flashes, f)
		}
	}
	fm.flashes = flashes
}

func (fm *FeedbackManager) show(message string, kind ToastType, life time.Duration) {
	fm.toasts = append(fm.toasts, &toast{message: message, kind: kind, start: time.Now(), life: life})
	if len(fm.toasts) > maxToasts {
		fm.toasts = fm.toasts[1:]
	}
}

// ShakeOffset returns the horizontal offset of a piece being shaken, a
// damped sine over the shake's lifetime.
func (fm *FeedbackManager) ShakeOffset(sq board.Square) float64 {
	for _, s := range fm.shakes {
		if s.sq != sq {
			continue
		}
		p := time.Since(s.start).Seconds() / shakeDuration.Seconds()
		if p >= 1 {
			return 0
		}
		return 8 * math.Exp(-5*p) * math.Sin(40*p)
	}
	return 0
}

// Draw renders square flashes and the toast stack.
func (fm *FeedbackManager) Draw(screen *ebiten.Image, r *Renderer) {
	now := time.Now()
	for _, f := range fm.flashes {
		p := now.Sub(f.start).Seconds() / flashDuration.Seconds()
		if p >= 1 {
			continue
		}
		c := f.color
		c.A = uint8(float64(c.A) * (1 - p))
		r.highlightSquare(screen, f.sq, c)
	}

	face := GetRegularFace()
	if face == nil {
		return
	}
	y := 50.0
	for _, t := range fm.toasts {
		a := t.alpha(now)
		colors := toastColors[t.kind]
		bg, fg := colors[0], colors[1]
		bg.A = uint8(float64(bg.A) * a)
		fg.A = uint8(float64(fg.A) * a)

		const padding = 12.0
		w, h := MeasureText(t.message, face)
		boxW, boxH := w+padding*2, h+padding*2
		x := float64(BoardSize)/2 - boxW/2

		vector.DrawFilledRect(screen, r.sf(float32(x)), r.sf(float32(y)), r.sf(float32(boxW)), r.sf(float32(boxH)), bg, false)
		op := &text.DrawOptions{}
		op.GeoM.Translate(x+padding, y+padding)
		op.GeoM.Scale(r.scale, r.scale)
		op.ColorScale.ScaleWithColor(fg)
		text.Draw(screen, t.message, face, op)

		y += boxH + 8
	}
}

// OnRejected reports a move the controller refused.
func (fm *FeedbackManager) OnRejected(from, to board.Square, err error) {
	message := "Illegal move"
	if errors.Is(err, game.ErrGameOver) {
		message = "The game is over"
	}
	fm.show(message, ToastWarning, 2*time.Second)
	fm.shakes = append(fm.shakes, shake{sq: from, start: time.Now()})
	fm.flashes = append(fm.flashes, flash{sq: to, start: time.Now(), color: color.RGBA{255, 80, 80, 150}})
	fm.audio.Play(SoundInvalid)
}

// OnMove plays the sound for m and announces check or the end of the game.
func (fm *FeedbackManager) OnMove(m board.Move, g *game.Game) {
	switch g.Status() {
	case board.Checkmate:
		fm.show("Checkmate! "+g.Result(), ToastSuccess, 5*time.Second)
		fm.audio.Play(SoundGameEnd)
		return
	case board.Stalemate:
		fm.show("Stalemate - Draw", ToastInfo, 5*time.Second)
		fm.audio.Play(SoundGameEnd)
		return
	}

	switch {
	case g.InCheck():
		fm.show("Check!", ToastWarning, 2*time.Second)
		fm.audio.Play(SoundCheck)
	case m.IsCastle():
		fm.audio.Play(SoundCastle)
	case m.IsCapture():
		fm.audio.Play(SoundCapture)
	default:
		fm.audio.Play(SoundMove)
	}
}

// OnUndo acknowledges a take-back.
func (fm *FeedbackManager) OnUndo() {
	fm.audio.Play(SoundUndo)
}

// OnMessage shows a plain informational toast.
func (fm *FeedbackManager) OnMessage(message string) {
	fm.show(message, ToastInfo, 2*time.Second)
}
