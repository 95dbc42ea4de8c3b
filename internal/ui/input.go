package ui

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputHandler samples mouse and keyboard state once per frame.
type InputHandler struct {
	mouseX, mouseY   int // Logical coordinates (unscaled)
	leftPressed      bool
	leftJustPressed  bool
	leftJustReleased bool
	wheelY           float64
	keys             []ebiten.Key // Pressed this frame
}

// NewInputHandler creates a new input handler.
func NewInputHandler() *InputHandler {
	return &InputHandler{}
}

// Update updates the input state. Call this once per frame.
func (ih *InputHandler) Update() {
	rawX, rawY := ebiten.CursorPosition()
	scale := max(UIScale, 1.0)
	ih.mouseX = int(float64(rawX) / scale)
	ih.mouseY = int(float64(rawY) / scale)

	ih.leftJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	ih.leftJustReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	ih.leftPressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	_, ih.wheelY = ebiten.Wheel()
	ih.keys = inpututil.AppendJustPressedKeys(ih.keys[:0])
}

// MousePosition returns the current mouse position in logical coordinates.
func (ih *InputHandler) MousePosition() (int, int) {
	return ih.mouseX, ih.mouseY
}

// IsLeftJustPressed returns true if the left mouse button was just pressed.
func (ih *InputHandler) IsLeftJustPressed() bool {
	return ih.leftJustPressed
}

// IsLeftJustReleased returns true if the left mouse button was just released.
func (ih *InputHandler) IsLeftJustReleased() bool {
	return ih.leftJustReleased
}

// IsLeftPressed returns true if the left mouse button is currently pressed.
func (ih *InputHandler) IsLeftPressed() bool {
	return ih.leftPressed
}

// WheelY returns the vertical scroll of this frame.
func (ih *InputHandler) WheelY() float64 {
	return ih.wheelY
}

// IsInBounds returns true if the mouse is within the given rectangle.
func (ih *InputHandler) IsInBounds(x, y, w, h int) bool {
	return ih.mouseX >= x && ih.mouseX < x+w && ih.mouseY >= y && ih.mouseY < y+h
}

// KeyJustPressed reports whether any of keys went down this frame.
func (ih *InputHandler) KeyJustPressed(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if slices.Contains(ih.keys, k) {
			return true
		}
	}
	return false
}
