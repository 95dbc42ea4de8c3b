package ui

import (
	"bytes"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	regularSource *text.GoTextFaceSource
	boldSource    *text.GoTextFaceSource
)

const (
	defaultFontSize = 14.0
	titleFontSize   = 16.0
)

func init() {
	var err error
	if regularSource, err = text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF)); err != nil {
		log.Warn("load regular font", "err", err)
	}
	if boldSource, err = text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF)); err != nil {
		log.Warn("load bold font", "err", err)
	}
}

// GetRegularFace returns the regular panel face, or nil if Go Regular failed to load.
func GetRegularFace() *text.GoTextFace {
	return GetFaceWithSize(defaultFontSize)
}

// GetBoldFace returns the bold title face.
func GetBoldFace() *text.GoTextFace {
	if boldSource == nil {
		return nil
	}
	return &text.GoTextFace{Source: boldSource, Size: titleFontSize}
}

// GetFaceWithSize returns a regular face with a custom size.
func GetFaceWithSize(size float64) *text.GoTextFace {
	if regularSource == nil {
		return nil
	}
	return &text.GoTextFace{Source: regularSource, Size: size}
}

// MeasureText returns the width and height of the given text.
func MeasureText(s string, face *text.GoTextFace) (width, height float64) {
	if face == nil {
		return 0, 0
	}
	return text.Measure(s, face, 0)
}
