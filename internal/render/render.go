// Package render defines the boundary between the terminal device and whatever
// draws its frames. A Renderer turns one styled text row into a Sprite and
// composes Sprites onto a background Surface; the device never knows whether
// the result ends up in a game texture or on a character-cell screen.
package render

import (
	"errors"
	"image"
	"image/color"
	"unicode"
	"unicode/utf8"
)

// ErrUnsupportedGlyph is returned when a row contains a rune the renderer cannot draw.
var ErrUnsupportedGlyph = errors.New("unsupported glyph")

// Sprite is a rendered row of text.
type Sprite interface {
	Size() image.Point
}

// Surface is a composed frame that sprites can be blitted onto.
type Surface interface {
	Blit(s Sprite, at image.Point)
	Size() image.Point
}

// Renderer is the rendering backend consumed by the terminal device.
type Renderer interface {
	// RenderText draws text in the foreground colour.
	RenderText(text string, fg color.Color) (Sprite, error)
	// Compose returns a surface of the given size filled with bg. The alpha
	// channel of bg, if any, is kept.
	Compose(bg color.Color, size image.Point) Surface
	// LineHeight is the vertical distance between stacked rows, in surface units.
	LineHeight() int
}

// checkPrintable reports the first rune a renderer must refuse regardless of font.
func checkPrintable(text string) error {
	if !utf8.ValidString(text) {
		return ErrUnsupportedGlyph
	}
	for _, r := range text {
		if !unicode.IsPrint(r) {
			return ErrUnsupportedGlyph
		}
	}
	return nil
}
