package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// DefaultFontSize is the pixel size used when none is configured.
const DefaultFontSize = 12

// Raster renders rows into RGBA images using a font.Face. It is the renderer a
// game host blits into its own frame.
type Raster struct {
	face       font.Face
	font       *sfnt.Font
	buf        sfnt.Buffer
	lineHeight int
	ascent     int
}

// NewRaster wraps an existing face. The line height is taken from the face metrics.
func NewRaster(face font.Face) *Raster {
	m := face.Metrics()
	return &Raster{
		face:       face,
		lineHeight: m.Height.Ceil(),
		ascent:     m.Ascent.Ceil(),
	}
}

// NewRasterFromTTF parses a TrueType/OpenType font and renders it at size
// pixels. Rows are stacked at exactly size pixels apart.
func NewRasterFromTTF(ttf []byte, size float64) (*Raster, error) {
	if size <= 0 {
		size = DefaultFontSize
	}
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}

	r := NewRaster(face)
	r.font = f
	r.lineHeight = int(size)
	return r, nil
}

// NewMonospaceRaster renders with the bundled Go Mono font.
func NewMonospaceRaster(size float64) (*Raster, error) {
	return NewRasterFromTTF(gomono.TTF, size)
}

// LineHeight implements Renderer.
func (r *Raster) LineHeight() int {
	return r.lineHeight
}

// RenderText implements Renderer. The returned sprite has a transparent
// background so it can be composed over a translucent surface.
func (r *Raster) RenderText(text string, fg color.Color) (Sprite, error) {
	if err := checkPrintable(text); err != nil {
		return nil, err
	}
	for _, ch := range text {
		if !r.hasGlyph(ch) {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedGlyph, ch)
		}
	}

	width := font.MeasureString(r.face, text).Ceil()
	img := image.NewNRGBA(image.Rect(0, 0, width, r.lineHeight))

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: r.face,
		Dot:  fixed.P(0, r.ascent),
	}
	d.DrawString(text)

	return &RasterSprite{img: img}, nil
}

// hasGlyph reports whether the face can draw ch. Faces parsed from font data
// are checked against the cmap, so missing glyphs are refused instead of being
// drawn as the .notdef box.
func (r *Raster) hasGlyph(ch rune) bool {
	if r.font != nil {
		idx, err := r.font.GlyphIndex(&r.buf, ch)
		return err == nil && idx != 0
	}
	_, ok := r.face.GlyphAdvance(ch)
	return ok
}

// Compose implements Renderer.
func (r *Raster) Compose(bg color.Color, size image.Point) Surface {
	img := image.NewNRGBA(image.Rectangle{Max: size})
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return &RasterSurface{img: img}
}

// RasterSprite is a rendered row.
type RasterSprite struct {
	img *image.NRGBA
}

// Size implements Sprite.
func (s *RasterSprite) Size() image.Point {
	return s.img.Bounds().Size()
}

// Image exposes the rendered pixels.
func (s *RasterSprite) Image() *image.NRGBA {
	return s.img
}

// RasterSurface is a composed frame backed by an NRGBA image.
type RasterSurface struct {
	img *image.NRGBA
}

// Blit implements Surface. Sprites from other renderers are ignored.
func (s *RasterSurface) Blit(sp Sprite, at image.Point) {
	rs, ok := sp.(*RasterSprite)
	if !ok {
		return
	}
	rect := rs.img.Bounds().Add(at)
	draw.Draw(s.img, rect, rs.img, image.Point{}, draw.Over)
}

// Size implements Surface.
func (s *RasterSurface) Size() image.Point {
	return s.img.Bounds().Size()
}

// Image exposes the composed frame, e.g. for a host to upload as a texture.
func (s *RasterSurface) Image() *image.NRGBA {
	return s.img
}
