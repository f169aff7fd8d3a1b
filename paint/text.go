package paint

import (
	"image"
	"image/color"
	"math"

	"picstack/raster"
)

// Align positions text along one axis of the canvas it is drawn on.
type Align uint8

const (
	// AlignNone keeps the explicit start coordinate.
	AlignNone Align = iota
	AlignStart
	AlignCenter
	AlignEnd
)

// Background is a text box fill. Alpha runs from 0 (transparent) to 1.
type Background struct {
	R, G, B uint8
	Alpha   float64
}

func (b Background) NRGBA() color.NRGBA {
	a := math.Round(min(max(b.Alpha, 0), 1) * 0xff)
	return color.NRGBA{R: b.R, G: b.G, B: b.B, A: uint8(a)}
}

// TextSpec describes a single line of text and where it goes. StartX and
// StartY are the top-left corner of the text's ink box.
type TextSpec struct {
	Text       string
	StartX     int
	StartY     int
	FontSize   int
	FontPath   string // empty: the painter's font
	RGB        [3]uint8
	Background *Background

	Horizontal Align
	Vertical   Align
	// MarginX and MarginY push aligned text away from the edge it is
	// aligned to, or shift centred text.
	MarginX int
	MarginY int

	// Set by Measure.
	TextWidth    int
	TextHeight   int
	CanvasWidth  int
	CanvasHeight int
	ink          image.Rectangle
}

// Measure computes the text size with f and binds the canvas size used
// for alignment.
func (t *TextSpec) Measure(f *raster.Font, canvasWidth, canvasHeight int) error {
	ink, err := f.Measure(float64(t.FontSize), t.Text)
	if err != nil {
		return err
	}
	t.ink = ink
	t.TextWidth = ink.Dx()
	t.TextHeight = ink.Dy()
	t.CanvasWidth = canvasWidth
	t.CanvasHeight = canvasHeight
	return nil
}

// Position returns the top-left corner of the ink box after alignment.
func (t *TextSpec) Position() image.Point {
	return image.Pt(
		align(t.Horizontal, t.StartX, t.MarginX, t.TextWidth, t.CanvasWidth),
		align(t.Vertical, t.StartY, t.MarginY, t.TextHeight, t.CanvasHeight),
	)
}

func align(a Align, start, margin, size, total int) int {
	switch a {
	case AlignStart:
		return margin
	case AlignCenter:
		return (total-size)/2 + margin
	case AlignEnd:
		return total - size - margin
	}
	return start
}

// Box returns the canvas rectangle covered by the text.
func (t *TextSpec) Box() image.Rectangle {
	return image.Rectangle{Max: image.Pt(t.TextWidth, t.TextHeight)}.Add(t.Position())
}

// AddText measures spec against the canvas, fills its background if it
// has one and draws the text.
func (p *Painter) AddText(spec *TextSpec) error {
	if err := p.checkOpen(); err != nil {
		return err
	}
	if spec.FontSize <= 0 {
		return illegalArgument("font size %d", spec.FontSize)
	}
	f, err := p.font(spec.FontPath)
	if err != nil {
		return err
	}
	if err := spec.Measure(f, p.canvas.Width(), p.canvas.Height()); err != nil {
		return err
	}

	buf := p.canvas.buf
	if spec.Background != nil {
		buf.FillRect(spec.Box(), spec.Background.NRGBA())
	}

	pos := spec.Position()
	c := raster.RGB(spec.RGB[0], spec.RGB[1], spec.RGB[2])
	return buf.DrawText(f, float64(spec.FontSize), pos.X-spec.ink.Min.X, pos.Y-spec.ink.Min.Y, c, spec.Text)
}

// DrawText draws text with its ink box at (x, y) in the painter's font.
func (p *Painter) DrawText(text string, x, y, size int, rgb [3]uint8) error {
	return p.AddText(&TextSpec{
		Text:     text,
		StartX:   x,
		StartY:   y,
		FontSize: size,
		RGB:      rgb,
	})
}
