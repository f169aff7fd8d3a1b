package raster

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Font is a parsed TrueType or OpenType font.
type Font struct {
	name string
	otf  *opentype.Font
}

// LoadFont parses the font file at path.
func LoadFont(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFont, err)
	}
	return parseFont(path, data)
}

var defaultFont = sync.OnceValues(func() (*Font, error) {
	return parseFont("goregular", goregular.TTF)
})

// DefaultFont returns the embedded Go Regular font.
func DefaultFont() *Font {
	f, err := defaultFont()
	if err != nil {
		panic(err)
	}
	return f
}

func parseFont(name string, data []byte) (*Font, error) {
	otf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrFont, name, err)
	}
	return &Font{name: name, otf: otf}, nil
}

func (f *Font) String() string {
	return f.name
}

func (f *Font) face(size float64) (font.Face, error) {
	face, err := opentype.NewFace(f.otf, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s at %gpt: %w", ErrFont, f.name, size, err)
	}
	return face, nil
}

// Measure returns the ink bounds of text drawn with its baseline origin
// at (0, 0). Min.Y is negative for glyphs rising above the baseline.
func (f *Font) Measure(size float64, text string) (image.Rectangle, error) {
	face, err := f.face(size)
	if err != nil {
		return image.Rectangle{}, err
	}
	defer face.Close()

	bounds, _ := font.BoundString(face, text)
	return image.Rect(
		bounds.Min.X.Floor(), bounds.Min.Y.Floor(),
		bounds.Max.X.Ceil(), bounds.Max.Y.Ceil(),
	), nil
}

// DrawText renders text with its baseline origin at (x, y).
func (b *Buffer) DrawText(f *Font, size float64, x, y int, c color.Color, text string) error {
	img := b.live()
	face, err := f.face(size)
	if err != nil {
		return err
	}
	defer face.Close()

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
	return nil
}
