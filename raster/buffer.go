package raster

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// maxPixels bounds a single allocation to 1 GiB of NRGBA data.
const maxPixels = 1 << 28

// Buffer is a pixel buffer with non-premultiplied 8 bit channels.
//
// A Buffer is not safe for concurrent use. After Release every method
// except Release panics with ErrReleased.
type Buffer struct {
	img         *image.NRGBA
	blend       bool
	saveAlpha   bool
	transparent *color.NRGBA
}

// New allocates a fully transparent w x h buffer.
func New(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid size %dx%d", ErrAllocation, width, height)
	}
	if width > maxPixels/height {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrAllocation, width, height, maxPixels)
	}

	return &Buffer{
		img:       image.NewNRGBA(image.Rect(0, 0, width, height)),
		blend:     true,
		saveAlpha: true,
	}, nil
}

// FromImage copies img into a new buffer whose origin is (0, 0).
func FromImage(img image.Image) (*Buffer, error) {
	sr := img.Bounds()
	b, err := New(sr.Dx(), sr.Dy())
	if err != nil {
		return nil, err
	}
	draw.Draw(b.img, b.img.Rect, img, sr.Min, draw.Src)
	return b, nil
}

func (b *Buffer) live() *image.NRGBA {
	if b.img == nil {
		panic(ErrReleased)
	}
	return b.img
}

// Released reports whether Release has been called.
func (b *Buffer) Released() bool {
	return b.img == nil
}

// Release drops the pixel data. Releasing twice is a no-op.
func (b *Buffer) Release() {
	b.img = nil
	b.transparent = nil
}

func (b *Buffer) Bounds() image.Rectangle {
	return b.live().Rect
}

func (b *Buffer) Width() int {
	return b.live().Rect.Dx()
}

func (b *Buffer) Height() int {
	return b.live().Rect.Dy()
}

// Image exposes the underlying pixels. Callers must not keep it past
// Release.
func (b *Buffer) Image() *image.NRGBA {
	return b.live()
}

// At returns the colour at (x, y), or the zero colour when out of bounds.
func (b *Buffer) At(x, y int) color.NRGBA {
	return b.live().NRGBAAt(x, y)
}

// Set writes c at (x, y). Out of bounds writes are ignored.
func (b *Buffer) Set(x, y int, c color.NRGBA) {
	b.live().SetNRGBA(x, y, c)
}

func RGB(r, g, b uint8) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}

func RGBA(r, g, b, a uint8) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// FillRect paints r with c, replacing what is there.
func (b *Buffer) FillRect(r image.Rectangle, c color.Color) {
	img := b.live()
	draw.Draw(img, r.Intersect(img.Rect), image.NewUniform(c), image.Point{}, draw.Src)
}

// SetBlending selects between compositing over existing pixels (the
// default) and replacing them in ResampledCopy and DrawText.
func (b *Buffer) SetBlending(on bool) {
	b.live()
	b.blend = on
}

func (b *Buffer) op() draw.Op {
	if b.blend {
		return draw.Over
	}
	return draw.Src
}

// SetTransparent fills the buffer with c and marks c as the colour that
// is written as fully transparent on encode. Only pixels equal to c,
// alpha included, are keyed.
func (b *Buffer) SetTransparent(c color.NRGBA) {
	img := b.live()
	draw.Draw(img, img.Rect, image.NewUniform(c), image.Point{}, draw.Src)
	b.transparent = &c
}

// SaveAlpha controls whether the alpha channel is kept on encode. When
// off, every pixel is written opaque.
func (b *Buffer) SaveAlpha(on bool) {
	b.live()
	b.saveAlpha = on
}

// ResampledCopy copies the sr region of src into the dr region of b,
// resampling when the two rectangles differ in size.
func (b *Buffer) ResampledCopy(dr image.Rectangle, src *Buffer, sr image.Rectangle) {
	dst, s := b.live(), src.live()
	if dr.Size() == sr.Size() {
		draw.Draw(dst, dr, s, sr.Min, b.op())
		return
	}
	draw.CatmullRom.Scale(dst, dr, s, sr, b.op(), nil)
}
