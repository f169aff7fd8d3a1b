package paint

import (
	"fmt"
	"image"
	"image/color"

	"picstack/raster"
)

// Crop replaces the canvas with the width x height region at (x, y).
// Parts of the region outside the canvas come out transparent. With a
// positive radius the corners outside a rounded rectangle of that radius
// are made transparent as well.
func (p *Painter) Crop(width, height, x, y, radius int) error {
	if err := p.checkGeometry("crop"); err != nil {
		return err
	}
	if radius < 0 {
		return illegalArgument("corner radius %d", radius)
	}

	cropped, err := raster.New(width, height)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPrecondition, err)
	}
	var masked *raster.Buffer
	if radius > 0 {
		if masked, err = raster.New(width, height); err != nil {
			cropped.Release()
			return fmt.Errorf("%w: %w", ErrPrecondition, err)
		}
		masked.SetTransparent(color.NRGBA{})
	}

	cropped.SetBlending(false)
	cropped.ResampledCopy(cropped.Bounds(), p.canvas.buf, image.Rect(x, y, x+width, y+height))
	cropped.SetBlending(true)
	p.canvas.replace(cropped)

	if masked == nil {
		return nil
	}
	for py := range height {
		for px := range width {
			if inRoundedRect(px, py, width, height, radius) {
				masked.Set(px, py, cropped.At(px, py))
			}
		}
	}
	p.canvas.replace(masked)
	return nil
}

// inRoundedRect reports whether (x, y) lies in the cross shaped band of a
// w x h rectangle or within r of one of its four corner centres.
func inRoundedRect(x, y, w, h, r int) bool {
	if (x >= r && x <= w-r) || (y >= r && y <= h-r) {
		return true
	}
	for _, c := range [4]image.Point{
		{r, r},
		{w - r, r},
		{r, h - r},
		{w - r, h - r},
	} {
		dx, dy := x-c.X, y-c.Y
		if dx*dx+dy*dy <= r*r {
			return true
		}
	}
	return false
}
