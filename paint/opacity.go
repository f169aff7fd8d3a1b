package paint

import (
	"fmt"
	"math"

	"picstack/raster"
)

// transparent is the largest transparency value, i.e. alpha 0.
const transparent = 0xff

// Opacity scales the opacity of every pixel by f in [0, 1]. On a root
// painter with layers only the layers' painters are changed; the root's
// own canvas is left alone.
//
// Transparency t becomes round(T - (T-t)*f), T being full transparency,
// so f = 1 is the identity and f = 0 makes everything transparent. The
// painter can only be written in formats that keep alpha afterwards.
func (p *Painter) Opacity(f float64) error {
	if err := p.checkOpen(); err != nil {
		return err
	}
	if !(f >= 0 && f <= 1) {
		return illegalArgument("opacity factor %g outside [0, 1]", f)
	}

	if p.root && len(p.layers) > 0 {
		for _, l := range p.layers {
			if err := l.child.Opacity(f); err != nil {
				return err
			}
		}
		return nil
	}

	src := p.canvas.buf
	buf, err := raster.New(src.Width(), src.Height())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPrecondition, err)
	}

	pix := buf.Image().Pix
	copy(pix, src.Image().Pix)
	for i := 3; i < len(pix); i += 4 {
		t := float64(transparent - pix[i])
		t = math.Round(transparent - (transparent-t)*f)
		pix[i] = uint8(transparent - t)
	}

	p.allowed = raster.AllFormats.Filter(raster.Format.HasAlpha)
	p.canvas.replace(buf)
	return nil
}
