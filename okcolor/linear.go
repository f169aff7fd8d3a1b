package okcolor

import (
	"image/color"
	"math"
)

// LinearRGBA is a colour with linear-light channels in [0, 1].
type LinearRGBA struct {
	R float64
	G float64
	B float64
	A uint16
}

var LinearRGBAModel = color.ModelFunc(linearRGBAConvert)

func linearRGBAConvert(c color.Color) color.Color {
	if _, ok := c.(LinearRGBA); ok {
		return c
	}

	return sRGBToLinearRGB(color.RGBA64Model.Convert(c).(color.RGBA64))
}

// RGBA implements color.Color. Out of range channels are clamped.
func (lc LinearRGBA) RGBA() (uint32, uint32, uint32, uint32) {
	return linearRGBToSRGB(lc).RGBA()
}

func linearRGBToSRGB(lc LinearRGBA) color.RGBA64 {
	return color.RGBA64{
		R: uint16(math.Round(fromLinear(clamp(lc.R, 0, 1)) * 65535)),
		G: uint16(math.Round(fromLinear(clamp(lc.G, 0, 1)) * 65535)),
		B: uint16(math.Round(fromLinear(clamp(lc.B, 0, 1)) * 65535)),
		A: lc.A,
	}
}

// sRGBToLinearRGB expects straight (non-premultiplied) channels; RGBA64
// values from an opaque or fully transparent colour qualify as such.
func sRGBToLinearRGB(c color.RGBA64) LinearRGBA {
	r, g, b := float64(c.R), float64(c.G), float64(c.B)
	if c.A != 0 && c.A != 0xffff {
		a := float64(c.A)
		r, g, b = r*65535/a, g*65535/a, b*65535/a
	}
	return LinearRGBA{
		R: toLinear(r / 65535),
		G: toLinear(g / 65535),
		B: toLinear(b / 65535),
		A: c.A,
	}
}

func toLinear(x float64) float64 {
	if x >= 0.04045 {
		return math.Pow((x+0.055)/1.055, 2.4)
	} else {
		return x / 12.92
	}
}

const pow float64 = 1.0 / 2.4

func fromLinear(x float64) float64 {
	if x >= 0.0031308 {
		return math.Pow(x, pow)*1.055 - 0.055
	} else {
		return x * 12.92
	}
}

func clamp(x, lo, hi float64) float64 {
	return min(max(x, lo), hi)
}
