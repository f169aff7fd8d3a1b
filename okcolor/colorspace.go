// based on:
// https://bottosson.github.io/posts/oklab/

package okcolor

import (
	"image/color"
	"math"
)

type Lab struct {
	L     float64 // perceived lightness
	A     float64 // how green/red the color is
	B     float64 // how blue/yellow the color is
	Alpha uint16  // alpha
}

var LabModel = color.ModelFunc(labConvert)

func labConvert(c color.Color) color.Color {
	if _, ok := c.(Lab); ok {
		return c
	}

	col := linearRGBAConvert(c).(LinearRGBA)

	var l, m, s float64
	l = math.Cbrt(0.4122214708*col.R + 0.5363325363*col.G + 0.0514459929*col.B)
	m = math.Cbrt(0.2119034982*col.R + 0.6806995451*col.G + 0.1073969566*col.B)
	s = math.Cbrt(0.0883024619*col.R + 0.2817188376*col.G + 0.6299787005*col.B)

	return Lab{
		L:     0.2104542553*l + 0.7936177850*m - 0.0040720468*s,
		A:     1.9779984951*l - 2.4285922050*m + 0.4505937099*s,
		B:     0.0259040371*l + 0.7827717662*m - 0.8086757660*s,
		Alpha: col.A,
	}
}

func (lc Lab) RGBA() (uint32, uint32, uint32, uint32) {
	return lc.LinearRGBA().RGBA()
}

func (lc Lab) LinearRGBA() LinearRGBA {
	var l, m, s float64
	l = lc.L + 0.3963377774*lc.A + 0.2158037573*lc.B
	l = l * l * l
	m = lc.L - 0.1055613458*lc.A - 0.0638541728*lc.B
	m = m * m * m
	s = lc.L - 0.0894841775*lc.A - 1.2914855480*lc.B
	s = s * s * s

	return LinearRGBA{
		R: +4.0767416621*l - 3.3077115913*m + 0.2309699292*s,
		G: -1.2684380046*l + 2.6097574011*m - 0.3413193965*s,
		B: -0.0041960863*l - 0.7034186147*m + 1.7076147010*s,
		A: lc.Alpha,
	}
}

// Distance is the Euclidean distance between a and b in Oklab. Alpha is
// ignored. Black and white are 1 apart.
func Distance(a, b color.Color) float64 {
	la := labConvert(a).(Lab)
	lb := labConvert(b).(Lab)
	dL := la.L - lb.L
	da := la.A - lb.A
	db := la.B - lb.B
	return math.Sqrt(dL*dL + da*da + db*db)
}
