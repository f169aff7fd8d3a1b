package render

import (
	"fmt"
	"image/color"
)

// parseHexToColor reads #RGB, #RGBA, #RRGGBB or #RRGGBBAA.
func parseHexToColor(s string) (color.NRGBA, error) {
	var c color.NRGBA
	var n int
	var err error
	switch len(s) {
	case 4:
		n, err = fmt.Sscanf(s, "#%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R |= c.R << 4
		c.G |= c.G << 4
		c.B |= c.B << 4
		c.A = 0xff
	case 5:
		n, err = fmt.Sscanf(s, "#%1x%1x%1x%1x", &c.R, &c.G, &c.B, &c.A)
		c.R |= c.R << 4
		c.G |= c.G << 4
		c.B |= c.B << 4
		c.A |= c.A << 4
	case 7:
		n, err = fmt.Sscanf(s, "#%2x%2x%2x", &c.R, &c.G, &c.B)
		c.A = 0xff
	case 9:
		n, err = fmt.Sscanf(s, "#%2x%2x%2x%2x", &c.R, &c.G, &c.B, &c.A)
	default:
		return c, fmt.Errorf("invalid color %q, should be #RGB, #RGBA, #RRGGBB or #RRGGBBAA", s)
	}

	if err != nil {
		return c, fmt.Errorf("could not read color %q: %w", s, err)
	} else if n < 3 {
		return c, fmt.Errorf("insufficient color fields in %q: %d", s, n)
	}
	return c, nil
}
