// Package palette provides the colour tables used to quantize GIF output.
package palette

import (
	"fmt"
	"image/color"
	"image/color/palette"
	"os"
	"strings"
)

var named = map[string]color.Palette{
	"bw":      {color.Black, color.White},
	"gray16":  grays(16),
	"vga16":   vga16,
	"plan9":   palette.Plan9,
	"websafe": palette.WebSafe,
}

var vga16 = color.Palette{
	color.RGBA{0x00, 0x00, 0x00, 0xff},
	color.RGBA{0x00, 0x00, 0xaa, 0xff},
	color.RGBA{0x00, 0xaa, 0x00, 0xff},
	color.RGBA{0x00, 0xaa, 0xaa, 0xff},
	color.RGBA{0xaa, 0x00, 0x00, 0xff},
	color.RGBA{0xaa, 0x00, 0xaa, 0xff},
	color.RGBA{0xaa, 0x55, 0x00, 0xff},
	color.RGBA{0xaa, 0xaa, 0xaa, 0xff},
	color.RGBA{0x55, 0x55, 0x55, 0xff},
	color.RGBA{0x55, 0x55, 0xff, 0xff},
	color.RGBA{0x55, 0xff, 0x55, 0xff},
	color.RGBA{0x55, 0xff, 0xff, 0xff},
	color.RGBA{0xff, 0x55, 0x55, 0xff},
	color.RGBA{0xff, 0x55, 0xff, 0xff},
	color.RGBA{0xff, 0xff, 0x55, 0xff},
	color.RGBA{0xff, 0xff, 0xff, 0xff},
}

func grays(n int) color.Palette {
	pal := make(color.Palette, n)
	for i := range n {
		y := uint8(i * 255 / (n - 1))
		pal[i] = color.Gray{Y: y}
	}
	return pal
}

// Names lists the built-in palettes.
func Names() []string {
	return []string{"bw", "gray16", "vga16", "plan9", "websafe"}
}

// LoadPalette returns a built-in palette by name or, failing that, the
// concatenation of all palettes in the RIFF PAL file at name.
func LoadPalette(name string) (color.Palette, error) {
	if pal, ok := named[strings.ToLower(name)]; ok {
		return pal, nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("unknown palette %q: %w", name, err)
	}
	defer f.Close()

	pals, err := ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("could not load palette %q: %w", name, err)
	}

	var res color.Palette
	for _, pal := range pals {
		res = append(res, pal...)
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("palette %q has no colors", name)
	}
	if len(res) > 256 {
		return nil, fmt.Errorf("palette %q has %d colors, at most 256 are usable", name, len(res))
	}
	return res, nil
}
