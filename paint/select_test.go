package paint

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestSelectSolidWhite(t *testing.T) {
	p := solid(t, 5, 4, white)
	s, err := p.SelectFromColor(color.RGBA{255, 255, 255, 255}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 20 {
		t.Errorf("expected all 20 pixels, got %d", s.Len())
	}
	if s.Bounds() != image.Rect(0, 0, 5, 4) {
		t.Errorf("unexpected bounds %v", s.Bounds())
	}
}

func checkerboard(t *testing.T, size, cell int) *Painter {
	t.Helper()
	p := solid(t, size, size, white)
	img := p.Image()
	for y := range size {
		for x := range size {
			if (x/cell+y/cell)%2 == 1 {
				img.SetNRGBA(x, y, black)
			}
		}
	}
	return p
}

func TestSelectCheckerboard(t *testing.T) {
	p := checkerboard(t, 6, 2)

	// 3x3 cells: five white, four black
	for target, want := range map[color.NRGBA]int{white: 20, black: 16} {
		s, err := p.SelectFromColor(target, 0)
		if err != nil {
			t.Fatal(err)
		}
		if s.Len() != want {
			t.Errorf("%v: expected %d pixels, got %d", target, want, s.Len())
		}
		for y := range 6 {
			for x := range 6 {
				same := p.Image().NRGBAAt(x, y) == target
				if s.Contains(x, y) != same {
					t.Errorf("%v: pixel (%d,%d) selected=%v, matches=%v", target, x, y, s.Contains(x, y), same)
				}
			}
		}
	}
}

func TestSelectThreshold(t *testing.T) {
	p := solid(t, 3, 1, white)
	p.Image().SetNRGBA(1, 0, color.NRGBA{250, 250, 250, 255}) // ~8.7 away
	p.Image().SetNRGBA(2, 0, color.NRGBA{240, 240, 240, 255}) // ~26 away

	for _, tc := range []struct {
		threshold float64
		want      int
	}{
		{0, 1},
		{8, 1},
		{9, 2},
		{25, 2},
		{26, 3},
	} {
		s, err := p.SelectFromColor(white, tc.threshold)
		if err != nil {
			t.Fatal(err)
		}
		if s.Len() != tc.want {
			t.Errorf("threshold %g: expected %d, got %d", tc.threshold, tc.want, s.Len())
		}
	}

	if _, err := p.SelectFromColor(white, -1); !errors.Is(err, ErrIllegalArgument) {
		t.Errorf("expected ErrIllegalArgument, got %v", err)
	}
}

func TestSelectDisconnectedRegions(t *testing.T) {
	// two red blocks separated by a blue column
	p := solid(t, 5, 3, red)
	img := p.Image()
	for y := range 3 {
		img.SetNRGBA(2, y, blue)
	}

	s, err := p.SelectFromColor(red, 0)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 12 {
		t.Errorf("expected both regions (12 pixels), got %d", s.Len())
	}
	if s.Contains(2, 1) {
		t.Error("blue column must not be selected")
	}

	pos := s.Positions()
	if pos[0] != image.Pt(0, 0) || pos[len(pos)-1] != image.Pt(4, 2) {
		t.Errorf("positions not in raster order: %v", pos)
	}

	mask := s.Mask()
	if mask.AlphaAt(2, 0).A != 0 || mask.AlphaAt(3, 0).A != 0xff {
		t.Error("unexpected mask")
	}
}

func TestSelectFromPoint(t *testing.T) {
	leaf := solid(t, 4, 4, white)
	if _, err := leaf.Select(0, 0, 0); !errors.Is(err, ErrNotSampleable) {
		t.Errorf("expected ErrNotSampleable, got %v", err)
	}

	root := solid(t, 4, 4, white)
	if _, err := root.CreateLayer(solid(t, 2, 2, red)); err != nil {
		t.Fatal(err)
	}
	if err := root.Extrude(); err != nil {
		t.Fatal(err)
	}

	s, err := root.Select(0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 4 || !s.Contains(1, 1) || s.Contains(2, 2) {
		t.Errorf("expected the red square, got %v", s.Positions())
	}

	if _, err := root.Select(9, 9, 0); !errors.Is(err, ErrIllegalArgument) {
		t.Errorf("expected ErrIllegalArgument, got %v", err)
	}
}

func TestOklabDistance(t *testing.T) {
	if d := OklabDistance(white, white); d != 0 {
		t.Errorf("expected 0, got %g", d)
	}
	if d := OklabDistance(black, white); d < 254 || d > 256 {
		t.Errorf("expected about 255, got %g", d)
	}

	p := solid(t, 2, 1, white)
	p.Image().SetNRGBA(1, 0, color.NRGBA{250, 250, 250, 255})
	s, err := p.SelectFromColorFunc(white, 10, OklabDistance)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 2 {
		t.Errorf("expected near white selected, got %d", s.Len())
	}
}
