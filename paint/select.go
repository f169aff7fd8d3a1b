package paint

import (
	"image"
	"image/color"
	"math"

	"picstack/okcolor"
)

// Metric measures the distance between two colours. Alpha is ignored.
type Metric func(a, b color.NRGBA) float64

// RGBDistance is the Euclidean distance of the 8 bit RGB channels, so
// black and white are about 441.7 apart.
func RGBDistance(a, b color.NRGBA) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// OklabDistance is the Euclidean distance in Oklab scaled by 255, which
// keeps black and white a similar distance apart as under RGBDistance's
// per-channel range.
func OklabDistance(a, b color.NRGBA) float64 {
	a.A, b.A = 0xff, 0xff
	return okcolor.Distance(a, b) * 255
}

// Selector is the immutable result of a selection query.
type Selector struct {
	rect     image.Rectangle
	selected []bool
	count    int
}

// Len returns the number of selected pixels.
func (s *Selector) Len() int {
	return s.count
}

func (s *Selector) Contains(x, y int) bool {
	if !image.Pt(x, y).In(s.rect) {
		return false
	}
	return s.selected[(y-s.rect.Min.Y)*s.rect.Dx()+(x-s.rect.Min.X)]
}

// Positions returns the selected pixels in raster order.
func (s *Selector) Positions() []image.Point {
	res := make([]image.Point, 0, s.count)
	w := s.rect.Dx()
	for i, ok := range s.selected {
		if ok {
			res = append(res, image.Pt(s.rect.Min.X+i%w, s.rect.Min.Y+i/w))
		}
	}
	return res
}

// Bounds returns the smallest rectangle holding every selected pixel.
func (s *Selector) Bounds() image.Rectangle {
	var b image.Rectangle
	for _, pt := range s.Positions() {
		b = b.Union(image.Rectangle{Min: pt, Max: pt.Add(image.Pt(1, 1))})
	}
	return b
}

// Mask renders the selection as an opaque-on-transparent alpha mask the
// size of the selected canvas.
func (s *Selector) Mask() *image.Alpha {
	m := image.NewAlpha(s.rect)
	for i, ok := range s.selected {
		if ok {
			m.Pix[i] = 0xff
		}
	}
	return m
}

// Select samples the colour at (x, y) and selects every region within
// threshold of it. Painters without layers cannot be sampled.
func (p *Painter) Select(x, y int, threshold float64) (*Selector, error) {
	if err := p.checkOpen(); err != nil {
		return nil, err
	}
	c, ok := p.Straw(x, y)
	if !ok {
		if len(p.layers) == 0 {
			return nil, ErrNotSampleable
		}
		return nil, illegalArgument("sample point (%d,%d) outside %dx%d canvas", x, y, p.Width(), p.Height())
	}
	return p.SelectFromColor(c, threshold)
}

// SelectFromColor selects every pixel whose RGB distance to target is at
// most threshold. Threshold 0 matches the exact colour only.
func (p *Painter) SelectFromColor(target color.Color, threshold float64) (*Selector, error) {
	return p.SelectFromColorFunc(target, threshold, RGBDistance)
}

// SelectFromColorFunc is SelectFromColor with a custom distance.
//
// Every unvisited pixel seeds a breadth-first flood fill over its four
// axis neighbours. A pixel farther than threshold from target is neither
// marked nor expanded, so each matching pixel belongs to exactly one fill
// and the union of all fills is the selection.
func (p *Painter) SelectFromColorFunc(target color.Color, threshold float64, dist Metric) (*Selector, error) {
	if err := p.checkOpen(); err != nil {
		return nil, err
	}
	if threshold < 0 || math.IsNaN(threshold) {
		return nil, illegalArgument("selection threshold %g", threshold)
	}
	if dist == nil {
		dist = RGBDistance
	}

	buf := p.canvas.buf
	rect := buf.Bounds()
	w, h := rect.Dx(), rect.Dy()
	want := color.NRGBAModel.Convert(target).(color.NRGBA)

	s := &Selector{
		rect:     rect,
		selected: make([]bool, w*h),
	}
	var queue []image.Point
	for sy := range h {
		for sx := range w {
			if s.selected[sy*w+sx] {
				continue
			}

			queue = append(queue[:0], image.Pt(sx, sy))
			for head := 0; head < len(queue); head++ {
				cur := queue[head]
				if cur.X < 0 || cur.Y < 0 || cur.X >= w || cur.Y >= h {
					continue
				}
				i := cur.Y*w + cur.X
				if s.selected[i] {
					continue
				}
				if dist(buf.At(rect.Min.X+cur.X, rect.Min.Y+cur.Y), want) > threshold {
					continue
				}

				s.selected[i] = true
				s.count++
				queue = append(queue,
					image.Pt(cur.X+1, cur.Y),
					image.Pt(cur.X-1, cur.Y),
					image.Pt(cur.X, cur.Y+1),
					image.Pt(cur.X, cur.Y-1),
				)
			}
		}
	}

	return s, nil
}
