// Package paint composes images from a tree of offset, ordered layers.
//
// A Painter is either a leaf holding a single canvas or a composite whose
// canvas is the background for an ordered set of child painters. Extrude
// flattens the tree depth-first into the root canvas; Output flattens and
// encodes. Layers with a lower index are composited first and therefore
// end up further back.
//
// A Painter tree is owned by a single goroutine; nothing here locks.
package paint

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"math"
	"os"

	"picstack/raster"
)

// Kind tells leaf painters from composites.
type Kind uint8

const (
	Leaf Kind = iota
	Composite
)

func (k Kind) String() string {
	if k == Composite {
		return "composite"
	}
	return "leaf"
}

// State records whether a painter's buffer is authoritative for
// geometry changing operations.
type State uint8

const (
	NotFlattened State = iota
	Flattened
)

func (s State) String() string {
	if s == Flattened {
		return "flattened"
	}
	return "not flattened"
}

// Painter is a node of the composition tree.
type Painter struct {
	canvas  Canvas
	layers  []*Layer // sorted by index
	allowed raster.FormatSet
	state   State
	root    bool
	parent  *Painter
	closed  bool

	fontPath string
	fonts    map[string]*raster.Font
	logger   *slog.Logger
}

// Option configures a new Painter.
type Option func(*Painter)

// WithFont sets the font file used by text without an explicit font path.
// An empty path selects the embedded Go Regular font.
func WithFont(path string) Option {
	return func(p *Painter) {
		p.fontPath = path
	}
}

// WithLogger overrides the package logger for this painter and every
// painter it creates from images.
func WithLogger(l *slog.Logger) Option {
	return func(p *Painter) {
		if l != nil {
			p.logger = l
		}
	}
}

func newPainter(buf *raster.Buffer, opts []Option) *Painter {
	p := &Painter{
		canvas:  Canvas{buf: buf},
		allowed: raster.AllFormats,
		root:    true,
		logger:  Logger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewEmpty creates a transparent root painter of the given size.
func NewEmpty(width, height int, opts ...Option) (*Painter, error) {
	buf, err := raster.New(width, height)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPrecondition, err)
	}
	return newPainter(buf, opts), nil
}

// FromImage creates a root leaf painter from the image file at path.
func FromImage(path string, opts ...Option) (*Painter, error) {
	buf, _, err := raster.Load(path)
	if err != nil {
		return nil, err
	}
	return newPainter(buf, opts), nil
}

// FromReader creates a root leaf painter from an encoded image.
func FromReader(r io.Reader, opts ...Option) (*Painter, error) {
	buf, _, err := raster.Decode(r)
	if err != nil {
		return nil, err
	}
	return newPainter(buf, opts), nil
}

// FromBuffer wraps buf in a root leaf painter, which takes ownership.
func FromBuffer(buf *raster.Buffer, opts ...Option) *Painter {
	return newPainter(buf, opts)
}

// inherit returns the options a child built by p should share.
func (p *Painter) inherit() []Option {
	return []Option{WithFont(p.fontPath), WithLogger(p.logger)}
}

func (p *Painter) Kind() Kind {
	if len(p.layers) > 0 {
		return Composite
	}
	return Leaf
}

func (p *Painter) State() State {
	return p.state
}

// IsRoot reports whether p has not been attached to a parent.
func (p *Painter) IsRoot() bool {
	return p.root
}

func (p *Painter) Width() int {
	if p.closed {
		return 0
	}
	return p.canvas.Width()
}

func (p *Painter) Height() int {
	if p.closed {
		return 0
	}
	return p.canvas.Height()
}

// Image returns the current pixels. The result is invalidated by the next
// operation that replaces the buffer.
func (p *Painter) Image() *image.NRGBA {
	if p.closed {
		return nil
	}
	return p.canvas.buf.Image()
}

// AllowedFormats returns the output formats p and everything composited
// into it so far can be encoded as.
func (p *Painter) AllowedFormats() raster.FormatSet {
	return p.allowed
}

// Close releases p's buffer after closing every descendant. It is safe
// to call more than once.
func (p *Painter) Close() error {
	if p.closed {
		return nil
	}
	for _, l := range p.layers {
		_ = l.child.Close()
	}
	p.canvas.release()
	p.closed = true
	return nil
}

func (p *Painter) checkOpen() error {
	if p.closed {
		return ErrClosed
	}
	return nil
}

// checkGeometry guards scale and crop: only a root or a flattened painter
// has an authoritative buffer.
func (p *Painter) checkGeometry(op string) error {
	if err := p.checkOpen(); err != nil {
		return err
	}
	if !p.root && p.state != Flattened {
		return precondition("%s of a %s layer before flattening", op, p.Kind())
	}
	return nil
}

// Scale resamples the canvas to width x height.
func (p *Painter) Scale(width, height int) error {
	if err := p.checkGeometry("scale"); err != nil {
		return err
	}

	buf, err := raster.New(width, height)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPrecondition, err)
	}

	if curW, curH := p.canvas.Width(), p.canvas.Height(); width > curW || height > curH {
		p.logger.Warn("scaling beyond current canvas size",
			"width", width, "height", height, "current_width", curW, "current_height", curH)
	}

	src := p.canvas.buf
	buf.SetBlending(false)
	buf.ResampledCopy(buf.Bounds(), src, src.Bounds())
	buf.SetBlending(true)
	p.canvas.replace(buf)
	return nil
}

// ScaleFactor scales both dimensions by f. The new size is truncated,
// keeping at least one pixel.
func (p *Painter) ScaleFactor(f float64) error {
	if err := p.checkOpen(); err != nil {
		return err
	}
	if !(f > 0) || math.IsInf(f, 0) {
		return illegalArgument("scale factor %g", f)
	}
	w := max(1, int(float64(p.canvas.Width())*f))
	h := max(1, int(float64(p.canvas.Height())*f))
	return p.Scale(w, h)
}

// Fill paints the whole canvas with c.
func (p *Painter) Fill(c color.Color) error {
	if err := p.checkOpen(); err != nil {
		return err
	}
	p.canvas.buf.FillRect(p.canvas.buf.Bounds(), c)
	return nil
}

// Straw samples the colour at (x, y). It reports false for painters
// without layers and for coordinates outside the canvas.
func (p *Painter) Straw(x, y int) (color.NRGBA, bool) {
	if p.closed || len(p.layers) == 0 {
		return color.NRGBA{}, false
	}
	if !image.Pt(x, y).In(p.canvas.buf.Bounds()) {
		return color.NRGBA{}, false
	}
	return p.canvas.buf.At(x, y), true
}

func (p *Painter) font(path string) (*raster.Font, error) {
	if path == "" {
		path = p.fontPath
	}
	if path == "" {
		return raster.DefaultFont(), nil
	}
	if f, ok := p.fonts[path]; ok {
		return f, nil
	}

	f, err := raster.LoadFont(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPrecondition, err)
	}
	if p.fonts == nil {
		p.fonts = make(map[string]*raster.Font)
	}
	p.fonts[path] = f
	return f, nil
}

func readImage(path string) ([]byte, *raster.Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: could not read %q: %w", raster.ErrDecode, path, err)
	}
	buf, _, err := raster.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("%q: %w", path, err)
	}
	return data, buf, nil
}
