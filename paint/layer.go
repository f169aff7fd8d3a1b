package paint

import (
	"cmp"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"image"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"picstack/raster"
)

// Layer places an owned child painter inside its parent.
type Layer struct {
	index  int
	alias  string
	offset image.Point
	child  *Painter
}

func (l *Layer) Index() int {
	return l.index
}

func (l *Layer) Alias() string {
	return l.alias
}

// Offset is the position of the child's top-left corner in the parent.
func (l *Layer) Offset() image.Point {
	return l.offset
}

func (l *Layer) Painter() *Painter {
	return l.child
}

type layerConfig struct {
	index    int
	hasIndex bool
	alias    string
	offset   image.Point
}

// LayerOption configures CreateLayer and CreateLayerFromImage.
type LayerOption func(*layerConfig)

// WithIndex places the layer at z-order i. Indices must be unique within
// a parent.
func WithIndex(i int) LayerOption {
	return func(c *layerConfig) {
		c.index = i
		c.hasIndex = true
	}
}

func WithAlias(alias string) LayerOption {
	return func(c *layerConfig) {
		c.alias = alias
	}
}

func WithOffset(x, y int) LayerOption {
	return func(c *layerConfig) {
		c.offset = image.Pt(x, y)
	}
}

// Layers returns the layers in compositing order.
func (p *Painter) Layers() []*Layer {
	return slices.Clone(p.layers)
}

// Layer returns the first layer named alias.
func (p *Painter) Layer(alias string) (*Layer, bool) {
	for _, l := range p.layers {
		if l.alias == alias {
			return l, true
		}
	}
	return nil, false
}

func (p *Painter) findIndex(i int) (int, bool) {
	return slices.BinarySearchFunc(p.layers, i, func(l *Layer, i int) int {
		return cmp.Compare(l.index, i)
	})
}

// CreateLayer attaches child to p. p takes ownership: child must be a
// root painter that is not p itself nor one of p's ancestors. Without
// WithIndex the layer goes on top, at the first free index not below the
// current layer count.
func (p *Painter) CreateLayer(child *Painter, opts ...LayerOption) (*Layer, error) {
	if err := p.checkOpen(); err != nil {
		return nil, err
	}
	if child == nil {
		return nil, illegalArgument("nil layer painter")
	}
	if child.closed {
		return nil, fmt.Errorf("layer painter: %w", ErrClosed)
	}
	if !child.root || child.parent != nil {
		return nil, precondition("painter is already a layer of another painter")
	}
	for anc := p; anc != nil; anc = anc.parent {
		if anc == child {
			return nil, precondition("painter cannot be a layer of itself")
		}
	}

	var conf layerConfig
	for _, opt := range opts {
		opt(&conf)
	}

	if conf.hasIndex {
		if _, found := p.findIndex(conf.index); found {
			return nil, precondition("layer index %d already in use", conf.index)
		}
	} else {
		conf.index = len(p.layers)
		for {
			if _, found := p.findIndex(conf.index); !found {
				break
			}
			conf.index++
		}
	}
	if conf.alias == "" {
		conf.alias = "layer-" + strconv.Itoa(conf.index)
	}

	l := &Layer{
		index:  conf.index,
		alias:  conf.alias,
		offset: conf.offset,
		child:  child,
	}
	pos, _ := p.findIndex(l.index)
	p.layers = slices.Insert(p.layers, pos, l)
	child.root = false
	child.parent = p

	p.logger.Debug("layer created", "index", l.index, "alias", l.alias,
		"x", l.offset.X, "y", l.offset.Y, "kind", child.Kind())
	return l, nil
}

// CreateLayerFromImage decodes the image at path into a new leaf painter
// and attaches it. The alias defaults to the SHA-1 of the file content.
func (p *Painter) CreateLayerFromImage(path string, opts ...LayerOption) (*Layer, error) {
	if err := p.checkOpen(); err != nil {
		return nil, err
	}

	data, buf, err := readImage(path)
	if err != nil {
		return nil, err
	}
	sum := sha1.Sum(data)

	child := newPainter(buf, p.inherit())
	opts = append([]LayerOption{WithAlias(hex.EncodeToString(sum[:]))}, opts...)
	l, err := p.CreateLayer(child, opts...)
	if err != nil {
		_ = child.Close()
		return nil, err
	}
	return l, nil
}

// Extrude flattens the tree below p into p's canvas. A leaf only marks
// itself flattened. A composite flattens each layer's painter in index
// order, narrows its allowed formats to theirs and draws their pixels at
// the layer offset without scaling. The composite itself stays in its
// current state, so repeated calls composite again.
func (p *Painter) Extrude() error {
	if err := p.checkOpen(); err != nil {
		return err
	}
	if len(p.layers) == 0 {
		p.state = Flattened
		return nil
	}

	for _, l := range p.layers {
		if err := l.child.Extrude(); err != nil {
			return fmt.Errorf("layer %q: %w", l.alias, err)
		}
		p.allowed = p.allowed.Intersect(l.child.allowed)

		src := l.child.canvas.buf
		dr := src.Bounds().Add(l.offset)
		p.canvas.buf.ResampledCopy(dr, src, src.Bounds())
	}

	p.logger.Debug("extruded", "layers", len(p.layers), "allowed", p.allowed.String())
	return nil
}

// Output flattens p and encodes it as format. The extension of path is
// replaced by the format's; the path written is returned.
func (p *Painter) Output(path string, format raster.Format, opts *raster.EncodeOptions) (string, error) {
	if err := p.Extrude(); err != nil {
		return "", err
	}
	if !p.allowed.Has(format) {
		return "", illegalArgument("format %s not in allowed formats %s", format, p.allowed)
	}

	dest := strings.TrimSuffix(path, filepath.Ext(path)) + format.Ext()
	if err := p.canvas.buf.Save(dest, format, opts); err != nil {
		return "", err
	}
	p.logger.Debug("output written", "path", dest, "format", format.String())
	return dest, nil
}
