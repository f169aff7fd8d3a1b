package render

import (
	"fmt"
	"log/slog"
	"strings"

	"picstack/paint"
	"picstack/palette"
	"picstack/raster"
)

type builder struct {
	dir    string
	font   string
	logger *slog.Logger
}

// Build constructs the painter tree of m. Relative paths are resolved
// against dir. The caller owns the returned painter.
func Build(logger *slog.Logger, m *Manifest, dir string) (*paint.Painter, error) {
	b := &builder{
		dir:    dir,
		font:   resolve(dir, m.Font),
		logger: logger,
	}
	return b.node(&m.Node, "root")
}

func (b *builder) node(n *Node, name string) (p *paint.Painter, err error) {
	opts := []paint.Option{paint.WithFont(b.font), paint.WithLogger(b.logger)}
	switch {
	case n.Image != "":
		p, err = paint.FromImage(resolve(b.dir, n.Image), opts...)
	case n.Width > 0 && n.Height > 0:
		p, err = paint.NewEmpty(n.Width, n.Height, opts...)
	default:
		return nil, fmt.Errorf("%s: needs an image or a size", name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	built := p
	defer func() {
		if err != nil {
			_ = built.Close()
		}
	}()

	if err := b.apply(p, n); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	for i := range n.Layers {
		l := &n.Layers[i]
		childName := fmt.Sprintf("%s.layers[%d]", name, i)
		if l.Alias != "" {
			childName = fmt.Sprintf("%s.%s", name, l.Alias)
		}

		child, err := b.node(&l.Node, childName)
		if err != nil {
			return nil, err
		}

		opts := []paint.LayerOption{paint.WithOffset(l.X, l.Y)}
		if l.Index != nil {
			opts = append(opts, paint.WithIndex(*l.Index))
		}
		if l.Alias != "" {
			opts = append(opts, paint.WithAlias(l.Alias))
		}
		if _, err := p.CreateLayer(child, opts...); err != nil {
			_ = child.Close()
			return nil, fmt.Errorf("%s: %w", childName, err)
		}
	}

	if n.Opacity != nil {
		if err := p.Opacity(*n.Opacity); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	return p, nil
}

func (b *builder) apply(p *paint.Painter, n *Node) error {
	if n.Background != "" {
		c, err := parseHexToColor(n.Background)
		if err != nil {
			return err
		}
		if err := p.Fill(c); err != nil {
			return err
		}
	}

	if n.Fit != nil {
		if err := n.Fit.apply(b.logger, p); err != nil {
			return fmt.Errorf("fit: %w", err)
		}
	}

	if s := n.Scale; s != nil {
		var err error
		if s.Factor != 0 {
			err = p.ScaleFactor(s.Factor)
		} else {
			err = p.Scale(s.Width, s.Height)
		}
		if err != nil {
			return fmt.Errorf("scale: %w", err)
		}
	}

	if c := n.Crop; c != nil {
		if err := p.Crop(c.Width, c.Height, c.X, c.Y, c.Radius); err != nil {
			return fmt.Errorf("crop: %w", err)
		}
	}

	for i := range n.Texts {
		spec, err := n.Texts[i].spec(b.dir)
		if err != nil {
			return fmt.Errorf("texts[%d]: %w", i, err)
		}
		if err := p.AddText(spec); err != nil {
			return fmt.Errorf("texts[%d]: %w", i, err)
		}
	}
	return nil
}

func parseAlign(s string) (paint.Align, error) {
	switch strings.ToLower(s) {
	case "":
		return paint.AlignNone, nil
	case "left", "top", "start":
		return paint.AlignStart, nil
	case "center", "middle":
		return paint.AlignCenter, nil
	case "right", "bottom", "end":
		return paint.AlignEnd, nil
	}
	return paint.AlignNone, fmt.Errorf("unknown alignment %q", s)
}

func (t *Text) spec(dir string) (*paint.TextSpec, error) {
	spec := &paint.TextSpec{
		Text:     t.Text,
		StartX:   t.X,
		StartY:   t.Y,
		FontSize: t.Size,
		FontPath: resolve(dir, t.Font),
		MarginX:  t.MarginX,
		MarginY:  t.MarginY,
	}

	if t.Color != "" {
		c, err := parseHexToColor(t.Color)
		if err != nil {
			return nil, err
		}
		spec.RGB = [3]uint8{c.R, c.G, c.B}
	}
	if t.Background != "" {
		c, err := parseHexToColor(t.Background)
		if err != nil {
			return nil, err
		}
		spec.Background = &paint.Background{R: c.R, G: c.G, B: c.B, Alpha: float64(c.A) / 0xff}
	}

	var err error
	if spec.Horizontal, err = parseAlign(t.Align); err != nil {
		return nil, err
	}
	if spec.Vertical, err = parseAlign(t.VAlign); err != nil {
		return nil, err
	}
	return spec, nil
}

// EncodeOptions returns the encoder settings of m.
func (m *Manifest) EncodeOptions(dir string) (*raster.EncodeOptions, error) {
	opts := &raster.EncodeOptions{
		Quality: m.Quality,
		Dither:  m.Dither,
	}
	if m.Palette != "" {
		name := m.Palette
		if strings.ContainsRune(name, '.') {
			name = resolve(dir, name)
		}
		pal, err := palette.LoadPalette(name)
		if err != nil {
			return nil, err
		}
		opts.Palette = pal
	}
	return opts, nil
}

// Render builds m, writes it and returns the path written.
func Render(logger *slog.Logger, m *Manifest, dir string) (string, error) {
	format, err := raster.ParseFormat(m.Format)
	if err != nil {
		return "", err
	}
	opts, err := m.EncodeOptions(dir)
	if err != nil {
		return "", err
	}

	p, err := Build(logger, m, dir)
	if err != nil {
		return "", err
	}
	defer p.Close()

	return p.Output(resolve(dir, m.Output), format, opts)
}
