package render

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"picstack/paint"
	"picstack/parallel"
	"picstack/raster"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Manifests []string `arg:"" help:"Manifest files to render" type:"existingfile"`
	Dest      string   `help:"Write outputs into this folder instead of the manifest's output path"`
	Format    string   `help:"Override the manifest's output format" enum:",jpeg,png,gif" default:""`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	if c.Dest == "" {
		return nil
	}

	dest, err := filepath.Abs(c.Dest)
	if err != nil {
		return fmt.Errorf("invalid destination path %q: %w", c.Dest, err)
	}
	c.Dest = dest
	return nil
}

func (c *CLICmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	if c.Dest != "" {
		if err := os.MkdirAll(c.Dest, 0o755); err != nil {
			return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
		}
	}

	var processedCount, errCount atomic.Uint64
	for _, name := range c.Manifests {
		worker(func(manifestPath string) func() {
			return func() {
				logger := slog.Default().With("file", manifestPath)

				out, err := c.render(logger, manifestPath)
				if err != nil {
					errCount.Add(1)
					logger.Error("could not render manifest", "error", err)
					return
				}
				logger.Info("rendered", "output", out)
				processedCount.Add(1)
			}
		}(name))
	}

	wait(true)

	processed := processedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "processed", processed, "errors", errors,
		"total", processed+errors)

	if errors > 0 {
		return fmt.Errorf("error processing %d manifests", errors)
	}
	return nil
}

// renderFunc renders a loaded manifest; replaced in tests.
var renderFunc = Render

// render loads and renders one manifest. A panic while rendering is
// returned as an error so it is counted like any other failure.
func (c *CLICmd) render(logger *slog.Logger, manifestPath string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	m, err := LoadManifest(manifestPath)
	if err != nil {
		return "", err
	}
	if c.Format != "" {
		m.Format = c.Format
	}
	if c.Dest != "" {
		m.Output = filepath.Join(c.Dest, filepath.Base(m.Output))
	}
	return renderFunc(logger, m, filepath.Dir(manifestPath))
}

type SelectCmd struct {
	Image     string  `arg:"" help:"Source image" type:"existingfile"`
	X         int     `help:"Sample the colour at this column"`
	Y         int     `help:"Sample the colour at this row"`
	Color     string  `help:"Select this colour (#RRGGBB) instead of sampling"`
	Threshold float64 `help:"Maximum colour distance" default:"0"`
	Metric    string  `help:"Colour distance" enum:"rgb,oklab" default:"rgb"`
	Out       string  `help:"Mask output file (PNG)" default:"mask.png"`

	target *color.NRGBA
}

func (c *SelectCmd) Validate(kctx *kong.Context) error {
	if c.Threshold < 0 {
		return fmt.Errorf("invalid threshold: %g", c.Threshold)
	}
	if c.Color != "" {
		col, err := parseHexToColor(c.Color)
		if err != nil {
			return err
		}
		c.target = &col
	}
	return nil
}

func (c *SelectCmd) Run() error {
	logger := slog.Default().With("file", c.Image)

	sel, err := Select(logger, c.Image, c.X, c.Y, c.target, c.Threshold, c.Metric)
	if err != nil {
		return err
	}

	mask, err := raster.FromImage(sel.Mask())
	if err != nil {
		return err
	}
	mp := paint.FromBuffer(mask)
	defer mp.Close()

	out, err := mp.Output(c.Out, raster.PNG, nil)
	if err != nil {
		return fmt.Errorf("could not write mask: %w", err)
	}
	logger.Info("selected", "pixels", sel.Len(), "bounds", sel.Bounds(), "mask", out)
	return nil
}

// Select loads path as the single layer of a new canvas and selects the
// region around (x, y), or every region of target when it is not nil.
func Select(logger *slog.Logger, path string, x, y int, target *color.NRGBA, threshold float64, metric string) (*paint.Selector, error) {
	dist := paint.RGBDistance
	if metric == "oklab" {
		dist = paint.OklabDistance
	}

	src, err := paint.FromImage(path, paint.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	root, err := paint.NewEmpty(src.Width(), src.Height(), paint.WithLogger(logger))
	if err != nil {
		_ = src.Close()
		return nil, err
	}
	defer root.Close()

	if _, err := root.CreateLayer(src); err != nil {
		_ = src.Close()
		return nil, err
	}
	if err := root.Extrude(); err != nil {
		return nil, err
	}

	if target == nil {
		c, ok := root.Straw(x, y)
		if !ok {
			return nil, fmt.Errorf("cannot sample (%d,%d) in %dx%d image", x, y, root.Width(), root.Height())
		}
		target = &c
	}
	return root.SelectFromColorFunc(*target, threshold, dist)
}
