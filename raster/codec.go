package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"
)

// EncodeOptions tunes the encoders. A nil *EncodeOptions means defaults.
type EncodeOptions struct {
	// Quality is the JPEG quality, 1-100. Zero means 100.
	Quality int
	// Palette is used for GIF output. Nil means palette.Plan9.
	Palette color.Palette
	// Dither applies Floyd-Steinberg error diffusion for GIF output.
	Dither bool
}

// Decode reads an image in any registered format.
func Decode(r io.Reader) (*Buffer, string, error) {
	img, imgType, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	b, err := FromImage(img)
	if err != nil {
		return nil, imgType, err
	}
	return b, imgType, nil
}

// Load decodes the image stored at path.
func Load(path string) (b *Buffer, imgType string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: could not open %q: %w", ErrDecode, path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("could not close %q: %w", path, closeErr)
		}
	}()

	return Decode(f)
}

// Encode writes the buffer to w in the given format.
func (b *Buffer) Encode(w io.Writer, format Format, opts *EncodeOptions) error {
	if opts == nil {
		opts = &EncodeOptions{}
	}
	img := b.prepare()

	var err error
	switch format {
	case GIF:
		err = gif.Encode(w, paletted(img, opts), nil)
	case JPEG:
		q := opts.Quality
		if q <= 0 || q > 100 {
			q = 100
		}
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: q})
	case PNG:
		enc := png.Encoder{
			CompressionLevel: png.BestCompression,
			BufferPool:       pngPool,
		}
		err = enc.Encode(w, img)
	default:
		return fmt.Errorf("%w: unsupported output format: %s", ErrEncode, format)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrEncode, format, err)
	}
	return nil
}

// Save encodes the buffer into a temporary file next to path and renames
// it into place once the encoder succeeded.
func (b *Buffer) Save(path string, format Format, opts *EncodeOptions) (err error) {
	destDir, destName := filepath.Split(path)
	if destDir == "" {
		destDir = "."
	}

	outFile, err := os.CreateTemp(destDir, destName)
	if err != nil {
		return fmt.Errorf("could not create temporary destination %q: %w", destName, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil && err == nil {
			err = fmt.Errorf("could not flush temporary destination %q: %w", destName, defErr)
		}
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", destName, defErr)
		}

		if canRename && err == nil {
			if defErr := os.Rename(outFile.Name(), path); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", path, defErr)
			}
		}
		if err != nil {
			_ = os.Remove(outFile.Name())
		}
	}()

	if err = b.Encode(outFile, format, opts); err != nil {
		return fmt.Errorf("could not encode %q: %w", path, err)
	}

	canRename = true
	return nil
}

// prepare applies the transparent key and the alpha save flag, copying
// the pixels only when one of them changes something.
func (b *Buffer) prepare() *image.NRGBA {
	img := b.live()
	if b.saveAlpha && b.transparent == nil {
		return img
	}

	out := image.NewNRGBA(img.Rect)
	copy(out.Pix, img.Pix)
	for i := 0; i < len(out.Pix); i += 4 {
		px := out.Pix[i : i+4 : i+4]
		switch {
		case b.transparent != nil && color.NRGBA{R: px[0], G: px[1], B: px[2], A: px[3]} == *b.transparent:
			px[3] = 0
		case !b.saveAlpha:
			px[3] = 0xff
		}
	}
	return out
}

func paletted(img *image.NRGBA, opts *EncodeOptions) *image.Paletted {
	pal := opts.Palette
	if len(pal) == 0 {
		pal = palette.Plan9
	}
	if hasTransparency(img) {
		if len(pal) > 255 {
			pal = pal[:255]
		}
		pal = append(color.Palette{color.Transparent}, pal...)
	}

	dr := img.Rect
	dest := image.NewPaletted(dr, pal)
	if opts.Dither {
		draw.FloydSteinberg.Draw(dest, dr, img, dr.Min)
	} else {
		draw.Draw(dest, dr, img, dr.Min, draw.Src)
	}
	return dest
}

func hasTransparency(img *image.NRGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] == 0 {
			return true
		}
	}
	return false
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
