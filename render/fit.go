package render

import (
	"image"
	"log/slog"
	"math"

	"picstack/paint"
)

// Fit resizes into a Width x Height box keeping the aspect ratio. With
// Crop the source is trimmed to the box's aspect ratio first; otherwise
// the result shrinks along one axis. A zero dimension keeps the source's.
type Fit struct {
	Width  int  `json:"width,omitempty"`
	Height int  `json:"height,omitempty"`
	Crop   bool `json:"crop,omitempty"`
}

// geometry returns the source region to keep and the size to scale it to.
func (f Fit) geometry(srcW, srcH int) (image.Rectangle, image.Point) {
	srcBounds := image.Rect(0, 0, srcW, srcH)
	srcWidth := float64(srcW)
	srcHeight := float64(srcH)

	destWidth := float64(f.Width)
	if destWidth == 0 {
		destWidth = srcWidth
	}

	destHeight := float64(f.Height)
	if destHeight == 0 {
		destHeight = srcHeight
	}

	destSize := image.Pt(int(destWidth), int(destHeight))
	if (srcWidth == destWidth) && (srcHeight == destHeight) {
		return srcBounds, destSize
	}

	srcAR := srcWidth / srcHeight
	destAR := destWidth / destHeight
	if f.Crop {
		if srcAR < destAR {
			dh := int(math.Round((srcHeight - srcWidth/destAR) / 2))
			srcBounds.Min.Y += dh
			srcBounds.Max.Y -= dh
		} else if srcAR > destAR {
			dw := int(math.Round((srcWidth - srcHeight*destAR) / 2))
			srcBounds.Min.X += dw
			srcBounds.Max.X -= dw
		}
	} else {
		if srcAR < destAR {
			destSize.X = max(1, int(math.Round(destHeight*srcAR)))
		} else if srcAR > destAR {
			destSize.Y = max(1, int(math.Round(destWidth/srcAR)))
		}
	}

	return srcBounds, destSize
}

func (f Fit) apply(logger *slog.Logger, p *paint.Painter) error {
	region, size := f.geometry(p.Width(), p.Height())

	if region != image.Rect(0, 0, p.Width(), p.Height()) {
		logger.Debug("cropping to aspect ratio", "region", region)
		if err := p.Crop(region.Dx(), region.Dy(), region.Min.X, region.Min.Y, 0); err != nil {
			return err
		}
	}
	if size != image.Pt(p.Width(), p.Height()) {
		logger.Info("resizing", "width", size.X, "height", size.Y)
		if err := p.Scale(size.X, size.Y); err != nil {
			return err
		}
	}
	return nil
}
