package raster

import "errors"

var (
	// ErrAllocation is returned when a pixel buffer cannot be created.
	ErrAllocation = errors.New("raster: cannot allocate buffer")

	// ErrDecode is returned when source data is not a decodable image.
	ErrDecode = errors.New("raster: cannot decode image")

	// ErrEncode is returned when a buffer cannot be written out.
	ErrEncode = errors.New("raster: cannot encode image")

	// ErrFont is returned for unreadable or unparsable font files.
	ErrFont = errors.New("raster: invalid font")

	// ErrReleased is the panic value for any use of a released buffer.
	ErrReleased = errors.New("raster: buffer already released")
)
